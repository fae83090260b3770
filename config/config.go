/*
Package config loads runtime configuration from the environment.

A .env file in the working directory is honored when present
(development convenience); real environment variables win. Command-line
flags in cmd/server layer on top of this for local overrides.
*/
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port int

	// StoreBackend selects the row store: "sqlite", "sheet" or "memory".
	StoreBackend string
	// StorePath is the database or CSV file path for the chosen backend.
	StorePath string

	CacheTTL      time.Duration
	AppendTimeout time.Duration
}

// FromEnv builds a Config from the environment with production defaults.
func FromEnv() Config {
	_ = godotenv.Load() // missing .env is fine

	return Config{
		Port:          envInt("PORT", 8080),
		StoreBackend:  envString("STORE_BACKEND", "sqlite"),
		StorePath:     envString("STORE_PATH", "attendance.db"),
		CacheTTL:      time.Duration(envInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		AppendTimeout: time.Duration(envInt("APPEND_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
