/*
main.go - Application entry point

STARTUP SEQUENCE:
  1. Load environment config (.env honored), apply flag overrides
  2. Open the row store (sqlite, sheet or memory backend)
  3. Wire cache, clock and service
  4. Start the HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -port   HTTP server port (overrides PORT)
  -store  backend: sqlite | sheet | memory (overrides STORE_BACKEND)
  -path   database or CSV file path (overrides STORE_PATH)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait up to 30s for
  active requests, close the store, exit.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/helpdesk/attendance-engine/api"
	"github.com/helpdesk/attendance-engine/config"
	"github.com/helpdesk/attendance-engine/ledger"
	memstore "github.com/helpdesk/attendance-engine/ledger/store"
	"github.com/helpdesk/attendance-engine/store/sheet"
	"github.com/helpdesk/attendance-engine/store/sqlite"
)

func main() {
	cfg := config.FromEnv()

	port := flag.Int("port", cfg.Port, "HTTP server port")
	backend := flag.String("store", cfg.StoreBackend, "store backend: sqlite | sheet | memory")
	path := flag.String("path", cfg.StorePath, "database or CSV file path")
	flag.Parse()

	store, closeStore, err := openStore(*backend, *path)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", *backend, err)
	}
	defer closeStore()

	clock := ledger.SystemClock{}
	cache := ledger.NewTTLCache(clock, cfg.CacheTTL)
	service := ledger.NewService(store, cache, clock, cfg.AppendTimeout)

	router := api.NewRouter(api.NewHandler(service, clock))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Attendance engine listening on http://localhost:%d (store: %s)", *port, *backend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}

func openStore(backend, path string) (ledger.EventStore, func(), error) {
	switch backend {
	case "sqlite":
		st, err := sqlite.New(path)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { st.Close() }, nil
	case "sheet":
		st, err := sheet.New(path)
		if err != nil {
			return nil, nil, err
		}
		return st, func() {}, nil
	case "memory":
		return memstore.NewMemory(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
