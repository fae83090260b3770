// Package store provides EventStore implementations for tests and dev.
package store

import (
	"context"
	"sync"

	"github.com/helpdesk/attendance-engine/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps rows in a slice, header first, append order preserved.
type Memory struct {
	mu   sync.RWMutex
	rows [][]string
}

func NewMemory() *Memory {
	return &Memory{rows: [][]string{ledger.Header()}}
}

// AppendRow adds a single row. Append-only.
func (m *Memory) AppendRow(_ context.Context, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]string, len(row))
	copy(stored, row)
	m.rows = append(m.rows, ledger.PadRow(stored))
	return nil
}

// ReadAll returns a deep copy so callers can't mutate stored rows.
func (m *Memory) ReadAll(_ context.Context) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([][]string, len(m.rows))
	for i, row := range m.rows {
		c := make([]string, len(row))
		copy(c, row)
		out[i] = c
	}
	return out, nil
}

// Len reports the number of data rows (header excluded).
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows) - 1
}
