/*
store.go - Collaborator interfaces: the row store and the clock

PURPOSE:
  The system of record is an ordered row collection (historically a
  spreadsheet tab). The engine only needs two operations from it:
  append one row, read every row. There is no compare-and-swap and no
  row-level locking - serialization of writes is the service's job.

APPEND-ONLY CONTRACT:
  No update, no delete. Administrative corrections append new rows
  (e.g. a synthetic Saída); history is never rewritten. The first row
  is always the fixed header and is never data.

IMPLEMENTATIONS:
  - ledger/store/memory.go: in-memory, for tests and dev
  - store/sqlite/sqlite.go: SQLite-backed, production default
  - store/sheet/sheet.go:   CSV file with the spreadsheet's layout
*/
package ledger

import (
	"context"
	"time"
)

// EventStore persists ordered rows. Append-only: no update, no delete.
type EventStore interface {
	// AppendRow persists one row of RowWidth string fields.
	AppendRow(ctx context.Context, row []string) error

	// ReadAll returns every stored row in insertion order, the fixed
	// header row first.
	ReadAll(ctx context.Context) ([][]string, error)
}

// Clock supplies the current time. Injected for testability.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
