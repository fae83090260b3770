/*
Package sqlite provides a SQLite-backed implementation of the row store.

PURPOSE:
  Persists clock-event rows in an append-only table. The table mirrors
  the spreadsheet layout column for column, so rows round-trip through
  the same 6-field wire format as the sheet store.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on the attendance_rows table
  - No DELETE statements on the attendance_rows table
  Sequence position comes from an AUTOINCREMENT column, so ReadAll
  always returns rows in insertion order.

WAL MODE:
  Opened with WAL for better concurrency: readers don't block, single
  writer at a time, better crash recovery.

USAGE:
  st, err := sqlite.New("./attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - ledger/store.go: the EventStore interface
  - store/sheet/sheet.go: CSV-file implementation with the same contract
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/helpdesk/attendance-engine/ledger"
)

// Store implements ledger.EventStore over SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

func New(dbPath string) (*Store, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// One in-memory database per connection; keep a single one.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS attendance_rows (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL,
		data        TEXT NOT NULL,
		funcionario TEXT NOT NULL,
		pedido_os   TEXT NOT NULL,
		tipo        TEXT NOT NULL,
		horario     TEXT NOT NULL,
		observacao  TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_attendance_pair
		ON attendance_rows (funcionario, pedido_os, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

// AppendRow inserts one row. This is the only write operation.
func (s *Store) AppendRow(ctx context.Context, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row = ledger.PadRow(row)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_rows
		(id, data, funcionario, pedido_os, tipo, horario, observacao, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		row[0], row[1], row[2], row[3], row[4], row[5],
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

// ReadAll returns every row in insertion order, header first.
func (s *Store) ReadAll(ctx context.Context) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT data, funcionario, pedido_os, tipo, horario, observacao
		FROM attendance_rows ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	defer rows.Close()

	out := [][]string{ledger.Header()}
	for rows.Next() {
		row := make([]string, ledger.RowWidth)
		if err := rows.Scan(&row[0], &row[1], &row[2], &row[3], &row[4], &row[5]); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return out, nil
}
