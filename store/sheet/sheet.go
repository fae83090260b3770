/*
Package sheet implements the row store over a local CSV file.

PURPOSE:
  The system of record was historically a spreadsheet tab named
  "Controle de Horário" with the header
  Data, Funcionário, Pedido/OS, Tipo, Horário, Observação.
  This store reproduces that contract on disk: a CSV file whose first
  record is that header and whose later records are clock-event rows
  in append order. Files written here open cleanly in the original
  sheet and vice versa.

TOLERANCE:
  Rows shorter than the fixed width are padded with empty fields on
  read; historical sheets contain such rows.
*/
package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/helpdesk/attendance-engine/ledger"
)

// Sheet implements ledger.EventStore over a CSV file.
type Sheet struct {
	mu   sync.Mutex
	path string
}

// New opens (or creates, with the fixed header) the CSV file at path.
func New(path string) (*Sheet, error) {
	s := &Sheet{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheet file: %w", err)
		}
		w := csv.NewWriter(f)
		if err := w.Write(ledger.Header()); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("failed to create sheet file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat sheet file: %w", err)
	}

	return s, nil
}

// AppendRow appends one record to the file.
func (s *Sheet) AppendRow(_ context.Context, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open sheet file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ledger.PadRow(row)); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

// ReadAll returns every record, header first, short rows padded.
func (s *Sheet) ReadAll(_ context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sheet file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // historical sheets have ragged rows
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet file: %w", err)
	}

	for i, rec := range records {
		records[i] = ledger.PadRow(rec)
	}
	return records, nil
}
