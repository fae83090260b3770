/*
Package report shapes the full (unpaginated) history view for export.

PURPOSE:
  Two consumers of the export path: the CSV download of the history
  screen, and the per-employee worked-hours summary. Both operate on
  the already filtered, already capped query result; no filtering
  happens here.

NUMERIC SEMANTICS:
  Worked hours are exact decimals truncated (never rounded) to two
  places, so a report never overstates worked time.
*/
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/helpdesk/attendance-engine/ledger"
)

// =============================================================================
// CSV EXPORT
// =============================================================================

// WriteCSV encodes events in the history sheet's column order.
func WriteCSV(w io.Writer, events []ledger.AttendanceEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ledger.Header()); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}
	for _, ev := range events {
		if err := cw.Write(ev.Row()); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}

// Filename names a download after its window: historico_20250101_20250131.csv.
func Filename(from, to time.Time) string {
	return fmt.Sprintf("historico_%s_%s.csv", from.Format("20060102"), to.Format("20060102"))
}

// =============================================================================
// PER-EMPLOYEE TOTALS
// =============================================================================

// EmployeeTotal sums one employee's worked time across every work
// order in the window.
type EmployeeTotal struct {
	Employee string
	Worked   time.Duration
	Hours    decimal.Decimal // Worked as decimal hours, truncated to 2 places
}

// EmployeeTotals replays each (employee, work order) pair in the
// window and aggregates accumulated time per employee. Ordered by
// employee name.
func EmployeeTotals(events []ledger.AttendanceEvent, asOf time.Time) []EmployeeTotal {
	byPair := make(map[ledger.Pair][]ledger.AttendanceEvent)
	for _, ev := range events {
		byPair[ev.Pair()] = append(byPair[ev.Pair()], ev)
	}

	worked := make(map[string]time.Duration)
	for pair, evs := range byPair {
		session := ledger.Reconcile(evs, asOf)
		worked[pair.Employee] += session.Accumulated
	}

	totals := make([]EmployeeTotal, 0, len(worked))
	for employee, d := range worked {
		seconds := decimal.NewFromInt(int64(d / time.Second))
		totals = append(totals, EmployeeTotal{
			Employee: employee,
			Worked:   d,
			Hours:    seconds.Div(decimal.NewFromInt(3600)).Truncate(2),
		})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Employee < totals[j].Employee })
	return totals
}
