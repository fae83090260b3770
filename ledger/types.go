/*
Package ledger implements the attendance time-clock engine.

PURPOSE:
  An append-only log of clock events (Entrada, Pausa, Retorno, Saída)
  keyed by (employee, work order). Worked time is never stored - it is
  always derived by replaying the event history, so the log and the
  derived view cannot drift apart.

KEY CONCEPTS IN THIS FILE (types.go):
  - EventType: the four clock actions
  - AttendanceEvent: one immutable row of the log
  - Pair: the (employee, work order) grouping key
  - Session: derived state of a pair (never persisted)
  - Wire row codec: the 6-column spreadsheet-compatible row format

DESIGN PRINCIPLES:
  1. Append-only: events are never edited; corrections append new events
  2. Derived state: sessions are recomputed from history on every read
  3. Tolerant decoding: short or malformed rows degrade, they don't crash

SEE ALSO:
  - sequence.go: Which event may follow which
  - reconcile.go: Replaying history into a Session
  - service.go: The orchestrating service
*/
package ledger

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// EVENT TYPE - The four clock actions
// =============================================================================

type EventType string

const (
	EventEntrada EventType = "Entrada" // clock in
	EventPausa   EventType = "Pausa"   // pause
	EventRetorno EventType = "Retorno" // resume
	EventSaida   EventType = "Saída"   // clock out
)

// ParseEventType maps user input to an EventType. Matching is
// case-insensitive and accepts "saida" without the accent.
func ParseEventType(s string) (EventType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entrada":
		return EventEntrada, true
	case "pausa":
		return EventPausa, true
	case "retorno":
		return EventRetorno, true
	case "saída", "saida":
		return EventSaida, true
	}
	return "", false
}

// =============================================================================
// PAIR - Grouping key for validation and reconciliation
// =============================================================================

// Pair identifies one stream of events: one employee working one
// work order. Both fields are free text, not foreign keys.
type Pair struct {
	Employee  string
	WorkOrder string
}

func (p Pair) String() string { return p.Employee + "|" + p.WorkOrder }

// =============================================================================
// ATTENDANCE EVENT - One immutable log entry
// =============================================================================

// AttendanceEvent is one row of the clock log.
// Timestamp carries both the calendar date (day granularity in the
// wire format) and the time of day (second granularity).
type AttendanceEvent struct {
	Timestamp time.Time
	Employee  string
	WorkOrder string
	Type      EventType
	Note      string
}

func (e AttendanceEvent) Pair() Pair {
	return Pair{Employee: e.Employee, WorkOrder: e.WorkOrder}
}

// =============================================================================
// WIRE ROW CODEC - Spreadsheet-compatible 6-column rows
// =============================================================================

const (
	dateLayout    = "02/01/2006"
	dateLayoutISO = "2006-01-02"
	timeLayout    = "15:04:05"

	// RowWidth is the fixed number of columns in a stored row.
	RowWidth = 6
)

// Header is the fixed first row of the store. It is never data.
func Header() []string {
	return []string{"Data", "Funcionário", "Pedido/OS", "Tipo", "Horário", "Observação"}
}

// Row encodes the event as a stored row:
// [dd/mm/YYYY, employee, work order, type, HH:MM:SS, note].
func (e AttendanceEvent) Row() []string {
	return []string{
		e.Timestamp.Format(dateLayout),
		e.Employee,
		e.WorkOrder,
		string(e.Type),
		e.Timestamp.Format(timeLayout),
		e.Note,
	}
}

// EventFromRow decodes a stored row. Rows shorter than RowWidth are
// padded with empty fields; unknown dates or event types are errors so
// callers can skip the row instead of mis-grouping it.
func EventFromRow(row []string) (AttendanceEvent, error) {
	row = PadRow(row)

	day, err := ParseDate(row[0])
	if err != nil {
		return AttendanceEvent{}, fmt.Errorf("%w: bad date %q", ErrMalformedRow, row[0])
	}

	et, ok := ParseEventType(row[3])
	if !ok {
		return AttendanceEvent{}, fmt.Errorf("%w: bad event type %q", ErrMalformedRow, row[3])
	}

	// A missing or malformed time defaults to midnight, mirroring how
	// the historical sheet data is read.
	tod, terr := time.Parse(timeLayout, strings.TrimSpace(row[4]))
	if terr != nil {
		tod = time.Time{}
	}

	return AttendanceEvent{
		Timestamp: time.Date(day.Year(), day.Month(), day.Day(),
			tod.Hour(), tod.Minute(), tod.Second(), 0, day.Location()),
		Employee:  row[1],
		WorkOrder: row[2],
		Type:      et,
		Note:      row[5],
	}, nil
}

// PadRow extends a short row to RowWidth with empty strings.
func PadRow(row []string) []string {
	if len(row) >= RowWidth {
		return row[:RowWidth]
	}
	padded := make([]string, RowWidth)
	copy(padded, row)
	return padded
}

// ParseDate accepts the sheet format (dd/mm/YYYY) and the HTML date
// input format (YYYY-mm-dd).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{dateLayout, dateLayoutISO} {
		if d, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}

// =============================================================================
// SESSION - Derived state of a pair (never persisted)
// =============================================================================

type SessionStatus string

const (
	StatusNone   SessionStatus = "no-session"
	StatusActive SessionStatus = "active"
	StatusPaused SessionStatus = "paused"
	StatusClosed SessionStatus = "closed"
)

// Session is the replayed state of one pair at a point in time.
// It is recomputed from the event history on every read.
type Session struct {
	Status SessionStatus

	// Accumulated is the sum of completed work intervals, in whole
	// seconds. For an active session it includes the running interval
	// up to the reconciliation instant.
	Accumulated time.Duration

	// OpenedAt is the earliest Entrada of the current open run. It
	// resets when a new Entrada follows a Saída.
	OpenedAt time.Time
}

// FormatWorked renders a duration as "3h 5m". Truncates, never rounds,
// so worked time is never overstated.
func FormatWorked(d time.Duration) string {
	total := int(d.Seconds())
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%dh %dm", total/3600, (total%3600)/60)
}
