/*
reconcile.go - Replaying a pair's history into a Session

PURPOSE:
  Derives worked time and current status from the raw event stream.
  There is no stored "session" record anywhere - this replay IS the
  session, recomputed on every read. Pure function, no hidden state,
  safe to call any number of times.

ALGORITHM:
  Walk events in chronological order keeping a single "work started
  at" marker:
    Entrada/Retorno -> set the marker
    Pausa           -> close the running interval, clear the marker
    Saída           -> close the running interval, clear the marker
  After the walk, a still-set marker means the session is active and
  the running interval accrues up to asOf. A trailing Pausa leaves the
  session paused; a trailing Saída leaves it closed.

NUMERIC SEMANTICS:
  Durations are whole seconds. Orphan Pausa/Retorno events (possible
  when reconciling a date-filtered window that cut off the opening
  Entrada) contribute nothing: the marker guard makes them no-ops.
*/
package ledger

import (
	"sort"
	"time"
)

// Reconcile replays one pair's events and returns its Session as of
// the given instant. The input slice is not modified.
func Reconcile(events []AttendanceEvent, asOf time.Time) Session {
	if len(events) == 0 {
		return Session{Status: StatusNone}
	}

	ordered := make([]AttendanceEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	var (
		accumulated time.Duration
		workStart   time.Time
		openedAt    time.Time
		running     bool
		open        bool
		lastType    EventType
	)

	for _, ev := range ordered {
		switch ev.Type {
		case EventEntrada:
			workStart = ev.Timestamp
			running = true
			if !open {
				// New run: a previous Saída (or no history) ended the
				// last one, so the opening time resets here.
				openedAt = ev.Timestamp
				open = true
			}
		case EventRetorno:
			workStart = ev.Timestamp
			running = true
		case EventPausa:
			if running {
				accumulated += ev.Timestamp.Sub(workStart)
				running = false
			}
		case EventSaida:
			if running {
				accumulated += ev.Timestamp.Sub(workStart)
				running = false
			}
			open = false
		}
		lastType = ev.Type
	}

	session := Session{
		Accumulated: accumulated.Truncate(time.Second),
		OpenedAt:    openedAt,
	}

	switch {
	case running:
		session.Accumulated = (accumulated + asOf.Sub(workStart)).Truncate(time.Second)
		session.Status = StatusActive
	case lastType == EventPausa:
		// Paused, not active: no accrual while paused, and display
		// filters treat the pair as on break.
		session.Status = StatusPaused
	default:
		session.Status = StatusClosed
	}

	return session
}
