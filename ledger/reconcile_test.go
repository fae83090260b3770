package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/helpdesk/attendance-engine/ledger"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func at(hour, min int) time.Time {
	return time.Date(2025, time.March, 10, hour, min, 0, 0, time.Local)
}

func ev(ts time.Time, et ledger.EventType) ledger.AttendanceEvent {
	return ledger.AttendanceEvent{
		Timestamp: ts,
		Employee:  "Alice",
		WorkOrder: "OS-123",
		Type:      et,
	}
}

// =============================================================================
// RECONCILIATION
// =============================================================================

func TestReconcile_ClosedSession_SumsIntervals(t *testing.T) {
	// GIVEN: 08:00 Entrada, 09:00 Pausa, 10:00 Retorno, 12:00 Saída
	// THEN: 1h + 2h = 3h worked, status closed
	events := []ledger.AttendanceEvent{
		ev(at(8, 0), ledger.EventEntrada),
		ev(at(9, 0), ledger.EventPausa),
		ev(at(10, 0), ledger.EventRetorno),
		ev(at(12, 0), ledger.EventSaida),
	}

	session := ledger.Reconcile(events, at(18, 0))

	assert.Equal(t, ledger.StatusClosed, session.Status)
	assert.Equal(t, 3*time.Hour, session.Accumulated)
	assert.Equal(t, at(8, 0), session.OpenedAt)
}

func TestReconcile_ClosedSession_InvariantToAsOf(t *testing.T) {
	events := []ledger.AttendanceEvent{
		ev(at(8, 0), ledger.EventEntrada),
		ev(at(12, 0), ledger.EventSaida),
	}

	early := ledger.Reconcile(events, at(13, 0))
	late := ledger.Reconcile(events, at(23, 0))

	assert.Equal(t, early.Accumulated, late.Accumulated)
	assert.Equal(t, ledger.StatusClosed, early.Status)
	assert.Equal(t, ledger.StatusClosed, late.Status)
}

func TestReconcile_Idempotent(t *testing.T) {
	events := []ledger.AttendanceEvent{
		ev(at(8, 0), ledger.EventEntrada),
		ev(at(9, 30), ledger.EventPausa),
		ev(at(10, 0), ledger.EventRetorno),
		ev(at(12, 0), ledger.EventSaida),
	}

	first := ledger.Reconcile(events, at(15, 0))
	second := ledger.Reconcile(events, at(15, 0))

	assert.Equal(t, first, second)
}

func TestReconcile_ActiveSession_AccruesUpToAsOf(t *testing.T) {
	events := []ledger.AttendanceEvent{
		ev(at(8, 0), ledger.EventEntrada),
	}

	session := ledger.Reconcile(events, at(10, 30))

	assert.Equal(t, ledger.StatusActive, session.Status)
	assert.Equal(t, 2*time.Hour+30*time.Minute, session.Accumulated)
}

func TestReconcile_ActiveSession_MonotonicAccrual(t *testing.T) {
	events := []ledger.AttendanceEvent{
		ev(at(8, 0), ledger.EventEntrada),
		ev(at(9, 0), ledger.EventPausa),
		ev(at(9, 15), ledger.EventRetorno),
	}

	earlier := ledger.Reconcile(events, at(10, 0))
	later := ledger.Reconcile(events, at(11, 0))

	assert.GreaterOrEqual(t, later.Accumulated, earlier.Accumulated)
	assert.Equal(t, later.Accumulated-earlier.Accumulated, time.Hour)
}

func TestReconcile_PausedSession_NoAccrualWhilePaused(t *testing.T) {
	// GIVEN: work paused at 09:00 with no Retorno
	// THEN: status paused, worked time frozen regardless of asOf
	events := []ledger.AttendanceEvent{
		ev(at(8, 0), ledger.EventEntrada),
		ev(at(9, 0), ledger.EventPausa),
	}

	session := ledger.Reconcile(events, at(17, 0))
	laterSession := ledger.Reconcile(events, at(23, 0))

	assert.Equal(t, ledger.StatusPaused, session.Status)
	assert.Equal(t, time.Hour, session.Accumulated)
	assert.Equal(t, session.Accumulated, laterSession.Accumulated)
}

func TestReconcile_NoEvents_NoSession(t *testing.T) {
	session := ledger.Reconcile(nil, at(12, 0))
	assert.Equal(t, ledger.StatusNone, session.Status)
	assert.Zero(t, session.Accumulated)
}

func TestReconcile_OrphanPausa_ContributesNothing(t *testing.T) {
	// A window filtered mid-session can start with a Pausa whose
	// Entrada fell outside the window. It must not accrue.
	events := []ledger.AttendanceEvent{
		ev(at(9, 0), ledger.EventPausa),
	}

	session := ledger.Reconcile(events, at(12, 0))

	assert.Equal(t, ledger.StatusPaused, session.Status)
	assert.Zero(t, session.Accumulated)
}

func TestReconcile_NewEntradaAfterSaida_ResetsOpenedAt(t *testing.T) {
	events := []ledger.AttendanceEvent{
		ev(at(8, 0), ledger.EventEntrada),
		ev(at(10, 0), ledger.EventSaida),
		ev(at(14, 0), ledger.EventEntrada),
	}

	session := ledger.Reconcile(events, at(15, 0))

	assert.Equal(t, ledger.StatusActive, session.Status)
	assert.Equal(t, at(14, 0), session.OpenedAt, "opening time restarts with the new run")
	assert.Equal(t, 3*time.Hour, session.Accumulated, "2h morning + 1h afternoon")
}

func TestReconcile_UnorderedInput_SortedBeforeReplay(t *testing.T) {
	events := []ledger.AttendanceEvent{
		ev(at(12, 0), ledger.EventSaida),
		ev(at(8, 0), ledger.EventEntrada),
		ev(at(10, 0), ledger.EventRetorno),
		ev(at(9, 0), ledger.EventPausa),
	}

	session := ledger.Reconcile(events, at(18, 0))

	assert.Equal(t, ledger.StatusClosed, session.Status)
	assert.Equal(t, 3*time.Hour, session.Accumulated)
}

// =============================================================================
// DISPLAY FORMAT
// =============================================================================

func TestFormatWorked_TruncatesNeverRounds(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{3 * time.Hour, "3h 0m"},
		{3*time.Hour + 5*time.Minute, "3h 5m"},
		{59*time.Minute + 59*time.Second, "0h 59m"},
		{0, "0h 0m"},
		{-time.Minute, "0h 0m"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ledger.FormatWorked(tc.d))
	}
}
