package ledger_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk/attendance-engine/ledger"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.Local)
}

func evOn(d time.Time, employee, workOrder string, et ledger.EventType) ledger.AttendanceEvent {
	return ledger.AttendanceEvent{Timestamp: d, Employee: employee, WorkOrder: workOrder, Type: et}
}

// =============================================================================
// WINDOW NORMALIZATION
// =============================================================================

func TestRunQuery_ReversedRange_Swapped(t *testing.T) {
	events := []ledger.AttendanceEvent{
		evOn(day(5), "Alice", "OS-1", ledger.EventEntrada),
	}

	result := ledger.RunQuery(events, ledger.Query{From: day(10), To: day(1)}, day(20))

	assert.Equal(t, day(1), result.From)
	assert.Equal(t, day(10), result.To)
	assert.Len(t, result.Events, 1)
	assert.Empty(t, result.Warnings)
}

func TestRunQuery_RangeCapped_At30Days(t *testing.T) {
	// GIVEN: a 45-day window request
	// THEN: the window narrows to the 30 days ending at the original
	//       end date and a range_capped warning is returned
	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2025, time.February, 15, 0, 0, 0, 0, time.Local)

	result := ledger.RunQuery(nil, ledger.Query{From: from, To: to}, to)

	assert.Equal(t, to, result.To, "end date is preserved")
	assert.Equal(t, to.AddDate(0, 0, -30), result.From)
	assert.Contains(t, result.Warnings, ledger.WarnRangeCapped)
}

func TestRunQuery_ExactlyThirtyDays_NotCapped(t *testing.T) {
	to := day(31)
	result := ledger.RunQuery(nil, ledger.Query{From: day(1), To: to}, to)

	assert.Equal(t, day(1), result.From)
	assert.Empty(t, result.Warnings)
}

func TestRunQuery_NoDates_DefaultsToToday(t *testing.T) {
	today := day(15)
	events := []ledger.AttendanceEvent{
		evOn(day(15).Add(8*time.Hour), "Alice", "OS-1", ledger.EventEntrada),
		evOn(day(14).Add(8*time.Hour), "Alice", "OS-1", ledger.EventEntrada),
	}

	result := ledger.RunQuery(events, ledger.Query{}, today)

	require.Len(t, result.Events, 1)
	assert.Equal(t, day(15), result.From)
	assert.Equal(t, day(15), result.To)
}

// =============================================================================
// FILTERS
// =============================================================================

func TestRunQuery_EmployeeFilter_CaseInsensitiveSubstring(t *testing.T) {
	events := []ledger.AttendanceEvent{
		evOn(day(5), "Alice Santos", "OS-1", ledger.EventEntrada),
		evOn(day(5), "Bob Pereira", "OS-2", ledger.EventEntrada),
	}
	q := ledger.Query{From: day(1), To: day(10), Employee: "alice"}

	result := ledger.RunQuery(events, q, day(10))

	require.Len(t, result.Events, 1)
	assert.Equal(t, "Alice Santos", result.Events[0].Employee)
}

func TestRunQuery_WorkOrderFilter_Substring(t *testing.T) {
	events := []ledger.AttendanceEvent{
		evOn(day(5), "Alice", "OS-123", ledger.EventEntrada),
		evOn(day(5), "Alice", "OS-456", ledger.EventEntrada),
	}
	q := ledger.Query{From: day(1), To: day(10), WorkOrder: "123"}

	result := ledger.RunQuery(events, q, day(10))

	require.Len(t, result.Events, 1)
	assert.Equal(t, "OS-123", result.Events[0].WorkOrder)
}

func TestRunQuery_TypeFilter_ExactMatch(t *testing.T) {
	events := []ledger.AttendanceEvent{
		evOn(day(5).Add(8*time.Hour), "Alice", "OS-1", ledger.EventEntrada),
		evOn(day(5).Add(9*time.Hour), "Alice", "OS-1", ledger.EventPausa),
		evOn(day(5).Add(10*time.Hour), "Alice", "OS-1", ledger.EventRetorno),
	}
	q := ledger.Query{From: day(1), To: day(10), Type: ledger.EventPausa}

	result := ledger.RunQuery(events, q, day(10))

	require.Len(t, result.Events, 1)
	assert.Equal(t, ledger.EventPausa, result.Events[0].Type)
}

// =============================================================================
// ORDERING AND PAGINATION
// =============================================================================

func TestRunQuery_SortedNewestFirst(t *testing.T) {
	events := []ledger.AttendanceEvent{
		evOn(day(3).Add(8*time.Hour), "Alice", "OS-1", ledger.EventEntrada),
		evOn(day(5).Add(8*time.Hour), "Alice", "OS-1", ledger.EventEntrada),
		evOn(day(5).Add(17*time.Hour), "Alice", "OS-1", ledger.EventSaida),
	}
	q := ledger.Query{From: day(1), To: day(10)}

	result := ledger.RunQuery(events, q, day(10))

	require.Len(t, result.Events, 3)
	assert.Equal(t, day(5).Add(17*time.Hour), result.Events[0].Timestamp)
	assert.Equal(t, day(5).Add(8*time.Hour), result.Events[1].Timestamp)
	assert.Equal(t, day(3).Add(8*time.Hour), result.Events[2].Timestamp)
}

func TestRunQuery_Pagination(t *testing.T) {
	var events []ledger.AttendanceEvent
	for i := 0; i < 45; i++ {
		events = append(events, evOn(day(5).Add(time.Duration(i)*time.Minute),
			fmt.Sprintf("emp-%02d", i), "OS-1", ledger.EventEntrada))
	}
	q := ledger.Query{From: day(1), To: day(10), Page: 2, PageSize: 20}

	result := ledger.RunQuery(events, q, day(10))

	assert.Equal(t, 45, result.Total, "total counts all matches, not the page")
	assert.Len(t, result.Events, 20)
}

func TestRunQuery_PageBeyondEnd_Empty(t *testing.T) {
	events := []ledger.AttendanceEvent{
		evOn(day(5), "Alice", "OS-1", ledger.EventEntrada),
	}
	q := ledger.Query{From: day(1), To: day(10), Page: 9, PageSize: 20}

	result := ledger.RunQuery(events, q, day(10))

	assert.Equal(t, 1, result.Total)
	assert.Empty(t, result.Events)
}

func TestRunQueryFull_NoPagination_CapStillApplies(t *testing.T) {
	var events []ledger.AttendanceEvent
	for i := 0; i < 45; i++ {
		events = append(events, evOn(day(5).Add(time.Duration(i)*time.Minute),
			"Alice", "OS-1", ledger.EventEntrada))
	}
	q := ledger.Query{From: day(1).AddDate(0, -6, 0), To: day(10), Page: 1, PageSize: 5}

	result := ledger.RunQueryFull(events, q, day(10))

	assert.Len(t, result.Events, 45, "full mode ignores page slicing")
	assert.Contains(t, result.Warnings, ledger.WarnRangeCapped)
}
