/*
query.go - Filtering, sorting, pagination of the event log

PURPOSE:
  Turns the raw event log into the history view: bounded date window,
  substring filters, newest-first ordering, offset pagination, and an
  unpaginated mode for exports.

RULES:
  - A reversed date range is swapped, never rejected.
  - The window is capped at 30 days: a wider request is narrowed to
    the 30 days ending at the requested end date and flagged with a
    WarnRangeCapped warning. The query never errors over the range.
  - Employee and work-order filters are case-insensitive substring
    matches; the event-type filter is exact.
  - Results are ordered by (date, time) descending.
*/
package ledger

import (
	"sort"
	"strings"
	"time"
)

// MaxRangeDays is the hard ceiling on a single query window.
const MaxRangeDays = 30

// DefaultPageSize matches the history screen's page length.
const DefaultPageSize = 20

type Warning string

const WarnRangeCapped Warning = "range_capped"

// Query describes one history lookup. Zero From/To default to the
// reference day supplied to Run.
type Query struct {
	From      time.Time
	To        time.Time
	Employee  string // case-insensitive substring
	WorkOrder string // case-insensitive substring
	Type      EventType
	Page      int
	PageSize  int
}

// QueryResult is one page of the filtered view plus the normalized
// window it was computed over.
type QueryResult struct {
	Events   []AttendanceEvent
	Total    int
	From     time.Time
	To       time.Time
	Warnings []Warning
}

// RunQuery filters, sorts and paginates events. today anchors the
// default window when the query has no dates.
func RunQuery(events []AttendanceEvent, q Query, today time.Time) QueryResult {
	full := RunQueryFull(events, q, today)

	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = DefaultPageSize
	}

	start := (page - 1) * size
	if start > len(full.Events) {
		start = len(full.Events)
	}
	end := start + size
	if end > len(full.Events) {
		end = len(full.Events)
	}
	full.Events = full.Events[start:end]
	return full
}

// RunQueryFull is RunQuery without page slicing; the 30-day cap and
// all filters still apply. Used for exports and summaries.
func RunQueryFull(events []AttendanceEvent, q Query, today time.Time) QueryResult {
	from, to, warnings := normalizeRange(q.From, q.To, today)

	employee := strings.ToLower(q.Employee)
	workOrder := strings.ToLower(q.WorkOrder)

	var matched []AttendanceEvent
	for _, ev := range events {
		day := dayOf(ev.Timestamp)
		if day.Before(from) || day.After(to) {
			continue
		}
		if employee != "" && !strings.Contains(strings.ToLower(ev.Employee), employee) {
			continue
		}
		if workOrder != "" && !strings.Contains(strings.ToLower(ev.WorkOrder), workOrder) {
			continue
		}
		if q.Type != "" && ev.Type != q.Type {
			continue
		}
		matched = append(matched, ev)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	return QueryResult{
		Events:   matched,
		Total:    len(matched),
		From:     from,
		To:       to,
		Warnings: warnings,
	}
}

// normalizeRange defaults, orders and caps the window.
func normalizeRange(from, to, today time.Time) (time.Time, time.Time, []Warning) {
	day := dayOf(today)
	if from.IsZero() {
		from = day
	}
	if to.IsZero() {
		to = day
	}
	from, to = dayOf(from), dayOf(to)

	if from.After(to) {
		from, to = to, from
	}

	var warnings []Warning
	if to.Sub(from) > MaxRangeDays*24*time.Hour {
		from = to.AddDate(0, 0, -MaxRangeDays)
		warnings = append(warnings, WarnRangeCapped)
	}
	return from, to, warnings
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
