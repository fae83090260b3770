/*
service.go - Orchestration: validate, append, invalidate, derive

PURPOSE:
  Service ties the pieces together. A clock action comes in, the last
  event for its pair is looked up from the freshest available read,
  the sequence rule is checked, and only then is a row appended and
  the read cache invalidated. The active-sessions view replays every
  open pair in the current window.

CONCURRENCY:
  The row store offers no transaction across "read last event" +
  "append", so two concurrent writers for the SAME pair could both
  pass validation and corrupt the sequence. Writes are therefore
  serialized with a per-pair mutex. Different pairs don't contend.

TIMEOUTS:
  Appends run under a bounded timeout. A timed-out append is reported
  as ErrUnknownOutcome, never as a plain failure: the row may have
  been persisted upstream. The cache is cleared in that case so the
  next read observes whatever actually landed.
*/
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

const cacheKeyRows = "attendance_rows"

// DefaultForceCloseNote annotates synthetic check-outs appended by an
// administrative close.
const DefaultForceCloseNote = "Fechamento de OS"

// Service orchestrates reads, validation and appends over the event
// store. All dependencies are injected; Service owns no global state.
type Service struct {
	store         EventStore
	cache         ReadCache
	clock         Clock
	appendTimeout time.Duration

	pairMu sync.Mutex
	pairs  map[Pair]*sync.Mutex
}

func NewService(store EventStore, cache ReadCache, clock Clock, appendTimeout time.Duration) *Service {
	return &Service{
		store:         store,
		cache:         cache,
		clock:         clock,
		appendTimeout: appendTimeout,
		pairs:         make(map[Pair]*sync.Mutex),
	}
}

// =============================================================================
// READS
// =============================================================================

// Events returns the decoded event log, newest last, from the cache
// or the store. Malformed legacy rows are skipped, not fatal.
func (s *Service) Events(ctx context.Context) ([]AttendanceEvent, error) {
	rows, ok := s.cache.Get(cacheKeyRows)
	if !ok {
		var err error
		rows, err = s.store.ReadAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		s.cache.Set(cacheKeyRows, rows)
	}

	events := make([]AttendanceEvent, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // fixed header row
		}
		ev, err := EventFromRow(row)
		if err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// Records returns one page of the filtered history view.
func (s *Service) Records(ctx context.Context, q Query) (QueryResult, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return QueryResult{}, err
	}
	return RunQuery(events, q, s.clock.Now()), nil
}

// Export returns the full filtered view, unpaginated, for encoders.
func (s *Service) Export(ctx context.Context, q Query) (QueryResult, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return QueryResult{}, err
	}
	return RunQueryFull(events, q, s.clock.Now()), nil
}

// ActiveSession is one row of the live view: a pair whose replayed
// session is not closed.
type ActiveSession struct {
	Pair    Pair
	Session Session
}

// ActiveSessions replays every pair seen in the trailing window and
// returns those still active or paused, ordered by employee then
// work order.
func (s *Service) ActiveSessions(ctx context.Context, asOf time.Time) ([]ActiveSession, error) {
	if asOf.IsZero() {
		asOf = s.clock.Now()
	}

	events, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}

	windowStart := dayOf(asOf).AddDate(0, 0, -MaxRangeDays)
	byPair := make(map[Pair][]AttendanceEvent)
	for _, ev := range events {
		if dayOf(ev.Timestamp).Before(windowStart) {
			continue
		}
		if ev.WorkOrder == "" {
			continue
		}
		byPair[ev.Pair()] = append(byPair[ev.Pair()], ev)
	}

	var active []ActiveSession
	for pair, evs := range byPair {
		session := Reconcile(evs, asOf)
		if session.Status == StatusActive || session.Status == StatusPaused {
			active = append(active, ActiveSession{Pair: pair, Session: session})
		}
	}

	sort.Slice(active, func(i, j int) bool {
		if active[i].Pair.Employee != active[j].Pair.Employee {
			return active[i].Pair.Employee < active[j].Pair.Employee
		}
		return active[i].Pair.WorkOrder < active[j].Pair.WorkOrder
	})
	return active, nil
}

// =============================================================================
// WRITES
// =============================================================================

// RecordEvent validates and appends one clock event. On success
// exactly one row is appended and the read cache is invalidated; on
// rejection nothing is written.
func (s *Service) RecordEvent(ctx context.Context, employee, workOrder string, proposed EventType, at time.Time, note string) (AttendanceEvent, error) {
	employee = strings.TrimSpace(employee)
	workOrder = strings.TrimSpace(workOrder)
	if employee == "" || workOrder == "" {
		return AttendanceEvent{}, fmt.Errorf("%w: employee and work order", ErrMissingField)
	}

	pair := Pair{Employee: employee, WorkOrder: workOrder}
	lock := s.pairLock(pair)
	lock.Lock()
	defer lock.Unlock()

	events, err := s.Events(ctx)
	if err != nil {
		return AttendanceEvent{}, err
	}

	if err := ValidateSequence(pair, lastEventType(events, pair), proposed); err != nil {
		return AttendanceEvent{}, err
	}

	if at.IsZero() {
		at = s.clock.Now()
	}
	ev := AttendanceEvent{
		Timestamp: at.Truncate(time.Second),
		Employee:  employee,
		WorkOrder: workOrder,
		Type:      proposed,
		Note:      note,
	}
	if err := s.append(ctx, ev.Row()); err != nil {
		return AttendanceEvent{}, err
	}

	s.cache.Invalidate(cacheKeyRows)
	return ev, nil
}

// ForceClose appends a synthetic Saída for a pair with an open
// session. Idempotent: a pair whose last event is already Saída (or
// that never clocked in) gets AlreadyClosedError and no row.
func (s *Service) ForceClose(ctx context.Context, employee, workOrder string, at time.Time, note string) (AttendanceEvent, error) {
	employee = strings.TrimSpace(employee)
	workOrder = strings.TrimSpace(workOrder)
	if employee == "" || workOrder == "" {
		return AttendanceEvent{}, fmt.Errorf("%w: employee and work order", ErrMissingField)
	}
	if note == "" {
		note = DefaultForceCloseNote
	}

	pair := Pair{Employee: employee, WorkOrder: workOrder}
	lock := s.pairLock(pair)
	lock.Lock()
	defer lock.Unlock()

	events, err := s.Events(ctx)
	if err != nil {
		return AttendanceEvent{}, err
	}

	last := lastEventType(events, pair)
	if last == "" || last == EventSaida {
		return AttendanceEvent{}, &AlreadyClosedError{Pair: pair}
	}

	if at.IsZero() {
		at = s.clock.Now()
	}
	ev := AttendanceEvent{
		Timestamp: at.Truncate(time.Second),
		Employee:  employee,
		WorkOrder: workOrder,
		Type:      EventSaida,
		Note:      note,
	}
	if err := s.append(ctx, ev.Row()); err != nil {
		return AttendanceEvent{}, err
	}

	s.cache.Invalidate(cacheKeyRows)
	return ev, nil
}

// ClearCache drops every memoized read. Exposed for the admin surface.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

// =============================================================================
// INTERNALS
// =============================================================================

func (s *Service) append(ctx context.Context, row []string) error {
	if s.appendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.appendTimeout)
		defer cancel()
	}

	err := s.store.AppendRow(ctx, row)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		// The row may have been persisted upstream. Drop the cache so
		// the next read observes whatever actually landed.
		s.cache.Clear()
		return fmt.Errorf("%w: %v", ErrUnknownOutcome, err)
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func (s *Service) pairLock(pair Pair) *sync.Mutex {
	s.pairMu.Lock()
	defer s.pairMu.Unlock()

	lock, ok := s.pairs[pair]
	if !ok {
		lock = &sync.Mutex{}
		s.pairs[pair] = lock
	}
	return lock
}

// lastEventType finds the most recently appended event for a pair.
// Store order, not timestamp order: the last appended row is what the
// next action is validated against. Empty means the pair never logged.
func lastEventType(events []AttendanceEvent, pair Pair) EventType {
	var last EventType
	for _, ev := range events {
		if ev.Employee == pair.Employee && ev.WorkOrder == pair.WorkOrder {
			last = ev.Type
		}
	}
	return last
}
