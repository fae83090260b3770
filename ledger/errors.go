/*
errors.go - Centralized error types for the attendance engine

PURPOSE:
  All error types in one place. Callers classify with errors.Is/As;
  structured errors carry context and unwrap to their sentinel.

ERROR CATEGORIES:
  1. Validation errors - illegal event sequences, nothing is written
  2. Store errors      - the external row store failed or timed out
  3. Decode errors     - malformed stored rows (skipped, not fatal)

PROPAGATION POLICY:
  Validation errors never reach the store. Store failures are wrapped
  into typed errors, never leaked as raw driver errors. Nothing in
  this package retries; retry policy belongs to the caller.
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidSequence is returned when a proposed event is illegal
	// given the last recorded event for the pair. Nothing is appended.
	ErrInvalidSequence = errors.New("invalid event sequence")

	// ErrAlreadyClosed is returned by a force-close when the pair has
	// no open session. Idempotent: nothing is appended.
	ErrAlreadyClosed = errors.New("no open session to close")

	// ErrStoreUnavailable is returned when the external row store
	// cannot be reached. Operations fail fast.
	ErrStoreUnavailable = errors.New("event store unavailable")

	// ErrUnknownOutcome is returned when an append timed out. The row
	// may or may not have been persisted; callers must re-query before
	// retrying to avoid duplicate events.
	ErrUnknownOutcome = errors.New("append outcome unknown")

	// ErrMalformedRow is returned when a stored row cannot be decoded.
	ErrMalformedRow = errors.New("malformed row")

	// ErrUnknownEventType is returned for an unrecognized clock action.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrMissingField is returned when a required identifier is blank.
	ErrMissingField = errors.New("missing required field")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// SequenceError reports an illegal transition for a pair.
type SequenceError struct {
	Pair     Pair
	Last     EventType // empty when the pair has no prior event
	Proposed EventType
}

func (e *SequenceError) Error() string {
	last := string(e.Last)
	if last == "" {
		last = "none"
	}
	return fmt.Sprintf("invalid sequence for %s: %s cannot follow %s", e.Pair, e.Proposed, last)
}

func (e *SequenceError) Unwrap() error { return ErrInvalidSequence }

// AlreadyClosedError reports a force-close on a pair with no open session.
type AlreadyClosedError struct {
	Pair Pair
}

func (e *AlreadyClosedError) Error() string {
	return fmt.Sprintf("no open session for %s", e.Pair)
}

func (e *AlreadyClosedError) Unwrap() error { return ErrAlreadyClosed }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is a rejected action rather
// than an infrastructure failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidSequence) ||
		errors.Is(err, ErrAlreadyClosed) ||
		errors.Is(err, ErrUnknownEventType) ||
		errors.Is(err, ErrMissingField)
}

// IsUnavailable returns true if the store could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsUnknownOutcome returns true if a write may or may not have landed.
func IsUnknownOutcome(err error) bool {
	return errors.Is(err, ErrUnknownOutcome)
}
