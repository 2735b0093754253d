/*
errors.go - Centralized error types for the scheduling engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers (HTTP handlers, use cases) classify errors with the helpers
  below rather than matching on messages.

ERROR CATEGORIES:
  1. Validation errors - bad input (missing strategy parameter, bad day)
  2. Not-found errors  - referenced rule/session does not exist
  3. Conflict errors   - uniqueness races; recovered internally, callers
                         should rarely see these surface
  4. Persistence errors - underlying storage call failed

USAGE:
  if schedule.IsNotFound(err) {
      // 404
  }
  var perr *schedule.PersistenceError
  if errors.As(err, &perr) {
      // retryable storage failure
  }
*/
package schedule

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrRuleNotFound is returned when a referenced recurrence rule does
	// not exist or has been deleted.
	ErrRuleNotFound = errors.New("recurrence rule not found")

	// ErrSessionNotFound is returned when a referenced session does not
	// exist or has been deleted.
	ErrSessionNotFound = errors.New("session not found")

	// ErrDuplicateSession is returned by stores when an insert violates
	// the one-live-row-per-slot uniqueness invariant. The Materializer
	// recovers from it by re-fetching the winning row; it should not
	// normally surface to callers.
	ErrDuplicateSession = errors.New("session already exists for slot")

	// ErrDuplicateAttendance is returned by stores when an attendance
	// insert races with another check-in for the same (session, person).
	// The check-in flow treats it as "already checked in".
	ErrDuplicateAttendance = errors.New("attendance already recorded")

	// ErrMissingEffectiveDate is returned when the from_date strategy is
	// invoked without an effective date. Absence is a usage error, never
	// silently defaulted.
	ErrMissingEffectiveDate = errors.New("effective date required for from_date strategy")

	// ErrUnknownStrategy is returned for an unrecognized update strategy.
	ErrUnknownStrategy = errors.New("unknown update strategy")

	// ErrUnknownDay is returned when a day value is neither 0-6 nor a
	// recognized weekday name.
	ErrUnknownDay = errors.New("unrecognized day of week")
)

// =============================================================================
// PERSISTENCE ERROR - Wraps underlying storage failures
// =============================================================================

// PersistenceError marks a failure of an underlying storage call. It is the
// only error class the Materializer propagates; callers should treat it as
// retryable.
type PersistenceError struct {
	Op  string // operation that failed, e.g. "find session"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error indicates a missing rule or session.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRuleNotFound) || errors.Is(err, ErrSessionNotFound)
}

// IsConflict reports whether the error is a uniqueness-race conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateSession) || errors.Is(err, ErrDuplicateAttendance)
}

// IsClientError reports whether the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingEffectiveDate) ||
		errors.Is(err, ErrUnknownStrategy) ||
		errors.Is(err, ErrUnknownDay)
}

// IsRetryable reports whether the error might succeed on retry.
func IsRetryable(err error) bool {
	var perr *PersistenceError
	return errors.As(err, &perr)
}
