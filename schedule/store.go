/*
store.go - Persistence interfaces for the scheduling engine

PURPOSE:
  Defines the narrow surfaces the engine requires from its collaborators.
  The scheduler has no network/CLI surface of its own; it is a library
  consumed by request handlers, and these interfaces are its only view of
  the outside world.

CONTRACTS THE ENGINE DEPENDS ON:
  - FindSession returns (nil, nil) when no live row matches; absence is
    not an error.
  - InsertSession returns ErrDuplicateSession when a live row already
    occupies the slot. The Materializer turns that into "re-fetch the
    winner" - this is how concurrent materialization converges on one row
    without a lock.
  - BulkInsertSessions ignores duplicate slots instead of failing, so
    re-freezing an already-frozen window is harmless.
  - InsertAttendance returns ErrDuplicateAttendance on a (session, person)
    race; check-in treats it as "already checked in".

IMPLEMENTATIONS:
  - store/sqlite: production store (partial unique index + INSERT OR IGNORE)
  - schedule/store: in-memory store for tests and dev
*/
package schedule

import "context"

// =============================================================================
// RULE STORE
// =============================================================================

type RuleStore interface {
	// Rules returns all non-deleted recurrence rules for a classroom,
	// including retired ones - historical expansion windows need them.
	Rules(ctx context.Context, classroomID ClassroomID) ([]RecurrenceRule, error)

	// Rule returns a rule by id, or ErrRuleNotFound.
	Rule(ctx context.Context, id RuleID) (*RecurrenceRule, error)

	// CreateRule persists a new rule and returns it with its assigned ID.
	CreateRule(ctx context.Context, rule RecurrenceRule) (*RecurrenceRule, error)

	// CloseRule retires a rule by setting its effective_until date.
	// This is the only mutation rules ever receive.
	CloseRule(ctx context.Context, id RuleID, until Date) error
}

// =============================================================================
// BREAK STORE
// =============================================================================

type BreakStore interface {
	// Breaks returns all break intervals for a classroom.
	Breaks(ctx context.Context, classroomID ClassroomID) ([]BreakInterval, error)
}

// =============================================================================
// SESSION STORE
// =============================================================================

type SessionStore interface {
	// FindSession returns the live (non-deleted) session occupying a slot,
	// or (nil, nil) when the slot is unmaterialized.
	FindSession(ctx context.Context, classroomID ClassroomID, date Date, start ClockTime) (*Session, error)

	// Session returns a session by id, or ErrSessionNotFound.
	Session(ctx context.Context, id SessionID) (*Session, error)

	// SessionsInRange returns live sessions for a classroom in [from, to],
	// ordered by (date, start time).
	SessionsInRange(ctx context.Context, classroomID ClassroomID, from, to Date) ([]Session, error)

	// InsertSession persists a new session. Returns ErrDuplicateSession if
	// a live row already occupies (classroom, date, start time).
	InsertSession(ctx context.Context, s Session) (*Session, error)

	// UpdateSession overwrites the mutable fields of an existing session.
	UpdateSession(ctx context.Context, s Session) (*Session, error)

	// BulkInsertSessions inserts many sessions, silently skipping slots
	// that already hold a live row. Returns the number actually inserted.
	BulkInsertSessions(ctx context.Context, sessions []Session) (int, error)
}

// =============================================================================
// ATTENDANCE STORE
// =============================================================================

type AttendanceStore interface {
	// FindAttendance returns the attendance fact for (session, person), or
	// (nil, nil) when none exists.
	FindAttendance(ctx context.Context, sessionID SessionID, personID PersonID) (*Attendance, error)

	// InsertAttendance records a check-in. Returns ErrDuplicateAttendance
	// if a fact already exists for (session, person).
	InsertAttendance(ctx context.Context, a Attendance) error
}

// =============================================================================
// ENROLLMENT STORE
// =============================================================================

type EnrollmentStore interface {
	// Enrollments returns the classrooms a person belongs to.
	Enrollments(ctx context.Context, personID PersonID) ([]Enrollment, error)
}

// =============================================================================
// NOTIFIER - Fire-and-forget fan-out hook
// =============================================================================

// Notifier is the seam to the notification subsystem. Delivery is someone
// else's problem; the engine only announces. Implementations must not
// block the caller.
type Notifier interface {
	CheckInRecorded(ctx context.Context, personID PersonID, personName string, results []CheckInResult)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) CheckInRecorded(context.Context, PersonID, string, []CheckInResult) {}
