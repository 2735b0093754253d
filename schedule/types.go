/*
Package schedule implements the recurring-session scheduler: expansion of
weekly recurrence rules into concrete calendar occurrences, idempotent
materialization of those occurrences into persisted sessions, merging of
the two views, and the strategies for changing a rule without corrupting
history.

KEY CONCEPTS IN THIS FILE (types.go):
  - RecurrenceRule: a weekly day/time slot with an effective date window
  - BreakInterval: a date range during which no occurrences are generated
  - VirtualOccurrence: a computed-but-not-persisted instance of a slot
  - Session: the persisted form of an occurrence
  - SessionView: the unified virtual-or-persisted view callers consume

DESIGN PRINCIPLES:
  1. Rules are never edited in place: they are closed (effective_until set)
     and replaced, so historical dates never change meaning.
  2. Sessions are soft-deleted, never hard-deleted, to preserve attendance
     linkage.
  3. A slot is identified everywhere by the composite (classroom, date,
     start time); see identity.go for the string form.

SEE ALSO:
  - time.go:     Date, ClockTime, DayOfWeek value types
  - expand.go:   rule expansion into virtual occurrences
  - identity.go: virtual occurrence identity scheme
*/
package schedule

import "time"

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ClassroomID string
type RuleID string
type BreakID string
type SessionID string
type PersonID string

// =============================================================================
// RECURRENCE RULE - Weekly slot with an effective window
// =============================================================================

// RecurrenceRule is one weekly time slot of a classroom. At most one active
// (not deleted, open-ended) rule should exist per (classroom, day) slot;
// the Coordinator maintains that by closing old rules before opening new
// ones - the data model itself does not enforce it.
type RecurrenceRule struct {
	ID          RuleID
	ClassroomID ClassroomID
	Day         DayOfWeek
	StartTime   ClockTime
	EndTime     ClockTime

	// EffectiveFrom is inclusive. A zero Date means the rule has always
	// been in effect.
	EffectiveFrom Date

	// EffectiveUntil is inclusive; nil means open-ended. Rules are retired
	// by setting this, never by deletion, so historical expansion windows
	// survive.
	EffectiveUntil *Date

	CreatedAt time.Time
	DeletedAt *time.Time
}

func (r RecurrenceRule) Deleted() bool { return r.DeletedAt != nil }

// EffectiveOn reports whether the rule's window contains the date.
func (r RecurrenceRule) EffectiveOn(d Date) bool {
	if !r.EffectiveFrom.IsZero() && d.Before(r.EffectiveFrom) {
		return false
	}
	if r.EffectiveUntil != nil && d.After(*r.EffectiveUntil) {
		return false
	}
	return true
}

// =============================================================================
// BREAK INTERVAL - Closed date range with no occurrences
// =============================================================================

// BreakInterval excludes a classroom's occurrences for a date range,
// inclusive on both ends. Overlapping breaks are permitted; a date covered
// by any break is excluded.
type BreakInterval struct {
	ID          BreakID
	ClassroomID ClassroomID
	StartDate   Date
	EndDate     Date
	Reason      string
}

func (b BreakInterval) Contains(d Date) bool {
	return d.AfterOrEqual(b.StartDate) && d.BeforeOrEqual(b.EndDate)
}

// InBreak reports whether any break covers the date.
func InBreak(d Date, breaks []BreakInterval) bool {
	for _, b := range breaks {
		if b.Contains(d) {
			return true
		}
	}
	return false
}

// =============================================================================
// SESSION - Persisted occurrence
// =============================================================================

type SessionStatus string

const (
	StatusScheduled SessionStatus = "scheduled"
	StatusCompleted SessionStatus = "completed"
	StatusCancelled SessionStatus = "cancelled"
)

// Session is a persisted session row. Behavioral uniqueness invariant,
// enforced by the Materializer: at most one non-deleted row per
// (classroom, date, start time).
type Session struct {
	ID                SessionID
	ClassroomID       ClassroomID
	Date              Date
	StartTime         ClockTime
	EndTime           ClockTime
	Status            SessionStatus
	Location          string
	Notes             string
	SubstituteTeacher *PersonID
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

func (s Session) Deleted() bool { return s.DeletedAt != nil }

// =============================================================================
// VIRTUAL OCCURRENCE - Computed, never stored as its own row
// =============================================================================

// VirtualOccurrence is one projected instance of a recurrence rule. It
// exists only in memory; its ID (see identity.go) encodes its coordinates
// so any caller can reference it before it is persisted.
type VirtualOccurrence struct {
	ID          string
	ClassroomID ClassroomID
	Date        Date
	StartTime   ClockTime
	EndTime     ClockTime
}

// Status of a virtual occurrence is always scheduled; anything else
// requires materialization first.
func (VirtualOccurrence) Status() SessionStatus { return StatusScheduled }

// =============================================================================
// OCCURRENCE KEY - Composite identity of a slot instance
// =============================================================================

// OccurrenceKey is the composite key under which virtual and persisted
// forms of the same slot instance deduplicate.
type OccurrenceKey struct {
	ClassroomID ClassroomID
	Date        Date
	StartTime   ClockTime
}

func (s Session) Key() OccurrenceKey {
	return OccurrenceKey{ClassroomID: s.ClassroomID, Date: s.Date, StartTime: s.StartTime}
}

func (o VirtualOccurrence) Key() OccurrenceKey {
	return OccurrenceKey{ClassroomID: o.ClassroomID, Date: o.Date, StartTime: o.StartTime}
}

// =============================================================================
// SESSION VIEW - Unified virtual/persisted element
// =============================================================================

// SessionView is the element type of the merged range view produced by the
// Aggregator. Virtual entries carry a virtual ID and IsVirtual=true.
type SessionView struct {
	ID                string
	ClassroomID       ClassroomID
	Date              Date
	StartTime         ClockTime
	EndTime           ClockTime
	Status            SessionStatus
	Location          string
	Notes             string
	SubstituteTeacher *PersonID
	IsVirtual         bool
}

func ViewOfSession(s Session) SessionView {
	return SessionView{
		ID:                string(s.ID),
		ClassroomID:       s.ClassroomID,
		Date:              s.Date,
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		Status:            s.Status,
		Location:          s.Location,
		Notes:             s.Notes,
		SubstituteTeacher: s.SubstituteTeacher,
	}
}

func ViewOfOccurrence(o VirtualOccurrence) SessionView {
	return SessionView{
		ID:          o.ID,
		ClassroomID: o.ClassroomID,
		Date:        o.Date,
		StartTime:   o.StartTime,
		EndTime:     o.EndTime,
		Status:      StatusScheduled,
		IsVirtual:   true,
	}
}

// =============================================================================
// ATTENDANCE - External collaborator's entity, referenced by session id
// =============================================================================

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
)

/// Attendance is one check-in fact: at most one per (session, person).
type Attendance struct {
	ID        string
	SessionID SessionID
	PersonID  PersonID
	Status    AttendanceStatus
	Note      string
	CreatedAt time.Time
}

// Enrollment links a person to a classroom, carrying the display name the
// check-in flow reports back.
type Enrollment struct {
	ClassroomID   ClassroomID
	ClassroomName string
}
