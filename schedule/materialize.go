/*
materialize.go - Idempotent persistence of virtual occurrences

PURPOSE:
  Materialization turns a virtual occurrence into a real session row, so
  that attendance, cancellations, and substitute-teacher edits have a row
  to attach to. It is the single write path into the session table for
  occurrence-derived rows.

THE ONE HARD CONCURRENCY REQUIREMENT:
  Two callers materializing the same occurrence (two check-ins racing)
  must converge on one row. There is no lock: the check-then-insert race
  is tolerated by treating a uniqueness violation on insert as "someone
  else won" and re-fetching their row. Repeated calls - sequential or
  concurrent - always return the same row.

FAILURE MODE:
  Only PersistenceError, and only when the underlying store fails.
  Conflicts are recovered, never surfaced.
*/
package schedule

import (
	"context"
	"errors"
)

// DefaultLocation is used when an occurrence carries no location and the
// caller supplies none.
const DefaultLocation = "offline"

// Overrides optionally adjusts the fields of a session being materialized.
// Nil fields keep the defaults.
type Overrides struct {
	Status            *SessionStatus
	Location          *string
	Notes             *string
	SubstituteTeacher *PersonID
}

// Materializer persists virtual occurrences idempotently.
type Materializer struct {
	Sessions SessionStore
}

func NewMaterializer(sessions SessionStore) *Materializer {
	return &Materializer{Sessions: sessions}
}

// Materialize returns the persisted session for an occurrence, creating it
// if necessary. Calling it again for the same occurrence - even
// concurrently - returns the same row.
func (m *Materializer) Materialize(ctx context.Context, occ VirtualOccurrence, ov *Overrides) (*Session, error) {
	existing, err := m.Sessions.FindSession(ctx, occ.ClassroomID, occ.Date, occ.StartTime)
	if err != nil {
		return nil, persistence("find session", err)
	}
	if existing != nil {
		return existing, nil
	}

	created, err := m.Sessions.InsertSession(ctx, m.sessionFor(occ, ov))
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, ErrDuplicateSession) {
		return nil, persistence("insert session", err)
	}

	// Lost the insert race: another caller materialized the occurrence
	// between our check and our insert. Their row is the one true row.
	winner, err := m.Sessions.FindSession(ctx, occ.ClassroomID, occ.Date, occ.StartTime)
	if err != nil {
		return nil, persistence("refetch session after conflict", err)
	}
	if winner == nil {
		return nil, persistence("refetch session after conflict", ErrSessionNotFound)
	}
	return winner, nil
}

// MaterializeAll bulk-persists occurrences as scheduled sessions, skipping
// any slot that already holds a live row. Used by the materialize_existing
// change strategy to freeze a rule's future occurrences; note records the
// provenance. Returns the number of rows actually inserted.
func (m *Materializer) MaterializeAll(ctx context.Context, occs []VirtualOccurrence, note string) (int, error) {
	if len(occs) == 0 {
		return 0, nil
	}

	sessions := make([]Session, len(occs))
	for i, occ := range occs {
		s := m.sessionFor(occ, nil)
		s.Notes = note
		sessions[i] = s
	}

	inserted, err := m.Sessions.BulkInsertSessions(ctx, sessions)
	if err != nil {
		return 0, persistence("bulk insert sessions", err)
	}
	return inserted, nil
}

func (m *Materializer) sessionFor(occ VirtualOccurrence, ov *Overrides) Session {
	s := Session{
		ClassroomID: occ.ClassroomID,
		Date:        occ.Date,
		StartTime:   occ.StartTime,
		EndTime:     occ.EndTime,
		Status:      StatusScheduled,
		Location:    DefaultLocation,
	}
	if ov == nil {
		return s
	}
	if ov.Status != nil {
		s.Status = *ov.Status
	}
	if ov.Location != nil {
		s.Location = *ov.Location
	}
	if ov.Notes != nil {
		s.Notes = *ov.Notes
	}
	if ov.SubstituteTeacher != nil {
		s.SubstituteTeacher = ov.SubstituteTeacher
	}
	return s
}
