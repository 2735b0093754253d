/*
checkin.go - Self check-in use case

PURPOSE:
  A person checks in for "today": the flow finds today's occurrences
  across every classroom they are enrolled in (mixing persisted and
  virtual), materializes virtual ones on demand, and records one
  attendance fact per occurrence per person - never two.

PARTIAL SUCCESS IS THE EXPECTED OUTCOME:
  Each occurrence is processed independently. A materialization or
  attendance failure on one occurrence is recorded in that occurrence's
  result and does not abort the rest of the batch. Retrying is always
  safe: materialization is idempotent and the attendance insert is
  deduplicated per (session, person).
*/
package schedule

import (
	"context"
	"errors"
	"sort"
	"time"
)

// DefaultCheckInNote is used when the caller supplies no note.
const DefaultCheckInNote = "Self check-in"

// CheckInOccurrence is one of today's occurrences a person can check in
// to, carrying enough context to materialize it if virtual.
type CheckInOccurrence struct {
	ID            string
	ClassroomID   ClassroomID
	ClassroomName string
	Date          Date
	StartTime     ClockTime
	EndTime       ClockTime
	IsVirtual     bool
}

// CheckInResult is the per-occurrence outcome. Err is set when the
// occurrence could not be processed; the rest of the batch continues.
type CheckInResult struct {
	SessionID        SessionID
	ClassroomName    string
	Status           AttendanceStatus
	AlreadyCheckedIn bool
	Err              error
}

// CheckIn runs the self check-in flow.
type CheckIn struct {
	Sessions    SessionStore
	Attendance  AttendanceStore
	Enrollments EnrollmentStore

	Aggregator   *Aggregator
	Materializer *Materializer
	Notifier     Notifier

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewCheckIn(sessions SessionStore, attendance AttendanceStore, enrollments EnrollmentStore, aggregator *Aggregator, materializer *Materializer) *CheckIn {
	return &CheckIn{
		Sessions:     sessions,
		Attendance:   attendance,
		Enrollments:  enrollments,
		Aggregator:   aggregator,
		Materializer: materializer,
		Notifier:     NopNotifier{},
		Now:          time.Now,
	}
}

// TodayOccurrences assembles today's occurrences for a person across all
// their enrolled classrooms, ordered by start time. Cancelled sessions
// are excluded; there is nothing to check in to.
func (c *CheckIn) TodayOccurrences(ctx context.Context, personID PersonID) ([]CheckInOccurrence, error) {
	enrollments, err := c.Enrollments.Enrollments(ctx, personID)
	if err != nil {
		return nil, persistence("load enrollments", err)
	}

	today := DateOf(c.now())
	var occurrences []CheckInOccurrence

	for _, enrollment := range enrollments {
		persisted, err := c.Sessions.SessionsInRange(ctx, enrollment.ClassroomID, today, today)
		if err != nil {
			return nil, persistence("load today's sessions", err)
		}

		for _, view := range c.Aggregator.SessionsForRange(ctx, enrollment.ClassroomID, today, today, persisted) {
			if view.Status == StatusCancelled {
				continue
			}
			occurrences = append(occurrences, CheckInOccurrence{
				ID:            view.ID,
				ClassroomID:   view.ClassroomID,
				ClassroomName: enrollment.ClassroomName,
				Date:          view.Date,
				StartTime:     view.StartTime,
				EndTime:       view.EndTime,
				IsVirtual:     view.IsVirtual,
			})
		}
	}

	sortOccurrencesByStart(occurrences)
	return occurrences, nil
}

// Run checks a person in to each occurrence: materialize if virtual,
// compute present/late against the wall clock, record the attendance fact
// at most once. Successful new check-ins are announced to the Notifier
// without blocking the caller.
func (c *CheckIn) Run(ctx context.Context, personID PersonID, personName string, occurrences []CheckInOccurrence, note string) []CheckInResult {
	if note == "" {
		note = DefaultCheckInNote
	}

	now := c.now()
	results := make([]CheckInResult, 0, len(occurrences))
	for _, occ := range occurrences {
		results = append(results, c.checkInOne(ctx, personID, occ, note, now))
	}

	var announced []CheckInResult
	for _, r := range results {
		if r.Err == nil && !r.AlreadyCheckedIn {
			announced = append(announced, r)
		}
	}
	if len(announced) > 0 && c.Notifier != nil {
		go c.Notifier.CheckInRecorded(context.WithoutCancel(ctx), personID, personName, announced)
	}

	return results
}

func (c *CheckIn) checkInOne(ctx context.Context, personID PersonID, occ CheckInOccurrence, note string, now time.Time) CheckInResult {
	result := CheckInResult{ClassroomName: occ.ClassroomName}

	sessionID := SessionID(occ.ID)
	if occ.IsVirtual {
		materialized, err := c.Materializer.Materialize(ctx, VirtualOccurrence{
			ID:          occ.ID,
			ClassroomID: occ.ClassroomID,
			Date:        occ.Date,
			StartTime:   occ.StartTime,
			EndTime:     occ.EndTime,
		}, nil)
		if err != nil {
			result.Err = err
			return result
		}
		sessionID = materialized.ID
	}
	result.SessionID = sessionID

	// On time means at or before the slot's start.
	result.Status = AttendancePresent
	if ClockTimeOf(now).After(occ.StartTime) {
		result.Status = AttendanceLate
	}

	existing, err := c.Attendance.FindAttendance(ctx, sessionID, personID)
	if err != nil {
		result.Err = persistence("find attendance", err)
		return result
	}
	if existing != nil {
		result.Status = existing.Status
		result.AlreadyCheckedIn = true
		return result
	}

	err = c.Attendance.InsertAttendance(ctx, Attendance{
		SessionID: sessionID,
		PersonID:  personID,
		Status:    result.Status,
		Note:      note,
	})
	if errors.Is(err, ErrDuplicateAttendance) {
		// A concurrent check-in for the same person won the insert; the
		// invariant (one fact per session per person) holds either way.
		result.AlreadyCheckedIn = true
		return result
	}
	if err != nil {
		result.Err = persistence("insert attendance", err)
	}
	return result
}

func (c *CheckIn) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func sortOccurrencesByStart(occurrences []CheckInOccurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].StartTime.Before(occurrences[j].StartTime)
	})
}
