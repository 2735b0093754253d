// Package store provides in-memory implementations of the schedule
// persistence interfaces, for tests and dev servers.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hagwon/schedule-engine/schedule"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements every schedule store interface behind one mutex. It
// mirrors the production store's uniqueness semantics: one live session
// per slot, one attendance fact per (session, person).
type Memory struct {
	mu          sync.RWMutex
	rules       map[schedule.RuleID]*schedule.RecurrenceRule
	breaks      map[schedule.ClassroomID][]schedule.BreakInterval
	sessions    map[schedule.SessionID]*schedule.Session
	slots       map[schedule.OccurrenceKey]schedule.SessionID // live sessions only
	attendance  map[attendanceKey]*schedule.Attendance
	enrollments map[schedule.PersonID][]schedule.Enrollment
}

type attendanceKey struct {
	SessionID schedule.SessionID
	PersonID  schedule.PersonID
}

func NewMemory() *Memory {
	return &Memory{
		rules:       make(map[schedule.RuleID]*schedule.RecurrenceRule),
		breaks:      make(map[schedule.ClassroomID][]schedule.BreakInterval),
		sessions:    make(map[schedule.SessionID]*schedule.Session),
		slots:       make(map[schedule.OccurrenceKey]schedule.SessionID),
		attendance:  make(map[attendanceKey]*schedule.Attendance),
		enrollments: make(map[schedule.PersonID][]schedule.Enrollment),
	}
}

// =============================================================================
// RULE STORE
// =============================================================================

func (m *Memory) Rules(_ context.Context, classroomID schedule.ClassroomID) ([]schedule.RecurrenceRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []schedule.RecurrenceRule
	for _, r := range m.rules {
		if r.ClassroomID == classroomID && !r.Deleted() {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) Rule(_ context.Context, id schedule.RuleID) (*schedule.RecurrenceRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rules[id]
	if !ok || r.Deleted() {
		return nil, schedule.ErrRuleNotFound
	}
	clone := *r
	return &clone, nil
}

func (m *Memory) CreateRule(_ context.Context, rule schedule.RecurrenceRule) (*schedule.RecurrenceRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rule.ID == "" {
		rule.ID = schedule.RuleID(uuid.NewString())
	}
	rule.CreatedAt = time.Now()
	stored := rule
	m.rules[rule.ID] = &stored
	return &rule, nil
}

func (m *Memory) CloseRule(_ context.Context, id schedule.RuleID, until schedule.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rules[id]
	if !ok || r.Deleted() {
		return schedule.ErrRuleNotFound
	}
	r.EffectiveUntil = &until
	return nil
}

// =============================================================================
// BREAK STORE
// =============================================================================

func (m *Memory) Breaks(_ context.Context, classroomID schedule.ClassroomID) ([]schedule.BreakInterval, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]schedule.BreakInterval, len(m.breaks[classroomID]))
	copy(result, m.breaks[classroomID])
	return result, nil
}

// AddBreak seeds a break interval (test/dev helper).
func (m *Memory) AddBreak(b schedule.BreakInterval) schedule.BreakInterval {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b.ID == "" {
		b.ID = schedule.BreakID(uuid.NewString())
	}
	m.breaks[b.ClassroomID] = append(m.breaks[b.ClassroomID], b)
	return b
}

// =============================================================================
// SESSION STORE
// =============================================================================

func (m *Memory) FindSession(_ context.Context, classroomID schedule.ClassroomID, date schedule.Date, start schedule.ClockTime) (*schedule.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := schedule.OccurrenceKey{ClassroomID: classroomID, Date: date, StartTime: start}
	id, ok := m.slots[key]
	if !ok {
		return nil, nil
	}
	clone := *m.sessions[id]
	return &clone, nil
}

func (m *Memory) Session(_ context.Context, id schedule.SessionID) (*schedule.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok || s.Deleted() {
		return nil, schedule.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (m *Memory) SessionsInRange(_ context.Context, classroomID schedule.ClassroomID, from, to schedule.Date) ([]schedule.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []schedule.Session
	for _, s := range m.sessions {
		if s.ClassroomID != classroomID || s.Deleted() {
			continue
		}
		if s.Date.Before(from) || s.Date.After(to) {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

func (m *Memory) InsertSession(_ context.Context, s schedule.Session) (*schedule.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertSessionLocked(s)
}

func (m *Memory) insertSessionLocked(s schedule.Session) (*schedule.Session, error) {
	if _, taken := m.slots[s.Key()]; taken {
		return nil, schedule.ErrDuplicateSession
	}

	if s.ID == "" {
		s.ID = schedule.SessionID(uuid.NewString())
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	stored := s
	m.sessions[s.ID] = &stored
	m.slots[s.Key()] = s.ID
	return &s, nil
}

func (m *Memory) UpdateSession(_ context.Context, s schedule.Session) (*schedule.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.sessions[s.ID]
	if !ok || existing.Deleted() {
		return nil, schedule.ErrSessionNotFound
	}

	existing.Status = s.Status
	existing.Location = s.Location
	existing.Notes = s.Notes
	existing.SubstituteTeacher = s.SubstituteTeacher
	existing.UpdatedAt = time.Now()
	if s.DeletedAt != nil {
		existing.DeletedAt = s.DeletedAt
		delete(m.slots, existing.Key())
	}

	clone := *existing
	return &clone, nil
}

func (m *Memory) BulkInsertSessions(_ context.Context, sessions []schedule.Session) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inserted := 0
	for _, s := range sessions {
		if _, err := m.insertSessionLocked(s); err == nil {
			inserted++
		}
	}
	return inserted, nil
}

// =============================================================================
// ATTENDANCE STORE
// =============================================================================

func (m *Memory) FindAttendance(_ context.Context, sessionID schedule.SessionID, personID schedule.PersonID) (*schedule.Attendance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.attendance[attendanceKey{SessionID: sessionID, PersonID: personID}]
	if !ok {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (m *Memory) InsertAttendance(_ context.Context, a schedule.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := attendanceKey{SessionID: a.SessionID, PersonID: a.PersonID}
	if _, taken := m.attendance[key]; taken {
		return schedule.ErrDuplicateAttendance
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now()
	stored := a
	m.attendance[key] = &stored
	return nil
}

// =============================================================================
// ENROLLMENT STORE
// =============================================================================

func (m *Memory) Enrollments(_ context.Context, personID schedule.PersonID) ([]schedule.Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]schedule.Enrollment, len(m.enrollments[personID]))
	copy(result, m.enrollments[personID])
	return result, nil
}

// Enroll seeds an enrollment (test/dev helper).
func (m *Memory) Enroll(personID schedule.PersonID, classroomID schedule.ClassroomID, classroomName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.enrollments[personID] = append(m.enrollments[personID], schedule.Enrollment{
		ClassroomID:   classroomID,
		ClassroomName: classroomName,
	})
}
