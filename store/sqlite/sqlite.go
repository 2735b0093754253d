/*
Package sqlite provides a SQLite-backed implementation of the schedule
storage interfaces.

PURPOSE:
  Implements RuleStore, BreakStore, SessionStore, AttendanceStore, and
  EnrollmentStore using SQLite. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  recurrence_rules: Weekly slots with effective windows (closed, not edited)
  schedule_breaks:  Date ranges excluded from expansion
  sessions:         Materialized occurrences (soft-deleted, never dropped)
  attendance:       One check-in fact per (session, person)
  classrooms:       Display names for the check-in flow
  enrollments:      Person-to-classroom links

UNIQUENESS ENFORCEMENT:
  The behavioral invariant "at most one live session per slot" is backed
  by a partial unique index on (classroom_id, date, start_time) WHERE
  deleted_at IS NULL. A violated insert maps to
  schedule.ErrDuplicateSession, which the Materializer resolves by
  re-fetching the winning row. Attendance gets the same treatment via a
  unique index on (session_id, person_id).

TIME REPRESENTATION:
  Dates are stored as YYYY-MM-DD and times of day as HH:MM, matching the
  engine's naive wall-clock model. Reads tolerate a legacy HH:MM:SS form.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  one writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/scheduler.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - schedule/store.go: interface definitions and contracts
  - schedule/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/hagwon/schedule-engine/schedule"
)

// Store implements all schedule storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS classrooms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Weekly recurrence rules. Rules are closed (effective_until set) or
	-- soft-deleted, never dropped: historical expansion windows need them.
	CREATE TABLE IF NOT EXISTS recurrence_rules (
		id TEXT PRIMARY KEY,
		classroom_id TEXT NOT NULL,
		day_of_week INTEGER NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		effective_from TEXT,
		effective_until TEXT,
		created_at TEXT NOT NULL,
		deleted_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_rules_classroom
		ON recurrence_rules(classroom_id);

	CREATE TABLE IF NOT EXISTS schedule_breaks (
		id TEXT PRIMARY KEY,
		classroom_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		reason TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_breaks_classroom
		ON schedule_breaks(classroom_id);

	-- Materialized sessions. Soft-deleted only, to preserve attendance
	-- linkage.
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		classroom_id TEXT NOT NULL,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'scheduled',
		location TEXT,
		notes TEXT,
		substitute_teacher TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		deleted_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_classroom_date
		ON sessions(classroom_id, date);

	-- The uniqueness invariant: at most one live row per slot. The
	-- Materializer's conflict recovery depends on this index firing.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_live_slot
		ON sessions(classroom_id, date, start_time) WHERE deleted_at IS NULL;

	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		person_id TEXT NOT NULL,
		status TEXT NOT NULL,
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_session_person
		ON attendance(session_id, person_id);

	CREATE TABLE IF NOT EXISTS enrollments (
		classroom_id TEXT NOT NULL,
		person_id TEXT NOT NULL,
		PRIMARY KEY (classroom_id, person_id)
	);

	CREATE INDEX IF NOT EXISTS idx_enrollments_person
		ON enrollments(person_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RULE STORE (schedule.RuleStore interface)
// =============================================================================

func (s *Store) Rules(ctx context.Context, classroomID schedule.ClassroomID) ([]schedule.RecurrenceRule, error) {
	query := `
		SELECT id, classroom_id, day_of_week, start_time, end_time,
		       effective_from, effective_until, created_at, deleted_at
		FROM recurrence_rules
		WHERE classroom_id = ? AND deleted_at IS NULL
		ORDER BY effective_from, id
	`
	rows, err := s.db.QueryContext(ctx, query, classroomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var rules []schedule.RecurrenceRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

func (s *Store) Rule(ctx context.Context, id schedule.RuleID) (*schedule.RecurrenceRule, error) {
	query := `
		SELECT id, classroom_id, day_of_week, start_time, end_time,
		       effective_from, effective_until, created_at, deleted_at
		FROM recurrence_rules
		WHERE id = ? AND deleted_at IS NULL
	`
	rule, err := scanRule(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, schedule.ErrRuleNotFound
	}
	return rule, err
}

func (s *Store) CreateRule(ctx context.Context, rule schedule.RecurrenceRule) (*schedule.RecurrenceRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rule.ID == "" {
		rule.ID = schedule.RuleID(uuid.NewString())
	}
	rule.CreatedAt = time.Now().UTC()

	var from, until sql.NullString
	if !rule.EffectiveFrom.IsZero() {
		from = sql.NullString{String: rule.EffectiveFrom.String(), Valid: true}
	}
	if rule.EffectiveUntil != nil {
		until = sql.NullString{String: rule.EffectiveUntil.String(), Valid: true}
	}

	query := `
		INSERT INTO recurrence_rules
		(id, classroom_id, day_of_week, start_time, end_time, effective_from, effective_until, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		rule.ID,
		rule.ClassroomID,
		int(rule.Day),
		rule.StartTime.String(),
		rule.EndTime.String(),
		from,
		until,
		rule.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert rule: %w", err)
	}
	return &rule, nil
}

func (s *Store) CloseRule(ctx context.Context, id schedule.RuleID, until schedule.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`UPDATE recurrence_rules SET effective_until = ? WHERE id = ? AND deleted_at IS NULL`,
		until.String(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to close rule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return schedule.ErrRuleNotFound
	}
	return nil
}

// =============================================================================
// BREAK STORE (schedule.BreakStore interface)
// =============================================================================

func (s *Store) Breaks(ctx context.Context, classroomID schedule.ClassroomID) ([]schedule.BreakInterval, error) {
	query := `
		SELECT id, classroom_id, start_date, end_date, reason
		FROM schedule_breaks
		WHERE classroom_id = ?
		ORDER BY start_date
	`
	rows, err := s.db.QueryContext(ctx, query, classroomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query breaks: %w", err)
	}
	defer rows.Close()

	var breaks []schedule.BreakInterval
	for rows.Next() {
		var b schedule.BreakInterval
		var startDate, endDate string
		var reason sql.NullString
		if err := rows.Scan(&b.ID, &b.ClassroomID, &startDate, &endDate, &reason); err != nil {
			return nil, err
		}
		if b.StartDate, err = schedule.ParseDate(startDate); err != nil {
			return nil, err
		}
		if b.EndDate, err = schedule.ParseDate(endDate); err != nil {
			return nil, err
		}
		b.Reason = reason.String
		breaks = append(breaks, b)
	}
	return breaks, rows.Err()
}

// CreateBreak persists a break interval.
func (s *Store) CreateBreak(ctx context.Context, b schedule.BreakInterval) (*schedule.BreakInterval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == "" {
		b.ID = schedule.BreakID(uuid.NewString())
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO schedule_breaks (id, classroom_id, start_date, end_date, reason) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.ClassroomID, b.StartDate.String(), b.EndDate.String(), nullString(b.Reason),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert break: %w", err)
	}
	return &b, nil
}

// =============================================================================
// SESSION STORE (schedule.SessionStore interface)
// =============================================================================

const sessionColumns = `id, classroom_id, date, start_time, end_time, status,
	location, notes, substitute_teacher, created_at, updated_at, deleted_at`

func (s *Store) FindSession(ctx context.Context, classroomID schedule.ClassroomID, date schedule.Date, start schedule.ClockTime) (*schedule.Session, error) {
	// Stored start times may carry seconds; match on the HH:MM prefix.
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE classroom_id = ? AND date = ? AND start_time LIKE ? AND deleted_at IS NULL
	`
	session, err := scanSession(s.db.QueryRowContext(ctx, query, classroomID, date.String(), start.String()+"%"))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return session, err
}

func (s *Store) Session(ctx context.Context, id schedule.SessionID) (*schedule.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ? AND deleted_at IS NULL`
	session, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, schedule.ErrSessionNotFound
	}
	return session, err
}

func (s *Store) SessionsInRange(ctx context.Context, classroomID schedule.ClassroomID, from, to schedule.Date) ([]schedule.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE classroom_id = ? AND date >= ? AND date <= ? AND deleted_at IS NULL
		ORDER BY date, start_time
	`
	rows, err := s.db.QueryContext(ctx, query, classroomID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []schedule.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

func (s *Store) InsertSession(ctx context.Context, session schedule.Session) (*schedule.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.ID == "" {
		session.ID = schedule.SessionID(uuid.NewString())
	}
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	query := `
		INSERT INTO sessions
		(id, classroom_id, date, start_time, end_time, status, location, notes, substitute_teacher, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		session.ID,
		session.ClassroomID,
		session.Date.String(),
		session.StartTime.String(),
		session.EndTime.String(),
		session.Status,
		nullString(session.Location),
		nullString(session.Notes),
		nullPersonID(session.SubstituteTeacher),
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, schedule.ErrDuplicateSession
		}
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	return &session, nil
}

func (s *Store) UpdateSession(ctx context.Context, session schedule.Session) (*schedule.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deletedAt sql.NullString
	if session.DeletedAt != nil {
		deletedAt = sql.NullString{String: session.DeletedAt.UTC().Format(time.RFC3339), Valid: true}
	}

	query := `
		UPDATE sessions
		SET status = ?, location = ?, notes = ?, substitute_teacher = ?, updated_at = ?, deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`
	result, err := s.db.ExecContext(ctx, query,
		session.Status,
		nullString(session.Location),
		nullString(session.Notes),
		nullPersonID(session.SubstituteTeacher),
		time.Now().UTC().Format(time.RFC3339),
		deletedAt,
		session.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, schedule.ErrSessionNotFound
	}

	if session.DeletedAt != nil {
		return &session, nil
	}
	return scanSession(s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, session.ID))
}

// BulkInsertSessions inserts sessions inside one transaction, skipping
// slots that already hold a live row. This is the idempotent bulk path
// the materialize_existing change strategy uses.
func (s *Store) BulkInsertSessions(ctx context.Context, sessions []schedule.Session) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	query := `
		INSERT INTO sessions
		(id, classroom_id, date, start_time, end_time, status, location, notes, substitute_teacher, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (classroom_id, date, start_time) WHERE deleted_at IS NULL DO NOTHING
	`

	inserted := 0
	for _, session := range sessions {
		if session.ID == "" {
			session.ID = schedule.SessionID(uuid.NewString())
		}
		result, err := tx.ExecContext(ctx, query,
			session.ID,
			session.ClassroomID,
			session.Date.String(),
			session.StartTime.String(),
			session.EndTime.String(),
			session.Status,
			nullString(session.Location),
			nullString(session.Notes),
			nullPersonID(session.SubstituteTeacher),
			now.Format(time.RFC3339),
			now.Format(time.RFC3339),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to bulk insert session: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bulk insert: %w", err)
	}
	return inserted, nil
}

// =============================================================================
// ATTENDANCE STORE (schedule.AttendanceStore interface)
// =============================================================================

func (s *Store) FindAttendance(ctx context.Context, sessionID schedule.SessionID, personID schedule.PersonID) (*schedule.Attendance, error) {
	query := `
		SELECT id, session_id, person_id, status, note, created_at
		FROM attendance
		WHERE session_id = ? AND person_id = ?
	`
	var a schedule.Attendance
	var note sql.NullString
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, sessionID, personID).Scan(
		&a.ID, &a.SessionID, &a.PersonID, &a.Status, &note, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	a.Note = note.String
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}

func (s *Store) InsertAttendance(ctx context.Context, a schedule.Attendance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance (id, session_id, person_id, status, note, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.SessionID, a.PersonID, a.Status, nullString(a.Note), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return schedule.ErrDuplicateAttendance
		}
		return fmt.Errorf("failed to insert attendance: %w", err)
	}
	return nil
}

// =============================================================================
// ENROLLMENT STORE (schedule.EnrollmentStore interface)
// =============================================================================

func (s *Store) Enrollments(ctx context.Context, personID schedule.PersonID) ([]schedule.Enrollment, error) {
	query := `
		SELECT e.classroom_id, c.name
		FROM enrollments e
		JOIN classrooms c ON c.id = e.classroom_id
		WHERE e.person_id = ?
		ORDER BY c.name
	`
	rows, err := s.db.QueryContext(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []schedule.Enrollment
	for rows.Next() {
		var e schedule.Enrollment
		if err := rows.Scan(&e.ClassroomID, &e.ClassroomName); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// =============================================================================
// CLASSROOMS & ENROLLMENT MANAGEMENT
// =============================================================================

// Classroom is the minimal classroom record the scheduler needs: an ID for
// slot identity and a name for check-in results.
type Classroom struct {
	ID   schedule.ClassroomID
	Name string
}

func (s *Store) SaveClassroom(ctx context.Context, c Classroom) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO classrooms (id, name, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET name = excluded.name`,
		c.ID, c.Name, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save classroom: %w", err)
	}
	return nil
}

func (s *Store) Enroll(ctx context.Context, classroomID schedule.ClassroomID, personID schedule.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO enrollments (classroom_id, person_id) VALUES (?, ?)`,
		classroomID, personID,
	)
	if err != nil {
		return fmt.Errorf("failed to enroll: %w", err)
	}
	return nil
}

// Reset clears all data. Development and scenario loading only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"attendance", "sessions", "schedule_breaks", "recurrence_rules", "enrollments", "classrooms"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// SCANNING HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*schedule.RecurrenceRule, error) {
	var rule schedule.RecurrenceRule
	var day int
	var start, end, createdAt string
	var from, until, deletedAt sql.NullString

	if err := row.Scan(&rule.ID, &rule.ClassroomID, &day, &start, &end, &from, &until, &createdAt, &deletedAt); err != nil {
		return nil, err
	}

	rule.Day = schedule.DayOfWeek(day)
	var err error
	if rule.StartTime, err = schedule.ParseClockTime(start); err != nil {
		return nil, err
	}
	if rule.EndTime, err = schedule.ParseClockTime(end); err != nil {
		return nil, err
	}
	if from.Valid {
		if rule.EffectiveFrom, err = schedule.ParseDate(from.String); err != nil {
			return nil, err
		}
	}
	if until.Valid {
		d, err := schedule.ParseDate(until.String)
		if err != nil {
			return nil, err
		}
		rule.EffectiveUntil = &d
	}
	rule.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if deletedAt.Valid {
		t, _ := time.Parse(time.RFC3339, deletedAt.String)
		rule.DeletedAt = &t
	}
	return &rule, nil
}

func scanSession(row rowScanner) (*schedule.Session, error) {
	var session schedule.Session
	var date, start, end, createdAt, updatedAt string
	var location, notes, substitute, deletedAt sql.NullString

	if err := row.Scan(&session.ID, &session.ClassroomID, &date, &start, &end, &session.Status,
		&location, &notes, &substitute, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	var err error
	if session.Date, err = schedule.ParseDate(date); err != nil {
		return nil, err
	}
	if session.StartTime, err = schedule.ParseClockTime(start); err != nil {
		return nil, err
	}
	if session.EndTime, err = schedule.ParseClockTime(end); err != nil {
		return nil, err
	}
	session.Location = location.String
	session.Notes = notes.String
	if substitute.Valid {
		p := schedule.PersonID(substitute.String)
		session.SubstituteTeacher = &p
	}
	session.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	session.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	if deletedAt.Valid {
		t, _ := time.Parse(time.RFC3339, deletedAt.String)
		session.DeletedAt = &t
	}
	return &session, nil
}

// =============================================================================
// SQL HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullPersonID(p *schedule.PersonID) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p), Valid: true}
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
