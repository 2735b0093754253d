package schedule_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hagwon/schedule-engine/schedule"
	"github.com/hagwon/schedule-engine/schedule/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func occurrence(classroom, date, start, end string) schedule.VirtualOccurrence {
	d := schedule.MustParseDate(date)
	s := schedule.MustParseClockTime(start)
	return schedule.VirtualOccurrence{
		ID:          schedule.VirtualID(schedule.ClassroomID(classroom), d, s),
		ClassroomID: schedule.ClassroomID(classroom),
		Date:        d,
		StartTime:   s,
		EndTime:     schedule.MustParseClockTime(end),
	}
}

// =============================================================================
// IDEMPOTENT MATERIALIZATION
// =============================================================================

func TestMaterialize_CreatesSessionWithDefaults(t *testing.T) {
	// GIVEN: An unmaterialized occurrence
	// WHEN: Materializing it
	// THEN: A scheduled session exists with the default location

	mem := store.NewMemory()
	m := schedule.NewMaterializer(mem)
	ctx := context.Background()

	occ := occurrence("C1", "2024-01-01", "09:00", "10:00")
	session, err := m.Materialize(ctx, occ, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, schedule.StatusScheduled, session.Status)
	assert.Equal(t, schedule.DefaultLocation, session.Location)
	assert.Equal(t, occ.Date, session.Date)
	assert.Equal(t, occ.StartTime, session.StartTime)
	assert.Equal(t, occ.EndTime, session.EndTime)
}

func TestMaterialize_SecondCall_ReturnsSameRow(t *testing.T) {
	// GIVEN: An occurrence already materialized
	// WHEN: Materializing it again
	// THEN: The same session row is returned, no second row created

	mem := store.NewMemory()
	m := schedule.NewMaterializer(mem)
	ctx := context.Background()

	occ := occurrence("C1", "2024-01-01", "09:00", "10:00")

	first, err := m.Materialize(ctx, occ, nil)
	require.NoError(t, err)
	second, err := m.Materialize(ctx, occ, nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	sessions, err := mem.SessionsInRange(ctx, "C1",
		schedule.MustParseDate("2024-01-01"), schedule.MustParseDate("2024-01-01"))
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestMaterialize_Overrides_Applied(t *testing.T) {
	mem := store.NewMemory()
	m := schedule.NewMaterializer(mem)
	ctx := context.Background()

	status := schedule.StatusCancelled
	location := "room 4"
	sub := schedule.PersonID("teacher-2")
	session, err := m.Materialize(ctx, occurrence("C1", "2024-01-01", "09:00", "10:00"), &schedule.Overrides{
		Status:            &status,
		Location:          &location,
		SubstituteTeacher: &sub,
	})
	require.NoError(t, err)

	assert.Equal(t, schedule.StatusCancelled, session.Status)
	assert.Equal(t, "room 4", session.Location)
	require.NotNil(t, session.SubstituteTeacher)
	assert.Equal(t, sub, *session.SubstituteTeacher)
}

func TestMaterialize_ConcurrentCallers_ConvergeOnOneRow(t *testing.T) {
	// GIVEN: Many goroutines materializing the same occurrence at once
	// WHEN: They all race through check-then-insert
	// THEN: Every caller gets the same session and exactly one row exists

	mem := store.NewMemory()
	m := schedule.NewMaterializer(mem)
	ctx := context.Background()
	occ := occurrence("C1", "2024-01-01", "09:00", "10:00")

	const callers = 16
	ids := make([]schedule.SessionID, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session, err := m.Materialize(ctx, occ, nil)
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = session.ID
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i], "caller %d got a different row", i)
	}

	sessions, err := mem.SessionsInRange(ctx, "C1",
		schedule.MustParseDate("2024-01-01"), schedule.MustParseDate("2024-01-01"))
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

// =============================================================================
// BULK MATERIALIZATION
// =============================================================================

func TestMaterializeAll_SkipsOccupiedSlots(t *testing.T) {
	// GIVEN: Three occurrences, one of which is already persisted
	// WHEN: Bulk-materializing all three
	// THEN: Two rows are inserted and the existing row is untouched

	mem := store.NewMemory()
	m := schedule.NewMaterializer(mem)
	ctx := context.Background()

	existing, err := m.Materialize(ctx, occurrence("C1", "2024-01-08", "09:00", "10:00"), nil)
	require.NoError(t, err)

	occs := []schedule.VirtualOccurrence{
		occurrence("C1", "2024-01-01", "09:00", "10:00"),
		occurrence("C1", "2024-01-08", "09:00", "10:00"),
		occurrence("C1", "2024-01-15", "09:00", "10:00"),
	}

	inserted, err := m.MaterializeAll(ctx, occs, "bulk note")
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// The pre-existing row keeps its identity
	kept, err := mem.FindSession(ctx, "C1", existing.Date, existing.StartTime)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Equal(t, existing.ID, kept.ID)

	// Newly inserted rows carry the provenance note
	created, err := mem.FindSession(ctx, "C1",
		schedule.MustParseDate("2024-01-01"), schedule.MustParseClockTime("09:00"))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "bulk note", created.Notes)
}

func TestMaterializeAll_Rerun_InsertsNothing(t *testing.T) {
	// Re-freezing an already-frozen window is harmless.

	mem := store.NewMemory()
	m := schedule.NewMaterializer(mem)
	ctx := context.Background()

	occs := []schedule.VirtualOccurrence{
		occurrence("C1", "2024-01-01", "09:00", "10:00"),
		occurrence("C1", "2024-01-08", "09:00", "10:00"),
	}

	first, err := m.MaterializeAll(ctx, occs, "note")
	require.NoError(t, err)
	assert.Equal(t, 2, first)

	second, err := m.MaterializeAll(ctx, occs, "note")
	require.NoError(t, err)
	assert.Equal(t, 0, second)
}

func TestMaterializeAll_Empty_NoOp(t *testing.T) {
	m := schedule.NewMaterializer(store.NewMemory())
	inserted, err := m.MaterializeAll(context.Background(), nil, "note")
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
}
