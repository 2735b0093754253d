package schedule_test

import (
	"testing"

	"github.com/hagwon/schedule-engine/schedule"
)

// =============================================================================
// ROUND-TRIP PROPERTY
// =============================================================================

func TestVirtualID_RoundTrip(t *testing.T) {
	// GIVEN: A set of (classroom, date, start) triples, including classroom
	// IDs that themselves contain the delimiter (UUIDs)
	// WHEN: Formatting a virtual ID and parsing it back
	// THEN: The original coordinates are recovered exactly

	cases := []struct {
		classroom string
		date      string
		start     string
	}{
		{"C1", "2024-01-01", "09:00"},
		{"math-101", "2024-12-31", "23:59"},
		{"550e8400-e29b-41d4-a716-446655440000", "2024-06-15", "00:00"},
		{"a-b-c-d", "2025-02-28", "14:30"},
	}

	for _, tc := range cases {
		date := schedule.MustParseDate(tc.date)
		start := schedule.MustParseClockTime(tc.start)

		id := schedule.VirtualID(schedule.ClassroomID(tc.classroom), date, start)

		classroom, gotDate, gotStart, ok := schedule.ParseVirtualID(id)
		if !ok {
			t.Errorf("ParseVirtualID(%q) failed", id)
			continue
		}
		if string(classroom) != tc.classroom {
			t.Errorf("classroom: got %q, want %q (id %q)", classroom, tc.classroom, id)
		}
		if !gotDate.Equal(date) {
			t.Errorf("date: got %s, want %s (id %q)", gotDate, date, id)
		}
		if !gotStart.Equal(start) {
			t.Errorf("start: got %s, want %s (id %q)", gotStart, start, id)
		}
	}
}

func TestVirtualID_Format(t *testing.T) {
	id := schedule.VirtualID("C1", schedule.MustParseDate("2024-01-01"), schedule.MustParseClockTime("09:00"))
	if id != "virtual-C1-2024-01-01-09:00" {
		t.Errorf("unexpected id: %s", id)
	}
}

func TestVirtualID_Deterministic(t *testing.T) {
	// Same triple must always yield the same key; the Materializer's
	// de-duplication depends on it.
	date := schedule.MustParseDate("2024-03-04")
	start := schedule.MustParseClockTime("10:15")

	a := schedule.VirtualID("room", date, start)
	b := schedule.VirtualID("room", date, start)
	if a != b {
		t.Errorf("ids differ: %s vs %s", a, b)
	}
}

// =============================================================================
// CLASSIFICATION AND REJECTION
// =============================================================================

func TestIsVirtualID(t *testing.T) {
	if !schedule.IsVirtualID("virtual-C1-2024-01-01-09:00") {
		t.Error("virtual id not recognized")
	}
	if schedule.IsVirtualID("550e8400-e29b-41d4-a716-446655440000") {
		t.Error("plain UUID misclassified as virtual")
	}
	if schedule.IsVirtualID("") {
		t.Error("empty string misclassified as virtual")
	}
}

func TestParseVirtualID_RejectsMalformed(t *testing.T) {
	malformed := []string{
		"",
		"virtual-",
		"virtual-C1",
		"virtual-C1-2024-01-01",          // no time component
		"virtual-C1-2024-01-01-9:00",     // time too short
		"virtual-C1-2024-1-01-09:00",     // date not zero-padded
		"virtual-C1-2024-01-01-25:99",    // out-of-range time
		"session-C1-2024-01-01-09:00",    // wrong prefix
		"virtual--2024-01-01-09:00",      // empty classroom
		"virtual-C1-2024-01-01x09:00",    // wrong separator position
	}

	for _, id := range malformed {
		if _, _, _, ok := schedule.ParseVirtualID(id); ok {
			t.Errorf("ParseVirtualID(%q) should fail", id)
		}
	}
}

func TestOccurrenceFromID_RecoversCoordinates(t *testing.T) {
	occ, ok := schedule.OccurrenceFromID("virtual-C1-2024-01-08-09:00")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if occ.ClassroomID != "C1" || occ.Date.String() != "2024-01-08" || occ.StartTime.String() != "09:00" {
		t.Errorf("unexpected occurrence: %+v", occ)
	}
	if occ.ID != "virtual-C1-2024-01-08-09:00" {
		t.Errorf("occurrence should keep its id, got %s", occ.ID)
	}
}
