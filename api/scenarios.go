/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates classrooms, rules,
	breaks, and sessions that demonstrate specific features.

AVAILABLE SCENARIOS:

	weekly-class:     Single classroom with a Mon/Wed recurrence
	winter-break:     Recurrence interrupted by a break interval
	schedule-change:  A rule that was cut over mid-history
	frozen-schedule:  materialize_existing applied, old cadence frozen
	check-in-demo:    Today's sessions with an enrolled student

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create classrooms and enroll people
 3. Create recurrence rules and breaks
 4. Optionally apply a schedule change or materialize sessions

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "winter-break"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: writeJSON/writeError helpers
  - schedule/change.go: strategies the schedule-change scenario exercises
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hagwon/schedule-engine/schedule"
	"github.com/hagwon/schedule-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "weekly-class",
		Name:        "Weekly Class",
		Description: "One classroom meeting Monday and Wednesday, nothing persisted yet",
	},
	{
		ID:          "winter-break",
		Name:        "Winter Break",
		Description: "Weekly recurrence with a two-week break interval excluding occurrences",
	},
	{
		ID:          "schedule-change",
		Name:        "Schedule Change",
		Description: "A rule closed and replaced mid-history: old dates keep the old time",
	},
	{
		ID:          "frozen-schedule",
		Name:        "Frozen Schedule",
		Description: "materialize_existing change: six months of the old cadence persisted",
	},
	{
		ID:          "check-in-demo",
		Name:        "Check-In Demo",
		Description: "A student enrolled in two classrooms with sessions today",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	// Scenario ID exists but not in list (shouldn't happen)
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ScenarioID {
	case "weekly-class":
		err = h.loadWeeklyClassScenario(ctx)
	case "winter-break":
		err = h.loadWinterBreakScenario(ctx)
	case "schedule-change":
		err = h.loadScheduleChangeScenario(ctx)
	case "frozen-schedule":
		err = h.loadFrozenScheduleScenario(ctx)
	case "check-in-demo":
		err = h.loadCheckInDemoScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadWeeklyClassScenario(ctx context.Context) error {
	if err := h.Store.SaveClassroom(ctx, sqlite.Classroom{ID: "math-101", Name: "Math 101"}); err != nil {
		return err
	}

	// Monday and Wednesday evenings, effective since the start of the year
	yearStart := schedule.NewDate(time.Now().Year(), time.January, 1)
	for _, spec := range []struct {
		day   schedule.DayOfWeek
		start string
		end   string
	}{
		{schedule.Monday, "17:00", "18:30"},
		{schedule.Wednesday, "17:00", "18:30"},
	} {
		_, err := h.Store.CreateRule(ctx, schedule.RecurrenceRule{
			ClassroomID:   "math-101",
			Day:           spec.day,
			StartTime:     schedule.MustParseClockTime(spec.start),
			EndTime:       schedule.MustParseClockTime(spec.end),
			EffectiveFrom: yearStart,
		})
		if err != nil {
			return err
		}
	}

	return h.Store.Enroll(ctx, "math-101", "student-001")
}

func (h *Handler) loadWinterBreakScenario(ctx context.Context) error {
	if err := h.loadWeeklyClassScenario(ctx); err != nil {
		return err
	}

	// Two weeks out of the calendar starting next Monday
	breakStart := nextWeekday(schedule.DateOf(time.Now()), time.Monday)
	_, err := h.Store.CreateBreak(ctx, schedule.BreakInterval{
		ClassroomID: "math-101",
		StartDate:   breakStart,
		EndDate:     breakStart.AddDays(13),
		Reason:      "Winter break",
	})
	return err
}

func (h *Handler) loadScheduleChangeScenario(ctx context.Context) error {
	if err := h.Store.SaveClassroom(ctx, sqlite.Classroom{ID: "piano-a", Name: "Piano A"}); err != nil {
		return err
	}

	// The original Tuesday slot, in effect for the first half of the year
	yearStart := schedule.NewDate(time.Now().Year(), time.January, 1)
	rule, err := h.Store.CreateRule(ctx, schedule.RecurrenceRule{
		ClassroomID:   "piano-a",
		Day:           schedule.Tuesday,
		StartTime:     schedule.MustParseClockTime("15:00"),
		EndTime:       schedule.MustParseClockTime("16:00"),
		EffectiveFrom: yearStart,
	})
	if err != nil {
		return err
	}

	// Cut over to Thursday 16:00 effective today
	newDay := schedule.Thursday
	newStart := schedule.MustParseClockTime("16:00")
	newEnd := schedule.MustParseClockTime("17:00")
	_, err = h.Coordinator.ApplyScheduleChange(ctx, rule.ID, schedule.RuleEdit{
		Day:       &newDay,
		StartTime: &newStart,
		EndTime:   &newEnd,
	}, schedule.UpdateFutureOnly, nil)
	if err != nil {
		return err
	}

	return h.Store.Enroll(ctx, "piano-a", "student-001")
}

func (h *Handler) loadFrozenScheduleScenario(ctx context.Context) error {
	if err := h.Store.SaveClassroom(ctx, sqlite.Classroom{ID: "violin-b", Name: "Violin B"}); err != nil {
		return err
	}

	yearStart := schedule.NewDate(time.Now().Year(), time.January, 1)
	rule, err := h.Store.CreateRule(ctx, schedule.RecurrenceRule{
		ClassroomID:   "violin-b",
		Day:           schedule.Friday,
		StartTime:     schedule.MustParseClockTime("10:00"),
		EndTime:       schedule.MustParseClockTime("11:00"),
		EffectiveFrom: yearStart,
	})
	if err != nil {
		return err
	}

	// Freeze the Friday cadence and move the rule to Saturday. The frozen
	// sessions keep Friday on the calendar for the next six months.
	newDay := schedule.Saturday
	_, err = h.Coordinator.ApplyScheduleChange(ctx, rule.ID, schedule.RuleEdit{
		Day: &newDay,
	}, schedule.UpdateMaterializeExisting, nil)
	if err != nil {
		return err
	}

	return h.Store.Enroll(ctx, "violin-b", "student-001")
}

func (h *Handler) loadCheckInDemoScenario(ctx context.Context) error {
	today := schedule.DateOf(time.Now())
	weekday := schedule.DayOfWeek(today.Weekday())
	yearStart := schedule.NewDate(time.Now().Year(), time.January, 1)

	// Two classrooms that both meet today, so the check-in flow has
	// something virtual and something persisted to work with.
	for _, room := range []struct {
		id    schedule.ClassroomID
		name  string
		start string
		end   string
	}{
		{"morning-class", "Morning Class", "09:00", "10:00"},
		{"evening-class", "Evening Class", "19:00", "20:00"},
	} {
		if err := h.Store.SaveClassroom(ctx, sqlite.Classroom{ID: room.id, Name: room.name}); err != nil {
			return err
		}
		_, err := h.Store.CreateRule(ctx, schedule.RecurrenceRule{
			ClassroomID:   room.id,
			Day:           weekday,
			StartTime:     schedule.MustParseClockTime(room.start),
			EndTime:       schedule.MustParseClockTime(room.end),
			EffectiveFrom: yearStart,
		})
		if err != nil {
			return err
		}
		if err := h.Store.Enroll(ctx, room.id, "student-001"); err != nil {
			return err
		}
	}

	// Persist the morning occurrence so the demo shows both populations
	_, err := h.Materializer.Materialize(ctx, schedule.VirtualOccurrence{
		ID:          schedule.VirtualID("morning-class", today, schedule.MustParseClockTime("09:00")),
		ClassroomID: "morning-class",
		Date:        today,
		StartTime:   schedule.MustParseClockTime("09:00"),
		EndTime:     schedule.MustParseClockTime("10:00"),
	}, nil)
	return err
}

// nextWeekday returns the first date strictly after d falling on wd.
func nextWeekday(d schedule.Date, wd time.Weekday) schedule.Date {
	next := d.AddDays(1)
	for next.Weekday() != wd {
		next = next.AddDays(1)
	}
	return next
}
