/*
handlers.go - HTTP API handlers for the scheduling engine

PURPOSE:
  Exposes the scheduling engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Classrooms:
    POST   /api/classrooms                    Create classroom
    GET    /api/classrooms/{id}/sessions      Unified session list for a range
    GET    /api/classrooms/{id}/rules         List recurrence rules
    POST   /api/classrooms/{id}/rules         Create recurrence rule
    GET    /api/classrooms/{id}/breaks        List break intervals
    POST   /api/classrooms/{id}/breaks        Create break interval

  Sessions:
    POST   /api/sessions/materialize          Persist a virtual occurrence
    PUT    /api/sessions/{id}                 Edit a session (virtual IDs accepted)

  Schedule changes:
    POST   /api/rules/{id}/change             Apply a schedule change
    POST   /api/rules/{id}/change/preview     Does this edit need a strategy?

  Check-in:
    GET    /api/check-in/today                Today's occurrences for a person
    POST   /api/check-in                      Record attendance

  Scenarios:
    GET    /api/scenarios                     List demo scenarios
    POST   /api/scenarios/load                Load a demo scenario

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Aggregator/Materializer/Coordinator/CheckIn: domain services

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (expansion, materialization, change strategies)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate slot or attendance)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hagwon/schedule-engine/schedule"
	"github.com/hagwon/schedule-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store

	Aggregator   *schedule.Aggregator
	Materializer *schedule.Materializer
	Coordinator  *schedule.Coordinator
	CheckIn      *schedule.CheckIn

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the domain services wired to the
// given store.
func NewHandler(store *sqlite.Store) *Handler {
	aggregator := schedule.NewAggregator(store, store)
	materializer := schedule.NewMaterializer(store)
	return &Handler{
		Store:        store,
		Aggregator:   aggregator,
		Materializer: materializer,
		Coordinator:  schedule.NewCoordinator(store, store, materializer),
		CheckIn:      schedule.NewCheckIn(store, store, store, aggregator, materializer),
	}
}

// =============================================================================
// CLASSROOM HANDLERS
// =============================================================================

// CreateClassroom registers a classroom and optionally enrolls people.
func (h *Handler) CreateClassroom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID      string   `json:"id"`
		Name    string   `json:"name"`
		Members []string `json:"members,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	ctx := r.Context()
	if err := h.Store.SaveClassroom(ctx, sqlite.Classroom{ID: schedule.ClassroomID(req.ID), Name: req.Name}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create classroom", err)
		return
	}
	for _, member := range req.Members {
		if err := h.Store.Enroll(ctx, schedule.ClassroomID(req.ID), schedule.PersonID(member)); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to enroll member", err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": req.ID, "name": req.Name})
}

// ListSessions returns the unified (persisted + virtual) session list for
// a classroom over [from, to].
// GET /api/classrooms/{id}/sessions?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	classroomID := schedule.ClassroomID(chi.URLParam(r, "id"))

	from, err := schedule.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := schedule.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to must not be before from", nil)
		return
	}

	ctx := r.Context()
	persisted, err := h.Store.SessionsInRange(ctx, classroomID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load sessions", err)
		return
	}

	views := h.Aggregator.SessionsForRange(ctx, classroomID, from, to, persisted)
	writeJSON(w, http.StatusOK, toSessionDTOs(views))
}

// =============================================================================
// RULE HANDLERS
// =============================================================================

// ListRules returns a classroom's recurrence rules, retired ones included.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	classroomID := schedule.ClassroomID(chi.URLParam(r, "id"))

	rules, err := h.Store.Rules(r.Context(), classroomID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rules", err)
		return
	}

	dtos := make([]RuleDTO, len(rules))
	for i, rule := range rules {
		dtos[i] = toRuleDTO(rule)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateRule creates a recurrence rule for a classroom.
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	classroomID := schedule.ClassroomID(chi.URLParam(r, "id"))

	var req CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	day, err := schedule.ParseDayOfWeek(req.DayOfWeek)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day_of_week", err)
		return
	}
	start, err := schedule.ParseClockTime(req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_time (use HH:MM)", err)
		return
	}
	end, err := schedule.ParseClockTime(req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_time (use HH:MM)", err)
		return
	}

	rule := schedule.RecurrenceRule{
		ClassroomID: classroomID,
		Day:         day,
		StartTime:   start,
		EndTime:     end,
	}
	if req.EffectiveFrom != "" {
		from, err := schedule.ParseDate(req.EffectiveFrom)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid effective_from (use YYYY-MM-DD)", err)
			return
		}
		rule.EffectiveFrom = from
	}

	created, err := h.Store.CreateRule(r.Context(), rule)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create rule", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRuleDTO(*created))
}

// =============================================================================
// BREAK HANDLERS
// =============================================================================

// ListBreaks returns a classroom's break intervals.
func (h *Handler) ListBreaks(w http.ResponseWriter, r *http.Request) {
	classroomID := schedule.ClassroomID(chi.URLParam(r, "id"))

	breaks, err := h.Store.Breaks(r.Context(), classroomID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list breaks", err)
		return
	}

	dtos := make([]BreakDTO, len(breaks))
	for i, b := range breaks {
		dtos[i] = toBreakDTO(b)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateBreak creates a break interval for a classroom.
func (h *Handler) CreateBreak(w http.ResponseWriter, r *http.Request) {
	classroomID := schedule.ClassroomID(chi.URLParam(r, "id"))

	var req CreateBreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	startDate, err := schedule.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}
	endDate, err := schedule.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date (use YYYY-MM-DD)", err)
		return
	}
	if endDate.Before(startDate) {
		writeError(w, http.StatusBadRequest, "end_date must not be before start_date", nil)
		return
	}

	created, err := h.Store.CreateBreak(r.Context(), schedule.BreakInterval{
		ClassroomID: classroomID,
		StartDate:   startDate,
		EndDate:     endDate,
		Reason:      req.Reason,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create break", err)
		return
	}
	writeJSON(w, http.StatusCreated, toBreakDTO(*created))
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// MaterializeSession persists a virtual occurrence and returns the session
// row. Repeating the call returns the same row.
// POST /api/sessions/materialize
func (h *Handler) MaterializeSession(w http.ResponseWriter, r *http.Request) {
	var req MaterializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	occ, ok := schedule.OccurrenceFromID(req.OccurrenceID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid occurrence_id", nil)
		return
	}

	ctx := r.Context()
	if req.EndTime != "" {
		end, err := schedule.ParseClockTime(req.EndTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_time (use HH:MM)", err)
			return
		}
		occ.EndTime = end
	} else if err := h.resolveEndTime(ctx, &occ); err != nil {
		writeDomainError(w, "Failed to resolve occurrence end time", err)
		return
	}

	ov := &schedule.Overrides{
		Location: req.Location,
		Notes:    req.Notes,
	}
	if req.Status != nil {
		status := schedule.SessionStatus(*req.Status)
		ov.Status = &status
	}
	if req.SubstituteTeacher != nil {
		p := schedule.PersonID(*req.SubstituteTeacher)
		ov.SubstituteTeacher = &p
	}

	session, err := h.Materializer.Materialize(ctx, occ, ov)
	if err != nil {
		writeDomainError(w, "Failed to materialize session", err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(schedule.ViewOfSession(*session)))
}

// UpdateSession edits a session. The {id} may be a virtual occurrence ID,
// in which case the occurrence is materialized first and the edit applied
// to the resulting row.
// PUT /api/sessions/{id}
func (h *Handler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	session, err := h.resolveSession(ctx, id)
	if err != nil {
		writeDomainError(w, "Failed to resolve session", err)
		return
	}

	if req.Status != nil {
		session.Status = schedule.SessionStatus(*req.Status)
	}
	if req.Location != nil {
		session.Location = *req.Location
	}
	if req.Notes != nil {
		session.Notes = *req.Notes
	}
	if req.SubstituteTeacher != nil {
		if *req.SubstituteTeacher == "" {
			session.SubstituteTeacher = nil
		} else {
			p := schedule.PersonID(*req.SubstituteTeacher)
			session.SubstituteTeacher = &p
		}
	}

	updated, err := h.Store.UpdateSession(ctx, *session)
	if err != nil {
		writeDomainError(w, "Failed to update session", err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(schedule.ViewOfSession(*updated)))
}

// resolveSession loads a session by ID, materializing it first when the ID
// is a virtual occurrence ID.
func (h *Handler) resolveSession(ctx context.Context, id string) (*schedule.Session, error) {
	occ, ok := schedule.OccurrenceFromID(id)
	if !ok {
		return h.Store.Session(ctx, schedule.SessionID(id))
	}
	if err := h.resolveEndTime(ctx, &occ); err != nil {
		return nil, err
	}
	return h.Materializer.Materialize(ctx, occ, nil)
}

// resolveEndTime fills in the end time a virtual occurrence ID does not
// encode, from the rule governing that slot on that date.
func (h *Handler) resolveEndTime(ctx context.Context, occ *schedule.VirtualOccurrence) error {
	rules, err := h.Store.Rules(ctx, occ.ClassroomID)
	if err != nil {
		return err
	}
	for _, rule := range rules {
		if rule.Deleted() || !rule.Day.Matches(occ.Date.Weekday()) || !rule.EffectiveOn(occ.Date) {
			continue
		}
		if rule.StartTime.Equal(occ.StartTime) {
			occ.EndTime = rule.EndTime
			return nil
		}
	}
	return schedule.ErrRuleNotFound
}

// =============================================================================
// SCHEDULE CHANGE HANDLERS
// =============================================================================

// ChangeSchedule applies a schedule change to a rule under the requested
// strategy.
// POST /api/rules/{id}/change
func (h *Handler) ChangeSchedule(w http.ResponseWriter, r *http.Request) {
	ruleID := schedule.RuleID(chi.URLParam(r, "id"))

	var req ScheduleChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	edit, err := parseRuleEdit(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rule edit", err)
		return
	}

	var effectiveDate *schedule.Date
	if req.EffectiveDate != nil {
		d, err := schedule.ParseDate(*req.EffectiveDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid effective_date (use YYYY-MM-DD)", err)
			return
		}
		effectiveDate = &d
	}

	result, err := h.Coordinator.ApplyScheduleChange(
		r.Context(), ruleID, edit, schedule.UpdateStrategy(req.Strategy), effectiveDate)
	if err != nil {
		writeDomainError(w, "Failed to apply schedule change", err)
		return
	}

	writeJSON(w, http.StatusOK, ScheduleChangeResponse{
		OldRule:           toRuleDTO(result.OldRule),
		NewRule:           toRuleDTO(result.NewRule),
		MaterializedCount: result.MaterializedCount,
	})
}

// PreviewChange reports whether an edit changes the rule's slot and so
// needs the schedule-update dialog.
// POST /api/rules/{id}/change/preview
func (h *Handler) PreviewChange(w http.ResponseWriter, r *http.Request) {
	ruleID := schedule.RuleID(chi.URLParam(r, "id"))

	var req ScheduleChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	edit, err := parseRuleEdit(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rule edit", err)
		return
	}

	rule, err := h.Store.Rule(r.Context(), ruleID)
	if err != nil {
		writeDomainError(w, "Failed to load rule", err)
		return
	}

	writeJSON(w, http.StatusOK, ChangePreviewResponse{
		RequiresUpdateModal: schedule.RequiresUpdateModal(*rule, edit),
	})
}

func parseRuleEdit(req ScheduleChangeRequest) (schedule.RuleEdit, error) {
	var edit schedule.RuleEdit
	if req.DayOfWeek != nil {
		day, err := schedule.ParseDayOfWeek(*req.DayOfWeek)
		if err != nil {
			return edit, err
		}
		edit.Day = &day
	}
	if req.StartTime != nil {
		start, err := schedule.ParseClockTime(*req.StartTime)
		if err != nil {
			return edit, err
		}
		edit.StartTime = &start
	}
	if req.EndTime != nil {
		end, err := schedule.ParseClockTime(*req.EndTime)
		if err != nil {
			return edit, err
		}
		edit.EndTime = &end
	}
	return edit, nil
}

// =============================================================================
// CHECK-IN HANDLERS
// =============================================================================

// TodayOccurrences returns the occurrences a person can check in to today.
// GET /api/check-in/today?person_id=...
func (h *Handler) TodayOccurrences(w http.ResponseWriter, r *http.Request) {
	personID := schedule.PersonID(r.URL.Query().Get("person_id"))
	if personID == "" {
		writeError(w, http.StatusBadRequest, "person_id is required", nil)
		return
	}

	occurrences, err := h.CheckIn.TodayOccurrences(r.Context(), personID)
	if err != nil {
		writeDomainError(w, "Failed to load today's occurrences", err)
		return
	}

	dtos := make([]CheckInOccurrenceDTO, len(occurrences))
	for i, occ := range occurrences {
		dtos[i] = CheckInOccurrenceDTO{
			ID:            occ.ID,
			ClassroomID:   string(occ.ClassroomID),
			ClassroomName: occ.ClassroomName,
			Date:          occ.Date.String(),
			StartTime:     occ.StartTime.String(),
			EndTime:       occ.EndTime.String(),
			IsVirtual:     occ.IsVirtual,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PerformCheckIn records attendance for a person's occurrences. With no
// occurrence_ids the person is checked in to everything today.
// POST /api/check-in
func (h *Handler) PerformCheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.PersonID == "" {
		writeError(w, http.StatusBadRequest, "person_id is required", nil)
		return
	}

	ctx := r.Context()
	personID := schedule.PersonID(req.PersonID)

	occurrences, err := h.CheckIn.TodayOccurrences(ctx, personID)
	if err != nil {
		writeDomainError(w, "Failed to load today's occurrences", err)
		return
	}

	if len(req.OccurrenceIDs) > 0 {
		requested := make(map[string]bool, len(req.OccurrenceIDs))
		for _, id := range req.OccurrenceIDs {
			requested[id] = true
		}
		filtered := occurrences[:0]
		for _, occ := range occurrences {
			if requested[occ.ID] {
				filtered = append(filtered, occ)
			}
		}
		occurrences = filtered
	}

	results := h.CheckIn.Run(ctx, personID, req.PersonName, occurrences, req.Note)

	dtos := make([]CheckInResultDTO, len(results))
	for i, res := range results {
		dtos[i] = toCheckInResultDTO(res)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case schedule.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case schedule.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case schedule.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
