/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Sessions:
    SessionDTO, MaterializeRequest, UpdateSessionRequest

  Rules & breaks:
    RuleDTO, CreateRuleRequest, BreakDTO, CreateBreakRequest

  Schedule changes:
    ScheduleChangeRequest, ScheduleChangeResponse, ChangePreviewResponse

  Check-in:
    CheckInRequest, CheckInResultDTO, CheckInOccurrenceDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - schedule/types.go: Domain model these map from
*/
package api

import (
	"time"

	"github.com/hagwon/schedule-engine/schedule"
)

// =============================================================================
// SESSION TYPES
// =============================================================================

// SessionDTO represents a session occurrence in API responses. Virtual
// occurrences and persisted sessions share this shape; is_virtual tells
// them apart.
type SessionDTO struct {
	ID                string  `json:"id"`
	ClassroomID       string  `json:"classroom_id"`
	Date              string  `json:"date"`
	StartTime         string  `json:"start_time"`
	EndTime           string  `json:"end_time"`
	Status            string  `json:"status"`
	Location          string  `json:"location,omitempty"`
	Notes             string  `json:"notes,omitempty"`
	SubstituteTeacher *string `json:"substitute_teacher,omitempty"`
	IsVirtual         bool    `json:"is_virtual"`
}

// MaterializeRequest asks the server to persist a virtual occurrence.
type MaterializeRequest struct {
	OccurrenceID      string  `json:"occurrence_id"`
	EndTime           string  `json:"end_time,omitempty"`
	Status            *string `json:"status,omitempty"`
	Location          *string `json:"location,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	SubstituteTeacher *string `json:"substitute_teacher,omitempty"`
}

// UpdateSessionRequest edits a session. The target may be a virtual
// occurrence ID, in which case it is materialized first.
type UpdateSessionRequest struct {
	Status            *string `json:"status,omitempty"`
	Location          *string `json:"location,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	SubstituteTeacher *string `json:"substitute_teacher,omitempty"`
}

// =============================================================================
// RULE & BREAK TYPES
// =============================================================================

// RuleDTO represents a weekly recurrence rule.
type RuleDTO struct {
	ID             string  `json:"id"`
	ClassroomID    string  `json:"classroom_id"`
	DayOfWeek      string  `json:"day_of_week"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	EffectiveFrom  string  `json:"effective_from,omitempty"`
	EffectiveUntil *string `json:"effective_until,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

// CreateRuleRequest creates a recurrence rule. DayOfWeek accepts a name
// ("monday") or a number (0-6, Sunday=0).
type CreateRuleRequest struct {
	DayOfWeek     string `json:"day_of_week"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	EffectiveFrom string `json:"effective_from,omitempty"`
}

// BreakDTO represents a break interval.
type BreakDTO struct {
	ID          string `json:"id"`
	ClassroomID string `json:"classroom_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason,omitempty"`
}

// CreateBreakRequest creates a break interval.
type CreateBreakRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
}

// =============================================================================
// SCHEDULE CHANGE TYPES
// =============================================================================

// ScheduleChangeRequest applies a schedule change to a rule.
type ScheduleChangeRequest struct {
	Strategy      string  `json:"strategy"`
	EffectiveDate *string `json:"effective_date,omitempty"`
	DayOfWeek     *string `json:"day_of_week,omitempty"`
	StartTime     *string `json:"start_time,omitempty"`
	EndTime       *string `json:"end_time,omitempty"`
}

// ScheduleChangeResponse reports the outcome of a schedule change.
type ScheduleChangeResponse struct {
	OldRule           RuleDTO `json:"old_rule"`
	NewRule           RuleDTO `json:"new_rule"`
	MaterializedCount int     `json:"materialized_count"`
}

// ChangePreviewResponse tells the client whether the proposed edit needs
// the schedule-update dialog (it changes expansion output).
type ChangePreviewResponse struct {
	RequiresUpdateModal bool `json:"requires_update_modal"`
}

// =============================================================================
// CHECK-IN TYPES
// =============================================================================

// CheckInOccurrenceDTO is one of today's occurrences a person can check
// in to.
type CheckInOccurrenceDTO struct {
	ID            string `json:"id"`
	ClassroomID   string `json:"classroom_id"`
	ClassroomName string `json:"classroom_name"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	IsVirtual     bool   `json:"is_virtual"`
}

// CheckInRequest records attendance for a person. If OccurrenceIDs is
// empty the server checks in to all of today's occurrences.
type CheckInRequest struct {
	PersonID      string   `json:"person_id"`
	PersonName    string   `json:"person_name,omitempty"`
	OccurrenceIDs []string `json:"occurrence_ids,omitempty"`
	Note          string   `json:"note,omitempty"`
}

// CheckInResultDTO is the per-occurrence outcome of a check-in.
type CheckInResultDTO struct {
	SessionID        string `json:"session_id,omitempty"`
	ClassroomName    string `json:"classroom_name,omitempty"`
	Status           string `json:"status,omitempty"`
	AlreadyCheckedIn bool   `json:"already_checked_in"`
	Error            string `json:"error,omitempty"`
}

// =============================================================================
// SCENARIO & ERROR TYPES
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toSessionDTO(v schedule.SessionView) SessionDTO {
	dto := SessionDTO{
		ID:          v.ID,
		ClassroomID: string(v.ClassroomID),
		Date:        v.Date.String(),
		StartTime:   v.StartTime.String(),
		EndTime:     v.EndTime.String(),
		Status:      string(v.Status),
		Location:    v.Location,
		Notes:       v.Notes,
		IsVirtual:   v.IsVirtual,
	}
	if v.SubstituteTeacher != nil {
		s := string(*v.SubstituteTeacher)
		dto.SubstituteTeacher = &s
	}
	return dto
}

func toSessionDTOs(views []schedule.SessionView) []SessionDTO {
	dtos := make([]SessionDTO, len(views))
	for i, v := range views {
		dtos[i] = toSessionDTO(v)
	}
	return dtos
}

func toRuleDTO(rule schedule.RecurrenceRule) RuleDTO {
	dto := RuleDTO{
		ID:          string(rule.ID),
		ClassroomID: string(rule.ClassroomID),
		DayOfWeek:   rule.Day.String(),
		StartTime:   rule.StartTime.String(),
		EndTime:     rule.EndTime.String(),
		CreatedAt:   rule.CreatedAt.Format(time.RFC3339),
	}
	if !rule.EffectiveFrom.IsZero() {
		dto.EffectiveFrom = rule.EffectiveFrom.String()
	}
	if rule.EffectiveUntil != nil {
		s := rule.EffectiveUntil.String()
		dto.EffectiveUntil = &s
	}
	return dto
}

func toBreakDTO(b schedule.BreakInterval) BreakDTO {
	return BreakDTO{
		ID:          string(b.ID),
		ClassroomID: string(b.ClassroomID),
		StartDate:   b.StartDate.String(),
		EndDate:     b.EndDate.String(),
		Reason:      b.Reason,
	}
}

func toCheckInResultDTO(res schedule.CheckInResult) CheckInResultDTO {
	dto := CheckInResultDTO{
		SessionID:        string(res.SessionID),
		ClassroomName:    res.ClassroomName,
		Status:           string(res.Status),
		AlreadyCheckedIn: res.AlreadyCheckedIn,
	}
	if res.Err != nil {
		dto.Error = res.Err.Error()
	}
	return dto
}
