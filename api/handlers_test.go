package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hagwon/schedule-engine/api"
	"github.com/hagwon/schedule-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *api.Handler) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	handler := api.NewHandler(store)
	server := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(server.Close)
	return server, handler
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// seedClassroom creates a classroom with one Monday 09:00-10:00 rule and
// returns the rule.
func seedClassroom(t *testing.T, server *httptest.Server) api.RuleDTO {
	resp := doJSON(t, http.MethodPost, server.URL+"/api/classrooms", map[string]any{
		"id":      "C1",
		"name":    "Math 101",
		"members": []string{"student-1"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/classrooms/C1/rules", api.CreateRuleRequest{
		DayOfWeek:     "monday",
		StartTime:     "09:00",
		EndTime:       "10:00",
		EffectiveFrom: "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[api.RuleDTO](t, resp)
}

// =============================================================================
// RULES AND SESSIONS
// =============================================================================

func TestAPI_CreateRule_NumericDayAccepted(t *testing.T) {
	server, _ := newTestServer(t)
	resp := doJSON(t, http.MethodPost, server.URL+"/api/classrooms", map[string]any{
		"id": "C1", "name": "Math 101",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/classrooms/C1/rules", api.CreateRuleRequest{
		DayOfWeek: "1",
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	rule := decode[api.RuleDTO](t, resp)
	assert.Equal(t, "Monday", rule.DayOfWeek)
}

func TestAPI_CreateRule_BadDay_Rejected(t *testing.T) {
	server, _ := newTestServer(t)
	seedClassroom(t, server)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/classrooms/C1/rules", api.CreateRuleRequest{
		DayOfWeek: "blursday",
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ListSessions_ReturnsVirtualOccurrences(t *testing.T) {
	server, _ := newTestServer(t)
	seedClassroom(t, server)

	resp := doJSON(t, http.MethodGet,
		server.URL+"/api/classrooms/C1/sessions?from=2024-01-01&to=2024-01-14", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sessions := decode[[]api.SessionDTO](t, resp)
	require.Len(t, sessions, 2)
	assert.True(t, sessions[0].IsVirtual)
	assert.Equal(t, "virtual-C1-2024-01-01-09:00", sessions[0].ID)
	assert.Equal(t, "virtual-C1-2024-01-08-09:00", sessions[1].ID)
}

func TestAPI_ListSessions_MissingRange_Rejected(t *testing.T) {
	server, _ := newTestServer(t)
	seedClassroom(t, server)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/classrooms/C1/sessions", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodGet,
		server.URL+"/api/classrooms/C1/sessions?from=2024-01-14&to=2024-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// MATERIALIZATION
// =============================================================================

func TestAPI_Materialize_IdempotentAndDeduplicated(t *testing.T) {
	server, _ := newTestServer(t)
	seedClassroom(t, server)

	body := api.MaterializeRequest{OccurrenceID: "virtual-C1-2024-01-08-09:00"}

	resp := doJSON(t, http.MethodPost, server.URL+"/api/sessions/materialize", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decode[api.SessionDTO](t, resp)
	assert.False(t, first.IsVirtual)
	assert.Equal(t, "10:00", first.EndTime, "end time resolved from the rule")

	resp = doJSON(t, http.MethodPost, server.URL+"/api/sessions/materialize", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decode[api.SessionDTO](t, resp)
	assert.Equal(t, first.ID, second.ID)

	// The range view now shows the persisted row once, virtual gone
	resp = doJSON(t, http.MethodGet,
		server.URL+"/api/classrooms/C1/sessions?from=2024-01-01&to=2024-01-14", nil)
	sessions := decode[[]api.SessionDTO](t, resp)
	require.Len(t, sessions, 2)
	assert.True(t, sessions[0].IsVirtual)
	assert.False(t, sessions[1].IsVirtual)
	assert.Equal(t, first.ID, sessions[1].ID)
}

func TestAPI_Materialize_BadID_Rejected(t *testing.T) {
	server, _ := newTestServer(t)
	seedClassroom(t, server)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/sessions/materialize",
		api.MaterializeRequest{OccurrenceID: "not-a-virtual-id"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_UpdateSession_VirtualID_WriteThrough(t *testing.T) {
	// Editing a virtual occurrence materializes it and applies the edit.

	server, _ := newTestServer(t)
	seedClassroom(t, server)

	status := "cancelled"
	resp := doJSON(t, http.MethodPut,
		server.URL+"/api/sessions/virtual-C1-2024-01-08-09:00",
		api.UpdateSessionRequest{Status: &status})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decode[api.SessionDTO](t, resp)
	assert.False(t, updated.IsVirtual)
	assert.Equal(t, "cancelled", updated.Status)

	// The cancelled persisted row owns its slot in the range view
	resp = doJSON(t, http.MethodGet,
		server.URL+"/api/classrooms/C1/sessions?from=2024-01-08&to=2024-01-08", nil)
	sessions := decode[[]api.SessionDTO](t, resp)
	require.Len(t, sessions, 1)
	assert.Equal(t, "cancelled", sessions[0].Status)
}

func TestAPI_UpdateSession_Unknown_NotFound(t *testing.T) {
	server, _ := newTestServer(t)
	seedClassroom(t, server)

	notes := "x"
	resp := doJSON(t, http.MethodPut, server.URL+"/api/sessions/no-such-session",
		api.UpdateSessionRequest{Notes: &notes})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// SCHEDULE CHANGES
// =============================================================================

func TestAPI_ChangeSchedule_FromDate(t *testing.T) {
	server, _ := newTestServer(t)
	rule := seedClassroom(t, server)

	start := "11:00"
	end := "12:00"
	effective := "2024-03-01"
	resp := doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/rules/%s/change", server.URL, rule.ID),
		api.ScheduleChangeRequest{
			Strategy:      "from_date",
			EffectiveDate: &effective,
			StartTime:     &start,
			EndTime:       &end,
		})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[api.ScheduleChangeResponse](t, resp)
	require.NotNil(t, result.OldRule.EffectiveUntil)
	assert.Equal(t, "2024-02-29", *result.OldRule.EffectiveUntil)
	assert.Equal(t, "2024-03-01", result.NewRule.EffectiveFrom)
	assert.Equal(t, "11:00", result.NewRule.StartTime)
	assert.Equal(t, 0, result.MaterializedCount)
}

func TestAPI_ChangeSchedule_FromDate_MissingDate_Rejected(t *testing.T) {
	server, _ := newTestServer(t)
	rule := seedClassroom(t, server)

	start := "11:00"
	resp := doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/rules/%s/change", server.URL, rule.ID),
		api.ScheduleChangeRequest{Strategy: "from_date", StartTime: &start})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ChangeSchedule_UnknownStrategy_Rejected(t *testing.T) {
	server, _ := newTestServer(t)
	rule := seedClassroom(t, server)

	start := "11:00"
	resp := doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/rules/%s/change", server.URL, rule.ID),
		api.ScheduleChangeRequest{Strategy: "retroactive", StartTime: &start})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ChangeSchedule_UnknownRule_NotFound(t *testing.T) {
	server, _ := newTestServer(t)
	seedClassroom(t, server)

	start := "11:00"
	resp := doJSON(t, http.MethodPost, server.URL+"/api/rules/no-such-rule/change",
		api.ScheduleChangeRequest{Strategy: "future_only", StartTime: &start})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_PreviewChange(t *testing.T) {
	server, _ := newTestServer(t)
	rule := seedClassroom(t, server)

	sameStart := "09:00"
	resp := doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/rules/%s/change/preview", server.URL, rule.ID),
		api.ScheduleChangeRequest{StartTime: &sameStart})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[api.ChangePreviewResponse](t, resp).RequiresUpdateModal)

	newStart := "11:00"
	resp = doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/rules/%s/change/preview", server.URL, rule.ID),
		api.ScheduleChangeRequest{StartTime: &newStart})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[api.ChangePreviewResponse](t, resp).RequiresUpdateModal)
}

// =============================================================================
// CHECK-IN
// =============================================================================

func TestAPI_CheckIn_RequiresPersonID(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/check-in", api.CheckInRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/check-in/today", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_CheckIn_FullFlow(t *testing.T) {
	server, handler := newTestServer(t)
	seedClassroom(t, server)

	// Pin the clock to a Monday after the seeded rule's start time
	handler.CheckIn.Now = func() time.Time {
		return time.Date(2024, 1, 8, 9, 30, 0, 0, time.UTC)
	}

	resp := doJSON(t, http.MethodGet, server.URL+"/api/check-in/today?person_id=student-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	occs := decode[[]api.CheckInOccurrenceDTO](t, resp)
	require.Len(t, occs, 1)
	assert.Equal(t, "Math 101", occs[0].ClassroomName)
	assert.Equal(t, "2024-01-08", occs[0].Date)
	assert.True(t, occs[0].IsVirtual)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/check-in", api.CheckInRequest{
		PersonID:   "student-1",
		PersonName: "Alice",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results := decode[[]api.CheckInResultDTO](t, resp)
	require.Len(t, results, 1)
	require.Empty(t, results[0].Error)
	assert.NotEmpty(t, results[0].SessionID)
	assert.Equal(t, "late", results[0].Status)
	assert.False(t, results[0].AlreadyCheckedIn)

	// Checking in again reports already_checked_in
	resp = doJSON(t, http.MethodPost, server.URL+"/api/check-in", api.CheckInRequest{
		PersonID: "student-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	repeat := decode[[]api.CheckInResultDTO](t, resp)
	require.Len(t, repeat, 1)
	assert.True(t, repeat[0].AlreadyCheckedIn)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestAPI_Scenarios_ListAndLoad(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/scenarios", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]api.ScenarioDTO](t, resp)
	require.NotEmpty(t, list)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/scenarios/load",
		api.LoadScenarioRequest{ScenarioID: "winter-break"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	current := decode[api.ScenarioDTO](t, resp)
	assert.Equal(t, "winter-break", current.ID)

	// The loaded classroom exposes rules and breaks
	resp = doJSON(t, http.MethodGet, server.URL+"/api/classrooms/math-101/rules", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rules := decode[[]api.RuleDTO](t, resp)
	assert.Len(t, rules, 2)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/classrooms/math-101/breaks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	breaks := decode[[]api.BreakDTO](t, resp)
	assert.Len(t, breaks, 1)
}

func TestAPI_Scenarios_Unknown_Rejected(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/scenarios/load",
		api.LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
