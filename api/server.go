/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/classrooms/*     Classrooms, rules, breaks, session ranges
  /api/sessions/*       Materialization and session edits
  /api/rules/*          Schedule change and preview
  /api/check-in/*       Self check-in
  /api/scenarios/*      Demo scenarios

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Classroom routes
		r.Route("/classrooms", func(r chi.Router) {
			r.Post("/", h.CreateClassroom)
			r.Get("/{id}/sessions", h.ListSessions)
			r.Get("/{id}/rules", h.ListRules)
			r.Post("/{id}/rules", h.CreateRule)
			r.Get("/{id}/breaks", h.ListBreaks)
			r.Post("/{id}/breaks", h.CreateBreak)
		})

		// Session routes
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/materialize", h.MaterializeSession)
			r.Put("/{id}", h.UpdateSession)
		})

		// Schedule change routes
		r.Route("/rules", func(r chi.Router) {
			r.Post("/{id}/change", h.ChangeSchedule)
			r.Post("/{id}/change/preview", h.PreviewChange)
		})

		// Check-in routes
		r.Route("/check-in", func(r chi.Router) {
			r.Get("/today", h.TodayOccurrences)
			r.Post("/", h.PerformCheckIn)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	// Landing page with endpoint index
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Schedule Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Schedule Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><code>GET /api/classrooms/{id}/sessions?from=&amp;to=</code> - Unified session list</li>
<li><code>POST /api/sessions/materialize</code> - Materialize a virtual occurrence</li>
<li><code>POST /api/rules/{id}/change</code> - Apply a schedule change</li>
<li><code>POST /api/check-in</code> - Self check-in</li>
<li><a href="/api/scenarios">/api/scenarios</a> - List demo scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}
