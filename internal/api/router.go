package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/ecobuild-core/internal/building"
)

// healthCheckTimeout bounds each component check in the health endpoint.
const healthCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Get("/health", s.handleHealth)
		r.Get("/options", s.handleOptions)
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		// Legacy per-user route, keyed by a bare user ID without a token.
		r.Post("/user/{id}/buildings", s.handleAddUserBuilding)

		// WebSocket (auth via ticket, validated in handler)
		r.Get("/ws", s.handleWebSocket)

		// Scoring collaborator and wizard sessions work signed in or not;
		// a token, when sent, must be valid.
		r.Group(func(r chi.Router) {
			r.Use(s.optionalAuthMiddleware)

			r.Route("/analysis", func(r chi.Router) {
				r.Post("/location", s.handleAnalyzeLocation)
				r.Post("/sustainability", s.handleAnalyzeSustainability)
			})
			r.Post("/chat", s.handleChat)

			r.Route("/wizard", func(r chi.Router) {
				r.Post("/", s.handleCreateWizard)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetWizard)
					r.Delete("/", s.handleDeleteWizard)
					r.Post("/fields", s.handleWizardField)
					r.Post("/next", s.handleWizardNext)
					r.Post("/previous", s.handleWizardPrevious)
					r.Post("/steps/{n}", s.handleWizardGoTo)
					r.Post("/location", s.handleWizardLocation)
					r.Post("/submit", s.handleWizardSubmit)
					r.Post("/edit", s.handleWizardEdit)
				})
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/logout", s.handleLogout)
			r.Post("/ws-ticket", s.handleWSTicket)

			if s.audit != nil {
				r.Get("/activity", s.handleListActivity)
			}

			r.Route("/buildings", func(r chi.Router) {
				r.Get("/", s.handleListBuildings)
				r.Post("/", s.handleCreateBuilding)
				r.Get("/stats", s.handleBuildingStats)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetBuilding)
					r.Put("/", s.handleUpdateBuilding)
					r.Delete("/", s.handleDeleteBuilding)
				})
			})
		})
	})

	return r
}

// handleHealth reports the server version and the state of each dependency.
// Any failing check turns the response into a 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	components := make(map[string]string, len(s.checks))

	for name, check := range s.checks {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := check.HealthCheck(ctx)
		cancel()
		if err != nil {
			components[name] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}

	writeJSON(w, code, map[string]any{
		"status":     status,
		"version":    s.version,
		"components": components,
	})
}

// handleOptions returns the choice catalogue for clients that render the
// wizard form themselves.
func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, building.Options())
}
