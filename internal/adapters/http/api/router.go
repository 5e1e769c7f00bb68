package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the API surface. metricsHandler serves the
// Prometheus scrape endpoint and may be nil.
func NewRouter(h *Handler, metricsHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/healthz", h.healthz)
	r.Get("/stats", h.stats)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/fellows", func(r chi.Router) {
		r.Post("/", h.registerFellow)
		r.Get("/{fellowID}", h.getFellow)
		r.Post("/{fellowID}/checkins", h.submitCheckIn)
		r.Get("/{fellowID}/assessments", h.assessmentHistory)
		r.Get("/{fellowID}/warnings", h.warningHistory)
	})

	r.Route("/risk", func(r chi.Router) {
		r.Post("/assess/{fellowID}", h.assess)
		r.Get("/summary", h.cohortSummary)
		r.Get("/weeks/{week}", h.assessmentsForWeek)
	})

	r.Route("/warnings", func(r chi.Router) {
		r.Post("/draft", h.draftWarning)
		r.Get("/{warningID}", h.getWarning)
		r.Post("/{warningID}/issue", h.issueWarning)
		r.Post("/{warningID}/acknowledge", h.acknowledgeWarning)
		r.Post("/{warningID}/outcome", h.recordOutcome)
	})

	return r
}
