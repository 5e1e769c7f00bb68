// Package api exposes the assessment engine over HTTP.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mentorled/fellowtrack/internal/adapters/repository"
	"github.com/mentorled/fellowtrack/internal/app"
	"github.com/mentorled/fellowtrack/internal/domain/model"
	"github.com/mentorled/fellowtrack/internal/domain/scoring"
	"github.com/mentorled/fellowtrack/internal/domain/warning"
	"github.com/mentorled/fellowtrack/pkg/logger"
)

// Handler serves the HTTP API around the service.
type Handler struct {
	svc *app.Service
	log logger.Logger
}

// NewHandler builds the API handler.
func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc, log: logger.Named("api")}
}

// serviceError maps domain errors to HTTP responses.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, repository.ErrFellowNotFound),
		errors.Is(err, repository.ErrWarningNotFound),
		errors.Is(err, repository.ErrAssessmentNotFound):
		writeError(ctx, w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, scoring.ErrInsufficientSignals),
		errors.Is(err, warning.ErrEmptyMessage):
		writeError(ctx, w, http.StatusUnprocessableEntity, "UNPROCESSABLE", err.Error())
	case errors.Is(err, warning.ErrSequence),
		errors.Is(err, warning.ErrAlreadyIssued),
		errors.Is(err, warning.ErrNotIssued),
		errors.Is(err, repository.ErrDuplicateCheckIn):
		writeError(ctx, w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, warning.ErrDraftUnavailable):
		writeError(ctx, w, http.StatusServiceUnavailable, "DRAFTER_UNAVAILABLE", err.Error())
	case errors.Is(err, warning.ErrInvalidOutcome):
		writeError(ctx, w, http.StatusBadRequest, "INVALID_OUTCOME", err.Error())
	default:
		h.log.Error(ctx, "request failed", logger.Error(err))
		writeError(ctx, w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

type registerFellowRequest struct {
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	Milestone1Score *float64 `json:"milestone_1_score,omitempty"`
	Milestone2Score *float64 `json:"milestone_2_score,omitempty"`
	Milestone3Score *float64 `json:"milestone_3_score,omitempty"`
}

func (h *Handler) registerFellow(w http.ResponseWriter, r *http.Request) {
	var req registerFellowRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if req.Name == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_BODY", "name is required")
		return
	}

	f, err := h.svc.RegisterFellow(r.Context(), model.Fellow{
		Name:            req.Name,
		Role:            req.Role,
		Milestone1Score: req.Milestone1Score,
		Milestone2Score: req.Milestone2Score,
		Milestone3Score: req.Milestone3Score,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, f)
}

func (h *Handler) getFellow(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "fellowID")
	if !ok {
		return
	}
	f, err := h.svc.Fellow(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, f)
}

type submitCheckInRequest struct {
	Week                int                       `json:"week"`
	Accomplishments     string                    `json:"accomplishments,omitempty"`
	Blockers            string                    `json:"blockers,omitempty"`
	SelfAssessment      model.SelfAssessment      `json:"self_assessment,omitempty"`
	CollaborationRating model.CollaborationRating `json:"collaboration_rating,omitempty"`
	EnergyLevel         *int                      `json:"energy_level,omitempty"`
	SentimentScore      *float64                  `json:"sentiment_score,omitempty"`
	RiskContribution    *float64                  `json:"risk_contribution,omitempty"`
}

func (h *Handler) submitCheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "fellowID")
	if !ok {
		return
	}
	var req submitCheckInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if req.Week < 1 {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_BODY", "week must be at least 1")
		return
	}

	ci, err := h.svc.SubmitCheckIn(r.Context(), model.CheckIn{
		FellowID:            id,
		Week:                req.Week,
		Accomplishments:     req.Accomplishments,
		Blockers:            req.Blockers,
		SelfAssessment:      req.SelfAssessment,
		CollaborationRating: req.CollaborationRating,
		EnergyLevel:         req.EnergyLevel,
		SentimentScore:      req.SentimentScore,
		RiskContribution:    req.RiskContribution,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, ci)
}

func (h *Handler) assess(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "fellowID")
	if !ok {
		return
	}
	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil || week < 1 {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_WEEK", "week query parameter must be a positive integer")
		return
	}

	a, err := h.svc.Assess(r.Context(), id, week)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, a)
}

func (h *Handler) cohortSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.CohortSummary(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, sum)
}

func (h *Handler) assessmentsForWeek(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil || week < 1 {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_WEEK", "week must be a positive integer")
		return
	}
	assessments, err := h.svc.AssessmentsForWeek(r.Context(), week)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, assessments)
}

func (h *Handler) assessmentHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "fellowID")
	if !ok {
		return
	}
	assessments, err := h.svc.AssessmentHistory(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, assessments)
}

func (h *Handler) warningHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "fellowID")
	if !ok {
		return
	}
	warnings, err := h.svc.WarningHistory(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, warnings)
}

type draftWarningRequest struct {
	FellowID string   `json:"fellow_id"`
	Level    string   `json:"level"`
	Concerns []string `json:"concerns,omitempty"`
}

func (h *Handler) draftWarning(w http.ResponseWriter, r *http.Request) {
	var req draftWarningRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	fellowID, err := uuid.Parse(req.FellowID)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_ID", "invalid fellow_id")
		return
	}
	level := model.WarningLevel(req.Level)
	if level != model.WarningFirst && level != model.WarningFinal {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_LEVEL", "level must be first or final")
		return
	}

	warn, err := h.svc.DraftWarning(r.Context(), fellowID, level, req.Concerns)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, warn)
}

type issueWarningRequest struct {
	Message string `json:"message,omitempty"`
}

func (h *Handler) issueWarning(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "warningID")
	if !ok {
		return
	}
	var req issueWarningRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(r.Context(), w, http.StatusBadRequest, "INVALID_BODY", err.Error())
			return
		}
	}

	warn, err := h.svc.IssueWarning(r.Context(), id, req.Message)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, warn)
}

func (h *Handler) acknowledgeWarning(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "warningID")
	if !ok {
		return
	}
	warn, err := h.svc.AcknowledgeWarning(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, warn)
}

type outcomeRequest struct {
	Outcome string `json:"outcome"`
}

func (h *Handler) recordOutcome(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "warningID")
	if !ok {
		return
	}
	var req outcomeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	warn, err := h.svc.RecordWarningOutcome(r.Context(), id, model.WarningOutcome(req.Outcome))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, warn)
}

func (h *Handler) getWarning(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "warningID")
	if !ok {
		return
	}
	warn, err := h.svc.Warning(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, warn)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, st)
}
