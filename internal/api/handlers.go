// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerank/internal/logging"
	"github.com/tomtom215/cinerank/internal/recommend"
	"github.com/tomtom215/cinerank/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// Recommender is the engine surface the adapter exposes.
type Recommender interface {
	GetRecommendations(ctx context.Context, userID int64, limit int) (*recommend.Result, error)
	SubmitFeedback(ctx context.Context, userID int64, in recommend.FeedbackInput) error
	ForceRefresh(ctx context.Context, userID int64) error
	GetExplanation(ctx context.Context, userID, movieID int64) (*recommend.Explanation, error)
	GetExplanations(ctx context.Context, userID int64) ([]recommend.Explanation, error)
	GetDisliked(ctx context.Context, userID int64) ([]recommend.DislikedMovie, error)
}

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the recommendation routes.
type Handler struct {
	engine Recommender
	db     Pinger
}

// NewHandler creates a Handler. db may be nil, in which case readiness
// only reflects that the process is up.
func NewHandler(engine Recommender, db Pinger) *Handler {
	return &Handler{engine: engine, db: db}
}

type feedbackRequest struct {
	MovieID *int64 `json:"movie_id" validate:"omitempty,gt=0"`
	Value   string `json:"value" validate:"required,oneof=good bad"`
	Rating  *int   `json:"rating" validate:"omitempty,min=1,max=5"`
}

type feedbackResponse struct {
	Message string `json:"message"`
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// userFromPath parses {userID} and records it for request logging.
func userFromPath(w http.ResponseWriter, r *http.Request) (int64, *http.Request, bool) {
	userID, ok := pathID(r, "userID")
	if !ok {
		WriteError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "userID must be a positive integer")
		return 0, r, false
	}
	return userID, r.WithContext(logging.ContextWithUserID(r.Context(), userID)), true
}

// writeEngineError maps engine errors to HTTP responses.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, recommend.ErrInvalidUser):
		WriteError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, recommend.ErrInvalidFeedback):
		WriteError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
	case errors.Is(err, recommend.ErrNoQuestionnaire):
		WriteError(w, r, http.StatusNotFound, ErrCodeNoPreferences, "complete the preferences questionnaire first")
	case errors.Is(err, recommend.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "not found")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("operation", op).Msg("Request failed")
		WriteError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}

// GetRecommendations handles GET /api/v1/users/{userID}/recommendations.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, r, ok := userFromPath(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			WriteError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	res, err := h.engine.GetRecommendations(r.Context(), userID, limit)
	if err != nil {
		writeEngineError(w, r, err, "get_recommendations")
		return
	}
	WriteSuccess(w, r, res)
}

// SubmitFeedback handles POST /api/v1/users/{userID}/feedback.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	userID, r, ok := userFromPath(w, r)
	if !ok {
		return
	}

	var req feedbackRequest
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "request body too large")
		return
	}
	if err := json.Unmarshal(body, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		WriteErrorWithDetails(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error(), verr.Fields)
		return
	}

	err = h.engine.SubmitFeedback(r.Context(), userID, recommend.FeedbackInput{
		MovieID: req.MovieID,
		Value:   recommend.FeedbackValue(req.Value),
		Rating:  req.Rating,
	})
	if err != nil {
		writeEngineError(w, r, err, "submit_feedback")
		return
	}
	WriteSuccess(w, r, feedbackResponse{Message: "feedback recorded"})
}

// ForceRefresh handles POST /api/v1/users/{userID}/refresh.
func (h *Handler) ForceRefresh(w http.ResponseWriter, r *http.Request) {
	userID, r, ok := userFromPath(w, r)
	if !ok {
		return
	}
	if err := h.engine.ForceRefresh(r.Context(), userID); err != nil {
		writeEngineError(w, r, err, "force_refresh")
		return
	}
	WriteSuccess(w, r, feedbackResponse{Message: "recommendations will be regenerated on the next request"})
}

// GetExplanation handles GET /api/v1/users/{userID}/recommendations/{movieID}/explanation.
func (h *Handler) GetExplanation(w http.ResponseWriter, r *http.Request) {
	userID, r, ok := userFromPath(w, r)
	if !ok {
		return
	}
	movieID, ok := pathID(r, "movieID")
	if !ok {
		WriteError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "movieID must be a positive integer")
		return
	}

	ex, err := h.engine.GetExplanation(r.Context(), userID, movieID)
	if err != nil {
		writeEngineError(w, r, err, "get_explanation")
		return
	}
	WriteSuccess(w, r, ex)
}

// GetExplanations handles GET /api/v1/users/{userID}/explanations.
func (h *Handler) GetExplanations(w http.ResponseWriter, r *http.Request) {
	userID, r, ok := userFromPath(w, r)
	if !ok {
		return
	}
	list, err := h.engine.GetExplanations(r.Context(), userID)
	if err != nil {
		writeEngineError(w, r, err, "get_explanations")
		return
	}
	if list == nil {
		list = []recommend.Explanation{}
	}
	WriteSuccess(w, r, list)
}

// GetDisliked handles GET /api/v1/users/{userID}/disliked.
func (h *Handler) GetDisliked(w http.ResponseWriter, r *http.Request) {
	userID, r, ok := userFromPath(w, r)
	if !ok {
		return
	}
	list, err := h.engine.GetDisliked(r.Context(), userID)
	if err != nil {
		writeEngineError(w, r, err, "get_disliked")
		return
	}
	if list == nil {
		list = []recommend.DislikedMovie{}
	}
	WriteSuccess(w, r, list)
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// HealthLive reports that the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, healthStatus{Status: "ok"})
}

// HealthReady pings the database.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		WriteSuccess(w, r, healthStatus{Status: "ok"})
		return
	}
	if err := h.db.Ping(r.Context()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
		WriteErrorWithDetails(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "database unavailable",
			healthStatus{Status: "unavailable", Database: "unreachable"})
		return
	}
	WriteSuccess(w, r, healthStatus{Status: "ok", Database: "ok"})
}
