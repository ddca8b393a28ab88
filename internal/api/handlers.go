// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/anirec/internal/logging"
	"github.com/tomtom215/anirec/internal/recommend"
)

// Recommender is the engine surface the handlers depend on. Satisfied by
// *recommend.Engine; narrowed to an interface so handler tests can stub
// it.
type Recommender interface {
	HybridRecommend(ctx context.Context, req recommend.HybridRequest) ([]recommend.Recommendation, error)
	SimilarUsers(ctx context.Context, userID, n int) ([]recommend.Neighbor, error)
	SimilarAnimeByName(ctx context.Context, name string, n int, dir recommend.Direction) ([]recommend.SimilarAnime, error)
	UserPreferences(ctx context.Context, userID int) ([]recommend.Preference, error)
	Config() *recommend.Config
}

// Pinger reports dataset reachability for readiness probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler carries the dependencies shared by all endpoints.
type Handler struct {
	engine Recommender
	pinger Pinger
}

// NewHandler constructs the endpoint handler set.
func NewHandler(engine Recommender, pinger Pinger) *Handler {
	return &Handler{engine: engine, pinger: pinger}
}

// Recommendations serves GET /api/v1/recommendations/user/{userID}.
//
// Query parameters:
//
//	n              result count, 1..max (default from engine config)
//	user_weight    collaborative fusion weight (paired with content_weight)
//	content_weight content fusion weight
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		rw.BadRequest("userID must be an integer")
		return
	}

	req := recommend.HybridRequest{
		UserID:    userID,
		RequestID: logging.RequestIDFromContext(r.Context()),
	}

	if req.N, err = parseCount(r, "n", h.engine.Config().MaxResults); err != nil {
		rw.BadRequest(err.Error())
		return
	}

	uw := r.URL.Query().Get("user_weight")
	cw := r.URL.Query().Get("content_weight")
	if (uw == "") != (cw == "") {
		rw.BadRequest("user_weight and content_weight must be supplied together")
		return
	}
	if uw != "" {
		if req.UserWeight, err = strconv.ParseFloat(uw, 64); err != nil {
			rw.BadRequest("user_weight must be a number")
			return
		}
		if req.ContentWeight, err = strconv.ParseFloat(cw, 64); err != nil {
			rw.BadRequest("content_weight must be a number")
			return
		}
		req.HasWeights = true
	}

	results, err := h.engine.HybridRecommend(r.Context(), req)
	if err != nil {
		h.writeEngineError(rw, r, err)
		return
	}
	rw.SuccessWithCount(results, len(results))
}

// SimilarUsers serves GET /api/v1/users/{userID}/similar.
func (h *Handler) SimilarUsers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		rw.BadRequest("userID must be an integer")
		return
	}
	n, err := parseCount(r, "n", h.engine.Config().MaxResults)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if n <= 0 {
		n = h.engine.Config().SimilarUsers
	}

	neighbors, err := h.engine.SimilarUsers(r.Context(), userID, n)
	if err != nil {
		h.writeEngineError(rw, r, err)
		return
	}
	rw.SuccessWithCount(neighbors, len(neighbors))
}

// UserPreferences serves GET /api/v1/users/{userID}/preferences.
func (h *Handler) UserPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		rw.BadRequest("userID must be an integer")
		return
	}

	prefs, err := h.engine.UserPreferences(r.Context(), userID)
	if err != nil {
		h.writeEngineError(rw, r, err)
		return
	}
	rw.SuccessWithCount(prefs, len(prefs))
}

// SimilarAnime serves GET /api/v1/anime/similar.
//
// Query parameters:
//
//	name       exact English title of the seed anime (required)
//	n          result count, 1..max (default from engine config)
//	direction  "most" (default) or "least"
func (h *Handler) SimilarAnime(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	name := r.URL.Query().Get("name")
	if name == "" {
		rw.BadRequest("name is required")
		return
	}
	n, err := parseCount(r, "n", h.engine.Config().MaxResults)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if n <= 0 {
		n = h.engine.Config().Results
	}
	dir, err := recommend.ParseDirection(r.URL.Query().Get("direction"))
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	similar, err := h.engine.SimilarAnimeByName(r.Context(), name, n, dir)
	if err != nil {
		h.writeEngineError(rw, r, err)
		return
	}
	rw.SuccessWithCount(similar, len(similar))
}

// HealthLive serves GET /healthz. Always healthy while the process runs.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "ok"})
}

// HealthReady serves GET /readyz. Ready once the dataset answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if err := h.pinger.Ping(r.Context()); err != nil {
		logger := logging.Ctx(r.Context())
		logger.Warn().Err(err).Msg("readiness probe failed")
		rw.ServiceUnavailable("dataset not ready")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}

// writeEngineError maps engine failures onto the response envelope.
// Typed not-found errors become 404s with an entity-specific code;
// everything else is a 500 with the detail kept server-side.
func (h *Handler) writeEngineError(rw *ResponseWriter, r *http.Request, err error) {
	var nfe *recommend.NotFoundError
	if errors.As(err, &nfe) {
		code := ErrCodeAnimeNotFound
		if nfe.Kind == "user" {
			code = ErrCodeUserNotFound
		}
		rw.Error(http.StatusNotFound, code, nfe.Error())
		return
	}
	if errors.Is(err, recommend.ErrNoEmbeddings) {
		rw.ServiceUnavailable("embeddings not loaded")
		return
	}
	logger := logging.Ctx(r.Context())
	logger.Error().Err(err).Msg("recommendation request failed")
	rw.InternalError()
}

// parseCount reads an optional positive integer query parameter bounded
// by max. Zero means "not supplied".
func parseCount(r *http.Request, key string, max int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	if n > max {
		return 0, fmt.Errorf("%s must be <= %d", key, max)
	}
	return n, nil
}
