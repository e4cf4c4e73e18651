// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/moodlyrics/internal/logging"
	"github.com/tomtom215/moodlyrics/internal/recommend"
	"github.com/tomtom215/moodlyrics/internal/search"
	"github.com/tomtom215/moodlyrics/internal/validation"
)

// GetRecommendations handles GET /api/v1/recommendations/user/{userID}.
//
// Query parameters:
//   - lookup: comma-separated song ids returned with type "lookup"
//   - q: free-text lyric search returned with type "semantic_search"
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	body := RecommendationRequest{
		UserID:        chi.URLParam(r, "userID"),
		LookupSongIDs: splitList(r.URL.Query().Get("lookup")),
		Query:         r.URL.Query().Get("q"),
	}
	if !validateBody(w, r, &body) {
		return
	}
	h.recommend(w, r, &body)
}

// PostRecommendations handles POST /api/v1/recommendations. Unlike the GET
// form it accepts an explicit featured-artist candidate list.
func (h *Handler) PostRecommendations(w http.ResponseWriter, r *http.Request) {
	var body RecommendationRequest
	if !decodeJSONBody(w, r, &body) || !validateBody(w, r, &body) {
		return
	}
	h.recommend(w, r, &body)
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request, body *RecommendationRequest) {
	ctx := logging.ContextWithUserID(r.Context(), body.UserID)
	r = r.WithContext(ctx)

	resp, err := h.engine.Recommend(ctx, body.toEngine(logging.RequestIDFromContext(ctx)))
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	logging.Ctx(ctx).Debug().
		Int("returned", len(resp.Recommendations)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("Recommendations served")
	respondJSON(w, r, http.StatusOK, resp)
}

// respondEngineError maps engine failures onto HTTP statuses. A failed
// backend query never yields a partial batch, so every failure is a whole
// request failure.
func (h *Handler) respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidRequest):
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
	case errors.Is(err, context.Canceled) && r.Context().Err() != nil:
		// Client went away; nobody is listening for the body.
		logging.Ctx(r.Context()).Debug().Msg("Recommendation request canceled by client")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, ErrCodeTimeout, "Recommendation timed out", err)
	case errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests),
		errors.Is(err, search.ErrRateLimited):
		w.Header().Set("Retry-After", "5")
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Search backend temporarily unavailable", err)
	case errors.Is(err, recommend.ErrBackendQuery):
		respondError(w, r, http.StatusBadGateway, ErrCodeExternalServiceFail, "Search backend query failed", err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to generate recommendations", err)
	}
}

// validUserID checks a path user id and writes a 400 when it is malformed.
func validUserID(w http.ResponseWriter, r *http.Request, userID string) bool {
	if err := validation.ValidateVar("user_id", userID, "required,storekey"); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, err.Error(), nil)
		return false
	}
	return true
}
