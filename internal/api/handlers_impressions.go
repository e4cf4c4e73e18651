// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/moodlyrics/internal/logging"
	"github.com/tomtom215/moodlyrics/internal/validation"
)

// impressionKeys are the lists a client may read or append to.
const impressionKeys = "songs passages groups"

// RecordImpressions handles POST /api/v1/users/{userID}/impressions.
// Clients call it after showing recommendations so later batches avoid
// repeating the same songs, passages and sentiment groups.
func (h *Handler) RecordImpressions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if !validUserID(w, r, userID) {
		return
	}

	var body ImpressionRequest
	if !decodeJSONBody(w, r, &body) || !validateBody(w, r, &body) {
		return
	}

	ctx := logging.ContextWithUserID(r.Context(), userID)
	if err := h.impressions.AppendImpressions(ctx, userID, body.Key, body.IDs); err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeStoreError, "Failed to record impressions", err)
		return
	}

	logging.Ctx(ctx).Debug().Str("key", body.Key).Int("ids", len(body.IDs)).Msg("Impressions recorded")
	respondJSON(w, r, http.StatusAccepted, map[string]any{
		"key":      body.Key,
		"recorded": len(body.IDs),
	})
}

// GetImpressions handles GET /api/v1/users/{userID}/impressions/{key}.
func (h *Handler) GetImpressions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if !validUserID(w, r, userID) {
		return
	}
	key := chi.URLParam(r, "key")
	if err := validation.ValidateVar("key", key, "oneof="+impressionKeys); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, err.Error(), nil)
		return
	}

	ids, err := h.impressions.GetImpressions(r.Context(), userID, key)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeStoreError, "Failed to load impressions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"key":   key,
		"ids":   ids,
		"count": len(ids),
	})
}
