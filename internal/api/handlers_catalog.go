// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package api

import (
	"net/http"

	"github.com/tomtom215/moodlyrics/internal/sentiment"
)

// Sentiments handles GET /api/v1/sentiments. An optional group parameter
// narrows the list to one thematic group.
func (h *Handler) Sentiments(w http.ResponseWriter, r *http.Request) {
	entries := h.catalog.All()
	if g := r.URL.Query().Get("group"); g != "" {
		group := sentiment.Group(g)
		if !group.Valid() {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Unknown sentiment group: "+sanitizeLogValue(g), nil)
			return
		}
		entries = h.catalog.InGroup(group)
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"sentiments": entries,
		"count":      len(entries),
		"groups":     sentiment.AllGroups,
	})
}
