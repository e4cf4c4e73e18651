// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodlyrics/internal/recommend"
	"github.com/tomtom215/moodlyrics/internal/validation"
)

// maxQueryLength bounds free-text lyric searches.
const maxQueryLength = 500

// RecommendationRequest is the body of POST /api/v1/recommendations.
type RecommendationRequest struct {
	UserID          string                    `json:"user_id" validate:"required,storekey"`
	FeaturedArtists []recommend.ArtistProfile `json:"featured_artists,omitempty" validate:"max=50,dive"`
	LookupSongIDs   []string                  `json:"lookup_song_ids,omitempty" validate:"max=100,dive,storekey"`
	Query           string                    `json:"query,omitempty" validate:"max=500"`
}

func (r *RecommendationRequest) toEngine(requestID string) recommend.Request {
	return recommend.Request{
		UserID:          r.UserID,
		FeaturedArtists: r.FeaturedArtists,
		LookupSongIDs:   r.LookupSongIDs,
		Query:           strings.TrimSpace(r.Query),
		RequestID:       requestID,
	}
}

// ImpressionRequest is the body of POST /api/v1/users/{userID}/impressions.
// Passage ids contain a colon, so ids are not store keys themselves.
type ImpressionRequest struct {
	Key string   `json:"key" validate:"required,oneof=songs passages groups"`
	IDs []string `json:"ids" validate:"required,min=1,max=100,dive,required,max=256"`
}

// decodeJSONBody decodes a single JSON object, rejecting unknown fields and
// trailing data. It writes the error response itself and reports whether
// decoding succeeded.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, r, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "Request body too large", nil)
			return false
		}
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Failed to read request body", err)
		return false
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body", err)
		return false
	}
	if dec.More() {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Request body must contain a single JSON object", nil)
		return false
	}
	return true
}

// validateBody writes a 400 with field details when v fails validation.
func validateBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if verr := validation.ValidateStruct(v); verr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error(), verr.Details(), nil)
		return false
	}
	return true
}

// splitList parses a comma-separated query parameter, dropping blanks.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
