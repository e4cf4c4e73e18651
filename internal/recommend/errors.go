// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData means there was not enough history or sentiment
	// statistics to pick target sentiments. It is reported in the response
	// metadata, never returned from Recommend.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrBackendQuery wraps any search or aggregation failure. It aborts
	// the whole request.
	ErrBackendQuery = errors.New("backend query failed")

	// ErrMalformedCandidate marks a search hit missing required song or
	// passage fields. Adapters skip such hits.
	ErrMalformedCandidate = errors.New("malformed candidate")

	// ErrInvalidRequest is returned for requests that fail validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUserNotFound may be returned by stores for unknown users. The
	// engine treats it as an empty history.
	ErrUserNotFound = errors.New("user not found")
)

// BackendError records which backend operation failed.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrBackendQuery, e.Op, e.Err)
}

// Unwrap allows errors.Is to match both ErrBackendQuery and the cause.
func (e *BackendError) Unwrap() []error {
	return []error{ErrBackendQuery, e.Err}
}

func backendError(op string, err error) error {
	return &BackendError{Op: op, Err: err}
}
