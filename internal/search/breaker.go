// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/moodlyrics/internal/metrics"
	"github.com/tomtom215/moodlyrics/internal/recommend"
)

// Breaker wraps a Searcher with a circuit breaker.
//
// Canceled requests do not count as failures: a client hanging up says
// nothing about the cluster.
type Breaker struct {
	next   recommend.Searcher
	cb     *gobreaker.CircuitBreaker[any]
	name   string
	logger zerolog.Logger
}

var _ recommend.Searcher = (*Breaker)(nil)

// NewBreaker wraps next. The breaker name labels its metrics.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBreaker(name string, next recommend.Searcher, cfg BreakerConfig, logger zerolog.Logger) *Breaker {
	b := &Breaker{
		next:   next,
		name:   name,
		logger: logger.With().Str("component", "search-breaker").Str("breaker", name).Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 1
	}

	b.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := failureRatio >= cfg.FailureRatio
			if trip {
				b.logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening search circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			b.logger.Info().Str("from", fromStr).Str("to", toStr).Msg("search circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return b
}

// State returns the current breaker state name.
func (b *Breaker) State() string {
	return stateToString(b.cb.State())
}

// Search runs next.Search through the breaker.
func (b *Breaker) Search(ctx context.Context, req recommend.SearchRequest) ([]recommend.Hit, error) {
	return castResult[[]recommend.Hit](b.execute(func() (any, error) {
		return b.next.Search(ctx, req)
	}))
}

// Aggregate runs next.Aggregate through the breaker.
func (b *Breaker) Aggregate(ctx context.Context, req recommend.AggregateRequest) (map[string]recommend.AggregateBucket, error) {
	return castResult[map[string]recommend.AggregateBucket](b.execute(func() (any, error) {
		return b.next.Aggregate(ctx, req)
	}))
}

// Ping forwards to next when it supports health checks.
func (b *Breaker) Ping(ctx context.Context) error {
	p, ok := b.next.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	_, err := b.execute(func() (any, error) {
		return nil, p.Ping(ctx)
	})
	return err
}

func (b *Breaker) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			b.logger.Warn().Err(err).Msg("search request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return result, nil
}

// castResult type-asserts a breaker result. A nil result yields the zero value.
func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
