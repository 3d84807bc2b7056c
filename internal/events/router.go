// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerank/internal/cache"
	"github.com/tomtom215/cinerank/internal/logging"
	"github.com/tomtom215/cinerank/internal/metrics"
)

// Invalidator drops per-user derived state so the next request rebuilds it.
type Invalidator interface {
	InvalidateCandidates(ctx context.Context, userID int64) error
}

// RouterConfig tunes consumer behavior.
type RouterConfig struct {
	CloseTimeout time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	// DedupCapacity bounds the event id cache; DedupTTL is how long an id
	// is remembered.
	DedupCapacity int
	DedupTTL      time.Duration
}

// DefaultRouterConfig returns production defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
		RetryMultiplier:      2.0,
		DedupCapacity:        10000,
		DedupTTL:             10 * time.Minute,
	}
}

// eventIDDeduplicator implements middleware.ExpiringKeyRepository over an LRU.
type eventIDDeduplicator struct {
	seen *cache.LRU[string, struct{}]
}

func (d *eventIDDeduplicator) IsDuplicate(_ context.Context, key string) (bool, error) {
	if _, ok := d.seen.Get(key); ok {
		return true, nil
	}
	d.seen.Add(key, struct{}{})
	return false, nil
}

// Router consumes domain events.
type Router struct {
	router *message.Router
	inv    Invalidator
	logger zerolog.Logger
}

// NewRouter builds a router subscribed to every topic on sub. Feedback and
// forced refreshes invalidate the user's cached candidate pool.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRouter(cfg RouterConfig, sub message.Subscriber, inv Invalidator, logger zerolog.Logger) (*Router, error) {
	wmLogger := NewLoggerAdapter(logger)
	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	wmRouter.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      cfg.RetryMultiplier,
		Logger:          wmLogger,
	}
	wmRouter.AddMiddleware(retry.Middleware)

	if cfg.DedupCapacity > 0 {
		dedup := middleware.Deduplicator{
			KeyFactory: func(msg *message.Message) (string, error) {
				return msg.UUID, nil
			},
			Repository: &eventIDDeduplicator{seen: cache.NewLRU[string, struct{}](cfg.DedupCapacity, cfg.DedupTTL)},
		}
		wmRouter.AddMiddleware(dedup.Middleware)
	}

	r := &Router{
		router: wmRouter,
		inv:    inv,
		logger: logger.With().Str("component", "events").Logger(),
	}
	wmRouter.AddConsumerHandler("feedback_invalidate", TopicFeedbackSubmitted, sub, r.invalidate(TopicFeedbackSubmitted))
	wmRouter.AddConsumerHandler("refresh_invalidate", TopicRefreshForced, sub, r.invalidate(TopicRefreshForced))
	wmRouter.AddConsumerHandler("generation_log", TopicRecommendationsGenerated, sub, r.logGeneration)
	return r, nil
}

func messageContext(msg *message.Message) context.Context {
	ctx := msg.Context()
	if rid := msg.Metadata.Get(metadataRequestID); rid != "" {
		ctx = logging.ContextWithRequestID(ctx, rid)
	}
	return ctx
}

func (r *Router) invalidate(topic string) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		e, err := Unmarshal(msg.Payload)
		if err != nil {
			// Retrying cannot fix a malformed payload.
			r.logger.Warn().Err(err).Str("topic", topic).Str("message_id", msg.UUID).Msg("Dropping malformed event")
			return nil
		}
		if r.inv != nil {
			if err := r.inv.InvalidateCandidates(messageContext(msg), e.UserID); err != nil {
				return fmt.Errorf("invalidate candidates for user %d: %w", e.UserID, err)
			}
		}
		metrics.EventsHandled.WithLabelValues(topic).Inc()
		r.logger.Debug().Str("topic", topic).Int64("user_id", e.UserID).Msg("Candidate pool invalidated")
		return nil
	}
}

func (r *Router) logGeneration(msg *message.Message) error {
	e, err := Unmarshal(msg.Payload)
	if err != nil {
		r.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping malformed event")
		return nil
	}
	metrics.EventsHandled.WithLabelValues(TopicRecommendationsGenerated).Inc()
	r.logger.Info().
		Int64("user_id", e.UserID).
		Int("count", e.Count).
		Str("status", e.Status).
		Msg("Recommendations generated")
	return nil
}

// Run blocks until ctx is canceled or Close is called.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running closes once every handler is subscribed.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Close waits up to CloseTimeout for in-flight handlers.
func (r *Router) Close() error {
	return r.router.Close()
}
