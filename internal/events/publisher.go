// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package events

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinerank/internal/logging"
	"github.com/tomtom215/cinerank/internal/metrics"
	"github.com/tomtom215/cinerank/internal/recommend"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("events: publisher closed")

const (
	breakerName       = "events_publisher"
	metadataRequestID = "request_id"
)

// Publisher turns engine notifications into messages. Failures are logged
// and counted; they never reach the caller.
type Publisher struct {
	pub     message.Publisher
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  zerolog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps a Watermill publisher. The breaker opens after five
// consecutive failures so a dead broker is not hammered.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPublisher(pub message.Publisher, logger zerolog.Logger) *Publisher {
	p := &Publisher{
		pub:    pub,
		logger: logger.With().Str("component", "events").Logger(),
		now:    time.Now,
	}
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	p.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, _, to gobreaker.State) {
			var v float64
			switch to {
			case gobreaker.StateHalfOpen:
				v = 1
			case gobreaker.StateOpen:
				v = 2
			}
			metrics.CircuitBreakerState.WithLabelValues(name).Set(v)
			p.logger.Info().Str("state", to.String()).Msg("event publisher circuit state transition")
		},
	})
	return p
}

// Publish encodes e and sends it on topic. A request id on ctx is carried
// in the message metadata.
//
//nolint:gocritic // hugeParam: Event is small and immutable here
func (p *Publisher) Publish(ctx context.Context, topic string, e Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	payload, err := Marshal(e)
	if err != nil {
		return err
	}
	msg := message.NewMessage(e.EventID, payload)
	msg.Metadata.Set("user_id", strconv.FormatInt(e.UserID, 10))
	if rid := logging.RequestIDFromContext(ctx); rid != "" {
		msg.Metadata.Set(metadataRequestID, rid)
	}

	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.pub.Publish(topic, msg)
	})
	return err
}

// Close stops further publishing. The underlying publisher is owned by the
// Transport.
func (p *Publisher) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

func (p *Publisher) emit(ctx context.Context, topic string, e Event) {
	if err := p.Publish(ctx, topic, e); err != nil {
		metrics.EventsPublished.WithLabelValues(topic, "error").Inc()
		p.logger.Warn().Err(err).Str("topic", topic).Int64("user_id", e.UserID).Msg("Failed to publish event")
		return
	}
	metrics.EventsPublished.WithLabelValues(topic, "ok").Inc()
}

// FeedbackSubmitted publishes on TopicFeedbackSubmitted.
func (p *Publisher) FeedbackSubmitted(ctx context.Context, userID, movieID int64, value recommend.FeedbackValue) {
	e := newEvent(userID, p.now())
	e.MovieID = movieID
	e.Value = string(value)
	p.emit(ctx, TopicFeedbackSubmitted, e)
}

// RecommendationsGenerated publishes on TopicRecommendationsGenerated.
func (p *Publisher) RecommendationsGenerated(ctx context.Context, userID int64, count int, status recommend.Status) {
	e := newEvent(userID, p.now())
	e.Count = count
	e.Status = string(status)
	p.emit(ctx, TopicRecommendationsGenerated, e)
}

// RefreshForced publishes on TopicRefreshForced.
func (p *Publisher) RefreshForced(ctx context.Context, userID int64) {
	p.emit(ctx, TopicRefreshForced, newEvent(userID, p.now()))
}

var _ recommend.Notifier = (*Publisher)(nil)
