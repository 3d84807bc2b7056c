// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerank/internal/events"
	"github.com/tomtom215/cinerank/internal/supervisor/services"
)

// EventComponents holds the event transport and its publisher.
type EventComponents struct {
	Transport *events.Transport
	Publisher *events.Publisher
}

// initEvents opens the configured transport. An empty NATS URL selects
// the in-process GoChannel.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initEvents(natsURL string, logger zerolog.Logger) (*EventComponents, error) {
	tr, err := events.NewTransport(natsURL, events.NewLoggerAdapter(logger))
	if err != nil {
		return nil, fmt.Errorf("open event transport: %w", err)
	}
	logger.Info().Str("transport", tr.Kind).Msg("Event transport opened")
	return &EventComponents{
		Transport: tr,
		Publisher: events.NewPublisher(tr.Publisher, logger),
	}, nil
}

// routerService runs the invalidation consumer under the supervisor. Each
// restart builds a fresh router over the same subscriber.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (ec *EventComponents) routerService(inv events.Invalidator, logger zerolog.Logger) *services.EventRouterService {
	return services.NewEventRouterService(func() (services.EventRouter, error) {
		r, err := events.NewRouter(events.DefaultRouterConfig(), ec.Transport.Subscriber, inv, logger)
		if err != nil {
			return nil, err
		}
		return r, nil
	})
}

// Close stops publishing and closes the transport.
func (ec *EventComponents) Close() error {
	if ec == nil {
		return nil
	}
	ec.Publisher.Close()
	return ec.Transport.Close()
}
