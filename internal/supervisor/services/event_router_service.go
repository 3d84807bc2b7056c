// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package services

import (
	"context"
	"errors"
	"fmt"
)

// EventRouter is satisfied by *events.Router.
type EventRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// RouterFactory builds a fresh router. Watermill routers cannot be run
// twice, so each restart needs a new one.
type RouterFactory func() (EventRouter, error)

// EventRouterService supervises the domain event consumer.
type EventRouterService struct {
	factory RouterFactory
}

// NewEventRouterService creates the service.
func NewEventRouterService(factory RouterFactory) *EventRouterService {
	return &EventRouterService{factory: factory}
}

// Serve implements suture.Service.
func (s *EventRouterService) Serve(ctx context.Context) error {
	r, err := s.factory()
	if err != nil {
		return fmt.Errorf("build event router: %w", err)
	}

	err = r.Run(ctx)
	closeErr := r.Close()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		// The router stopped without being asked to; let suture restart it.
		err = errors.New("event router stopped unexpectedly")
	}
	return errors.Join(err, closeErr)
}

func (s *EventRouterService) String() string {
	return "event-router"
}
