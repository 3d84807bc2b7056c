// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper drops expired entries and reports how many were removed.
// Satisfied by *cache.MemoryStore and *lock.LocalLocker.
type Sweeper interface {
	Sweep() int
}

// Checkpointer flushes the database WAL.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// MaintenanceService runs periodic housekeeping.
type MaintenanceService struct {
	interval     time.Duration
	sweepers     map[string]Sweeper
	checkpointer Checkpointer
	logger       zerolog.Logger
}

// NewMaintenanceService creates the service. Interval defaults to five
// minutes; checkpointer may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMaintenanceService(interval time.Duration, sweepers map[string]Sweeper, checkpointer Checkpointer, logger zerolog.Logger) *MaintenanceService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &MaintenanceService{
		interval:     interval,
		sweepers:     sweepers,
		checkpointer: checkpointer,
		logger:       logger.With().Str("service", "maintenance").Logger(),
	}
}

// Serve implements suture.Service.
func (s *MaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs one housekeeping pass.
func (s *MaintenanceService) RunOnce(ctx context.Context) {
	for name, sw := range s.sweepers {
		if sw == nil {
			continue
		}
		if n := sw.Sweep(); n > 0 {
			s.logger.Debug().Str("target", name).Int("removed", n).Msg("Swept expired entries")
		}
	}

	if s.checkpointer == nil {
		return
	}
	checkpointCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := s.checkpointer.Checkpoint(checkpointCtx); err != nil {
		s.logger.Warn().Err(err).Msg("Database checkpoint failed")
	}
}

func (s *MaintenanceService) String() string {
	return "maintenance"
}
