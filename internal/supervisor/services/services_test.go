// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeRouter struct {
	runErr error
	closes atomic.Int32
}

func (r *fakeRouter) Run(ctx context.Context) error {
	if r.runErr != nil {
		return r.runErr
	}
	<-ctx.Done()
	return nil
}

func (r *fakeRouter) Close() error {
	r.closes.Add(1)
	return nil
}

func TestEventRouterService(t *testing.T) {
	t.Parallel()

	t.Run("fresh router per run", func(t *testing.T) {
		t.Parallel()
		var built atomic.Int32
		r := &fakeRouter{}
		svc := NewEventRouterService(func() (EventRouter, error) {
			built.Add(1)
			return r, nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
		if built.Load() != 1 || r.closes.Load() != 1 {
			t.Errorf("built = %d, closes = %d; want 1, 1", built.Load(), r.closes.Load())
		}
	})

	t.Run("factory error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("no subscriber")
		svc := NewEventRouterService(func() (EventRouter, error) { return nil, boom })
		if err := svc.Serve(context.Background()); !errors.Is(err, boom) {
			t.Errorf("Serve() = %v, want %v", err, boom)
		}
	})

	t.Run("unexpected stop is an error", func(t *testing.T) {
		t.Parallel()
		runErr := errors.New("subscribe failed")
		svc := NewEventRouterService(func() (EventRouter, error) { return &fakeRouter{runErr: runErr}, nil })
		if err := svc.Serve(context.Background()); !errors.Is(err, runErr) {
			t.Errorf("Serve() = %v, want %v", err, runErr)
		}
	})
}

type countingSweeper struct {
	calls   atomic.Int32
	removed int
}

func (s *countingSweeper) Sweep() int {
	s.calls.Add(1)
	return s.removed
}

type fakeCheckpointer struct {
	calls atomic.Int32
	err   error
}

func (c *fakeCheckpointer) Checkpoint(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestMaintenanceService_RunOnce(t *testing.T) {
	t.Parallel()

	cacheSweeper := &countingSweeper{removed: 3}
	lockSweeper := &countingSweeper{}
	cp := &fakeCheckpointer{err: errors.New("busy")}
	svc := NewMaintenanceService(time.Minute, map[string]Sweeper{
		"candidates": cacheSweeper,
		"locks":      lockSweeper,
		"absent":     nil,
	}, cp, zerolog.Nop())

	svc.RunOnce(context.Background())

	if cacheSweeper.calls.Load() != 1 || lockSweeper.calls.Load() != 1 {
		t.Errorf("sweeps = %d, %d; want 1, 1", cacheSweeper.calls.Load(), lockSweeper.calls.Load())
	}
	if cp.calls.Load() != 1 {
		t.Errorf("checkpoints = %d, want 1", cp.calls.Load())
	}
}

func TestMaintenanceService_Serve(t *testing.T) {
	t.Parallel()

	sw := &countingSweeper{}
	svc := NewMaintenanceService(5*time.Millisecond, map[string]Sweeper{"cache": sw}, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for sw.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("maintenance never ran twice")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestMaintenanceService_DefaultInterval(t *testing.T) {
	t.Parallel()
	if got := NewMaintenanceService(0, nil, nil, zerolog.Nop()).interval; got != 5*time.Minute {
		t.Errorf("interval = %v, want 5m", got)
	}
}
