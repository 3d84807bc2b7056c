// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRefreshNeeded(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	cfg := DefaultConfig().Freshness
	meta := func(age time.Duration) *Metadata { return &Metadata{UserID: 1, LastUpdated: now.Add(-age)} }

	tests := []struct {
		name string
		st   *GenerationState
		want RefreshReason
	}{
		{"nil state", nil, ReasonStateUnavailable},
		{
			"debounce wins over everything",
			&GenerationState{Recommendations: 0, Metadata: meta(5 * time.Second), LatestFeedback: now},
			ReasonNone,
		},
		{"no recommendations", &GenerationState{Metadata: meta(time.Hour), HasQuestionnaire: true}, ReasonNoRecommendations},
		{"no metadata", &GenerationState{Recommendations: 3, HasQuestionnaire: true}, ReasonNoMetadata},
		{"no questionnaire", &GenerationState{Recommendations: 3, Metadata: meta(time.Hour)}, ReasonNoQuestionnaire},
		{
			"no timestamp",
			&GenerationState{Recommendations: 3, Metadata: &Metadata{UserID: 1}, HasQuestionnaire: true},
			ReasonNoTimestamp,
		},
		{
			"preferences changed",
			&GenerationState{Recommendations: 3, Metadata: meta(time.Hour), HasQuestionnaire: true, PreferencesUpdated: now.Add(-time.Minute)},
			ReasonPreferencesChanged,
		},
		{
			"missing preference timestamp counts as now",
			&GenerationState{Recommendations: 3, Metadata: meta(time.Hour), HasQuestionnaire: true},
			ReasonPreferencesChanged,
		},
		{
			"new feedback",
			&GenerationState{
				Recommendations: 3, Metadata: meta(time.Hour), HasQuestionnaire: true,
				PreferencesUpdated: now.Add(-2 * time.Hour), LatestFeedback: now.Add(-time.Minute),
			},
			ReasonNewFeedback,
		},
		{
			"expired after 25 hours",
			&GenerationState{
				Recommendations: 3, Metadata: meta(25 * time.Hour), HasQuestionnaire: true,
				PreferencesUpdated: now.Add(-48 * time.Hour),
			},
			ReasonExpired,
		},
		{
			"current",
			&GenerationState{
				Recommendations: 3, Metadata: meta(time.Hour), HasQuestionnaire: true,
				PreferencesUpdated: now.Add(-48 * time.Hour), LatestFeedback: now.Add(-2 * time.Hour),
			},
			ReasonNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RefreshNeeded(tt.st, now, cfg); got != tt.want {
				t.Errorf("RefreshNeeded() = %q, want %q", got, tt.want)
			}
		})
	}
}

type stateFunc func(ctx context.Context, userID int64) (*GenerationState, error)

func (f stateFunc) GenerationState(ctx context.Context, userID int64) (*GenerationState, error) {
	return f(ctx, userID)
}

func TestCoordinator(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := func() time.Time { return time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC) }

	t.Run("locker error is contention", func(t *testing.T) {
		t.Parallel()
		c := NewCoordinator(&stubLocker{err: errors.New("redis down")}, nil, DefaultConfig().Freshness, now, zerolog.Nop())
		if c.Acquire(ctx, 1) {
			t.Error("Acquire() = true on locker error")
		}
	})

	t.Run("release always reaches the locker", func(t *testing.T) {
		t.Parallel()
		l := &stubLocker{grant: true}
		c := NewCoordinator(l, nil, DefaultConfig().Freshness, now, zerolog.Nop())
		if !c.Acquire(ctx, 1) {
			t.Fatal("Acquire() = false")
		}
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		c.Release(canceled, 1)
		if l.released.Load() != 1 {
			t.Errorf("released = %d, want 1", l.released.Load())
		}
	})

	t.Run("state error forces refresh", func(t *testing.T) {
		t.Parallel()
		st := stateFunc(func(context.Context, int64) (*GenerationState, error) { return nil, errors.New("db down") })
		c := NewCoordinator(&stubLocker{grant: true}, st, DefaultConfig().Freshness, now, zerolog.Nop())
		if got := c.NeedsRefresh(ctx, 1); got != ReasonStateUnavailable {
			t.Errorf("NeedsRefresh() = %q, want %q", got, ReasonStateUnavailable)
		}
	})
}

func TestLockKey(t *testing.T) {
	t.Parallel()
	if got := lockKey(42); got != "generate:42" {
		t.Errorf("lockKey(42) = %q", got)
	}
}
