// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerank/internal/metrics"
)

// Locker grants per-key exclusive access. Acquire never blocks waiting for
// a holder: it reports false when the key is held. Implementations reclaim
// keys whose holder disappeared.
type Locker interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// StateReader reads what the staleness decision needs.
type StateReader interface {
	GenerationState(ctx context.Context, userID int64) (*GenerationState, error)
}

// RefreshReason names why stored results must be regenerated. The empty
// reason means they are current.
type RefreshReason string

const (
	ReasonNone               RefreshReason = ""
	ReasonNoRecommendations  RefreshReason = "no_recommendations"
	ReasonNoMetadata         RefreshReason = "no_metadata"
	ReasonNoQuestionnaire    RefreshReason = "no_questionnaire"
	ReasonNoTimestamp        RefreshReason = "no_timestamp"
	ReasonPreferencesChanged RefreshReason = "preferences_changed"
	ReasonNewFeedback        RefreshReason = "new_feedback"
	ReasonExpired            RefreshReason = "expired"
	ReasonStateUnavailable   RefreshReason = "state_unavailable"
)

// RefreshNeeded decides whether stored results must be regenerated.
// Results younger than the debounce interval are always current.
//
//nolint:gocritic // cfg passed by value for immutability
func RefreshNeeded(st *GenerationState, now time.Time, cfg FreshnessConfig) RefreshReason {
	if st == nil {
		return ReasonStateUnavailable
	}
	if st.Metadata != nil && !st.Metadata.LastUpdated.IsZero() &&
		now.Sub(st.Metadata.LastUpdated) < cfg.Debounce {
		return ReasonNone
	}
	if st.Recommendations == 0 {
		return ReasonNoRecommendations
	}
	if st.Metadata == nil {
		return ReasonNoMetadata
	}
	if !st.HasQuestionnaire {
		return ReasonNoQuestionnaire
	}
	recsUpdated := st.Metadata.LastUpdated
	if recsUpdated.IsZero() {
		return ReasonNoTimestamp
	}
	prefsUpdated := st.PreferencesUpdated
	if prefsUpdated.IsZero() {
		prefsUpdated = now
	}
	if prefsUpdated.After(recsUpdated) {
		return ReasonPreferencesChanged
	}
	if st.LatestFeedback.After(recsUpdated) {
		return ReasonNewFeedback
	}
	if recsUpdated.Before(now.Add(-cfg.StaleAfter)) {
		return ReasonExpired
	}
	return ReasonNone
}

// Coordinator gates generation runs: one per user at a time, and only when
// stored results are stale.
type Coordinator struct {
	locker Locker
	state  StateReader
	cfg    FreshnessConfig
	now    func() time.Time
	logger zerolog.Logger
}

// NewCoordinator creates a Coordinator.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCoordinator(l Locker, st StateReader, cfg FreshnessConfig, now func() time.Time, logger zerolog.Logger) *Coordinator {
	if now == nil {
		now = time.Now
	}
	return &Coordinator{
		locker: l,
		state:  st,
		cfg:    cfg,
		now:    now,
		logger: logger.With().Str("component", "coordinator").Logger(),
	}
}

func lockKey(userID int64) string {
	return "generate:" + strconv.FormatInt(userID, 10)
}

// Acquire tries to start a generation run for the user. A locker error is
// treated as contention so the caller serves stored data.
func (c *Coordinator) Acquire(ctx context.Context, userID int64) bool {
	ok, err := c.locker.Acquire(ctx, lockKey(userID))
	if err != nil {
		c.logger.Error().Err(err).Int64("user_id", userID).Msg("generation lock unavailable")
		return false
	}
	if !ok {
		metrics.LockContention.Inc()
		c.logger.Debug().Int64("user_id", userID).Msg("generation already in progress")
	}
	return ok
}

// Release ends the user's run. It runs detached from ctx so a canceled
// request still frees the lock.
func (c *Coordinator) Release(ctx context.Context, userID int64) {
	if err := c.locker.Release(context.WithoutCancel(ctx), lockKey(userID)); err != nil {
		c.logger.Warn().Err(err).Int64("user_id", userID).Msg("generation lock release failed")
	}
}

// NeedsRefresh reports why the user's stored results must be regenerated,
// or ReasonNone. Failing to read the state forces a refresh.
func (c *Coordinator) NeedsRefresh(ctx context.Context, userID int64) RefreshReason {
	st, err := c.state.GenerationState(ctx, userID)
	if err != nil {
		c.logger.Warn().Err(err).Int64("user_id", userID).Msg("generation state unavailable")
		return ReasonStateUnavailable
	}
	reason := RefreshNeeded(st, c.now(), c.cfg)
	c.logger.Debug().
		Int64("user_id", userID).
		Str("reason", string(reason)).
		Msg("staleness checked")
	return reason
}
