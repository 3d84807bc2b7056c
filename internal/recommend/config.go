// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"fmt"
	"slices"
	"time"

	"github.com/tomtom215/cinerank/internal/config"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Candidates controls candidate gathering.
	Candidates CandidateConfig `json:"candidates"`

	// Diversity contains parameters for the diversity filter.
	Diversity DiversityConfig `json:"diversity"`

	// Scoring contains scorer parameters.
	Scoring ScoringConfig `json:"scoring"`

	// Freshness controls when stored results are regenerated.
	Freshness FreshnessConfig `json:"freshness"`

	// DefaultGenres seeds the fallback list when the user named none.
	// Default: action, comedy, romance, adventure.
	DefaultGenres []string `json:"default_genres"`
}

// CandidateConfig controls the candidate aggregator.
type CandidateConfig struct {
	// Categories are the catalog feeds to pull.
	// Default: popular, top_rated, trending, now_playing, upcoming.
	Categories []string `json:"categories"`

	// PagesPerCategory is how many pages of each feed are fetched.
	// Default: 2.
	PagesPerCategory int `json:"pages_per_category"`

	// Concurrency bounds in-flight catalog calls.
	// Default: 10.
	Concurrency int `json:"concurrency"`

	// EnableActors fetches credits for each candidate.
	// Default: true.
	EnableActors bool `json:"enable_actors"`

	// EnableEnhancedProfiles builds full catalog-backed profiles. When off,
	// profiles are derived from feed fields alone.
	// Default: true.
	EnableEnhancedProfiles bool `json:"enable_enhanced_profiles"`

	// CacheTTL is how long a user's aggregated candidates are reused.
	// Default: 1h.
	CacheTTL time.Duration `json:"cache_ttl"`
}

// DiversityConfig contains parameters for the diversity filter.
type DiversityConfig struct {
	// TopN is the number of recommendations produced.
	// Default: 20.
	TopN int `json:"top_n"`

	// GuaranteedTop is how many leading candidates bypass the genre cap.
	// Default: 5.
	GuaranteedTop int `json:"guaranteed_top"`

	// MaxPerGenre caps results sharing a leading genre.
	// Default: 5.
	MaxPerGenre int `json:"max_per_genre"`

	// BypassRatio admits capped candidates scoring at least this fraction
	// of the best score.
	// Default: 0.8.
	BypassRatio float64 `json:"bypass_ratio"`
}

// ScoringConfig contains scorer parameters.
type ScoringConfig struct {
	// RatingWeight scales the vote-average boost.
	// Default: 0.05.
	RatingWeight float64 `json:"rating_weight"`

	// MinVotesForRating gates the rating boost to well-voted movies.
	// Default: 50.
	MinVotesForRating int `json:"min_votes_for_rating"`

	// NeutralSimilarity substitutes for similarity that cannot be computed.
	// Default: 0.5.
	NeutralSimilarity float64 `json:"neutral_similarity"`
}

// FreshnessConfig controls regeneration.
type FreshnessConfig struct {
	// StaleAfter is the maximum age of stored results.
	// Default: 24h.
	StaleAfter time.Duration `json:"stale_after"`

	// Debounce treats results younger than this as fresh regardless of
	// any other signal.
	// Default: 10s.
	Debounce time.Duration `json:"debounce"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Candidates: CandidateConfig{
			Categories:             []string{"popular", "top_rated", "trending", "now_playing", "upcoming"},
			PagesPerCategory:       2,
			Concurrency:            10,
			EnableActors:           true,
			EnableEnhancedProfiles: true,
			CacheTTL:               time.Hour,
		},
		Diversity: DiversityConfig{
			TopN:          20,
			GuaranteedTop: 5,
			MaxPerGenre:   5,
			BypassRatio:   0.8,
		},
		Scoring: ScoringConfig{
			RatingWeight:      DefaultRatingWeight,
			MinVotesForRating: 50,
			NeutralSimilarity: 0.5,
		},
		Freshness: FreshnessConfig{
			StaleAfter: 24 * time.Hour,
			Debounce:   10 * time.Second,
		},
		DefaultGenres: []string{"action", "comedy", "romance", "adventure"},
	}
}

// ConfigFrom maps the service configuration onto engine settings.
func ConfigFrom(rc *config.RecommendConfig, candidateTTL time.Duration) *Config {
	cfg := DefaultConfig()
	if rc == nil {
		return cfg
	}
	if len(rc.Categories) > 0 {
		cfg.Candidates.Categories = slices.Clone(rc.Categories)
	}
	cfg.Candidates.PagesPerCategory = rc.PagesPerCategory
	cfg.Candidates.Concurrency = rc.FetchConcurrency
	cfg.Candidates.EnableActors = rc.EnableActors
	cfg.Candidates.EnableEnhancedProfiles = rc.EnableEnhancedProfiles
	if candidateTTL > 0 {
		cfg.Candidates.CacheTTL = candidateTTL
	}
	cfg.Diversity = DiversityConfig{
		TopN:          rc.TopN,
		GuaranteedTop: rc.GuaranteedTop,
		MaxPerGenre:   rc.MaxPerGenre,
		BypassRatio:   rc.DiversityBypassRatio,
	}
	cfg.Scoring.RatingWeight = rc.RatingWeight
	cfg.Scoring.MinVotesForRating = rc.MinVotesForRating
	cfg.Freshness = FreshnessConfig{StaleAfter: rc.StaleAfter, Debounce: rc.Debounce}
	if len(rc.DefaultGenres) > 0 {
		cfg.DefaultGenres = slices.Clone(rc.DefaultGenres)
	}
	return cfg
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if len(c.Candidates.Categories) == 0 {
		return fmt.Errorf("candidates.categories must not be empty")
	}
	if c.Candidates.PagesPerCategory < 1 {
		return fmt.Errorf("candidates.pages_per_category must be positive, got %d", c.Candidates.PagesPerCategory)
	}
	if c.Candidates.Concurrency < 1 {
		return fmt.Errorf("candidates.concurrency must be positive, got %d", c.Candidates.Concurrency)
	}
	if c.Candidates.CacheTTL < 0 {
		return fmt.Errorf("candidates.cache_ttl must be non-negative, got %v", c.Candidates.CacheTTL)
	}

	if c.Diversity.TopN < 1 {
		return fmt.Errorf("diversity.top_n must be positive, got %d", c.Diversity.TopN)
	}
	if c.Diversity.GuaranteedTop < 0 {
		return fmt.Errorf("diversity.guaranteed_top must be non-negative, got %d", c.Diversity.GuaranteedTop)
	}
	if c.Diversity.MaxPerGenre < 1 {
		return fmt.Errorf("diversity.max_per_genre must be positive, got %d", c.Diversity.MaxPerGenre)
	}
	if c.Diversity.BypassRatio < 0 || c.Diversity.BypassRatio > 1 {
		return fmt.Errorf("diversity.bypass_ratio must be in [0, 1], got %f", c.Diversity.BypassRatio)
	}

	if c.Scoring.RatingWeight < 0 {
		return fmt.Errorf("scoring.rating_weight must be non-negative, got %f", c.Scoring.RatingWeight)
	}
	if c.Scoring.MinVotesForRating < 0 {
		return fmt.Errorf("scoring.min_votes_for_rating must be non-negative, got %d", c.Scoring.MinVotesForRating)
	}
	if c.Scoring.NeutralSimilarity < 0 || c.Scoring.NeutralSimilarity > 1 {
		return fmt.Errorf("scoring.neutral_similarity must be in [0, 1], got %f", c.Scoring.NeutralSimilarity)
	}

	if c.Freshness.StaleAfter <= 0 {
		return fmt.Errorf("freshness.stale_after must be positive, got %v", c.Freshness.StaleAfter)
	}
	if c.Freshness.Debounce < 0 || c.Freshness.Debounce >= c.Freshness.StaleAfter {
		return fmt.Errorf("freshness.debounce must be in [0, stale_after), got %v", c.Freshness.Debounce)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Candidates.Categories = slices.Clone(c.Candidates.Categories)
	out.DefaultGenres = slices.Clone(c.DefaultGenres)
	return &out
}
