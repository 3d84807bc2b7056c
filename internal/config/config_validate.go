// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/cinerank/internal/logging"
)

var knownCategories = map[string]bool{
	"popular":     true,
	"top_rated":   true,
	"trending":    true,
	"now_playing": true,
	"upcoming":    true,
}

// Validate checks that required configuration is present and consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateBackends(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if c.Server.MaintenanceInterval <= 0 {
		return fmt.Errorf("server.maintenance_interval must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a known level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.APIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	u, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("TMDB_BASE_URL must be an http(s) URL, got %q", c.Catalog.BaseURL)
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT must be positive")
	}
	if c.Catalog.RequestsPerSecond <= 0 {
		return fmt.Errorf("TMDB_REQUESTS_PER_SEC must be positive")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if len(r.Categories) == 0 {
		return fmt.Errorf("recommend.categories must not be empty")
	}
	for _, cat := range r.Categories {
		if !knownCategories[cat] {
			return fmt.Errorf("recommend.categories: unknown category %q", cat)
		}
	}
	if r.PagesPerCategory < 1 {
		return fmt.Errorf("recommend.pages_per_category must be at least 1")
	}
	if r.FetchConcurrency < 1 {
		return fmt.Errorf("recommend.fetch_concurrency must be at least 1")
	}
	if r.TopN < 1 {
		return fmt.Errorf("recommend.top_n must be at least 1")
	}
	if r.GuaranteedTop < 0 || r.GuaranteedTop > r.TopN {
		return fmt.Errorf("recommend.guaranteed_top must be between 0 and top_n")
	}
	if r.MaxPerGenre < 1 {
		return fmt.Errorf("recommend.max_per_genre must be at least 1")
	}
	if r.DiversityBypassRatio <= 0 || r.DiversityBypassRatio > 1 {
		return fmt.Errorf("recommend.diversity_bypass_ratio must be in (0, 1]")
	}
	if r.MMRLambda < 0 || r.MMRLambda > 1 {
		return fmt.Errorf("recommend.mmr_lambda must be in [0, 1]")
	}
	if r.FranchiseMinHits < 1 {
		return fmt.Errorf("FRANCHISE_MIN_HITS must be at least 1")
	}
	if r.RatingWeight < 0 {
		return fmt.Errorf("recommend.rating_weight must not be negative")
	}
	if r.StaleAfter <= r.Debounce {
		return fmt.Errorf("recommend.stale_after must exceed recommend.debounce")
	}
	return nil
}

func (c *Config) validateBackends() error {
	switch c.Cache.CandidateBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache.candidate_backend must be one of: memory, redis")
	}
	switch c.Lock.Backend {
	case "local", "redis":
	default:
		return fmt.Errorf("lock.backend must be one of: local, redis")
	}
	if c.Lock.Timeout <= 0 {
		return fmt.Errorf("LOCK_TIMEOUT must be positive")
	}
	if c.Cache.CandidateTTL <= 0 {
		return fmt.Errorf("CANDIDATE_CACHE_TTL must be positive")
	}
	if c.Cache.ProfileCapacity < 1 {
		return fmt.Errorf("PROFILE_CACHE_CAPACITY must be at least 1")
	}
	if (c.Cache.CandidateBackend == "redis" || c.Lock.Backend == "redis") && c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when a redis backend is selected")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitRequests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}
