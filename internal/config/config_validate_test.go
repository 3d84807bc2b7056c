// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Catalog.APIKey = "key"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"no api key", func(c *Config) { c.Catalog.APIKey = "" }, "TMDB_API_KEY"},
		{"bad base url", func(c *Config) { c.Catalog.BaseURL = "ftp://x" }, "TMDB_BASE_URL"},
		{"unknown category", func(c *Config) { c.Recommend.Categories = []string{"cult"} }, "unknown category"},
		{"no categories", func(c *Config) { c.Recommend.Categories = nil }, "categories"},
		{"zero pages", func(c *Config) { c.Recommend.PagesPerCategory = 0 }, "pages_per_category"},
		{"bypass ratio", func(c *Config) { c.Recommend.DiversityBypassRatio = 1.5 }, "diversity_bypass_ratio"},
		{"mmr lambda", func(c *Config) { c.Recommend.MMRLambda = -0.1 }, "mmr_lambda"},
		{"guaranteed over top", func(c *Config) { c.Recommend.GuaranteedTop = 30 }, "guaranteed_top"},
		{"debounce over stale", func(c *Config) { c.Recommend.Debounce = 48 * time.Hour }, "stale_after"},
		{"unknown lock backend", func(c *Config) { c.Lock.Backend = "zookeeper" }, "lock.backend"},
		{"unknown cache backend", func(c *Config) { c.Cache.CandidateBackend = "disk" }, "candidate_backend"},
		{"redis without addr", func(c *Config) { c.Lock.Backend = "redis" }, "REDIS_ADDR"},
		{"redis with addr", func(c *Config) {
			c.Cache.CandidateBackend = "redis"
			c.Redis.Addr = "localhost:6379"
		}, ""},
		{"rate limit zero", func(c *Config) { c.Security.RateLimitRequests = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled", func(c *Config) {
			c.Security.RateLimitRequests = 0
			c.Security.RateLimitDisabled = true
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
