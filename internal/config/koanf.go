// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinerank/config.yaml",
	"/etc/cinerank/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8080,
			ReadTimeout:         15 * time.Second,
			WriteTimeout:        60 * time.Second,
			ShutdownTimeout:     10 * time.Second,
			MaintenanceInterval: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Path:      "./data/cinerank.duckdb",
			MaxMemory: "1GB",
		},
		Catalog: CatalogConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			Language:          "en-US",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 20,
			Burst:             20,
		},
		Recommend: RecommendConfig{
			Categories:             []string{"popular", "top_rated", "trending", "now_playing", "upcoming"},
			PagesPerCategory:       2,
			FetchConcurrency:       10,
			EnableActors:           true,
			EnableEnhancedProfiles: true,
			TopN:                   20,
			GuaranteedTop:          5,
			MaxPerGenre:            5,
			DiversityBypassRatio:   0.8,
			FranchiseMinHits:       3,
			RatingWeight:           0.05,
			MinVotesForRating:      50,
			StaleAfter:             24 * time.Hour,
			Debounce:               10 * time.Second,
			DefaultGenres:          []string{"action", "comedy", "romance", "adventure"},
		},
		Cache: CacheConfig{
			CandidateBackend: "memory",
			CandidateTTL:     time.Hour,
			ProfileCapacity:  2000,
		},
		Lock: LockConfig{
			Backend: "local",
			Timeout: 5 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
	}
}

// LoadWithKoanf layers defaults, the config file and environment variables.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths accept comma-separated strings from the environment.
var sliceConfigPaths = []string{
	"recommend.categories",
	"recommend.default_genres",
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if len(values) == 0 {
			continue
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to config keys.
var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"shutdown_timeout":      "server.shutdown_timeout",
	"maintenance_interval":  "server.maintenance_interval",
	"log_level":             "logging.level",
	"log_format":            "logging.format",
	"log_caller":            "logging.caller",
	"duckdb_path":           "database.path",
	"duckdb_max_memory":     "database.max_memory",
	"duckdb_threads":        "database.threads",
	"tmdb_base_url":         "catalog.base_url",
	"tmdb_api_key":          "catalog.api_key",
	"tmdb_language":         "catalog.language",
	"tmdb_timeout":          "catalog.timeout",
	"tmdb_requests_per_sec": "catalog.requests_per_second",
	"tmdb_burst":            "catalog.burst",

	"recommend_categories":         "recommend.categories",
	"recommend_pages_per_category": "recommend.pages_per_category",
	"recommend_fetch_concurrency":  "recommend.fetch_concurrency",
	"enable_actors":                "recommend.enable_actors",
	"enable_enhanced_profiles":     "recommend.enable_enhanced_profiles",
	"recommend_top_n":              "recommend.top_n",
	"recommend_max_per_genre":      "recommend.max_per_genre",
	"recommend_bypass_ratio":       "recommend.diversity_bypass_ratio",
	"recommend_mmr_lambda":         "recommend.mmr_lambda",
	"franchise_min_hits":           "recommend.franchise_min_hits",
	"keywords_path":                "recommend.keywords_path",
	"recommend_stale_after":        "recommend.stale_after",
	"recommend_debounce":           "recommend.debounce",
	"recommend_default_genres":     "recommend.default_genres",

	"candidate_cache_backend": "cache.candidate_backend",
	"candidate_cache_ttl":     "cache.candidate_ttl",
	"profile_cache_capacity":  "cache.profile_capacity",
	"profile_store_path":      "cache.profile_store_path",

	"redis_addr":     "redis.addr",
	"redis_password": "redis.password",
	"redis_db":       "redis.db",

	"lock_backend": "lock.backend",
	"lock_timeout": "lock.timeout",

	"nats_url": "events.nats_url",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc returns "" for unmapped variables, which koanf skips.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
