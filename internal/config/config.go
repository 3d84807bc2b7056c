// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package config loads cinerank configuration.
//
// Values are layered with koanf: built-in defaults, then an optional YAML
// file, then environment variables. Later layers win. The file is taken
// from CONFIG_PATH, else the first of DefaultConfigPaths that exists.
//
// Environment variables use flat, conventional names (TMDB_API_KEY,
// HTTP_PORT, LOCK_BACKEND, ...) and are mapped onto config keys by
// envTransformFunc. Variables with no mapping are ignored.
//
// Example config.yaml:
//
//	catalog:
//	  api_key: "..."
//	recommend:
//	  categories: [popular, top_rated, trending]
//	  pages_per_category: 2
//	cache:
//	  candidate_backend: redis
//	redis:
//	  addr: localhost:6379
//	lock:
//	  backend: redis
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Database  DatabaseConfig  `koanf:"database"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	Redis     RedisConfig     `koanf:"redis"`
	Lock      LockConfig      `koanf:"lock"`
	Events    EventsConfig    `koanf:"events"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server and process lifecycle settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// MaintenanceInterval is how often expired cache entries and abandoned
	// local locks are swept.
	MaintenanceInterval time.Duration `koanf:"maintenance_interval"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file, or ":memory:".
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	// Threads of 0 lets DuckDB use runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// CatalogConfig holds TMDb client settings.
type CatalogConfig struct {
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	Language          string        `koanf:"language"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

// RecommendConfig tunes candidate gathering, scoring and generation policy.
type RecommendConfig struct {
	Categories       []string `koanf:"categories"`
	PagesPerCategory int      `koanf:"pages_per_category"`
	FetchConcurrency int      `koanf:"fetch_concurrency"`

	// EnableActors fetches credits for every candidate.
	EnableActors bool `koanf:"enable_actors"`
	// EnableEnhancedProfiles builds full profiles (details, keywords) for every candidate.
	EnableEnhancedProfiles bool `koanf:"enable_enhanced_profiles"`

	TopN                 int     `koanf:"top_n"`
	GuaranteedTop        int     `koanf:"guaranteed_top"`
	MaxPerGenre          int     `koanf:"max_per_genre"`
	DiversityBypassRatio float64 `koanf:"diversity_bypass_ratio"`

	// MMRLambda enables a genre-overlap MMR pass after the diversity
	// filter when in (0, 1). Zero disables it.
	MMRLambda float64 `koanf:"mmr_lambda"`

	FranchiseMinHits int    `koanf:"franchise_min_hits"`
	KeywordsPath     string `koanf:"keywords_path"`

	RatingWeight      float64 `koanf:"rating_weight"`
	MinVotesForRating int     `koanf:"min_votes_for_rating"`

	StaleAfter time.Duration `koanf:"stale_after"`
	Debounce   time.Duration `koanf:"debounce"`

	DefaultGenres []string `koanf:"default_genres"`
}

// CacheConfig selects cache backends.
type CacheConfig struct {
	// CandidateBackend is memory or redis.
	CandidateBackend string        `koanf:"candidate_backend"`
	CandidateTTL     time.Duration `koanf:"candidate_ttl"`

	ProfileCapacity int `koanf:"profile_capacity"`
	// ProfileStorePath enables a Badger store for built profiles when set.
	ProfileStorePath string `koanf:"profile_store_path"`
}

// RedisConfig is shared by the redis cache backend and the redis lock.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// LockConfig selects the generation lock implementation.
type LockConfig struct {
	// Backend is local or redis.
	Backend string        `koanf:"backend"`
	Timeout time.Duration `koanf:"timeout"`
}

// EventsConfig selects the event transport.
type EventsConfig struct {
	// NATSURL switches events from the in-process channel to NATS when set.
	NATSURL string `koanf:"nats_url"`
}

// SecurityConfig holds inbound HTTP protections.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// Load reads, layers and validates configuration.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
