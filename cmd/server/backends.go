// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerank/internal/cache"
	"github.com/tomtom215/cinerank/internal/config"
	"github.com/tomtom215/cinerank/internal/lock"
	"github.com/tomtom215/cinerank/internal/recommend"
	"github.com/tomtom215/cinerank/internal/supervisor/services"
)

const (
	backendMemory = "memory"
	backendLocal  = "local"
	backendRedis  = "redis"

	redisKeyPrefix = "cinerank:"
)

// Backends holds the swappable shared-state implementations.
type Backends struct {
	Redis      redis.UniversalClient
	Locker     recommend.Locker
	Candidates cache.JSONStore

	// Sweepers are in-process stores that need periodic expiry.
	Sweepers map[string]services.Sweeper
}

// needsRedis reports whether any configured backend uses Redis.
func needsRedis(cfg *config.Config) bool {
	return cfg.Lock.Backend == backendRedis || cfg.Cache.CandidateBackend == backendRedis
}

// initBackends builds the generation lock and candidate cache.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initBackends(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Backends, error) {
	b := &Backends{Sweepers: make(map[string]services.Sweeper)}

	if needsRedis(cfg) {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		b.Redis = client
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
	}

	switch cfg.Lock.Backend {
	case backendRedis:
		b.Locker = lock.NewRedisLocker(b.Redis, redisKeyPrefix+"lock:", cfg.Lock.Timeout)
	case backendLocal, "":
		local := lock.NewLocalLocker(cfg.Lock.Timeout)
		b.Locker = local
		b.Sweepers["locks"] = local
	default:
		return nil, fmt.Errorf("unknown lock backend %q", cfg.Lock.Backend)
	}

	switch cfg.Cache.CandidateBackend {
	case backendRedis:
		b.Candidates = cache.NewRedisStore(b.Redis, redisKeyPrefix+"cache:")
	case backendMemory, "":
		mem := cache.NewMemoryStore(cache.New(cfg.Cache.CandidateTTL))
		b.Candidates = mem
		b.Sweepers["candidates"] = mem
	default:
		return nil, fmt.Errorf("unknown candidate cache backend %q", cfg.Cache.CandidateBackend)
	}

	logger.Info().
		Str("lock", cfg.Lock.Backend).
		Str("candidates", cfg.Cache.CandidateBackend).
		Msg("Backends initialized")
	return b, nil
}

// Close releases the Redis client if one was opened.
func (b *Backends) Close() error {
	if b == nil || b.Redis == nil {
		return nil
	}
	return b.Redis.Close()
}

var (
	_ recommend.Locker = (*lock.LocalLocker)(nil)
	_ recommend.Locker = (*lock.RedisLocker)(nil)
)
