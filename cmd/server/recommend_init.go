// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerank/internal/cache"
	"github.com/tomtom215/cinerank/internal/catalog"
	"github.com/tomtom215/cinerank/internal/config"
	"github.com/tomtom215/cinerank/internal/profile"
	"github.com/tomtom215/cinerank/internal/recommend"
	"github.com/tomtom215/cinerank/internal/recommend/reranking"
)

// RecommendComponents holds the engine and the resources it owns.
type RecommendComponents struct {
	Engine   *recommend.Engine
	Catalog  *catalog.Client
	Profiles *profile.Service

	profileStore *cache.BadgerStore
}

// initRecommend wires the catalog, profile service and engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initRecommend(cfg *config.Config, store recommend.Store, b *Backends, notifier recommend.Notifier, logger zerolog.Logger) (*RecommendComponents, error) {
	if cfg.Catalog.APIKey == "" {
		logger.Warn().Msg("TMDB_API_KEY is empty; catalog requests will be rejected")
	}
	cat := catalog.NewClient(&cfg.Catalog, logger)

	tables, err := profile.LoadTables(cfg.Recommend.KeywordsPath)
	if err != nil {
		return nil, fmt.Errorf("load keyword tables: %w", err)
	}
	builder := profile.NewBuilder(tables, profile.WithFranchiseMinHits(cfg.Recommend.FranchiseMinHits))

	rc := &RecommendComponents{Catalog: cat}
	profileOpts := []profile.ServiceOption{
		profile.WithCapacity(cfg.Cache.ProfileCapacity),
		profile.WithLogger(logger),
	}
	if cfg.Cache.ProfileStorePath != "" {
		bs, err := cache.OpenBadgerStore(cfg.Cache.ProfileStorePath)
		if err != nil {
			return nil, fmt.Errorf("open profile store: %w", err)
		}
		rc.profileStore = bs
		profileOpts = append(profileOpts, profile.WithStore(bs))
		logger.Info().Str("path", cfg.Cache.ProfileStorePath).Msg("Persistent profile store enabled")
	}
	rc.Profiles = profile.NewService(cat, builder, profileOpts...)

	engineCfg := recommend.ConfigFrom(&cfg.Recommend, cfg.Cache.CandidateTTL)
	engine, err := recommend.NewEngine(engineCfg, store, cat, rc.Profiles, logger,
		recommend.WithLocker(b.Locker),
		recommend.WithCandidateStore(b.Candidates),
		recommend.WithNotifier(notifier),
	)
	if err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	registerRerankers(engine, cfg, engineCfg, logger)
	rc.Engine = engine

	logger.Info().
		Strs("categories", engineCfg.Candidates.Categories).
		Int("pages_per_category", engineCfg.Candidates.PagesPerCategory).
		Bool("enhanced_profiles", engineCfg.Candidates.EnableEnhancedProfiles).
		Msg("Recommendation engine initialized")
	return rc, nil
}

// registerRerankers installs the genre diversity pass and, when
// configured, MMR after it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func registerRerankers(engine *recommend.Engine, cfg *config.Config, engineCfg *recommend.Config, logger zerolog.Logger) {
	engine.RegisterReranker(reranking.NewDiversity(engineCfg.Diversity))
	if l := cfg.Recommend.MMRLambda; l > 0 && l < 1 {
		engine.RegisterReranker(reranking.NewMMR(l))
		logger.Info().Float64("lambda", l).Msg("MMR reranker enabled")
	}
}

// Close releases the persistent profile store.
func (rc *RecommendComponents) Close() error {
	if rc == nil || rc.profileStore == nil {
		return nil
	}
	return rc.profileStore.Close()
}

var (
	_ recommend.Catalog  = (*catalog.Client)(nil)
	_ profile.Catalog    = (*catalog.Client)(nil)
	_ recommend.Profiles = (*profile.Service)(nil)
)
