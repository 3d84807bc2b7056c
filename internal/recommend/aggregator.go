// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinerank/internal/cache"
	"github.com/tomtom215/cinerank/internal/catalog"
	"github.com/tomtom215/cinerank/internal/metrics"
	"github.com/tomtom215/cinerank/internal/profile"
)

// maxCandidateActors is how many billed cast members a candidate carries.
const maxCandidateActors = 5

// Aggregator gathers candidate movies from catalog feeds.
type Aggregator struct {
	catalog  Catalog
	profiles Profiles
	store    cache.JSONStore
	cfg      CandidateConfig
	logger   zerolog.Logger
}

// NewAggregator creates an Aggregator. store may be nil to disable
// per-user candidate caching.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAggregator(c Catalog, p Profiles, store cache.JSONStore, cfg CandidateConfig, logger zerolog.Logger) *Aggregator {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Aggregator{
		catalog:  c,
		profiles: p,
		store:    store,
		cfg:      cfg,
		logger:   logger.With().Str("component", "aggregator").Logger(),
	}
}

func candidateKey(userID int64) string {
	return "candidates:" + strconv.FormatInt(userID, 10)
}

// Candidates returns the user's candidate pool, from cache when a pool was
// gathered within the cache TTL.
func (a *Aggregator) Candidates(ctx context.Context, userID int64) []*Candidate {
	if a.store != nil {
		var cached []*Candidate
		ok, err := a.store.GetJSON(ctx, candidateKey(userID), &cached)
		if err != nil {
			a.logger.Warn().Err(err).Int64("user_id", userID).Msg("candidate cache read failed")
		}
		metrics.RecordCacheLookup("candidates", ok)
		if ok && len(cached) > 0 {
			return cached
		}
	}

	candidates := a.Gather(ctx)

	if a.store != nil && len(candidates) > 0 {
		if err := a.store.SetJSON(ctx, candidateKey(userID), candidates, a.cfg.CacheTTL); err != nil {
			a.logger.Warn().Err(err).Int64("user_id", userID).Msg("candidate cache write failed")
		}
	}
	return candidates
}

// Invalidate drops the user's cached candidate pool.
func (a *Aggregator) Invalidate(ctx context.Context, userID int64) error {
	if a.store == nil {
		return nil
	}
	return a.store.Delete(ctx, candidateKey(userID))
}

type pageJob struct {
	category string
	page     int
}

// Gather fetches every configured category page, deduplicates by movie id
// in first-seen order, and enriches each movie. Failed pages contribute
// nothing; the batch never fails as a whole.
func (a *Aggregator) Gather(ctx context.Context) []*Candidate {
	jobs := make([]pageJob, 0, len(a.cfg.Categories)*a.cfg.PagesPerCategory)
	for _, category := range a.cfg.Categories {
		for page := 1; page <= a.cfg.PagesPerCategory; page++ {
			jobs = append(jobs, pageJob{category: category, page: page})
		}
	}

	pages := make([][]catalog.MovieSummary, len(jobs))
	var g errgroup.Group
	g.SetLimit(a.cfg.Concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			guard(&a.logger, "category page", 0, func() {
				results, err := a.catalog.CategoryPage(ctx, job.category, job.page)
				if err != nil {
					a.logger.Warn().Err(err).
						Str("category", job.category).
						Int("page", job.page).
						Msg("category page unavailable")
					return
				}
				pages[i] = results
			})
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[int64]struct{})
	var summaries []catalog.MovieSummary
	for _, results := range pages {
		for _, s := range results {
			if s.ID == 0 {
				continue
			}
			if _, dup := seen[s.ID]; dup {
				continue
			}
			seen[s.ID] = struct{}{}
			summaries = append(summaries, s)
		}
	}

	enriched := make([]*Candidate, len(summaries))
	var eg errgroup.Group
	eg.SetLimit(a.cfg.Concurrency)
	for i, s := range summaries {
		eg.Go(func() error {
			guard(&a.logger, "candidate", s.ID, func() { enriched[i] = a.enrich(ctx, s) })
			return nil
		})
	}
	_ = eg.Wait()

	out := make([]*Candidate, 0, len(enriched))
	for _, c := range enriched {
		if c != nil {
			out = append(out, c)
		}
	}

	a.logger.Debug().
		Int("pages", len(jobs)).
		Int("unique", len(summaries)).
		Int("candidates", len(out)).
		Msg("candidates gathered")
	return out
}

// enrich turns a feed entry into a candidate. Missing cast or profile data
// degrades the candidate; only cancellation drops it.
func (a *Aggregator) enrich(ctx context.Context, s catalog.MovieSummary) *Candidate {
	if ctx.Err() != nil {
		return nil
	}

	genres, err := a.catalog.GenreNames(ctx, s.GenreIDs)
	if err != nil {
		a.logger.Debug().Err(err).Int64("movie_id", s.ID).Msg("genre names unavailable")
	}

	c := &Candidate{
		ID:          s.ID,
		Title:       s.Title,
		Overview:    s.Overview,
		PosterPath:  s.PosterPath,
		ReleaseDate: s.ReleaseDate,
		VoteAverage: s.VoteAverage,
		VoteCount:   s.VoteCount,
		Popularity:  s.Popularity,
		Genres:      nonNil(genres),
		Actors:      []string{},
	}

	if a.cfg.EnableEnhancedProfiles {
		p, err := a.profiles.Profile(ctx, s.ID)
		if err != nil {
			a.logger.Debug().Err(err).Int64("movie_id", s.ID).Msg("dropping candidate")
			return nil
		}
		c.Profile = p
	}

	switch {
	case c.Profile != nil && len(c.Profile.Actors) > 0:
		c.Actors = c.Profile.Actors
	case a.cfg.EnableActors:
		credits, err := a.catalog.Credits(ctx, s.ID)
		if err != nil {
			a.logger.Debug().Err(err).Int64("movie_id", s.ID).Msg("credits unavailable")
		}
		c.Actors = nonNil(credits.TopCast(maxCandidateActors))
	}

	if c.Profile == nil {
		c.Profile = a.profiles.Builder().Build(profile.Metadata{
			ID:            s.ID,
			Title:         s.Title,
			OriginalTitle: s.OriginalTitle,
			Overview:      s.Overview,
			ReleaseDate:   s.ReleaseDate,
			PosterPath:    s.PosterPath,
			VoteAverage:   s.VoteAverage,
			VoteCount:     s.VoteCount,
			Adult:         s.Adult,
			Genres:        c.Genres,
			Cast:          c.Actors,
		})
	}
	return c
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
