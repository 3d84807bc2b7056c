// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package profile

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/cinerank/internal/cache"
	"github.com/tomtom215/cinerank/internal/catalog"
	"github.com/tomtom215/cinerank/internal/metrics"
)

// DefaultCapacity is the in-memory profile cache size.
const DefaultCapacity = 2000

// Catalog is the subset of the catalog client profiles are built from.
type Catalog interface {
	Details(ctx context.Context, movieID int64) (*catalog.MovieDetails, error)
	Credits(ctx context.Context, movieID int64) (*catalog.Credits, error)
	Keywords(ctx context.Context, movieID int64) ([]string, error)
	SearchByTitle(ctx context.Context, title string) ([]catalog.MovieSummary, error)
}

// Service builds and caches movie profiles. Returned profiles are shared
// between callers and must be treated as read-only.
type Service struct {
	catalog Catalog
	builder *Builder
	lru     *cache.LRU[int64, *Profile]
	store   cache.JSONStore
	group   singleflight.Group
	log     zerolog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	capacity int
	store    cache.JSONStore
	log      zerolog.Logger
}

// WithCapacity sets the in-memory cache size.
func WithCapacity(n int) ServiceOption {
	return func(o *serviceOptions) { o.capacity = n }
}

// WithStore adds a persistent second-level cache.
func WithStore(s cache.JSONStore) ServiceOption {
	return func(o *serviceOptions) { o.store = s }
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(o *serviceOptions) { o.log = log }
}

// NewService wires a Service.
func NewService(c Catalog, b *Builder, opts ...ServiceOption) *Service {
	o := serviceOptions{capacity: DefaultCapacity, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.capacity < 1 {
		o.capacity = DefaultCapacity
	}
	return &Service{
		catalog: c,
		builder: b,
		lru:     cache.NewLRU[int64, *Profile](o.capacity, 0),
		store:   o.store,
		log:     o.log.With().Str("component", "profile").Logger(),
	}
}

// Builder returns the builder used by the service.
func (s *Service) Builder() *Builder { return s.builder }

func storeKey(movieID int64) string {
	return "profile:" + strconv.FormatInt(movieID, 10)
}

// Profile returns the profile for movieID. A catalog failure yields
// (nil, nil): the profile is unavailable, which callers handle by skipping
// or degrading. Only context cancellation is returned as an error.
// Concurrent calls for the same id share one build.
func (s *Service) Profile(ctx context.Context, movieID int64) (*Profile, error) {
	if p, ok := s.lru.Get(movieID); ok {
		metrics.RecordCacheLookup("profile", true)
		return p, nil
	}
	metrics.RecordCacheLookup("profile", false)

	v, err, _ := s.group.Do(strconv.FormatInt(movieID, 10), func() (any, error) {
		if p, ok := s.lru.Get(movieID); ok {
			return p, nil
		}
		if p := s.loadStored(ctx, movieID); p != nil {
			s.lru.Add(movieID, p)
			return p, nil
		}
		p, err := s.build(ctx, movieID)
		if err != nil || p == nil {
			return nil, err
		}
		s.lru.Add(movieID, p)
		s.saveStored(ctx, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	p, _ := v.(*Profile)
	return p, nil
}

// Cached returns the profile only if it is already in memory.
func (s *Service) Cached(movieID int64) (*Profile, bool) {
	return s.lru.Get(movieID)
}

// ProfileByTitle resolves a free-text title through catalog search and
// profiles the first hit. When nothing resolves it returns a synthetic
// profile built from the title alone, so it never returns nil without an
// error.
func (s *Service) ProfileByTitle(ctx context.Context, title string) (*Profile, error) {
	results, err := s.catalog.SearchByTitle(ctx, title)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.log.Debug().Err(err).Str("title", title).Msg("title search failed, using synthetic profile")
	}
	if len(results) > 0 {
		p, err := s.Profile(ctx, results[0].ID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}
	return Synthetic(title), nil
}

// Synthetic is the stand-in profile for a title the catalog cannot
// resolve.
func Synthetic(title string) *Profile {
	return &Profile{
		Title:          title,
		Genres:         []string{},
		Actors:         []string{},
		Directors:      []string{},
		Keywords:       []string{},
		Themes:         []string{},
		Tones:          []string{},
		Franchises:     []string{},
		CoreConcepts:   []string{},
		TargetAudience: AudienceGeneral,
		CompositeText:  fmt.Sprintf("%s %s movie film cinema", title, title),
	}
}

func (s *Service) build(ctx context.Context, movieID int64) (*Profile, error) {
	details, err := s.catalog.Details(ctx, movieID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		ev := s.log.Warn()
		if errors.Is(err, catalog.ErrNotFound) {
			ev = s.log.Debug()
		}
		ev.Err(err).Int64("movie_id", movieID).Msg("movie details unavailable")
		return nil, nil
	}

	credits, err := s.catalog.Credits(ctx, movieID)
	if err != nil {
		s.log.Debug().Err(err).Int64("movie_id", movieID).Msg("credits unavailable, building without cast")
		credits = nil
	}
	keywords, err := s.catalog.Keywords(ctx, movieID)
	if err != nil {
		s.log.Debug().Err(err).Int64("movie_id", movieID).Msg("keywords unavailable")
		keywords = nil
	}

	return s.builder.Build(MetadataFrom(details, credits, keywords)), nil
}

// MetadataFrom assembles builder input from catalog responses. credits
// and keywords may be nil.
func MetadataFrom(d *catalog.MovieDetails, credits *catalog.Credits, keywords []string) Metadata {
	return Metadata{
		ID:            d.ID,
		Title:         d.Title,
		OriginalTitle: d.OriginalTitle,
		Overview:      d.Overview,
		ReleaseDate:   d.ReleaseDate,
		PosterPath:    d.PosterPath,
		VoteAverage:   d.VoteAverage,
		VoteCount:     d.VoteCount,
		Adult:         d.Adult,
		Genres:        d.GenreNames(),
		Cast:          credits.TopCast(maxActors),
		Directors:     credits.Directors(),
		Keywords:      keywords,
		ContentRating: d.Certification(),
		Companies:     d.CompanyNames(),
		Collection:    d.CollectionName(),
	}
}

func (s *Service) loadStored(ctx context.Context, movieID int64) *Profile {
	if s.store == nil {
		return nil
	}
	var p Profile
	ok, err := s.store.GetJSON(ctx, storeKey(movieID), &p)
	if err != nil {
		s.log.Warn().Err(err).Int64("movie_id", movieID).Msg("profile store read failed")
		return nil
	}
	metrics.RecordCacheLookup("profile_store", ok)
	if !ok {
		return nil
	}
	return &p
}

func (s *Service) saveStored(ctx context.Context, p *Profile) {
	if s.store == nil {
		return
	}
	if err := s.store.SetJSON(ctx, storeKey(p.ID), p, 0); err != nil {
		s.log.Warn().Err(err).Int64("movie_id", p.ID).Msg("profile store write failed")
	}
}
