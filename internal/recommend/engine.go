// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinerank/internal/cache"
	"github.com/tomtom215/cinerank/internal/catalog"
	"github.com/tomtom215/cinerank/internal/lock"
	"github.com/tomtom215/cinerank/internal/logging"
	"github.com/tomtom215/cinerank/internal/metrics"
	"github.com/tomtom215/cinerank/internal/profile"
)

// likedRatingMin is the watchlist rating from which a watched movie's
// genres and actors count as liked.
const likedRatingMin = 7.0

// ErrNoRecommendations is returned when neither scoring nor the fallback
// list produced anything and nothing is stored.
var ErrNoRecommendations = errors.New("no recommendations available")

// Store is the persistence contract. Lookups of single rows that do not
// exist return ErrNotFound.
type Store interface {
	StateReader

	Questionnaire(ctx context.Context, userID int64) (*Questionnaire, error)
	Watchlist(ctx context.Context, userID int64) ([]WatchlistItem, error)

	// Recommendations returns the stored set, best first, with explanation
	// text attached where one was saved.
	Recommendations(ctx context.Context, userID int64) ([]Recommendation, error)

	// ReplaceRecommendations swaps the user's whole stored set and stamps
	// the metadata row in one transaction.
	ReplaceRecommendations(ctx context.Context, userID int64, recs []Recommendation, at time.Time) error

	// MarkStale sets the metadata timestamp so the next staleness check
	// sees results generated at the given time.
	MarkStale(ctx context.Context, userID int64, at time.Time) error

	SaveFeedback(ctx context.Context, f FeedbackRecord) error
	SaveOverallFeedback(ctx context.Context, f OverallFeedback) error
	Feedback(ctx context.Context, userID int64) ([]FeedbackRecord, error)
	Disliked(ctx context.Context, userID int64) ([]DislikedMovie, error)

	PreferenceModel(ctx context.Context, userID int64) (*PreferenceModel, error)
	SavePreferenceModel(ctx context.Context, m *PreferenceModel) error

	ReplaceExplanations(ctx context.Context, userID int64, explanations []Explanation) error
	Explanation(ctx context.Context, userID, movieID int64) (*Explanation, error)
	Explanations(ctx context.Context, userID int64) ([]Explanation, error)
}

// Catalog is the subset of the movie catalog the engine reads directly.
type Catalog interface {
	CategoryPage(ctx context.Context, category string, page int) ([]catalog.MovieSummary, error)
	GenreNames(ctx context.Context, ids []int) ([]string, error)
	Credits(ctx context.Context, movieID int64) (*catalog.Credits, error)
	DiscoverByGenre(ctx context.Context, genre string, page int) ([]catalog.MovieSummary, error)
}

// Profiles resolves movie profiles. Profile returns (nil, nil) when the
// movie cannot be profiled.
type Profiles interface {
	Profile(ctx context.Context, movieID int64) (*profile.Profile, error)
	ProfileByTitle(ctx context.Context, title string) (*profile.Profile, error)
	Builder() *profile.Builder
}

// Notifier receives domain events. Implementations handle their own
// failures; notification never fails an operation.
type Notifier interface {
	FeedbackSubmitted(ctx context.Context, userID, movieID int64, value FeedbackValue)
	RecommendationsGenerated(ctx context.Context, userID int64, count int, status Status)
	RefreshForced(ctx context.Context, userID int64)
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) FeedbackSubmitted(context.Context, int64, int64, FeedbackValue) {}
func (NopNotifier) RecommendationsGenerated(context.Context, int64, int, Status)   {}
func (NopNotifier) RefreshForced(context.Context, int64)                           {}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	locker     Locker
	candidates cache.JSONStore
	notifier   Notifier
	now        func() time.Time
}

// WithLocker sets the generation lock. The default is a process-local lock
// with the standard reclaim timeout.
func WithLocker(l Locker) Option {
	return func(o *engineOptions) { o.locker = l }
}

// WithCandidateStore enables per-user caching of candidate pools.
func WithCandidateStore(s cache.JSONStore) Option {
	return func(o *engineOptions) { o.candidates = s }
}

// WithNotifier sets the domain event sink.
func WithNotifier(n Notifier) Option {
	return func(o *engineOptions) { o.notifier = n }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) { o.now = now }
}

// Engine produces, stores and explains recommendations. It is safe for
// concurrent use.
type Engine struct {
	cfg      *Config
	store    Store
	catalog  Catalog
	profiles Profiles
	notifier Notifier
	now      func() time.Time
	logger   zerolog.Logger

	aggregator  *Aggregator
	scorer      *Scorer
	coordinator *Coordinator

	rerankers []Reranker
	rrMu      sync.RWMutex
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, store Store, cat Catalog, profiles Profiles, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil || cat == nil || profiles == nil {
		return nil, errors.New("store, catalog and profiles are required")
	}

	o := engineOptions{notifier: NopNotifier{}, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.locker == nil {
		o.locker = lock.NewLocalLocker(lock.DefaultTimeout)
	}

	logger = logger.With().Str("component", "recommend").Logger()
	cfg = cfg.Clone()
	return &Engine{
		cfg:         cfg,
		store:       store,
		catalog:     cat,
		profiles:    profiles,
		notifier:    o.notifier,
		now:         o.now,
		logger:      logger,
		aggregator:  NewAggregator(cat, profiles, o.candidates, cfg.Candidates, logger),
		scorer:      NewScorer(cfg.Scoring),
		coordinator: NewCoordinator(o.locker, store, cfg.Freshness, o.now, logger),
	}, nil
}

// RegisterReranker adds a reranker to the post-processing pipeline.
func (e *Engine) RegisterReranker(rr Reranker) {
	e.rrMu.Lock()
	defer e.rrMu.Unlock()

	e.rerankers = append(e.rerankers, rr)
	e.logger.Info().
		Str("reranker", rr.Name()).
		Msg("registered reranker")
}

func (e *Engine) requestLogger(ctx context.Context, userID int64) zerolog.Logger {
	lc := e.logger.With().Int64("user_id", userID)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	return lc.Logger()
}

// GetRecommendations returns the user's recommendations, regenerating them
// when stored results are stale and no other run holds the user's lock.
// limit <= 0 returns the full set.
func (e *Engine) GetRecommendations(ctx context.Context, userID int64, limit int) (*Result, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	logger := e.requestLogger(ctx, userID)

	if !e.coordinator.Acquire(ctx, userID) {
		return e.served(e.stored(ctx, userID, logger), StatusGenerating, limit), nil
	}
	defer e.coordinator.Release(ctx, userID)

	if reason := e.coordinator.NeedsRefresh(ctx, userID); reason == ReasonNone {
		if stored := e.stored(ctx, userID, logger); len(stored) > 0 {
			return e.served(stored, StatusFresh, limit), nil
		}
	} else {
		logger.Debug().Str("reason", string(reason)).Msg("regenerating recommendations")
	}

	recs, status, err := e.generateSafe(context.WithoutCancel(ctx), userID, logger)
	if err == nil {
		return e.served(recs, status, limit), nil
	}

	logger.Error().Err(err).Msg("recommendation generation failed")
	if stored := e.stored(ctx, userID, logger); len(stored) > 0 {
		return e.served(stored, StatusStaleServed, limit), nil
	}
	if errors.Is(err, ErrNoQuestionnaire) {
		return nil, err
	}
	genres, watchIDs := e.fallbackInputs(ctx, userID, logger)
	if fb := e.fallback(ctx, genres, watchIDs); len(fb) > 0 {
		return e.served(fb, StatusFallback, limit), nil
	}
	return nil, err
}

// fallbackInputs loads what the failure fallback can still use: the
// stated genres and the watchlist to exclude. Either may be empty.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) fallbackInputs(ctx context.Context, userID int64, logger zerolog.Logger) ([]string, map[int64]struct{}) {
	var genres []string
	if q, err := e.store.Questionnaire(ctx, userID); err == nil && q != nil {
		genres = q.Genres
	}
	watchlist, err := e.store.Watchlist(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Msg("watchlist unavailable for fallback")
	}
	return genres, watchlistIDs(watchlist)
}

func watchlistIDs(items []WatchlistItem) map[int64]struct{} {
	ids := make(map[int64]struct{}, len(items))
	for _, w := range items {
		ids[w.MovieID] = struct{}{}
	}
	return ids
}

func (e *Engine) served(items []Recommendation, status Status, limit int) *Result {
	metrics.RecommendationRequests.WithLabelValues(string(status)).Inc()
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []Recommendation{}
	}
	return &Result{Items: items, Status: status}
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) stored(ctx context.Context, userID int64, logger zerolog.Logger) []Recommendation {
	recs, err := e.store.Recommendations(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Msg("stored recommendations unavailable")
		return nil
	}
	return recs
}

// generateSafe runs generate and turns a panic into an error, so the
// caller still gets stored results or the fallback.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) generateSafe(ctx context.Context, userID int64, logger zerolog.Logger) (recs []Recommendation, status Status, err error) {
	start := e.now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("recommendation generation panicked")
			metrics.RecordGeneration("error", e.now().Sub(start), -1)
			recs, status, err = nil, "", errFromRecover(r)
		}
	}()
	return e.generate(ctx, userID, logger)
}

// generate runs the full pipeline and persists its output.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) generate(ctx context.Context, userID int64, logger zerolog.Logger) ([]Recommendation, Status, error) {
	start := e.now()

	q, err := e.store.Questionnaire(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		metrics.RecordGeneration("error", e.now().Sub(start), -1)
		return nil, "", ErrNoQuestionnaire
	}
	if err != nil {
		metrics.RecordGeneration("error", e.now().Sub(start), -1)
		return nil, "", fmt.Errorf("load questionnaire: %w", err)
	}

	watchlist, err := e.store.Watchlist(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Msg("watchlist unavailable")
	}
	watched := e.watchedProfiles(ctx, watchlist)
	watchIDs := watchlistIDs(watchlist)

	model := e.buildModel(ctx, userID, q, watched, logger)
	likedGenres, likedActors := likedFromWatchlist(watched)

	pool := e.aggregator.Candidates(ctx, userID)

	disliked, err := e.store.Disliked(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Msg("disliked movies unavailable")
	}
	filtered, excluded := Exclusions{
		Watchlist: watchIDs,
		Favorites: q.FavoriteMovies,
		Disliked:  disliked,
	}.Apply(pool)

	var scored []Scored
	if len(filtered) > 0 {
		genres := mergeLabels(q.Genres, likedGenres)
		actors := mergeLabels(q.Actors, likedActors)
		favorites := e.favoriteTexts(ctx, q.FavoriteMovies, pool, genres, actors, logger)

		var computed bool
		scored, computed = e.scorer.Score(filtered, ScoringInput{
			Model:     model,
			Genres:    genres,
			Actors:    actors,
			Favorites: favorites,
		})
		if !computed {
			logger.Debug().Msg("similarity undefined, using neutral similarity")
		}
		scored = e.rerank(ctx, scored)
	}

	now := e.now()
	status := StatusFresh
	var recs []Recommendation
	var explanations []Explanation
	if len(scored) == 0 {
		recs = e.fallback(ctx, q.Genres, watchIDs)
		status = StatusFallback
	} else {
		recs, explanations = toRecommendations(scored, now)
	}

	outcome := "success"
	if status == StatusFallback {
		outcome = "fallback"
	}
	metrics.RecordGeneration(outcome, e.now().Sub(start), len(pool))

	if len(recs) == 0 {
		return nil, "", ErrNoRecommendations
	}

	e.persist(ctx, userID, recs, explanations, now, logger)
	e.notifier.RecommendationsGenerated(ctx, userID, len(recs), status)

	logger.Info().
		Int("candidates", len(pool)).
		Int("excluded_watchlist", excluded.Watchlist).
		Int("excluded_favorites", excluded.Favorites).
		Int("excluded_disliked", excluded.Disliked).
		Int("returned", len(recs)).
		Str("status", string(status)).
		Dur("duration", e.now().Sub(start)).
		Msg("recommendations generated")
	return recs, status, nil
}

func (e *Engine) rerank(ctx context.Context, scored []Scored) []Scored {
	e.rrMu.RLock()
	rerankers := e.rerankers
	e.rrMu.RUnlock()

	k := e.cfg.Diversity.TopN
	for _, rr := range rerankers {
		scored = rr.Rerank(ctx, scored, k)
	}
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// persist stores the run's output. Failures are logged and counted; the
// caller still returns what was computed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) persist(ctx context.Context, userID int64, recs []Recommendation, explanations []Explanation, at time.Time, logger zerolog.Logger) {
	if err := e.store.ReplaceRecommendations(ctx, userID, recs, at); err != nil {
		metrics.PersistenceFailures.WithLabelValues("recommendations").Inc()
		logger.Error().Err(err).Msg("failed to save recommendations")
		return
	}
	if err := e.store.ReplaceExplanations(ctx, userID, explanations); err != nil {
		metrics.PersistenceFailures.WithLabelValues("explanations").Inc()
		logger.Error().Err(err).Msg("failed to save explanations")
	}
}

// toRecommendations converts ranked results into records, keeping the first
// occurrence of each movie.
func toRecommendations(scored []Scored, now time.Time) ([]Recommendation, []Explanation) {
	seen := make(map[int64]struct{}, len(scored))
	recs := make([]Recommendation, 0, len(scored))
	explanations := make([]Explanation, 0, len(scored))
	for _, s := range scored {
		c := s.Candidate
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}

		genres := c.Genres
		if len(genres) == 0 && c.Profile != nil {
			genres = c.Profile.Genres
		}
		text := Explain(s, now)
		recs = append(recs, Recommendation{
			MovieID:     c.ID,
			Title:       c.Title,
			PosterPath:  c.PosterPath,
			Overview:    c.Overview,
			Score:       s.Score,
			Genres:      nonNil(genres),
			Actors:      nonNil(actorsOf(c)),
			ReleaseDate: c.ReleaseDate,
			VoteAverage: c.VoteAverage,
			Explanation: text,
		})
		explanations = append(explanations, Explanation{
			MovieID:   c.ID,
			Title:     c.Title,
			Text:      text,
			Score:     s.Score,
			Aspects:   s.Breakdown,
			CreatedAt: now,
		})
	}
	return recs, explanations
}

// watchedProfiles resolves a profile for every watchlist entry.
func (e *Engine) watchedProfiles(ctx context.Context, items []WatchlistItem) []WatchedMovie {
	out := make([]WatchedMovie, len(items))
	var g errgroup.Group
	g.SetLimit(e.cfg.Candidates.Concurrency)
	for i, item := range items {
		out[i].Item = item
		g.Go(func() error {
			guard(&e.logger, "watchlist profile", item.MovieID, func() {
				if p, err := e.profiles.Profile(ctx, item.MovieID); err == nil {
					out[i].Profile = p
				}
			})
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// likedFromWatchlist collects genres and actors of well-rated watched
// movies.
func likedFromWatchlist(watched []WatchedMovie) (genres, actors []string) {
	var gs, as [][]string
	for _, w := range watched {
		if w.Profile == nil || w.Item.Status != WatchStatusWatched || w.Item.Rating < likedRatingMin {
			continue
		}
		gs = append(gs, w.Profile.Genres)
		as = append(as, w.Profile.Actors)
	}
	return mergeLabels(gs...), mergeLabels(as...)
}

// buildModel derives the user's preference model for this run from the
// watchlist, questionnaire and confirmed-good recommendations, and saves it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) buildModel(ctx context.Context, userID int64, q *Questionnaire, watched []WatchedMovie, logger zerolog.Logger) *PreferenceModel {
	m := e.loadModel(ctx, userID, logger)

	if feedback, err := e.store.Feedback(ctx, userID); err != nil {
		logger.Warn().Err(err).Msg("feedback history unavailable")
	} else {
		for _, f := range feedback {
			if f.Value == FeedbackGood {
				m.AddSuccessful(f.MovieID)
			}
		}
	}

	now := e.now()
	m.LearnWatchlist(watched, now)
	m.BlendQuestionnaire(q)
	if len(m.Successful) > 0 {
		m.ApplyFeedback(AnalyzeSuccessful(e.profilesFor(ctx, m.Successful)))
	}
	m.Weights.Rating = e.cfg.Scoring.RatingWeight
	m.RefreshStyle()
	m.UpdatedAt = now

	if err := e.store.SavePreferenceModel(ctx, m); err != nil {
		metrics.PersistenceFailures.WithLabelValues("preference_model").Inc()
		logger.Error().Err(err).Msg("failed to save preference model")
	}
	return m
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) loadModel(ctx context.Context, userID int64, logger zerolog.Logger) *PreferenceModel {
	m, err := e.store.PreferenceModel(ctx, userID)
	if err != nil || m == nil {
		if err != nil && !errors.Is(err, ErrNotFound) {
			logger.Warn().Err(err).Msg("preference model unavailable, starting from defaults")
		}
		return NewPreferenceModel(userID)
	}
	m.UserID = userID
	m.ensureMaps()
	return m
}

func (e *Engine) profilesFor(ctx context.Context, ids []int64) []*profile.Profile {
	out := make([]*profile.Profile, len(ids))
	var g errgroup.Group
	g.SetLimit(e.cfg.Candidates.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			guard(&e.logger, "successful profile", id, func() {
				if p, err := e.profiles.Profile(ctx, id); err == nil {
					out[i] = p
				}
			})
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// favoriteTexts resolves the boosted profile text of each stated favorite,
// preferring a profiled candidate of the same movie over a catalog search.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) favoriteTexts(ctx context.Context, favorites []string, pool []*Candidate, genres, actors []string, logger zerolog.Logger) []string {
	texts := make([]string, 0, len(favorites))
	for _, title := range favorites {
		composite := ""
		for _, c := range pool {
			if c.Profile != nil && profile.IsSameMovie(c.Title, title) {
				composite = c.Profile.CompositeText
				break
			}
		}
		if composite == "" {
			guard(&logger, "favorite profile", 0, func() {
				p, err := e.profiles.ProfileByTitle(ctx, title)
				if err != nil {
					logger.Debug().Err(err).Str("favorite", title).Msg("favorite profile unavailable")
					return
				}
				if p != nil {
					composite = p.CompositeText
				}
			})
		}
		if composite != "" {
			texts = append(texts, BoostFavorite(composite, genres, actors))
		}
	}
	if len(texts) == 0 {
		for _, g := range genericFavoriteTexts {
			texts = append(texts, BoostFavorite(g, genres, actors))
		}
	}
	return texts
}

// SubmitFeedback records feedback on one recommendation, or on the whole
// set when in.MovieID is nil. Good feedback teaches the preference model;
// bad feedback forces the next request to regenerate.
func (e *Engine) SubmitFeedback(ctx context.Context, userID int64, in FeedbackInput) error {
	if userID <= 0 {
		return ErrInvalidUser
	}
	if !in.Value.Valid() {
		return fmt.Errorf("%w: value must be good or bad", ErrInvalidFeedback)
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidFeedback)
	}
	logger := e.requestLogger(ctx, userID)
	now := e.now()

	var movieID int64
	if in.MovieID == nil {
		err := e.store.SaveOverallFeedback(ctx, OverallFeedback{
			UserID: userID, Value: in.Value, Rating: in.Rating, CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("save overall feedback: %w", err)
		}
		metrics.FeedbackSubmitted.WithLabelValues("overall").Inc()
	} else {
		movieID = *in.MovieID
		if movieID <= 0 {
			return fmt.Errorf("%w: movie id must be positive", ErrInvalidFeedback)
		}
		err := e.store.SaveFeedback(ctx, FeedbackRecord{
			UserID: userID, MovieID: movieID, Value: in.Value, Rating: in.Rating, CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("save feedback: %w", err)
		}
		metrics.FeedbackSubmitted.WithLabelValues(string(in.Value)).Inc()
		if in.Value == FeedbackGood {
			e.learnFromFeedback(ctx, userID, movieID, logger)
		}
	}

	if in.Value == FeedbackBad {
		if err := e.store.MarkStale(ctx, userID, e.staleTime(now)); err != nil {
			return fmt.Errorf("mark recommendations stale: %w", err)
		}
	}

	e.notifier.FeedbackSubmitted(ctx, userID, movieID, in.Value)
	logger.Info().
		Int64("movie_id", movieID).
		Str("value", string(in.Value)).
		Msg("feedback recorded")
	return nil
}

// learnFromFeedback folds a newly confirmed movie into the stored model.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) learnFromFeedback(ctx context.Context, userID, movieID int64, logger zerolog.Logger) {
	m := e.loadModel(ctx, userID, logger)
	if !m.AddSuccessful(movieID) {
		return
	}
	m.ApplyFeedback(AnalyzeSuccessful(e.profilesFor(ctx, m.Successful)))
	m.RefreshStyle()
	m.UpdatedAt = e.now()
	if err := e.store.SavePreferenceModel(ctx, m); err != nil {
		metrics.PersistenceFailures.WithLabelValues("preference_model").Inc()
		logger.Error().Err(err).Msg("failed to save preference model")
	}
}

// staleTime is a metadata timestamp old enough to fail the staleness check.
func (e *Engine) staleTime(now time.Time) time.Time {
	return now.Add(-e.cfg.Freshness.StaleAfter - time.Hour)
}

// ForceRefresh marks the user's stored results stale so the next request
// regenerates them.
func (e *Engine) ForceRefresh(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrInvalidUser
	}
	if err := e.store.MarkStale(ctx, userID, e.staleTime(e.now())); err != nil {
		return fmt.Errorf("mark recommendations stale: %w", err)
	}
	e.notifier.RefreshForced(ctx, userID)
	return nil
}

// GetExplanation returns why movieID was recommended to the user.
func (e *Engine) GetExplanation(ctx context.Context, userID, movieID int64) (*Explanation, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	return e.store.Explanation(ctx, userID, movieID)
}

// GetExplanations returns every stored explanation for the user, best
// scored first.
func (e *Engine) GetExplanations(ctx context.Context, userID int64) ([]Explanation, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	return e.store.Explanations(ctx, userID)
}

// GetDisliked lists movies the user gave bad feedback on.
func (e *Engine) GetDisliked(ctx context.Context, userID int64) ([]DislikedMovie, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	return e.store.Disliked(ctx, userID)
}

// InvalidateCandidates drops the user's cached candidate pool.
func (e *Engine) InvalidateCandidates(ctx context.Context, userID int64) error {
	return e.aggregator.Invalidate(ctx, userID)
}
