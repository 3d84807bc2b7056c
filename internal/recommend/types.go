// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/cinerank/internal/profile"
)

// Sentinel errors callers branch on.
var (
	// ErrInvalidUser is returned for a missing or non-positive user id.
	ErrInvalidUser = errors.New("invalid user id")

	// ErrInvalidFeedback is returned for an unknown feedback value or an
	// out-of-range rating.
	ErrInvalidFeedback = errors.New("invalid feedback")

	// ErrNoQuestionnaire is returned when a user has never answered the
	// preference questionnaire and has nothing stored to fall back on.
	ErrNoQuestionnaire = errors.New("user preferences not found")

	// ErrNotFound is returned by Store lookups for rows that do not exist.
	ErrNotFound = errors.New("not found")
)

// WatchStatus is the state of a watchlist entry.
type WatchStatus string

const (
	WatchStatusWatched     WatchStatus = "watched"
	WatchStatusWatching    WatchStatus = "watching"
	WatchStatusWantToWatch WatchStatus = "want_to_watch"
)

// Importance returns how strongly an entry with this status signals
// preference. Unknown statuses carry no signal.
func (s WatchStatus) Importance() float64 {
	switch s {
	case WatchStatusWatched:
		return 1.0
	case WatchStatusWatching:
		return 0.7
	case WatchStatusWantToWatch:
		return 0.3
	default:
		return 0.0
	}
}

// Valid reports whether s is a known status.
func (s WatchStatus) Valid() bool {
	return s.Importance() > 0
}

// WatchlistItem is one row of a user's watchlist.
type WatchlistItem struct {
	MovieID int64       `json:"movie_id"`
	Status  WatchStatus `json:"status"`

	// Rating is the user's 0-10 rating; zero means unrated.
	Rating  float64   `json:"rating"`
	Notes   string    `json:"notes,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

// Questionnaire holds a user's stated preferences.
type Questionnaire struct {
	UserID         int64    `json:"user_id"`
	FavoriteMovies []string `json:"favorite_movies"`
	Genres         []string `json:"genres"`
	Actors         []string `json:"actors"`

	// UpdatedAt is zero when the answers were never timestamped.
	UpdatedAt time.Time `json:"updated_at"`
}

// FeedbackValue is a user's verdict on a recommendation.
type FeedbackValue string

const (
	FeedbackGood FeedbackValue = "good"
	FeedbackBad  FeedbackValue = "bad"
)

// Valid reports whether v is good or bad.
func (v FeedbackValue) Valid() bool {
	return v == FeedbackGood || v == FeedbackBad
}

// FeedbackRecord is feedback on a single recommended movie.
type FeedbackRecord struct {
	UserID    int64         `json:"user_id"`
	MovieID   int64         `json:"movie_id"`
	Value     FeedbackValue `json:"value"`
	Rating    *int          `json:"rating,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// OverallFeedback is feedback on the recommendation set as a whole.
type OverallFeedback struct {
	UserID    int64         `json:"user_id"`
	Value     FeedbackValue `json:"value"`
	Rating    *int          `json:"rating,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// FeedbackInput is what a caller submits. A nil MovieID records overall
// feedback.
type FeedbackInput struct {
	MovieID *int64
	Value   FeedbackValue
	Rating  *int
}

// Candidate is a movie considered during one generation run.
type Candidate struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	PosterPath  string   `json:"poster_path"`
	ReleaseDate string   `json:"release_date"`
	VoteAverage float64  `json:"vote_average"`
	VoteCount   int      `json:"vote_count"`
	Popularity  float64  `json:"popularity"`
	Genres      []string `json:"genres"`
	Actors      []string `json:"actors"`

	Profile *profile.Profile `json:"profile,omitempty"`
}

// Breakdown is the per-dimension contribution to a candidate's score. It is
// persisted with explanations under these JSON keys.
type Breakdown struct {
	Base      float64 `json:"base_score"`
	Genre     float64 `json:"genre_boost"`
	Actor     float64 `json:"actor_boost"`
	Theme     float64 `json:"theme_score"`
	Tone      float64 `json:"tone_score"`
	Franchise float64 `json:"franchise_score"`
	Audience  float64 `json:"audience_score"`
	Rating    float64 `json:"rating_boost"`
}

// Total is the unweighted sum of every component.
func (b Breakdown) Total() float64 {
	return b.Base + b.Genre + b.Actor + b.Theme + b.Tone + b.Franchise + b.Audience + b.Rating
}

// Scored pairs a candidate with its score for one run. Candidates are
// shared and never mutated by scoring.
type Scored struct {
	Candidate *Candidate
	Score     float64
	Breakdown Breakdown
}

// Genres returns the genres used for diversity accounting, preferring the
// profile's when present.
func (s Scored) Genres() []string {
	if s.Candidate == nil {
		return nil
	}
	if p := s.Candidate.Profile; p != nil && len(p.Genres) > 0 {
		return p.Genres
	}
	return s.Candidate.Genres
}

// Reranker modifies a ranked list for diversity or other objectives.
type Reranker interface {
	// Name returns the reranker identifier (e.g., "diversity").
	Name() string

	// Rerank reorders scored items that arrive sorted by score descending
	// and returns up to k of them.
	Rerank(ctx context.Context, items []Scored, k int) []Scored
}

// Recommendation is one stored or served recommendation.
type Recommendation struct {
	MovieID     int64    `json:"movie_id"`
	Title       string   `json:"title"`
	PosterPath  string   `json:"poster_path"`
	Overview    string   `json:"overview"`
	Score       float64  `json:"score"`
	Genres      []string `json:"genres"`
	Actors      []string `json:"actors"`
	ReleaseDate string   `json:"release_date"`
	VoteAverage float64  `json:"vote_average"`
	Explanation string   `json:"explanation,omitempty"`
}

// Metadata is the per-user generation timestamp row. A zero LastUpdated
// means the row exists without a timestamp.
type Metadata struct {
	UserID      int64     `json:"user_id"`
	LastUpdated time.Time `json:"last_updated"`
}

// GenerationState is everything the staleness decision reads.
type GenerationState struct {
	// Recommendations is the number of stored recommendations.
	Recommendations int

	// Metadata is nil when the user has never had recommendations saved.
	Metadata *Metadata

	// HasQuestionnaire is false when the user never answered it.
	HasQuestionnaire bool

	// PreferencesUpdated is the questionnaire timestamp, zero if unset.
	PreferencesUpdated time.Time

	// LatestFeedback is the newest per-movie feedback time, zero if none.
	LatestFeedback time.Time
}

// Explanation is the stored reason a movie was recommended.
type Explanation struct {
	MovieID   int64     `json:"movie_id"`
	Title     string    `json:"movie_title,omitempty"`
	Text      string    `json:"explanation"`
	Score     float64   `json:"score"`
	Aspects   Breakdown `json:"aspects"`
	CreatedAt time.Time `json:"created_at"`
}

// DislikedMovie is a movie the user gave bad feedback on, joined with what
// was stored when it was recommended.
type DislikedMovie struct {
	MovieID    int64     `json:"movie_id"`
	Title      string    `json:"title"`
	Genres     []string  `json:"genres"`
	Actors     []string  `json:"-"`
	FeedbackAt time.Time `json:"feedback_date"`
}

// Status tags how a result was produced.
type Status string

const (
	// StatusFresh means the results were generated by this call or are
	// stored results that do not need a refresh.
	StatusFresh Status = "fresh"
	// StatusStaleServed means stored results were served because
	// generation failed.
	StatusStaleServed Status = "stale-served"
	// StatusGenerating means another run holds the user's lock.
	StatusGenerating Status = "generating"
	// StatusFallback means the genre-popularity fallback list was served.
	StatusFallback Status = "fallback"
)

// Result is the answer to GetRecommendations.
type Result struct {
	Items  []Recommendation `json:"recommended_movies"`
	Status Status           `json:"status"`
}
