// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/tomtom215/cinerank/internal/profile"
)

// Learning constants.
const (
	// watchlistDecayRate is the per-day exponential decay of watchlist signal.
	watchlistDecayRate = 0.05

	// ratingBoostThreshold is the normalized rating from which a watched
	// movie's importance is amplified.
	ratingBoostThreshold = 0.7

	// franchiseAffinityMultiplier weights franchise signal above topical
	// signal when learning from the watchlist.
	franchiseAffinityMultiplier = 3.0

	questionnaireGenreBoost = 0.2
	questionnaireActorBoost = 0.3

	// familyAdultThreshold is the genre rating above which the user's
	// target audience shifts away from general.
	familyAdultThreshold = 0.3
)

// Target ages mirror the profile audience labels.
const (
	TargetFamily  = profile.AudienceFamily
	TargetAdult   = profile.AudienceAdult
	TargetGeneral = profile.AudienceGeneral
)

// Style summarizes the shape of a user's preferences.
type Style struct {
	// Consistency blends per-category concentration into one number.
	Consistency float64 `json:"preference_consistency"`

	// TargetAge is the audience the user leans towards; the scorer's
	// audience boost compares candidates against it.
	TargetAge string `json:"target_age"`

	// Tone is the dominant tone label, if any tone was learned.
	Tone string `json:"tone,omitempty"`

	// AnimationType is "animation" when animation is rated at all,
	// otherwise the dominant genre.
	AnimationType string `json:"animation_type,omitempty"`
}

// PreferenceModel is a user's learned weights and category affinities.
// Genre and actor keys are lower-cased.
type PreferenceModel struct {
	UserID     int64             `json:"user_id"`
	Weights    PreferenceWeights `json:"weights"`
	Genres     Ratings           `json:"genre_ratings"`
	Themes     Ratings           `json:"theme_ratings"`
	Tones      Ratings           `json:"tone_ratings"`
	Franchises Ratings           `json:"franchise_ratings"`
	Actors     Ratings           `json:"actor_ratings"`

	// Successful lists movie ids the user confirmed with good feedback.
	Successful []int64 `json:"successful_recommendations"`

	Style     Style     `json:"style"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPreferenceModel returns a model with base weights and no learned
// affinities.
func NewPreferenceModel(userID int64) *PreferenceModel {
	m := &PreferenceModel{
		UserID:     userID,
		Weights:    DefaultWeights(),
		Genres:     Ratings{},
		Themes:     Ratings{},
		Tones:      Ratings{},
		Franchises: Ratings{},
		Actors:     Ratings{},
	}
	m.RefreshStyle()
	return m
}

// ensureMaps makes a decoded model safe to mutate.
func (m *PreferenceModel) ensureMaps() {
	if m.Genres == nil {
		m.Genres = Ratings{}
	}
	if m.Themes == nil {
		m.Themes = Ratings{}
	}
	if m.Tones == nil {
		m.Tones = Ratings{}
	}
	if m.Franchises == nil {
		m.Franchises = Ratings{}
	}
	if m.Actors == nil {
		m.Actors = Ratings{}
	}
}

// WatchedMovie pairs a watchlist row with the movie's profile. Profile may
// be nil when the catalog could not resolve the movie.
type WatchedMovie struct {
	Item    WatchlistItem
	Profile *profile.Profile
}

// watchImportance is the time-decayed, rating-boosted signal strength of
// one watchlist entry.
func watchImportance(item WatchlistItem, now time.Time) float64 {
	importance := item.Status.Importance()
	if item.Status == WatchStatusWatched && item.Rating > 0 {
		if factor := item.Rating / 10; factor >= ratingBoostThreshold {
			importance *= 1 + factor
		}
	}
	if !item.AddedAt.IsZero() {
		days := math.Floor(now.Sub(item.AddedAt).Hours() / 24)
		if days > 0 {
			importance *= math.Exp(-watchlistDecayRate * days)
		}
	}
	return importance
}

// LearnWatchlist replaces the genre, theme, tone and franchise ratings with
// affinities learned from the watchlist and recomputes the weights.
// Entries without a profile contribute nothing.
func (m *PreferenceModel) LearnWatchlist(items []WatchedMovie, now time.Time) {
	genres, themes, tones, franchises := Ratings{}, Ratings{}, Ratings{}, Ratings{}

	for _, w := range items {
		if w.Profile == nil || w.Item.MovieID == 0 {
			continue
		}
		importance := watchImportance(w.Item, now)
		for _, g := range w.Profile.Genres {
			genres.Add(strings.ToLower(g), importance)
		}
		for _, t := range w.Profile.Themes {
			themes.Add(t, importance)
		}
		for _, t := range w.Profile.Tones {
			tones.Add(t, importance)
		}
		for _, f := range w.Profile.Franchises {
			franchises.Add(f, importance*franchiseAffinityMultiplier)
		}
	}

	m.Genres = genres.Normalize()
	m.Themes = themes.Normalize()
	m.Tones = tones.Normalize()
	m.Franchises = franchises.Normalize()
	m.RecomputeWeights()
}

// BlendQuestionnaire adds stated favorite genres and actors on top of the
// learned ratings, renormalizes, and recomputes the weights.
func (m *PreferenceModel) BlendQuestionnaire(q *Questionnaire) {
	if q == nil {
		return
	}
	m.ensureMaps()
	genres := copyRatings(m.Genres)
	for _, g := range q.Genres {
		genres.Add(strings.ToLower(g), questionnaireGenreBoost)
	}
	actors := copyRatings(m.Actors)
	for _, a := range q.Actors {
		actors.Add(strings.ToLower(a), questionnaireActorBoost)
	}
	m.Genres = genres.Normalize()
	m.Actors = actors.Normalize()
	m.RecomputeWeights()
}

func copyRatings(r Ratings) Ratings {
	out := make(Ratings, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RecomputeWeights derives the weight vector from the base weights and the
// concentration of the current ratings. The Rating coefficient is kept.
func (m *PreferenceModel) RecomputeWeights() {
	rating := m.Weights.Rating
	w := AdaptWeights(DefaultWeights(), m.Genres, m.Themes, m.Franchises)
	w.Rating = rating
	m.Weights = w
}

// AdaptWeights shifts weight towards categories where the user's
// preferences are concentrated, then normalizes.
func AdaptWeights(base PreferenceWeights, genres, themes, franchises Ratings) PreferenceWeights {
	w := base

	if c := genres.Consistency(); c > 0.6 {
		boost := math.Min(0.1*c, 0.1)
		w.Genre += boost
		w.Similarity -= boost / 2
		w.Tone -= boost / 2
	}

	if c := franchises.Consistency(); c > 0.5 {
		boost := math.Min(0.2*c, 0.15)
		w.Franchise += boost
		w.Similarity -= boost / 3
		w.Genre -= boost / 3
		w.Theme -= boost / 3
	}

	if c := themes.Consistency(); c > 0.5 {
		boost := math.Min(0.1*c, 0.08)
		w.Theme += boost
		w.Similarity -= boost / 2
		w.Audience -= boost / 2
	}

	return w.Normalize()
}

// AddSuccessful records a movie confirmed by good feedback. It reports
// whether the id was new.
func (m *PreferenceModel) AddSuccessful(movieID int64) bool {
	if slices.Contains(m.Successful, movieID) {
		return false
	}
	m.Successful = append(m.Successful, movieID)
	return true
}

// FeedbackSignals are the labels shared by at least half of a set of
// well-received movies.
type FeedbackSignals struct {
	Genres     []string
	Themes     []string
	Tones      []string
	Franchises []string
}

// AnalyzeSuccessful counts labels across the given profiles and returns
// those present in at least half of them. Nil profiles are skipped.
func AnalyzeSuccessful(profiles []*profile.Profile) FeedbackSignals {
	genres, themes, tones, franchises := map[string]int{}, map[string]int{}, map[string]int{}, map[string]int{}
	count := 0
	for _, p := range profiles {
		if p == nil {
			continue
		}
		count++
		countLabels(genres, p.Genres)
		countLabels(themes, p.Themes)
		countLabels(tones, p.Tones)
		countLabels(franchises, p.Franchises)
	}
	if count == 0 {
		return FeedbackSignals{}
	}
	threshold := float64(count) / 2
	return FeedbackSignals{
		Genres:     dominantLabels(genres, threshold),
		Themes:     dominantLabels(themes, threshold),
		Tones:      dominantLabels(tones, threshold),
		Franchises: dominantLabels(franchises, threshold),
	}
}

func countLabels(counts map[string]int, labels []string) {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		counts[l]++
	}
}

func dominantLabels(counts map[string]int, threshold float64) []string {
	var out []string
	for label, c := range counts {
		if float64(c) >= threshold {
			out = append(out, label)
		}
	}
	slices.Sort(out)
	return out
}

// ApplyFeedback nudges the weights towards the dimensions that explain the
// user's well-received recommendations. Nothing changes unless a dominant
// genre, theme or franchise exists; tones alone never trigger a shift. It
// reports whether the weights changed.
func (m *PreferenceModel) ApplyFeedback(s FeedbackSignals) bool {
	if len(s.Genres) == 0 && len(s.Themes) == 0 && len(s.Franchises) == 0 {
		return false
	}
	w := m.Weights

	if len(s.Franchises) > 0 {
		w.Franchise += 0.05
		w.Similarity -= 0.03
		w.Actor -= 0.02
	}
	if n := len(s.Genres); n > 0 && n <= 3 {
		w.Genre += 0.03
		w.Similarity -= 0.02
		w.Director -= 0.01
	}
	if n := len(s.Themes); n > 0 && n <= 3 {
		w.Theme += 0.03
		w.Tone += 0.01
		w.Similarity -= 0.02
		w.Audience -= 0.02
	}
	if n := len(s.Tones); n > 0 && n <= 2 {
		w.Tone += 0.02
		w.Similarity -= 0.01
		w.Director -= 0.01
	}

	m.Weights = w.Normalize()
	return true
}

// RefreshStyle recomputes the style summary from the current ratings.
func (m *PreferenceModel) RefreshStyle() {
	m.ensureMaps()
	m.Style.Consistency = 0.3*m.Genres.Consistency() +
		0.3*m.Themes.Consistency() +
		0.2*m.Franchises.Consistency() +
		0.2*m.Tones.Consistency()

	switch {
	case m.Genres["family"] > familyAdultThreshold || m.Genres["animation"] > familyAdultThreshold:
		m.Style.TargetAge = TargetFamily
	case m.Genres["horror"] > familyAdultThreshold || m.Genres["thriller"] > familyAdultThreshold:
		m.Style.TargetAge = TargetAdult
	default:
		m.Style.TargetAge = TargetGeneral
	}

	m.Style.Tone = m.Tones.Dominant("dark", "light", "comedic", "serious")
	m.Style.AnimationType = m.Genres.Dominant("animation")
}
