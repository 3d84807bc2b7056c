// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/cinerank/internal/profile"
	"github.com/tomtom215/cinerank/internal/recommend/similarity"
)

const (
	// actorMatchesForFullBoost is the number of shared actors that earns
	// the whole actor weight.
	actorMatchesForFullBoost = 3.0

	// franchiseBoostMultiplier makes a franchise match the strongest
	// single boost.
	franchiseBoostMultiplier = 3.0
)

// ScoringInput is what candidates are scored against.
type ScoringInput struct {
	Model *PreferenceModel

	// Genres and Actors are the user's combined stated and liked
	// preferences.
	Genres []string
	Actors []string

	// Favorites are boosted favorite-profile texts (see BoostFavorite).
	Favorites []string
}

// Scorer ranks candidates for one user.
type Scorer struct {
	cfg  ScoringConfig
	opts similarity.Options
}

// NewScorer creates a Scorer.
func NewScorer(cfg ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg, opts: similarity.DefaultOptions()}
}

// BoostFavorite appends two repetitions of the preferred genres and actors
// to a favorite's composite text.
func BoostFavorite(composite string, genres, actors []string) string {
	g := strings.Join(genres, " ")
	a := strings.Join(actors, " ")
	var b strings.Builder
	b.WriteString(composite)
	for range 2 {
		b.WriteString(" ")
		b.WriteString(g)
	}
	for range 2 {
		b.WriteString(" ")
		b.WriteString(a)
	}
	return b.String()
}

// Score scores every candidate that has a profile and returns them sorted
// by score descending, ties broken by movie id. The second return reports
// whether similarity was computed; when false every candidate received
// the neutral similarity.
func (s *Scorer) Score(candidates []*Candidate, in ScoringInput) ([]Scored, bool) {
	profiled := make([]*Candidate, 0, len(candidates))
	texts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == nil || c.Profile == nil {
			continue
		}
		profiled = append(profiled, c)
		texts = append(texts, c.Profile.CompositeText)
	}
	if len(profiled) == 0 {
		return nil, false
	}

	sims, err := similarity.MaxSimilarity(texts, in.Favorites, s.opts)
	computed := err == nil && len(sims) == len(profiled)

	model := in.Model
	if model == nil {
		model = NewPreferenceModel(0)
	}
	w := model.Weights
	w.Rating = s.cfg.RatingWeight

	m := matchSets{
		genres:     lowerSet(in.Genres),
		actors:     lowerSet(in.Actors),
		themes:     keySet(model.Themes),
		tones:      keySet(model.Tones),
		franchises: keySet(model.Franchises),
		target:     model.Style.TargetAge,
	}
	if m.target == "" {
		m.target = TargetGeneral
	}

	out := make([]Scored, 0, len(profiled))
	for i, c := range profiled {
		sim := s.cfg.NeutralSimilarity
		if computed && !math.IsNaN(sims[i]) {
			sim = sims[i]
		}
		b := s.breakdown(c, sim, w, m)
		out = append(out, Scored{Candidate: c, Score: round3(b.Total()), Breakdown: b})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Candidate.ID < out[j].Candidate.ID
	})
	return out, computed
}

type matchSets struct {
	genres     map[string]struct{}
	actors     map[string]struct{}
	themes     map[string]struct{}
	tones      map[string]struct{}
	franchises map[string]struct{}
	target     string
}

//nolint:gocritic // weights passed by value for immutability
func (s *Scorer) breakdown(c *Candidate, sim float64, w PreferenceWeights, m matchSets) Breakdown {
	p := c.Profile
	var b Breakdown

	b.Base = sim * w.Similarity
	b.Genre = matchRatio(countMatches(p.Genres, m.genres, true), len(m.genres)) * w.Genre
	b.Actor = math.Min(float64(countMatches(actorsOf(c), m.actors, true))/actorMatchesForFullBoost, 1) * w.Actor
	b.Theme = matchRatio(countMatches(p.Themes, m.themes, false), len(m.themes)) * w.Theme
	b.Tone = matchRatio(countMatches(p.Tones, m.tones, false), len(m.tones)) * w.Tone
	b.Franchise = matchRatio(countMatches(p.Franchises, m.franchises, false), len(m.franchises)) *
		w.Franchise * franchiseBoostMultiplier

	switch p.TargetAudience {
	case m.target:
		b.Audience = w.Audience
	case profile.AudienceGeneral:
		b.Audience = w.Audience / 2
	}

	if c.VoteCount > s.cfg.MinVotesForRating {
		b.Rating = math.Min(c.VoteAverage/10, 1) * w.Rating
	}

	b.Base = round3(b.Base)
	b.Genre = round3(b.Genre)
	b.Actor = round3(b.Actor)
	b.Theme = round3(b.Theme)
	b.Tone = round3(b.Tone)
	b.Franchise = round3(b.Franchise)
	b.Audience = round3(b.Audience)
	b.Rating = round3(b.Rating)
	return b
}

func actorsOf(c *Candidate) []string {
	if len(c.Actors) > 0 || c.Profile == nil {
		return c.Actors
	}
	return c.Profile.Actors
}

func matchRatio(matches, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Min(float64(matches)/float64(total), 1)
}

func countMatches(labels []string, set map[string]struct{}, fold bool) int {
	if len(set) == 0 {
		return 0
	}
	n := 0
	for _, l := range labels {
		if fold {
			l = strings.ToLower(l)
		}
		if _, ok := set[l]; ok {
			n++
		}
	}
	return n
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

func keySet(r Ratings) map[string]struct{} {
	set := make(map[string]struct{}, len(r))
	for k := range r {
		set[k] = struct{}{}
	}
	return set
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// mergeLabels unions label lists case-insensitively, keeping the first
// spelling seen and first-seen order.
func mergeLabels(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, v := range list {
			key := strings.ToLower(strings.TrimSpace(v))
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
