// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"math"
	"strings"
	"testing"

	"github.com/tomtom215/cinerank/internal/profile"
)

func profiled(id int64, title string, p profile.Profile) *Candidate {
	p.ID, p.Title = id, title
	if p.TargetAudience == "" {
		p.TargetAudience = profile.AudienceGeneral
	}
	if p.CompositeText == "" {
		p.CompositeText = profile.Composite(&p)
	}
	return &Candidate{ID: id, Title: title, Genres: p.Genres, Profile: &p}
}

func TestBoostFavorite(t *testing.T) {
	t.Parallel()
	got := BoostFavorite("inception dream", []string{"Sci-Fi"}, []string{"Leo"})
	if strings.Count(got, "Sci-Fi") != 2 || strings.Count(got, "Leo") != 2 {
		t.Errorf("BoostFavorite() = %q, want genres and actors twice", got)
	}
	if !strings.HasPrefix(got, "inception dream") {
		t.Errorf("BoostFavorite() = %q, want composite first", got)
	}
}

func TestScorer_Score(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(DefaultConfig().Scoring)
	model := NewPreferenceModel(1)
	model.Themes = Ratings{"heroism": 1}
	model.Franchises = Ratings{"star_wars": 1}

	genreMatch := profiled(1, "Genre Match", profile.Profile{Genres: []string{"Science Fiction"}})
	franchise := profiled(2, "Franchise Match", profile.Profile{Genres: []string{"Drama"}, Franchises: []string{"star_wars"}})
	nothing := profiled(3, "Nothing", profile.Profile{Genres: []string{"Drama"}, TargetAudience: profile.AudienceAdult})
	noProfile := &Candidate{ID: 4, Title: "No Profile"}

	scored, computed := scorer.Score([]*Candidate{nothing, genreMatch, franchise, noProfile, nil}, ScoringInput{
		Model:  model,
		Genres: []string{"science fiction"},
	})

	if computed {
		t.Error("computed = true with no favorites, want neutral similarity")
	}
	if len(scored) != 3 {
		t.Fatalf("len(scored) = %d, want 3 (unprofiled candidates skipped)", len(scored))
	}
	if scored[0].Candidate.ID != 2 {
		t.Errorf("top = %d, want franchise match first", scored[0].Candidate.ID)
	}
	if scored[1].Candidate.ID != 1 {
		t.Errorf("second = %d, want genre match", scored[1].Candidate.ID)
	}
	for i := 1; i < len(scored); i++ {
		if scored[i].Score > scored[i-1].Score {
			t.Errorf("scores not descending at %d", i)
		}
	}

	for _, s := range scored {
		if !approxEqual(s.Breakdown.Base, round3(0.5*DefaultWeights().Similarity)) {
			t.Errorf("movie %d Base = %f, want neutral similarity", s.Candidate.ID, s.Breakdown.Base)
		}
		if !approxEqual(s.Score, round3(s.Breakdown.Total())) {
			t.Errorf("movie %d Score = %f, breakdown total %f", s.Candidate.ID, s.Score, s.Breakdown.Total())
		}
	}

	if scored[0].Breakdown.Franchise != round3(DefaultWeights().Franchise*3) {
		t.Errorf("Franchise = %f, want tripled weight", scored[0].Breakdown.Franchise)
	}
	if scored[2].Breakdown.Audience != 0 {
		t.Errorf("adult candidate Audience = %f, want 0 for a general user", scored[2].Breakdown.Audience)
	}
	if scored[1].Breakdown.Audience != round3(DefaultWeights().Audience) {
		t.Errorf("general candidate Audience = %f, want full weight", scored[1].Breakdown.Audience)
	}
}

func TestScorer_RatingBoost(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(ScoringConfig{RatingWeight: 0.05, MinVotesForRating: 50, NeutralSimilarity: 0.5})
	wellVoted := profiled(1, "Well Voted", profile.Profile{})
	wellVoted.VoteAverage, wellVoted.VoteCount = 8, 51
	fewVotes := profiled(2, "Few Votes", profile.Profile{})
	fewVotes.VoteAverage, fewVotes.VoteCount = 9, 50

	scored, _ := scorer.Score([]*Candidate{wellVoted, fewVotes}, ScoringInput{})
	byID := map[int64]Scored{}
	for _, s := range scored {
		byID[s.Candidate.ID] = s
	}

	if got := byID[1].Breakdown.Rating; !approxEqual(got, 0.04) {
		t.Errorf("Rating boost = %f, want 0.04", got)
	}
	if got := byID[2].Breakdown.Rating; got != 0 {
		t.Errorf("Rating boost at the vote threshold = %f, want 0", got)
	}
}

func TestScorer_ActorBoostCaps(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(DefaultConfig().Scoring)
	c := profiled(1, "Ensemble", profile.Profile{})
	c.Actors = []string{"A", "B", "C", "D"}

	scored, _ := scorer.Score([]*Candidate{c}, ScoringInput{Actors: []string{"a", "b", "c", "d"}})
	if got := scored[0].Breakdown.Actor; !approxEqual(got, DefaultWeights().Actor) {
		t.Errorf("Actor = %f, want full weight capped at 3 matches", got)
	}
}

func TestScorer_TiesBreakByID(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(DefaultConfig().Scoring)
	a := profiled(9, "Same", profile.Profile{Genres: []string{"Drama"}})
	b := profiled(3, "Same Again", profile.Profile{Genres: []string{"Drama"}})

	scored, _ := scorer.Score([]*Candidate{a, b}, ScoringInput{})
	if scored[0].Candidate.ID != 3 {
		t.Errorf("tie order = %d first, want lower id", scored[0].Candidate.ID)
	}
}

func TestScorer_SimilarityFavorsFavorites(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(DefaultConfig().Scoring)
	dream := profiled(1, "Dream Heist", profile.Profile{CompositeText: "dream heist subconscious architect thief layers"})
	dream2 := profiled(2, "Dream Thief", profile.Profile{CompositeText: "dream thief subconscious memory"})
	cooking := profiled(3, "Kitchen", profile.Profile{CompositeText: "cooking chef restaurant kitchen memory"})
	garden := profiled(4, "Garden", profile.Profile{CompositeText: "garden flowers restaurant heist"})

	scored, computed := scorer.Score([]*Candidate{cooking, garden, dream, dream2}, ScoringInput{
		Favorites: []string{"dream subconscious heist thief"},
	})
	if !computed {
		t.Fatal("computed = false, want similarity")
	}
	if id := scored[0].Candidate.ID; id != 1 && id != 2 {
		t.Errorf("top = %d, want a dream movie", id)
	}
	for _, s := range scored {
		if math.IsNaN(s.Score) {
			t.Errorf("movie %d score is NaN", s.Candidate.ID)
		}
	}
}

func TestMergeLabels(t *testing.T) {
	t.Parallel()
	got := mergeLabels([]string{"Action", "drama"}, []string{"action", " ", "Comedy"})
	want := []string{"Action", "drama", "Comedy"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("mergeLabels() = %v, want %v", got, want)
	}
}
