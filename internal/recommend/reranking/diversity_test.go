// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package reranking

import (
	"context"
	"reflect"
	"testing"

	"github.com/tomtom215/cinerank/internal/profile"
	"github.com/tomtom215/cinerank/internal/recommend"
)

func capConfig() recommend.DiversityConfig {
	return recommend.DiversityConfig{TopN: 10, GuaranteedTop: 5, MaxPerGenre: 2, BypassRatio: 0.8}
}

func TestNewDiversity_Defaults(t *testing.T) {
	t.Parallel()

	d := NewDiversity(recommend.DiversityConfig{})
	if d.topN != 20 || d.maxPerGenre != 5 || d.bypassRatio != 0.8 {
		t.Errorf("defaults = %+v", d)
	}
	if d.Name() != "diversity" {
		t.Errorf("Name() = %q", d.Name())
	}
}

func TestDiversity_HorrorCap(t *testing.T) {
	t.Parallel()

	// 20 candidates, 15 Horror. Nothing past the top scores within the
	// bypass ratio of the best.
	others := map[int]string{3: "Drama", 4: "Drama", 15: "Western", 16: "Music", 17: "War", 18: "History", 19: "Animation"}
	items := make([]recommend.Scored, 20)
	for i := range items {
		score := 0.75 - 0.01*float64(i)
		if i == 0 {
			score = 1.0
		}
		genre := "Horror"
		if g, ok := others[i]; ok {
			genre = g
		}
		items[i] = item(int64(i), score, genre)
	}

	got := NewDiversity(capConfig()).Rerank(context.Background(), items, 10)

	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	if want := []int64{0, 1, 2, 3, 4, 15, 16, 17, 18, 19}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
	horrorPastTop := 0
	for _, it := range got[5:] {
		if it.Genres()[0] == "Horror" {
			horrorPastTop++
		}
	}
	if horrorPastTop > 2 {
		t.Errorf("%d Horror results beyond the guaranteed top, want at most 2", horrorPastTop)
	}
}

func TestDiversity_CapAdmitsUpToLimit(t *testing.T) {
	t.Parallel()

	items := []recommend.Scored{
		item(1, 1.0, "Comedy"),
		item(2, 0.5, "Horror"),
		item(3, 0.49, "Horror"),
		item(4, 0.48, "Horror"),
		item(5, 0.47, "Drama"),
	}
	cfg := recommend.DiversityConfig{TopN: 4, GuaranteedTop: 1, MaxPerGenre: 2, BypassRatio: 0.8}

	got := NewDiversity(cfg).Rerank(context.Background(), items, 4)
	if want := []int64{1, 2, 3, 5}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestDiversity_HighScoreBypass(t *testing.T) {
	t.Parallel()

	items := []recommend.Scored{
		item(1, 1.0, "Horror"),
		item(2, 0.95, "Horror"),
		item(3, 0.9, "Horror"),
		item(4, 0.85, "Horror"),
		item(5, 0.82, "Horror"),
		item(6, 0.81, "Horror"),
		item(7, 0.5, "Horror"),
		item(8, 0.4, "Comedy"),
	}
	cfg := capConfig()
	cfg.TopN = 7

	got := NewDiversity(cfg).Rerank(context.Background(), items, 7)
	if want := []int64{1, 2, 3, 4, 5, 6, 8}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestDiversity_Backfill(t *testing.T) {
	t.Parallel()

	items := make([]recommend.Scored, 20)
	for i := range items {
		items[i] = item(int64(i), 0.7-0.01*float64(i), "Horror", "Thriller")
	}
	items[0].Score = 1.0

	got := NewDiversity(capConfig()).Rerank(context.Background(), items, 10)
	if want := []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want score order %v", ids(got), want)
	}
}

func TestDiversity_UnknownGenre(t *testing.T) {
	t.Parallel()

	items := []recommend.Scored{
		item(1, 1.0),
		item(2, 0.5),
		item(3, 0.4, "Comedy"),
	}
	cfg := recommend.DiversityConfig{TopN: 2, GuaranteedTop: 0, MaxPerGenre: 1, BypassRatio: 0.8}

	got := NewDiversity(cfg).Rerank(context.Background(), items, 2)
	if want := []int64{1, 3}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestDiversity_OnlyLeadingGenresCount(t *testing.T) {
	t.Parallel()

	items := []recommend.Scored{
		item(1, 1.0, "Drama", "Romance", "Horror"),
		item(2, 0.5, "Horror"),
		item(3, 0.4, "Drama"),
	}
	cfg := recommend.DiversityConfig{TopN: 2, GuaranteedTop: 1, MaxPerGenre: 1, BypassRatio: 0.8}

	got := NewDiversity(cfg).Rerank(context.Background(), items, 2)
	if want := []int64{1, 2}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v (third genre is not counted)", ids(got), want)
	}
}

func TestDiversity_PrefersProfileGenres(t *testing.T) {
	t.Parallel()

	withProfile := item(2, 0.5, "Horror")
	withProfile.Candidate.Profile = &profile.Profile{Genres: []string{"Comedy"}}
	items := []recommend.Scored{item(1, 1.0, "Horror"), withProfile, item(3, 0.4, "Horror")}
	cfg := recommend.DiversityConfig{TopN: 2, GuaranteedTop: 1, MaxPerGenre: 1, BypassRatio: 0.8}

	got := NewDiversity(cfg).Rerank(context.Background(), items, 2)
	if want := []int64{1, 2}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestDiversity_SmallInputs(t *testing.T) {
	t.Parallel()

	d := NewDiversity(capConfig())
	if got := d.Rerank(context.Background(), nil, 10); len(got) != 0 {
		t.Errorf("nil input returned %d items", len(got))
	}
	items := []recommend.Scored{item(1, 1, "Action"), item(2, 0.9, "Action"), item(3, 0.8, "Action")}
	if got := d.Rerank(context.Background(), items, 2); !reflect.DeepEqual(ids(got), []int64{1, 2}) {
		t.Errorf("k below guaranteed top: ids = %v, want [1 2]", ids(got))
	}
	if got := d.Rerank(context.Background(), items, 0); len(got) != 3 {
		t.Errorf("k=0 uses configured top_n: len = %d, want 3", len(got))
	}
}
