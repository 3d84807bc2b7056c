// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"github.com/tomtom215/cinerank/internal/profile"
)

// Candidates overlapping the union of disliked movies' genres or actors at
// or above these counts are suppressed.
const (
	dislikedGenreOverlap = 3
	dislikedActorOverlap = 2
)

// Exclusions removes candidates the user should not be offered.
type Exclusions struct {
	// Watchlist holds movie ids already on the user's watchlist.
	Watchlist map[int64]struct{}

	// Favorites are the user's stated favorite titles, matched fuzzily.
	Favorites []string

	// Disliked are movies the user gave bad feedback on.
	Disliked []DislikedMovie
}

// ExclusionCounts reports why candidates were removed.
type ExclusionCounts struct {
	Watchlist int
	Favorites int
	Disliked  int
}

// Apply returns the candidates that survive every exclusion, in order.
func (x Exclusions) Apply(candidates []*Candidate) ([]*Candidate, ExclusionCounts) {
	var counts ExclusionCounts

	dislikedIDs := make(map[int64]struct{}, len(x.Disliked))
	dislikedGenres := make(map[string]struct{})
	dislikedActors := make(map[string]struct{})
	for _, d := range x.Disliked {
		dislikedIDs[d.MovieID] = struct{}{}
		for _, g := range d.Genres {
			dislikedGenres[g] = struct{}{}
		}
		for _, a := range d.Actors {
			dislikedActors[a] = struct{}{}
		}
	}

	out := make([]*Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if _, ok := x.Watchlist[c.ID]; ok {
			counts.Watchlist++
			continue
		}
		if x.isFavorite(c.Title) {
			counts.Favorites++
			continue
		}
		if _, ok := dislikedIDs[c.ID]; ok {
			counts.Disliked++
			continue
		}
		if overlaps(c.Genres, dislikedGenres) >= dislikedGenreOverlap ||
			overlaps(c.Actors, dislikedActors) >= dislikedActorOverlap {
			counts.Disliked++
			continue
		}
		out = append(out, c)
	}
	return out, counts
}

func (x Exclusions) isFavorite(title string) bool {
	for _, f := range x.Favorites {
		if profile.IsSameMovie(title, f) {
			return true
		}
	}
	return false
}

func overlaps(values []string, set map[string]struct{}) int {
	if len(set) == 0 {
		return 0
	}
	n := 0
	for _, v := range values {
		if _, ok := set[v]; ok {
			n++
		}
	}
	return n
}
