// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package reranking

import "github.com/tomtom215/cinerank/internal/recommend"

func item(id int64, score float64, genres ...string) recommend.Scored {
	return recommend.Scored{
		Candidate: &recommend.Candidate{ID: id, Genres: genres},
		Score:     score,
	}
}

func ids(items []recommend.Scored) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.Candidate.ID
	}
	return out
}
