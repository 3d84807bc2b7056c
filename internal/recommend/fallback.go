// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"context"

	"github.com/tomtom215/cinerank/internal/catalog"
)

const (
	fallbackPerGenre   = 5
	fallbackPopularMax = 20
	fallbackScore      = 0.5
)

// genericFavoriteTexts stand in for favorite profiles when none resolve.
var genericFavoriteTexts = []string{
	"movie action adventure thriller exciting",
	"movie comedy funny entertaining lighthearted",
	"movie drama emotional moving powerful",
}

// fallback builds the genre-popularity list served when scoring produced
// nothing. Each genre contributes its most popular movies; when no genre
// yields anything the general popular feed is used. Watchlist movies are
// skipped and every entry carries the neutral score.
func (e *Engine) fallback(ctx context.Context, genres []string, watchlist map[int64]struct{}) []Recommendation {
	if len(genres) == 0 {
		genres = e.cfg.DefaultGenres
	}
	limit := e.cfg.Diversity.TopN

	var summaries []catalog.MovieSummary
	for _, genre := range genres {
		results, err := e.catalog.DiscoverByGenre(ctx, genre, 1)
		if err != nil {
			e.logger.Warn().Err(err).Str("genre", genre).Msg("fallback genre unavailable")
			continue
		}
		summaries = append(summaries, head(results, fallbackPerGenre)...)
	}
	if len(summaries) == 0 {
		results, err := e.catalog.CategoryPage(ctx, "popular", 1)
		if err != nil {
			e.logger.Warn().Err(err).Msg("fallback popular feed unavailable")
		}
		summaries = head(results, fallbackPopularMax)
	}

	seen := make(map[int64]struct{}, len(summaries))
	out := make([]Recommendation, 0, min(len(summaries), limit))
	for _, s := range summaries {
		if len(out) >= limit {
			break
		}
		if _, skip := watchlist[s.ID]; skip {
			continue
		}
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}

		names, err := e.catalog.GenreNames(ctx, s.GenreIDs)
		if err != nil {
			e.logger.Debug().Err(err).Int64("movie_id", s.ID).Msg("genre names unavailable")
		}
		out = append(out, Recommendation{
			MovieID:     s.ID,
			Title:       s.Title,
			PosterPath:  s.PosterPath,
			Overview:    s.Overview,
			Score:       fallbackScore,
			Genres:      nonNil(names),
			Actors:      []string{},
			ReleaseDate: s.ReleaseDate,
			VoteAverage: s.VoteAverage,
		})
	}
	return out
}
