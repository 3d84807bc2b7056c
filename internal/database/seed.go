// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/cinerank/internal/recommend"
)

// SaveQuestionnaire upserts a user's stated preferences. A zero UpdatedAt
// is stored as NULL.
func (db *DB) SaveQuestionnaire(ctx context.Context, q *recommend.Questionnaire) error {
	if q == nil || q.UserID <= 0 {
		return recommend.ErrInvalidUser
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	favorites, err := encodeList(q.FavoriteMovies)
	if err != nil {
		return err
	}
	genres, err := encodeList(q.Genres)
	if err != nil {
		return err
	}
	actors, err := encodeList(q.Actors)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO questionnaires (user_id, favorite_movies, genres, actors, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			favorite_movies = EXCLUDED.favorite_movies,
			genres = EXCLUDED.genres,
			actors = EXCLUDED.actors,
			updated_at = EXCLUDED.updated_at`,
		q.UserID, favorites, genres, actors, nullableTime(q.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save questionnaire: %w", err)
	}
	return nil
}

// UpsertWatchlistItem adds or updates one watchlist entry.
//
//nolint:gocritic // hugeParam: item passed by value to match the read side
func (db *DB) UpsertWatchlistItem(ctx context.Context, userID int64, item recommend.WatchlistItem) error {
	if userID <= 0 {
		return recommend.ErrInvalidUser
	}
	if !item.Status.Valid() {
		return fmt.Errorf("invalid watch status %q", item.Status)
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	addedAt := item.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO watchlist (user_id, movie_id, status, rating, notes, added_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			status = EXCLUDED.status,
			rating = EXCLUDED.rating,
			notes = EXCLUDED.notes`,
		userID, item.MovieID, string(item.Status), item.Rating, item.Notes, addedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save watchlist item: %w", err)
	}
	return nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
