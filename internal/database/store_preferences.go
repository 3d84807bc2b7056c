// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerank/internal/recommend"
)

// Questionnaire returns the user's stated preferences.
func (db *DB) Questionnaire(ctx context.Context, userID int64) (*recommend.Questionnaire, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var (
		favorites, genres, actors string
		updatedAt                 sql.NullTime
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT favorite_movies, genres, actors, updated_at FROM questionnaires WHERE user_id = ?`,
		userID).Scan(&favorites, &genres, &actors, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query questionnaire: %w", err)
	}

	q := &recommend.Questionnaire{UserID: userID}
	if q.FavoriteMovies, err = decodeList(favorites); err != nil {
		return nil, err
	}
	if q.Genres, err = decodeList(genres); err != nil {
		return nil, err
	}
	if q.Actors, err = decodeList(actors); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		q.UpdatedAt = updatedAt.Time
	}
	return q, nil
}

// Watchlist returns the user's watchlist in the order entries were added.
func (db *DB) Watchlist(ctx context.Context, userID int64) ([]recommend.WatchlistItem, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT movie_id, status, rating, notes, added_at
		FROM watchlist WHERE user_id = ?
		ORDER BY added_at, movie_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var items []recommend.WatchlistItem
	for rows.Next() {
		var (
			it     recommend.WatchlistItem
			status string
		)
		if err := rows.Scan(&it.MovieID, &status, &it.Rating, &it.Notes, &it.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist row: %w", err)
		}
		it.Status = recommend.WatchStatus(status)
		items = append(items, it)
	}
	return items, rows.Err()
}

// PreferenceModel returns the stored learned model.
func (db *DB) PreferenceModel(ctx context.Context, userID int64) (*recommend.PreferenceModel, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var raw string
	err := db.conn.QueryRowContext(ctx,
		`SELECT model FROM preference_models WHERE user_id = ?`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query preference model: %w", err)
	}

	var m recommend.PreferenceModel
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("failed to decode preference model: %w", err)
	}
	m.UserID = userID
	return &m, nil
}

// SavePreferenceModel upserts the user's model.
func (db *DB) SavePreferenceModel(ctx context.Context, m *recommend.PreferenceModel) error {
	if m == nil {
		return fmt.Errorf("preference model is nil")
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode preference model: %w", err)
	}
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO preference_models (user_id, model, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			model = EXCLUDED.model,
			updated_at = EXCLUDED.updated_at`,
		m.UserID, string(raw), m.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save preference model: %w", err)
	}
	return nil
}
