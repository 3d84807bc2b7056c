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

	"github.com/tomtom215/cinerank/internal/recommend"
)

// SaveFeedback upserts the user's verdict on one movie. The movie's title,
// genres and actors are copied from the stored recommendation so disliked
// movies stay describable after the set is regenerated.
func (db *DB) SaveFeedback(ctx context.Context, f recommend.FeedbackRecord) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, "save feedback", func(tx *sql.Tx) error {
		title, genres, actors := "", "[]", "[]"
		err := tx.QueryRowContext(ctx,
			`SELECT title, genres, actors FROM recommendations
			WHERE user_id = ? AND movie_id = ?
			LIMIT 1`, f.UserID, f.MovieID).Scan(&title, &genres, &actors)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to look up recommended movie: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO feedback (user_id, movie_id, value, rating, created_at, title, genres, actors)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, movie_id) DO UPDATE SET
				value = EXCLUDED.value,
				rating = EXCLUDED.rating,
				created_at = EXCLUDED.created_at,
				title = EXCLUDED.title,
				genres = EXCLUDED.genres,
				actors = EXCLUDED.actors`,
			f.UserID, f.MovieID, string(f.Value), nullableInt(f.Rating), f.CreatedAt.UTC(), title, genres, actors)
		if err != nil {
			return fmt.Errorf("failed to save feedback: %w", err)
		}
		return nil
	})
}

// SaveOverallFeedback upserts the user's verdict on the whole set.
func (db *DB) SaveOverallFeedback(ctx context.Context, f recommend.OverallFeedback) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO overall_feedback (user_id, value, rating, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			value = EXCLUDED.value,
			rating = EXCLUDED.rating,
			created_at = EXCLUDED.created_at`,
		f.UserID, string(f.Value), nullableInt(f.Rating), f.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save overall feedback: %w", err)
	}
	return nil
}

// OverallFeedback returns the user's latest verdict on the whole set.
func (db *DB) OverallFeedback(ctx context.Context, userID int64) (*recommend.OverallFeedback, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var (
		f      = recommend.OverallFeedback{UserID: userID}
		value  string
		rating sql.NullInt64
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT value, rating, created_at FROM overall_feedback WHERE user_id = ?`,
		userID).Scan(&value, &rating, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query overall feedback: %w", err)
	}
	f.Value = recommend.FeedbackValue(value)
	f.Rating = intPtr(rating)
	return &f, nil
}

// Feedback returns every per-movie verdict, oldest first.
func (db *DB) Feedback(ctx context.Context, userID int64) ([]recommend.FeedbackRecord, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT movie_id, value, rating, created_at FROM feedback
		WHERE user_id = ?
		ORDER BY created_at, movie_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var out []recommend.FeedbackRecord
	for rows.Next() {
		var (
			f      = recommend.FeedbackRecord{UserID: userID}
			value  string
			rating sql.NullInt64
		)
		if err := rows.Scan(&f.MovieID, &value, &rating, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		f.Value = recommend.FeedbackValue(value)
		f.Rating = intPtr(rating)
		out = append(out, f)
	}
	return out, rows.Err()
}

// Disliked lists movies with bad feedback, most recent first.
func (db *DB) Disliked(ctx context.Context, userID int64) ([]recommend.DislikedMovie, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT movie_id, title, genres, actors, created_at FROM feedback
		WHERE user_id = ? AND value = ?
		ORDER BY created_at DESC, movie_id`, userID, string(recommend.FeedbackBad))
	if err != nil {
		return nil, fmt.Errorf("failed to query disliked movies: %w", err)
	}
	defer rows.Close()

	var out []recommend.DislikedMovie
	for rows.Next() {
		var (
			d              recommend.DislikedMovie
			genres, actors string
		)
		if err := rows.Scan(&d.MovieID, &d.Title, &genres, &actors, &d.FeedbackAt); err != nil {
			return nil, fmt.Errorf("failed to scan disliked movie: %w", err)
		}
		if d.Genres, err = decodeList(genres); err != nil {
			return nil, err
		}
		if d.Actors, err = decodeList(actors); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
