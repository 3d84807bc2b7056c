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

const explanationColumns = `movie_id, title, explanation, score, aspects, created_at`

// ReplaceExplanations swaps the user's stored explanations.
//
//nolint:gocritic // rangeValCopy: Explanation copied per row for clarity
func (db *DB) ReplaceExplanations(ctx context.Context, userID int64, explanations []recommend.Explanation) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, "replace explanations", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM recommendation_explanations WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to delete explanations: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO recommendation_explanations (user_id, `+explanationColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer closeWithLog(stmt, "prepared statement")

		for _, e := range explanations {
			aspects, err := json.Marshal(e.Aspects)
			if err != nil {
				return fmt.Errorf("failed to encode aspects: %w", err)
			}
			if _, err := stmt.ExecContext(ctx, userID, e.MovieID, e.Title, e.Text, e.Score,
				string(aspects), e.CreatedAt.UTC()); err != nil {
				return fmt.Errorf("failed to insert explanation %d: %w", e.MovieID, err)
			}
		}
		return nil
	})
}

// Explanation returns the stored explanation for one recommended movie.
func (db *DB) Explanation(ctx context.Context, userID, movieID int64) (*recommend.Explanation, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+explanationColumns+` FROM recommendation_explanations
		WHERE user_id = ? AND movie_id = ?
		LIMIT 1`, userID, movieID)
	e, err := scanExplanation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Explanations returns every stored explanation, best score first.
func (db *DB) Explanations(ctx context.Context, userID int64) ([]recommend.Explanation, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+explanationColumns+` FROM recommendation_explanations
		WHERE user_id = ?
		ORDER BY score DESC, movie_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query explanations: %w", err)
	}
	defer rows.Close()

	var out []recommend.Explanation
	for rows.Next() {
		e, err := scanExplanation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExplanation(s rowScanner) (*recommend.Explanation, error) {
	var (
		e       recommend.Explanation
		aspects string
	)
	if err := s.Scan(&e.MovieID, &e.Title, &e.Text, &e.Score, &aspects, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan explanation: %w", err)
	}
	if aspects != "" {
		if err := json.Unmarshal([]byte(aspects), &e.Aspects); err != nil {
			return nil, fmt.Errorf("failed to decode aspects: %w", err)
		}
	}
	return &e, nil
}
