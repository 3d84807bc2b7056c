// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/cinerank/internal/recommend"
)

const upsertMetadataSQL = `INSERT INTO recommendation_metadata (user_id, last_updated) VALUES (?, ?)
	ON CONFLICT (user_id) DO UPDATE SET last_updated = EXCLUDED.last_updated`

// Recommendations returns the stored set in rank order, each with its
// explanation text when one was saved.
func (db *DB) Recommendations(ctx context.Context, userID int64) ([]recommend.Recommendation, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT r.movie_id, r.title, r.poster_path, r.overview, r.score,
			r.genres, r.actors, r.release_date, r.vote_average,
			COALESCE(e.explanation, '')
		FROM recommendations r
		LEFT JOIN recommendation_explanations e
			ON e.user_id = r.user_id AND e.movie_id = r.movie_id
		WHERE r.user_id = ?
		ORDER BY r.position`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var recs []recommend.Recommendation
	for rows.Next() {
		var (
			r              recommend.Recommendation
			genres, actors string
		)
		if err := rows.Scan(&r.MovieID, &r.Title, &r.PosterPath, &r.Overview, &r.Score,
			&genres, &actors, &r.ReleaseDate, &r.VoteAverage, &r.Explanation); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		if r.Genres, err = decodeList(genres); err != nil {
			return nil, err
		}
		if r.Actors, err = decodeList(actors); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// ReplaceRecommendations swaps the user's stored set and stamps the
// metadata row in one transaction.
//
//nolint:gocritic // rangeValCopy: Recommendation copied per row for clarity
func (db *DB) ReplaceRecommendations(ctx context.Context, userID int64, recs []recommend.Recommendation, at time.Time) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, "replace recommendations", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM recommendations WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to delete recommendations: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO recommendations (
				user_id, position, movie_id, title, poster_path, overview,
				score, genres, actors, release_date, vote_average
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer closeWithLog(stmt, "prepared statement")

		for i, r := range recs {
			genres, err := encodeList(r.Genres)
			if err != nil {
				return err
			}
			actors, err := encodeList(r.Actors)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, userID, i, r.MovieID, r.Title, r.PosterPath, r.Overview,
				r.Score, genres, actors, r.ReleaseDate, r.VoteAverage); err != nil {
				return fmt.Errorf("failed to insert recommendation %d: %w", r.MovieID, err)
			}
		}

		if _, err := tx.ExecContext(ctx, upsertMetadataSQL, userID, at.UTC()); err != nil {
			return fmt.Errorf("failed to update metadata: %w", err)
		}
		return nil
	})
}

// MarkStale sets the metadata timestamp, creating the row if needed.
func (db *DB) MarkStale(ctx context.Context, userID int64, at time.Time) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, upsertMetadataSQL, userID, at.UTC()); err != nil {
		return fmt.Errorf("failed to mark recommendations stale: %w", err)
	}
	return nil
}

// GenerationState reads everything the staleness decision needs in one
// round trip.
func (db *DB) GenerationState(ctx context.Context, userID int64) (*recommend.GenerationState, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var (
		recCount, metaRows, questionnaireRows int
		lastUpdated, prefsUpdated, feedbackAt sql.NullTime
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT
			(SELECT COUNT(*) FROM recommendations WHERE user_id = ?),
			(SELECT COUNT(*) FROM recommendation_metadata WHERE user_id = ?),
			(SELECT MAX(last_updated) FROM recommendation_metadata WHERE user_id = ?),
			(SELECT COUNT(*) FROM questionnaires WHERE user_id = ?),
			(SELECT MAX(updated_at) FROM questionnaires WHERE user_id = ?),
			(SELECT MAX(created_at) FROM feedback WHERE user_id = ?)`,
		userID, userID, userID, userID, userID, userID,
	).Scan(&recCount, &metaRows, &lastUpdated, &questionnaireRows, &prefsUpdated, &feedbackAt)
	if err != nil {
		return nil, fmt.Errorf("failed to query generation state: %w", err)
	}

	st := &recommend.GenerationState{
		Recommendations:  recCount,
		HasQuestionnaire: questionnaireRows > 0,
	}
	if metaRows > 0 {
		st.Metadata = &recommend.Metadata{UserID: userID}
		if lastUpdated.Valid {
			st.Metadata.LastUpdated = lastUpdated.Time
		}
	}
	if prefsUpdated.Valid {
		st.PreferencesUpdated = prefsUpdated.Time
	}
	if feedbackAt.Valid {
		st.LatestFeedback = feedbackAt.Time
	}
	return st, nil
}
