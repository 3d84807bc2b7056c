// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package database

import (
	"context"
	"fmt"
	"time"
)

// tableNames lists every table the schema creates.
var tableNames = []string{
	"questionnaires",
	"watchlist",
	"feedback",
	"overall_feedback",
	"recommendations",
	"recommendation_metadata",
	"preference_models",
	"recommendation_explanations",
}

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// tableCreationQueries returns the CREATE TABLE statements. List-valued
// columns hold JSON arrays.
//
// recommendations and recommendation_explanations carry no primary key:
// each user's rows are replaced wholesale by delete-then-insert inside one
// transaction, which DuckDB's unique-index checks reject for reused keys.
func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS questionnaires (
			user_id BIGINT PRIMARY KEY,
			favorite_movies TEXT NOT NULL DEFAULT '[]',
			genres TEXT NOT NULL DEFAULT '[]',
			actors TEXT NOT NULL DEFAULT '[]',
			updated_at TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS watchlist (
			user_id BIGINT NOT NULL,
			movie_id BIGINT NOT NULL,
			status TEXT NOT NULL,
			rating DOUBLE NOT NULL DEFAULT 0,
			notes TEXT NOT NULL DEFAULT '',
			added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, movie_id)
		)`,

		`CREATE TABLE IF NOT EXISTS feedback (
			user_id BIGINT NOT NULL,
			movie_id BIGINT NOT NULL,
			value TEXT NOT NULL,
			rating INTEGER,
			created_at TIMESTAMP NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			genres TEXT NOT NULL DEFAULT '[]',
			actors TEXT NOT NULL DEFAULT '[]',
			PRIMARY KEY (user_id, movie_id)
		)`,

		`CREATE TABLE IF NOT EXISTS overall_feedback (
			user_id BIGINT PRIMARY KEY,
			value TEXT NOT NULL,
			rating INTEGER,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS recommendations (
			user_id BIGINT NOT NULL,
			position INTEGER NOT NULL,
			movie_id BIGINT NOT NULL,
			title TEXT NOT NULL,
			poster_path TEXT NOT NULL DEFAULT '',
			overview TEXT NOT NULL DEFAULT '',
			score DOUBLE NOT NULL,
			genres TEXT NOT NULL DEFAULT '[]',
			actors TEXT NOT NULL DEFAULT '[]',
			release_date TEXT NOT NULL DEFAULT '',
			vote_average DOUBLE NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS recommendation_metadata (
			user_id BIGINT PRIMARY KEY,
			last_updated TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS preference_models (
			user_id BIGINT PRIMARY KEY,
			model TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS recommendation_explanations (
			user_id BIGINT NOT NULL,
			movie_id BIGINT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			explanation TEXT NOT NULL,
			score DOUBLE NOT NULL,
			aspects TEXT NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL
		)`,
	}
}

// createIndexes creates lookup indexes. Upserted tables get none: DuckDB
// refuses ON CONFLICT updates of indexed columns.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_recommendations_user ON recommendations(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_explanations_user ON recommendation_explanations(user_id)`,
	}
	for _, idx := range indexes {
		if _, err := db.conn.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", idx, err)
		}
	}
	return nil
}
