// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package database is the DuckDB implementation of the recommendation
// engine's persistence contract (recommend.Store).
//
// # Overview
//
// The package owns one DuckDB database file (or an in-memory database) and
// the schema the engine reads and writes:
//
//   - questionnaires: stated preferences, one row per user
//   - watchlist: per-user watch entries with status and rating
//   - feedback / overall_feedback: good/bad verdicts on single movies and on whole sets
//   - recommendations / recommendation_metadata: the stored set and its generation timestamp
//   - preference_models: the learned preference model, stored as JSON
//   - recommendation_explanations: the reason text and score breakdown per movie
//
// # File Layout
//
//   - database.go: lifecycle (open, initialize, checkpoint, close)
//   - database_connection.go: pool configuration and transaction helpers
//   - database_schema.go: table and index creation
//   - migrations.go: versioned migration tracking
//   - store_*.go: the recommend.Store methods, grouped by table
//   - seed.go: writers for questionnaire and watchlist rows
//
// # Consistency
//
// ReplaceRecommendations deletes the user's previous set, inserts the new
// one and stamps recommendation_metadata inside a single transaction, so
// readers see either the old set or the new one. Transaction conflicts are
// retried a bounded number of times.
//
// # Thread Safety
//
// DB is safe for concurrent use; database/sql pools connections.
package database
