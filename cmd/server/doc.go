// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package main is the entry point for the Cinerank server.

Cinerank generates personalized movie recommendations from a user's
questionnaire answers, watchlist and feedback, using TMDb as the movie
catalog and DuckDB for persistence.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("cinerank")
	├── DataSupervisor ("data-layer")
	│   └── Maintenance (cache and lock sweeps, DuckDB checkpoints)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Event router (candidate invalidation on feedback and refresh)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB with versioned migrations
 4. Backends: Redis (optional), generation lock, candidate cache
 5. Catalog: TMDb client with rate limiting and a circuit breaker
 6. Profiles: keyword tables, profile builder, LRU and optional Badger store
 7. Events: in-process GoChannel or NATS via Watermill
 8. Engine: recommendation engine with diversity and optional MMR reranking
 9. Supervisor Tree and HTTP Server

# Configuration

Priority: Environment variables > Config file > Defaults

	PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console
	DUCKDB_PATH=./data/cinerank.duckdb
	TMDB_API_KEY=<key>

	CANDIDATE_CACHE_BACKEND=memory   # memory or redis
	LOCK_BACKEND=local               # local or redis
	REDIS_ADDR=localhost:6379
	PROFILE_STORE_PATH=/data/profiles
	NATS_URL=nats://localhost:4222   # empty uses the in-process transport

# Signal Handling

On SIGINT or SIGTERM the supervisor stops the HTTP server (draining
in-flight requests), the event router and the maintenance loop. The event
publisher and transport are then closed, the database is checkpointed and
closed, and any services that failed to stop are reported.
*/
package main
