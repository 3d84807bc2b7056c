// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package supervisor runs Cinerank's long-lived services under suture v4.

The tree has three layers that restart independently:

	cinerank
	├── data-layer
	│   └── MaintenanceService (cache/lock sweeps, DuckDB checkpoint)
	├── messaging-layer
	│   └── EventRouterService (feedback and refresh invalidation)
	└── api-layer
	    └── HTTPServerService

A crashing event router never takes the HTTP API down with it. Supervisor
events (restarts, backoff, timeouts) are logged through sutureslog using
the zerolog-backed slog handler from the logging package.

Usage:

	tree := supervisor.NewSupervisorTree(slog.New(logging.NewSlogHandler(logger)), supervisor.TreeConfig{})
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout, logger))
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		...
	}

Services return ctx.Err() on a requested shutdown; anything else is a
failure suture restarts with backoff.
*/
package supervisor
