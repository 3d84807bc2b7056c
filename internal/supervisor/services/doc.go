// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package services adapts long-running components to suture.Service.
//
//   - HTTPServerService runs an *http.Server and shuts it down gracefully.
//   - EventRouterService runs the domain event router.
//   - MaintenanceService periodically sweeps expired cache entries and
//     abandoned local locks, and checkpoints the database.
//
// Every service returns ctx.Err() on a requested shutdown so suture does
// not count it as a failure.
package services
