// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package middleware provides the HTTP middleware Cinerank adds on top of chi's.

  - RequestID: reuses an inbound X-Request-ID or issues a UUID, echoes it in
    the response, and stores it in the context for logging.Ctx.
  - PrometheusMetrics: observes latency by method, chi route pattern and
    status. Route patterns keep label cardinality bounded.
  - AccessLog: one structured line per request at debug level, warn for 5xx.

All three take and return http.Handler so they plug into chi's r.Use.
*/
package middleware
