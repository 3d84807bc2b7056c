// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package api is the HTTP adapter over the recommendation engine.

Routes:

	GET  /api/v1/users/{userID}/recommendations?limit=n
	POST /api/v1/users/{userID}/feedback          {"movie_id"?, "value": "good"|"bad", "rating"?}
	POST /api/v1/users/{userID}/refresh
	GET  /api/v1/users/{userID}/recommendations/{movieID}/explanation
	GET  /api/v1/users/{userID}/explanations
	GET  /api/v1/users/{userID}/disliked
	GET  /health/live
	GET  /health/ready
	GET  /metrics

Every JSON response uses one envelope:

	{"success": true, "data": ..., "meta": {"timestamp": ..., "request_id": ...}}
	{"success": false, "error": {"code": ..., "message": ..., "details": ...}, "meta": {...}}

The user id in the path is trusted; identity is established upstream.
*/
package api
