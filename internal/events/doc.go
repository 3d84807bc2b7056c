// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package events carries recommendation domain events over Watermill.
//
// Three topics are published:
//
//   - cinerank.feedback.submitted: a user judged a recommendation
//   - cinerank.recommendations.generated: a generation run finished
//   - cinerank.refresh.forced: a user asked for fresh results
//
// The transport is an in-process Watermill GoChannel by default, or NATS
// core (JetStream disabled) when a NATS URL is configured. Publisher
// implements recommend.Notifier, so the engine emits events without
// knowing the transport. Router consumes them: feedback and refresh events
// drop the user's cached candidate pool, and every event is counted.
//
// Publishing never fails the originating operation; errors are logged
// and counted.
package events
