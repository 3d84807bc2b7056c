// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package recommend implements the personalized movie recommendation engine.
//
// # Architecture
//
// A generation run for one user moves through these stages:
//
//   - Preference model: watchlist history, questionnaire answers and
//     positive feedback are folded into per-category affinity ratings and
//     a weight vector over the scoring dimensions (see PreferenceWeights).
//   - Candidate aggregation: category feeds are fetched from the catalog
//     with a bounded worker pool, profiled and deduplicated. The result is
//     cached per user.
//   - Exclusion: watchlist entries, stated favorites and near-duplicates
//     of disliked movies are removed.
//   - Scoring: term-weighted cosine similarity against the user's boosted
//     favorite profiles plus per-dimension boosts, with a breakdown kept
//     for explanations.
//   - Reranking: registered Rerankers run over the sorted list, typically
//     the genre diversity filter from the reranking subpackage.
//
// # Generation Control
//
// Runs are gated by a per-user lock (see Locker). A caller that cannot
// take the lock is served stored results tagged StatusGenerating rather
// than blocking. Stored results are reused until they go stale: no stored
// results, newer questionnaire answers, newer feedback, or an age beyond
// the staleness window. Results younger than the debounce interval are
// always treated as fresh.
//
// # Failure Handling
//
// Catalog failures reduce the candidate pool instead of failing the run.
// A persistence failure after scoring is logged and the computed results
// are still returned. When nothing can be scored the engine serves a
// genre-popularity fallback list.
//
// # Thread Safety
//
// Engine is safe for concurrent use. The only shared mutable state is the
// lock held through Locker and the caches behind the profile service and
// candidate store.
package recommend
