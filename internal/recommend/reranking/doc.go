// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package reranking implements post-processing rerankers for the
// recommendation engine.
//
// Rerankers run after scoring, in registration order:
//
//	Scorer -> sorted candidates -> Rerankers -> final list
//
// # Available Rerankers
//
// Diversity:
//   - Always keeps the top few candidates
//   - Caps how many results share one of a movie's first two genres
//   - Lets very high scorers through the cap
//   - Backfills in score order if the capped pass runs short
//
// Maximal Marginal Relevance (MMR):
//   - Optional second stage that reorders the diversified list
//   - Penalizes items whose genres overlap already-selected items
//   - Lambda controls the relevance/diversity tradeoff
//
// # Usage
//
//	engine.RegisterReranker(reranking.NewDiversity(cfg.Diversity))
//	if lambda > 0 {
//	    engine.RegisterReranker(reranking.NewMMR(lambda))
//	}
//
// # Thread Safety
//
// Rerankers hold only configuration and are safe for concurrent use.
package reranking
