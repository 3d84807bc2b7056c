// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package reranking

import (
	"context"

	"github.com/tomtom215/cinerank/internal/recommend"
)

// unknownGenre is counted for candidates that carry no genres.
const unknownGenre = "Unknown"

// genresCounted is how many leading genres of a candidate count toward
// the per-genre cap.
const genresCounted = 2

// Diversity caps how many results may share a leading genre.
//
// The first GuaranteedTop items are always admitted. After that an item is
// admitted when none of its first two genres has reached MaxPerGenre, or
// when its score is at least BypassRatio of the best score. If the capped
// pass leaves the list short, the remaining items fill it in score order.
type Diversity struct {
	guaranteedTop int
	maxPerGenre   int
	bypassRatio   float64
	topN          int
}

// NewDiversity creates a Diversity reranker. Non-positive values fall back
// to the engine defaults.
func NewDiversity(cfg recommend.DiversityConfig) *Diversity {
	def := recommend.DefaultConfig().Diversity
	if cfg.TopN <= 0 {
		cfg.TopN = def.TopN
	}
	if cfg.GuaranteedTop < 0 {
		cfg.GuaranteedTop = def.GuaranteedTop
	}
	if cfg.MaxPerGenre <= 0 {
		cfg.MaxPerGenre = def.MaxPerGenre
	}
	if cfg.BypassRatio <= 0 {
		cfg.BypassRatio = def.BypassRatio
	}
	return &Diversity{
		guaranteedTop: cfg.GuaranteedTop,
		maxPerGenre:   cfg.MaxPerGenre,
		bypassRatio:   cfg.BypassRatio,
		topN:          cfg.TopN,
	}
}

// Name returns the reranker identifier.
func (d *Diversity) Name() string {
	return "diversity"
}

// Rerank applies the genre cap. Items must arrive sorted by score
// descending. k overrides the configured result size when positive.
//
//nolint:gocritic // rangeValCopy: Scored is small and copied for clarity
func (d *Diversity) Rerank(ctx context.Context, items []recommend.Scored, k int) []recommend.Scored {
	if len(items) == 0 {
		return items
	}
	if k <= 0 {
		k = d.topN
	}
	if k > maxRerankSize {
		k = maxRerankSize
	}

	counts := make(map[string]int)
	taken := make([]bool, len(items))
	out := make([]recommend.Scored, 0, min(k, len(items)))

	admit := func(i int) {
		taken[i] = true
		out = append(out, items[i])
		for _, g := range leadingGenres(items[i]) {
			counts[g]++
		}
	}

	top := min(d.guaranteedTop, len(items))
	for i := range top {
		admit(i)
	}

	threshold := items[0].Score * d.bypassRatio
	for i, item := range items {
		if len(out) >= k {
			break
		}
		if taken[i] {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		highScore := threshold > 0 && item.Score >= threshold
		if highScore || !d.capped(item, counts) {
			admit(i)
		}
	}

	for i := range items {
		if len(out) >= k {
			break
		}
		if !taken[i] {
			taken[i] = true
			out = append(out, items[i])
		}
	}

	if len(out) > k {
		out = out[:k]
	}
	return out
}

//nolint:gocritic // rangeValCopy: Scored is small
func (d *Diversity) capped(item recommend.Scored, counts map[string]int) bool {
	for _, g := range leadingGenres(item) {
		if counts[g] >= d.maxPerGenre {
			return true
		}
	}
	return false
}

//nolint:gocritic // rangeValCopy: Scored is small
func leadingGenres(item recommend.Scored) []string {
	genres := item.Genres()
	if len(genres) == 0 {
		return []string{unknownGenre}
	}
	if len(genres) > genresCounted {
		genres = genres[:genresCounted]
	}
	return genres
}

var _ recommend.Reranker = (*Diversity)(nil)
