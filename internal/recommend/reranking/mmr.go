// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package reranking

import (
	"context"
	"strings"

	"github.com/tomtom215/cinerank/internal/recommend"
)

// maxRerankSize bounds slice allocations; k is also bounded by len(items).
const maxRerankSize = 10000

// MMR implements Maximal Marginal Relevance reranking over genre overlap.
// Each step picks the item maximizing
//
//	lambda * score(i) - (1-lambda) * max(sim(i, s)) for s in selected
//
// where sim is the Jaccard similarity of the two movies' genre sets.
// Lambda 1.0 is pure relevance; 0.0 is pure diversity.
type MMR struct {
	lambda float64
}

// NewMMR creates an MMR reranker. Lambda is clamped to [0, 1].
func NewMMR(lambda float64) *MMR {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	return &MMR{lambda: lambda}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Rerank reorders items and returns at most k of them.
//
//nolint:gocritic // rangeValCopy: Scored passed by value in range, acceptable for clarity
func (m *MMR) Rerank(ctx context.Context, items []recommend.Scored, k int) []recommend.Scored {
	if len(items) == 0 || k <= 0 {
		return items
	}
	if k > maxRerankSize {
		k = maxRerankSize
	}
	if k > len(items) {
		k = len(items)
	}

	if m.lambda >= 1.0 {
		return items[:k]
	}

	sets := make([]map[string]struct{}, len(items))
	for i := range items {
		sets[i] = genreSet(items[i].Genres())
	}

	selected := make([]recommend.Scored, 0, k)
	chosen := make([]int, 0, k)
	used := make([]bool, len(items))

	for len(selected) < k {
		if ctx.Err() != nil {
			break
		}
		bestIdx := -1
		bestMMR := 0.0

		for i, item := range items {
			if used[i] {
				continue
			}
			maxSim := 0.0
			for _, j := range chosen {
				if sim := jaccard(sets[i], sets[j]); sim > maxSim {
					maxSim = sim
				}
			}
			score := m.lambda*item.Score - (1-m.lambda)*maxSim
			if bestIdx < 0 || score > bestMMR {
				bestMMR = score
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			break
		}
		selected = append(selected, items[bestIdx])
		chosen = append(chosen, bestIdx)
		used[bestIdx] = true
	}

	// A canceled context still yields a full-length list.
	for i := 0; len(selected) < k && i < len(items); i++ {
		if !used[i] {
			selected = append(selected, items[i])
			used[i] = true
		}
	}
	return selected
}

func genreSet(genres []string) map[string]struct{} {
	set := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		set[strings.ToLower(g)] = struct{}{}
	}
	return set
}

// jaccard returns |a ∩ b| / |a ∪ b|, or 0 when both are empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for g := range a {
		if _, ok := b[g]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

var _ recommend.Reranker = (*MMR)(nil)
