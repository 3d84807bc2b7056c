// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"math"
	"sort"
)

// DefaultRatingWeight scales the vote-average boost. It is not learned and
// sits outside the normalized weight vector.
const DefaultRatingWeight = 0.05

// PreferenceWeights is the per-user weight vector over scoring dimensions.
// The eight learned dimensions always sum to 1 after Normalize. Rating is a
// fixed coefficient excluded from that sum.
type PreferenceWeights struct {
	Similarity float64 `json:"similarity"`
	Genre      float64 `json:"genre"`
	Theme      float64 `json:"theme"`
	Tone       float64 `json:"tone"`
	Audience   float64 `json:"audience"`
	Franchise  float64 `json:"franchise"`
	Actor      float64 `json:"actor"`
	Director   float64 `json:"director"`

	Rating float64 `json:"rating"`
}

// DefaultWeights returns the base weight vector every model starts from.
func DefaultWeights() PreferenceWeights {
	return PreferenceWeights{
		Similarity: 0.15,
		Genre:      0.20,
		Theme:      0.15,
		Tone:       0.10,
		Audience:   0.10,
		Franchise:  0.25,
		Actor:      0.05,
		Director:   0.05,
		Rating:     DefaultRatingWeight,
	}
}

// Sum returns the total of the learned dimensions.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w PreferenceWeights) Sum() float64 {
	return w.Similarity + w.Genre + w.Theme + w.Tone +
		w.Audience + w.Franchise + w.Actor + w.Director
}

// Normalize returns a copy with negative dimensions clamped to zero and the
// learned dimensions scaled to sum to 1. An all-zero vector normalizes to
// the defaults. Rating is carried through unchanged.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w PreferenceWeights) Normalize() PreferenceWeights {
	w.Similarity = math.Max(w.Similarity, 0)
	w.Genre = math.Max(w.Genre, 0)
	w.Theme = math.Max(w.Theme, 0)
	w.Tone = math.Max(w.Tone, 0)
	w.Audience = math.Max(w.Audience, 0)
	w.Franchise = math.Max(w.Franchise, 0)
	w.Actor = math.Max(w.Actor, 0)
	w.Director = math.Max(w.Director, 0)

	sum := w.Sum()
	if sum == 0 {
		d := DefaultWeights()
		d.Rating = w.Rating
		return d
	}
	return PreferenceWeights{
		Similarity: w.Similarity / sum,
		Genre:      w.Genre / sum,
		Theme:      w.Theme / sum,
		Tone:       w.Tone / sum,
		Audience:   w.Audience / sum,
		Franchise:  w.Franchise / sum,
		Actor:      w.Actor / sum,
		Director:   w.Director / sum,
		Rating:     w.Rating,
	}
}

// ToMap returns the learned dimensions as a string-keyed map.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w PreferenceWeights) ToMap() map[string]float64 {
	return map[string]float64{
		"similarity": w.Similarity,
		"genre":      w.Genre,
		"theme":      w.Theme,
		"tone":       w.Tone,
		"audience":   w.Audience,
		"franchise":  w.Franchise,
		"actor":      w.Actor,
		"director":   w.Director,
	}
}

// Ratings maps a category label (a genre, theme, tone, franchise or actor)
// to the user's affinity for it.
type Ratings map[string]float64

// Add accumulates v onto label.
func (r Ratings) Add(label string, v float64) {
	r[label] += v
}

// Normalize returns a copy scaled to sum to 1. Empty or all-zero ratings
// normalize to an empty map.
func (r Ratings) Normalize() Ratings {
	var sum float64
	for _, v := range r {
		sum += v
	}
	out := make(Ratings, len(r))
	if sum <= 0 {
		return out
	}
	for k, v := range r {
		out[k] = v / sum
	}
	return out
}

// Labels returns the rated labels in sorted order.
func (r Ratings) Labels() []string {
	labels := make([]string, 0, len(r))
	for k := range r {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

// Consistency is a Gini coefficient over the rating values: near 1 when the
// mass sits on few labels, near 0 when it is spread evenly. With more than
// 10 labels only the top 5 are considered.
func (r Ratings) Consistency() float64 {
	if len(r) <= 1 {
		return 0
	}
	values := make([]float64, 0, len(r))
	for _, v := range r {
		values = append(values, v)
	}
	sort.Float64s(values)
	if len(values) > 10 {
		values = values[len(values)-5:]
	}

	n := float64(len(values))
	var sum, weighted float64
	for i, v := range values {
		sum += v
		weighted += float64(i+1) * v
	}
	if sum == 0 {
		return 0
	}
	return 2*weighted/(n*sum) - (n+1)/n
}

// Dominant returns the highest-rated label among candidates, or the
// highest-rated label overall when none of the candidates is rated. Ties
// resolve to the alphabetically first label. Empty ratings yield "".
func (r Ratings) Dominant(candidates ...string) string {
	if len(r) == 0 {
		return ""
	}
	best, bestV := "", math.Inf(-1)
	for _, c := range candidates {
		if v, ok := r[c]; ok && (v > bestV || (v == bestV && c < best)) {
			best, bestV = c, v
		}
	}
	if best != "" {
		return best
	}
	for _, k := range r.Labels() {
		if v := r[k]; v > bestV {
			best, bestV = k, v
		}
	}
	return best
}
