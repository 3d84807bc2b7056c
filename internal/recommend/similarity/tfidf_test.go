// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package similarity

import (
	"errors"
	"math"
	"testing"
)

func TestFit_Pruning(t *testing.T) {
	t.Parallel()

	docs := []string{
		"space dream heist common",
		"space dream comedy common",
		"romance wedding common",
		"romance comedy common",
	}
	m, err := Fit(docs, DefaultOptions())
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	for _, term := range []string{"space", "dream", "romance", "comedy"} {
		if _, ok := m.vocab[term]; !ok {
			t.Errorf("vocabulary missing %q", term)
		}
	}
	if _, ok := m.vocab["heist"]; ok {
		t.Error("heist occurs once and must be pruned by min_df")
	}
	if _, ok := m.vocab["common"]; ok {
		t.Error("common occurs in every document and must be pruned by max_df")
	}
}

func TestFit_EmptyVocabulary(t *testing.T) {
	t.Parallel()

	if _, err := Fit([]string{"only one document"}, DefaultOptions()); !errors.Is(err, ErrUndefined) {
		t.Errorf("Fit() error = %v, want ErrUndefined", err)
	}
	if _, err := Fit(nil, DefaultOptions()); !errors.Is(err, ErrUndefined) {
		t.Errorf("Fit(nil) error = %v, want ErrUndefined", err)
	}
}

func TestTransform_Normalised(t *testing.T) {
	t.Parallel()

	m, err := Fit([]string{"alpha beta", "alpha gamma", "beta gamma", "delta"}, Options{MinDF: 1, MaxDF: 1})
	if err != nil {
		t.Fatal(err)
	}
	v := m.Transform("alpha alpha beta unknown")
	var norm float64
	for _, w := range v {
		norm += w * w
	}
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("vector norm^2 = %v, want 1", norm)
	}
	if len(m.Transform("nothing known")) != 0 {
		t.Error("out-of-vocabulary document should be the zero vector")
	}
}

func TestCosine(t *testing.T) {
	t.Parallel()

	a := Vector{0: 1}
	if got := Cosine(a, Vector{0: 2}); math.Abs(got-1) > 1e-9 {
		t.Errorf("Cosine(parallel) = %v", got)
	}
	if got := Cosine(a, Vector{1: 1}); got != 0 {
		t.Errorf("Cosine(orthogonal) = %v", got)
	}
	if got := Cosine(a, Vector{}); got != 0 {
		t.Errorf("Cosine(zero) = %v", got)
	}
}

func TestMaxSimilarity(t *testing.T) {
	t.Parallel()

	candidates := []string{
		"science fiction dream heist subconscious architect",
		"romantic comedy wedding laughs",
		"romantic comedy holiday laughs",
		"science fiction space station astronaut",
	}
	favorites := []string{
		"inception dream heist science fiction subconscious",
		"wedding comedy",
	}
	got, err := MaxSimilarity(candidates, favorites, Options{MinDF: 1, MaxDF: 0.85})
	if err != nil {
		t.Fatalf("MaxSimilarity() error = %v", err)
	}
	if len(got) != len(candidates) {
		t.Fatalf("len = %d", len(got))
	}
	if got[0] <= got[3] {
		t.Errorf("dream heist candidate (%v) should beat space station (%v)", got[0], got[3])
	}
	if got[1] <= 0 {
		t.Errorf("wedding comedy should resemble the second favorite, got %v", got[1])
	}
	for i, s := range got {
		if s < 0 || s > 1+1e-9 {
			t.Errorf("similarity[%d] = %v out of range", i, s)
		}
	}

	if _, err := MaxSimilarity(candidates, nil, DefaultOptions()); !errors.Is(err, ErrUndefined) {
		t.Errorf("empty favorites error = %v", err)
	}
	if _, err := MaxSimilarity(nil, favorites, DefaultOptions()); !errors.Is(err, ErrUndefined) {
		t.Errorf("empty candidates error = %v", err)
	}
}
