// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package similarity fits a TF-IDF vector space over candidate profile
// texts and compares favorite profiles against it by cosine similarity.
package similarity

import (
	"errors"
	"math"

	"github.com/tomtom215/cinerank/internal/profile"
)

// ErrUndefined is returned when similarity cannot be computed: either side
// is empty, or no term survives document-frequency pruning. Callers fall
// back to a neutral score.
var ErrUndefined = errors.New("similarity: undefined")

// Options controls vocabulary pruning.
type Options struct {
	// MinDF drops terms found in fewer documents.
	MinDF int
	// MaxDF drops terms found in more than this fraction of documents.
	MaxDF float64
}

// DefaultOptions keeps terms that occur in at least 2 documents and in at
// most 85% of them.
func DefaultOptions() Options {
	return Options{MinDF: 2, MaxDF: 0.85}
}

// Vector is a sparse, L2-normalised term vector keyed by vocabulary index.
type Vector map[int]float64

// Model is a fitted TF-IDF space. It is immutable after Fit.
type Model struct {
	vocab map[string]int
	idf   []float64
}

// Fit learns the vocabulary and inverse document frequencies of docs.
// Weights use sublinear term frequency (1 + ln tf) and smoothed idf
// (ln((1+n)/(1+df)) + 1).
func Fit(docs []string, opts Options) (*Model, error) {
	if len(docs) == 0 {
		return nil, ErrUndefined
	}
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range terms(doc) {
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	n := len(docs)
	maxDocs := opts.MaxDF * float64(n)
	m := &Model{vocab: make(map[string]int)}
	for term, count := range df {
		if count < opts.MinDF {
			continue
		}
		if opts.MaxDF > 0 && float64(count) > maxDocs {
			continue
		}
		m.vocab[term] = len(m.idf)
		m.idf = append(m.idf, math.Log(float64(1+n)/float64(1+count))+1)
	}
	if len(m.vocab) == 0 {
		return nil, ErrUndefined
	}
	return m, nil
}

// VocabularySize returns the number of retained terms.
func (m *Model) VocabularySize() int { return len(m.vocab) }

// Transform projects doc into the fitted space. Terms outside the
// vocabulary are ignored.
func (m *Model) Transform(doc string) Vector {
	tf := make(map[int]int)
	for _, term := range terms(doc) {
		if idx, ok := m.vocab[term]; ok {
			tf[idx]++
		}
	}
	v := make(Vector, len(tf))
	var norm float64
	for idx, count := range tf {
		w := (1 + math.Log(float64(count))) * m.idf[idx]
		v[idx] = w
		norm += w * w
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for idx := range v {
		v[idx] /= norm
	}
	return v
}

// Cosine returns the cosine similarity of a and b.
func Cosine(a, b Vector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot, na, nb float64
	for idx, va := range a {
		dot += va * b[idx]
		na += va * va
	}
	for _, vb := range b {
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// MaxSimilarity fits the space on candidates and returns, per candidate,
// its highest cosine similarity to any favorite. The result is aligned
// with candidates.
func MaxSimilarity(candidates, favorites []string, opts Options) ([]float64, error) {
	if len(candidates) == 0 || len(favorites) == 0 {
		return nil, ErrUndefined
	}
	m, err := Fit(candidates, opts)
	if err != nil {
		return nil, err
	}

	favVecs := make([]Vector, len(favorites))
	for i, f := range favorites {
		favVecs[i] = m.Transform(f)
	}
	out := make([]float64, len(candidates))
	for i, c := range candidates {
		cv := m.Transform(c)
		for _, fv := range favVecs {
			if s := Cosine(cv, fv); s > out[i] {
				out[i] = s
			}
		}
	}
	return out, nil
}

// terms tokenizes like a word vectorizer: lower case, tokens of two or
// more word characters, English stop words removed.
func terms(doc string) []string {
	toks := profile.Tokenize(doc)
	out := toks[:0]
	for _, t := range toks {
		if len([]rune(t)) < 2 || profile.IsStopWord(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
