// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package profile

import (
	"strings"
	"unicode"
)

const sameMovieOverlap = 0.8

// IsSameMovie reports whether two titles name the same movie (or one is a
// sequel-style extension of the other): equal after normalisation, one a
// prefix of the other followed by a space, or, for titles longer than four
// characters, a word overlap of at least 80% of the shorter title.
func IsSameMovie(a, b string) bool {
	na, nb := normalizeTitle(a), normalizeTitle(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if strings.HasPrefix(na, nb+" ") || strings.HasPrefix(nb, na+" ") {
		return true
	}
	if len(na) <= 4 || len(nb) <= 4 {
		return false
	}

	wa, wb := wordSet(na), wordSet(nb)
	if len(wa) == 0 || len(wb) == 0 {
		return false
	}
	common := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			common++
		}
	}
	return float64(common)/float64(min(len(wa), len(wb))) >= sameMovieOverlap
}

// normalizeTitle lower-cases, trims and drops punctuation.
func normalizeTitle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' {
			return r
		}
		return -1
	}, s)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}
