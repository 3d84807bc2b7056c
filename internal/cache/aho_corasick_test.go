// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package cache

import (
	"reflect"
	"strings"
	"testing"
)

var themeTable = map[string][]string{
	"revenge":       {"revenge", "vengeance", "avenge", "retribution"},
	"love":          {"love", "romance", "falls for"},
	"coming_of_age": {"growing up", "teenager", "coming of age"},
	"survival":      {"survive", "survival", "stranded"},
}

func TestKeywordMatcher_Labels(t *testing.T) {
	t.Parallel()
	m := NewKeywordMatcher(themeTable)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single", "A widow seeks VENGEANCE.", []string{"revenge"}},
		{"substring inside word", "The Avengers assemble", []string{"revenge"}},
		{"multiple labels", "Stranded teenager falls for a stranger", []string{"coming_of_age", "love", "survival"}},
		{"no match", "A quiet documentary about bees", []string{}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := m.Labels(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Labels(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// The automaton must agree with naive substring containment.
func TestKeywordMatcher_AgreesWithContains(t *testing.T) {
	t.Parallel()
	m := NewKeywordMatcher(themeTable)

	texts := []string{
		"she must survive the revenge of her love",
		"retribution and romance while growing up",
		"nothing relevant here at all",
		"avengeance", // overlapping "avenge" and "vengeance"
	}
	for _, text := range texts {
		want := map[string]bool{}
		lower := strings.ToLower(text)
		for label, phrases := range themeTable {
			for _, p := range phrases {
				if strings.Contains(lower, p) {
					want[label] = true
				}
			}
		}
		got := map[string]bool{}
		for _, l := range m.Labels(text) {
			got[l] = true
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Labels(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestKeywordMatcher_DistinctHits(t *testing.T) {
	t.Parallel()
	m := NewKeywordMatcher(map[string][]string{
		"mcu":    {"marvel", "avengers", "thor", "loki"},
		"onward": {"onward", "elf brothers", "magic", "quest"},
	})

	hits := m.DistinctHits("Thor and Loki: Thor returns. Marvel")
	if hits["mcu"] != 3 {
		t.Errorf("mcu hits = %d, want 3 (repeats count once)", hits["mcu"])
	}
	if hits["onward"] != 0 {
		t.Errorf("onward hits = %d, want 0", hits["onward"])
	}
}

func TestKeywordMatcher_Contains(t *testing.T) {
	t.Parallel()
	m := NewKeywordMatcher(themeTable)

	if !m.Contains("a tale of retribution") {
		t.Error("Contains() = false for matching text")
	}
	if m.Contains("a tale of bees") {
		t.Error("Contains() = true for non-matching text")
	}
	if NewKeywordMatcher(nil).Contains("anything") {
		t.Error("empty matcher matched")
	}
	if got := m.PhraseCount(); got != 13 {
		t.Errorf("PhraseCount() = %d, want 13", got)
	}
}
