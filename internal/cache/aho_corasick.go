// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package cache

import (
	"sort"
	"strings"
)

// KeywordMatcher finds which labels' trigger phrases occur in a text.
//
// It is an Aho-Corasick automaton over every trigger phrase of every
// label, so one pass over the text finds all of them in
// O(len(text) + matches) instead of one strings.Contains per phrase.
// Matching is case-insensitive substring containment: "avenge" matches
// inside "avengers". A KeywordMatcher is immutable after construction and
// safe for concurrent use.
type KeywordMatcher struct {
	root    *acNode
	phrases []labeledPhrase
}

type labeledPhrase struct {
	label  string
	phrase string
}

type acNode struct {
	children map[rune]*acNode
	fail     *acNode
	// out holds indexes into phrases for every phrase ending here,
	// including those inherited through the failure chain.
	out []int
}

func newACNode() *acNode {
	return &acNode{children: make(map[rune]*acNode)}
}

// NewKeywordMatcher builds a matcher from label -> trigger phrases.
// Empty phrases are skipped; labels are processed in sorted order so the
// automaton layout is deterministic.
func NewKeywordMatcher(table map[string][]string) *KeywordMatcher {
	m := &KeywordMatcher{root: newACNode()}

	labels := make([]string, 0, len(table))
	for label := range table {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		for _, phrase := range table[label] {
			phrase = strings.ToLower(strings.TrimSpace(phrase))
			if phrase == "" {
				continue
			}
			m.insert(len(m.phrases), phrase)
			m.phrases = append(m.phrases, labeledPhrase{label: label, phrase: phrase})
		}
	}
	m.link()
	return m
}

func (m *KeywordMatcher) insert(idx int, phrase string) {
	node := m.root
	for _, ch := range phrase {
		next, ok := node.children[ch]
		if !ok {
			next = newACNode()
			node.children[ch] = next
		}
		node = next
	}
	node.out = append(node.out, idx)
}

// link computes failure links breadth first.
func (m *KeywordMatcher) link() {
	queue := make([]*acNode, 0, len(m.root.children))
	for _, child := range m.root.children {
		child.fail = m.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for ch, child := range cur.children {
			queue = append(queue, child)

			f := cur.fail
			for f != nil && f.children[ch] == nil {
				f = f.fail
			}
			if f == nil {
				child.fail = m.root
				continue
			}
			child.fail = f.children[ch]
			child.out = append(child.out, child.fail.out...)
		}
	}
}

// scan calls visit with the phrase index of every occurrence in text.
func (m *KeywordMatcher) scan(text string, visit func(idx int) bool) {
	if len(m.phrases) == 0 || text == "" {
		return
	}
	node := m.root
	for _, ch := range strings.ToLower(text) {
		for node != m.root && node.children[ch] == nil {
			node = node.fail
		}
		if next, ok := node.children[ch]; ok {
			node = next
		}
		for _, idx := range node.out {
			if !visit(idx) {
				return
			}
		}
	}
}

// Labels returns every label with at least one trigger phrase in text, sorted.
func (m *KeywordMatcher) Labels(text string) []string {
	seen := make(map[string]struct{})
	m.scan(text, func(idx int) bool {
		seen[m.phrases[idx].label] = struct{}{}
		return true
	})
	out := make([]string, 0, len(seen))
	for label := range seen {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// DistinctHits returns, per label, how many different trigger phrases of
// that label occur in text. Repeats of one phrase count once.
func (m *KeywordMatcher) DistinctHits(text string) map[string]int {
	phraseSeen := make(map[int]struct{})
	hits := make(map[string]int)
	m.scan(text, func(idx int) bool {
		if _, dup := phraseSeen[idx]; dup {
			return true
		}
		phraseSeen[idx] = struct{}{}
		hits[m.phrases[idx].label]++
		return true
	})
	return hits
}

// Contains reports whether any trigger phrase of any label occurs in text.
func (m *KeywordMatcher) Contains(text string) bool {
	found := false
	m.scan(text, func(int) bool {
		found = true
		return false
	})
	return found
}

// PhraseCount returns the number of trigger phrases in the automaton.
func (m *KeywordMatcher) PhraseCount() int {
	return len(m.phrases)
}
