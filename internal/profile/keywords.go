// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package profile

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var defaultKeywordsYAML []byte

// Rule matches lower-cased text. All phrases in All must be present, at
// least one of Any (when non-empty), at least one whole word of Words
// (when non-empty), and none of Unless.
type Rule struct {
	Franchise string   `yaml:"franchise"`
	All       []string `yaml:"all"`
	Any       []string `yaml:"any"`
	Words     []string `yaml:"words"`
	Unless    []string `yaml:"unless"`
}

// Matches reports whether the rule fires on text, which must already be
// lower case.
func (r Rule) Matches(text string) bool {
	for _, p := range r.Unless {
		if strings.Contains(text, p) {
			return false
		}
	}
	for _, p := range r.All {
		if !strings.Contains(text, p) {
			return false
		}
	}
	if len(r.Any) > 0 && !containsAny(text, r.Any) {
		return false
	}
	if len(r.Words) > 0 {
		found := false
		for _, tok := range strings.FieldsFunc(text, isSeparator) {
			for _, w := range r.Words {
				if tok == w {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	return len(r.All) > 0 || len(r.Any) > 0 || len(r.Words) > 0
}

// Tables are the keyword tables driving theme, tone, audience and
// franchise detection.
type Tables struct {
	Themes          map[string][]string `yaml:"themes"`
	Tones           map[string][]string `yaml:"tones"`
	Audiences       map[string][]string `yaml:"audiences"`
	Franchises      map[string][]string `yaml:"franchises"`
	CollectionRules []Rule              `yaml:"collection_rules"`
	Companies       map[string]string   `yaml:"companies"`
	TitleRules      []Rule              `yaml:"title_rules"`
	Denylist        map[string][]string `yaml:"denylist"`
}

// DefaultTables returns the built-in tables.
func DefaultTables() (*Tables, error) {
	return ParseTables(defaultKeywordsYAML)
}

// LoadTables reads tables from a YAML file. An empty path yields the
// built-in tables.
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword tables: %w", err)
	}
	return ParseTables(data)
}

// ParseTables decodes and validates YAML keyword tables. Phrases and
// patterns are lower-cased.
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse keyword tables: %w", err)
	}
	if len(t.Themes) == 0 || len(t.Tones) == 0 || len(t.Audiences) == 0 {
		return nil, fmt.Errorf("keyword tables: themes, tones and audiences are required")
	}

	t.Themes = lowerTable(t.Themes)
	t.Tones = lowerTable(t.Tones)
	t.Audiences = lowerTable(t.Audiences)
	t.Franchises = lowerTable(t.Franchises)
	t.Denylist = lowerTable(t.Denylist)
	for i := range t.CollectionRules {
		if err := lowerRule(&t.CollectionRules[i]); err != nil {
			return nil, fmt.Errorf("collection rule %d: %w", i, err)
		}
	}
	for i := range t.TitleRules {
		if err := lowerRule(&t.TitleRules[i]); err != nil {
			return nil, fmt.Errorf("title rule %d: %w", i, err)
		}
	}
	companies := make(map[string]string, len(t.Companies))
	for pattern, label := range t.Companies {
		companies[strings.ToLower(pattern)] = label
	}
	t.Companies = companies
	return &t, nil
}

func lowerTable(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for label, phrases := range m {
		lowered := make([]string, 0, len(phrases))
		for _, p := range phrases {
			lowered = append(lowered, strings.ToLower(p))
		}
		out[strings.ToLower(label)] = lowered
	}
	return out
}

func lowerRule(r *Rule) error {
	if r.Franchise == "" {
		return fmt.Errorf("franchise is required")
	}
	for _, list := range [][]string{r.All, r.Any, r.Words, r.Unless} {
		for i, p := range list {
			list[i] = strings.ToLower(p)
		}
	}
	if len(r.All) == 0 && len(r.Any) == 0 && len(r.Words) == 0 {
		return fmt.Errorf("rule for %s has no phrases", r.Franchise)
	}
	return nil
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
