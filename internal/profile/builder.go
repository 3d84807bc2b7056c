// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package profile turns raw catalog metadata into movie profiles: the
// labelled, text-weighted description of a movie that the recommendation
// engine scores and compares.
package profile

import (
	"sort"
	"strings"

	"github.com/tomtom215/cinerank/internal/cache"
)

// Target audiences.
const (
	AudienceFamily  = "family"
	AudienceTeen    = "teen"
	AudienceAdult   = "adult"
	AudienceGeneral = "general"
)

const (
	maxActors       = 5
	maxCoreConcepts = 5

	// DefaultFranchiseMinHits is how many distinct trigger phrases a
	// keyword-only franchise guess needs.
	DefaultFranchiseMinHits = 3
)

// audiencePriority breaks ties in the keyword vote.
var audiencePriority = []string{AudienceFamily, AudienceTeen, AudienceAdult, AudienceGeneral}

var genericConcepts = map[string]struct{}{
	"movie": {}, "film": {}, "story": {}, "character": {},
}

// Profile is the derived description of one movie.
type Profile struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Overview       string   `json:"overview"`
	ReleaseDate    string   `json:"release_date,omitempty"`
	PosterPath     string   `json:"poster_path,omitempty"`
	VoteAverage    float64  `json:"vote_average"`
	VoteCount      int      `json:"vote_count"`
	Genres         []string `json:"genres"`
	Actors         []string `json:"actors"`
	Directors      []string `json:"directors"`
	Keywords       []string `json:"keywords"`
	Themes         []string `json:"themes"`
	Tones          []string `json:"tones"`
	Franchises     []string `json:"franchises"`
	TargetAudience string   `json:"target_audience"`
	CoreConcepts   []string `json:"core_concepts"`
	CompositeText  string   `json:"composite_text"`
}

// Metadata is the raw input for one movie.
type Metadata struct {
	ID            int64
	Title         string
	OriginalTitle string
	Overview      string
	ReleaseDate   string
	PosterPath    string
	VoteAverage   float64
	VoteCount     int
	Adult         bool
	Genres        []string
	Cast          []string
	Directors     []string
	Keywords      []string
	ContentRating string
	Companies     []string
	Collection    string
}

// Builder derives profiles. It is immutable and safe for concurrent use.
type Builder struct {
	tables     *Tables
	themes     *cache.KeywordMatcher
	tones      *cache.KeywordMatcher
	audiences  *cache.KeywordMatcher
	franchises *cache.KeywordMatcher
	companies  []string
	minHits    int
	lemmatizer Lemmatizer
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithFranchiseMinHits sets the distinct-hit threshold for keyword-only
// franchise detection.
func WithFranchiseMinHits(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.minHits = n
		}
	}
}

// WithLemmatizer replaces the identity lemmatizer.
func WithLemmatizer(l Lemmatizer) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.lemmatizer = l
		}
	}
}

// NewBuilder compiles the keyword tables into matchers.
func NewBuilder(t *Tables, opts ...BuilderOption) *Builder {
	companies := make([]string, 0, len(t.Companies))
	for pattern := range t.Companies {
		companies = append(companies, pattern)
	}
	sort.Strings(companies)

	b := &Builder{
		tables:     t,
		themes:     cache.NewKeywordMatcher(t.Themes),
		tones:      cache.NewKeywordMatcher(t.Tones),
		audiences:  cache.NewKeywordMatcher(t.Audiences),
		franchises: cache.NewKeywordMatcher(t.Franchises),
		companies:  companies,
		minHits:    DefaultFranchiseMinHits,
		lemmatizer: IdentityLemmatizer{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build derives the profile for m.
func (b *Builder) Build(m Metadata) *Profile {
	actors := m.Cast
	if len(actors) > maxActors {
		actors = actors[:maxActors]
	}
	p := &Profile{
		ID:             m.ID,
		Title:          m.Title,
		Overview:       m.Overview,
		ReleaseDate:    m.ReleaseDate,
		PosterPath:     m.PosterPath,
		VoteAverage:    m.VoteAverage,
		VoteCount:      m.VoteCount,
		Genres:         nonNil(m.Genres),
		Actors:         append([]string{}, actors...),
		Directors:      nonNil(m.Directors),
		Keywords:       nonNil(m.Keywords),
		Themes:         b.themes.Labels(m.Overview),
		Tones:          b.tones.Labels(m.Overview),
		Franchises:     b.Franchises(m),
		TargetAudience: b.Audience(m),
		CoreConcepts:   b.CoreConcepts(m.Overview),
	}
	p.CompositeText = Composite(p)
	return p
}

// Audience classifies the target audience: content rating first, then
// genre heuristics, then a keyword vote over title and overview.
func (b *Builder) Audience(m Metadata) string {
	switch strings.ToUpper(strings.TrimSpace(m.ContentRating)) {
	case "G", "PG":
		return AudienceFamily
	case "PG-13":
		return AudienceTeen
	case "R", "NC-17":
		return AudienceAdult
	}

	genres := strings.ToLower(strings.Join(m.Genres, " "))
	if containsAny(genres, []string{"family", "animation", "children"}) {
		return AudienceFamily
	}
	if containsAny(genres, []string{"horror", "thriller"}) || m.Adult {
		return AudienceAdult
	}

	found := b.audiences.Labels(m.Title + " " + m.Overview)
	for _, a := range audiencePriority {
		for _, f := range found {
			if f == a {
				return a
			}
		}
	}
	return AudienceGeneral
}

// Franchises runs the franchise ladder: collection rules, production
// companies, title rules, and only when all of those found nothing a
// keyword guess needing minHits distinct phrases. The denylist is applied
// last.
func (b *Builder) Franchises(m Metadata) []string {
	title := strings.ToLower(m.Title)
	collection := strings.ToLower(m.Collection)
	found := make(map[string]struct{})

	if collection != "" {
		for _, r := range b.tables.CollectionRules {
			if r.Matches(collection) {
				found[r.Franchise] = struct{}{}
				break
			}
		}
	}

	for _, company := range m.Companies {
		lc := strings.ToLower(company)
		for _, pattern := range b.companies {
			if strings.Contains(lc, pattern) {
				found[b.tables.Companies[pattern]] = struct{}{}
			}
		}
	}

	for _, r := range b.tables.TitleRules {
		if r.Matches(title) {
			found[r.Franchise] = struct{}{}
			break
		}
	}

	if len(found) == 0 {
		text := title + " " + strings.ToLower(m.OriginalTitle) + " " + collection
		for label, hits := range b.franchises.DistinctHits(text) {
			if hits >= b.minHits {
				found[label] = struct{}{}
			}
		}
	}

	for pattern, suppressed := range b.tables.Denylist {
		if !strings.Contains(title, pattern) {
			continue
		}
		for _, label := range suppressed {
			delete(found, label)
		}
	}

	out := make([]string, 0, len(found))
	for label := range found {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// CoreConcepts returns up to five of the most frequent content words of
// text. Ties keep first-occurrence order.
func (b *Builder) CoreConcepts(text string) []string {
	type counted struct {
		word  string
		count int
	}
	index := make(map[string]int)
	var words []counted
	for _, tok := range Tokenize(text) {
		if len(tok) <= 2 || IsStopWord(tok) {
			continue
		}
		lemma := b.lemmatizer.Lemmatize(tok)
		if i, ok := index[lemma]; ok {
			words[i].count++
			continue
		}
		index[lemma] = len(words)
		words = append(words, counted{word: lemma, count: 1})
	}
	sort.SliceStable(words, func(i, j int) bool { return words[i].count > words[j].count })

	if len(words) > 2*maxCoreConcepts {
		words = words[:2*maxCoreConcepts]
	}
	out := make([]string, 0, maxCoreConcepts)
	for _, w := range words {
		if _, generic := genericConcepts[w.word]; generic {
			continue
		}
		out = append(out, w.word)
		if len(out) == maxCoreConcepts {
			break
		}
	}
	return out
}

// Composite builds the weighted text used for vector similarity. Each
// field is repeated to pre-weight it.
func Composite(p *Profile) string {
	var sb strings.Builder
	add := func(times int, parts ...string) {
		s := strings.TrimSpace(strings.Join(parts, " "))
		if s == "" {
			return
		}
		for i := 0; i < times; i++ {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(s)
		}
	}
	add(2, p.Title)
	add(2, p.Genres...)
	add(1, p.Actors...)
	add(2, p.Directors...)
	add(3, p.Themes...)
	add(2, p.Tones...)
	add(2, p.TargetAudience)
	add(3, p.Franchises...)
	add(1, p.Keywords...)
	add(1, p.CoreConcepts...)
	add(1, p.Overview)
	return sb.String()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s...)
}
