// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/cinerank/internal/catalog"
	"github.com/tomtom215/cinerank/internal/profile"
)

// fakeCatalog serves category pages and genre discovery from memory.
type fakeCatalog struct {
	mu         sync.Mutex
	pages      map[string][]catalog.MovieSummary
	byGenre    map[string][]catalog.MovieSummary
	genres     map[int]string
	credits    map[int64]*catalog.Credits
	pageErr    error
	pageCalls  atomic.Int32
	pageGate   chan struct{}
	pageCalled chan struct{}
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		pages:   map[string][]catalog.MovieSummary{},
		byGenre: map[string][]catalog.MovieSummary{},
		genres: map[int]string{
			28: "Action", 18: "Drama", 35: "Comedy", 878: "Science Fiction",
			10749: "Romance", 27: "Horror", 16: "Animation", 53: "Thriller",
		},
		credits: map[int64]*catalog.Credits{},
	}
}

func (f *fakeCatalog) CategoryPage(ctx context.Context, category string, page int) ([]catalog.MovieSummary, error) {
	f.pageCalls.Add(1)
	if f.pageCalled != nil {
		select {
		case f.pageCalled <- struct{}{}:
		default:
		}
	}
	if f.pageGate != nil {
		select {
		case <-f.pageGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	if page != 1 {
		return nil, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pages[category], nil
}

func (f *fakeCatalog) GenreNames(_ context.Context, ids []int) ([]string, error) {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := f.genres[id]; ok {
			names = append(names, n)
		}
	}
	return names, nil
}

func (f *fakeCatalog) Credits(_ context.Context, movieID int64) (*catalog.Credits, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.credits[movieID]; ok {
		return c, nil
	}
	return nil, errors.New("credits not found")
}

func (f *fakeCatalog) DiscoverByGenre(_ context.Context, genre string, _ int) ([]catalog.MovieSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.byGenre[genre]; ok {
		return r, nil
	}
	return nil, errors.New("unknown genre")
}

// fakeProfiles builds profiles with the real builder from registered
// metadata.
type fakeProfiles struct {
	builder *profile.Builder
	meta    map[int64]profile.Metadata
	byTitle map[string]int64

	// panicIDs and panicTitles make lookups of those movies panic.
	panicIDs    map[int64]bool
	panicTitles map[string]bool
}

func newFakeProfiles(t *testing.T) *fakeProfiles {
	t.Helper()
	tables, err := profile.DefaultTables()
	if err != nil {
		t.Fatalf("DefaultTables: %v", err)
	}
	return &fakeProfiles{
		builder: profile.NewBuilder(tables),
		meta:    map[int64]profile.Metadata{},
		byTitle: map[string]int64{},
	}
}

func (f *fakeProfiles) add(m profile.Metadata) {
	f.meta[m.ID] = m
	f.byTitle[m.Title] = m.ID
}

func (f *fakeProfiles) Profile(_ context.Context, movieID int64) (*profile.Profile, error) {
	if f.panicIDs[movieID] {
		panic("corrupt profile record")
	}
	m, ok := f.meta[movieID]
	if !ok {
		return nil, nil
	}
	return f.builder.Build(m), nil
}

func (f *fakeProfiles) ProfileByTitle(ctx context.Context, title string) (*profile.Profile, error) {
	if f.panicTitles[title] {
		panic("corrupt title index")
	}
	if id, ok := f.byTitle[title]; ok {
		return f.Profile(ctx, id)
	}
	return profile.Synthetic(title), nil
}

func (f *fakeProfiles) Builder() *profile.Builder { return f.builder }

// memStore is an in-memory Store.
type memStore struct {
	mu            sync.Mutex
	questionnaire map[int64]*Questionnaire
	watchlist     map[int64][]WatchlistItem
	recs          map[int64][]Recommendation
	metadata      map[int64]*Metadata
	feedback      map[int64][]FeedbackRecord
	overall       map[int64][]OverallFeedback
	models        map[int64]*PreferenceModel
	explanations  map[int64][]Explanation
	replaceErr    error
	replaceCalls  int
	panicDisliked bool
}

func newMemStore() *memStore {
	return &memStore{
		questionnaire: map[int64]*Questionnaire{},
		watchlist:     map[int64][]WatchlistItem{},
		recs:          map[int64][]Recommendation{},
		metadata:      map[int64]*Metadata{},
		feedback:      map[int64][]FeedbackRecord{},
		overall:       map[int64][]OverallFeedback{},
		models:        map[int64]*PreferenceModel{},
		explanations:  map[int64][]Explanation{},
	}
}

func (s *memStore) GenerationState(_ context.Context, userID int64) (*GenerationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &GenerationState{Recommendations: len(s.recs[userID]), Metadata: s.metadata[userID]}
	if q, ok := s.questionnaire[userID]; ok {
		st.HasQuestionnaire = true
		st.PreferencesUpdated = q.UpdatedAt
	}
	for _, f := range s.feedback[userID] {
		if f.CreatedAt.After(st.LatestFeedback) {
			st.LatestFeedback = f.CreatedAt
		}
	}
	return st, nil
}

func (s *memStore) Questionnaire(_ context.Context, userID int64) (*Questionnaire, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questionnaire[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return q, nil
}

func (s *memStore) Watchlist(_ context.Context, userID int64) ([]WatchlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watchlist[userID], nil
}

func (s *memStore) Recommendations(_ context.Context, userID int64) ([]Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.recs[userID]), nil
}

func (s *memStore) ReplaceRecommendations(_ context.Context, userID int64, recs []Recommendation, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceCalls++
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.recs[userID] = slices.Clone(recs)
	s.metadata[userID] = &Metadata{UserID: userID, LastUpdated: at}
	return nil
}

func (s *memStore) MarkStale(_ context.Context, userID int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata[userID] = &Metadata{UserID: userID, LastUpdated: at}
	return nil
}

func (s *memStore) SaveFeedback(_ context.Context, f FeedbackRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback[f.UserID] = append(s.feedback[f.UserID], f)
	return nil
}

func (s *memStore) SaveOverallFeedback(_ context.Context, f OverallFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overall[f.UserID] = append(s.overall[f.UserID], f)
	return nil
}

func (s *memStore) Feedback(_ context.Context, userID int64) ([]FeedbackRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.feedback[userID]), nil
}

func (s *memStore) Disliked(_ context.Context, userID int64) ([]DislikedMovie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panicDisliked {
		panic("disliked index out of range")
	}
	var out []DislikedMovie
	for _, f := range s.feedback[userID] {
		if f.Value != FeedbackBad {
			continue
		}
		for _, r := range s.recs[userID] {
			if r.MovieID == f.MovieID {
				out = append(out, DislikedMovie{
					MovieID: r.MovieID, Title: r.Title, Genres: r.Genres, Actors: r.Actors, FeedbackAt: f.CreatedAt,
				})
			}
		}
	}
	return out, nil
}

func (s *memStore) PreferenceModel(_ context.Context, userID int64) (*PreferenceModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.models[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	cp.Successful = slices.Clone(m.Successful)
	return &cp, nil
}

func (s *memStore) SavePreferenceModel(_ context.Context, m *PreferenceModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	cp.Successful = slices.Clone(m.Successful)
	s.models[m.UserID] = &cp
	return nil
}

func (s *memStore) ReplaceExplanations(_ context.Context, userID int64, explanations []Explanation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.explanations[userID] = slices.Clone(explanations)
	return nil
}

func (s *memStore) Explanation(_ context.Context, userID, movieID int64) (*Explanation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.explanations[userID] {
		if e.MovieID == movieID {
			return &e, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) Explanations(_ context.Context, userID int64) ([]Explanation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.explanations[userID])
	slices.SortStableFunc(out, func(a, b Explanation) int { return cmp.Compare(b.Score, a.Score) })
	return out, nil
}

// stubLocker grants or refuses every Acquire.
type stubLocker struct {
	grant    bool
	err      error
	released atomic.Int32
}

func (l *stubLocker) Acquire(context.Context, string) (bool, error) { return l.grant, l.err }

func (l *stubLocker) Release(context.Context, string) error {
	l.released.Add(1)
	return nil
}

// recordingNotifier captures events.
type recordingNotifier struct {
	mu        sync.Mutex
	feedback  []FeedbackValue
	generated []Status
	refreshed int
}

func (n *recordingNotifier) FeedbackSubmitted(_ context.Context, _, _ int64, v FeedbackValue) {
	n.mu.Lock()
	n.feedback = append(n.feedback, v)
	n.mu.Unlock()
}

func (n *recordingNotifier) RecommendationsGenerated(_ context.Context, _ int64, _ int, s Status) {
	n.mu.Lock()
	n.generated = append(n.generated, s)
	n.mu.Unlock()
}

func (n *recordingNotifier) RefreshForced(context.Context, int64) {
	n.mu.Lock()
	n.refreshed++
	n.mu.Unlock()
}

func summary(id int64, title, overview string, genreIDs ...int) catalog.MovieSummary {
	return catalog.MovieSummary{
		ID: id, Title: title, Overview: overview, GenreIDs: genreIDs,
		VoteAverage: 7, VoteCount: 1000, Popularity: float64(100 - id), ReleaseDate: "2015-06-01",
	}
}
