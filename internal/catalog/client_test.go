// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerank/internal/config"
)

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := &config.CatalogConfig{
		BaseURL:  srv.URL,
		APIKey:   "test-key",
		Language: "en-US",
		Timeout:  5 * time.Second,
	}
	return NewClient(cfg, zerolog.Nop(), opts...)
}

func TestClient_CategoryPage(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey, gotPage string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		gotPage = r.URL.Query().Get("page")
		w.Write([]byte(`{"page":2,"total_pages":9,"results":[{"id":27205,"title":"Inception","vote_average":8.4,"vote_count":35000,"genre_ids":[28,878]}]}`))
	}))

	movies, err := c.CategoryPage(context.Background(), "trending", 2)
	if err != nil {
		t.Fatalf("CategoryPage() error = %v", err)
	}
	if gotPath != "/trending/movie/week" {
		t.Errorf("path = %q, want /trending/movie/week", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api_key = %q", gotKey)
	}
	if gotPage != "2" {
		t.Errorf("page = %q, want 2", gotPage)
	}
	if len(movies) != 1 || movies[0].ID != 27205 || movies[0].Title != "Inception" {
		t.Fatalf("movies = %+v", movies)
	}
	if len(movies[0].GenreIDs) != 2 {
		t.Errorf("genre ids = %v", movies[0].GenreIDs)
	}
}

func TestClient_CategoryPage_UnknownCategory(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.NotFoundHandler())
	_, err := c.CategoryPage(context.Background(), "cult_classics", 1)
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("error = %v, want ErrUnknownCategory", err)
	}
}

func TestClient_Details(t *testing.T) {
	t.Parallel()

	var appended string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		appended = r.URL.Query().Get("append_to_response")
		w.Write([]byte(`{
			"id": 299536, "title": "Avengers: Infinity War", "release_date": "2018-04-25",
			"genres": [{"id":12,"name":"Adventure"},{"id":28,"name":"Action"}],
			"belongs_to_collection": {"id": 86311, "name": "The Avengers Collection"},
			"production_companies": [{"id": 420, "name": "Marvel Studios"}],
			"release_dates": {"results": [
				{"iso_3166_1": "GB", "release_dates": [{"certification": "12A"}]},
				{"iso_3166_1": "US", "release_dates": [{"certification": ""}, {"certification": "PG-13"}]}
			]}
		}`))
	}))

	d, err := c.Details(context.Background(), 299536)
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if appended != "release_dates" {
		t.Errorf("append_to_response = %q", appended)
	}
	if got := d.Certification(); got != "PG-13" {
		t.Errorf("Certification() = %q, want PG-13", got)
	}
	if got := d.CollectionName(); got != "The Avengers Collection" {
		t.Errorf("CollectionName() = %q", got)
	}
	if got := d.GenreNames(); len(got) != 2 || got[0] != "Adventure" {
		t.Errorf("GenreNames() = %v", got)
	}
	if got := d.CompanyNames(); len(got) != 1 || got[0] != "Marvel Studios" {
		t.Errorf("CompanyNames() = %v", got)
	}
}

func TestClient_NotFound(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
	}))

	_, err := c.Details(context.Background(), 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestClient_ServerErrorCarriesBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))

	_, err := c.Credits(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "upstream exploded") {
		t.Errorf("error = %v", err)
	}
}

func TestClient_CreditsAndKeywords(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/movie/27205/credits", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cast":[{"name":"Leonardo DiCaprio","order":0},{"name":"Joseph Gordon-Levitt","order":1},{"name":"Elliot Page","order":2}],
			"crew":[{"name":"Christopher Nolan","job":"Director"},{"name":"Christopher Nolan","job":"Director"},{"name":"Hans Zimmer","job":"Original Music Composer"}]}`))
	})
	mux.HandleFunc("/movie/27205/keywords", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":27205,"keywords":[{"id":1,"name":"dream"},{"id":2,"name":"heist"}]}`))
	})
	c := newTestClient(t, mux)

	cr, err := c.Credits(context.Background(), 27205)
	if err != nil {
		t.Fatalf("Credits() error = %v", err)
	}
	if got := cr.TopCast(2); len(got) != 2 || got[1] != "Joseph Gordon-Levitt" {
		t.Errorf("TopCast(2) = %v", got)
	}
	if got := cr.Directors(); len(got) != 1 || got[0] != "Christopher Nolan" {
		t.Errorf("Directors() = %v", got)
	}

	kw, err := c.Keywords(context.Background(), 27205)
	if err != nil {
		t.Fatalf("Keywords() error = %v", err)
	}
	if len(kw) != 2 || kw[0] != "dream" {
		t.Errorf("Keywords() = %v", kw)
	}
}

func TestClient_DiscoverByGenre(t *testing.T) {
	t.Parallel()

	var genreCalls atomic.Int32
	var withGenres string
	mux := http.NewServeMux()
	mux.HandleFunc("/genre/movie/list", func(w http.ResponseWriter, r *http.Request) {
		genreCalls.Add(1)
		w.Write([]byte(`{"genres":[{"id":28,"name":"Action"},{"id":35,"name":"Comedy"}]}`))
	})
	mux.HandleFunc("/discover/movie", func(w http.ResponseWriter, r *http.Request) {
		withGenres = r.URL.Query().Get("with_genres")
		w.Write([]byte(`{"results":[{"id":1,"title":"Funny"}]}`))
	})
	c := newTestClient(t, mux)

	movies, err := c.DiscoverByGenre(context.Background(), "comedy", 1)
	if err != nil {
		t.Fatalf("DiscoverByGenre() error = %v", err)
	}
	if withGenres != "35" {
		t.Errorf("with_genres = %q, want 35", withGenres)
	}
	if len(movies) != 1 {
		t.Errorf("movies = %v", movies)
	}

	names, err := c.GenreNames(context.Background(), []int{28, 99, 35})
	if err != nil {
		t.Fatalf("GenreNames() error = %v", err)
	}
	if len(names) != 2 || names[0] != "Action" || names[1] != "Comedy" {
		t.Errorf("GenreNames() = %v", names)
	}
	if n := genreCalls.Load(); n != 1 {
		t.Errorf("genre list fetched %d times, want 1", n)
	}

	if _, err := c.DiscoverByGenre(context.Background(), "Western", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown genre error = %v, want ErrNotFound", err)
	}
}

func TestClient_CircuitOpens(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}), WithBreakerSettings(BreakerSettings{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  3,
		FailureRatio: 0.5,
	}))

	for i := 0; i < 3; i++ {
		if _, err := c.Details(context.Background(), 1); err == nil {
			t.Fatal("expected upstream error")
		}
	}
	if c.Available() {
		t.Fatal("breaker should be open after repeated failures")
	}

	_, err := c.Details(context.Background(), 1)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("error = %v, want ErrCircuitOpen", err)
	}
	if n := hits.Load(); n != 3 {
		t.Errorf("upstream hit %d times, want 3", n)
	}
}

func TestClient_NotFoundDoesNotTrip(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.NotFoundHandler(), WithBreakerSettings(BreakerSettings{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  2,
		FailureRatio: 0.5,
	}))

	for i := 0; i < 5; i++ {
		if _, err := c.Details(context.Background(), int64(i)); !errors.Is(err, ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	}
	if !c.Available() {
		t.Error("404 responses must not open the breaker")
	}
}

func TestReleaseYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"2010-07-15", 2010},
		{"1999", 1999},
		{"", 0},
		{"abc-01-01", 0},
	}
	for _, tt := range tests {
		if got := ReleaseYear(tt.in); got != tt.want {
			t.Errorf("ReleaseYear(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
