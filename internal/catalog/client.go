// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package catalog is the client for the external movie catalog (TMDb v3).
//
// Every call goes through a token-bucket rate limiter and a circuit
// breaker. A 404 from the catalog maps to ErrNotFound and does not count
// against the breaker.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cinerank/internal/config"
	"github.com/tomtom215/cinerank/internal/metrics"
)

const (
	// DefaultBaseURL is the public TMDb v3 endpoint.
	DefaultBaseURL = "https://api.themoviedb.org/3"

	maxErrorBody = 64 * 1024
	breakerName  = "tmdb-api"
)

var (
	// ErrNotFound is returned when the catalog has no such movie.
	ErrNotFound = errors.New("catalog: not found")

	// ErrCircuitOpen is returned while the circuit breaker rejects calls.
	ErrCircuitOpen = errors.New("catalog: circuit open")

	// ErrUnknownCategory is returned for a category the catalog does not list.
	ErrUnknownCategory = errors.New("catalog: unknown category")
)

// categoryPaths maps list categories to their endpoints.
var categoryPaths = map[string]string{
	"popular":     "/movie/popular",
	"top_rated":   "/movie/top_rated",
	"now_playing": "/movie/now_playing",
	"upcoming":    "/movie/upcoming",
	"trending":    "/trending/movie/week",
}

// Client talks to the catalog over HTTP.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	http     *http.Client
	limiter  *rate.Limiter
	breaker  *breaker
	log      zerolog.Logger

	genresMu sync.Mutex
	genres   []Genre
}

// Option customises a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	breaker    BreakerSettings
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithBreakerSettings overrides the circuit breaker tuning.
func WithBreakerSettings(s BreakerSettings) Option {
	return func(o *clientOptions) { o.breaker = s }
}

// NewClient builds a catalog client from configuration.
func NewClient(cfg *config.CatalogConfig, log zerolog.Logger, opts ...Option) *Client {
	o := clientOptions{breaker: DefaultBreakerSettings()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	log = log.With().Str("component", "catalog").Logger()
	return &Client{
		baseURL:  base,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		http:     o.httpClient,
		limiter:  rate.NewLimiter(limit, burst),
		breaker:  newBreaker(breakerName, o.breaker, log),
		log:      log,
	}
}

// Available reports whether the circuit breaker currently admits calls.
func (c *Client) Available() bool {
	return c.breaker.state() != gobreaker.StateOpen
}

// CategoryPage fetches one page of a list category.
func (c *Client) CategoryPage(ctx context.Context, category string, page int) ([]MovieSummary, error) {
	path, ok := categoryPaths[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(max(page, 1)))

	resp, err := castResult[pageResponse](c.call(ctx, path, path, params, func() any { return &pageResponse{} }))
	if err != nil {
		return nil, fmt.Errorf("category %s page %d: %w", category, page, err)
	}
	return resp.Results, nil
}

// Details fetches one movie with its release certifications.
func (c *Client) Details(ctx context.Context, movieID int64) (*MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "release_dates")
	path := "/movie/" + strconv.FormatInt(movieID, 10)

	d, err := castResult[MovieDetails](c.call(ctx, "/movie/{id}", path, params, func() any { return &MovieDetails{} }))
	if err != nil {
		return nil, fmt.Errorf("movie %d details: %w", movieID, err)
	}
	return d, nil
}

// Credits fetches cast and crew for one movie.
func (c *Client) Credits(ctx context.Context, movieID int64) (*Credits, error) {
	path := "/movie/" + strconv.FormatInt(movieID, 10) + "/credits"

	cr, err := castResult[Credits](c.call(ctx, "/movie/{id}/credits", path, nil, func() any { return &Credits{} }))
	if err != nil {
		return nil, fmt.Errorf("movie %d credits: %w", movieID, err)
	}
	return cr, nil
}

// Keywords fetches the keyword names attached to one movie.
func (c *Client) Keywords(ctx context.Context, movieID int64) ([]string, error) {
	path := "/movie/" + strconv.FormatInt(movieID, 10) + "/keywords"

	kw, err := castResult[keywordsResponse](c.call(ctx, "/movie/{id}/keywords", path, nil, func() any { return &keywordsResponse{} }))
	if err != nil {
		return nil, fmt.Errorf("movie %d keywords: %w", movieID, err)
	}
	names := make([]string, 0, len(kw.Keywords))
	for _, k := range kw.Keywords {
		names = append(names, k.Name)
	}
	return names, nil
}

// SearchByTitle returns the first page of title search results.
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]MovieSummary, error) {
	params := url.Values{}
	params.Set("query", title)
	params.Set("include_adult", "false")

	resp, err := castResult[pageResponse](c.call(ctx, "/search/movie", "/search/movie", params, func() any { return &pageResponse{} }))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", title, err)
	}
	return resp.Results, nil
}

// DiscoverByGenre lists movies of a genre by popularity. The genre is
// matched by name, case-insensitively.
func (c *Client) DiscoverByGenre(ctx context.Context, genre string, page int) ([]MovieSummary, error) {
	id, err := c.genreID(ctx, genre)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("with_genres", strconv.Itoa(id))
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", "false")
	params.Set("page", strconv.Itoa(max(page, 1)))

	resp, err := castResult[pageResponse](c.call(ctx, "/discover/movie", "/discover/movie", params, func() any { return &pageResponse{} }))
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", genre, err)
	}
	return resp.Results, nil
}

// Genres returns the catalog's genre list. It is fetched once and kept for
// the lifetime of the client.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	c.genresMu.Lock()
	defer c.genresMu.Unlock()
	if c.genres != nil {
		return c.genres, nil
	}
	resp, err := castResult[genreListResponse](c.call(ctx, "/genre/movie/list", "/genre/movie/list", nil, func() any { return &genreListResponse{} }))
	if err != nil {
		return nil, fmt.Errorf("genre list: %w", err)
	}
	c.genres = resp.Genres
	return c.genres, nil
}

// GenreNames resolves genre ids to names, dropping ids the catalog does
// not know.
func (c *Client) GenreNames(ctx context.Context, ids []int) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	genres, err := c.Genres(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]string, len(genres))
	for _, g := range genres {
		byID[g.ID] = g.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			names = append(names, n)
		}
	}
	return names, nil
}

func (c *Client) genreID(ctx context.Context, name string) (int, error) {
	genres, err := c.Genres(ctx)
	if err != nil {
		return 0, err
	}
	for _, g := range genres {
		if strings.EqualFold(g.Name, name) {
			return g.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: genre %q", ErrNotFound, name)
}

// call waits for a rate token, then performs the request inside the
// circuit breaker and decodes the body into newDest().
func (c *Client) call(ctx context.Context, endpoint, path string, params url.Values, newDest func() any) (any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return c.breaker.execute(func() (any, error) {
		dest := newDest()
		if err := c.get(ctx, endpoint, path, params, dest); err != nil {
			return nil, err
		}
		return dest, nil
	})
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, dest any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	reqURL := c.baseURL + path + "?" + params.Encode()

	start := time.Now()
	body, status, err := executeRequest(ctx, c.http, reqURL)
	metrics.RecordCatalogRequest(endpoint, status, time.Since(start))
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// executeRequest performs a GET and returns the open body on 200. Any
// other status is turned into an error carrying a bounded excerpt of the
// response body.
func executeRequest(ctx context.Context, client *http.Client, reqURL string) (io.ReadCloser, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, resp.StatusCode, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, resp.StatusCode, ErrNotFound
	default:
		msg := readBodyForError(resp.Body)
		resp.Body.Close()
		return nil, resp.StatusCode, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, msg)
	}
}

func readBodyForError(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return fmt.Sprintf("<unreadable body: %v>", err)
	}
	return strings.TrimSpace(string(b))
}
