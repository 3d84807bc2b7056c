// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package catalog

import (
	"strconv"
	"strings"
)

// MovieSummary is one entry of a list endpoint (category pages, search, discover).
type MovieSummary struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	ReleaseDate   string  `json:"release_date"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Popularity    float64 `json:"popularity"`
	GenreIDs      []int   `json:"genre_ids"`
	Adult         bool    `json:"adult"`
}

// Genre is a TMDb genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Collection is the franchise collection a movie belongs to, if any.
type Collection struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Company is a production company.
type Company struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MovieDetails is the /movie/{id} response with release_dates appended.
type MovieDetails struct {
	ID                  int64        `json:"id"`
	Title               string       `json:"title"`
	OriginalTitle       string       `json:"original_title"`
	Overview            string       `json:"overview"`
	PosterPath          string       `json:"poster_path"`
	ReleaseDate         string       `json:"release_date"`
	VoteAverage         float64      `json:"vote_average"`
	VoteCount           int          `json:"vote_count"`
	Adult               bool         `json:"adult"`
	Genres              []Genre      `json:"genres"`
	BelongsToCollection *Collection  `json:"belongs_to_collection"`
	ProductionCompanies []Company    `json:"production_companies"`
	ReleaseDates        releaseDates `json:"release_dates"`
}

type releaseDates struct {
	Results []countryReleases `json:"results"`
}

type countryReleases struct {
	Country      string        `json:"iso_3166_1"`
	ReleaseDates []releaseDate `json:"release_dates"`
}

type releaseDate struct {
	Certification string `json:"certification"`
	Type          int    `json:"type"`
}

// Certification returns the first non-empty US certification (G, PG,
// PG-13, R, NC-17), or "" when the catalog has none.
func (d *MovieDetails) Certification() string {
	for _, country := range d.ReleaseDates.Results {
		if country.Country != "US" {
			continue
		}
		for _, rd := range country.ReleaseDates {
			if c := strings.TrimSpace(rd.Certification); c != "" {
				return c
			}
		}
	}
	return ""
}

// GenreNames returns the genre names in catalog order.
func (d *MovieDetails) GenreNames() []string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return names
}

// CompanyNames returns the production company names.
func (d *MovieDetails) CompanyNames() []string {
	names := make([]string, 0, len(d.ProductionCompanies))
	for _, c := range d.ProductionCompanies {
		names = append(names, c.Name)
	}
	return names
}

// CollectionName returns the collection name or "".
func (d *MovieDetails) CollectionName() string {
	if d.BelongsToCollection == nil {
		return ""
	}
	return d.BelongsToCollection.Name
}

// CastMember is one billed actor.
type CastMember struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// CrewMember is one crew credit.
type CrewMember struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Credits is the /movie/{id}/credits response.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// TopCast returns the first n billed actor names. The catalog already
// orders cast by billing.
func (c *Credits) TopCast(n int) []string {
	if c == nil {
		return nil
	}
	if n > len(c.Cast) {
		n = len(c.Cast)
	}
	names := make([]string, 0, n)
	for _, m := range c.Cast[:n] {
		names = append(names, m.Name)
	}
	return names
}

// Directors returns the distinct names credited with the job "Director".
func (c *Credits) Directors() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, m := range c.Crew {
		if m.Job != "Director" {
			continue
		}
		if _, dup := seen[m.Name]; dup {
			continue
		}
		seen[m.Name] = struct{}{}
		out = append(out, m.Name)
	}
	return out
}

type pageResponse struct {
	Page         int            `json:"page"`
	Results      []MovieSummary `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

type keywordsResponse struct {
	ID       int64 `json:"id"`
	Keywords []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"keywords"`
}

type genreListResponse struct {
	Genres []Genre `json:"genres"`
}

// ReleaseYear parses the leading year of a YYYY-MM-DD date, or returns 0.
func ReleaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}
