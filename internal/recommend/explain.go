// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tomtom215/cinerank/internal/catalog"
)

// Component thresholds above which a breakdown entry becomes a reason.
const (
	explainGenreMin     = 0.05
	explainThemeMin     = 0.05
	explainFranchiseMin = 0.1
	explainActorMin     = 0.03
	explainHighlyRated  = 7.5
)

const defaultReason = "it matches your overall taste in movies"

// Explain renders the sentence shown for a scored recommendation. now
// decides what counts as a recent release.
func Explain(s Scored, now time.Time) string {
	c := s.Candidate
	title := c.Title
	if title == "" {
		title = "this movie"
	}

	var genres, themes, franchises, actors []string
	if p := c.Profile; p != nil {
		genres, themes, franchises = p.Genres, p.Themes, p.Franchises
	}
	if len(genres) == 0 {
		genres = c.Genres
	}
	actors = actorsOf(c)

	var reasons []string
	if s.Breakdown.Genre > explainGenreMin && len(genres) > 0 {
		reasons = append(reasons, fmt.Sprintf("it's in the %s genre(s) that you seem to enjoy",
			strings.Join(head(genres, 3), ", ")))
	}
	if s.Breakdown.Theme > explainThemeMin && len(themes) > 0 {
		reasons = append(reasons, fmt.Sprintf("it explores themes like %s that appear in other movies you like",
			strings.Join(humanize(head(themes, 2)), ", ")))
	}
	if s.Breakdown.Franchise > explainFranchiseMin && len(franchises) > 0 {
		reasons = append(reasons, fmt.Sprintf("it's part of the %s universe that you seem to enjoy",
			cases.Title(language.English).String(strings.ReplaceAll(franchises[0], "_", " "))))
	}
	if s.Breakdown.Actor > explainActorMin && len(actors) > 0 {
		reasons = append(reasons, fmt.Sprintf("it stars %s who appear in other movies you like",
			strings.Join(head(actors, 2), ", ")))
	}
	if c.VoteAverage >= explainHighlyRated {
		reasons = append(reasons, "it's highly rated with a score of "+strconv.FormatFloat(c.VoteAverage, 'f', -1, 64))
	}
	if year := catalog.ReleaseYear(c.ReleaseDate); year > 0 && abs(now.Year()-year) <= 1 {
		reasons = append(reasons, "it's a recent release")
	}

	return "We recommended " + title + " because " + joinReasons(reasons)
}

func joinReasons(reasons []string) string {
	switch len(reasons) {
	case 0:
		return defaultReason + "."
	case 1:
		return reasons[0] + "."
	default:
		last := len(reasons) - 1
		return strings.Join(reasons[:last], ", ") + ", and " + reasons[last] + "."
	}
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func humanize(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strings.ReplaceAll(l, "_", " ")
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
