// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Topics.
const (
	TopicFeedbackSubmitted        = "cinerank.feedback.submitted"
	TopicRecommendationsGenerated = "cinerank.recommendations.generated"
	TopicRefreshForced            = "cinerank.refresh.forced"
)

// Topics lists every topic the package publishes.
var Topics = []string{TopicFeedbackSubmitted, TopicRecommendationsGenerated, TopicRefreshForced}

// Event is the JSON payload of every topic. Fields that do not apply to a
// topic are omitted.
type Event struct {
	EventID    string    `json:"event_id"`
	UserID     int64     `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`

	// Feedback.
	MovieID int64  `json:"movie_id,omitempty"`
	Value   string `json:"value,omitempty"`

	// Generation.
	Count  int    `json:"count,omitempty"`
	Status string `json:"status,omitempty"`
}

// newEvent stamps a fresh id and timestamp.
func newEvent(userID int64, now time.Time) Event {
	return Event{
		EventID:    uuid.New().String(),
		UserID:     userID,
		OccurredAt: now.UTC(),
	}
}

// Marshal encodes the event payload.
//
//nolint:gocritic // hugeParam: Event is passed by value like the other payload helpers
func Marshal(e Event) ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return b, nil
}

// Unmarshal decodes an event payload.
func Unmarshal(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	if e.UserID <= 0 {
		return Event{}, fmt.Errorf("unmarshal event: missing user_id")
	}
	return e, nil
}
