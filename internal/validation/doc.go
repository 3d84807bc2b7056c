// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package validation validates request structs with go-playground/validator.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and is safe for concurrent use. Field names in errors are taken
// from json tags so messages match what the client sent:
//
//	type feedbackRequest struct {
//	    MovieID *int64 `json:"movie_id" validate:"omitempty,gt=0"`
//	    Value   string `json:"value" validate:"required,oneof=good bad"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    // verr.Error() == "value must be one of: good bad"
//	}
package validation
