// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// ErrGenerationPanic wraps a panic recovered from a generation run.
var ErrGenerationPanic = errors.New("recommendation generation panicked")

func errFromRecover(v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("%w: %w", ErrGenerationPanic, err)
	}
	return fmt.Errorf("%w: %v", ErrGenerationPanic, v)
}

// guard runs fn for one batch item. A panic is logged and swallowed so
// the item is dropped and the rest of the batch continues. A movieID of
// zero means the item is not a single movie.
func guard(logger *zerolog.Logger, item string, movieID int64, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			ev := logger.Error().
				Interface("panic", r).
				Str("item", item)
			if movieID != 0 {
				ev = ev.Int64("movie_id", movieID)
			}
			ev.Str("stack", string(debug.Stack())).Msg("dropping item after panic")
		}
	}()
	fn()
}
