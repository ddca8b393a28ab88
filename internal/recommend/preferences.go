// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// UserPreferences returns the anime a user rated at or above their
// personal preference threshold, sorted by rating descending. The
// threshold is the configured percentile of that user's own rating
// distribution, so a generous rater and a harsh rater both contribute
// only their relative favourites.
//
// A user with no ratings yields an empty slice. Ratings whose anime row
// is missing or has no usable display name are dropped with a log entry.
func (e *Engine) UserPreferences(ctx context.Context, userID int) ([]Preference, error) {
	defer observeOp("preferences", time.Now())
	ratings, err := e.data.RatingsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load ratings for user %d: %w", userID, err)
	}
	if len(ratings) == 0 {
		return []Preference{}, nil
	}

	values := make([]float64, len(ratings))
	for i, r := range ratings {
		values[i] = r.Rating
	}
	threshold := percentile(values, e.config.PreferencePercentile)

	kept := make([]Rating, 0, len(ratings))
	for _, r := range ratings {
		if r.Rating >= threshold {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Rating > kept[j].Rating
	})

	prefs := make([]Preference, 0, len(kept))
	for _, r := range kept {
		anime, err := e.data.AnimeByID(ctx, r.AnimeID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				e.logger.Debug().
					Int("user_id", userID).
					Int("anime_id", r.AnimeID).
					Msg("preference skipped: anime metadata missing")
				continue
			}
			return nil, fmt.Errorf("load anime %d: %w", r.AnimeID, err)
		}
		name, ok := anime.DisplayName()
		if !ok {
			e.logger.Debug().
				Int("user_id", userID).
				Int("anime_id", r.AnimeID).
				Msg("preference skipped: no usable display name")
			continue
		}
		prefs = append(prefs, Preference{
			AnimeID: r.AnimeID,
			Name:    name,
			Genres:  anime.Genres,
			Rating:  r.Rating,
		})
	}
	return prefs, nil
}

// percentile computes the p-th percentile (0-100) of values using linear
// interpolation between closest ranks, matching the behaviour of common
// numeric libraries. values may arrive in any order and is not modified.
func percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
