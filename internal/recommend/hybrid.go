// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/anirec/internal/metrics"
)

// HybridRequest carries one fusion request. Zero-valued weights and N
// fall back to the engine configuration.
type HybridRequest struct {
	UserID        int
	UserWeight    float64
	ContentWeight float64
	N             int
	HasWeights    bool
	RequestID     string
}

// HybridRecommend fuses the collaborative and content signals for one
// user into a single ranked list of up to req.N recommendations.
//
// Collaborative candidates enter the score map first, each credited with
// the user weight. Content neighbours of every candidate follow, each
// occurrence adding the content weight, so an anime surfaced near
// several candidates accumulates score. Ties rank by first insertion, so
// collaborative hits beat later content-only entries at equal score.
//
// A query user missing from the embedding space fails with a
// NotFoundError; a user with no preferences degrades to an empty result.
func (e *Engine) HybridRecommend(ctx context.Context, req HybridRequest) ([]Recommendation, error) {
	e.metrics.hybridRequests.Add(1)
	start := time.Now()

	userWeight := e.config.UserWeight
	contentWeight := e.config.ContentWeight
	if req.HasWeights {
		userWeight = req.UserWeight
		contentWeight = req.ContentWeight
	}
	n := req.N
	if n <= 0 {
		n = e.config.Results
	}
	if n > e.config.MaxResults {
		n = e.config.MaxResults
	}

	key := fmt.Sprintf("hybrid:%d:%g:%g:%d", req.UserID, userWeight, contentWeight, n)
	if cached, ok := e.cacheGet(key); ok {
		e.metrics.cacheHits.Add(1)
		metrics.CacheHitsTotal.Inc()
		return cached, nil
	}
	e.metrics.cacheMisses.Add(1)
	metrics.CacheMissesTotal.Inc()

	candidates, err := e.CollaborativeRecommend(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	scores := newScoreMap()
	for _, c := range candidates {
		scores.Add(c.AnimeID, c.Name, userWeight)
	}
	for _, c := range candidates {
		neighbors, err := e.expandAnime(ctx, c.AnimeID, e.config.NeighborsPerSeed, MostSimilar)
		if err != nil {
			// A candidate absent from the anime space contributes no
			// content signal but keeps its collaborative score.
			e.logger.Debug().
				Err(err).
				Int("anime_id", c.AnimeID).
				Str("request_id", req.RequestID).
				Msg("content expansion unavailable for candidate")
			continue
		}
		for _, nb := range neighbors {
			scores.Add(nb.AnimeID, nb.Name, contentWeight)
		}
	}

	ranked := scores.Ranked()
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	e.cachePut(key, ranked)
	metrics.RecommendationDuration.WithLabelValues("hybrid").Observe(time.Since(start).Seconds())
	e.logger.Info().
		Int("user_id", req.UserID).
		Int("results", len(ranked)).
		Float64("user_weight", userWeight).
		Float64("content_weight", contentWeight).
		Dur("duration", time.Since(start)).
		Str("request_id", req.RequestID).
		Msg("hybrid recommendation computed")
	return ranked, nil
}
