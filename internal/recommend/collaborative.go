// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/anirec/internal/metrics"
)

// SimilarUsers returns up to n users whose embedding is closest to the
// query user, similarity descending. A query user absent from the user
// embedding space yields a NotFoundError.
func (e *Engine) SimilarUsers(ctx context.Context, userID, n int) ([]Neighbor, error) {
	defer observeOp("similar_users", time.Now())
	snap, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	neighbors, err := searchSpace(snap.Users, "user", userID, n, MostSimilar)
	if err != nil {
		return nil, err
	}
	e.metrics.similaritySearches.Add(1)
	return neighbors, nil
}

// CollaborativeRecommend pools the preferences of the query user's
// nearest peers and ranks pooled anime by support count: how many peers
// independently preferred each title. Anime the query user already
// prefers are excluded. Equal support keeps first-occurrence order, so
// a title surfaced by a more similar peer ranks ahead of a later tie.
//
// Per-peer preference failures degrade to skipping that peer; only a
// missing query user or a storage failure is returned as an error.
func (e *Engine) CollaborativeRecommend(ctx context.Context, userID int) ([]Candidate, error) {
	defer observeOp("collaborative", time.Now())
	neighbors, err := e.SimilarUsers(ctx, userID, e.config.SimilarUsers)
	if err != nil {
		return nil, err
	}

	ownPrefs, err := e.UserPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load query user preferences: %w", err)
	}
	seen := make(map[int]struct{}, len(ownPrefs))
	for _, p := range ownPrefs {
		seen[p.AnimeID] = struct{}{}
	}

	// Pool peer preferences into support counts, preserving the order in
	// which titles first appear across the similarity-ranked peers.
	var order []int
	support := make(map[int]int)
	for _, nb := range neighbors {
		prefs, err := e.UserPreferences(ctx, nb.ID)
		if err != nil {
			e.logger.Warn().
				Err(err).
				Int("user_id", userID).
				Int("peer_id", nb.ID).
				Msg("peer preferences unavailable, skipping peer")
			continue
		}
		for _, p := range prefs {
			if _, own := seen[p.AnimeID]; own {
				continue
			}
			if _, pooled := support[p.AnimeID]; !pooled {
				order = append(order, p.AnimeID)
			}
			support[p.AnimeID]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return support[order[i]] > support[order[j]]
	})
	if len(order) > e.config.Results {
		order = order[:e.config.Results]
	}

	candidates := make([]Candidate, 0, len(order))
	for _, id := range order {
		c, err := e.candidateMeta(ctx, id, support[id])
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				e.logger.Debug().
					Int("anime_id", id).
					Msg("candidate dropped: metadata missing")
				continue
			}
			return nil, err
		}
		candidates = append(candidates, *c)
	}
	return candidates, nil
}

// observeOp records one engine operation duration.
func observeOp(operation string, start time.Time) {
	metrics.RecommendationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// candidateMeta joins one pooled anime ID with its display metadata and
// synopsis. Any missing piece fails the whole candidate.
func (e *Engine) candidateMeta(ctx context.Context, animeID, support int) (*Candidate, error) {
	anime, err := e.data.AnimeByID(ctx, animeID)
	if err != nil {
		return nil, err
	}
	name, ok := anime.DisplayName()
	if !ok {
		return nil, NewAnimeNotFound(animeID)
	}
	synopsis, err := e.data.SynopsisByID(ctx, animeID)
	if err != nil {
		return nil, err
	}
	return &Candidate{
		AnimeID:  animeID,
		Name:     name,
		Genres:   anime.Genres,
		Synopsis: synopsis,
		Support:  support,
	}, nil
}
