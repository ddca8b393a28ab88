// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package recommend

import (
	"context"
	"errors"
	"time"
)

// SimilarAnimeByName resolves name to an anime row by exact English-title
// match and returns its embedding-space neighbours. An unmatched name
// yields a NotFoundError.
func (e *Engine) SimilarAnimeByName(ctx context.Context, name string, n int, dir Direction) ([]SimilarAnime, error) {
	defer observeOp("similar_anime", time.Now())
	anime, err := e.data.AnimeByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.expandAnime(ctx, anime.ID, n, dir)
}

// SimilarAnimeByID returns the embedding-space neighbours of one anime
// ID, skipping the name resolution step.
func (e *Engine) SimilarAnimeByID(ctx context.Context, animeID, n int, dir Direction) ([]SimilarAnime, error) {
	return e.expandAnime(ctx, animeID, n, dir)
}

// expandAnime returns up to n anime-space neighbours of animeID, joined
// with display metadata and synopsis, similarity descending. Neighbours
// with missing metadata, no usable display name, or no synopsis are
// dropped with a log entry; the remaining list may be shorter than n.
func (e *Engine) expandAnime(ctx context.Context, animeID, n int, dir Direction) ([]SimilarAnime, error) {
	snap, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	neighbors, err := searchSpace(snap.Anime, "anime", animeID, n, dir)
	if err != nil {
		return nil, err
	}
	e.metrics.similaritySearches.Add(1)

	out := make([]SimilarAnime, 0, len(neighbors))
	for _, nb := range neighbors {
		anime, err := e.data.AnimeByID(ctx, nb.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				e.logger.Debug().
					Int("anime_id", nb.ID).
					Msg("neighbour dropped: metadata missing")
				continue
			}
			return nil, err
		}
		name, ok := anime.DisplayName()
		if !ok {
			e.logger.Debug().
				Int("anime_id", nb.ID).
				Msg("neighbour dropped: no usable display name")
			continue
		}
		synopsis, err := e.data.SynopsisByID(ctx, nb.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				e.logger.Debug().
					Int("anime_id", nb.ID).
					Msg("neighbour dropped: synopsis missing")
				continue
			}
			return nil, err
		}
		out = append(out, SimilarAnime{
			AnimeID:    nb.ID,
			Name:       name,
			Genres:     anime.Genres,
			Synopsis:   synopsis,
			Similarity: nb.Similarity,
		})
	}
	return out, nil
}
