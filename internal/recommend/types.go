// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package recommend

import (
	"context"

	"github.com/tomtom215/anirec/internal/embedding"
)

// unknownName is the placeholder some dataset exports use for a missing
// English title. It is treated the same as an empty string.
const unknownName = "Unknown"

// Rating is a single user-anime interaction from the ratings table.
type Rating struct {
	UserID  int
	AnimeID int
	Rating  float64
}

// Anime is one row of the anime metadata table.
type Anime struct {
	ID          int
	EnglishName string
	Name        string
	Genres      string
	Score       float64
	Episodes    string
	Type        string
	Premiered   string
	Members     int
}

// DisplayName resolves the name shown to callers: the English title when
// present, the canonical title otherwise. ok is false when neither field
// carries a usable value.
func (a *Anime) DisplayName() (string, bool) {
	if a.EnglishName != "" && a.EnglishName != unknownName {
		return a.EnglishName, true
	}
	if a.Name != "" && a.Name != unknownName {
		return a.Name, true
	}
	return "", false
}

// DataProvider is the read-only table access the engine needs. All
// methods return a NotFoundError (matching ErrNotFound) when the keyed
// entity does not exist; other errors indicate storage failures.
type DataProvider interface {
	// RatingsForUser returns every rating the user has submitted. A user
	// with no ratings yields an empty slice, not an error.
	RatingsForUser(ctx context.Context, userID int) ([]Rating, error)

	// AnimeByID returns the metadata row for one anime ID.
	AnimeByID(ctx context.Context, animeID int) (*Anime, error)

	// AnimeByName returns the metadata row whose English title exactly
	// matches name.
	AnimeByName(ctx context.Context, name string) (*Anime, error)

	// SynopsisByID returns the synopsis text for one anime ID.
	SynopsisByID(ctx context.Context, animeID int) (string, error)
}

// SpaceProvider yields the current embedding snapshot. Implementations
// must return immutable snapshots so in-flight requests are unaffected
// by reloads.
type SpaceProvider interface {
	Snapshot() *embedding.Snapshot
}

// Neighbor is one ranked entry from a similarity search.
type Neighbor struct {
	ID         int     `json:"id"`
	Similarity float64 `json:"similarity"`
}

// Preference is one anime a user rated at or above their personal
// preference threshold.
type Preference struct {
	AnimeID int     `json:"anime_id"`
	Name    string  `json:"name"`
	Genres  string  `json:"genres"`
	Rating  float64 `json:"rating"`
}

// Candidate is one collaboratively recommended anime. Support counts how
// many similar users independently preferred it.
type Candidate struct {
	AnimeID  int    `json:"anime_id"`
	Name     string `json:"name"`
	Genres   string `json:"genres"`
	Synopsis string `json:"synopsis"`
	Support  int    `json:"support"`
}

// SimilarAnime is one ranked entry from an anime-space similarity
// search, joined with display metadata.
type SimilarAnime struct {
	AnimeID    int     `json:"anime_id"`
	Name       string  `json:"name"`
	Genres     string  `json:"genres"`
	Synopsis   string  `json:"synopsis"`
	Similarity float64 `json:"similarity"`
}

// Recommendation is one fused hybrid result.
type Recommendation struct {
	AnimeID int     `json:"anime_id"`
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
}
