// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

// Package recommend implements the hybrid recommendation engine.
//
// The engine blends two signals computed over pre-trained two-tower
// embeddings:
//
//   - Collaborative: find users whose embedding is closest to the query
//     user, extract each peer's top-rated anime, and pool the results by
//     support count (how many peers independently liked a title).
//   - Content: for every collaboratively recommended anime, find its
//     nearest neighbours in anime-embedding space.
//
// Hybrid fusion merges both lists with an additive weighted score and
// returns the top-N display names. Anime IDs are carried end-to-end
// through the pipeline; display names are resolved once at the output
// boundary, so duplicate names across distinct IDs never merge.
//
// # Data access
//
// The engine reads tables through the DataProvider interface and embedding
// matrices through a SpaceProvider snapshot. Both are read-only; all
// intermediate state is request-scoped, so one Engine safely serves
// concurrent requests.
//
// # Failure policy
//
// Lookup failures are typed. A NotFoundError for the query user propagates
// to the caller; gaps in per-neighbour metadata or synopsis lookups drop
// the affected record and processing continues.
package recommend
