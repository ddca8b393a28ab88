// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

// Package embedding holds the trained embedding spaces the recommendation
// engine searches over.
//
// A Space pairs a dense vector matrix with a bidirectional mapping between
// external IDs (MyAnimeList user or anime IDs) and matrix row indices. The
// training pipeline produces one space per tower (users, anime) and writes
// them as checksummed artifacts; this package loads them and exposes
// read-only access. Vectors are expected to be unit-normalized upstream so
// dot product equals cosine similarity.
package embedding

import (
	"fmt"
)

// Space is an immutable id-to-vector mapping over a dense matrix.
// The zero value is not usable; construct with NewSpace or Load.
type Space struct {
	idToIndex map[int]int
	indexToID map[int]int
	vectors   [][]float64
	dim       int
}

// NewSpace builds a Space from external IDs and their vectors.
// ids[i] maps to row i of vectors. All vectors must share one dimension,
// and IDs must be unique.
func NewSpace(ids []int, vectors [][]float64) (*Space, error) {
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("id count %d does not match vector count %d", len(ids), len(vectors))
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("empty embedding space")
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("zero-dimensional vectors")
	}

	idToIndex := make(map[int]int, len(ids))
	indexToID := make(map[int]int, len(ids))
	for i, id := range ids {
		if len(vectors[i]) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(vectors[i]), dim)
		}
		if _, dup := idToIndex[id]; dup {
			return nil, fmt.Errorf("duplicate id %d", id)
		}
		idToIndex[id] = i
		indexToID[i] = id
	}

	return &Space{
		idToIndex: idToIndex,
		indexToID: indexToID,
		vectors:   vectors,
		dim:       dim,
	}, nil
}

// Len returns the number of vectors in the space.
func (s *Space) Len() int {
	return len(s.vectors)
}

// Dim returns the vector dimensionality.
func (s *Space) Dim() int {
	return s.dim
}

// Index returns the matrix row index for an external ID.
func (s *Space) Index(id int) (int, bool) {
	idx, ok := s.idToIndex[id]
	return idx, ok
}

// ID returns the external ID for a matrix row index.
func (s *Space) ID(index int) (int, bool) {
	id, ok := s.indexToID[index]
	return id, ok
}

// Vector returns the embedding row at index. The returned slice is shared;
// callers must not mutate it.
func (s *Space) Vector(index int) []float64 {
	return s.vectors[index]
}

// Scores computes the dot product of every row against the row at index,
// returning one score per row (including the query row itself).
func (s *Space) Scores(index int) []float64 {
	query := s.vectors[index]
	scores := make([]float64, len(s.vectors))
	for i, row := range s.vectors {
		var dot float64
		for d := 0; d < s.dim; d++ {
			dot += row[d] * query[d]
		}
		scores[i] = dot
	}
	return scores
}
