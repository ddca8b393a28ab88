// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package recommend

import (
	"fmt"
	"sort"

	"github.com/tomtom215/anirec/internal/embedding"
)

// Direction selects which end of the similarity ranking a search returns.
type Direction int

const (
	// MostSimilar returns the highest-scoring neighbours.
	MostSimilar Direction = iota
	// LeastSimilar returns the lowest-scoring neighbours.
	LeastSimilar
)

// ParseDirection maps the wire values "most" and "least" onto a
// Direction. Empty input defaults to MostSimilar.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "most":
		return MostSimilar, nil
	case "least":
		return LeastSimilar, nil
	default:
		return MostSimilar, fmt.Errorf("invalid direction %q (want most or least)", s)
	}
}

func (d Direction) String() string {
	if d == LeastSimilar {
		return "least"
	}
	return "most"
}

// searchSpace ranks every row of space against the row for queryID by
// dot product and returns up to n neighbours from the chosen end of the
// ranking, query row excluded, ordered by similarity descending.
//
// The candidate window is n+1 wide so the query row, which dominates its
// own most-similar ranking, still leaves n usable entries after
// exclusion. Equal scores keep ascending index order, so ties are stable
// across runs.
func searchSpace(space *embedding.Space, kind string, queryID, n int, dir Direction) ([]Neighbor, error) {
	idx, ok := space.Index(queryID)
	if !ok {
		return nil, &NotFoundError{Kind: kind, Key: queryID}
	}
	if n < 1 {
		return nil, fmt.Errorf("neighbour count must be >= 1, got %d", n)
	}

	scores := space.Scores(idx)
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] < scores[order[j]]
	})

	take := n + 1
	if take > len(order) {
		take = len(order)
	}
	var window []int
	if dir == LeastSimilar {
		window = order[:take]
	} else {
		window = order[len(order)-take:]
	}

	// The window is ascending; walk it backwards for descending output.
	neighbors := make([]Neighbor, 0, n)
	for i := len(window) - 1; i >= 0; i-- {
		row := window[i]
		if row == idx {
			continue
		}
		id, ok := space.ID(row)
		if !ok {
			continue
		}
		neighbors = append(neighbors, Neighbor{ID: id, Similarity: scores[row]})
	}
	if len(neighbors) > n {
		neighbors = neighbors[:n]
	}
	return neighbors, nil
}
