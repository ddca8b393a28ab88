// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package recommend

import "sort"

// scoreMap accumulates additive scores keyed by anime ID while
// remembering first-insertion order. Ranking sorts by score descending
// with a stable sort, so ties resolve to whichever ID was inserted
// first. That makes fusion output deterministic for a fixed input
// sequence.
type scoreMap struct {
	order  []int
	names  map[int]string
	scores map[int]float64
}

func newScoreMap() *scoreMap {
	return &scoreMap{
		names:  make(map[int]string),
		scores: make(map[int]float64),
	}
}

// Add accumulates weight onto id. The name recorded at first insertion
// wins; later calls may pass any value.
func (m *scoreMap) Add(id int, name string, weight float64) {
	if _, seen := m.scores[id]; !seen {
		m.order = append(m.order, id)
		m.names[id] = name
	}
	m.scores[id] += weight
}

// Len returns the number of distinct IDs accumulated.
func (m *scoreMap) Len() int {
	return len(m.order)
}

// Ranked returns every entry sorted by score descending, insertion order
// breaking ties.
func (m *scoreMap) Ranked() []Recommendation {
	ranked := make([]Recommendation, 0, len(m.order))
	for _, id := range m.order {
		ranked = append(ranked, Recommendation{
			AnimeID: id,
			Name:    m.names[id],
			Score:   m.scores[id],
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
