// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package recommend

import "testing"

func TestScoreMapAccumulates(t *testing.T) {
	m := newScoreMap()
	m.Add(1, "a", 0.6)
	m.Add(2, "b", 0.6)
	m.Add(1, "a", 0.4)
	m.Add(1, "a", 0.4)

	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.Len())
	}
	ranked := m.Ranked()
	if ranked[0].AnimeID != 1 {
		t.Errorf("expected ID 1 first, got %d", ranked[0].AnimeID)
	}
	if got := ranked[0].Score; got != 1.4 {
		t.Errorf("expected accumulated score 1.4, got %g", got)
	}
}

func TestScoreMapTiesKeepInsertionOrder(t *testing.T) {
	m := newScoreMap()
	m.Add(7, "seven", 0.5)
	m.Add(3, "three", 0.5)
	m.Add(9, "nine", 0.5)

	ranked := m.Ranked()
	want := []int{7, 3, 9}
	for i, w := range want {
		if ranked[i].AnimeID != w {
			t.Errorf("rank %d: ID %d, want %d", i, ranked[i].AnimeID, w)
		}
	}
}

func TestScoreMapFirstNameWins(t *testing.T) {
	m := newScoreMap()
	m.Add(1, "original", 0.5)
	m.Add(1, "other", 0.5)

	if got := m.Ranked()[0].Name; got != "original" {
		t.Errorf("expected first-inserted name, got %q", got)
	}
}

func TestScoreMapNegativeWeights(t *testing.T) {
	m := newScoreMap()
	m.Add(1, "a", 1.0)
	m.Add(2, "b", -0.5)

	ranked := m.Ranked()
	if ranked[0].AnimeID != 1 || ranked[1].AnimeID != 2 {
		t.Errorf("unexpected order: %+v", ranked)
	}
	if ranked[1].Score != -0.5 {
		t.Errorf("expected negative score preserved, got %g", ranked[1].Score)
	}
}
