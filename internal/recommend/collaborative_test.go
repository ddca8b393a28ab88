// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package recommend

import (
	"context"
	"errors"
	"testing"
)

func TestCollaborativeRecommend(t *testing.T) {
	engine := newTestEngine(t)

	// User 1's peers are users 2 and 3. User 2 prefers 102 and 103, user
	// 3 prefers 103 and 104, so 103 carries support 2 and ranks first.
	candidates, err := engine.CollaborativeRecommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("CollaborativeRecommend: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	if candidates[0].AnimeID != 103 || candidates[0].Support != 2 {
		t.Errorf("expected anime 103 with support 2 first, got %d support %d",
			candidates[0].AnimeID, candidates[0].Support)
	}
	// Equal support keeps first-occurrence order across similarity-ranked
	// peers: 102 (from user 2) before 104 (from user 3).
	if candidates[1].AnimeID != 102 || candidates[2].AnimeID != 104 {
		t.Errorf("expected tie order [102 104], got [%d %d]",
			candidates[1].AnimeID, candidates[2].AnimeID)
	}
	if candidates[0].Synopsis == "" {
		t.Error("expected synopsis joined onto candidates")
	}
}

func TestCollaborativeExcludesOwnPreferences(t *testing.T) {
	data, spaces := testFixture(t)
	// Make user 1 already prefer anime 103, the strongest peer signal.
	data.ratings[1] = []Rating{{UserID: 1, AnimeID: 103, Rating: 10}}
	engine := newTestEngineWith(t, testConfig(), data, spaces)

	candidates, err := engine.CollaborativeRecommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("CollaborativeRecommend: %v", err)
	}
	for _, c := range candidates {
		if c.AnimeID == 103 {
			t.Error("query user's own preference appeared in candidates")
		}
	}
}

func TestCollaborativeUnknownUser(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.CollaborativeRecommend(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCollaborativeEmptyPeerSignal(t *testing.T) {
	data, spaces := testFixture(t)
	// Peers with no ratings yield no pooled candidates, not an error.
	data.ratings = map[int][]Rating{
		1: {{UserID: 1, AnimeID: 101, Rating: 10}},
	}
	engine := newTestEngineWith(t, testConfig(), data, spaces)

	candidates, err := engine.CollaborativeRecommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("CollaborativeRecommend: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(candidates))
	}
}

func TestCollaborativeRespectsResultLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Results = 2
	cfg.MaxResults = 2
	data, spaces := testFixture(t)
	engine := newTestEngineWith(t, cfg, data, spaces)

	candidates, err := engine.CollaborativeRecommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("CollaborativeRecommend: %v", err)
	}
	if len(candidates) > 2 {
		t.Errorf("expected at most 2 candidates, got %d", len(candidates))
	}
}
