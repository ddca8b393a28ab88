// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package recommend

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

func TestHybridRecommend(t *testing.T) {
	engine := newTestEngine(t)

	got, err := engine.HybridRecommend(context.Background(), HybridRequest{UserID: 1})
	if err != nil {
		t.Fatalf("HybridRecommend: %v", err)
	}

	// Collaborative candidates for user 1 are [103 102 104] at 0.6 each.
	// Content expansion (2 neighbours per seed) adds 0.4 per occurrence:
	// 103 and 102 surface each other once, 101 twice, 105 and 106 once.
	want := []struct {
		animeID int
		score   float64
	}{
		{103, 1.0},
		{102, 1.0},
		{101, 0.8},
		{104, 0.6},
		{105, 0.4},
		{106, 0.4},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i].AnimeID != w.animeID {
			t.Errorf("rank %d: anime %d, want %d", i, got[i].AnimeID, w.animeID)
		}
		if math.Abs(got[i].Score-w.score) > 1e-9 {
			t.Errorf("rank %d: score %g, want %g", i, got[i].Score, w.score)
		}
	}
}

func TestHybridDeterminism(t *testing.T) {
	engine := newTestEngine(t)
	req := HybridRequest{UserID: 1}

	first, err := engine.HybridRecommend(context.Background(), req)
	if err != nil {
		t.Fatalf("HybridRecommend: %v", err)
	}
	second, err := engine.HybridRecommend(context.Background(), req)
	if err != nil {
		t.Fatalf("HybridRecommend: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical requests returned different output:\n%+v\n%+v", first, second)
	}
}

func TestHybridOutputBound(t *testing.T) {
	engine := newTestEngine(t)

	got, err := engine.HybridRecommend(context.Background(), HybridRequest{UserID: 1, N: 3})
	if err != nil {
		t.Fatalf("HybridRecommend: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if got[0].AnimeID != 103 || got[1].AnimeID != 102 || got[2].AnimeID != 101 {
		t.Errorf("expected top 3 [103 102 101], got %+v", got)
	}
}

func TestHybridCapsAtMaxResults(t *testing.T) {
	cfg := testConfig()
	cfg.Results = 2
	cfg.MaxResults = 4
	data, spaces := testFixture(t)
	engine := newTestEngineWith(t, cfg, data, spaces)

	got, err := engine.HybridRecommend(context.Background(), HybridRequest{UserID: 1, N: 50})
	if err != nil {
		t.Fatalf("HybridRecommend: %v", err)
	}
	if len(got) > 4 {
		t.Errorf("expected at most MaxResults=4 results, got %d", len(got))
	}
}

func TestHybridCustomWeights(t *testing.T) {
	engine := newTestEngine(t)

	got, err := engine.HybridRecommend(context.Background(), HybridRequest{
		UserID:        1,
		UserWeight:    1.0,
		ContentWeight: 0.0,
		HasWeights:    true,
	})
	if err != nil {
		t.Fatalf("HybridRecommend: %v", err)
	}
	// With zero content weight only the collaborative candidates carry
	// score; content-only entries sink to zero but stay after them.
	for i, r := range got[:3] {
		if r.Score != 1.0 {
			t.Errorf("rank %d: score %g, want 1.0", i, r.Score)
		}
	}
	if got[0].AnimeID != 103 || got[1].AnimeID != 102 || got[2].AnimeID != 104 {
		t.Errorf("expected collaborative order [103 102 104], got %+v", got[:3])
	}
}

func TestHybridWeightMonotonicity(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	rank := func(results []Recommendation, animeID int) int {
		for i, r := range results {
			if r.AnimeID == animeID {
				return i
			}
		}
		return len(results)
	}

	// Anime 104 is collaborative-only, anime 105 content-only. Raising
	// the user weight must never push 104 below 105.
	low, err := engine.HybridRecommend(ctx, HybridRequest{
		UserID: 1, UserWeight: 0.5, ContentWeight: 0.4, HasWeights: true,
	})
	if err != nil {
		t.Fatalf("HybridRecommend: %v", err)
	}
	high, err := engine.HybridRecommend(ctx, HybridRequest{
		UserID: 1, UserWeight: 2.0, ContentWeight: 0.4, HasWeights: true,
	})
	if err != nil {
		t.Fatalf("HybridRecommend: %v", err)
	}

	if rank(low, 104) < rank(low, 105) && rank(high, 104) >= rank(high, 105) {
		t.Error("raising user weight demoted a collaborative-only item below a content-only item")
	}
}

func TestHybridDuplicateNamesStayDistinct(t *testing.T) {
	engine := newTestEngine(t)

	got, err := engine.HybridRecommend(context.Background(), HybridRequest{UserID: 1})
	if err != nil {
		t.Fatalf("HybridRecommend: %v", err)
	}
	// Anime 105 and 106 share the display name "Parallel World" but are
	// distinct titles; both must appear, keyed by ID, without merging.
	var dupes []int
	for _, r := range got {
		if r.Name == "Parallel World" {
			dupes = append(dupes, r.AnimeID)
		}
	}
	if len(dupes) != 2 {
		t.Fatalf("expected both duplicate-named anime in output, got IDs %v", dupes)
	}
	if dupes[0] == dupes[1] {
		t.Error("duplicate-named entries collapsed into one ID")
	}
}

func TestHybridEmptyCollaborativeSignal(t *testing.T) {
	data, spaces := testFixture(t)
	// Peers exist in the embedding space but have no ratings, so the
	// collaborative pool and everything downstream is empty.
	data.ratings = map[int][]Rating{}
	engine := newTestEngineWith(t, testConfig(), data, spaces)

	got, err := engine.HybridRecommend(context.Background(), HybridRequest{UserID: 1})
	if err != nil {
		t.Fatalf("HybridRecommend: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}
}

func TestHybridUnknownUser(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.HybridRecommend(context.Background(), HybridRequest{UserID: 99})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHybridResponseCache(t *testing.T) {
	cfg := testConfig()
	cfg.CacheTTL = time.Minute
	data, spaces := testFixture(t)
	engine := newTestEngineWith(t, cfg, data, spaces)
	ctx := context.Background()
	req := HybridRequest{UserID: 1}

	if _, err := engine.HybridRecommend(ctx, req); err != nil {
		t.Fatalf("HybridRecommend: %v", err)
	}
	if _, err := engine.HybridRecommend(ctx, req); err != nil {
		t.Fatalf("HybridRecommend: %v", err)
	}
	m := engine.GetMetrics()
	if m.CacheHits != 1 || m.CacheMisses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got hits=%d misses=%d", m.CacheHits, m.CacheMisses)
	}

	engine.InvalidateCache()
	if _, err := engine.HybridRecommend(ctx, req); err != nil {
		t.Fatalf("HybridRecommend: %v", err)
	}
	m = engine.GetMetrics()
	if m.CacheMisses != 2 {
		t.Errorf("expected 2 misses after invalidation, got %d", m.CacheMisses)
	}

	// Different weights miss the cache.
	if _, err := engine.HybridRecommend(ctx, HybridRequest{
		UserID: 1, UserWeight: 0.9, ContentWeight: 0.1, HasWeights: true,
	}); err != nil {
		t.Fatalf("HybridRecommend: %v", err)
	}
	if got := engine.GetMetrics().CacheMisses; got != 3 {
		t.Errorf("expected 3 misses, got %d", got)
	}
}
