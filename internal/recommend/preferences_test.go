// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package recommend

import (
	"context"
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"ten ratings p75", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 75, 7.75},
		{"ten ratings p50", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 50, 5.5},
		{"single value", []float64{4.2}, 75, 4.2},
		{"identical values", []float64{7, 7, 7}, 75, 7},
		{"p0 is min", []float64{3, 1, 2}, 0, 1},
		{"p100 is max", []float64{3, 1, 2}, 100, 3},
		{"interpolated quartile", []float64{1, 2, 3, 4}, 75, 3.25},
		{"unsorted input", []float64{9, 1, 5}, 75, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := percentile(tt.values, tt.p)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("percentile(%v, %g) = %g, want %g", tt.values, tt.p, got, tt.want)
			}
		})
	}
}

func TestUserPreferencesThreshold(t *testing.T) {
	data, spaces := testFixture(t)
	data.ratings[1] = make([]Rating, 0, 10)
	for i := 1; i <= 10; i++ {
		// Spread the ratings over anime IDs that have metadata, cycling
		// through 101-106.
		data.ratings[1] = append(data.ratings[1], Rating{
			UserID:  1,
			AnimeID: 101 + (i-1)%6,
			Rating:  float64(i),
		})
	}
	engine := newTestEngineWith(t, testConfig(), data, spaces)

	prefs, err := engine.UserPreferences(context.Background(), 1)
	if err != nil {
		t.Fatalf("UserPreferences: %v", err)
	}
	// 75th percentile of 1..10 interpolates to 7.75, keeping 8, 9, 10.
	if len(prefs) != 3 {
		t.Fatalf("expected 3 preferences, got %d", len(prefs))
	}
	wantRatings := []float64{10, 9, 8}
	for i, p := range prefs {
		if p.Rating != wantRatings[i] {
			t.Errorf("preference %d: rating %g, want %g", i, p.Rating, wantRatings[i])
		}
	}
}

func TestUserPreferencesNoRatings(t *testing.T) {
	engine := newTestEngine(t)

	prefs, err := engine.UserPreferences(context.Background(), 42)
	if err != nil {
		t.Fatalf("UserPreferences: %v", err)
	}
	if len(prefs) != 0 {
		t.Errorf("expected empty preferences, got %d", len(prefs))
	}
}

func TestUserPreferencesSkipsMissingMetadata(t *testing.T) {
	data, spaces := testFixture(t)
	data.ratings[1] = []Rating{
		{UserID: 1, AnimeID: 101, Rating: 10},
		{UserID: 1, AnimeID: 999, Rating: 10}, // no metadata row
	}
	engine := newTestEngineWith(t, testConfig(), data, spaces)

	prefs, err := engine.UserPreferences(context.Background(), 1)
	if err != nil {
		t.Fatalf("UserPreferences: %v", err)
	}
	if len(prefs) != 1 || prefs[0].AnimeID != 101 {
		t.Errorf("expected only anime 101, got %+v", prefs)
	}
}

func TestUserPreferencesFallbackName(t *testing.T) {
	data, spaces := testFixture(t)
	data.ratings[1] = []Rating{{UserID: 1, AnimeID: 104, Rating: 9}}
	engine := newTestEngineWith(t, testConfig(), data, spaces)

	prefs, err := engine.UserPreferences(context.Background(), 1)
	if err != nil {
		t.Fatalf("UserPreferences: %v", err)
	}
	if len(prefs) != 1 {
		t.Fatalf("expected 1 preference, got %d", len(prefs))
	}
	if prefs[0].Name != "Monster" {
		t.Errorf("expected canonical fallback name Monster, got %q", prefs[0].Name)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		anime  Anime
		want   string
		wantOK bool
	}{
		{"english preferred", Anime{EnglishName: "Eng", Name: "Canon"}, "Eng", true},
		{"fallback on unknown", Anime{EnglishName: "Unknown", Name: "Canon"}, "Canon", true},
		{"fallback on empty", Anime{EnglishName: "", Name: "Canon"}, "Canon", true},
		{"both unusable", Anime{EnglishName: "Unknown", Name: ""}, "", false},
		{"canonical unknown too", Anime{EnglishName: "", Name: "Unknown"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.anime.DisplayName()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DisplayName() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
