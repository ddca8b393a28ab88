// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package recommend

import (
	"fmt"
	"time"
)

// Config controls engine behaviour. A nil Config is replaced with
// DefaultConfig by NewEngine.
type Config struct {
	// SimilarUsers is how many peer users seed the collaborative stage.
	SimilarUsers int

	// Results caps how many entries each recommendation list returns.
	Results int

	// NeighborsPerSeed is how many anime-space neighbours the content
	// stage expands per collaborative seed.
	NeighborsPerSeed int

	// PreferencePercentile is the per-user rating percentile (0-100)
	// above which a rating counts as a preference.
	PreferencePercentile float64

	// UserWeight and ContentWeight are the default fusion weights applied
	// when a request does not supply its own.
	UserWeight    float64
	ContentWeight float64

	// MaxResults bounds the per-request result count override.
	MaxResults int

	// CacheTTL bounds how long a fused response may be served from
	// cache. Zero disables response caching.
	CacheTTL time.Duration

	// CacheMaxEntries caps the response cache size. When full, the cache
	// evicts the entry closest to expiry.
	CacheMaxEntries int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		SimilarUsers:         5,
		Results:              10,
		NeighborsPerSeed:     5,
		PreferencePercentile: 75,
		UserWeight:           0.6,
		ContentWeight:        0.4,
		MaxResults:           100,
		CacheTTL:             5 * time.Minute,
		CacheMaxEntries:      10000,
	}
}

// Validate checks structural constraints. Fusion weights are deliberately
// unchecked: negative or zero weights are valid tuning inputs.
func (c *Config) Validate() error {
	if c.SimilarUsers < 1 {
		return fmt.Errorf("similar_users must be >= 1, got %d", c.SimilarUsers)
	}
	if c.Results < 1 {
		return fmt.Errorf("results must be >= 1, got %d", c.Results)
	}
	if c.NeighborsPerSeed < 1 {
		return fmt.Errorf("neighbors_per_seed must be >= 1, got %d", c.NeighborsPerSeed)
	}
	if c.PreferencePercentile < 0 || c.PreferencePercentile > 100 {
		return fmt.Errorf("preference_percentile must be in [0,100], got %g", c.PreferencePercentile)
	}
	if c.MaxResults < c.Results {
		return fmt.Errorf("max_results (%d) must be >= results (%d)", c.MaxResults, c.Results)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must be >= 0, got %s", c.CacheTTL)
	}
	if c.CacheMaxEntries < 0 {
		return fmt.Errorf("cache_max_entries must be >= 0, got %d", c.CacheMaxEntries)
	}
	return nil
}

// Clone returns a copy so callers can derive per-request variants without
// mutating shared state.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
