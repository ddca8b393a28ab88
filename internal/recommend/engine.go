// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package recommend

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/anirec/internal/embedding"
)

// Engine computes hybrid recommendations. It is safe for concurrent use:
// configuration is fixed at construction and all per-request state is
// local, with the response cache guarded by its own mutex.
type Engine struct {
	config *Config
	logger zerolog.Logger
	data   DataProvider
	spaces SpaceProvider

	cacheMu sync.RWMutex
	cache   map[string]cacheEntry

	metrics engineMetrics
}

type cacheEntry struct {
	results   []Recommendation
	expiresAt time.Time
}

// engineMetrics tracks engine-internal counters. Exported snapshots feed
// the Prometheus layer without the engine importing it.
type engineMetrics struct {
	hybridRequests     atomic.Int64
	cacheHits          atomic.Int64
	cacheMisses        atomic.Int64
	similaritySearches atomic.Int64
}

// Metrics is a point-in-time snapshot of engine counters.
type Metrics struct {
	HybridRequests     int64 `json:"hybrid_requests"`
	CacheHits          int64 `json:"cache_hits"`
	CacheMisses        int64 `json:"cache_misses"`
	SimilaritySearches int64 `json:"similarity_searches"`
}

// NewEngine constructs an Engine. data and spaces are required; a nil
// cfg falls back to DefaultConfig.
func NewEngine(cfg *Config, data DataProvider, spaces SpaceProvider, logger zerolog.Logger) (*Engine, error) {
	if data == nil {
		return nil, errors.New("data provider is required")
	}
	if spaces == nil {
		return nil, errors.New("space provider is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "engine").Logger(),
		data:   data,
		spaces: spaces,
		cache:  make(map[string]cacheEntry),
	}, nil
}

// snapshot returns the current embedding snapshot or ErrNoEmbeddings
// when none is loaded.
func (e *Engine) snapshot() (*embedding.Snapshot, error) {
	s := e.spaces.Snapshot()
	if s == nil || s.Users == nil || s.Anime == nil {
		return nil, ErrNoEmbeddings
	}
	return s, nil
}

// InvalidateCache drops every cached response. Wired to embedding
// reloads so stale fusions never outlive the matrices that produced
// them.
func (e *Engine) InvalidateCache() {
	e.cacheMu.Lock()
	e.cache = make(map[string]cacheEntry)
	e.cacheMu.Unlock()
	e.logger.Info().Msg("response cache invalidated")
}

// GetMetrics returns a snapshot of the engine counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		HybridRequests:     e.metrics.hybridRequests.Load(),
		CacheHits:          e.metrics.cacheHits.Load(),
		CacheMisses:        e.metrics.cacheMisses.Load(),
		SimilaritySearches: e.metrics.similaritySearches.Load(),
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

func (e *Engine) cacheGet(key string) ([]Recommendation, bool) {
	if e.config.CacheTTL <= 0 {
		return nil, false
	}
	e.cacheMu.RLock()
	entry, ok := e.cache[key]
	e.cacheMu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.results, true
}

func (e *Engine) cachePut(key string, results []Recommendation) {
	if e.config.CacheTTL <= 0 {
		return
	}
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	if e.config.CacheMaxEntries > 0 && len(e.cache) >= e.config.CacheMaxEntries {
		e.evictSoonestLocked()
	}
	e.cache[key] = cacheEntry{
		results:   results,
		expiresAt: time.Now().Add(e.config.CacheTTL),
	}
}

// evictSoonestLocked removes the entry closest to expiry. Caller holds
// cacheMu.
func (e *Engine) evictSoonestLocked() {
	var (
		victim  string
		soonest time.Time
		found   bool
	)
	for key, entry := range e.cache {
		if !found || entry.expiresAt.Before(soonest) {
			victim = key
			soonest = entry.expiresAt
			found = true
		}
	}
	if found {
		delete(e.cache, victim)
	}
}
