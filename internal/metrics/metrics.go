// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

// Package metrics exposes Prometheus instrumentation for the service.
// All collectors are registered on the default registry via promauto and
// served from the /metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts API requests by route, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "anirec",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed, by route, method and status code.",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration observes per-route request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "anirec",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds, by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// RecommendationDuration observes end-to-end engine latency per
	// operation (hybrid, collaborative, similar_users, similar_anime,
	// preferences).
	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "anirec",
			Subsystem: "engine",
			Name:      "recommendation_duration_seconds",
			Help:      "Recommendation computation latency in seconds, by operation.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"operation"},
	)

	// CacheHitsTotal and CacheMissesTotal track the engine response cache.
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "anirec",
		Subsystem: "engine",
		Name:      "cache_hits_total",
		Help:      "Responses served from the engine cache.",
	})
	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "anirec",
		Subsystem: "engine",
		Name:      "cache_misses_total",
		Help:      "Responses computed because the engine cache missed.",
	})

	// DatasetQueryDuration observes per-query dataset latency.
	DatasetQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "anirec",
			Subsystem: "dataset",
			Name:      "query_duration_seconds",
			Help:      "Dataset query latency in seconds, by query.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"query"},
	)

	// ArtifactReloadsTotal counts embedding artifact reloads by outcome.
	ArtifactReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "anirec",
			Subsystem: "artifacts",
			Name:      "reloads_total",
			Help:      "Embedding artifact reload attempts, by outcome.",
		},
		[]string{"outcome"},
	)

	// EmbeddingCount reports the loaded embedding row counts per space.
	EmbeddingCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "anirec",
			Subsystem: "artifacts",
			Name:      "embedding_rows",
			Help:      "Rows in the currently loaded embedding spaces, by space.",
		},
		[]string{"space"},
	)
)

// ObserveDatasetQuery records one dataset query duration.
func ObserveDatasetQuery(query string, start time.Time) {
	DatasetQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

// RecordReload counts one artifact reload attempt.
func RecordReload(ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	ArtifactReloadsTotal.WithLabelValues(outcome).Inc()
}
