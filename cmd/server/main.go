// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

// Package main is the entry point for the AniRec server.
//
// AniRec serves hybrid anime recommendations over HTTP, blending a
// collaborative signal (similar users' preferences) with a content
// signal (similar anime embeddings) produced by an offline training
// pipeline.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: load settings from config file and environment (Koanf v2)
//  2. Dataset: ingest ratings, anime metadata and synopses into in-memory DuckDB
//  3. Embeddings: load the user and anime weight artifacts from disk
//  4. Engine: construct the hybrid recommendation engine
//  5. Supervisor tree: artifact watcher (data layer) and HTTP server (api layer)
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables (ANIREC_ prefix), config file
// (CONFIG_PATH or config.yaml), then built-in defaults.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, waits for in-flight requests up to the
// configured shutdown timeout, then closes the dataset.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/anirec/internal/api"
	"github.com/tomtom215/anirec/internal/config"
	"github.com/tomtom215/anirec/internal/dataset"
	"github.com/tomtom215/anirec/internal/embedding"
	"github.com/tomtom215/anirec/internal/logging"
	"github.com/tomtom215/anirec/internal/metrics"
	"github.com/tomtom215/anirec/internal/recommend"
	"github.com/tomtom215/anirec/internal/supervisor"
	"github.com/tomtom215/anirec/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("ratings", cfg.Dataset.RatingsPath).
		Str("user_weights", cfg.Artifacts.UserWeightsPath).
		Str("anime_weights", cfg.Artifacts.AnimeWeightsPath).
		Bool("watch", cfg.Artifacts.Watch).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Dataset: ingest the CSV exports into in-memory DuckDB.
	store, err := dataset.Open(ctx, dataset.Config{
		RatingsPath:  cfg.Dataset.RatingsPath,
		AnimePath:    cfg.Dataset.AnimePath,
		SynopsisPath: cfg.Dataset.SynopsisPath,
		MaxMemory:    cfg.Dataset.MaxMemory,
		Threads:      cfg.Dataset.Threads,
	}, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize dataset")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing dataset")
		}
	}()
	logging.Info().Msg("Dataset initialized successfully")

	// Embeddings: load the weight artifacts.
	provider, err := embedding.NewProvider(
		cfg.Artifacts.UserWeightsPath,
		cfg.Artifacts.AnimeWeightsPath,
		logging.Logger(),
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load embedding artifacts")
	}
	publishEmbeddingMetrics(provider)
	provider.OnReload(func() { publishEmbeddingMetrics(provider) })

	// Engine.
	engine, err := recommend.NewEngine(&recommend.Config{
		SimilarUsers:         cfg.Recommend.SimilarUsers,
		Results:              cfg.Recommend.Results,
		NeighborsPerSeed:     cfg.Recommend.NeighborsPerSeed,
		PreferencePercentile: cfg.Recommend.PreferencePercentile,
		UserWeight:           cfg.Recommend.UserWeight,
		ContentWeight:        cfg.Recommend.ContentWeight,
		MaxResults:           cfg.Recommend.MaxResults,
		CacheTTL:             cfg.Recommend.CacheTTL,
		CacheMaxEntries:      cfg.Recommend.CacheMaxEntries,
	}, store, provider, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to construct engine")
	}
	// Cached fusions must not outlive the embeddings that produced them.
	provider.OnReload(engine.InvalidateCache)

	// HTTP surface.
	handler := api.NewHandler(engine, store)
	router := api.NewRouter(handler, api.RouterConfig{
		RateLimitRequests: cfg.API.RateLimitRequests,
		RateLimitWindow:   cfg.API.RateLimitWindow,
		CORSOrigins:       cfg.API.CORSOrigins,
	})
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	// Supervisor tree: data layer (artifact watcher) and api layer.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if cfg.Artifacts.Watch {
		tree.AddDataService(services.NewArtifactWatcherService(
			provider, cfg.Artifacts.WatchDebounce, logging.Logger()))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)
	logging.Info().Str("addr", server.Addr).Msg("AniRec serving")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor terminated with error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Fatal().Err(err).Msg("Supervisor terminated unexpectedly")
		}
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}
	logging.Info().Msg("Shutdown complete")
}

func publishEmbeddingMetrics(provider *embedding.Provider) {
	snap := provider.Snapshot()
	if snap == nil {
		return
	}
	metrics.EmbeddingCount.WithLabelValues("users").Set(float64(snap.Users.Len()))
	metrics.EmbeddingCount.WithLabelValues("anime").Set(float64(snap.Anime.Len()))
}
