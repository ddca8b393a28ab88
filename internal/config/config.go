// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

// Package config defines the service configuration and loads it with
// layered precedence: built-in defaults, then an optional YAML file, then
// environment variables. The resulting struct is injected explicitly into
// every component by the composition root; nothing reads configuration
// globals at call time.
package config

import (
	"time"
)

// Config is the root configuration for the AniRec service.
type Config struct {
	// Server configures the HTTP listener.
	Server ServerConfig `koanf:"server"`

	// Logging configures the global logger.
	Logging LoggingConfig `koanf:"logging"`

	// Artifacts locates the trained embedding artifacts.
	Artifacts ArtifactsConfig `koanf:"artifacts"`

	// Dataset locates the processed CSV tables.
	Dataset DatasetConfig `koanf:"dataset"`

	// Recommend tunes the recommendation engine.
	Recommend RecommendConfig `koanf:"recommend"`

	// API configures request handling limits.
	API APIConfig `koanf:"api"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Host is the bind address.
	Host string `koanf:"host" validate:"required"`

	// Port is the listen port.
	Port int `koanf:"port" validate:"gt=0,lte=65535"`

	// Timeout bounds request read/write.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	// Level is the minimum log level.
	Level string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`

	// Format is json or console.
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller info in log lines.
	Caller bool `koanf:"caller"`
}

// ArtifactsConfig locates the embedding artifacts produced by the training
// pipeline.
type ArtifactsConfig struct {
	// UserWeightsPath is the user embedding artifact file.
	UserWeightsPath string `koanf:"user_weights_path" validate:"required"`

	// AnimeWeightsPath is the anime embedding artifact file.
	AnimeWeightsPath string `koanf:"anime_weights_path" validate:"required"`

	// Watch reloads artifacts when the files change on disk.
	Watch bool `koanf:"watch"`

	// WatchDebounce coalesces bursts of file events into one reload.
	WatchDebounce time.Duration `koanf:"watch_debounce" validate:"gte=0"`
}

// DatasetConfig locates the processed tables produced by the ETL pipeline.
type DatasetConfig struct {
	// RatingsPath is the ratings CSV (user_id, anime_id, rating).
	RatingsPath string `koanf:"ratings_path" validate:"required"`

	// AnimePath is the anime metadata CSV.
	AnimePath string `koanf:"anime_path" validate:"required"`

	// SynopsisPath is the synopsis CSV.
	SynopsisPath string `koanf:"synopsis_path" validate:"required"`

	// MaxMemory is the DuckDB memory limit (e.g. "1GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count; 0 uses all CPUs.
	Threads int `koanf:"threads" validate:"gte=0"`
}

// RecommendConfig tunes the recommendation engine.
type RecommendConfig struct {
	// SimilarUsers is how many peers feed the collaborative signal.
	SimilarUsers int `koanf:"similar_users" validate:"gt=0"`

	// Results is how many collaborative candidates are pooled.
	Results int `koanf:"results" validate:"gt=0"`

	// NeighborsPerSeed is how many anime each seed expands into.
	NeighborsPerSeed int `koanf:"neighbors_per_seed" validate:"gt=0"`

	// PreferencePercentile is the per-user rating cutoff percentile.
	PreferencePercentile float64 `koanf:"preference_percentile" validate:"gte=0,lte=100"`

	// UserWeight is the default collaborative fusion weight.
	UserWeight float64 `koanf:"user_weight"`

	// ContentWeight is the default content fusion weight.
	ContentWeight float64 `koanf:"content_weight"`

	// CacheTTL is how long fused responses stay cached.
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gte=0"`

	// CacheMaxEntries bounds the response cache.
	CacheMaxEntries int `koanf:"cache_max_entries" validate:"gt=0"`

	// MaxResults caps the n a caller may request.
	MaxResults int `koanf:"max_results" validate:"gt=0"`
}

// APIConfig configures request handling limits.
type APIConfig struct {
	// RateLimitRequests is the per-IP request budget per window.
	RateLimitRequests int `koanf:"rate_limit_requests" validate:"gt=0"`

	// RateLimitWindow is the rate limit window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"gt=0"`

	// CORSOrigins lists allowed origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// defaultConfig returns a Config with all default values. Defaults mirror
// the training pipeline's artifact layout so a fresh checkout runs against
// a local artifacts/ directory.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8600,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Artifacts: ArtifactsConfig{
			UserWeightsPath:  "artifacts/weights/user_weights.gob.gz",
			AnimeWeightsPath: "artifacts/weights/anime_weights.gob.gz",
			Watch:            false,
			WatchDebounce:    2 * time.Second,
		},
		Dataset: DatasetConfig{
			RatingsPath:  "artifacts/processed/rating_df.csv",
			AnimePath:    "artifacts/processed/anime_df.csv",
			SynopsisPath: "artifacts/processed/synopsis_df.csv",
			MaxMemory:    "1GB",
			Threads:      0,
		},
		Recommend: RecommendConfig{
			SimilarUsers:         5,
			Results:              10,
			NeighborsPerSeed:     5,
			PreferencePercentile: 75,
			UserWeight:           0.6,
			ContentWeight:        0.4,
			CacheTTL:             5 * time.Minute,
			CacheMaxEntries:      10000,
			MaxResults:           100,
		},
		API: APIConfig{
			RateLimitRequests: 100,
			RateLimitWindow:   1 * time.Minute,
			CORSOrigins:       []string{"*"},
		},
	}
}
