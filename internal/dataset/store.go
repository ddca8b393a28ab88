// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

// Package dataset serves the processed recommendation tables from an
// in-memory DuckDB instance. Three CSV exports produced by the training
// pipeline are ingested once at startup:
//
//	ratings.csv   user_id, anime_id, rating
//	anime.csv     anime_id, english_name, name, genres, score,
//	              episodes, type, premiered, members
//	synopsis.csv  anime_id, name, synopsis
//
// The tables are read-only after ingestion; every query runs against the
// embedded database with a bounded timeout.
package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/anirec/internal/metrics"
	"github.com/tomtom215/anirec/internal/recommend"
)

const (
	ingestTimeout = 2 * time.Minute
	queryTimeout  = 10 * time.Second
)

// Config locates the CSV exports and sizes the embedded database.
type Config struct {
	RatingsPath  string
	AnimePath    string
	SynopsisPath string

	// MaxMemory is a DuckDB memory_limit value such as "512MB".
	// Empty means the DuckDB default.
	MaxMemory string

	// Threads caps DuckDB's worker threads. Zero means the default.
	Threads int
}

// Store implements recommend.DataProvider on top of DuckDB.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open creates the in-memory database and ingests the three CSV files.
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*Store, error) {
	if cfg.RatingsPath == "" || cfg.AnimePath == "" || cfg.SynopsisPath == "" {
		return nil, errors.New("dataset: ratings, anime and synopsis paths are required")
	}

	dsn := buildDSN(cfg)
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("dataset: open duckdb: %w", err)
	}
	// A single in-memory catalog; one connection avoids per-connection
	// catalog copies.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("dataset: ping duckdb: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger.With().Str("component", "dataset").Logger(),
	}
	if err := s.ingest(ctx, cfg); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the embedded database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable, for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

func buildDSN(cfg Config) string {
	params := make([]string, 0, 2)
	if cfg.MaxMemory != "" {
		params = append(params, "memory_limit="+cfg.MaxMemory)
	}
	if cfg.Threads > 0 {
		params = append(params, fmt.Sprintf("threads=%d", cfg.Threads))
	}
	if len(params) == 0 {
		return ":memory:"
	}
	return ":memory:?" + strings.Join(params, "&")
}

// ingest loads the CSVs into typed tables. TRY_CAST tolerates the
// "Unknown" placeholders some exports carry in numeric columns.
func (s *Store) ingest(ctx context.Context, cfg Config) error {
	ctx, cancel := context.WithTimeout(ctx, ingestTimeout)
	defer cancel()
	start := time.Now()

	stmts := []struct {
		name string
		sql  string
	}{
		{"ratings", fmt.Sprintf(`
			CREATE TABLE ratings AS
			SELECT user_id::INTEGER  AS user_id,
			       anime_id::INTEGER AS anime_id,
			       rating::DOUBLE    AS rating
			FROM read_csv(%s, header=true)`, sqlString(cfg.RatingsPath))},
		{"anime", fmt.Sprintf(`
			CREATE TABLE anime AS
			SELECT anime_id::INTEGER            AS anime_id,
			       english_name::VARCHAR       AS english_name,
			       name::VARCHAR               AS name,
			       genres::VARCHAR             AS genres,
			       TRY_CAST(score AS DOUBLE)   AS score,
			       episodes::VARCHAR           AS episodes,
			       type::VARCHAR               AS type,
			       premiered::VARCHAR          AS premiered,
			       TRY_CAST(members AS BIGINT) AS members
			FROM read_csv(%s, header=true)`, sqlString(cfg.AnimePath))},
		{"synopsis", fmt.Sprintf(`
			CREATE TABLE synopsis AS
			SELECT anime_id::INTEGER AS anime_id,
			       name::VARCHAR     AS name,
			       synopsis::VARCHAR AS synopsis
			FROM read_csv(%s, header=true)`, sqlString(cfg.SynopsisPath))},
		{"ratings_user_idx", `CREATE INDEX idx_ratings_user ON ratings (user_id)`},
		{"anime_id_idx", `CREATE INDEX idx_anime_id ON anime (anime_id)`},
		{"anime_name_idx", `CREATE INDEX idx_anime_name ON anime (english_name)`},
		{"synopsis_id_idx", `CREATE INDEX idx_synopsis_id ON synopsis (anime_id)`},
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt.sql); err != nil {
			return fmt.Errorf("dataset: ingest %s: %w", stmt.name, err)
		}
	}

	var ratings, anime, synopses int64
	row := s.db.QueryRowContext(ctx, `
		SELECT (SELECT count(*) FROM ratings),
		       (SELECT count(*) FROM anime),
		       (SELECT count(*) FROM synopsis)`)
	if err := row.Scan(&ratings, &anime, &synopses); err != nil {
		return fmt.Errorf("dataset: count tables: %w", err)
	}
	s.logger.Info().
		Int64("ratings", ratings).
		Int64("anime", anime).
		Int64("synopses", synopses).
		Dur("duration", time.Since(start)).
		Msg("dataset ingested")
	return nil
}

// sqlString quotes a value as a DuckDB string literal.
func sqlString(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// RatingsForUser returns every rating row for one user. Users with no
// rows yield an empty slice.
func (s *Store) RatingsForUser(ctx context.Context, userID int) ([]recommend.Rating, error) {
	defer metrics.ObserveDatasetQuery("ratings_for_user", time.Now())
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, anime_id, rating
		FROM ratings
		WHERE user_id = ?
		ORDER BY anime_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("dataset: query ratings for user %d: %w", userID, err)
	}
	defer rows.Close()

	var ratings []recommend.Rating
	for rows.Next() {
		var r recommend.Rating
		if err := rows.Scan(&r.UserID, &r.AnimeID, &r.Rating); err != nil {
			return nil, fmt.Errorf("dataset: scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dataset: iterate ratings: %w", err)
	}
	return ratings, nil
}

// AnimeByID returns the metadata row for one anime ID.
func (s *Store) AnimeByID(ctx context.Context, animeID int) (*recommend.Anime, error) {
	defer metrics.ObserveDatasetQuery("anime_by_id", time.Now())
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, animeSelect+` WHERE anime_id = ?`, animeID)
	anime, err := scanAnime(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, recommend.NewAnimeNotFound(animeID)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: query anime %d: %w", animeID, err)
	}
	return anime, nil
}

// AnimeByName returns the metadata row whose English title exactly
// matches name. When several rows share a title the lowest anime ID
// wins, keeping resolution deterministic.
func (s *Store) AnimeByName(ctx context.Context, name string) (*recommend.Anime, error) {
	defer metrics.ObserveDatasetQuery("anime_by_name", time.Now())
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		animeSelect+` WHERE english_name = ? ORDER BY anime_id LIMIT 1`, name)
	anime, err := scanAnime(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, recommend.NewAnimeNameNotFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: query anime by name %q: %w", name, err)
	}
	return anime, nil
}

// SynopsisByID returns the synopsis text for one anime ID.
func (s *Store) SynopsisByID(ctx context.Context, animeID int) (string, error) {
	defer metrics.ObserveDatasetQuery("synopsis_by_id", time.Now())
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var synopsis sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT synopsis FROM synopsis WHERE anime_id = ?`, animeID).Scan(&synopsis)
	if errors.Is(err, sql.ErrNoRows) {
		return "", recommend.NewSynopsisNotFound(animeID)
	}
	if err != nil {
		return "", fmt.Errorf("dataset: query synopsis %d: %w", animeID, err)
	}
	return synopsis.String, nil
}

const animeSelect = `
	SELECT anime_id, english_name, name, genres, score, episodes, type, premiered, members
	FROM anime`

func scanAnime(row *sql.Row) (*recommend.Anime, error) {
	var (
		a         recommend.Anime
		english   sql.NullString
		name      sql.NullString
		genres    sql.NullString
		score     sql.NullFloat64
		episodes  sql.NullString
		kind      sql.NullString
		premiered sql.NullString
		members   sql.NullInt64
	)
	if err := row.Scan(&a.ID, &english, &name, &genres, &score, &episodes, &kind, &premiered, &members); err != nil {
		return nil, err
	}
	a.EnglishName = english.String
	a.Name = name.String
	a.Genres = genres.String
	a.Score = score.Float64
	a.Episodes = episodes.String
	a.Type = kind.String
	a.Premiered = premiered.String
	a.Members = int(members.Int64)
	return &a, nil
}
