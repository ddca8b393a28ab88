// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package embedding

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Snapshot is a consistent pair of user and anime spaces. Requests read one
// snapshot for their whole lifetime, so a concurrent reload never mixes
// generations.
type Snapshot struct {
	Users *Space
	Anime *Space

	// LoadedAt is when this snapshot was read from disk.
	LoadedAt time.Time
}

// Provider loads the user and anime embedding artifacts and swaps in new
// snapshots atomically when the training pipeline rewrites them.
type Provider struct {
	userPath  string
	animePath string
	logger    zerolog.Logger

	current  atomic.Pointer[Snapshot]
	reloadMu sync.Mutex

	// onReload callbacks run after a successful swap (cache invalidation).
	onReload []func()
}

// NewProvider creates a provider and performs the initial load.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewProvider(userPath, animePath string, logger zerolog.Logger) (*Provider, error) {
	p := &Provider{
		userPath:  userPath,
		animePath: animePath,
		logger:    logger.With().Str("component", "embedding").Logger(),
	}

	if err := p.Reload(); err != nil {
		return nil, err
	}

	return p, nil
}

// Snapshot returns the current snapshot. Never nil after NewProvider succeeds.
func (p *Provider) Snapshot() *Snapshot {
	return p.current.Load()
}

// OnReload registers a callback invoked after each successful reload.
func (p *Provider) OnReload(fn func()) {
	p.reloadMu.Lock()
	defer p.reloadMu.Unlock()
	p.onReload = append(p.onReload, fn)
}

// Reload reads both artifacts and atomically swaps the snapshot. On any
// failure the previous snapshot stays in place.
func (p *Provider) Reload() error {
	p.reloadMu.Lock()
	defer p.reloadMu.Unlock()

	users, userMeta, err := Load(p.userPath)
	if err != nil {
		return fmt.Errorf("load user embeddings: %w", err)
	}

	anime, animeMeta, err := Load(p.animePath)
	if err != nil {
		return fmt.Errorf("load anime embeddings: %w", err)
	}

	p.current.Store(&Snapshot{
		Users:    users,
		Anime:    anime,
		LoadedAt: time.Now(),
	})

	p.logger.Info().
		Int("users", users.Len()).
		Int("user_dim", users.Dim()).
		Int("anime", anime.Len()).
		Int("anime_dim", anime.Dim()).
		Str("user_checksum", userMeta.Checksum).
		Str("anime_checksum", animeMeta.Checksum).
		Msg("embedding artifacts loaded")

	for _, fn := range p.onReload {
		fn()
	}

	return nil
}

// Paths returns the artifact file paths the provider watches.
func (p *Provider) Paths() []string {
	return []string{p.userPath, p.animePath}
}
