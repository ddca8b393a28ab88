// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/tomtom215/anirec/internal/metrics"
)

// Reloader reloads the embedding snapshot from disk.
type Reloader interface {
	Reload() error
	Paths() []string
}

// ArtifactWatcherService watches the embedding artifact files and
// triggers a reload when they change. Writes are debounced because
// artifact swaps typically arrive as several filesystem events (write,
// chmod, rename) in quick succession.
//
// The watcher observes the parent directories rather than the files
// themselves, so atomic rename-into-place deployments are caught even
// though they replace the watched inode.
type ArtifactWatcherService struct {
	reloader Reloader
	debounce time.Duration
	logger   zerolog.Logger
}

// NewArtifactWatcherService creates the watcher service.
func NewArtifactWatcherService(reloader Reloader, debounce time.Duration, logger zerolog.Logger) *ArtifactWatcherService {
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &ArtifactWatcherService{
		reloader: reloader,
		debounce: debounce,
		logger:   logger.With().Str("component", "artifact-watcher").Logger(),
	}
}

// Serve implements suture.Service. It blocks until the context is
// canceled or the underlying watcher fails, in which case the supervisor
// restarts it.
func (s *ArtifactWatcherService) Serve(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create artifact watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]struct{})
	targets := make(map[string]struct{})
	for _, path := range s.reloader.Paths() {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve artifact path %s: %w", path, err)
		}
		targets[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := watched[dir]; ok {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch artifact directory %s: %w", dir, err)
		}
		watched[dir] = struct{}{}
	}
	s.logger.Info().
		Int("directories", len(watched)).
		Dur("debounce", s.debounce).
		Msg("artifact watcher started")

	var timer *time.Timer
	var timerCh <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("artifact watcher event channel closed")
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := targets[abs]; !ok {
				continue
			}
			s.logger.Debug().
				Str("file", event.Name).
				Str("op", event.Op.String()).
				Msg("artifact change detected")
			if timer == nil {
				timer = time.NewTimer(s.debounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(s.debounce)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			if err := s.reloader.Reload(); err != nil {
				metrics.RecordReload(false)
				s.logger.Error().Err(err).Msg("artifact reload failed, keeping previous snapshot")
				continue
			}
			metrics.RecordReload(true)
			s.logger.Info().Msg("artifact reload complete")

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("artifact watcher error channel closed")
			}
			s.logger.Warn().Err(err).Msg("artifact watcher error")
		}
	}
}

// String identifies the service in supervisor logs.
func (s *ArtifactWatcherService) String() string {
	return "artifact-watcher"
}
