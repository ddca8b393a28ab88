// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubReloader struct {
	paths   []string
	reloads atomic.Int64
	err     error
}

func (s *stubReloader) Reload() error {
	s.reloads.Add(1)
	return s.err
}

func (s *stubReloader) Paths() []string {
	return s.paths
}

func TestArtifactWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "user_weights.gob.gz")
	if err := os.WriteFile(target, []byte("v1"), 0o644); err != nil {
		t.Fatalf("seed artifact: %v", err)
	}

	reloader := &stubReloader{paths: []string{target}}
	svc := NewArtifactWatcherService(reloader, 50*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// Give the watcher time to register before mutating the file.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(target, []byte("v2"), 0o644); err != nil {
		t.Fatalf("rewrite artifact: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for reloader.reloads.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("watcher never triggered a reload")
		case err := <-done:
			t.Fatalf("watcher exited early: %v", err)
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestArtifactWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "anime_weights.gob.gz")
	if err := os.WriteFile(target, []byte("v1"), 0o644); err != nil {
		t.Fatalf("seed artifact: %v", err)
	}

	reloader := &stubReloader{paths: []string{target}}
	svc := NewArtifactWatcherService(reloader, 20*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write unrelated file: %v", err)
	}

	time.Sleep(200 * time.Millisecond)
	if got := reloader.reloads.Load(); got != 0 {
		t.Errorf("expected no reloads for unrelated file, got %d", got)
	}
	cancel()
	<-done
}

func TestArtifactWatcherSurvivesReloadFailure(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "user_weights.gob.gz")
	if err := os.WriteFile(target, []byte("v1"), 0o644); err != nil {
		t.Fatalf("seed artifact: %v", err)
	}

	reloader := &stubReloader{paths: []string{target}, err: errors.New("corrupt artifact")}
	svc := NewArtifactWatcherService(reloader, 20*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(target, []byte("v2"), 0o644); err != nil {
		t.Fatalf("rewrite artifact: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for reloader.reloads.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("watcher never attempted the reload")
		case err := <-done:
			t.Fatalf("watcher exited on reload failure: %v", err)
		case <-time.After(20 * time.Millisecond):
		}
	}
	cancel()
	<-done
}
