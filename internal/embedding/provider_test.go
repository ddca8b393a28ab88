// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package embedding

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func writeTestArtifacts(t *testing.T, dir string) (userPath, animePath string) {
	t.Helper()

	users, err := NewSpace([]int{1, 2}, [][]float64{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatalf("user space: %v", err)
	}
	anime, err := NewSpace([]int{100, 200, 300}, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	if err != nil {
		t.Fatalf("anime space: %v", err)
	}

	userPath = filepath.Join(dir, "user_weights.gob.gz")
	animePath = filepath.Join(dir, "anime_weights.gob.gz")

	if err := Save(userPath, "user", users); err != nil {
		t.Fatalf("save user: %v", err)
	}
	if err := Save(animePath, "anime", anime); err != nil {
		t.Fatalf("save anime: %v", err)
	}
	return userPath, animePath
}

func TestProviderInitialLoad(t *testing.T) {
	userPath, animePath := writeTestArtifacts(t, t.TempDir())

	p, err := NewProvider(userPath, animePath, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	snap := p.Snapshot()
	if snap == nil {
		t.Fatal("nil snapshot after load")
	}
	if snap.Users.Len() != 2 || snap.Anime.Len() != 3 {
		t.Errorf("snapshot sizes %d/%d, want 2/3", snap.Users.Len(), snap.Anime.Len())
	}

	// User and anime spaces may have different dimensions.
	if snap.Users.Dim() == snap.Anime.Dim() {
		t.Errorf("fixture spaces should differ in dimension, both %d", snap.Users.Dim())
	}
}

func TestProviderReloadSwapsAndNotifies(t *testing.T) {
	dir := t.TempDir()
	userPath, animePath := writeTestArtifacts(t, dir)

	p, err := NewProvider(userPath, animePath, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	notified := false
	p.OnReload(func() { notified = true })

	before := p.Snapshot()

	// Rewrite the user artifact with an extra row.
	users, err := NewSpace([]int{1, 2, 3}, [][]float64{{1, 0}, {0, 1}, {1, 1}})
	if err != nil {
		t.Fatalf("user space: %v", err)
	}
	if err := Save(userPath, "user", users); err != nil {
		t.Fatalf("save user: %v", err)
	}

	if err := p.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	after := p.Snapshot()
	if after == before {
		t.Error("snapshot not swapped after reload")
	}
	if after.Users.Len() != 3 {
		t.Errorf("reloaded user space has %d rows, want 3", after.Users.Len())
	}
	if !notified {
		t.Error("OnReload callback not invoked")
	}
}

func TestProviderReloadFailureKeepsSnapshot(t *testing.T) {
	dir := t.TempDir()
	userPath, animePath := writeTestArtifacts(t, dir)

	p, err := NewProvider(userPath, animePath, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	before := p.Snapshot()

	// Corrupt the anime artifact.
	if err := writeGarbage(animePath); err != nil {
		t.Fatalf("corrupt artifact: %v", err)
	}

	if err := p.Reload(); err == nil {
		t.Fatal("expected reload error for corrupt artifact")
	}

	if p.Snapshot() != before {
		t.Error("failed reload must keep the previous snapshot")
	}
}
