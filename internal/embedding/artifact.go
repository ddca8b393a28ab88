// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package embedding

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"
)

// ArtifactMetadata describes a stored embedding artifact.
type ArtifactMetadata struct {
	// Name identifies the space ("user" or "anime").
	Name string `json:"name"`

	// SavedAt is when the artifact was written.
	SavedAt time.Time `json:"saved_at"`

	// Count is the number of vectors.
	Count int `json:"count"`

	// Dim is the vector dimensionality.
	Dim int `json:"dim"`

	// Checksum is the SHA-256 checksum of the uncompressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// artifactPayload is the gob-encoded body of an artifact file.
type artifactPayload struct {
	IDs     []int
	Vectors [][]float64
}

// artifactFile is the on-disk format: metadata plus the gzip-compressed,
// gob-encoded payload, written as a single gob stream.
type artifactFile struct {
	Metadata       ArtifactMetadata
	CompressedData []byte
}

// Save writes a Space to path as a checksummed artifact. It exists for the
// export tooling and for tests; the server itself only loads.
func Save(path, name string, s *Space) error {
	ids := make([]int, s.Len())
	for i := range ids {
		id, ok := s.ID(i)
		if !ok {
			return fmt.Errorf("row %d has no id", i)
		}
		ids[i] = id
	}

	payload := artifactPayload{IDs: ids, Vectors: s.vectors}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(payload); err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	raw := buf.Bytes()

	hash := sha256.Sum256(raw)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw); err != nil {
		return fmt.Errorf("compress payload: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	af := artifactFile{
		Metadata: ArtifactMetadata{
			Name:      name,
			SavedAt:   time.Now(),
			Count:     s.Len(),
			Dim:       s.Dim(),
			Checksum:  hex.EncodeToString(hash[:]),
			SizeBytes: int64(compressed.Len()),
		},
		CompressedData: compressed.Bytes(),
	}

	f, err := os.Create(path) //nolint:gosec // path comes from trusted configuration
	if err != nil {
		return fmt.Errorf("create artifact file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // close error after write surfaces via Encode

	if err := gob.NewEncoder(f).Encode(af); err != nil {
		return fmt.Errorf("write artifact file: %w", err)
	}

	return nil
}

// Load reads a Space from an artifact file, verifying the checksum.
func Load(path string) (*Space, *ArtifactMetadata, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from trusted configuration
	if err != nil {
		return nil, nil, fmt.Errorf("open artifact file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // close error after read is not actionable

	var af artifactFile
	if err := gob.NewDecoder(f).Decode(&af); err != nil {
		return nil, nil, fmt.Errorf("read artifact file: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(af.CompressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("decompress artifact: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // close error after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("read decompressed payload: %w", err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != af.Metadata.Checksum {
		return nil, nil, fmt.Errorf("checksum mismatch: expected %s, got %s", af.Metadata.Checksum, checksum)
	}

	var payload artifactPayload
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&payload); err != nil {
		return nil, nil, fmt.Errorf("decode payload: %w", err)
	}

	space, err := NewSpace(payload.IDs, payload.Vectors)
	if err != nil {
		return nil, nil, fmt.Errorf("build space: %w", err)
	}

	return space, &af.Metadata, nil
}
