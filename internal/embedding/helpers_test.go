// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package embedding

import "os"

// writeGarbage overwrites path with bytes that are not a valid artifact.
func writeGarbage(path string) error {
	return os.WriteFile(path, []byte("not a gob stream"), 0o600)
}
