// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package recommend

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel matched by errors.Is for every typed
// not-found failure produced by the engine or a DataProvider.
var ErrNotFound = errors.New("not found")

// ErrNoEmbeddings indicates that no embedding snapshot is loaded yet.
var ErrNoEmbeddings = errors.New("no embedding snapshot loaded")

// NotFoundError reports that an entity required by a lookup does not
// exist. Kind identifies the entity class ("user", "anime", "synopsis")
// and Key is the identifier that missed.
type NotFoundError struct {
	Kind string
	Key  any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Kind, e.Key)
}

// Is makes errors.Is(err, ErrNotFound) succeed for all NotFoundError values.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewUserNotFound returns a NotFoundError for a missing user ID.
func NewUserNotFound(userID int) *NotFoundError {
	return &NotFoundError{Kind: "user", Key: userID}
}

// NewAnimeNotFound returns a NotFoundError for a missing anime ID.
func NewAnimeNotFound(animeID int) *NotFoundError {
	return &NotFoundError{Kind: "anime", Key: animeID}
}

// NewAnimeNameNotFound returns a NotFoundError for a name with no
// matching anime row.
func NewAnimeNameNotFound(name string) *NotFoundError {
	return &NotFoundError{Kind: "anime", Key: name}
}

// NewSynopsisNotFound returns a NotFoundError for an anime ID with no
// synopsis row.
func NewSynopsisNotFound(animeID int) *NotFoundError {
	return &NotFoundError{Kind: "synopsis", Key: animeID}
}
