// Package store persists study records in a collection-keyed record store.
//
// Every backend implements KV: a flat mapping of (collection, id) to a JSON
// document. Typed repositories on top of KV give the scheduler, the ledger
// and the gamification engines their read and write contracts.
package store

import (
	"context"
	"errors"
)

// Collections used by the study engine.
const (
	CollectionItems     = "items"
	CollectionAttempts  = "attempts"
	CollectionStreak    = "streak"
	CollectionChallenge = "challenge_progress"
	CollectionBadges    = "unlocked_badges"
	CollectionErrorTags = "error_tags"
)

// ErrUnavailable is returned by point reads when the backing store could not
// be opened. Bulk reads return empty results instead.
var ErrUnavailable = errors.New("store unavailable")

// Record is one stored document.
type Record struct {
	ID   string
	Data []byte
}

// KV is the persistence contract shared by all backends.
type KV interface {
	// GetAll returns every record in a collection in first-insertion order.
	GetAll(ctx context.Context, collection string) ([]Record, error)

	// Get returns one record, or an error wrapping domain.ErrNotFound.
	Get(ctx context.Context, collection, id string) (Record, error)

	// Put inserts or replaces a record. Replacing keeps the original position.
	Put(ctx context.Context, collection string, rec Record) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Clear removes every record in a collection.
	Clear(ctx context.Context, collection string) error

	Close() error
}
