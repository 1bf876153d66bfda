// Package storage provides the blob store the walk log and badge state are
// persisted in: a flat key → JSON blob namespace with file and Postgres
// backends. Missing keys are reported with ErrNotFound so callers can fall
// back to empty defaults instead of failing.
package storage

import (
	"context"
	"errors"
)

// Well-known keys used by the repositories
const (
	KeyWalkHistory  = "walk_history"
	KeyEarnedBadges = "earned_badges"
)

// ErrNotFound is returned by Get when no value exists for the key
var ErrNotFound = errors.New("storage: key not found")

// Store is a minimal key → blob contract. Writes replace the whole value;
// there are no transactions and no revision tracking.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close()
}
