// Package storage persists encoded save-game snapshots. Backends
// store the fixed save-format payload produced by the game package,
// keyed by session ID; they never interpret it.
package storage

import (
	"context"

	"github.com/google/uuid"
)

// Storage is the snapshot store interface. LoadState returns ("",
// nil) when no snapshot exists for the session: a missing save is a
// recoverable condition, not an error.
type Storage interface {
	SaveState(ctx context.Context, id uuid.UUID, snapshot string) error
	LoadState(ctx context.Context, id uuid.UUID) (string, error)
	DeleteState(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
	Close() error
}
