package ports

import (
	"context"

	"github.com/noahunallar/braid/pkg/domain"
)

// SnapshotStore defines the interface for persisting combined state.
// This enables durable sessions: capture a snapshot, stop the process,
// hydrate a fresh store later and continue dispatching.
type SnapshotStore interface {
	// Save persists the snapshot for a given session ID.
	Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all persisted sessions.
	List(ctx context.Context) ([]string, error)
}
