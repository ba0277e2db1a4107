package domain

import "time"

// Snapshot is a point-in-time copy of a store's combined state, suitable for
// persistence. Slices maps each slice key to its sub-state value at capture
// time. Snapshots are plain data: loading one back into a store goes through
// Hydrate, which validates the keys against the store's registered slices.
type Snapshot struct {
	// SessionID identifies the logical session this snapshot belongs to.
	SessionID string `json:"session_id"`

	// Slices holds the captured sub-state per slice key.
	Slices map[string]any `json:"slices"`

	// Version is the store's dispatch counter at capture time.
	Version uint64 `json:"version"`

	// UpdatedAt records when the snapshot was captured.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSnapshot creates an empty snapshot for a session.
func NewSnapshot(sessionID string) *Snapshot {
	return &Snapshot{
		SessionID: sessionID,
		Slices:    make(map[string]any),
	}
}
