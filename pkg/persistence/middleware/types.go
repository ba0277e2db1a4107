// Package middleware provides decorators for ports.SnapshotStore.
package middleware

import "github.com/noahunallar/braid/pkg/ports"

// Middleware allows wrapping a SnapshotStore to add behavior.
type Middleware func(ports.SnapshotStore) ports.SnapshotStore
