package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the snapshot store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownSlice is returned when a snapshot or caller references a slice key
// the store was not built with.
var ErrUnknownSlice = errors.New("unknown slice")

// ErrDuplicateSlice is returned when two slices are registered under the same key.
var ErrDuplicateSlice = errors.New("duplicate slice key")

// ErrActionBlocked is returned when a dispatch interceptor denies an action.
var ErrActionBlocked = errors.New("action blocked by policy")
