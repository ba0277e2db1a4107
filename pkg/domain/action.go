package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Action represents a single intent dispatched through a store.
// Actions are immutable, transient values: created at a dispatch call site,
// consumed synchronously by every combined reducer, then discarded.
type Action struct {
	// Type is the discriminant reducers pattern-match on, e.g. "ADD_TODO".
	Type string `json:"type"`

	// Payload carries reducer-specific data. It may be a typed struct
	// (in-process dispatch) or a map[string]any (actions arriving over a
	// transport). Use DecodePayload to bind it either way.
	Payload any `json:"payload,omitempty"`
}

// NewAction creates an action with the given type and payload.
func NewAction(actionType string, payload any) Action {
	return Action{Type: actionType, Payload: payload}
}

// Reducer is a pure function mapping (current sub-state, action) to the next
// sub-state. Implementations MUST return the input state unchanged, with a
// nil error, for action types they do not recognize: once combined, every
// reducer receives every dispatched action, including those addressed to its
// siblings. A non-nil error is treated as fatal for the dispatch cycle.
//
// Reducers never mutate their input; updates construct and return a new
// value. Ownership of the previous value stays with whoever held it.
type Reducer func(state any, action Action) (any, error)

// DecodePayload binds an action payload to a typed struct.
// If the payload already has the requested type it is returned as-is;
// otherwise it is decoded via mapstructure, which covers payloads that
// arrived as map[string]any from JSON transports (HTTP, MCP) or YAML.
func DecodePayload[T any](action Action) (T, error) {
	if p, ok := action.Payload.(T); ok {
		return p, nil
	}
	var out T
	if err := mapstructure.Decode(action.Payload, &out); err != nil {
		return out, fmt.Errorf("decode %s payload: %w", action.Type, err)
	}
	return out, nil
}
