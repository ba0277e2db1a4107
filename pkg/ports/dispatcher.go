package ports

import (
	"context"

	"github.com/noahunallar/braid/pkg/domain"
)

// Dispatcher is the surface transports and presentation layers depend on:
// read the combined state, issue actions. Implementations make no assumption
// about how or how often a consumer re-observes state.
type Dispatcher interface {
	// Dispatch forwards the action to every combined reducer.
	Dispatch(ctx context.Context, action domain.Action) error

	// State returns a freshly built view of the combined state.
	State() map[string]any
}
