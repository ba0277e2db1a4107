package runtime

import (
	"fmt"

	"github.com/noahunallar/braid/pkg/domain"
)

// SliceDef declares one named partition of the combined state:
// a key, the reducer that owns it, and its initial sub-state.
type SliceDef struct {
	Key     string
	Reducer domain.Reducer
	Initial any
}

// slice holds the live sub-state for one key.
type slice struct {
	key     string
	reducer domain.Reducer
	state   any
}

// apply runs the reducer for a single action and swaps in the new sub-state.
// It reports whether the value changed so the store can decide if the cycle
// produced a state change at all.
func (s *slice) apply(action domain.Action) (bool, error) {
	next, err := s.reducer(s.state, action)
	if err != nil {
		return false, fmt.Errorf("slice %q: %w", s.key, err)
	}
	changed := !equal(s.state, next)
	s.state = next
	return changed, nil
}
