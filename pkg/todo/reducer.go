package todo

import (
	"github.com/noahunallar/braid/pkg/domain"
)

// Reducer owns the todos slice. Unknown action types fall through to the
// unchanged input state, which keeps the reducer safe to combine.
func Reducer(state any, action domain.Action) (any, error) {
	todos, err := TodosFrom(state)
	if err != nil {
		return nil, err
	}

	switch action.Type {
	case ActionAdd:
		p, err := domain.DecodePayload[AddPayload](action)
		if err != nil {
			return nil, err
		}
		next := make([]Todo, len(todos), len(todos)+1)
		copy(next, todos)
		return append(next, Todo{ID: p.ID, Task: p.Task}), nil

	case ActionDo:
		p, err := domain.DecodePayload[TogglePayload](action)
		if err != nil {
			return nil, err
		}
		return setComplete(todos, p.ID, true), nil

	case ActionUndo:
		p, err := domain.DecodePayload[TogglePayload](action)
		if err != nil {
			return nil, err
		}
		return setComplete(todos, p.ID, false), nil

	default:
		return state, nil
	}
}

// setComplete returns a new slice with the matching todo's Complete flag set.
// The input slice is never written to.
func setComplete(todos []Todo, id string, complete bool) []Todo {
	next := make([]Todo, len(todos))
	for i, t := range todos {
		if t.ID == id {
			t.Complete = complete
		}
		next[i] = t
	}
	return next
}

// FilterReducer owns the filter slice.
func FilterReducer(state any, action domain.Action) (any, error) {
	switch action.Type {
	case ActionShowAll:
		return FilterAll, nil
	case ActionShowComplete:
		return FilterComplete, nil
	case ActionShowIncomplete:
		return FilterIncomplete, nil
	default:
		return state, nil
	}
}
