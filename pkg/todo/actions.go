package todo

import (
	"github.com/google/uuid"

	"github.com/noahunallar/braid/pkg/domain"
)

// Action types recognized by the todos and filter reducers.
const (
	ActionAdd  = "ADD_TODO"
	ActionDo   = "DO_TODO"
	ActionUndo = "UNDO_TODO"

	ActionShowAll        = "SHOW_ALL"
	ActionShowComplete   = "SHOW_COMPLETE"
	ActionShowIncomplete = "SHOW_INCOMPLETE"
)

// AddPayload is the payload for ADD_TODO.
type AddPayload struct {
	ID   string `json:"id" mapstructure:"id"`
	Task string `json:"task" mapstructure:"task"`
}

// TogglePayload is the payload for DO_TODO and UNDO_TODO.
type TogglePayload struct {
	ID string `json:"id" mapstructure:"id"`
}

// Add creates an ADD_TODO action. The ID is generated here, at the dispatch
// call site, so the reducer stays pure.
func Add(task string) domain.Action {
	return domain.NewAction(ActionAdd, AddPayload{ID: uuid.NewString(), Task: task})
}

// Do creates a DO_TODO action marking the todo with the given ID complete.
func Do(id string) domain.Action {
	return domain.NewAction(ActionDo, TogglePayload{ID: id})
}

// Undo creates an UNDO_TODO action marking the todo incomplete again.
func Undo(id string) domain.Action {
	return domain.NewAction(ActionUndo, TogglePayload{ID: id})
}

// Show creates the filter-selection action for the given filter.
func Show(filter Filter) domain.Action {
	switch filter {
	case FilterComplete:
		return domain.NewAction(ActionShowComplete, nil)
	case FilterIncomplete:
		return domain.NewAction(ActionShowIncomplete, nil)
	default:
		return domain.NewAction(ActionShowAll, nil)
	}
}

// ActionTypes lists every action type the two reducers recognize, in a form
// convenient for middleware.Allowlist.
func ActionTypes() []string {
	return []string{
		ActionAdd, ActionDo, ActionUndo,
		ActionShowAll, ActionShowComplete, ActionShowIncomplete,
	}
}
