// Package todo provides the canonical reducer pair shipped with braid:
// a todo-list slice and a visibility-filter slice. It doubles as the
// reference for writing combinable reducers — note how both reducers return
// their input unchanged for action types they do not recognize.
package todo

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Todo represents a single todo item.
type Todo struct {
	ID       string `json:"id" mapstructure:"id"`
	Task     string `json:"task" mapstructure:"task"`
	Complete bool   `json:"complete" mapstructure:"complete"`
}

// Filter selects which todos are visible.
type Filter string

const (
	FilterAll        Filter = "ALL"
	FilterComplete   Filter = "COMPLETE"
	FilterIncomplete Filter = "INCOMPLETE"
)

// Slice keys under which the reducers are conventionally combined.
const (
	SliceTodos  = "todos"
	SliceFilter = "filter"
)

// TodosFrom coerces a combined-state value back into []Todo. It accepts the
// in-process representation directly and decodes the generic slices produced
// by JSON persistence via mapstructure.
func TodosFrom(value any) ([]Todo, error) {
	if value == nil {
		return nil, nil
	}
	if todos, ok := value.([]Todo); ok {
		return todos, nil
	}
	var todos []Todo
	if err := mapstructure.Decode(value, &todos); err != nil {
		return nil, fmt.Errorf("decode todos slice: %w", err)
	}
	return todos, nil
}

// FilterFrom coerces a combined-state value back into a Filter.
func FilterFrom(value any) (Filter, error) {
	switch v := value.(type) {
	case Filter:
		return v, nil
	case string:
		return Filter(v), nil
	case nil:
		return FilterAll, nil
	default:
		return "", fmt.Errorf("decode filter slice: unexpected type %T", value)
	}
}

// Visible returns the todos matching the filter.
func Visible(todos []Todo, filter Filter) []Todo {
	if filter == FilterAll {
		return todos
	}
	wantComplete := filter == FilterComplete
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if t.Complete == wantComplete {
			out = append(out, t)
		}
	}
	return out
}
