package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noahunallar/braid/pkg/todo"
)

func TestTodoMarkdown(t *testing.T) {
	todos := []todo.Todo{
		{ID: "a", Task: "write docs", Complete: true},
		{ID: "b", Task: "cut release"},
	}

	md := TodoMarkdown(todos, todo.FilterAll)
	assert.Contains(t, md, "# Todos (all)")
	assert.Contains(t, md, "1. [x] write docs")
	assert.Contains(t, md, "2. [ ] cut release")

	md = TodoMarkdown(todos, todo.FilterIncomplete)
	assert.Contains(t, md, "1. [ ] cut release")
	assert.NotContains(t, md, "write docs")
}

func TestTodoMarkdown_Empty(t *testing.T) {
	md := TodoMarkdown(nil, todo.FilterComplete)
	assert.Contains(t, md, "_nothing here_")
}
