package todo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahunallar/braid/pkg/todo"
)

func TestTodosFrom(t *testing.T) {
	t.Run("Native Slice", func(t *testing.T) {
		in := seed()
		out, err := todo.TodosFrom(in)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("Generic Maps", func(t *testing.T) {
		// The shape a snapshot comes back in after a JSON roundtrip.
		out, err := todo.TodosFrom([]any{
			map[string]any{"id": "a", "task": "X", "complete": true},
		})
		require.NoError(t, err)
		assert.Equal(t, []todo.Todo{{ID: "a", Task: "X", Complete: true}}, out)
	})

	t.Run("Nil", func(t *testing.T) {
		out, err := todo.TodosFrom(nil)
		require.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := todo.TodosFrom(42)
		assert.Error(t, err)
	})
}

func TestFilterFrom(t *testing.T) {
	f, err := todo.FilterFrom("COMPLETE")
	require.NoError(t, err)
	assert.Equal(t, todo.FilterComplete, f)

	f, err = todo.FilterFrom(todo.FilterIncomplete)
	require.NoError(t, err)
	assert.Equal(t, todo.FilterIncomplete, f)

	f, err = todo.FilterFrom(nil)
	require.NoError(t, err)
	assert.Equal(t, todo.FilterAll, f)

	_, err = todo.FilterFrom(7)
	assert.Error(t, err)
}

func TestVisible(t *testing.T) {
	todos := seed()

	assert.Equal(t, todos, todo.Visible(todos, todo.FilterAll))
	assert.Equal(t, []todo.Todo{todos[1]}, todo.Visible(todos, todo.FilterComplete))
	assert.Equal(t, []todo.Todo{todos[0]}, todo.Visible(todos, todo.FilterIncomplete))
}
