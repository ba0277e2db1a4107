package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahunallar/braid/internal/logging"
)

func runScript(t *testing.T, script string, opts DemoOptions) string {
	t.Helper()
	store, err := NewTodoStore(logging.NewNop())
	require.NoError(t, err)

	var out bytes.Buffer
	opts.In = strings.NewReader(script)
	opts.Out = &out
	opts.Plain = true

	require.NoError(t, RunDemo(context.Background(), store, opts))
	return out.String()
}

func TestRunDemo_Scripted(t *testing.T) {
	out := runScript(t, "add write tests\ndone 1\nfilter complete\nquit\n", DemoOptions{})

	assert.Contains(t, out, "[ ] write tests")
	assert.Contains(t, out, "[x] write tests")
	assert.Contains(t, out, "# Todos (complete)")
}

func TestRunDemo_SessionHeader(t *testing.T) {
	out := runScript(t, "quit\n", DemoOptions{SessionID: "alice"})
	assert.Contains(t, out, "session alice")
}

func TestRunDemo_BadPosition(t *testing.T) {
	out := runScript(t, "done 5\nquit\n", DemoOptions{})
	assert.Contains(t, out, "no todo at position 5")
}
