package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/noahunallar/braid"
	"github.com/noahunallar/braid/internal/tui"
	"github.com/noahunallar/braid/pkg/todo"
)

// DemoOptions contains the configuration for the demo command.
type DemoOptions struct {
	In    io.Reader
	Out   io.Writer
	Plain bool // skip glamour rendering (non-TTY or --plain)

	// SessionID names the persisted session the store was hydrated from.
	// Empty for the throwaway in-memory demo.
	SessionID string
}

// RunDemo drives the interactive todo loop against the given store.
// Commands: add <task>, done <n>, undo <n>, filter <all|complete|incomplete>,
// list, quit. The numbers refer to the currently visible list.
func RunDemo(ctx context.Context, store *braid.Store, opts DemoOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	interactive := false
	if f, ok := opts.In.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	if interactive && !opts.Plain {
		tui.PrintBanner()
	}
	if opts.SessionID != "" {
		fmt.Fprintf(opts.Out, "session %s (saved on quit)\n", opts.SessionID)
	}

	render := tui.NewRenderer()
	show := func() {
		todos, filter, err := currentView(store)
		if err != nil {
			fmt.Fprintf(opts.Out, "error: %v\n", err)
			return
		}
		markdown := tui.TodoMarkdown(todos, filter)
		if opts.Plain {
			fmt.Fprint(opts.Out, markdown)
			return
		}
		out, err := render(markdown)
		if err != nil {
			fmt.Fprint(opts.Out, markdown)
			return
		}
		fmt.Fprint(opts.Out, out)
	}

	show()
	scanner := bufio.NewScanner(opts.In)
	for {
		if interactive {
			fmt.Fprint(opts.Out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "quit", "exit", "q":
			return nil
		case "list", "ls":
			show()
		case "add":
			if rest == "" {
				fmt.Fprintln(opts.Out, "usage: add <task>")
				continue
			}
			if err := store.Dispatch(ctx, todo.Add(rest)); err != nil {
				fmt.Fprintf(opts.Out, "error: %v\n", err)
				continue
			}
			show()
		case "done", "undo":
			id, err := visibleID(store, rest)
			if err != nil {
				fmt.Fprintf(opts.Out, "error: %v\n", err)
				continue
			}
			action := todo.Do(id)
			if cmd == "undo" {
				action = todo.Undo(id)
			}
			if err := store.Dispatch(ctx, action); err != nil {
				fmt.Fprintf(opts.Out, "error: %v\n", err)
				continue
			}
			show()
		case "filter":
			var f todo.Filter
			switch strings.ToLower(rest) {
			case "all":
				f = todo.FilterAll
			case "complete", "done":
				f = todo.FilterComplete
			case "incomplete", "open":
				f = todo.FilterIncomplete
			default:
				fmt.Fprintln(opts.Out, "usage: filter <all|complete|incomplete>")
				continue
			}
			if err := store.Dispatch(ctx, todo.Show(f)); err != nil {
				fmt.Fprintf(opts.Out, "error: %v\n", err)
				continue
			}
			show()
		default:
			fmt.Fprintln(opts.Out, "commands: add <task> | done <n> | undo <n> | filter <all|complete|incomplete> | list | quit")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// currentView reads the typed todos and filter out of the combined state.
func currentView(store *braid.Store) ([]todo.Todo, todo.Filter, error) {
	state := store.State()
	todos, err := todo.TodosFrom(state[todo.SliceTodos])
	if err != nil {
		return nil, "", err
	}
	filter, err := todo.FilterFrom(state[todo.SliceFilter])
	if err != nil {
		return nil, "", err
	}
	return todos, filter, nil
}

// visibleID maps a 1-based position in the visible list to a todo ID.
func visibleID(store *braid.Store, arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return "", fmt.Errorf("expected a list position, got %q", arg)
	}
	todos, filter, err := currentView(store)
	if err != nil {
		return "", err
	}
	visible := todo.Visible(todos, filter)
	if n > len(visible) {
		return "", fmt.Errorf("no todo at position %d", n)
	}
	return visible[n-1].ID, nil
}
