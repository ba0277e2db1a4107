package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/noahunallar/braid/pkg/todo"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // detect light/dark background
	)
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// TodoMarkdown builds a markdown view of the visible todos.
func TodoMarkdown(todos []todo.Todo, filter todo.Filter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Todos (%s)\n\n", strings.ToLower(string(filter)))

	visible := todo.Visible(todos, filter)
	if len(visible) == 0 {
		b.WriteString("_nothing here_\n")
		return b.String()
	}

	for i, t := range visible {
		mark := " "
		if t.Complete {
			mark = "x"
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, mark, t.Task)
	}
	return b.String()
}

// PrintBanner outputs the demo banner.
func PrintBanner() {
	p := termenv.ColorProfile()
	s1 := termenv.String(" _                  _             ").Foreground(p.Color("#818cf8"))
	s2 := termenv.String("| |__  _ __ __ _(_) __| |").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String("| '_ \\| '__/ _` | |/ _` |").Foreground(p.Color("#c084fc"))
	s4 := termenv.String("| |_) | | | (_| | | (_| |").Foreground(p.Color("#e879f9"))
	s5 := termenv.String("|_.__/|_|  \\__,_|_|\\__,_|").Foreground(p.Color("#f472b6"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
