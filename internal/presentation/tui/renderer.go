package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// CheckReport summarizes one check for display.
type CheckReport struct {
	Source  string
	Schema  string
	Invalid bool
}

// Markdown renders the report as a markdown document.
func (c CheckReport) Markdown() string {
	var b strings.Builder

	verdict := "✅ **conforms**"
	if c.Invalid {
		verdict = "❌ **does not conform**"
	}

	fmt.Fprintf(&b, "# Structure check\n\n")
	fmt.Fprintf(&b, "`%s` %s\n\n", c.Source, verdict)
	fmt.Fprintf(&b, "```\n%s\n```\n", c.Schema)
	return b.String()
}

// Plain renders the report as a single line.
func (c CheckReport) Plain() string {
	if c.Invalid {
		return fmt.Sprintf("%s: invalid", c.Source)
	}
	return fmt.Sprintf("%s: valid", c.Source)
}
