package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/hammamikhairi/moat/internal/domain"
)

// Button labels of the main panel.
const (
	ButtonExecute  = "Execute Sabotage ➔"
	ButtonDeployed = "Deployed ✓"
)

// Slogan runs under every recipe description.
const Slogan = "LARS KNOWS WHY // ASK NO QUESTIONS // MOAT FORTIFIED"

// RecipeMarkdown returns the main-panel briefing for r as Markdown. done
// selects the button state.
func RecipeMarkdown(r domain.Recipe, done bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# PHASE %02d\n\n", r.Level)
	fmt.Fprintf(&b, "`RE_AUTH: %s`\n\n", strings.ToUpper(r.ID))
	fmt.Fprintf(&b, "## %s\n\n", r.Title)
	if r.Description != "" {
		fmt.Fprintf(&b, "> \"%s\"\n>\n> *%s*\n\n", r.Description, Slogan)
	}

	if len(r.Content) > 0 {
		b.WriteString("### Operational Protocol\n\n")
		for i, step := range r.Content {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
		b.WriteByte('\n')
	}

	if ex := r.Exhibit; ex != nil {
		if ex.Caption != "" {
			fmt.Fprintf(&b, "**%s**\n\n", ex.Caption)
		}
		fmt.Fprintf(&b, "```%s\n%s\n```\n\n", ex.Language, strings.Join(ex.Lines, "\n"))
		if ex.Note != "" {
			fmt.Fprintf(&b, "*⚠ %s*\n\n", ex.Note)
		}
	}

	if len(r.Tips) > 0 {
		b.WriteString("### Shadow Tactics\n\n")
		for _, tip := range r.Tips {
			fmt.Fprintf(&b, "- %s\n", tip)
		}
		b.WriteByte('\n')
	}

	if r.Goal != "" {
		fmt.Fprintf(&b, "### Fortify\n\n%s\n\n", r.Goal)
	}

	b.WriteString("---\n\n")
	if done {
		fmt.Fprintf(&b, "**[ %s ]**\n", ButtonDeployed)
	} else {
		fmt.Fprintf(&b, "**[ %s ]**\n", ButtonExecute)
	}
	return b.String()
}

// Markdown renders briefings for the terminal with glamour.
type Markdown struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdown creates a renderer for the given glamour style ("auto",
// "dark", "light", "notty", ...) wrapping at width columns.
func NewMarkdown(style string, width int) (*Markdown, error) {
	if width < 20 {
		width = 20
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Markdown{style: style, width: width, renderer: r}, nil
}

// Width returns the wrap width.
func (m *Markdown) Width() int { return m.width }

// Render renders md. On failure the raw Markdown is returned with the
// error so callers can still show something.
func (m *Markdown) Render(md string) (string, error) {
	out, err := m.renderer.Render(md)
	if err != nil {
		return md, fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// RenderRecipe renders the briefing of r.
func (m *Markdown) RenderRecipe(r domain.Recipe, done bool) (string, error) {
	return m.Render(RecipeMarkdown(r, done))
}
