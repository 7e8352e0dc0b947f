// Package render writes a session snapshot as a standalone HTML page with
// the same layout as the dashboard: sidebar, bars, mission log and the
// selected recipe's briefing.
package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strings"

	"github.com/hammamikhairi/moat/internal/display"
	"github.com/hammamikhairi/moat/internal/domain"
	"github.com/hammamikhairi/moat/internal/engine"
	"github.com/hammamikhairi/moat/internal/logger"
)

//go:embed page.html.tmpl
var pageTemplate string

var funcs = template.FuncMap{
	"percent": func(v float64) int { return int(math.Floor(v)) },
	"width":   func(v float64) string { return fmt.Sprintf("%.2f", math.Max(0, math.Min(domain.MaxScore, v))) },
	"upper":   strings.ToUpper,
	"inc":     func(i int) int { return i + 1 },
	"join":    strings.Join,
}

// Entry is one row of the mission log.
type Entry struct {
	Recipe domain.Recipe
	Active bool
	Done   bool
}

// Page is the data passed to the template.
type Page struct {
	Progress   domain.Progress
	Entries    []Entry
	Active     *domain.Recipe
	ActiveDone bool
	Slogan     string
	Warnings   int
}

// Renderer renders pages from the embedded template.
type Renderer struct {
	tmpl *template.Template
	log  *logger.Logger
}

// New parses the page template.
func New(log *logger.Logger) (*Renderer, error) {
	tmpl, err := template.New("page").Funcs(funcs).Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &Renderer{tmpl: tmpl, log: log}, nil
}

// Build assembles the template data for session over recipes.
func Build(recipes []domain.Recipe, session *domain.Session) Page {
	page := Page{
		Progress: session.Progress.Clone(),
		Entries:  make([]Entry, 0, len(recipes)),
		Slogan:   display.Slogan,
		Warnings: 500 + int(math.Floor(session.Progress.ChaosMeter*5)),
	}
	for i := range recipes {
		r := recipes[i]
		e := Entry{
			Recipe: r,
			Active: r.ID == session.Selected,
			Done:   engine.IsDone(session, r.ID),
		}
		if e.Active {
			page.Active = &r
			page.ActiveDone = e.Done
		}
		page.Entries = append(page.Entries, e)
	}
	if page.Active == nil && len(recipes) > 0 {
		first := recipes[0]
		page.Active = &first
		page.ActiveDone = engine.IsDone(session, first.ID)
	}
	return page
}

// Render writes the page for session to w.
func (r *Renderer) Render(w io.Writer, recipes []domain.Recipe, session *domain.Session) error {
	page := Build(recipes, session)
	if err := r.tmpl.Execute(w, page); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	r.log.Debug("rendered page for session %s (selected=%s)", session.ID, session.Selected)
	return nil
}
