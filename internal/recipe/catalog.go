// Package recipe provides the quest catalog: an ordered, read-only list of
// recipes decoded from YAML at startup.
package recipe

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/moat/internal/domain"
	"github.com/hammamikhairi/moat/internal/logger"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Compile-time interface check.
var _ domain.RecipeSource = (*Catalog)(nil)

// Catalog holds recipes in authoring order. It is never mutated after
// construction, so it is safe for concurrent reads without locking.
type Catalog struct {
	recipes []domain.Recipe
	index   map[string]int
	log     *logger.Logger
}

// NewCatalog returns the built-in catalog.
func NewCatalog(log *logger.Logger) (*Catalog, error) {
	return Parse(builtinCatalog, log)
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string, log *logger.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(data, log)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte, log *logger.Logger) (*Catalog, error) {
	var recipes []domain.Recipe
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&recipes); err != nil {
		return nil, fmt.Errorf("%w: decoding yaml: %v", domain.ErrInvalidCatalog, err)
	}

	c := &Catalog{
		recipes: recipes,
		index:   make(map[string]int, len(recipes)),
		log:     log,
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	log.Debug("loaded catalog with %d recipes", len(recipes))
	return c, nil
}

func (c *Catalog) validate() error {
	if len(c.recipes) == 0 {
		return fmt.Errorf("%w: no recipes", domain.ErrInvalidCatalog)
	}
	for i, r := range c.recipes {
		switch {
		case r.ID == "":
			return fmt.Errorf("%w: entry %d has no id", domain.ErrInvalidCatalog, i+1)
		case r.Level <= 0:
			return fmt.Errorf("%w: %s: level must be positive, got %d", domain.ErrInvalidCatalog, r.ID, r.Level)
		case r.ChaosFactor < 0 || r.ChaosFactor > domain.MaxScore:
			return fmt.Errorf("%w: %s: chaosFactor %.1f out of range [0,100]", domain.ErrInvalidCatalog, r.ID, r.ChaosFactor)
		}
		if _, dup := c.index[r.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidCatalog, r.ID)
		}
		c.index[r.ID] = i
	}
	return nil
}

// All returns every recipe in catalog order. The slice is a fresh copy on
// each call.
func (c *Catalog) All() []domain.Recipe {
	out := make([]domain.Recipe, len(c.recipes))
	for i, r := range c.recipes {
		out[i] = clone(r)
	}
	return out
}

// Len returns the number of recipes.
func (c *Catalog) Len() int { return len(c.recipes) }

// First returns the first recipe in the catalog.
func (c *Catalog) First() domain.Recipe { return clone(c.recipes[0]) }

// FindByID returns the recipe with the given id. The boolean is false when
// no such recipe exists.
func (c *Catalog) FindByID(id string) (domain.Recipe, bool) {
	i, ok := c.index[id]
	if !ok {
		return domain.Recipe{}, false
	}
	return clone(c.recipes[i]), true
}

// clone copies the slices of r so callers cannot reach catalog storage.
func clone(r domain.Recipe) domain.Recipe {
	r.Content = append([]string(nil), r.Content...)
	r.Tips = append([]string(nil), r.Tips...)
	if r.Exhibit != nil {
		ex := *r.Exhibit
		ex.Lines = append([]string(nil), ex.Lines...)
		r.Exhibit = &ex
	}
	return r
}

// IndexOf returns the catalog position of id, or -1.
func (c *Catalog) IndexOf(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// List returns summaries of all recipes in catalog order.
func (c *Catalog) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	c.log.Debug("listing all recipes, count=%d", len(c.recipes))

	out := make([]domain.RecipeSummary, 0, len(c.recipes))
	for _, r := range c.recipes {
		out = append(out, r.Summary())
	}
	return out, nil
}

// Get returns a recipe by ID, or domain.ErrNotFound.
func (c *Catalog) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	r, ok := c.FindByID(id)
	if !ok {
		c.log.Debug("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

// Search returns recipes whose id, title, description or goal contain the
// query string, in catalog order.
func (c *Catalog) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	c.log.Debug("searching recipes for: %s", q)

	var out []domain.RecipeSummary
	for _, r := range c.recipes {
		if matches(r, q) {
			out = append(out, r.Summary())
		}
	}
	return out, nil
}

func matches(r domain.Recipe, query string) bool {
	for _, field := range []string{r.ID, r.Title, r.Description, r.Goal} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
