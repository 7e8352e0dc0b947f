package recipe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hammamikhairi/moat/internal/domain"
	"github.com/hammamikhairi/moat/internal/logger"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("loading built-in catalog: %v", err)
	}
	return c
}

func TestBuiltinCatalogOrder(t *testing.T) {
	c := newTestCatalog(t)

	want := []string{
		"infra-art",
		"flaky-tests",
		"tribal-knowledge",
		"weaponized-any",
		"feedback-crawl",
		"static-analysis-sabotage",
		"dark-arts-rule-soup",
		"invisible-flow",
		"database-logic",
		"scatter-frontend",
		"head-architecture",
	}
	var got []string
	for _, r := range c.All() {
		got = append(got, r.ID)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("catalog order mismatch (-want +got):\n%s", diff)
	}
	if c.First().ID != "infra-art" {
		t.Fatalf("expected first entry infra-art, got %s", c.First().ID)
	}
}

func TestAllIsStable(t *testing.T) {
	c := newTestCatalog(t)

	first := c.All()
	first[0].Title = "mutated"
	first[0].Content[0] = "mutated"

	if diff := cmp.Diff(c.All(), c.All()); diff != "" {
		t.Fatalf("All() differs between calls:\n%s", diff)
	}
	if c.All()[0].Title == "mutated" || c.All()[0].Content[0] == "mutated" {
		t.Fatal("mutating the result of All() leaked into the catalog")
	}
}

func TestFindByID(t *testing.T) {
	c := newTestCatalog(t)

	for _, r := range c.All() {
		t.Run(r.ID, func(t *testing.T) {
			got, ok := c.FindByID(r.ID)
			if !ok {
				t.Fatalf("FindByID(%q) reported absence", r.ID)
			}
			if diff := cmp.Diff(r, got); diff != "" {
				t.Fatalf("FindByID mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, ok := c.FindByID("nonexistent"); ok {
		t.Fatal("FindByID(nonexistent) should report absence")
	}
}

func TestCatalogInvariants(t *testing.T) {
	c := newTestCatalog(t)

	for _, r := range c.All() {
		if r.Level <= 0 {
			t.Errorf("%s: level %d is not positive", r.ID, r.Level)
		}
		if r.ChaosFactor < 0 || r.ChaosFactor > 100 {
			t.Errorf("%s: chaosFactor %.1f out of range", r.ID, r.ChaosFactor)
		}
		if len(r.Content) == 0 || len(r.Tips) == 0 {
			t.Errorf("%s: missing content or tips", r.ID)
		}
	}

	tests := map[string]float64{
		"flaky-tests":       40,
		"head-architecture": 100,
	}
	for id, want := range tests {
		r, _ := c.FindByID(id)
		if r.ChaosFactor != want {
			t.Errorf("%s: chaosFactor %.1f, want %.1f", id, r.ChaosFactor, want)
		}
	}
}

func TestExhibits(t *testing.T) {
	c := newTestCatalog(t)

	for _, id := range []string{"static-analysis-sabotage", "database-logic"} {
		r, _ := c.FindByID(id)
		if r.Exhibit == nil || len(r.Exhibit.Lines) == 0 {
			t.Errorf("%s: expected an exhibit", id)
		}
	}
	r, _ := c.FindByID("infra-art")
	if r.Exhibit != nil {
		t.Errorf("infra-art: unexpected exhibit %+v", r.Exhibit)
	}
}

func TestGet(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	tests := []struct {
		id      string
		wantErr error
	}{
		{"infra-art", nil},
		{"database-logic", nil},
		{"nonexistent", domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			r, err := c.Get(ctx, tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.ID != tt.id {
				t.Fatalf("expected ID %s, got %s", tt.id, r.ID)
			}
		})
	}
}

func TestListKeepsCatalogOrder(t *testing.T) {
	c := newTestCatalog(t)

	list, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != c.Len() {
		t.Fatalf("expected %d summaries, got %d", c.Len(), len(list))
	}
	for i, s := range list {
		if s.Level != i+1 {
			t.Errorf("summary %d has level %d", i, s.Level)
		}
	}
}

func TestSearch(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	tests := []struct {
		query    string
		minCount int
	}{
		{"sql", 1},
		{"LARS", 0},
		{"agent", 2},
		{"flaky", 1},
		{"nonexistent-query-xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results, err := c.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(results) < tt.minCount {
				t.Fatalf("query=%q: expected at least %d results, got %d", tt.query, tt.minCount, len(results))
			}
		})
	}
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)

	tests := []struct {
		name string
		yaml string
	}{
		{"empty list", "[]"},
		{"missing id", "- level: 1\n  title: x\n  chaosFactor: 1\n"},
		{"zero level", "- id: a\n  level: 0\n  chaosFactor: 1\n"},
		{"chaos too high", "- id: a\n  level: 1\n  chaosFactor: 101\n"},
		{"negative chaos", "- id: a\n  level: 1\n  chaosFactor: -1\n"},
		{"duplicate id", "- id: a\n  level: 1\n- id: a\n  level: 2\n"},
		{"unknown field", "- id: a\n  level: 1\n  flavour: spicy\n"},
		{"not yaml list", "id: a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), log)
			if !errors.Is(err, domain.ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")

	data := "- id: solo\n  level: 1\n  title: Solo\n  chaosFactor: 10\n  content: [one]\n  tips: [two]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := LoadFile(path, log)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() != 1 || c.First().ID != "solo" {
		t.Fatalf("unexpected catalog: %+v", c.All())
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml"), log); err == nil {
		t.Fatal("expected error for missing file")
	}
}
