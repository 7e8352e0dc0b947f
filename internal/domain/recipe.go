// Package domain defines the core types and interfaces for the quest log.
// All other packages depend on domain; domain depends on nothing.
package domain

// Recipe is one entry of the quest catalog: a satirical technique with
// narrative text and a chaos weight.
type Recipe struct {
	ID          string   `yaml:"id"`
	Level       int      `yaml:"level"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Content     []string `yaml:"content"`
	Tips        []string `yaml:"tips"`
	Goal        string   `yaml:"goal"`
	ChaosFactor float64  `yaml:"chaosFactor"`

	// Unlocked is the authored flag from the catalog file. It is not the
	// unlock status of any session; use Progress.Has for that.
	Unlocked bool `yaml:"unlocked"`

	Exhibit *Exhibit `yaml:"exhibit,omitempty"`
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID          string
	Level       int
	Title       string
	Description string
	ChaosFactor float64
}

// Summary returns the listing view of r.
func (r Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Level:       r.Level,
		Title:       r.Title,
		Description: r.Description,
		ChaosFactor: r.ChaosFactor,
	}
}

// Exhibit is a decorative artifact shown under a recipe's steps, such as a
// config snippet or a query.
type Exhibit struct {
	Caption  string   `yaml:"caption"`
	Language string   `yaml:"language"`
	Lines    []string `yaml:"lines"`
	Note     string   `yaml:"note"`
}
