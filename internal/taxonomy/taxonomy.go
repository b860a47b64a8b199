// Package taxonomy holds the reference chart of P&L categories and the
// canonical account names fuzzy matching compares against.
package taxonomy

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/plsense/internal/model"
)

//go:embed taxonomy.yaml
var defaultYAML []byte

// Account is a reference account inside a category.
type Account struct {
	Category model.Category
	Name     string
}

type fileCategory struct {
	Name     string   `yaml:"name"`
	Accounts []string `yaml:"accounts"`
}

type file struct {
	Categories []fileCategory `yaml:"categories"`
}

// Taxonomy provides read-only lookup over the reference chart. Order of
// categories and accounts is preserved; fuzzy ties resolve to the first.
type Taxonomy struct {
	accounts   []Account
	byCategory map[model.Category][]string
}

// New creates a Taxonomy from reference accounts.
func New(accounts []Account) *Taxonomy {
	byCategory := make(map[model.Category][]string)
	for _, a := range accounts {
		byCategory[a.Category] = append(byCategory[a.Category], a.Name)
	}
	return &Taxonomy{accounts: accounts, byCategory: byCategory}
}

// Default returns the built-in taxonomy. It is parsed once.
var Default = sync.OnceValue(func() *Taxonomy {
	t, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded taxonomy: %v", err))
	}
	return t
})

// Parse decodes a taxonomy YAML document. Every category must be one of the
// six model categories and hold at least one account.
func Parse(data []byte) (*Taxonomy, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing taxonomy: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("taxonomy has no categories")
	}

	var accounts []Account
	seen := make(map[model.Category]bool)
	for _, fc := range f.Categories {
		cat, ok := model.ParseCategory(fc.Name)
		if !ok || cat == model.CategoryUncategorized {
			return nil, fmt.Errorf("unknown taxonomy category %q", fc.Name)
		}
		if seen[cat] {
			return nil, fmt.Errorf("duplicate taxonomy category %q", fc.Name)
		}
		seen[cat] = true
		if len(fc.Accounts) == 0 {
			return nil, fmt.Errorf("taxonomy category %q has no accounts", fc.Name)
		}
		for _, name := range fc.Accounts {
			accounts = append(accounts, Account{Category: cat, Name: name})
		}
	}
	return New(accounts), nil
}

// Load reads a taxonomy from r.
func Load(r io.Reader) (*Taxonomy, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy: %w", err)
	}
	return Parse(data)
}

// LoadFile reads a taxonomy YAML file from disk.
func LoadFile(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening taxonomy: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Save writes the taxonomy as YAML.
func (t *Taxonomy) Save(path string) error {
	var f file
	for _, cat := range t.Categories() {
		f.Categories = append(f.Categories, fileCategory{Name: string(cat), Accounts: t.byCategory[cat]})
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling taxonomy: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing taxonomy: %w", err)
	}
	return nil
}

// All returns every reference account in order.
func (t *Taxonomy) All() []Account {
	return t.accounts
}

// Categories returns the categories present, in order of first appearance.
func (t *Taxonomy) Categories() []model.Category {
	var out []model.Category
	seen := make(map[model.Category]bool)
	for _, a := range t.accounts {
		if !seen[a.Category] {
			seen[a.Category] = true
			out = append(out, a.Category)
		}
	}
	return out
}

// Accounts returns the reference account names of a category.
func (t *Taxonomy) Accounts(cat model.Category) []string {
	return t.byCategory[cat]
}

// Has reports whether a category is part of the taxonomy.
func (t *Taxonomy) Has(cat model.Category) bool {
	_, ok := t.byCategory[cat]
	return ok
}
