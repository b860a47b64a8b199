package categorizer

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File answers from a YAML mapping file of account name to suggestion.
// Lookups are case-insensitive on the trimmed name.
type File struct {
	mappings map[string]Suggestion
}

type fileEntry struct {
	Category    string   `yaml:"category"`
	Subcategory string   `yaml:"subcategory,omitempty"`
	IsSubtotal  bool     `yaml:"is_subtotal,omitempty"`
	Confidence  *float64 `yaml:"confidence,omitempty"`
}

type mappingFile struct {
	Mappings map[string]fileEntry `yaml:"mappings"`
}

// NewFile creates a File categorizer from in-memory mappings.
func NewFile(mappings map[string]Suggestion) *File {
	m := make(map[string]Suggestion, len(mappings))
	for name, s := range mappings {
		m[key(name)] = s
	}
	return &File{mappings: m}
}

// LoadFile reads a mapping file from disk.
func LoadFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("mappings file not configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mappings: %w", err)
	}
	var mf mappingFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parsing mappings: %w", err)
	}
	m := make(map[string]Suggestion, len(mf.Mappings))
	for name, e := range mf.Mappings {
		conf := DefaultConfidence
		if e.Confidence != nil {
			conf = clamp(*e.Confidence)
		}
		m[name] = Suggestion{
			Category:    e.Category,
			Subcategory: e.Subcategory,
			IsSubtotal:  e.IsSubtotal,
			Confidence:  conf,
		}
	}
	return NewFile(m), nil
}

// Categorize returns the mapped names. The context is only checked for
// cancellation.
func (f *File) Categorize(ctx context.Context, names []string, _ Options) (map[string]Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string]Suggestion)
	for _, n := range names {
		if s, ok := f.mappings[key(n)]; ok {
			out[n] = s
		}
	}
	return out, nil
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
