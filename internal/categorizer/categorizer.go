// Package categorizer defines the external account categorization
// collaborator and its providers. Responses are advisory: callers fall back
// to local fuzzy matching for anything missing or weak.
package categorizer

import (
	"context"
	"fmt"

	"github.com/cleared-dev/plsense/internal/taxonomy"
)

// Provider names a categorizer backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderFile   Provider = "file"
)

// DefaultConfidence is assumed when a provider omits a confidence.
const DefaultConfidence = 0.9

// Options are passed with every request.
type Options struct {
	UseAI    bool
	Provider Provider
}

// Suggestion is a provider's answer for one account name.
type Suggestion struct {
	Category    string  `json:"category" yaml:"category"`
	Subcategory string  `json:"subcategory" yaml:"subcategory"`
	IsSubtotal  bool    `json:"is_subtotal" yaml:"is_subtotal"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
}

// Categorizer maps account names to suggestions. Names absent from the
// result are misses.
type Categorizer interface {
	Categorize(ctx context.Context, names []string, opts Options) (map[string]Suggestion, error)
}

// Settings select and configure a provider.
type Settings struct {
	Provider     Provider
	Model        string
	APIKey       string
	MappingsFile string
	Taxonomy     *taxonomy.Taxonomy
}

// New builds the provider named by s.
func New(ctx context.Context, s Settings) (Categorizer, error) {
	tax := s.Taxonomy
	if tax == nil {
		tax = taxonomy.Default()
	}
	switch s.Provider {
	case ProviderGemini:
		g, err := NewGemini(ctx, s.Model, s.APIKey, tax)
		if err != nil {
			return nil, err
		}
		return g, nil
	case ProviderFile:
		f, err := LoadFile(s.MappingsFile)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown categorizer provider %q", s.Provider)
	}
}

func clamp(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
