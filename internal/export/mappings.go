package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/plsense/internal/model"
)

type mappingEntry struct {
	Category    string  `yaml:"category"`
	Subcategory string  `yaml:"subcategory,omitempty"`
	IsSubtotal  bool    `yaml:"is_subtotal,omitempty"`
	Confidence  float64 `yaml:"confidence"`
}

type mappingFile struct {
	Mappings map[string]mappingEntry `yaml:"mappings"`
}

// WriteMappings writes the resolved categories as a mappings file for the
// file categorizer, so a reviewed export can be replayed. Uncategorized
// rows are left out; the first occurrence of a name wins.
func WriteMappings(w io.Writer, items []model.LineItem) error {
	mf := mappingFile{Mappings: make(map[string]mappingEntry)}
	for _, item := range items {
		if item.AccountName == "" || item.Category == model.CategoryUncategorized {
			continue
		}
		if _, ok := mf.Mappings[item.AccountName]; ok {
			continue
		}
		mf.Mappings[item.AccountName] = mappingEntry{
			Category:    string(item.Category),
			Subcategory: item.Subcategory,
			IsSubtotal:  item.IsSubtotal(),
			Confidence:  item.MappingConfidence,
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(mf); err != nil {
		return fmt.Errorf("encoding mappings: %w", err)
	}
	return enc.Close()
}
