package taxonomy

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/plsense/internal/model"
)

func TestDefault(t *testing.T) {
	tax := Default()

	assert.Equal(t, model.Categories(), tax.Categories())
	assert.Len(t, tax.All(), 57)
	assert.Len(t, tax.Accounts(model.CategoryOpex), 20)
	assert.Equal(t, "Sales Revenue", tax.All()[0].Name)
	assert.True(t, tax.Has(model.CategoryTax))
	assert.False(t, tax.Has(model.CategoryUncategorized))
}

func TestDefault_Once(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "categories: []"},
		{"unknown category", "categories:\n  - name: Assets\n    accounts: [Cash]"},
		{"uncategorized", "categories:\n  - name: Uncategorized\n    accounts: [Misc]"},
		{"no accounts", "categories:\n  - name: Revenue\n    accounts: []"},
		{"duplicate", "categories:\n  - name: Tax\n    accounts: [A]\n  - name: tax\n    accounts: [B]"},
		{"bad yaml", "categories: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, Default().Save(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default().All(), loaded.All())
}
