package export

import (
	"strings"

	"github.com/cleared-dev/plsense/internal/model"
)

// DiffKind classifies one difference between two exports.
type DiffKind string

const (
	DiffAdded         DiffKind = "added"
	DiffRemoved       DiffKind = "removed"
	DiffRecategorized DiffKind = "recategorized"
)

// Difference is an account whose presence or category changed.
type Difference struct {
	Account string         `json:"account"`
	Kind    DiffKind       `json:"kind"`
	Before  model.Category `json:"before,omitempty"`
	After   model.Category `json:"after,omitempty"`
}

// Compare matches current line items against a prior export by account
// name. Repeated names pair up in order of appearance. Differences list
// current rows first, then rows only in prior.
func Compare(prior, current []model.LineItem) []Difference {
	queue := make(map[string][]int)
	for i, it := range prior {
		key := strings.TrimSpace(it.AccountName)
		queue[key] = append(queue[key], i)
	}

	matched := make([]bool, len(prior))
	var diffs []Difference
	for _, it := range current {
		key := strings.TrimSpace(it.AccountName)
		idx := queue[key]
		if len(idx) == 0 {
			diffs = append(diffs, Difference{Account: key, Kind: DiffAdded, After: it.Category})
			continue
		}
		p := prior[idx[0]]
		queue[key] = idx[1:]
		matched[idx[0]] = true
		if p.Category != it.Category {
			diffs = append(diffs, Difference{Account: key, Kind: DiffRecategorized, Before: p.Category, After: it.Category})
		}
	}
	for i, it := range prior {
		if !matched[i] {
			diffs = append(diffs, Difference{Account: strings.TrimSpace(it.AccountName), Kind: DiffRemoved, Before: it.Category})
		}
	}
	return diffs
}
