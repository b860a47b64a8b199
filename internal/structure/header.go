// Package structure locates the header of a raw P&L table and assigns its
// columns to roles.
package structure

import (
	"strings"

	"github.com/cleared-dev/plsense/internal/model"
)

// headerScanRows is how many leading rows are considered as header
// candidates.
const headerScanRows = 15

var headerKeywords = []string{
	"account", "description", "date", "amount", "debit", "credit",
	"balance", "revenue", "expense",
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

// DetectHeaderRow returns the index of the most header-like row among the
// first rows of t. Ties go to the earliest row; a table with no candidate
// scores above zero yields 0.
func DetectHeaderRow(t *model.RawTable) int {
	best, bestScore := 0, 0.0
	for i, row := range t.Rows {
		if i >= headerScanRows {
			break
		}
		if score := headerScore(row); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// headerScore weighs text and date cells at 0.5 and keyword cells at 2.
func headerScore(row []model.Cell) float64 {
	var text, hits int
	for _, c := range row {
		if c.IsEmpty() {
			continue
		}
		if c.Kind == model.CellText || c.Kind == model.CellDate {
			text++
		}
		if containsAny(strings.ToLower(c.String()), headerKeywords) {
			hits++
		}
	}
	return 0.5*float64(text) + 2*float64(hits)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
