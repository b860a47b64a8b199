package classify

import (
	"strings"

	"github.com/cleared-dev/plsense/internal/model"
)

var (
	revenueKeywords = []string{"revenue", "sales", "income", "subscription", "recurring", "arr", "mrr"}
	revenueExcludes = []string{"expense", "cost", "cogs"}
	expenseKeywords = []string{
		"expense", "cost", "salaries", "wages", "payroll", "marketing", "advertising",
		"rent", "software", "consulting", "fees", "depreciation", "amortization",
		"interest", "tax", "utilities", "travel", "insurance", "benefits", "hosting",
		"cloud", "aws", "engineering", "r&d", "research", "development",
	}
)

// FlowOf classifies an account name as revenue or expense by keyword alone.
// The revenue test runs first.
func FlowOf(name string) model.Flow {
	lower := strings.ToLower(name)
	switch {
	case IsRevenueName(lower):
		return model.FlowRevenue
	case IsExpenseName(lower):
		return model.FlowExpense
	default:
		return model.FlowNone
	}
}

// IsRevenueName reports whether a name carries a revenue keyword and no
// cost keyword.
func IsRevenueName(name string) bool {
	lower := strings.ToLower(name)
	return containsAny(lower, revenueKeywords) && !containsAny(lower, revenueExcludes)
}

// IsExpenseName reports whether a name carries an expense keyword.
func IsExpenseName(name string) bool {
	return containsAny(strings.ToLower(name), expenseKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
