// Package metrics derives startup financial metrics from classified line
// items: burn, runway, growth, expense drivers, efficiency and insights.
package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/plsense/internal/classify"
	"github.com/cleared-dev/plsense/internal/model"
)

// Aggregate sums revenue and expense per period using the account-name
// keyword heuristic. Subtotals and null amounts are skipped and absolute
// values are summed.
func Aggregate(items []model.LineItem, periods []model.Period) []model.PeriodAggregate {
	out := make([]model.PeriodAggregate, len(periods))
	for i, p := range periods {
		out[i] = model.PeriodAggregate{
			Period:    p,
			Revenue:   decimal.Zero,
			Expenses:  decimal.Zero,
			NetIncome: decimal.Zero,
		}
	}

	for _, item := range items {
		if item.IsSubtotal() {
			continue
		}
		flow := classify.FlowOf(item.AccountName)
		if flow == model.FlowNone {
			continue
		}
		for i, p := range periods {
			v := item.Amount(p.Position)
			if !v.Valid {
				continue
			}
			if flow == model.FlowRevenue {
				out[i].Revenue = out[i].Revenue.Add(v.Decimal.Abs())
			} else {
				out[i].Expenses = out[i].Expenses.Add(v.Decimal.Abs())
			}
		}
	}

	for i := range out {
		out[i].NetIncome = out[i].Revenue.Sub(out[i].Expenses)
	}
	return out
}
