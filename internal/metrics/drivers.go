package metrics

import (
	"sort"

	"github.com/cleared-dev/plsense/internal/classify"
	"github.com/cleared-dev/plsense/internal/model"
)

const (
	driverLimit        = 5
	fastestMinIncrease = 5.0 // percent
)

// ExpenseDrivers ranks expense rows by their latest amount and by their
// change from the previous period. Null amounts count as zero and absolute
// values are compared.
func ExpenseDrivers(items []model.LineItem, periods []model.Period) model.ExpenseDrivers {
	d := model.ExpenseDrivers{
		TopExpenses:      []model.ExpenseDriver{},
		FastestGrowing:   []model.ExpenseDriver{},
		LargestIncreases: []model.ExpenseDriver{},
	}
	if len(periods) < 2 {
		return d
	}
	latest, prev := periods[len(periods)-1], periods[len(periods)-2]

	var all []model.ExpenseDriver
	for _, item := range items {
		if item.IsSubtotal() || !classify.IsExpenseName(item.AccountName) {
			continue
		}
		l := item.Amount(latest.Position).Decimal.Abs().InexactFloat64()
		p := item.Amount(prev.Position).Decimal.Abs().InexactFloat64()
		e := model.ExpenseDriver{
			RowID:        item.RowID,
			Account:      item.AccountName,
			Latest:       l,
			Previous:     p,
			ChangeDollar: l - p,
		}
		if p != 0 {
			e.ChangePercent = (l - p) / p * 100
		}
		all = append(all, e)
	}

	d.TopExpenses = top(all, nil, func(e model.ExpenseDriver) float64 { return e.Latest })
	d.FastestGrowing = top(all,
		func(e model.ExpenseDriver) bool { return e.ChangePercent > fastestMinIncrease },
		func(e model.ExpenseDriver) float64 { return e.ChangePercent })
	d.LargestIncreases = top(all,
		func(e model.ExpenseDriver) bool { return e.ChangeDollar > 0 },
		func(e model.ExpenseDriver) float64 { return e.ChangeDollar })
	return d
}

// top filters, stably sorts descending by key and keeps driverLimit rows.
func top(all []model.ExpenseDriver, keep func(model.ExpenseDriver) bool, key func(model.ExpenseDriver) float64) []model.ExpenseDriver {
	out := []model.ExpenseDriver{}
	for _, e := range all {
		if keep == nil || keep(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]) > key(out[j]) })
	if len(out) > driverLimit {
		out = out[:driverLimit]
	}
	return out
}
