package metrics

import (
	"time"

	"github.com/cleared-dev/plsense/internal/model"
)

// Options are the caller-supplied inputs of Compute.
type Options struct {
	// CashBalance enables the runway record.
	CashBalance *float64
	// AsOf anchors the zero-cash date. Zero means now.
	AsOf time.Time
}

// Compute runs every metric over line items whose amounts follow periods.
func Compute(items []model.LineItem, periods []model.Period, opts Options) *model.MetricsResult {
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	aggs := Aggregate(items, periods)
	m := &model.MetricsResult{
		Aggregates:     aggs,
		Burn:           Burn(aggs),
		Growth:         Growth(aggs),
		ExpenseDrivers: ExpenseDrivers(items, periods),
	}
	if opts.CashBalance != nil {
		r := Runway(*opts.CashBalance, m.Burn, asOf)
		m.Runway = &r
	}
	m.Efficiency = Efficiency(aggs, m.Burn)
	m.Insights = Insights(m)
	return m
}
