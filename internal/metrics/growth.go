package metrics

import (
	"math"

	"github.com/cleared-dev/plsense/internal/model"
)

// Growth computes month-over-month and compound revenue growth in percent.
// Fewer than two periods yield an empty record.
func Growth(aggs []model.PeriodAggregate) model.Growth {
	g := model.Growth{Trend: model.TrendStable, MoM: []model.PeriodValue{}}
	if len(aggs) < 2 {
		return g
	}

	rev := make([]float64, len(aggs))
	for i, a := range aggs {
		rev[i] = a.Revenue.InexactFloat64()
	}

	mom := make([]float64, 0, len(rev)-1)
	for i := 1; i < len(rev); i++ {
		pct := 0.0
		if rev[i-1] != 0 {
			pct = (rev[i] - rev[i-1]) / math.Abs(rev[i-1]) * 100
		}
		mom = append(mom, pct)
		g.MoM = append(g.MoM, model.PeriodValue{Period: aggs[i].Period.Name(), Value: pct})
	}
	g.MoMAvg = mean(mom)
	g.MoMLatest = mom[len(mom)-1]

	first, last := rev[0], rev[len(rev)-1]
	if first != 0 {
		g.Overall = (last - first) / math.Abs(first) * 100
	}
	if len(rev) >= 3 && first > 0 {
		cmgr := (math.Pow(last/first, 1/float64(len(rev)-1)) - 1) * 100
		if !math.IsNaN(cmgr) && !math.IsInf(cmgr, 0) {
			g.CMGR = cmgr
		}
	}

	if len(mom) >= trendWindow {
		if mean(mom[len(mom)-trendWindow:]) > g.MoMAvg {
			g.Trend = model.TrendAccelerating
		} else {
			g.Trend = model.TrendDecelerating
		}
	}
	return g
}
