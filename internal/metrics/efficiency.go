package metrics

import "github.com/cleared-dev/plsense/internal/model"

// Efficiency relates average net burn to annualized latest revenue. The
// burn multiple is only defined while burning cash with revenue coming in.
func Efficiency(aggs []model.PeriodAggregate, burn model.Burn) *model.Efficiency {
	if len(aggs) == 0 {
		return nil
	}
	latest := aggs[len(aggs)-1]
	rev := latest.Revenue.InexactFloat64()
	exp := latest.Expenses.InexactFloat64()

	e := &model.Efficiency{Rating: model.EfficiencyUnknown}
	if arr := rev * 12; burn.NetBurnAvg > 0 && arr > 0 {
		bm := round(burn.NetBurnAvg*12/arr, 2)
		e.BurnMultiple = &bm
		e.Rating = rate(bm)
	}
	if exp > 0 {
		e.RevenuePerDollarSpent = round(rev/exp, 2)
	}
	return e
}

func rate(burnMultiple float64) model.EfficiencyRating {
	switch {
	case burnMultiple < 1.5:
		return model.EfficiencyExcellent
	case burnMultiple < 2.5:
		return model.EfficiencyGood
	case burnMultiple < 4:
		return model.EfficiencyAverage
	default:
		return model.EfficiencyPoor
	}
}
