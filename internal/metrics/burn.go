package metrics

import (
	"math"

	"github.com/cleared-dev/plsense/internal/model"
)

// trendWindow is the number of recent periods the burn trend compares.
const trendWindow = 3

// Burn computes gross and net burn. Net burn is expenses minus revenue and
// its trend compares the last three periods with the ones before.
func Burn(aggs []model.PeriodAggregate) model.Burn {
	b := model.Burn{TrendDirection: model.TrendStable, NetBurn: []model.PeriodValue{}}
	if len(aggs) == 0 {
		return b
	}

	gross := make([]float64, len(aggs))
	net := make([]float64, len(aggs))
	for i, a := range aggs {
		gross[i] = a.Expenses.InexactFloat64()
		net[i] = a.Expenses.Sub(a.Revenue).InexactFloat64()
		b.NetBurn = append(b.NetBurn, model.PeriodValue{Period: a.Period.Name(), Value: net[i]})
	}
	b.GrossBurnAvg = mean(gross)
	b.GrossBurnLatest = gross[len(gross)-1]
	b.NetBurnAvg = mean(net)
	b.NetBurnLatest = net[len(net)-1]

	if len(net) < trendWindow {
		return b
	}
	recent := mean(net[len(net)-trendWindow:])
	earlier := net[0]
	if len(net) > trendWindow {
		earlier = mean(net[:len(net)-trendWindow])
	}
	if earlier != 0 {
		b.TrendPct = (recent - earlier) / math.Abs(earlier) * 100
	}
	if recent > earlier {
		b.TrendDirection = model.TrendIncreasing
	} else {
		b.TrendDirection = model.TrendDecreasing
	}
	return b
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
