package metrics

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/cleared-dev/plsense/internal/model"
)

const strongGrowthPct = 10.0

var priorityRank = map[model.Priority]int{
	model.PriorityHigh:   0,
	model.PriorityMedium: 1,
	model.PriorityLow:    2,
}

// Insights applies the rule set to computed metrics and returns the
// insights ordered high, medium, low. Equal priorities keep rule order.
func Insights(m *model.MetricsResult) []model.Insight {
	out := []model.Insight{}

	if r := m.Runway; r != nil {
		switch r.Status {
		case model.RunwayCritical:
			out = append(out, model.Insight{
				Type: model.InsightWarning, Category: "runway", Priority: model.PriorityHigh,
				Message: fmt.Sprintf("Critical: Only %.1f months of runway remaining. Consider fundraising immediately.", r.MonthsRemaining),
			})
		case model.RunwayConcerning:
			out = append(out, model.Insight{
				Type: model.InsightCaution, Category: "runway", Priority: model.PriorityMedium,
				Message: fmt.Sprintf("You have %.1f months of runway. Start preparing for fundraising.", r.MonthsRemaining),
			})
		case model.RunwayStrong:
			out = append(out, model.Insight{
				Type: model.InsightPositive, Category: "runway", Priority: model.PriorityLow,
				Message: fmt.Sprintf("Strong position with %.1f months of runway.", r.MonthsRemaining),
			})
		case model.RunwayProfitable:
			out = append(out, model.Insight{
				Type: model.InsightPositive, Category: "runway", Priority: model.PriorityLow,
				Message: "Revenue covers expenses, so runway is not limited by burn.",
			})
		}
	}

	if m.Burn.TrendDirection == model.TrendIncreasing {
		out = append(out, model.Insight{
			Type: model.InsightWarning, Category: "burn", Priority: model.PriorityHigh,
			Message: fmt.Sprintf("Burn rate is increasing (%.1f%% higher than earlier periods).", math.Abs(m.Burn.TrendPct)),
		})
	}

	if len(m.Growth.MoM) > 0 {
		switch latest := m.Growth.MoMLatest; {
		case latest > strongGrowthPct:
			out = append(out, model.Insight{
				Type: model.InsightPositive, Category: "growth", Priority: model.PriorityMedium,
				Message: fmt.Sprintf("Strong revenue growth of %.1f%% last month.", latest),
			})
		case latest < 0:
			out = append(out, model.Insight{
				Type: model.InsightWarning, Category: "growth", Priority: model.PriorityHigh,
				Message: fmt.Sprintf("Revenue declined %.1f%% last month.", math.Abs(latest)),
			})
		}
	}

	if e := m.Efficiency; e != nil && e.BurnMultiple != nil {
		bm := strconv.FormatFloat(*e.BurnMultiple, 'f', -1, 64)
		switch e.Rating {
		case model.EfficiencyExcellent:
			out = append(out, model.Insight{
				Type: model.InsightPositive, Category: "efficiency", Priority: model.PriorityLow,
				Message: fmt.Sprintf("Excellent cash efficiency with %sx burn multiple.", bm),
			})
		case model.EfficiencyPoor:
			out = append(out, model.Insight{
				Type: model.InsightCaution, Category: "efficiency", Priority: model.PriorityMedium,
				Message: fmt.Sprintf("High burn multiple (%sx) indicates inefficient growth.", bm),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank[out[i].Priority] < priorityRank[out[j].Priority]
	})
	return out
}
