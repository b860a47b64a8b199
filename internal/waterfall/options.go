package waterfall

import "github.com/cleared-dev/plsense/internal/model"

// MetricOption is a metric a statement can be bridged on.
type MetricOption struct {
	Label    string         `json:"label"`
	Value    string         `json:"value"`
	Category model.Category `json:"category,omitempty"` // empty for derived metrics
}

// MetricOptions lists the metrics computable from the categories present
// among the line items.
func MetricOptions(items []model.LineItem) []MetricOption {
	has := make(map[model.Category]bool)
	for _, item := range items {
		has[item.Category] = true
	}
	rev, cogs, opex := has[model.CategoryRevenue], has[model.CategoryCOGS], has[model.CategoryOpex]

	out := []MetricOption{}
	if rev {
		out = append(out, MetricOption{Label: "Total Revenue", Value: "revenue", Category: model.CategoryRevenue})
	}
	if cogs {
		out = append(out, MetricOption{Label: string(model.CategoryCOGS), Value: "cogs", Category: model.CategoryCOGS})
		if rev {
			out = append(out, MetricOption{Label: "Gross Profit", Value: GrossProfit})
		}
	}
	if opex {
		out = append(out, MetricOption{Label: string(model.CategoryOpex), Value: "opex", Category: model.CategoryOpex})
		if rev && cogs {
			out = append(out, MetricOption{Label: "Operating Profit (EBIT)", Value: OperatingProfit})
		}
	}
	if rev && cogs && opex {
		out = append(out, MetricOption{Label: "Net Profit", Value: NetProfit})
	}
	return out
}
