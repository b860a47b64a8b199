package waterfall

import (
	"strings"

	"github.com/cleared-dev/plsense/internal/model"
)

// Term is one category contributing to a metric with its sign.
type Term struct {
	Category model.Category
	Sign     int64
}

// Metric is a bridgeable measure: a single category or a formula over
// several.
type Metric struct {
	Name    string
	Label   string
	Terms   []Term
	Derived bool
}

// Derived metric names.
const (
	GrossProfit     = "gross_profit"
	OperatingProfit = "operating_profit"
	NetProfit       = "net_profit"
)

var aliases = map[string]model.Category{
	"revenue":       model.CategoryRevenue,
	"cogs":          model.CategoryCOGS,
	"opex":          model.CategoryOpex,
	"financial":     model.CategoryFinancial,
	"non_operating": model.CategoryNonOperating,
	"tax":           model.CategoryTax,
}

var derived = map[string]Metric{
	GrossProfit: {
		Name:  GrossProfit,
		Label: "Gross Profit",
		Terms: []Term{
			{model.CategoryRevenue, 1},
			{model.CategoryCOGS, -1},
		},
		Derived: true,
	},
	OperatingProfit: {
		Name:  OperatingProfit,
		Label: "Operating Profit (EBIT)",
		Terms: []Term{
			{model.CategoryRevenue, 1},
			{model.CategoryCOGS, -1},
			{model.CategoryOpex, -1},
		},
		Derived: true,
	},
	NetProfit: {
		Name:  NetProfit,
		Label: "Net Profit",
		Terms: []Term{
			{model.CategoryRevenue, 1},
			{model.CategoryCOGS, -1},
			{model.CategoryOpex, -1},
			{model.CategoryFinancial, 1},
			{model.CategoryNonOperating, 1},
			{model.CategoryTax, -1},
		},
		Derived: true,
	},
}

// LookupMetric resolves a metric name: a derived formula, a category alias
// such as "opex", or a category name.
func LookupMetric(name string) (Metric, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if m, ok := derived[key]; ok {
		return m, nil
	}
	if c, ok := aliases[key]; ok {
		return single(key, c), nil
	}
	if c, ok := model.ParseCategory(name); ok && c != model.CategoryUncategorized {
		return single(string(c), c), nil
	}
	return Metric{}, &model.UnknownMetricError{Metric: name}
}

func single(name string, c model.Category) Metric {
	label := string(c)
	if c == model.CategoryRevenue {
		label = "Total Revenue"
	}
	return Metric{Name: name, Label: label, Terms: []Term{{c, 1}}}
}

// sign returns the sign of a category in the metric, or 0 when the category
// does not contribute.
func (m Metric) sign(c model.Category) int64 {
	for _, t := range m.Terms {
		if t.Category == c {
			return t.Sign
		}
	}
	return 0
}
