package model

import "github.com/shopspring/decimal"

// PeriodAggregate holds the keyword-derived totals of one period.
type PeriodAggregate struct {
	Period    Period          `json:"period"`
	Revenue   decimal.Decimal `json:"revenue"`
	Expenses  decimal.Decimal `json:"expenses"`
	NetIncome decimal.Decimal `json:"net_income"`
}

// PeriodValue is a float metric attached to a period name.
type PeriodValue struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// Trend is the direction of a series.
type Trend string

const (
	TrendIncreasing   Trend = "increasing"
	TrendDecreasing   Trend = "decreasing"
	TrendStable       Trend = "stable"
	TrendAccelerating Trend = "accelerating"
	TrendDecelerating Trend = "decelerating"
)

// Burn describes cash burn across periods.
type Burn struct {
	GrossBurnAvg    float64       `json:"gross_burn_avg"`
	GrossBurnLatest float64       `json:"gross_burn_latest"`
	NetBurn         []PeriodValue `json:"net_burn"`
	NetBurnAvg      float64       `json:"net_burn_avg"`
	NetBurnLatest   float64       `json:"net_burn_latest"`
	TrendPct        float64       `json:"trend_pct"`
	TrendDirection  Trend         `json:"trend_direction"`
}

// RunwayStatus bands the months of runway left.
type RunwayStatus string

const (
	RunwayProfitable  RunwayStatus = "profitable"
	RunwayCritical    RunwayStatus = "critical"
	RunwayConcerning  RunwayStatus = "concerning"
	RunwayComfortable RunwayStatus = "comfortable"
	RunwayStrong      RunwayStatus = "strong"
)

// Priority orders insights and runway urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

// Runway is computed only when a cash balance is supplied.
type Runway struct {
	CashBalance     float64      `json:"cash_balance"`
	Unlimited       bool         `json:"unlimited"`
	MonthsRemaining float64      `json:"months_remaining"`
	ZeroCashDate    string       `json:"zero_cash_date,omitempty"` // YYYY-MM-DD
	Status          RunwayStatus `json:"status"`
	Urgency         Priority     `json:"urgency"`
}

// Growth describes revenue growth across periods.
type Growth struct {
	MoM       []PeriodValue `json:"mom_growth"`
	MoMAvg    float64       `json:"mom_growth_avg"`
	MoMLatest float64       `json:"mom_growth_latest"`
	Overall   float64       `json:"overall_growth"`
	CMGR      float64       `json:"cmgr"`
	Trend     Trend         `json:"trend"`
}

// ExpenseDriver is an expense row compared over the latest two periods.
type ExpenseDriver struct {
	RowID         RowID   `json:"row_id"`
	Account       string  `json:"account"`
	Latest        float64 `json:"latest"`
	Previous      float64 `json:"previous"`
	ChangeDollar  float64 `json:"change_dollar"`
	ChangePercent float64 `json:"change_pct"`
}

// ExpenseDrivers groups the three driver rankings.
type ExpenseDrivers struct {
	TopExpenses      []ExpenseDriver `json:"top_expenses"`
	FastestGrowing   []ExpenseDriver `json:"fastest_growing"`
	LargestIncreases []ExpenseDriver `json:"largest_increases"`
}

// EfficiencyRating bands the burn multiple.
type EfficiencyRating string

const (
	EfficiencyExcellent EfficiencyRating = "excellent"
	EfficiencyGood      EfficiencyRating = "good"
	EfficiencyAverage   EfficiencyRating = "average"
	EfficiencyPoor      EfficiencyRating = "poor"
	EfficiencyUnknown   EfficiencyRating = "unknown"
)

// Efficiency relates burn to revenue.
type Efficiency struct {
	BurnMultiple          *float64         `json:"burn_multiple"`
	RevenuePerDollarSpent float64          `json:"revenue_per_dollar_spent"`
	Rating                EfficiencyRating `json:"rating"`
}

// InsightType classifies an insight's tone.
type InsightType string

const (
	InsightWarning  InsightType = "warning"
	InsightCaution  InsightType = "caution"
	InsightPositive InsightType = "positive"
)

// Insight is a rule-derived observation.
type Insight struct {
	Type     InsightType `json:"type"`
	Category string      `json:"category"`
	Message  string      `json:"message"`
	Priority Priority    `json:"priority"`
}

// MetricsResult is the output of the metrics engine.
type MetricsResult struct {
	Aggregates     []PeriodAggregate `json:"aggregates"`
	Burn           Burn              `json:"burn"`
	Runway         *Runway           `json:"runway,omitempty"`
	Growth         Growth            `json:"growth"`
	ExpenseDrivers ExpenseDrivers    `json:"expense_drivers"`
	Efficiency     *Efficiency       `json:"efficiency,omitempty"`
	Insights       []Insight         `json:"insights"`
}
