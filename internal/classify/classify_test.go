package classify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/plsense/internal/categorizer"
	"github.com/cleared-dev/plsense/internal/logger"
	"github.com/cleared-dev/plsense/internal/model"
	"github.com/cleared-dev/plsense/internal/taxonomy"
)

// stubCategorizer returns fixed suggestions or an error and records calls.
type stubCategorizer struct {
	out   map[string]categorizer.Suggestion
	err   error
	calls [][]string
}

func (s *stubCategorizer) Categorize(_ context.Context, names []string, _ categorizer.Options) (map[string]categorizer.Suggestion, error) {
	s.calls = append(s.calls, names)
	return s.out, s.err
}

var aiOn = categorizer.Options{UseAI: true, Provider: categorizer.ProviderGemini}

func TestIsSubtotal(t *testing.T) {
	for _, name := range []string{"Total Revenue", "Gross Profit", "EBITDA", "Net Income", "Operating Profit", "Sum of fees", "Earnings"} {
		assert.True(t, IsSubtotal(name), name)
	}
	for _, name := range []string{"Rent", "Sales Revenue", "Interest Expense"} {
		assert.False(t, IsSubtotal(name), name)
	}
}

func TestSections(t *testing.T) {
	tests := []struct {
		name string
		want []model.Section
	}{
		{"Sales Revenue", []model.Section{model.SectionRevenue}},
		{"Revenue share expense", nil},
		{"Income tax expense", []model.Section{model.SectionTax}},
		{"Cost of Goods Sold", []model.Section{model.SectionCOGS}},
		{"Gross Profit", []model.Section{model.SectionGrossProfit}},
		{"Total Operating Expenses", []model.Section{model.SectionOperatingExpenses}},
		{"Other Income", []model.Section{model.SectionRevenue, model.SectionOtherIncome}},
		{"Interest expense", []model.Section{model.SectionOtherExpense}},
		{"Net Income", []model.Section{model.SectionRevenue, model.SectionNetIncome}},
		{"Rent", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sections(tt.name), tt.name)
	}
}

func TestHierarchy(t *testing.T) {
	tests := []struct {
		raw   string
		level int
		name  string
	}{
		{"Revenue", 0, "Revenue"},
		{"  Subscriptions", 1, "Subscriptions"},
		{"     Stripe ", 2, "Stripe"},
		{" x", 0, "x"},
		{"", 0, ""},
	}
	for _, tt := range tests {
		level, name := Hierarchy(tt.raw)
		assert.Equal(t, tt.level, level, "level of %q", tt.raw)
		assert.Equal(t, tt.name, name, "name of %q", tt.raw)
	}
}

func TestFlowOf(t *testing.T) {
	assert.Equal(t, model.FlowRevenue, FlowOf("Subscription Revenue"))
	assert.Equal(t, model.FlowRevenue, FlowOf("MRR"))
	assert.Equal(t, model.FlowExpense, FlowOf("Cost of Sales"), "cost excludes revenue")
	assert.Equal(t, model.FlowExpense, FlowOf("AWS Hosting"))
	assert.Equal(t, model.FlowNone, FlowOf("Miscellaneous"))
}

func TestFuzzy(t *testing.T) {
	r := NewResolver(taxonomy.Default(), nil, categorizer.Options{})

	m := r.Fuzzy("Rent")
	assert.Equal(t, model.CategoryOpex, m.Category)
	assert.Equal(t, "Rent", m.Subcategory)
	assert.InDelta(t, 1.0, m.Confidence, 1e-9)
	assert.Equal(t, model.MethodFuzzy, m.Method)

	m = r.Fuzzy("Salaries and Wages")
	assert.Equal(t, model.CategoryOpex, m.Category)
	assert.Equal(t, "Salaries & Wages", m.Subcategory)

	m = r.Fuzzy("Doodads")
	assert.Equal(t, model.CategoryUncategorized, m.Category)
	assert.InDelta(t, 0.4, m.Confidence, 1e-9)
	assert.Empty(t, m.Subcategory)

	m = r.Fuzzy("  ")
	assert.Equal(t, model.CategoryUncategorized, m.Category)
	assert.Equal(t, model.MethodNone, m.Method)
	assert.Zero(t, m.Confidence)
}

func TestResolve_AIWins(t *testing.T) {
	stub := &stubCategorizer{out: map[string]categorizer.Suggestion{
		"AWS Hosting": {Category: "Operating Expenses", Subcategory: "Software & Technology", Confidence: 0.92},
	}}
	r := NewResolver(taxonomy.Default(), stub, aiOn)

	got := r.Resolve(context.Background(), []string{" AWS Hosting", "Rent", "AWS Hosting", ""})
	require.Len(t, stub.calls, 1)
	assert.Equal(t, []string{"AWS Hosting", "Rent"}, stub.calls[0], "distinct trimmed names in order")

	assert.Equal(t, model.MethodAI, got["AWS Hosting"].Method)
	assert.Equal(t, model.CategoryOpex, got["AWS Hosting"].Category)
	assert.Equal(t, model.MethodFuzzy, got["Rent"].Method, "missing from response")
}

func TestResolve_LowConfidenceAI(t *testing.T) {
	stub := &stubCategorizer{out: map[string]categorizer.Suggestion{
		"Rent":    {Category: "Tax", Confidence: 0.5},
		"Doodads": {Category: "Operating Expenses", Confidence: 0.6},
	}}
	r := NewResolver(taxonomy.Default(), stub, aiOn)
	got := r.Resolve(context.Background(), []string{"Rent", "Doodads"})

	// Fuzzy 1.0 beats AI 0.5.
	assert.Equal(t, model.MethodFuzzy, got["Rent"].Method)
	assert.Equal(t, model.CategoryOpex, got["Rent"].Category)
	// AI 0.6 beats fuzzy 0.4.
	assert.Equal(t, model.MethodAI, got["Doodads"].Method)
	assert.InDelta(t, 0.6, got["Doodads"].Confidence, 1e-9)
}

func TestResolve_OutOfTaxonomyIsMiss(t *testing.T) {
	stub := &stubCategorizer{out: map[string]categorizer.Suggestion{
		"Rent": {Category: "Assets", Confidence: 0.99},
	}}
	r := NewResolver(taxonomy.Default(), stub, aiOn)
	got := r.Resolve(context.Background(), []string{"Rent"})
	assert.Equal(t, model.MethodFuzzy, got["Rent"].Method)
}

func TestResolve_CategorizerFailureFallsBack(t *testing.T) {
	stub := &stubCategorizer{err: errors.New("timeout")}
	buf := &bytes.Buffer{}
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(buf))

	r := NewResolver(taxonomy.Default(), stub, aiOn)
	got := r.Resolve(ctx, []string{"Rent"})

	assert.Equal(t, model.MethodFuzzy, got["Rent"].Method)
	assert.Contains(t, buf.String(), "categorizer failed")
}

func TestResolve_AIDisabled(t *testing.T) {
	stub := &stubCategorizer{}
	r := NewResolver(taxonomy.Default(), stub, categorizer.Options{UseAI: false})
	r.Resolve(context.Background(), []string{"Rent"})
	assert.Empty(t, stub.calls)
}

func statement() *model.ParsedStatement {
	num := func(s string) model.Cell { return model.NumberCell(decimal.RequireFromString(s)) }
	return &model.ParsedStatement{
		Columns: []model.Column{
			{Index: 0, Name: "Account"}, {Index: 1, Name: "Jan 2024"}, {Index: 2, Name: "Feb 2024"},
		},
		AccountColumn: model.Column{Index: 0, Name: "Account"},
		PeriodColumns: []model.PeriodColumn{
			{Column: model.Column{Index: 1, Name: "Jan 2024"}, Key: "2024-01"},
			{Column: model.Column{Index: 2, Name: "Feb 2024"}, Key: "2024-02"},
		},
		Rows: []model.Row{
			{ID: 4, Cells: []model.Cell{model.TextCell("Revenue"), num("100"), num("110")}},
			{ID: 5, Cells: []model.Cell{model.TextCell("  Subscription Revenue"), num("100"), model.TextCell("n/a")}},
			{ID: 6, Cells: []model.Cell{model.TextCell("Total Revenue"), num("100"), num("110")}},
			{ID: 8, Cells: []model.Cell{model.TextCell("Doodads"), num("3"), {}}},
			{ID: 9, Cells: []model.Cell{{}, num("1"), num("1")}},
		},
	}
}

func TestClassify(t *testing.T) {
	r := NewResolver(taxonomy.Default(), nil, categorizer.Options{})
	res := Classify(context.Background(), statement(), r)
	require.Len(t, res.Items, 5)

	sub := res.Items[1]
	assert.Equal(t, model.RowID(5), sub.RowID)
	assert.Equal(t, "Subscription Revenue", sub.AccountName)
	assert.Equal(t, "  Subscription Revenue", sub.RawName)
	assert.Equal(t, 1, sub.HierarchyLevel)
	assert.Equal(t, model.CategoryRevenue, sub.Category)
	assert.False(t, sub.NeedsReview)
	assert.Equal(t, model.FlowRevenue, sub.Flow)
	assert.True(t, sub.Amounts[0].Valid)
	assert.False(t, sub.Amounts[1].Valid, "unparseable amount is null")

	total := res.Items[2]
	assert.Equal(t, model.RowTypeSubtotal, total.RowType)

	odd := res.Items[3]
	assert.Equal(t, model.CategoryUncategorized, odd.Category)
	assert.True(t, odd.NeedsReview)

	blank := res.Items[4]
	assert.Equal(t, model.CategoryUncategorized, blank.Category)
	assert.Equal(t, model.MethodNone, blank.MappingMethod)
	assert.Zero(t, blank.MappingConfidence)

	assert.Equal(t, []model.RowID{4, 5, 6}, res.Sections[model.SectionRevenue])
}

func TestClassify_Partition(t *testing.T) {
	r := NewResolver(taxonomy.Default(), nil, categorizer.Options{})
	res := Classify(context.Background(), statement(), r)

	var lines, subs int
	for _, it := range res.Items {
		switch it.RowType {
		case model.RowTypeLineItem:
			lines++
		case model.RowTypeSubtotal:
			subs++
		}
		assert.True(t, it.MappingConfidence >= 0 && it.MappingConfidence <= 1)
		assert.Equal(t, it.MappingConfidence < model.ReviewThreshold, it.NeedsReview)
		if it.Category != model.CategoryUncategorized {
			assert.True(t, taxonomy.Default().Has(it.Category))
		}
	}
	assert.Equal(t, len(res.Items), lines+subs)
	assert.Equal(t, 1, subs)
}

func TestClassify_Idempotent(t *testing.T) {
	r := NewResolver(taxonomy.Default(), nil, categorizer.Options{})
	a := Classify(context.Background(), statement(), r)
	b := Classify(context.Background(), statement(), r)
	assert.Equal(t, a, b)
}

func TestClassify_SubtotalHintAndChanges(t *testing.T) {
	stub := &stubCategorizer{out: map[string]categorizer.Suggestion{
		"Total Revenue": {Category: "Revenue", Confidence: 0.9, IsSubtotal: true},
		"Revenue":       {Category: "Revenue", Confidence: 0.9},
	}}
	r := NewResolver(taxonomy.Default(), stub, aiOn)
	res := Classify(context.Background(), statement(), r)
	require.Len(t, res.Items, 5)

	assert.True(t, res.Items[2].SubtotalMapped)
	assert.False(t, res.Items[0].SubtotalMapped)
	assert.False(t, res.Items[3].SubtotalMapped, "fuzzy mappings carry no hint")

	rev := res.Items[0]
	require.Len(t, rev.Changes, 2)
	assert.False(t, rev.Change(0).Dollar.Valid)
	assert.Equal(t, "10", rev.Change(1).Dollar.Decimal.String())
	assert.Equal(t, "10", rev.Change(1).Percent.Decimal.String())

	assert.False(t, res.Items[1].Change(1).Dollar.Valid, "null amount has no change")
}

func TestPeriodChanges(t *testing.T) {
	amt := func(s string) decimal.NullDecimal {
		if s == "" {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(decimal.RequireFromString(s))
	}
	got := PeriodChanges([]decimal.NullDecimal{amt("-50"), amt("-25"), amt("0"), amt("5"), amt(""), amt("3"), amt("4")})
	require.Len(t, got, 7)

	assert.Equal(t, model.PeriodChange{}, got[0])
	assert.Equal(t, "25", got[1].Dollar.Decimal.String())
	assert.Equal(t, "50", got[1].Percent.Decimal.String(), "percent is over the absolute prior amount")
	assert.Equal(t, "25", got[2].Dollar.Decimal.String())
	assert.Equal(t, "100", got[2].Percent.Decimal.String())
	assert.Equal(t, "5", got[3].Dollar.Decimal.String())
	assert.False(t, got[3].Percent.Valid, "zero prior amount")
	assert.Equal(t, model.PeriodChange{}, got[4])
	assert.Equal(t, model.PeriodChange{}, got[5])
	assert.Equal(t, "1", got[6].Dollar.Decimal.String())
	assert.Equal(t, "33.33", got[6].Percent.Decimal.String())

	assert.Empty(t, PeriodChanges(nil))
}
