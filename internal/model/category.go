package model

import "strings"

// Category is a top-level taxonomy category.
type Category string

const (
	CategoryRevenue       Category = "Revenue"
	CategoryCOGS          Category = "Cost of Goods Sold"
	CategoryOpex          Category = "Operating Expenses"
	CategoryFinancial     Category = "Financial Items"
	CategoryNonOperating  Category = "Non-Operating Items"
	CategoryTax           Category = "Tax"
	CategoryUncategorized Category = "Uncategorized"
)

// Categories returns the taxonomy categories in canonical order.
// Uncategorized is not included.
func Categories() []Category {
	return []Category{
		CategoryRevenue,
		CategoryCOGS,
		CategoryOpex,
		CategoryFinancial,
		CategoryNonOperating,
		CategoryTax,
	}
}

// ParseCategory matches a category name case-insensitively. Uncategorized is
// accepted.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range append(Categories(), CategoryUncategorized) {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Section is a P&L section a row can be tagged with.
type Section string

const (
	SectionRevenue           Section = "revenue"
	SectionCOGS              Section = "cogs"
	SectionGrossProfit       Section = "gross_profit"
	SectionOperatingExpenses Section = "operating_expenses"
	SectionOperatingIncome   Section = "operating_income"
	SectionOtherIncome       Section = "other_income"
	SectionOtherExpense      Section = "other_expense"
	SectionPretaxIncome      Section = "pretax_income"
	SectionTax               Section = "tax"
	SectionNetIncome         Section = "net_income"
)
