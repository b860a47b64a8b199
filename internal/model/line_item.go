package model

import "github.com/shopspring/decimal"

// RowType partitions statement rows.
type RowType string

const (
	RowTypeLineItem RowType = "line_item"
	RowTypeSubtotal RowType = "subtotal"
)

// MappingMethod records how a category was assigned.
type MappingMethod string

const (
	MethodAI    MappingMethod = "ai"
	MethodFuzzy MappingMethod = "fuzzy"
	MethodNone  MappingMethod = "none"
)

// Flow is the keyword-derived revenue/expense signal used by period
// aggregation. It is independent of Category.
type Flow string

const (
	FlowRevenue Flow = "revenue"
	FlowExpense Flow = "expense"
	FlowNone    Flow = "none"
)

// ReviewThreshold is the confidence below which a mapping needs review.
const ReviewThreshold = 0.75

// LineItem is a classified statement row.
type LineItem struct {
	RowID             RowID                 `json:"row_id"`
	AccountName       string                `json:"account_name"`
	RawName           string                `json:"raw_name"`
	Amounts           []decimal.NullDecimal `json:"amounts"` // one per period column
	RowType           RowType               `json:"row_type"`
	Category          Category              `json:"category"`
	Subcategory       string                `json:"subcategory,omitempty"`
	MappingConfidence float64               `json:"mapping_confidence"`
	MappingMethod     MappingMethod         `json:"mapping_method"`
	HierarchyLevel    int                   `json:"hierarchy_level"`
	NeedsReview       bool                  `json:"needs_review"`
	Sections          []Section             `json:"sections,omitempty"`
	Flow              Flow                  `json:"flow"`
	SubtotalMapped    bool                  `json:"is_subtotal_mapped"` // categorizer flagged the name as a subtotal
	Changes           []PeriodChange        `json:"changes,omitempty"`  // one per period column
}

// PeriodChange is a row's movement from the previous period column.
type PeriodChange struct {
	Dollar  decimal.NullDecimal `json:"dollar"`
	Percent decimal.NullDecimal `json:"percent"`
}

// IsSubtotal reports whether the row is a subtotal.
func (li LineItem) IsSubtotal() bool {
	return li.RowType == RowTypeSubtotal
}

// Change returns the movement into a period position. The first position
// and positions out of range have none.
func (li LineItem) Change(pos int) PeriodChange {
	if pos < 0 || pos >= len(li.Changes) {
		return PeriodChange{}
	}
	return li.Changes[pos]
}

// Amount returns the amount for a period position.
func (li LineItem) Amount(pos int) decimal.NullDecimal {
	if pos < 0 || pos >= len(li.Amounts) {
		return decimal.NullDecimal{}
	}
	return li.Amounts[pos]
}
