package classify

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/plsense/internal/model"
	"github.com/cleared-dev/plsense/internal/normalize"
)

// Result is the classified form of a statement.
type Result struct {
	Items    []model.LineItem
	Sections map[model.Section][]model.RowID
}

// Classify builds one line item per statement row. Amounts follow the
// statement's period columns.
func Classify(ctx context.Context, st *model.ParsedStatement, r *Resolver) *Result {
	names := make([]string, len(st.Rows))
	raws := make([]string, len(st.Rows))
	levels := make([]int, len(st.Rows))
	for i, row := range st.Rows {
		raws[i] = st.Cell(row, st.AccountColumn).String()
		levels[i], names[i] = Hierarchy(raws[i])
	}
	mappings := r.Resolve(ctx, names)

	res := &Result{Sections: make(map[model.Section][]model.RowID)}
	for i, row := range st.Rows {
		item := model.LineItem{
			RowID:          row.ID,
			AccountName:    names[i],
			RawName:        raws[i],
			Amounts:        make([]decimal.NullDecimal, len(st.PeriodColumns)),
			RowType:        model.RowTypeLineItem,
			HierarchyLevel: levels[i],
			Sections:       Sections(names[i]),
			Flow:           FlowOf(names[i]),
		}
		for p, pc := range st.PeriodColumns {
			item.Amounts[p] = normalize.CellAmount(st.Cell(row, pc.Column))
		}
		item.Changes = PeriodChanges(item.Amounts)
		if IsSubtotal(names[i]) {
			item.RowType = model.RowTypeSubtotal
		}

		m, ok := mappings[names[i]]
		if !ok {
			m = Mapping{Category: model.CategoryUncategorized, Method: model.MethodNone}
		}
		item.Category = m.Category
		item.Subcategory = m.Subcategory
		item.MappingConfidence = m.Confidence
		item.MappingMethod = m.Method
		item.NeedsReview = m.Confidence < model.ReviewThreshold
		item.SubtotalMapped = m.SubtotalHint

		for _, s := range item.Sections {
			res.Sections[s] = append(res.Sections[s], row.ID)
		}
		res.Items = append(res.Items, item)
	}
	return res
}
