// Package export writes classified line items for review and reuse.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/plsense/internal/model"
)

const (
	numFixed          = 12
	colRowID          = 0
	colAccount        = 1
	colRawName        = 2
	colRowType        = 3
	colCategory       = 4
	colSubcategory    = 5
	colConfidence     = 6
	colMethod         = 7
	colLevel          = 8
	colNeedsReview    = 9
	colSections       = 10
	colSubtotalMapped = 11

	changeSuffix    = "_change"
	changePctSuffix = "_change_pct"
)

// fixedHeader names the leading columns. One amount column per period
// follows, then a change and a change_pct column for every period after the
// first.
var fixedHeader = []string{
	"row_id", "account_name", "raw_name", "row_type", "category", "subcategory",
	"mapping_confidence", "mapping_method", "hierarchy_level", "needs_review", "sections",
	"is_subtotal_mapped",
}

// Header returns the CSV header for the given periods.
func Header(periods []model.Period) []string {
	h := append([]string(nil), fixedHeader...)
	for _, p := range periods {
		h = append(h, p.Name())
	}
	for _, p := range periods[min(1, len(periods)):] {
		h = append(h, p.Name()+changeSuffix, p.Name()+changePctSuffix)
	}
	return h
}

// numChanges is the change column count for n periods.
func numChanges(n int) int {
	if n < 2 {
		return 0
	}
	return 2 * (n - 1)
}

// periodCount recovers the period count from the number of trailing
// columns, which is 3n-2 for n > 0.
func periodCount(trailing int) (int, error) {
	if trailing == 0 {
		return 0, nil
	}
	if (trailing+2)%3 != 0 {
		return 0, fmt.Errorf("%d period columns do not form amount and change groups", trailing)
	}
	return (trailing + 2) / 3, nil
}

// WriteLineItems writes one row per line item. Null amounts are blank.
func WriteLineItems(w io.Writer, periods []model.Period, items []model.LineItem) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header(periods)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, item := range items {
		if err := cw.Write(MarshalLineItem(item, len(periods))); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalLineItem converts a LineItem to a CSV row with n amount columns and
// their change columns.
func MarshalLineItem(item model.LineItem, n int) []string {
	row := make([]string, numFixed+n+numChanges(n))
	row[colRowID] = strconv.Itoa(int(item.RowID))
	row[colAccount] = item.AccountName
	row[colRawName] = item.RawName
	row[colRowType] = string(item.RowType)
	row[colCategory] = string(item.Category)
	row[colSubcategory] = item.Subcategory
	row[colConfidence] = strconv.FormatFloat(item.MappingConfidence, 'f', 4, 64)
	row[colMethod] = string(item.MappingMethod)
	row[colLevel] = strconv.Itoa(item.HierarchyLevel)
	row[colNeedsReview] = strconv.FormatBool(item.NeedsReview)

	sections := make([]string, len(item.Sections))
	for i, s := range item.Sections {
		sections[i] = string(s)
	}
	row[colSections] = strings.Join(sections, ";")
	row[colSubtotalMapped] = strconv.FormatBool(item.SubtotalMapped)

	for p := 0; p < n; p++ {
		row[numFixed+p] = formatNull(item.Amount(p))
	}
	for p := 1; p < n; p++ {
		c := item.Change(p)
		at := numFixed + n + 2*(p-1)
		row[at] = formatNull(c.Dollar)
		row[at+1] = formatNull(c.Percent)
	}
	return row
}

func formatNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func parseNull(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// ReadLineItems reads an export back. It returns the period column names
// and the items.
func ReadLineItems(r io.Reader) ([]string, []model.LineItem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading line items CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	if len(records[0]) < numFixed {
		return nil, nil, fmt.Errorf("expected at least %d columns, got %d", numFixed, len(records[0]))
	}
	n, err := periodCount(len(records[0]) - numFixed)
	if err != nil {
		return nil, nil, err
	}
	periods := records[0][numFixed : numFixed+n]

	var items []model.LineItem
	for i, rec := range records[1:] {
		item, err := UnmarshalLineItem(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		items = append(items, item)
	}
	return periods, items, nil
}

// UnmarshalLineItem converts a CSV row to a LineItem. Flow is not exported
// and is left empty.
func UnmarshalLineItem(record []string) (model.LineItem, error) {
	if len(record) < numFixed {
		return model.LineItem{}, fmt.Errorf("expected at least %d fields, got %d", numFixed, len(record))
	}
	n, err := periodCount(len(record) - numFixed)
	if err != nil {
		return model.LineItem{}, err
	}

	rowID, err := strconv.Atoi(record[colRowID])
	if err != nil {
		return model.LineItem{}, fmt.Errorf("parsing row_id %q: %w", record[colRowID], err)
	}
	conf, err := strconv.ParseFloat(record[colConfidence], 64)
	if err != nil {
		return model.LineItem{}, fmt.Errorf("parsing mapping_confidence %q: %w", record[colConfidence], err)
	}
	level, err := strconv.Atoi(record[colLevel])
	if err != nil {
		return model.LineItem{}, fmt.Errorf("parsing hierarchy_level %q: %w", record[colLevel], err)
	}
	review, err := strconv.ParseBool(record[colNeedsReview])
	if err != nil {
		return model.LineItem{}, fmt.Errorf("parsing needs_review %q: %w", record[colNeedsReview], err)
	}
	subtotal, err := strconv.ParseBool(record[colSubtotalMapped])
	if err != nil {
		return model.LineItem{}, fmt.Errorf("parsing is_subtotal_mapped %q: %w", record[colSubtotalMapped], err)
	}
	cat, ok := model.ParseCategory(record[colCategory])
	if !ok {
		return model.LineItem{}, fmt.Errorf("unknown category %q", record[colCategory])
	}

	item := model.LineItem{
		RowID:             model.RowID(rowID),
		AccountName:       record[colAccount],
		RawName:           record[colRawName],
		RowType:           model.RowType(record[colRowType]),
		Category:          cat,
		Subcategory:       record[colSubcategory],
		MappingConfidence: conf,
		MappingMethod:     model.MappingMethod(record[colMethod]),
		HierarchyLevel:    level,
		NeedsReview:       review,
		SubtotalMapped:    subtotal,
	}
	if record[colSections] != "" {
		for _, s := range strings.Split(record[colSections], ";") {
			item.Sections = append(item.Sections, model.Section(s))
		}
	}
	for _, s := range record[numFixed : numFixed+n] {
		d, err := parseNull(s)
		if err != nil {
			return model.LineItem{}, fmt.Errorf("parsing amount %q: %w", s, err)
		}
		item.Amounts = append(item.Amounts, d)
	}
	if n > 0 {
		item.Changes = make([]model.PeriodChange, n)
	}
	for p := 1; p < n; p++ {
		at := numFixed + n + 2*(p-1)
		dollar, err := parseNull(record[at])
		if err != nil {
			return model.LineItem{}, fmt.Errorf("parsing change %q: %w", record[at], err)
		}
		pct, err := parseNull(record[at+1])
		if err != nil {
			return model.LineItem{}, fmt.Errorf("parsing change_pct %q: %w", record[at+1], err)
		}
		item.Changes[p] = model.PeriodChange{Dollar: dollar, Percent: pct}
	}
	return item, nil
}
