package structure

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cleared-dev/plsense/internal/model"
	"github.com/cleared-dev/plsense/internal/normalize"
)

// Parse applies the header row of t, drops empty rows and columns and
// classifies the remaining columns.
func Parse(t *model.RawTable, hints model.Hints) (*model.ParsedStatement, error) {
	if t == nil || len(t.Rows) == 0 {
		return nil, &model.MalformedTableError{Reason: "table has no rows"}
	}

	header := 0
	if hints.HeaderRow != nil {
		header = *hints.HeaderRow
		if header < 0 || header >= len(t.Rows) {
			return nil, &model.MalformedTableError{
				Reason: fmt.Sprintf("header row %d outside table of %d rows", header, len(t.Rows)),
			}
		}
	} else {
		header = DetectHeaderRow(t)
	}

	width := t.Width()
	var rows []model.Row
	for i := header + 1; i < len(t.Rows); i++ {
		cells := make([]model.Cell, width)
		copy(cells, t.Rows[i])
		if allEmpty(cells) {
			continue
		}
		rows = append(rows, model.Row{ID: model.RowID(i), Cells: cells})
	}
	if len(rows) == 0 {
		return nil, &model.MalformedTableError{Reason: "no data rows below header"}
	}

	var keep []int
	for c := 0; c < width; c++ {
		for _, r := range rows {
			if !r.Cells[c].IsEmpty() {
				keep = append(keep, c)
				break
			}
		}
	}
	if len(keep) == 0 {
		return nil, &model.MalformedTableError{Reason: "no non-empty columns"}
	}

	st := &model.ParsedStatement{
		HeaderRow: header,
		Columns:   columnNames(t.Rows[header], keep),
	}
	for _, r := range rows {
		cells := make([]model.Cell, len(keep))
		for j, c := range keep {
			cells[j] = r.Cells[c]
		}
		st.Rows = append(st.Rows, model.Row{ID: r.ID, Cells: cells})
	}

	roles, err := ClassifyColumns(st, hints)
	if err != nil {
		return nil, err
	}
	st.AccountColumn = roles.Account
	st.ValueColumns = roles.Values
	st.MetadataColumns = roles.Metadata
	st.PeriodColumns = periodColumns(roles.Values)
	for _, col := range roles.Dates {
		dc := model.DateColumn{Column: col, Keys: make([]string, len(st.Rows))}
		for i, r := range st.Rows {
			dc.Keys[i], _ = normalize.CellPeriodKey(st.Cell(r, col))
		}
		st.DateColumns = append(st.DateColumns, dc)
	}
	return st, nil
}

// columnNames names the kept columns from the header cells. Blank names
// become column_N and duplicates get the first free .1, .2 suffix, so every
// name is unique even when a header already reads "Amount.1".
func columnNames(header []model.Cell, keep []int) []model.Column {
	cols := make([]model.Column, len(keep))
	seen := make(map[string]int)
	for j, c := range keep {
		name := ""
		if c < len(header) {
			name = strings.TrimSpace(header[c].String())
		}
		if name == "" {
			name = fmt.Sprintf("column_%d", c+1)
		}
		if n, dup := seen[name]; dup {
			base := name
			for {
				n++
				name = fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[name] = 0
		cols[j] = model.Column{Index: j, Name: name}
	}
	return cols
}

// periodColumns binds value columns to periods. Columns whose header is a
// date are kept in chronological order; when none is a date every value
// column is a period in source order.
func periodColumns(values []model.Column) []model.PeriodColumn {
	var dated, all []model.PeriodColumn
	for _, col := range values {
		key, ok := normalize.PeriodKey(col.Name)
		all = append(all, model.PeriodColumn{Column: col})
		if ok {
			dated = append(dated, model.PeriodColumn{Column: col, Key: key})
		}
	}
	if len(dated) == 0 {
		return all
	}
	sort.SliceStable(dated, func(i, j int) bool { return dated[i].Key < dated[j].Key })
	return dated
}

func allEmpty(cells []model.Cell) bool {
	for _, c := range cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
