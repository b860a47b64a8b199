package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/plsense/internal/model"
)

// XLSXReader reads one worksheet of an Excel workbook. Sheet defaults to the
// first sheet.
type XLSXReader struct {
	Sheet string
}

// Format returns the reader name.
func (x *XLSXReader) Format() string { return "xlsx" }

// Read returns the formatted cell values of the sheet. Numeric cells with a
// date number format become native date cells.
func (x *XLSXReader) Read(r io.Reader, source string) (*model.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := x.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	dates := &dateStyles{f: f, sheet: sheet, known: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		dates.date1904 = *props.Date1904
	}

	t := &model.RawTable{Source: source, Rows: make([][]model.Cell, len(rows))}
	for i, rec := range rows {
		row := make([]model.Cell, len(rec))
		for j, s := range rec {
			row[j] = inferCell(s)
			if i < len(raw) && j < len(raw[i]) {
				if c, ok := dates.cell(i, j, raw[i][j]); ok {
					row[j] = c
				}
			}
		}
		t.Rows[i] = row
	}
	return t, nil
}

// dateStyles recognizes date-formatted serial numbers, caching the verdict
// per style index.
type dateStyles struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	known    map[int]bool
}

func (d *dateStyles) cell(row, col int, raw string) (model.Cell, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return model.Cell{}, false
	}
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return model.Cell{}, false
	}
	styleID, err := d.f.GetCellStyle(d.sheet, name)
	if err != nil || !d.isDate(styleID) {
		return model.Cell{}, false
	}
	tm, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return model.Cell{}, false
	}
	return model.DateCell(tm), true
}

func (d *dateStyles) isDate(styleID int) bool {
	if v, ok := d.known[styleID]; ok {
		return v
	}
	v := false
	if style, err := d.f.GetStyle(styleID); err == nil && style != nil {
		v = builtinDateFormat(style.NumFmt)
		if style.CustomNumFmt != nil {
			v = customDateFormat(*style.CustomNumFmt)
		}
	}
	d.known[styleID] = v
	return v
}

// builtinDateFormat reports whether a built-in number format id renders
// dates: 14-22 and 45-47, plus the CJK locale ranges.
func builtinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22, id >= 45 && id <= 47:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	}
	return false
}

// customDateFormat reports whether a format code contains date tokens
// outside quoted literals and bracketed sections.
func customDateFormat(code string) bool {
	var b strings.Builder
	quoted, bracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracket = true
		case r == ']':
			bracket = false
		case bracket:
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()
	return strings.ContainsAny(s, "dy") || strings.Contains(s, "mmm")
}
