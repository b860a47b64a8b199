package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CellKind tells what a cell holds.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell is a single value of a RawTable.
type Cell struct {
	Kind   CellKind
	Text   string          // raw text as read; set for every non-empty cell
	Number decimal.Decimal // CellNumber only
	Time   time.Time       // CellDate only
}

// TextCell returns a text cell, or an empty cell for "".
func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell returns a numeric cell.
func NumberCell(d decimal.Decimal) Cell {
	return Cell{Kind: CellNumber, Text: d.String(), Number: d}
}

// DateCell returns a native date cell.
func DateCell(t time.Time) Cell {
	return Cell{Kind: CellDate, Text: t.Format("2006-01-02"), Time: t}
}

// IsEmpty reports whether the cell carries no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String returns the cell's display text.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		if c.Text != "" {
			return c.Text
		}
		return c.Number.String()
	case CellDate:
		if c.Text != "" {
			return c.Text
		}
		return c.Time.Format("2006-01-02")
	default:
		return c.Text
	}
}

// RawTable is a grid of cells as read from a file. No header is assumed and
// rows may be ragged.
type RawTable struct {
	Source string
	Rows   [][]Cell
}

// Width returns the length of the longest row.
func (t *RawTable) Width() int {
	w := 0
	for _, r := range t.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Cell returns the cell at (row, col), or an empty cell when out of range.
func (t *RawTable) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return Cell{}
	}
	return t.Rows[row][col]
}
