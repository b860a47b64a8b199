package model

// RowID identifies a row by its 0-based index in the source RawTable.
type RowID int

// Column is a column of a parsed statement.
type Column struct {
	Index int    `json:"index"` // position in ParsedStatement.Columns
	Name  string `json:"name"`
}

// PeriodColumn is a value column bound to a reporting period. Key is a
// "YYYY-MM" period key, or empty when the header is not a recognizable date.
type PeriodColumn struct {
	Column
	Key string `json:"key"`
}

// DateColumn is a column of per-row dates. Keys holds the normalized period
// key of each statement row ("" when the cell is not a date).
type DateColumn struct {
	Column
	Keys []string `json:"keys"`
}

// Row is a data row with cells aligned to ParsedStatement.Columns.
type Row struct {
	ID    RowID  `json:"row_id"`
	Cells []Cell `json:"-"`
}

// Hints override structure detection.
type Hints struct {
	HeaderRow     *int     `json:"header_row,omitempty"`
	AccountColumn string   `json:"account_column,omitempty"`
	DateColumns   []string `json:"date_columns,omitempty"`
	ValueColumns  []string `json:"value_columns,omitempty"`
}

// HasColumnHints reports whether any column role was given explicitly.
func (h Hints) HasColumnHints() bool {
	return h.AccountColumn != "" || len(h.DateColumns) > 0 || len(h.ValueColumns) > 0
}

// ParsedStatement is a RawTable with its header applied and its columns
// assigned to roles.
type ParsedStatement struct {
	HeaderRow       int            `json:"header_row"`
	Columns         []Column       `json:"columns"`
	AccountColumn   Column         `json:"account_column"`
	PeriodColumns   []PeriodColumn `json:"period_columns"`
	ValueColumns    []Column       `json:"value_columns"`
	DateColumns     []DateColumn   `json:"date_columns"`
	MetadataColumns []Column       `json:"metadata_columns"`
	Rows            []Row          `json:"-"`
}

// Period is one reporting period in chronological order.
type Period struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Position int    `json:"position"`
}

// Name returns the key when present, otherwise the column label.
func (p Period) Name() string {
	if p.Key != "" {
		return p.Key
	}
	return p.Label
}

// Periods returns the statement's periods in chronological order.
func (s *ParsedStatement) Periods() []Period {
	out := make([]Period, len(s.PeriodColumns))
	for i, pc := range s.PeriodColumns {
		out[i] = Period{Key: pc.Key, Label: pc.Name, Position: i}
	}
	return out
}

// Cell returns the cell of a row in the given column.
func (s *ParsedStatement) Cell(r Row, c Column) Cell {
	if c.Index < 0 || c.Index >= len(r.Cells) {
		return Cell{}
	}
	return r.Cells[c.Index]
}

// Column looks up a column by name.
func (s *ParsedStatement) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
