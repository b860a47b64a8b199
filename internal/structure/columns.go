package structure

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cleared-dev/plsense/internal/model"
	"github.com/cleared-dev/plsense/internal/normalize"
)

const (
	sampleSize      = 20
	dateSampleSize  = 5
	minNonNullRatio = 0.2
)

// datePatterns recognize text dates in a column sample. Month names must be
// whole words so values like "Marketing" do not qualify.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}`),
	regexp.MustCompile(`\d{2}/\d{4}`),
	regexp.MustCompile(`\b(jan(uary)?|feb(ruary)?|mar(ch)?|apr(il)?|may|june?|july?|aug(ust)?|sept?(ember)?|oct(ober)?|nov(ember)?|dec(ember)?)\b`),
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`),
}

// Roles is the column role assignment of a statement.
type Roles struct {
	Account  model.Column
	Dates    []model.Column
	Values   []model.Column
	Metadata []model.Column
}

type columnKind int

const (
	kindNumeric columnKind = iota
	kindText
	kindDate
)

// ClassifyColumns assigns every column of st a role. Explicit column hints
// bypass detection.
func ClassifyColumns(st *model.ParsedStatement, hints model.Hints) (Roles, error) {
	if len(st.Columns) == 0 {
		return Roles{}, &model.MalformedTableError{Reason: "no columns"}
	}
	if hints.HasColumnHints() {
		return hintedRoles(st, hints)
	}

	var roles Roles
	found := false
	for _, col := range st.Columns {
		sample := sampleColumn(st, col)
		if len(sample) == 0 {
			roles.Metadata = append(roles.Metadata, col)
			continue
		}
		switch kindOf(sample) {
		case kindDate:
			roles.Dates = append(roles.Dates, col)
		case kindText:
			switch {
			case !found:
				roles.Account, found = col, true
			case looksLikeDates(sample):
				roles.Dates = append(roles.Dates, col)
			default:
				roles.Metadata = append(roles.Metadata, col)
			}
		default:
			if nonNullRatio(st, col) > minNonNullRatio {
				roles.Values = append(roles.Values, col)
			} else {
				roles.Metadata = append(roles.Metadata, col)
			}
		}
	}

	if !found {
		roles.Account = st.Columns[0]
		roles.Values = without(roles.Values, roles.Account)
		roles.Dates = without(roles.Dates, roles.Account)
		roles.Metadata = without(roles.Metadata, roles.Account)
	}
	return roles, nil
}

func hintedRoles(st *model.ParsedStatement, hints model.Hints) (Roles, error) {
	var roles Roles
	if hints.AccountColumn != "" {
		col, ok := st.Column(hints.AccountColumn)
		if !ok {
			return Roles{}, unknownColumn(hints.AccountColumn)
		}
		roles.Account = col
	} else {
		roles.Account = st.Columns[0]
	}
	for _, name := range hints.DateColumns {
		col, ok := st.Column(name)
		if !ok {
			return Roles{}, unknownColumn(name)
		}
		roles.Dates = append(roles.Dates, col)
	}
	for _, name := range hints.ValueColumns {
		col, ok := st.Column(name)
		if !ok {
			return Roles{}, unknownColumn(name)
		}
		roles.Values = append(roles.Values, col)
	}
	return roles, nil
}

func unknownColumn(name string) error {
	return &model.MalformedTableError{Reason: fmt.Sprintf("hinted column %q not found", name)}
}

// sampleColumn returns up to sampleSize non-empty cells of a column.
func sampleColumn(st *model.ParsedStatement, col model.Column) []model.Cell {
	var out []model.Cell
	for _, r := range st.Rows {
		c := st.Cell(r, col)
		if c.IsEmpty() {
			continue
		}
		out = append(out, c)
		if len(out) == sampleSize {
			break
		}
	}
	return out
}

// kindOf decides a column kind from its sample. Text that parses as an
// amount counts as numeric.
func kindOf(sample []model.Cell) columnKind {
	var dates, numeric, text int
	for _, c := range sample {
		switch {
		case c.Kind == model.CellDate:
			dates++
		case normalize.CellAmount(c).Valid:
			numeric++
		default:
			text++
		}
	}
	switch {
	case dates == len(sample):
		return kindDate
	case text+dates > numeric:
		return kindText
	default:
		return kindNumeric
	}
}

func looksLikeDates(sample []model.Cell) bool {
	for i, c := range sample {
		if i >= dateSampleSize {
			break
		}
		s := strings.ToLower(c.String())
		for _, p := range datePatterns {
			if p.MatchString(s) {
				return true
			}
		}
	}
	return false
}

func nonNullRatio(st *model.ParsedStatement, col model.Column) float64 {
	if len(st.Rows) == 0 {
		return 0
	}
	n := 0
	for _, r := range st.Rows {
		if normalize.CellAmount(st.Cell(r, col)).Valid {
			n++
		}
	}
	return float64(n) / float64(len(st.Rows))
}

func without(cols []model.Column, drop model.Column) []model.Column {
	var out []model.Column
	for _, c := range cols {
		if c.Index != drop.Index {
			out = append(out, c)
		}
	}
	return out
}
