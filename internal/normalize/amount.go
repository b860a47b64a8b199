// Package normalize turns raw cell text into canonical amounts and period
// keys. Unparseable input yields null, never zero.
package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/plsense/internal/model"
)

// numericRegex validates a cleaned amount: integers, decimals and
// scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// amountStrip removes currency symbols, thousands separators and whitespace.
var amountStrip = regexp.MustCompile(`[$€£¥,\s]`)

// Amount parses accounting-formatted text such as "$1,200.50", "(300)" or
// "300-". Parentheses and a trailing minus mean negative.
func Amount(s string) decimal.NullDecimal {
	s = amountStrip.ReplaceAllString(s, "")
	if s == "" {
		return decimal.NullDecimal{}
	}

	if strings.Contains(s, "(") && strings.Contains(s, ")") {
		s = "-" + strings.NewReplacer("(", "", ")", "").Replace(s)
	}
	// Trailing minus, as in "500-".
	if len(s) > 1 && strings.HasSuffix(s, "-") {
		s = "-" + strings.TrimSuffix(s, "-")
	}

	if !numericRegex.MatchString(s) {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// CellAmount returns a cell's numeric value. Number cells pass through and
// text cells go through Amount.
func CellAmount(c model.Cell) decimal.NullDecimal {
	switch c.Kind {
	case model.CellNumber:
		return decimal.NewNullDecimal(c.Number)
	case model.CellText:
		return Amount(c.Text)
	default:
		return decimal.NullDecimal{}
	}
}

// Number parses plain numeric text with no currency or grouping marks.
func Number(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if !numericRegex.MatchString(s) {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
