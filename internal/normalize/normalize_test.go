package normalize

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/plsense/internal/model"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string // "" = null
	}{
		{"1500", "1500"},
		{"$1,200.50", "1200.5"},
		{"(300)", "-300"},
		{"$(1,234.56)", "-1234.56"},
		{"€ 99", "99"},
		{"£1 000", "1000"},
		{"¥5", "5"},
		{"-42.5", "-42.5"},
		{"1e3", "1000"},
		{"  7  ", "7"},
		{"", ""},
		{"   ", ""},
		{"-", ""},
		{"500-", "-500"},
		{"$1,250.75-", "-1250.75"},
		{"-500-", ""},
		{"n/a", ""},
		{"12abc", ""},
		{"Revenue", ""},
	}
	for _, tt := range tests {
		got := Amount(tt.in)
		if tt.want == "" {
			assert.False(t, got.Valid, "Amount(%q) should be null", tt.in)
			continue
		}
		if assert.True(t, got.Valid, "Amount(%q) should parse", tt.in) {
			assert.True(t, got.Decimal.Equal(decimal.RequireFromString(tt.want)),
				"Amount(%q) = %s, want %s", tt.in, got.Decimal, tt.want)
		}
	}
}

func TestAmount_Idempotent(t *testing.T) {
	for _, in := range []string{"$1,200.50", "(300)", "0", "-7.25"} {
		first := Amount(in)
		second := Amount(first.Decimal.String())
		assert.True(t, second.Valid)
		assert.True(t, first.Decimal.Equal(second.Decimal), "re-parse of %q", in)
	}
}

func TestCellAmount(t *testing.T) {
	assert.True(t, CellAmount(model.NumberCell(decimal.NewFromInt(5))).Valid)
	assert.True(t, CellAmount(model.TextCell("(5)")).Decimal.Equal(decimal.NewFromInt(-5)))
	assert.False(t, CellAmount(model.Cell{}).Valid)
	assert.False(t, CellAmount(model.DateCell(time.Now())).Valid)
}

func TestNumber(t *testing.T) {
	d, ok := Number(" 1234.5 ")
	assert.True(t, ok)
	assert.Equal(t, "1234.5", d.String())

	for _, in := range []string{"$5", "1,000", "(5)", "", "Jan 2024"} {
		_, ok := Number(in)
		assert.False(t, ok, in)
	}
}

func TestPeriodKey(t *testing.T) {
	tests := []struct {
		in   string
		want string // "" = null
	}{
		{"2024-01-15", "2024-01"},
		{"2024-01", "2024-01"},
		{"2024/03/31", "2024-03"},
		{"1/31/2024", "2024-01"},
		{"12/2023", "2023-12"},
		{"Jan 2024", "2024-01"},
		{"JAN 2024", "2024-01"},
		{"February 2024", "2024-02"},
		{"Mar-2024", "2024-03"},
		{"April-2024", "2024-04"},
		{"May 5, 2024", "2024-05"},
		{"2024-06-30 00:00:00", "2024-06"},
		{"Period 2024-07 actual", "2024-07"},
		{"01-01-24", "2024-01"},
		{"1/1/24 00:00", "2024-01"},
		{"1-Jan-24", "2024-01"},
		{"12/31/99", "1999-12"},
		{"3/1/2024 13:45", "2024-03"},
		{"12 Feb 2006, 19:17", "2006-02"},
		{"2013-Feb-03", "2013-02"},
		{"Q1", ""},
		{"20240115", ""},
		{"2024-13", ""},
		{"Revenue", ""},
		{"Total", ""},
		{"2024", ""},
		{"", ""},
	}
	for _, tt := range tests {
		got, ok := PeriodKey(tt.in)
		if tt.want == "" {
			assert.False(t, ok, "PeriodKey(%q) should be null, got %q", tt.in, got)
			continue
		}
		assert.True(t, ok, "PeriodKey(%q) should parse", tt.in)
		assert.Equal(t, tt.want, got, "PeriodKey(%q)", tt.in)
	}
}

func TestPeriodKey_TwoDigitYearsAreFixed(t *testing.T) {
	// The century never depends on the current date.
	for in, want := range map[string]string{"1/1/68": "2068-01", "1/1/69": "1969-01", "Jan-00": "2000-01"} {
		got, ok := PeriodKey(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
}

func TestPeriodKey_Idempotent(t *testing.T) {
	for _, in := range []string{"Jan 2024", "2023-12-01", "7/4/2025"} {
		first, ok := PeriodKey(in)
		assert.True(t, ok)
		second, ok := PeriodKey(first)
		assert.True(t, ok)
		assert.Equal(t, first, second)
	}
}

func TestCellPeriodKey(t *testing.T) {
	key, ok := CellPeriodKey(model.DateCell(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
	assert.True(t, ok)
	assert.Equal(t, "2024-02", key)

	_, ok = CellPeriodKey(model.NumberCell(decimal.NewFromInt(2024)))
	assert.False(t, ok)
}
