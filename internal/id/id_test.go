package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPeriodKey(t *testing.T) {
	tests := []struct {
		year, month int
		want        string
	}{
		{2025, 1, "2025-01"},
		{2025, 12, "2025-12"},
		{999, 3, "0999-03"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPeriodKey(tt.year, tt.month))
	}
}

func TestParsePeriodKey(t *testing.T) {
	year, month, err := ParsePeriodKey("2024-07")
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 7, month)
}

func TestParsePeriodKey_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"2024",
		"2024-7",
		"24-07",
		"xxxx-01",
		"2024-13",
		"2024-00",
		"2024-01-15",
	}
	for _, input := range badInputs {
		_, _, err := ParsePeriodKey(input)
		assert.Error(t, err, "expected error for input: %s", input)
		assert.False(t, ValidPeriodKey(input))
	}
}

func TestStatementID_Deterministic(t *testing.T) {
	a := StatementID([]byte("Account,Jan 2024\nRevenue,100\n"))
	b := StatementID([]byte("Account,Jan 2024\nRevenue,100\n"))
	c := StatementID([]byte("Account,Jan 2024\nRevenue,101\n"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())
}
