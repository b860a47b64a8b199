package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/cleared-dev/plsense/internal/id"
	"github.com/cleared-dev/plsense/internal/model"
)

var (
	generalLayouts = []string{
		"2006-01-02", "2006-01-02T15:04:05", "2006-01-02 15:04:05", time.RFC3339,
		"2006-01", "2006/01/02", "2006/01", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006",
		"01/2006", "1/2006",
		"Jan 2, 2006", "January 2, 2006", "2 Jan 2006", "2 January 2006", "02-Jan-2006",
	}
	monthLayouts = []string{
		"Jan 2006", "January 2006", "Jan-2006", "January-2006",
	}
	// Two-digit years follow time.Parse: 69-99 are 19xx, 00-68 are 20xx.
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "01-02-06",
		"1/2/06 15:04", "01/02/06 15:04", "1/2/2006 15:04",
		"2-Jan-06", "02-Jan-06", "Jan-06", "Jan 06",
	}
)

// Years outside this range from the general parser are rejected.
const (
	minYear = 1900
	maxYear = 2199
)

var embeddedPeriod = regexp.MustCompile(`(\d{4})-(\d{2})`)

// PeriodKey parses a date-like header or cell into a "YYYY-MM" key.
func PeriodKey(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	for _, layout := range generalLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return formatTime(t), true
		}
	}

	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return formatTime(t), true
		}
	}

	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return formatTime(t), true
		}
	}

	// Bare digit runs are amounts or years, and labels like "Q1" carry no year.
	if digits, other := countRunes(s); other > 0 && digits >= 4 {
		if t, err := dateparse.ParseIn(s, time.UTC); err == nil && t.Year() >= minYear && t.Year() <= maxYear {
			return formatTime(t), true
		}
	}

	if m := embeddedPeriod.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return id.FormatPeriodKey(year, month), true
		}
	}

	return "", false
}

// CellPeriodKey returns the period key of a cell. Native dates format
// directly; numbers are never periods.
func CellPeriodKey(c model.Cell) (string, bool) {
	switch c.Kind {
	case model.CellDate:
		return formatTime(c.Time), true
	case model.CellText:
		return PeriodKey(c.Text)
	default:
		return "", false
	}
}

func formatTime(t time.Time) string {
	return id.FormatPeriodKey(t.Year(), int(t.Month()))
}

func countRunes(s string) (digits, other int) {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		} else {
			other++
		}
	}
	return digits, other
}
