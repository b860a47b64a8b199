// Package classify turns statement rows into line items: subtotal
// detection, section tagging, hierarchy and category resolution.
package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cleared-dev/plsense/internal/model"
)

var subtotalKeywords = []string{
	"total", "subtotal", "sum", "gross profit", "operating income",
	"ebitda", "ebit", "net income", "net profit", "net loss",
	"operating profit", "profit before tax", "earnings",
}

// IsSubtotal reports whether an account name denotes a subtotal row.
func IsSubtotal(name string) bool {
	return containsAny(strings.ToLower(name), subtotalKeywords)
}

type sectionPattern struct {
	section model.Section
	re      *regexp.Regexp
	// exclude rejects a match when it appears anywhere after the last
	// keyword hit.
	exclude string
}

var sectionPatterns = []sectionPattern{
	{section: model.SectionRevenue, re: regexp.MustCompile(`(revenue|sales|income)`), exclude: "expense"},
	{section: model.SectionCOGS, re: regexp.MustCompile(`(cost of (goods )?sold|cogs|cost of sales|direct cost)`)},
	{section: model.SectionGrossProfit, re: regexp.MustCompile(`gross (profit|margin|income)`)},
	{section: model.SectionOperatingExpenses, re: regexp.MustCompile(`(operating expense|opex|sg&a|general and administrative)`)},
	{section: model.SectionOperatingIncome, re: regexp.MustCompile(`(operating income|ebit[^d]|operating profit)`)},
	{section: model.SectionOtherIncome, re: regexp.MustCompile(`(other income|non-operating|interest income)`)},
	{section: model.SectionOtherExpense, re: regexp.MustCompile(`(other expense|interest expense)`)},
	{section: model.SectionPretaxIncome, re: regexp.MustCompile(`(income before tax|pre-?tax income|ebt)`)},
	{section: model.SectionTax, re: regexp.MustCompile(`(income tax|tax expense|provision for tax)`)},
	{section: model.SectionNetIncome, re: regexp.MustCompile(`(net (income|profit|loss)|bottom line)`)},
}

// Sections returns every section an account name matches, in pattern order.
func Sections(name string) []model.Section {
	lower := strings.ToLower(name)
	var out []model.Section
	for _, p := range sectionPatterns {
		if p.matches(lower) {
			out = append(out, p.section)
		}
	}
	return out
}

func (p sectionPattern) matches(s string) bool {
	locs := p.re.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return false
	}
	if p.exclude == "" {
		return true
	}
	// Some hit must not be followed by the excluded word.
	for _, loc := range locs {
		if !strings.Contains(s[loc[1]:], p.exclude) {
			return true
		}
	}
	return false
}

// Hierarchy returns the indentation level of a raw account name (one level
// per two leading whitespace characters) and the trimmed name.
func Hierarchy(raw string) (int, string) {
	trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)
	indent := utf8.RuneCountInString(raw[:len(raw)-len(trimmed)])
	return indent / 2, strings.TrimSpace(raw)
}
