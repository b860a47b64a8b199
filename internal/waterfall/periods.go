package waterfall

import (
	"fmt"
	"sort"

	"github.com/cleared-dev/plsense/internal/id"
	"github.com/cleared-dev/plsense/internal/model"
)

// Range is an inclusive span of period keys.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Validate checks that both ends are period keys in order.
func (r Range) Validate() error {
	if !id.ValidPeriodKey(r.Start) {
		return fmt.Errorf("invalid range start %q", r.Start)
	}
	if !id.ValidPeriodKey(r.End) {
		return fmt.Errorf("invalid range end %q", r.End)
	}
	if r.End < r.Start {
		return fmt.Errorf("range end %s is before start %s", r.End, r.Start)
	}
	return nil
}

// Contains reports whether key falls inside the range.
func (r Range) Contains(key string) bool {
	return key != "" && key >= r.Start && key <= r.End
}

// Suggestion is a default pair of comparison ranges.
type Suggestion struct {
	Period1 []string `json:"period1"`
	Period2 []string `json:"period2"`
}

// Ranges returns the suggestion as key ranges. ok is false when the
// suggestion is empty.
func (s Suggestion) Ranges() (r1, r2 Range, ok bool) {
	if len(s.Period1) == 0 || len(s.Period2) == 0 {
		return Range{}, Range{}, false
	}
	r1 = Range{Start: s.Period1[0], End: s.Period1[len(s.Period1)-1]}
	r2 = Range{Start: s.Period2[0], End: s.Period2[len(s.Period2)-1]}
	return r1, r2, true
}

// AvailablePeriods returns the sorted, distinct period keys of the period
// column headers and the date column cells.
func AvailablePeriods(st *model.ParsedStatement) []string {
	seen := make(map[string]bool)
	for _, pc := range st.PeriodColumns {
		if pc.Key != "" {
			seen[pc.Key] = true
		}
	}
	for _, dc := range st.DateColumns {
		for _, k := range dc.Keys {
			if k != "" {
				seen[k] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SuggestRanges compares the latest 12 periods with the 12 before them when
// at least 24 exist, and otherwise splits the list in half.
func SuggestRanges(periods []string) Suggestion {
	if len(periods) < 2 {
		return Suggestion{Period1: []string{}, Period2: []string{}}
	}
	if n := len(periods); n >= 24 {
		return Suggestion{
			Period1: append([]string(nil), periods[n-24:n-12]...),
			Period2: append([]string(nil), periods[n-12:]...),
		}
	}
	mid := len(periods) / 2
	return Suggestion{
		Period1: append([]string(nil), periods[:mid]...),
		Period2: append([]string(nil), periods[mid:]...),
	}
}

// SelectColumns maps two key ranges to period positions. A column inside
// both ranges goes to period 1.
func SelectColumns(cols []model.PeriodColumn, r1, r2 Range) (p1, p2 []int, err error) {
	for i, pc := range cols {
		switch {
		case r1.Contains(pc.Key):
			p1 = append(p1, i)
		case r2.Contains(pc.Key):
			p2 = append(p2, i)
		}
	}
	if len(p1) == 0 {
		return nil, nil, &model.InsufficientDataError{
			Operation: "waterfall",
			Reason:    fmt.Sprintf("no period columns in %s..%s", r1.Start, r1.End),
		}
	}
	if len(p2) == 0 {
		return nil, nil, &model.InsufficientDataError{
			Operation: "waterfall",
			Reason:    fmt.Sprintf("no period columns in %s..%s", r2.Start, r2.End),
		}
	}
	return p1, p2, nil
}
