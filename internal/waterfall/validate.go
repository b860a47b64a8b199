package waterfall

import (
	"fmt"

	"github.com/cleared-dev/plsense/internal/model"
)

// Rule names a property every bridge must satisfy.
type Rule string

const (
	RuleReconciles  Rule = "reconciles"
	RuleDriverCount Rule = "driver_count"
	RuleShape       Rule = "shape"
)

// ValidationError describes a single rule violation.
type ValidationError struct {
	Rule        Rule
	Segment     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Rule, e.Segment, e.Description)
}

// Validate checks a computed bridge against the requested driver count.
// An empty bridge is valid.
func Validate(res *model.WaterfallResult, topN int) []ValidationError {
	if len(res.Segments) == 0 {
		return nil
	}
	var errs []ValidationError

	first, last := res.Segments[0], res.Segments[len(res.Segments)-1]
	if first.Kind != model.SegmentStart {
		errs = append(errs, ValidationError{
			Rule:        RuleShape,
			Segment:     first.Label,
			Description: fmt.Sprintf("first segment is %s, want start", first.Kind),
		})
	}
	if last.Kind != model.SegmentEnd {
		errs = append(errs, ValidationError{
			Rule:        RuleShape,
			Segment:     last.Label,
			Description: fmt.Sprintf("last segment is %s, want end", last.Kind),
		})
	}

	drivers := res.Drivers()
	total := res.Period1Total.Add(res.OtherValue)
	for _, d := range drivers {
		total = total.Add(d.Value)
	}
	if !total.Equal(res.Period2Total) {
		errs = append(errs, ValidationError{
			Rule:        RuleReconciles,
			Segment:     last.Label,
			Description: fmt.Sprintf("start + drivers + other = %s, end = %s", total, res.Period2Total),
		})
	}
	if !first.Value.Equal(res.Period1Total) {
		errs = append(errs, ValidationError{
			Rule:        RuleReconciles,
			Segment:     first.Label,
			Description: fmt.Sprintf("start segment %s != period 1 total %s", first.Value, res.Period1Total),
		})
	}
	if !res.TotalMovement.Equal(res.Period2Total.Sub(res.Period1Total)) {
		errs = append(errs, ValidationError{
			Rule:        RuleReconciles,
			Segment:     last.Label,
			Description: fmt.Sprintf("movement %s != %s", res.TotalMovement, res.Period2Total.Sub(res.Period1Total)),
		})
	}
	if other := otherSegment(res); other != nil && !other.Value.Equal(res.OtherValue) {
		errs = append(errs, ValidationError{
			Rule:        RuleReconciles,
			Segment:     other.Label,
			Description: fmt.Sprintf("other segment %s != other value %s", other.Value, res.OtherValue),
		})
	}

	if len(drivers) > topN || len(drivers) != res.DriverCount {
		errs = append(errs, ValidationError{
			Rule:        RuleDriverCount,
			Segment:     "drivers",
			Description: fmt.Sprintf("%d drivers, count %d, top_n %d", len(drivers), res.DriverCount, topN),
		})
	}
	return errs
}

func otherSegment(res *model.WaterfallResult) *model.Segment {
	for i := range res.Segments {
		if res.Segments[i].Kind == model.SegmentOther {
			return &res.Segments[i]
		}
	}
	return nil
}
