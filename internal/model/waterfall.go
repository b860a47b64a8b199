package model

import "github.com/shopspring/decimal"

// SegmentKind is the role of a waterfall segment.
type SegmentKind string

const (
	SegmentStart  SegmentKind = "start"
	SegmentDriver SegmentKind = "driver"
	SegmentOther  SegmentKind = "other"
	SegmentEnd    SegmentKind = "end"
)

// Measure tells a chart how to draw a segment.
type Measure string

const (
	MeasureAbsolute Measure = "absolute"
	MeasureRelative Measure = "relative"
	MeasureTotal    Measure = "total"
)

// Segment is one bar of a waterfall bridge.
type Segment struct {
	Label   string          `json:"label"`
	Account string          `json:"account,omitempty"`
	RowID   *RowID          `json:"row_id,omitempty"`
	Value   decimal.Decimal `json:"value"`
	Kind    SegmentKind     `json:"kind"`
	Measure Measure         `json:"measure"`
}

// WaterfallResult bridges a metric from one period set to another.
//
// OtherValue always carries the residual of the contributors outside the top
// drivers, but the Other segment is only emitted when |OtherValue| > 0.01.
// Summing Segments from start through the drivers can therefore miss
// Period2Total by up to 0.01; Period1Total + drivers + OtherValue is exact.
type WaterfallResult struct {
	Metric           string          `json:"metric"`
	Label            string          `json:"label"`
	// Segments runs start, drivers, Other (omitted when |OtherValue| <= 0.01), end.
	Segments         []Segment       `json:"segments"`
	Period1Total     decimal.Decimal `json:"period1_total"`
	Period2Total     decimal.Decimal `json:"period2_total"`
	TotalMovement    decimal.Decimal `json:"total_movement"`
	TotalMovementPct float64         `json:"total_movement_pct"`
	OtherValue       decimal.Decimal `json:"other_value"`
	DriverCount      int             `json:"driver_count"`
	YMin             decimal.Decimal `json:"y_min"`
}

// Drivers returns the driver segments in rank order.
func (w *WaterfallResult) Drivers() []Segment {
	var out []Segment
	for _, s := range w.Segments {
		if s.Kind == SegmentDriver {
			out = append(out, s)
		}
	}
	return out
}
