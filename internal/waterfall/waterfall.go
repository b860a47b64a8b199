// Package waterfall decomposes the movement of a P&L metric between two
// period sets into per-account drivers and a residual.
package waterfall

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/plsense/internal/model"
)

// DefaultTopN is the driver count used when none is configured.
const DefaultTopN = 5

const (
	labelLimit     = 30
	otherThreshold = "0.01"
)

// Request selects a metric and two disjoint sets of period positions
// (indexes into LineItem.Amounts).
type Request struct {
	Metric  string
	Period1 []int
	Period2 []int
	TopN    int
}

type contribution struct {
	item   model.LineItem
	impact decimal.Decimal
}

// Compute builds the bridge for req. Subtotal rows never contribute. The
// start total plus every driver and the Other value equals the end total
// exactly.
func Compute(items []model.LineItem, req Request) (*model.WaterfallResult, error) {
	m, err := LookupMetric(req.Metric)
	if err != nil {
		return nil, err
	}
	res := &model.WaterfallResult{
		Metric:   m.Name,
		Label:    m.Label,
		Segments: []model.Segment{},
	}
	if len(req.Period1) == 0 || len(req.Period2) == 0 {
		return res, nil
	}
	if pos, ok := overlap(req.Period1, req.Period2); ok {
		return nil, &model.InsufficientDataError{
			Operation: "waterfall",
			Reason:    fmt.Sprintf("period %d is in both period sets", pos),
		}
	}

	p1, p2 := decimal.Zero, decimal.Zero
	var contribs []contribution
	for _, item := range items {
		if item.IsSubtotal() {
			continue
		}
		s := m.sign(item.Category)
		if s == 0 {
			continue
		}
		sign := decimal.NewFromInt(s)
		a := sum(item, req.Period1).Mul(sign)
		b := sum(item, req.Period2).Mul(sign)
		p1 = p1.Add(a)
		p2 = p2.Add(b)
		contribs = append(contribs, contribution{item: item, impact: b.Sub(a)})
	}

	sort.SliceStable(contribs, func(i, j int) bool {
		return contribs[i].impact.Abs().GreaterThan(contribs[j].impact.Abs())
	})
	n := req.TopN
	if n < 0 {
		n = 0
	}
	if n > len(contribs) {
		n = len(contribs)
	}

	other := decimal.Zero
	for _, c := range contribs[n:] {
		other = other.Add(c.impact)
	}

	res.Segments = append(res.Segments, model.Segment{
		Label:   m.Label + " Period 1",
		Value:   p1,
		Kind:    model.SegmentStart,
		Measure: model.MeasureAbsolute,
	})
	for _, c := range contribs[:n] {
		rowID := c.item.RowID
		res.Segments = append(res.Segments, model.Segment{
			Label:   truncate(c.item.AccountName),
			Account: c.item.AccountName,
			RowID:   &rowID,
			Value:   c.impact,
			Kind:    model.SegmentDriver,
			Measure: model.MeasureRelative,
		})
	}
	if other.Abs().GreaterThan(decimal.RequireFromString(otherThreshold)) {
		res.Segments = append(res.Segments, model.Segment{
			Label:   "Other",
			Value:   other,
			Kind:    model.SegmentOther,
			Measure: model.MeasureRelative,
		})
	}
	res.Segments = append(res.Segments, model.Segment{
		Label:   m.Label + " Period 2",
		Value:   p2,
		Kind:    model.SegmentEnd,
		Measure: model.MeasureTotal,
	})

	res.Period1Total = p1
	res.Period2Total = p2
	res.TotalMovement = p2.Sub(p1)
	res.OtherValue = other
	res.DriverCount = n
	if !p1.IsZero() {
		res.TotalMovementPct = res.TotalMovement.Div(p1).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}
	if p1.IsPositive() {
		res.YMin = p1.Mul(decimal.RequireFromString("0.8")).Round(2)
	} else {
		res.YMin = p1.Mul(decimal.RequireFromString("1.2")).Round(2)
	}
	return res, nil
}

// sum adds the non-null amounts of an item over a set of positions.
func sum(item model.LineItem, positions []int) decimal.Decimal {
	total := decimal.Zero
	for _, pos := range positions {
		if a := item.Amount(pos); a.Valid {
			total = total.Add(a.Decimal)
		}
	}
	return total
}

func overlap(a, b []int) (int, bool) {
	in := make(map[int]bool, len(a))
	for _, p := range a {
		in[p] = true
	}
	for _, p := range b {
		if in[p] {
			return p, true
		}
	}
	return 0, false
}

func truncate(name string) string {
	r := []rune(name)
	if len(r) <= labelLimit {
		return name
	}
	return string(r[:labelLimit]) + "..."
}
