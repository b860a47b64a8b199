// Package analysis runs the whole pipeline over one table: structure,
// classification, metrics and the inputs of the waterfall bridge.
package analysis

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cleared-dev/plsense/internal/classify"
	"github.com/cleared-dev/plsense/internal/id"
	"github.com/cleared-dev/plsense/internal/logger"
	"github.com/cleared-dev/plsense/internal/metrics"
	"github.com/cleared-dev/plsense/internal/model"
	"github.com/cleared-dev/plsense/internal/structure"
	"github.com/cleared-dev/plsense/internal/waterfall"
)

// Service analyzes statements with a shared resolver.
type Service struct {
	resolver *classify.Resolver
	topN     int
}

// NewService creates an analysis Service. A negative topN selects
// waterfall.DefaultTopN; zero folds every contributor into Other.
func NewService(resolver *classify.Resolver, topN int) *Service {
	if topN < 0 {
		topN = waterfall.DefaultTopN
	}
	return &Service{resolver: resolver, topN: topN}
}

// Params holds the per-statement inputs of Analyze.
type Params struct {
	Hints       model.Hints
	CashBalance *float64
	AsOf        time.Time
}

// Report is everything derived from one table.
type Report struct {
	StatementID      string                          `json:"statement_id"`
	Source           string                          `json:"source"`
	Statement        *model.ParsedStatement          `json:"statement"`
	Items            []model.LineItem                `json:"line_items"`
	Sections         map[model.Section][]model.RowID `json:"sections"`
	Periods          []model.Period                  `json:"periods"`
	AvailablePeriods []string                        `json:"available_periods"`
	SuggestedRanges  waterfall.Suggestion            `json:"suggested_ranges"`
	MetricOptions    []waterfall.MetricOption        `json:"metric_options"`
	Metrics          *model.MetricsResult            `json:"metrics"`

	topN int
}

// Analyze parses, classifies and measures a table.
func (s *Service) Analyze(ctx context.Context, t *model.RawTable, p Params) (*Report, error) {
	log := logger.FromContext(ctx)

	st, err := structure.Parse(t, p.Hints)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", t.Source, err)
	}
	log.Debug().Str("source", t.Source).Int("header_row", st.HeaderRow).
		Str("account_column", st.AccountColumn.Name).Int("periods", len(st.PeriodColumns)).
		Msg("statement structure detected")

	cls := classify.Classify(ctx, st, s.resolver)
	periods := st.Periods()
	available := waterfall.AvailablePeriods(st)

	r := &Report{
		StatementID:      id.StatementID(canonical(t)),
		Source:           t.Source,
		Statement:        st,
		Items:            cls.Items,
		Sections:         cls.Sections,
		Periods:          periods,
		AvailablePeriods: available,
		SuggestedRanges:  waterfall.SuggestRanges(available),
		MetricOptions:    waterfall.MetricOptions(cls.Items),
		Metrics: metrics.Compute(cls.Items, periods, metrics.Options{
			CashBalance: p.CashBalance,
			AsOf:        p.AsOf,
		}),
		topN: s.topN,
	}
	log.Info().Str("source", t.Source).Str("statement_id", r.StatementID).
		Int("rows", len(r.Items)).Int("needs_review", len(r.NeedsReview())).
		Msg("statement analyzed")
	return r, nil
}

// canonical serializes the cell grid so identical content yields identical
// statement IDs regardless of file name.
func canonical(t *model.RawTable) []byte {
	var buf bytes.Buffer
	for _, row := range t.Rows {
		for j, c := range row {
			if j > 0 {
				buf.WriteByte(0x1f)
			}
			buf.WriteString(c.String())
		}
		buf.WriteByte(0x1e)
	}
	return buf.Bytes()
}

// NeedsReview returns the rows whose mapping confidence is below
// model.ReviewThreshold.
func (r *Report) NeedsReview() []model.LineItem {
	out := []model.LineItem{}
	for _, item := range r.Items {
		if item.NeedsReview {
			out = append(out, item)
		}
	}
	return out
}

// Summary counts rows by type and category.
type Summary struct {
	Rows        int                    `json:"rows"`
	LineItems   int                    `json:"line_items"`
	Subtotals   int                    `json:"subtotals"`
	NeedsReview int                    `json:"needs_review"`
	ByCategory  map[model.Category]int `json:"by_category"`
}

// Summary tallies the report's line items.
func (r *Report) Summary() Summary {
	s := Summary{Rows: len(r.Items), ByCategory: make(map[model.Category]int)}
	for _, item := range r.Items {
		if item.IsSubtotal() {
			s.Subtotals++
		} else {
			s.LineItems++
		}
		if item.NeedsReview {
			s.NeedsReview++
		}
		s.ByCategory[item.Category]++
	}
	return s
}

// WaterfallQuery selects a bridge. Nil ranges fall back to the suggested
// ranges; a nil TopN uses the service default.
type WaterfallQuery struct {
	Metric  string
	Period1 *waterfall.Range
	Period2 *waterfall.Range
	TopN    *int
}

// Waterfall computes a bridge over the report's line items. A statement
// with fewer than two periods yields an empty bridge.
func (r *Report) Waterfall(q WaterfallQuery) (*model.WaterfallResult, error) {
	topN := r.topN
	if q.TopN != nil {
		topN = *q.TopN
	}
	req := waterfall.Request{Metric: q.Metric, TopN: topN}

	if q.Period1 != nil || q.Period2 != nil {
		if q.Period1 == nil || q.Period2 == nil {
			return nil, &model.InsufficientDataError{Operation: "waterfall", Reason: "both period ranges are required"}
		}
		for _, rg := range []waterfall.Range{*q.Period1, *q.Period2} {
			if err := rg.Validate(); err != nil {
				return nil, err
			}
		}
		p1, p2, err := waterfall.SelectColumns(r.Statement.PeriodColumns, *q.Period1, *q.Period2)
		if err != nil {
			return nil, err
		}
		req.Period1, req.Period2 = p1, p2
		return waterfall.Compute(r.Items, req)
	}

	if r1, r2, ok := r.SuggestedRanges.Ranges(); ok {
		if p1, p2, err := waterfall.SelectColumns(r.Statement.PeriodColumns, r1, r2); err == nil {
			req.Period1, req.Period2 = p1, p2
			return waterfall.Compute(r.Items, req)
		}
	}
	// No usable period keys: split the period columns in half.
	if n := len(r.Periods); n >= 2 {
		for _, p := range r.Periods {
			if p.Position < n/2 {
				req.Period1 = append(req.Period1, p.Position)
			} else {
				req.Period2 = append(req.Period2, p.Position)
			}
		}
	}
	return waterfall.Compute(r.Items, req)
}
