package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/plsense/internal/analysis"
	"github.com/cleared-dev/plsense/internal/model"
	"github.com/cleared-dev/plsense/internal/waterfall"
)

func newWaterfallCommand(opts *rootOptions) *cobra.Command {
	var hints hintFlags
	var metric, p1, p2 string
	var topN int

	cmd := &cobra.Command{
		Use:   "waterfall <file>",
		Short: "Bridge a metric between two period ranges",
		Long: "Bridge a metric between two period ranges.\n\n" +
			"Ranges are START:END period keys (YYYY-MM), or a single key. " +
			"Without ranges the suggested ranges are used.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := analysis.WaterfallQuery{Metric: metric}
			if cmd.Flags().Changed("top-n") {
				if topN < 0 {
					return fmt.Errorf("--top-n must not be negative")
				}
				q.TopN = &topN
			}
			var err error
			if q.Period1, err = parseRange(p1); err != nil {
				return fmt.Errorf("parsing --p1: %w", err)
			}
			if q.Period2, err = parseRange(p2); err != nil {
				return fmt.Errorf("parsing --p2: %w", err)
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			r, err := s.analyze(s.ctx, args[0], analysis.Params{Hints: hints.hints(cmd)})
			if err != nil {
				return err
			}
			res, err := r.Waterfall(q)
			if err != nil {
				return err
			}
			limit := s.cfg.Waterfall.TopN
			if q.TopN != nil {
				limit = *q.TopN
			}
			if violations := waterfall.Validate(res, limit); len(violations) > 0 {
				errs := make([]error, len(violations))
				for i, v := range violations {
					errs[i] = v
				}
				return fmt.Errorf("inconsistent bridge: %w", errors.Join(errs...))
			}

			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			return printWaterfall(cmd.OutOrStdout(), res)
		},
	}

	hints.register(cmd)
	cmd.Flags().StringVar(&metric, "metric", "revenue", "metric to bridge (category, alias or gross_profit, operating_profit, net_profit)")
	cmd.Flags().StringVar(&p1, "p1", "", "first period range, START:END")
	cmd.Flags().StringVar(&p2, "p2", "", "second period range, START:END")
	cmd.Flags().IntVar(&topN, "top-n", 0, "number of drivers (default from config)")

	return cmd
}

// parseRange parses "START:END" or a single period key. Empty input is nil.
func parseRange(s string) (*waterfall.Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	start, end, found := strings.Cut(s, ":")
	if !found {
		end = start
	}
	r := waterfall.Range{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func printWaterfall(w io.Writer, res *model.WaterfallResult) error {
	if len(res.Segments) == 0 {
		fmt.Fprintf(w, "%s: not enough periods for a bridge\n", res.Label)
		return nil
	}

	fmt.Fprintln(w, heading(res.Label))
	t := newTable(w, "SEGMENT", "VALUE", "")
	for _, seg := range res.Segments {
		value := seg.Value.StringFixed(2)
		if seg.Kind == model.SegmentDriver || seg.Kind == model.SegmentOther {
			value = signed(value, !seg.Value.IsNegative())
		}
		t.row(seg.Label, value, string(seg.Kind))
	}
	if err := t.flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nmovement %s (%.2f%%), %d drivers\n",
		res.TotalMovement.StringFixed(2), res.TotalMovementPct, res.DriverCount)
	return nil
}
