package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/plsense/internal/analysis"
	"github.com/cleared-dev/plsense/internal/waterfall"
)

type periodsOutput struct {
	Available []string                 `json:"available_periods"`
	Suggested waterfall.Suggestion     `json:"suggested_ranges"`
	Metrics   []waterfall.MetricOption `json:"metric_options"`
}

func newPeriodsCommand(opts *rootOptions) *cobra.Command {
	var hints hintFlags

	cmd := &cobra.Command{
		Use:   "periods <file>",
		Short: "List periods, suggested comparison ranges and bridgeable metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			r, err := s.analyze(s.ctx, args[0], analysis.Params{Hints: hints.hints(cmd)})
			if err != nil {
				return err
			}

			out := periodsOutput{
				Available: r.AvailablePeriods,
				Suggested: r.SuggestedRanges,
				Metrics:   r.MetricOptions,
			}
			w := cmd.OutOrStdout()
			if opts.output == outputJSON {
				return writeJSON(w, out)
			}

			fmt.Fprintf(w, "periods: %s\n", strings.Join(out.Available, ", "))
			if r1, r2, ok := out.Suggested.Ranges(); ok {
				fmt.Fprintf(w, "suggested: %s:%s vs %s:%s\n", r1.Start, r1.End, r2.Start, r2.End)
			}
			t := newTable(w, "METRIC", "LABEL")
			for _, m := range out.Metrics {
				t.row(m.Value, m.Label)
			}
			return t.flush()
		},
	}

	hints.register(cmd)

	return cmd
}
