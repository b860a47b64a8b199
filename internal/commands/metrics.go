package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/plsense/internal/analysis"
	"github.com/cleared-dev/plsense/internal/model"
)

func newMetricsCommand(opts *rootOptions) *cobra.Command {
	var hints hintFlags
	var mf metricFlags

	cmd := &cobra.Command{
		Use:   "metrics <file>",
		Short: "Compute burn, runway, growth and efficiency metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := analysis.Params{Hints: hints.hints(cmd)}
			if err := mf.apply(cmd, &p); err != nil {
				return err
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			r, err := s.analyze(s.ctx, args[0], p)
			if err != nil {
				return err
			}
			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), r.Metrics)
			}
			return printMetrics(cmd.OutOrStdout(), r.Metrics)
		},
	}

	hints.register(cmd)
	mf.register(cmd)

	return cmd
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func printMetrics(w io.Writer, m *model.MetricsResult) error {
	fmt.Fprintln(w, heading("Periods"))
	t := newTable(w, "PERIOD", "REVENUE", "EXPENSES", "NET INCOME")
	for _, a := range m.Aggregates {
		t.row(a.Period.Name(), a.Revenue.StringFixed(2), a.Expenses.StringFixed(2),
			signed(a.NetIncome.StringFixed(2), !a.NetIncome.IsNegative()))
	}
	if err := t.flush(); err != nil {
		return err
	}

	b := m.Burn
	fmt.Fprintf(w, "\n%s\n", heading("Burn"))
	fmt.Fprintf(w, "gross burn: avg %s, latest %s\n", money(b.GrossBurnAvg), money(b.GrossBurnLatest))
	fmt.Fprintf(w, "net burn:   avg %s, latest %s (%s, %s%%)\n",
		money(b.NetBurnAvg), money(b.NetBurnLatest), b.TrendDirection, money(b.TrendPct))

	if r := m.Runway; r != nil {
		fmt.Fprintf(w, "\n%s\n", heading("Runway"))
		if r.Unlimited {
			fmt.Fprintf(w, "cash %s: %s\n", money(r.CashBalance), good("not burning cash"))
		} else {
			status := string(r.Status)
			if r.Urgency == model.PriorityHigh {
				status = bad(status)
			}
			fmt.Fprintf(w, "cash %s: %s months, zero cash %s (%s)\n",
				money(r.CashBalance), money(r.MonthsRemaining), r.ZeroCashDate, status)
		}
	}

	g := m.Growth
	fmt.Fprintf(w, "\n%s\n", heading("Growth"))
	fmt.Fprintf(w, "MoM: avg %s%%, latest %s%%; overall %s%%; CMGR %s%% (%s)\n",
		money(g.MoMAvg), money(g.MoMLatest), money(g.Overall), money(g.CMGR), g.Trend)

	if e := m.Efficiency; e != nil {
		fmt.Fprintf(w, "\n%s\n", heading("Efficiency"))
		multiple := "n/a"
		if e.BurnMultiple != nil {
			multiple = money(*e.BurnMultiple)
		}
		fmt.Fprintf(w, "burn multiple %s (%s), revenue per dollar spent %s\n",
			multiple, e.Rating, money(e.RevenuePerDollarSpent))
	}

	if drivers := m.ExpenseDrivers.TopExpenses; len(drivers) > 0 {
		fmt.Fprintf(w, "\n%s\n", heading("Top expenses"))
		t := newTable(w, "ACCOUNT", "LATEST", "PREVIOUS", "CHANGE", "CHANGE %")
		for _, d := range drivers {
			t.row(d.Account, money(d.Latest), money(d.Previous),
				signed(money(d.ChangeDollar), d.ChangeDollar <= 0), money(d.ChangePercent))
		}
		if err := t.flush(); err != nil {
			return err
		}
	}

	if len(m.Insights) > 0 {
		fmt.Fprintf(w, "\n%s\n", heading("Insights"))
		for _, in := range m.Insights {
			fmt.Fprintf(w, "[%s] %s\n", in.Priority, in.Message)
		}
	}
	return nil
}
