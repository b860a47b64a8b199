package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/plsense/internal/analysis"
	"github.com/cleared-dev/plsense/internal/model"
)

func newParseCommand(opts *rootOptions) *cobra.Command {
	var hints hintFlags
	var reviewOnly bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Detect statement structure and classify accounts",
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
			return printParse(cmd, opts.output, r, reviewOnly)
		},
	}

	hints.register(cmd)
	cmd.Flags().BoolVar(&reviewOnly, "needs-review", false, "only list rows that need review")

	return cmd
}

type parseOutput struct {
	StatementID string                          `json:"statement_id"`
	Source      string                          `json:"source"`
	Statement   *model.ParsedStatement          `json:"statement"`
	Items       []model.LineItem                `json:"line_items"`
	Sections    map[model.Section][]model.RowID `json:"sections"`
	Summary     analysis.Summary                `json:"summary"`
}

func printParse(cmd *cobra.Command, output string, r *analysis.Report, reviewOnly bool) error {
	items := r.Items
	if reviewOnly {
		items = r.NeedsReview()
	}

	w := cmd.OutOrStdout()
	if output == outputJSON {
		return writeJSON(w, parseOutput{
			StatementID: r.StatementID,
			Source:      r.Source,
			Statement:   r.Statement,
			Items:       items,
			Sections:    r.Sections,
			Summary:     r.Summary(),
		})
	}

	st := r.Statement
	names := make([]string, len(r.Periods))
	for i, p := range r.Periods {
		names[i] = p.Name()
	}
	fmt.Fprintf(w, "%s %s\n", heading(r.Source), r.StatementID)
	fmt.Fprintf(w, "header row %d, account column %q\n", st.HeaderRow, st.AccountColumn.Name)
	fmt.Fprintf(w, "periods: %s\n\n", strings.Join(names, ", "))

	t := newTable(w, "ROW", "ACCOUNT", "TYPE", "CATEGORY", "CONFIDENCE", "METHOD", "")
	for _, item := range items {
		flag := ""
		if item.NeedsReview {
			flag = warn("review")
		}
		t.row(
			strconv.Itoa(int(item.RowID)),
			strings.Repeat("  ", max(item.HierarchyLevel-1, 0))+item.AccountName,
			string(item.RowType),
			string(item.Category),
			strconv.FormatFloat(item.MappingConfidence, 'f', 2, 64),
			string(item.MappingMethod),
			flag,
		)
	}
	if err := t.flush(); err != nil {
		return err
	}

	sum := r.Summary()
	fmt.Fprintf(w, "\n%d rows: %d line items, %d subtotals, %d need review\n",
		sum.Rows, sum.LineItems, sum.Subtotals, sum.NeedsReview)
	return nil
}
