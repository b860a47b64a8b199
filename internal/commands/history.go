package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/plsense/internal/runlog"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var limit int
	var failedOnly bool

	cmd := &cobra.Command{
		Use:   "history [directory]",
		Short: "Show the batch run log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}

			entries, err := runlog.Read(absDir)
			if err != nil {
				return err
			}
			entries = filterHistory(entries, failedOnly, limit)
			if opts.output == outputJSON {
				if entries == nil {
					entries = []runlog.Entry{}
				}
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			return printHistory(cmd.OutOrStdout(), entries)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "show only the most recent entries (0 for all)")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "show only failed files")

	return cmd
}

// filterHistory keeps failed entries when asked, then the last limit of
// them. Log order is preserved.
func filterHistory(entries []runlog.Entry, failedOnly bool, limit int) []runlog.Entry {
	if failedOnly {
		var kept []runlog.Entry
		for _, e := range entries {
			if e.Status == runlog.StatusFailed {
				kept = append(kept, e)
			}
		}
		entries = kept
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries
}

func printHistory(w io.Writer, entries []runlog.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}
	t := newTable(w, "TIME", "FILE", "STATUS", "ROWS", "PERIODS", "REVIEW", "DETAILS")
	for _, e := range entries {
		status := good(string(e.Status))
		if e.Status == runlog.StatusFailed {
			status = bad(string(e.Status))
		}
		t.row(e.Timestamp.Local().Format(time.DateTime), e.File, status,
			fmt.Sprint(e.Rows), fmt.Sprint(e.Periods), fmt.Sprint(e.NeedsReview), e.Details)
	}
	return t.flush()
}
