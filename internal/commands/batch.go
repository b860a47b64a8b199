package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/plsense/internal/analysis"
	"github.com/cleared-dev/plsense/internal/ingest"
	"github.com/cleared-dev/plsense/internal/logger"
	"github.com/cleared-dev/plsense/internal/runlog"
)

const (
	importDir  = "import"
	exportsDir = "exports"
)

type batchOptions struct {
	concurrency   int
	moveProcessed bool
	export        bool
}

func newBatchCommand(opts *rootOptions) *cobra.Command {
	var bo batchOptions

	cmd := &cobra.Command{
		Use:   "batch [directory]",
		Short: "Analyze every statement in the import directory",
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
			if bo.concurrency < 1 {
				return fmt.Errorf("--concurrency must be at least 1")
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			entries, err := runBatch(s, absDir, bo)
			if err != nil {
				return err
			}
			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			return printBatch(cmd.OutOrStdout(), entries)
		},
	}

	cmd.Flags().IntVar(&bo.concurrency, "concurrency", 4, "files analyzed at once")
	cmd.Flags().BoolVar(&bo.moveProcessed, "move-processed", false, "move analyzed files to import/processed")
	cmd.Flags().BoolVar(&bo.export, "export", false, "write each statement's line items to exports/")

	return cmd
}

// runBatch analyzes the files in <root>/import and appends one run-log
// entry per file. A file that fails to analyze is logged as failed; only
// I/O errors on the project itself abort the batch.
func runBatch(s *session, root string, bo batchOptions) ([]runlog.Entry, error) {
	files, err := s.registry.Scan(filepath.Join(root, importDir))
	if err != nil {
		return nil, err
	}
	if bo.export && len(files) > 0 {
		if err := os.MkdirAll(filepath.Join(root, exportsDir), 0o755); err != nil {
			return nil, fmt.Errorf("creating exports dir: %w", err)
		}
	}

	log := logger.FromContext(s.ctx)
	entries := make([]runlog.Entry, len(files))
	reports := make([]*analysis.Report, len(files))

	g, ctx := errgroup.WithContext(s.ctx)
	g.SetLimit(bo.concurrency)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry := runlog.Entry{Timestamp: time.Now().UTC(), File: f.Name, Status: runlog.StatusOK}

			r, err := s.analyze(ctx, f.Path, analysis.Params{})
			if err != nil {
				log.Warn().Err(err).Str("file", f.Name).Msg("analysis failed")
				entry.Status = runlog.StatusFailed
				entry.Details = err.Error()
				entries[i] = entry
				return nil
			}
			entry.StatementID = r.StatementID
			entry.Rows = len(r.Items)
			entry.Periods = len(r.Periods)
			entry.NeedsReview = len(r.NeedsReview())
			entries[i] = entry
			reports[i] = r

			if bo.export {
				name := strings.TrimSuffix(f.Name, filepath.Ext(f.Name)) + ".csv"
				if err := exportItems(filepath.Join(root, exportsDir, name), r.Periods, r.Items); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := runlog.Append(root, entries); err != nil {
		return nil, err
	}

	if bo.moveProcessed {
		for i, f := range files {
			if reports[i] == nil {
				continue
			}
			if err := ingest.MarkProcessed(filepath.Join(root, importDir), f.Name); err != nil {
				return nil, err
			}
		}
	}
	log.Info().Int("files", len(files)).Msg("batch complete")
	return entries, nil
}

func printBatch(w io.Writer, entries []runlog.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No files to analyze")
		return nil
	}
	t := newTable(w, "FILE", "STATUS", "ROWS", "PERIODS", "REVIEW", "DETAILS")
	failed := 0
	for _, e := range entries {
		status := good(string(e.Status))
		if e.Status == runlog.StatusFailed {
			status = bad(string(e.Status))
			failed++
		}
		t.row(e.File, status, fmt.Sprint(e.Rows), fmt.Sprint(e.Periods), fmt.Sprint(e.NeedsReview), e.Details)
	}
	if err := t.flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d analyzed, %d failed\n", len(entries)-failed, failed)
	return nil
}
