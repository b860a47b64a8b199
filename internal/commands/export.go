package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/plsense/internal/analysis"
	"github.com/cleared-dev/plsense/internal/export"
	"github.com/cleared-dev/plsense/internal/model"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var hints hintFlags
	var out, mappings, compare string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export classified line items as CSV",
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
			var prior []model.LineItem
			if compare != "" {
				if prior, err = readExport(compare); err != nil {
					return err
				}
			}

			if out == "" {
				if err := export.WriteLineItems(cmd.OutOrStdout(), r.Periods, r.Items); err != nil {
					return err
				}
			} else if err := exportItems(out, r.Periods, r.Items); err != nil {
				return err
			}

			if mappings != "" {
				if err := writeFile(mappings, func(w io.Writer) error {
					return export.WriteMappings(w, r.Items)
				}); err != nil {
					return err
				}
			}
			if out != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", len(r.Items), out)
			}
			if compare == "" {
				return nil
			}
			// Stdout carries the CSV unless --out is set.
			w := cmd.OutOrStdout()
			if out == "" {
				w = cmd.ErrOrStderr()
			}
			diffs := export.Compare(prior, r.Items)
			if opts.output == outputJSON {
				if diffs == nil {
					diffs = []export.Difference{}
				}
				return writeJSON(w, diffs)
			}
			return printDifferences(w, compare, diffs)
		},
	}

	hints.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "CSV destination (default stdout)")
	cmd.Flags().StringVar(&mappings, "mappings", "", "also write resolved categories as a mappings file")
	cmd.Flags().StringVar(&compare, "compare", "", "report category changes against a prior export")

	return cmd
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return write(f)
}

// readExport loads the line items of a previous export.
func readExport(path string) ([]model.LineItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	_, items, err := export.ReadLineItems(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return items, nil
}

func printDifferences(w io.Writer, prior string, diffs []export.Difference) error {
	if len(diffs) == 0 {
		fmt.Fprintf(w, "No category changes since %s\n", prior)
		return nil
	}
	fmt.Fprintln(w, heading("Changes since "+prior))
	t := newTable(w, "ACCOUNT", "CHANGE", "BEFORE", "AFTER")
	for _, d := range diffs {
		t.row(d.Account, string(d.Kind), string(d.Before), string(d.After))
	}
	return t.flush()
}

// exportItems writes one statement's line items to path.
func exportItems(path string, periods []model.Period, items []model.LineItem) error {
	return writeFile(path, func(w io.Writer) error {
		return export.WriteLineItems(w, periods, items)
	})
}
