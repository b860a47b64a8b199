package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/plsense/internal/config"
	"github.com/cleared-dev/plsense/internal/ingest"
	"github.com/cleared-dev/plsense/internal/taxonomy"
)

const taxonomyFile = "taxonomy.yaml"

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new plsense project",
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

			return runInit(cmd.OutOrStdout(), absDir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	return cmd
}

func runInit(out io.Writer, dir string, force bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if !force {
		if _, err := os.Stat(cfgPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking config: %w", err)
		}
	}

	// Create directory structure.
	dirs := []string{
		importDir,
		filepath.Join(importDir, ingest.ProcessedDir),
		exportsDir,
		"logs",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write plsense.yaml pointing at an editable copy of the taxonomy.
	cfg := config.Default()
	cfg.TaxonomyFile = taxonomyFile
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := taxonomy.Default().Save(filepath.Join(dir, taxonomyFile)); err != nil {
		return err
	}

	gitignore := "exports/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, importDir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Fprintf(out, "Initialized plsense project at %s\n", dir)
	return nil
}
