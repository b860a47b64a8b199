package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/plsense/internal/buildinfo"
	"github.com/cleared-dev/plsense/internal/config"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	output     string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "plsense",
		Short:   "Profit and loss statement analysis",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != outputText && opts.output != outputJSON {
				return fmt.Errorf("unknown output format %q (want text or json)", opts.output)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.FileName, "config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVarP(&opts.output, "output", "o", outputText, "output format (text or json)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newParseCommand(opts))
	rootCmd.AddCommand(newMetricsCommand(opts))
	rootCmd.AddCommand(newWaterfallCommand(opts))
	rootCmd.AddCommand(newPeriodsCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))
	rootCmd.AddCommand(newBatchCommand(opts))
	rootCmd.AddCommand(newHistoryCommand(opts))

	return rootCmd
}
