// Package commands implements the extraction CLI commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/cmd/pagelens-cli/ui"
)

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "pagelens",
	Short: "Pagelens - document structure extraction",
	Long: `Pagelens turns scanned pages and PDFs into structured markdown.
It runs the same extraction pipeline as the HTTP service against local
files, writing per-page markdown and annotated images alongside the
aggregated result.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
