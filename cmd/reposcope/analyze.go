package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/reposcope/reposcope/internal/output"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze a single repository and exit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAnalyzer()
		if err != nil {
			return err
		}

		report, err := a.AnalyzeRepository(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return output.NewFormatter(os.Stdout).Format(report)
	},
}
