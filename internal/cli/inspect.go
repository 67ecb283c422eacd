package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yildizm/LogTrack/internal/inspect"
)

func newInspectCommand() *cobra.Command {
	var (
		maxExcerpts int
		outputFile  string
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a log file locally without uploading it",
		Long: `Parse a log file on this machine and report its line count, level
breakdown, time span and the first warning and error lines.

The file is checked with the same rules as upload, so anything inspect
accepts can be uploaded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := inspect.File(args[0], inspect.Options{MaxExcerpts: maxExcerpts})
			if err != nil {
				return err
			}

			f, err := getFormatter()
			if err != nil {
				return err
			}
			output, err := f.FormatReport(report)
			if err != nil {
				return fmt.Errorf("failed to format report: %w", err)
			}
			return writeOutput(cmd, output, outputFile)
		},
	}

	cmd.Flags().IntVar(&maxExcerpts, "excerpts", inspect.DefaultMaxExcerpts, "maximum number of problem lines to show")
	cmd.Flags().StringVar(&outputFile, "file", "", "write output to file instead of stdout")

	return cmd
}
