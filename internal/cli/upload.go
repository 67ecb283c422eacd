package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yildizm/LogTrack/internal/emoji"
	"github.com/yildizm/LogTrack/internal/inspect"
	"github.com/yildizm/LogTrack/internal/logger"
	"github.com/yildizm/LogTrack/internal/upload"
)

func newUploadCommand() *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload log files for analysis",
		Long: `Upload one or more log files to the analysis service.

Each file is checked before it is sent: only .log, .txt and .json files
up to 5MB are accepted. A failed file does not stop the remaining ones.

Examples:
  logtrack upload app.log
  logtrack upload --preview service.json worker.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, args, preview)
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "print a local summary of each file before uploading")

	return cmd
}

func runUpload(cmd *cobra.Command, paths []string, preview bool) error {
	api, metrics, err := newAPIClient()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	out := cmd.OutOrStdout()
	uploader := upload.NewUploader(api)

	var failed int
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}

		if preview {
			if err := printPreview(cmd, path); err != nil {
				printError(cmd, fmt.Errorf("%s: %w", path, err))
				failed++
				continue
			}
		}

		f, err := upload.Stat(path)
		if err == nil {
			err = uploader.Select(f)
		}
		if err != nil {
			printError(cmd, fmt.Errorf("%s: %w", path, err))
			failed++
			continue
		}

		fmt.Fprintf(out, "%s Uploading %s (%.2f KB)...\n", emoji.GetEmoji("upload"), f.Name, float64(f.Size)/1024)
		res, err := uploader.Submit(ctx)
		if err != nil {
			printError(cmd, fmt.Errorf("%s: %w", f.Name, err))
			failed++
			continue
		}

		log.Debug("upload accepted", logger.F("upload_id", res.UploadID), logger.F("file", f.Name))
		fmt.Fprintf(out, "%s %s\n", emoji.GetEmoji("success"), res.Notice())
	}

	if isVerbose() {
		printMetrics(cmd.ErrOrStderr(), metrics)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(paths))
	}
	return ctx.Err()
}

func printPreview(cmd *cobra.Command, path string) error {
	report, err := inspect.File(path, inspect.Options{})
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
	return writeOutput(cmd, output, "")
}
