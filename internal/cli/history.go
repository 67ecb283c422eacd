package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/yildizm/LogTrack/internal/emoji"
	"github.com/yildizm/LogTrack/internal/formatter"
	"github.com/yildizm/LogTrack/internal/history"
	"github.com/yildizm/LogTrack/internal/upload"
)

// clearScreen moves the cursor home and clears the terminal
const clearScreen = "\033[H\033[2J"

func newListCommand() *cobra.Command {
	var (
		watch      bool
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploads and their analysis status",
		Long: `List every upload known to the analysis service, newest first.

With --watch the list is refreshed every 3 seconds until interrupted. A
failed refresh keeps the last list on screen and shows the error above it.

Examples:
  logtrack list
  logtrack list --output json --file uploads.json
  logtrack list --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				return runListWatch(cmd)
			}
			return runList(cmd, outputFile)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep refreshing the list")
	cmd.Flags().StringVar(&outputFile, "file", "", "write output to file instead of stdout")

	return cmd
}

func runList(cmd *cobra.Command, outputFile string) error {
	api, _, err := newAPIClient()
	if err != nil {
		return err
	}
	f, err := getFormatter()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	records, err := api.List(ctx)
	if err != nil {
		return errors.New(describeError(err))
	}

	output, err := f.FormatList(records)
	if err != nil {
		return fmt.Errorf("failed to format uploads: %w", err)
	}
	return writeOutput(cmd, output, outputFile)
}

func runListWatch(cmd *cobra.Command) error {
	api, metrics, err := newAPIClient()
	if err != nil {
		return err
	}
	f, err := getFormatter()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	out := cmd.OutOrStdout()
	var mu sync.Mutex
	redraw := func(v history.View) {
		mu.Lock()
		defer mu.Unlock()
		renderHistory(out, f, v)
	}

	store := history.NewStore(api, log.With("history"))
	poller := history.NewPoller(store,
		history.WithOnUpdate(redraw),
		history.WithLogger(log.With("poller")),
	)
	if err := poller.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	poller.Stop()

	if isVerbose() {
		printMetrics(cmd.ErrOrStderr(), metrics)
	}
	return nil
}

// renderHistory redraws one polling frame
func renderHistory(w io.Writer, f formatter.Formatter, v history.View) {
	fmt.Fprint(w, clearScreen)
	if v.Err != "" {
		fmt.Fprintf(w, "%s %s\n\n", emoji.GetEmoji("error"), v.Err)
	}

	output, err := f.FormatList(v.Records)
	if err != nil {
		fmt.Fprintf(w, "%s failed to format uploads: %v\n", emoji.GetEmoji("error"), err)
		return
	}
	_, _ = w.Write(output)

	if !v.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "\n%s Updated %s - press Ctrl+C to stop\n",
			emoji.GetEmoji("clock"), v.UpdatedAt.Format("15:04:05"))
	}
}

func newShowCommand() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one upload with its analysis",
		Long: `Show the details of one upload: file, size, status and, once the
analysis has finished, the issue type, root cause, suggested fix and
severity rating.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := newAPIClient()
			if err != nil {
				return err
			}
			f, err := getFormatter()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			record, err := api.Get(ctx, upload.ID(args[0]))
			if err != nil {
				return errors.New(describeError(err))
			}

			output, err := f.FormatRecord(*record)
			if err != nil {
				return fmt.Errorf("failed to format upload: %w", err)
			}
			return writeOutput(cmd, output, outputFile)
		},
	}

	cmd.Flags().StringVar(&outputFile, "file", "", "write output to file instead of stdout")

	return cmd
}

func newDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an upload and its analysis",
		Long: `Delete one upload from the analysis service. You are asked to confirm
unless --yes is given; nothing is sent when the prompt is declined.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := newAPIClient()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			confirm := promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
			if yes {
				confirm = func(string) bool { return true }
			}

			id := upload.ID(args[0])
			store := history.NewStore(api, log.With("history"))
			err = store.Remove(ctx, id, confirm)
			switch {
			case errors.Is(err, history.ErrDeleteDeclined):
				fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled")
				return nil
			case err != nil:
				return errors.New(describeError(err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Upload %s deleted\n", emoji.GetEmoji("trash"), id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

// promptConfirmer asks on out and accepts only y or yes from in
func promptConfirmer(in io.Reader, out io.Writer) history.Confirmer {
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s (y/N): ", prompt)
		answer, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
