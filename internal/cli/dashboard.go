package cli

import (
	"github.com/spf13/cobra"

	"github.com/yildizm/LogTrack/internal/history"
	"github.com/yildizm/LogTrack/internal/ui"
)

func newDashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"tui"},
		Short:   "Open the interactive upload dashboard",
		Long: `Open a full-screen view of the upload history that refreshes every
3 seconds.

Keys:
  up/down, j/k   move the selection
  enter          show the analysis of the selected upload
  u              upload a file
  d              delete the selected upload
  /              search by file name, id, status or issue type
  r              refresh now
  ?              help
  q, ctrl+c      quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := newAPIClient()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			return ui.Run(ctx, api, ui.Options{
				Interval:        history.DefaultInterval,
				TimestampFormat: GetGlobalConfig().Output.TimestampFormat,
				Logger:          log.With("dashboard"),
			})
		},
	}
}
