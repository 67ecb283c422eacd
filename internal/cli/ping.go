package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yildizm/LogTrack/internal/emoji"
)

func newPingCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the analysis service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1")
			}

			api, metrics, err := newAPIClient()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			out := cmd.OutOrStdout()
			var lastErr error
			for i := 0; i < count && ctx.Err() == nil; i++ {
				health, err := api.Health(ctx)
				if err != nil {
					lastErr = err
					printError(cmd, err)
					continue
				}
				fmt.Fprintf(out, "%s %s at %s: %s\n", emoji.GetEmoji("server"), health.Service, api.BaseURL(), health.Status)
			}

			printMetrics(out, metrics)

			if lastErr != nil {
				return errors.New(describeError(lastErr))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of health checks to send")

	return cmd
}
