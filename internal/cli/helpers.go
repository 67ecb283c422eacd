package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yildizm/LogTrack/internal/client"
	"github.com/yildizm/LogTrack/internal/emoji"
	"github.com/yildizm/LogTrack/internal/formatter"
	"github.com/yildizm/LogTrack/internal/logger"
	"github.com/yildizm/LogTrack/internal/monitor"
)

// newAPIClient builds a client from the resolved configuration. The
// returned collector records every call the client makes.
func newAPIClient() (*client.Client, *monitor.Collector, error) {
	cfg := GetGlobalConfig()
	metrics := monitor.New()

	c, err := client.New(client.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	}, client.WithLogger(log.With("client")), client.WithCollector(metrics))
	if err != nil {
		return nil, nil, err
	}

	log.Debug("using analysis service", logger.F("base_url", c.BaseURL()))
	return c, metrics, nil
}

// getFormatter returns the formatter for the configured output format
func getFormatter() (formatter.Formatter, error) {
	cfg := GetGlobalConfig()
	return formatter.New(getOutputFormat(), formatter.Options{
		Color:           colorEnabled(),
		TimestampFormat: cfg.Output.TimestampFormat,
	})
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// writeOutput sends formatted output to path, or to the command's
// stdout when path is empty
func writeOutput(cmd *cobra.Command, output []byte, path string) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(output)
		return err
	}

	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}
	if err := writeOutputBytesToFile(output, path); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	log.Debug("output saved", logger.F("path", path))
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn("failed to close output file", logger.Err(closeErr))
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}

// describeError returns the user-facing message; verbose mode adds the
// kind, status and request id of service errors
func describeError(err error) string {
	var apiErr *client.APIError
	if isVerbose() && errors.As(err, &apiErr) {
		return apiErr.Describe()
	}
	return err.Error()
}

// printError writes a one-line failure to the command's stderr
func printError(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", emoji.GetEmoji("error"), describeError(err))
}

// printMetrics writes the call summary when anything was recorded
func printMetrics(w io.Writer, metrics *monitor.Collector) {
	summary := metrics.Snapshot().Summary()
	if summary == "" {
		return
	}
	fmt.Fprintf(w, "\n%s Service calls:\n", emoji.GetEmoji("statistics"))
	for _, line := range strings.Split(summary, "\n") {
		fmt.Fprintf(w, "   %s\n", line)
	}
}
