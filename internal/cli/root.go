package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/yildizm/LogTrack/internal/config"
	"github.com/yildizm/LogTrack/internal/emoji"
	"github.com/yildizm/LogTrack/internal/logger"
	"github.com/yildizm/LogTrack/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string
	apiURL    string

	globalConfig *config.Config
	log          = logger.Discard()
)

// skipConfigAnnotation marks commands that must run even when the
// configuration on disk is invalid
const skipConfigAnnotation = "logtrack/skip-config"

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "logtrack",
		Short: "Upload logs for AI analysis and track the results",
		Long: `LogTrack uploads log files to the log analysis service and tracks
the analysis of every upload: issue type, root cause, suggested fix and a
1-5 severity rating.

Files are checked locally before upload (.log, .txt or .json, at most 5MB).
The upload history refreshes every 3 seconds in list --watch and the
interactive dashboard.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)

			return initGlobalConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format (text, json, markdown, csv)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "analysis service base URL (overrides config and LOGTRACK_API_URL)")

	rootCmd.AddCommand(newUploadCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newShowCommand())
	rootCmd.AddCommand(newDeleteCommand())
	rootCmd.AddCommand(newDashboardCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newPingCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// initGlobalConfig resolves configuration with flags taking precedence
func initGlobalConfig(cmd *cobra.Command) error {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		if !skipsConfig(cmd) {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = config.DefaultConfig()
	}

	if cmd.Flag("api-url").Changed {
		cfg.API.BaseURL = apiURL
	}
	if cmd.Flag("output").Changed {
		cfg.Output.DefaultFormat = outputFmt
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if noColor {
		cfg.Output.ColorMode = "never"
	}
	if err := cfg.Validate(); err != nil && !skipsConfig(cmd) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	globalConfig = cfg
	log = logger.New("cli", isVerbose)
	log.SetOutput(cmd.ErrOrStderr())

	ui.SetThemeByName(cfg.Output.Theme)
	ui.SetColorDisabled(!colorEnabled())
	return nil
}

func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigAnnotation] == "true" {
			return true
		}
	}
	return false
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Long:        "Display version number, build commit, date, and runtime information",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "LogTrack %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// GetGlobalConfig returns the resolved configuration, or defaults before
// the root command has run
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

func isVerbose() bool {
	return verbose || (globalConfig != nil && globalConfig.Output.Verbose)
}

func getOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}

// colorEnabled applies the configured color mode; auto means color only
// on a terminal and only when NO_COLOR is unset
func colorEnabled() bool {
	switch GetGlobalConfig().Output.ColorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return os.Getenv("NO_COLOR") == "" && isatty.IsTerminal(os.Stdout.Fd())
	}
}
