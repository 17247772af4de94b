/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"

	clierrors "github.com/coffeeshop/envctl/internal/errors"
	"github.com/coffeeshop/envctl/internal/tui"
	"github.com/coffeeshop/envctl/pkg/envconfig"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Value of --config (or -c).
var flagConfigPath string

// Value of --non-interactive.
var flagNonInteractive bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "envctl",
	Short: "envctl: manage the deployment constants of the Coffee Shop front-end",
	Long: trimIndent(`
		envctl manages the environment records of the Coffee Shop front-end: the backend
		API base URL and the Auth0 client configuration, one record per build variant.

		The built-in records can be overridden with an envctl.yaml file (see 'envctl init')
		and with ENVCTL_* environment variables, also loaded from .env and .env.local.
		The 'generate' command compiles the records into the front-end's environment files.
	`),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize zerolog
		isVerbose, _ := cmd.Flags().GetBool("verbose")
		initLogger(isVerbose)

		tui.SetInteractiveMode(tui.DetectInteractiveMode(flagNonInteractive))

		if err := envconfig.LoadDotenvFiles(); err != nil {
			return clierrors.Wrap(err, "Failed to load .env files").
				WithSuggestion("Check the syntax of your .env files, or point ENV_FILE to a valid file")
		}
		return nil
	},
}

// ExecuteContext runs the root command with the given context and exits the
// process with the exit code matching the error, if any.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Errors from cobra itself (unknown commands or flags) are usage errors.
		if _, isCLIError := clierrors.AsCLIError(err); !isCLIError {
			err = clierrors.WrapUsageError(err, err.Error()).
				WithSuggestion("Run 'envctl --help' for usage")
		}
		exitWithError(err)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&flagConfigPath, "config", "c", "", "Path to the envctl.yaml config file (default: search the current and parent directories)")
	rootCmd.PersistentFlags().BoolVar(&flagNonInteractive, "non-interactive", false, "Never prompt, fail instead when input is missing")

	initColoredHelpTemplates(rootCmd)
}

// Customer version of zerolog's ConsoleWriter that writes out the full
// line with a color dependent on the log level. Intended for the default
// CLI non-decorated output mode.
type coloredLineConsoleWriter struct {
	Out       io.Writer
	UseColors bool
}

func (w *coloredLineConsoleWriter) Write(p []byte) (n int, err error) {
	var event map[string]any
	if err := json.Unmarshal(p, &event); err != nil {
		return 0, err
	}

	// Extract fields
	level, _ := event["level"].(string)
	message, _ := event["message"].(string)

	// Build the line
	var buf bytes.Buffer
	color := levelColor(level)
	if w.UseColors && color != "" {
		buf.WriteString(color)
	}
	buf.WriteString(message)
	if w.UseColors && color != "" {
		buf.WriteString("\033[0m") // Reset color
	}
	buf.WriteString("\n")

	// Write to the output
	if _, err := w.Out.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}

func levelColor(level string) string {
	switch level {
	case "trace":
		return "\033[95m" // Bright Magenta
	case "debug":
		return "\033[94m" // Bright Blue
	case "info":
		return "" // Default color
	case "warn":
		return "\033[93m" // Bright Yellow
	case "error":
		return "\033[91m" // Bright Red
	case "fatal":
		return "\033[35m" // Magenta
	case "panic":
		return "\033[31;1m" // Bold Red
	default:
		return "\033[37m" // Bright White
	}
}

// Initialize zerolog:
// In verbose mode, the output includes timestamps and log levels. Colors are
// always enabled.
// In non-verbose mode, the output is plain-text only, so its compatible with
// piping to `jq` and other tools. Colors are auto-detected based on the TTY used.
func initLogger(isVerbose bool) {
	if isVerbose {
		// Verbose logging: Debug level with timestamps and log level included
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		zerolog.TimeFieldFormat = "2006-01-02 15:04:05.000"
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "2006-01-02 15:04:05.000",
		}).With().
			Timestamp().
			Logger()
	} else {
		// Determine if colors can be used
		useColors := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

		// Non-verbose logging: Info level with no decorations
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Logger = zerolog.New(&coloredLineConsoleWriter{
			Out:       os.Stdout,
			UseColors: useColors,
		})
	}
}
