/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	clierrors "github.com/coffeeshop/envctl/internal/errors"
	"github.com/coffeeshop/envctl/pkg/styles"
	"github.com/spf13/cobra"
)

// CommandOptions is implemented by the options struct of every command.
// Prepare validates the arguments and flags, Run does the actual work.
type CommandOptions interface {
	Prepare(cmd *cobra.Command, args []string) error
	Run(cmd *cobra.Command) error
}

// Implemented by options that embed UsePositionalArgs.
type hasPositionalArgs interface {
	Arguments() *PositionalArgs
}

// Replaced in tests.
var (
	osExit                = os.Exit
	errorOutput io.Writer = os.Stderr
)

// runCommand adapts a CommandOptions into a cobra Run function. Errors are
// printed and the process exits with the matching exit code.
func runCommand(opts CommandOptions) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := executeCommand(opts, cmd, args); err != nil {
			if clierrors.IsUsageError(err) {
				if cliErr, ok := clierrors.AsCLIError(err); ok && cliErr.Suggestion == "" {
					cliErr.WithSuggestion(fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()))
				}
			}
			exitWithError(err)
		}
	}
}

// executeCommand parses the positional arguments, then runs Prepare and Run.
// Errors from parsing or Prepare are reported as usage errors.
func executeCommand(opts CommandOptions, cmd *cobra.Command, args []string) error {
	if withArgs, ok := opts.(hasPositionalArgs); ok {
		if err := withArgs.Arguments().ParseCommandLine(args); err != nil {
			return clierrors.WrapUsageError(err, err.Error())
		}
	}

	if err := opts.Prepare(cmd, args); err != nil {
		if _, isCLIError := clierrors.AsCLIError(err); isCLIError {
			return err
		}
		return clierrors.WrapUsageError(err, err.Error())
	}

	return opts.Run(cmd)
}

func exitWithError(err error) {
	fmt.Fprintln(errorOutput, formatError(err))
	osExit(clierrors.GetExitCode(err))
}

// formatError renders an error for the terminal: the message, the dimmed
// cause, detail bullets and the hint.
func formatError(err error) string {
	cliErr, ok := clierrors.AsCLIError(err)
	if !ok {
		return styles.RenderError("Error: " + err.Error())
	}

	lines := []string{styles.RenderError("Error: " + cliErr.Message)}
	if cliErr.Cause != nil && cliErr.Cause.Error() != cliErr.Message {
		lines = append(lines, styles.RenderMuted("  "+cliErr.Cause.Error()))
	}
	if len(cliErr.Details) > 0 {
		lines = append(lines, "")
		for _, detail := range cliErr.Details {
			lines = append(lines, "  "+detail)
		}
	}
	if cliErr.Suggestion != "" {
		lines = append(lines, "", styles.RenderAttention("Hint: ")+cliErr.Suggestion)
	}
	return strings.Join(lines, "\n")
}

// trimIndent removes the common leading indentation of all non-empty lines
// and the surrounding blank lines, so help texts can be written as indented
// raw string literals.
func trimIndent(text string) string {
	lines := strings.Split(text, "\n")

	// Find the smallest indentation of the non-empty lines.
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
	}

	for ndx, line := range lines {
		if len(line) >= minIndent && minIndent > 0 {
			lines[ndx] = line[minIndent:]
		} else {
			lines[ndx] = strings.TrimLeft(line, " \t")
		}
	}

	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

// renderLong renders the long help text of a command, replacing {Arguments}
// with the description of the command's positional arguments.
func renderLong(opts hasPositionalArgs, text string) string {
	return strings.ReplaceAll(trimIndent(text), "{Arguments}", opts.Arguments().GetHelpText())
}
