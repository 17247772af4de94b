/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

// Package tui contains the interactive prompts of envctl. Every prompt
// refuses to run when interactive mode is disabled.
package tui

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// Is the UI library in interactive mode?
var isInteractiveMode = true

func IsInteractiveMode() bool {
	return isInteractiveMode
}

// Set the interactive mode of the UI library.
func SetInteractiveMode(isInteractive bool) {
	isInteractiveMode = isInteractive
}

// DetectInteractiveMode enables interactive mode only when both stdin and
// stdout are terminals and the caller has not disabled it.
func DetectInteractiveMode(nonInteractiveFlag bool) bool {
	if nonInteractiveFlag {
		return false
	}
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func requireInteractive(what string) error {
	if !isInteractiveMode {
		return fmt.Errorf("interactive mode required for %s", what)
	}
	return nil
}
