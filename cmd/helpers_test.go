/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	clierrors "github.com/coffeeshop/envctl/internal/errors"
	"github.com/coffeeshop/envctl/internal/tui"
	"github.com/coffeeshop/envctl/pkg/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// setupCommandTest runs the test in an empty directory without a config
// file, in non-interactive mode, without ENVCTL_* overrides, and with the
// log output captured into the returned buffer.
func setupCommandTest(t *testing.T) *bytes.Buffer {
	t.Helper()

	chdir(t, t.TempDir())
	for _, name := range envconfig.EnvVarNames() {
		t.Setenv(name, "")
	}

	prevConfigPath := flagConfigPath
	flagConfigPath = ""
	prevInteractive := tui.IsInteractiveMode()
	tui.SetInteractiveMode(false)

	var output bytes.Buffer
	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()
	log.Logger = zerolog.New(&coloredLineConsoleWriter{Out: &output})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	t.Cleanup(func() {
		flagConfigPath = prevConfigPath
		tui.SetInteractiveMode(prevInteractive)
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &output
}

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.SetContext(context.Background())
	return cmd
}

// run executes the command options like the CLI would. Positional arguments
// are set directly on the options by the tests.
func run(t *testing.T, opts CommandOptions) error {
	t.Helper()
	return executeCommand(opts, newTestCommand(), nil)
}

func expectExitCode(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with exit code %d, got success", code)
	}
	if got := clierrors.GetExitCode(err); got != code {
		t.Fatalf("expected exit code %d, got %d (%v)", code, got, err)
	}
}

// writeConfigFile writes an envctl.yaml with the built-in records into the
// current directory and returns its path.
func writeConfigFile(t *testing.T) string {
	t.Helper()
	content, err := envconfig.RenderConfigFileYAML(envconfig.Builtins())
	if err != nil {
		t.Fatalf("failed to render config file: %v", err)
	}
	if err := os.WriteFile(envconfig.ConfigFileName, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return envconfig.ConfigFileName
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(oldwd, dir)
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			panic("testing: chdir: " + err.Error())
		}
	})
}
