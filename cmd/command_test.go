/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"

	clierrors "github.com/coffeeshop/envctl/internal/errors"
	"github.com/spf13/cobra"
)

func TestTrimIndent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single line", "hello", "hello"},
		{"common indent removed", "\n\t\t\tfirst\n\t\t\tsecond\n\t\t", "first\nsecond"},
		{"relative indent kept", "\n\t\tlist:\n\t\t- item\n\t\t  continued\n", "list:\n- item\n  continued"},
		{"blank lines inside kept", "\n    a\n\n    b\n", "a\n\nb"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := trimIndent(test.input); got != test.expected {
				t.Errorf("expected %q, got %q", test.expected, got)
			}
		})
	}
}

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name      string
		argv      []string
		withExtra bool
		expected  []string // variant, field, extra args...
		wantErr   string
	}{
		{"required only", []string{"dev"}, false, []string{"dev", ""}, ""},
		{"required and optional", []string{"dev", "apiServerUrl"}, false, []string{"dev", "apiServerUrl"}, ""},
		{"missing required", []string{}, false, nil, "missing required argument VARIANT, expecting: VARIANT [FIELD]"},
		{"unexpected extra", []string{"dev", "apiServerUrl", "more"}, false, nil, "unexpected arguments more"},
		{"extra args collected", []string{"dev", "apiServerUrl", "a", "b"}, true, []string{"dev", "apiServerUrl", "a", "b"}, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var variant, field string
			var extra []string
			args := PositionalArgs{}
			args.AddStringArgument(&variant, "VARIANT", "Variant.")
			args.AddStringArgumentOpt(&field, "FIELD", "Field.")
			if test.withExtra {
				args.SetExtraArgs(&extra, "EXTRA", "Extra args.")
			}

			err := args.ParseCommandLine(test.argv)
			if test.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), test.wantErr) {
					t.Fatalf("expected error containing '%s', got %v", test.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := append([]string{variant, field}, extra...)
			if !reflect.DeepEqual(got, test.expected) {
				t.Errorf("expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestPositionalArgsHelpText(t *testing.T) {
	var variant, field string
	var extra []string
	args := PositionalArgs{}
	if got := args.GetHelpText(); got != "No positional arguments are required for this command." {
		t.Errorf("unexpected help for empty args: %q", got)
	}

	args.AddStringArgument(&variant, "VARIANT", "Variant to show.")
	args.AddStringArgumentOpt(&field, "FIELD", "Field to show.")
	args.SetExtraArgs(&extra, "MORE", "Anything else.")

	expected := strings.Join([]string{
		"Arguments:",
		"- VARIANT: Variant to show.",
		"- FIELD (optional): Field to show.",
		"- MORE (optional): Anything else.",
	}, "\n")
	if got := args.GetHelpText(); got != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, got)
	}
}

type fakeOpts struct {
	UsePositionalArgs

	argName    string
	prepareErr error
	runErr     error
	ran        bool
}

func (o *fakeOpts) Prepare(cmd *cobra.Command, args []string) error { return o.prepareErr }

func (o *fakeOpts) Run(cmd *cobra.Command) error {
	o.ran = true
	return o.runErr
}

func TestExecuteCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		opts     *fakeOpts
		exitCode int
		ran      bool
	}{
		{"success", []string{"espresso"}, &fakeOpts{}, 0, true},
		{"missing argument is usage error", nil, &fakeOpts{}, 2, false},
		{"plain prepare error is usage error", []string{"espresso"}, &fakeOpts{prepareErr: fmt.Errorf("bad flag")}, 2, false},
		{"cli error from prepare kept", []string{"espresso"}, &fakeOpts{prepareErr: clierrors.NewInvalidConfigf("bad record")}, 3, false},
		{"run error kept", []string{"espresso"}, &fakeOpts{runErr: fmt.Errorf("network down")}, 1, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.opts.Arguments().AddStringArgument(&test.opts.argName, "NAME", "Name.")
			err := executeCommand(test.opts, newTestCommand(), test.args)
			if got := clierrors.GetExitCode(err); got != test.exitCode {
				t.Errorf("expected exit code %d, got %d (%v)", test.exitCode, got, err)
			}
			if test.opts.ran != test.ran {
				t.Errorf("expected ran=%v", test.ran)
			}
		})
	}
}

func TestRunCommandExitsWithCode(t *testing.T) {
	var output bytes.Buffer
	exitCode := -1
	prevExit, prevOutput := osExit, errorOutput
	osExit = func(code int) { exitCode = code }
	errorOutput = &output
	t.Cleanup(func() { osExit, errorOutput = prevExit, prevOutput })

	opts := &fakeOpts{prepareErr: fmt.Errorf("invalid format 'xml'")}
	runCommand(opts)(&cobra.Command{Use: "show"}, nil)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	text := output.String()
	if !strings.Contains(text, "Error: invalid format 'xml'") {
		t.Errorf("missing error message in output:\n%s", text)
	}
	if !strings.Contains(text, "Hint: Run 'show --help' for usage") {
		t.Errorf("missing usage hint in output:\n%s", text)
	}
}

func TestFormatError(t *testing.T) {
	err := clierrors.Wrap(fmt.Errorf("connection refused"), "Failed to reach the API server").
		WithDetails("apiServerUrl: http://10.0.0.5:5000").
		WithSuggestion("Check your VPN")

	expected := strings.Join([]string{
		"Error: Failed to reach the API server",
		"  connection refused",
		"",
		"  apiServerUrl: http://10.0.0.5:5000",
		"",
		"Hint: Check your VPN",
	}, "\n")
	if got := formatError(err); got != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, got)
	}

	if got := formatError(fmt.Errorf("plain failure")); got != "Error: plain failure" {
		t.Errorf("unexpected plain error rendering %q", got)
	}
}

func TestColoredLineConsoleWriter(t *testing.T) {
	tests := []struct {
		name      string
		event     string
		useColors bool
		expected  string
	}{
		{"info plain", `{"level":"info","message":"hello"}`, false, "hello\n"},
		{"info colored has no color", `{"level":"info","message":"hello"}`, true, "hello\n"},
		{"warn colored", `{"level":"warn","message":"careful"}`, true, "\033[93mcareful\033[0m\n"},
		{"error plain", `{"level":"error","message":"boom"}`, false, "boom\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			writer := &coloredLineConsoleWriter{Out: &buf, UseColors: test.useColors}
			n, err := writer.Write([]byte(test.event))
			if err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if n != len(test.event) {
				t.Errorf("expected %d bytes consumed, got %d", len(test.event), n)
			}
			if buf.String() != test.expected {
				t.Errorf("expected %q, got %q", test.expected, buf.String())
			}
		})
	}
}

func TestRootHelpListsVariants(t *testing.T) {
	var output bytes.Buffer
	rootCmd.SetOut(&output)
	rootCmd.SetArgs([]string{"--help"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}

	text := output.String()
	for _, expected := range []string{"Variants:", "development", "environment.prod.ts", "generate", "validate"} {
		if !strings.Contains(text, expected) {
			t.Errorf("help output is missing '%s':\n%s", expected, text)
		}
	}
}


func TestCommandHelpRendersFlags(t *testing.T) {
	var output bytes.Buffer
	rootCmd.SetOut(&output)
	rootCmd.SetArgs([]string{"show", "--help"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}

	text := output.String()
	for _, expected := range []string{"Usage:", "Flags:", "--format", "Global Flags:", "--verbose"} {
		if !strings.Contains(text, expected) {
			t.Errorf("help output is missing '%s':\n%s", expected, text)
		}
	}
	if strings.Contains(text, "Variants:") {
		t.Errorf("variant list should only be shown in the root help:\n%s", text)
	}
}

func TestHelpStylersKeepText(t *testing.T) {
	// Output is not a terminal, so styling must not alter the text.
	tests := []struct {
		name   string
		styler func(string) string
		input  string
	}{
		{"flag with shorthand and type", styleFlags, "  -c, --config string   Path to envctl.yaml"},
		{"flag without type", styleFlags, "      --verbose         Enable debug logging"},
		{"continuation line", styleFlags, "                        second line"},
		{"inline code", styleInlineCode, "Reads `envctl.yaml` and writes `src/environments`."},
		{"unterminated inline code", styleInlineCode, "a `b"},
		{"example", styleExample, "# Show the production record\nenvctl show prod\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.styler(test.input); got != test.input {
				t.Errorf("expected %q, got %q", test.input, got)
			}
		})
	}
}
