/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package filesetwriter

import (
	"os"
	"path/filepath"
	"testing"

	clierrors "github.com/coffeeshop/envctl/internal/errors"
)

func TestNewPlanIsEmpty(t *testing.T) {
	p := NewPlan()
	if err := p.Scan(); err != nil {
		t.Fatal(err)
	}
	if got := p.FilesToWrite(); got != 0 {
		t.Fatalf("expected 0 files to write, got %d", got)
	}
	if got := len(p.Results()); got != 0 {
		t.Fatalf("expected 0 results, got %d", got)
	}
}

func TestScanResolvesActions(t *testing.T) {
	tests := []struct {
		name     string
		existing *string // nil when the file does not exist
		content  string
		skip     bool
		expected FileAction
	}{
		{"new file", nil, "hello", false, ActionCreate},
		{"new file with skip policy", nil, "hello", true, ActionCreate},
		{"changed file", ptr("old"), "new", false, ActionOverwrite},
		{"changed file with skip policy", ptr("old"), "new", true, ActionSkip},
		{"identical file", ptr("same"), "same", false, ActionUnchanged},
		{"identical file with skip policy", ptr("same"), "same", true, ActionUnchanged},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "environment.ts")
			if test.existing != nil {
				os.WriteFile(path, []byte(*test.existing), 0644)
			}

			p := NewPlan()
			if test.skip {
				p.AddSkipExisting(path, []byte(test.content), 0644)
			} else {
				p.Add(path, []byte(test.content), 0644)
			}
			if err := p.Scan(); err != nil {
				t.Fatal(err)
			}

			r := p.Results()[0]
			if r.Action != test.expected {
				t.Fatalf("expected %s, got %s", test.expected, r.Action)
			}
			if r.Exists != (test.existing != nil) {
				t.Fatalf("expected Exists=%v, got %v", test.existing != nil, r.Exists)
			}
			if test.existing != nil && r.ExistingSize != int64(len(*test.existing)) {
				t.Fatalf("expected ExistingSize=%d, got %d", len(*test.existing), r.ExistingSize)
			}
		})
	}
}

func ptr(s string) *string { return &s }

func TestConflicts(t *testing.T) {
	dir := t.TempDir()
	changed := filepath.Join(dir, "environment.ts")
	same := filepath.Join(dir, "environment.prod.ts")
	os.WriteFile(changed, []byte("old"), 0644)
	os.WriteFile(same, []byte("same"), 0644)

	p := NewPlan()
	p.Add(changed, []byte("new"), 0644).Add(same, []byte("same"), 0644)
	if err := p.Scan(); err != nil {
		t.Fatal(err)
	}

	if !p.HasConflicts() {
		t.Fatal("expected HasConflicts()=true")
	}
	conflicts := p.Conflicts()
	if len(conflicts) != 1 || conflicts[0] != changed {
		t.Fatalf("expected conflicts [%s], got %v", changed, conflicts)
	}
	if p.FilesToWrite() != 1 {
		t.Fatalf("expected 1 file to write, got %d", p.FilesToWrite())
	}
}

func TestReadOnlyDetection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readonly.txt")
	os.WriteFile(path, []byte("locked"), 0444)

	p := NewPlan()
	p.Add(path, []byte("new"), 0644)

	if err := p.Scan(); err != nil {
		t.Fatal(err)
	}

	r := p.Results()[0]
	if !r.ReadOnly {
		t.Fatal("expected ReadOnly=true for 0444 file")
	}
	if !p.HasReadOnlyFiles() {
		t.Fatal("expected HasReadOnlyFiles()=true")
	}
}

func TestReadOnlyUnchangedFileNotReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readonly.txt")
	os.WriteFile(path, []byte("locked"), 0444)

	p := NewPlan()
	p.Add(path, []byte("locked"), 0644)

	if err := p.Scan(); err != nil {
		t.Fatal(err)
	}

	if p.HasReadOnlyFiles() {
		t.Fatal("expected HasReadOnlyFiles()=false for unchanged read-only file")
	}
}

func TestScanRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "environment.ts")
	os.Mkdir(path, 0755)

	p := NewPlan()
	p.Add(path, []byte("content"), 0644)

	err := p.Scan()
	if err == nil {
		t.Fatal("expected error when a directory exists at the target path")
	}
	if _, ok := clierrors.AsCLIError(err); !ok {
		t.Fatalf("expected *CLIError, got %T", err)
	}
}

func TestExecuteWritesFiles(t *testing.T) {
	dir := t.TempDir()
	created := filepath.Join(dir, "src", "environments", "environment.ts")
	overwritten := filepath.Join(dir, "overwritten.ts")
	skipped := filepath.Join(dir, "skipped.ts")
	unchanged := filepath.Join(dir, "unchanged.ts")
	os.WriteFile(overwritten, []byte("old"), 0644)
	os.WriteFile(skipped, []byte("keep"), 0644)
	os.WriteFile(unchanged, []byte("same"), 0644)

	p := NewPlan()
	p.Add(created, []byte("created"), 0644)
	p.Add(overwritten, []byte("new"), 0644)
	p.AddSkipExisting(skipped, []byte("ignored"), 0644)
	p.Add(unchanged, []byte("same"), 0644)

	if err := p.Scan(); err != nil {
		t.Fatal(err)
	}
	if err := p.Execute(); err != nil {
		t.Fatal(err)
	}

	expected := map[string]string{
		created:     "created",
		overwritten: "new",
		skipped:     "keep",
		unchanged:   "same",
	}
	for path, content := range expected {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read %s: %v", path, err)
		}
		if string(data) != content {
			t.Fatalf("expected %s to contain %q, got %q", path, content, data)
		}
	}

	written := p.Written()
	if len(written) != 2 || written[0] != created || written[1] != overwritten {
		t.Fatalf("expected Written=[%s %s], got %v", created, overwritten, written)
	}
}

func TestExecuteTracksPartialWrites(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	// Place a regular file where MkdirAll expects a directory, forcing a failure.
	blocker := filepath.Join(dir, "blocker")
	os.WriteFile(blocker, []byte("I'm a file"), 0644)
	bad := filepath.Join(blocker, "sub", "bad.txt")

	p := NewPlan()
	p.Add(good, []byte("ok"), 0644)
	p.Add(bad, []byte("fail"), 0644)

	if err := p.Scan(); err != nil {
		t.Fatal(err)
	}
	err := p.Execute()
	if err == nil {
		t.Fatal("expected error from Execute")
	}

	written := p.Written()
	if len(written) != 1 || written[0] != good {
		t.Fatalf("expected Written=[%s], got %v", good, written)
	}

	cliErr, ok := clierrors.AsCLIError(err)
	if !ok {
		t.Fatalf("expected *CLIError, got %T", err)
	}
	if len(cliErr.Details) != 2 {
		t.Fatalf("expected details listing the written file, got %v", cliErr.Details)
	}
}

func TestWrittenEmptyBeforeExecute(t *testing.T) {
	p := NewPlan()
	if len(p.Written()) != 0 {
		t.Fatal("expected empty Written() before Execute")
	}
}

func TestResultsBeforeScanPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when calling Results() before Scan()")
		}
	}()
	NewPlan().Results()
}
