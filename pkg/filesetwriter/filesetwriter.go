/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

// Package filesetwriter plans, previews and writes a set of generated files.
package filesetwriter

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	clierrors "github.com/coffeeshop/envctl/internal/errors"
	"github.com/coffeeshop/envctl/pkg/styles"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

// ConflictPolicy determines what happens when a target file already exists
// with different content.
type ConflictPolicy int

const (
	Overwrite ConflictPolicy = iota // Replace the existing file (default).
	Skip                            // Don't write; keep the original.
)

// PlannedFile represents a single file to be written.
type PlannedFile struct {
	Path       string         // Target path to write to.
	Content    []byte         // File content.
	Perm       os.FileMode    // Permission bits (0644, 0755, etc).
	OnConflict ConflictPolicy // What to do if Path already exists.
}

// FileAction describes the resolved action for a file after scanning.
type FileAction int

const (
	ActionCreate    FileAction = iota // File is new, will be created.
	ActionOverwrite                   // File exists with other content, will be overwritten.
	ActionSkip                        // File exists with other content, will be kept.
	ActionUnchanged                   // File exists with identical content, nothing to do.
)

func (a FileAction) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionOverwrite:
		return "overwrite"
	case ActionSkip:
		return "skip"
	case ActionUnchanged:
		return "unchanged"
	default:
		return fmt.Sprintf("FileAction(%d)", int(a))
	}
}

// FileResult is the scan result for a single planned file.
type FileResult struct {
	File         PlannedFile // The original planned file.
	Action       FileAction  // Resolved action after scan.
	Exists       bool        // Target path already exists on disk.
	ReadOnly     bool        // Existing file is read-only.
	ExistingSize int64       // Size of the existing file (0 if it does not exist).
}

// Plan holds planned file operations and their resolved outcomes.
type Plan struct {
	files   []PlannedFile
	results []FileResult
	scanned bool
	written []string // Paths successfully written during Execute.
}

// NewPlan creates a new empty file plan.
func NewPlan() *Plan {
	return &Plan{}
}

// Add appends a file that will overwrite any existing file at the path.
func (p *Plan) Add(path string, content []byte, perm os.FileMode) *Plan {
	p.files = append(p.files, PlannedFile{
		Path:       path,
		Content:    content,
		Perm:       perm,
		OnConflict: Overwrite,
	})
	return p
}

// AddSkipExisting appends a file that will be skipped if it already exists.
func (p *Plan) AddSkipExisting(path string, content []byte, perm os.FileMode) *Plan {
	p.files = append(p.files, PlannedFile{
		Path:       path,
		Content:    content,
		Perm:       perm,
		OnConflict: Skip,
	})
	return p
}

// Scan inspects the filesystem and resolves the action for each planned file.
func (p *Plan) Scan() error {
	p.results = make([]FileResult, 0, len(p.files))

	for _, f := range p.files {
		r := FileResult{File: f}

		info, err := os.Stat(f.Path)
		if err != nil && !isMissing(err) {
			return clierrors.Wrap(err, fmt.Sprintf("Failed to stat %s", f.Path))
		}
		r.Exists = err == nil

		if !r.Exists {
			r.Action = ActionCreate
			p.results = append(p.results, r)
			continue
		}

		if info.IsDir() {
			return clierrors.Newf("Cannot write %s: a directory exists at that path", f.Path)
		}
		r.ExistingSize = info.Size()
		r.ReadOnly = isReadOnly(info)

		existing, err := os.ReadFile(f.Path)
		if err != nil {
			return clierrors.Wrap(err, fmt.Sprintf("Failed to read %s", f.Path))
		}

		switch {
		case bytes.Equal(existing, f.Content):
			r.Action = ActionUnchanged
		case f.OnConflict == Skip:
			r.Action = ActionSkip
		default:
			r.Action = ActionOverwrite
		}

		p.results = append(p.results, r)
	}

	p.scanned = true
	return nil
}

// Results returns the scan results. Panics if Scan has not been called.
func (p *Plan) Results() []FileResult {
	if !p.scanned {
		panic("filesetwriter: Results() called before Scan()")
	}
	return p.results
}

// FilesToWrite returns the number of files that will actually be written.
func (p *Plan) FilesToWrite() int {
	if !p.scanned {
		panic("filesetwriter: FilesToWrite() called before Scan()")
	}
	count := 0
	for _, r := range p.results {
		if r.willWrite() {
			count++
		}
	}
	return count
}

// HasReadOnlyFiles returns true if any file that would be written is read-only.
func (p *Plan) HasReadOnlyFiles() bool {
	if !p.scanned {
		panic("filesetwriter: HasReadOnlyFiles() called before Scan()")
	}
	for _, r := range p.results {
		if r.ReadOnly && r.willWrite() {
			return true
		}
	}
	return false
}

// HasConflicts returns true if any existing file would be replaced with
// different content.
func (p *Plan) HasConflicts() bool {
	if !p.scanned {
		panic("filesetwriter: HasConflicts() called before Scan()")
	}
	for _, r := range p.results {
		if r.Action == ActionOverwrite {
			return true
		}
	}
	return false
}

// Conflicts returns the paths of the files that would be overwritten.
func (p *Plan) Conflicts() []string {
	if !p.scanned {
		panic("filesetwriter: Conflicts() called before Scan()")
	}
	paths := []string{}
	for _, r := range p.results {
		if r.Action == ActionOverwrite {
			paths = append(paths, r.File.Path)
		}
	}
	return paths
}

func (r FileResult) willWrite() bool {
	return r.Action == ActionCreate || r.Action == ActionOverwrite
}

// Preview logs a summary of the planned file operations.
func (p *Plan) Preview() {
	if !p.scanned {
		panic("filesetwriter: Preview() called before Scan()")
	}

	for _, r := range p.results {
		newSize := humanize.Bytes(uint64(len(r.File.Content)))
		badge := ""
		switch r.Action {
		case ActionCreate:
			badge = styles.RenderSuccess(fmt.Sprintf(" (new, %s)", newSize))
		case ActionOverwrite:
			badge = styles.RenderAttention(fmt.Sprintf(" (overwrite, %s -> %s)", humanize.Bytes(uint64(r.ExistingSize)), newSize))
		case ActionSkip:
			badge = styles.RenderMuted(" (skip, exists)")
		case ActionUnchanged:
			badge = styles.RenderMuted(" (unchanged)")
		}

		readOnlyBadge := ""
		if r.ReadOnly && r.willWrite() {
			readOnlyBadge = styles.RenderWarning(" [read-only]")
		}

		log.Info().Msgf("  %s%s%s", styles.RenderTechnical(filepath.ToSlash(r.File.Path)), badge, readOnlyBadge)
	}
}

// Execute writes all planned files to disk.
// On failure, the error includes details about which files were already written.
// Use Written() to retrieve the list of successfully written paths.
func (p *Plan) Execute() error {
	if !p.scanned {
		panic("filesetwriter: Execute() called before Scan()")
	}

	p.written = nil

	for _, r := range p.results {
		switch r.Action {
		case ActionSkip:
			log.Info().Msgf("  %s", styles.RenderMuted(fmt.Sprintf("Skipped %s (already exists)", r.File.Path)))
			continue
		case ActionUnchanged:
			log.Debug().Msgf("Unchanged %s", r.File.Path)
			continue
		}

		dir := filepath.Dir(r.File.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return p.wrapWriteError(err, fmt.Sprintf("Failed to create directory %s", dir))
		}

		if err := os.WriteFile(r.File.Path, r.File.Content, r.File.Perm); err != nil {
			return p.wrapWriteError(err, fmt.Sprintf("Failed to write file %s", r.File.Path))
		}

		p.written = append(p.written, r.File.Path)

		if r.Action == ActionOverwrite {
			log.Info().Msgf("  %s", styles.RenderMuted("Updated "+r.File.Path))
		} else {
			log.Info().Msgf("  %s", styles.RenderMuted("Created "+r.File.Path))
		}
	}

	return nil
}

// Written returns the paths that were successfully written during Execute.
// Before a failure this is the partial list; on success it is all written paths.
func (p *Plan) Written() []string {
	return p.written
}

// wrapWriteError wraps a write error with details about previously written files.
func (p *Plan) wrapWriteError(err error, message string) error {
	cliErr := clierrors.Wrap(err, message).
		WithSuggestion("Check that you have write permissions to the output directory")
	if len(p.written) > 0 {
		details := make([]string, 0, len(p.written)+1)
		details = append(details, fmt.Sprintf("Successfully wrote %d file(s) before failure:", len(p.written)))
		for _, w := range p.written {
			details = append(details, fmt.Sprintf("  %s", w))
		}
		cliErr = cliErr.WithDetails(details...)
	}
	return cliErr
}

// isMissing checks whether a stat error means there is nothing at the path,
// including the case where a parent path component is a regular file.
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// isReadOnly returns true if the file's permission bits indicate it is read-only
// (owner write bit not set).
func isReadOnly(info os.FileInfo) bool {
	return info.Mode().Perm()&0200 == 0
}
