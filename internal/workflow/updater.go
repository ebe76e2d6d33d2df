// chlog - Keep a Changelog entry writer
// Source: https://github.com/harrisjoseph/chlog

// Package workflow runs one changelog update: it resolves the current and
// next versions, gathers the entry content, splices the entry and its compare
// link into the file, and writes the result next to the input.
// Related: internal/changelog/editor.go, internal/changelog/prompt.go
// Tags: workflow, updater, changelog
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/harrisjoseph/chlog/internal/changelog"
	"github.com/harrisjoseph/chlog/internal/git"
)

// ErrOutputNotWritable is returned when the updated changelog cannot be written.
var ErrOutputNotWritable = errors.New("cannot write output file")

// Options describes one update run.
type Options struct {
	// File is the changelog to read.
	File string
	// OutputSuffix is appended to File to form the output path.
	OutputSuffix string
	// SearchRepoRoot looks for File at the git repository root when it is
	// not found relative to the working directory.
	SearchRepoRoot bool
	// Version is the current version; empty means the newest in File.
	Version string
	// Date is the entry date; empty means today.
	Date string
	// Minor bumps the minor version instead of the patch version.
	Minor bool
	// Interactive prompts for the date and entry items instead of using
	// Added, Changed and Fixed.
	Interactive bool
	Added       []string
	Changed     []string
	Fixed       []string
	// DryRun shows the preview without writing the output file.
	DryRun bool
	// Plain disables colors in the preview.
	Plain bool
}

// Result reports what an update produced.
type Result struct {
	InputPath      string
	OutputPath     string
	CurrentVersion changelog.Version
	// VersionFromFile is set when CurrentVersion was scanned from the file.
	VersionFromFile bool
	NextVersion     changelog.Version
	Entry           *changelog.LogEntry
	CompareLine     string
	Content         string
	Written         bool
}

// Updater performs changelog updates. In and Out are used for interactive
// prompts and status output.
type Updater struct {
	In    io.Reader
	Out   io.Writer
	Now   func() time.Time
	Debug bool
}

// NewUpdater creates an updater reading prompts from in and writing status to out.
func NewUpdater(in io.Reader, out io.Writer) *Updater {
	return &Updater{In: in, Out: out, Now: time.Now}
}

// debugLog prints a debug message if debug mode is enabled
func (u *Updater) debugLog(format string, args ...interface{}) {
	if u.Debug {
		fmt.Fprintf(os.Stderr, "[DEBUG][Updater] "+format+"\n", args...)
	}
}

// OutputPath returns the path the updated changelog is written to.
func OutputPath(file, suffix string) string {
	return file + suffix
}

// Run executes one update. Nothing is written unless every step succeeds,
// and the input file is never modified.
func (u *Updater) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.OutputSuffix == "" {
		return nil, fmt.Errorf("output suffix must not be empty: the input file would be overwritten")
	}

	date, err := u.resolveDate(opts.Date)
	if err != nil {
		return nil, err
	}

	path, err := u.resolvePath(opts.File, opts.SearchRepoRoot)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading changelog: %w", err)
	}
	editor := changelog.NewEditor(string(data))
	u.debugLog("read %s: %d lines", path, len(editor.Lines()))

	result := &Result{InputPath: path, OutputPath: OutputPath(path, opts.OutputSuffix)}

	steps := []struct {
		name string
		run  func() error
	}{
		{"resolve current version", func() error {
			return u.resolveCurrentVersion(opts.Version, editor, result)
		}},
		{"resolve next version", func() error {
			result.NextVersion = result.CurrentVersion.Increment(opts.Minor)
			if result.VersionFromFile {
				fmt.Fprintf(u.Out, "Last version in file is [%s], writing version [%s]\n",
					result.CurrentVersion, result.NextVersion)
			}
			return nil
		}},
		{"resolve entry content", func() error {
			return u.resolveEntry(opts, date, result)
		}},
		{"locate and synthesize", func() error {
			return u.synthesize(editor, result)
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		u.debugLog("step: %s", step.name)
		if err := step.run(); err != nil {
			return nil, err
		}
	}

	if err := changelog.FormatPreview(u.Out, result.Entry, result.CompareLine, changelog.FormatOptions{
		Plain: changelog.ResolvePlain(opts.Plain, u.Out),
	}); err != nil {
		return nil, fmt.Errorf("writing preview: %w", err)
	}

	if opts.DryRun {
		u.debugLog("dry run: not writing %s", result.OutputPath)
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := writeOutput(path, result.OutputPath, result.Content); err != nil {
		return nil, err
	}
	result.Written = true
	u.debugLog("wrote %s", result.OutputPath)

	return result, nil
}

// resolveDate validates an explicit date or returns today's date.
func (u *Updater) resolveDate(date string) (string, error) {
	if date == "" {
		return changelog.Today(u.now()), nil
	}
	if err := changelog.ValidateDate(date); err != nil {
		return "", fmt.Errorf("parsing --date: %w", err)
	}
	return date, nil
}

// resolvePath returns file, or the same name at the repository root when
// file does not exist and searchRepoRoot is set.
func (u *Updater) resolvePath(file string, searchRepoRoot bool) (string, error) {
	_, err := os.Stat(file)
	if err == nil || !searchRepoRoot || !errors.Is(err, os.ErrNotExist) {
		return file, nil
	}

	found, findErr := git.FindAtRepositoryRoot("", filepath.Base(file))
	if findErr != nil {
		u.debugLog("repository root lookup failed: %v", findErr)
		return file, nil
	}
	u.debugLog("using %s from repository root", found)
	return found, nil
}

// resolveCurrentVersion uses explicit when it is a valid X.Y.Z version and
// otherwise scans the file for the newest version heading.
func (u *Updater) resolveCurrentVersion(explicit string, editor *changelog.Editor, result *Result) error {
	if explicit != "" {
		v, err := changelog.ParseVersion(explicit)
		if err == nil {
			result.CurrentVersion = v
			return nil
		}
		u.debugLog("ignoring --version: %v", err)
		fmt.Fprintf(u.Out, "Ignoring --version %q (expected X.Y.Z), using the latest version in the file\n", explicit)
	}

	v, err := changelog.LatestVersion(editor.Lines())
	if err != nil {
		return fmt.Errorf("scanning %s: %w", result.InputPath, err)
	}
	result.CurrentVersion = v
	result.VersionFromFile = true
	return nil
}

func (u *Updater) resolveEntry(opts Options, date string, result *Result) error {
	next := result.NextVersion.String()

	if opts.Interactive {
		p := changelog.NewPrompter(u.In, u.Out).WithClock(u.now)
		entry, err := changelog.PromptLogEntry(p, next, date)
		if err != nil {
			return fmt.Errorf("prompting for entry: %w", err)
		}
		result.Entry = entry
		return nil
	}

	entry, err := changelog.NewLogEntry(next, date, opts.Added, opts.Changed, opts.Fixed)
	if err != nil {
		return err
	}
	result.Entry = entry
	return nil
}

func (u *Updater) synthesize(editor *changelog.Editor, result *Result) error {
	spans, err := editor.Locate()
	if err != nil {
		return fmt.Errorf("locating sections in %s: %w", result.InputPath, err)
	}
	u.debugLog("insertion index %d, compare block index %d", spans.Insertion, spans.CompareBlock)

	compareLine, err := changelog.SynthesizeCompareLine(editor.CompareLineAt(spans), result.CurrentVersion, result.NextVersion)
	if err != nil {
		return err
	}

	result.CompareLine = compareLine
	result.Content = editor.Apply(spans, result.Entry.Render(), compareLine)
	return nil
}

func (u *Updater) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}

// writeOutput writes content to outputPath with the input file's permissions.
func writeOutput(inputPath, outputPath, content string) error {
	if filepath.Clean(inputPath) == filepath.Clean(outputPath) {
		return fmt.Errorf("%w: refusing to overwrite input file %s", ErrOutputNotWritable, inputPath)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(inputPath); err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(outputPath, []byte(content), mode); err != nil {
		return fmt.Errorf("%w %s: %w", ErrOutputNotWritable, outputPath, err)
	}
	return nil
}
