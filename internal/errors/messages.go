package errors

import (
	goerrors "errors"
	"fmt"
	"io/fs"

	"github.com/harrisjoseph/chlog/internal/changelog"
	"github.com/harrisjoseph/chlog/internal/workflow"
)

// Common error messages for the chlog CLI.
// These templates keep failures consistent and actionable.

// InvalidVersion creates an error for a malformed --version value.
func InvalidVersion(err error) *CLIError {
	e := NewArgumentErrorWithUsage(err.Error(),
		"chlog --version 1.2.3",
		"Versions are three dot-separated numbers of 1-3 digits (e.g., 1.2.3)",
		"Omit --version to use the newest version in the changelog",
	)
	e.Err = err
	return e
}

// InvalidDate creates an error for a malformed --date value.
func InvalidDate(err error) *CLIError {
	e := NewArgumentErrorWithUsage(err.Error(),
		"chlog --date 2026-01-15",
		"Dates use the YYYY-MM-DD format",
		"Omit --date to use today's date",
	)
	e.Err = err
	return e
}

// EmptyEntry creates an error when no added, changed or fixed items were given.
func EmptyEntry(err error) *CLIError {
	e := NewArgumentErrorWithUsage(err.Error(),
		`chlog --added "New thing" --fixed "Broken thing"`,
		"Provide at least one of --added, --changed or --fixed",
		"Or use --user to enter items interactively",
	)
	e.Err = err
	return e
}

// ChangelogNotFound creates an error for a missing changelog file.
func ChangelogNotFound(path string, err error) *CLIError {
	e := New(Prerequisite,
		fmt.Sprintf("changelog file not found: %s", path),
		"Check the path passed to --file",
		"Or set 'file' in .chlog.yml or CHLOG_FILE",
	)
	e.Err = err
	return e
}

// NoVersionFound creates an error when the file has no "## [x.y.z]" heading.
func NoVersionFound(err error) *CLIError {
	return Wrap(err, Format,
		"Add at least one released version heading such as '## [0.1.0] - 2026-01-01'",
		"Or pass the current version explicitly with --version",
	)
}

// NoExistingEntries creates an error when there is no version section to insert before.
func NoExistingEntries(err error) *CLIError {
	return Wrap(err, Format,
		"The changelog needs at least one '## [x.y.z]' section below the title",
	)
}

// NoCompareLinks creates an error when the trailing compare link block is missing.
func NoCompareLinks(err error) *CLIError {
	return Wrap(err, Format,
		"Add compare links at the end of the file, e.g.:",
		"[1.0.0]: https://github.com/owner/repo/compare/v0.9.0...v1.0.0",
	)
}

// CompareBlockAtFileStart creates an error when compare links start at line 1.
func CompareBlockAtFileStart(err error) *CLIError {
	return Wrap(err, Format,
		"The first line of the changelog must be a title such as '# Changelog'",
	)
}

// MalformedCompareLine creates an error when the newest compare link can't be rewritten.
func MalformedCompareLine(err error) *CLIError {
	return Wrap(err, Format,
		"The first compare link must look like '[x.y.z]: <url>/compare/vA...vB'",
	)
}

// PromptAborted creates an error when interactive input ended early.
func PromptAborted(err error) *CLIError {
	return Wrap(err, Runtime,
		"Enter at least one added, changed or fixed item before ending input",
	)
}

// FileNotWritable creates an error when the output file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	if path == "" {
		return Wrap(err, Runtime, "Choose a non-empty output suffix with --suffix")
	}
	e := New(Runtime,
		err.Error(),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
	e.Err = err
	return e
}

// FromError converts an error from the update workflow into a CLIError.
// Errors that are already CLIErrors are returned unchanged; unknown errors
// become Runtime errors.
func FromError(err error) *CLIError {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if goerrors.As(err, &cliErr) {
		return cliErr
	}

	switch {
	case goerrors.Is(err, changelog.ErrInvalidVersionFormat):
		return InvalidVersion(err)
	case goerrors.Is(err, changelog.ErrInvalidDate):
		return InvalidDate(err)
	case goerrors.Is(err, changelog.ErrPromptAborted):
		return PromptAborted(err)
	case goerrors.Is(err, changelog.ErrEmptyEntry):
		return EmptyEntry(err)
	case goerrors.Is(err, changelog.ErrNoVersionFound):
		return NoVersionFound(err)
	case goerrors.Is(err, changelog.ErrNoExistingEntries):
		return NoExistingEntries(err)
	case goerrors.Is(err, changelog.ErrNoCompareLinks):
		return NoCompareLinks(err)
	case goerrors.Is(err, changelog.ErrCompareBlockAtFileStart):
		return CompareBlockAtFileStart(err)
	case goerrors.Is(err, changelog.ErrMalformedCompareLine):
		return MalformedCompareLine(err)
	}

	var pathErr *fs.PathError
	if goerrors.Is(err, workflow.ErrOutputNotWritable) {
		path := ""
		if goerrors.As(err, &pathErr) {
			path = pathErr.Path
		}
		return FileNotWritable(path, err)
	}

	if goerrors.As(err, &pathErr) && goerrors.Is(err, fs.ErrNotExist) {
		return ChangelogNotFound(pathErr.Path, err)
	}

	return Wrap(err, Runtime)
}
