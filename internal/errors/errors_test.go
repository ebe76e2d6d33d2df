package errors

import (
	goerrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/harrisjoseph/chlog/internal/changelog"
	"github.com/harrisjoseph/chlog/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err          error
		wantCategory ErrorCategory
		wantUsage    bool
	}{
		"invalid version": {
			err:          fmt.Errorf("parsing --version: %w", changelog.ErrInvalidVersionFormat),
			wantCategory: Argument,
			wantUsage:    true,
		},
		"invalid date":   {err: changelog.ErrInvalidDate, wantCategory: Argument, wantUsage: true},
		"empty entry":    {err: changelog.ErrEmptyEntry, wantCategory: Argument, wantUsage: true},
		"no version":     {err: changelog.ErrNoVersionFound, wantCategory: Format},
		"no entries":     {err: changelog.ErrNoExistingEntries, wantCategory: Format},
		"no links":       {err: changelog.ErrNoCompareLinks, wantCategory: Format},
		"block at start": {err: changelog.ErrCompareBlockAtFileStart, wantCategory: Format},
		"malformed link": {err: changelog.ErrMalformedCompareLine, wantCategory: Format},
		"prompt aborted": {err: changelog.ErrPromptAborted, wantCategory: Runtime},
		"unknown":        {err: goerrors.New("boom"), wantCategory: Runtime},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := FromError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantUsage, got.Usage != "")
			assert.ErrorIs(t, got, tt.err)
			assert.Contains(t, got.Message, tt.err.Error())
		})
	}
}

func TestFromError_MissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	_, err := os.ReadFile(path)
	require.Error(t, err)

	got := FromError(fmt.Errorf("reading changelog: %w", err))
	assert.Equal(t, Prerequisite, got.Category)
	assert.Contains(t, got.Message, path)
	assert.ErrorIs(t, got, fs.ErrNotExist)
}

func TestFromError_PassesThroughCLIError(t *testing.T) {
	t.Parallel()

	orig := New(Configuration, "bad config")
	assert.Same(t, orig, FromError(fmt.Errorf("wrapped: %w", orig)))
	assert.Nil(t, FromError(nil))
}

func TestFormatErrorPlain(t *testing.T) {
	t.Parallel()

	err := NewArgumentErrorWithUsage("bad value", "chlog --date 2026-01-15", "Use YYYY-MM-DD")
	got := FormatErrorPlain(err)

	assert.Equal(t, "Error [Argument Error]: bad value\n"+
		"\nUsage: chlog --date 2026-01-15\n"+
		"\nTo fix this:\n  • Use YYYY-MM-DD\n", got)
}

func TestErrorCategory_String(t *testing.T) {
	t.Parallel()

	tests := map[ErrorCategory]string{
		Argument:          "Argument Error",
		Configuration:     "Configuration Error",
		Prerequisite:      "Prerequisite Error",
		Format:            "Changelog Format Error",
		Runtime:           "Runtime Error",
		ErrorCategory(99): "Error",
	}

	for cat, want := range tests {
		assert.Equal(t, want, cat.String())
	}
}

func TestWrap_Nil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Wrap(nil, Runtime))
	assert.Nil(t, WrapWithMessage(nil, Runtime, "msg"))
}

func TestFromError_OutputNotWritable(t *testing.T) {
	t.Parallel()

	pathErr := &fs.PathError{Op: "open", Path: "/ro/CHANGELOG.md_", Err: fs.ErrPermission}
	err := fmt.Errorf("%w %s: %w", workflow.ErrOutputNotWritable, pathErr.Path, pathErr)

	got := FromError(err)
	assert.Equal(t, Runtime, got.Category)
	assert.Contains(t, got.Remediation[0], "/ro/CHANGELOG.md_")
	assert.ErrorIs(t, got, workflow.ErrOutputNotWritable)
}
