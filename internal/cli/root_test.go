// Package cli tests the root command, its flags, and end-to-end runs against
// a changelog in a temp dir.
// Related: internal/cli/root.go
// Tags: cli, root, flags, exit-codes
package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	clierrors "github.com/harrisjoseph/chlog/internal/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliChangelog = `# Changelog

## [Unreleased]

## [0.4.1] - 2026-03-02
### Fixed
- Wrong exit code on bad flags

[0.4.1]: https://github.com/example/tool/compare/v0.4.0...v0.4.1
`

// isolate moves the test into an empty temp dir with no user config and no
// CHLOG_* overrides, and returns the dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, "CHLOG_") {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
	return dir
}

// runCLI executes a fresh root command with args and returns stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := execute(context.Background(), cmd, args)
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "chlog", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}

func TestRootCmd_Flags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flagName   string
		shorthand  string
		persistent bool
		defValue   string
	}{
		"file":    {flagName: "file", shorthand: "f", defValue: "CHANGELOG.md"},
		"version": {flagName: "version", shorthand: "v", defValue: ""},
		"date":    {flagName: "date", shorthand: "d", defValue: ""},
		"minor":   {flagName: "minor", shorthand: "m", defValue: "false"},
		"user":    {flagName: "user", shorthand: "u", defValue: "false"},
		"added":   {flagName: "added", defValue: "[]"},
		"changed": {flagName: "changed", defValue: "[]"},
		"fixed":   {flagName: "fixed", defValue: "[]"},
		"suffix":  {flagName: "suffix", defValue: "_"},
		"dry-run": {flagName: "dry-run", defValue: "false"},
		"config":  {flagName: "config", persistent: true, defValue: ""},
		"plain":   {flagName: "plain", persistent: true, defValue: "false"},
		"debug":   {flagName: "debug", persistent: true, defValue: "false"},
	}

	cmd := newRootCmd()
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			flags := cmd.Flags()
			if tt.persistent {
				flags = cmd.PersistentFlags()
			}
			flag := flags.Lookup(tt.flagName)
			require.NotNil(t, flag, "Flag %s should exist", tt.flagName)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	names := make(map[string]bool)
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["version"])
	assert.True(t, names["config"])
}

func TestRun_WritesOutputFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGELOG.md"), []byte(cliChangelog), 0o644))

	stdout, stderr, err := runCLI(t, "",
		"-f", "CHANGELOG.md", "-d", "2026-10-19",
		"--added", "Config file support", "--added", "Item, with comma",
		"--fixed", "Typo in help",
	)
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "Last version in file is [0.4.1], writing version [0.4.2]")
	assert.Contains(t, stdout, "✓ Wrote CHANGELOG.md_ (0.4.2, 3 items)")

	written, err := os.ReadFile(filepath.Join(dir, "CHANGELOG.md_"))
	require.NoError(t, err)
	want := `# Changelog

## [Unreleased]

## [0.4.2] - 2026-10-19
### Added
- Config file support
- Item, with comma

### Fixed
- Typo in help

## [0.4.1] - 2026-03-02
### Fixed
- Wrong exit code on bad flags

[0.4.2]: https://github.com/example/tool/compare/v0.4.1...v0.4.2
[0.4.1]: https://github.com/example/tool/compare/v0.4.0...v0.4.1
`
	assert.Equal(t, want, string(written))

	original, err := os.ReadFile(filepath.Join(dir, "CHANGELOG.md"))
	require.NoError(t, err)
	assert.Equal(t, cliChangelog, string(original), "input file must not change")
}

func TestRun_MultiValueListFlags(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGELOG.md"), []byte(cliChangelog), 0o644))

	stdout, stderr, err := runCLI(t, "",
		"-f", "CHANGELOG.md", "--added", "Thing A", "Thing B", "--fixed=Bug 1", "Bug 2", "-m",
	)
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "(0.5.0, 4 items)")

	written, err := os.ReadFile(filepath.Join(dir, "CHANGELOG.md_"))
	require.NoError(t, err)
	assert.Contains(t, string(written), "## [0.5.0] - ")
	assert.Contains(t, string(written), "### Added\n- Thing A\n- Thing B\n\n### Fixed\n- Bug 1\n- Bug 2\n\n## [0.4.1]")
}

func TestRun_InvalidVersionFallsBackToFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGELOG.md"), []byte(cliChangelog), 0o644))

	stdout, stderr, err := runCLI(t, "", "-f", "CHANGELOG.md", "-v", "v9.9.9", "--fixed", "x")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, `Ignoring --version "v9.9.9"`)
	assert.Contains(t, stdout, "Last version in file is [0.4.1], writing version [0.4.2]")
	assert.FileExists(t, filepath.Join(dir, "CHANGELOG.md_"))
}

func TestExpandListFlags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		args []string
		want []string
	}{
		"single values unchanged": {
			args: []string{"--added", "A", "--fixed", "B"},
			want: []string{"--added", "A", "--fixed", "B"},
		},
		"multiple values": {
			args: []string{"--added", "Thing A", "Thing B"},
			want: []string{"--added", "Thing A", "--added", "Thing B"},
		},
		"equals form": {
			args: []string{"--changed=A", "B", "C"},
			want: []string{"--changed=A", "--changed", "B", "--changed", "C"},
		},
		"stops at next flag": {
			args: []string{"--added", "A", "B", "-m", "--fixed", "C"},
			want: []string{"--added", "A", "--added", "B", "-m", "--fixed", "C"},
		},
		"first value may start with dash": {
			args: []string{"--added", "-x option", "B"},
			want: []string{"--added", "-x option", "--added", "B"},
		},
		"flag without value": {
			args: []string{"--added"},
			want: []string{"--added"},
		},
		"terminator stops rewriting": {
			args: []string{"--", "--added", "A", "B"},
			want: []string{"--", "--added", "A", "B"},
		},
		"other flags untouched": {
			args: []string{"-f", "X.md", "Y"},
			want: []string{"-f", "X.md", "Y"},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, expandListFlags(tt.args))
		})
	}
}

func TestRun_ConfigAndEnvOverrides(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGELOG.md"), []byte(cliChangelog), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".chlog.yml"), []byte("minor: true\noutput_suffix: .new\n"), 0o644))
	t.Setenv("CHLOG_OUTPUT_SUFFIX", ".env")

	stdout, stderr, err := runCLI(t, "", "-f", "CHANGELOG.md", "--changed", "Reworked parser")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "writing version [0.5.0]")
	assert.FileExists(t, filepath.Join(dir, "CHANGELOG.md.env"))
	assert.NoFileExists(t, filepath.Join(dir, "CHANGELOG.md.new"))
}

func TestRun_FlagOverridesConfig(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGELOG.md"), []byte(cliChangelog), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".chlog.yml"), []byte("output_suffix: .new\n"), 0o644))

	_, stderr, err := runCLI(t, "", "-f", "CHANGELOG.md", "--suffix", ".flag", "--fixed", "x")
	require.NoError(t, err, stderr)

	assert.FileExists(t, filepath.Join(dir, "CHANGELOG.md.flag"))
}

func TestRun_Interactive(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGELOG.md"), []byte(cliChangelog), 0o644))

	stdout, stderr, err := runCLI(t, "2026-10-01\nPrompted item\n\n\n\n\n", "-f", "CHANGELOG.md", "-u", "-v", "1.0.0")
	require.NoError(t, err, stderr)

	assert.NotContains(t, stdout, "Last version in file is")
	written, err := os.ReadFile(filepath.Join(dir, "CHANGELOG.md_"))
	require.NoError(t, err)
	assert.Contains(t, string(written), "## [1.0.1] - 2026-10-01\n### Added\n- Prompted item\n")
	assert.Contains(t, string(written), "[1.0.1]: https://github.com/example/tool/compare/v1.0.0...v1.0.1\n")
}

func TestRun_DryRun(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGELOG.md"), []byte(cliChangelog), 0o644))

	stdout, stderr, err := runCLI(t, "", "-f", "CHANGELOG.md", "--fixed", "x", "--dry-run")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "## [0.4.2]")
	assert.NotContains(t, stdout, "✓ Wrote")
	assert.NoFileExists(t, filepath.Join(dir, "CHANGELOG.md_"))
}

func TestRun_Errors(t *testing.T) {
	tests := map[string]struct {
		args      []string
		content   string
		wantCode  int
		wantInErr string
	}{
		"empty entry": {
			args:      []string{"-f", "CHANGELOG.md"},
			content:   cliChangelog,
			wantCode:  ExitInvalidArguments,
			wantInErr: "Error [Argument Error]",
		},
		"invalid date": {
			args:      []string{"-f", "CHANGELOG.md", "-d", "2026-13-01", "--added", "x"},
			content:   cliChangelog,
			wantCode:  ExitInvalidArguments,
			wantInErr: "2026-13-01",
		},
		"missing file": {
			args:      []string{"-f", "NOPE.md", "--added", "x"},
			content:   cliChangelog,
			wantCode:  ExitMissingFile,
			wantInErr: "NOPE.md",
		},
		"unknown flag": {
			args:      []string{"--bogus"},
			content:   cliChangelog,
			wantCode:  ExitInvalidArguments,
			wantInErr: "Usage:",
		},
		"positional argument": {
			args:      []string{"extra"},
			content:   cliChangelog,
			wantCode:  ExitInvalidArguments,
			wantInErr: `unexpected argument "extra"`,
		},
		"positional argument after boolean flag": {
			args:      []string{"-f", "CHANGELOG.md", "--minor", "stray", "--added", "x"},
			content:   cliChangelog,
			wantCode:  ExitInvalidArguments,
			wantInErr: `unexpected argument "stray"`,
		},
		"positional argument to subcommand": {
			args:      []string{"version", "extra"},
			content:   cliChangelog,
			wantCode:  ExitInvalidArguments,
			wantInErr: "Error [Argument Error]",
		},
		"no versions in file": {
			args:      []string{"-f", "CHANGELOG.md", "--added", "x"},
			content:   "# Changelog\n\n## [Unreleased]\n",
			wantCode:  ExitFailure,
			wantInErr: "Error [Changelog Format Error]",
		},
		"invalid config": {
			args:      []string{"-f", "CHANGELOG.md", "--config", "bad.yml", "--added", "x"},
			content:   cliChangelog,
			wantCode:  ExitConfigError,
			wantInErr: "Error [Configuration Error]",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGELOG.md"), []byte(tt.content), 0o644))
			require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yml"), []byte("output_suffix: \"\"\n"), 0o644))

			_, stderr, err := runCLI(t, "", append(tt.args, "--plain")...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			if tt.wantInErr != "" {
				assert.Contains(t, stderr, tt.wantInErr)
			}
			assert.NoFileExists(t, filepath.Join(dir, "CHANGELOG.md_"))
		})
	}
}

func TestExecute_CLIErrorPrinted(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{
		Use: "fail",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clierrors.New(clierrors.Prerequisite, "nothing here", "Create it first")
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().Bool("plain", true, "")
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)

	err := execute(context.Background(), cmd, nil)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "nothing here")
	assert.Contains(t, stderr.String(), "Create it first")
}
