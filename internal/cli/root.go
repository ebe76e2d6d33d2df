// Package cli implements the chlog command line: the root command updates a
// changelog, and subcommands show build and configuration information.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/harrisjoseph/chlog/internal/config"
	clierrors "github.com/harrisjoseph/chlog/internal/errors"
	"github.com/harrisjoseph/chlog/internal/git"
	"github.com/harrisjoseph/chlog/internal/workflow"
	"github.com/spf13/cobra"
)

// rootOptions holds the root command's flag values.
type rootOptions struct {
	configPath string
	file       string
	suffix     string
	version    string
	date       string
	minor      bool
	user       bool
	added      []string
	changed    []string
	fixed      []string
	plain      bool
	debug      bool
	dryRun     bool
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "chlog",
		Short: "Add a release entry to a Keep a Changelog file",
		Long: `Add a release entry to a Keep a Changelog formatted CHANGELOG.md.

chlog finds the newest "## [x.y.z]" heading (or uses --version), bumps the
patch version (or the minor version with --minor), inserts a new section above
the newest release, and adds a compare link for it at the end of the file.

The result is written to <file>_ so the original can be reviewed against it;
the input file is never modified.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (CHLOG_*)
  3. Project config (.chlog.yml, or legacy .chlog.json)
  4. User config (~/.config/chlog/config.yml)
  5. Built-in defaults`,
		Example: `  # Patch release with two additions
  chlog --added "Export to CSV" --added "Dark mode"

  # Minor release from an explicit current version
  chlog -f docs/CHANGELOG.md -v 1.4.2 --minor --changed "New config format"

  # Enter items interactively
  chlog --user

  # Preview without writing
  chlog --fixed "Crash on empty input" --dry-run`,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "CHANGELOG.md", "File to update")
	flags.StringVarP(&opts.version, "version", "v", "", "Current version (default: most recent version in file)")
	flags.StringVarP(&opts.date, "date", "d", "", "Date of changelog entry in YYYY-MM-DD format (default: today)")
	flags.BoolVarP(&opts.minor, "minor", "m", false, "Increment minor version. Otherwise increments patch")
	flags.BoolVarP(&opts.user, "user", "u", false, "Prompt for Added/Changed/Fixed input")
	flags.StringArrayVar(&opts.added, "added", nil, "Added item to include in the entry (repeatable)")
	flags.StringArrayVar(&opts.changed, "changed", nil, "Changed item to include in the entry (repeatable)")
	flags.StringArrayVar(&opts.fixed, "fixed", nil, "Fixed item to include in the entry (repeatable)")
	flags.StringVar(&opts.suffix, "suffix", "_", "Suffix appended to the file name for the output file")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Show the new entry and compare link without writing")

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&opts.configPath, "config", "", "Project config file (default: .chlog.yml)")
	persistent.BoolVar(&opts.plain, "plain", false, "Plain output (no colors/icons)")
	persistent.BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), c.UseLine(),
			fmt.Sprintf("Run '%s --help' to see valid options", c.CommandPath()))
	})

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd(opts))

	return cmd
}

// loadConfig loads layered configuration and applies flags the user set.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: opts.configPath,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Configuration, "loading configuration",
			"Check .chlog.yml and ~/.config/chlog/config.yml for mistakes",
			"Run 'chlog config show' to see the effective configuration",
		)
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.File = opts.file
	}
	if flags.Changed("suffix") {
		cfg.OutputSuffix = opts.suffix
	}
	if flags.Changed("minor") {
		cfg.Minor = opts.minor
	}
	if flags.Changed("plain") {
		cfg.Plain = opts.plain
	}
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}

	return cfg, nil
}

func runUpdate(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	if cfg.Debug {
		git.SetDebugLogger(debugLogger(cmd.ErrOrStderr()))
		defer git.SetDebugLogger(nil)
	}

	updater := workflow.NewUpdater(cmd.InOrStdin(), cmd.OutOrStdout())
	updater.Debug = cfg.Debug

	result, err := updater.Run(cmd.Context(), workflow.Options{
		File:           cfg.File,
		OutputSuffix:   cfg.OutputSuffix,
		SearchRepoRoot: !cmd.Flags().Changed("file"),
		Version:        opts.version,
		Date:           opts.date,
		Minor:          cfg.Minor,
		Interactive:    opts.user,
		Added:          opts.added,
		Changed:        opts.changed,
		Fixed:          opts.fixed,
		DryRun:         opts.dryRun,
		Plain:          cfg.Plain,
	})
	if err != nil {
		return err
	}

	if result.Written {
		fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Wrote %s (%s, %s)\n",
			result.OutputPath, result.NextVersion, pluralItems(result.Entry.Count()))
	}
	return nil
}

func pluralItems(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

// listFlags take one or more values: "--added A B" means "--added A --added B".
var listFlags = map[string]bool{"--added": true, "--changed": true, "--fixed": true}

// expandListFlags rewrites multi-value list flags into repeated flags so
// pflag sees one value per occurrence. Continuation values end at the next
// token starting with "-". A "--" terminator stops all rewriting.
func expandListFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		out = append(out, arg)
		if arg == "--" {
			return append(out, args[i+1:]...)
		}

		name, _, hasValue := strings.Cut(arg, "=")
		if !listFlags[name] {
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				break
			}
			i++
			out = append(out, args[i])
		}
		for i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			out = append(out, name, args[i])
		}
	}
	return out
}

// noArgs rejects positional arguments as an argument error.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return clierrors.NewArgumentErrorWithUsage(
		fmt.Sprintf("unexpected argument %q", args[0]),
		cmd.UseLine(),
		`Quote items that contain spaces, e.g. --added "New export format"`,
		fmt.Sprintf("Run '%s --help' to see valid options", cmd.CommandPath()),
	)
}

// debugLogger returns a printf-style logger writing [DEBUG] lines to w.
func debugLogger(w io.Writer) func(format string, args ...any) {
	return func(format string, args ...any) {
		fmt.Fprintf(w, "[DEBUG] "+format+"\n", args...)
	}
}

// Execute runs the root command. Errors are printed to stderr; the returned
// error is passed to ExitCode by main.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return execute(ctx, rootCmd, os.Args[1:])
}

func execute(ctx context.Context, cmd *cobra.Command, args []string) error {
	cmd.SetArgs(expandListFlags(args))
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	if cliErr := clierrors.FromError(err); cliErr != nil {
		plain, _ := cmd.PersistentFlags().GetBool("plain")
		clierrors.FprintError(cmd.ErrOrStderr(), cliErr, plain)
	}
	return err
}
