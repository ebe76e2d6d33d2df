package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/harrisjoseph/chlog/internal/config"
	clierrors "github.com/harrisjoseph/chlog/internal/errors"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create chlog configuration",
		Long: `Show or create chlog configuration.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (CHLOG_*)
  2. Project config (.chlog.yml, or legacy .chlog.json)
  3. User config (~/.config/chlog/config.yml)
  4. Built-in defaults`,
		Example: `  # Show the effective configuration
  chlog config show

  # Create a commented .chlog.yml in the current directory
  chlog config init`,
	}

	cmd.AddCommand(newConfigShowCmd(opts))
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as YAML",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			out, err := cfg.Marshal()
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a commented project config file",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ProjectConfigPath()

			if _, err := os.Stat(path); err == nil && !force {
				return clierrors.New(clierrors.Configuration,
					fmt.Sprintf("%s already exists", path),
					"Use --force to overwrite it",
				)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("checking %s: %w", path, err)
			}

			if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
				return clierrors.FileNotWritable(path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
