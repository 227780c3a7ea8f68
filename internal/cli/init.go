package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/okineadev/gitpaper/internal/config"
	clierrors "github.com/okineadev/gitpaper/internal/errors"
)

func newInitCmd() *cobra.Command {
	var (
		force  bool
		global bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented gitpaper config file",
		Long: `Write a commented configuration template.

By default the file is gitpaper.config.yml in the current directory. With
--global it is written to the user config directory and applies to every
repository.`,
		Example: `  gitpaper init              # ./gitpaper.config.yml
  gitpaper init --global     # user-level config
  gitpaper init --force      # overwrite an existing file`,
		Args:         noArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ProjectConfigNames[0]
			if global {
				p, err := config.UserConfigPath()
				if err != nil {
					return clierrors.Wrap(err, clierrors.Runtime)
				}
				path = p
			}
			return writeConfigTemplate(cmd, path, force)
		},
	}

	cmd.Flags().BoolVarP(&global, "global", "g", false, "Write the user-level config instead")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

func writeConfigTemplate(cmd *cobra.Command, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return clierrors.NewArgumentError(
			fmt.Sprintf("%s already exists", path),
			"Use --force to overwrite it",
		)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "writing "+path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Config: created %s\n", path)
	return nil
}
