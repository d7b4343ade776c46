// Package config implements the quiltring config subcommand.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quiltring/quiltring/internal/conf"
)

// Command creates the config subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(initCommand(settings))

	return cmd
}

// initCommand writes the resolved settings to the default config location,
// so flag and environment overrides can be made permanent.
func initCommand(settings *conf.Settings) *cobra.Command {
	var force bool
	var output string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current settings to a config file",
		Long:  "Write the resolved settings, including flag and environment overrides, to the default config location.",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := output
			if path == "" {
				configPaths, err := conf.GetDefaultConfigPaths()
				if err != nil {
					return fmt.Errorf("failed to resolve config paths: %w", err)
				}
				path = filepath.Join(configPaths[0], "config.yaml")
			}

			if err := writeConfig(path, settings, force); err != nil {
				return err
			}

			fmt.Printf("Config written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this path instead of the default location")

	return cmd
}

func writeConfig(path string, settings *conf.Settings, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return conf.SaveYAMLConfig(path, settings)
}
