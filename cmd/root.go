package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quiltring/quiltring/cmd/check"
	"github.com/quiltring/quiltring/cmd/config"
	"github.com/quiltring/quiltring/cmd/serve"
	"github.com/quiltring/quiltring/internal/conf"
	"github.com/quiltring/quiltring/internal/logging"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quiltring",
		Short: "Quiltring member directory server",
		Long:  "Serve a member directory backed by self-authored pages on a static asset host.",
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
	}

	rootCmd.AddCommand(
		serve.Command(settings),
		check.Command(settings),
		config.Command(settings),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := cmd.Flags().Parse(args); err != nil {
			return err
		}

		if settings.Debug {
			logging.SetLevel(slog.LevelDebug)
			if configPath, err := conf.FindConfigFile(); err == nil {
				logging.Debug("Using config file", "path", configPath)
			}
		}

		return conf.ValidateSettings(settings)
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Roster.BaseURL, "baseurl", viper.GetString("roster.baseurl"), "Base URL of the static asset host")
	rootCmd.PersistentFlags().StringVar(&settings.Roster.IndexPath, "indexpath", viper.GetString("roster.indexpath"), "Path of the member index below the base URL")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
