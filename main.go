package main

import (
	"fmt"
	"os"

	"github.com/quiltring/quiltring/cmd"
	"github.com/quiltring/quiltring/internal/conf"
	"github.com/quiltring/quiltring/internal/logging"
	"github.com/quiltring/quiltring/internal/telemetry"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	exitCode := mainWithExitCode()
	os.Exit(exitCode)
}

func mainWithExitCode() int {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		return 1
	}
	settings.Version = version

	if err := telemetry.Init(settings); err != nil {
		logging.Warn("Failed to initialize telemetry, continuing without", "error", err)
	}
	defer telemetry.Shutdown()

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "command error: %v\n", err)
		return 1
	}

	return 0
}
