// Package serve implements the quiltring serve subcommand.
package serve

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quiltring/quiltring/internal/conf"
	"github.com/quiltring/quiltring/internal/httpcontroller"
	"github.com/quiltring/quiltring/internal/logging"
	"github.com/quiltring/quiltring/internal/observability"
	"github.com/quiltring/quiltring/internal/observability/metrics"
	"github.com/quiltring/quiltring/internal/roster"
)

// Command creates the serve subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the member directory",
		Long:  "Start the HTTP server that renders the member list and member pages.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVarP(&settings.WebServer.Port, "port", "p", viper.GetString("webserver.port"), "Port to listen on")
	cmd.Flags().BoolVar(&settings.Security.AutoTLS, "autotls", viper.GetBool("security.autotls"), "Enable automatic TLS certificates")
	cmd.Flags().StringVar(&settings.Security.Host, "host", viper.GetString("security.host"), "Hostname for TLS certificates")
	cmd.Flags().BoolVar(&settings.Telemetry.Enabled, "telemetry", viper.GetBool("telemetry.enabled"), "Enable Prometheus telemetry endpoint")
	cmd.Flags().StringVar(&settings.Telemetry.Listen, "listen", viper.GetString("telemetry.listen"), "Listen address and port of telemetry endpoint")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}

// runServer starts the web server and blocks until a shutdown signal arrives.
func runServer(settings *conf.Settings) error {
	var wg sync.WaitGroup
	quitChan := make(chan struct{})

	var metricsInstance *observability.Metrics
	if settings.Telemetry.Enabled {
		var err error
		metricsInstance, err = observability.NewMetrics()
		if err != nil {
			return fmt.Errorf("failed to create metrics: %w", err)
		}

		endpoint, err := observability.NewEndpoint(settings, metricsInstance, logging.ForService("telemetry"))
		if err != nil {
			return fmt.Errorf("failed to create telemetry endpoint: %w", err)
		}
		endpoint.Start(&wg, quitChan)
	}

	rosterClient := roster.NewClient(&settings.Roster, rosterMetrics(metricsInstance))
	defer rosterClient.Close()

	server := httpcontroller.New(settings, rosterClient, metricsInstance)
	server.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("Shutting down", "signal", sig.String())

	close(quitChan)
	if err := server.Shutdown(); err != nil {
		logging.Error("Error shutting down web server", "error", err)
	}
	wg.Wait()

	return nil
}

func rosterMetrics(m *observability.Metrics) *metrics.RosterMetrics {
	if m == nil {
		return nil
	}
	return m.Roster
}
