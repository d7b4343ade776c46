// Package telemetry provides opt-in error reporting via Sentry.
//
// When enabled in settings, a reporter is registered with the errors package
// so that enhanced errors built anywhere in the application are forwarded as
// Sentry events carrying their component and category as tags. This is the
// developer-facing diagnostic side-channel; nothing here is ever shown to
// page visitors.
package telemetry

import (
	"fmt"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/quiltring/quiltring/internal/conf"
	"github.com/quiltring/quiltring/internal/errors"
)

const flushTimeout = 2 * time.Second

var (
	initMu      sync.Mutex
	initialized bool
)

// Init configures Sentry from settings and registers the error reporter.
// It is a no-op when reporting is disabled in the settings.
func Init(settings *conf.Settings) error {
	initMu.Lock()
	defer initMu.Unlock()

	if !settings.Sentry.Enabled {
		return nil
	}
	if initialized {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:        settings.Sentry.DSN,
		SampleRate: 1.0,
		Debug:      false,

		AttachStacktrace: false,
		Environment:      "production",
		ServerName:       "", // don't leak the hostname
		Release:          fmt.Sprintf("quiltring@%s", settings.Version),
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}

	errors.SetTelemetryReporter(&sentryReporter{})
	initialized = true
	return nil
}

// Shutdown flushes buffered events and unregisters the reporter.
func Shutdown() {
	initMu.Lock()
	defer initMu.Unlock()

	if !initialized {
		return
	}
	errors.SetTelemetryReporter(nil)
	sentry.Flush(flushTimeout)
	initialized = false
}

// sentryReporter forwards enhanced errors to Sentry.
type sentryReporter struct{}

// ReportError implements errors.Reporter.
func (r *sentryReporter) ReportError(ee *errors.EnhancedError) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", ee.GetComponent())
		scope.SetTag("category", ee.GetCategory())
		for k, v := range ee.GetContext() {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(ee.Err)
	})
}
