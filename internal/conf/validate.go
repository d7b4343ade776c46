// conf/validate.go settings validation
package conf

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/quiltring/quiltring/internal/errors"
)

// ValidateSettings checks that the loaded settings are usable.
func ValidateSettings(settings *Settings) error {
	if err := validateRosterSettings(&settings.Roster); err != nil {
		return err
	}
	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		return err
	}
	if settings.Security.AutoTLS && settings.Security.Host == "" {
		return errors.Newf("security.host is required when autotls is enabled").
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	if settings.Sentry.Enabled && settings.Sentry.DSN == "" {
		return errors.Newf("sentry.dsn is required when sentry is enabled").
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

func validateRosterSettings(roster *RosterSettings) error {
	if roster.BaseURL == "" {
		return errors.Newf("roster.baseurl is required").
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}

	u, err := url.Parse(roster.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Newf("roster.baseurl %q is not a valid absolute URL", roster.BaseURL).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("baseurl", roster.BaseURL).
			Build()
	}

	if roster.IndexPath == "" {
		return errors.Newf("roster.indexpath is required").
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}

	basePath := strings.Trim(roster.BasePath, "/")
	if basePath == "" || strings.Contains(basePath, "/") {
		return errors.Newf("roster.basepath %q must be a single path segment", roster.BasePath).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("basepath", roster.BasePath).
			Build()
	}
	roster.BasePath = basePath

	if roster.FetchTimeout < 0 {
		return errors.Newf("roster.fetchtimeout must not be negative").
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	if roster.CacheTTL < 0 {
		return errors.Newf("roster.cachettl must not be negative").
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}

	return nil
}

func validateWebServerSettings(ws *WebServerSettings) error {
	if ws.Port == "" {
		// Default applied later by the server, nothing to validate
		return nil
	}
	port, err := strconv.Atoi(ws.Port)
	if err != nil || port < 1 || port > 65535 {
		return errors.Newf("webserver.port %q is not a valid port number", ws.Port).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("port", ws.Port).
			Build()
	}
	return nil
}
