// internal/httpcontroller/server.go
package httpcontroller

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/acme/autocert"

	"github.com/quiltring/quiltring/internal/conf"
	"github.com/quiltring/quiltring/internal/logging"
	"github.com/quiltring/quiltring/internal/observability"
	"github.com/quiltring/quiltring/internal/roster"
)

// Server encapsulates the Echo server and related configuration.
type Server struct {
	Echo     *echo.Echo
	Settings *conf.Settings
	Roster   *roster.Client
	Metrics  *observability.Metrics // optional, nil disables metrics recording

	// Structured logger for web operations
	webLogger      *slog.Logger
	webLoggerClose func() error
}

// New initializes a new HTTP server for the given settings and roster client.
// Metrics may be nil.
func New(settings *conf.Settings, rosterClient *roster.Client, m *observability.Metrics) *Server {
	configureDefaultSettings(settings)

	s := &Server{
		Echo:     echo.New(),
		Settings: settings,
		Roster:   rosterClient,
		Metrics:  m,
	}

	s.Echo.IPExtractor = echo.ExtractIPFromXFFHeader()

	s.initializeServer()
	return s
}

// initializeServer configures and initializes the server.
func (s *Server) initializeServer() {
	s.Echo.HideBanner = true
	s.initLogger()
	s.configureMiddleware()
	s.initRoutes()
}

// configureDefaultSettings sets default values for server settings.
func configureDefaultSettings(settings *conf.Settings) {
	if settings.WebServer.Port == "" {
		settings.WebServer.Port = "8080"
	}
}

// Start begins listening and serving HTTP requests.
func (s *Server) Start() {
	errChan := make(chan error)

	go func() {
		var err error

		if s.Settings.Security.AutoTLS {
			configPaths, configErr := conf.GetDefaultConfigPaths()
			if configErr != nil {
				errChan <- fmt.Errorf("failed to get config paths: %w", configErr)
				return
			}

			s.Echo.AutoTLSManager.Prompt = autocert.AcceptTOS
			s.Echo.AutoTLSManager.Cache = autocert.DirCache(configPaths[0])
			s.Echo.AutoTLSManager.HostPolicy = autocert.HostWhitelist(s.Settings.Security.Host)

			err = s.Echo.StartAutoTLS(":" + s.Settings.WebServer.Port)
		} else {
			err = s.Echo.Start(":" + s.Settings.WebServer.Port)
		}

		if err != nil {
			errChan <- err
		}
	}()

	go s.handleServerError(errChan)

	fmt.Printf("HTTP server started on port %s (AutoTLS: %v)\n", s.Settings.WebServer.Port, s.Settings.Security.AutoTLS)
}

// handleServerError listens for server errors and logs them.
func (s *Server) handleServerError(errChan chan error) {
	for err := range errChan {
		logging.Error("Web server error", "error", err)
	}
}

// Shutdown performs cleanup operations and gracefully stops the server.
func (s *Server) Shutdown() error {
	if s.webLoggerClose != nil {
		if err := s.webLoggerClose(); err != nil {
			logging.Error("Error closing web log file", "error", err)
		}
	}

	return s.Echo.Close()
}

// RealIP returns the client IP, honoring X-Forwarded-For.
func (s *Server) RealIP(c echo.Context) string {
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[len(ips)-1])
		}
	}

	ip, _, _ := net.SplitHostPort(c.Request().RemoteAddr)
	return ip
}

// initLogger initializes the structured web request logger.
func (s *Server) initLogger() {
	if !s.Settings.WebServer.Log.Enabled {
		return
	}

	webLogger, closeFunc, err := logging.NewFileLogger(s.Settings.WebServer.Log.Path, "web", slog.LevelInfo)
	if err != nil {
		logging.Warn("Failed to initialize web structured logger, continuing without", "error", err)
		return
	}
	s.webLogger = webLogger
	s.webLoggerClose = closeFunc

	// Discard Echo's own log output, rely on the structured middleware
	s.Echo.Logger.SetOutput(io.Discard)
	s.Echo.Logger.SetLevel(99)
}

// Debug logs debug messages if web server debug mode is enabled.
func (s *Server) Debug(format string, v ...any) {
	if !s.Settings.WebServer.Debug {
		return
	}
	msg := format
	if len(v) > 0 {
		msg = fmt.Sprintf(format, v...)
	}
	if s.webLogger != nil {
		s.webLogger.Debug(msg)
	} else {
		logging.Debug(msg)
	}
}

// LogError logs an error with request context attached.
func (s *Server) LogError(c echo.Context, err error, message string) {
	if s.webLogger == nil {
		logging.Error(message, "error", err)
		return
	}

	req := c.Request()
	s.webLogger.Error("Error",
		"message", message,
		"error", err.Error(),
		"path", req.URL.Path,
		"method", req.Method,
		"ip", s.RealIP(c),
		"user_agent", req.UserAgent(),
	)
}

// LoggingMiddleware logs completed HTTP requests with timing information.
func (s *Server) LoggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if s.webLogger == nil {
				return next(ctx)
			}

			start := time.Now()
			err := next(ctx)

			req := ctx.Request()
			res := ctx.Response()

			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"query", req.URL.RawQuery,
				"status", res.Status,
				"ip", s.RealIP(ctx),
				"user_agent", req.UserAgent(),
				"latency_ms", time.Since(start).Milliseconds(),
				"bytes_out", res.Size,
			}

			switch {
			case err != nil:
				attrs = append(attrs, "error", err.Error())
				s.webLogger.Error("HTTP Request", attrs...)
			case res.Status >= 400:
				s.webLogger.Warn("HTTP Request", attrs...)
			default:
				s.webLogger.Info("HTTP Request", attrs...)
			}

			return err
		}
	}
}
