package httpcontroller

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// requestIDHeader carries the correlation ID for request logging.
const requestIDHeader = "X-Request-ID"

// configureMiddleware sets up middleware for the server.
func (s *Server) configureMiddleware() {
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(s.RequestIDMiddleware())
	s.Echo.Use(s.LoggingMiddleware())
	s.Echo.Use(s.MetricsMiddleware())
	s.Echo.Use(s.GzipMiddleware())
	s.Echo.Use(s.CacheControlMiddleware())
}

// RequestIDMiddleware tags every request with a short correlation ID.
func (s *Server) RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()[:8]
				c.Request().Header.Set(requestIDHeader, requestID)
			}
			c.Response().Header().Set(requestIDHeader, requestID)
			return next(c)
		}
	}
}

// GzipMiddleware configures gzip compression for the server.
func (s *Server) GzipMiddleware() echo.MiddlewareFunc {
	return middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     6,
		MinLength: 2048,
	})
}

// CacheControlMiddleware disables shared caching of rendered pages. Member
// content is fetched from the static host per request; caching belongs to
// that host, not this presentation layer.
func (s *Server) CacheControlMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Cache-Control", "no-store")
			return next(c)
		}
	}
}

// MetricsMiddleware records request counts and durations when metrics are enabled.
func (s *Server) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if s.Metrics == nil {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			// Use the route path so slugs don't explode label cardinality
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			s.Metrics.HTTP.RecordRequest(c.Request().Method, path, c.Response().Status, time.Since(start).Seconds())

			return err
		}
	}
}
