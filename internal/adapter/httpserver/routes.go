package httpserver

import (
	"log/slog"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	apperrors "github.com/DianaTao/MindBridge-sub000/internal/errors"
)

// prometheusMiddleware registers its collectors once per process; a per-server
// instance would collide in the default registry.
var prometheusMiddleware = echoprometheus.NewMiddleware("mindbridge")

func (s *Server) registerRoutes() {
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(apperrors.Middleware())
	s.echo.Use(prometheusMiddleware)

	s.registerHealthRoutes()
	s.echo.GET("/metrics", echoprometheus.NewHandler())

	rateLimiter := newRateLimiter(s.config.IngestRatePerSecond, s.config.IngestBurst)
	s.registerAPIRoutes(rateLimiter)
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.Info("Request", attrs...)
			return nil
		},
	})
}
