// Package httpserver is the HTTP transport for observation ingestion, fusion
// triggering and result history reads.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
	"github.com/DianaTao/MindBridge-sub000/internal/platform/config"
)

type appService interface {
	IngestObservation(ctx context.Context, obs domain.EmotionObservation) error
	RunFusion(ctx context.Context, sessionID, userID uuid.UUID) (*domain.FusionResult, error)
	History(ctx context.Context, sessionID uuid.UUID, limit int) ([]domain.FusionResult, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app          appService
	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, app appService, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
