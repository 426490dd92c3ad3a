package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
	apperrors "github.com/DianaTao/MindBridge-sub000/internal/errors"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

func (s *Server) registerAPIRoutes(rateLimiter echo.MiddlewareFunc) {
	v1 := s.echo.Group("/api/v1")
	v1.POST("/observations", s.handleIngestObservation, rateLimiter)
	v1.POST("/sessions/:id/fuse", s.handleTriggerFusion)
	v1.GET("/sessions/:id/results", s.handleResultHistory)
}

func (s *Server) handleIngestObservation(c echo.Context) error {
	var obs domain.EmotionObservation
	if err := c.Bind(&obs); err != nil {
		return apperrors.ValidationError("invalid observation payload")
	}

	if err := s.app.IngestObservation(c.Request().Context(), obs); err != nil {
		return err
	}

	// Accepted, not created: fusion happens asynchronously.
	if err := c.JSON(http.StatusAccepted, map[string]string{"status": "accepted"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

type triggerFusionRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

func (s *Server) handleTriggerFusion(c echo.Context) error {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid session ID format").WithContext("id", c.Param("id"))
	}

	var req triggerFusionRequest
	// Body is optional; an empty body triggers with an unknown user.
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid trigger payload")
	}

	result, err := s.app.RunFusion(c.Request().Context(), sessionID, req.UserID)
	if err != nil {
		return err
	}
	if result == nil {
		// Debounced: a recent run already covers this trigger.
		if err := c.JSON(http.StatusAccepted, map[string]string{"status": "debounced"}); err != nil {
			return fmt.Errorf("failed to send JSON response: %w", err)
		}
		return nil
	}

	if err := c.JSON(http.StatusOK, result); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleResultHistory(c echo.Context) error {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid session ID format").WithContext("id", c.Param("id"))
	}

	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxHistoryLimit {
			return apperrors.ValidationError(
				fmt.Sprintf("limit must be an integer in [1,%d]", maxHistoryLimit)).
				WithContext("limit", raw)
		}
	}

	results, err := s.app.History(c.Request().Context(), sessionID, limit)
	if err != nil {
		return err
	}
	if results == nil {
		results = []domain.FusionResult{}
	}

	if err := c.JSON(http.StatusOK, map[string]any{
		"session_id": sessionID,
		"results":    results,
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
