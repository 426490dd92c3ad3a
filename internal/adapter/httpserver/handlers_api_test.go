package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
	apperrors "github.com/DianaTao/MindBridge-sub000/internal/errors"
)

func observationBody(t *testing.T, obs domain.EmotionObservation) string {
	t.Helper()
	data, err := json.Marshal(obs)
	require.NoError(t, err)
	return string(data)
}

func TestHandleIngestObservation_Accepted(t *testing.T) {
	var got domain.EmotionObservation
	srv := newTestServer(t, &mockAppService{
		ingestObservationFn: func(_ context.Context, obs domain.EmotionObservation) error {
			got = obs
			return nil
		},
	})

	obs := domain.EmotionObservation{
		SessionID:      uuid.New(),
		UserID:         uuid.New(),
		Modality:       domain.ModalityAudio,
		PrimaryEmotion: domain.EmotionCalm,
		Confidence:     0.8,
		Stability:      0.9,
		Timestamp:      time.Now().UTC(),
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/observations", strings.NewReader(observationBody(t, obs)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, obs.SessionID, got.SessionID)
	assert.Equal(t, domain.ModalityAudio, got.Modality)
}

func TestHandleIngestObservation_ValidationError(t *testing.T) {
	srv := newTestServer(t, &mockAppService{
		ingestObservationFn: func(_ context.Context, _ domain.EmotionObservation) error {
			return apperrors.ValidationError("confidence 1.500 outside [0,1]")
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/observations", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "confidence")
}

func TestHandleTriggerFusion_ReturnsResult(t *testing.T) {
	sessionID := uuid.New()
	want := &domain.FusionResult{
		ID:             uuid.New(),
		SessionID:      sessionID,
		PrimaryEmotion: domain.EmotionHappy,
		RiskLevel:      domain.RiskLow,
	}
	srv := newTestServer(t, &mockAppService{
		runFusionFn: func(_ context.Context, gotSession, _ uuid.UUID) (*domain.FusionResult, error) {
			require.Equal(t, sessionID, gotSession)
			return want, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/fuse", sessionID), nil)
	rec := httptest.NewRecorder()

	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), want.ID.String())
	assert.Contains(t, rec.Body.String(), `"primary_emotion":"happy"`)
}

func TestHandleTriggerFusion_Debounced(t *testing.T) {
	srv := newTestServer(t, &mockAppService{
		runFusionFn: func(_ context.Context, _, _ uuid.UUID) (*domain.FusionResult, error) {
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/fuse", uuid.New()), nil)
	rec := httptest.NewRecorder()

	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"status":"debounced"}`, rec.Body.String())
}

func TestHandleTriggerFusion_InvalidSessionID(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/not-a-uuid/fuse", nil)
	rec := httptest.NewRecorder()

	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleResultHistory(t *testing.T) {
	sessionID := uuid.New()
	srv := newTestServer(t, &mockAppService{
		historyFn: func(_ context.Context, gotSession uuid.UUID, limit int) ([]domain.FusionResult, error) {
			require.Equal(t, sessionID, gotSession)
			require.Equal(t, 5, limit)
			return []domain.FusionResult{
				{ID: uuid.New(), SessionID: sessionID, PrimaryEmotion: domain.EmotionNeutral},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%s/results?limit=5", sessionID), nil)
	rec := httptest.NewRecorder()

	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"primary_emotion":"neutral"`)
}

func TestHandleResultHistory_EmptyIsArray(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%s/results", uuid.New()), nil)
	rec := httptest.NewRecorder()

	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"results":[]`)
}

func TestHandleResultHistory_InvalidLimit(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	for _, limit := range []string{"0", "-1", "101", "abc"} {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%s/results?limit=%s", uuid.New(), limit), nil)
		rec := httptest.NewRecorder()

		srv.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit %q should be rejected", limit)
	}
}
