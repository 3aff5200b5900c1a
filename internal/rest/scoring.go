package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"myLeadMarket/business/features"
	"myLeadMarket/business/scoring"
	"myLeadMarket/business/vertical"
	"myLeadMarket/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type (
	ScoringHandler struct {
		validate       *validator.Validate
		scoringService ScoringService
	}

	ScoringService interface {
		ScoreLead(ctx context.Context, v domain.Vertical, record domain.LeadRecord) (*domain.ScoringResult, error)
		ReloadModels(ctx context.Context) map[domain.Vertical]domain.ReloadStatus
		UpdateThreshold(v domain.Vertical, value float64, force bool, reason string) error
		UpdateConfig(ctx context.Context, v domain.Vertical, overrides map[string]any, persist bool) (float64, error)
		GetModelInfo(v domain.Vertical) ([]domain.ModelInfo, error)
	}

	ScoreRequest struct {
		Vertical      string            `json:"vertical" validate:"required"`
		LeadData      domain.LeadRecord `json:"lead_data" validate:"required"`
		SessionID     string            `json:"session_id"`
		TrafficSource string            `json:"traffic_source"`
	}

	ScoreResponse struct {
		RequestID        string                `json:"request_id"`
		Result           *domain.ScoringResult `json:"result"`
		ProcessingTimeMS float64               `json:"processing_time_ms"`
	}

	ThresholdRequest struct {
		Vertical  string   `json:"vertical" validate:"required"`
		Threshold *float64 `json:"threshold" validate:"required"`
		Force     bool     `json:"force"`
		Reason    string   `json:"reason"`
	}

	ConfigUpdateRequest struct {
		Vertical  string         `json:"vertical" validate:"required"`
		Overrides map[string]any `json:"overrides" validate:"required"`
		Persist   bool           `json:"persist"`
	}

	ModelInfoQuery struct {
		Vertical string `query:"vertical"`
	}
)

func NewScoringHandler(svc ScoringService) *ScoringHandler {
	return &ScoringHandler{
		validate:       validator.New(),
		scoringService: svc,
	}
}

// Score prices a single lead for a vertical.
func (h *ScoringHandler) Score(c echo.Context) error {
	start := time.Now()

	var req ScoreRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	result, err := h.scoringService.ScoreLead(c.Request().Context(), domain.Vertical(req.Vertical), req.LeadData)
	if err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	// The caller's session id doubles as the request id when present.
	requestID := req.SessionID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(ScoreResponse{
		RequestID:        requestID,
		Result:           result,
		ProcessingTimeMS: float64(time.Since(start).Microseconds()) / 1000,
	}))
}

// Reload refreshes every registered vertical's model from disk.
func (h *ScoringHandler) Reload(c echo.Context) error {
	statuses := h.scoringService.ReloadModels(c.Request().Context())
	return c.JSON(http.StatusOK, fres.Response.StatusOK(statuses))
}

// ModelInfo reports loaded models; ?vertical= narrows to one.
func (h *ScoringHandler) ModelInfo(c echo.Context) error {
	var q ModelInfoQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	infos, err := h.scoringService.GetModelInfo(domain.Vertical(q.Vertical))
	if err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(infos))
}

// UpdateThreshold changes a vertical's scoring threshold at runtime.
func (h *ScoringHandler) UpdateThreshold(c echo.Context) error {
	var req ThresholdRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	err := h.scoringService.UpdateThreshold(domain.Vertical(req.Vertical), *req.Threshold, req.Force, req.Reason)
	if err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]any{
		"vertical":  req.Vertical,
		"threshold": *req.Threshold,
	}))
}

// UpdateConfig applies config overrides to a vertical, returning the new
// config version.
func (h *ScoringHandler) UpdateConfig(c echo.Context) error {
	var req ConfigUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	version, err := h.scoringService.UpdateConfig(c.Request().Context(), domain.Vertical(req.Vertical), req.Overrides, req.Persist)
	if err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]any{
		"vertical": req.Vertical,
		"version":  version,
	}))
}

// statusFor maps domain errors onto HTTP status codes. Unknown errors
// are internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, vertical.ErrUnsupportedVertical),
		errors.Is(err, vertical.ErrInvalidOverride),
		errors.Is(err, vertical.ErrInvalidThreshold),
		errors.Is(err, vertical.ErrIncompleteConfig),
		errors.Is(err, scoring.ErrInvalidRequest),
		errors.Is(err, scoring.ErrThresholdOutOfPolicy),
		errors.Is(err, features.ErrMissingColumns),
		errors.Is(err, features.ErrOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, vertical.ErrPathNotFound),
		errors.Is(err, scoring.ErrReloadFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
