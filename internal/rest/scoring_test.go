package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"myLeadMarket/business/scoring"
	"myLeadMarket/business/vertical"
	"myLeadMarket/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScoringService struct {
	result     *domain.ScoringResult
	scoreErr   error
	statuses   map[domain.Vertical]domain.ReloadStatus
	infos      []domain.ModelInfo
	infoErr    error
	thrErr     error
	cfgVersion float64
	cfgErr     error

	lastVertical  domain.Vertical
	lastThreshold float64
	lastForce     bool
}

func (s *stubScoringService) ScoreLead(_ context.Context, v domain.Vertical, _ domain.LeadRecord) (*domain.ScoringResult, error) {
	s.lastVertical = v
	return s.result, s.scoreErr
}

func (s *stubScoringService) ReloadModels(context.Context) map[domain.Vertical]domain.ReloadStatus {
	return s.statuses
}

func (s *stubScoringService) UpdateThreshold(v domain.Vertical, value float64, force bool, _ string) error {
	s.lastVertical = v
	s.lastThreshold = value
	s.lastForce = force
	return s.thrErr
}

func (s *stubScoringService) UpdateConfig(context.Context, domain.Vertical, map[string]any, bool) (float64, error) {
	return s.cfgVersion, s.cfgErr
}

func (s *stubScoringService) GetModelInfo(domain.Vertical) ([]domain.ModelInfo, error) {
	return s.infos, s.infoErr
}

func doRequest(handler echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	_ = handler(e.NewContext(req, rec))
	return rec
}

func TestScore_OK(t *testing.T) {
	svc := &stubScoringService{result: &domain.ScoringResult{
		Score:        0.72,
		Confidence:   0.8,
		Price:        122.0,
		ModelVersion: "2.1",
		Threshold:    0.65,
	}}
	h := NewScoringHandler(svc)

	rec := doRequest(h.Score, http.MethodPost, "/api/v1/scoring/score",
		`{"vertical": "auto", "lead_data": {"age": 35}, "session_id": "sess-42"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.VerticalAuto, svc.lastVertical)

	body := rec.Body.String()
	assert.Contains(t, body, `"request_id":"sess-42"`)
	assert.Contains(t, body, `"score":0.72`)
	assert.Contains(t, body, `"model_version":"2.1"`)
	assert.Contains(t, body, `"processing_time_ms"`)
}

func TestScore_MissingVertical(t *testing.T) {
	h := NewScoringHandler(&stubScoringService{})

	rec := doRequest(h.Score, http.MethodPost, "/api/v1/scoring/score",
		`{"lead_data": {"age": 35}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScore_MalformedBody(t *testing.T) {
	h := NewScoringHandler(&stubScoringService{})

	rec := doRequest(h.Score, http.MethodPost, "/api/v1/scoring/score", `{"vertical":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScore_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: pet", vertical.ErrUnsupportedVertical), http.StatusBadRequest},
		{fmt.Errorf("%w: empty lead record", scoring.ErrInvalidRequest), http.StatusBadRequest},
		{fmt.Errorf("%w: %w", scoring.ErrReloadFailed, vertical.ErrPathNotFound), http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		h := NewScoringHandler(&stubScoringService{scoreErr: tc.err})
		rec := doRequest(h.Score, http.MethodPost, "/api/v1/scoring/score",
			`{"vertical": "auto", "lead_data": {"age": 35}}`)
		assert.Equal(t, tc.want, rec.Code, tc.err)
	}
}

func TestReload_OK(t *testing.T) {
	svc := &stubScoringService{statuses: map[domain.Vertical]domain.ReloadStatus{
		domain.VerticalAuto: {Success: true, Version: "2.0", Threshold: 0.65},
		domain.VerticalHome: {Success: false, Error: "corrupt artifact"},
	}}
	h := NewScoringHandler(svc)

	rec := doRequest(h.Reload, http.MethodPost, "/api/v1/scoring/reload", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "corrupt artifact")
	assert.Contains(t, rec.Body.String(), "2.0")
}

func TestModelInfo_OK(t *testing.T) {
	svc := &stubScoringService{infos: []domain.ModelInfo{
		{Vertical: domain.VerticalAuto, Version: "2.0", Threshold: 0.65},
	}}
	h := NewScoringHandler(svc)

	rec := doRequest(h.ModelInfo, http.MethodGet, "/api/v1/scoring/model-info?vertical=auto", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"auto"`)
}

func TestUpdateThreshold_OK(t *testing.T) {
	svc := &stubScoringService{}
	h := NewScoringHandler(svc)

	rec := doRequest(h.UpdateThreshold, http.MethodPost, "/api/v1/scoring/threshold",
		`{"vertical": "auto", "threshold": 0.7, "force": true, "reason": "incident"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.7, svc.lastThreshold)
	assert.True(t, svc.lastForce)
}

func TestUpdateThreshold_ZeroIsValidPayload(t *testing.T) {
	svc := &stubScoringService{}
	h := NewScoringHandler(svc)

	// 0 is a legal threshold; only a missing field fails validation.
	rec := doRequest(h.UpdateThreshold, http.MethodPost, "/api/v1/scoring/threshold",
		`{"vertical": "auto", "threshold": 0, "force": true}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(h.UpdateThreshold, http.MethodPost, "/api/v1/scoring/threshold",
		`{"vertical": "auto"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateThreshold_PolicyViolation(t *testing.T) {
	svc := &stubScoringService{thrErr: fmt.Errorf("%w: 0.1", scoring.ErrThresholdOutOfPolicy)}
	h := NewScoringHandler(svc)

	rec := doRequest(h.UpdateThreshold, http.MethodPost, "/api/v1/scoring/threshold",
		`{"vertical": "auto", "threshold": 0.1}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateConfig_OK(t *testing.T) {
	svc := &stubScoringService{cfgVersion: 1.1}
	h := NewScoringHandler(svc)

	rec := doRequest(h.UpdateConfig, http.MethodPut, "/api/v1/scoring/config",
		`{"vertical": "auto", "overrides": {"scoring_threshold": 0.7}, "persist": true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1.1")
}

func TestUpdateConfig_InvalidOverride(t *testing.T) {
	svc := &stubScoringService{cfgErr: fmt.Errorf("%w: bogus", vertical.ErrInvalidOverride)}
	h := NewScoringHandler(svc)

	rec := doRequest(h.UpdateConfig, http.MethodPut, "/api/v1/scoring/config",
		`{"vertical": "auto", "overrides": {"bogus": 1}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
