package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"myLeadMarket/business/vertical"
	"myLeadMarket/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, loader ModelLoader, verticals ...domain.Vertical) *Service {
	t.Helper()
	svc := NewService(Deps{
		Loader:        loader,
		ModelBasePath: modelBase(t, verticals...),
	}, 0)
	svc.now = func() time.Time { return offPeakWeekday }
	return svc
}

func TestServiceScoreLead(t *testing.T) {
	svc := newTestService(t, staticLoader(&fakeModel{score: 0.5, version: "2.0"}), domain.VerticalAuto)

	result, err := svc.ScoreLead(context.Background(), domain.VerticalAuto, autoLead())
	require.NoError(t, err)

	// Confidence 0.7 is below the adjustment floor, so the score passes
	// through and the price is the plain base for auto.
	assert.Equal(t, 0.5, result.Score)
	assert.Equal(t, 0.5, result.OriginalScore)
	assert.Equal(t, 0.7, result.Confidence)
	assert.Equal(t, 100.0, result.Price)
	assert.Equal(t, "2.0", result.ModelVersion)
	assert.False(t, result.Fallback)
	assert.Equal(t, 1.2, result.MarketFactors["peak_hours"])
}

func TestServiceScoreLead_MarketAdjustment(t *testing.T) {
	svc := newTestService(t, staticLoader(&fakeModel{score: 0.9, version: "2.0"}), domain.VerticalAuto)
	svc.now = func() time.Time { return peakWeekday }

	result, err := svc.ScoreLead(context.Background(), domain.VerticalAuto, autoLead())
	require.NoError(t, err)

	// Confidence 0.9: the active peak_hours factor scales 0.9 up, clamped
	// back to 1.0. Price follows the adjusted score.
	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, 0.9, result.OriginalScore)
	assert.Equal(t, 150.0, result.Price)
}

func TestServiceScoreLead_AdjustmentCanLowerScore(t *testing.T) {
	svc := newTestService(t, staticLoader(&fakeModel{score: 0.9, version: "2.0"}), domain.VerticalAuto)
	svc.now = func() time.Time { return offPeakWeekday }

	result, err := svc.ScoreLead(context.Background(), domain.VerticalAuto, autoLead())
	require.NoError(t, err)

	// off_peak x0.9 pulls a confident score down.
	assert.InDelta(t, 0.81, result.Score, 1e-9)
	assert.Equal(t, 0.9, result.OriginalScore)
	// basePrice(0.81)=131, auto x1.0.
	assert.InDelta(t, 131.0, result.Price, 0.01)
}

func TestServiceScoreLead_UnsupportedVertical(t *testing.T) {
	svc := newTestService(t, staticLoader(&fakeModel{score: 0.5, version: "1.0"}))

	_, err := svc.ScoreLead(context.Background(), domain.Vertical("pet"), autoLead())
	require.Error(t, err)
	assert.ErrorIs(t, err, vertical.ErrUnsupportedVertical)
}

func TestServiceScoreLead_EmptyRecord(t *testing.T) {
	svc := newTestService(t, staticLoader(&fakeModel{score: 0.5, version: "1.0"}), domain.VerticalAuto)

	_, err := svc.ScoreLead(context.Background(), domain.VerticalAuto, domain.LeadRecord{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestServiceScoreLead_OversizedRecord(t *testing.T) {
	svc := NewService(Deps{
		Loader:        staticLoader(&fakeModel{score: 0.5, version: "1.0"}),
		ModelBasePath: modelBase(t, domain.VerticalAuto),
	}, 64)

	lead := autoLead()
	lead["notes"] = strings.Repeat("x", 128)

	_, err := svc.ScoreLead(context.Background(), domain.VerticalAuto, lead)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCircuitBreaker_OpensAfterConsecutiveErrors(t *testing.T) {
	model := &fakeModel{score: 0.5, version: "1.0"}
	svc := newTestService(t, staticLoader(model), domain.VerticalAuto)

	// Warm the scorer with one success.
	_, err := svc.ScoreLead(context.Background(), domain.VerticalAuto, autoLead())
	require.NoError(t, err)

	model.err = errors.New("inference backend down")
	for i := 0; i < circuitErrorThreshold; i++ {
		_, err := svc.ScoreLead(context.Background(), domain.VerticalAuto, autoLead())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrScoringFailed)
	}

	// Breaker is open: fallback served without touching the model.
	result, err := svc.ScoreLead(context.Background(), domain.VerticalAuto, autoLead())
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Equal(t, 0.5, result.Score)
	assert.Equal(t, 0.3, result.Confidence)
	assert.Equal(t, 75.0, result.Price)
	assert.Equal(t, "fallback", result.ModelVersion)
	assert.Equal(t, vertical.DefaultScoringThreshold, result.Threshold)

	// Fixing the model alone does not close the breaker.
	model.err = nil
	result, err = svc.ScoreLead(context.Background(), domain.VerticalAuto, autoLead())
	require.NoError(t, err)
	assert.True(t, result.Fallback)

	// A successful reload does.
	statuses := svc.ReloadModels(context.Background())
	require.True(t, statuses[domain.VerticalAuto].Success)

	result, err = svc.ScoreLead(context.Background(), domain.VerticalAuto, autoLead())
	require.NoError(t, err)
	assert.False(t, result.Fallback)
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	model := &fakeModel{score: 0.5, version: "1.0"}
	svc := newTestService(t, staticLoader(model), domain.VerticalAuto)

	_, err := svc.ScoreLead(context.Background(), domain.VerticalAuto, autoLead())
	require.NoError(t, err)

	// Four errors, one success, four more errors: breaker never opens.
	model.err = errors.New("flaky")
	for i := 0; i < circuitErrorThreshold-1; i++ {
		_, _ = svc.ScoreLead(context.Background(), domain.VerticalAuto, autoLead())
	}
	model.err = nil
	_, err = svc.ScoreLead(context.Background(), domain.VerticalAuto, autoLead())
	require.NoError(t, err)

	model.err = errors.New("flaky")
	for i := 0; i < circuitErrorThreshold-1; i++ {
		_, _ = svc.ScoreLead(context.Background(), domain.VerticalAuto, autoLead())
	}
	model.err = nil

	result, err := svc.ScoreLead(context.Background(), domain.VerticalAuto, autoLead())
	require.NoError(t, err)
	assert.False(t, result.Fallback)
}

func TestReloadModels_PerVerticalIsolation(t *testing.T) {
	version := "1.0"
	loader := &fakeLoader{fn: func(path string) (Model, error) {
		if strings.Contains(path, domain.VerticalHome.String()) && version != "1.0" {
			return nil, errors.New("corrupt artifact")
		}
		return &fakeModel{score: 0.5, version: version}, nil
	}}

	verticals := []domain.Vertical{domain.VerticalAuto, domain.VerticalHome, domain.VerticalLife}
	svc := newTestService(t, loader, verticals...)

	for _, v := range verticals {
		_, err := svc.scorerFor(v)
		require.NoError(t, err)
	}

	version = "2.0"
	statuses := svc.ReloadModels(context.Background())
	require.Len(t, statuses, len(verticals))

	assert.True(t, statuses[domain.VerticalAuto].Success)
	assert.Equal(t, "2.0", statuses[domain.VerticalAuto].Version)
	assert.True(t, statuses[domain.VerticalLife].Success)

	require.False(t, statuses[domain.VerticalHome].Success)
	assert.NotEmpty(t, statuses[domain.VerticalHome].Error)

	// The failed vertical keeps its previous model.
	scorer, err := svc.scorerFor(domain.VerticalHome)
	require.NoError(t, err)
	assert.Equal(t, "1.0", scorer.ModelVersion())
}

func TestServiceUpdateThreshold(t *testing.T) {
	svc := newTestService(t, staticLoader(&fakeModel{score: 0.5, version: "1.0"}), domain.VerticalAuto)

	require.NoError(t, svc.UpdateThreshold(domain.VerticalAuto, 0.7, false, "seasonal tuning"))

	err := svc.UpdateThreshold(domain.VerticalAuto, 0.1, false, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrThresholdOutOfPolicy)

	require.NoError(t, svc.UpdateThreshold(domain.VerticalAuto, 0.1, true, "incident override"))

	err = svc.UpdateThreshold(domain.Vertical("pet"), 0.5, false, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, vertical.ErrUnsupportedVertical)
}

func TestServiceUpdateConfig(t *testing.T) {
	svc := newTestService(t, staticLoader(&fakeModel{score: 0.5, version: "1.0"}), domain.VerticalAuto)

	version, err := svc.UpdateConfig(context.Background(), domain.VerticalAuto, map[string]any{
		"scoring_threshold": 0.7,
	}, false)
	require.NoError(t, err)
	assert.InDelta(t, 1.1, version, 1e-9)

	_, err = svc.UpdateConfig(context.Background(), domain.VerticalAuto, map[string]any{
		"bogus": true,
	}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, vertical.ErrConfigUpdateFailed)
}

func TestGetModelInfo(t *testing.T) {
	svc := newTestService(t, staticLoader(&fakeModel{score: 0.5, version: "4.2"}), domain.VerticalAuto, domain.VerticalHome)

	infos, err := svc.GetModelInfo(domain.VerticalAuto)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, domain.VerticalAuto, infos[0].Vertical)
	assert.Equal(t, "4.2", infos[0].Version)
	assert.Equal(t, vertical.DefaultScoringThreshold, infos[0].Threshold)
	assert.False(t, infos[0].CircuitOpen)

	// Register a second vertical, then list everything.
	_, err = svc.scorerFor(domain.VerticalHome)
	require.NoError(t, err)

	infos, err = svc.GetModelInfo("")
	require.NoError(t, err)
	assert.Len(t, infos, 2)

	_, err = svc.GetModelInfo(domain.Vertical("pet"))
	require.Error(t, err)
	assert.ErrorIs(t, err, vertical.ErrUnsupportedVertical)
}

func TestGetModelInfo_ReportsOpenCircuit(t *testing.T) {
	model := &fakeModel{score: 0.5, version: "1.0"}
	svc := newTestService(t, staticLoader(model), domain.VerticalAuto)

	_, err := svc.ScoreLead(context.Background(), domain.VerticalAuto, autoLead())
	require.NoError(t, err)

	model.err = errors.New("down")
	for i := 0; i < circuitErrorThreshold; i++ {
		_, _ = svc.ScoreLead(context.Background(), domain.VerticalAuto, autoLead())
	}

	infos, err := svc.GetModelInfo(domain.VerticalAuto)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.True(t, infos[0].CircuitOpen)
	assert.Equal(t, circuitErrorThreshold, infos[0].ErrorCount)
}
