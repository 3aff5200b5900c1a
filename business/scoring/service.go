package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"myLeadMarket/business/vertical"
	"myLeadMarket/domain"
	"myLeadMarket/pkg/logger"
)

// Fallback response served while a vertical's circuit breaker is open.
const (
	fallbackScore      = 0.5
	fallbackConfidence = 0.3
	fallbackPrice      = 75.0
	fallbackVersion    = "fallback"
)

// marketConfidenceFloor gates the service-level market score adjustment:
// only confident predictions get nudged by market factors.
const marketConfidenceFloor = 0.8

// Service coordinates per-vertical scorers behind a single API. Scorers
// build lazily on first use; a per-vertical circuit breaker sheds load
// to a fallback response after repeated failures.
type Service struct {
	deps    Deps
	breaker *circuitBreaker

	mu      sync.RWMutex
	scorers map[domain.Vertical]*LeadScorer

	maxLeadBytes int
	now          func() time.Time
}

// NewService wires a scoring service from injected dependencies.
// maxLeadBytes bounds a serialized lead record; zero disables the check.
func NewService(deps Deps, maxLeadBytes int) *Service {
	return &Service{
		deps:         deps,
		breaker:      newCircuitBreaker(),
		scorers:      make(map[domain.Vertical]*LeadScorer),
		maxLeadBytes: maxLeadBytes,
		now:          time.Now,
	}
}

// ScoreLead scores one lead for a vertical. While the vertical's breaker
// is open a conservative fallback result is returned without touching
// the model; the breaker closes again on the first successful score.
func (s *Service) ScoreLead(ctx context.Context, v domain.Vertical, record domain.LeadRecord) (*domain.ScoringResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !v.Supported() {
		return nil, fmt.Errorf("%w: %s", vertical.ErrUnsupportedVertical, v)
	}

	ScoringRequestsTotal.WithLabelValues(v.String()).Inc()

	if err := s.validateRecord(record); err != nil {
		return nil, err
	}

	if s.breaker.isOpen(v) {
		ScoringFallbacksTotal.WithLabelValues(v.String()).Inc()
		logger.Warn("circuit open, serving fallback", "vertical", v.String())
		return fallbackResult(), nil
	}

	scorer, err := s.scorerFor(v)
	if err != nil {
		s.breaker.recordError(v)
		return nil, err
	}

	result, err := scorer.ScoreLead(record)
	if err != nil {
		s.breaker.recordError(v)
		return nil, err
	}
	s.breaker.recordSuccess(v)

	s.applyMarketAdjustment(result, scorer)
	result.Price = s.finalPrice(result, v)
	result.MarketFactors = scorer.MarketFactors()

	return result, nil
}

func (s *Service) validateRecord(record domain.LeadRecord) error {
	if len(record) == 0 {
		return fmt.Errorf("%w: empty lead record", ErrInvalidRequest)
	}
	if s.maxLeadBytes > 0 {
		raw, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		if len(raw) > s.maxLeadBytes {
			return fmt.Errorf("%w: lead record exceeds %d bytes", ErrInvalidRequest, s.maxLeadBytes)
		}
	}
	return nil
}

// applyMarketAdjustment nudges a confident score by the currently active
// market factors, clamped back to [0,1]. Low-confidence scores pass
// through untouched.
func (s *Service) applyMarketAdjustment(result *domain.ScoringResult, scorer *LeadScorer) {
	if result.Confidence < marketConfidenceFloor {
		return
	}

	factors := scorer.MarketFactors()
	adjusted := result.Score
	for condition, active := range marketConditions(s.now()) {
		if !active {
			continue
		}
		if factor, ok := factors[condition]; ok {
			adjusted *= factor
		}
	}

	if adjusted < 0 {
		adjusted = 0
	}
	if adjusted > 1 {
		adjusted = 1
	}
	result.Score = adjusted
}

// finalPrice recomputes the quote from the adjusted score. Importance,
// when reported, bands the price by up to ±10%; market and seasonal
// factors are already reflected in the score, not the price.
func (s *Service) finalPrice(result *domain.ScoringResult, v domain.Vertical) float64 {
	price := basePrice(result.Score) * priceMultiplier(v)

	if len(result.FeatureImportance) > 0 {
		var sum float64
		for _, w := range result.FeatureImportance {
			sum += w
		}
		avg := sum / float64(len(result.FeatureImportance))
		price *= 0.9 + avg*0.2
	}

	return clampPrice(price)
}

// ReloadModels reloads every registered vertical's model. A failed
// vertical keeps its previous model and does not block the others.
func (s *Service) ReloadModels(ctx context.Context) map[domain.Vertical]domain.ReloadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make(map[domain.Vertical]domain.ReloadStatus, len(s.scorers))
	for v, scorer := range s.scorers {
		if err := ctx.Err(); err != nil {
			statuses[v] = domain.ReloadStatus{Success: false, Error: err.Error()}
			continue
		}

		if err := scorer.ReloadModel(); err != nil {
			logger.Error("model reload failed", "vertical", v.String(), err)
			statuses[v] = domain.ReloadStatus{Success: false, Error: err.Error()}
			continue
		}

		// A fresh model is the recovery path for an open breaker.
		s.breaker.recordSuccess(v)

		version := scorer.ModelVersion()
		statuses[v] = domain.ReloadStatus{
			Success:   true,
			Version:   version,
			Threshold: scorer.Threshold(),
		}
		if f, err := strconv.ParseFloat(version, 64); err == nil {
			ModelVersionGauge.WithLabelValues(v.String()).Set(f)
		}
	}

	return statuses
}

// UpdateThreshold changes a vertical's scoring threshold at runtime.
// reason is recorded in the audit log only.
func (s *Service) UpdateThreshold(v domain.Vertical, value float64, force bool, reason string) error {
	if !v.Supported() {
		return fmt.Errorf("%w: %s", vertical.ErrUnsupportedVertical, v)
	}

	scorer, err := s.scorerFor(v)
	if err != nil {
		return err
	}

	old := scorer.Threshold()
	if err := scorer.UpdateThreshold(value, force); err != nil {
		return err
	}

	logger.Info("threshold updated",
		"vertical", v.String(),
		"old", old,
		"new", value,
		"forced", force,
		"reason", reason,
	)
	return nil
}

// UpdateConfig applies override fields to a vertical's configuration,
// bumping the config version and optionally persisting the result.
func (s *Service) UpdateConfig(ctx context.Context, v domain.Vertical, overrides map[string]any, persist bool) (float64, error) {
	if !v.Supported() {
		return 0, fmt.Errorf("%w: %s", vertical.ErrUnsupportedVertical, v)
	}

	scorer, err := s.scorerFor(v)
	if err != nil {
		return 0, err
	}

	if err := scorer.Config().Update(ctx, overrides, persist); err != nil {
		return 0, err
	}
	return scorer.Config().Version(), nil
}

// GetModelInfo reports the loaded model for one vertical, or for every
// registered vertical when v is empty.
func (s *Service) GetModelInfo(v domain.Vertical) ([]domain.ModelInfo, error) {
	if v != "" {
		if !v.Supported() {
			return nil, fmt.Errorf("%w: %s", vertical.ErrUnsupportedVertical, v)
		}
		scorer, err := s.scorerFor(v)
		if err != nil {
			return nil, err
		}
		return []domain.ModelInfo{s.modelInfo(v, scorer)}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]domain.ModelInfo, 0, len(s.scorers))
	for _, sv := range domain.SupportedVerticals() {
		if scorer, ok := s.scorers[sv]; ok {
			infos = append(infos, s.modelInfo(sv, scorer))
		}
	}
	return infos, nil
}

func (s *Service) modelInfo(v domain.Vertical, scorer *LeadScorer) domain.ModelInfo {
	open, count := s.breaker.state(v)
	return domain.ModelInfo{
		Vertical:    v,
		Version:     scorer.ModelVersion(),
		Threshold:   scorer.Threshold(),
		CircuitOpen: open,
		ErrorCount:  count,
	}
}

// scorerFor returns the vertical's scorer, building it on first use.
// The read path stays lock-cheap; construction re-checks under the
// write lock so concurrent callers share one instance.
func (s *Service) scorerFor(v domain.Vertical) (*LeadScorer, error) {
	s.mu.RLock()
	scorer, ok := s.scorers[v]
	s.mu.RUnlock()
	if ok {
		return scorer, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if scorer, ok = s.scorers[v]; ok {
		return scorer, nil
	}

	scorer, err := NewLeadScorer(v, s.deps)
	if err != nil {
		if errors.Is(err, ErrReloadFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}

	s.scorers[v] = scorer
	return scorer, nil
}

func fallbackResult() *domain.ScoringResult {
	return &domain.ScoringResult{
		Score:             fallbackScore,
		OriginalScore:     fallbackScore,
		Confidence:        fallbackConfidence,
		Price:             fallbackPrice,
		FeatureImportance: map[string]float64{},
		ModelVersion:      fallbackVersion,
		Threshold:         vertical.DefaultScoringThreshold,
		Fallback:          true,
	}
}
