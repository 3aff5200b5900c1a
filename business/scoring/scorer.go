package scoring

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"myLeadMarket/business/features"
	"myLeadMarket/business/vertical"
	"myLeadMarket/domain"
	"myLeadMarket/pkg/logger"
)

// slaLatency is the scoring latency the platform treats as an SLA
// violation; the core observes it but does not enforce it.
const slaLatency = 500 * time.Millisecond

// Deps carries the injected stores and loader shared by scorers. The
// caches are owned by the composition root, not package globals.
type Deps struct {
	Loader         ModelLoader
	ModelCache     ModelCache
	TransformCache features.TransformCache
	Importance     *features.ImportanceTracker
	ConfigStore    vertical.ConfigStore

	// ModelBasePath roots per-vertical artifact directories.
	ModelBasePath string
	// ConfigOverrides optionally tweaks a vertical's defaults at build time.
	ConfigOverrides map[domain.Vertical]map[string]any
}

type loadedModel struct {
	model Model
}

// LeadScorer owns one loaded model and threshold for a vertical. The
// model reference swaps atomically on reload so in-flight scoring never
// observes a partially-updated model.
type LeadScorer struct {
	vertical domain.Vertical
	config   *vertical.VerticalConfig
	engineer *features.Engineer
	loader   ModelLoader
	cache    ModelCache

	current atomic.Pointer[loadedModel]

	mu        sync.RWMutex
	threshold float64

	now func() time.Time
}

// NewLeadScorer builds the scorer's config and feature engineer, then
// adopts a cached model younger than the freshness window or performs a
// full reload.
func NewLeadScorer(v domain.Vertical, deps Deps) (*LeadScorer, error) {
	cfg, err := vertical.New(v, vertical.Options{
		Overrides: deps.ConfigOverrides[v],
		BasePath:  deps.ModelBasePath,
		Store:     deps.ConfigStore,
	})
	if err != nil {
		return nil, err
	}

	s := &LeadScorer{
		vertical: v,
		config:   cfg,
		engineer: features.NewEngineer(cfg, deps.TransformCache, deps.Importance),
		loader:   deps.Loader,
		cache:    deps.ModelCache,
		now:      time.Now,
	}

	if err := s.initializeModel(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *LeadScorer) initializeModel() error {
	if s.cache != nil {
		if entry, ok := s.cache.Get(s.vertical); ok && s.now().Sub(entry.LoadedAt) < modelCacheTTL {
			threshold, err := s.config.Threshold()
			if err != nil {
				return err
			}
			s.current.Store(&loadedModel{model: entry.Model})
			s.setThreshold(threshold)
			return nil
		}
	}

	return s.ReloadModel()
}

// ScoreLead transforms, predicts, and prices a single lead, measuring
// latency end to end.
func (s *LeadScorer) ScoreLead(record domain.LeadRecord) (*domain.ScoringResult, error) {
	start := s.now()

	result, err := s.scoreLead(record, start)
	if err != nil {
		ScoringErrorsTotal.WithLabelValues(s.vertical.String(), errorKind(err)).Inc()
		return nil, fmt.Errorf("%w: %w", ErrScoringFailed, err)
	}

	return result, nil
}

func (s *LeadScorer) scoreLead(record domain.LeadRecord, start time.Time) (*domain.ScoringResult, error) {
	vector, importance, err := s.engineer.TransformOne(record, true)
	if err != nil {
		return nil, err
	}

	holder := s.current.Load()
	if holder == nil {
		return nil, fmt.Errorf("%w: %s", ErrVerticalNotLoaded, s.vertical)
	}

	score, err := holder.model.Predict(vector)
	if err != nil {
		return nil, err
	}

	threshold := s.Threshold()
	price := s.CalculatePrice(score, marketConditions(s.now()))

	elapsed := s.now().Sub(start)
	ScoringLatency.WithLabelValues(s.vertical.String()).Observe(elapsed.Seconds())
	if elapsed > slaLatency {
		logger.Warn("scoring latency above SLA",
			"vertical", s.vertical.String(),
			"latency_ms", elapsed.Milliseconds(),
		)
	}
	if score >= threshold {
		LeadsAcceptedTotal.WithLabelValues(s.vertical.String()).Inc()
	}

	return &domain.ScoringResult{
		Score:             score,
		OriginalScore:     score,
		Confidence:        confidenceFor(score),
		Price:             price,
		FeatureImportance: importance,
		ModelVersion:      holder.model.Version(),
		Threshold:         threshold,
		LatencyMS:         float64(elapsed.Microseconds()) / 1000,
	}, nil
}

// CalculatePrice runs the multiplicative pricing pipeline: base range
// from the score, vertical multiplier, active market adjustments, and
// the seasonal boost, with the clamp applied last.
func (s *LeadScorer) CalculatePrice(score float64, conditions map[string]bool) float64 {
	price := basePrice(score)
	price *= priceMultiplier(s.vertical)

	adjustments := s.config.MarketAdjustments()
	for condition, active := range conditions {
		if !active {
			continue
		}
		if factor, ok := adjustments[condition]; ok {
			price *= factor
		}
	}

	if seasonalMonths[s.now().Month()] {
		price *= 1.1
	}

	return clampPrice(price)
}

// ReloadModel loads the artifact from the resolved model path and
// atomically replaces the current model. On failure the previously
// loaded model, if any, stays usable.
func (s *LeadScorer) ReloadModel() error {
	path, err := s.config.ResolveModelPath("")
	if err != nil {
		ScoringErrorsTotal.WithLabelValues(s.vertical.String(), errorKind(err)).Inc()
		return fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}

	model, err := s.loader.Load(path)
	if err != nil {
		ScoringErrorsTotal.WithLabelValues(s.vertical.String(), errorKind(err)).Inc()
		return fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	if model == nil {
		ScoringErrorsTotal.WithLabelValues(s.vertical.String(), "model_error").Inc()
		return fmt.Errorf("%w: %w", ErrReloadFailed, ErrInvalidModelType)
	}

	threshold, err := s.config.Threshold()
	if err != nil {
		ScoringErrorsTotal.WithLabelValues(s.vertical.String(), errorKind(err)).Inc()
		return fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}

	s.current.Store(&loadedModel{model: model})
	if s.cache != nil {
		s.cache.Set(s.vertical, ModelEntry{Model: model, LoadedAt: s.now()})
	}
	s.setThreshold(threshold)

	logger.Info("model reloaded",
		"vertical", s.vertical.String(),
		"version", model.Version(),
	)

	return nil
}

// UpdateThreshold validates the new threshold: [0,1] is a hard bound,
// and [0.3,0.9] a policy band that only force bypasses.
func (s *LeadScorer) UpdateThreshold(value float64, force bool) error {
	if value < 0 || value > 1 {
		return fmt.Errorf("%w: %v", vertical.ErrInvalidThreshold, value)
	}

	if !force && (value < 0.3 || value > 0.9) {
		return fmt.Errorf("%w: %v", ErrThresholdOutOfPolicy, value)
	}

	s.setThreshold(value)
	return nil
}

func (s *LeadScorer) Threshold() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.threshold
}

func (s *LeadScorer) setThreshold(value float64) {
	s.mu.Lock()
	s.threshold = value
	s.mu.Unlock()
}

// ModelVersion reports the loaded artifact's version, or empty when no
// model is loaded.
func (s *LeadScorer) ModelVersion() string {
	if holder := s.current.Load(); holder != nil {
		return holder.model.Version()
	}
	return ""
}

// MarketFactors exposes the vertical's configured market multipliers.
func (s *LeadScorer) MarketFactors() map[string]float64 {
	return s.config.MarketAdjustments()
}

// Config exposes the vertical configuration for admin operations.
func (s *LeadScorer) Config() *vertical.VerticalConfig {
	return s.config
}

// confidenceFor is a fixed tiered lookup, not a calibration: extreme
// scores are most confident, mid-range least.
func confidenceFor(score float64) float64 {
	switch {
	case score > 0.8 || score < 0.2:
		return 0.9
	case score >= 0.4 && score <= 0.6:
		return 0.7
	default:
		return 0.8
	}
}
