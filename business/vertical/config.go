package vertical

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"myLeadMarket/domain"
)

// configVersion is the starting version for a freshly constructed config.
const configVersion = 1.0

// Preprocessing selects the scaling and encoding methods for a vertical.
type Preprocessing struct {
	Scaling  string `json:"scaling"`
	Encoding string `json:"encoding"`
}

// Config is a vertical's scoring configuration. Feature slices are
// ordered; their order defines the feature-vector layout.
type Config struct {
	NumericalFeatures   []string           `json:"numerical_features"`
	CategoricalFeatures []string           `json:"categorical_features"`
	TextFeatures        []string           `json:"text_features"`
	FeatureWeights      map[string]float64 `json:"feature_weights"`
	Preprocessing       Preprocessing      `json:"preprocessing"`

	// ScoringThreshold is optional; nil falls back to DefaultScoringThreshold.
	ScoringThreshold *float64 `json:"scoring_threshold,omitempty"`

	MinCategoryFrequency      int                `json:"min_category_frequency,omitempty"`
	MinValues                 map[string]float64 `json:"min_values,omitempty"`
	MaxValues                 map[string]float64 `json:"max_values,omitempty"`
	ImportanceChangeThreshold float64            `json:"importance_change_threshold,omitempty"`
	MarketAdjustments         map[string]float64 `json:"market_adjustments,omitempty"`
}

// ConfigStore persists versioned config blobs; failures must not corrupt
// the in-memory configuration.
type ConfigStore interface {
	Save(ctx context.Context, vertical domain.Vertical, version float64, cfg map[string]any) error
}

// Options tunes construction of a VerticalConfig.
type Options struct {
	// Overrides replaces default config values; keys must be a subset of
	// the vertical's default key set.
	Overrides map[string]any
	// BasePath is the model artifact root; empty means /opt/ml/models.
	BasePath string
	// DisableCaching turns off memoization of derived values.
	DisableCaching bool
	// Store receives persisted configs when Update is asked to persist.
	Store ConfigStore
}

// VerticalConfig manages a single vertical's configuration with
// versioning, derived-value caching, and all-or-nothing updates.
type VerticalConfig struct {
	vertical domain.Vertical
	basePath string
	caching  bool
	store    ConfigStore

	mu        sync.RWMutex
	cfg       Config
	version   float64
	pathCache map[string]string
	threshold *float64 // memoized validated threshold
}

func New(v domain.Vertical, opts Options) (*VerticalConfig, error) {
	cfg, ok := defaultConfig(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVertical, v)
	}

	basePath := opts.BasePath
	if basePath == "" {
		basePath = "/opt/ml/models"
	}

	vc := &VerticalConfig{
		vertical:  v,
		basePath:  basePath,
		caching:   !opts.DisableCaching,
		store:     opts.Store,
		cfg:       cfg,
		version:   configVersion,
		pathCache: make(map[string]string),
	}

	if len(opts.Overrides) > 0 {
		if err := applyOverrides(&vc.cfg, opts.Overrides); err != nil {
			return nil, err
		}
	}

	if err := validateCompleteness(vc.cfg); err != nil {
		return nil, err
	}

	return vc, nil
}

func (vc *VerticalConfig) Vertical() domain.Vertical {
	return vc.vertical
}

func (vc *VerticalConfig) Version() float64 {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.version
}

// Snapshot returns a deep copy of the current configuration, safe to
// read without further locking.
func (vc *VerticalConfig) Snapshot() Config {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return copyConfig(vc.cfg)
}

// FeatureNames returns every required column, in vector layout order.
func (vc *VerticalConfig) FeatureNames() []string {
	cfg := vc.Snapshot()
	out := make([]string, 0, len(cfg.NumericalFeatures)+len(cfg.CategoricalFeatures)+len(cfg.TextFeatures))
	out = append(out, cfg.NumericalFeatures...)
	out = append(out, cfg.CategoricalFeatures...)
	out = append(out, cfg.TextFeatures...)
	return out
}

// ResolveModelPath joins the base directory, vertical, and optional
// version segment, verifying the directory exists on disk.
func (vc *VerticalConfig) ResolveModelPath(modelVersion string) (string, error) {
	cacheKey := "model_path_" + modelVersion

	if vc.caching {
		vc.mu.RLock()
		cached, ok := vc.pathCache[cacheKey]
		vc.mu.RUnlock()
		if ok {
			return cached, nil
		}
	}

	path := filepath.Join(vc.basePath, vc.vertical.String())
	if modelVersion != "" {
		path = filepath.Join(path, "v"+modelVersion)
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}

	if vc.caching {
		vc.mu.Lock()
		vc.pathCache[cacheKey] = path
		vc.mu.Unlock()
	}

	return path, nil
}

// Threshold returns the vertical's scoring threshold, or the global
// default when unconfigured.
func (vc *VerticalConfig) Threshold() (float64, error) {
	if vc.caching {
		vc.mu.RLock()
		cached := vc.threshold
		vc.mu.RUnlock()
		if cached != nil {
			return *cached, nil
		}
	}

	vc.mu.RLock()
	threshold := DefaultScoringThreshold
	if vc.cfg.ScoringThreshold != nil {
		threshold = *vc.cfg.ScoringThreshold
	}
	vc.mu.RUnlock()

	if threshold < 0 || threshold > 1 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}

	if vc.caching {
		vc.mu.Lock()
		t := threshold
		vc.threshold = &t
		vc.mu.Unlock()
	}

	return threshold, nil
}

// MarketAdjustments returns the vertical's market-condition multipliers.
func (vc *VerticalConfig) MarketAdjustments() map[string]float64 {
	vc.mu.RLock()
	defer vc.mu.RUnlock()

	src := vc.cfg.MarketAdjustments
	if src == nil {
		return defaultMarketAdjustments()
	}
	out := make(map[string]float64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// MinCategoryFrequency is the batch-frequency floor below which
// categories bucket into "Other".
func (vc *VerticalConfig) MinCategoryFrequency() int {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	if vc.cfg.MinCategoryFrequency > 0 {
		return vc.cfg.MinCategoryFrequency
	}
	return defaultMinCategoryFrequency
}

// ImportanceChangeThreshold is the tracked-importance delta that fires
// an alert.
func (vc *VerticalConfig) ImportanceChangeThreshold() float64 {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	if vc.cfg.ImportanceChangeThreshold > 0 {
		return vc.cfg.ImportanceChangeThreshold
	}
	return defaultImportanceChangeThreshold
}

// Update applies a validated config change: version bumps by 0.1,
// derived caches clear, and any failure rolls back to the pre-update
// snapshot.
func (vc *VerticalConfig) Update(ctx context.Context, newConfig map[string]any, persist bool) error {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	backupCfg := copyConfig(vc.cfg)
	backupVersion := vc.version

	rollback := func() {
		vc.cfg = backupCfg
		vc.version = backupVersion
	}

	next := copyConfig(vc.cfg)
	if err := applyOverrides(&next, newConfig); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigUpdateFailed, err)
	}
	if err := validateCompleteness(next); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigUpdateFailed, err)
	}

	vc.cfg = next
	vc.version += 0.1

	// Invalidate derived values.
	vc.pathCache = make(map[string]string)
	vc.threshold = nil

	if persist {
		if vc.store == nil {
			rollback()
			return fmt.Errorf("%w: no config store configured", ErrPersistence)
		}
		if err := vc.store.Save(ctx, vc.vertical, vc.version, configToMap(vc.cfg)); err != nil {
			rollback()
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}
	}

	return nil
}
