package vertical

import (
	"encoding/json"
	"fmt"
)

// Override key names. These form the complete default key set; override
// and update payloads may only use keys from this set.
const (
	keyNumericalFeatures         = "numerical_features"
	keyCategoricalFeatures       = "categorical_features"
	keyTextFeatures              = "text_features"
	keyFeatureWeights            = "feature_weights"
	keyPreprocessing             = "preprocessing"
	keyScoringThreshold          = "scoring_threshold"
	keyMinCategoryFrequency      = "min_category_frequency"
	keyMinValues                 = "min_values"
	keyMaxValues                 = "max_values"
	keyImportanceChangeThreshold = "importance_change_threshold"
	keyMarketAdjustments         = "market_adjustments"
)

var allowedKeys = map[string]struct{}{
	keyNumericalFeatures:         {},
	keyCategoricalFeatures:       {},
	keyTextFeatures:              {},
	keyFeatureWeights:            {},
	keyPreprocessing:             {},
	keyScoringThreshold:          {},
	keyMinCategoryFrequency:      {},
	keyMinValues:                 {},
	keyMaxValues:                 {},
	keyImportanceChangeThreshold: {},
	keyMarketAdjustments:         {},
}

func applyOverrides(cfg *Config, overrides map[string]any) error {
	for key := range overrides {
		if _, ok := allowedKeys[key]; !ok {
			return fmt.Errorf("%w: %s", ErrInvalidOverride, key)
		}
	}

	for key, val := range overrides {
		if err := applyKey(cfg, key, val); err != nil {
			return err
		}
	}

	return nil
}

func applyKey(cfg *Config, key string, val any) error {
	switch key {
	case keyNumericalFeatures, keyCategoricalFeatures, keyTextFeatures:
		list, err := toStringList(val)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidOverride, key, err)
		}
		switch key {
		case keyNumericalFeatures:
			cfg.NumericalFeatures = list
		case keyCategoricalFeatures:
			cfg.CategoricalFeatures = list
		default:
			cfg.TextFeatures = list
		}

	case keyFeatureWeights, keyMinValues, keyMaxValues, keyMarketAdjustments:
		m, err := toFloatMap(val)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidOverride, key, err)
		}
		switch key {
		case keyFeatureWeights:
			cfg.FeatureWeights = m
		case keyMinValues:
			cfg.MinValues = m
		case keyMaxValues:
			cfg.MaxValues = m
		default:
			cfg.MarketAdjustments = m
		}

	case keyPreprocessing:
		pp, err := toPreprocessing(val)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidOverride, key, err)
		}
		cfg.Preprocessing = pp

	case keyScoringThreshold:
		f, ok := toFloat(val)
		if !ok {
			return fmt.Errorf("%w: %s must be a number", ErrInvalidOverride, key)
		}
		cfg.ScoringThreshold = &f

	case keyImportanceChangeThreshold:
		f, ok := toFloat(val)
		if !ok {
			return fmt.Errorf("%w: %s must be a number", ErrInvalidOverride, key)
		}
		cfg.ImportanceChangeThreshold = f

	case keyMinCategoryFrequency:
		f, ok := toFloat(val)
		if !ok {
			return fmt.Errorf("%w: %s must be a number", ErrInvalidOverride, key)
		}
		cfg.MinCategoryFrequency = int(f)
	}

	return nil
}

// validateCompleteness checks that the structural keys survived merging
// with sane container kinds.
func validateCompleteness(cfg Config) error {
	if cfg.NumericalFeatures == nil || cfg.CategoricalFeatures == nil || cfg.TextFeatures == nil {
		return fmt.Errorf("%w: missing feature lists", ErrIncompleteConfig)
	}
	if cfg.FeatureWeights == nil {
		return fmt.Errorf("%w: missing feature weights", ErrIncompleteConfig)
	}
	if cfg.Preprocessing.Scaling != ScalingStandard && cfg.Preprocessing.Scaling != ScalingMinMax {
		return fmt.Errorf("%w: unknown scaling method %q", ErrIncompleteConfig, cfg.Preprocessing.Scaling)
	}
	if cfg.Preprocessing.Encoding != EncodingLabel && cfg.Preprocessing.Encoding != EncodingOneHot {
		return fmt.Errorf("%w: unknown encoding method %q", ErrIncompleteConfig, cfg.Preprocessing.Encoding)
	}
	for name, w := range cfg.FeatureWeights {
		if w < 0 || w > 1 {
			return fmt.Errorf("%w: feature weight %s outside [0,1]", ErrIncompleteConfig, name)
		}
	}
	return nil
}

func copyConfig(cfg Config) Config {
	out := cfg
	out.NumericalFeatures = append([]string(nil), cfg.NumericalFeatures...)
	out.CategoricalFeatures = append([]string(nil), cfg.CategoricalFeatures...)
	out.TextFeatures = append([]string(nil), cfg.TextFeatures...)
	out.FeatureWeights = copyFloatMap(cfg.FeatureWeights)
	out.MinValues = copyFloatMap(cfg.MinValues)
	out.MaxValues = copyFloatMap(cfg.MaxValues)
	out.MarketAdjustments = copyFloatMap(cfg.MarketAdjustments)
	if cfg.ScoringThreshold != nil {
		t := *cfg.ScoringThreshold
		out.ScoringThreshold = &t
	}
	return out
}

// configToMap renders the config as a plain map for persistence.
func configToMap(cfg Config) map[string]any {
	out := map[string]any{
		keyNumericalFeatures:   cfg.NumericalFeatures,
		keyCategoricalFeatures: cfg.CategoricalFeatures,
		keyTextFeatures:        cfg.TextFeatures,
		keyFeatureWeights:      cfg.FeatureWeights,
		keyPreprocessing: map[string]any{
			"scaling":  cfg.Preprocessing.Scaling,
			"encoding": cfg.Preprocessing.Encoding,
		},
	}
	if cfg.ScoringThreshold != nil {
		out[keyScoringThreshold] = *cfg.ScoringThreshold
	}
	if cfg.MinCategoryFrequency > 0 {
		out[keyMinCategoryFrequency] = cfg.MinCategoryFrequency
	}
	if cfg.MinValues != nil {
		out[keyMinValues] = cfg.MinValues
	}
	if cfg.MaxValues != nil {
		out[keyMaxValues] = cfg.MaxValues
	}
	if cfg.ImportanceChangeThreshold > 0 {
		out[keyImportanceChangeThreshold] = cfg.ImportanceChangeThreshold
	}
	if cfg.MarketAdjustments != nil {
		out[keyMarketAdjustments] = cfg.MarketAdjustments
	}
	return out
}

func copyFloatMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func toStringList(val any) ([]string, error) {
	switch v := val.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("list element %v is not a string", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", val)
	}
}

func toFloatMap(val any) (map[string]float64, error) {
	switch v := val.(type) {
	case map[string]float64:
		return copyFloatMap(v), nil
	case map[string]any:
		out := make(map[string]float64, len(v))
		for k, item := range v {
			f, ok := toFloat(item)
			if !ok {
				return nil, fmt.Errorf("value for %s is not a number", k)
			}
			out[k] = f
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a map of numbers, got %T", val)
	}
}

func toPreprocessing(val any) (Preprocessing, error) {
	switch v := val.(type) {
	case Preprocessing:
		return v, nil
	case map[string]any:
		pp := Preprocessing{}
		if s, ok := v["scaling"].(string); ok {
			pp.Scaling = s
		}
		if e, ok := v["encoding"].(string); ok {
			pp.Encoding = e
		}
		if pp.Scaling == "" || pp.Encoding == "" {
			return Preprocessing{}, fmt.Errorf("preprocessing requires scaling and encoding")
		}
		return pp, nil
	default:
		return Preprocessing{}, fmt.Errorf("expected a preprocessing map, got %T", val)
	}
}

func toFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
