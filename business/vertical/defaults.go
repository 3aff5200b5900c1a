package vertical

import "myLeadMarket/domain"

const (
	// DefaultScoringThreshold applies when a vertical does not configure
	// its own acceptance threshold.
	DefaultScoringThreshold = 0.65

	defaultMinCategoryFrequency      = 10
	defaultImportanceChangeThreshold = 0.2
)

// ScalingStandard and friends name the supported preprocessing methods.
const (
	ScalingStandard = "standard"
	ScalingMinMax   = "minmax"

	EncodingLabel  = "label"
	EncodingOneHot = "onehot"
)

// defaultMarketAdjustments are the pricing multipliers applied per active
// market condition.
func defaultMarketAdjustments() map[string]float64 {
	return map[string]float64{
		"peak_hours": 1.2,
		"off_peak":   0.9,
		"weekend":    1.1,
		"holiday":    1.3,
	}
}

// defaultConfig returns the built-in feature schema for a vertical.
// Feature list order is load-bearing: it defines the vector layout.
func defaultConfig(v domain.Vertical) (Config, bool) {
	switch v {
	case domain.VerticalAuto:
		return Config{
			NumericalFeatures:   []string{"age", "driving_years", "vehicle_age", "annual_mileage"},
			CategoricalFeatures: []string{"vehicle_make", "vehicle_model", "usage_type", "coverage_type"},
			TextFeatures:        []string{"occupation", "location"},
			FeatureWeights: map[string]float64{
				"age":           0.15,
				"driving_years": 0.2,
				"vehicle_age":   0.1,
			},
			Preprocessing: Preprocessing{Scaling: ScalingStandard, Encoding: EncodingLabel},
		}, true
	case domain.VerticalHome:
		return Config{
			NumericalFeatures:   []string{"property_age", "square_footage", "property_value"},
			CategoricalFeatures: []string{"construction_type", "roof_type", "property_type"},
			TextFeatures:        []string{"address", "security_features"},
			FeatureWeights: map[string]float64{
				"property_value": 0.25,
				"property_age":   0.15,
			},
			Preprocessing: Preprocessing{Scaling: ScalingMinMax, Encoding: EncodingOneHot},
		}, true
	case domain.VerticalHealth:
		return Config{
			NumericalFeatures:   []string{"age", "bmi", "visits_last_year"},
			CategoricalFeatures: []string{"gender", "tobacco_use", "coverage_type"},
			TextFeatures:        []string{"health_conditions", "location"},
			FeatureWeights: map[string]float64{
				"age":         0.2,
				"tobacco_use": 0.15,
			},
			Preprocessing: Preprocessing{Scaling: ScalingStandard, Encoding: EncodingLabel},
		}, true
	case domain.VerticalLife:
		return Config{
			NumericalFeatures:   []string{"age", "coverage_amount", "term_length"},
			CategoricalFeatures: []string{"gender", "tobacco_use", "health_class"},
			TextFeatures:        []string{"occupation", "beneficiary_relation"},
			FeatureWeights: map[string]float64{
				"age":             0.2,
				"coverage_amount": 0.15,
			},
			Preprocessing: Preprocessing{Scaling: ScalingStandard, Encoding: EncodingLabel},
		}, true
	case domain.VerticalRenters:
		return Config{
			NumericalFeatures:   []string{"age", "monthly_rent", "contents_value"},
			CategoricalFeatures: []string{"property_type", "lease_term", "pet_ownership"},
			TextFeatures:        []string{"address", "valuables_description"},
			FeatureWeights: map[string]float64{
				"contents_value": 0.2,
				"monthly_rent":   0.1,
			},
			Preprocessing: Preprocessing{Scaling: ScalingMinMax, Encoding: EncodingLabel},
		}, true
	case domain.VerticalCommercial:
		return Config{
			NumericalFeatures:   []string{"years_in_business", "annual_revenue", "employee_count"},
			CategoricalFeatures: []string{"industry", "building_ownership", "coverage_type"},
			TextFeatures:        []string{"business_description", "location"},
			FeatureWeights: map[string]float64{
				"annual_revenue":    0.25,
				"years_in_business": 0.15,
			},
			Preprocessing: Preprocessing{Scaling: ScalingStandard, Encoding: EncodingOneHot},
		}, true
	default:
		return Config{}, false
	}
}
