package domain

// LeadRecord is a flat record of lead attributes keyed by feature name.
// The route layer caps serialized records at 100KB; the core re-checks
// the bound defensively before scoring.
type LeadRecord map[string]any

// ScoringResult is the consolidated outcome of scoring one lead.
type ScoringResult struct {
	Score             float64            `json:"score"`
	OriginalScore     float64            `json:"original_score"`
	Confidence        float64            `json:"confidence"`
	Price             float64            `json:"price"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
	ModelVersion      string             `json:"model_version"`
	Threshold         float64            `json:"threshold"`
	MarketFactors     map[string]float64 `json:"market_factors"`
	Fallback          bool               `json:"fallback,omitempty"`
	LatencyMS         float64            `json:"latency_ms"`
}

// ReloadStatus reports the outcome of one vertical's model reload.
type ReloadStatus struct {
	Success   bool    `json:"success"`
	Version   string  `json:"version,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// ModelInfo describes the currently loaded model for a vertical.
type ModelInfo struct {
	Vertical    Vertical `json:"vertical"`
	Version     string   `json:"version"`
	Threshold   float64  `json:"threshold"`
	CircuitOpen bool     `json:"circuit_open"`
	ErrorCount  int      `json:"error_count"`
}
