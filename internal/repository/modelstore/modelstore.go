// Package modelstore loads model artifacts from the filesystem. An
// artifact directory holds a model.json describing a linear or logistic
// model exported by the training pipeline.
package modelstore

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"myLeadMarket/business/scoring"
)

const artifactFile = "model.json"

type artifact struct {
	Type    string    `json:"type"`
	Version string    `json:"version"`
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// Loader reads JSON model artifacts from resolved model paths.
type Loader struct{}

var _ scoring.ModelLoader = (*Loader)(nil)

func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) Load(path string) (scoring.Model, error) {
	raw, err := os.ReadFile(filepath.Join(path, artifactFile))
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}

	if a.Type != "linear" && a.Type != "logistic" {
		return nil, fmt.Errorf("%w: %q", scoring.ErrInvalidModelType, a.Type)
	}
	if len(a.Weights) == 0 {
		return nil, fmt.Errorf("%w: artifact has no weights", scoring.ErrInvalidModelType)
	}
	if a.Version == "" {
		return nil, fmt.Errorf("%w: artifact has no version", scoring.ErrInvalidModelType)
	}

	return &linearModel{
		kind:    a.Type,
		version: a.Version,
		weights: a.Weights,
		bias:    a.Bias,
	}, nil
}

// linearModel scores a feature vector as a weighted sum. Logistic
// artifacts squash through a sigmoid; linear ones clamp to [0,1].
type linearModel struct {
	kind    string
	version string
	weights []float64
	bias    float64
}

func (m *linearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.weights) {
		return 0, fmt.Errorf("feature vector has %d values, model expects %d", len(features), len(m.weights))
	}

	sum := m.bias
	for i, w := range m.weights {
		sum += w * features[i]
	}

	if m.kind == "logistic" {
		return 1 / (1 + math.Exp(-sum)), nil
	}
	return math.Min(math.Max(sum, 0), 1), nil
}

func (m *linearModel) Version() string {
	return m.version
}
