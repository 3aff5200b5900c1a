package scoring

import (
	"time"

	"myLeadMarket/domain"
)

// Model is the capability a loaded artifact must provide: a single-row
// prediction in [0,1]. Artifacts are replaced, never mutated.
type Model interface {
	Predict(features []float64) (float64, error)
	Version() string
}

// ModelLoader loads a model artifact from a resolved path.
type ModelLoader interface {
	Load(path string) (Model, error)
}

// ModelEntry pairs a loaded artifact with its load time for freshness
// checks.
type ModelEntry struct {
	Model    Model
	LoadedAt time.Time
}

// ModelCache shares loaded artifacts across scorer instances. Entries
// older than the freshness window are reloaded rather than adopted;
// stale reads are an accepted trade-off for reload avoidance.
type ModelCache interface {
	Get(v domain.Vertical) (ModelEntry, bool)
	Set(v domain.Vertical, entry ModelEntry)
}

// modelCacheTTL is the shared cache freshness window.
const modelCacheTTL = time.Hour
