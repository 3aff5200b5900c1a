package features

import (
	"fmt"
	"strconv"
	"sync"

	"myLeadMarket/pkg/logger"
)

// ImportanceTracker accumulates feature importance scores across the
// process. One tracker is shared by every engineer so drift is observed
// globally, not per vertical instance.
type ImportanceTracker struct {
	mu     sync.Mutex
	scores map[string]float64
}

func NewImportanceTracker() *ImportanceTracker {
	return &ImportanceTracker{scores: make(map[string]float64)}
}

// Merge folds new scores into the tracker and reports each feature whose
// absolute change exceeds changeThreshold.
func (t *ImportanceTracker) Merge(scores map[string]float64, changeThreshold float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for feature, score := range scores {
		if prev, ok := t.scores[feature]; ok {
			change := score - prev
			if change < 0 {
				change = -change
			}
			if change > changeThreshold {
				// Alerting is fire-and-forget; it must never block or
				// fail the caller.
				logger.Warn("feature importance drift",
					"feature", feature,
					"change", strconv.FormatFloat(change, 'f', 4, 64),
				)
				ImportanceAlertsTotal.WithLabelValues(feature).Inc()
			}
		}
		t.scores[feature] = score
	}
}

// Snapshot returns a copy of the tracked scores.
func (t *ImportanceTracker) Snapshot() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]float64, len(t.scores))
	for k, v := range t.scores {
		out[k] = v
	}
	return out
}

// UpdateImportance validates and merges new importance scores, firing
// drift alerts for features whose tracked value moved more than the
// vertical's configured threshold.
func (e *Engineer) UpdateImportance(scores map[string]float64) error {
	for feature, score := range scores {
		if score < 0 || score > 1 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidScores, feature, score)
		}
	}

	e.tracker.Merge(scores, e.cfg.ImportanceChangeThreshold())
	return nil
}
