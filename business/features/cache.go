package features

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"myLeadMarket/domain"
)

// CachedTransform is the memoized result of one Transform call.
type CachedTransform struct {
	Features   [][]float64
	Importance map[string]float64
}

// TransformCache memoizes transforms by content-derived key. The store
// is process-wide and shared across engineers; with an unbounded key
// space it is a memory-growth hazard, so back it with a TTL store.
type TransformCache interface {
	Get(key string) (CachedTransform, bool)
	Set(key string, value CachedTransform)
}

// cacheKey derives a deterministic key from the record contents.
// json.Marshal sorts map keys, so identical records hash identically.
func cacheKey(vertical domain.Vertical, records []domain.LeadRecord) (string, bool) {
	raw, err := json.Marshal(records)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(append([]byte(vertical), raw...))
	return hex.EncodeToString(sum[:]), true
}
