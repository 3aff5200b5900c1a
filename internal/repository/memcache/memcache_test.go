package memcache

import (
	"testing"
	"time"

	"myLeadMarket/business/features"
	"myLeadMarket/business/scoring"
	"myLeadMarket/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticModel struct{ version string }

func (m staticModel) Predict([]float64) (float64, error) { return 0.5, nil }
func (m staticModel) Version() string                    { return m.version }

func TestModelCache_RoundTrip(t *testing.T) {
	c := NewModelCache(time.Minute)

	_, ok := c.Get(domain.VerticalAuto)
	assert.False(t, ok)

	loadedAt := time.Now()
	c.Set(domain.VerticalAuto, scoring.ModelEntry{Model: staticModel{version: "2.0"}, LoadedAt: loadedAt})

	entry, ok := c.Get(domain.VerticalAuto)
	require.True(t, ok)
	assert.Equal(t, "2.0", entry.Model.Version())
	assert.Equal(t, loadedAt, entry.LoadedAt)

	_, ok = c.Get(domain.VerticalHome)
	assert.False(t, ok)
}

func TestModelCache_Expires(t *testing.T) {
	c := NewModelCache(10 * time.Millisecond)
	c.Set(domain.VerticalAuto, scoring.ModelEntry{Model: staticModel{version: "2.0"}, LoadedAt: time.Now()})

	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get(domain.VerticalAuto)
	assert.False(t, ok)
}

func TestTransformCache_RoundTrip(t *testing.T) {
	c := NewTransformCache(time.Minute)

	_, ok := c.Get("key")
	assert.False(t, ok)

	c.Set("key", features.CachedTransform{
		Features:   [][]float64{{1, 2, 3}},
		Importance: map[string]float64{"age": 0.4},
	})

	cached, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, [][]float64{{1, 2, 3}}, cached.Features)
	assert.Equal(t, 0.4, cached.Importance["age"])
}
