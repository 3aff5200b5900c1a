package scoring

import (
	"testing"
	"time"

	"myLeadMarket/domain"

	"github.com/stretchr/testify/assert"
)

func TestBasePrice(t *testing.T) {
	assert.Equal(t, 50.0, basePrice(0))
	assert.Equal(t, 100.0, basePrice(0.5))
	assert.Equal(t, 150.0, basePrice(1))
}

func TestPriceMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, priceMultiplier(domain.VerticalAuto))
	assert.Equal(t, 1.2, priceMultiplier(domain.VerticalHome))
	assert.Equal(t, 1.5, priceMultiplier(domain.VerticalHealth))
	assert.Equal(t, 1.8, priceMultiplier(domain.VerticalLife))
	assert.Equal(t, 0.8, priceMultiplier(domain.VerticalRenters))
	assert.Equal(t, 2.0, priceMultiplier(domain.VerticalCommercial))
	assert.Equal(t, 1.0, priceMultiplier(domain.Vertical("pet")))
}

func TestClampPrice(t *testing.T) {
	assert.Equal(t, 25.0, clampPrice(10))
	assert.Equal(t, 500.0, clampPrice(900))
	assert.Equal(t, 123.46, clampPrice(123.456))
	assert.Equal(t, 100.0, clampPrice(100))
}

func TestMarketConditions_WeekdayPeak(t *testing.T) {
	// Wednesday 10:00.
	now := time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)
	conditions := marketConditions(now)

	assert.True(t, conditions["peak_hours"])
	assert.False(t, conditions["off_peak"])
	assert.False(t, conditions["weekend"])
	assert.False(t, conditions["holiday"])
}

func TestMarketConditions_WeekdayEvening(t *testing.T) {
	// Wednesday 20:00.
	now := time.Date(2026, time.March, 11, 20, 0, 0, 0, time.UTC)
	conditions := marketConditions(now)

	assert.False(t, conditions["peak_hours"])
	assert.True(t, conditions["off_peak"])
	assert.False(t, conditions["weekend"])
}

func TestMarketConditions_Weekend(t *testing.T) {
	// Saturday noon: weekend hours are never peak.
	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	conditions := marketConditions(now)

	assert.False(t, conditions["peak_hours"])
	assert.True(t, conditions["off_peak"])
	assert.True(t, conditions["weekend"])
}

func TestMarketConditions_Holiday(t *testing.T) {
	newYear := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, marketConditions(newYear)["holiday"])

	christmas := time.Date(2026, time.December, 25, 12, 0, 0, 0, time.UTC)
	assert.True(t, marketConditions(christmas)["holiday"])

	ordinary := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	assert.False(t, marketConditions(ordinary)["holiday"])
}

func TestSeasonalMonths(t *testing.T) {
	assert.True(t, seasonalMonths[time.January])
	assert.True(t, seasonalMonths[time.April])
	assert.True(t, seasonalMonths[time.July])
	assert.True(t, seasonalMonths[time.October])
	assert.False(t, seasonalMonths[time.June])
}
