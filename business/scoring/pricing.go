package scoring

import (
	"math"
	"time"

	"myLeadMarket/domain"
)

// Pricing bounds in dollars; the clamp is always applied last.
const (
	minLeadPrice = 25.0
	maxLeadPrice = 500.0
)

// priceMultipliers scale the base price per vertical. Unknown verticals
// fall back to 1.0.
var priceMultipliers = map[domain.Vertical]float64{
	domain.VerticalAuto:       1.0,
	domain.VerticalHome:       1.2,
	domain.VerticalHealth:     1.5,
	domain.VerticalLife:       1.8,
	domain.VerticalRenters:    0.8,
	domain.VerticalCommercial: 2.0,
}

// seasonalMonths carry a 10% price boost.
var seasonalMonths = map[time.Month]bool{
	time.January: true,
	time.April:   true,
	time.July:    true,
	time.October: true,
}

func priceMultiplier(v domain.Vertical) float64 {
	if m, ok := priceMultipliers[v]; ok {
		return m
	}
	return 1.0
}

// basePrice maps a [0,1] score into the $50-150 base range.
func basePrice(score float64) float64 {
	return 50 + score*100
}

// clampPrice bounds a price to [25,500] and rounds to cents.
func clampPrice(price float64) float64 {
	return math.Round(math.Min(math.Max(price, minLeadPrice), maxLeadPrice)*100) / 100
}

// marketConditions derives the active time-based pricing flags.
// Peak hours are 9AM-5PM on weekdays; anything else is off-peak.
func marketConditions(now time.Time) map[string]bool {
	hour := now.Hour()
	day := now.Weekday()

	conditions := make(map[string]bool)

	weekday := day != time.Saturday && day != time.Sunday
	if weekday && hour >= 9 && hour <= 17 {
		conditions["peak_hours"] = true
	} else {
		conditions["off_peak"] = true
	}

	if !weekday {
		conditions["weekend"] = true
	}

	if isHoliday(now) {
		conditions["holiday"] = true
	}

	return conditions
}

func isHoliday(now time.Time) bool {
	month, day := now.Month(), now.Day()
	return (month == time.January && day == 1) || (month == time.December && day == 25)
}
