package filter

import (
	"github.com/shopspring/decimal"

	"github.com/marketbrief/marketbrief/internal/model"
)

// Thresholds holds one tenant's retention thresholds.
type Thresholds struct {
	MinImportance int             // Macro floor, 1..3
	MinMarketCap  decimal.Decimal // Earnings materiality floor, dollars
}

// Apply retains events at or above the thresholds. Pure; the input slice is
// not modified.
func Apply(events []model.Event, th Thresholds) []model.Event {
	kept := make([]model.Event, 0, len(events))
	for _, e := range events {
		if Retain(e, th) {
			kept = append(kept, e)
		}
	}
	return kept
}

// Retain decides a single event against the thresholds.
func Retain(e model.Event, th Thresholds) bool {
	if e.IsEarnings() {
		if !e.MarketCapKnown {
			// Fail-open: unknown materiality is reported, not hidden.
			return true
		}
		return e.MarketCap.GreaterThanOrEqual(th.MinMarketCap)
	}
	return e.Importance >= th.MinImportance
}
