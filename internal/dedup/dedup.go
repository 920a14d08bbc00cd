package dedup

import (
	"strings"

	"github.com/marketbrief/marketbrief/internal/model"
	"github.com/marketbrief/marketbrief/internal/normalize"
)

// Key derives the dedup key for an event: the case-folded original title
// with any trailing reference period stripped. Earnings events key on the
// symbol when present, since company display names vary across providers.
func Key(e model.Event) string {
	if e.Symbol != "" {
		return strings.ToLower(e.Symbol)
	}
	return strings.ToLower(normalize.CleanTitle(e.OriginalTitle))
}

// Merge collapses events sharing a dedup key, keeping the record with the
// greatest update marker. Markers compare as strings, which is a total order
// for both ISO 8601 timestamps and zero-padded sequence numbers. Ties keep
// the first-seen record. Merge preserves first-seen group order and is
// idempotent: Merge(Merge(x)) == Merge(x).
func Merge(events []model.Event) []model.Event {
	if len(events) <= 1 {
		return events
	}

	index := make(map[string]int, len(events))
	merged := make([]model.Event, 0, len(events))

	for _, e := range events {
		key := Key(e)
		at, seen := index[key]
		if !seen {
			index[key] = len(merged)
			merged = append(merged, e)
			continue
		}
		if e.UpdateMarker > merged[at].UpdateMarker {
			merged[at] = e
		}
	}

	return merged
}
