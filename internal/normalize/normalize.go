package normalize

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/marketbrief/marketbrief/internal/model"
	"github.com/marketbrief/marketbrief/internal/translate"
)

// Session anchor times, UTC. The earnings calendar reports a date plus a
// session code, not a clock time; these anchors pin each session to the US
// market open/close so window filtering and ordering stay deterministic.
var sessionAnchors = map[string]struct{ hour, min int }{
	"bmo": {13, 30}, // Before market open
	"amc": {21, 0},  // After market close
}

const unscheduledAnchorHour = 12

// Config holds normalizer settings.
type Config struct {
	TargetCountry string         // Macro events outside this country are dropped
	Zone          *time.Location // Display timezone
	DayStartHour  int            // Local hour anchoring the display window
}

// Normalizer converts raw items into canonical events.
type Normalizer struct {
	cfg       Config
	localizer translate.Localizer
	logger    *slog.Logger
}

// New creates a Normalizer. localizer may be nil to skip title localization.
func New(cfg Config, localizer translate.Localizer, logger *slog.Logger) *Normalizer {
	if cfg.Zone == nil {
		cfg.Zone = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{cfg: cfg, localizer: localizer, logger: logger}
}

// Normalize converts one raw item into a canonical event for the given
// display day. The second return value is false when the item has no usable
// timestamp, targets another country, or falls outside the display window.
func (n *Normalizer) Normalize(ctx context.Context, raw model.RawItem, day time.Time) (model.Event, bool) {
	window := DayWindow(day, n.cfg.Zone, n.cfg.DayStartHour)

	switch raw.Source {
	case model.SourceEarnings:
		return n.normalizeEarnings(raw, window)
	default:
		return n.normalizeMacro(ctx, raw, window)
	}
}

func (n *Normalizer) normalizeMacro(ctx context.Context, raw model.RawItem, window Window) (model.Event, bool) {
	if raw.Country != "" && !strings.EqualFold(raw.Country, n.cfg.TargetCountry) {
		return model.Event{}, false
	}

	ts, ok := ParseTimestamp(raw.Timestamp)
	if !ok {
		n.logger.Debug("dropping record without usable timestamp", "title", raw.Title, "raw", raw.Timestamp)
		return model.Event{}, false
	}
	if !window.Contains(ts) {
		return model.Event{}, false
	}

	title := CleanTitle(raw.Title)
	display := title
	if n.localizer != nil {
		display = n.localizer.Localize(ctx, title)
	}

	return model.Event{
		Source:        raw.Source,
		Title:         display,
		OriginalTitle: title,
		TimestampUTC:  ts.UTC(),
		Category:      model.MacroIndicator,
		Importance:    MapImportance(raw.ImpactLabel),
		ForecastText:  raw.Forecast,
		PreviousText:  raw.Previous,
		UpdateMarker:  raw.UpdateMarker,
	}, true
}

func (n *Normalizer) normalizeEarnings(raw model.RawItem, window Window) (model.Event, bool) {
	day, ok := ParseTimestamp(raw.Timestamp)
	if !ok {
		n.logger.Debug("dropping record without usable timestamp", "symbol", raw.Symbol, "raw", raw.Timestamp)
		return model.Event{}, false
	}

	session := strings.ToLower(strings.TrimSpace(raw.SessionCode))
	category := model.UnscheduledEarnings
	anchor := struct{ hour, min int }{unscheduledAnchorHour, 0}
	switch session {
	case "bmo":
		category = model.PreOpenEarnings
		anchor = sessionAnchors["bmo"]
	case "amc":
		category = model.PostCloseEarnings
		anchor = sessionAnchors["amc"]
	}

	y, m, d := day.UTC().Date()
	ts := time.Date(y, m, d, anchor.hour, anchor.min, 0, 0, time.UTC)
	if !window.Contains(ts) {
		return model.Event{}, false
	}

	title := CleanTitle(raw.Title)

	return model.Event{
		Source:         raw.Source,
		Title:          title,
		OriginalTitle:  title,
		Symbol:         raw.Symbol,
		TimestampUTC:   ts,
		Category:       category,
		ForecastText:   raw.Forecast,
		UpdateMarker:   raw.UpdateMarker,
		MarketCap:      raw.MarketCap,
		MarketCapKnown: raw.MarketCapKnown,
	}, true
}

// refPeriod matches a trailing parenthetical reference-period annotation,
// e.g. "CPI m/m (Oct/25)".
var refPeriod = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// CleanTitle strips the trailing parenthetical annotation from a title.
// The same rule applies to every source.
func CleanTitle(title string) string {
	return strings.TrimSpace(refPeriod.ReplaceAllString(title, ""))
}

// MapImportance maps a provider impact label onto the 1..3 scale. Unknown
// labels land on the lowest tier rather than failing.
func MapImportance(label string) int {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "high":
		return 3
	case "medium":
		return 2
	default:
		return 1
	}
}

// ParseTimestamp parses a provider timestamp, treating it as UTC. Supported
// shapes: "2006-01-02 15:04:05", RFC 3339, and bare dates.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
