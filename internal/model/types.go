package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Source Types
// -----------------------------------------------------------------------------

// SourceID identifies an upstream data provider.
type SourceID string

const (
	SourceMacro    SourceID = "macro"    // Economic indicator calendar
	SourceEarnings SourceID = "earnings" // Corporate earnings calendar
)

// RawItem is a provider record before normalization. Adapters map their wire
// formats into this shape; the normalizer owns everything after that.
type RawItem struct {
	Source       SourceID // Producing adapter
	Title        string   // Indicator name or company name
	Symbol       string   // Ticker symbol (earnings only)
	Timestamp    string   // Provider timestamp, assumed UTC unless stated otherwise
	Country      string   // ISO country code (e.g., "US")
	ImpactLabel  string   // Provider impact label ("Low"/"Medium"/"High")
	SessionCode  string   // Earnings session: "bmo", "amc", or other
	Forecast     string   // Forecast value, verbatim
	Previous     string   // Previous value, verbatim
	UpdateMarker string   // Opaque monotonic revision marker, used for dedup

	// Market cap enrichment. Known is false when the quote batch for this
	// symbol failed upstream.
	MarketCap      decimal.Decimal
	MarketCapKnown bool
}

// -----------------------------------------------------------------------------
// Canonical Event
// -----------------------------------------------------------------------------

// Category classifies a canonical event for digest grouping.
type Category int

const (
	MacroIndicator Category = iota
	PreOpenEarnings
	PostCloseEarnings
	UnscheduledEarnings
)

// String returns the digest section name for the category.
func (c Category) String() string {
	switch c {
	case MacroIndicator:
		return "macro"
	case PreOpenEarnings:
		return "pre-open"
	case PostCloseEarnings:
		return "post-close"
	case UnscheduledEarnings:
		return "unscheduled"
	default:
		return "unknown"
	}
}

// Event is the canonical timezone-aware calendar record. TimestampUTC is
// normalized to UTC before any comparison or filtering happens; display
// timezones apply only at render time.
type Event struct {
	Source        SourceID  // Producing adapter, drives per-tenant source selection
	Title         string    // Localized display title
	OriginalTitle string    // Pre-translation title, used for category detection
	Symbol        string    // Ticker symbol (earnings only)
	TimestampUTC  time.Time // Always UTC
	Category      Category
	Importance    int    // 1..3, macro events only
	ForecastText  string // Optional
	PreviousText  string // Optional
	UpdateMarker  string // Opaque monotonic per-source marker, dedup tie-break

	// Materiality. MarketCapKnown is false when enrichment failed for this
	// symbol; such events are retained and rendered as "cap n/a".
	MarketCap      decimal.Decimal
	MarketCapKnown bool
}

// IsEarnings reports whether the event belongs to an earnings category.
func (e Event) IsEarnings() bool {
	return e.Category == PreOpenEarnings || e.Category == PostCloseEarnings || e.Category == UnscheduledEarnings
}

// -----------------------------------------------------------------------------
// Tenant
// -----------------------------------------------------------------------------

// Tenant is a registered digest destination. Mutated only by the admin
// surface; the pipeline treats tenants as read-only during a run.
type Tenant struct {
	ID             string          // Primary key
	DeliveryTarget string          // Opaque handle for the delivery collaborator (e.g., chat id)
	MinImportance  int             // Macro threshold, 1..3
	MinMarketCap   decimal.Decimal // Earnings materiality floor, dollars
	EnabledSources []SourceID      // Sources this tenant subscribes to
}

// SourceEnabled reports whether the tenant subscribes to the given source.
// An empty set means all sources.
func (t Tenant) SourceEnabled(id SourceID) bool {
	if len(t.EnabledSources) == 0 {
		return true
	}
	for _, s := range t.EnabledSources {
		if s == id {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Digest
// -----------------------------------------------------------------------------

// Section is one named, size-bounded block of a digest.
type Section struct {
	Name    string   // Fixed section name (pre-open, post-close, ...)
	Lines   []string // Rendered items, in final order
	Omitted int      // Items dropped by the size bound
}

// Digest is the rendered, category-grouped output handed to delivery.
type Digest struct {
	Day      time.Time // Display day the digest covers
	Sections []Section // Fixed category order, present even when empty
}

// Empty reports whether the digest carries no items at all.
func (d Digest) Empty() bool {
	for _, s := range d.Sections {
		if len(s.Lines) > 0 {
			return false
		}
	}
	return true
}
