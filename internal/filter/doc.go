// Package filter applies per-tenant importance and materiality thresholds.
//
// Macro events pass on star importance, earnings events on market cap.
// Earnings whose market cap is unknown (enrichment batch failed upstream)
// are retained: the fail-open policy reports a possibly immaterial event
// rather than silently hiding a possibly material one. The filter is
// monotonic: raising a threshold never grows the retained set.
package filter
