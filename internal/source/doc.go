// Package source implements the upstream source adapters.
//
// Each adapter fetches raw records for a date range and returns them together
// with a partial-failure list. A failed enrichment batch is recorded and
// skipped; it never aborts the whole fetch. Symbols whose quote batch failed
// surface with MarketCapKnown=false so downstream stages can treat them as
// unknown rather than excluded.
package source
