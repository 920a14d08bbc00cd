// Package dedup collapses multiple records describing the same logical event.
//
// Grouping key: case-folded title with reference-period annotations already
// stripped by the normalizer. Within a group the record with the greatest
// update marker survives; on equal markers the first-seen record wins, which
// keeps Merge deterministic for any stable input order. Merge is pure and
// idempotent.
package dedup
