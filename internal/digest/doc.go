// Package digest renders filtered events into a category-grouped, size-bounded
// digest.
//
// Sections appear in a fixed category order regardless of item count. Within
// a section items are chronological by UTC timestamp; earnings sharing a
// session anchor order by descending market cap. A section that would exceed
// its byte bound truncates at the last complete item and reports the omitted
// count, rendered as an "...and N more" marker.
package digest
