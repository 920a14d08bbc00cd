// Package store persists tenant configuration and task idempotency markers.
//
// Markers follow commit-before-work: the scheduler commits a marker, then
// runs the day's pipeline. Markers are written once and never cleared here;
// retention is an operational concern outside this process.
package store
