// Package pipeline runs one digest cycle end to end.
//
// A run fetches raw records from every source the task kind names,
// normalizes and merges them, then filters, renders, and delivers a digest
// per tenant. Source fetches run concurrently; partial upstream failures
// shrink the event set but never abort the run, and one tenant's delivery
// failure never blocks another's.
package pipeline
