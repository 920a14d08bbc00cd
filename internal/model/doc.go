// Package model defines shared data types used across the digest pipeline.
//
// Conventions:
//   - Timestamps: time.Time, always UTC once normalized
//   - Market caps: decimal.Decimal in whole dollars
//   - IDs: string for tenants and sources, uuid.UUID for pipeline runs
package model
