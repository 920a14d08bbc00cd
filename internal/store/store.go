package store

import (
	"context"
	"time"

	"github.com/marketbrief/marketbrief/internal/model"
)

// TenantStore reads and writes tenant configuration. Writes are wholesale,
// last-writer-wins; the backing store provides read-after-write consistency.
type TenantStore interface {
	List(ctx context.Context) ([]model.Tenant, error)
	Put(ctx context.Context, tenant model.Tenant) error
}

// MarkerStore persists (taskKind, calendarDate) idempotency markers.
type MarkerStore interface {
	// Exists reports whether the marker was already committed.
	Exists(ctx context.Context, taskKind string, day time.Time) (bool, error)

	// Commit writes the marker. Committing an existing marker is a no-op.
	Commit(ctx context.Context, taskKind string, day time.Time) error
}

// DateKey renders the calendar-date half of a marker key.
func DateKey(day time.Time) string {
	return day.Format("2006-01-02")
}
