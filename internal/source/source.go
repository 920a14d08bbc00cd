package source

import (
	"context"
	"time"

	"github.com/marketbrief/marketbrief/internal/model"
)

// Adapter fetches raw calendar records for a date range.
//
// The returned error slice holds per-batch partial failures; a non-empty
// slice with a non-empty item list means the fetch partially succeeded.
type Adapter interface {
	ID() model.SourceID
	Fetch(ctx context.Context, from, to time.Time) ([]model.RawItem, []error)
}

// sleepCtx pauses between enrichment batches, waking early on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
