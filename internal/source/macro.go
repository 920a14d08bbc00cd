package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/marketbrief/marketbrief/internal/api"
	"github.com/marketbrief/marketbrief/internal/model"
)

// Macro adapts the provider's economic calendar into raw items.
type Macro struct {
	client *api.Client
	logger *slog.Logger
}

// NewMacro creates the macro indicator adapter.
func NewMacro(client *api.Client, logger *slog.Logger) *Macro {
	if logger == nil {
		logger = slog.Default()
	}
	return &Macro{client: client, logger: logger}
}

// ID implements Adapter.
func (m *Macro) ID() model.SourceID {
	return model.SourceMacro
}

// Fetch implements Adapter. The economic calendar is a single request, so the
// failure list is either empty or carries exactly one error.
func (m *Macro) Fetch(ctx context.Context, from, to time.Time) ([]model.RawItem, []error) {
	records, err := m.client.GetEconomicCalendar(ctx, from, to)
	if err != nil {
		return nil, []error{err}
	}

	items := make([]model.RawItem, 0, len(records))
	var dropped int
	for _, rec := range records {
		if rec.Event == "" || rec.Date == "" {
			dropped++
			continue
		}
		items = append(items, model.RawItem{
			Source:       model.SourceMacro,
			Title:        rec.Event,
			Timestamp:    rec.Date,
			Country:      rec.Country,
			ImpactLabel:  rec.Impact,
			Forecast:     formatValue(rec.Estimate),
			Previous:     formatValue(rec.Previous),
			UpdateMarker: rec.UpdatedAt,
		})
	}

	if dropped > 0 {
		m.logger.Warn("dropped malformed economic records",
			"dropped", dropped,
			"kept", len(items),
		)
	}

	return items, nil
}

// formatValue renders an optional numeric field verbatim, empty when absent.
func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return trimFloat(*v)
}
