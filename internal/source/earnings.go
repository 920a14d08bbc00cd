package source

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marketbrief/marketbrief/internal/api"
	"github.com/marketbrief/marketbrief/internal/model"
)

// EarningsConfig tunes the quote enrichment pass.
type EarningsConfig struct {
	BatchSize  int           // Symbols per quote request (default: 50)
	BatchDelay time.Duration // Pause between quote batches (default: 100ms)
}

// DefaultEarningsConfig returns sensible defaults.
func DefaultEarningsConfig() EarningsConfig {
	return EarningsConfig{
		BatchSize:  50,
		BatchDelay: 100 * time.Millisecond,
	}
}

// Earnings adapts the provider's earnings calendar into raw items, enriching
// each symbol with its market cap via batched quote lookups.
type Earnings struct {
	cfg    EarningsConfig
	client *api.Client
	logger *slog.Logger
}

// NewEarnings creates the earnings adapter.
func NewEarnings(cfg EarningsConfig, client *api.Client, logger *slog.Logger) *Earnings {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultEarningsConfig().BatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Earnings{cfg: cfg, client: client, logger: logger}
}

// ID implements Adapter.
func (e *Earnings) ID() model.SourceID {
	return model.SourceEarnings
}

// Fetch implements Adapter. A failed quote batch is recorded in the failure
// list and the remaining batches continue; symbols from failed batches keep
// MarketCapKnown=false.
func (e *Earnings) Fetch(ctx context.Context, from, to time.Time) ([]model.RawItem, []error) {
	records, err := e.client.GetEarningsCalendar(ctx, from, to)
	if err != nil {
		return nil, []error{err}
	}

	symbols := uniqueSymbols(records)
	quotes, failures := e.fetchQuotes(ctx, symbols)

	items := make([]model.RawItem, 0, len(records))
	var dropped int
	for _, rec := range records {
		if rec.Symbol == "" || rec.Date == "" {
			dropped++
			continue
		}

		item := model.RawItem{
			Source:       model.SourceEarnings,
			Title:        rec.Symbol,
			Symbol:       rec.Symbol,
			Timestamp:    rec.Date,
			SessionCode:  rec.Time,
			Forecast:     formatValue(rec.EPSEstimated),
			UpdateMarker: rec.UpdatedFromDate,
		}
		if q, ok := quotes[rec.Symbol]; ok {
			if q.Name != "" {
				item.Title = q.Name
			}
			item.MarketCap = decimal.NewFromFloat(q.MarketCap)
			item.MarketCapKnown = true
		}
		items = append(items, item)
	}

	if dropped > 0 {
		e.logger.Warn("dropped malformed earnings records",
			"dropped", dropped,
			"kept", len(items),
		)
	}

	return items, failures
}

// fetchQuotes looks up market caps in fixed-size batches with a fixed delay
// between requests to stay under the provider's rate limits.
func (e *Earnings) fetchQuotes(ctx context.Context, symbols []string) (map[string]api.Quote, []error) {
	quotes := make(map[string]api.Quote, len(symbols))
	var failures []error

	batches := chunk(symbols, e.cfg.BatchSize)
	for i, batch := range batches {
		if i > 0 {
			if err := sleepCtx(ctx, e.cfg.BatchDelay); err != nil {
				failures = append(failures, err)
				return quotes, failures
			}
		}

		result, err := e.client.GetQuotes(ctx, batch)
		if err != nil {
			e.logger.Warn("quote batch failed, continuing",
				"batch", i+1,
				"batches", len(batches),
				"symbols", len(batch),
				"err", err,
			)
			failures = append(failures, fmt.Errorf("quote batch %d/%d: %w", i+1, len(batches), err))
			continue
		}

		for _, q := range result {
			quotes[q.Symbol] = q
		}
	}

	return quotes, failures
}

// uniqueSymbols extracts the distinct symbol set in deterministic order.
func uniqueSymbols(records []api.EarningsRecord) []string {
	seen := make(map[string]bool, len(records))
	symbols := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.Symbol == "" || seen[rec.Symbol] {
			continue
		}
		seen[rec.Symbol] = true
		symbols = append(symbols, rec.Symbol)
	}
	sort.Strings(symbols)
	return symbols
}
