package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/marketbrief/marketbrief/internal/dedup"
	"github.com/marketbrief/marketbrief/internal/delivery"
	"github.com/marketbrief/marketbrief/internal/digest"
	"github.com/marketbrief/marketbrief/internal/filter"
	"github.com/marketbrief/marketbrief/internal/metrics"
	"github.com/marketbrief/marketbrief/internal/model"
	"github.com/marketbrief/marketbrief/internal/normalize"
	"github.com/marketbrief/marketbrief/internal/source"
	"github.com/marketbrief/marketbrief/internal/store"
)

// Spec binds a task kind to the sources it fetches and the digest
// categories it renders.
type Spec struct {
	Sources    []model.SourceID
	Categories []model.Category
}

// Task kinds driven by the scheduler.
const (
	TaskMacroDigest    = "macro-digest"
	TaskEarningsDigest = "earnings-digest"
)

// DefaultSpecs returns the standard task-kind bindings.
func DefaultSpecs() map[string]Spec {
	return map[string]Spec{
		TaskMacroDigest: {
			Sources:    []model.SourceID{model.SourceMacro},
			Categories: []model.Category{model.MacroIndicator},
		},
		TaskEarningsDigest: {
			Sources:    []model.SourceID{model.SourceEarnings},
			Categories: []model.Category{model.PreOpenEarnings, model.PostCloseEarnings, model.UnscheduledEarnings},
		},
	}
}

// Config holds pipeline settings.
type Config struct {
	Specs        map[string]Spec
	Zone         *time.Location // Display timezone
	DayStartHour int            // Local hour anchoring the display window
}

// Pipeline wires the fetch-normalize-merge-filter-render-deliver chain.
type Pipeline struct {
	cfg        Config
	adapters   map[model.SourceID]source.Adapter
	normalizer *normalize.Normalizer
	builder    *digest.Builder
	tenants    store.TenantStore
	deliverer  delivery.Deliverer
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// New creates a Pipeline.
func New(
	cfg Config,
	adapters []source.Adapter,
	normalizer *normalize.Normalizer,
	builder *digest.Builder,
	tenants store.TenantStore,
	deliverer delivery.Deliverer,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Pipeline {
	if cfg.Zone == nil {
		cfg.Zone = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}

	byID := make(map[model.SourceID]source.Adapter, len(adapters))
	for _, a := range adapters {
		byID[a.ID()] = a
	}

	return &Pipeline{
		cfg:        cfg,
		adapters:   byID,
		normalizer: normalizer,
		builder:    builder,
		tenants:    tenants,
		deliverer:  deliverer,
		metrics:    m,
		logger:     logger,
	}
}

// Run implements schedule.Runner. A run that reaches delivery counts as
// complete even when every upstream batch failed: the day's digest is then
// empty by design and is not retried.
func (p *Pipeline) Run(ctx context.Context, taskKind string, day time.Time) error {
	spec, ok := p.cfg.Specs[taskKind]
	if !ok {
		return fmt.Errorf("unknown task kind %q", taskKind)
	}

	runID := uuid.New()
	logger := p.logger.With("run_id", runID, "task", taskKind, "day", store.DateKey(day))
	start := time.Now()

	raw := p.fetchAll(ctx, spec, day, logger)

	events := make([]model.Event, 0, len(raw))
	for _, item := range raw {
		if event, ok := p.normalizer.Normalize(ctx, item, day); ok {
			events = append(events, event)
		}
	}

	merged := dedup.Merge(events)
	p.metrics.EventsRetained.Add(float64(len(merged)))

	logger.Info("events collected",
		"raw", len(raw),
		"normalized", len(events),
		"merged", len(merged),
	)

	tenants, err := p.tenants.List(ctx)
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues(taskKind, "failed").Inc()
		return fmt.Errorf("list tenants: %w", err)
	}

	var delivered, failed int
	for _, tenant := range tenants {
		if err := p.deliverTenant(ctx, tenant, spec, merged, day); err != nil {
			logger.Warn("delivery failed, continuing with remaining tenants",
				"tenant", tenant.ID,
				"err", err,
			)
			p.metrics.DeliveriesTotal.WithLabelValues("failed").Inc()
			failed++
			continue
		}
		p.metrics.DeliveriesTotal.WithLabelValues("ok").Inc()
		delivered++
	}

	p.metrics.RunsTotal.WithLabelValues(taskKind, "ok").Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())

	logger.Info("run complete",
		"tenants", len(tenants),
		"delivered", delivered,
		"failed", failed,
		"duration", time.Since(start),
	)

	return nil
}

// fetchAll runs every adapter the task binding names concurrently and pools their
// raw items. Partial failures are counted and logged, never fatal.
func (p *Pipeline) fetchAll(ctx context.Context, spec Spec, day time.Time, logger *slog.Logger) []model.RawItem {
	window := normalize.DayWindow(day, p.cfg.Zone, p.cfg.DayStartHour)
	from := window.Start.UTC()
	to := window.End.UTC()

	var (
		mu  sync.Mutex
		raw []model.RawItem
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range spec.Sources {
		adapter, ok := p.adapters[id]
		if !ok {
			logger.Warn("no adapter registered for source", "source", id)
			continue
		}

		g.Go(func() error {
			items, failures := adapter.Fetch(gctx, from, to)

			p.metrics.EventsFetched.WithLabelValues(string(id)).Add(float64(len(items)))
			for _, ferr := range failures {
				p.metrics.BatchFailures.WithLabelValues(string(id)).Inc()
				logger.Warn("partial source failure",
					"source", id,
					"err", ferr,
				)
			}

			mu.Lock()
			raw = append(raw, items...)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return raw
}

// deliverTenant filters and renders the merged set for one tenant, then
// hands the digest to the delivery collaborator.
func (p *Pipeline) deliverTenant(ctx context.Context, tenant model.Tenant, spec Spec, merged []model.Event, day time.Time) error {
	subscribed := make([]model.Event, 0, len(merged))
	for _, e := range merged {
		if tenant.SourceEnabled(e.Source) {
			subscribed = append(subscribed, e)
		}
	}

	kept := filter.Apply(subscribed, filter.Thresholds{
		MinImportance: tenant.MinImportance,
		MinMarketCap:  tenant.MinMarketCap,
	})

	d := p.builder.Build(day, kept, spec.Categories)
	return p.deliverer.Deliver(ctx, tenant, d)
}
