package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/marketbrief/marketbrief/internal/delivery"
	"github.com/marketbrief/marketbrief/internal/digest"
	"github.com/marketbrief/marketbrief/internal/metrics"
	"github.com/marketbrief/marketbrief/internal/model"
	"github.com/marketbrief/marketbrief/internal/normalize"
	"github.com/marketbrief/marketbrief/internal/source"
	"github.com/marketbrief/marketbrief/internal/store"
)

// fakeAdapter returns canned items and failures.
type fakeAdapter struct {
	id       model.SourceID
	items    []model.RawItem
	failures []error
}

func (f *fakeAdapter) ID() model.SourceID { return f.id }

func (f *fakeAdapter) Fetch(ctx context.Context, from, to time.Time) ([]model.RawItem, []error) {
	return f.items, f.failures
}

// capturingDeliverer records digests per tenant and can fail selected ones.
type capturingDeliverer struct {
	delivered map[string]model.Digest
	failFor   map[string]bool
}

func newCapturingDeliverer() *capturingDeliverer {
	return &capturingDeliverer{
		delivered: make(map[string]model.Digest),
		failFor:   make(map[string]bool),
	}
}

func (c *capturingDeliverer) Deliver(ctx context.Context, tenant model.Tenant, d model.Digest) error {
	if c.failFor[tenant.ID] {
		return errors.New("destination unreachable")
	}
	c.delivered[tenant.ID] = d
	return nil
}

func testDay() time.Time {
	return time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
}

func newTestPipeline(t *testing.T, adapter *fakeAdapter, tenants store.TenantStore, deliverer delivery.Deliverer) *Pipeline {
	t.Helper()

	normalizer := normalize.New(normalize.Config{
		TargetCountry: "US",
		Zone:          time.UTC,
		DayStartHour:  0,
	}, nil, nil)

	return New(
		Config{Specs: DefaultSpecs(), Zone: time.UTC, DayStartHour: 0},
		[]source.Adapter{adapter},
		normalizer,
		digest.NewBuilder(time.UTC, 4000),
		tenants,
		deliverer,
		metrics.New(prometheus.NewRegistry()),
		nil,
	)
}

func macroItem(title, impact, marker string) model.RawItem {
	return model.RawItem{
		Source:       model.SourceMacro,
		Title:        title,
		Timestamp:    "2025-11-20 13:30:00",
		Country:      "US",
		ImpactLabel:  impact,
		UpdateMarker: marker,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	adapter := &fakeAdapter{
		id: model.SourceMacro,
		items: []model.RawItem{
			macroItem("CPI m/m (Oct/25)", "High", "2025-11-20T10:00:00Z"),
			macroItem("Cpi M/M", "High", "2025-11-20T09:00:00Z"), // duplicate, older
			macroItem("Housing Starts", "Low", "2025-11-20T08:00:00Z"),
		},
	}

	tenants := store.NewMemoryTenants()
	tenants.Put(context.Background(), model.Tenant{ID: "strict", DeliveryTarget: "1", MinImportance: 3})
	tenants.Put(context.Background(), model.Tenant{ID: "loose", DeliveryTarget: "2", MinImportance: 1})

	deliverer := newCapturingDeliverer()
	p := newTestPipeline(t, adapter, tenants, deliverer)

	if err := p.Run(context.Background(), TaskMacroDigest, testDay()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(deliverer.delivered) != 2 {
		t.Fatalf("delivered to %d tenants, want 2", len(deliverer.delivered))
	}

	// The duplicate collapsed; the strict tenant sees only the high-impact
	// event, the loose tenant both.
	strictLines := deliverer.delivered["strict"].Sections[0].Lines
	if len(strictLines) != 1 || !strings.Contains(strictLines[0], "CPI m/m") {
		t.Errorf("strict tenant lines = %v, want only CPI m/m", strictLines)
	}
	looseLines := deliverer.delivered["loose"].Sections[0].Lines
	if len(looseLines) != 2 {
		t.Errorf("loose tenant lines = %v, want 2 events", looseLines)
	}
}

func TestRun_PartialFailureStillDelivers(t *testing.T) {
	adapter := &fakeAdapter{
		id:       model.SourceMacro,
		items:    []model.RawItem{macroItem("NFP", "High", "1")},
		failures: []error{errors.New("batch 2/3 timed out")},
	}

	tenants := store.NewMemoryTenants()
	tenants.Put(context.Background(), model.Tenant{ID: "t1", MinImportance: 1})

	deliverer := newCapturingDeliverer()
	p := newTestPipeline(t, adapter, tenants, deliverer)

	if err := p.Run(context.Background(), TaskMacroDigest, testDay()); err != nil {
		t.Fatalf("Run must tolerate partial failures: %v", err)
	}
	if _, ok := deliverer.delivered["t1"]; !ok {
		t.Error("digest was not delivered despite surviving items")
	}
}

func TestRun_TotalSourceFailureDeliversEmptyDigest(t *testing.T) {
	adapter := &fakeAdapter{
		id:       model.SourceMacro,
		failures: []error{errors.New("connection refused")},
	}

	tenants := store.NewMemoryTenants()
	tenants.Put(context.Background(), model.Tenant{ID: "t1", MinImportance: 1})

	deliverer := newCapturingDeliverer()
	p := newTestPipeline(t, adapter, tenants, deliverer)

	if err := p.Run(context.Background(), TaskMacroDigest, testDay()); err != nil {
		t.Fatalf("total source failure must not fail the run: %v", err)
	}

	d, ok := deliverer.delivered["t1"]
	if !ok {
		t.Fatal("empty digest must still be delivered as a no-events day")
	}
	if !d.Empty() {
		t.Errorf("digest = %+v, want empty", d)
	}
}

func TestRun_TenantFailureIsolated(t *testing.T) {
	adapter := &fakeAdapter{
		id:    model.SourceMacro,
		items: []model.RawItem{macroItem("NFP", "High", "1")},
	}

	tenants := store.NewMemoryTenants()
	tenants.Put(context.Background(), model.Tenant{ID: "broken", MinImportance: 1})
	tenants.Put(context.Background(), model.Tenant{ID: "healthy", MinImportance: 1})

	deliverer := newCapturingDeliverer()
	deliverer.failFor["broken"] = true
	p := newTestPipeline(t, adapter, tenants, deliverer)

	if err := p.Run(context.Background(), TaskMacroDigest, testDay()); err != nil {
		t.Fatalf("one tenant's failure must not fail the run: %v", err)
	}
	if _, ok := deliverer.delivered["healthy"]; !ok {
		t.Error("healthy tenant must still receive its digest")
	}
}

func TestRun_SourceSubscription(t *testing.T) {
	adapter := &fakeAdapter{
		id:    model.SourceMacro,
		items: []model.RawItem{macroItem("NFP", "High", "1")},
	}

	tenants := store.NewMemoryTenants()
	tenants.Put(context.Background(), model.Tenant{
		ID:             "earnings-only",
		MinImportance:  1,
		EnabledSources: []model.SourceID{model.SourceEarnings},
	})

	deliverer := newCapturingDeliverer()
	p := newTestPipeline(t, adapter, tenants, deliverer)

	if err := p.Run(context.Background(), TaskMacroDigest, testDay()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	d := deliverer.delivered["earnings-only"]
	if !d.Empty() {
		t.Errorf("tenant not subscribed to macro should get an empty digest, got %+v", d)
	}
}

func TestRun_UnknownTaskKind(t *testing.T) {
	p := newTestPipeline(t, &fakeAdapter{id: model.SourceMacro}, store.NewMemoryTenants(), newCapturingDeliverer())

	if err := p.Run(context.Background(), "nonsense", testDay()); err == nil {
		t.Error("unknown task kind must be an error")
	}
}

func TestRun_TenantListFailure(t *testing.T) {
	adapter := &fakeAdapter{id: model.SourceMacro}
	p := newTestPipeline(t, adapter, failingTenants{}, newCapturingDeliverer())

	if err := p.Run(context.Background(), TaskMacroDigest, testDay()); err == nil {
		t.Error("tenant store failure must fail the run")
	}
}

type failingTenants struct{}

func (failingTenants) List(ctx context.Context) ([]model.Tenant, error) {
	return nil, errors.New("persistence unavailable")
}

func (failingTenants) Put(ctx context.Context, tenant model.Tenant) error {
	return errors.New("persistence unavailable")
}

func TestRun_EarningsThreshold(t *testing.T) {
	adapter := &fakeAdapter{
		id: model.SourceEarnings,
		items: []model.RawItem{
			{
				Source: model.SourceEarnings, Title: "Walmart Inc.", Symbol: "WMT",
				Timestamp: "2025-11-20", SessionCode: "bmo",
				MarketCap: decimal.NewFromInt(700_000_000_000), MarketCapKnown: true,
			},
			{
				Source: model.SourceEarnings, Title: "Tiny Corp", Symbol: "TINY",
				Timestamp: "2025-11-20", SessionCode: "bmo",
				MarketCap: decimal.NewFromInt(100_000_000), MarketCapKnown: true,
			},
			{
				Source: model.SourceEarnings, Title: "Mystery Inc.", Symbol: "MYST",
				Timestamp: "2025-11-20", SessionCode: "amc",
				// Market cap unknown: retained by the fail-open policy.
			},
		},
	}

	tenants := store.NewMemoryTenants()
	tenants.Put(context.Background(), model.Tenant{
		ID:           "whales",
		MinMarketCap: decimal.NewFromInt(10_000_000_000),
	})

	deliverer := newCapturingDeliverer()
	p := newTestPipeline(t, adapter, tenants, deliverer)

	if err := p.Run(context.Background(), TaskEarningsDigest, testDay()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	d := deliverer.delivered["whales"]
	preOpen := d.Sections[0]
	if len(preOpen.Lines) != 1 || !strings.Contains(preOpen.Lines[0], "WMT") {
		t.Errorf("pre-open = %v, want only WMT", preOpen.Lines)
	}
	postClose := d.Sections[1]
	if len(postClose.Lines) != 1 || !strings.Contains(postClose.Lines[0], "cap n/a") {
		t.Errorf("post-close = %v, want MYST flagged cap n/a", postClose.Lines)
	}
}
