package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/marketbrief/marketbrief/internal/model"
)

// Schema creates the tables this package needs. Idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS tenants (
	id              TEXT PRIMARY KEY,
	delivery_target TEXT NOT NULL,
	min_importance  INT NOT NULL DEFAULT 1,
	min_market_cap  NUMERIC NOT NULL DEFAULT 0,
	enabled_sources TEXT[] NOT NULL DEFAULT '{}',
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS task_markers (
	task_kind    TEXT NOT NULL,
	day          DATE NOT NULL,
	committed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (task_kind, day)
);
`

// EnsureSchema applies the schema.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// PGTenants is the Postgres-backed TenantStore.
type PGTenants struct {
	pool *pgxpool.Pool
}

// NewPGTenants creates a Postgres tenant store.
func NewPGTenants(pool *pgxpool.Pool) *PGTenants {
	return &PGTenants{pool: pool}
}

// List implements TenantStore.
func (s *PGTenants) List(ctx context.Context) ([]model.Tenant, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, delivery_target, min_importance, min_market_cap::text, enabled_sources
		FROM tenants
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []model.Tenant
	for rows.Next() {
		var (
			t       model.Tenant
			capText string
			sources []string
		)
		if err := rows.Scan(&t.ID, &t.DeliveryTarget, &t.MinImportance, &capText, &sources); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		t.MinMarketCap, err = decimal.NewFromString(capText)
		if err != nil {
			return nil, fmt.Errorf("parse min_market_cap for tenant %s: %w", t.ID, err)
		}
		t.EnabledSources = toSourceIDs(sources)
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}

	return tenants, nil
}

// Put implements TenantStore. Last writer wins, no merge.
func (s *PGTenants) Put(ctx context.Context, tenant model.Tenant) error {
	sources := make([]string, len(tenant.EnabledSources))
	for i, src := range tenant.EnabledSources {
		sources[i] = string(src)
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO tenants (id, delivery_target, min_importance, min_market_cap, enabled_sources, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5, now())
		ON CONFLICT (id) DO UPDATE SET
			delivery_target = EXCLUDED.delivery_target,
			min_importance  = EXCLUDED.min_importance,
			min_market_cap  = EXCLUDED.min_market_cap,
			enabled_sources = EXCLUDED.enabled_sources,
			updated_at      = now()`,
		tenant.ID,
		tenant.DeliveryTarget,
		tenant.MinImportance,
		tenant.MinMarketCap.String(),
		sources,
	)
	if err != nil {
		return fmt.Errorf("put tenant %s: %w", tenant.ID, err)
	}
	return nil
}

func toSourceIDs(sources []string) []model.SourceID {
	if len(sources) == 0 {
		return nil
	}
	out := make([]model.SourceID, len(sources))
	for i, s := range sources {
		out[i] = model.SourceID(s)
	}
	return out
}

// PGMarkers is the Postgres-backed MarkerStore.
type PGMarkers struct {
	pool *pgxpool.Pool
}

// NewPGMarkers creates a Postgres marker store.
func NewPGMarkers(pool *pgxpool.Pool) *PGMarkers {
	return &PGMarkers{pool: pool}
}

// Exists implements MarkerStore.
func (s *PGMarkers) Exists(ctx context.Context, taskKind string, day time.Time) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM task_markers WHERE task_kind = $1 AND day = $2)`,
		taskKind, DateKey(day),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check marker %s/%s: %w", taskKind, DateKey(day), err)
	}
	return exists, nil
}

// Commit implements MarkerStore. Re-committing is a no-op, never an error,
// so a crash between commit and delivery cannot wedge the next poll.
func (s *PGMarkers) Commit(ctx context.Context, taskKind string, day time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO task_markers (task_kind, day) VALUES ($1, $2)
		ON CONFLICT (task_kind, day) DO NOTHING`,
		taskKind, DateKey(day),
	)
	if err != nil {
		return fmt.Errorf("commit marker %s/%s: %w", taskKind, DateKey(day), err)
	}
	return nil
}
