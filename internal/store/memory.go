package store

import (
	"context"
	"sync"
	"time"

	"github.com/marketbrief/marketbrief/internal/model"
)

// MemoryTenants is an in-memory TenantStore for tests and dry runs.
type MemoryTenants struct {
	mu      sync.RWMutex
	tenants map[string]model.Tenant
}

// NewMemoryTenants creates an empty in-memory tenant store.
func NewMemoryTenants() *MemoryTenants {
	return &MemoryTenants{tenants: make(map[string]model.Tenant)}
}

// List implements TenantStore.
func (m *MemoryTenants) List(ctx context.Context) ([]model.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Tenant, 0, len(m.tenants))
	for _, t := range m.tenants {
		out = append(out, t)
	}
	return out, nil
}

// Put implements TenantStore.
func (m *MemoryTenants) Put(ctx context.Context, tenant model.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants[tenant.ID] = tenant
	return nil
}

// MemoryMarkers is an in-memory MarkerStore for tests and dry runs.
type MemoryMarkers struct {
	mu      sync.Mutex
	markers map[string]bool
}

// NewMemoryMarkers creates an empty in-memory marker store.
func NewMemoryMarkers() *MemoryMarkers {
	return &MemoryMarkers{markers: make(map[string]bool)}
}

func markerKey(taskKind string, day time.Time) string {
	return taskKind + "/" + DateKey(day)
}

// Exists implements MarkerStore.
func (m *MemoryMarkers) Exists(ctx context.Context, taskKind string, day time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.markers[markerKey(taskKind, day)], nil
}

// Commit implements MarkerStore.
func (m *MemoryMarkers) Commit(ctx context.Context, taskKind string, day time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers[markerKey(taskKind, day)] = true
	return nil
}
