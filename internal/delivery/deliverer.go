package delivery

import (
	"context"

	"github.com/marketbrief/marketbrief/internal/model"
)

// Deliverer sends one digest to one tenant's destination.
type Deliverer interface {
	Deliver(ctx context.Context, tenant model.Tenant, d model.Digest) error
}

// DelivererFunc is a function adapter for Deliverer.
type DelivererFunc func(context.Context, model.Tenant, model.Digest) error

func (f DelivererFunc) Deliver(ctx context.Context, tenant model.Tenant, d model.Digest) error {
	return f(ctx, tenant, d)
}
