package tenant

import "context"

// Repository defines the operations for resolving and listing tenants.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Tenant, error)
	ListActive(ctx context.Context) ([]*Tenant, error)
}
