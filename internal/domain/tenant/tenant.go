package tenant

import "time"

// Tenant is the isolation boundary partitioning all obligations and runs.
type Tenant struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}
