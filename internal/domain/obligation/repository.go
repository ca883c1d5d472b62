package obligation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReviewRepository is implemented once per review-driven category (risks,
// BC plans, processing activities, privacy reviews). All queries are scoped
// to a single tenant; results are ordered by ascending due date.
type ReviewRepository interface {
	Category() Category
	// FindUnscheduled returns records that have no next-due date yet.
	FindUnscheduled(ctx context.Context, tenantID string) ([]Obligation, error)
	// FindDue returns records whose effective due date is at or before asOf.
	FindDue(ctx context.Context, tenantID string, asOf time.Time) ([]Obligation, error)
	// FindUpcoming returns records due within (asOf, asOf+horizon].
	FindUpcoming(ctx context.Context, tenantID string, asOf time.Time, horizon time.Duration) ([]Obligation, error)
	// UpdateNextDue assigns the next-due date of a single record. It never
	// touches last-reviewed timestamps.
	UpdateNextDue(ctx context.Context, id uuid.UUID, due time.Time) error
}

// BreachRepository exposes open data breaches: those whose supervisory
// authority has not been notified yet.
type BreachRepository interface {
	FindOpen(ctx context.Context, tenantID string) ([]*DataBreach, error)
}
