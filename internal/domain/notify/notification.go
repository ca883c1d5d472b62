package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/obligation"
)

// Notification is one reminder for a single obligation record. Delivery is
// at-least-once across runs: a still-unresolved item is notified again on the
// next run, so operators tune the run cadence (hourly for breaches, daily for
// the rest) rather than relying on cross-run deduplication.
type Notification struct {
	TenantID       string
	Category       obligation.Category
	RecordID       uuid.UUID
	Title          string
	Tier           obligation.UrgencyTier
	DueAt          time.Time
	HoursRemaining float64 // breaches only, zero for other categories
}

// Sender delivers notifications over a concrete channel. Implementations
// carry their own timeouts; a failed send is reported to the caller and is
// never retried here.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}
