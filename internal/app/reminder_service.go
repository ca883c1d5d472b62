package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/notify"
	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/obligation"
	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/tenant"
)

const defaultMaxInFlight = 8

// RunMode selects what a reminder run aggregates and dispatches. The flags
// refine each other: StatsOnly and DryRun both suppress transport calls,
// BreachesOnly restricts dispatch to the urgent breach set. IncludeUpcoming
// affects aggregation and statistics only; not-yet-due items are never
// dispatched.
type RunMode struct {
	DryRun          bool
	BreachesOnly    bool
	StatsOnly       bool
	IncludeUpcoming bool
}

// RunResult is the outcome of one reminder run for one tenant. It is
// transient; notification history is not kept across runs, which makes
// delivery at-least-once for items that stay unresolved.
type RunResult struct {
	TenantID string
	Stats    *AggregateResult
	Sent     int
	Failed   int
}

// RunSummary sums the per-tenant results of an all-tenants run.
type RunSummary struct {
	Results []*RunResult
	Sent    int
	Failed  int
}

// ReminderService turns classified aggregation items into notification jobs
// and dispatches them over the configured transport.
type ReminderService struct {
	tenantRepo  tenant.Repository
	aggregator  *Aggregator
	sender      notify.Sender
	log         *logrus.Logger
	maxInFlight int
}

// NewReminderService builds a dispatcher. maxInFlight bounds the concurrent
// transport calls per run; values below one fall back to the default.
func NewReminderService(
	tenantRepo tenant.Repository,
	aggregator *Aggregator,
	sender notify.Sender,
	log *logrus.Logger,
	maxInFlight int,
) *ReminderService {
	if maxInFlight < 1 {
		maxInFlight = defaultMaxInFlight
	}
	return &ReminderService{
		tenantRepo:  tenantRepo,
		aggregator:  aggregator,
		sender:      sender,
		log:         log,
		maxInFlight: maxInFlight,
	}
}

// Run aggregates one tenant's obligations and dispatches reminders according
// to the mode. Transport failures are counted per item and never abort the
// run; every selected item is attempted.
func (s *ReminderService) Run(ctx context.Context, tenantID string, asOf time.Time, mode RunMode) (*RunResult, error) {
	if _, err := s.tenantRepo.GetByID(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("resolve tenant %q: %w", tenantID, err)
	}

	stats, err := s.aggregator.Aggregate(ctx, tenantID, asOf, mode.IncludeUpcoming)
	if err != nil {
		return nil, fmt.Errorf("aggregate obligations for tenant %s: %w", tenantID, err)
	}
	result := &RunResult{TenantID: tenantID, Stats: stats}

	if mode.StatsOnly {
		return result, nil
	}

	items := dispatchable(stats, mode)
	if mode.DryRun {
		s.log.Infof("Dry run for tenant %s: %d notification(s) would be sent.", tenantID, len(items))
		return result, nil
	}

	var sent, failed int64
	group := new(errgroup.Group)
	group.SetLimit(s.maxInFlight)
	for _, item := range items {
		item := item
		group.Go(func() error {
			n := notify.Notification{
				TenantID:       tenantID,
				Category:       item.Ref.Category,
				RecordID:       item.Ref.ID,
				Title:          item.Ref.Title,
				Tier:           item.Tier,
				DueAt:          item.DueAt,
				HoursRemaining: item.HoursRemaining,
			}
			if err := s.sender.Send(ctx, n); err != nil {
				s.log.Errorf("Failed to send %s reminder for record %s (tenant %s): %v", item.Ref.Category, item.Ref.ID, tenantID, err)
				atomic.AddInt64(&failed, 1)
				return nil
			}
			atomic.AddInt64(&sent, 1)
			return nil
		})
	}
	_ = group.Wait() // workers never return errors, failures are counted

	result.Sent = int(sent)
	result.Failed = int(failed)
	s.log.Infof("Reminder run for tenant %s complete: %d sent, %d failed (of %d selected).", tenantID, result.Sent, result.Failed, len(items))
	return result, nil
}

// RunAll runs reminders for every active tenant. A failure for one tenant is
// logged and does not stop the remaining tenants.
func (s *ReminderService) RunAll(ctx context.Context, asOf time.Time, mode RunMode) (*RunSummary, error) {
	tenants, err := s.tenantRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active tenants: %w", err)
	}

	summary := &RunSummary{}
	for _, t := range tenants {
		res, err := s.Run(ctx, t.ID, asOf, mode)
		if err != nil {
			s.log.Errorf("Reminder run failed for tenant %s: %v", t.ID, err)
			continue
		}
		summary.Results = append(summary.Results, res)
		summary.Sent += res.Sent
		summary.Failed += res.Failed
	}
	return summary, nil
}

// dispatchable selects and dedupes the items a run actually notifies. Each
// distinct record is notified at most once per run even when it satisfies
// several inclusion rules.
func dispatchable(stats *AggregateResult, mode RunMode) []Item {
	seen := make(map[uuid.UUID]struct{}, len(stats.Items))
	var out []Item
	for _, item := range stats.Items {
		if _, dup := seen[item.Ref.ID]; dup {
			continue
		}
		if item.Tier == obligation.TierUpcoming {
			continue
		}
		if mode.BreachesOnly {
			if item.Ref.Category != obligation.CategoryDataBreach {
				continue
			}
			if item.Tier == obligation.TierWarning {
				continue
			}
		}
		seen[item.Ref.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}
