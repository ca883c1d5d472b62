package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/obligation"
	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/tenant"
)

// ScheduleResult reports one scheduling run.
type ScheduleResult struct {
	TenantID  string
	Scheduled int // records transitioned from unscheduled to scheduled
	Skipped   int // records excluded because their severity is unrecognized
}

// ScheduleService assigns next-due dates to obligation records that lack
// one. Records that already carry a due date are left untouched, so re-running
// the service is idempotent: a retry simply finds fewer unscheduled records.
type ScheduleService struct {
	tenantRepo tenant.Repository
	repos      []obligation.ReviewRepository
	policy     *obligation.IntervalPolicy
	log        *logrus.Logger
}

func NewScheduleService(
	tenantRepo tenant.Repository,
	repos []obligation.ReviewRepository,
	policy *obligation.IntervalPolicy,
	log *logrus.Logger,
) *ScheduleService {
	return &ScheduleService{
		tenantRepo: tenantRepo,
		repos:      repos,
		policy:     policy,
		log:        log,
	}
}

// ScheduleMissing schedules every unscheduled record of one tenant, dating
// each record referenceDate plus its severity interval. A record with an
// unrecognized severity is skipped and counted, never silently defaulted.
// A storage failure aborts the run for this tenant; records already updated
// keep their dates.
func (s *ScheduleService) ScheduleMissing(ctx context.Context, tenantID string, referenceDate time.Time) (*ScheduleResult, error) {
	if _, err := s.tenantRepo.GetByID(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("resolve tenant %q: %w", tenantID, err)
	}

	result := &ScheduleResult{TenantID: tenantID}
	for _, repo := range s.repos {
		records, err := repo.FindUnscheduled(ctx, tenantID)
		if err != nil {
			return result, fmt.Errorf("find unscheduled %s records for tenant %s: %w", repo.Category(), tenantID, err)
		}
		for _, rec := range records {
			interval, err := s.policy.IntervalFor(rec.SeverityLevel())
			if err != nil {
				if errors.Is(err, obligation.ErrInvalidSeverity) {
					s.log.Warnf("Skipping %s record %s for tenant %s: %v", repo.Category(), rec.Ref().ID, tenantID, err)
					result.Skipped++
					continue
				}
				return result, fmt.Errorf("interval for %s record %s: %w", repo.Category(), rec.Ref().ID, err)
			}
			if err := repo.UpdateNextDue(ctx, rec.Ref().ID, referenceDate.Add(interval)); err != nil {
				return result, fmt.Errorf("update next due for %s record %s: %w", repo.Category(), rec.Ref().ID, err)
			}
			result.Scheduled++
		}
	}

	s.log.Infof("Scheduling run for tenant %s complete: %d scheduled, %d skipped.", tenantID, result.Scheduled, result.Skipped)
	return result, nil
}

// ScheduleAll runs ScheduleMissing for every active tenant and sums the
// results. A failure for one tenant is logged and does not stop the rest.
func (s *ScheduleService) ScheduleAll(ctx context.Context, referenceDate time.Time) (*ScheduleResult, error) {
	tenants, err := s.tenantRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active tenants: %w", err)
	}

	total := &ScheduleResult{}
	for _, t := range tenants {
		res, err := s.ScheduleMissing(ctx, t.ID, referenceDate)
		if res != nil {
			total.Scheduled += res.Scheduled
			total.Skipped += res.Skipped
		}
		if err != nil {
			s.log.Errorf("Scheduling failed for tenant %s: %v", t.ID, err)
		}
	}
	return total, nil
}
