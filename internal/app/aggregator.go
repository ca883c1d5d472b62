package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/obligation"
)

// UpcomingHorizon is how far ahead of its due date an obligation is reported
// as upcoming.
const UpcomingHorizon = 14 * 24 * time.Hour

// Item is one aggregated overdue or upcoming obligation. Items are derived
// views, built fresh on every aggregation and never persisted.
type Item struct {
	Ref            obligation.Ref
	DueAt          time.Time
	Severity       obligation.Severity
	Tier           obligation.UrgencyTier
	DaysOverdue    int     // whole days past due; zero while not yet due
	HoursRemaining float64 // breaches only, negative once the window lapsed
}

// AggregateResult is the merged overdue/upcoming view for one tenant.
type AggregateResult struct {
	TenantID string
	AsOf     time.Time
	// Items are grouped in fixed category order and sorted by ascending due
	// date within each category.
	Items       []Item
	Total       int
	PerCategory map[obligation.Category]int
	// AgeBuckets is the histogram over overdue items: 0-7, 8-30, 31-90 and
	// more than 90 days overdue.
	AgeBuckets [4]int
	// CriticalCount counts Critical/High risks plus every data breach.
	// Display aggregate, distinct from per-item tiers.
	CriticalCount int
	// UrgentBreachCount counts breaches whose authority window has lapsed or
	// has less than the critical threshold remaining.
	UrgentBreachCount int
	UpcomingCount     int
}

// Aggregator merges the due/upcoming views of every deadline source into one
// classified collection. Aggregation is read-only and side-effect-free.
type Aggregator struct {
	sources []DeadlineSource
	log     *logrus.Logger
}

func NewAggregator(sources []DeadlineSource, log *logrus.Logger) *Aggregator {
	return &Aggregator{sources: sources, log: log}
}

// Aggregate builds the overdue (and optionally upcoming) view for a tenant
// at the given point in time.
func (a *Aggregator) Aggregate(ctx context.Context, tenantID string, asOf time.Time, includeUpcoming bool) (*AggregateResult, error) {
	res := &AggregateResult{
		TenantID:    tenantID,
		AsOf:        asOf,
		PerCategory: make(map[obligation.Category]int, len(a.sources)),
	}

	for _, src := range a.sources {
		due, err := src.ListDue(ctx, tenantID, asOf)
		if err != nil {
			return nil, fmt.Errorf("list due %s obligations for tenant %s: %w", src.Category(), tenantID, err)
		}
		for _, o := range due {
			res.tally(classifyItem(o, src.Category(), asOf, false), asOf)
		}

		if !includeUpcoming {
			continue
		}
		upcoming, err := src.ListUpcoming(ctx, tenantID, asOf, UpcomingHorizon)
		if err != nil {
			return nil, fmt.Errorf("list upcoming %s obligations for tenant %s: %w", src.Category(), tenantID, err)
		}
		for _, o := range upcoming {
			res.tally(classifyItem(o, src.Category(), asOf, true), asOf)
		}
	}

	a.log.Debugf("Aggregated %d obligations for tenant %s (critical: %d, urgent breaches: %d, upcoming: %d)",
		res.Total, tenantID, res.CriticalCount, res.UrgentBreachCount, res.UpcomingCount)
	return res, nil
}

// classifyItem assigns the urgency tier and derived ages for one obligation.
func classifyItem(o obligation.Obligation, cat obligation.Category, asOf time.Time, upcoming bool) Item {
	due, _ := o.DueAt()
	item := Item{
		Ref:      o.Ref(),
		DueAt:    due,
		Severity: o.SeverityLevel(),
	}
	switch {
	case cat == obligation.CategoryDataBreach:
		item.Tier, item.HoursRemaining = obligation.ClassifyBreach(due, asOf)
	case upcoming:
		item.Tier = obligation.TierUpcoming
	default:
		item.Tier = obligation.TierOverdue
	}
	if !due.After(asOf) {
		item.DaysOverdue = int(asOf.Sub(due).Hours() / 24)
	}
	return item
}

func (r *AggregateResult) tally(item Item, asOf time.Time) {
	r.Items = append(r.Items, item)
	r.Total++
	r.PerCategory[item.Ref.Category]++

	if item.Tier == obligation.TierUpcoming {
		r.UpcomingCount++
	} else if !item.DueAt.After(asOf) {
		r.AgeBuckets[obligation.AgeBucket(item.DaysOverdue)]++
	}

	switch item.Ref.Category {
	case obligation.CategoryRisk:
		if item.Severity == obligation.SeverityCritical || item.Severity == obligation.SeverityHigh {
			r.CriticalCount++
		}
	case obligation.CategoryDataBreach:
		r.CriticalCount++
		if item.Tier == obligation.TierOverdue || item.Tier == obligation.TierCritical {
			r.UrgentBreachCount++
		}
	}
}
