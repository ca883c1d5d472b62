package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/obligation"
)

// DeadlineSource exposes a uniform due/upcoming view over one obligation
// category, hiding that category's native date fields from the aggregator.
type DeadlineSource interface {
	Category() obligation.Category
	ListDue(ctx context.Context, tenantID string, asOf time.Time) ([]obligation.Obligation, error)
	ListUpcoming(ctx context.Context, tenantID string, asOf time.Time, horizon time.Duration) ([]obligation.Obligation, error)
}

// reviewSource serves the review-driven categories from their repository.
type reviewSource struct {
	repo obligation.ReviewRepository
}

// NewReviewSource adapts a review repository into a DeadlineSource.
func NewReviewSource(repo obligation.ReviewRepository) DeadlineSource {
	return &reviewSource{repo: repo}
}

func (s *reviewSource) Category() obligation.Category { return s.repo.Category() }

func (s *reviewSource) ListDue(ctx context.Context, tenantID string, asOf time.Time) ([]obligation.Obligation, error) {
	items, err := s.repo.FindDue(ctx, tenantID, asOf)
	if err != nil {
		return nil, fmt.Errorf("find due %s records: %w", s.repo.Category(), err)
	}
	sortByDue(items)
	return items, nil
}

func (s *reviewSource) ListUpcoming(ctx context.Context, tenantID string, asOf time.Time, horizon time.Duration) ([]obligation.Obligation, error) {
	items, err := s.repo.FindUpcoming(ctx, tenantID, asOf, horizon)
	if err != nil {
		return nil, fmt.Errorf("find upcoming %s records: %w", s.repo.Category(), err)
	}
	sortByDue(items)
	return items, nil
}

// breachSource serves open data breaches. Every open breach is "due"
// regardless of horizon: the 72h authority window makes the upcoming
// distinction meaningless for breaches.
type breachSource struct {
	repo obligation.BreachRepository
}

// NewBreachSource adapts the breach repository into a DeadlineSource.
func NewBreachSource(repo obligation.BreachRepository) DeadlineSource {
	return &breachSource{repo: repo}
}

func (s *breachSource) Category() obligation.Category { return obligation.CategoryDataBreach }

func (s *breachSource) ListDue(ctx context.Context, tenantID string, _ time.Time) ([]obligation.Obligation, error) {
	breaches, err := s.repo.FindOpen(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("find open data breaches: %w", err)
	}
	items := make([]obligation.Obligation, 0, len(breaches))
	for _, b := range breaches {
		items = append(items, b)
	}
	sortByDue(items)
	return items, nil
}

func (s *breachSource) ListUpcoming(context.Context, string, time.Time, time.Duration) ([]obligation.Obligation, error) {
	return nil, nil
}

// sortByDue orders items by ascending due date, most overdue first.
// Unscheduled records sort last; they should not appear in due/upcoming
// result sets to begin with.
func sortByDue(items []obligation.Obligation) {
	sort.SliceStable(items, func(i, j int) bool {
		di, oki := items[i].DueAt()
		dj, okj := items[j].DueAt()
		if oki != okj {
			return oki
		}
		return di.Before(dj)
	})
}
