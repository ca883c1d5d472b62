package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/obligation"
)

var asOf = time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

func daysAgo(days int) *time.Time {
	t := asOf.AddDate(0, 0, -days)
	return &t
}

func TestAggregate_AgeBucketHistogram(t *testing.T) {
	repo := newFakeReviewRepo(obligation.CategoryRisk)
	for _, age := range []int{0, 7, 8, 30, 31, 90, 91} {
		repo.records = append(repo.records, newRisk("acme", "r", obligation.SeverityLow, daysAgo(age)))
	}
	agg := NewAggregator([]DeadlineSource{NewReviewSource(repo)}, newTestLogger())

	res, err := agg.Aggregate(context.Background(), "acme", asOf, false)
	require.NoError(t, err)

	assert.Equal(t, 7, res.Total)
	assert.Equal(t, [4]int{2, 2, 2, 1}, res.AgeBuckets)
}

func TestAggregate_CountsAndOrdering(t *testing.T) {
	criticalRisk := newRisk("acme", "ransomware exposure", obligation.SeverityCritical, daysAgo(10))
	highRisk := newRisk("acme", "patch backlog", obligation.SeverityHigh, daysAgo(40))
	mediumRisk := newRisk("acme", "vendor review", obligation.SeverityMedium, daysAgo(1))
	riskRepo := newFakeReviewRepo(obligation.CategoryRisk, criticalRisk, highRisk, mediumRisk)

	breach := newBreach("acme", "mail export", asOf.Add(-80*time.Hour)) // 8h past the window
	breachRepo := &fakeBreachRepo{breaches: []*obligation.DataBreach{breach}}

	agg := NewAggregator([]DeadlineSource{NewReviewSource(riskRepo), NewBreachSource(breachRepo)}, newTestLogger())
	res, err := agg.Aggregate(context.Background(), "acme", asOf, false)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 3, res.PerCategory[obligation.CategoryRisk])
	assert.Equal(t, 1, res.PerCategory[obligation.CategoryDataBreach])
	// Critical and High risks plus the breach.
	assert.Equal(t, 3, res.CriticalCount)
	assert.Equal(t, 1, res.UrgentBreachCount)

	// Risks ordered by ascending due date, breach last.
	require.Len(t, res.Items, 4)
	assert.Equal(t, highRisk.ID, res.Items[0].Ref.ID)
	assert.Equal(t, criticalRisk.ID, res.Items[1].Ref.ID)
	assert.Equal(t, mediumRisk.ID, res.Items[2].Ref.ID)
	assert.Equal(t, breach.ID, res.Items[3].Ref.ID)
	assert.Equal(t, obligation.TierOverdue, res.Items[3].Tier)
	assert.InDelta(t, -8.0, res.Items[3].HoursRemaining, 0.001)
}

func TestAggregate_UpcomingOnlyWhenRequested(t *testing.T) {
	upcomingDue := asOf.Add(5 * 24 * time.Hour)
	beyondHorizon := asOf.Add(20 * 24 * time.Hour)
	repo := newFakeReviewRepo(obligation.CategoryRisk,
		newRisk("acme", "due soon", obligation.SeverityMedium, &upcomingDue),
		newRisk("acme", "far out", obligation.SeverityMedium, &beyondHorizon),
	)
	agg := NewAggregator([]DeadlineSource{NewReviewSource(repo)}, newTestLogger())

	res, err := agg.Aggregate(context.Background(), "acme", asOf, false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)

	res, err = agg.Aggregate(context.Background(), "acme", asOf, true)
	require.NoError(t, err)
	require.Equal(t, 1, res.Total, "only the item inside the 14-day horizon")
	assert.Equal(t, obligation.TierUpcoming, res.Items[0].Tier)
	assert.Equal(t, 1, res.UpcomingCount)
	assert.Equal(t, [4]int{0, 0, 0, 0}, res.AgeBuckets, "upcoming items are not overdue")
}

func TestAggregate_OpenBreachAlwaysIncluded(t *testing.T) {
	// 70h after detection the window is still open for 2h, yet the breach
	// must already surface as due.
	breach := newBreach("acme", "laptop theft", asOf.Add(-70*time.Hour))
	agg := NewAggregator([]DeadlineSource{NewBreachSource(&fakeBreachRepo{breaches: []*obligation.DataBreach{breach}})}, newTestLogger())

	res, err := agg.Aggregate(context.Background(), "acme", asOf, false)
	require.NoError(t, err)

	require.Equal(t, 1, res.Total)
	item := res.Items[0]
	assert.Equal(t, obligation.TierCritical, item.Tier)
	assert.InDelta(t, 2.0, item.HoursRemaining, 0.001)
	assert.Equal(t, 1, res.UrgentBreachCount)
	assert.Equal(t, [4]int{0, 0, 0, 0}, res.AgeBuckets, "not yet overdue, no histogram entry")
}

func TestAggregate_TenantPartitioning(t *testing.T) {
	repo := newFakeReviewRepo(obligation.CategoryRisk,
		newRisk("acme", "acme risk", obligation.SeverityLow, daysAgo(3)),
		newRisk("globex", "globex risk", obligation.SeverityLow, daysAgo(3)),
	)
	agg := NewAggregator([]DeadlineSource{NewReviewSource(repo)}, newTestLogger())

	res, err := agg.Aggregate(context.Background(), "acme", asOf, false)
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "acme", res.Items[0].Ref.TenantID)
}
