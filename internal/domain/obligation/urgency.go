package obligation

import "time"

// UrgencyTier classifies the time-criticality of an aggregated item.
type UrgencyTier string

const (
	TierOverdue  UrgencyTier = "OVERDUE"
	TierCritical UrgencyTier = "CRITICAL"
	TierWarning  UrgencyTier = "WARNING"
	TierUpcoming UrgencyTier = "UPCOMING"
)

// BreachCriticalThreshold is the remaining time below which an open breach
// counts as critical: less than half the remaining working day.
const BreachCriticalThreshold = 12 * time.Hour

// ClassifyBreach tiers a breach against its authority deadline and returns
// the remaining hours, negative once the window has lapsed. The boundary is
// inclusive on the critical side: exactly 12h remaining is WARNING, anything
// below is CRITICAL, anything negative is OVERDUE.
func ClassifyBreach(deadline, asOf time.Time) (UrgencyTier, float64) {
	remaining := deadline.Sub(asOf)
	switch {
	case remaining < 0:
		return TierOverdue, remaining.Hours()
	case remaining < BreachCriticalThreshold:
		return TierCritical, remaining.Hours()
	default:
		return TierWarning, remaining.Hours()
	}
}

// AgeBucketLabels name the overdue-age histogram buckets, in bucket order.
var AgeBucketLabels = [4]string{"0-7d", "8-30d", "31-90d", "90d+"}

// AgeBucket maps whole days overdue onto a histogram bucket index. Buckets
// are exhaustive and non-overlapping over the non-negative integers.
func AgeBucket(daysOverdue int) int {
	switch {
	case daysOverdue <= 7:
		return 0
	case daysOverdue <= 30:
		return 1
	case daysOverdue <= 90:
		return 2
	default:
		return 3
	}
}
