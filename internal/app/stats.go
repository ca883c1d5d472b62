package app

import (
	"fmt"
	"strings"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/obligation"
)

// CategoryCount pairs a category with its aggregated item count.
type CategoryCount struct {
	Category obligation.Category
	Count    int
}

// StatsReport is the operator-facing projection of one aggregation. It reads
// the same aggregator output the dispatcher consumes and performs no
// dispatching of its own.
type StatsReport struct {
	TenantID          string
	AsOf              string
	Total             int
	PerCategory       []CategoryCount
	AgeBuckets        [4]int
	CriticalCount     int
	UrgentBreachCount int
	UpcomingCount     int
}

// BuildStatsReport projects an aggregation into the display summary.
// Categories appear in fixed order; empty categories are omitted.
func BuildStatsReport(res *AggregateResult) StatsReport {
	report := StatsReport{
		TenantID:          res.TenantID,
		AsOf:              res.AsOf.Format("2006-01-02 15:04"),
		Total:             res.Total,
		AgeBuckets:        res.AgeBuckets,
		CriticalCount:     res.CriticalCount,
		UrgentBreachCount: res.UrgentBreachCount,
		UpcomingCount:     res.UpcomingCount,
	}
	for _, cat := range obligation.Categories {
		if n := res.PerCategory[cat]; n > 0 {
			report.PerCategory = append(report.PerCategory, CategoryCount{Category: cat, Count: n})
		}
	}
	return report
}

// String renders the report for console output.
func (r StatsReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tenant %s: %d open obligation(s) as of %s\n", r.TenantID, r.Total, r.AsOf)
	for _, cc := range r.PerCategory {
		fmt.Fprintf(&b, "  %-20s %d\n", cc.Category, cc.Count)
	}
	b.WriteString("  overdue age:")
	for i, label := range obligation.AgeBucketLabels {
		fmt.Fprintf(&b, " %s=%d", label, r.AgeBuckets[i])
	}
	fmt.Fprintf(&b, "\n  critical: %d, urgent breaches: %d, upcoming: %d\n", r.CriticalCount, r.UrgentBreachCount, r.UpcomingCount)
	return b.String()
}
