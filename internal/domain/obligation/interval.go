package obligation

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSeverity is returned for a severity the interval table does not
// know. Unknown severities are never defaulted: a silent fallback would hide
// data-quality problems in compliance data.
var ErrInvalidSeverity = errors.New("invalid obligation severity")

const day = 24 * time.Hour

// IntervalPolicy maps a severity to the review interval assigned when an
// unscheduled record receives its next-due date.
type IntervalPolicy struct {
	intervals map[Severity]time.Duration
}

// NewIntervalPolicy returns the fixed business-rule interval table.
func NewIntervalPolicy() *IntervalPolicy {
	return NewIntervalPolicyWithTable(map[Severity]time.Duration{
		SeverityCritical: 90 * day,
		SeverityHigh:     180 * day,
		SeverityMedium:   365 * day,
		SeverityLow:      730 * day,
	})
}

// NewIntervalPolicyWithTable builds a policy from an explicit interval table.
// The table is copied, so later mutation of the argument has no effect.
func NewIntervalPolicyWithTable(table map[Severity]time.Duration) *IntervalPolicy {
	intervals := make(map[Severity]time.Duration, len(table))
	for sev, d := range table {
		intervals[sev] = d
	}
	return &IntervalPolicy{intervals: intervals}
}

// IntervalFor returns the review interval for the given severity.
func (p *IntervalPolicy) IntervalFor(sev Severity) (time.Duration, error) {
	interval, ok := p.intervals[sev]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSeverity, sev)
	}
	return interval, nil
}
