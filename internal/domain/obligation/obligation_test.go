package obligation

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_DueAt(t *testing.T) {
	rec := &Risk{Record: Record{ID: uuid.New(), TenantID: "acme", Severity: SeverityHigh}}

	_, ok := rec.DueAt()
	assert.False(t, ok, "unscheduled record must report no due date")

	due := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	rec.NextDueAt = sql.NullTime{Time: due, Valid: true}
	got, ok := rec.DueAt()
	require.True(t, ok)
	assert.Equal(t, due, got)
}

func TestBCPlan_DueAtIsEarlierOfReviewAndTest(t *testing.T) {
	review := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	test := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	plan := &BCPlan{}
	_, ok := plan.DueAt()
	assert.False(t, ok)

	plan.NextDueAt = sql.NullTime{Time: review, Valid: true}
	got, ok := plan.DueAt()
	require.True(t, ok)
	assert.Equal(t, review, got)

	plan.NextTestDueAt = sql.NullTime{Time: test, Valid: true}
	got, ok = plan.DueAt()
	require.True(t, ok)
	assert.Equal(t, test, got, "test deadline is earlier, plan is due then")

	plan.NextDueAt = sql.NullTime{}
	got, ok = plan.DueAt()
	require.True(t, ok)
	assert.Equal(t, test, got)
}

func TestDataBreach_AuthorityDeadline(t *testing.T) {
	detected := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	breach := &DataBreach{ID: uuid.New(), TenantID: "acme", DetectedAt: detected}

	assert.Equal(t, detected.Add(72*time.Hour), breach.AuthorityDeadline())

	due, ok := breach.DueAt()
	require.True(t, ok, "a breach deadline is never absent")
	assert.Equal(t, breach.AuthorityDeadline(), due)
}
