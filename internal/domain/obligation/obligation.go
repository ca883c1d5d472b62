package obligation

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Category identifies the kind of compliance obligation a record tracks.
type Category string

const (
	CategoryRisk               Category = "RISK"
	CategoryBCPlan             Category = "BC_PLAN"
	CategoryProcessingActivity Category = "PROCESSING_ACTIVITY"
	CategoryPrivacyReview      Category = "PRIVACY_REVIEW"
	CategoryDataBreach         Category = "DATA_BREACH"
)

// Categories lists every obligation category in aggregation output order.
var Categories = []Category{
	CategoryRisk,
	CategoryBCPlan,
	CategoryProcessingActivity,
	CategoryPrivacyReview,
	CategoryDataBreach,
}

// AuthorityWindow is the statutory window for notifying the supervisory
// authority after a data breach has been detected.
const AuthorityWindow = 72 * time.Hour

// Ref identifies a single obligation record across the system.
type Ref struct {
	ID       uuid.UUID
	TenantID string
	Category Category
	Title    string
}

// Obligation is the capability shared by all record variants: expose one
// effective due timestamp so the aggregation path stays category-agnostic.
// DueAt reports false for records that have not been scheduled yet.
type Obligation interface {
	Ref() Ref
	DueAt() (time.Time, bool)
	SeverityLevel() Severity
}

// Record carries the fields common to all review-driven obligations.
// Corresponds to the per-category obligation tables (risks,
// processing_activities, privacy_impact_reviews, bc_plans).
type Record struct {
	ID             uuid.UUID
	TenantID       string
	Title          string
	Severity       Severity
	LastReviewedAt sql.NullTime
	NextDueAt      sql.NullTime
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DueAt returns the stored next-due date, if one has been assigned.
func (r *Record) DueAt() (time.Time, bool) {
	if r.NextDueAt.Valid {
		return r.NextDueAt.Time, true
	}
	return time.Time{}, false
}

func (r *Record) SeverityLevel() Severity { return r.Severity }

// Risk is a risk-register entry subject to periodic review.
type Risk struct {
	Record
}

func (r *Risk) Ref() Ref {
	return Ref{ID: r.ID, TenantID: r.TenantID, Category: CategoryRisk, Title: r.Title}
}

// ProcessingActivity is a data-processing activity subject to periodic review.
type ProcessingActivity struct {
	Record
}

func (a *ProcessingActivity) Ref() Ref {
	return Ref{ID: a.ID, TenantID: a.TenantID, Category: CategoryProcessingActivity, Title: a.Title}
}

// PrivacyReview is a privacy-impact review subject to periodic re-assessment.
type PrivacyReview struct {
	Record
}

func (p *PrivacyReview) Ref() Ref {
	return Ref{ID: p.ID, TenantID: p.TenantID, Category: CategoryPrivacyReview, Title: p.Title}
}

// BCPlan is a business-continuity plan. Besides the periodic review it also
// carries a test deadline; the plan is due as soon as either falls due.
type BCPlan struct {
	Record
	NextTestDueAt sql.NullTime
}

func (p *BCPlan) Ref() Ref {
	return Ref{ID: p.ID, TenantID: p.TenantID, Category: CategoryBCPlan, Title: p.Title}
}

// DueAt returns the earlier of the plan's review and test deadlines.
func (p *BCPlan) DueAt() (time.Time, bool) {
	switch {
	case p.NextDueAt.Valid && p.NextTestDueAt.Valid:
		if p.NextTestDueAt.Time.Before(p.NextDueAt.Time) {
			return p.NextTestDueAt.Time, true
		}
		return p.NextDueAt.Time, true
	case p.NextDueAt.Valid:
		return p.NextDueAt.Time, true
	case p.NextTestDueAt.Valid:
		return p.NextTestDueAt.Time, true
	default:
		return time.Time{}, false
	}
}

// DataBreach is a detected breach with a fixed external notification window.
// Its deadline is derived from DetectedAt and is never stored or rescheduled.
type DataBreach struct {
	ID                  uuid.UUID
	TenantID            string
	Title               string
	Severity            Severity
	DetectedAt          time.Time
	AuthorityNotifiedAt sql.NullTime
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (b *DataBreach) Ref() Ref {
	return Ref{ID: b.ID, TenantID: b.TenantID, Category: CategoryDataBreach, Title: b.Title}
}

// AuthorityDeadline is the point by which the supervisory authority must be
// notified of this breach.
func (b *DataBreach) AuthorityDeadline() time.Time {
	return b.DetectedAt.Add(AuthorityWindow)
}

// DueAt is always present for a breach; the deadline exists from detection.
func (b *DataBreach) DueAt() (time.Time, bool) {
	return b.AuthorityDeadline(), true
}

func (b *DataBreach) SeverityLevel() Severity { return b.Severity }
