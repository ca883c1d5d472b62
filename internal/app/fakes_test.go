package app

import (
	"context"
	"database/sql"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/notify"
	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/obligation"
	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/tenant"
	idb "github.com/moag1000/Little-ISMS-Helper-sub008/internal/infra/database"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeReviewRepo is an in-memory ReviewRepository over a fixed record set.
type fakeReviewRepo struct {
	category  obligation.Category
	records   []obligation.Obligation
	findErr   error
	updateErr error
	updates   map[uuid.UUID]time.Time
}

func newFakeReviewRepo(category obligation.Category, records ...obligation.Obligation) *fakeReviewRepo {
	return &fakeReviewRepo{
		category: category,
		records:  records,
		updates:  make(map[uuid.UUID]time.Time),
	}
}

func (r *fakeReviewRepo) Category() obligation.Category { return r.category }

func (r *fakeReviewRepo) FindUnscheduled(_ context.Context, tenantID string) ([]obligation.Obligation, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []obligation.Obligation
	for _, rec := range r.records {
		if rec.Ref().TenantID != tenantID {
			continue
		}
		if _, ok := rec.DueAt(); !ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) FindDue(_ context.Context, tenantID string, asOf time.Time) ([]obligation.Obligation, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []obligation.Obligation
	for _, rec := range r.records {
		if rec.Ref().TenantID != tenantID {
			continue
		}
		if due, ok := rec.DueAt(); ok && !due.After(asOf) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) FindUpcoming(_ context.Context, tenantID string, asOf time.Time, horizon time.Duration) ([]obligation.Obligation, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []obligation.Obligation
	for _, rec := range r.records {
		if rec.Ref().TenantID != tenantID {
			continue
		}
		if due, ok := rec.DueAt(); ok && due.After(asOf) && !due.After(asOf.Add(horizon)) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) UpdateNextDue(_ context.Context, id uuid.UUID, due time.Time) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	for _, rec := range r.records {
		if rec.Ref().ID == id {
			setNextDue(rec, due)
			r.updates[id] = due
			return nil
		}
	}
	return idb.ErrObligationNotFound
}

func setNextDue(o obligation.Obligation, due time.Time) {
	value := sql.NullTime{Time: due, Valid: true}
	switch v := o.(type) {
	case *obligation.Risk:
		v.NextDueAt = value
	case *obligation.ProcessingActivity:
		v.NextDueAt = value
	case *obligation.PrivacyReview:
		v.NextDueAt = value
	case *obligation.BCPlan:
		v.NextDueAt = value
		if !v.NextTestDueAt.Valid {
			v.NextTestDueAt = value
		}
	}
}

type fakeBreachRepo struct {
	breaches []*obligation.DataBreach
	findErr  error
}

func (r *fakeBreachRepo) FindOpen(_ context.Context, tenantID string) ([]*obligation.DataBreach, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []*obligation.DataBreach
	for _, b := range r.breaches {
		if b.TenantID == tenantID && !b.AuthorityNotifiedAt.Valid {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeTenantRepo struct {
	tenants []*tenant.Tenant
}

func newFakeTenantRepo(ids ...string) *fakeTenantRepo {
	repo := &fakeTenantRepo{}
	for _, id := range ids {
		repo.tenants = append(repo.tenants, &tenant.Tenant{ID: id, Name: id, IsActive: true})
	}
	return repo
}

func (r *fakeTenantRepo) GetByID(_ context.Context, id string) (*tenant.Tenant, error) {
	for _, t := range r.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, idb.ErrTenantNotFound
}

func (r *fakeTenantRepo) ListActive(_ context.Context) ([]*tenant.Tenant, error) {
	var out []*tenant.Tenant
	for _, t := range r.tenants {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

// fakeSender records every attempted delivery and fails the configured set.
type fakeSender struct {
	mu        sync.Mutex
	attempted []notify.Notification
	sent      []notify.Notification
	failFor   map[uuid.UUID]error
}

func newFakeSender() *fakeSender {
	return &fakeSender{failFor: make(map[uuid.UUID]error)}
}

func (s *fakeSender) Send(_ context.Context, n notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempted = append(s.attempted, n)
	if err, ok := s.failFor[n.RecordID]; ok {
		return err
	}
	s.sent = append(s.sent, n)
	return nil
}

func (s *fakeSender) attemptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempted)
}

// Fixture builders.

func newRisk(tenantID, title string, sev obligation.Severity, due *time.Time) *obligation.Risk {
	r := &obligation.Risk{Record: obligation.Record{
		ID:       uuid.New(),
		TenantID: tenantID,
		Title:    title,
		Severity: sev,
	}}
	if due != nil {
		r.NextDueAt = sql.NullTime{Time: *due, Valid: true}
	}
	return r
}

func newProcessingActivity(tenantID, title string, sev obligation.Severity, due *time.Time) *obligation.ProcessingActivity {
	a := &obligation.ProcessingActivity{Record: obligation.Record{
		ID:       uuid.New(),
		TenantID: tenantID,
		Title:    title,
		Severity: sev,
	}}
	if due != nil {
		a.NextDueAt = sql.NullTime{Time: *due, Valid: true}
	}
	return a
}

func newBreach(tenantID, title string, detectedAt time.Time) *obligation.DataBreach {
	return &obligation.DataBreach{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Title:      title,
		Severity:   obligation.SeverityHigh,
		DetectedAt: detectedAt,
	}
}
