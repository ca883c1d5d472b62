package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/obligation"
)

const bcPlanColumns = "id, tenant_id, title, severity, last_reviewed_at, next_due_at, next_test_due_at, created_at, updated_at"

// bcPlanEffectiveDue is the plan's effective due date: the earlier of the
// review and test deadlines, tolerating either being null.
const bcPlanEffectiveDue = "LEAST(COALESCE(next_due_at, next_test_due_at), COALESCE(next_test_due_at, next_due_at))"

// PostgresBCPlanRepository serves business-continuity plans, which carry a
// review deadline and a test deadline and are due when either falls due.
type PostgresBCPlanRepository struct {
	db *sql.DB
}

func NewPostgresBCPlanRepository(db *sql.DB) *PostgresBCPlanRepository {
	return &PostgresBCPlanRepository{db: db}
}

func (r *PostgresBCPlanRepository) Category() obligation.Category { return obligation.CategoryBCPlan }

func (r *PostgresBCPlanRepository) FindUnscheduled(ctx context.Context, tenantID string) ([]obligation.Obligation, error) {
	query := `SELECT ` + bcPlanColumns + ` FROM bc_plans
               WHERE tenant_id = $1 AND next_due_at IS NULL ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("error querying unscheduled bc_plans: %w", err)
	}
	defer rows.Close()
	return scanBCPlans(rows)
}

func (r *PostgresBCPlanRepository) FindDue(ctx context.Context, tenantID string, asOf time.Time) ([]obligation.Obligation, error) {
	query := `SELECT ` + bcPlanColumns + ` FROM bc_plans
               WHERE tenant_id = $1 AND ` + bcPlanEffectiveDue + ` <= $2
               ORDER BY ` + bcPlanEffectiveDue + ` ASC`
	rows, err := r.db.QueryContext(ctx, query, tenantID, asOf)
	if err != nil {
		return nil, fmt.Errorf("error querying due bc_plans: %w", err)
	}
	defer rows.Close()
	return scanBCPlans(rows)
}

func (r *PostgresBCPlanRepository) FindUpcoming(ctx context.Context, tenantID string, asOf time.Time, horizon time.Duration) ([]obligation.Obligation, error) {
	query := `SELECT ` + bcPlanColumns + ` FROM bc_plans
               WHERE tenant_id = $1 AND ` + bcPlanEffectiveDue + ` > $2 AND ` + bcPlanEffectiveDue + ` <= $3
               ORDER BY ` + bcPlanEffectiveDue + ` ASC`
	rows, err := r.db.QueryContext(ctx, query, tenantID, asOf, asOf.Add(horizon))
	if err != nil {
		return nil, fmt.Errorf("error querying upcoming bc_plans: %w", err)
	}
	defer rows.Close()
	return scanBCPlans(rows)
}

// UpdateNextDue dates an unscheduled plan. The test deadline is only filled
// in when it is null so an existing test schedule is never moved.
func (r *PostgresBCPlanRepository) UpdateNextDue(ctx context.Context, id uuid.UUID, due time.Time) error {
	query := `UPDATE bc_plans
               SET next_due_at = $1, next_test_due_at = COALESCE(next_test_due_at, $1), updated_at = NOW()
               WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, due, id)
	if err != nil {
		return fmt.Errorf("error updating next due date in bc_plans: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected for bc_plans update: %w", err)
	}
	if affected == 0 {
		return ErrObligationNotFound
	}
	return nil
}

func scanBCPlans(rows *sql.Rows) ([]obligation.Obligation, error) {
	plans := make([]obligation.Obligation, 0)
	for rows.Next() {
		p := obligation.BCPlan{}
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Title, &p.Severity,
			&p.LastReviewedAt, &p.NextDueAt, &p.NextTestDueAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning bc_plans row: %w", err)
		}
		plans = append(plans, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bc_plans rows: %w", err)
	}
	return plans, nil
}
