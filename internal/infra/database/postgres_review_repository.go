package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/obligation"
)

// ErrObligationNotFound is returned when a record targeted by an update does
// not exist.
var ErrObligationNotFound = errors.New("obligation record not found")

const reviewColumns = "id, tenant_id, title, severity, last_reviewed_at, next_due_at, created_at, updated_at"

// PostgresReviewRepository serves the single-date review categories from
// their per-category tables. One instance per category; the table name is
// fixed at construction and never caller-supplied.
type PostgresReviewRepository struct {
	db       *sql.DB
	table    string
	category obligation.Category
}

func NewPostgresRiskRepository(db *sql.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db, table: "risks", category: obligation.CategoryRisk}
}

func NewPostgresProcessingActivityRepository(db *sql.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db, table: "processing_activities", category: obligation.CategoryProcessingActivity}
}

func NewPostgresPrivacyReviewRepository(db *sql.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db, table: "privacy_impact_reviews", category: obligation.CategoryPrivacyReview}
}

func (r *PostgresReviewRepository) Category() obligation.Category { return r.category }

func (r *PostgresReviewRepository) FindUnscheduled(ctx context.Context, tenantID string) ([]obligation.Obligation, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE tenant_id = $1 AND next_due_at IS NULL ORDER BY created_at`, reviewColumns, r.table)
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("error querying unscheduled %s records: %w", r.table, err)
	}
	defer rows.Close()
	return r.scanRecords(rows)
}

func (r *PostgresReviewRepository) FindDue(ctx context.Context, tenantID string, asOf time.Time) ([]obligation.Obligation, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s
               WHERE tenant_id = $1 AND next_due_at IS NOT NULL AND next_due_at <= $2
               ORDER BY next_due_at ASC`, reviewColumns, r.table)
	rows, err := r.db.QueryContext(ctx, query, tenantID, asOf)
	if err != nil {
		return nil, fmt.Errorf("error querying due %s records: %w", r.table, err)
	}
	defer rows.Close()
	return r.scanRecords(rows)
}

func (r *PostgresReviewRepository) FindUpcoming(ctx context.Context, tenantID string, asOf time.Time, horizon time.Duration) ([]obligation.Obligation, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s
               WHERE tenant_id = $1 AND next_due_at > $2 AND next_due_at <= $3
               ORDER BY next_due_at ASC`, reviewColumns, r.table)
	rows, err := r.db.QueryContext(ctx, query, tenantID, asOf, asOf.Add(horizon))
	if err != nil {
		return nil, fmt.Errorf("error querying upcoming %s records: %w", r.table, err)
	}
	defer rows.Close()
	return r.scanRecords(rows)
}

func (r *PostgresReviewRepository) UpdateNextDue(ctx context.Context, id uuid.UUID, due time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET next_due_at = $1, updated_at = NOW() WHERE id = $2`, r.table)
	result, err := r.db.ExecContext(ctx, query, due, id)
	if err != nil {
		return fmt.Errorf("error updating next due date in %s: %w", r.table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected for %s update: %w", r.table, err)
	}
	if affected == 0 {
		return ErrObligationNotFound
	}
	return nil
}

func (r *PostgresReviewRepository) scanRecords(rows *sql.Rows) ([]obligation.Obligation, error) {
	records := make([]obligation.Obligation, 0)
	for rows.Next() {
		rec := obligation.Record{}
		if err := rows.Scan(&rec.ID, &rec.TenantID, &rec.Title, &rec.Severity,
			&rec.LastReviewedAt, &rec.NextDueAt, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning %s row: %w", r.table, err)
		}
		records = append(records, r.wrap(rec))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", r.table, err)
	}
	return records, nil
}

func (r *PostgresReviewRepository) wrap(rec obligation.Record) obligation.Obligation {
	switch r.category {
	case obligation.CategoryRisk:
		return &obligation.Risk{Record: rec}
	case obligation.CategoryProcessingActivity:
		return &obligation.ProcessingActivity{Record: rec}
	default:
		return &obligation.PrivacyReview{Record: rec}
	}
}
