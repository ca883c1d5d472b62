package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/obligation"
)

// PostgresBreachRepository serves data breaches. The authority deadline is
// derived from detected_at in the domain layer and is not a stored column.
type PostgresBreachRepository struct {
	db *sql.DB
}

func NewPostgresBreachRepository(db *sql.DB) *PostgresBreachRepository {
	return &PostgresBreachRepository{db: db}
}

// FindOpen returns breaches whose supervisory authority has not been
// notified yet, oldest detection first.
func (r *PostgresBreachRepository) FindOpen(ctx context.Context, tenantID string) ([]*obligation.DataBreach, error) {
	query := `SELECT id, tenant_id, title, severity, detected_at, authority_notified_at, created_at, updated_at
               FROM data_breaches
               WHERE tenant_id = $1 AND authority_notified_at IS NULL
               ORDER BY detected_at ASC`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("error querying open data breaches: %w", err)
	}
	defer rows.Close()

	breaches := make([]*obligation.DataBreach, 0)
	for rows.Next() {
		b := &obligation.DataBreach{}
		if err := rows.Scan(&b.ID, &b.TenantID, &b.Title, &b.Severity,
			&b.DetectedAt, &b.AuthorityNotifiedAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning data breach row: %w", err)
		}
		breaches = append(breaches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating data breach rows: %w", err)
	}
	return breaches, nil
}
