package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/tenant"
)

// ErrTenantNotFound is returned when an operation targets an unknown tenant.
var ErrTenantNotFound = errors.New("tenant not found")

type PostgresTenantRepository struct {
	db *sql.DB
}

func NewPostgresTenantRepository(db *sql.DB) *PostgresTenantRepository {
	return &PostgresTenantRepository{db: db}
}

func (r *PostgresTenantRepository) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	query := `SELECT id, name, is_active, created_at FROM tenants WHERE id = $1`
	t := &tenant.Tenant{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("error getting tenant by ID: %w", err)
	}
	return t, nil
}

func (r *PostgresTenantRepository) ListActive(ctx context.Context) ([]*tenant.Tenant, error) {
	query := `SELECT id, name, is_active, created_at FROM tenants WHERE is_active = TRUE ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active tenants: %w", err)
	}
	defer rows.Close()

	tenants := make([]*tenant.Tenant, 0)
	for rows.Next() {
		t := &tenant.Tenant{}
		if err := rows.Scan(&t.ID, &t.Name, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning active tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active tenants: %w", err)
	}
	return tenants, nil
}
