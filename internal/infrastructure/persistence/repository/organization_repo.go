package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/univance/kpi-workflow/internal/application/port"
	"github.com/univance/kpi-workflow/internal/domain/entity"
)

// OrganizationRepository implements port.OrganizationRepository
type OrganizationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *sql.DB, logger *zap.Logger) port.OrganizationRepository {
	return &OrganizationRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new organization
func (r *OrganizationRepository) Create(ctx context.Context, org *entity.Organization) error {
	query := `
		INSERT INTO organizations (id, name, type, parent_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	var parent interface{}
	if org.ParentID != "" {
		parent = org.ParentID
	}

	_, err := executorFrom(ctx, r.db).ExecContext(ctx, query,
		org.ID, org.Name, org.Type, parent, org.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create organization", zap.String("id", org.ID), zap.Error(err))
		return fmt.Errorf("failed to create organization: %w", err)
	}

	return nil
}

// GetByID retrieves an organization by id; returns nil when no row matches
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	query := `SELECT id, name, type, parent_id, created_at FROM organizations WHERE id = ?`

	var org entity.Organization
	var parent sql.NullString

	err := executorFrom(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.Type, &parent, &org.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get organization by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	org.ParentID = parent.String
	return &org, nil
}

// List retrieves all organizations ordered by name
func (r *OrganizationRepository) List(ctx context.Context) ([]*entity.Organization, error) {
	query := `SELECT id, name, type, parent_id, created_at FROM organizations ORDER BY name ASC`

	rows, err := executorFrom(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list organizations", zap.Error(err))
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*entity.Organization
	for rows.Next() {
		var org entity.Organization
		var parent sql.NullString
		if err := rows.Scan(&org.ID, &org.Name, &org.Type, &parent, &org.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		org.ParentID = parent.String
		orgs = append(orgs, &org)
	}

	return orgs, rows.Err()
}

// Verify interface compliance
var _ port.OrganizationRepository = (*OrganizationRepository)(nil)
