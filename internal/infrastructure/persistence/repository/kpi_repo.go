package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/univance/kpi-workflow/internal/application/port"
	"github.com/univance/kpi-workflow/internal/domain/entity"
)

// KpiRepository implements port.KpiRepository
type KpiRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewKpiRepository creates a new KPI repository
func NewKpiRepository(db *sql.DB, logger *zap.Logger) port.KpiRepository {
	return &KpiRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new KPI
func (r *KpiRepository) Create(ctx context.Context, kpi *entity.Kpi) error {
	query := `
		INSERT INTO kpis (
			id, organization_id, name, unit, current_value, target_value,
			measurement_period, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := executorFrom(ctx, r.db).ExecContext(ctx, query,
		kpi.ID,
		kpi.OrganizationID,
		kpi.Name,
		kpi.Unit,
		kpi.CurrentValue,
		kpi.TargetValue,
		kpi.MeasurementPeriod,
		kpi.CreatedAt,
		kpi.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create kpi", zap.String("id", kpi.ID), zap.Error(err))
		return fmt.Errorf("failed to create kpi: %w", err)
	}

	return nil
}

// GetByID retrieves a KPI by id; returns nil when no row matches
func (r *KpiRepository) GetByID(ctx context.Context, id string) (*entity.Kpi, error) {
	query := `
		SELECT id, organization_id, name, unit, current_value, target_value,
			measurement_period, created_at, updated_at
		FROM kpis
		WHERE id = ?
	`

	var kpi entity.Kpi
	var unit, period sql.NullString

	err := executorFrom(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&kpi.ID,
		&kpi.OrganizationID,
		&kpi.Name,
		&unit,
		&kpi.CurrentValue,
		&kpi.TargetValue,
		&period,
		&kpi.CreatedAt,
		&kpi.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get kpi by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get kpi: %w", err)
	}

	kpi.Unit = unit.String
	kpi.MeasurementPeriod = period.String
	return &kpi, nil
}

// GetByOrganizationID retrieves all KPIs for an organization
func (r *KpiRepository) GetByOrganizationID(ctx context.Context, orgID string) ([]*entity.Kpi, error) {
	query := `
		SELECT id, organization_id, name, unit, current_value, target_value,
			measurement_period, created_at, updated_at
		FROM kpis
		WHERE organization_id = ?
		ORDER BY name ASC
	`

	rows, err := executorFrom(ctx, r.db).QueryContext(ctx, query, orgID)
	if err != nil {
		r.logger.Error("Failed to list kpis", zap.String("organization_id", orgID), zap.Error(err))
		return nil, fmt.Errorf("failed to list kpis: %w", err)
	}
	defer rows.Close()

	var kpis []*entity.Kpi
	for rows.Next() {
		var kpi entity.Kpi
		var unit, period sql.NullString
		err := rows.Scan(
			&kpi.ID,
			&kpi.OrganizationID,
			&kpi.Name,
			&unit,
			&kpi.CurrentValue,
			&kpi.TargetValue,
			&period,
			&kpi.CreatedAt,
			&kpi.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan kpi: %w", err)
		}
		kpi.Unit = unit.String
		kpi.MeasurementPeriod = period.String
		kpis = append(kpis, &kpi)
	}

	return kpis, rows.Err()
}

// UpdateValues applies a new current and target value to a KPI
func (r *KpiRepository) UpdateValues(ctx context.Context, id string, currentValue, targetValue float64) error {
	query := `UPDATE kpis SET current_value = ?, target_value = ?, updated_at = ? WHERE id = ?`

	result, err := executorFrom(ctx, r.db).ExecContext(ctx, query, currentValue, targetValue, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update kpi values", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update kpi values: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("kpi %s not found", id)
	}

	return nil
}

// Verify interface compliance
var _ port.KpiRepository = (*KpiRepository)(nil)
