package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/univance/kpi-workflow/internal/application/port"
	"github.com/univance/kpi-workflow/internal/domain/entity"
)

// RequestRepository implements port.RequestRepository
type RequestRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *sql.DB, logger *zap.Logger) port.RequestRepository {
	return &RequestRepository{
		db:     db,
		logger: logger,
	}
}

const requestColumns = `
	id, organization_id, organization_name, kpi_id, kpi_name,
	current_value, proposed_value, current_target, proposed_target,
	justification, data_source, measurement_period, supporting_documents,
	impact_on_related_kpis, status, submitted_by, submitted_date,
	reviewed_by, reviewed_date, evaluator_comments, created_at, updated_at
`

// Create persists a new KPI update request
func (r *RequestRepository) Create(ctx context.Context, req *entity.KpiUpdateRequest) error {
	query := `
		INSERT INTO kpi_update_requests (` + requestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	docs, err := marshalDocuments(req.SupportingDocuments)
	if err != nil {
		return err
	}

	_, err = executorFrom(ctx, r.db).ExecContext(ctx, query,
		req.ID,
		req.OrganizationID,
		req.OrganizationName,
		req.KpiID,
		req.KpiName,
		req.CurrentValue,
		req.ProposedValue,
		req.CurrentTarget,
		req.ProposedTarget,
		req.Justification,
		req.DataSource,
		req.MeasurementPeriod,
		docs,
		req.ImpactOnRelatedKpis,
		req.Status,
		req.SubmittedBy,
		req.SubmittedDate,
		req.ReviewedBy,
		req.ReviewedDate,
		req.EvaluatorComments,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create request", zap.String("id", req.ID), zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}

	return nil
}

// GetByID retrieves a request by id; returns nil when no row matches
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*entity.KpiUpdateRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM kpi_update_requests WHERE id = ?`

	req, err := scanRequest(executorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get request by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	return req, nil
}

// ListByStatus retrieves requests filtered by status, newest first.
// An empty status returns all requests.
func (r *RequestRepository) ListByStatus(ctx context.Context, status string) ([]*entity.KpiUpdateRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM kpi_update_requests`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	return r.list(ctx, query, args...)
}

// ListByOrganization retrieves requests for one organization, newest first
func (r *RequestRepository) ListByOrganization(ctx context.Context, orgID string) ([]*entity.KpiUpdateRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM kpi_update_requests WHERE organization_id = ? ORDER BY created_at DESC`
	return r.list(ctx, query, orgID)
}

// Update persists the full request record
func (r *RequestRepository) Update(ctx context.Context, req *entity.KpiUpdateRequest) error {
	query := `
		UPDATE kpi_update_requests SET
			status = ?, submitted_by = ?, submitted_date = ?,
			reviewed_by = ?, reviewed_date = ?, evaluator_comments = ?,
			proposed_value = ?, proposed_target = ?, justification = ?,
			data_source = ?, measurement_period = ?, supporting_documents = ?,
			impact_on_related_kpis = ?, updated_at = ?
		WHERE id = ?
	`

	docs, err := marshalDocuments(req.SupportingDocuments)
	if err != nil {
		return err
	}

	result, err := executorFrom(ctx, r.db).ExecContext(ctx, query,
		req.Status,
		req.SubmittedBy,
		req.SubmittedDate,
		req.ReviewedBy,
		req.ReviewedDate,
		req.EvaluatorComments,
		req.ProposedValue,
		req.ProposedTarget,
		req.Justification,
		req.DataSource,
		req.MeasurementPeriod,
		docs,
		req.ImpactOnRelatedKpis,
		req.UpdatedAt,
		req.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update request", zap.String("id", req.ID), zap.Error(err))
		return fmt.Errorf("failed to update request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("request %s not found", req.ID)
	}

	return nil
}

func (r *RequestRepository) list(ctx context.Context, query string, args ...interface{}) ([]*entity.KpiUpdateRequest, error) {
	rows, err := executorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list requests", zap.Error(err))
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.KpiUpdateRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*entity.KpiUpdateRequest, error) {
	var req entity.KpiUpdateRequest
	var proposedTarget sql.NullFloat64
	var submittedDate, reviewedDate sql.NullTime
	var kpiID, dataSource, measurementPeriod, impact, reviewedBy, comments sql.NullString
	var docs sql.NullString

	err := row.Scan(
		&req.ID,
		&req.OrganizationID,
		&req.OrganizationName,
		&kpiID,
		&req.KpiName,
		&req.CurrentValue,
		&req.ProposedValue,
		&req.CurrentTarget,
		&proposedTarget,
		&req.Justification,
		&dataSource,
		&measurementPeriod,
		&docs,
		&impact,
		&req.Status,
		&req.SubmittedBy,
		&submittedDate,
		&reviewedBy,
		&reviewedDate,
		&comments,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.KpiID = kpiID.String
	req.DataSource = dataSource.String
	req.MeasurementPeriod = measurementPeriod.String
	req.ImpactOnRelatedKpis = impact.String
	req.ReviewedBy = reviewedBy.String
	req.EvaluatorComments = comments.String
	if proposedTarget.Valid {
		req.ProposedTarget = &proposedTarget.Float64
	}
	if submittedDate.Valid {
		req.SubmittedDate = &submittedDate.Time
	}
	if reviewedDate.Valid {
		req.ReviewedDate = &reviewedDate.Time
	}
	if docs.Valid && docs.String != "" {
		if err := json.Unmarshal([]byte(docs.String), &req.SupportingDocuments); err != nil {
			return nil, fmt.Errorf("failed to decode supporting documents: %w", err)
		}
	}

	return &req, nil
}

func marshalDocuments(docs []string) (string, error) {
	if len(docs) == 0 {
		return "", nil
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("failed to encode supporting documents: %w", err)
	}
	return string(b), nil
}

// Verify interface compliance
var _ port.RequestRepository = (*RequestRepository)(nil)
