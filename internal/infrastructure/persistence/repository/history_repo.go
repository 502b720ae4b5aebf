package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/univance/kpi-workflow/internal/application/port"
	"github.com/univance/kpi-workflow/internal/domain/entity"
)

// HistoryRepository implements port.HistoryRepository
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a new history record
func (r *HistoryRepository) Create(ctx context.Context, record *entity.WorkflowHistory) error {
	query := `
		INSERT INTO workflow_history (
			id, request_id, from_state, to_state, action,
			performed_by, performed_at, comments
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := executorFrom(ctx, r.db).ExecContext(ctx, query,
		record.ID,
		record.RequestID,
		record.FromState,
		record.ToState,
		record.Action,
		record.PerformedBy,
		record.PerformedAt,
		record.Comments,
	)
	if err != nil {
		r.logger.Error("Failed to create history record", zap.String("request_id", record.RequestID), zap.Error(err))
		return fmt.Errorf("failed to create history: %w", err)
	}

	return nil
}

// GetByRequestID retrieves the full transition trail for a request,
// most recent first. Ordering is applied on read; inserts carry no
// ordering assumption.
func (r *HistoryRepository) GetByRequestID(ctx context.Context, requestID string) ([]*entity.WorkflowHistory, error) {
	query := `
		SELECT id, request_id, from_state, to_state, action,
			performed_by, performed_at, comments
		FROM workflow_history
		WHERE request_id = ?
		ORDER BY performed_at DESC
	`

	rows, err := executorFrom(ctx, r.db).QueryContext(ctx, query, requestID)
	if err != nil {
		r.logger.Error("Failed to get history by request ID", zap.String("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var records []*entity.WorkflowHistory
	for rows.Next() {
		var record entity.WorkflowHistory
		var comments sql.NullString
		err := rows.Scan(
			&record.ID,
			&record.RequestID,
			&record.FromState,
			&record.ToState,
			&record.Action,
			&record.PerformedBy,
			&record.PerformedAt,
			&comments,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		record.Comments = comments.String
		records = append(records, &record)
	}

	return records, rows.Err()
}

// Verify interface compliance
var _ port.HistoryRepository = (*HistoryRepository)(nil)
