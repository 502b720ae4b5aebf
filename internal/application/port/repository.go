package port

import (
	"context"

	"github.com/univance/kpi-workflow/internal/domain/entity"
)

// RequestRepository defines persistence operations for KpiUpdateRequest
type RequestRepository interface {
	Create(ctx context.Context, req *entity.KpiUpdateRequest) error
	GetByID(ctx context.Context, id string) (*entity.KpiUpdateRequest, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.KpiUpdateRequest, error)
	ListByOrganization(ctx context.Context, orgID string) ([]*entity.KpiUpdateRequest, error)
	Update(ctx context.Context, req *entity.KpiUpdateRequest) error
}

// HistoryRepository defines persistence operations for WorkflowHistory.
// Append-only: records are created once and never updated or deleted.
type HistoryRepository interface {
	Create(ctx context.Context, record *entity.WorkflowHistory) error
	GetByRequestID(ctx context.Context, requestID string) ([]*entity.WorkflowHistory, error)
}

// OrganizationRepository defines persistence operations for Organization
type OrganizationRepository interface {
	Create(ctx context.Context, org *entity.Organization) error
	GetByID(ctx context.Context, id string) (*entity.Organization, error)
	List(ctx context.Context) ([]*entity.Organization, error)
}

// KpiRepository defines persistence operations for Kpi
type KpiRepository interface {
	Create(ctx context.Context, kpi *entity.Kpi) error
	GetByID(ctx context.Context, id string) (*entity.Kpi, error)
	GetByOrganizationID(ctx context.Context, orgID string) ([]*entity.Kpi, error)
	UpdateValues(ctx context.Context, id string, currentValue, targetValue float64) error
}

// NotificationRepository defines persistence operations for Notification
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	GetByRequestID(ctx context.Context, requestID string) ([]*entity.Notification, error)
	MarkSent(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status, errorMsg string) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
