package workflow

import (
	"context"

	"github.com/univance/kpi-workflow/internal/domain/entity"
	domainwf "github.com/univance/kpi-workflow/internal/domain/workflow"
)

// Actor is the user invoking a workflow action
type Actor struct {
	ID   string
	Role domainwf.Role
}

// Engine executes KPI update request transitions against the workflow definition
type Engine interface {
	// Transition validates and executes a single transition for a request.
	// Precondition failures are reported with the workflow error kinds
	// (ErrNotFound, ErrTerminalState, ErrInvalidAction, ErrUnauthorizedRole,
	// ErrMissingComment); on success it returns the updated request and the
	// newly appended history record.
	Transition(ctx context.Context, requestID string, action domainwf.Action, actor Actor, comment string) (*entity.KpiUpdateRequest, *entity.WorkflowHistory, error)

	// AllowedActions returns the actions the given role may invoke on a
	// request in its current state, for rendering available buttons.
	AllowedActions(ctx context.Context, requestID string, role domainwf.Role) ([]domainwf.Action, error)

	// History returns the request's transition trail, most recent first.
	History(ctx context.Context, requestID string) ([]*entity.WorkflowHistory, error)
}
