package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/univance/kpi-workflow/internal/application/dispatcher"
	"github.com/univance/kpi-workflow/internal/application/port"
	"github.com/univance/kpi-workflow/internal/domain/entity"
	"github.com/univance/kpi-workflow/internal/domain/event"
	domainwf "github.com/univance/kpi-workflow/internal/domain/workflow"
)

// engineImpl is the concrete implementation of Engine
type engineImpl struct {
	def         *domainwf.Definition
	requestRepo port.RequestRepository
	historyRepo port.HistoryRepository
	kpiRepo     port.KpiRepository
	txManager   port.TransactionManager
	dispatcher  dispatcher.Dispatcher

	// Serializes concurrent transitions per request id. The loser of a race
	// re-reads the request after the winner commits and is re-validated
	// against the post-transition state.
	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time
}

// EngineOption configures the workflow engine
type EngineOption func(*engineImpl)

// WithDispatcher sets the event dispatcher for emitting transition events
func WithDispatcher(d dispatcher.Dispatcher) EngineOption {
	return func(e *engineImpl) {
		e.dispatcher = d
	}
}

// WithKpiRepository enables applying approved values to the KPI registry
func WithKpiRepository(repo port.KpiRepository) EngineOption {
	return func(e *engineImpl) {
		e.kpiRepo = repo
	}
}

// WithClock overrides the engine clock, for tests
func WithClock(now func() time.Time) EngineOption {
	return func(e *engineImpl) {
		e.now = now
	}
}

// NewEngine creates a new workflow engine
func NewEngine(
	def *domainwf.Definition,
	requestRepo port.RequestRepository,
	historyRepo port.HistoryRepository,
	txManager port.TransactionManager,
	opts ...EngineOption,
) Engine {
	e := &engineImpl{
		def:         def,
		requestRepo: requestRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		locks:       make(map[string]*sync.Mutex),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Transition validates and executes a single transition for a request
func (e *engineImpl) Transition(ctx context.Context, requestID string, action domainwf.Action, actor Actor, comment string) (*entity.KpiUpdateRequest, *entity.WorkflowHistory, error) {
	lock := e.lockFor(requestID)
	lock.Lock()
	defer lock.Unlock()

	req, err := e.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, fmt.Errorf("load request: %w", err)
	}
	if req == nil {
		return nil, nil, fmt.Errorf("%w: request %q", domainwf.ErrNotFound, requestID)
	}

	state := domainwf.State(req.Status)

	// Precondition checks in order, each with a distinct error kind
	if state.IsTerminal() {
		return nil, nil, fmt.Errorf("%w: request %q is %q", domainwf.ErrTerminalState, requestID, state)
	}

	tr, err := e.def.FindTransition(state, action)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: action %q from state %q", domainwf.ErrInvalidAction, action, state)
	}

	if !tr.AllowsRole(actor.Role) {
		return nil, nil, fmt.Errorf("%w: only %s may %s a request in state %q",
			domainwf.ErrUnauthorizedRole, roleList(tr.AllowedRoles), action, state)
	}

	if tr.RequiresComment && strings.TrimSpace(comment) == "" {
		return nil, nil, fmt.Errorf("%w: %q", domainwf.ErrMissingComment, action)
	}

	performedAt := e.now()
	e.applyTransition(req, tr, actor, comment, performedAt)

	history := &entity.WorkflowHistory{
		ID:          uuid.NewString(),
		RequestID:   req.ID,
		FromState:   tr.From.String(),
		ToState:     tr.To.String(),
		Action:      action.String(),
		PerformedBy: actor.ID,
		PerformedAt: performedAt,
		Comments:    comment,
	}

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.requestRepo.Update(txCtx, req); err != nil {
			return fmt.Errorf("update request: %w", err)
		}
		if err := e.historyRepo.Create(txCtx, history); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		if tr.To == domainwf.StateApproved && e.kpiRepo != nil && req.KpiID != "" {
			target := req.CurrentTarget
			if req.ProposedTarget != nil {
				target = *req.ProposedTarget
			}
			if err := e.kpiRepo.UpdateValues(txCtx, req.KpiID, req.ProposedValue, target); err != nil {
				return fmt.Errorf("apply approved values: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// Terminal requests never transition again; their lock entry is dead weight.
	// Late arrivals get a fresh mutex and fail the terminal-state check on the
	// committed row.
	if tr.To.IsTerminal() {
		e.releaseLock(requestID)
	}

	// Fire-and-forget: delivery failure must never roll back the transition
	if e.dispatcher != nil {
		e.dispatcher.DispatchAsync(ctx, event.NewEvent(
			event.TypeStatusChanged,
			req.ID,
			map[string]interface{}{
				"action":   action.String(),
				"to_state": tr.To.String(),
				"actor_id": actor.ID,
			},
		))
	}

	return req, history, nil
}

// applyTransition mutates the request for the resolved transition
func (e *engineImpl) applyTransition(req *entity.KpiUpdateRequest, tr *domainwf.Transition, actor Actor, comment string, at time.Time) {
	req.Status = tr.To.String()
	req.UpdatedAt = at

	// First submission only
	if tr.To == domainwf.StateSubmitted && req.SubmittedDate == nil {
		t := at
		req.SubmittedDate = &t
		req.SubmittedBy = actor.ID
	}

	switch tr.To {
	case domainwf.StateApproved, domainwf.StateRejected, domainwf.StateRevisionRequested:
		t := at
		req.ReviewedBy = actor.ID
		req.ReviewedDate = &t
		req.EvaluatorComments = comment
	}
}

// AllowedActions returns the actions the role may invoke on the request
func (e *engineImpl) AllowedActions(ctx context.Context, requestID string, role domainwf.Role) ([]domainwf.Action, error) {
	req, err := e.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("load request: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request %q", domainwf.ErrNotFound, requestID)
	}
	return e.def.AllowedActionsFor(domainwf.State(req.Status), role), nil
}

// History returns the request's transition trail, most recent first
func (e *engineImpl) History(ctx context.Context, requestID string) ([]*entity.WorkflowHistory, error) {
	req, err := e.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("load request: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request %q", domainwf.ErrNotFound, requestID)
	}
	return e.historyRepo.GetByRequestID(ctx, requestID)
}

// lockFor returns the mutex serializing transitions for one request id
func (e *engineImpl) lockFor(requestID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.locks[requestID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[requestID] = lock
	}
	return lock
}

// releaseLock drops the per-request mutex entry so the map does not grow with
// every request ever transitioned
func (e *engineImpl) releaseLock(requestID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.locks, requestID)
}

func roleList(roles []domainwf.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, " or ")
}
