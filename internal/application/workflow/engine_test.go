package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/univance/kpi-workflow/internal/application/dispatcher"
	"github.com/univance/kpi-workflow/internal/domain/entity"
	"github.com/univance/kpi-workflow/internal/domain/event"
	domainwf "github.com/univance/kpi-workflow/internal/domain/workflow"
)

// Mock implementations

type mockRequestRepo struct {
	mu        sync.Mutex
	requests  map[string]*entity.KpiUpdateRequest
	updateErr error
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{requests: make(map[string]*entity.KpiUpdateRequest)}
}

func (m *mockRequestRepo) Create(ctx context.Context, req *entity.KpiUpdateRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
	return nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id string) (*entity.KpiUpdateRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, exists := m.requests[id]
	if !exists {
		return nil, nil
	}
	copied := *req
	return &copied, nil
}

func (m *mockRequestRepo) ListByStatus(ctx context.Context, status string) ([]*entity.KpiUpdateRequest, error) {
	return nil, nil
}

func (m *mockRequestRepo) ListByOrganization(ctx context.Context, orgID string) ([]*entity.KpiUpdateRequest, error) {
	return nil, nil
}

func (m *mockRequestRepo) Update(ctx context.Context, req *entity.KpiUpdateRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	copied := *req
	m.requests[req.ID] = &copied
	return nil
}

type mockHistoryRepo struct {
	mu        sync.Mutex
	records   []*entity.WorkflowHistory
	createErr error
}

func (m *mockHistoryRepo) Create(ctx context.Context, record *entity.WorkflowHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.records = append(m.records, record)
	return nil
}

func (m *mockHistoryRepo) GetByRequestID(ctx context.Context, requestID string) ([]*entity.WorkflowHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*entity.WorkflowHistory
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].RequestID == requestID {
			result = append(result, m.records[i])
		}
	}
	return result, nil
}

type mockKpiRepo struct {
	mu           sync.Mutex
	updatedID    string
	updatedValue float64
	updatedTgt   float64
	updates      int
}

func (m *mockKpiRepo) Create(ctx context.Context, kpi *entity.Kpi) error { return nil }

func (m *mockKpiRepo) GetByID(ctx context.Context, id string) (*entity.Kpi, error) {
	return nil, nil
}

func (m *mockKpiRepo) GetByOrganizationID(ctx context.Context, orgID string) ([]*entity.Kpi, error) {
	return nil, nil
}

func (m *mockKpiRepo) UpdateValues(ctx context.Context, id string, currentValue, targetValue float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updatedID = id
	m.updatedValue = currentValue
	m.updatedTgt = targetValue
	m.updates++
	return nil
}

type mockTxManager struct {
	commitErr error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	return fn(ctx)
}

type mockDispatcher struct {
	mu     sync.Mutex
	events []*event.Event
}

func (m *mockDispatcher) Subscribe(eventType event.Type, handler dispatcher.Handler) {}

func (m *mockDispatcher) SubscribeNamed(eventType event.Type, name string, handler dispatcher.Handler) {
}

func (m *mockDispatcher) Unsubscribe(eventType event.Type, name string) {}

func (m *mockDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return nil
}

func (m *mockDispatcher) DispatchAsync(ctx context.Context, evt *event.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
}

func (m *mockDispatcher) Close() error { return nil }

func (m *mockDispatcher) eventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// Test fixtures

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestEngine(reqRepo *mockRequestRepo, histRepo *mockHistoryRepo, opts ...EngineOption) Engine {
	base := []EngineOption{WithClock(func() time.Time { return fixedNow })}
	return NewEngine(domainwf.Default(), reqRepo, histRepo, &mockTxManager{}, append(base, opts...)...)
}

func seedRequest(repo *mockRequestRepo, status domainwf.State) *entity.KpiUpdateRequest {
	req := &entity.KpiUpdateRequest{
		ID:             "req-1",
		OrganizationID: "org-1",
		KpiID:          "kpi-1",
		CurrentValue:   72.5,
		ProposedValue:  78.0,
		CurrentTarget:  80.0,
		Justification:  "New graduate survey results",
		Status:         status.String(),
	}
	repo.requests[req.ID] = req
	return req
}

var manager = Actor{ID: "user-mgr", Role: domainwf.RoleManager}
var evaluator = Actor{ID: "user-eval", Role: domainwf.RoleEvaluator}

// Happy path scenarios

func TestEngine_Transition_DirectApproval(t *testing.T) {
	reqRepo := newMockRequestRepo()
	histRepo := &mockHistoryRepo{}
	engine := newTestEngine(reqRepo, histRepo)
	seedRequest(reqRepo, domainwf.StateDraft)
	ctx := context.Background()

	steps := []struct {
		action domainwf.Action
		actor  Actor
		want   domainwf.State
	}{
		{domainwf.ActionSubmit, manager, domainwf.StateSubmitted},
		{domainwf.ActionStartReview, evaluator, domainwf.StateUnderReview},
		{domainwf.ActionApprove, evaluator, domainwf.StateApproved},
	}

	for _, step := range steps {
		req, hist, err := engine.Transition(ctx, "req-1", step.action, step.actor, "")
		if err != nil {
			t.Fatalf("Transition(%q) unexpected error: %v", step.action, err)
		}
		if req.Status != step.want.String() {
			t.Errorf("Transition(%q) status = %q, want %q", step.action, req.Status, step.want)
		}
		if hist.Action != step.action.String() || hist.ToState != step.want.String() {
			t.Errorf("history record = %+v, want action %q to %q", hist, step.action, step.want)
		}
	}

	if len(histRepo.records) != 3 {
		t.Errorf("history records = %d, want 3", len(histRepo.records))
	}

	final, _ := reqRepo.GetByID(ctx, "req-1")
	if final.SubmittedBy != manager.ID || final.SubmittedDate == nil {
		t.Error("submission metadata not recorded")
	}
	if final.ReviewedBy != evaluator.ID || final.ReviewedDate == nil {
		t.Error("review metadata not recorded")
	}
}

func TestEngine_Transition_ApproveFromSubmittedSkipsReview(t *testing.T) {
	reqRepo := newMockRequestRepo()
	histRepo := &mockHistoryRepo{}
	engine := newTestEngine(reqRepo, histRepo)
	seedRequest(reqRepo, domainwf.StateSubmitted)

	req, _, err := engine.Transition(context.Background(), "req-1", domainwf.ActionApprove, evaluator, "")
	if err != nil {
		t.Fatalf("Transition() unexpected error: %v", err)
	}
	if req.Status != domainwf.StateApproved.String() {
		t.Errorf("status = %q, want %q", req.Status, domainwf.StateApproved)
	}
}

func TestEngine_Transition_RevisionRoundTrip(t *testing.T) {
	reqRepo := newMockRequestRepo()
	histRepo := &mockHistoryRepo{}
	engine := newTestEngine(reqRepo, histRepo)
	seedRequest(reqRepo, domainwf.StateDraft)
	ctx := context.Background()

	steps := []struct {
		action  domainwf.Action
		actor   Actor
		comment string
		want    domainwf.State
	}{
		{domainwf.ActionSubmit, manager, "", domainwf.StateSubmitted},
		{domainwf.ActionStartReview, evaluator, "", domainwf.StateUnderReview},
		{domainwf.ActionRequestRevision, evaluator, "add survey methodology", domainwf.StateRevisionRequested},
		{domainwf.ActionResubmit, manager, "", domainwf.StateResubmitted},
		{domainwf.ActionStartReview, evaluator, "", domainwf.StateUnderReview},
		{domainwf.ActionApprove, evaluator, "looks complete now", domainwf.StateApproved},
	}

	for _, step := range steps {
		req, _, err := engine.Transition(ctx, "req-1", step.action, step.actor, step.comment)
		if err != nil {
			t.Fatalf("Transition(%q) unexpected error: %v", step.action, err)
		}
		if req.Status != step.want.String() {
			t.Fatalf("Transition(%q) status = %q, want %q", step.action, req.Status, step.want)
		}
	}

	trail, err := engine.History(ctx, "req-1")
	if err != nil {
		t.Fatalf("History() unexpected error: %v", err)
	}
	if len(trail) != 6 {
		t.Fatalf("History() = %d records, want 6", len(trail))
	}
	// Newest first
	if trail[0].Action != domainwf.ActionApprove.String() {
		t.Errorf("History()[0].Action = %q, want %q", trail[0].Action, domainwf.ActionApprove)
	}
	if trail[5].Action != domainwf.ActionSubmit.String() {
		t.Errorf("History()[5].Action = %q, want %q", trail[5].Action, domainwf.ActionSubmit)
	}

	req, _ := reqRepo.GetByID(ctx, "req-1")
	if req.EvaluatorComments != "looks complete now" {
		t.Errorf("EvaluatorComments = %q, want final approval comment", req.EvaluatorComments)
	}
}

func TestEngine_Transition_RejectionWithComment(t *testing.T) {
	reqRepo := newMockRequestRepo()
	histRepo := &mockHistoryRepo{}
	engine := newTestEngine(reqRepo, histRepo)
	seedRequest(reqRepo, domainwf.StateUnderReview)

	req, hist, err := engine.Transition(context.Background(), "req-1", domainwf.ActionReject, evaluator, "numbers do not match the source data")
	if err != nil {
		t.Fatalf("Transition() unexpected error: %v", err)
	}
	if req.Status != domainwf.StateRejected.String() {
		t.Errorf("status = %q, want %q", req.Status, domainwf.StateRejected)
	}
	if req.EvaluatorComments != "numbers do not match the source data" {
		t.Errorf("EvaluatorComments = %q, want the rejection comment", req.EvaluatorComments)
	}
	if hist.Comments != "numbers do not match the source data" {
		t.Errorf("history comment = %q, want the rejection comment", hist.Comments)
	}
}

// Precondition failures

func TestEngine_Transition_RequestNotFound(t *testing.T) {
	engine := newTestEngine(newMockRequestRepo(), &mockHistoryRepo{})

	_, _, err := engine.Transition(context.Background(), "missing", domainwf.ActionSubmit, manager, "")
	if !errors.Is(err, domainwf.ErrNotFound) {
		t.Errorf("Transition() error = %v, want ErrNotFound", err)
	}
}

func TestEngine_Transition_TerminalState(t *testing.T) {
	for _, terminal := range []domainwf.State{domainwf.StateApproved, domainwf.StateRejected} {
		t.Run(string(terminal), func(t *testing.T) {
			reqRepo := newMockRequestRepo()
			histRepo := &mockHistoryRepo{}
			engine := newTestEngine(reqRepo, histRepo)
			seedRequest(reqRepo, terminal)

			_, _, err := engine.Transition(context.Background(), "req-1", domainwf.ActionSubmit, manager, "")
			if !errors.Is(err, domainwf.ErrTerminalState) {
				t.Errorf("Transition() error = %v, want ErrTerminalState", err)
			}
			if len(histRepo.records) != 0 {
				t.Error("terminal state transition must not append history")
			}
		})
	}
}

func TestEngine_Transition_InvalidAction(t *testing.T) {
	reqRepo := newMockRequestRepo()
	engine := newTestEngine(reqRepo, &mockHistoryRepo{})
	seedRequest(reqRepo, domainwf.StateDraft)

	_, _, err := engine.Transition(context.Background(), "req-1", domainwf.ActionApprove, evaluator, "")
	if !errors.Is(err, domainwf.ErrInvalidAction) {
		t.Errorf("Transition() error = %v, want ErrInvalidAction", err)
	}
}

func TestEngine_Transition_RepeatedInvalidActionLeavesRequestUntouched(t *testing.T) {
	reqRepo := newMockRequestRepo()
	histRepo := &mockHistoryRepo{}
	engine := newTestEngine(reqRepo, histRepo)
	seedRequest(reqRepo, domainwf.StateDraft)

	// Same invalid call twice: identical error kind, no state drift in between
	for i := 0; i < 2; i++ {
		_, _, err := engine.Transition(context.Background(), "req-1", domainwf.ActionApprove, evaluator, "")
		if !errors.Is(err, domainwf.ErrInvalidAction) {
			t.Errorf("Transition() attempt %d error = %v, want ErrInvalidAction", i+1, err)
		}
	}

	req, err := engine.History(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(req) != 0 {
		t.Errorf("History() returned %d records, want 0", len(req))
	}
	if got := reqRepo.requests["req-1"].Status; got != domainwf.StateDraft.String() {
		t.Errorf("request status = %q, want %q", got, domainwf.StateDraft)
	}
}

func TestEngine_Transition_UnauthorizedRole(t *testing.T) {
	tests := []struct {
		name   string
		state  domainwf.State
		action domainwf.Action
		actor  Actor
	}{
		{"evaluator submits draft", domainwf.StateDraft, domainwf.ActionSubmit, evaluator},
		{"manager approves", domainwf.StateSubmitted, domainwf.ActionApprove, manager},
		{"evaluator resubmits", domainwf.StateRevisionRequested, domainwf.ActionResubmit, evaluator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqRepo := newMockRequestRepo()
			engine := newTestEngine(reqRepo, &mockHistoryRepo{})
			seedRequest(reqRepo, tt.state)

			_, _, err := engine.Transition(context.Background(), "req-1", tt.action, tt.actor, "")
			if !errors.Is(err, domainwf.ErrUnauthorizedRole) {
				t.Errorf("Transition() error = %v, want ErrUnauthorizedRole", err)
			}
		})
	}
}

func TestEngine_Transition_MissingComment(t *testing.T) {
	for _, comment := range []string{"", "   ", "\t\n"} {
		reqRepo := newMockRequestRepo()
		engine := newTestEngine(reqRepo, &mockHistoryRepo{})
		seedRequest(reqRepo, domainwf.StateUnderReview)

		_, _, err := engine.Transition(context.Background(), "req-1", domainwf.ActionReject, evaluator, comment)
		if !errors.Is(err, domainwf.ErrMissingComment) {
			t.Errorf("Transition() with comment %q error = %v, want ErrMissingComment", comment, err)
		}
	}
}

func TestEngine_Transition_RoleCheckedBeforeComment(t *testing.T) {
	reqRepo := newMockRequestRepo()
	engine := newTestEngine(reqRepo, &mockHistoryRepo{})
	seedRequest(reqRepo, domainwf.StateUnderReview)

	// Wrong role and missing comment at the same time: role wins
	_, _, err := engine.Transition(context.Background(), "req-1", domainwf.ActionReject, manager, "")
	if !errors.Is(err, domainwf.ErrUnauthorizedRole) {
		t.Errorf("Transition() error = %v, want ErrUnauthorizedRole", err)
	}
}

// Atomicity and side effects

func TestEngine_Transition_HistoryFailureRollsBack(t *testing.T) {
	reqRepo := newMockRequestRepo()
	histRepo := &mockHistoryRepo{createErr: errors.New("disk full")}
	txManager := &mockTxManager{}
	engine := NewEngine(domainwf.Default(), reqRepo, histRepo, txManager,
		WithClock(func() time.Time { return fixedNow }))
	seedRequest(reqRepo, domainwf.StateDraft)

	_, _, err := engine.Transition(context.Background(), "req-1", domainwf.ActionSubmit, manager, "")
	if err == nil {
		t.Fatal("Transition() expected error when history append fails")
	}
}

func TestEngine_Transition_CommitFailureReturnsError(t *testing.T) {
	reqRepo := newMockRequestRepo()
	engine := NewEngine(domainwf.Default(), reqRepo, &mockHistoryRepo{},
		&mockTxManager{commitErr: errors.New("database locked")},
		WithClock(func() time.Time { return fixedNow }))
	seedRequest(reqRepo, domainwf.StateDraft)

	_, _, err := engine.Transition(context.Background(), "req-1", domainwf.ActionSubmit, manager, "")
	if err == nil {
		t.Fatal("Transition() expected error when commit fails")
	}
}

func TestEngine_Transition_ApprovalAppliesKpiValues(t *testing.T) {
	reqRepo := newMockRequestRepo()
	kpiRepo := &mockKpiRepo{}
	engine := newTestEngine(reqRepo, &mockHistoryRepo{}, WithKpiRepository(kpiRepo))
	req := seedRequest(reqRepo, domainwf.StateUnderReview)
	newTarget := 85.0
	req.ProposedTarget = &newTarget

	_, _, err := engine.Transition(context.Background(), "req-1", domainwf.ActionApprove, evaluator, "")
	if err != nil {
		t.Fatalf("Transition() unexpected error: %v", err)
	}
	if kpiRepo.updatedID != "kpi-1" {
		t.Errorf("UpdateValues id = %q, want kpi-1", kpiRepo.updatedID)
	}
	if kpiRepo.updatedValue != 78.0 {
		t.Errorf("UpdateValues current = %v, want proposed value 78.0", kpiRepo.updatedValue)
	}
	if kpiRepo.updatedTgt != 85.0 {
		t.Errorf("UpdateValues target = %v, want proposed target 85.0", kpiRepo.updatedTgt)
	}
}

func TestEngine_Transition_RejectionLeavesKpiUntouched(t *testing.T) {
	reqRepo := newMockRequestRepo()
	kpiRepo := &mockKpiRepo{}
	engine := newTestEngine(reqRepo, &mockHistoryRepo{}, WithKpiRepository(kpiRepo))
	seedRequest(reqRepo, domainwf.StateUnderReview)

	_, _, err := engine.Transition(context.Background(), "req-1", domainwf.ActionReject, evaluator, "insufficient evidence")
	if err != nil {
		t.Fatalf("Transition() unexpected error: %v", err)
	}
	if kpiRepo.updates != 0 {
		t.Errorf("UpdateValues called %d times on rejection, want 0", kpiRepo.updates)
	}
}

func TestEngine_Transition_DispatchesStatusChangedEvent(t *testing.T) {
	reqRepo := newMockRequestRepo()
	disp := &mockDispatcher{}
	engine := newTestEngine(reqRepo, &mockHistoryRepo{}, WithDispatcher(disp))
	seedRequest(reqRepo, domainwf.StateDraft)

	_, _, err := engine.Transition(context.Background(), "req-1", domainwf.ActionSubmit, manager, "")
	if err != nil {
		t.Fatalf("Transition() unexpected error: %v", err)
	}
	if disp.eventCount() != 1 {
		t.Fatalf("dispatched events = %d, want 1", disp.eventCount())
	}

	evt := disp.events[0]
	if evt.Type != event.TypeStatusChanged {
		t.Errorf("event type = %q, want %q", evt.Type, event.TypeStatusChanged)
	}
	if evt.GetPayloadString("to_state") != domainwf.StateSubmitted.String() {
		t.Errorf("event to_state = %q, want %q", evt.GetPayloadString("to_state"), domainwf.StateSubmitted)
	}
	if evt.GetPayloadString("actor_id") != manager.ID {
		t.Errorf("event actor_id = %q, want %q", evt.GetPayloadString("actor_id"), manager.ID)
	}
}

func TestEngine_Transition_FailedTransitionDispatchesNothing(t *testing.T) {
	reqRepo := newMockRequestRepo()
	disp := &mockDispatcher{}
	engine := newTestEngine(reqRepo, &mockHistoryRepo{}, WithDispatcher(disp))
	seedRequest(reqRepo, domainwf.StateApproved)

	_, _, _ = engine.Transition(context.Background(), "req-1", domainwf.ActionSubmit, manager, "")
	if disp.eventCount() != 0 {
		t.Errorf("dispatched events = %d, want 0", disp.eventCount())
	}
}

// Concurrency

func TestEngine_Transition_ConcurrentApprovalsSerialized(t *testing.T) {
	reqRepo := newMockRequestRepo()
	histRepo := &mockHistoryRepo{}
	engine := newTestEngine(reqRepo, histRepo)
	seedRequest(reqRepo, domainwf.StateUnderReview)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = engine.Transition(context.Background(), "req-1", domainwf.ActionApprove, evaluator, "")
		}(i)
	}
	wg.Wait()

	var succeeded, terminal int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domainwf.ErrTerminalState):
			terminal++
		default:
			t.Errorf("unexpected error kind: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("successful approvals = %d, want exactly 1", succeeded)
	}
	if terminal != attempts-1 {
		t.Errorf("terminal state rejections = %d, want %d", terminal, attempts-1)
	}
	if len(histRepo.records) != 1 {
		t.Errorf("history records = %d, want 1", len(histRepo.records))
	}
}

func TestEngine_Transition_TerminalRequestReleasesLock(t *testing.T) {
	reqRepo := newMockRequestRepo()
	engine := newTestEngine(reqRepo, &mockHistoryRepo{})
	impl := engine.(*engineImpl)
	ctx := context.Background()

	seedRequest(reqRepo, domainwf.StateDraft)
	if _, _, err := engine.Transition(ctx, "req-1", domainwf.ActionSubmit, manager, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}

	impl.mu.Lock()
	_, held := impl.locks["req-1"]
	impl.mu.Unlock()
	if !held {
		t.Fatal("lock entry must exist while request is live")
	}

	if _, _, err := engine.Transition(ctx, "req-1", domainwf.ActionReject, evaluator, "insufficient evidence"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	impl.mu.Lock()
	_, held = impl.locks["req-1"]
	impl.mu.Unlock()
	if held {
		t.Error("lock entry must be released once the request is terminal")
	}

	// Late arrival against the terminal request still fails cleanly
	if _, _, err := engine.Transition(ctx, "req-1", domainwf.ActionSubmit, manager, ""); !errors.Is(err, domainwf.ErrTerminalState) {
		t.Errorf("Transition() after release error = %v, want ErrTerminalState", err)
	}
}

// Read operations

func TestEngine_AllowedActions(t *testing.T) {
	reqRepo := newMockRequestRepo()
	engine := newTestEngine(reqRepo, &mockHistoryRepo{})
	seedRequest(reqRepo, domainwf.StateSubmitted)
	ctx := context.Background()

	actions, err := engine.AllowedActions(ctx, "req-1", domainwf.RoleEvaluator)
	if err != nil {
		t.Fatalf("AllowedActions() unexpected error: %v", err)
	}
	if len(actions) != 4 {
		t.Errorf("AllowedActions(evaluator) = %v, want 4 actions", actions)
	}

	actions, err = engine.AllowedActions(ctx, "req-1", domainwf.RoleManager)
	if err != nil {
		t.Fatalf("AllowedActions() unexpected error: %v", err)
	}
	if len(actions) != 0 {
		t.Errorf("AllowedActions(manager) = %v, want none", actions)
	}

	if _, err := engine.AllowedActions(ctx, "missing", domainwf.RoleManager); !errors.Is(err, domainwf.ErrNotFound) {
		t.Errorf("AllowedActions(missing) error = %v, want ErrNotFound", err)
	}
}

func TestEngine_History_NotFound(t *testing.T) {
	engine := newTestEngine(newMockRequestRepo(), &mockHistoryRepo{})

	if _, err := engine.History(context.Background(), "missing"); !errors.Is(err, domainwf.ErrNotFound) {
		t.Errorf("History(missing) error = %v, want ErrNotFound", err)
	}
}
