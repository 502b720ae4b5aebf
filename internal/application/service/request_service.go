package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/univance/kpi-workflow/internal/application/dispatcher"
	"github.com/univance/kpi-workflow/internal/application/port"
	"github.com/univance/kpi-workflow/internal/domain/entity"
	"github.com/univance/kpi-workflow/internal/domain/event"
	domainwf "github.com/univance/kpi-workflow/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ErrInvalidInput marks caller-supplied fields that fail validation
var ErrInvalidInput = errors.New("invalid input")

// CreateRequestInput carries the draft fields supplied by a manager
type CreateRequestInput struct {
	OrganizationID      string   `json:"organization_id"`
	KpiID               string   `json:"kpi_id"`
	KpiName             string   `json:"kpi_name"`
	ProposedValue       float64  `json:"proposed_value"`
	ProposedTarget      *float64 `json:"proposed_target"`
	Justification       string   `json:"justification"`
	DataSource          string   `json:"data_source"`
	MeasurementPeriod   string   `json:"measurement_period"`
	SupportingDocuments []string `json:"supporting_documents"`
	ImpactOnRelatedKpis string   `json:"impact_on_related_kpis"`
	SubmittedBy         string   `json:"submitted_by"`
}

// RequestService manages KPI update requests outside the transition path
type RequestService interface {
	CreateRequest(ctx context.Context, input CreateRequestInput) (*entity.KpiUpdateRequest, error)
	GetRequest(ctx context.Context, id string) (*entity.KpiUpdateRequest, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.KpiUpdateRequest, error)
	ListByOrganization(ctx context.Context, orgID string) ([]*entity.KpiUpdateRequest, error)
}

type requestServiceImpl struct {
	def         *domainwf.Definition
	requestRepo port.RequestRepository
	orgRepo     port.OrganizationRepository
	kpiRepo     port.KpiRepository
	dispatcher  dispatcher.Dispatcher
	logger      Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	def *domainwf.Definition,
	requestRepo port.RequestRepository,
	orgRepo port.OrganizationRepository,
	kpiRepo port.KpiRepository,
	d dispatcher.Dispatcher,
	logger Logger,
) RequestService {
	return &requestServiceImpl{
		def:         def,
		requestRepo: requestRepo,
		orgRepo:     orgRepo,
		kpiRepo:     kpiRepo,
		dispatcher:  d,
		logger:      logger,
	}
}

// CreateRequest creates a new request in the workflow's initial state
func (s *requestServiceImpl) CreateRequest(ctx context.Context, input CreateRequestInput) (*entity.KpiUpdateRequest, error) {
	if strings.TrimSpace(input.Justification) == "" {
		return nil, fmt.Errorf("%w: justification is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.SubmittedBy) == "" {
		return nil, fmt.Errorf("%w: submitted_by is required", ErrInvalidInput)
	}

	org, err := s.orgRepo.GetByID(ctx, input.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}
	if org == nil {
		return nil, fmt.Errorf("%w: organization %q", domainwf.ErrNotFound, input.OrganizationID)
	}

	now := time.Now()
	req := &entity.KpiUpdateRequest{
		ID:                  uuid.NewString(),
		OrganizationID:      org.ID,
		OrganizationName:    org.Name,
		KpiID:               input.KpiID,
		KpiName:             input.KpiName,
		ProposedValue:       input.ProposedValue,
		ProposedTarget:      input.ProposedTarget,
		Justification:       input.Justification,
		DataSource:          input.DataSource,
		MeasurementPeriod:   input.MeasurementPeriod,
		SupportingDocuments: input.SupportingDocuments,
		ImpactOnRelatedKpis: input.ImpactOnRelatedKpis,
		Status:              s.def.InitialState().String(),
		SubmittedBy:         input.SubmittedBy,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	// Snapshot the live KPI values so the proposal shows what it changes
	if input.KpiID != "" {
		kpi, err := s.kpiRepo.GetByID(ctx, input.KpiID)
		if err != nil {
			return nil, fmt.Errorf("load kpi: %w", err)
		}
		if kpi == nil {
			return nil, fmt.Errorf("%w: kpi %q", domainwf.ErrNotFound, input.KpiID)
		}
		if kpi.OrganizationID != org.ID {
			return nil, fmt.Errorf("%w: kpi %q does not belong to organization %q", ErrInvalidInput, kpi.ID, org.ID)
		}
		req.KpiName = kpi.Name
		req.CurrentValue = kpi.CurrentValue
		req.CurrentTarget = kpi.TargetValue
		if req.MeasurementPeriod == "" {
			req.MeasurementPeriod = kpi.MeasurementPeriod
		}
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	s.logger.Info("KPI update request created",
		"request_id", req.ID,
		"organization_id", req.OrganizationID,
		"kpi_name", req.KpiName,
	)

	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeRequestCreated, req.ID, map[string]interface{}{
			"organization_id": req.OrganizationID,
			"kpi_name":        req.KpiName,
		}))
	}

	return req, nil
}

// GetRequest retrieves a request by id
func (s *requestServiceImpl) GetRequest(ctx context.Context, id string) (*entity.KpiUpdateRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load request: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request %q", domainwf.ErrNotFound, id)
	}
	return req, nil
}

// ListByStatus returns requests whose status matches, newest first
func (s *requestServiceImpl) ListByStatus(ctx context.Context, status string) ([]*entity.KpiUpdateRequest, error) {
	if status != "" && !domainwf.State(status).IsValid() {
		return nil, fmt.Errorf("%w: state %q", domainwf.ErrNotFound, status)
	}
	return s.requestRepo.ListByStatus(ctx, status)
}

// ListByOrganization returns requests for one organizational unit, newest first
func (s *requestServiceImpl) ListByOrganization(ctx context.Context, orgID string) ([]*entity.KpiUpdateRequest, error) {
	return s.requestRepo.ListByOrganization(ctx, orgID)
}
