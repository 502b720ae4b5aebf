package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/univance/kpi-workflow/internal/application/port"
	"github.com/univance/kpi-workflow/internal/domain/entity"
	domainwf "github.com/univance/kpi-workflow/internal/domain/workflow"
)

var orgTypes = map[string]bool{
	entity.OrgTypeFaculty:        true,
	entity.OrgTypeDepartment:     true,
	entity.OrgTypeResearchCenter: true,
}

// KpiService manages the organization and KPI registries
type KpiService interface {
	CreateOrganization(ctx context.Context, name, orgType, parentID string) (*entity.Organization, error)
	GetOrganization(ctx context.Context, id string) (*entity.Organization, error)
	ListOrganizations(ctx context.Context) ([]*entity.Organization, error)
	CreateKpi(ctx context.Context, orgID, name, unit, period string, currentValue, targetValue float64) (*entity.Kpi, error)
	ListKpis(ctx context.Context, orgID string) ([]*entity.Kpi, error)
}

type kpiServiceImpl struct {
	orgRepo port.OrganizationRepository
	kpiRepo port.KpiRepository
	logger  Logger
}

// NewKpiService creates a new KpiService
func NewKpiService(orgRepo port.OrganizationRepository, kpiRepo port.KpiRepository, logger Logger) KpiService {
	return &kpiServiceImpl{
		orgRepo: orgRepo,
		kpiRepo: kpiRepo,
		logger:  logger,
	}
}

// CreateOrganization registers a university organizational unit
func (s *kpiServiceImpl) CreateOrganization(ctx context.Context, name, orgType, parentID string) (*entity.Organization, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: organization name is required", ErrInvalidInput)
	}
	if !orgTypes[orgType] {
		return nil, fmt.Errorf("%w: unknown organization type %q", ErrInvalidInput, orgType)
	}
	if parentID != "" {
		parent, err := s.orgRepo.GetByID(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("load parent organization: %w", err)
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: organization %q", domainwf.ErrNotFound, parentID)
		}
	}

	org := &entity.Organization{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      orgType,
		ParentID:  parentID,
		CreatedAt: time.Now(),
	}

	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}

	s.logger.Info("Organization created", "organization_id", org.ID, "name", org.Name, "type", org.Type)
	return org, nil
}

// GetOrganization retrieves an organization by id
func (s *kpiServiceImpl) GetOrganization(ctx context.Context, id string) (*entity.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}
	if org == nil {
		return nil, fmt.Errorf("%w: organization %q", domainwf.ErrNotFound, id)
	}
	return org, nil
}

// ListOrganizations returns all organizational units
func (s *kpiServiceImpl) ListOrganizations(ctx context.Context) ([]*entity.Organization, error) {
	return s.orgRepo.List(ctx)
}

// CreateKpi registers a KPI for an organization
func (s *kpiServiceImpl) CreateKpi(ctx context.Context, orgID, name, unit, period string, currentValue, targetValue float64) (*entity.Kpi, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: kpi name is required", ErrInvalidInput)
	}
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}
	if org == nil {
		return nil, fmt.Errorf("%w: organization %q", domainwf.ErrNotFound, orgID)
	}

	now := time.Now()
	kpi := &entity.Kpi{
		ID:                uuid.NewString(),
		OrganizationID:    orgID,
		Name:              name,
		Unit:              unit,
		CurrentValue:      currentValue,
		TargetValue:       targetValue,
		MeasurementPeriod: period,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.kpiRepo.Create(ctx, kpi); err != nil {
		return nil, fmt.Errorf("create kpi: %w", err)
	}

	s.logger.Info("KPI created", "kpi_id", kpi.ID, "organization_id", orgID, "name", name)
	return kpi, nil
}

// ListKpis returns the KPIs belonging to one organization
func (s *kpiServiceImpl) ListKpis(ctx context.Context, orgID string) ([]*entity.Kpi, error) {
	return s.kpiRepo.GetByOrganizationID(ctx, orgID)
}
