package entity

import "time"

// KpiUpdateRequest is a proposal to change one KPI's current and/or target value
type KpiUpdateRequest struct {
	ID                  string     `json:"id"`
	OrganizationID      string     `json:"organization_id"`
	OrganizationName    string     `json:"organization_name"`
	KpiID               string     `json:"kpi_id,omitempty"`
	KpiName             string     `json:"kpi_name"`
	CurrentValue        float64    `json:"current_value"`
	ProposedValue       float64    `json:"proposed_value"`
	CurrentTarget       float64    `json:"current_target"`
	ProposedTarget      *float64   `json:"proposed_target,omitempty"`
	Justification       string     `json:"justification"`
	DataSource          string     `json:"data_source"`
	MeasurementPeriod   string     `json:"measurement_period"`
	SupportingDocuments []string   `json:"supporting_documents,omitempty"`
	ImpactOnRelatedKpis string     `json:"impact_on_related_kpis,omitempty"`
	Status              string     `json:"status"`
	SubmittedBy         string     `json:"submitted_by"`
	SubmittedDate       *time.Time `json:"submitted_date,omitempty"`
	ReviewedBy          string     `json:"reviewed_by,omitempty"`
	ReviewedDate        *time.Time `json:"reviewed_date,omitempty"`
	EvaluatorComments   string     `json:"evaluator_comments,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
