package entity

import "time"

// Organization types
const (
	OrgTypeFaculty        = "faculty"
	OrgTypeDepartment     = "department"
	OrgTypeResearchCenter = "research-center"
)

// Organization represents a university organizational unit
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	ParentID  string    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Kpi is a tracked metric belonging to one organization
type Kpi struct {
	ID                string    `json:"id"`
	OrganizationID    string    `json:"organization_id"`
	Name              string    `json:"name"`
	Unit              string    `json:"unit,omitempty"`
	CurrentValue      float64   `json:"current_value"`
	TargetValue       float64   `json:"target_value"`
	MeasurementPeriod string    `json:"measurement_period,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
