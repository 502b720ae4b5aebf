package entity

import "time"

// WorkflowHistory is one append-only record per executed transition.
// Records are never mutated after creation.
type WorkflowHistory struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id"`
	FromState   string    `json:"from_state"`
	ToState     string    `json:"to_state"`
	Action      string    `json:"action"`
	PerformedBy string    `json:"performed_by"`
	PerformedAt time.Time `json:"performed_at"`
	Comments    string    `json:"comments,omitempty"`
}
