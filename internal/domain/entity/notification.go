package entity

import "time"

// Notification delivery statuses
const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// Notification is the durable record of a transition event handed to the
// notification sink. Delivery mechanics live outside this system; the record
// only captures that the event was raised and whether the sink accepted it.
type Notification struct {
	ID           string     `json:"id"`
	RequestID    string     `json:"request_id"`
	Action       string     `json:"action"`
	ToState      string     `json:"to_state"`
	ActorID      string     `json:"actor_id"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
}
