package workflow

// State represents a workflow state in the KPI update request lifecycle
type State string

const (
	StateDraft             State = "draft"
	StateSubmitted         State = "submitted"
	StateUnderReview       State = "under-review"
	StateRevisionRequested State = "revision-requested"
	StateResubmitted       State = "resubmitted"
	StateApproved          State = "approved"
	StateRejected          State = "rejected"
)

// StateInfo describes a workflow state for definition building and UI display
type StateInfo struct {
	ID          State
	Name        string
	Description string
	Initial     bool
	Final       bool
}

var validStates = map[State]bool{
	StateDraft:             true,
	StateSubmitted:         true,
	StateUnderReview:       true,
	StateRevisionRequested: true,
	StateResubmitted:       true,
	StateApproved:          true,
	StateRejected:          true,
}

var terminalStates = map[State]bool{
	StateApproved: true,
	StateRejected: true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a valid workflow state
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}
