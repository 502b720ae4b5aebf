package workflow

// Action represents a verb a caller invokes to drive a state transition
type Action string

const (
	ActionSubmit          Action = "submit"
	ActionStartReview     Action = "start-review"
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionRequestRevision Action = "request-revision"
	ActionResubmit        Action = "resubmit"
)

var validActions = map[Action]bool{
	ActionSubmit:          true,
	ActionStartReview:     true,
	ActionApprove:         true,
	ActionReject:          true,
	ActionRequestRevision: true,
	ActionResubmit:        true,
}

// IsValid returns true if the action is one of the defined workflow actions
func (a Action) IsValid() bool {
	return validActions[a]
}

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}

// Role identifies the class of actor invoking workflow actions
type Role string

const (
	RoleManager   Role = "manager"
	RoleEvaluator Role = "evaluator"
)

// IsValid returns true if the role is one of the defined actor roles
func (r Role) IsValid() bool {
	return r == RoleManager || r == RoleEvaluator
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}
