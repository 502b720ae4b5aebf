package workflow

// kpiUpdateStates is the canonical state list for the KPI update request workflow
var kpiUpdateStates = []StateInfo{
	{ID: StateDraft, Name: "Draft", Description: "Request is being prepared by the manager", Initial: true},
	{ID: StateSubmitted, Name: "Submitted", Description: "Request submitted and awaiting evaluation"},
	{ID: StateUnderReview, Name: "Under Review", Description: "An evaluator is reviewing the request"},
	{ID: StateRevisionRequested, Name: "Revision Requested", Description: "Evaluator asked the manager to revise the request"},
	{ID: StateResubmitted, Name: "Resubmitted", Description: "Revised request awaiting evaluation"},
	{ID: StateApproved, Name: "Approved", Description: "Request approved; KPI values applied", Final: true},
	{ID: StateRejected, Name: "Rejected", Description: "Request rejected", Final: true},
}

// kpiUpdateTransitions is the canonical transition table. Review actions that
// carry a decision (reject, request-revision) require a comment so the manager
// always sees why.
var kpiUpdateTransitions = []Transition{
	{From: StateDraft, To: StateSubmitted, Action: ActionSubmit, AllowedRoles: []Role{RoleManager}},

	{From: StateSubmitted, To: StateUnderReview, Action: ActionStartReview, AllowedRoles: []Role{RoleEvaluator}},
	{From: StateSubmitted, To: StateApproved, Action: ActionApprove, AllowedRoles: []Role{RoleEvaluator}},
	{From: StateSubmitted, To: StateRejected, Action: ActionReject, RequiresComment: true, AllowedRoles: []Role{RoleEvaluator}},
	{From: StateSubmitted, To: StateRevisionRequested, Action: ActionRequestRevision, RequiresComment: true, AllowedRoles: []Role{RoleEvaluator}},

	{From: StateUnderReview, To: StateApproved, Action: ActionApprove, AllowedRoles: []Role{RoleEvaluator}},
	{From: StateUnderReview, To: StateRejected, Action: ActionReject, RequiresComment: true, AllowedRoles: []Role{RoleEvaluator}},
	{From: StateUnderReview, To: StateRevisionRequested, Action: ActionRequestRevision, RequiresComment: true, AllowedRoles: []Role{RoleEvaluator}},

	{From: StateRevisionRequested, To: StateResubmitted, Action: ActionResubmit, AllowedRoles: []Role{RoleManager}},

	{From: StateResubmitted, To: StateUnderReview, Action: ActionStartReview, AllowedRoles: []Role{RoleEvaluator}},
	{From: StateResubmitted, To: StateApproved, Action: ActionApprove, AllowedRoles: []Role{RoleEvaluator}},
	{From: StateResubmitted, To: StateRejected, Action: ActionReject, RequiresComment: true, AllowedRoles: []Role{RoleEvaluator}},
	{From: StateResubmitted, To: StateRevisionRequested, Action: ActionRequestRevision, RequiresComment: true, AllowedRoles: []Role{RoleEvaluator}},
}

var defaultDefinition = MustNewDefinition(kpiUpdateStates, kpiUpdateTransitions)

// Default returns the process-wide KPI update request workflow definition
func Default() *Definition {
	return defaultDefinition
}
