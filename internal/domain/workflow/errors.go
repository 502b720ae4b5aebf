package workflow

import "errors"

var (
	// ErrNotFound is returned when a request or transition definition does not exist
	ErrNotFound = errors.New("not found")

	// ErrTerminalState is returned when a transition is attempted from a final state
	ErrTerminalState = errors.New("request is in a terminal state")

	// ErrInvalidAction is returned when the action is not defined for the current state
	ErrInvalidAction = errors.New("action not allowed from current state")

	// ErrUnauthorizedRole is returned when the actor's role is not permitted for the transition
	ErrUnauthorizedRole = errors.New("role not permitted for this action")

	// ErrMissingComment is returned when a transition requires a comment and none was supplied
	ErrMissingComment = errors.New("comment is required for this action")
)
