package workflow

// Transition represents a legal edge in the workflow graph
type Transition struct {
	From            State
	To              State
	Action          Action
	RequiresComment bool
	AllowedRoles    []Role
}

// AllowsRole returns true if the role is a member of the transition's allowed roles
func (t Transition) AllowsRole(role Role) bool {
	for _, r := range t.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}
