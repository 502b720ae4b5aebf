package workflow

import "fmt"

// Definition is the static, process-wide workflow table. It is built once at
// startup, validated at construction time, and never mutated afterwards, so
// concurrent reads need no locking.
type Definition struct {
	states      []StateInfo
	transitions []Transition
	byState     map[State]map[Action]*Transition
	initial     State
}

// NewDefinition builds a Definition from a state list and transition table,
// checking the structural invariants up front:
//   - every state id is unique and every transition references declared states
//   - exactly one state is flagged initial
//   - final states have no outgoing transitions
//   - every state is reachable from the initial state
//   - every transition carries a non-empty role set
//   - (from, action) resolves to exactly one target state
func NewDefinition(states []StateInfo, transitions []Transition) (*Definition, error) {
	declared := make(map[State]*StateInfo, len(states))
	var initial State
	for i := range states {
		s := &states[i]
		if _, dup := declared[s.ID]; dup {
			return nil, fmt.Errorf("duplicate state %q", s.ID)
		}
		declared[s.ID] = s
		if s.Initial {
			if initial != "" {
				return nil, fmt.Errorf("multiple initial states: %q and %q", initial, s.ID)
			}
			initial = s.ID
		}
	}
	if initial == "" {
		return nil, fmt.Errorf("no initial state declared")
	}

	byState := make(map[State]map[Action]*Transition, len(states))
	for i := range transitions {
		t := &transitions[i]
		from, ok := declared[t.From]
		if !ok {
			return nil, fmt.Errorf("transition %q references undeclared state %q", t.Action, t.From)
		}
		if _, ok := declared[t.To]; !ok {
			return nil, fmt.Errorf("transition %q references undeclared state %q", t.Action, t.To)
		}
		if from.Final {
			return nil, fmt.Errorf("final state %q must not have outgoing transition %q", t.From, t.Action)
		}
		if len(t.AllowedRoles) == 0 {
			return nil, fmt.Errorf("transition %q from %q has no allowed roles", t.Action, t.From)
		}
		edges, ok := byState[t.From]
		if !ok {
			edges = make(map[Action]*Transition)
			byState[t.From] = edges
		}
		if prev, dup := edges[t.Action]; dup {
			return nil, fmt.Errorf("ambiguous transition: (%q, %q) targets both %q and %q",
				t.From, t.Action, prev.To, t.To)
		}
		edges[t.Action] = t
	}

	d := &Definition{
		states:      states,
		transitions: transitions,
		byState:     byState,
		initial:     initial,
	}

	if err := d.checkReachability(); err != nil {
		return nil, err
	}

	return d, nil
}

// MustNewDefinition is like NewDefinition but panics on an invalid table.
// Intended for compiled-in definitions checked by the test suite.
func MustNewDefinition(states []StateInfo, transitions []Transition) *Definition {
	d, err := NewDefinition(states, transitions)
	if err != nil {
		panic(fmt.Sprintf("invalid workflow definition: %v", err))
	}
	return d
}

// checkReachability verifies every declared state is reachable from the initial state
func (d *Definition) checkReachability() error {
	reached := map[State]bool{d.initial: true}
	frontier := []State{d.initial}
	for len(frontier) > 0 {
		s := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for _, t := range d.byState[s] {
			if !reached[t.To] {
				reached[t.To] = true
				frontier = append(frontier, t.To)
			}
		}
	}
	for _, s := range d.states {
		if !reached[s.ID] {
			return fmt.Errorf("state %q is unreachable from initial state %q", s.ID, d.initial)
		}
	}
	return nil
}

// InitialState returns the single state flagged initial
func (d *Definition) InitialState() State {
	return d.initial
}

// StatesOf returns the full ordered sequence of workflow states
func (d *Definition) StatesOf() []StateInfo {
	out := make([]StateInfo, len(d.states))
	copy(out, d.states)
	return out
}

// StateOf returns the StateInfo for a state id, or ErrNotFound
func (d *Definition) StateOf(id State) (StateInfo, error) {
	for _, s := range d.states {
		if s.ID == id {
			return s, nil
		}
	}
	return StateInfo{}, fmt.Errorf("%w: state %q", ErrNotFound, id)
}

// TransitionsFrom returns the transitions whose from-state equals the given
// state, in table order. Terminal states yield an empty slice.
func (d *Definition) TransitionsFrom(state State) []Transition {
	var out []Transition
	for _, t := range d.transitions {
		if t.From == state {
			out = append(out, t)
		}
	}
	return out
}

// FindTransition returns the unique transition matching (state, action),
// or ErrNotFound if no such edge exists.
func (d *Definition) FindTransition(state State, action Action) (*Transition, error) {
	if edges, ok := d.byState[state]; ok {
		if t, ok := edges[action]; ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: no transition for action %q from state %q", ErrNotFound, action, state)
}

// AllowedActions returns the action ids available from a state, in table
// order. This is the derived view of the state's allowed-transitions cache;
// it is computed from the transition table rather than stored.
func (d *Definition) AllowedActions(state State) []Action {
	var out []Action
	for _, t := range d.transitions {
		if t.From == state {
			out = append(out, t.Action)
		}
	}
	return out
}

// AllowedActionsFor returns the actions a given role may invoke from a state.
// Collaborators use this to render the available buttons for an actor.
func (d *Definition) AllowedActionsFor(state State, role Role) []Action {
	var out []Action
	for _, t := range d.transitions {
		if t.From == state && t.AllowsRole(role) {
			out = append(out, t.Action)
		}
	}
	return out
}
