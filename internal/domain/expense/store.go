package expense

// Store is the owned dispatch handle for one form. It is not safe for
// concurrent use; callers serialize Dispatch.
type Store struct {
	machine *Machine
	state   State
}

// NewStore starts a store at initial.
func NewStore(machine *Machine, initial State) *Store {
	return &Store{machine: machine, state: initial.Clone()}
}

// Dispatch reduces a into the current state and returns the result.
func (s *Store) Dispatch(a Action) State {
	s.state = s.machine.Reduce(s.state, a)
	return s.state.Clone()
}

// State returns a copy of the current state.
func (s *Store) State() State {
	return s.state.Clone()
}
