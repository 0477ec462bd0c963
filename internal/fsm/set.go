package fsm

import (
	"fmt"
	"sort"
)

// Set is an immutable collection of validated machines, keyed by id.
// Build it once at startup and share it freely; all queries are read-only.
type Set struct {
	machines map[string]Machine
}

// NewSet validates each machine and returns the collection.
func NewSet(machines ...Machine) (*Set, error) {
	byID := make(map[string]Machine, len(machines))
	for _, m := range machines {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate machine id %q", m.ID)
		}
		byID[m.ID] = m
	}
	return &Set{machines: byID}, nil
}

// Machine returns the machine with the given id.
func (s *Set) Machine(id string) (Machine, bool) {
	m, ok := s.machines[id]
	return m, ok
}

// IDs returns the registered machine ids, sorted.
func (s *Set) IDs() []string {
	ids := make([]string, 0, len(s.machines))
	for id := range s.machines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CanTransition reports whether event is accepted in the current state.
// Unknown machine, state, or event all yield false.
func (s *Set) CanTransition(machineID, current, event string) bool {
	_, ok := s.NextState(machineID, current, event)
	return ok
}

// NextState resolves the target state for event from the current state.
// The second return is false when the machine, state, or event is unknown.
func (s *Set) NextState(machineID, current, event string) (string, bool) {
	m, ok := s.machines[machineID]
	if !ok {
		return "", false
	}
	state, ok := m.States[current]
	if !ok {
		return "", false
	}
	next, ok := state.On[event]
	return next, ok
}

// ValidEvents returns the events accepted in the current state, sorted.
// Unknown and terminal states yield an empty list.
func (s *Set) ValidEvents(machineID, current string) []string {
	m, ok := s.machines[machineID]
	if !ok {
		return nil
	}
	state, ok := m.States[current]
	if !ok {
		return nil
	}
	events := make([]string, 0, len(state.On))
	for event := range state.On {
		events = append(events, event)
	}
	sort.Strings(events)
	return events
}

// StateMeta returns the display metadata for a state, or false when the
// machine or state is unknown.
func (s *Set) StateMeta(machineID, state string) (State, bool) {
	m, ok := s.machines[machineID]
	if !ok {
		return State{}, false
	}
	st, ok := m.States[state]
	return st, ok
}
