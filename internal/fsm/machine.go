// Package fsm implements the state machine engine governing entity status
// transitions. Machines are declarative graphs evaluated by pure functions;
// nothing in this package performs I/O. Coupling a transition to persistence
// is the command layer's job.
package fsm

import (
	"fmt"
	"sort"
)

// State describes one node in a machine graph: its display metadata and the
// events it accepts, each mapped to a target state.
type State struct {
	Label string
	Color string
	Icon  string
	On    map[string]string // event name -> target state
}

// Machine is a named state graph with a designated initial state.
type Machine struct {
	ID      string
	Initial string
	States  map[string]State
}

// Validate checks the structural invariants of the graph: the initial state
// exists, and every transition target appears as a key in the state map.
func (m Machine) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("machine has no id")
	}
	if _, ok := m.States[m.Initial]; !ok {
		return fmt.Errorf("machine %q: initial state %q is not defined", m.ID, m.Initial)
	}
	for name, state := range m.States {
		for event, target := range state.On {
			if _, ok := m.States[target]; !ok {
				return fmt.Errorf("machine %q: state %q event %q targets undefined state %q",
					m.ID, name, event, target)
			}
		}
	}
	return nil
}

// StateNames returns the machine's state names, sorted.
func (m Machine) StateNames() []string {
	names := make([]string, 0, len(m.States))
	for name := range m.States {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
