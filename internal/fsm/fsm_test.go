package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testSet(t *testing.T) *Set {
	t.Helper()
	set, err := Default()
	require.NoError(t, err)
	return set
}

func TestDefault_AllMachinesValid(t *testing.T) {
	set := testSet(t)
	require.Equal(t, []string{ProjectFlow, ShipmentFlow, TaskFlow}, set.IDs())
}

func TestMachine_Validate(t *testing.T) {
	tests := []struct {
		name    string
		machine Machine
		wantErr string
	}{
		{
			name:    "missing id",
			machine: Machine{Initial: "a", States: map[string]State{"a": {}}},
			wantErr: "no id",
		},
		{
			name:    "initial not defined",
			machine: Machine{ID: "m", Initial: "missing", States: map[string]State{"a": {}}},
			wantErr: "initial state",
		},
		{
			name: "transition targets undefined state",
			machine: Machine{ID: "m", Initial: "a", States: map[string]State{
				"a": {On: map[string]string{"GO": "nowhere"}},
			}},
			wantErr: "undefined state",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.machine.Validate()
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewSet_RejectsDuplicateIDs(t *testing.T) {
	m := Machine{ID: "m", Initial: "a", States: map[string]State{"a": {}}}
	_, err := NewSet(m, m)
	require.ErrorContains(t, err, "duplicate machine id")
}

func TestCanTransition(t *testing.T) {
	set := testSet(t)

	tests := []struct {
		machine, state, event string
		want                  bool
	}{
		{TaskFlow, "todo", "START", true},
		{TaskFlow, "todo", "COMPLETE", false},
		{TaskFlow, "in_progress", "COMPLETE", true},
		{TaskFlow, "done", "REOPEN", true},
		{TaskFlow, "done", "COMPLETE", false},
		{ShipmentFlow, "delivered", "SHIP", false}, // terminal
		{TaskFlow, "nonexistent", "START", false},
		{"no_such_machine", "todo", "START", false},
	}
	for _, tt := range tests {
		got := set.CanTransition(tt.machine, tt.state, tt.event)
		require.Equal(t, tt.want, got, "%s/%s/%s", tt.machine, tt.state, tt.event)
	}
}

func TestNextState(t *testing.T) {
	set := testSet(t)

	next, ok := set.NextState(TaskFlow, "todo", "START")
	require.True(t, ok)
	require.Equal(t, "in_progress", next)

	_, ok = set.NextState(TaskFlow, "todo", "COMPLETE")
	require.False(t, ok)
}

func TestValidEvents(t *testing.T) {
	set := testSet(t)

	require.Equal(t, []string{"BLOCK", "START"}, set.ValidEvents(TaskFlow, "todo"))
	require.Empty(t, set.ValidEvents(ShipmentFlow, "delivered"), "terminal state")
	require.Empty(t, set.ValidEvents(TaskFlow, "nope"), "unknown state")
	require.Empty(t, set.ValidEvents("no_such_machine", "todo"), "unknown machine")
}

func TestStateMeta(t *testing.T) {
	set := testSet(t)

	meta, ok := set.StateMeta(TaskFlow, "in_progress")
	require.True(t, ok)
	require.Equal(t, "In Progress", meta.Label)
	require.NotEmpty(t, meta.Color)

	_, ok = set.StateMeta(TaskFlow, "nope")
	require.False(t, ok)
}

// For every machine and state, ValidEvents returns exactly the keys of the
// state's transition map, and CanTransition agrees with membership.
func TestTransitionValidity(t *testing.T) {
	set := testSet(t)

	for _, id := range set.IDs() {
		m, ok := set.Machine(id)
		require.True(t, ok)
		for _, stateName := range m.StateNames() {
			state := m.States[stateName]
			events := set.ValidEvents(id, stateName)
			require.Len(t, events, len(state.On))
			for _, event := range events {
				_, inMap := state.On[event]
				require.True(t, inMap)
				require.True(t, set.CanTransition(id, stateName, event))
			}
		}
	}
}

// NextState is a pure function: identical arguments yield identical results.
func TestNextStateDeterminism(t *testing.T) {
	set := testSet(t)

	rapid.Check(t, func(r *rapid.T) {
		machineID := rapid.SampledFrom(append(set.IDs(), "bogus")).Draw(r, "machine")
		state := rapid.SampledFrom([]string{"todo", "in_progress", "done", "active", "pending", "nope"}).Draw(r, "state")
		event := rapid.SampledFrom([]string{"START", "COMPLETE", "SHIP", "RESUME", "NOPE"}).Draw(r, "event")

		next1, ok1 := set.NextState(machineID, state, event)
		next2, ok2 := set.NextState(machineID, state, event)
		require.Equal(t, ok1, ok2)
		require.Equal(t, next1, next2)
	})
}
