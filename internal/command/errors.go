package command

import (
	"fmt"
	"strings"

	"github.com/trovehq/trove/internal/validate"
)

// UnknownTypeError reports a command issued for a type the registry does not
// know. Unlike an unregistered type showing up during display adaptation,
// this is a hard failure: mutations require full metadata.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown entity type %q", e.Type)
}

// ValidationError carries the per-field failures from schema validation.
type ValidationError struct {
	Type   string
	Fields validate.FieldErrors
}

func (e *ValidationError) Error() string {
	fields := e.Fields.Fields()
	return fmt.Sprintf("validation failed for %s: %s", e.Type, strings.Join(fields, ", "))
}

// TransitionError reports an event the current state does not accept, or a
// transition attempted on a type with no machine.
type TransitionError struct {
	Type        string
	ID          string
	MachineID   string
	State       string
	Event       string
	ValidEvents []string
}

func (e *TransitionError) Error() string {
	if e.MachineID == "" {
		return fmt.Sprintf("%s %s has no state machine", e.Type, e.ID)
	}
	if len(e.ValidEvents) == 0 {
		return fmt.Sprintf("event %q not valid in state %q (terminal state)", e.Event, e.State)
	}
	return fmt.Sprintf("event %q not valid in state %q (valid: %s)",
		e.Event, e.State, strings.Join(e.ValidEvents, ", "))
}

// PersistenceError wraps a storage failure encountered while executing a
// command.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
