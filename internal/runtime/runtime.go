package runtime

import (
	"github.com/roach88/palaver/internal/dialogue"
)

// Runtime is the capability set every dialogue evaluator must implement.
// The control loop drives a Runtime one Step at a time and never reaches
// around it; all position and option state is owned by the implementation.
type Runtime interface {
	// Load replaces the executable dialogue content and resets execution
	// position to the new program's start point. Fails with
	// ProgramFormatError if the payload cannot be decoded into a valid
	// program.
	Load(program []byte) error

	// SetActiveNode jumps execution to a named node, clearing any buffered
	// events and any captured choice set. The node is not validated up
	// front; an unknown node surfaces as a finished event on a later Step.
	SetActiveNode(node string)

	// Step advances exactly one event. Returns nil once the dialogue has
	// concluded and there is nothing left to report.
	Step() (dialogue.Event, error)

	// SelectOption resolves the pending choice set by index. Fails with
	// InvalidOptionError if the index is out of range or no choice set is
	// pending; a failed call does not mutate position.
	SelectOption(index int) error

	// Variable reads from the transient working set.
	Variable(name string) (dialogue.Value, bool)
	// SetVariable writes to the transient working set.
	SetVariable(name string, v dialogue.Value)
	// VariableNames lists the working set's keys in sorted order.
	VariableNames() []string

	// AwaitingChoice reports whether a choice set is pending.
	AwaitingChoice() bool
	// Finished reports whether the dialogue has concluded.
	Finished() bool

	// Reset reinitializes to the program's start point, clearing all
	// transient state including the variable working set.
	Reset()
}
