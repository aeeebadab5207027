package runtime

import (
	"slices"
	"strings"

	"github.com/roach88/palaver/internal/dialogue"
)

// walkState tracks where the walker is in its node lifecycle.
//
// NotStarted -> Advancing -> (AwaitingChoice | Advancing) -> Finished
//
// Event emission goes through the pending buffer so each Step returns
// exactly one event regardless of how many a node produces.
type walkState int

const (
	stateNotStarted walkState = iota
	stateAdvancing
	stateAwaitingChoice
	stateFinished
)

// CommandPrefix marks an NPC node's content as a command line rather than
// presentable text. The prefix is stripped before dispatch.
const CommandPrefix = "/"

// Walker is the reference Runtime: a deterministic dialogue-graph walker.
//
// INVARIANTS:
//   - pending holds events in emission order; Step only ever pops the head
//   - visited is scoped to the current run; cleared by Reset and Load
//   - options is non-nil exactly while state is stateAwaitingChoice
//   - the finished event is queued at most once (guarded by state)
//
// Walker is not safe for concurrent use; the control loop owns it.
type Walker struct {
	graph   *dialogue.Graph
	pos     string
	state   walkState
	pending []dialogue.Event
	options []dialogue.Option
	visited map[string]bool
	vars    map[string]dialogue.Value
}

var _ Runtime = (*Walker)(nil)

// NewWalker creates a walker with no program loaded. Stepping before Load
// reports the dialogue as concluded.
func NewWalker() *Walker {
	return &Walker{
		visited: make(map[string]bool),
		vars:    make(map[string]dialogue.Value),
	}
}

// Load decodes a serialized graph and resets execution to its start node.
// The variable working set survives a reload; the orchestrator
// resynchronizes it from durable storage at run start.
func (w *Walker) Load(program []byte) error {
	g, err := dialogue.DecodeGraph(program)
	if err != nil {
		return err
	}
	w.graph = g
	w.pos = g.Start
	w.state = stateNotStarted
	w.pending = nil
	w.options = nil
	w.visited = make(map[string]bool)
	return nil
}

// StartNode returns the loaded program's declared start node, or "" when
// no program is loaded.
func (w *Walker) StartNode() string {
	if w.graph == nil {
		return ""
	}
	return w.graph.Start
}

// SetActiveNode jumps to the named node. Buffered events and any captured
// choice set are discarded; a previously finished walker becomes runnable
// again. An unknown node is accepted here and surfaces as a finished event
// on a later Step.
func (w *Walker) SetActiveNode(node string) {
	w.pos = node
	w.pending = nil
	w.options = nil
	w.state = stateAdvancing
}

// Step returns the next event, or nil once the dialogue has concluded.
func (w *Walker) Step() (dialogue.Event, error) {
	if len(w.pending) == 0 {
		w.fill()
	}
	if len(w.pending) == 0 {
		return nil, nil
	}
	ev := w.pending[0]
	w.pending = w.pending[1:]
	return ev, nil
}

// fill processes the node at the current position and queues its events.
// No-op while a choice is pending, after completion, or with no program.
func (w *Walker) fill() {
	if w.state == stateAwaitingChoice || w.state == stateFinished {
		return
	}
	if w.graph == nil || w.pos == "" {
		w.finish()
		return
	}
	node, ok := w.graph.Nodes[w.pos]
	if !ok {
		// Unknown position: concluded, not an error.
		w.finish()
		return
	}
	w.state = stateAdvancing

	if !w.visited[node.ID] {
		w.visited[node.ID] = true
		w.pending = append(w.pending, dialogue.NodeEnteredEvent{Node: node.ID})
	}

	if node.IsChoice {
		w.fillChoice(node)
		return
	}
	w.fillNPC(node)
}

// fillNPC queues an NPC node's events and advances position past it.
// Command content produces a single command event; presentable content
// produces a preload hint, the text, and the node exit.
func (w *Walker) fillNPC(node dialogue.Node) {
	if cmd, ok := strings.CutPrefix(node.Content, CommandPrefix); ok {
		w.pending = append(w.pending, dialogue.CommandEvent{Command: cmd})
	} else {
		w.pending = append(w.pending,
			dialogue.LinesNeededEvent{IDs: []string{node.LineID}},
			dialogue.TextEvent{ID: node.LineID, Substitutions: node.Substitutions},
		)
	}
	w.pending = append(w.pending, dialogue.NodeExitedEvent{Node: node.ID})
	w.pos = node.Next
}

// fillChoice queues a choice node's preload hint and option set, then
// parks the walker until SelectOption. A choice node with zero choices is
// a silent dead end: the dialogue concludes immediately.
func (w *Walker) fillChoice(node dialogue.Node) {
	if len(node.Choices) == 0 {
		w.finish()
		return
	}

	ids := make([]string, len(node.Choices))
	opts := make([]dialogue.Option, len(node.Choices))
	for i, c := range node.Choices {
		ids[i] = c.LineID
		opts[i] = dialogue.Option{
			Index:       i,
			LineID:      c.LineID,
			Enabled:     c.Enabled,
			Destination: c.Next,
		}
	}
	w.options = opts
	w.state = stateAwaitingChoice
	w.pending = append(w.pending,
		dialogue.LinesNeededEvent{IDs: ids},
		dialogue.OptionsEvent{Options: opts},
	)
}

// finish marks the run concluded and queues the finished event exactly once.
func (w *Walker) finish() {
	if w.state == stateFinished {
		return
	}
	w.state = stateFinished
	w.options = nil
	w.pending = append(w.pending, dialogue.FinishedEvent{})
}

// SelectOption resolves the pending choice set. A valid index queues the
// choice node's exit and advances position to the option's destination;
// an invalid call mutates nothing.
func (w *Walker) SelectOption(index int) error {
	if w.state != stateAwaitingChoice {
		return &InvalidOptionError{Index: index}
	}
	if index < 0 || index >= len(w.options) {
		return &InvalidOptionError{Index: index, Available: len(w.options), Pending: true}
	}
	opt := w.options[index]
	w.pending = append(w.pending, dialogue.NodeExitedEvent{Node: w.pos})
	w.pos = opt.Destination
	w.options = nil
	w.state = stateAdvancing
	return nil
}

// Variable reads a value from the working set.
func (w *Walker) Variable(name string) (dialogue.Value, bool) {
	v, ok := w.vars[name]
	return v, ok
}

// SetVariable writes a value to the working set.
func (w *Walker) SetVariable(name string, v dialogue.Value) {
	w.vars[name] = v
}

// VariableNames lists the working set's keys in sorted order for
// deterministic iteration.
func (w *Walker) VariableNames() []string {
	names := make([]string, 0, len(w.vars))
	for name := range w.vars {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// AwaitingChoice reports whether a choice set is pending.
func (w *Walker) AwaitingChoice() bool {
	return w.state == stateAwaitingChoice
}

// Finished reports whether the dialogue has concluded.
func (w *Walker) Finished() bool {
	return w.state == stateFinished
}

// Reset reinitializes to the program's start node, clearing all transient
// state including the variable working set.
func (w *Walker) Reset() {
	if w.graph != nil {
		w.pos = w.graph.Start
	} else {
		w.pos = ""
	}
	w.state = stateNotStarted
	w.pending = nil
	w.options = nil
	w.visited = make(map[string]bool)
	w.vars = make(map[string]dialogue.Value)
}
