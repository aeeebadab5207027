package dialogue

import (
	"fmt"
	"strings"
)

// Event is a sealed sum type over everything a dialogue runtime can report
// from a single step. Exactly one event is produced per step; events are
// totally ordered within a run.
//
// The control loop switches over the concrete variants exhaustively. A new
// variant must be handled at that dispatch point; there is no silent
// default path.
type Event interface {
	event() // Sealed - only the types below implement it
}

// TextEvent reports a line of dialogue to present. ID is an opaque line key
// resolved by the localization collaborator; Substitutions are positional
// values inserted into the resolved text.
type TextEvent struct {
	ID            string
	Substitutions []Value
}

func (TextEvent) event() {}

// Option is one selectable branch offered at a choice point. Index is
// unique within the current set. Destination names the node the option
// advances to; empty means the dialogue ends on selection.
type Option struct {
	Index       int
	LineID      string
	Enabled     bool
	Destination string
}

// OptionsEvent presents the current choice set. The runtime accepts
// SelectOption only between this event and the selection that resolves it.
type OptionsEvent struct {
	Options []Option
}

func (OptionsEvent) event() {}

// CommandEvent carries a raw command line for the host to dispatch.
type CommandEvent struct {
	Command string
}

func (CommandEvent) event() {}

// NodeEnteredEvent reports that execution entered a node. Emitted at most
// once per node per run.
type NodeEnteredEvent struct {
	Node string
}

func (NodeEnteredEvent) event() {}

// NodeExitedEvent reports that execution left a node.
type NodeExitedEvent struct {
	Node string
}

func (NodeExitedEvent) event() {}

// FinishedEvent reports that the dialogue concluded. Emitted exactly once
// per run; subsequent steps produce no events until reset or reload.
type FinishedEvent struct{}

func (FinishedEvent) event() {}

// LinesNeededEvent is an advisory preload hint listing line IDs that will
// be requested shortly.
type LinesNeededEvent struct {
	IDs []string
}

func (LinesNeededEvent) event() {}

// DescribeEvent renders an event as a single stable line of text, used for
// traces and golden files.
func DescribeEvent(ev Event) string {
	switch ev := ev.(type) {
	case TextEvent:
		if len(ev.Substitutions) == 0 {
			return fmt.Sprintf("text %s", ev.ID)
		}
		subs := make([]string, len(ev.Substitutions))
		for i, s := range ev.Substitutions {
			subs[i] = Render(s)
		}
		return fmt.Sprintf("text %s [%s]", ev.ID, strings.Join(subs, ", "))
	case OptionsEvent:
		parts := make([]string, len(ev.Options))
		for i, opt := range ev.Options {
			state := ""
			if !opt.Enabled {
				state = " disabled"
			}
			parts[i] = fmt.Sprintf("%d:%s%s", opt.Index, opt.LineID, state)
		}
		return fmt.Sprintf("options [%s]", strings.Join(parts, " "))
	case CommandEvent:
		return fmt.Sprintf("command %s", ev.Command)
	case NodeEnteredEvent:
		return fmt.Sprintf("node-entered %s", ev.Node)
	case NodeExitedEvent:
		return fmt.Sprintf("node-exited %s", ev.Node)
	case FinishedEvent:
		return "finished"
	case LinesNeededEvent:
		return fmt.Sprintf("lines-needed [%s]", strings.Join(ev.IDs, " "))
	default:
		// Unreachable while Event stays sealed.
		return fmt.Sprintf("unknown %T", ev)
	}
}
