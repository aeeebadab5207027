package runner

import (
	"fmt"
	"strings"
)

// Trace records notifications as stable, human-readable lines. Attach it
// with SubscribeAll; golden-file tests and the CLI trace command compare
// or print the result.
type Trace struct {
	Lines []string
}

// Handler returns the subscription handler that appends to the trace.
func (t *Trace) Handler() Handler {
	return func(n Notification) error {
		t.Lines = append(t.Lines, DescribeNotification(n))
		return nil
	}
}

// String renders the trace, one notification per line.
func (t *Trace) String() string {
	if len(t.Lines) == 0 {
		return ""
	}
	return strings.Join(t.Lines, "\n") + "\n"
}

// DescribeNotification renders one notification as a stable line of text.
// Sequence numbers are included so total ordering is visible in goldens;
// run tokens are not, so traces stay comparable across runs.
func DescribeNotification(n Notification) string {
	switch n.Kind {
	case KindLine:
		return fmt.Sprintf("%3d line %s %q", n.Seq, n.Line.ID, n.Line.Text)
	case KindOptions:
		parts := make([]string, len(n.Options))
		for i, opt := range n.Options {
			state := ""
			if !opt.Enabled {
				state = " (disabled)"
			}
			parts[i] = fmt.Sprintf("%d=%q%s", opt.Index, opt.Text, state)
		}
		return fmt.Sprintf("%3d options %s", n.Seq, strings.Join(parts, " "))
	case KindCommand:
		return fmt.Sprintf("%3d command %q", n.Seq, n.Command)
	case KindNodeStart:
		return fmt.Sprintf("%3d node-start %s", n.Seq, n.Node)
	case KindNodeEnd:
		return fmt.Sprintf("%3d node-end %s", n.Seq, n.Node)
	case KindComplete:
		return fmt.Sprintf("%3d complete", n.Seq)
	default:
		return fmt.Sprintf("%3d unknown %s", n.Seq, n.Kind)
	}
}
