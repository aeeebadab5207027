package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/palaver/internal/command"
	"github.com/roach88/palaver/internal/dialogue"
	"github.com/roach88/palaver/internal/lines"
	"github.com/roach88/palaver/internal/runtime"
	"github.com/roach88/palaver/internal/vars"
)

// State is the orchestrator's view of the current run.
//
// INVARIANTS:
//   - AwaitingChoice implies Running and not Finished
//   - Finished implies not Running
//   - at most one of AwaitingChoice and Finished is true
type State struct {
	NodeID         string // active node, empty before the first node entry
	Running        bool
	AwaitingChoice bool
	Finished       bool
	LastEvent      dialogue.Event
}

// Runner is the execution control loop. It owns the Execution State
// exclusively; all mutation happens inside the single active Start,
// Continue, or SelectOption invocation.
type Runner struct {
	rt     runtime.Runtime
	store  vars.Store
	lines  lines.Provider
	router *command.Router
	tokens TokenGenerator

	state    State
	stopped  bool
	runToken string
	seq      int64

	subs  map[Kind][]subscriber
	subID int64
}

// Option configures a Runner.
type Option func(*Runner)

// WithTokenGenerator overrides the run-token generator. Tests use
// NewFixedGenerator for deterministic traces.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(r *Runner) {
		r.tokens = g
	}
}

// New creates a Runner. All four collaborators are required; there are no
// implicit defaults, so unrelated runs never share hidden state. Use
// vars.NewMemory and command.DefaultRouter to request default-configured
// collaborators explicitly.
func New(rt runtime.Runtime, store vars.Store, provider lines.Provider, router *command.Router, opts ...Option) *Runner {
	r := &Runner{
		rt:     rt,
		store:  store,
		lines:  provider,
		router: router,
		tokens: UUIDGenerator{},
		subs:   make(map[Kind][]subscriber),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns a copy of the current Execution State.
func (r *Runner) State() State {
	return r.state
}

// RunToken returns the token stamped on the current run's notifications.
func (r *Runner) RunToken() string {
	return r.runToken
}

// Start initializes a run: resets the runtime's per-run state, pushes
// durable variables into the working set, positions the runtime at the
// named node, then drives the step loop until a pause or completion.
func (r *Runner) Start(ctx context.Context, node string) error {
	r.runToken = r.tokens.Generate()
	r.seq = 0
	r.stopped = false
	r.state = State{Running: true}

	// A fresh run gets a fresh visited set and working set; values the
	// previous run held that durable storage no longer has must not leak
	// into this one.
	r.rt.Reset()
	if err := r.syncVariables(ctx); err != nil {
		return err
	}
	r.rt.SetActiveNode(node)

	slog.Debug("run started", "run", r.runToken, "node", node)
	return r.loop(ctx)
}

// Continue resumes the step loop after a line pause. Fails with
// InvalidStateError while awaiting a choice, after completion, or before
// any run has started.
func (r *Runner) Continue(ctx context.Context) error {
	if r.state.AwaitingChoice {
		return &InvalidStateError{Op: "continue", Reason: "dialogue is awaiting a choice"}
	}
	if r.state.Finished {
		return &InvalidStateError{Op: "continue", Reason: "dialogue already finished"}
	}
	if !r.state.Running {
		return &InvalidStateError{Op: "continue", Reason: "no run in progress"}
	}
	return r.loop(ctx)
}

// SelectOption resolves the pending choice set by index and resumes the
// step loop. Fails with InvalidStateError when no choice is pending; an
// out-of-range index fails with the runtime's InvalidOptionError and
// leaves state untouched.
func (r *Runner) SelectOption(ctx context.Context, index int) error {
	if !r.state.AwaitingChoice {
		return &InvalidStateError{Op: "select option", Reason: "dialogue is not awaiting a choice"}
	}
	if err := r.rt.SelectOption(index); err != nil {
		return err
	}
	r.state.AwaitingChoice = false
	return r.loop(ctx)
}

// Stop marks the run stopped without further stepping. Cooperative: a loop
// in flight notices at the top of its next iteration. Idempotent; calling
// it again, or after completion, changes nothing.
func (r *Runner) Stop() {
	r.stopped = true
	r.state.Running = false
	r.state.AwaitingChoice = false
	r.state.Finished = true
}

// Variable reads a variable, preferring durable storage and falling back
// to the runtime's working value.
func (r *Runner) Variable(ctx context.Context, name string) (dialogue.Value, bool, error) {
	v, ok, err := r.store.Get(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return v, true, nil
	}
	v, ok = r.rt.Variable(name)
	return v, ok, nil
}

// SetVariable writes through: durable storage first, then the runtime's
// working set. Both see the value before the next step is taken.
func (r *Runner) SetVariable(ctx context.Context, name string, v dialogue.Value) error {
	if err := r.store.Set(ctx, name, v); err != nil {
		return err
	}
	r.rt.SetVariable(name, v)
	return nil
}

// syncVariables seeds the runtime working set from durable storage.
func (r *Runner) syncVariables(ctx context.Context) error {
	names, err := r.store.Names(ctx)
	if err != nil {
		return fmt.Errorf("sync variables: %w", err)
	}
	for _, name := range names {
		v, ok, err := r.store.Get(ctx, name)
		if err != nil {
			return fmt.Errorf("sync variable %q: %w", name, err)
		}
		if ok {
			r.rt.SetVariable(name, v)
		}
	}
	return nil
}

// loop drives the runtime until a pausing event, completion, or stop.
// Every event variant is handled explicitly; an unknown variant is a
// programming error, not a silent skip.
func (r *Runner) loop(ctx context.Context) error {
	for {
		if r.stopped {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		ev, err := r.rt.Step()
		if err != nil {
			return fmt.Errorf("runtime step: %w", err)
		}
		if ev == nil {
			return r.complete()
		}
		r.state.LastEvent = ev

		switch ev := ev.(type) {
		case dialogue.TextEvent:
			line := r.resolveLine(ctx, ev.ID, ev.Substitutions)
			return r.notify(Notification{Kind: KindLine, Line: &line})

		case dialogue.OptionsEvent:
			r.state.AwaitingChoice = true
			return r.notify(Notification{Kind: KindOptions, Options: r.resolveOptions(ctx, ev.Options)})

		case dialogue.CommandEvent:
			if err := r.notify(Notification{Kind: KindCommand, Command: ev.Command}); err != nil {
				return err
			}
			handled, err := r.router.Dispatch(ctx, ev.Command, loopEnv{r})
			if err != nil {
				return fmt.Errorf("command %q: %w", ev.Command, err)
			}
			if !handled {
				slog.Debug("unrecognized command", "run", r.runToken, "command", ev.Command)
			}

		case dialogue.NodeEnteredEvent:
			r.state.NodeID = ev.Node
			if err := r.notify(Notification{Kind: KindNodeStart, Node: ev.Node}); err != nil {
				return err
			}

		case dialogue.NodeExitedEvent:
			if err := r.notify(Notification{Kind: KindNodeEnd, Node: ev.Node}); err != nil {
				return err
			}

		case dialogue.LinesNeededEvent:
			if err := r.lines.Preload(ctx, ev.IDs); err != nil {
				// Preloading is advisory; a failed warm-up never fails the run.
				slog.Warn("line preload failed", "run", r.runToken, "ids", ev.IDs, "error", err)
			}

		case dialogue.FinishedEvent:
			return r.complete()

		default:
			return fmt.Errorf("unhandled dialogue event %T", ev)
		}
	}
}

// complete marks the run finished and notifies observers exactly once.
func (r *Runner) complete() error {
	if r.state.Finished {
		return nil
	}
	r.state.Finished = true
	r.state.Running = false
	r.state.AwaitingChoice = false
	slog.Debug("run finished", "run", r.runToken)
	return r.notify(Notification{Kind: KindComplete})
}

// resolveLine asks the provider for localized text, substituting a visible
// placeholder when the ID is unknown. A missing line never fails the run.
func (r *Runner) resolveLine(ctx context.Context, id string, subs []dialogue.Value) lines.Line {
	if line, ok := r.lines.Resolve(ctx, id, subs); ok {
		return line
	}
	slog.Debug("missing line", "run", r.runToken, "id", id)
	return lines.Line{ID: id, Text: Placeholder(id), Substitutions: subs}
}

func (r *Runner) resolveOptions(ctx context.Context, opts []dialogue.Option) []ResolvedOption {
	resolved := make([]ResolvedOption, len(opts))
	for i, opt := range opts {
		text := Placeholder(opt.LineID)
		if line, ok := r.lines.Resolve(ctx, opt.LineID, nil); ok {
			text = line.Text
		}
		resolved[i] = ResolvedOption{Option: opt, Text: text}
	}
	return resolved
}

// Placeholder is the visible stand-in for a line ID the provider does not
// know. It keeps the requested ID readable in playtesting output.
func Placeholder(id string) string {
	return fmt.Sprintf("((missing line: %s))", id)
}

// loopEnv adapts the Runner to the command capability contract. Continue
// is a no-op because the loop resumes automatically after every command.
type loopEnv struct {
	r *Runner
}

var _ command.Env = loopEnv{}

func (e loopEnv) Variable(ctx context.Context, name string) (dialogue.Value, bool, error) {
	return e.r.Variable(ctx, name)
}

func (e loopEnv) SetVariable(ctx context.Context, name string, v dialogue.Value) error {
	return e.r.SetVariable(ctx, name, v)
}

func (e loopEnv) Stop() {
	e.r.Stop()
}

func (e loopEnv) Continue() {}
