package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/palaver/internal/dialogue"
)

// DefaultRouter returns a router with the built-in commands registered:
// wait, stop, and set. Callers wanting a bare router use NewRouter.
func DefaultRouter() *Router {
	r := NewRouter()
	RegisterBuiltins(r)
	return r
}

// RegisterBuiltins registers the built-in command set on an existing
// router.
func RegisterBuiltins(r *Router) {
	r.Register("wait", Wait)
	r.Register("stop", Stop)
	r.Register("set", Set)
}

// Wait delays for the given number of seconds before returning. The
// control loop resumes automatically afterward; continuation is implicit.
// Cancelling ctx aborts the delay.
func Wait(ctx context.Context, args []string, _ Env) error {
	if len(args) != 1 {
		return argError("wait", "wait <seconds>")
	}
	seconds, err := strconv.ParseFloat(args[0], 64)
	if err != nil || seconds < 0 {
		return fmt.Errorf("wait: invalid duration %q", args[0])
	}

	timer := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop halts the current run.
func Stop(_ context.Context, _ []string, env Env) error {
	env.Stop()
	return nil
}

// Set writes a dialogue variable: `set $name value`. The value is parsed
// into the most specific scalar (bool, then number, else string); values
// with spaces may be quoted. The write goes through Env, so durable
// storage and the runtime working set both see it before the next step.
func Set(ctx context.Context, args []string, env Env) error {
	if len(args) < 2 {
		return argError("set", "set $name value")
	}
	name, ok := strings.CutPrefix(args[0], "$")
	if !ok || name == "" {
		return fmt.Errorf("set: variable name must start with '$', got %q", args[0])
	}
	v := dialogue.ParseScalar(strings.Join(args[1:], " "))
	return env.SetVariable(ctx, name, v)
}
