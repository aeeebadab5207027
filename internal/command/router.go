// Package command routes dialogue command lines to registered handlers.
//
// A command line is a verb followed by whitespace-separated arguments.
// Verbs are matched case-insensitively. Handlers run against a small
// capability Env rather than the orchestrator itself, so they can be
// tested in isolation and cannot reach into loop state.
package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/palaver/internal/dialogue"
)

// Env is the capability set exposed to command handlers.
type Env interface {
	// Variable reads a dialogue variable.
	Variable(ctx context.Context, name string) (dialogue.Value, bool, error)
	// SetVariable writes a dialogue variable through the orchestrator's
	// write-through ordering (durable first, then working set).
	SetVariable(ctx context.Context, name string, v dialogue.Value) error
	// Stop halts the current run.
	Stop()
	// Continue is a no-op: the control loop resumes automatically after a
	// command. It exists so handlers written against other hosts keep
	// working.
	Continue()
}

// Handler executes one command. Blocking is allowed: the control loop does
// not step past a command until its handler returns, so an asynchronous
// delay simply blocks here (honoring ctx cancellation).
type Handler func(ctx context.Context, args []string, env Env) error

// Router maps verbs to handlers, with an optional fallback for
// unrecognized verbs.
type Router struct {
	handlers map[string]Handler
	fallback Handler
}

// NewRouter creates a router with no handlers registered. Use
// DefaultRouter for one with the built-in commands.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// Register binds a handler to a verb, replacing any previous binding.
// Verbs are stored lowercased; dispatch is case-insensitive.
func (r *Router) Register(verb string, h Handler) {
	r.handlers[strings.ToLower(verb)] = h
}

// SetFallback installs a handler for verbs with no registered handler.
// The fallback receives the full argument list including the verb.
func (r *Router) SetFallback(h Handler) {
	r.fallback = h
}

// Dispatch parses a command line and invokes the matching handler.
//
// Returns handled=false for an empty line or an unrecognized verb with no
// fallback installed; unrecognized commands are not errors. A non-nil
// error comes from the handler itself and propagates unmodified.
func (r *Router) Dispatch(ctx context.Context, line string, env Env) (handled bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	verb := strings.ToLower(fields[0])

	if h, ok := r.handlers[verb]; ok {
		return true, h(ctx, fields[1:], env)
	}
	if r.fallback != nil {
		return true, r.fallback(ctx, fields, env)
	}
	return false, nil
}

// Verbs returns the registered verbs. Used for diagnostics.
func (r *Router) Verbs() []string {
	verbs := make([]string, 0, len(r.handlers))
	for v := range r.handlers {
		verbs = append(verbs, v)
	}
	return verbs
}

func argError(verb, usage string) error {
	return fmt.Errorf("%s: usage: %s", verb, usage)
}
