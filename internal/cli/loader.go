package cli

import (
	"fmt"
	"os"

	"github.com/roach88/palaver/internal/command"
	"github.com/roach88/palaver/internal/lines"
	"github.com/roach88/palaver/internal/runner"
	"github.com/roach88/palaver/internal/runtime"
	"github.com/roach88/palaver/internal/vars"
)

// session bundles the collaborators a command needs to drive a run.
type session struct {
	runner *runner.Runner
	walker *runtime.Walker
	store  vars.Store
	close  func() error
}

// newSession loads a script and wires the runner with explicit
// collaborators: a SQLite store when --db is set (in-memory otherwise),
// a line table when one is given (placeholder-only resolution otherwise),
// and the built-in command set.
func newSession(opts *RootOptions, scriptPath, linesPath string) (*session, error) {
	program, err := os.ReadFile(scriptPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "read script", err)
	}

	w := runtime.NewWalker()
	if err := w.Load(program); err != nil {
		return nil, WrapExitError(ExitCommandError, "load script", err)
	}

	provider, err := buildProvider(opts, linesPath)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := buildStore(opts)
	if err != nil {
		return nil, err
	}

	return &session{
		runner: runner.New(w, store, provider, command.DefaultRouter()),
		walker: w,
		store:  store,
		close:  closeStore,
	}, nil
}

func buildProvider(opts *RootOptions, linesPath string) (lines.Provider, error) {
	if linesPath == "" {
		// No table: every line resolves to a visible placeholder.
		return lines.NewStatic(nil), nil
	}
	data, err := os.ReadFile(linesPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "read line table", err)
	}
	table, err := lines.NewTable(data, opts.Locale)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load line table", err)
	}
	return table, nil
}

func buildStore(opts *RootOptions) (vars.Store, func() error, error) {
	if opts.DB == "" {
		return vars.NewMemory(), func() error { return nil }, nil
	}
	s, err := vars.Open(opts.DB)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, fmt.Sprintf("open variable store %q", opts.DB), err)
	}
	return s, s.Close, nil
}
