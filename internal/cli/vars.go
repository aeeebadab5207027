package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/palaver/internal/dialogue"
	"github.com/roach88/palaver/internal/vars"
)

// NewVarsCommand creates the vars command group for inspecting and
// editing the durable variable store.
func NewVarsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vars",
		Short: "Inspect and edit the variable store",
		Long: `Read and write the durable variable store directly, outside a run.
Requires --db; the in-memory store has no state between invocations.

Example:
  palaver vars set stat_gold 150 --db save.db
  palaver vars list --db save.db`,
	}

	cmd.AddCommand(newVarsGetCommand(rootOpts))
	cmd.AddCommand(newVarsSetCommand(rootOpts))
	cmd.AddCommand(newVarsDelCommand(rootOpts))
	cmd.AddCommand(newVarsListCommand(rootOpts))
	cmd.AddCommand(newVarsClearCommand(rootOpts))

	return cmd
}

func newVarsGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <name>",
		Short:         "Print a variable's value",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, s vars.Store, out *OutputFormatter) error {
				v, ok, err := s.Get(ctx, args[0])
				if err != nil {
					return WrapExitError(ExitFailure, "read variable", err)
				}
				if !ok {
					_ = out.Failure(fmt.Sprintf("variable %q not set", args[0]))
					return WrapExitError(ExitFailure, fmt.Sprintf("variable %q not set", args[0]), nil)
				}
				return out.Success(dialogue.Render(v), varEntry{Name: args[0], Value: dialogue.Render(v)})
			})
		},
	}
}

func newVarsSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "set <name> <value>",
		Short:         "Write a variable",
		Long:          "Write a variable. Values parse as bool, then number, then string;\nquote a value to force a string.",
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, s vars.Store, out *OutputFormatter) error {
				v := dialogue.ParseScalar(strings.Join(args[1:], " "))
				if err := s.Set(ctx, args[0], v); err != nil {
					return WrapExitError(ExitFailure, "write variable", err)
				}
				return out.Success(fmt.Sprintf("%s = %s", args[0], dialogue.Render(v)),
					varEntry{Name: args[0], Value: dialogue.Render(v)})
			})
		},
	}
}

func newVarsDelCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "del <name>",
		Short:         "Delete a variable",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, s vars.Store, out *OutputFormatter) error {
				if err := s.Delete(ctx, args[0]); err != nil {
					return WrapExitError(ExitFailure, "delete variable", err)
				}
				return out.Success(fmt.Sprintf("deleted %s", args[0]), varEntry{Name: args[0]})
			})
		},
	}
}

func newVarsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List all variables",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, s vars.Store, out *OutputFormatter) error {
				names, err := s.Names(ctx)
				if err != nil {
					return WrapExitError(ExitFailure, "list variables", err)
				}
				entries := make([]varEntry, 0, len(names))
				var b strings.Builder
				for _, name := range names {
					v, ok, err := s.Get(ctx, name)
					if err != nil {
						return WrapExitError(ExitFailure, "list variables", err)
					}
					if !ok {
						continue
					}
					rendered := dialogue.Render(v)
					entries = append(entries, varEntry{Name: name, Value: rendered})
					fmt.Fprintf(&b, "%s = %s\n", name, rendered)
				}
				return out.Success(strings.TrimRight(b.String(), "\n"), entries)
			})
		},
	}
}

func newVarsClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Delete every variable",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, s vars.Store, out *OutputFormatter) error {
				if err := s.Clear(ctx); err != nil {
					return WrapExitError(ExitFailure, "clear variables", err)
				}
				return out.Success("cleared", nil)
			})
		},
	}
}

type varEntry struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// withStore opens the configured store, runs fn, and closes the store.
func withStore(rootOpts *RootOptions, cmd *cobra.Command, fn func(context.Context, vars.Store, *OutputFormatter) error) error {
	store, closeStore, err := buildStore(rootOpts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeStore(); closeErr != nil {
			slog.Error("error closing variable store", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	return fn(ctx, store, out)
}
