package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/palaver/internal/dialogue"
	"github.com/roach88/palaver/internal/runner"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Lines  string
	Start  string
	Choose []int
	Set    []string
}

// NewTraceCommand creates the trace command: a scripted, non-interactive
// playthrough that prints the notification trace.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <script>",
		Short: "Run a script to completion and print its notification trace",
		Long: `Run a dialogue script non-interactively. Line pauses are acknowledged
automatically; choices are answered from --choose in order. The full
notification trace is printed, one event per line.

Example:
  palaver trace shop.yaml --lines shop_lines.yaml --choose 0
  palaver trace shop.yaml --choose 1,0 --set stat_gold=150`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Lines, "lines", "", "line table for localization")
	cmd.Flags().StringVar(&opts.Start, "start", "", "start node (default: the script's startNodeId)")
	cmd.Flags().IntSliceVar(&opts.Choose, "choose", nil, "option indices to select, in encounter order")
	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "seed a variable before the run (name=value, repeatable)")

	return cmd
}

type traceReport struct {
	Script   string   `json:"script"`
	RunToken string   `json:"run_token"`
	Events   []string `json:"events"`
}

func runTrace(opts *TraceOptions, scriptPath string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	sess, err := newSession(opts.RootOptions, scriptPath, opts.Lines)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := sess.close(); closeErr != nil {
			slog.Error("error closing variable store", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := seedVariables(ctx, sess.runner, opts.Set); err != nil {
		return err
	}

	var trace runner.Trace
	sess.runner.SubscribeAll(trace.Handler())

	start := opts.Start
	if start == "" {
		start = sess.walker.StartNode()
	}
	if err := sess.runner.Start(ctx, start); err != nil {
		_ = out.Failure(err.Error())
		return WrapExitError(ExitFailure, "trace failed", err)
	}

	choices := opts.Choose
	for !sess.runner.State().Finished {
		if sess.runner.State().AwaitingChoice {
			if len(choices) == 0 {
				msg := "script is awaiting a choice but --choose is exhausted"
				_ = out.Failure(msg)
				return WrapExitError(ExitFailure, msg, nil)
			}
			index := choices[0]
			choices = choices[1:]
			if err := sess.runner.SelectOption(ctx, index); err != nil {
				_ = out.Failure(err.Error())
				return WrapExitError(ExitFailure, "trace failed", err)
			}
			continue
		}
		if err := sess.runner.Continue(ctx); err != nil {
			_ = out.Failure(err.Error())
			return WrapExitError(ExitFailure, "trace failed", err)
		}
	}
	if len(choices) > 0 {
		slog.Debug("unused choices", "remaining", len(choices))
	}

	report := traceReport{
		Script:   scriptPath,
		RunToken: sess.runner.RunToken(),
		Events:   trace.Lines,
	}
	return out.Success(strings.TrimRight(trace.String(), "\n"), report)
}

// seedVariables applies --set assignments before the run starts.
func seedVariables(ctx context.Context, r *runner.Runner, assignments []string) error {
	for _, a := range assignments {
		name, raw, ok := strings.Cut(a, "=")
		if !ok || name == "" {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --set %q: expected name=value", a), nil)
		}
		if err := r.SetVariable(ctx, name, dialogue.ParseScalar(raw)); err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("seed variable %q", name), err)
		}
	}
	return nil
}
