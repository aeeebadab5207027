package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/palaver/internal/runner"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Lines string
	Start string
}

// NewRunCommand creates the run command: an interactive stdin player.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Play a dialogue script on the terminal",
		Long: `Run a dialogue script interactively. Lines are printed one at a time;
press Enter to continue, or type an option number when offered a choice.
Type q to stop.

Example:
  palaver run shop.yaml --lines shop_lines.yaml
  palaver run shop.yaml --db save.db --start offer`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Lines, "lines", "", "line table for localization")
	cmd.Flags().StringVar(&opts.Start, "start", "", "start node (default: the script's startNodeId)")

	return cmd
}

func runInteractive(opts *RunOptions, scriptPath string, cmd *cobra.Command) error {
	sess, err := newSession(opts.RootOptions, scriptPath, opts.Lines)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := sess.close(); closeErr != nil {
			slog.Error("error closing variable store", "error", closeErr)
		}
	}()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			sess.runner.Stop()
			cancel()
		case <-ctx.Done():
		}
	}()

	out := cmd.OutOrStdout()
	var pendingOptions []runner.ResolvedOption
	sess.runner.SubscribeAll(func(n runner.Notification) error {
		return printNotification(out, n, &pendingOptions)
	})

	start := opts.Start
	if start == "" {
		start = sess.walker.StartNode()
	}
	if err := sess.runner.Start(ctx, start); err != nil {
		return WrapExitError(ExitFailure, "run failed", err)
	}

	return promptLoop(ctx, sess, bufio.NewScanner(cmd.InOrStdin()), out, &pendingOptions)
}

// promptLoop reads host input between pauses: Enter acknowledges a line,
// a number answers a choice, q stops.
func promptLoop(ctx context.Context, sess *session, in *bufio.Scanner, out io.Writer, pendingOptions *[]runner.ResolvedOption) error {
	for !sess.runner.State().Finished {
		if sess.runner.State().AwaitingChoice {
			fmt.Fprint(out, "> ")
		}
		if !in.Scan() {
			sess.runner.Stop()
			break
		}
		input := strings.TrimSpace(in.Text())
		if input == "q" {
			sess.runner.Stop()
			break
		}

		if sess.runner.State().AwaitingChoice {
			index, err := strconv.Atoi(input)
			if err != nil {
				fmt.Fprintf(out, "pick an option number (0-%d)\n", len(*pendingOptions)-1)
				continue
			}
			if err := sess.runner.SelectOption(ctx, index); err != nil {
				fmt.Fprintf(out, "%v\n", err)
			}
			continue
		}

		if err := sess.runner.Continue(ctx); err != nil {
			return WrapExitError(ExitFailure, "run failed", err)
		}
	}
	return in.Err()
}

// printNotification renders run output for the terminal player.
func printNotification(out io.Writer, n runner.Notification, pendingOptions *[]runner.ResolvedOption) error {
	switch n.Kind {
	case runner.KindLine:
		fmt.Fprintln(out, n.Line.Text)
	case runner.KindOptions:
		*pendingOptions = n.Options
		for _, opt := range n.Options {
			marker := " "
			if !opt.Enabled {
				marker = "x"
			}
			fmt.Fprintf(out, " [%d]%s %s\n", opt.Index, marker, opt.Text)
		}
	case runner.KindComplete:
		fmt.Fprintln(out, "(dialogue finished)")
	}
	return nil
}
