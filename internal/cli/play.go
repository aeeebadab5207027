package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/palaver/internal/tui"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Lines string
	Start string
}

// NewPlayCommand creates the play command: the full-screen dialogue player.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play <script>",
		Short: "Play a dialogue script in a full-screen player",
		Long: `Play a dialogue script in an alternate-screen terminal player.
Enter advances past a line; number keys answer a choice; q quits.

Example:
  palaver play shop.yaml --lines shop_lines.yaml
  palaver play shop.yaml --db save.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(opts.RootOptions, args[0], opts.Lines)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := sess.close(); closeErr != nil {
					slog.Error("error closing variable store", "error", closeErr)
				}
			}()

			start := opts.Start
			if start == "" {
				start = sess.walker.StartNode()
			}
			if err := tui.Run(sess.runner, start); err != nil {
				return WrapExitError(ExitFailure, "play failed", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Lines, "lines", "", "line table for localization")
	cmd.Flags().StringVar(&opts.Start, "start", "", "start node (default: the script's startNodeId)")

	return cmd
}
