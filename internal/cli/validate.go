package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/palaver/internal/dialogue"
	"github.com/roach88/palaver/internal/lines"
	"github.com/roach88/palaver/internal/runtime"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Lines string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <script>",
		Short: "Check a dialogue script for structural problems",
		Long: `Decode a dialogue script and verify its graph shape: the start node
resolves, every next reference resolves, and choice IDs are unique.

With --lines, additionally reports line IDs the table cannot resolve.

Example:
  palaver validate shop.yaml
  palaver validate shop.yaml --lines shop_lines.yaml --locale es`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Lines, "lines", "", "line table to check line IDs against")

	return cmd
}

type validateReport struct {
	Script       string   `json:"script"`
	Nodes        int      `json:"nodes"`
	MissingLines []string `json:"missing_lines,omitempty"`
}

func runValidate(opts *ValidateOptions, scriptPath string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	program, err := os.ReadFile(scriptPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "read script", err)
	}
	g, err := dialogue.DecodeGraph(program)
	if err != nil {
		_ = out.Failure(err.Error())
		return WrapExitError(ExitCommandError, "invalid script", err)
	}

	report := validateReport{Script: scriptPath, Nodes: len(g.Nodes)}
	if opts.Lines != "" {
		provider, err := buildProvider(opts.RootOptions, opts.Lines)
		if err != nil {
			return err
		}
		report.MissingLines = missingLines(g, provider)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d nodes, start %q", scriptPath, len(g.Nodes), g.Start)
	if len(report.MissingLines) > 0 {
		fmt.Fprintf(&b, "\nmissing lines: %s", strings.Join(report.MissingLines, ", "))
	}
	return out.Success(b.String(), report)
}

// missingLines collects line IDs the provider cannot resolve, in sorted
// order. Command nodes are skipped; they produce no text.
func missingLines(g *dialogue.Graph, provider lines.Provider) []string {
	ctx := context.Background()
	seen := make(map[string]bool)
	var missing []string
	check := func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		if _, ok := provider.Resolve(ctx, id, nil); !ok {
			missing = append(missing, id)
		}
	}

	for _, node := range g.Nodes {
		if node.IsChoice {
			for _, c := range node.Choices {
				check(c.LineID)
			}
			continue
		}
		if !strings.HasPrefix(node.Content, runtime.CommandPrefix) {
			check(node.LineID)
		}
	}
	sort.Strings(missing)
	return missing
}
