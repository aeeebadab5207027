// Package cli builds the palaver command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Locale  string
	DB      string // path to the SQLite variable store, empty for in-memory
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// envConfig supplies flag defaults from the environment.
type envConfig struct {
	DB     string `env:"PALAVER_DB"`
	Locale string `env:"PALAVER_LOCALE" envDefault:"en"`
	Format string `env:"PALAVER_FORMAT" envDefault:"text"`
}

// NewRootCommand creates the root command for the palaver CLI.
func NewRootCommand() *cobra.Command {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		// Unparseable environment falls back to built-in defaults.
		cfg = envConfig{Locale: "en", Format: "text"}
	}

	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "palaver",
		Short: "palaver - branching dialogue runner",
		Long:  "Run, trace, and validate branching dialogue scripts.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", cfg.Format, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Locale, "locale", cfg.Locale, "locale for line resolution")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", cfg.DB, "path to SQLite variable store (default in-memory)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewVarsCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}
