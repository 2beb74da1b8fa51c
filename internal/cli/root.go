// Package cli implements the deconj command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hoverdict/deconj"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Rules   string // rule corpus file; empty means the embedded corpus
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the deconj CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "deconj",
		Short: "Japanese deconjugator",
		Long: `Enumerate the grammatical deconjugations of Japanese word forms.

Each input is reduced to every candidate base form reachable by undoing
inflections, together with the chain of inflections that was undone.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Rules, "rules", "", "rule corpus file (default: embedded corpus)")

	cmd.AddCommand(NewDeconjugateCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// loadRules returns the repository named by path, or the embedded one.
func loadRules(path string) (*deconj.Repository, error) {
	if path == "" {
		return deconj.DefaultRules()
	}
	return deconj.LoadRules(path)
}

// newLogger returns a text logger on w at level, lowered to debug when
// verbose is set.
func newLogger(w io.Writer, level slog.Level, verbose bool) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
