package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hoverdict/deconj"
)

// ValidationResult summarizes a corpus that loaded cleanly.
type ValidationResult struct {
	Valid bool     `json:"valid"`
	Rules int      `json:"rules"`
	Tags  []string `json:"tags"`
	// Undescribed lists tags with no entry in the tag catalogue. They
	// are legal but render without a description.
	Undescribed []string `json:"undescribed,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [rules-file]",
		Short: "Check a rule corpus without running it",
		Long: `Parse and compile a rule corpus, reporting the first malformed entry
with its index and line. With no argument the --rules file, or the
embedded corpus, is checked.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootOpts.Rules
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(rootOpts, path, cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	p := newPrinter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	rules, err := loadRules(path)
	if err != nil {
		return ruleLoadError(p, err)
	}

	res := ValidationResult{Valid: true, Rules: rules.Len(), Tags: rules.Tags()}
	for _, tag := range res.Tags {
		if deconj.TagDescription(tag) == "" {
			res.Undescribed = append(res.Undescribed, tag)
		}
	}
	if opts.Verbose {
		for _, r := range rules.Rules() {
			p.Notef("%s", r)
		}
	}

	return p.Result(res, func(w io.Writer) {
		fmt.Fprintf(w, "✓ %d rules, %d tags\n", res.Rules, len(res.Tags))
		for _, tag := range res.Undescribed {
			fmt.Fprintf(w, "  note: tag %q has no description\n", tag)
		}
	})
}
