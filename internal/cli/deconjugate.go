package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hoverdict/deconj"
)

// GroupResult is one candidate base form of a word.
type GroupResult struct {
	Text           string `json:"text"`
	Tag            string `json:"tag"`
	TagDescription string `json:"tag_description,omitempty"`
	Process        string `json:"process"`
}

// WordResult holds every candidate for one input word.
type WordResult struct {
	Text   string        `json:"text"`
	Groups []GroupResult `json:"groups"`
	Forms  []deconj.Form `json:"forms,omitempty"`
}

// NewDeconjugateCommand creates the deconjugate command.
func NewDeconjugateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		all bool
		tag string
	)
	cmd := &cobra.Command{
		Use:     "deconjugate <word>...",
		Aliases: []string{"d"},
		Short:   "List the deconjugations of each word",
		Example: `  deconj deconjugate 読めなかった
  deconj deconjugate --tag v5g 繋がせん
  deconj --format json deconjugate 食べさせられた`,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeconjugate(rootOpts, cmd, args, all, tag)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include every intermediate form in JSON output")
	cmd.Flags().StringVar(&tag, "tag", "", "only show candidates whose last tag is this")
	return cmd
}

func runDeconjugate(opts *RootOptions, cmd *cobra.Command, words []string, all bool, tag string) error {
	p := newPrinter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	rules, err := loadRules(opts.Rules)
	if err != nil {
		return ruleLoadError(p, err)
	}
	p.Notef("Loaded %d rules", rules.Len())

	d := deconj.New(rules, deconj.WithLogger(newLogger(cmd.ErrOrStderr(), slog.LevelWarn, opts.Verbose)))
	results := make([]WordResult, 0, len(words))
	for _, word := range words {
		text := deconj.Normalize(word)
		forms := d.Deconjugate(text, false)
		p.Notef("%s: %d forms", text, len(forms))

		res := WordResult{Text: text, Groups: []GroupResult{}}
		for _, g := range deconj.GroupForms(forms) {
			if tag != "" && g.Tag != tag {
				continue
			}
			res.Groups = append(res.Groups, GroupResult{
				Text:           g.Text,
				Tag:            g.Tag,
				TagDescription: deconj.TagDescription(g.Tag),
				Process:        g.Describe(),
			})
		}
		if all {
			res.Forms = forms
		}
		results = append(results, res)
	}

	return p.Result(results, func(w io.Writer) {
		for _, res := range results {
			fmt.Fprintln(w, res.Text)
			if len(res.Groups) == 0 {
				fmt.Fprintln(w, "  (no deconjugations)")
				continue
			}
			for _, g := range res.Groups {
				fmt.Fprintf(w, "  %s [%s]: %s\n", g.Text, g.Tag, g.Process)
			}
		}
	})
}

// ruleLoadError prints a corpus that could not be loaded and returns the
// error with its exit code: ExitRules for a malformed corpus, ExitSetup
// for anything else.
func ruleLoadError(p *Printer, err error) error {
	code, exit := ErrCodeGeneric, ExitSetup
	switch {
	case errors.Is(err, os.ErrNotExist):
		code = ErrCodeNotFound
	case errors.Is(err, deconj.ErrMalformedRule):
		code, exit = ErrCodeMalformed, ExitRules
	}
	var details any
	var re *deconj.RuleError
	if errors.As(err, &re) {
		details = map[string]int{"index": re.Index, "line": re.Line}
	}
	if outErr := p.Problem(code, err.Error(), details); outErr != nil {
		return outErr
	}
	return exitError(exit, "load rules", err)
}
