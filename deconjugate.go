package deconj

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// expand runs the worklist to a fixed point. Forms are visited in FIFO
// order and rules in corpus order, so the result order is deterministic.
func (d *Deconjugator) expand(text string) []Form {
	seed := newSeed(text)
	seen := map[string]struct{}{seed.key(): {}}
	result := []Form{seed}
	queue := []Form{seed}

	inputRunes := utf8.RuneCountInString(text)
	maxRunes := inputRunes + d.limits.MaxExtraRunes
	maxSteps := inputRunes + d.limits.MaxExtraSteps
	pruned := 0

	for head := 0; head < len(queue); head++ {
		f := queue[head]
		if f.Text == "" {
			continue
		}
		for _, idx := range d.rules.candidates(f.Text) {
			next, ok := apply(f, &d.rules.rules[idx])
			if !ok {
				continue
			}
			if len(next.Process) > maxSteps || utf8.RuneCountInString(next.Text) > maxRunes {
				pruned++
				continue
			}
			k := next.key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			result = append(result, next)
			queue = append(queue, next)
		}
	}

	if pruned > 0 {
		d.logger.Debug("deconjugation pruned by limits",
			slog.String("text", text),
			slog.Int("pruned", pruned),
			slog.Int("forms", len(result)))
	}
	return result
}

// apply tries r on f and returns the derived form.
func apply(f Form, r *Rule) (Form, bool) {
	untagged := len(f.Tags) == 0
	switch r.Kind {
	case KindOnlyFinal:
		if !untagged {
			return Form{}, false
		}
	case KindNeverFinal:
		if untagged {
			return Form{}, false
		}
	case KindSubstitution:
		// Contractions are undone on the surface text only, before any
		// grammatical step has been reversed.
		if !untagged || !strings.Contains(f.Text, r.ConEnd) {
			return Form{}, false
		}
		return f.derive(strings.ReplaceAll(f.Text, r.ConEnd, r.DecEnd), r), true
	}

	// Internal steps carry no label and cannot be the outermost inflection.
	if r.Detail == "" && untagged {
		return Form{}, false
	}
	// A form with no tag yet has no class, so any required tag fits.
	if !untagged && f.LastTag() != r.ConTag {
		return Form{}, false
	}

	if r.Kind == KindRewrite {
		if f.Text != r.ConEnd {
			return Form{}, false
		}
	} else if !strings.HasSuffix(f.Text, r.ConEnd) {
		return Form{}, false
	}

	stem := f.Text[:len(f.Text)-len(r.ConEnd)]
	if r.Context != "" && !contextFuncs[r.Context](f, stem) {
		return Form{}, false
	}
	return f.derive(stem+r.DecEnd, r), true
}
