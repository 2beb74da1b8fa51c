package deconj

import (
	"slices"
	"strings"
)

// ProcessSeparator joins the labels of one derivation.
const ProcessSeparator = "→"

// DerivationSeparator joins distinct derivations of the same base.
const DerivationSeparator = "; "

// Describe renders the process chain in conjugation order, innermost
// inflection first, skipping unlabelled internal steps: a form reached
// by undoing past, then negative, then potential reads
// "potential→negative→past".
func (f Form) Describe() string {
	labels := make([]string, 0, len(f.Process))
	for i := len(f.Process) - 1; i >= 0; i-- {
		if f.Process[i] != "" {
			labels = append(labels, f.Process[i])
		}
	}
	return strings.Join(labels, ProcessSeparator)
}

// Describe renders every distinct non-empty process chain of forms,
// sorted and joined with DerivationSeparator. It returns "" when no form
// has a chain to show.
func Describe(forms []Form) string {
	var chains []string
	for _, f := range forms {
		if d := f.Describe(); d != "" {
			chains = append(chains, d)
		}
	}
	slices.Sort(chains)
	return strings.Join(unique(chains), DerivationSeparator)
}

// Filter returns the forms whose text is text and whose last tag is tag.
func Filter(forms []Form, text, tag string) []Form {
	var out []Form
	for _, f := range forms {
		if f.Text == text && f.LastTag() == tag {
			out = append(out, f)
		}
	}
	return out
}

// Group collects forms sharing a final text and last tag.
type Group struct {
	Text  string
	Tag   string
	Forms []Form
}

// Describe renders the group's derivations, see Describe.
func (g Group) Describe() string {
	return Describe(g.Forms)
}

// GroupForms buckets forms by (Text, LastTag) in first-seen order. Forms
// without a tag are skipped: the untouched input, and texts only rewritten
// by substitutions, have no grammatical class to report.
func GroupForms(forms []Form) []Group {
	type key struct{ text, tag string }
	index := make(map[key]int)
	var groups []Group
	for _, f := range forms {
		if len(f.Tags) == 0 {
			continue
		}
		k := key{f.Text, f.LastTag()}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Text: f.Text, Tag: k.tag})
		}
		groups[i].Forms = append(groups[i].Forms, f)
	}
	return groups
}

// unique removes adjacent duplicates from a sorted slice.
func unique(ss []string) []string {
	return slices.Compact(ss)
}
