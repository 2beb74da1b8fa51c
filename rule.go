package deconj

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleKind selects how a rule matches the current text and which forms
// it may apply to.
type RuleKind string

const (
	// KindStd is a plain suffix substitution gated by the last tag.
	KindStd RuleKind = "stdrule"
	// KindRewrite replaces the whole text; the text must equal the trigger.
	KindRewrite RuleKind = "rewriterule"
	// KindOnlyFinal only applies to the untouched input (no tag yet).
	KindOnlyFinal RuleKind = "onlyfinalrule"
	// KindNeverFinal never applies to the untouched input.
	KindNeverFinal RuleKind = "neverfinalrule"
	// KindContext is a suffix substitution with an extra named predicate.
	KindContext RuleKind = "contextrule"
	// KindSubstitution is a plain-text contraction: every occurrence of the
	// trigger is replaced and the tag stack is left alone.
	KindSubstitution RuleKind = "substitution"
)

func (k RuleKind) valid() bool {
	switch k {
	case KindStd, KindRewrite, KindOnlyFinal, KindNeverFinal, KindContext, KindSubstitution:
		return true
	}
	return false
}

// tagged reports whether rules of this kind read and push tags.
func (k RuleKind) tagged() bool {
	return k != KindSubstitution
}

// ErrMalformedRule is wrapped by every corpus validation error.
var ErrMalformedRule = errors.New("malformed rule")

// RuleError reports a corpus entry that failed validation.
type RuleError struct {
	// Index is the 0-based position of the entry in the corpus.
	Index int
	// Line is the source line of the entry, 0 if unknown.
	Line int
	// Msg describes the problem.
	Msg string
}

func (e *RuleError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("rule %d (line %d): %s", e.Index, e.Line, e.Msg)
	}
	return fmt.Sprintf("rule %d: %s", e.Index, e.Msg)
}

func (e *RuleError) Unwrap() error { return ErrMalformedRule }

// Rule is one compiled, reversible grammatical step.
type Rule struct {
	Kind RuleKind
	// ConEnd is the trigger: a suffix, a whole word for KindRewrite, or a
	// substring for KindSubstitution.
	ConEnd string
	// DecEnd replaces ConEnd.
	DecEnd string
	// ConTag is the tag the form's stack must end with.
	ConTag string
	// DecTag is pushed onto the stack when the rule applies.
	DecTag string
	// Detail is the label appended to the process chain. An empty detail
	// marks an internal step that cannot be the first one applied.
	Detail string
	// Context names an extra predicate from contextFuncs, if any.
	Context string
}

// String renders the rule in a compact, log-friendly form.
func (r Rule) String() string {
	if r.Kind == KindSubstitution {
		return fmt.Sprintf("%s %q→%q (%s)", r.Kind, r.ConEnd, r.DecEnd, r.Detail)
	}
	return fmt.Sprintf("%s %q[%s]→%q[%s] (%s)", r.Kind, r.ConEnd, r.ConTag, r.DecEnd, r.DecTag, r.Detail)
}

// stringList decodes either a YAML scalar or a sequence of scalars.
type stringList []string

func (s *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var v string
		if err := value.Decode(&v); err != nil {
			return err
		}
		*s = stringList{v}
		return nil
	case yaml.SequenceNode:
		var v []string
		if err := value.Decode(&v); err != nil {
			return err
		}
		*s = v
		return nil
	}
	return fmt.Errorf("line %d: expected string or list of strings", value.Line)
}

// Entry is one declarative corpus entry. List fields are zipped
// element-wise and single values are broadcast, so one entry may compile
// to several rules.
type Entry struct {
	Type    RuleKind   `yaml:"type"`
	Detail  string     `yaml:"detail"`
	ConEnd  stringList `yaml:"con_end"`
	DecEnd  stringList `yaml:"dec_end"`
	ConTag  stringList `yaml:"con_tag"`
	DecTag  stringList `yaml:"dec_tag"`
	Context string     `yaml:"context"`
}

// entryFields lists the keys an entry may carry.
var entryFields = map[string]bool{
	"type":    true,
	"detail":  true,
	"con_end": true,
	"dec_end": true,
	"con_tag": true,
	"dec_tag": true,
	"context": true,
}

// width returns the number of rules the entry expands to, or an error if
// the list fields disagree.
func (e *Entry) width() (int, error) {
	n := 1
	for _, l := range []struct {
		name string
		v    stringList
	}{
		{"con_end", e.ConEnd},
		{"dec_end", e.DecEnd},
		{"con_tag", e.ConTag},
		{"dec_tag", e.DecTag},
	} {
		switch {
		case len(l.v) <= 1:
		case n == 1:
			n = len(l.v)
		case len(l.v) != n:
			return 0, fmt.Errorf("%s has %d values, expected %d", l.name, len(l.v), n)
		}
	}
	return n, nil
}

// at returns element i of l, broadcasting single values.
func (l stringList) at(i int) (string, bool) {
	switch len(l) {
	case 0:
		return "", false
	case 1:
		return l[0], true
	}
	return l[i], true
}

// compile validates the entry and expands it into rules.
func (e *Entry) compile() ([]Rule, error) {
	if !e.Type.valid() {
		return nil, fmt.Errorf("unknown type %q", e.Type)
	}
	if e.Type == KindContext && e.Context == "" {
		return nil, errors.New("contextrule without context")
	}
	if e.Context != "" {
		if _, ok := contextFuncs[e.Context]; !ok {
			return nil, fmt.Errorf("unknown context %q", e.Context)
		}
	}
	n, err := e.width()
	if err != nil {
		return nil, err
	}

	rules := make([]Rule, 0, n)
	for i := 0; i < n; i++ {
		r := Rule{Kind: e.Type, Detail: e.Detail, Context: e.Context}
		var ok bool
		if r.ConEnd, ok = e.ConEnd.at(i); !ok {
			return nil, errors.New("missing con_end")
		}
		if r.DecEnd, ok = e.DecEnd.at(i); !ok {
			return nil, errors.New("missing dec_end")
		}
		r.ConTag, _ = e.ConTag.at(i)
		r.DecTag, _ = e.DecTag.at(i)
		if err := r.validate(); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// validate rejects rules that could never terminate or never match.
func (r *Rule) validate() error {
	if r.Kind.tagged() {
		if r.DecTag == "" {
			return fmt.Errorf("%s: missing dec_tag", r.ConEnd)
		}
		if r.ConTag == "" && r.Kind != KindOnlyFinal {
			return fmt.Errorf("%s: missing con_tag", r.ConEnd)
		}
	}
	if r.ConEnd == "" && (r.Kind == KindRewrite || r.Kind == KindSubstitution) {
		return fmt.Errorf("%s with empty con_end", r.Kind)
	}
	if r.ConEnd == r.DecEnd && (r.ConTag == r.DecTag || !r.Kind.tagged()) {
		return fmt.Errorf("%q→%q is a no-op", r.ConEnd, r.DecEnd)
	}
	if r.Kind == KindSubstitution && strings.Contains(r.DecEnd, r.ConEnd) {
		return fmt.Errorf("substitution %q→%q re-triggers itself", r.ConEnd, r.DecEnd)
	}
	return nil
}

// contextFuncs are the named predicates a rule may require. stem is the
// text left once the trigger has been removed.
var contextFuncs = map[string]func(f Form, stem string) bool{
	// v1inftrap keeps the empty-trigger ichidan rules off stems that
	// cannot end an ichidan verb.
	"v1inftrap": func(_ Form, stem string) bool {
		r, ok := lastRune(stem)
		return ok && (isIRow(r) || isERow(r) || isKanji(r))
	},
	// saspecial blocks さ-doubling on する-type causatives.
	"saspecial": func(_ Form, stem string) bool {
		return stem != "" && !strings.HasSuffix(stem, "さ")
	},
}
