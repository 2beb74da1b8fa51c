package deconj

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/deconjugator.yaml
var defaultCorpus []byte

// Repository is an immutable, parsed rule corpus. It is safe for
// concurrent use by any number of Deconjugators.
type Repository struct {
	rules []Rule

	// byLast maps the final rune of a trigger to rule indices, in corpus order.
	byLast map[rune][]int
	// always lists rules that must be tried on every text: empty triggers
	// and substitutions.
	always []int
}

// Rules returns a copy of the compiled rules in corpus order.
func (r *Repository) Rules() []Rule {
	return slices.Clone(r.rules)
}

// Len returns the number of compiled rules.
func (r *Repository) Len() int {
	return len(r.rules)
}

// Tags returns every distinct tag the corpus reads or pushes, sorted.
func (r *Repository) Tags() []string {
	seen := make(map[string]bool)
	var tags []string
	for _, rule := range r.rules {
		for _, t := range []string{rule.ConTag, rule.DecTag} {
			if t != "" && !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	slices.Sort(tags)
	return tags
}

// candidates returns the indices of the rules that may match text, in
// corpus order.
func (r *Repository) candidates(text string) []int {
	last, ok := lastRune(text)
	if !ok {
		return r.always
	}
	return mergeSorted(r.always, r.byLast[last])
}

// mergeSorted merges two ascending index lists.
func mergeSorted(a, b []int) []int {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return b
	}
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] < b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// newRepository indexes rules.
func newRepository(rules []Rule) *Repository {
	repo := &Repository{
		rules:  rules,
		byLast: make(map[rune][]int),
	}
	for i, rule := range rules {
		last, ok := lastRune(rule.ConEnd)
		if !ok || rule.Kind == KindSubstitution {
			repo.always = append(repo.always, i)
			continue
		}
		repo.byLast[last] = append(repo.byLast[last], i)
	}
	return repo
}

// ParseRules reads a YAML (or JSON) corpus: a top-level sequence of
// entries. Any malformed entry fails the whole parse; the returned error
// wraps ErrMalformedRule and names the entry and its line.
func ParseRules(r io.Reader) (*Repository, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty corpus", ErrMalformedRule)
		}
		return nil, fmt.Errorf("decode rule corpus: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: line %d: corpus must be a list of entries", ErrMalformedRule, root.Line)
	}

	var rules []Rule
	for i, node := range root.Content {
		compiled, err := compileNode(node)
		if err != nil {
			return nil, &RuleError{Index: i, Line: node.Line, Msg: err.Error()}
		}
		rules = append(rules, compiled...)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: corpus has no rules", ErrMalformedRule)
	}
	return newRepository(rules), nil
}

// compileNode decodes a single entry, rejecting unknown keys.
func compileNode(node *yaml.Node) ([]Rule, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errors.New("entry must be a mapping")
	}
	for k := 0; k+1 < len(node.Content); k += 2 {
		if key := node.Content[k].Value; !entryFields[key] {
			return nil, fmt.Errorf("unknown field %q", key)
		}
	}
	var e Entry
	if err := node.Decode(&e); err != nil {
		return nil, err
	}
	e.normalize()
	return e.compile()
}

// normalize puts every corpus string in NFC so triggers match normalized input.
func (e *Entry) normalize() {
	e.Detail = Normalize(e.Detail)
	for _, l := range []stringList{e.ConEnd, e.DecEnd, e.ConTag, e.DecTag} {
		for i := range l {
			l[i] = Normalize(l[i])
		}
	}
}

// LoadRules parses the corpus file at path.
func LoadRules(path string) (*Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rule corpus: %w", err)
	}
	defer f.Close()

	repo, err := ParseRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return repo, nil
}

var defaultRules = sync.OnceValues(func() (*Repository, error) {
	return ParseRules(bytes.NewReader(defaultCorpus))
})

// DefaultRules returns the embedded corpus, parsed on first use and
// shared afterwards.
func DefaultRules() (*Repository, error) {
	return defaultRules()
}

// Loader runs a repository load function exactly once in the background.
// Start may be called from anywhere at startup; Wait blocks until the
// load has finished.
type Loader struct {
	load func() (*Repository, error)

	once sync.Once
	done chan struct{}
	repo *Repository
	err  error
}

// NewLoader returns a Loader for load. A nil load function loads the
// embedded corpus.
func NewLoader(load func() (*Repository, error)) *Loader {
	if load == nil {
		load = DefaultRules
	}
	return &Loader{
		load: load,
		done: make(chan struct{}),
	}
}

// Start begins loading if it has not started yet. It never blocks.
func (l *Loader) Start() {
	l.once.Do(func() {
		go func() {
			defer close(l.done)
			l.repo, l.err = l.load()
		}()
	})
}

// Wait starts the load if needed and blocks until it completes or ctx
// is done. A failed load returns its error on every call.
func (l *Loader) Wait(ctx context.Context) (*Repository, error) {
	l.Start()
	select {
	case <-l.done:
		return l.repo, l.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done is closed once the load has finished.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}
