// Package deconj enumerates the grammatical deconjugations of a single
// Japanese word form. Given 読めなかった it produces every candidate base
// text reachable by reversing inflections (読む via potential, negative and
// past, among many others), leaving it to the caller to keep the
// candidates that are real dictionary words.
//
// Rules come from a declarative corpus parsed once into an immutable
// Repository; the embedded corpus is available through DefaultRules.
package deconj

import (
	"log/slog"
)

// Limits bounds the expansion of a single input.
type Limits struct {
	// MaxExtraRunes is how many runes a candidate text may grow beyond
	// the input before it is pruned.
	MaxExtraRunes int
	// MaxExtraSteps is how many rule applications beyond the input's rune
	// count a candidate may accumulate before it is pruned.
	MaxExtraSteps int
}

// DefaultLimits are generous enough for every chain in the embedded corpus.
var DefaultLimits = Limits{MaxExtraRunes: 10, MaxExtraSteps: 6}

// Deconjugator holds a loaded rule repository and an optional result
// cache. It is safe for concurrent use.
type Deconjugator struct {
	rules  *Repository
	cache  *Cache
	limits Limits
	logger *slog.Logger
}

// Option configures a Deconjugator.
type Option func(*Deconjugator)

// WithCache memoizes results in c. Without it every call recomputes.
func WithCache(c *Cache) Option {
	return func(d *Deconjugator) { d.cache = c }
}

// WithLimits overrides DefaultLimits. Non-positive fields keep the default.
func WithLimits(l Limits) Option {
	return func(d *Deconjugator) {
		if l.MaxExtraRunes > 0 {
			d.limits.MaxExtraRunes = l.MaxExtraRunes
		}
		if l.MaxExtraSteps > 0 {
			d.limits.MaxExtraSteps = l.MaxExtraSteps
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(d *Deconjugator) { d.logger = l }
}

// New returns a Deconjugator over a loaded repository. The repository is
// the one precondition of the engine, so a nil one panics.
func New(rules *Repository, opts ...Option) *Deconjugator {
	if rules == nil {
		panic("deconj: New called with nil Repository")
	}
	d := &Deconjugator{
		rules:  rules,
		limits: DefaultLimits,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDefault loads the embedded corpus and returns a Deconjugator with a
// cache of DefaultCacheSize entries.
func NewDefault() (*Deconjugator, error) {
	rules, err := DefaultRules()
	if err != nil {
		return nil, err
	}
	return New(rules, WithCache(NewCache(DefaultCacheSize, 0))), nil
}

// Rules returns the repository the Deconjugator was built from.
func (d *Deconjugator) Rules() *Repository {
	return d.rules
}

// Cache returns the result cache, or nil.
func (d *Deconjugator) Cache() *Cache {
	return d.cache
}

// Deconjugate returns every form reachable from text, the untouched input
// first, with no two forms equal. When useCache is true and a cache is
// configured, a previous result for text is returned as is; such slices
// are shared and must be treated as read-only.
func (d *Deconjugator) Deconjugate(text string, useCache bool) []Form {
	if useCache && d.cache != nil {
		if forms, ok := d.cache.Get(text); ok {
			return forms
		}
	}
	forms := d.expand(text)
	if useCache && d.cache != nil {
		d.cache.Add(text, forms)
	}
	return forms
}
