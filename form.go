package deconj

import (
	"slices"
	"strings"
)

// Form is one node of the expansion: the current text together with the
// tags and labels that led to it. Forms are values; the engine never
// mutates one after creating it and callers must not either.
type Form struct {
	// Text is the current, possibly deconjugated, surface string.
	Text string `json:"text"`
	// OriginalText is the caller's input.
	OriginalText string `json:"original_text"`
	// Tags holds the grammatical-class tags pushed so far; only the last
	// one gates the next step.
	Tags []string `json:"tags"`
	// Process holds one label per applied rule, in application order
	// (outermost inflection first).
	Process []string `json:"process"`
	// SeenText holds every intermediate Text after the input.
	SeenText []string `json:"seen_text"`
}

// newSeed returns the untouched form for text.
func newSeed(text string) Form {
	return Form{
		Text:         text,
		OriginalText: text,
		Tags:         []string{},
		Process:      []string{},
		SeenText:     []string{},
	}
}

// LastTag returns the last tag of the stack, or "" for the untouched input.
func (f Form) LastTag() string {
	if len(f.Tags) == 0 {
		return ""
	}
	return f.Tags[len(f.Tags)-1]
}

// Untouched reports whether no rule has been applied yet.
func (f Form) Untouched() bool {
	return len(f.Process) == 0
}

// Equal reports whether every field of f and o matches.
func (f Form) Equal(o Form) bool {
	return f.Text == o.Text &&
		f.OriginalText == o.OriginalText &&
		slices.Equal(f.Tags, o.Tags) &&
		slices.Equal(f.Process, o.Process) &&
		slices.Equal(f.SeenText, o.SeenText)
}

// key is a string identical for, and only for, Equal forms. Separators
// are control characters that never occur in corpus strings.
func (f Form) key() string {
	var b strings.Builder
	b.WriteString(f.Text)
	b.WriteByte(0)
	b.WriteString(f.OriginalText)
	for _, part := range [][]string{f.Tags, f.Process, f.SeenText} {
		b.WriteByte(0)
		for _, s := range part {
			b.WriteString(s)
			b.WriteByte(0x1f)
		}
		b.WriteByte(0x1e)
	}
	return b.String()
}

// derive builds the form produced by applying r, yielding text.
// Slices are copied, never shared with f.
func (f Form) derive(text string, r *Rule) Form {
	var tags []string
	if r.Kind.tagged() {
		tags = append(slices.Clip(f.Tags), r.DecTag)
	} else {
		tags = slices.Clone(f.Tags)
	}
	return Form{
		Text:         text,
		OriginalText: f.OriginalText,
		Tags:         tags,
		Process:      append(slices.Clip(f.Process), r.Detail),
		SeenText:     append(slices.Clip(f.SeenText), text),
	}
}
