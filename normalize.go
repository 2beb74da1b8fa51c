package deconj

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns s in Unicode NFC with surrounding whitespace removed.
// Rule triggers are stored in NFC, so input typed with combining dakuten
// (か + U+3099) must be normalized before it can match.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Kana rows used by context predicates. Small kana are left out: they
// never end a verb stem.
const (
	iRowKana = "いきぎしじちぢにひびぴみりゐ"
	eRowKana = "えけげせぜてでねへべぺめれゑ"
)

func isIRow(r rune) bool { return strings.ContainsRune(iRowKana, r) }

func isERow(r rune) bool { return strings.ContainsRune(eRowKana, r) }

// isKanji reports whether r is a Han ideograph or the iteration mark 々.
func isKanji(r rune) bool {
	return r == '々' || unicode.Is(unicode.Han, r)
}

// lastRune returns the final rune of s.
func lastRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r, r != utf8.RuneError
}
