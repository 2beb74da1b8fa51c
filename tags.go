package deconj

// Tags used by the embedded corpus. Verb and adjective classes follow the
// JMdict part-of-speech codes so results can be matched against dictionary
// entries directly; stem tags only ever appear in the middle of a chain.
const (
	TagUninflectable = "uninflectable"
	TagAdjI          = "adj-i"
	TagV1            = "v1"
	TagVsI           = "vs-i"
	TagVk            = "vk"
	TagStemRen       = "stem-ren"
	TagStemMizenkei  = "stem-mizenkei"
	TagStemTe        = "stem-te"
	TagStemAdjBase   = "stem-adj-base"
)

var tagDescriptions = map[string]string{
	"uninflectable": "fully inflected, takes no further endings",
	"adj-i":         "i-adjective",
	"adj-ix":        "i-adjective (いい/よい class)",
	"v1":            "ichidan verb",
	"v5u":           "godan verb, -u ending",
	"v5k":           "godan verb, -ku ending",
	"v5k-s":         "godan verb, 行く class",
	"v5g":           "godan verb, -gu ending",
	"v5s":           "godan verb, -su ending",
	"v5t":           "godan verb, -tsu ending",
	"v5n":           "godan verb, -nu ending",
	"v5b":           "godan verb, -bu ending",
	"v5m":           "godan verb, -mu ending",
	"v5r":           "godan verb, -ru ending",
	"v5r-i":         "godan verb, ある class",
	"v5aru":         "godan verb, -aru honorific class",
	"vk":            "kuru verb",
	"vs-i":          "suru verb",
	"stem-ren":      "continuative (masu) stem",
	"stem-mizenkei": "irrealis (nai) stem",
	"stem-te":       "te form",
	"stem-adj-base": "adjective stem",
}

// TagDescription returns a short English name for tag, or "" if the tag
// is not one the embedded corpus uses.
func TagDescription(tag string) string {
	return tagDescriptions[tag]
}
