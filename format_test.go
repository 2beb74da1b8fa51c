package deconj

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chainCorpus = `
- type: stdrule
  detail: past
  con_end: かった
  dec_end: い
  con_tag: uninflectable
  dec_tag: adj-i
- type: stdrule
  detail: negative
  con_end: ない
  dec_end: ""
  con_tag: adj-i
  dec_tag: stem-mizenkei
- type: contextrule
  context: v1inftrap
  detail: ""
  con_end: ""
  dec_end: る
  con_tag: stem-mizenkei
  dec_tag: v1
- type: stdrule
  detail: potential
  con_end: める
  dec_end: む
  con_tag: v1
  dec_tag: v5m
`

func renderForms(forms []Form) []byte {
	var b bytes.Buffer
	for _, f := range forms {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", f.Text, strings.Join(f.Tags, " "), f.Describe())
	}
	return b.Bytes()
}

func TestDeconjugateGolden(t *testing.T) {
	repo, err := ParseRules(strings.NewReader(chainCorpus))
	require.NoError(t, err)

	forms := New(repo).Deconjugate("読めなかった", false)
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "yomenakatta", renderForms(forms))
}

func TestFormDescribe(t *testing.T) {
	f := Form{Process: []string{"past", "negative", "", "potential"}}
	assert.Equal(t, "potential→negative→past", f.Describe())
	assert.Equal(t, "", newSeed("x").Describe())
}

func TestDescribe(t *testing.T) {
	a := Form{Text: "繋ぐ", Tags: []string{"v1", "v5g"}, Process: []string{"slurred negative", "", "causative", ""}}
	b := Form{Text: "繋ぐ", Tags: []string{"v5g"}, Process: []string{"slurred", "causative", ""}}
	assert.Equal(t, "causative→slurred; causative→slurred negative", Describe([]Form{a, b}))
	assert.Equal(t, "causative→slurred; causative→slurred negative", Describe([]Form{b, a, b}))
	assert.Equal(t, "causative→slurred", Describe([]Form{b}))
	assert.Equal(t, "", Describe(nil))
	assert.Equal(t, "", Describe([]Form{newSeed("繋ぐ")}))
}

func TestFilterAndGroup(t *testing.T) {
	repo, err := ParseRules(strings.NewReader(chainCorpus))
	require.NoError(t, err)
	forms := New(repo).Deconjugate("読めなかった", false)

	matches := Filter(forms, "読む", "v5m")
	require.Len(t, matches, 1)
	assert.Equal(t, "potential→negative→past", matches[0].Describe())
	assert.Empty(t, Filter(forms, "読む", "v1"))

	groups := GroupForms(forms)
	require.Len(t, groups, 4)
	assert.Equal(t, "読めない", groups[0].Text)
	assert.Equal(t, "adj-i", groups[0].Tag)
	assert.Equal(t, "読む", groups[3].Text)
	assert.Equal(t, "potential→negative→past", groups[3].Describe())
}

func TestFormEqualAndKey(t *testing.T) {
	a := Form{Text: "a", OriginalText: "a", Tags: []string{}, Process: []string{}, SeenText: []string{}}
	b := Form{Text: "a", OriginalText: "a", Tags: []string{}, Process: []string{""}, SeenText: []string{}}
	assert.False(t, a.Equal(b))
	assert.NotEqual(t, a.key(), b.key())

	c := Form{Text: "a", OriginalText: "a", Tags: []string{"x", "y"}, Process: []string{}, SeenText: []string{}}
	d := Form{Text: "a", OriginalText: "a", Tags: []string{"xy"}, Process: []string{}, SeenText: []string{}}
	assert.NotEqual(t, c.key(), d.key())
	assert.Equal(t, a.key(), newSeed("a").key())
	assert.True(t, a.Equal(newSeed("a")))
}

func TestDeriveDoesNotAlias(t *testing.T) {
	base := Form{Text: "ab", OriginalText: "ab", Tags: make([]string, 1, 8), Process: make([]string, 1, 8), SeenText: make([]string, 1, 8)}
	r1 := &Rule{Kind: KindStd, DecTag: "x", Detail: "one"}
	r2 := &Rule{Kind: KindStd, DecTag: "y", Detail: "two"}

	f1 := base.derive("a", r1)
	f2 := base.derive("b", r2)
	assert.Equal(t, "x", f1.LastTag())
	assert.Equal(t, "y", f2.LastTag())
	assert.Equal(t, "one", f1.Process[1])
	assert.Len(t, base.Tags, 1)
}
