package deconj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"読めなかった", "読めなかった"},
		{"  食べる\n", "食べる"},
		{"が", "が"},
		{"ぴ", "ぴ"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestKanaRows(t *testing.T) {
	for _, r := range "いきしちにみり" {
		assert.True(t, isIRow(r), "%c", r)
		assert.False(t, isERow(r), "%c", r)
	}
	for _, r := range "えけせてねめれ" {
		assert.True(t, isERow(r), "%c", r)
	}
	for _, r := range "かさうる" {
		assert.False(t, isIRow(r) || isERow(r), "%c", r)
	}
	assert.True(t, isKanji('食'))
	assert.True(t, isKanji('々'))
	assert.False(t, isKanji('か'))
}

func TestLastRune(t *testing.T) {
	r, ok := lastRune("食べ")
	assert.True(t, ok)
	assert.Equal(t, 'べ', r)

	_, ok = lastRune("")
	assert.False(t, ok)
}
