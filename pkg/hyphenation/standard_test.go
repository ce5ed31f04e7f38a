package hyphenation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadEnglish(t *testing.T) *Standard {
	t.Helper()
	dict, err := Load(EnglishUS)
	require.NoError(t, err)
	return dict
}

func TestHyphenate(t *testing.T) {
	dict := loadEnglish(t)

	tests := []struct {
		word     string
		expected []int
		desc     string
	}{
		{"hyphenation", []int{2, 6}, "classic Liang example"},
		{"Hyphenation", []int{2, 6}, "case insensitive"},
		{"wrapping", []int{4}, "double consonant"},
		{"wrapper", []int{4}, "double consonant before suffix"},
		{"textwrap", []int{3}, "compound"},
		{"table", []int{2}, "exception list"},
		{"present", nil, "exception without breaks"},
		{"text", nil, "short word"},
		{"small", nil, "no odd values"},
		{"wrapping.", nil, "punctuation"},
		{"don't", nil, "apostrophe"},
		{"", nil, "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.expected, dict.Hyphenate(tt.word), "Hyphenate(%q)", tt.word)
		})
	}
}

func TestHyphenateRespectsMinimums(t *testing.T) {
	dict := loadEnglish(t)
	left, right := dict.Minimums()
	assert.Equal(t, 2, left)
	assert.Equal(t, 3, right)

	for _, word := range []string{"hyphenation", "concatenation", "dictionary", "character"} {
		n := len(word)
		for _, at := range dict.Hyphenate(word) {
			assert.GreaterOrEqual(t, at, left, word)
			assert.LessOrEqual(t, at, n-right, word)
		}
	}
}

func TestHyphenateByteOffsets(t *testing.T) {
	dict := loadEnglish(t)

	// "é" takes two bytes, so offsets after it shift by one.
	word := "hyphénation"
	breaks := dict.Hyphenate(word)
	for _, at := range breaks {
		assert.True(t, at > 0 && at < len(word))
		assert.NotPanics(t, func() { _ = word[:at] + "-" + word[at:] })
	}
}

func TestHyphenated(t *testing.T) {
	dict := loadEnglish(t)

	assert.Equal(t, "hy-phen-ation", dict.Hyphenated("hyphenation", "-"))
	assert.Equal(t, "wrap\u00adping", dict.Hyphenated("wrapping", "\u00ad"))
	assert.Equal(t, "text", dict.Hyphenated("text", "-"))
	assert.Equal(t, EnglishUS, dict.Language())
}

func TestHyphenatedReferenceWords(t *testing.T) {
	dict := loadEnglish(t)

	// Breaks produced by plain TeX with the same patterns and minimums.
	words := []string{
		"al-go-rithm", "as-so-ciate", "char-ac-ters", "com-mu-ni-ca-tion",
		"com-puter", "de-vel-op-ment", "doc-u-ment", "en-vi-ron-ment",
		"ex-am-ple", "gov-ern-ment", "in-for-ma-tion", "in-ter-na-tional",
		"li-brary", "na-tional", "para-graph", "per-for-mance",
		"pro-gram-ming", "re-la-tion-ship", "rep-re-sen-ta-tion", "struc-ture",
		"tech-nol-ogy", "type-set-ting", "uni-ver-sity",
	}
	for _, want := range words {
		word := strings.ReplaceAll(want, "-", "")
		assert.Equal(t, want, dict.Hyphenated(word, "-"))
	}
}
