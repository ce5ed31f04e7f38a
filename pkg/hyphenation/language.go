package hyphenation

import (
	"fmt"
	"regexp"
	"strings"
)

// Language identifies a hyphenation pattern set by its hyph-utf8 code.
type Language string

// Languages with well known pattern sets. Only EnglishUS is bundled; the
// others resolve when their files are present in a patterns directory.
const (
	EnglishUS  Language = "en-us"
	EnglishGB  Language = "en-gb"
	German1996 Language = "de-1996"
	French     Language = "fr"
	Spanish    Language = "es"
	Italian    Language = "it"
	Dutch      Language = "nl"
	Portuguese Language = "pt"
	Latin      Language = "la"
)

// Hyphen minimums used when a pattern set carries no manifest entry.
const (
	defaultLeftMin  = 2
	defaultRightMin = 2
)

var knownMinimums = map[Language][2]int{
	EnglishUS:  {2, 3},
	EnglishGB:  {2, 3},
	German1996: {2, 2},
	French:     {2, 3},
	Spanish:    {2, 2},
	Italian:    {2, 2},
	Dutch:      {2, 2},
	Portuguese: {2, 3},
	Latin:      {2, 2},
}

var languagePattern = regexp.MustCompile(`^[a-z]{2,3}(-[a-z0-9]+)*$`)

// ParseLanguage normalizes a code such as "en_US" or "EN-us" to a Language.
func ParseLanguage(code string) (Language, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	if !languagePattern.MatchString(normalized) {
		return "", fmt.Errorf("invalid language code %q", code)
	}
	return Language(normalized), nil
}

func (l Language) String() string {
	return string(l)
}

func minimumsFor(lang Language) (left, right int) {
	if m, ok := knownMinimums[lang]; ok {
		return m[0], m[1]
	}
	return defaultLeftMin, defaultRightMin
}
