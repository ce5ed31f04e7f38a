package hyphenation

import (
	"strings"
	"unicode"
)

// Standard is a loaded hyphenation corpus for one language. It is safe for
// concurrent use.
type Standard struct {
	lang       Language
	patterns   *patternSet
	exceptions map[string][]int
	leftMin    int
	rightMin   int
}

// Language returns the language the corpus was loaded for.
func (s *Standard) Language() Language {
	return s.lang
}

// Minimums returns how many letters must stay before the first and after
// the last hyphen.
func (s *Standard) Minimums() (left, right int) {
	return s.leftMin, s.rightMin
}

// Hyphenate returns the byte offsets in word where a hyphen may be
// inserted, in increasing order. Words containing anything but letters are
// not hyphenated.
func (s *Standard) Hyphenate(word string) []int {
	runes := make([]rune, 0, len(word))
	offsets := make([]int, 0, len(word)+1)
	for i, r := range word {
		if !unicode.IsLetter(r) {
			return nil
		}
		runes = append(runes, unicode.ToLower(r))
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(word))

	var breaks []int
	if points, ok := s.exceptions[string(runes)]; ok {
		breaks = points
	} else {
		breaks = s.liang(runes)
	}
	if len(breaks) == 0 {
		return nil
	}

	result := make([]int, len(breaks))
	for i, b := range breaks {
		result[i] = offsets[b]
	}
	return result
}

// liang applies the patterns to a lower case word and returns rune indexes
// of odd inter-letter values.
func (s *Standard) liang(word []rune) []int {
	n := len(word)
	if n < s.leftMin+s.rightMin {
		return nil
	}

	dotted := make([]rune, 0, n+2)
	dotted = append(dotted, '.')
	dotted = append(dotted, word...)
	dotted = append(dotted, '.')

	points := make([]uint8, len(dotted)+1)
	for i := range dotted {
		end := i + s.patterns.maxLen
		if end > len(dotted) {
			end = len(dotted)
		}
		for j := i + 1; j <= end; j++ {
			levels, ok := s.patterns.levels[string(dotted[i:j])]
			if !ok {
				continue
			}
			for k, v := range levels {
				if v > points[i+k] {
					points[i+k] = v
				}
			}
		}
	}

	// points[i+1] sits between word[i-1] and word[i].
	var breaks []int
	for i := s.leftMin; i <= n-s.rightMin; i++ {
		if points[i+1]%2 == 1 {
			breaks = append(breaks, i)
		}
	}
	return breaks
}

// Hyphenated renders word with sep at every break, e.g. "hy-phen-ation".
func (s *Standard) Hyphenated(word, sep string) string {
	breaks := s.Hyphenate(word)
	if len(breaks) == 0 {
		return word
	}
	var b strings.Builder
	last := 0
	for _, at := range breaks {
		b.WriteString(word[last:at])
		b.WriteString(sep)
		last = at
	}
	b.WriteString(word[last:])
	return b.String()
}
