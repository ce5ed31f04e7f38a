package hyphenation

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// patternSet holds Liang patterns keyed by their letters. The value has one
// level per inter-letter position, including both ends.
type patternSet struct {
	levels map[string][]uint8
	maxLen int
}

// parsePatterns reads patterns such as "hy3ph" or ".ach4", one or more per
// line. Lines starting with '%' or '#' are comments.
func parsePatterns(r io.Reader) (*patternSet, error) {
	set := &patternSet{levels: make(map[string][]uint8)}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "%") || strings.HasPrefix(text, "#") {
			continue
		}
		for _, field := range strings.Fields(text) {
			letters, levels, err := parsePattern(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			set.levels[letters] = levels
			if n := len(levels) - 1; n > set.maxLen {
				set.maxLen = n
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(set.levels) == 0 {
		return nil, ErrEmptyPatterns
	}
	return set, nil
}

func parsePattern(field string) (string, []uint8, error) {
	var letters []rune
	levels := []uint8{0}
	for _, r := range field {
		if r >= '0' && r <= '9' {
			levels[len(levels)-1] = uint8(r - '0')
			continue
		}
		if r != '.' && !unicode.IsLetter(r) && r != '\'' {
			return "", nil, fmt.Errorf("%w %q", ErrBadPattern, field)
		}
		letters = append(letters, unicode.ToLower(r))
		levels = append(levels, 0)
	}
	if len(letters) == 0 {
		return "", nil, fmt.Errorf("%w %q", ErrBadPattern, field)
	}
	return string(letters), levels, nil
}

// parseExceptions reads words with explicit hyphens ("ta-ble"). A word
// without hyphens is never broken.
func parseExceptions(r io.Reader) (map[string][]int, error) {
	exceptions := make(map[string][]int)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "%") || strings.HasPrefix(text, "#") {
			continue
		}
		for _, field := range strings.Fields(text) {
			var word []rune
			var breaks []int
			for _, r := range field {
				if r == '-' {
					if len(word) == 0 {
						return nil, fmt.Errorf("%w %q", ErrBadPattern, field)
					}
					breaks = append(breaks, len(word))
					continue
				}
				word = append(word, unicode.ToLower(r))
			}
			if len(word) == 0 || (len(breaks) > 0 && breaks[len(breaks)-1] == len(word)) {
				return nil, fmt.Errorf("%w %q", ErrBadPattern, field)
			}
			exceptions[string(word)] = breaks
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return exceptions, nil
}
