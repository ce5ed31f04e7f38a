package hyphenation

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedLanguage is returned when no pattern set exists for a language.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrEmptyPatterns is returned when a pattern file holds no patterns.
	ErrEmptyPatterns = errors.New("no patterns found")
	// ErrBadPattern is returned for a malformed pattern or exception.
	ErrBadPattern = errors.New("malformed pattern")
)

// LoadError reports a failure to load the corpus of a language.
type LoadError struct {
	Language Language
	Op       string // "lookup", "read" or "parse"
	Path     string
	Err      error
}

// Error implements error interface
func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("hyphenation: %s %s (%s): %v", e.Op, e.Language, e.Path, e.Err)
	}
	return fmt.Sprintf("hyphenation: %s %s: %v", e.Op, e.Language, e.Err)
}

// Unwrap implements error unwrapping
func (e *LoadError) Unwrap() error {
	return e.Err
}
