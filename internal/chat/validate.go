package chat

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrInvalidInput indicates the request failed validation and must be
// rejected at the boundary, before any I/O.
var ErrInvalidInput = errors.New("invalid input")

// MaxQueryLen is the maximum accepted query length in runes.
const MaxQueryLen = 1500

// categoryPattern restricts categories to identifier characters, which
// rules out path traversal through the category name.
var categoryPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateInput checks the request fields. It performs no I/O, so rejection
// is side-effect free.
func ValidateInput(category, query string) error {
	if !categoryPattern.MatchString(category) {
		return fmt.Errorf("%w: bad category", ErrInvalidInput)
	}
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: empty query", ErrInvalidInput)
	}
	if utf8.RuneCountInString(query) > MaxQueryLen {
		return fmt.Errorf("%w: query exceeds %d characters", ErrInvalidInput, MaxQueryLen)
	}
	return nil
}
