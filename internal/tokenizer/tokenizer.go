// Package tokenizer splits cleaned text on a caller-supplied regular expression.
package tokenizer

import (
	"fmt"
	"regexp"

	"yase/internal/domain"
)

// DefaultSeparator splits on single spaces.
const DefaultSeparator = " "

// splitter is the part of *regexp.Regexp the tokenizer uses.
type splitter interface {
	Split(s string, n int) []string
	String() string
}

// Tokenizer splits text on every match of a compiled separator pattern.
type Tokenizer struct {
	separator splitter
}

// New compiles pattern. An empty pattern selects DefaultSeparator.
func New(pattern string) (*Tokenizer, error) {
	if pattern == "" {
		pattern = DefaultSeparator
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile separator %q: %w", pattern, err)
	}
	return &Tokenizer{separator: re}, nil
}

// Split returns the fragments between separator matches, including empty
// ones. A regexp split with n < 0 always yields at least one fragment; the
// ErrNoTokens check guards the lookup stage against a splitter that does not.
func (t *Tokenizer) Split(text string) ([]string, error) {
	tokens := t.separator.Split(text, -1)
	if len(tokens) == 0 {
		return nil, domain.ErrNoTokens
	}
	return tokens, nil
}

// Pattern returns the separator source.
func (t *Tokenizer) Pattern() string { return t.separator.String() }

// Split compiles pattern and splits text with it.
func Split(text, pattern string) ([]string, error) {
	t, err := New(pattern)
	if err != nil {
		return nil, err
	}
	return t.Split(text)
}
