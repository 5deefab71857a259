package domain

import "errors"

var (
	// ErrNoTokens indicates that splitting a line produced no tokens at all.
	ErrNoTokens = errors.New("no tokens returned after split")

	// ErrMalformedRules indicates a replacement resource that is not a flat
	// key/value mapping of strings.
	ErrMalformedRules = errors.New("malformed replacement rules")

	// ErrUnknownEncoding indicates an encoding name that cannot be resolved.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrInvalidEncoding indicates bytes that are not valid in the declared encoding.
	ErrInvalidEncoding = errors.New("invalid byte sequence for encoding")

	// ErrUnsupportedFormat indicates an unknown output format.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)
