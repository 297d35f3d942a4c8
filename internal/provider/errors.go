package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork covers transport failures, unexpected status codes and
	// bodies that are not JSON.
	ErrNetwork = errors.New("network error")
	// ErrEmptyQuote is returned when a well-formed response lacks the quote payload.
	ErrEmptyQuote = errors.New("empty quote")
	// ErrParse is returned when a payload field cannot be coerced to its type.
	ErrParse = errors.New("parse error")
	// ErrIO is returned when the output file cannot be opened or written.
	ErrIO = errors.New("io error")
)

// ParseError describes a payload field that failed coercion.
type ParseError struct {
	Field string
	Value any
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: invalid value %v: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }
