package dmi

import (
	"fmt"
)

// ErrorKind classifies a ParseError. Each kind is an error value usable with
// errors.Is.
type ErrorKind int

const (
	ErrUnexpectedToken ErrorKind = iota + 1
	ErrFieldWithoutState
	ErrMalformedDelayList
	ErrUnknownDirective
)

func (k ErrorKind) Error() string {
	switch k {
	case ErrUnexpectedToken:
		return "unexpected token"
	case ErrFieldWithoutState:
		return "field without state"
	case ErrMalformedDelayList:
		return "malformed delay list"
	case ErrUnknownDirective:
		return "unknown directive"
	default:
		return fmt.Sprintf("parse error kind %d", int(k))
	}
}

// ParseError describes why a description could not be parsed.
type ParseError struct {
	Kind ErrorKind

	// Expected is what the parser was looking for; empty for
	// ErrUnknownDirective.
	Expected string
	// Found is the offending token, or "EOF".
	Found string
	// Line is the 1-based line of Found.
	Line int
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrUnknownDirective:
		return fmt.Sprintf("dmi: line %d: unknown directive %q", e.Line, e.Found)
	case ErrFieldWithoutState:
		return fmt.Sprintf("dmi: line %d: %q field before any state", e.Line, e.Found)
	default:
		return fmt.Sprintf("dmi: line %d: %s: expected %s, found %q", e.Line, e.Kind, e.Expected, e.Found)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}
