package hb

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes an Error.
type Kind string

const (
	KindTypeMismatch Kind = "type_mismatch" // wrong handle kind or value shape
	KindAllocation   Kind = "allocation"    // scratch or handle allocation refused
	KindInvalidInput Kind = "invalid_input" // malformed value of the right kind
	KindNotFound     Kind = "not_found"     // unknown shaper, table, glyph
	KindIO           Kind = "io"            // reading font files
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrTypeMismatch = errors.New("type mismatch")
	ErrAllocation   = errors.New("allocation failed")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// ErrNoShaper is returned by ShapeFull when none of the requested
	// shapers is available.
	ErrNoShaper = errors.New("no usable shaper")
)

// Error is the structured error returned by this package and raised by the
// bindings.
type Error struct {
	Cause    error
	Op       string
	Kind     Kind
	Expected string
	Got      string
	Detail   string
	Arg      int // 1-based argument position, 0 if not tied to an argument
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))
	if e.Arg > 0 {
		fmt.Fprintf(&b, " at argument %d", e.Arg)
	}
	if e.Expected != "" {
		b.WriteString(": ")
		b.WriteString(e.Expected)
		b.WriteString(" expected")
		if e.Got != "" {
			b.WriteString(", got ")
			b.WriteString(e.Got)
		}
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindTypeMismatch:
		return target == ErrTypeMismatch
	case KindAllocation:
		return target == ErrAllocation
	case KindInvalidInput:
		return target == ErrInvalidInput
	case KindNotFound:
		return target == ErrNotFound
	}
	return false
}

// TypeMismatch builds a type error for argument arg of op.
func TypeMismatch(op string, arg int, expected, got string) *Error {
	return &Error{Op: op, Kind: KindTypeMismatch, Arg: arg, Expected: expected, Got: got}
}

// AllocationError builds a resource error for op.
func AllocationError(op, detail string) *Error {
	return &Error{Op: op, Kind: KindAllocation, Detail: detail}
}

// InvalidInput builds an invalid-input error for op.
func InvalidInput(op, detail string) *Error {
	return &Error{Op: op, Kind: KindInvalidInput, Detail: detail}
}

func ioError(op string, cause error) *Error {
	return &Error{Op: op, Kind: KindIO, Cause: cause}
}
