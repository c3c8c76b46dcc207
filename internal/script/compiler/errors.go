package compiler

import (
	"errors"
	"fmt"

	"github.com/dshills/keybot/internal/script/lexer"
)

// Compile errors.
var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnexpectedEOF   = errors.New("unexpected end of script")
	ErrDuplicateMethod = errors.New("duplicate method")
	ErrUnknownKey      = errors.New("unknown key")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrDanglingWait    = errors.New("wait is not followed by an input")
	ErrUnmappableRune  = errors.New("character has no key")
)

// Error is a compile failure at a location in the script.
type Error struct {
	Location lexer.Location
	Err      error
	Detail   string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Location, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Location, e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func errorf(at lexer.Location, err error, format string, args ...any) *Error {
	return &Error{Location: at, Err: err, Detail: fmt.Sprintf(format, args...)}
}
