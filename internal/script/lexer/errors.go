package lexer

import (
	"errors"
	"fmt"
)

// Tokenizer errors.
var (
	// ErrUninitializedState is returned when a character is pushed while no
	// token is being accumulated.
	ErrUninitializedState = errors.New("character added to uninitialized state")

	// ErrUnclosedString is returned when a string accumulation is flushed
	// without its closing quote.
	ErrUnclosedString = errors.New("unclosed string")
)

// Error is a tokenizer failure at a location.
// Char is set for ErrUninitializedState, Text for ErrUnclosedString.
type Error struct {
	Err      error
	Location Location
	Char     rune
	Text     string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case errors.Is(e.Err, ErrUninitializedState):
		return fmt.Sprintf("%s: %v: %q", e.Location, e.Err, e.Char)
	case errors.Is(e.Err, ErrUnclosedString):
		return fmt.Sprintf("%s: %v: %q", e.Location, e.Err, e.Text)
	default:
		return fmt.Sprintf("%s: %v", e.Location, e.Err)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
