package interpreter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/keybot/internal/timeline"
)

// Interpreter errors.
var (
	// ErrMethodNotFound indicates the environment has no such method.
	ErrMethodNotFound = errors.New("method not found")

	// ErrFileNotFound indicates the script could not be read.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidFile indicates the script path has the wrong extension.
	ErrInvalidFile = errors.New("invalid file")

	// ErrUnsupportedOperation indicates an operation variant the
	// interpreter cannot schedule.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrNoDispatcher indicates the interpreter was built without a
	// dispatcher and cannot drain its timeline.
	ErrNoDispatcher = errors.New("no dispatcher")

	// ErrDispatch marks failures raised by the dispatcher while draining.
	ErrDispatch = timeline.ErrDispatch
)

// Error represents a failure of one interpreter operation.
type Error struct {
	Op       string   // Operation name ("load", "execute", "queue")
	Target   string   // Script path or method name
	Expected string   // Expected file extension, for ErrInvalidFile
	Similar  []string // Close method names, for ErrMethodNotFound
	Err      error    // Underlying error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Expected != "" {
		msg = fmt.Sprintf("%s (expected extension %s)", msg, e.Expected)
	}
	if len(e.Similar) > 0 {
		msg = fmt.Sprintf("%s (did you mean %s?)", msg, strings.Join(e.Similar, ", "))
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches both the wrapper itself and the wrapped error.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*Error); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}
