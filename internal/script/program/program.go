// Package program holds compiled scripts: operations grouped into named
// methods.
package program

import (
	"fmt"
	"sort"
	"time"

	"github.com/dshills/keybot/internal/input/key"
)

// Operation is one schedulable action. Input is currently the only variant.
type Operation interface {
	isOperation()
}

// Input toggles a key after waiting Gap since the previous event.
type Input struct {
	Gap    time.Duration
	Key    key.Key
	Toggle key.Toggle
}

func (Input) isOperation() {}

// String renders the input as "+50ms A down".
func (i Input) String() string {
	return fmt.Sprintf("+%s %s %s", i.Gap, i.Key, i.Toggle)
}

// Environment maps method names to their operations in execution order.
// It is built once by the compiler and treated as read-only afterward.
type Environment map[string][]Operation

// Lookup returns the operations of a method.
func (e Environment) Lookup(name string) ([]Operation, bool) {
	ops, ok := e[name]
	return ops, ok
}

// Methods returns the method names in sorted order.
func (e Environment) Methods() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
