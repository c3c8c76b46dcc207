package key

import (
	"fmt"
	"strings"
)

// Toggle is the direction of a key event.
type Toggle uint8

const (
	// Down presses the key.
	Down Toggle = iota
	// Up releases the key.
	Up
)

// String returns "down" or "up".
func (t Toggle) String() string {
	switch t {
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return fmt.Sprintf("Toggle(%d)", t)
	}
}

// Opposite returns the other direction.
func (t Toggle) Opposite() Toggle {
	if t == Down {
		return Up
	}
	return Down
}

// ParseToggle parses "down"/"press" or "up"/"release" (case-insensitive).
func ParseToggle(s string) (Toggle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "down", "press":
		return Down, nil
	case "up", "release":
		return Up, nil
	default:
		return Down, fmt.Errorf("invalid toggle %q", s)
	}
}
