package timeline

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/keybot/internal/input/key"
)

// Format selects the schedule document encoding.
type Format string

// Supported schedule formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat parses "yaml", "yml" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported schedule format %q", s)
	}
}

const scheduleVersion = 1

// scheduleDoc is the serializable form of a schedule.
type scheduleDoc struct {
	Version int             `json:"version" yaml:"version"`
	Method  string          `json:"method,omitempty" yaml:"method,omitempty"`
	Total   string          `json:"total" yaml:"total"`
	Events  []scheduleEvent `json:"events" yaml:"events"`
}

// scheduleEvent records both the relative gap and the absolute offset so
// the document is readable without summing by hand.
type scheduleEvent struct {
	At     string `json:"at" yaml:"at"`
	Gap    string `json:"gap" yaml:"gap"`
	Key    string `json:"key" yaml:"key"`
	Toggle string `json:"toggle" yaml:"toggle"`
}

// Export writes entries as a schedule document.
func Export(w io.Writer, method string, entries []Entry, format Format) error {
	doc := scheduleDoc{
		Version: scheduleVersion,
		Method:  method,
		Events:  make([]scheduleEvent, 0, len(entries)),
	}

	var at time.Duration
	for _, e := range entries {
		at += e.Gap
		doc.Events = append(doc.Events, scheduleEvent{
			At:     at.String(),
			Gap:    e.Gap.String(),
			Key:    e.Key.String(),
			Toggle: e.Toggle.String(),
		})
	}
	doc.Total = at.String()

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode schedule: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode schedule: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode schedule: %w", err)
		}
	default:
		return fmt.Errorf("unsupported schedule format %q", format)
	}
	return nil
}

// Import reads a schedule document written by Export. Each event's
// absolute offset must equal the running sum of the gaps before it.
func Import(r io.Reader, format Format) (string, []Entry, error) {
	var doc scheduleDoc
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return "", nil, fmt.Errorf("failed to decode schedule: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return "", nil, fmt.Errorf("failed to decode schedule: %w", err)
		}
	default:
		return "", nil, fmt.Errorf("unsupported schedule format %q", format)
	}

	if doc.Version < 1 {
		return "", nil, fmt.Errorf("missing or invalid schedule version: %d", doc.Version)
	}
	if doc.Version > scheduleVersion {
		return "", nil, fmt.Errorf("unsupported schedule version: %d (max supported: %d)",
			doc.Version, scheduleVersion)
	}

	entries := make([]Entry, 0, len(doc.Events))
	var offset time.Duration
	for i, ev := range doc.Events {
		gap, err := time.ParseDuration(ev.Gap)
		if err != nil || gap < 0 {
			return "", nil, fmt.Errorf("event %d: invalid gap %q", i, ev.Gap)
		}
		if offset > time.Duration(math.MaxInt64)-gap {
			return "", nil, fmt.Errorf("event %d: schedule exceeds maximum duration", i)
		}
		offset += gap
		at, err := time.ParseDuration(ev.At)
		if err != nil || at != offset {
			return "", nil, fmt.Errorf("event %d: offset %q does not match gap sum %s", i, ev.At, offset)
		}
		k := key.FromName(ev.Key)
		if k == key.KeyNone {
			return "", nil, fmt.Errorf("event %d: unknown key %q", i, ev.Key)
		}
		toggle, err := key.ParseToggle(ev.Toggle)
		if err != nil {
			return "", nil, fmt.Errorf("event %d: %w", i, err)
		}
		entries = append(entries, Entry{Gap: gap, Key: k, Toggle: toggle})
	}
	return doc.Method, entries, nil
}
