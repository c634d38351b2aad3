package logvision

import (
	"fmt"
	"strings"
	"time"
)

// OutputMode selects the shape of a rendered line.
type OutputMode uint8

const (
	ModePretty  OutputMode = iota // human-readable, decorated
	ModeMinimal                   // level and message only
	ModeJSON                      // one JSON object per line
)

var modeNames = map[OutputMode]string{
	ModePretty:  "pretty",
	ModeMinimal: "minimal",
	ModeJSON:    "json",
}

func (m OutputMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseOutputMode parses pretty, minimal or json, ignoring case.
func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pretty", "":
		return ModePretty, nil
	case "minimal":
		return ModeMinimal, nil
	case "json":
		return ModeJSON, nil
	default:
		return ModePretty, fmt.Errorf("unknown output mode %q", s)
	}
}

func (m OutputMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *OutputMode) UnmarshalText(text []byte) error {
	parsed, err := ParseOutputMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Fields carries auxiliary structured data on an Entry.
type Fields map[string]any

// Entry is one log record. It is built once per logging call and never
// mutated afterwards.
type Entry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Context   Fields // optional, rendered only when non-empty
	AppName   string // optional, empty means absent
}
