package logvision

import (
	"fmt"
	"maps"
	"strings"

	"github.com/fatih/color"
	"github.com/go-json-experiment/json"
)

// ISO-8601 with milliseconds, always rendered in UTC.
const jsonTimeLayout = "2006-01-02T15:04:05.000Z07:00"

var levelIcons = map[Level]string{
	LevelInfo:  "🌿",
	LevelWarn:  "⚠️",
	LevelError: "❌",
	LevelDebug: "🐛",
}

var levelColors = map[Level]*color.Color{
	LevelInfo:  forced(color.FgGreen),
	LevelWarn:  forced(color.FgYellow),
	LevelError: forced(color.FgRed),
	LevelDebug: forced(color.FgBlue),
}

var contextColor = forced(color.FgHiBlack)

// forced builds a color that decorates even when stdout is not a terminal;
// whether to decorate at all is decided by RenderConfig.EnableColors.
func forced(attr color.Attribute) *color.Color {
	c := color.New(attr)
	c.EnableColor()
	return c
}

// Formatter renders Entries as single lines. Its RenderConfig is fixed at
// construction and a Formatter holds no other state, so it is safe for
// concurrent use.
type Formatter struct {
	config RenderConfig
}

func NewFormatter(cfg RenderConfig) *Formatter {
	if cfg.DateFormat == "" {
		cfg.DateFormat = DefaultDateFormat
	}
	return &Formatter{config: cfg}
}

// Config returns the formatter's render configuration.
func (f *Formatter) Config() RenderConfig {
	return f.config
}

// Format renders entry according to the configured mode. The line has no
// trailing newline. A non-nil error means the entry could not be rendered
// even after falling back to plain-text context values.
func (f *Formatter) Format(entry Entry) (string, error) {
	switch f.config.Mode {
	case ModeJSON:
		return f.formatJSON(entry)
	case ModeMinimal:
		return f.formatMinimal(entry), nil
	case ModePretty:
		fallthrough
	default:
		return f.formatPretty(entry)
	}
}

func (f *Formatter) formatPretty(entry Entry) (string, error) {
	var sb strings.Builder
	sb.WriteString(formatTimestamp(entry.Timestamp, f.config.DateFormat))
	sb.WriteByte(' ')
	if entry.AppName != "" {
		sb.WriteString("[")
		sb.WriteString(entry.AppName)
		sb.WriteString("]")
	}
	sb.WriteByte(' ')
	sb.WriteString(f.FormatLevel(entry.Level))
	sb.WriteByte(' ')
	sb.WriteString(entry.Message)
	if len(entry.Context) > 0 {
		ctx, err := f.formatContext(entry.Context)
		if err != nil {
			return "", err
		}
		sb.WriteByte(' ')
		sb.WriteString(ctx)
	}
	return sb.String(), nil
}

func (f *Formatter) formatMinimal(entry Entry) string {
	return f.FormatLevel(entry.Level) + " " + entry.Message
}

// jsonRecord fixes the key order of json mode. Empty context and appName are
// omitted.
type jsonRecord struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Context   Fields `json:"context,omitempty"`
	AppName   string `json:"appName,omitempty"`
}

func (f *Formatter) formatJSON(entry Entry) (string, error) {
	rec := jsonRecord{
		Timestamp: entry.Timestamp.UTC().Format(jsonTimeLayout),
		Level:     entry.Level.String(),
		Message:   entry.Message,
		Context:   normalizeContext(entry.Context),
		AppName:   entry.AppName,
	}
	b, err := json.Marshal(rec, encodeOptions)
	if err != nil {
		rec.Context = stringifyContext(rec.Context)
		if b, err = json.Marshal(rec, encodeOptions); err != nil {
			return "", fmt.Errorf("failed to encode log entry: %w", err)
		}
	}
	return string(b), nil
}

// FormatLevel decorates a level: "[LEVEL]" without colors, otherwise the
// level's icon and name wrapped in its color. Unknown levels are rendered
// by name without decoration.
func (f *Formatter) FormatLevel(level Level) string {
	if !f.config.EnableColors {
		return "[" + level.String() + "]"
	}
	c, ok := levelColors[level]
	if !ok {
		return level.String()
	}
	return c.Sprint(levelIcons[level] + " " + level.String())
}

func (f *Formatter) formatContext(ctx Fields) (string, error) {
	ctx = normalizeContext(ctx)
	b, err := json.Marshal(ctx, encodeOptions)
	if err != nil {
		if b, err = json.Marshal(stringifyContext(ctx), encodeOptions); err != nil {
			return "", fmt.Errorf("failed to encode log context: %w", err)
		}
	}
	if !f.config.EnableColors {
		return string(b), nil
	}
	return contextColor.Sprint(string(b)), nil
}

// normalizeContext replaces error values with their message, which would
// otherwise encode as an empty object.
func normalizeContext(ctx Fields) Fields {
	if len(ctx) == 0 {
		return nil
	}
	var out Fields
	for k, v := range ctx {
		if err, ok := v.(error); ok && err != nil {
			if out == nil {
				out = maps.Clone(ctx)
			}
			out[k] = err.Error()
		}
	}
	if out == nil {
		return ctx
	}
	return out
}

// stringifyContext keeps the values that encode and replaces the rest with
// their fallback text.
func stringifyContext(ctx Fields) Fields {
	out := make(Fields, len(ctx))
	for k, v := range ctx {
		if !encodes(v) {
			out[k] = fallbackText(v)
			continue
		}
		out[k] = v
	}
	return out
}

func encodes(v any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_, err := json.Marshal(v, encodeOptions)
	return err == nil
}
