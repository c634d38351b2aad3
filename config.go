package logvision

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultDateFormat is the pretty-mode timestamp pattern.
const DefaultDateFormat = "YYYY-MM-DD HH:mm:ss"

// Options configures a Logger or an Interceptor. Zero fields take defaults.
type Options struct {
	AppName      string     `yaml:"appName"`      // static label, empty means none
	Level        Level      `yaml:"level"`        // minimum severity emitted by a Logger
	Mode         OutputMode `yaml:"outputMode"`   // pretty, minimal or json
	EnableColors *bool      `yaml:"enableColors"` // nil means true
	DateFormat   string     `yaml:"dateFormat"`   // pretty-mode timestamp pattern
	Output       io.Writer  `yaml:"-"`            // Logger sink, os.Stdout when nil
}

// RenderConfig is the part of Options a Formatter needs.
type RenderConfig struct {
	Mode         OutputMode
	EnableColors bool
	DateFormat   string
}

// Bool returns a pointer to v, for Options.EnableColors.
func Bool(v bool) *bool { return &v }

// DefaultOptions returns the documented defaults with every field filled in.
func DefaultOptions() Options {
	opts := Options{}
	applyDefaults(&opts)
	return opts
}

func applyDefaults(opts *Options) {
	if opts.Level == 0 {
		opts.Level = LevelInfo
	}
	if opts.EnableColors == nil {
		opts.EnableColors = Bool(true)
	}
	if opts.DateFormat == "" {
		opts.DateFormat = DefaultDateFormat
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
}

// RenderConfig resolves the rendering part of o, applying defaults.
func (o Options) RenderConfig() RenderConfig {
	applyDefaults(&o)
	return RenderConfig{
		Mode:         o.Mode,
		EnableColors: *o.EnableColors,
		DateFormat:   o.DateFormat,
	}
}

// LoadOptions reads Options from a YAML file. Unknown keys are rejected and
// an empty file yields zero Options.
func LoadOptions(path string) (Options, error) {
	var opts Options
	f, err := os.Open(path)
	if err != nil {
		return opts, fmt.Errorf("failed to open config file '%s': %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	return opts, nil
}

// FromEnv overlays LOGVISION_* environment variables onto opts. A non-empty
// NO_COLOR disables colors and wins over LOGVISION_COLORS.
func FromEnv(opts *Options) error {
	if v := os.Getenv("LOGVISION_APP_NAME"); v != "" {
		opts.AppName = v
	}
	if v := os.Getenv("LOGVISION_LEVEL"); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return fmt.Errorf("LOGVISION_LEVEL: %w", err)
		}
		opts.Level = level
	}
	if v := os.Getenv("LOGVISION_MODE"); v != "" {
		mode, err := ParseOutputMode(v)
		if err != nil {
			return fmt.Errorf("LOGVISION_MODE: %w", err)
		}
		opts.Mode = mode
	}
	if v := os.Getenv("LOGVISION_COLORS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOGVISION_COLORS: %w", err)
		}
		opts.EnableColors = Bool(b)
	}
	if v := os.Getenv("LOGVISION_DATE_FORMAT"); v != "" {
		opts.DateFormat = v
	}
	if os.Getenv("NO_COLOR") != "" {
		opts.EnableColors = Bool(false)
	}
	return nil
}
