package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/docstate/internal/config/loader"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "DOCSTATE_"

// Config holds the docstate settings.
type Config struct {
	Text   TextConfig
	Output OutputConfig
	Log    LogConfig
}

// TextConfig configures how documents are read and written.
type TextConfig struct {
	// LineSeparator joins lines on output: "\n", "\r\n" or "\r".
	// The names "lf", "crlf" and "cr" are accepted in files.
	LineSeparator string
	// TabSize is the width of a tab stop for display columns.
	TabSize int
}

// OutputConfig configures CLI output.
type OutputConfig struct {
	// Format is "text" or "json".
	Format string
	// Indent pretty-prints JSON output.
	Indent bool
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string
	// Format is "text" or "json".
	Format string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Text:   TextConfig{LineSeparator: "\n", TabSize: 4},
		Output: OutputConfig{Format: "text"},
		Log:    LogConfig{Level: "warn", Format: "text"},
	}
}

// Load reads the file at path over the defaults. The format is picked
// from the extension. An empty path or a missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	return LoadWithFS(loader.DefaultFS(), path)
}

// LoadWithFS is Load over a custom file system.
func LoadWithFS(fsys loader.FileSystem, path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	l, err := loader.ForPath(fsys, path)
	if err != nil {
		return nil, err
	}
	data, err := l.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.apply(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays prefixed environment variables, such as
// DOCSTATE_TAB_SIZE or DOCSTATE_LOG_LEVEL, onto c.
func (c *Config) ApplyEnv(prefix string) error {
	data, err := loader.NewEnvLoader(prefix).Load()
	if err != nil {
		return err
	}
	if err := c.apply(data); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

// Validate checks that every setting holds a supported value.
func (c *Config) Validate() error {
	if c.Text.TabSize <= 0 {
		return fmt.Errorf("text.tabSize %d: %w", c.Text.TabSize, ErrValidationFailed)
	}
	switch c.Text.LineSeparator {
	case "\n", "\r\n", "\r":
	default:
		return fmt.Errorf("text.lineSeparator %q: %w", c.Text.LineSeparator, ErrValidationFailed)
	}
	if !oneOf(c.Output.Format, "text", "json") {
		return fmt.Errorf("output.format %q: %w", c.Output.Format, ErrValidationFailed)
	}
	if !oneOf(c.Log.Level, "debug", "info", "warn", "error") {
		return fmt.Errorf("log.level %q: %w", c.Log.Level, ErrValidationFailed)
	}
	if !oneOf(c.Log.Format, "text", "json") {
		return fmt.Errorf("log.format %q: %w", c.Log.Format, ErrValidationFailed)
	}
	return nil
}

// apply copies the known settings present in data onto c.
func (c *Config) apply(data map[string]any) error {
	if data == nil {
		return nil
	}
	var err error
	set := func(path string, fn func(any) error) {
		if err != nil {
			return
		}
		if val, ok := loader.Lookup(data, path); ok {
			if ferr := fn(val); ferr != nil {
				err = fmt.Errorf("%s: %w", path, ferr)
			}
		}
	}

	set("text.lineSeparator", stringInto(&c.Text.LineSeparator, lineSeparator))
	set("text.tabSize", intInto(&c.Text.TabSize))
	set("output.format", stringInto(&c.Output.Format, strings.ToLower))
	set("output.indent", boolInto(&c.Output.Indent))
	set("log.level", stringInto(&c.Log.Level, strings.ToLower))
	set("log.format", stringInto(&c.Log.Format, strings.ToLower))
	return err
}

func stringInto(dst *string, normalize func(string) string) func(any) error {
	return func(v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("got %T, want string: %w", v, ErrTypeMismatch)
		}
		*dst = normalize(s)
		return nil
	}
}

func intInto(dst *int) func(any) error {
	return func(v any) error {
		switch n := v.(type) {
		case int:
			*dst = n
		case int64:
			*dst = int(n)
		case uint64:
			*dst = int(n)
		default:
			return fmt.Errorf("got %T, want integer: %w", v, ErrTypeMismatch)
		}
		return nil
	}
}

func boolInto(dst *bool) func(any) error {
	return func(v any) error {
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("got %T, want bool: %w", v, ErrTypeMismatch)
		}
		*dst = b
		return nil
	}
}

// lineSeparator maps the separator names to their text.
func lineSeparator(s string) string {
	switch strings.ToLower(s) {
	case "lf":
		return "\n"
	case "crlf":
		return "\r\n"
	case "cr":
		return "\r"
	}
	return s
}

func oneOf(s string, options ...string) bool {
	return slices.Contains(options, s)
}
