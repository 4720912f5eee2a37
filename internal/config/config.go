// Package config loads the optional lox.yml configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/you-not-fish/lox/internal/interp"
)

// FileName is the configuration file looked for in the working directory.
const FileName = "lox.yml"

// EnvVar names the environment variable that may point at a config file.
const EnvVar = "LOX_CONFIG"

// Config represents the parsed contents of lox.yml.
type Config struct {
	Path    string        `yaml:"-"` // file it was loaded from; empty for defaults
	Runtime RuntimeConfig `yaml:"runtime"`
	REPL    REPLConfig    `yaml:"repl"`
	Log     LogConfig     `yaml:"log"`
}

// RuntimeConfig configures the interpreter.
type RuntimeConfig struct {
	MaxCallDepth int `yaml:"max_call_depth"`

	// Natives lists the builtins to install. Omitted means all of them;
	// an empty list installs none.
	Natives []string `yaml:"natives"`
}

// REPLConfig configures the interactive prompt.
type REPLConfig struct {
	Prompt  string `yaml:"prompt"`
	History string `yaml:"history"` // relative to the home directory; "" disables
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			MaxCallDepth: interp.DefaultMaxDepth,
		},
		REPL: REPLConfig{
			Prompt:  "> ",
			History: ".lox_history",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// ValidationError aggregates configuration validation failures.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed")
	if e.Path != "" {
		b.WriteString(" for ")
		b.WriteString(e.Path)
	}
	b.WriteString(":")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Find returns the config file to use: flagPath if set, else $LOX_CONFIG,
// else lox.yml in the working directory if it exists. It returns "" when
// there is none.
func Find(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := os.Getenv(EnvVar); env != "" {
		return env
	}
	if info, err := os.Stat(FileName); err == nil && !info.IsDir() {
		return FileName
	}
	return ""
}

// Resolve loads the file chosen by Find, or returns the defaults.
func Resolve(flagPath string) (*Config, error) {
	path := Find(flagPath)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Load parses the config file at path, returning a validated config.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Path = absPath
			return nil, verr
		}
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	cfg.Path = absPath
	return cfg, nil
}

// Decode reads a YAML config from r over the defaults and validates it.
// Unknown keys are errors. An empty document yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidationError

	switch depth := c.Runtime.MaxCallDepth; {
	case depth <= 0:
		errs.Issues = append(errs.Issues,
			fmt.Sprintf("runtime.max_call_depth must be positive, got %d", depth))
	case depth > interp.MaxDepthLimit:
		errs.Issues = append(errs.Issues,
			fmt.Sprintf("runtime.max_call_depth must be at most %d, got %d", interp.MaxDepthLimit, depth))
	}
	seen := make(map[string]bool, len(c.Runtime.Natives))
	for i, name := range c.Runtime.Natives {
		if _, ok := interp.Builtin(name); !ok {
			errs.Issues = append(errs.Issues,
				fmt.Sprintf("runtime.natives[%d]: unknown native %q (known: %s)", i, name, strings.Join(interp.BuiltinNames(), ", ")))
			continue
		}
		if seen[name] {
			errs.Issues = append(errs.Issues, fmt.Sprintf("runtime.natives[%d]: duplicate native %q", i, name))
		}
		seen[name] = true
	}

	if _, ok := parseLevel(c.Log.Level); !ok {
		errs.Issues = append(errs.Issues,
			fmt.Sprintf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs.Issues = append(errs.Issues,
			fmt.Sprintf("log.format must be text or json; got %q", c.Log.Format))
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// SlogLevel returns the configured slog level.
func (l LogConfig) SlogLevel() slog.Level {
	level, _ := parseLevel(l.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelWarn, false
}

// HistoryPath returns the absolute REPL history file, or "" if history
// is disabled or the home directory is unknown.
func (r REPLConfig) HistoryPath() string {
	if r.History == "" {
		return ""
	}
	if filepath.IsAbs(r.History) {
		return r.History
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, r.History)
}
