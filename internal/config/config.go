// Package config loads the optional YAML configuration of the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alnah/go-resume2pdf/internal/fileutil"
	"github.com/alnah/go-resume2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
)

// AppDirName is the directory under the user config dir searched for configs.
const AppDirName = "resume2pdf"

// Render timeout bounds.
const (
	MinTimeout     = time.Second
	MaxTimeout     = 10 * time.Minute
	DefaultTimeout = 30 * time.Second
)

// Log levels and formats.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"

	FormatText = "text"
	FormatJSON = "json"
)

// Config holds all configuration for one CLI run.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Render  RenderConfig  `yaml:"render"`
	Browser BrowserConfig `yaml:"browser"`
	Log     LogConfig     `yaml:"log"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the input
	HTML       bool   `yaml:"html"`       // also write the intermediate HTML
}

// RenderConfig defines rendering options.
type RenderConfig struct {
	Timeout string `yaml:"timeout"` // Go duration, empty = DefaultTimeout
}

// BrowserConfig defines how Chrome is started.
type BrowserConfig struct {
	Bin       string `yaml:"bin"`
	NoSandbox bool   `yaml:"noSandbox"`
}

// LogConfig defines diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // empty = CLI default
	Format string `yaml:"format"` // empty = text
}

// Validate checks every section. Called automatically by LoadConfig, but
// available for callers who construct Config manually.
func (c *Config) Validate() error {
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("%w: output: %v", ErrConfigInvalid, err)
	}
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("%w: render: %v", ErrConfigInvalid, err)
	}
	if err := c.Browser.Validate(); err != nil {
		return fmt.Errorf("%w: browser: %v", ErrConfigInvalid, err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("%w: log: %v", ErrConfigInvalid, err)
	}
	return nil
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DefaultDir, validation.Length(0, 4096), validation.By(noNUL)),
	)
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Timeout, validation.By(durationWithin(MinTimeout, MaxTimeout))),
	)
}

// Validate validates the browser configuration.
func (c *BrowserConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Bin, validation.Length(0, 4096), validation.By(noNUL)),
	)
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.In(LevelDebug, LevelInfo, LevelWarn, LevelError)),
		validation.Field(&c.Format, validation.In(FormatText, FormatJSON)),
	)
}

// TimeoutDuration returns the parsed render timeout, or DefaultTimeout when unset.
// The value is assumed valid (see Validate).
func (c *RenderConfig) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return DefaultTimeout
	}
	return d
}

func durationWithin(lo, hi time.Duration) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("not a duration: %q", s)
		}
		if d < lo || d > hi {
			return fmt.Errorf("must be between %s and %s, got %s", lo, hi, d)
		}
		return nil
	}
}

func noNUL(value any) error {
	s, _ := value.(string)
	if strings.ContainsRune(s, 0) {
		return errors.New("must not contain NUL bytes")
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{Timeout: DefaultTimeout.String()},
		Log:    LogConfig{Format: FormatText},
	}
}

// LoadConfig loads configuration from a file path or config name.
// A value that looks like a path (separator or YAML extension) is read
// directly. Otherwise it is a name searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		p, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Paths: []string{configPath}}
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NotFoundError lists the paths searched for a config. It matches
// ErrConfigNotFound with errors.Is.
type NotFoundError struct {
	Paths []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: tried %s", ErrConfigNotFound, strings.Join(e.Paths, ", "))
}

// Is reports whether target is ErrConfigNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrConfigNotFound
}

// userConfigDir is replaced in tests.
var userConfigDir = os.UserConfigDir

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/resume2pdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		tried = append(tried, localPath)
	}

	if dir, err := userConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(dir, AppDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			tried = append(tried, userPath)
		}
	}

	return "", &NotFoundError{Paths: tried}
}
