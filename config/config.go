// Package config loads formulint settings from .formulint.yaml with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/formulint/expression"
)

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = ".formulint.yaml"

type Config struct {
	Log        LogConfig        `yaml:"log"`
	Store      StoreConfig      `yaml:"store"`
	Expression ExpressionConfig `yaml:"expression"`
	Watch      WatchConfig      `yaml:"watch"`
}

type LogConfig struct {
	// Verbosity follows commonlog: 0 logs errors only, higher values add
	// warnings, notices, info and debug output.
	Verbosity int    `yaml:"verbosity"`
	File      string `yaml:"file,omitempty"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type ExpressionConfig struct {
	Operators []string `yaml:"operators"`
}

type WatchConfig struct {
	Extensions []string `yaml:"extensions"`
	Debounce   string   `yaml:"debounce"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Verbosity: 0,
		},
		Store: StoreConfig{
			Path: "formulint.db",
		},
		Expression: ExpressionConfig{
			Operators: append([]string(nil), expression.DefaultOperators...),
		},
		Watch: WatchConfig{
			Extensions: []string{".yaml", ".yml"},
			Debounce:   "200ms",
		},
	}
}

// Load reads the file at path over the defaults. A missing file is not an
// error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("FORMULINT_LOG_VERBOSITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FORMULINT_LOG_VERBOSITY: %w", err)
		}
		c.Log.Verbosity = n
	}
	if v := os.Getenv("FORMULINT_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("FORMULINT_STORE"); v != "" {
		c.Store.Path = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log verbosity must not be negative, got %d", c.Log.Verbosity)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store path is empty")
	}
	for _, op := range c.Expression.Operators {
		if op == "" {
			return fmt.Errorf("expression operators contain an empty string")
		}
	}
	if _, err := c.DebounceDuration(); err != nil {
		return err
	}
	return nil
}

// DebounceDuration parses Watch.Debounce; empty means no debouncing.
func (c *Config) DebounceDuration() (time.Duration, error) {
	if c.Watch.Debounce == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("watch debounce: %w", err)
	}
	return d, nil
}

// LogFile returns the log file path, or nil to log to stderr.
func (c *Config) LogFile() *string {
	if c.Log.File == "" {
		return nil
	}
	path := c.Log.File
	return &path
}
