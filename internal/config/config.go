// Package config provides reading and writing of sprout configuration.
// Supports both global (~/.sprout/config.yaml) and local (.sprout/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.sprout/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is directory-specific config in .sprout/config.yaml
	ScopeLocal
)

// Output holds output-related configuration options.
type Output struct {
	Dir *string `yaml:"dir,omitempty"`
}

// Apply holds apply-related configuration options.
type Apply struct {
	Force *bool `yaml:"force,omitempty"`
}

// Log holds audit-log configuration options.
type Log struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// Config contains configuration for sprout.
type Config struct {
	Output Output `yaml:"output,omitempty"`
	Apply  Apply  `yaml:"apply,omitempty"`
	Log    Log    `yaml:"log,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// OutputDir returns the default output directory (defaults to ".").
func (c *Config) OutputDir() string {
	if c.Output.Dir == nil || *c.Output.Dir == "" {
		return "."
	}
	return *c.Output.Dir
}

// ApplyForce returns whether apply skips collision checks by default
// (defaults to false).
func (c *Config) ApplyForce() bool {
	return c.Apply.Force != nil && *c.Apply.Force
}

// LogEnabled returns whether the audit log is enabled (defaults to true).
func (c *Config) LogEnabled() bool {
	return c.Log.Enabled == nil || *c.Log.Enabled
}

// LocalPath returns the path to the local config file.
func LocalPath() string {
	return filepath.Join(".sprout", "config.yaml")
}

// GlobalPath returns the path to the global config file: ~/.sprout/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sprout", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
