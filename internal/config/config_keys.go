// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and
// string-based get/set logic used by "sprout config".
//
// Design: Pointers are used for optional fields so we can distinguish
// between "not set" (nil) and "explicitly set to zero/false". This
// enables proper defaulting - we only apply defaults when the user
// hasn't set a value.

package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"output.dir",
		"apply.force",
		"log.enabled",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "output.dir":
		return c.OutputDir(), nil
	case "apply.force":
		return boolString(c.ApplyForce()), nil
	case "log.enabled":
		return boolString(c.LogEnabled()), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "output.dir":
		if value == "" {
			return fmt.Errorf("%w: output.dir must not be empty", ErrInvalidValue)
		}
		c.Output.Dir = &value
	case "apply.force":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("%w: apply.force must be true or false", ErrInvalidValue)
		}
		c.Apply.Force = &b
	case "log.enabled":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("%w: log.enabled must be true or false", ErrInvalidValue)
		}
		c.Log.Enabled = &b
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, ErrInvalidValue
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
