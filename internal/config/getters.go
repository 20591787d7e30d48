package config

import (
	"fmt"
	"slices"
)

var (
	validBackends  = []string{"file", "memory", "sqlite", "mysql"}
	validEncodings = []string{"json", "yaml"}
	validLevels    = []string{"debug", "info", "warn", "error"}
	validFormats   = []string{"text", "json", "logfmt"}
)

// Validate checks enumerated values and backend requirements.
func (c *Config) Validate() error {
	if !slices.Contains(validBackends, c.Backend) {
		return fmt.Errorf("invalid backend %q (want one of %v)", c.Backend, validBackends)
	}
	if c.Backend == "mysql" && c.DSN == "" {
		return fmt.Errorf("backend mysql requires dsn")
	}
	if !slices.Contains(validEncodings, c.Encoding) {
		return fmt.Errorf("invalid encoding %q (want one of %v)", c.Encoding, validEncodings)
	}
	if c.StorageKey == "" {
		return fmt.Errorf("storage_key must not be empty")
	}
	if !slices.Contains(validLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q (want one of %v)", c.LogLevel, validLevels)
	}
	if !slices.Contains(validFormats, c.LogFormat) {
		return fmt.Errorf("invalid log_format %q (want one of %v)", c.LogFormat, validFormats)
	}
	return nil
}

// Value returns the display value of the config key name.
func (c *Config) Value(name string) string {
	switch name {
	case "backend":
		return c.Backend
	case "data_dir":
		return c.DataDir
	case "dsn":
		return c.DSN
	case "storage_key":
		return c.StorageKey
	case "encoding":
		return c.Encoding
	case "schema_file":
		return c.SchemaFile
	case "journal":
		return fmt.Sprint(c.Journal)
	case "log_dir":
		return c.LogDir
	case "hook_command":
		return c.HookCommand
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return fmt.Sprint(c.LogTimestamps)
	case "log_caller":
		return fmt.Sprint(c.LogCaller)
	}
	return ""
}
