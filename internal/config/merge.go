package config

import (
	"strings"
)

// setField assigns a string value to the config key name.
// It reports false for unknown keys.
func setField(cfg *Config, name, value string) bool {
	switch name {
	case "backend":
		cfg.Backend = value
	case "data_dir":
		cfg.DataDir = value
	case "dsn":
		cfg.DSN = value
	case "storage_key":
		cfg.StorageKey = value
	case "encoding":
		cfg.Encoding = value
	case "schema_file":
		cfg.SchemaFile = value
	case "journal":
		cfg.Journal = boolFromString(value)
	case "log_dir":
		cfg.LogDir = value
	case "hook_command":
		cfg.HookCommand = value
	case "log_level":
		cfg.LogLevel = value
	case "log_format":
		cfg.LogFormat = value
	case "log_timestamps":
		cfg.LogTimestamps = boolFromString(value)
	case "log_caller":
		cfg.LogCaller = boolFromString(value)
	default:
		return false
	}
	return true
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
