package config

import (
	"flag"
	"slices"
)

// flagFields maps global flag names to config keys.
var flagFields = map[string]string{
	"backend":        "backend",
	"data":           "data_dir",
	"dsn":            "dsn",
	"key":            "storage_key",
	"encoding":       "encoding",
	"schema":         "schema_file",
	"journal":        "journal",
	"log-dir":        "log_dir",
	"hook":           "hook_command",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// FlagNames returns the global flag names, sorted.
func FlagNames() []string {
	names := make([]string, 0, len(flagFields))
	for name := range flagFields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// parseFlags defines the global flags on fs, parses args into cfg and
// records every flag that was explicitly set. Flags default to the
// values already in cfg, so unset flags leave lower layers intact.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todolist", flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Storage backend: file, memory, sqlite, mysql")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Data directory for file and sqlite backends")
	fs.StringVar(&cfg.DSN, "dsn", cfg.DSN, "Database DSN for sqlite or mysql")
	fs.StringVar(&cfg.StorageKey, "key", cfg.StorageKey, "Storage key of the task list")
	fs.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "Payload encoding: json or yaml")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "JSON Schema file for payload validation")

	// Journal and hooks
	fs.BoolVar(&cfg.Journal, "journal", cfg.Journal, "Write a JSONL journal of dispatched actions")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Journal directory")
	fs.StringVar(&cfg.HookCommand, "hook", cfg.HookCommand, "Command to run after each save")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json, logfmt")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
