package config

import (
	"os"
)

// envBindings maps TODOLIST_* variables to config keys.
var envBindings = []struct {
	env   string
	field string
}{
	{"TODOLIST_BACKEND", "backend"},
	{"TODOLIST_DATA_DIR", "data_dir"},
	{"TODOLIST_DSN", "dsn"},
	{"TODOLIST_KEY", "storage_key"},
	{"TODOLIST_ENCODING", "encoding"},
	{"TODOLIST_SCHEMA", "schema_file"},
	{"TODOLIST_JOURNAL", "journal"},
	{"TODOLIST_LOG_DIR", "log_dir"},
	{"TODOLIST_HOOK", "hook_command"},
	{"TODOLIST_LOG_LEVEL", "log_level"},
	{"TODOLIST_LOG_FORMAT", "log_format"},
	{"TODOLIST_LOG_TIMESTAMPS", "log_timestamps"},
	{"TODOLIST_LOG_CALLER", "log_caller"},
}

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	for _, b := range envBindings {
		v, ok := os.LookupEnv(b.env)
		if !ok || v == "" {
			continue
		}
		if !setField(cfg, b.field, v) {
			continue
		}
		if sources != nil {
			sources[b.field] = SourceEnv
		}
	}
}
