package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todolist configuration file
# Values can be overridden by TODOLIST_* environment variables or CLI flags

# Storage backend: file, memory, sqlite or mysql
backend = "file"

# Data directory for the file and sqlite backends (supports ~ expansion)
data_dir = "~/.todolist"

# Database DSN. sqlite defaults to <data_dir>/todolist.db
# dsn = "user:pass@tcp(127.0.0.1:3306)/todolist"

# Key the task list is stored under
storage_key = "listTask"

# Payload encoding: json or yaml
encoding = "json"

# Optional JSON Schema replacing the built-in one
# schema_file = "tasks.schema.json"

# Journal of dispatched actions
journal = true
log_dir = "~/.todolist/logs"

# Command run after each save as: <hook_command> <action> <task-id>
# hook_command = "/path/to/hook.sh"

# Console logging
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false
`
}
