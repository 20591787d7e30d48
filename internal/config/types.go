package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultBackend    = "file"
	DefaultDataDir    = "~/.todolist"
	DefaultStorageKey = "listTask"
	DefaultEncoding   = "json"
	DefaultLogDir     = "~/.todolist/logs"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for todolist.
type Config struct {
	// Storage
	Backend    string `toml:"backend"`
	DataDir    string `toml:"data_dir"`
	DSN        string `toml:"dsn"`
	StorageKey string `toml:"storage_key"`
	Encoding   string `toml:"encoding"`
	SchemaFile string `toml:"schema_file"`

	// Journal of dispatched actions
	Journal bool   `toml:"journal"`
	LogDir  string `toml:"log_dir"`

	// Hooks
	HookCommand string `toml:"hook_command"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"backend",
		"data_dir",
		"dsn",
		"storage_key",
		"encoding",
		"schema_file",
		"journal",
		"log_dir",
		"hook_command",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// ConfigFields returns the configurable keys in display order.
func ConfigFields() []string {
	return configFields()
}
