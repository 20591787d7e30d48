package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// isolate points HOME, XDG_CONFIG_HOME and the working directory at fresh
// temp dirs and clears TODOLIST_* variables. It returns (home, project).
func isolate(t *testing.T) (string, string) {
	t.Helper()
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, b := range envBindings {
		t.Setenv(b.env, "")
	}
	t.Chdir(project)
	return home, project
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	home, project := isolate(t)

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Backend != DefaultBackend {
		t.Errorf("Backend: got %q, want %q", cfg.Backend, DefaultBackend)
	}
	if want := filepath.Join(home, ".todolist"); cfg.DataDir != want {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, want)
	}
	if cfg.StorageKey != "listTask" {
		t.Errorf("StorageKey: got %q, want listTask", cfg.StorageKey)
	}
	if cfg.Encoding != "json" {
		t.Errorf("Encoding: got %q, want json", cfg.Encoding)
	}
	if !cfg.Journal {
		t.Error("Journal: got false, want true")
	}
	if want := filepath.Join(home, ".todolist", "logs"); cfg.LogDir != want {
		t.Errorf("LogDir: got %q, want %q", cfg.LogDir, want)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging: got %q/%q, want info/text", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.SchemaFile != "" {
		t.Errorf("SchemaFile: got %q, want empty", cfg.SchemaFile)
	}
	if resolved, _ := filepath.EvalSymlinks(cfg.ProjectRoot); resolved != mustEval(t, project) {
		t.Errorf("ProjectRoot: got %q, want %q", cfg.ProjectRoot, project)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func mustEval(t *testing.T, p string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		t.Fatal(err)
	}
	return resolved
}

func TestLayerPrecedence(t *testing.T) {
	home, _ := isolate(t)

	writeFile(t, filepath.Join(home, ".todolist", "todolist.toml"), `backend = "sqlite"
storage_key = "user-key"
encoding = "yaml"
log_level = "debug"
`)
	writeFile(t, "todolist.toml", `storage_key = "project-key"
encoding = "json"
`)
	t.Setenv("TODOLIST_ENCODING", "yaml")
	t.Setenv("TODOLIST_LOG_LEVEL", "warn")

	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-log-level", "error"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	tests := []struct {
		field      string
		got, want  string
		wantSource ConfigSource
	}{
		{"backend", cfg.Backend, "sqlite", SourceUserFile},
		{"storage_key", cfg.StorageKey, "project-key", SourceProjFile},
		{"encoding", cfg.Encoding, "yaml", SourceEnv},
		{"log_level", cfg.LogLevel, "error", SourceFlag},
		{"log_format", cfg.LogFormat, "text", SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("value: got %q, want %q", tt.got, tt.want)
			}
			if cws.Sources[tt.field] != tt.wantSource {
				t.Errorf("source: got %q, want %q", cws.Sources[tt.field], tt.wantSource)
			}
		})
	}

	if len(cws.Files) != 2 {
		t.Fatalf("Files: got %v, want user and project file", cws.Files)
	}
	if got := cws.GetConfigFile(); got != "todolist.toml" {
		t.Errorf("GetConfigFile: got %q, want todolist.toml", got)
	}
}

func TestHiddenProjectConfigFile(t *testing.T) {
	isolate(t)
	writeFile(t, ".todolist.toml", `backend = "memory"`)

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "memory" {
		t.Errorf("Backend: got %q, want memory", cfg.Backend)
	}
}

func TestUserConfigFromXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup is Linux/BSD only")
	}
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".config", "todolist", "todolist.toml"), `storage_key = "xdg"`)

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorageKey != "xdg" {
		t.Errorf("StorageKey: got %q, want xdg", cfg.StorageKey)
	}
}

func TestUnknownConfigKey(t *testing.T) {
	isolate(t)
	writeFile(t, "todolist.toml", `backend = "file"
max_iterations = 3
`)

	_, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "max_iterations") {
		t.Errorf("error should name the key: %v", err)
	}
}

func TestMalformedConfigFile(t *testing.T) {
	isolate(t)
	writeFile(t, "todolist.toml", `backend = `)

	if _, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRelativePathsResolveAgainstProject(t *testing.T) {
	_, project := isolate(t)
	writeFile(t, "todolist.toml", `data_dir = "data"
schema_file = "schemas/tasks.json"
`)

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := mustEval(t, filepath.Dir(cfg.DataDir)), mustEval(t, project); got != want {
		t.Errorf("DataDir parent: got %q, want %q", got, want)
	}
	if filepath.Base(cfg.DataDir) != "data" {
		t.Errorf("DataDir: got %q", cfg.DataDir)
	}
	if !filepath.IsAbs(cfg.SchemaFile) || !strings.HasSuffix(cfg.SchemaFile, filepath.Join("schemas", "tasks.json")) {
		t.Errorf("SchemaFile: got %q", cfg.SchemaFile)
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"-backend", "mysql",
		"-dsn", "u:p@tcp(localhost:3306)/todo",
		"-key", "work",
		"-journal=false",
		"-hook", "notify.sh",
		"ls", "-v",
	}
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.Backend != "mysql" {
		t.Errorf("Backend: got %q, want mysql", cfg.Backend)
	}
	if cfg.DSN != "u:p@tcp(localhost:3306)/todo" {
		t.Errorf("DSN: got %q", cfg.DSN)
	}
	if cfg.StorageKey != "work" {
		t.Errorf("StorageKey: got %q, want work", cfg.StorageKey)
	}
	if cfg.Journal {
		t.Error("Journal: got true, want false")
	}
	if cfg.HookCommand != "notify.sh" {
		t.Errorf("HookCommand: got %q, want notify.sh", cfg.HookCommand)
	}
	if cfg.Encoding != DefaultEncoding {
		t.Errorf("Encoding: got %q, want untouched default", cfg.Encoding)
	}
	if rest := fs.Args(); len(rest) != 2 || rest[0] != "ls" {
		t.Errorf("remaining args: got %v, want [ls -v]", rest)
	}
	for _, field := range []string{"backend", "dsn", "storage_key", "journal", "hook_command"} {
		if sources[field] != SourceFlag {
			t.Errorf("source of %s: got %q, want flag", field, sources[field])
		}
	}
	if _, ok := sources["encoding"]; ok {
		t.Error("unset flag must not be recorded")
	}
}

func TestFlagNamesMatchDefinedFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := parseFlags(cfg, fs, nil, nil); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	names := FlagNames()
	if len(names) != len(configFields()) {
		t.Errorf("FlagNames: got %d names, want one per config key (%d)", len(names), len(configFields()))
	}
	for i, name := range names {
		if fs.Lookup(name) == nil {
			t.Errorf("flag %q is listed but not defined", name)
		}
		if i > 0 && names[i-1] >= name {
			t.Errorf("FlagNames not sorted at %q", name)
		}
	}
}

func TestEnvBoolParsing(t *testing.T) {
	isolate(t)
	t.Setenv("TODOLIST_JOURNAL", "off")
	t.Setenv("TODOLIST_LOG_TIMESTAMPS", "yes")

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Journal {
		t.Error("Journal: got true, want false")
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		setDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown backend", func(c *Config) { c.Backend = "redis" }, true},
		{"mysql without dsn", func(c *Config) { c.Backend = "mysql" }, true},
		{"mysql with dsn", func(c *Config) { c.Backend = "mysql"; c.DSN = "u@/db" }, false},
		{"yaml encoding", func(c *Config) { c.Encoding = "yaml" }, false},
		{"xml encoding", func(c *Config) { c.Encoding = "xml" }, true},
		{"empty key", func(c *Config) { c.StorageKey = "" }, true},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"logfmt", func(c *Config) { c.LogFormat = "logfmt" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValueCoversEveryField(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.DSN = "dsn"
	cfg.SchemaFile = "schema"
	cfg.HookCommand = "hook"
	for _, field := range ConfigFields() {
		if cfg.Value(field) == "" {
			t.Errorf("Value(%q) is empty", field)
		}
	}
}

func TestExampleConfigParses(t *testing.T) {
	isolate(t)
	writeFile(t, "todolist.toml", ExampleConfig())

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("example config should load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("example config should validate: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	t.Setenv("TODOLIST_TEST_DIR", "/srv/todo")

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"$TODOLIST_TEST_DIR/data", "/srv/todo/data"},
		{"", ""},
	}
	if runtime.GOOS == "windows" {
		tests = append(tests, struct{ input, want string }{`~\test`, filepath.Join(home, "test")})
	} else {
		tests = append(tests, struct{ input, want string }{`~\test`, `~\test`})
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandPercentVars(t *testing.T) {
	t.Setenv("TODOLIST_PCT", "X")

	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"%TODOLIST_PCT%/a", "X/a"},
		{"a%TODOLIST_PCT%b%TODOLIST_PCT%c", "aXbXc"},
		{"%NOT_SET_TODOLIST%/a", "%NOT_SET_TODOLIST%/a"},
		{"100%", "100%"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandPercentVars(tt.input); got != tt.want {
				t.Errorf("expandPercentVars(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := boolFromString(tt.input); got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
