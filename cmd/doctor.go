package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/nibzard/todolist-go/internal/config"
	"github.com/nibzard/todolist-go/internal/logging"
	"github.com/nibzard/todolist-go/internal/storage"
	"github.com/nibzard/todolist-go/internal/todo"
	"github.com/nibzard/todolist-go/internal/utils"
)

// doctorCommand checks the configuration, the storage backend and the stored list.
func doctorCommand(ctx context.Context, cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("todolist doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	cfg := cws.Config

	fmt.Println("Todolist Doctor")
	fmt.Println("===============")
	fmt.Println()

	allOK := true

	// Check project root
	fmt.Printf("Project root: %s\n", cfg.ProjectRoot)
	if _, err := os.Stat(cfg.ProjectRoot); err != nil {
		fmt.Printf("  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	// Check config
	fmt.Println("Config:")
	if len(cws.Files) == 0 {
		fmt.Println("  ⚠️  No config file (using defaults)")
	}
	for _, f := range cws.Files {
		fmt.Printf("  File: %s\n", f)
	}
	configErr := cfg.Validate()
	if configErr != nil {
		fmt.Printf("  ❌ %v\n", configErr)
		allOK = false
	} else {
		fmt.Printf("  ✅ Backend: %s, encoding: %s, key: %s\n", cfg.Backend, cfg.Encoding, cfg.StorageKey)
	}
	fmt.Println()

	// Check schema
	if cfg.SchemaFile != "" {
		fmt.Printf("Schema file: %s\n", cfg.SchemaFile)
	} else {
		fmt.Println("Schema file: (embedded)")
	}
	if !checkSchema(cfg.SchemaFile, *verbose) {
		allOK = false
	}
	fmt.Println()

	// Check storage and the stored list
	fmt.Printf("Storage: %s\n", describeStorage(cfg))
	if configErr != nil {
		fmt.Println("  ⚠️  Skipped (invalid config)")
	} else if !checkStorage(ctx, cfg, *verbose) {
		allOK = false
	}
	fmt.Println()

	// Check hook
	if cfg.HookCommand != "" {
		fmt.Println("Hook:")
		if !checkBinary("command", cfg.HookCommand, true) {
			allOK = false
		}
		fmt.Println()
	}

	// Check journal directory
	if cfg.Journal {
		logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot)
		if err != nil {
			fmt.Printf("Journal directory: %s\n", cfg.LogDir)
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		} else {
			fmt.Printf("Journal directory: %s\n", logDir)
			if info, err := os.Stat(logDir); err != nil {
				if os.IsNotExist(err) {
					fmt.Println("  ⚠️  Not found (will be created on first change)")
				} else {
					fmt.Printf("  ❌ Error: %v\n", err)
					allOK = false
				}
			} else if !info.IsDir() {
				fmt.Println("  ❌ Error: path is not a directory")
				allOK = false
			} else {
				fmt.Println("  ✅ OK")
			}
		}
		fmt.Println()
	}

	// Overall status
	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Todolist may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

func describeStorage(cfg *config.Config) string {
	switch storage.NormalizeBackend(cfg.Backend) {
	case storage.BackendFile:
		return fmt.Sprintf("file in %s", cfg.DataDir)
	case storage.BackendSQLite:
		if cfg.DSN != "" {
			return "sqlite " + cfg.DSN
		}
		return "sqlite " + storage.DefaultSQLitePath(cfg.DataDir)
	case storage.BackendMySQL:
		return "mysql"
	default:
		return cfg.Backend
	}
}

func checkSchema(path string, verbose bool) bool {
	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Printf("  ❌ Error: %v\n", err)
			return false
		}
		if info.IsDir() {
			fmt.Println("  ❌ Error: path is a directory")
			return false
		}
	}
	if _, err := todo.NewValidator(path); err != nil {
		fmt.Printf("  ❌ %v\n", err)
		return false
	}
	fmt.Println("  ✅ OK")
	if verbose && path == "" {
		for _, line := range strings.Split(strings.TrimSpace(string(todo.DefaultSchema())), "\n") {
			fmt.Printf("    %s\n", line)
		}
	}
	return true
}

func checkStorage(ctx context.Context, cfg *config.Config, verbose bool) bool {
	repo, kv, err := openRepository(ctx, cfg)
	if err != nil {
		fmt.Printf("  ❌ Error: %v\n", err)
		return false
	}
	defer kv.Close()
	fmt.Println("  ✅ Opened")

	result, err := repo.Validate(ctx)
	if err != nil {
		fmt.Printf("  ❌ Read error: %v\n", err)
		return false
	}
	if !result.Present {
		fmt.Printf("  ⚠️  No list stored under %q (starts empty)\n", cfg.StorageKey)
		return true
	}

	for _, w := range result.Warnings {
		fmt.Printf("  ⚠️  %s\n", w)
	}
	if !result.Valid {
		fmt.Println("  ❌ Validation failed (the list will load empty):")
		for _, e := range result.Errors {
			fmt.Printf("     - %v\n", e)
		}
		return false
	}

	done := 0
	for _, t := range result.Tasks {
		if t.Status {
			done++
		}
	}
	fmt.Println("  ✅ Valid")
	fmt.Printf("  Tasks: %d (%d done)\n", len(result.Tasks), done)
	if verbose {
		for _, t := range result.Tasks {
			fmt.Printf("    - %s [%d] %s\n", statusIcon(t), t.ID, t.Detail)
		}
	}
	return true
}

func checkBinary(label, binary string, required bool) bool {
	fmt.Printf("  %s: %s\n", label, binary)
	if strings.TrimSpace(binary) == "" {
		if required {
			fmt.Println("  ❌ Not configured")
			return false
		}
		fmt.Println("  ⚠️  Not configured")
		return true
	}
	if info, err := os.Stat(binary); err == nil {
		if info.IsDir() {
			fmt.Println("  ❌ Path is a directory")
			return !required
		}
		if !utils.IsExecutable(binary, info) {
			fmt.Println("  ❌ Not executable")
			return !required
		}
		fmt.Println("  ✅ OK")
		return true
	}

	resolved, err := exec.LookPath(binary)
	if err == nil {
		fmt.Printf("  ✅ OK (found in PATH: %s)\n", resolved)
		return true
	}

	if required {
		fmt.Printf("  ❌ Not found: %v\n", err)
		return false
	}
	fmt.Printf("  ⚠️  Not found: %v\n", err)
	return true
}
