// Package hooks provides tests for external post-save hook invocation.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todolist-go/internal/todo"
)

// writeHook writes an executable shell script and returns its path.
func writeHook(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("hook scripts use /bin/sh")
	}
	path := filepath.Join(t.TempDir(), "hook.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestInvoke tests the Invoke function with various scenarios.
func TestInvoke(t *testing.T) {
	t.Run("empty command returns success without running", func(t *testing.T) {
		result, err := Invoke(context.Background(), Options{Event: "commit", TaskID: 1})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Ran {
			t.Error("expected Ran to be false")
		}
	})

	t.Run("empty event returns error", func(t *testing.T) {
		result, err := Invoke(context.Background(), Options{Command: "true"})
		if err == nil {
			t.Fatal("expected error for empty event, got nil")
		}
		if result.Ran {
			t.Error("expected Ran to be false")
		}
	})

	t.Run("missing binary returns error", func(t *testing.T) {
		result, err := Invoke(context.Background(), Options{
			Command: filepath.Join(t.TempDir(), "does-not-exist"),
			Event:   "commit",
		})
		if err == nil {
			t.Fatal("expected error for missing binary, got nil")
		}
		if result.ExitCode != -1 {
			t.Errorf("expected ExitCode -1, got %d", result.ExitCode)
		}
	})
}

// TestInvokePassesArguments tests the argument contract.
func TestInvokePassesArguments(t *testing.T) {
	hook := writeHook(t, `echo "$1 $2"`)

	var stdout bytes.Buffer
	result, err := Invoke(context.Background(), Options{
		Command: hook,
		Event:   "toggle_status",
		TaskID:  42,
		Stdout:  &stdout,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Ran || result.ExitCode != 0 {
		t.Errorf("expected successful run, got %+v", result)
	}
	if got := strings.TrimSpace(stdout.String()); got != "toggle_status 42" {
		t.Errorf("hook saw %q, want %q", got, "toggle_status 42")
	}
	if len(result.Command) != 3 || result.Command[1] != "toggle_status" || result.Command[2] != "42" {
		t.Errorf("unexpected command %v", result.Command)
	}
}

// TestInvokeHookFailure tests a hook that returns non-zero exit code.
func TestInvokeHookFailure(t *testing.T) {
	hook := writeHook(t, "exit 42")

	result, err := Invoke(context.Background(), Options{Command: hook, Event: "delete", TaskID: 3})
	if err == nil {
		t.Fatal("expected error for failed hook, got nil")
	}
	if !result.Ran {
		t.Error("expected Ran to be true")
	}
	if result.ExitCode != 42 {
		t.Errorf("expected ExitCode 42, got %d", result.ExitCode)
	}
}

// TestInvokeWithWorkDir tests hook invocation with a custom working directory.
func TestInvokeWithWorkDir(t *testing.T) {
	workDir := t.TempDir()
	hook := writeHook(t, "pwd")

	var stdout bytes.Buffer
	_, err := Invoke(context.Background(), Options{Command: hook, Event: "commit", WorkDir: workDir, Stdout: &stdout})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(stdout.String()))
	want, _ := filepath.EvalSymlinks(workDir)
	if got != want {
		t.Errorf("hook ran in %q, want %q", got, want)
	}
}

// TestInvokeWithContextCancellation tests that a cancelled context kills the hook.
func TestInvokeWithContextCancellation(t *testing.T) {
	hook := writeHook(t, "exec sleep 10")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, err := Invoke(ctx, Options{Command: hook, Event: "commit", Stdout: &bytes.Buffer{}})
	if err == nil {
		t.Fatal("expected error for killed hook, got nil")
	}
	if !result.Ran {
		t.Error("expected Ran to be true")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("hook was not killed promptly (%s)", elapsed)
	}
}

// TestListener tests that only list-changing events run the hook.
func TestListener(t *testing.T) {
	out := filepath.Join(t.TempDir(), "calls.txt")
	hook := writeHook(t, `echo "$1 $2" >> "`+out+`"`)

	var logs bytes.Buffer
	listen := Listener(Options{Command: hook}, log.New(&logs))
	ctx := context.Background()
	listen(ctx, todo.Event{Action: "set_draft_text"})
	listen(ctx, todo.Event{Action: "commit", TaskID: 1, Changed: true, Tasks: 1})
	listen(ctx, todo.Event{Action: "toggle_status", TaskID: 9})
	listen(ctx, todo.Event{Action: "toggle_status", TaskID: 1, Changed: true, Err: errors.New("disk full")})
	listen(ctx, todo.Event{Action: "delete", TaskID: 1, Changed: true})

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "commit 1\ndelete 1\n" {
		t.Errorf("hook calls = %q", got)
	}
}

// TestListenerLogsFailure tests that a failing hook is logged and swallowed.
func TestListenerLogsFailure(t *testing.T) {
	hook := writeHook(t, "exit 3")

	var logs bytes.Buffer
	listen := Listener(Options{Command: hook, Stderr: &bytes.Buffer{}}, log.New(&logs))
	listen(context.Background(), todo.Event{Action: "commit", TaskID: 2, Changed: true})

	if !strings.Contains(logs.String(), "Hook failed") || !strings.Contains(logs.String(), "exit_code=3") {
		t.Errorf("expected failure to be logged, got %q", logs.String())
	}
}

// TestListenerWithoutCommand tests the no-op listener.
func TestListenerWithoutCommand(t *testing.T) {
	listen := Listener(Options{}, nil)
	listen(context.Background(), todo.Event{Action: "commit", Changed: true})
}
