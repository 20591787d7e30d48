// Package hooks invokes an external command after the task list is saved.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todolist-go/internal/todo"
)

// waitDelay bounds how long Invoke waits for output pipes after the
// hook process is killed.
const waitDelay = time.Second

// Options configures a hook invocation.
type Options struct {
	Command string
	// Event is the action name that caused the save, e.g. "commit".
	Event   string
	TaskID  int64
	WorkDir string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
}

// Invoke runs "<command> <event> <task-id>". An empty command is a no-op.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	if opts.Command == "" {
		return Result{}, nil
	}
	if opts.Event == "" {
		return Result{}, fmt.Errorf("hook event is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, opts.Command, opts.Event, strconv.FormatInt(opts.TaskID, 10))
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Stdout = opts.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = opts.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

// Listener returns a store listener that invokes the hook after every
// successful save. Failures are logged, not returned.
func Listener(base Options, logger *log.Logger) todo.Listener {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return func(ctx context.Context, ev todo.Event) {
		if base.Command == "" || !ev.Changed || ev.Err != nil {
			return
		}
		opts := base
		opts.Event = ev.Action
		opts.TaskID = ev.TaskID
		result, err := Invoke(ctx, opts)
		if err != nil {
			logger.Warn("Hook failed", "command", base.Command, "event", ev.Action, "exit_code", result.ExitCode, "err", err)
			return
		}
		logger.Debug("Hook ran", "command", base.Command, "event", ev.Action, "task_id", ev.TaskID)
	}
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
