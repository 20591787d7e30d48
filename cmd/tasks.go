package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/todolist-go/internal/config"
	"github.com/nibzard/todolist-go/internal/todo"
)

// addCommand appends a task built from the joined arguments.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("usage: todolist add <text>")
	}

	s, err := openSession(ctx, cfg, sessionOptions{record: true})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.store.Dispatch(ctx, todo.SetDraftText{Text: text}); err != nil {
		return err
	}
	if err := s.store.Dispatch(ctx, todo.Commit{}); err != nil {
		return err
	}

	tasks := s.store.Tasks()
	added := tasks[len(tasks)-1]
	fmt.Printf("Added [%d] %s\n", added.ID, added.Detail)
	return nil
}

// editCommand replaces the text of one task through the edit cursor.
func editCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: todolist edit <id> <text>")
	}
	id, err := todo.ParseID(args[0])
	if err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if text == "" {
		return fmt.Errorf("task text is empty")
	}

	s, err := openSession(ctx, cfg, sessionOptions{record: true})
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.store.Find(id); err != nil {
		return err
	}
	for _, a := range []todo.Action{todo.BeginEdit{ID: id}, todo.SetDraftText{Text: text}, todo.Commit{}} {
		if err := s.store.Dispatch(ctx, a); err != nil {
			return err
		}
	}

	task, err := s.store.Find(id)
	if err != nil {
		return err
	}
	fmt.Printf("Updated [%d] %s\n", task.ID, task.Detail)
	return nil
}

// rmCommand deletes every listed task. Unknown IDs are reported after the
// known ones are removed.
func rmCommand(ctx context.Context, cfg *config.Config, args []string) error {
	return forEachID(ctx, cfg, "rm", args, func(s *session, id int64) error {
		task, err := s.store.Find(id)
		if err != nil {
			return err
		}
		if err := s.store.Dispatch(ctx, todo.Delete{ID: id}); err != nil {
			return err
		}
		fmt.Printf("Deleted [%d] %s\n", task.ID, task.Detail)
		return nil
	})
}

// toggleCommand flips the status of every listed task.
func toggleCommand(ctx context.Context, cfg *config.Config, args []string) error {
	return forEachID(ctx, cfg, "toggle", args, func(s *session, id int64) error {
		if _, err := s.store.Find(id); err != nil {
			return err
		}
		if err := s.store.Dispatch(ctx, todo.ToggleStatus{ID: id}); err != nil {
			return err
		}
		task, err := s.store.Find(id)
		if err != nil {
			return err
		}
		fmt.Printf("%s [%d] %s\n", statusIcon(task), task.ID, task.Detail)
		return nil
	})
}

func forEachID(ctx context.Context, cfg *config.Config, name string, args []string, fn func(*session, int64) error) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: todolist %s <id>...", name)
	}
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := todo.ParseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	s, err := openSession(ctx, cfg, sessionOptions{record: true})
	if err != nil {
		return err
	}
	defer s.Close()

	var errs []error
	for _, id := range ids {
		if err := fn(s, id); err != nil {
			if !errors.Is(err, todo.ErrTaskNotFound) {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// lsCommand prints the stored list in insertion order.
func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist ls", flag.ContinueOnError)
	format := fs.String("format", "text", "Output format (text|json|yaml)")
	verbose := fs.Bool("v", false, "Show a summary line")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, err := openSession(ctx, cfg, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	tasks := s.store.Tasks()
	if tasks == nil {
		tasks = []todo.Task{}
	}

	switch strings.ToLower(*format) {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case "yaml", "yml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		printTaskList(tasks)
		if *verbose {
			printSummary(tasks)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected text|json|yaml)", *format)
	}
}

func printTaskList(tasks []todo.Task) {
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Printf("  %s [%d] %s\n", statusIcon(t), t.ID, t.Detail)
	}
}

func printSummary(tasks []todo.Task) {
	done := 0
	for _, t := range tasks {
		if t.Status {
			done++
		}
	}
	fmt.Println()
	fmt.Printf("%d of %d done\n", done, len(tasks))
}

func statusIcon(t todo.Task) string {
	if t.Status {
		return "✅"
	}
	return "📝"
}
