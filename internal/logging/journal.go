package logging

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nibzard/todolist-go/internal/todo"
)

// Entry is one line of a journal.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	TaskID    int64     `json:"task_id,omitempty"`
	Changed   bool      `json:"changed"`
	Tasks     int       `json:"tasks"`
	Error     string    `json:"error,omitempty"`
}

// Journal appends one JSON line per dispatched action to a per-run file
// under <base>/<project-slug>/<run-id>.jsonl.
type Journal struct {
	Dir     string
	RunID   string
	LogPath string

	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	err  error
	now  func() time.Time
}

// OpenJournal creates the per-run journal directory and file.
func OpenJournal(baseDir, workDir string) (*Journal, error) {
	logDir, err := FindLogDir(baseDir, workDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := runID()
	logPath := filepath.Join(logDir, id+".jsonl")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &Journal{
		Dir:     logDir,
		RunID:   id,
		LogPath: logPath,
		file:    file,
		enc:     json.NewEncoder(file),
		now:     time.Now,
	}, nil
}

// Write appends e. A zero timestamp is filled in.
func (j *Journal) Write(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return j.fail(os.ErrClosed)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = j.now().UTC()
	}
	if err := j.enc.Encode(e); err != nil {
		return j.fail(err)
	}
	return nil
}

// fail keeps the first write error for Err. Callers hold j.mu.
func (j *Journal) fail(err error) error {
	if j.err == nil {
		j.err = err
	}
	return err
}

// Listener returns a store listener that records every event.
// Listeners cannot fail, so write errors surface through Err.
func (j *Journal) Listener() todo.Listener {
	return func(_ context.Context, ev todo.Event) {
		e := Entry{
			Action:  ev.Action,
			TaskID:  ev.TaskID,
			Changed: ev.Changed,
			Tasks:   ev.Tasks,
		}
		if ev.Err != nil {
			e.Error = ev.Err.Error()
		}
		_ = j.Write(e)
	}
}

// Err returns the first write error, if any.
func (j *Journal) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// FindLogDir returns the journal directory for a given work directory.
func FindLogDir(baseDir, workDir string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("log base dir is empty")
	}

	resolvedWorkDir := workDir
	if resolvedWorkDir == "" {
		resolvedWorkDir = "."
	}
	if abs, err := filepath.Abs(resolvedWorkDir); err == nil {
		resolvedWorkDir = abs
	}

	baseDir = resolveBaseDir(baseDir, resolvedWorkDir)
	projectRoot := resolveProjectRoot(resolvedWorkDir)
	return filepath.Join(baseDir, projectSlug(projectRoot)), nil
}

func resolveBaseDir(baseDir, workDir string) string {
	if filepath.IsAbs(baseDir) {
		return filepath.Clean(baseDir)
	}
	return filepath.Clean(filepath.Join(workDir, baseDir))
}

// resolveProjectRoot prefers the enclosing git work tree so journals from
// subdirectories of one repository land together.
func resolveProjectRoot(workDir string) string {
	if workDir == "" {
		return "."
	}
	if _, err := exec.LookPath("git"); err == nil {
		cmd := exec.Command("git", "-C", workDir, "rev-parse", "--show-toplevel")
		if output, err := cmd.Output(); err == nil {
			if root := strings.TrimSpace(string(output)); root != "" {
				return root
			}
		}
	}
	return workDir
}

func projectSlug(projectRoot string) string {
	return fmt.Sprintf("%s-%s", slugify(filepath.Base(projectRoot)), hashPath(projectRoot))
}

func slugify(input string) string {
	if strings.TrimSpace(input) == "" {
		return "project"
	}

	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "project"
	}
	return slug
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

// runID is <utc timestamp>-<pid>; millisecond precision keeps two runs
// of a fast CLI in one second apart.
func runID() string {
	now := time.Now().UTC()
	return fmt.Sprintf("%s-%03d-%d", now.Format("20060102-150405"), now.Nanosecond()/int(time.Millisecond), os.Getpid())
}
