package todo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
)

// ErrTaskNotFound is returned by lookups for an ID that is not in the list.
var ErrTaskNotFound = errors.New("task not found")

// Event describes one dispatched action.
type Event struct {
	Action string
	TaskID int64
	// Changed is true when the list itself changed and was flushed.
	Changed bool
	Tasks   int
	// Err is the flush error, if any.
	Err error
}

// Listener is notified after every dispatch.
type Listener func(ctx context.Context, ev Event)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for load warnings and flush errors.
func WithLogger(logger *log.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithListener registers l to run after each dispatch.
func WithListener(l Listener) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

// Store owns the list state and mirrors the list into its Storage.
// A Store is not safe for concurrent use.
type Store struct {
	state     State
	storage   Storage
	logger    *log.Logger
	listeners []Listener
}

// NewStore loads the list from storage once. Absent, unreadable or invalid
// data starts the store with an empty list.
func NewStore(ctx context.Context, storage Storage, opts ...StoreOption) *Store {
	s := &Store{
		storage: storage,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	tasks, ok, err := storage.Load(ctx)
	switch {
	case err != nil:
		s.logger.Warn("Ignoring stored task list", "err", err)
		tasks = nil
	case !ok:
		s.logger.Debug("No stored task list, starting empty")
	default:
		s.logger.Debug("Loaded task list", "tasks", len(tasks))
	}
	s.state = NewState(tasks)
	return s
}

// Dispatch applies a and flushes the list when it changed.
// The transition always takes effect; the returned error only reports a failed flush.
func (s *Store) Dispatch(ctx context.Context, a Action) error {
	before := s.state.List
	s.state = Reduce(s.state, a)
	changed := !slices.Equal(before, s.state.List)

	var err error
	if changed {
		if err = s.storage.Save(ctx, s.state.List); err != nil {
			s.logger.Error("Saving task list failed", "action", a.Name(), "err", err)
			err = fmt.Errorf("save after %s: %w", a.Name(), err)
		}
	}

	ev := Event{
		Action:  a.Name(),
		TaskID:  TaskID(a),
		Changed: changed,
		Tasks:   len(s.state.List),
		Err:     err,
	}
	if _, ok := a.(Commit); ok && changed {
		ev.TaskID = s.lastCommitted(before)
	}
	s.logger.Debug("Dispatched", "action", ev.Action, "task_id", ev.TaskID, "changed", changed)
	for _, l := range s.listeners {
		l(ctx, ev)
	}
	return err
}

// lastCommitted finds the task a commit touched by comparing against the
// list before the commit.
func (s *Store) lastCommitted(before []Task) int64 {
	if len(s.state.List) > len(before) {
		return s.state.List[len(s.state.List)-1].ID
	}
	for i := range s.state.List {
		if i < len(before) && s.state.List[i] != before[i] {
			return s.state.List[i].ID
		}
	}
	return 0
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	st := s.state
	st.List = append([]Task(nil), s.state.List...)
	return st
}

// Tasks returns a copy of the list.
func (s *Store) Tasks() []Task {
	return append([]Task(nil), s.state.List...)
}

// Draft returns the current draft text.
func (s *Store) Draft() string {
	return s.state.Draft.Detail
}

// Editing reports whether the draft revises an existing task.
func (s *Store) Editing() bool {
	return s.state.Editing()
}

// Find returns the task with id.
func (s *Store) Find(id int64) (Task, error) {
	i := s.state.IndexOf(id)
	if i < 0 {
		return Task{}, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	return s.state.List[i], nil
}
