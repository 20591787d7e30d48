// Package todo holds the task list state and the transitions that change it.
package todo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Task represents a single item in the list.
type Task struct {
	ID     int64  `json:"id" yaml:"id"`
	Detail string `json:"detail" yaml:"detail"`
	Status bool   `json:"status" yaml:"status"`
}

// NoEdit is the EditIndex value while a new task is being composed.
const NoEdit = -1

// State is the full list state: committed tasks, the draft buffer and the edit cursor.
type State struct {
	List      []Task
	Draft     Task
	EditIndex int

	// lastID is the highest ID ever issued or loaded.
	lastID int64
}

// NewState returns a state holding tasks, ready to compose a new task.
func NewState(tasks []Task) State {
	s := State{
		List:      append([]Task(nil), tasks...),
		EditIndex: NoEdit,
	}
	for _, t := range s.List {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	return s
}

// Editing reports whether the draft revises an existing task.
func (s State) Editing() bool {
	return s.EditIndex != NoEdit
}

// IndexOf returns the position of the task with id, or -1.
func (s State) IndexOf(id int64) int {
	for i := range s.List {
		if s.List[i].ID == id {
			return i
		}
	}
	return -1
}

// Action is one of the closed set of transitions accepted by Reduce.
type Action interface {
	// Name is the stable identifier used in journals and hooks.
	Name() string
	isAction()
}

// SetDraftText replaces the draft text.
type SetDraftText struct {
	Text string
}

// Commit appends the draft as a new task, or writes it back to the task under edit.
type Commit struct{}

// Delete removes the task with ID.
type Delete struct {
	ID int64
}

// ToggleStatus flips the done flag of the task with ID.
type ToggleStatus struct {
	ID int64
}

// BeginEdit loads the task with ID into the draft and points the edit cursor at it.
type BeginEdit struct {
	ID int64
}

// CancelEdit drops the draft and returns to composing a new task.
type CancelEdit struct{}

func (SetDraftText) Name() string { return "set_draft_text" }
func (Commit) Name() string       { return "commit" }
func (Delete) Name() string       { return "delete" }
func (ToggleStatus) Name() string { return "toggle_status" }
func (BeginEdit) Name() string    { return "begin_edit" }
func (CancelEdit) Name() string   { return "cancel_edit" }

func (SetDraftText) isAction() {}
func (Commit) isAction()       {}
func (Delete) isAction()       {}
func (ToggleStatus) isAction() {}
func (BeginEdit) isAction()    {}
func (CancelEdit) isAction()   {}

// TaskID returns the task an action targets, or 0 for actions that carry none.
func TaskID(a Action) int64 {
	switch a := a.(type) {
	case Delete:
		return a.ID
	case ToggleStatus:
		return a.ID
	case BeginEdit:
		return a.ID
	}
	return 0
}

// Reduce applies a to s and returns the resulting state.
// It never mutates s.List; any change produces a fresh slice.
// Actions that match no task return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetDraftText:
		s.Draft.Detail = a.Text
		return s
	case Commit:
		return commit(s)
	case Delete:
		return deleteTask(s, a.ID)
	case ToggleStatus:
		i := s.IndexOf(a.ID)
		if i < 0 {
			return s
		}
		list := append([]Task(nil), s.List...)
		list[i].Status = !list[i].Status
		s.List = list
		return s
	case BeginEdit:
		i := s.IndexOf(a.ID)
		if i < 0 {
			return s
		}
		s.EditIndex = i
		s.Draft = Task{Detail: s.List[i].Detail}
		return s
	case CancelEdit:
		s.Draft = Task{}
		s.EditIndex = NoEdit
		return s
	}
	return s
}

func commit(s State) State {
	if strings.TrimSpace(s.Draft.Detail) == "" {
		return s
	}

	list := append([]Task(nil), s.List...)
	if s.EditIndex >= 0 && s.EditIndex < len(list) {
		list[s.EditIndex].Detail = s.Draft.Detail
	} else {
		id, ok := nextID(&s)
		if !ok {
			return s
		}
		list = append(list, Task{ID: id, Detail: s.Draft.Detail})
	}

	s.List = list
	s.Draft = Task{}
	s.EditIndex = NoEdit
	return s
}

// nextID issues the ID for a new task. IDs grow
// monotonically; once the counter reaches math.MaxInt64 the lowest positive
// ID not held by any task is issued instead.
func nextID(s *State) (int64, bool) {
	if s.lastID < math.MaxInt64 {
		s.lastID++
		return s.lastID, true
	}
	used := make(map[int64]struct{}, len(s.List))
	for _, t := range s.List {
		used[t.ID] = struct{}{}
	}
	for id := int64(1); id > 0; id++ {
		if _, ok := used[id]; !ok {
			return id, true
		}
	}
	return 0, false
}

// deleteTask removes the task with id and keeps the edit cursor on the same task.
// Deleting the task under edit drops the draft.
func deleteTask(s State, id int64) State {
	i := s.IndexOf(id)
	if i < 0 {
		return s
	}

	list := make([]Task, 0, len(s.List)-1)
	list = append(list, s.List[:i]...)
	list = append(list, s.List[i+1:]...)
	s.List = list

	switch {
	case s.EditIndex == i:
		s.Draft = Task{}
		s.EditIndex = NoEdit
	case s.EditIndex > i:
		s.EditIndex--
	}
	return s
}

// ParseID parses a task ID given on the command line.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
