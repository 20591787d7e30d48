// Package ui provides the terminal interface for a task list.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/nibzard/todolist-go/internal/todo"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	title     string
	altScreen bool
	output    io.Writer
	input     io.Reader
}

// WithTitle sets the heading shown above the list.
func WithTitle(title string) TUIOption {
	return func(c *tuiConfig) {
		c.title = title
	}
}

// WithAltScreen runs the TUI in the terminal's alternate screen.
func WithAltScreen(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.altScreen = enabled
	}
}

// WithOutput sets the terminal the TUI renders to. It must be a TTY.
func WithOutput(w io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.output = w
	}
}

// RunTUI runs the interactive list on top of store until the user quits
// or ctx is cancelled.
func RunTUI(ctx context.Context, store *todo.Store, opts ...TUIOption) error {
	c := &tuiConfig{
		title:     "Todo List",
		altScreen: true,
		output:    os.Stdout,
		input:     os.Stdin,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(c.output) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(ctx, store, c.title)
	progOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(c.output),
		tea.WithInput(c.input),
	}
	if c.altScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(model, progOpts...).Run(); err != nil {
		return err
	}
	return nil
}

type focus int

const (
	focusInput focus = iota
	focusList
)

type tuiModel struct {
	ctx    context.Context
	store  *todo.Store
	title  string
	input  textinput.Model
	keys   keyMap
	help   help.Model
	focus  focus
	cursor int
	width  int
	// err is the last flush error; it is cleared by the next successful dispatch.
	err error
}

func newTUIModel(ctx context.Context, store *todo.Store, title string) *tuiModel {
	ti := textinput.New()
	ti.Prompt = "❯ "
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	m := &tuiModel{
		ctx:   ctx,
		store: store,
		title: title,
		input: ti,
		keys:  newKeyMap(),
		help:  help.New(),
		focus: focusInput,
	}
	m.keys.setFocus(m.focus)
	m.syncInput()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		if msg.Width > 20 {
			m.input.Width = msg.Width - 20
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Force):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		return m, m.setFocus(1 - m.focus)
	case key.Matches(msg, m.keys.Cancel):
		if m.store.Editing() {
			m.dispatch(todo.CancelEdit{})
			return m, nil
		}
		if m.focus == focusInput {
			return m, m.setFocus(focusList)
		}
		return m, nil
	}

	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *tuiModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Commit) {
		m.dispatch(todo.Commit{})
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.store.Draft() {
		m.dispatch(todo.SetDraftText{Text: v})
	}
	return m, cmd
}

func (m *tuiModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.store.Tasks()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(tasks); ok {
			m.dispatch(todo.ToggleStatus{ID: t.ID})
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(tasks); ok {
			m.dispatch(todo.Delete{ID: t.ID})
		}
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(tasks); ok {
			m.dispatch(todo.BeginEdit{ID: t.ID})
			return m, m.setFocus(focusInput)
		}
	}
	return m, nil
}

func (m *tuiModel) selected(tasks []todo.Task) (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return todo.Task{}, false
	}
	return tasks[m.cursor], true
}

// dispatch applies a to the store and brings the input and cursor in
// line with the new state.
func (m *tuiModel) dispatch(a todo.Action) {
	m.err = m.store.Dispatch(m.ctx, a)
	m.syncInput()
	if n := len(m.store.Tasks()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *tuiModel) syncInput() {
	if draft := m.store.Draft(); m.input.Value() != draft {
		m.input.SetValue(draft)
		m.input.CursorEnd()
	}
}

func (m *tuiModel) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.keys.setFocus(f)
	if f == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// buttonLabel is "Save" while an existing task is being edited.
func (m *tuiModel) buttonLabel() string {
	if m.store.Editing() {
		return "Save"
	}
	return "Add"
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	b.WriteString(m.input.View())
	b.WriteString("  ")
	b.WriteString(buttonStyle.Render("[" + m.buttonLabel() + "]"))
	b.WriteString("\n\n")

	m.writeList(&b)

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *tuiModel) writeList(b *strings.Builder) {
	state := m.store.State()
	if len(state.List) == 0 {
		b.WriteString(mutedStyle.Render("  No tasks yet."))
		b.WriteString("\n\n")
		return
	}

	done := 0
	for i, t := range state.List {
		if t.Status {
			done++
		}
		b.WriteString(m.formatTask(i, t, i == state.EditIndex))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d of %d done", done, len(state.List))))
	b.WriteString("\n\n")
}

func (m *tuiModel) formatTask(i int, t todo.Task, editing bool) string {
	pointer := "  "
	if m.focus == focusList && i == m.cursor {
		pointer = selectedStyle.Render("> ")
	}

	check := "[ ]"
	detail := t.Detail
	if t.Status {
		check = "[x]"
		detail = doneStyle.Render(detail)
	}

	line := fmt.Sprintf("%s%s %s", pointer, check, detail)
	if editing {
		line += " " + editingStyle.Render("(editing)")
	}
	return line
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
