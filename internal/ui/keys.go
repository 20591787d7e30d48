package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the TUI bindings. Bindings that do not apply to the
// focused pane are disabled so help only lists what works.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Edit   key.Binding
	Delete key.Binding
	Commit key.Binding
	Cancel key.Binding
	Focus  key.Binding
	Help   key.Binding
	Quit   key.Binding
	Force  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space", "x"),
			key.WithHelp("space", "toggle"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add/save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel edit"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch focus"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Force: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// setFocus enables the bindings that apply to the focused pane.
func (k *keyMap) setFocus(f focus) {
	list := f == focusList
	k.Up.SetEnabled(list)
	k.Down.SetEnabled(list)
	k.Toggle.SetEnabled(list)
	k.Edit.SetEnabled(list)
	k.Delete.SetEnabled(list)
	k.Help.SetEnabled(list)
	k.Quit.SetEnabled(list)
	k.Commit.SetEnabled(!list)
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Commit, k.Toggle, k.Edit, k.Delete, k.Focus, k.Help, k.Quit, k.Force}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Edit, k.Delete, k.Commit, k.Cancel},
		{k.Focus, k.Help, k.Quit, k.Force},
	}
}
