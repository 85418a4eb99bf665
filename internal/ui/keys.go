package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
)

type keyMap struct {
	Details   key.Binding
	Text      key.Binding
	JSON      key.Binding
	AllFrames key.Binding
	Context   key.Binding
	Fix       key.Binding
	Expand    key.Binding
	Close     key.Binding
	Reload    key.Binding
	Up        key.Binding
	Down      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Details: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "details"),
		),
		Text: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "as text"),
		),
		JSON: key.NewBinding(
			key.WithKeys("j"),
			key.WithHelp("j", "as json"),
		),
		AllFrames: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "vendor frames"),
		),
		Context: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "context"),
		),
		Fix: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fix prompt"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "expand/collapse"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "scroll down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Details, k.Text, k.JSON, k.Context, k.Fix, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Details, k.Text, k.JSON, k.AllFrames, k.Context},
		{k.Fix, k.Close, k.Expand, k.Reload},
		{k.Up, k.Down, k.Help, k.Quit},
	}
}

// viewportKeyMap leaves letter keys to the card toggles
func viewportKeyMap(k keyMap) viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           k.Up,
		Down:         k.Down,
	}
}
