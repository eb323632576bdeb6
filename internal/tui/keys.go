package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Tab   key.Binding
	Enter key.Binding

	// Library
	Filter      key.Binding
	Jump        key.Binding
	Select      key.Binding
	SelectAll   key.Binding
	NewCategory key.Binding
	AddToCat    key.Binding
	RemoveCat   key.Binding
	Delete      key.Binding
	ImportFile  key.Binding
	ImportDir   key.Binding

	// Transport
	PlayPause key.Binding
	NextTrack key.Binding
	PrevTrack key.Binding
	SeekFwd   key.Binding
	SeekBack  key.Binding
	StopPlay  key.Binding

	Help   key.Binding
	Escape key.Binding
	Quit   key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play/filter"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Jump: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "jump to track"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		NewCategory: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new folder"),
		),
		AddToCat: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "file into folder"),
		),
		RemoveCat: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unfile from folder"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		ImportFile: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "import files"),
		),
		ImportDir: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "import folder"),
		),
		PlayPause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "play/pause"),
		),
		NextTrack: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next"),
		),
		PrevTrack: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous"),
		),
		SeekFwd: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "seek +10s"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "seek -10s"),
		),
		StopPlay: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "cancel"),
		),
	}
}
