package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Enter key.Binding
	Back  key.Binding
	Tab   key.Binding

	// Views
	Library key.Binding
	Browse  key.Binding
	Search  key.Binding
	Filter  key.Binding

	// Actions
	Quit          key.Binding
	Refresh       key.Binding
	ToggleEpisode key.Binding
	ToggleSeason  key.Binding
	ToggleShow    key.Binding
	Favorite      key.Binding
	Watchlist     key.Binding
	Watching      key.Binding
	Completed     key.Binding
	Dropped       key.Binding
	Paused        key.Binding

	// Dialog
	Confirm key.Binding
	Dismiss key.Binding
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
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "prev page"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next page"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next status tab"),
		),

		Library: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "library"),
		),
		Browse: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "browse"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		ToggleEpisode: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle episode"),
		),
		ToggleSeason: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle season"),
		),
		ToggleShow: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "toggle show"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "favorite"),
		),
		Watchlist: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "watchlist"),
		),
		Watching: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "watching"),
		),
		Completed: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "completed"),
		),
		Dropped: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dropped"),
		),
		Paused: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "paused"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter", "y"),
			key.WithHelp("enter", "retry"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc", "n"),
			key.WithHelp("esc", "dismiss"),
		),
	}
}
