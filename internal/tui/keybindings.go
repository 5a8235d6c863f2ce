package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the TUI keybindings.
type KeyMap struct {
	Left       key.Binding
	Right      key.Binding
	Sort       key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	FirstPage  key.Binding
	LastPage   key.Binding
	Dismiss    key.Binding
	DismissAll key.Binding
	Help       key.Binding
	Quit       key.Binding

	tableEnabled bool
}

// DefaultKeyMap returns the default bindings. Table bindings are disabled
// when the model has no table.
func DefaultKeyMap(withTable bool) KeyMap {
	km := KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev column"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next column"),
		),
		Sort: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("enter/s", "sort column"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "pgdown", "]"),
			key.WithHelp("n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "pgup", "["),
			key.WithHelp("p", "prev page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last page"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss toast"),
		),
		DismissAll: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear toasts"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		tableEnabled: withTable,
	}

	for _, b := range []*key.Binding{&km.Left, &km.Right, &km.Sort, &km.NextPage, &km.PrevPage, &km.FirstPage, &km.LastPage} {
		b.SetEnabled(withTable)
	}
	return km
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	if !k.tableEnabled {
		return []key.Binding{k.Dismiss, k.DismissAll, k.Quit}
	}
	return []key.Binding{k.Sort, k.NextPage, k.PrevPage, k.Dismiss, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Sort},
		{k.NextPage, k.PrevPage, k.FirstPage, k.LastPage},
		{k.Dismiss, k.DismissAll, k.Help, k.Quit},
	}
}
