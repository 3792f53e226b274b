package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	ListAll  key.Binding
	Search   key.Binding
	Create   key.Binding
	Update   key.Binding
	Retrieve key.Binding
	Delete   key.Binding
	Clear    key.Binding
	Switch   key.Binding

	AddItem    key.Binding
	EditItem   key.Binding
	DeleteItem key.Binding
	Move       key.Binding
	MoveTo     key.Binding
	Cancel     key.Binding
	Refresh    key.Binding
	Up         key.Binding
	Down       key.Binding

	Help key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ListAll:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "list all")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Create:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new wishlist")),
		Update:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "update")),
		Retrieve: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Delete:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete wishlist")),
		Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear selection")),
		Switch:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),

		AddItem:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add item")),
		EditItem:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit description")),
		DeleteItem: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete item")),
		Move:       key.NewBinding(key.WithKeys("m", " "), key.WithHelp("m", "pick up/drop")),
		MoveTo:     key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "move before position")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Switch, k.Search, k.Create, k.AddItem, k.Move, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ListAll, k.Search, k.Create, k.Update, k.Retrieve, k.Delete, k.Clear},
		{k.AddItem, k.EditItem, k.DeleteItem, k.Move, k.MoveTo, k.Cancel, k.Refresh, k.Up, k.Down},
		{k.Switch, k.Help, k.Quit},
	}
}
