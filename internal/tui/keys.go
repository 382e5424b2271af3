package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Sort     key.Binding
	Group    key.Binding
	Filter   key.Binding
	Columns  key.Binding
	Summary  key.Binding
	Export   key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
	NextPage: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next page")),
	PrevPage: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev page")),
	Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort by column")),
	Group:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "cycle grouping")),
	Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filters")),
	Columns:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "columns")),
	Summary:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "summary")),
	Export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
	Edit:     key.NewBinding(key.WithKeys("enter", "u"), key.WithHelp("enter", "edit entry")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete entry")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Sort, k.Group, k.Filter, k.Columns, k.Export, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.NextPage, k.PrevPage, k.Refresh, k.Edit, k.Delete},
		{k.Sort, k.Group, k.Filter, k.Columns},
		{k.Summary, k.Export, k.Help, k.Quit},
	}
}
