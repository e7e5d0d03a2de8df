package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	Search  key.Binding
	Blur    key.Binding
	Toggle  key.Binding
	Type    key.Binding
	Capture key.Binding
	Sort    key.Binding
	Limit   key.Binding
	Clear   key.Binding
	Refresh key.Binding
	Back    key.Binding
	Forward key.Binding
	Detail  key.Binding
	Copy    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),

		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Blur:    key.NewBinding(key.WithKeys("esc", "enter", "tab"), key.WithHelp("esc", "done")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "capture")),
		Type:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "type")),
		Capture: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "captured filter")),
		Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Limit:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "page size")),
		Clear:   key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear filters")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Back:    key.NewBinding(key.WithKeys("[", "alt+left"), key.WithHelp("[", "back")),
		Forward: key.NewBinding(key.WithKeys("]", "alt+right"), key.WithHelp("]", "forward")),
		Detail:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy name")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Toggle, k.Type, k.Capture, k.Sort, k.Detail, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Search, k.Type, k.Capture, k.Sort, k.Limit, k.Clear},
		{k.Toggle, k.Detail, k.Copy, k.Refresh, k.Back, k.Forward},
		{k.Help, k.Quit},
	}
}
