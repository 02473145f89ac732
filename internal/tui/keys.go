package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists every binding on the clone screen. Text inputs keep the
// printable keys, so actions sit on control and function keys.
type keyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Up        key.Binding
	Down      key.Binding
	Calculate key.Binding
	Present   key.Binding
	Random    key.Binding
	Paste     key.Binding
	Options   key.Binding
	KeyB      key.Binding
	Reset     key.Binding
	Info      key.Binding
	History   key.Binding
	Wipe      key.Binding
	Help      key.Binding
	Close     key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "prev tag")),
		Down:      key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next tag")),
		Calculate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "calculate block 0")),
		Present:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "present tag")),
		Random:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "random uid")),
		Paste:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste uid")),
		Options:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "options")),
		KeyB:      key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "key A/B")),
		Reset:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "start over")),
		Info:      key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "info")),
		History:   key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "history")),
		Wipe:      key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "clear history")),
		Help:      key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Calculate, k.Present, k.Options, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Up, k.Down},
		{k.Calculate, k.Present, k.Random, k.Paste},
		{k.Options, k.KeyB, k.Reset},
		{k.Info, k.History, k.Wipe, k.Help, k.Quit},
	}
}
