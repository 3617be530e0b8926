package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	ShowAll   key.Binding
	ToggleAll key.Binding
	Next      key.Binding
	Prev      key.Binding
	Picker    key.Binding
	Dashboard key.Binding
	Launch    key.Binding
	Kill      key.Binding
	Enter     key.Binding
	Escape    key.Binding
	Quit      key.Binding
	CtrlC     key.Binding
}

var keys = keyMap{
	ShowAll: key.NewBinding(
		key.WithKeys("a"),
	),
	ToggleAll: key.NewBinding(
		key.WithKeys("t"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "n"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "p"),
	),
	Picker: key.NewBinding(
		key.WithKeys("/"),
	),
	Dashboard: key.NewBinding(
		key.WithKeys("d"),
	),
	Launch: key.NewBinding(
		key.WithKeys("g"),
	),
	Kill: key.NewBinding(
		key.WithKeys("ctrl+k"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
}
