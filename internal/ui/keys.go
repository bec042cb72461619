package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down   key.Binding
	Add        key.Binding
	Delete     key.Binding
	Copy       key.Binding
	Visibility key.Binding
	Reveal     key.Binding
	Reload     key.Binding
	Quit       key.Binding

	NextField key.Binding
	Generate  key.Binding
	Submit    key.Binding
	Back      key.Binding

	Letters key.Binding
	Digits  key.Binding
	Symbols key.Binding
	Case    key.Binding

	Confirm key.Binding
	Cancel  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Add:        key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add")),
		Delete:     key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		Copy:       key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
		Visibility: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "show/hide")),
		Reveal:     key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "reveal selected")),
		Reload:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),

		NextField: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		Generate:  key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "generator")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),

		Letters: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "letters")),
		Digits:  key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "digits")),
		Symbols: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "symbols")),
		Case:    key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "letter case")),

		Confirm: key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "delete")),
		Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),
	}
}
