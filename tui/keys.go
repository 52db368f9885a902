package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"go-drumkit/kit"
)

type keyMap struct {
	Pads key.Binding
	Help key.Binding
	Quit key.Binding
}

func newKeyMap() keyMap {
	keys := strings.Split(kit.Keys(), "")
	return keyMap{
		Pads: key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(strings.Join(keys, " "), "play pad"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pads, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pads},
		{k.Help, k.Quit},
	}
}
