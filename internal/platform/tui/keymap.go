package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rune-race/internal/core"
)

// RaceKeyMap defines the key bindings used during a race.
type RaceKeyMap struct {
	Left       key.Binding
	Right      key.Binding
	Jump       key.Binding
	Standings  key.Binding
	Screenshot key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RaceKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Jump, k.Standings, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RaceKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Jump},
		{k.Standings, k.Screenshot, k.Help, k.Quit},
	}
}

// DefaultRaceKeyMap returns default key bindings.
func DefaultRaceKeyMap() RaceKeyMap {
	return RaceKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "run left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "run right"),
		),
		Jump: key.NewBinding(
			key.WithKeys(" ", "up", "w", "k"),
			key.WithHelp("space/↑", "jump"),
		),
		Standings: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "standings"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "leave"),
		),
	}
}

// MapKey translates a key message to a race action.
// Keys that do not steer the avatar map to ActionNone.
func (k RaceKeyMap) MapKey(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.Jump):
		return core.ActionJump
	}
	return core.ActionNone
}
