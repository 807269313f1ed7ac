package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MenuKeyMap defines the key bindings of the race setup menu.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Quit   key.Binding
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "w", "k")),
		Down:   key.NewBinding(key.WithKeys("down", "s", "j")),
		Left:   key.NewBinding(key.WithKeys("left", "a", "h")),
		Right:  key.NewBinding(key.WithKeys("right", "d", "l")),
		Select: key.NewBinding(key.WithKeys("enter", " ")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc")),
	}
}

// Setup is what the menu lets a player choose before a local race.
type Setup struct {
	Level      int // first zone, 1..levels
	Bots       int
	Difficulty string
}

// MaxMenuBots caps the bot count offered by the menu.
const MaxMenuBots = 7

// menu rows
const (
	rowLevel = iota
	rowBots
	rowDifficulty
	rowStart
	rowCount
)

var (
	menuTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	menuActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	menuNormalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	menuHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// MenuModel is the Bubble Tea model for the race setup menu.
type MenuModel struct {
	setup        Setup
	levels       int
	difficulties []string
	cursor       int
	width        int
	height       int
	keys         MenuKeyMap
	quitting     bool
	started      bool
}

// NewMenuModel creates a setup menu starting from initial. difficulties
// lists the bot presets in order.
func NewMenuModel(initial Setup, levels int, difficulties []string, width, height int) MenuModel {
	if levels < 1 {
		levels = 1
	}
	initial.Level = wrap(initial.Level-1, levels) + 1
	initial.Bots = min(max(initial.Bots, 0), MaxMenuBots)
	if len(difficulties) > 0 && indexOf(difficulties, initial.Difficulty) < 0 {
		initial.Difficulty = difficulties[len(difficulties)/2]
	}

	return MenuModel{
		setup:        initial,
		levels:       levels,
		difficulties: difficulties,
		cursor:       rowStart,
		width:        width,
		height:       height,
		keys:         DefaultMenuKeyMap(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.cursor = wrap(m.cursor-1, rowCount)

	case key.Matches(msg, m.keys.Down):
		m.cursor = wrap(m.cursor+1, rowCount)

	case key.Matches(msg, m.keys.Left):
		m.change(-1)

	case key.Matches(msg, m.keys.Right):
		m.change(1)

	case key.Matches(msg, m.keys.Select):
		if m.cursor == rowStart {
			m.started = true
			return m, tea.Quit
		}
		m.change(1)
	}

	return m, nil
}

// change steps the value under the cursor.
func (m *MenuModel) change(step int) {
	switch m.cursor {
	case rowLevel:
		m.setup.Level = wrap(m.setup.Level-1+step, m.levels) + 1
	case rowBots:
		m.setup.Bots = min(max(m.setup.Bots+step, 0), MaxMenuBots)
	case rowDifficulty:
		if len(m.difficulties) > 0 {
			i := wrap(indexOf(m.difficulties, m.setup.Difficulty)+step, len(m.difficulties))
			m.setup.Difficulty = m.difficulties[i]
		}
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	rows := []string{
		fmt.Sprintf("Start zone   ‹ %d ›", m.setup.Level),
		fmt.Sprintf("Bots         ‹ %d ›", m.setup.Bots),
		fmt.Sprintf("Difficulty   ‹ %s ›", m.setup.Difficulty),
		"Start race",
	}

	var b strings.Builder
	b.WriteString(menuTitleStyle.Render("R U N E   R A C E"))
	b.WriteString("\n\n")
	for i, row := range rows {
		if i == m.cursor {
			b.WriteString(menuActiveStyle.Render("> " + row))
		} else {
			b.WriteString(menuNormalStyle.Render("  " + row))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(menuHintStyle.Render("↑/↓ choose  ←/→ change  enter start  q quit"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

// Started reports whether the player chose to start the race.
func (m MenuModel) Started() bool {
	return m.started
}

// Setup returns the current choices.
func (m MenuModel) Setup() Setup {
	return m.setup
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}

// RunMenu runs the setup menu. ok is false when the player quit.
func RunMenu(initial Setup, levels int, difficulties []string, width, height int) (setup Setup, ok bool, err error) {
	p := tea.NewProgram(
		NewMenuModel(initial, levels, difficulties, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return initial, false, err
	}

	m, isMenu := finalModel.(MenuModel)
	if !isMenu || !m.Started() {
		return initial, false, nil
	}
	return m.Setup(), true, nil
}
