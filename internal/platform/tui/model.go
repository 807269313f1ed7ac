package tui

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/session"
)

// chromeLines is how many rows the HUD and help line take.
const chromeLines = 2

var (
	hudStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	hudDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	winnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	standingStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// Model is the Bubble Tea model for one participant's view of a race.
// It ticks the participant's loop and feeds key presses to its joystick.
// A spectator model has no joystick.
type Model struct {
	loop      *session.Loop
	stick     *session.Joystick
	leave     func()
	screen    *core.Screen
	config    core.RuntimeConfig
	keys      RaceKeyMap
	help      help.Model
	standings table.Model
	hud       session.HUD
	avatars   []session.AvatarView

	showStandings bool
	quitting      bool
}

// NewModel creates a race view. leave runs once when the viewer quits.
func NewModel(loop *session.Loop, stick *session.Joystick, leave func(), cfg core.RuntimeConfig) Model {
	if cfg.TickRate <= 0 {
		cfg.TickRate = session.DefaultOptions().TickRate
	}
	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		loop:      loop,
		stick:     stick,
		leave:     once(leave),
		screen:    core.NewScreen(cfg.ScreenW, max(1, cfg.ScreenH-chromeLines)),
		config:    cfg,
		keys:      DefaultRaceKeyMap(),
		help:      h,
		standings: newStandingsTable(),
	}
}

func once(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return sync.OnceFunc(fn)
}

func newStandingsTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Racer", Width: 16},
			{Title: "Runes", Width: 6},
			{Title: "", Width: 8},
		}),
		table.WithFocused(false),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	return t
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(1, msg.Height-chromeLines))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Standings):
		m.showStandings = !m.showStandings
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	}

	action := m.keys.MapKey(msg)
	if action == core.ActionQuit {
		m.quitting = true
		m.leave()
		return m, tea.Quit
	}
	if action != core.ActionNone && m.stick != nil {
		m.stick.Press(action)
	}
	return m, nil
}

// handleTick runs one loop frame and refreshes the derived view state.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	wasFinished := m.hud.Finished

	m.loop.Tick(now)
	m.hud = m.loop.HUD(now)
	m.avatars = m.loop.Avatars()
	m.standings.SetRows(standingRows(m.avatars, m.hud))
	if m.hud.Finished && !wasFinished {
		m.showStandings = true
	}
	return m, tickCmd(m.config.TickRate)
}

// standingRows ranks racers: the winner first, then by runes held, then
// by join order.
func standingRows(avatars []session.AvatarView, h session.HUD) []table.Row {
	ranked := slices.Clone(avatars)
	slices.SortStableFunc(ranked, func(a, b session.AvatarView) int {
		aw := h.Finished && a.ID == h.WinnerID
		bw := h.Finished && b.ID == h.WinnerID
		if aw != bw {
			if aw {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.Captured, a.Captured)
	})

	rows := make([]table.Row, len(ranked))
	for i, a := range ranked {
		var tag string
		switch {
		case h.Finished && a.ID == h.WinnerID:
			tag = "winner"
		case a.Self:
			tag = "you"
		case a.Host:
			tag = "host"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			a.Name,
			fmt.Sprintf("%d/%d", a.Captured, h.Total),
			tag,
		}
	}
	return rows
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.hudLine())
	b.WriteRune('\n')

	if m.showStandings {
		b.WriteString(lipgloss.Place(
			m.screen.Width(), m.screen.Height(),
			lipgloss.Center, lipgloss.Center,
			standingStyle.Render(m.standingsView()),
		))
	} else {
		DrawRace(m.screen, m.scene())
		b.WriteString(RenderScreen(m.screen))
	}

	b.WriteRune('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) standingsView() string {
	title := "Standings"
	if line := m.hud.Announcement(); line != "" {
		title = winnerStyle.Render(line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, m.standings.View())
}

func (m Model) hudLine() string {
	parts := []string{
		hudStyle.Render(fmt.Sprintf("Runes %d/%d", m.hud.Captured, m.hud.Total)),
		hudStyle.Render(m.hud.Clock()),
		hudDimStyle.Render(fmt.Sprintf("%d racing", m.hud.Racers)),
		hudDimStyle.Render(m.roleLabel()),
	}
	if line := m.hud.Announcement(); line != "" {
		parts = append(parts, winnerStyle.Render(line))
	}
	return strings.Join(parts, hudDimStyle.Render("  │  "))
}

func (m Model) roleLabel() string {
	if m.stick == nil {
		return "watching"
	}
	return strings.ToLower(m.hud.Role.String())
}

// scene collects what DrawRace needs, centred on the viewer's avatar or,
// for a spectator, on the leader.
func (m Model) scene() Scene {
	c := m.loop.Course()
	sc := Scene{
		Course:   c,
		Avatars:  m.avatars,
		Captured: make(map[int]bool),
		Focus:    c.Spawn,
	}
	for _, id := range m.loop.CapturedBy(m.loop.Self()) {
		sc.Captured[id] = true
	}

	leader := -1.0
	for _, a := range m.avatars {
		if a.Self {
			sc.Focus = a.Box.Center()
			break
		}
		if x := a.Box.Center().X; x > leader {
			leader = x
			sc.Focus = a.Box.Center()
		}
	}
	return sc
}

// saveScreenshot saves the current field to a file.
func (m *Model) saveScreenshot() {
	DrawRace(m.screen, m.scene())

	dir := filepath.Join(os.Getenv("HOME"), ".runerace", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("race_%s.txt", time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, the race continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// HUD returns the HUD as of the last tick.
func (m Model) HUD() session.HUD {
	return m.hud
}

// Run starts the Bubble Tea program with the given model.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
