package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/course"
	"github.com/vovakirdan/rune-race/internal/session"
)

// Glyphs used to draw the race.
const (
	glyphSolid   = '█'
	glyphFinish  = '░'
	glyphRune    = '◆'
	glyphTaken   = '◇'
	glyphSelf    = '@'
	glyphUnknown = '?'
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           fg("1"),
	core.ColorGreen:         fg("2"),
	core.ColorYellow:        fg("3"),
	core.ColorBlue:          fg("4"),
	core.ColorMagenta:       fg("5"),
	core.ColorCyan:          fg("6"),
	core.ColorWhite:         fg("7"),
	core.ColorBrightRed:     fg("9"),
	core.ColorBrightGreen:   fg("10"),
	core.ColorBrightYellow:  fg("11"),
	core.ColorBrightBlue:    fg("12"),
	core.ColorBrightMagenta: fg("13"),
	core.ColorBrightCyan:    fg("14"),
	core.ColorBrightWhite:   fg("15"),
	core.ColorOrange:        fg("208"),
	core.ColorGray:          fg("245"),
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

func styleFor(c core.Color) lipgloss.Style {
	if style, ok := colorStyles[c]; ok {
		return style
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells of one color share a single styled run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.Width(); {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			sb.WriteString(styleFor(color).Render(run.String()))
		}
	}
	return sb.String()
}

// Camera maps world coordinates to screen cells. A tile is two cells
// wide and one cell tall so tiles look roughly square.
type Camera struct {
	CellW, CellH float64 // world units per cell
	OX, OY       int     // world cell at the screen's top-left
}

// Follow centers a camera for a view of w×h cells on focus, clamped to
// the course edges.
func Follow(c *course.Course, focus core.Vec, w, h int) Camera {
	cam := Camera{CellW: c.TileSize / 2, CellH: c.TileSize}
	cols := int(c.WidthPx() / cam.CellW)
	rows := int(c.HeightPx() / cam.CellH)

	fx, fy := cam.cell(focus)
	cam.OX = core.Clamp(fx-w/2, 0, max(0, cols-w))
	cam.OY = core.Clamp(fy-h/2, 0, max(0, rows-h))
	return cam
}

func (cam Camera) cell(p core.Vec) (int, int) {
	return floorCell(p.X, cam.CellW), floorCell(p.Y, cam.CellH)
}

func floorCell(v, size float64) int {
	n := int(v / size)
	if v < 0 && float64(n)*size != v {
		n--
	}
	return n
}

// Project returns the screen cell showing p.
func (cam Camera) Project(p core.Vec) (x, y int) {
	cx, cy := cam.cell(p)
	return cx - cam.OX, cy - cam.OY
}

// World returns the world point at the center of screen cell (x, y).
func (cam Camera) World(x, y int) core.Vec {
	return core.V(
		(float64(cam.OX+x)+0.5)*cam.CellW,
		(float64(cam.OY+y)+0.5)*cam.CellH,
	)
}

// Scene is everything DrawRace needs for one frame.
type Scene struct {
	Course   *course.Course
	Avatars  []session.AvatarView
	Captured map[int]bool // runes the viewer holds
	Focus    core.Vec
}

// DrawRace draws the visible part of the course onto s and returns the
// camera it used.
func DrawRace(s *core.Screen, sc Scene) Camera {
	s.Clear()
	c := sc.Course
	cam := Follow(c, sc.Focus, s.Width(), s.Height())

	for y := range s.Height() {
		for x := range s.Width() {
			p := cam.World(x, y)
			col, row := c.TileOf(p)
			switch {
			case c.Solid(col, row):
				s.Set(x, y, glyphSolid, core.ColorGray)
			case c.Finish.Contains(p):
				s.Set(x, y, glyphFinish, core.ColorGreen)
			}
		}
	}

	for _, r := range c.Runes() {
		x, y := cam.Project(r.Pos)
		if sc.Captured[r.ID] {
			s.Set(x, y, glyphTaken, core.ColorGray)
		} else {
			s.Set(x, y, glyphRune, core.ColorBrightYellow)
		}
	}

	// Self last so it is never hidden behind another racer.
	for _, self := range []bool{false, true} {
		for _, a := range sc.Avatars {
			if a.Self != self {
				continue
			}
			x, y := cam.Project(a.Box.Center())
			s.Set(x, y, avatarGlyph(a), a.Color)
		}
	}
	return cam
}

func avatarGlyph(a session.AvatarView) rune {
	if a.Self {
		return glyphSelf
	}
	for _, r := range strings.ToUpper(a.Name) {
		return r
	}
	return glyphUnknown
}
