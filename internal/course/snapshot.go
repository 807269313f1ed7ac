package course

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/rune-race/internal/core"
)

// ErrBadSnapshot is returned when a snapshot does not describe a grid.
var ErrBadSnapshot = errors.New("course: malformed snapshot")

// Snapshot is a self-contained copy of a built course, used to ship the
// course to remote participants.
type Snapshot struct {
	Rows       [][]int      `msgpack:"rows"`
	Order      []int        `msgpack:"order"`
	ZoneWidth  int          `msgpack:"zone_w"`
	ZoneHeight int          `msgpack:"zone_h"`
	ExtraRows  int          `msgpack:"extra"`
	TileSize   float64      `msgpack:"tile"`
	Spawn      core.Vec     `msgpack:"spawn"`
	Runes      []Rune       `msgpack:"runes"`
	Finish     FinishRegion `msgpack:"finish"`
}

// Snapshot copies the course.
func (c *Course) Snapshot() Snapshot {
	return Snapshot{
		Rows:       c.Grid.Rows(),
		Order:      append([]int(nil), c.Order...),
		ZoneWidth:  c.ZoneWidth,
		ZoneHeight: c.ZoneHeight,
		ExtraRows:  c.ExtraRows,
		TileSize:   c.TileSize,
		Spawn:      c.Spawn,
		Runes:      c.Runes(),
		Finish:     c.Finish,
	}
}

// FromSnapshot rebuilds a course from a snapshot.
func FromSnapshot(s Snapshot) (*Course, error) {
	if len(s.Rows) == 0 || len(s.Rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrBadSnapshot)
	}
	if s.TileSize <= 0 {
		return nil, fmt.Errorf("%w: tile size %v", ErrBadSnapshot, s.TileSize)
	}

	w, h := len(s.Rows[0]), len(s.Rows)
	g := NewGrid(w, h)
	for y, row := range s.Rows {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrBadSnapshot, y, len(row), w)
		}
		copy(g.Cells[y*w:], row)
	}

	return &Course{
		Grid:       g,
		Order:      append(Order(nil), s.Order...),
		ZoneWidth:  s.ZoneWidth,
		ZoneHeight: s.ZoneHeight,
		ExtraRows:  s.ExtraRows,
		TileSize:   s.TileSize,
		Spawn:      s.Spawn,
		Finish:     s.Finish,
		runes:      append([]Rune(nil), s.Runes...),
	}, nil
}
