// Package course assembles zones into one traversable race course.
//
// Build merges the zones left to right, adds head room above them, opens
// the seams between zones, carves vertical challenges and a finish
// corridor, and guarantees a solid floor. It also places the spawn point,
// the runes and the finish region. The result is immutable for the rest of
// the race.
package course

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/zones"
)

var (
	// ErrNoZones is returned when Build is called without zones.
	ErrNoZones = errors.New("course: no zones")
	// ErrZoneMismatch is returned when zones differ in size.
	ErrZoneMismatch = errors.New("course: zones differ in size")
)

// Options tunes course assembly.
type Options struct {
	ExtraRows  int     // empty rows added above the zones
	TileSize   float64 // world units per tile
	RuneCount  int
	RuneRadius float64
	Layer      string // zone layer holding collision tiles
}

// DefaultOptions returns the stock course options.
func DefaultOptions() Options {
	return Options{
		ExtraRows:  6,
		TileSize:   64,
		RuneCount:  3,
		RuneRadius: 26,
		Layer:      zones.DefaultLayer,
	}
}

// Course is a built race course.
type Course struct {
	Grid       *Grid
	Order      Order
	ZoneWidth  int
	ZoneHeight int
	ExtraRows  int
	TileSize   float64
	Spawn      core.Vec
	Finish     FinishRegion

	runes []Rune
}

// Build assembles zones, in the given order, into a course.
func Build(zs []zones.Zone, opts Options) (*Course, error) {
	if err := checkZones(zs); err != nil {
		return nil, err
	}
	if opts.TileSize <= 0 {
		opts.TileSize = DefaultOptions().TileSize
	}
	if opts.Layer == "" {
		opts.Layer = zones.DefaultLayer
	}

	g, err := merge(zs, opts.Layer)
	if err != nil {
		return nil, fmt.Errorf("merging zones: %w", err)
	}
	g = pad(g, opts.ExtraRows)

	zw := zs[0].Width
	openSeams(g, zw, len(zs))
	for i := range zs {
		carveChallenge(g, i, zw)
	}
	carveFinish(g)
	fillFloor(g)

	t := opts.TileSize
	c := &Course{
		Grid:       g,
		ZoneWidth:  zw,
		ZoneHeight: zs[0].Height,
		ExtraRows:  max(opts.ExtraRows, 0),
		TileSize:   t,
		Spawn:      core.V(2*t, float64(g.H-4)*t),
		Finish:     placeFinish(g.W, g.H, t),
	}
	c.runes = placeRunes(opts.RuneCount, c.WidthPx(), c.HeightPx(), t, opts.RuneRadius)
	return c, nil
}

// BuildLevel loads the zones for the rotation starting at level and builds
// the course.
func BuildLevel(src zones.Source, level int, opts Options) (*Course, error) {
	order := ZoneOrder(level)
	zs, err := zones.Collect(src, order)
	if err != nil {
		return nil, err
	}
	c, err := Build(zs, opts)
	if err != nil {
		return nil, err
	}
	c.Order = order
	return c, nil
}

// Runes returns a copy of the course runes.
func (c *Course) Runes() []Rune {
	out := make([]Rune, len(c.runes))
	copy(out, c.runes)
	return out
}

// RuneCount returns the number of runes to collect.
func (c *Course) RuneCount() int {
	return len(c.runes)
}

// WidthPx returns the course width in world units.
func (c *Course) WidthPx() float64 {
	return float64(c.Grid.W) * c.TileSize
}

// HeightPx returns the course height in world units.
func (c *Course) HeightPx() float64 {
	return float64(c.Grid.H) * c.TileSize
}

// Solid reports whether the tile at column col, row row is solid.
func (c *Course) Solid(col, row int) bool {
	return c.Grid.Solid(col, row)
}

// TileOf returns the column and row containing the world point p.
func (c *Course) TileOf(p core.Vec) (col, row int) {
	return floorDiv(p.X, c.TileSize), floorDiv(p.Y, c.TileSize)
}

func floorDiv(v, size float64) int {
	q := int(v / size)
	if v < 0 && float64(q)*size != v {
		q--
	}
	return q
}
