package course

import "github.com/vovakirdan/rune-race/internal/core"

// Rune is a collectible objective at a fixed world position.
type Rune struct {
	ID     int
	Pos    core.Vec
	Radius float64
}

// FinishRegion is the box a participant must stand in, holding every rune, to win.
type FinishRegion struct {
	Center core.Vec
	Half   core.Vec // half-extents
}

// Contains reports whether p lies inside the region. Edges are inclusive.
func (f FinishRegion) Contains(p core.Vec) bool {
	return p.X >= f.Center.X-f.Half.X && p.X <= f.Center.X+f.Half.X &&
		p.Y >= f.Center.Y-f.Half.Y && p.Y <= f.Center.Y+f.Half.Y
}

// runeLift is how many tiles above the course bottom each rune floats,
// cycled when there are more runes than entries.
var runeLift = []float64{2.5, 4.5, 3.5}

// placeRunes spreads count runes over the course width, one per equal
// slice, centred in the slice. Positions are world coordinates and are not
// aligned to tiles.
func placeRunes(count int, widthPx, heightPx, tile, radius float64) []Rune {
	runes := make([]Rune, count)
	for i := range runes {
		runes[i] = Rune{
			ID: i,
			Pos: core.V(
				widthPx*float64(2*i+1)/float64(2*count),
				heightPx-tile*runeLift[i%len(runeLift)],
			),
			Radius: radius,
		}
	}
	return runes
}

// placeFinish centres the finish region three tiles in from the right edge
// and three up from the bottom.
func placeFinish(cols, rows int, tile float64) FinishRegion {
	return FinishRegion{
		Center: core.V(float64(cols-3)*tile, float64(rows-3)*tile),
		Half:   core.V(2*tile, 2*tile),
	}
}
