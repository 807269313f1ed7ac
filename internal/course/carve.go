package course

import (
	"fmt"

	"github.com/vovakirdan/rune-race/internal/zones"
)

// merge places the zones left to right and normalizes their tile ids.
func merge(zs []zones.Zone, layer string) (*Grid, error) {
	zw, zh := zs[0].Width, zs[0].Height
	g := NewGrid(zw*len(zs), zh)

	for i, z := range zs {
		data, err := z.Layer(layer)
		if err != nil {
			return nil, err
		}
		for y := 0; y < zh; y++ {
			for x := 0; x < zw; x++ {
				g.Set(i*zw+x, y, Normalize(data[y*zw+x]))
			}
		}
	}
	return g, nil
}

// pad prepends extra empty rows above the grid.
func pad(g *Grid, extra int) *Grid {
	if extra <= 0 {
		return g
	}
	out := NewGrid(g.W, g.H+extra)
	copy(out.Cells[extra*g.W:], g.Cells)
	return out
}

// openSeams clears the two columns on each side of every zone boundary,
// leaving only a solid bottom cell, then lays a parkour bridge across it.
func openSeams(g *Grid, zoneWidth, zoneCount int) {
	for i := 1; i < zoneCount; i++ {
		b := i * zoneWidth
		for _, x := range []int{b - 1, b} {
			for y := 0; y < g.H-1; y++ {
				g.Clear(x, y)
			}
			g.Fill(x, g.H-1)
		}
		carveBridge(g, b)
	}
}

// carveBridge lays three ascending steps up to the seam and a two-cell
// landing over it, then steps back down on the far side.
func carveBridge(g *Grid, seam int) {
	bottom := g.H - 1
	for i := range 3 {
		g.Fill(seam-4+i, bottom-2-i)
	}
	g.Fill(seam-1, bottom-4)
	g.Fill(seam, bottom-4)
	g.Fill(seam+1, bottom-3)
	g.Fill(seam+2, bottom-2)
}

// carveChallenge adds the vertical structure for the zone at position idx.
// The pattern depends only on idx, so every course built from the same
// zones has the same structures.
func carveChallenge(g *Grid, idx, zoneWidth int) {
	x0 := idx * zoneWidth
	bottom := g.H - 1

	switch idx % 3 {
	case 0:
		// Solid stair, four steps up.
		base := x0 + zoneWidth/3
		for i := range 4 {
			for y := bottom - 1 - i; y < bottom; y++ {
				g.Fill(base+i, y)
			}
		}

	case 1:
		// Open shaft with ledges alternating left and right every two rows.
		cx := x0 + zoneWidth/2
		for y := 0; y < bottom-1; y++ {
			g.Clear(cx, y)
		}
		for j := 0; ; j++ {
			y := bottom - 3 - 2*j
			if y < 1 {
				break
			}
			x := cx - 2
			if j%2 == 1 {
				x = cx + 1
			}
			g.Fill(x, y)
			g.Fill(x+1, y)
		}

	case 2:
		// Tall stair of single steps leading to two elevated platforms.
		base := x0 + zoneWidth/4
		for i := range 6 {
			g.Fill(base+i, bottom-1-i)
		}
		for x := base + 6; x < base+10; x++ {
			g.Fill(x, bottom-7)
		}
		for x := base + 11; x < base+14; x++ {
			g.Fill(x, bottom-5)
		}
	}
}

// carveFinish clears a band in front of the right wall down to the bottom
// row and adds a short ramp inside it. The ramp floats, so the bottom row
// still leads straight into the finish region.
func carveFinish(g *Grid) {
	bottom := g.H - 1
	for x := g.W - 6; x < g.W-1; x++ {
		for y := 0; y < bottom; y++ {
			g.Clear(x, y)
		}
	}
	for i := range 3 {
		g.Fill(g.W-6+i, bottom-1-i)
	}
}

// fillFloor makes every cell of the bottom row solid.
func fillFloor(g *Grid) {
	bottom := g.H - 1
	for x := 0; x < g.W; x++ {
		if !g.Solid(x, bottom) {
			g.Fill(x, bottom)
		}
	}
}

// checkZones verifies the zones can be merged.
func checkZones(zs []zones.Zone) error {
	if len(zs) == 0 {
		return ErrNoZones
	}
	w, h := zs[0].Width, zs[0].Height
	for _, z := range zs[1:] {
		if z.Width != w || z.Height != h {
			return fmt.Errorf("%w: %s is %dx%d, %s is %dx%d",
				ErrZoneMismatch, zs[0].Name, w, h, z.Name, z.Width, z.Height)
		}
	}
	return nil
}
