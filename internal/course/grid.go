package course

// Empty marks a cell without a tile.
const Empty = -1

// CarveTile is the solid tile index written by carving routines.
const CarveTile = 0

// Grid is the merged course as a rectangle of normalized tile ids:
// -1 is empty, n >= 0 is solid tile n. Cells are stored in row-major
// order: index = y*W + x.
type Grid struct {
	W     int
	H     int
	Cells []int
}

// NewGrid creates a grid with every cell empty.
func NewGrid(w, h int) *Grid {
	g := &Grid{W: w, H: h, Cells: make([]int, w*h)}
	for i := range g.Cells {
		g.Cells[i] = Empty
	}
	return g
}

// InBounds returns true if (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// At returns the tile at (x, y), or Empty when out of bounds.
func (g *Grid) At(x, y int) int {
	if !g.InBounds(x, y) {
		return Empty
	}
	return g.Cells[y*g.W+x]
}

// Set writes a tile at (x, y).
// Out-of-bounds writes are silently ignored so carve routines can
// overshoot edges freely.
func (g *Grid) Set(x, y, tile int) {
	if !g.InBounds(x, y) {
		return
	}
	g.Cells[y*g.W+x] = tile
}

// Fill marks (x, y) solid with the carve tile.
func (g *Grid) Fill(x, y int) {
	g.Set(x, y, CarveTile)
}

// Clear empties (x, y).
func (g *Grid) Clear(x, y int) {
	g.Set(x, y, Empty)
}

// Solid reports whether (x, y) holds a tile. Out of bounds is not solid.
func (g *Grid) Solid(x, y int) bool {
	return g.At(x, y) != Empty
}

// Rows returns a copy of the grid as a slice of rows.
func (g *Grid) Rows() [][]int {
	rows := make([][]int, g.H)
	for y := range rows {
		rows[y] = make([]int, g.W)
		copy(rows[y], g.Cells[y*g.W:(y+1)*g.W])
	}
	return rows
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]int, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{W: g.W, H: g.H, Cells: cells}
}

// Equal returns true if two grids have the same dimensions and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g.W != other.W || g.H != other.H {
		return false
	}
	for i, cell := range g.Cells {
		if cell != other.Cells[i] {
			return false
		}
	}
	return true
}

// Normalize converts a raw zone tile id ("0 = empty, n > 0 = index n-1")
// to a grid tile id.
func Normalize(raw int) int {
	if raw <= 0 {
		return Empty
	}
	return raw - 1
}
