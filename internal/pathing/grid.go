// Package pathing provides the elevation-aware navigation grid and A*
// search used by movement-intent producers. The engine tick itself never
// calls into this package.
//
// The grid uses preallocated row-major slices with integer indices to keep
// queries allocation-free.
package pathing

import (
	"tacsim/internal/mapgeo"
)

// MaxClimbHeight is the largest elevation delta between adjacent cells a
// path may traverse without a ramp or stairs having flattened it into the
// sampled surface.
const MaxClimbHeight = 1.5

// NavGrid rasterizes a map into fixed-size cells with a walkable mask and a
// sampled surface elevation per cell. Cells are stored in row-major order
// (cells[row*cols+col]).
type NavGrid struct {
	cellSize    float64
	invCellSize float64
	cols, rows  int
	walkable    []bool
	elevation   []float64
}

// NewNavGrid samples the map at cell centers using the given agent radius
// and height for validity checks. cellSize must be positive.
func NewNavGrid(m *mapgeo.Map, cellSize, radius, height float64) *NavGrid {
	cols := int(m.Width / cellSize)
	rows := int(m.Height / cellSize)
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	g := &NavGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		walkable:    make([]bool, cols*rows),
		elevation:   make([]float64, cols*rows),
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cx := (float64(col) + 0.5) * cellSize
			cy := (float64(row) + 0.5) * cellSize
			elev := m.ElevationAt(cx, cy)
			idx := row*cols + col
			g.elevation[idx] = elev
			g.walkable[idx] = m.IsValidPosition(cx, cy, elev, radius, height)
		}
	}

	return g
}

// Dimensions returns the grid dimensions.
func (g *NavGrid) Dimensions() (cols, rows int, cellSize float64) {
	return g.cols, g.rows, g.cellSize
}

// cellIndex returns the row-major index of the cell containing (x, y) and
// whether the position lies inside the grid.
func (g *NavGrid) cellIndex(x, y float64) (int, bool) {
	col := int(x * g.invCellSize)
	row := int(y * g.invCellSize)
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return 0, false
	}
	return row*g.cols + col, true
}

// Walkable reports whether the cell containing (x, y) is walkable.
func (g *NavGrid) Walkable(x, y float64) bool {
	idx, ok := g.cellIndex(x, y)
	return ok && g.walkable[idx]
}

// ElevationAt returns the sampled surface elevation of the cell containing
// (x, y), or 0 outside the grid.
func (g *NavGrid) ElevationAt(x, y float64) float64 {
	idx, ok := g.cellIndex(x, y)
	if !ok {
		return 0
	}
	return g.elevation[idx]
}

// cellCenter returns the world position of a cell's center at its sampled
// elevation.
func (g *NavGrid) cellCenter(col, row int) mapgeo.Vec3 {
	return mapgeo.Vec3{
		X: (float64(col) + 0.5) * g.cellSize,
		Y: (float64(row) + 0.5) * g.cellSize,
		Z: g.elevation[row*g.cols+col],
	}
}
