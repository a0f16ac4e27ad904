// Package grid provides the occupancy grid that the pathfinders route over.
//
// The grid is a dense 2D matrix of cells at the board resolution. The center
// of the grid maps to the board origin; columns grow with +x and rows grow
// with -y, so row 0 is the top edge of the board.
package grid

import (
	"fmt"
	"math"

	"github.com/devices-lab/busrouter/geom"
)

// State is the traversability of a single cell.
type State byte

const (
	// Free cells may carry a trace.
	Free State = iota
	// Blocked cells belong to a keep-out zone or an already routed trace.
	Blocked
)

// An Index addresses a cell by column and row.
type Index struct {
	Col, Row int
}

func (i Index) String() string {
	return fmt.Sprintf("[%d, %d]", i.Col, i.Row)
}

// A Grid is a dense occupancy matrix covering the whole board.
type Grid struct {
	Width  int // columns
	Height int // rows

	resolution float64
	cells      []State
}

// New creates an all-free grid for a board of the given dimensions in
// millimeters. Cell counts are rounded up so the grid covers the full board.
func New(boardWidth, boardHeight, resolution float64) *Grid {
	w := int(math.Ceil(boardWidth / resolution))
	h := int(math.Ceil(boardHeight / resolution))
	return &Grid{
		Width:      w,
		Height:     h,
		resolution: resolution,
		cells:      make([]State, w*h),
	}
}

// Resolution returns the cell size in millimeters.
func (g *Grid) Resolution() float64 {
	return g.resolution
}

// InBounds reports whether idx addresses a cell inside the grid.
func (g *Grid) InBounds(idx Index) bool {
	return idx.Col >= 0 && idx.Col < g.Width && idx.Row >= 0 && idx.Row < g.Height
}

// At returns the state of the cell at idx.
func (g *Grid) At(idx Index) State {
	return g.cells[idx.Row*g.Width+idx.Col]
}

// Set writes the state of the cell at idx.
func (g *Grid) Set(idx Index, s State) {
	g.cells[idx.Row*g.Width+idx.Col] = s
}

// Clone returns an independent copy of the grid. The base grid is never
// mutated after construction; per-route masking happens on clones.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		Width:      g.Width,
		Height:     g.Height,
		resolution: g.resolution,
		cells:      make([]State, len(g.cells)),
	}
	copy(c.cells, g.cells)
	return c
}

// IndexOf converts a board coordinate to its grid index. A coordinate that
// lies exactly on the resolution grid maps to an exact index.
func (g *Grid) IndexOf(p geom.Point) Index {
	col := g.Width/2 + int(math.Round(p.X/g.resolution))
	row := g.Height/2 - int(math.Round(p.Y/g.resolution))
	return Index{Col: col, Row: row}
}

// CoordOf converts a grid index back to the board coordinate of the cell.
func (g *Grid) CoordOf(idx Index) geom.Point {
	x := float64(idx.Col-g.Width/2) * g.resolution
	y := float64(g.Height/2-idx.Row) * g.resolution
	return geom.Pt(x, y)
}

// Clamp pulls an index into the grid bounds.
func (g *Grid) Clamp(idx Index) Index {
	if idx.Col < 0 {
		idx.Col = 0
	}
	if idx.Col > g.Width-1 {
		idx.Col = g.Width - 1
	}
	if idx.Row < 0 {
		idx.Row = 0
	}
	if idx.Row > g.Height-1 {
		idx.Row = g.Height - 1
	}
	return idx
}

// BlockRect blocks every cell of the axis-aligned rectangle, bounds
// inclusive. Corners outside the board are clamped in.
func (g *Grid) BlockRect(r geom.Rect) {
	bl := g.Clamp(g.IndexOf(r.BottomLeft))
	tr := g.Clamp(g.IndexOf(r.TopRight))

	minCol, maxCol := min(bl.Col, tr.Col), max(bl.Col, tr.Col)
	minRow, maxRow := min(bl.Row, tr.Row), max(bl.Row, tr.Row)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			g.Set(Index{Col: col, Row: row}, Blocked)
		}
	}
}

// BlockDilated blocks the cell at idx together with its eight neighbors.
// Used inside the bus strip where traces run one cell apart.
func (g *Grid) BlockDilated(idx Index) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			n := Index{Col: idx.Col + dc, Row: idx.Row + dr}
			if g.InBounds(n) {
				g.Set(n, Blocked)
			}
		}
	}
}

// ClearSquare frees every cell less than radius cells from center along
// both axes, the center included: a square of side 2*radius-1. Cells outside
// the grid are skipped.
func (g *Grid) ClearSquare(center Index, radius int) {
	for dr := -radius + 1; dr < radius; dr++ {
		for dc := -radius + 1; dc < radius; dc++ {
			n := Index{Col: center.Col + dc, Row: center.Row + dr}
			if g.InBounds(n) {
				g.Set(n, Free)
			}
		}
	}
}
