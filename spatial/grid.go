// Package spatial provides a uniform hashed grid for broad-phase neighbor queries
package spatial

import (
	"math"
)

// CellKey identifies one grid cell
type CellKey struct {
	X, Y int
}

// Grid buckets ids by cell over an unbounded plane
// Rebuilt from scratch each collision pass: Clear, then Insert every live id
// Cell size must be at least the largest interaction diameter so that any
// overlapping pair lands in the same or adjacent cells
type Grid struct {
	cellSize float64
	invCell  float64
	cells    map[CellKey]*[]int
	count    int
}

// NewGrid creates a grid with the given cell size, non-positive sizes are clamped to 1
func NewGrid(cellSize float64) *Grid {
	if !(cellSize > 0) {
		cellSize = 1
	}
	return &Grid{
		cellSize: cellSize,
		invCell:  1 / cellSize,
		cells:    make(map[CellKey]*[]int),
	}
}

// CellSize returns the configured cell edge
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

// Len returns the number of inserted ids since the last Clear
func (g *Grid) Len() int {
	return g.count
}

// Cell returns the key containing (x, y)
func (g *Grid) Cell(x, y float64) CellKey {
	return CellKey{
		X: int(math.Floor(x * g.invCell)),
		Y: int(math.Floor(y * g.invCell)),
	}
}

// Clear empties every bucket
// Buckets that stayed empty through the previous pass are dropped, others keep capacity
func (g *Grid) Clear() {
	for k, bucket := range g.cells {
		if len(*bucket) == 0 {
			delete(g.cells, k)
			continue
		}
		*bucket = (*bucket)[:0]
	}
	g.count = 0
}

// Insert appends id to the cell containing (x, y)
func (g *Grid) Insert(id int, x, y float64) {
	key := g.Cell(x, y)
	bucket, ok := g.cells[key]
	if !ok {
		b := make([]int, 0, 4)
		bucket = &b
		g.cells[key] = bucket
	}
	*bucket = append(*bucket, id)
	g.count++
}

// Nearby appends the members of the 3x3 block around (x, y) to dst
// The querying id itself is included when it was inserted, callers self-exclude
func (g *Grid) Nearby(x, y float64, dst []int) []int {
	center := g.Cell(x, y)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if bucket, ok := g.cells[CellKey{center.X + dx, center.Y + dy}]; ok {
				dst = append(dst, *bucket...)
			}
		}
	}
	return dst
}
