// Package pathfind implements grid pathfinding for the router.
//
// Two finders are provided, A* with a Manhattan heuristic and breadth-first
// search. Both treat the goal cell as traversable even when it is blocked,
// so a route can terminate on a socket or a column target that masking
// would otherwise exclude.
package pathfind

import (
	"github.com/devices-lab/busrouter/grid"
)

// Algorithm selects the pathfinding algorithm.
type Algorithm string

const (
	AStar        Algorithm = "a_star"
	BreadthFirst Algorithm = "breadth_first"
)

// DiagonalPolicy controls when a path may take a diagonal step.
type DiagonalPolicy int

const (
	// DiagonalNever restricts paths to orthogonal steps.
	DiagonalNever DiagonalPolicy = iota
	// DiagonalOnlyWhenNoObstacle allows a diagonal step only if both
	// orthogonal neighbors of the step are free.
	DiagonalOnlyWhenNoObstacle
	// DiagonalAlways allows diagonal steps unconditionally.
	DiagonalAlways
)

// A Path is a cell sequence from start to goal. Consecutive cells differ by
// at most one in column and row.
type Path []grid.Index

// Finder finds a path between two cells on a grid.
type Finder interface {
	// FindPath returns the first minimum-cost path from start to goal, or
	// ok=false when no path exists or the expansion bound is exceeded.
	FindPath(g *grid.Grid, start, goal grid.Index) (path Path, ok bool)
}

// New creates a Finder for the given algorithm. maxExpansions bounds the
// number of cells a single search may expand; zero or negative means
// unbounded. Unknown algorithms fall back to A*.
func New(algorithm Algorithm, policy DiagonalPolicy, maxExpansions int) Finder {
	switch algorithm {
	case BreadthFirst:
		return &bfsFinder{policy: policy, maxExpansions: maxExpansions}
	default:
		return &aStarFinder{policy: policy, maxExpansions: maxExpansions}
	}
}

var orthogonalSteps = [4]grid.Index{
	{Col: 0, Row: 1},
	{Col: 1, Row: 0},
	{Col: 0, Row: -1},
	{Col: -1, Row: 0},
}

var diagonalSteps = [4]grid.Index{
	{Col: 1, Row: 1},
	{Col: 1, Row: -1},
	{Col: -1, Row: 1},
	{Col: -1, Row: -1},
}

// neighbors collects the cells reachable from current in one step, honoring
// the diagonal policy and the goal exemption.
func neighbors(g *grid.Grid, current, goal grid.Index, policy DiagonalPolicy) []grid.Index {
	result := make([]grid.Index, 0, 8)

	traversable := func(idx grid.Index) bool {
		if !g.InBounds(idx) {
			return false
		}
		return idx == goal || g.At(idx) == grid.Free
	}

	for _, step := range orthogonalSteps {
		n := grid.Index{Col: current.Col + step.Col, Row: current.Row + step.Row}
		if traversable(n) {
			result = append(result, n)
		}
	}

	if policy == DiagonalNever {
		return result
	}

	for _, step := range diagonalSteps {
		n := grid.Index{Col: current.Col + step.Col, Row: current.Row + step.Row}
		if !traversable(n) {
			continue
		}
		if policy == DiagonalOnlyWhenNoObstacle {
			side1 := grid.Index{Col: current.Col + step.Col, Row: current.Row}
			side2 := grid.Index{Col: current.Col, Row: current.Row + step.Row}
			if !g.InBounds(side1) || g.At(side1) != grid.Free ||
				!g.InBounds(side2) || g.At(side2) != grid.Free {
				continue
			}
		}
		result = append(result, n)
	}

	return result
}

func manhattan(a, b grid.Index) int {
	dc := a.Col - b.Col
	if dc < 0 {
		dc = -dc
	}
	dr := a.Row - b.Row
	if dr < 0 {
		dr = -dr
	}
	return dc + dr
}
