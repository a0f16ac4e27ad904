package pathfind

import (
	"github.com/devices-lab/busrouter/grid"
)

type bfsFinder struct {
	policy        DiagonalPolicy
	maxExpansions int
}

// FindPath runs a breadth-first search. With uniform edge cost the first
// path that reaches the goal is minimal.
func (f *bfsFinder) FindPath(g *grid.Grid, start, goal grid.Index) (Path, bool) {
	if !g.InBounds(start) || !g.InBounds(goal) {
		return nil, false
	}

	visited := map[grid.Index]bool{start: true}
	cameFrom := map[grid.Index]grid.Index{}
	queue := []grid.Index{start}

	expansions := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == goal {
			return reconstruct(cameFrom, current), true
		}

		expansions++
		if f.maxExpansions > 0 && expansions > f.maxExpansions {
			return nil, false
		}

		for _, n := range neighbors(g, current, goal, f.policy) {
			if visited[n] {
				continue
			}
			visited[n] = true
			cameFrom[n] = current
			queue = append(queue, n)
		}
	}

	return nil, false
}
