package pathfind

import (
	"container/heap"

	"github.com/devices-lab/busrouter/grid"
)

type aStarFinder struct {
	policy        DiagonalPolicy
	maxExpansions int
}

type aStarNode struct {
	idx  grid.Index
	f    int
	seq  int // insertion order, breaks f-score ties
	heap int
}

type aStarQueue []*aStarNode

func (q aStarQueue) Len() int { return len(q) }

func (q aStarQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}

func (q aStarQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].heap = i
	q[j].heap = j
}

func (q *aStarQueue) Push(x any) {
	n := x.(*aStarNode)
	n.heap = len(*q)
	*q = append(*q, n)
}

func (q *aStarQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

// FindPath runs A* with the Manhattan heuristic and uniform edge cost.
func (f *aStarFinder) FindPath(g *grid.Grid, start, goal grid.Index) (Path, bool) {
	if !g.InBounds(start) || !g.InBounds(goal) {
		return nil, false
	}

	gScore := map[grid.Index]int{start: 0}
	cameFrom := map[grid.Index]grid.Index{}
	closed := map[grid.Index]bool{}

	open := &aStarQueue{}
	heap.Init(open)
	seq := 0
	heap.Push(open, &aStarNode{idx: start, f: manhattan(start, goal), seq: seq})

	expansions := 0
	for open.Len() > 0 {
		current := heap.Pop(open).(*aStarNode).idx
		if current == goal {
			return reconstruct(cameFrom, current), true
		}
		if closed[current] {
			continue
		}
		closed[current] = true

		expansions++
		if f.maxExpansions > 0 && expansions > f.maxExpansions {
			return nil, false
		}

		for _, n := range neighbors(g, current, goal, f.policy) {
			tentative := gScore[current] + 1
			if prev, seen := gScore[n]; !seen || tentative < prev {
				cameFrom[n] = current
				gScore[n] = tentative
				seq++
				heap.Push(open, &aStarNode{
					idx: n,
					f:   tentative + manhattan(n, goal),
					seq: seq,
				})
			}
		}
	}

	return nil, false
}

func reconstruct(cameFrom map[grid.Index]grid.Index, current grid.Index) Path {
	path := Path{current}
	for {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
