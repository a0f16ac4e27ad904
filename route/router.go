package route

import (
	"fmt"
	"log"
	"math"

	"github.com/devices-lab/busrouter/board"
	"github.com/devices-lab/busrouter/geom"
	"github.com/devices-lab/busrouter/grid"
	"github.com/devices-lab/busrouter/pathfind"
)

// socketMarginMM is the radius of the square cleared around a socket before
// pathfinding, so masking from neighboring traces cannot orphan the socket.
const socketMarginMM = 1.0

// A Router owns the state of one routing job: the immutable base grid, the
// bus rails, the cell paths and vias accumulated so far, and the result
// under construction. Routers are not safe for concurrent use; run one
// router per job.
type Router struct {
	board  *board.Board
	finder pathfind.Finder
	side   board.Side

	tracksLayer *board.Layer
	busLayer    *board.Layer

	baseGrid *grid.Grid
	buses    map[string]Bus
	busZone  geom.Rect

	// paths holds the accepted cell paths per net; vias the matching
	// connection cells in routing order. Backtracking removes from both.
	paths map[string][]pathfind.Path
	vias  []viaCell

	result *RoutingResult
}

type viaCell struct {
	net  string
	cell grid.Index
}

// Builder assembles a Router for one board and one bus layer.
type Builder struct {
	board       *board.Board
	finder      pathfind.Finder
	tracksLayer string
	busLayer    string
}

// WithBoard sets the board to route.
func (b Builder) WithBoard(brd *board.Board) Builder {
	b.board = brd
	return b
}

// WithTracksLayer names the signal layer whose nets are routed to buses.
func (b Builder) WithTracksLayer(name string) Builder {
	b.tracksLayer = name
	return b
}

// WithBusLayer names the layer that carries the bus rails.
func (b Builder) WithBusLayer(name string) Builder {
	b.busLayer = name
	return b
}

// WithFinder injects a pathfinder. When absent, a finder is created from the
// board's routing options.
func (b Builder) WithFinder(f pathfind.Finder) Builder {
	b.finder = f
	return b
}

// Build creates the Router: it derives the base grid from the module zones,
// plans the bus rails, and reserves the bus strip as a keep-out zone for
// module placement.
func (b Builder) Build() (*Router, error) {
	if b.board == nil {
		return nil, fmt.Errorf("router needs a board")
	}

	tracks := b.board.Layer(b.tracksLayer)
	if tracks == nil {
		return nil, fmt.Errorf("tracks layer %q not found on board %q", b.tracksLayer, b.board.Name)
	}
	buses := b.board.Layer(b.busLayer)
	if buses == nil {
		return nil, fmt.Errorf("bus layer %q not found on board %q", b.busLayer, b.board.Name)
	}

	// The base grid blocks the module zones only. The bus strip stays
	// routable; it is appended to the board zones afterwards so module
	// placement checks and socket zone grouping see it.
	baseGrid, err := grid.Build(b.board.Width, b.board.Height, b.board.Resolution, b.board.Zones)
	if err != nil {
		return nil, err
	}

	side := b.board.Options.Side
	rails, busZone, err := planBuses(b.board, tracks, buses, side)
	if err != nil {
		return nil, err
	}
	b.board.AddZone(busZone)
	if err := b.board.ValidateModulesOutside(busZone); err != nil {
		return nil, err
	}

	finder := b.finder
	if finder == nil {
		policy := pathfind.DiagonalNever
		if b.board.Options.AllowDiagonalTraces {
			policy = pathfind.DiagonalOnlyWhenNoObstacle
		}
		finder = pathfind.New(b.board.Options.Algorithm, policy, 0)
	}

	r := &Router{
		board:       b.board,
		finder:      finder,
		side:        side,
		tracksLayer: tracks,
		busLayer:    buses,
		baseGrid:    baseGrid,
		buses:       rails,
		busZone:     busZone,
		paths:       map[string][]pathfind.Path{},
		result:      NewRoutingResult(),
	}

	for _, net := range tracks.Nets {
		r.result.AddSegment(rails[net].Rail)
	}

	return r, nil
}

// BaseGrid exposes the immutable base grid, e.g. for verification.
func (r *Router) BaseGrid() *grid.Grid {
	return r.baseGrid
}

// Buses exposes the planned rails by net.
func (r *Router) Buses() map[string]Bus {
	return r.buses
}

// routeSocketToBus routes one socket to its net's rail and returns the cell
// path ending at the rail, or ok=false when no usable path exists.
//
// The pathfinder does not target the rail itself. It targets the far grid
// edge beyond the rail, which forces the path to cross the rail column; the
// path is then truncated at the first crossing cell and snapped onto the
// intended connection cell when adjacent.
func (r *Router) routeSocketToBus(socket geom.Point, net string) (pathfind.Path, bool) {
	bus, ok := r.buses[net]
	if !ok {
		return nil, false
	}

	busPoint := bus.ConnectionPoint(socket)
	busIdx := r.baseGrid.IndexOf(busPoint)
	socketIdx := r.baseGrid.IndexOf(socket)

	masked := r.maskedGridFor(net, busIdx.Col)

	margin := int(math.Ceil(socketMarginMM / r.board.Resolution))
	masked.ClearSquare(socketIdx, margin)

	// Target the edge on the opposite side of the rail so the path must
	// cross the rail column.
	targetCol := 0
	if socketIdx.Col < busIdx.Col {
		targetCol = masked.Width - 1
	}
	goal := grid.Index{Col: targetCol, Row: busIdx.Row}

	// Keep the target column free so the goal stays reachable even where a
	// zone reaches that edge; the path is truncated before it gets there.
	for row := 0; row < masked.Height; row++ {
		masked.Set(grid.Index{Col: targetCol, Row: row}, grid.Free)
	}

	path, found := r.finder.FindPath(masked, socketIdx, goal)
	if !found {
		log.Printf("no path from socket %v to bus of net %s", socket, net)
		return nil, false
	}

	truncated, crossed := truncateAtColumn(path, socketIdx.Col, busIdx.Col)
	if !crossed {
		log.Printf("path for net %s never crossed the bus column %d", net, busIdx.Col)
		return nil, false
	}

	// Snap onto the intended connection cell when the truncated path ends
	// next to it.
	last := truncated[len(truncated)-1]
	if last != busIdx && abs(last.Col-busIdx.Col) <= 1 && abs(last.Row-busIdx.Row) <= 1 {
		truncated = append(truncated, busIdx)
	}

	return truncated, true
}

// maskedGridFor clones the base grid and blocks the traces that the net
// being routed must not cross: every cell of other nets' paths on the same
// layer, dilated inside the bus strip, and the net's own cells unless
// overlap is allowed.
func (r *Router) maskedGridFor(net string, busCol int) *grid.Grid {
	masked := r.baseGrid.Clone()

	stripMin, stripMax := 0, busCol
	if r.side == board.SideRight {
		stripMin, stripMax = busCol, masked.Width-1
	}
	inStrip := func(idx grid.Index) bool {
		return idx.Col >= stripMin && idx.Col <= stripMax
	}

	for _, other := range r.tracksLayer.Nets {
		if other == net && r.board.Options.AllowOverlap {
			continue
		}
		for _, path := range r.paths[other] {
			for _, cell := range path {
				if !masked.InBounds(cell) {
					continue
				}
				masked.Set(cell, grid.Blocked)
				if other != net && inStrip(cell) {
					masked.BlockDilated(cell)
				}
			}
		}
	}

	// The outermost column must stay free so the far-edge target remains
	// reachable through the strip.
	edgeCol := 0
	if r.side == board.SideRight {
		edgeCol = masked.Width - 1
	}
	for row := 0; row < masked.Height; row++ {
		masked.Set(grid.Index{Col: edgeCol, Row: row}, grid.Free)
	}

	return masked
}

// truncateAtColumn cuts the path at the first cell that reaches or crosses
// the bus column coming from the socket side.
func truncateAtColumn(path pathfind.Path, socketCol, busCol int) (pathfind.Path, bool) {
	crossed := func(col int) bool {
		if socketCol > busCol {
			return col <= busCol
		}
		return col >= busCol
	}

	var truncated pathfind.Path
	for _, cell := range path {
		truncated = append(truncated, cell)
		if crossed(cell.Col) {
			return truncated, true
		}
	}
	return truncated, false
}

// removeSocketPath drops the accepted path starting at the given socket
// cell together with its via. Used by backtracking.
func (r *Router) removeSocketPath(net string, socketCell grid.Index) bool {
	paths := r.paths[net]
	for i, path := range paths {
		if len(path) == 0 || path[0] != socketCell {
			continue
		}

		connection := path[len(path)-1]
		r.paths[net] = append(paths[:i:i], paths[i+1:]...)

		for j, v := range r.vias {
			if v.net == net && v.cell == connection {
				r.vias = append(r.vias[:j:j], r.vias[j+1:]...)
				break
			}
		}
		return true
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
