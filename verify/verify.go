// Package verify provides post-routing checks for a RoutingResult.
//
// The checks are structural: they validate the emitted segments and vias
// against the board invariants (grid alignment, known layers, vias on their
// bus rails, traces outside keep-out zones) without re-running the router.
// Use them in tests and in job pipelines before handing the result to the
// artwork emitters.
package verify

import (
	"fmt"
	"math"

	"github.com/devices-lab/busrouter/board"
	"github.com/devices-lab/busrouter/geom"
	"github.com/devices-lab/busrouter/grid"
	"github.com/devices-lab/busrouter/route"
)

// IssueType categorizes lint issues.
type IssueType string

const (
	// IssueStruct flags a malformed segment or via.
	IssueStruct IssueType = "STRUCT"
	// IssueClearance flags a trace that enters a keep-out area.
	IssueClearance IssueType = "CLEARANCE"
	// IssueCount flags inconsistent result counters.
	IssueCount IssueType = "COUNT"
)

// An Issue is a single finding of the lint pass.
type Issue struct {
	Type    IssueType
	Net     string
	Message string
	Details map[string]interface{}
}

// RunLint checks a routing result against its board, base grid, and planned
// buses. It never mutates its inputs. An empty slice means the result
// passed every check.
func RunLint(brd *board.Board, baseGrid *grid.Grid, buses map[string]route.Bus, result *route.RoutingResult) []Issue {
	var issues []Issue

	issues = append(issues, lintSegments(brd, result)...)
	issues = append(issues, lintVias(brd, buses, result)...)
	issues = append(issues, lintClearance(brd, baseGrid, result)...)
	issues = append(issues, lintCounters(brd, result)...)

	return issues
}

func lintSegments(brd *board.Board, result *route.RoutingResult) []Issue {
	var issues []Issue

	for net, segments := range result.Segments {
		for _, s := range segments {
			if s.Start == s.End {
				issues = append(issues, Issue{
					Type:    IssueStruct,
					Net:     net,
					Message: fmt.Sprintf("zero-length segment at %v", s.Start),
				})
			}
			if s.Width <= 0 {
				issues = append(issues, Issue{
					Type:    IssueStruct,
					Net:     net,
					Message: fmt.Sprintf("segment %v has non-positive width %g", s, s.Width),
				})
			}
			if brd.Layer(s.Layer) == nil {
				issues = append(issues, Issue{
					Type:    IssueStruct,
					Net:     net,
					Message: fmt.Sprintf("segment %v is on unknown layer %q", s, s.Layer),
					Details: map[string]interface{}{"layer": s.Layer},
				})
			}
			for _, p := range []geom.Point{s.Start, s.End} {
				if !geom.AlignedTo(p.X, brd.Resolution) || !geom.AlignedTo(p.Y, brd.Resolution) {
					issues = append(issues, Issue{
						Type:    IssueStruct,
						Net:     net,
						Message: fmt.Sprintf("segment endpoint %v is off the %g mm grid", p, brd.Resolution),
					})
				}
			}
		}
	}

	return issues
}

func lintVias(brd *board.Board, buses map[string]route.Bus, result *route.RoutingResult) []Issue {
	var issues []Issue

	for _, v := range result.Vias {
		bus, ok := buses[v.Net]
		if !ok {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Net:     v.Net,
				Message: fmt.Sprintf("via %v belongs to net without a bus rail", v.Point),
			})
			continue
		}

		// The via must sit on the rail: same x within half a cell, y inside
		// the rail extent.
		if math.Abs(v.X-bus.Rail.Start.X) > brd.Resolution/2+geom.Epsilon {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Net:     v.Net,
				Message: fmt.Sprintf("via %v is off the bus rail at x=%g", v.Point, bus.Rail.Start.X),
				Details: map[string]interface{}{"railX": bus.Rail.Start.X},
			})
		}
		yMin := math.Min(bus.Rail.Start.Y, bus.Rail.End.Y)
		yMax := math.Max(bus.Rail.Start.Y, bus.Rail.End.Y)
		if v.Y < yMin-geom.Epsilon || v.Y > yMax+geom.Epsilon {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Net:     v.Net,
				Message: fmt.Sprintf("via %v is outside the rail extent [%g, %g]", v.Point, yMin, yMax),
			})
		}
	}

	return issues
}

// lintClearance walks every trace segment cell by cell and flags cells that
// are blocked in the base grid. Cells within the socket margin of the
// segment's own net are exempt, because the router clears that margin
// before pathfinding.
func lintClearance(brd *board.Board, baseGrid *grid.Grid, result *route.RoutingResult) []Issue {
	var issues []Issue

	marginCells := int(math.Ceil(1.0 / brd.Resolution))

	nearOwnSocket := func(net string, idx grid.Index) bool {
		for _, socket := range brd.Sockets[net] {
			s := baseGrid.IndexOf(socket)
			if absInt(s.Col-idx.Col) < marginCells && absInt(s.Row-idx.Row) < marginCells {
				return true
			}
		}
		return false
	}

	for net, segments := range result.Segments {
		signal := brd.LayerForNet(net)
		for _, s := range segments {
			if signal == nil || s.Layer != signal.Name {
				// Bus rails live on their own layer inside the bus strip;
				// the strip is a zone by construction.
				continue
			}
			for _, idx := range segmentCells(baseGrid, s) {
				if !baseGrid.InBounds(idx) || baseGrid.At(idx) == grid.Free {
					continue
				}
				if nearOwnSocket(net, idx) {
					continue
				}
				issues = append(issues, Issue{
					Type:    IssueClearance,
					Net:     net,
					Message: fmt.Sprintf("segment %v crosses blocked cell %v", s, idx),
					Details: map[string]interface{}{"cell": idx},
				})
			}
		}
	}

	return issues
}

func lintCounters(brd *board.Board, result *route.RoutingResult) []Issue {
	var issues []Issue

	total := 0
	for _, positions := range brd.Sockets {
		total += len(positions)
	}

	if result.Connected+result.Failed > total {
		issues = append(issues, Issue{
			Type: IssueCount,
			Message: fmt.Sprintf("connected (%d) + failed (%d) exceeds socket count (%d)",
				result.Connected, result.Failed, total),
		})
	}

	return issues
}

// segmentCells enumerates the grid cells a straight on-grid segment passes
// through, endpoints included.
func segmentCells(g *grid.Grid, s geom.Segment) []grid.Index {
	start := g.IndexOf(s.Start)
	end := g.IndexOf(s.End)

	steps := absInt(end.Col - start.Col)
	if dr := absInt(end.Row - start.Row); dr > steps {
		steps = dr
	}
	if steps == 0 {
		return []grid.Index{start}
	}

	cells := make([]grid.Index, 0, steps+1)
	for i := 0; i <= steps; i++ {
		cells = append(cells, grid.Index{
			Col: start.Col + (end.Col-start.Col)*i/steps,
			Row: start.Row + (end.Row-start.Row)*i/steps,
		})
	}
	return cells
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
