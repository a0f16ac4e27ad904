// Package route implements the bus-routing engine: it places one vertical
// bus rail per net along a board side, routes every socket of the bus
// layer's nets to its rail over a shared occupancy grid, and consolidates
// the resulting cell paths into trace segments.
package route

import (
	"github.com/devices-lab/busrouter/geom"
)

// A RoutingResult is the output of one routing job: the trace segments per
// net, the vias joining traces to their bus rails, and the outcome counters.
type RoutingResult struct {
	Segments map[string][]geom.Segment
	Vias     []geom.Via

	// Connected counts sockets that were routed to their bus.
	Connected int
	// Failed counts sockets that could not be routed even after
	// backtracking.
	Failed int
	// Backtracks counts how often a previously routed socket was un-routed
	// to let a failing sibling go first.
	Backtracks int
}

// NewRoutingResult creates an empty result.
func NewRoutingResult() *RoutingResult {
	return &RoutingResult{
		Segments: map[string][]geom.Segment{},
	}
}

// AddSegment appends a segment to its net.
func (r *RoutingResult) AddSegment(s geom.Segment) {
	r.Segments[s.Net] = append(r.Segments[s.Net], s)
}

// SegmentsOnLayer collects the segments of every net on the given layer.
func (r *RoutingResult) SegmentsOnLayer(layer string) map[string][]geom.Segment {
	result := map[string][]geom.Segment{}
	for net, segments := range r.Segments {
		for _, s := range segments {
			if s.Layer == layer {
				result[net] = append(result[net], s)
			}
		}
	}
	return result
}

// ViasForNet collects the vias registered for a net.
func (r *RoutingResult) ViasForNet(net string) []geom.Via {
	var vias []geom.Via
	for _, v := range r.Vias {
		if v.Net == net {
			vias = append(vias, v)
		}
	}
	return vias
}

// TotalSegments counts segments across all nets.
func (r *RoutingResult) TotalSegments() int {
	total := 0
	for _, segments := range r.Segments {
		total += len(segments)
	}
	return total
}
