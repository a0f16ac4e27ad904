package route

import (
	"fmt"
	"log"

	"github.com/devices-lab/busrouter/board"
	"github.com/devices-lab/busrouter/geom"
)

// A Bus is the vertical rail that serves one net.
type Bus struct {
	Net  string
	Rail geom.Segment
}

// ConnectionPoint returns the point on the rail nearest to the socket: the
// rail x with the socket y clamped into the rail extent.
func (b Bus) ConnectionPoint(socket geom.Point) geom.Point {
	yMin := min(b.Rail.Start.Y, b.Rail.End.Y)
	yMax := max(b.Rail.Start.Y, b.Rail.End.Y)

	y := socket.Y
	if y < yMin {
		y = yMin
	}
	if y > yMax {
		y = yMax
	}
	return geom.Pt(b.Rail.Start.X, y)
}

// planBuses computes the vertical rail for every net of the tracks layer and
// the zone covering the whole bus strip. Rails start at the board edge plus
// the edge clearance and step toward the board interior by the bus spacing.
func planBuses(brd *board.Board, tracksLayer, busLayer *board.Layer, side board.Side) (map[string]Bus, geom.Rect, error) {
	fab := brd.Fabrication

	offset := fab.RoundedCornerRadius
	if fab.EdgeClearance > offset {
		offset = fab.EdgeClearance
	}
	upperY := brd.Height/2 - offset
	lowerY := -brd.Height/2 + offset

	var x, step float64
	switch side {
	case board.SideLeft:
		x = -brd.Width/2 + fab.EdgeClearance
		step = fab.BusSpacing
	case board.SideRight:
		x = brd.Width/2 - fab.EdgeClearance
		step = -fab.BusSpacing
	default:
		return nil, geom.Rect{}, fmt.Errorf("invalid side %q, must be %q or %q",
			side, board.SideLeft, board.SideRight)
	}

	buses := map[string]Bus{}
	for _, net := range tracksLayer.Nets {
		buses[net] = Bus{
			Net: net,
			Rail: geom.Segment{
				Start: geom.Pt(x, upperY),
				End:   geom.Pt(x, lowerY),
				Net:   net,
				Layer: busLayer.Name,
				Width: fab.BusWidth,
			},
		}
		x += step
	}

	// The bus zone spans from the board edge to one bus spacing past the
	// innermost rail: the rail x has already stepped past the last rail,
	// which leaves one spacing of clearance between the strip and the
	// modules.
	var zone geom.Rect
	if side == board.SideLeft {
		zone = geom.NewRect(geom.Pt(-brd.Width/2, -brd.Height/2), geom.Pt(x, brd.Height/2))
	} else {
		zone = geom.NewRect(geom.Pt(x, -brd.Height/2), geom.Pt(brd.Width/2, brd.Height/2))
	}

	log.Printf("created %d bus rails on %s side", len(buses), side)
	return buses, zone, nil
}
