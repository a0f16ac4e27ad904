// Package board defines the board model the router operates on: dimensions,
// fabrication options, layers with their net assignments, keep-out zones,
// modules, and socket locations.
//
// A Board is immutable once routing starts. The only mutation the router
// performs is appending the bus zone through AddZone before the first
// socket is routed.
package board

import (
	"fmt"

	"github.com/devices-lab/busrouter/geom"
	"github.com/devices-lab/busrouter/pathfind"
)

// Side selects which board edge carries the bus rails.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ParseSide validates a side value.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideLeft, SideRight:
		return Side(s), nil
	default:
		return "", fmt.Errorf("invalid side %q, must be %q or %q", s, SideLeft, SideRight)
	}
}

// A Module is a pre-placed building block on the board.
type Module struct {
	Name     string
	Position geom.Point
	Rotation float64
}

// A Layer is a copper layer with the nets assigned to it.
type Layer struct {
	Name       string
	Attributes string
	Nets       []string
}

// AddNet appends a net to the layer if it is not already present.
func (l *Layer) AddNet(net string) {
	for _, n := range l.Nets {
		if n == net {
			return
		}
	}
	l.Nets = append(l.Nets, net)
}

// Fabrication holds the manufacturing parameters that shape the routing.
// All values are in millimeters.
type Fabrication struct {
	TrackWidth          float64
	BusWidth            float64
	BusSpacing          float64
	EdgeClearance       float64
	ModuleMargin        float64
	RoundedCornerRadius float64
	ViaDiameter         float64
	ViaHoleDiameter     float64
}

// Options control the routing behavior.
type Options struct {
	Algorithm           pathfind.Algorithm
	AllowDiagonalTraces bool
	// AllowOverlap lets a net cross its own earlier traces.
	AllowOverlap bool
	Side         Side
}

// A Board carries everything the router needs. Width and Height are the
// board dimensions in millimeters; Resolution is the grid cell size.
type Board struct {
	Name       string
	Width      float64
	Height     float64
	Resolution float64

	Fabrication Fabrication
	Options     Options

	Layers  []*Layer
	Modules []Module
	Zones   []geom.Rect
	Sockets map[string][]geom.Point

	netToLayer map[string]*Layer
}

// AddZone appends a keep-out zone to the board.
func (b *Board) AddZone(zone geom.Rect) {
	b.Zones = append(b.Zones, zone)
}

// Layer returns the layer with the given name, or nil.
func (b *Board) Layer(name string) *Layer {
	for _, l := range b.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// LayerForNet returns the layer a net is assigned to, or nil when the net is
// unassigned.
func (b *Board) LayerForNet(net string) *Layer {
	return b.netToLayer[net]
}

// SocketsForNets filters the board sockets down to the given nets. Nets
// without sockets are omitted.
func (b *Board) SocketsForNets(nets []string) map[string][]geom.Point {
	result := map[string][]geom.Point{}
	for _, net := range nets {
		if positions := b.Sockets[net]; len(positions) > 0 {
			result[net] = positions
		}
	}
	return result
}

// ZoneContaining returns the index of the first zone that contains p, bounds
// inclusive, or -1 when p is in no zone.
func (b *Board) ZoneContaining(p geom.Point) int {
	for i, z := range b.Zones {
		if z.Contains(p) {
			return i
		}
	}
	return -1
}

// buildNetToLayer indexes the layer map by net. A net assigned to more than
// one layer is a configuration error.
func (b *Board) buildNetToLayer() error {
	b.netToLayer = map[string]*Layer{}
	for _, layer := range b.Layers {
		for _, net := range layer.Nets {
			if net == "" {
				continue
			}
			if prev, ok := b.netToLayer[net]; ok && prev != layer {
				return fmt.Errorf("net %q is assigned to both layer %q and layer %q",
					net, prev.Name, layer.Name)
			}
			b.netToLayer[net] = layer
		}
	}
	return nil
}

// Validate checks the board invariants: positive dimensions and resolution,
// zone corners and socket positions on the resolution grid, and no net
// assigned to more than one layer. Module positions are not checked here;
// ValidateModulesOutside checks them against the bus zone.
func (b *Board) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("board dimensions %gx%g must be positive", b.Width, b.Height)
	}
	if b.Resolution <= 0 {
		return fmt.Errorf("resolution %g must be positive", b.Resolution)
	}

	var misaligned []geom.Point
	for _, zone := range b.Zones {
		if ok, bad := zone.Aligned(b.Resolution); !ok {
			misaligned = append(misaligned, bad...)
		}
	}
	for net, positions := range b.Sockets {
		for _, p := range positions {
			if !geom.AlignedTo(p.X, b.Resolution) || !geom.AlignedTo(p.Y, b.Resolution) {
				return fmt.Errorf("socket %v of net %q is not on the %g mm grid",
					p, net, b.Resolution)
			}
		}
	}
	if len(misaligned) > 0 {
		return fmt.Errorf("zone corners not aligned with resolution %g: %v",
			b.Resolution, misaligned)
	}

	return b.buildNetToLayer()
}

// ValidateModulesOutside checks that no module position falls inside the
// given zone. The bus planner calls this after reserving the bus strip, so
// modules placed over the strip are rejected before routing starts.
func (b *Board) ValidateModulesOutside(zone geom.Rect) error {
	for _, m := range b.Modules {
		if zone.Contains(m.Position) {
			return fmt.Errorf("module %q at %v is placed inside the bus zone %v",
				m.Name, m.Position, zone)
		}
	}
	return nil
}
