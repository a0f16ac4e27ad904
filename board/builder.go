package board

import (
	"github.com/devices-lab/busrouter/geom"
	"github.com/devices-lab/busrouter/pathfind"
)

// Builder assembles a Board programmatically.
type Builder struct {
	width, height float64
	resolution    float64
	fabrication   Fabrication
	options       Options
	layers        []*Layer
	modules       []Module
	zones         []geom.Rect
	sockets       map[string][]geom.Point
}

// WithDimensions sets the board width and height in millimeters.
func (b Builder) WithDimensions(width, height float64) Builder {
	b.width = width
	b.height = height
	return b
}

// WithResolution sets the grid cell size in millimeters.
func (b Builder) WithResolution(resolution float64) Builder {
	b.resolution = resolution
	return b
}

// WithFabrication sets the fabrication options.
func (b Builder) WithFabrication(f Fabrication) Builder {
	b.fabrication = f
	return b
}

// WithOptions sets the routing options.
func (b Builder) WithOptions(o Options) Builder {
	b.options = o
	return b
}

// WithLayer appends a layer carrying the given nets. Layer order is the
// order of WithLayer calls.
func (b Builder) WithLayer(name, attributes string, nets ...string) Builder {
	layer := &Layer{Name: name, Attributes: attributes}
	for _, net := range nets {
		layer.AddNet(net)
	}
	b.layers = append(b.layers, layer)
	return b
}

// WithModule appends a pre-placed module.
func (b Builder) WithModule(name string, position geom.Point, rotation float64) Builder {
	b.modules = append(b.modules, Module{Name: name, Position: position, Rotation: rotation})
	return b
}

// WithZone appends a keep-out zone.
func (b Builder) WithZone(zone geom.Rect) Builder {
	b.zones = append(b.zones, zone)
	return b
}

// WithSocket appends a socket position for a net.
func (b Builder) WithSocket(net string, position geom.Point) Builder {
	if b.sockets == nil {
		b.sockets = map[string][]geom.Point{}
	}
	b.sockets = cloneSockets(b.sockets)
	b.sockets[net] = append(b.sockets[net], position)
	return b
}

// WithSockets sets the full socket map, replacing earlier WithSocket calls.
func (b Builder) WithSockets(sockets map[string][]geom.Point) Builder {
	b.sockets = sockets
	return b
}

// Build creates the Board and validates it.
func (b Builder) Build(name string) (*Board, error) {
	options := b.options
	if options.Algorithm == "" {
		options.Algorithm = pathfind.AStar
	}
	if options.Side == "" {
		options.Side = SideLeft
	}

	brd := &Board{
		Name:        name,
		Width:       b.width,
		Height:      b.height,
		Resolution:  b.resolution,
		Fabrication: b.fabrication,
		Options:     options,
		Layers:      b.layers,
		Modules:     b.modules,
		Zones:       b.zones,
		Sockets:     b.sockets,
	}
	if brd.Sockets == nil {
		brd.Sockets = map[string][]geom.Point{}
	}

	if err := brd.Validate(); err != nil {
		return nil, err
	}
	return brd, nil
}

// cloneSockets keeps the value-receiver builder safe to fork.
func cloneSockets(in map[string][]geom.Point) map[string][]geom.Point {
	out := make(map[string][]geom.Point, len(in))
	for net, positions := range in {
		out[net] = append([]geom.Point(nil), positions...)
	}
	return out
}
