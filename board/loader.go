package board

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/devices-lab/busrouter/geom"
	"github.com/devices-lab/busrouter/pathfind"
)

// YAMLPoint is a coordinate pair in the YAML document.
type YAMLPoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// YAMLBoard is the top-level board description.
type YAMLBoard struct {
	Name       string  `yaml:"name"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Resolution float64 `yaml:"resolution"`

	Fabrication YAMLFabrication `yaml:"fabrication_options"`
	Routing     YAMLRouting     `yaml:"routing_options"`
	Layers      []YAMLLayer     `yaml:"layers"`
	Modules     []YAMLModule    `yaml:"modules"`
	Zones       []YAMLZone      `yaml:"zones"`
	Sockets     []YAMLSocket    `yaml:"sockets"`
}

// YAMLFabrication mirrors the fabrication options.
type YAMLFabrication struct {
	TrackWidth          float64 `yaml:"track_width"`
	BusWidth            float64 `yaml:"bus_width"`
	BusSpacing          float64 `yaml:"bus_spacing"`
	EdgeClearance       float64 `yaml:"edge_clearance"`
	ModuleMargin        float64 `yaml:"module_margin"`
	RoundedCornerRadius float64 `yaml:"rounded_corner_radius"`
	ViaDiameter         float64 `yaml:"via_diameter"`
	ViaHoleDiameter     float64 `yaml:"via_hole_diameter"`
}

// YAMLRouting mirrors the routing options.
type YAMLRouting struct {
	Algorithm           string `yaml:"algorithm"`
	AllowDiagonalTraces bool   `yaml:"allow_diagonal_traces"`
	AllowOverlap        bool   `yaml:"allow_overlap"`
	Side                string `yaml:"side"`
}

// YAMLLayer is one entry of the ordered layer list.
type YAMLLayer struct {
	Name       string   `yaml:"name"`
	Attributes string   `yaml:"attributes"`
	Nets       []string `yaml:"nets"`
}

// YAMLModule is a pre-placed module.
type YAMLModule struct {
	Name     string    `yaml:"name"`
	Position YAMLPoint `yaml:"position"`
	Rotation float64   `yaml:"rotation"`
}

// YAMLZone is a keep-out rectangle given by its bottom-left and top-right
// corners.
type YAMLZone struct {
	BottomLeft YAMLPoint `yaml:"bottom_left"`
	TopRight   YAMLPoint `yaml:"top_right"`
}

// YAMLSocket is one socket position of a net.
type YAMLSocket struct {
	Net      string    `yaml:"net"`
	Position YAMLPoint `yaml:"position"`
}

// LoadBoard builds a Board from a YAML document.
func LoadBoard(data []byte) (*Board, error) {
	var doc YAMLBoard
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cannot parse board description: %w", err)
	}

	builder := Builder{}.
		WithDimensions(doc.Width, doc.Height).
		WithResolution(doc.Resolution).
		WithFabrication(Fabrication{
			TrackWidth:          doc.Fabrication.TrackWidth,
			BusWidth:            doc.Fabrication.BusWidth,
			BusSpacing:          doc.Fabrication.BusSpacing,
			EdgeClearance:       doc.Fabrication.EdgeClearance,
			ModuleMargin:        doc.Fabrication.ModuleMargin,
			RoundedCornerRadius: doc.Fabrication.RoundedCornerRadius,
			ViaDiameter:         doc.Fabrication.ViaDiameter,
			ViaHoleDiameter:     doc.Fabrication.ViaHoleDiameter,
		})

	options, err := parseRouting(doc.Routing)
	if err != nil {
		return nil, err
	}
	builder = builder.WithOptions(options)

	for _, l := range doc.Layers {
		builder = builder.WithLayer(l.Name, l.Attributes, l.Nets...)
	}
	for _, m := range doc.Modules {
		builder = builder.WithModule(m.Name, geom.Pt(m.Position.X, m.Position.Y), m.Rotation)
	}
	for _, z := range doc.Zones {
		builder = builder.WithZone(geom.NewRect(
			geom.Pt(z.BottomLeft.X, z.BottomLeft.Y),
			geom.Pt(z.TopRight.X, z.TopRight.Y),
		))
	}

	sockets := map[string][]geom.Point{}
	for _, s := range doc.Sockets {
		sockets[s.Net] = append(sockets[s.Net], geom.Pt(s.Position.X, s.Position.Y))
	}
	builder = builder.WithSockets(sockets)

	return builder.Build(doc.Name)
}

// LoadBoardFile builds a Board from a YAML file on disk.
func LoadBoardFile(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read board description: %w", err)
	}
	return LoadBoard(data)
}

func parseRouting(r YAMLRouting) (Options, error) {
	options := Options{
		AllowDiagonalTraces: r.AllowDiagonalTraces,
		AllowOverlap:        r.AllowOverlap,
	}

	switch r.Algorithm {
	case "", string(pathfind.AStar):
		options.Algorithm = pathfind.AStar
	case string(pathfind.BreadthFirst):
		options.Algorithm = pathfind.BreadthFirst
	default:
		return Options{}, fmt.Errorf("unknown routing algorithm %q", r.Algorithm)
	}

	if r.Side == "" {
		options.Side = SideLeft
	} else {
		side, err := ParseSide(r.Side)
		if err != nil {
			return Options{}, err
		}
		options.Side = side
	}

	return options, nil
}
