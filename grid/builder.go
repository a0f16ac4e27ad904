package grid

import (
	"fmt"

	"github.com/devices-lab/busrouter/geom"
)

// Build creates the base grid for a board: an all-free grid with every
// keep-out zone blocked. The base grid is immutable once built; routing
// derives transient clones from it.
func Build(boardWidth, boardHeight, resolution float64, zones []geom.Rect) (*Grid, error) {
	if len(zones) == 0 {
		return nil, fmt.Errorf("cannot build grid without zones")
	}

	g := New(boardWidth, boardHeight, resolution)
	for _, zone := range zones {
		g.BlockRect(zone)
	}
	return g, nil
}
