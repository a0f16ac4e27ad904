// Package artwork decodes socket locations and keep-out zones from board
// artwork primitives.
//
// The producers of the artwork are external. This package only sees line
// primitives that carry a circular aperture: zero-length lines (flashes)
// encode socket net names through their aperture diameters, and chains of
// four connected lines drawn with a dedicated aperture outline the keep-out
// rectangle of a module.
package artwork

import (
	"fmt"

	"github.com/devices-lab/busrouter/geom"
)

// A Line is an artwork primitive: a stroked line with a circular aperture of
// the given diameter. A line whose endpoints coincide is a flash.
type Line struct {
	X1, Y1 float64
	X2, Y2 float64

	// Diameter is the aperture diameter the line was drawn with.
	Diameter float64
}

// IsFlash reports whether the line is degenerate, i.e. a point marker.
func (l Line) IsFlash() bool {
	return l.X1 == l.X2 && l.Y1 == l.Y2
}

// Start returns the first endpoint.
func (l Line) Start() geom.Point {
	return geom.Pt(l.X1, l.Y1)
}

// End returns the second endpoint.
func (l Line) End() geom.Point {
	return geom.Pt(l.X2, l.Y2)
}

// An AlignmentError is returned when artwork coordinates do not lie on the
// resolution grid. It lists every offending point.
type AlignmentError struct {
	Resolution float64
	Points     []geom.Point
}

func (e *AlignmentError) Error() string {
	msg := fmt.Sprintf("%d coordinates are not aligned with resolution %g:",
		len(e.Points), e.Resolution)
	for _, p := range e.Points {
		msg += fmt.Sprintf("\n  %v", p)
	}
	return msg
}
