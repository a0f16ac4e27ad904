// Package geom defines the commonly used geometric data structures for the
// board router.
package geom

import (
	"fmt"
	"math"
)

// A Point is a location on the board in millimeters.
type Point struct {
	X, Y float64
}

// Pt is a shorthand constructor for Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}

// A Segment is a straight trace between two points. Net, Layer, and Width
// carry the electrical and fabrication attributes of the trace.
type Segment struct {
	Start Point
	End   Point
	Net   string
	Layer string
	Width float64
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	dx := s.End.X - s.Start.X
	dy := s.End.Y - s.Start.Y
	return math.Hypot(dx, dy)
}

func (s Segment) String() string {
	return fmt.Sprintf("Segment(%v -> %v, layer=%s, net=%s, width=%.3f)",
		s.Start, s.End, s.Layer, s.Net, s.Width)
}

// A Via is a plated hole that joins a trace to its bus rail or transitions
// between layers.
type Via struct {
	Point
	Net string
}
