package geom

import (
	"fmt"
	"sort"
)

// A Rect is an axis-aligned rectangle given by its four corners in
// (bottom-left, top-left, top-right, bottom-right) order.
type Rect struct {
	BottomLeft  Point
	TopLeft     Point
	TopRight    Point
	BottomRight Point
}

// NewRect builds a Rect from the bottom-left and top-right corners.
func NewRect(bottomLeft, topRight Point) Rect {
	return Rect{
		BottomLeft:  bottomLeft,
		TopLeft:     Pt(bottomLeft.X, topRight.Y),
		TopRight:    topRight,
		BottomRight: Pt(topRight.X, bottomLeft.Y),
	}
}

// RectFromCorners rebuilds a Rect from four corner points in arbitrary order.
// The points are sorted lexicographically by (x, y), which puts them in
// (BL, TL, BR, TR) order for an axis-aligned rectangle.
func RectFromCorners(corners [4]Point) Rect {
	pts := corners[:]
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	return Rect{
		BottomLeft:  pts[0],
		TopLeft:     pts[1],
		TopRight:    pts[3],
		BottomRight: pts[2],
	}
}

// Inflate grows the rectangle outward by margin on every side.
func (r Rect) Inflate(margin float64) Rect {
	return Rect{
		BottomLeft:  Pt(r.BottomLeft.X-margin, r.BottomLeft.Y-margin),
		TopLeft:     Pt(r.TopLeft.X-margin, r.TopLeft.Y+margin),
		TopRight:    Pt(r.TopRight.X+margin, r.TopRight.Y+margin),
		BottomRight: Pt(r.BottomRight.X+margin, r.BottomRight.Y-margin),
	}
}

// Contains reports whether p lies inside the rectangle, bounds inclusive.
func (r Rect) Contains(p Point) bool {
	return r.BottomLeft.X <= p.X && p.X <= r.TopRight.X &&
		r.BottomLeft.Y <= p.Y && p.Y <= r.TopRight.Y
}

// Corners returns the four corners in (BL, TL, TR, BR) order.
func (r Rect) Corners() [4]Point {
	return [4]Point{r.BottomLeft, r.TopLeft, r.TopRight, r.BottomRight}
}

// Aligned reports whether every corner coordinate is a multiple of res. The
// misaligned corner points are returned for error reporting.
func (r Rect) Aligned(res float64) (bool, []Point) {
	var bad []Point
	for _, c := range r.Corners() {
		if !AlignedTo(c.X, res) || !AlignedTo(c.Y, res) {
			bad = append(bad, c)
		}
	}
	return len(bad) == 0, bad
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%v, %v, %v, %v)",
		r.BottomLeft, r.TopLeft, r.TopRight, r.BottomRight)
}
