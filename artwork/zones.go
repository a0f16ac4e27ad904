package artwork

import (
	"log"
	"math"

	"github.com/devices-lab/busrouter/geom"
)

// connectTolerance is the tolerance for matching line endpoints and aperture
// diameters when rebuilding zone rectangles.
const connectTolerance = 1e-4

// ExtractZones rebuilds keep-out rectangles from the zone outlines in the
// artwork.
//
// A zone is drawn as four connected lines with the keepOutDiameter aperture.
// The reconstructed rectangle is inflated outward by moduleMargin on every
// side. Every original corner must lie on the resolution grid; misalignment
// is fatal and the returned AlignmentError lists all offending points.
//
// The returned rectangles are ordered by the first line of each loop, so the
// extraction is idempotent for the same input.
func ExtractZones(lines []Line, keepOutDiameter, moduleMargin, resolution float64) ([]geom.Rect, error) {
	var outlines []Line
	for _, l := range lines {
		if l.IsFlash() {
			continue
		}
		if math.Abs(l.Diameter-keepOutDiameter) < connectTolerance {
			outlines = append(outlines, l)
		}
	}

	var zones []geom.Rect
	var misaligned []geom.Point
	used := make([]bool, len(outlines))

	samePoint := func(a, b geom.Point) bool {
		return math.Abs(a.X-b.X) < connectTolerance && math.Abs(a.Y-b.Y) < connectTolerance
	}

	// findContinuation returns the unused line that continues the chain from
	// far, together with its other endpoint.
	findContinuation := func(far geom.Point, exclude int) (int, geom.Point) {
		for i, l := range outlines {
			if used[i] || i == exclude {
				continue
			}
			if samePoint(l.Start(), far) {
				return i, l.End()
			}
			if samePoint(l.End(), far) {
				return i, l.Start()
			}
		}
		return -1, geom.Point{}
	}

	for start, l := range outlines {
		if used[start] {
			continue
		}

		chain := []int{start}
		far := l.End()
		current := start
		for len(chain) < 4 {
			next, nextFar := findContinuation(far, current)
			if next < 0 {
				break
			}
			// Guard against walking back along a line already in the chain.
			alreadyChained := false
			for _, c := range chain {
				if c == next {
					alreadyChained = true
				}
			}
			if alreadyChained {
				break
			}
			chain = append(chain, next)
			far = nextFar
			current = next
		}

		if len(chain) != 4 || !samePoint(far, l.Start()) {
			continue
		}

		corners, ok := collectCorners(outlines, chain, resolution)
		if !ok {
			continue
		}

		for _, c := range corners {
			if !geom.AlignedTo(c.X, resolution) || !geom.AlignedTo(c.Y, resolution) {
				misaligned = append(misaligned, c)
			}
		}

		rounded := [4]geom.Point{}
		for i, c := range corners {
			rounded[i] = geom.Pt(geom.RoundTo(c.X, resolution), geom.RoundTo(c.Y, resolution))
		}

		zones = append(zones, geom.RectFromCorners(rounded).Inflate(moduleMargin))
		for _, i := range chain {
			used[i] = true
		}
	}

	if len(misaligned) > 0 {
		return nil, &AlignmentError{Resolution: resolution, Points: misaligned}
	}

	log.Printf("extracted %d keep-out zones", len(zones))
	return zones, nil
}

// collectCorners deduplicates the endpoints of the chained lines into the
// four rectangle corners. Chains that do not reduce to exactly four distinct
// points are rejected.
func collectCorners(outlines []Line, chain []int, resolution float64) ([4]geom.Point, bool) {
	var distinct []geom.Point
	seen := map[[2]float64]bool{}

	add := func(p geom.Point) {
		key := [2]float64{geom.RoundTo(p.X, resolution), geom.RoundTo(p.Y, resolution)}
		if !seen[key] {
			seen[key] = true
			distinct = append(distinct, p)
		}
	}

	for _, i := range chain {
		add(outlines[i].Start())
		add(outlines[i].End())
	}

	if len(distinct) != 4 {
		return [4]geom.Point{}, false
	}
	return [4]geom.Point{distinct[0], distinct[1], distinct[2], distinct[3]}, true
}
