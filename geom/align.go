package geom

import "math"

// Epsilon is the tolerance used when comparing board coordinates against the
// resolution grid.
const Epsilon = 1e-4

// AlignedTo reports whether v is a multiple of res, allowing for floating
// point error on either side of the grid line.
func AlignedTo(v, res float64) bool {
	rem := math.Mod(math.Abs(v), res)
	return rem < Epsilon || math.Abs(rem-res) < Epsilon
}

// RoundTo rounds v to the nearest multiple of res.
func RoundTo(v, res float64) float64 {
	return math.Round(v/res) * res
}
