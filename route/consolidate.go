package route

import (
	"github.com/devices-lab/busrouter/geom"
	"github.com/devices-lab/busrouter/pathfind"
)

// collinearEps is the cross-product threshold below which three consecutive
// path points count as collinear.
const collinearEps = 1e-6

// consolidate converts the accumulated cell paths into trace segments and
// the via cells into board-coordinate vias. Called once, after the
// scheduler loop has processed every socket.
func (r *Router) consolidate() {
	for _, net := range r.tracksLayer.Nets {
		for _, path := range r.paths[net] {
			for _, s := range consolidatePath(r, path, net) {
				r.result.AddSegment(s)
			}
		}
	}

	r.result.Vias = r.result.Vias[:0]
	for _, v := range r.vias {
		r.result.Vias = append(r.result.Vias, geom.Via{
			Point: r.baseGrid.CoordOf(v.cell),
			Net:   v.net,
		})
	}
}

// consolidatePath collapses a cell sequence into the minimal list of
// straight segments: one segment between each pair of key points, where the
// key points are the path ends and every direction change.
func consolidatePath(r *Router, path pathfind.Path, net string) []geom.Segment {
	if len(path) < 2 {
		return nil
	}

	points := make([]geom.Point, len(path))
	for i, cell := range path {
		points[i] = r.baseGrid.CoordOf(cell)
	}

	keyPoints := []int{0}
	for i := 1; i < len(points)-1; i++ {
		v1x := points[i].X - points[i-1].X
		v1y := points[i].Y - points[i-1].Y
		v2x := points[i+1].X - points[i].X
		v2y := points[i+1].Y - points[i].Y

		cross := v1x*v2y - v1y*v2x
		if cross > collinearEps || cross < -collinearEps {
			keyPoints = append(keyPoints, i)
		}
	}
	keyPoints = append(keyPoints, len(points)-1)

	layer := r.board.LayerForNet(net)
	layerName := ""
	if layer != nil {
		layerName = layer.Name
	}

	segments := make([]geom.Segment, 0, len(keyPoints)-1)
	for i := 0; i < len(keyPoints)-1; i++ {
		segments = append(segments, geom.Segment{
			Start: points[keyPoints[i]],
			End:   points[keyPoints[i+1]],
			Net:   net,
			Layer: layerName,
			Width: r.board.Fabrication.TrackWidth,
		})
	}
	return segments
}
