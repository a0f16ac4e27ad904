package route

import (
	"context"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/devices-lab/busrouter/board"
	"github.com/devices-lab/busrouter/geom"
	"github.com/devices-lab/busrouter/grid"
	"github.com/devices-lab/busrouter/pathfind"
)

// leftwardPath builds a straight cell path from a start cell to a column,
// the way a finder would when routing toward a left-side bus.
func leftwardPath(start grid.Index, toCol int) pathfind.Path {
	var path pathfind.Path
	for col := start.Col; col >= toCol; col-- {
		path = append(path, grid.Index{Col: col, Row: start.Row})
	}
	return path
}

var _ = Describe("Scheduler", func() {
	var (
		mockCtrl *gomock.Controller
		finder   *MockFinder
		router   *Router
	)

	// Board: 10x10, one module zone holding two sockets of net A in the
	// same column. The left-side rail for A sits at x=-4, grid column 1.
	socketTop := grid.Index{Col: 9, Row: 3}    // (4, 2)
	socketBottom := grid.Index{Col: 9, Row: 5} // (4, 0)
	goalTop := grid.Index{Col: 0, Row: 3}
	goalBottom := grid.Index{Col: 0, Row: 5}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		finder = NewMockFinder(mockCtrl)

		brd, err := board.Builder{}.
			WithDimensions(10, 10).
			WithResolution(1).
			WithFabrication(board.Fabrication{
				TrackWidth:    0.25,
				BusWidth:      0.5,
				BusSpacing:    1,
				EdgeClearance: 1,
			}).
			WithOptions(board.Options{Side: board.SideLeft}).
			WithLayer("In1_Cu.g2", "", "A").
			WithLayer("In2_Cu.g3", "").
			WithZone(geom.NewRect(geom.Pt(4, -1), geom.Pt(5, 3))).
			WithSocket("A", geom.Pt(4, 2)).
			WithSocket("A", geom.Pt(4, 0)).
			Build("backtrack")
		Expect(err).NotTo(HaveOccurred())

		router, err = Builder{}.
			WithBoard(brd).
			WithTracksLayer("In1_Cu.g2").
			WithBusLayer("In2_Cu.g3").
			WithFinder(finder).
			Build()
		Expect(err).NotTo(HaveOccurred())
	})

	It("should un-route the column sibling and retry in reversed order", func() {
		gomock.InOrder(
			// Top socket first (y descending), routes fine.
			finder.EXPECT().
				FindPath(gomock.Any(), socketTop, goalTop).
				Return(leftwardPath(socketTop, 1), true),
			// Bottom socket fails, which un-routes the top socket and
			// flips the column to bottom-up order.
			finder.EXPECT().
				FindPath(gomock.Any(), socketBottom, goalBottom).
				Return(nil, false),
			// Retry starts with the bottom socket, then the top one.
			finder.EXPECT().
				FindPath(gomock.Any(), socketBottom, goalBottom).
				Return(leftwardPath(socketBottom, 1), true),
			finder.EXPECT().
				FindPath(gomock.Any(), socketTop, goalTop).
				Return(leftwardPath(socketTop, 1), true),
		)

		result, err := router.Route(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Connected).To(Equal(2))
		Expect(result.Failed).To(BeZero())
		Expect(result.Backtracks).To(Equal(1))

		vias := result.ViasForNet("A")
		Expect(vias).To(HaveLen(2))
		Expect(vias).To(ContainElement(geom.Via{Point: geom.Pt(-4, 2), Net: "A"}))
		Expect(vias).To(ContainElement(geom.Via{Point: geom.Pt(-4, 0), Net: "A"}))
	})

	It("should give up on a column after the second failure", func() {
		gomock.InOrder(
			finder.EXPECT().
				FindPath(gomock.Any(), socketTop, goalTop).
				Return(leftwardPath(socketTop, 1), true),
			finder.EXPECT().
				FindPath(gomock.Any(), socketBottom, goalBottom).
				Return(nil, false),
			// The flipped retry fails again; the column direction has
			// already flipped once, so the socket is declared unroutable.
			finder.EXPECT().
				FindPath(gomock.Any(), socketBottom, goalBottom).
				Return(nil, false),
			finder.EXPECT().
				FindPath(gomock.Any(), socketTop, goalTop).
				Return(leftwardPath(socketTop, 1), true),
		)

		result, err := router.Route(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Connected).To(Equal(1))
		Expect(result.Failed).To(Equal(1))
		Expect(result.Backtracks).To(Equal(1))
		Expect(result.ViasForNet("A")).To(HaveLen(1))
	})

	It("should count a failure without a routed sibling", func() {
		gomock.InOrder(
			finder.EXPECT().
				FindPath(gomock.Any(), socketTop, goalTop).
				Return(nil, false),
			finder.EXPECT().
				FindPath(gomock.Any(), socketBottom, goalBottom).
				Return(leftwardPath(socketBottom, 1), true),
		)

		result, err := router.Route(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Connected).To(Equal(1))
		Expect(result.Failed).To(Equal(1))
		Expect(result.Backtracks).To(BeZero())
	})

	It("should bound the attempts by twice the socket count", func() {
		calls := 0
		finder.EXPECT().
			FindPath(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(*grid.Grid, grid.Index, grid.Index) (pathfind.Path, bool) {
				calls++
				return nil, false
			}).
			AnyTimes()

		result, err := router.Route(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Connected).To(BeZero())
		Expect(result.Failed).To(Equal(2))
		Expect(calls).To(BeNumerically("<=", 4))
	})
})
