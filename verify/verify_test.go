package verify_test

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/devices-lab/busrouter/board"
	"github.com/devices-lab/busrouter/geom"
	"github.com/devices-lab/busrouter/grid"
	"github.com/devices-lab/busrouter/route"
	"github.com/devices-lab/busrouter/verify"
)

// routedFixture routes a small two-module board and returns everything the
// lint pass needs.
func routedFixture() (*board.Board, *grid.Grid, map[string]route.Bus, *route.RoutingResult) {
	brd, err := board.Builder{}.
		WithDimensions(10, 10).
		WithResolution(1).
		WithFabrication(board.Fabrication{
			TrackWidth: 0.25,
			BusWidth:   0.5,
			BusSpacing: 1,
		}).
		WithOptions(board.Options{Side: board.SideLeft}).
		WithLayer("In1_Cu.g2", "", "A").
		WithLayer("In2_Cu.g3", "").
		WithZone(geom.NewRect(geom.Pt(-2, -2), geom.Pt(2, 2))).
		WithZone(geom.NewRect(geom.Pt(4, -1), geom.Pt(5, 1))).
		WithSocket("A", geom.Pt(-4, 0)).
		WithSocket("A", geom.Pt(4, 0)).
		Build("lint-fixture")
	Expect(err).NotTo(HaveOccurred())

	router, err := route.Builder{}.
		WithBoard(brd).
		WithTracksLayer("In1_Cu.g2").
		WithBusLayer("In2_Cu.g3").
		Build()
	Expect(err).NotTo(HaveOccurred())

	result, err := router.Route(context.Background())
	Expect(err).NotTo(HaveOccurred())

	return brd, router.BaseGrid(), router.Buses(), result
}

var _ = Describe("RunLint", func() {
	It("should pass a clean routing result", func() {
		brd, baseGrid, buses, result := routedFixture()
		Expect(verify.RunLint(brd, baseGrid, buses, result)).To(BeEmpty())
	})

	It("should flag a zero-length segment", func() {
		brd, baseGrid, buses, result := routedFixture()
		result.AddSegment(geom.Segment{
			Start: geom.Pt(3, 3),
			End:   geom.Pt(3, 3),
			Net:   "A",
			Layer: "In1_Cu.g2",
			Width: 0.25,
		})

		issues := verify.RunLint(brd, baseGrid, buses, result)
		Expect(issues).NotTo(BeEmpty())
		Expect(issues[0].Type).To(Equal(verify.IssueStruct))
	})

	It("should flag an unknown layer", func() {
		brd, baseGrid, buses, result := routedFixture()
		result.AddSegment(geom.Segment{
			Start: geom.Pt(3, 3),
			End:   geom.Pt(3, 4),
			Net:   "A",
			Layer: "Mystery.g9",
			Width: 0.25,
		})

		issues := verify.RunLint(brd, baseGrid, buses, result)
		Expect(issueMessages(issues)).To(ContainElement(ContainSubstring("unknown layer")))
	})

	It("should flag an off-grid endpoint", func() {
		brd, baseGrid, buses, result := routedFixture()
		result.AddSegment(geom.Segment{
			Start: geom.Pt(3.3, 3),
			End:   geom.Pt(3, 3),
			Net:   "A",
			Layer: "In1_Cu.g2",
			Width: 0.25,
		})

		issues := verify.RunLint(brd, baseGrid, buses, result)
		Expect(issueMessages(issues)).To(ContainElement(ContainSubstring("off the")))
	})

	It("should flag a non-positive width", func() {
		brd, baseGrid, buses, result := routedFixture()
		result.AddSegment(geom.Segment{
			Start: geom.Pt(3, 3),
			End:   geom.Pt(3, 4),
			Net:   "A",
			Layer: "In1_Cu.g2",
		})

		issues := verify.RunLint(brd, baseGrid, buses, result)
		Expect(issueMessages(issues)).To(ContainElement(ContainSubstring("width")))
	})

	It("should flag a via off its rail", func() {
		brd, baseGrid, buses, result := routedFixture()
		result.Vias = append(result.Vias, geom.Via{Point: geom.Pt(0, 0), Net: "A"})

		issues := verify.RunLint(brd, baseGrid, buses, result)
		Expect(issueMessages(issues)).To(ContainElement(ContainSubstring("off the bus rail")))
	})

	It("should flag a via of an unknown net", func() {
		brd, baseGrid, buses, result := routedFixture()
		result.Vias = append(result.Vias, geom.Via{Point: geom.Pt(-5, 0), Net: "Z"})

		issues := verify.RunLint(brd, baseGrid, buses, result)
		Expect(issueMessages(issues)).To(ContainElement(ContainSubstring("without a bus rail")))
	})

	It("should flag a trace through a keep-out zone", func() {
		brd, baseGrid, buses, result := routedFixture()
		result.AddSegment(geom.Segment{
			Start: geom.Pt(-3, 0),
			End:   geom.Pt(3, 0),
			Net:   "A",
			Layer: "In1_Cu.g2",
			Width: 0.25,
		})

		issues := verify.RunLint(brd, baseGrid, buses, result)
		clearance := false
		for _, issue := range issues {
			if issue.Type == verify.IssueClearance {
				clearance = true
			}
		}
		Expect(clearance).To(BeTrue())
	})

	It("should flag inconsistent counters", func() {
		brd, baseGrid, buses, result := routedFixture()
		result.Connected = 5
		result.Failed = 5

		issues := verify.RunLint(brd, baseGrid, buses, result)
		Expect(issueMessages(issues)).To(ContainElement(ContainSubstring("exceeds socket count")))
	})
})

var _ = Describe("Report", func() {
	It("should summarize a clean run", func() {
		brd, baseGrid, buses, result := routedFixture()
		report := verify.GenerateReport(brd, baseGrid, buses, result)

		Expect(report.Clean()).To(BeTrue())
		Expect(report.Connected).To(Equal(2))
		Expect(report.Vias).To(Equal(2))

		var sb strings.Builder
		report.WriteReport(&sb)
		Expect(sb.String()).To(ContainSubstring("no issues found"))
		Expect(sb.String()).To(ContainSubstring("lint-fixture"))
	})

	It("should group issues by type", func() {
		brd, baseGrid, buses, result := routedFixture()
		result.AddSegment(geom.Segment{
			Start: geom.Pt(3, 3),
			End:   geom.Pt(3, 3),
			Net:   "A",
			Layer: "In1_Cu.g2",
			Width: 0.25,
		})

		report := verify.GenerateReport(brd, baseGrid, buses, result)
		Expect(report.Clean()).To(BeFalse())
		Expect(report.StructIssues).NotTo(BeEmpty())

		var sb strings.Builder
		report.WriteReport(&sb)
		Expect(sb.String()).To(ContainSubstring("STRUCT ISSUES"))
	})
})

func issueMessages(issues []verify.Issue) []string {
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	return messages
}
