package artwork

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/devices-lab/busrouter/geom"
)

const keepOutDiameter = 0.05

// rectLines draws the outline of an axis-aligned rectangle as four connected
// lines with the keep-out aperture.
func rectLines(x1, y1, x2, y2 float64) []Line {
	return []Line{
		{X1: x1, Y1: y1, X2: x2, Y2: y1, Diameter: keepOutDiameter},
		{X1: x2, Y1: y1, X2: x2, Y2: y2, Diameter: keepOutDiameter},
		{X1: x2, Y1: y2, X2: x1, Y2: y2, Diameter: keepOutDiameter},
		{X1: x1, Y1: y2, X2: x1, Y2: y1, Diameter: keepOutDiameter},
	}
}

var _ = Describe("ExtractZones", func() {
	It("should rebuild and inflate a rectangle", func() {
		zones, err := ExtractZones(rectLines(0, 0, 3, 3), keepOutDiameter, 0.5, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(zones).To(HaveLen(1))

		Expect(zones[0].BottomLeft).To(Equal(geom.Pt(-0.5, -0.5)))
		Expect(zones[0].TopLeft).To(Equal(geom.Pt(-0.5, 3.5)))
		Expect(zones[0].TopRight).To(Equal(geom.Pt(3.5, 3.5)))
		Expect(zones[0].BottomRight).To(Equal(geom.Pt(3.5, -0.5)))
	})

	It("should accept outlines drawn in reversed line directions", func() {
		lines := []Line{
			{X1: 0, Y1: 0, X2: 3, Y2: 0, Diameter: keepOutDiameter},
			{X1: 3, Y1: 3, X2: 3, Y2: 0, Diameter: keepOutDiameter}, // reversed
			{X1: 3, Y1: 3, X2: 0, Y2: 3, Diameter: keepOutDiameter},
			{X1: 0, Y1: 0, X2: 0, Y2: 3, Diameter: keepOutDiameter}, // reversed
		}

		zones, err := ExtractZones(lines, keepOutDiameter, 0, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(zones).To(HaveLen(1))
		Expect(zones[0].BottomLeft).To(Equal(geom.Pt(0, 0)))
		Expect(zones[0].TopRight).To(Equal(geom.Pt(3, 3)))
	})

	It("should extract several rectangles", func() {
		lines := append(rectLines(0, 0, 2, 2), rectLines(4, 4, 6, 6)...)
		zones, err := ExtractZones(lines, keepOutDiameter, 0, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(zones).To(HaveLen(2))
	})

	It("should be idempotent for the same artwork", func() {
		lines := append(rectLines(0, 0, 2, 2), rectLines(-4, -4, -1, -2)...)

		first, err := ExtractZones(lines, keepOutDiameter, 0.5, 0.5)
		Expect(err).NotTo(HaveOccurred())
		second, err := ExtractZones(lines, keepOutDiameter, 0.5, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("should ignore lines drawn with other apertures", func() {
		lines := append(rectLines(0, 0, 2, 2),
			Line{X1: 0, Y1: 0, X2: 5, Y2: 5, Diameter: 0.25},
		)

		zones, err := ExtractZones(lines, keepOutDiameter, 0, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(zones).To(HaveLen(1))
	})

	It("should ignore open chains", func() {
		lines := rectLines(0, 0, 2, 2)[:3]
		zones, err := ExtractZones(lines, keepOutDiameter, 0, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(zones).To(BeEmpty())
	})

	It("should fail on corners off the resolution grid", func() {
		zones, err := ExtractZones(rectLines(0, 0, 2.3, 2), keepOutDiameter, 0, 0.5)
		Expect(zones).To(BeNil())
		Expect(err).To(HaveOccurred())

		var alignment *AlignmentError
		Expect(err).To(BeAssignableToTypeOf(alignment))
		Expect(err.(*AlignmentError).Points).NotTo(BeEmpty())
	})

	It("should tolerate endpoint jitter below the tolerance", func() {
		lines := rectLines(0, 0, 2, 2)
		lines[1].X1 += 5e-5
		zones, err := ExtractZones(lines, keepOutDiameter, 0, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(zones).To(HaveLen(1))
	})

	It("should return nothing for empty input", func() {
		zones, err := ExtractZones(nil, keepOutDiameter, 0, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(zones).To(BeEmpty())
	})
})
