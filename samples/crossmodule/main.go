// Sample: one net with a socket on each side of a central module. The path
// from the far socket has to detour around the module zone before it can
// reach the bus rail on the left edge.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/devices-lab/busrouter/board"
	"github.com/devices-lab/busrouter/geom"
	"github.com/devices-lab/busrouter/route"
	"github.com/devices-lab/busrouter/verify"
)

func main() {
	brd, err := board.Builder{}.
		WithDimensions(10, 10).
		WithResolution(1).
		WithFabrication(board.Fabrication{
			TrackWidth: 0.25,
			BusWidth:   0.5,
			BusSpacing: 1,
		}).
		WithOptions(board.Options{Side: board.SideLeft}).
		WithLayer("F_Cu.gtl", "Copper,L1,Top").
		WithLayer("In1_Cu.g2", "Copper,L2,Inr", "A").
		WithLayer("In2_Cu.g3", "Copper,L3,Inr").
		WithZone(geom.NewRect(geom.Pt(-2, -2), geom.Pt(2, 2))).
		WithZone(geom.NewRect(geom.Pt(4, -1), geom.Pt(5, 1))).
		WithSocket("A", geom.Pt(-4, 0)).
		WithSocket("A", geom.Pt(4, 0)).
		Build("crossmodule")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	router, err := route.Builder{}.
		WithBoard(brd).
		WithTracksLayer("In1_Cu.g2").
		WithBusLayer("In2_Cu.g3").
		Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	result, err := router.Route(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	for net, segments := range result.Segments {
		fmt.Printf("net %s:\n", net)
		for _, s := range segments {
			fmt.Printf("  %v\n", s)
		}
	}
	for _, v := range result.Vias {
		fmt.Printf("via %v (%s)\n", v.Point, v.Net)
	}

	report := verify.GenerateReport(brd, router.BaseGrid(), router.Buses(), result)
	report.WriteReport(os.Stdout)

	atexit.Exit(0)
}
