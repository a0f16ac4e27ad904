// Sample: three nets share the bus strip on the left edge. The board comes
// from the embedded YAML description.
package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/devices-lab/busrouter/board"
	"github.com/devices-lab/busrouter/route"
	"github.com/devices-lab/busrouter/verify"
)

//go:embed board.yaml
var boardDescription []byte

func main() {
	brd, err := board.LoadBoard(boardDescription)
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

	for net, bus := range router.Buses() {
		fmt.Printf("bus %s at x=%g\n", net, bus.Rail.Start.X)
	}
	fmt.Printf("connected %d sockets, %d failed, %d vias\n",
		result.Connected, result.Failed, len(result.Vias))

	report := verify.GenerateReport(brd, router.BaseGrid(), router.Buses(), result)
	report.WriteReport(os.Stdout)

	atexit.Exit(0)
}
