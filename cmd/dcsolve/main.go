// Command dcsolve reads a netlist file and prints its DC operating point.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ananas-dev/pixie/pkg/dcsolve"
	"github.com/ananas-dev/pixie/pkg/netlist"
	"github.com/ananas-dev/pixie/pkg/report"
)

func main() {
	tempAware := flag.Bool("temp-aware", false, "linearise diodes at each device's declared temperature instead of the fixed reference thermal voltage")
	maxIter := flag.Int("max-iter", dcsolve.DefaultMaxIterations, "maximum Newton iterations before giving up")
	tolerance := flag.Float64("tolerance", dcsolve.DefaultTolerance, "squared-distance convergence tolerance")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: dcsolve [flags] <netlist_file>")
	}

	content, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("reading netlist file: %v", err)
	}

	net, err := netlist.Parse(string(content))
	if err != nil {
		log.Fatalf("parsing netlist: %v", err)
	}

	x, err := dcsolve.SolveDC(net,
		dcsolve.WithTemperatureAware(*tempAware),
		dcsolve.WithMaxIterations(*maxIter),
		dcsolve.WithTolerance(*tolerance),
	)
	if err != nil {
		log.Fatalf("solving for operating point: %v", err)
	}

	fmt.Print(report.FromSolution(net, x).String())
}
