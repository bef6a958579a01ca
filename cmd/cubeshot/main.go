// Command cubeshot solves one of the canned benchmark scenes over a number
// of trials and prints the best viewpoint found per trial.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/rwcarlsen/viewfind/bench"
	"github.com/rwcarlsen/viewfind/refine"
	"github.com/rwcarlsen/viewfind/swarm"
)

func main() {
	budget := flag.Duration("budget", time.Second, "solve time budget per trial")
	trials := flag.Int("trials", 10, "number of independent solves")
	name := flag.String("scene", "SingleCube", "scene to solve")
	thresh := flag.Float64("sat", 0.95, "satisfaction threshold for early exit")
	polish := flag.Bool("polish", false, "run a compass-poll refinement after each solve")
	flag.Parse()

	var sc *bench.Scene
	for _, s := range bench.All() {
		if s.Name == *name {
			sc = s
			break
		}
	}
	if sc == nil {
		log.Fatalf("unknown scene %q", *name)
	}

	nsuccess := 0
	for n := 0; n < *trials; n++ {
		sol := swarm.New(swarm.Seed(time.Now().UnixNano()))
		best, ok := bench.Benchmark(sol, sc, *budget, *thresh)
		if *polish && best.Valid() {
			best = refine.Polish(sc.Ev, best, *budget/10)
		}

		if ok {
			nsuccess++
			fmt.Printf("Succeeded (%v iters, %v best-updates):\n", sol.Iter, len(sol.History))
		} else {
			fmt.Printf("Failed (%v iters):\n", sol.Iter)
		}
		fmt.Printf("    sat: %v\n", best.Sats[0])
		fmt.Printf("    params: %v\n", best.Params)
	}
	fmt.Printf("%v%% succeeded\n", float64(nsuccess)/float64(*trials)*100)
}
