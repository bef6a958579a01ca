// Package refine locally improves a solved viewpoint with a contracting
// compass poll: each parameter is nudged both ways on a per-dimension step,
// successful moves are kept, and the step halves when a full poll fails.
// It is an optional post-pass after the swarm solver; the poll exploits the
// local basin the stochastic search cannot cheaply exhaust.
package refine

import (
	"time"

	"github.com/rwcarlsen/viewfind"
)

// Evaluator is the subset of the problem the poll needs; satisfied by
// *viewfind.Evaluator.
type Evaluator interface {
	Dim() int
	Bounds() (low, up []float64)
	Update(params []float64)
	Evaluate(lazy float64) float64
	InDomain(params []float64) bool
	Snapshot(params []float64) viewfind.Viewpoint
}

// initial poll step as a fraction of each dimension range, and the
// contraction floor at which polling stops
const (
	stepFrac = 0.05
	minFrac  = 1e-5
)

// Polish hill-climbs from start within the time budget and returns the best
// viewpoint reached.  The no-solution sentinel is returned unchanged.
func Polish(ev Evaluator, start viewfind.Viewpoint, limit time.Duration) viewfind.Viewpoint {
	if !start.Valid() {
		return start
	}

	t0 := time.Now()
	low, up := ev.Bounds()
	dim := ev.Dim()

	pos := append([]float64{}, start.Params...)
	cand := make([]float64, dim)
	steps := make([]float64, dim)
	for j := range steps {
		steps[j] = stepFrac * (up[j] - low[j])
	}

	best := start
	bestVal := start.Sats[0]

	for {
		improved := false
		live := false
		for j := 0; j < dim; j++ {
			if steps[j] < minFrac*(up[j]-low[j]) || steps[j] == 0 {
				continue
			}
			live = true
			for _, sgn := range [2]float64{1, -1} {
				copy(cand, pos)
				cand[j] += sgn * steps[j]
				if !ev.InDomain(cand) {
					continue
				}
				ev.Update(cand)
				if val := ev.Evaluate(bestVal); val > bestVal {
					bestVal = val
					copy(pos, cand)
					best = ev.Snapshot(pos)
					improved = true
				}
				if time.Since(t0) >= limit {
					return best
				}
			}
		}
		if !live {
			return best
		}
		if !improved {
			for j := range steps {
				steps[j] /= 2
			}
		}
	}
}
