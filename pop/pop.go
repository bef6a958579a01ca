// Package pop seeds candidate viewpoints for the solver.
package pop

import (
	"math/rand"

	"github.com/petar/GoLLRB/llrb"

	"github.com/rwcarlsen/viewfind"
)

var Rand Rng = rand.New(rand.NewSource(1))

type Rng interface {
	Float64() float64
}

// New generates n viewpoints distributed uniformly in the box bounds.
func New(n int, low, up []float64) [][]float64 {
	if len(low) != len(up) {
		panic("pop: low and up vectors are not same length")
	}
	points := make([][]float64, n)
	for i := range points {
		p := make([]float64, len(low))
		for j := range p {
			p[j] = low[j] + Rand.Float64()*(up[j]-low[j])
		}
		points[i] = p
	}
	return points
}

type item struct {
	params []float64
	howbad float64
}

func (p1 item) Less(than llrb.Item) bool {
	p2 := than.(item)
	return p1.howbad < p2.howbad
}

// NewClear tries to generate n viewpoints that pass the domain's geometry
// clearance.  Samples are drawn uniformly and kept when feasible; the least
// infeasible rejects are queued so the quota can still be filled when the
// domain is tight.  nbad is the number of queued rejects used.
func NewClear(n, maxiter int, d viewfind.Domain) (points [][]float64, nbad, iter int) {
	violaters := llrb.New()
	points = make([][]float64, 0, n)

	for i := 0; i < maxiter; i++ {
		p := make([]float64, d.Dim())
		d.RandViewpoint(p)

		if d.InDomain(p, true) {
			points = append(points, p)
			if len(points) == n {
				return points, 0, i
			}
			continue
		}

		violaters.InsertNoReplace(item{p, d.Violation(p)})
		for violaters.Len() > n-len(points) {
			violaters.DeleteMax()
		}
	}

	nbad = n - len(points)
	for len(points) < n && violaters.Len() > 0 {
		p := violaters.DeleteMin().(item).params
		points = append(points, p)
	}
	return points, nbad, maxiter
}
