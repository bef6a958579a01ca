// Package viewfind computes virtual-camera parameters - position, look-at
// point, roll, and vertical field of view - that maximize how well a rendered
// image satisfies a declared set of visual properties over one or more scene
// targets.  The search is stochastic and time-bounded; see the swarm
// subpackage for the solver and the prop subpackage for the property types.
package viewfind

import "math/rand"

// Sentinel evaluation values.  Satisfactions live in [0,1]; these two codes
// share the float domain so the solver hot loop stays branch-light.
const (
	// Pruned marks an evaluation cut short by the lazy threshold.  A pruned
	// evaluation is known to be no better than the threshold it was compared
	// against.
	Pruned = -1.0
	// OutOfDomain marks a candidate whose parameters fall outside the
	// problem domain.  The candidate is kept but its personal best is not
	// updated.
	OutOfDomain = -2.0
)

// Rng is the source of randomness used throughout the package.  Swap Rand
// for a seeded source to make runs reproducible.
type Rng interface {
	Float64() float64
	Intn(n int) int
}

var Rand Rng = rand.New(rand.NewSource(1))

// RandFloat returns a uniform random number in [0,1) from the package
// generator.
func RandFloat() float64 { return Rand.Float64() }

// Viewpoint is a solved camera configuration: the raw parameter vector plus
// the satisfaction and in-screen ratio recorded for the objective and each
// ground property at that configuration.
type Viewpoint struct {
	// Params is the parameter vector in domain order (see Domain).
	Params []float64
	// Sats holds the aggregated objective satisfaction at index 0 followed
	// by each property's satisfaction, in property-list order.
	Sats []float64
	// InScreen holds the matching in-screen ratios.
	InScreen []float64
}

// NoSolution returns the sentinel viewpoint produced when a solve exhausts
// its budget without recording any valid evaluation.  nprops is the length
// of the property list including the aggregate.  All satisfactions are
// Pruned; callers must check before using the parameters.
func NoSolution(nprops int) Viewpoint {
	sats := make([]float64, nprops)
	ratios := make([]float64, nprops)
	for i := range sats {
		sats[i] = Pruned
		ratios[i] = Pruned
	}
	return Viewpoint{
		Params:   []float64{0, 0, 0, 1, 0, 0, 0, 60},
		Sats:     sats,
		InScreen: ratios,
	}
}

// Valid reports whether v holds a real solution rather than the NoSolution
// sentinel.
func (v Viewpoint) Valid() bool {
	return len(v.Sats) > 0 && v.Sats[0] >= 0
}
