// Package sat implements satisfaction splines: piecewise-linear functions
// from a scalar measurement to a satisfaction value in [0,1], with support
// for sampling the x axis with probability proportional to y.
package sat

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

var ErrBadSpline = errors.New("sat: control points must be >= 2, x strictly increasing, y in [0,1]")

// Rng is the randomness consumed by RandX.
type Rng interface {
	Float64() float64
}

var Rand Rng = rand.New(rand.NewSource(1))

// Spline is a piecewise-linear satisfaction function.  Queries outside
// [x[0], x[k-1]] snap to the nearest endpoint; there is no extrapolation.
type Spline struct {
	xs []float64
	ys []float64
	// cum[i] is the area under the curve over segments [0,i).  Precomputed
	// on construction for inverse-transform sampling.
	cum   []float64
	total float64
}

// New builds a spline from matched control-point vectors.  xs must be
// strictly increasing and ys must lie in [0,1]; both must have at least two
// entries.
func New(xs, ys []float64) (*Spline, error) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return nil, ErrBadSpline
	}
	for i, y := range ys {
		if y < 0 || y > 1 {
			return nil, ErrBadSpline
		}
		if i > 0 && xs[i] <= xs[i-1] {
			return nil, ErrBadSpline
		}
	}

	s := &Spline{
		xs: append([]float64{}, xs...),
		ys: append([]float64{}, ys...),
	}
	s.recompute()
	return s, nil
}

// MustNew is New for literal control points known to be valid.
func MustNew(xs, ys []float64) *Spline {
	s, err := New(xs, ys)
	if err != nil {
		panic(fmt.Sprintf("sat: bad control points %v -> %v", xs, ys))
	}
	return s
}

func (s *Spline) recompute() {
	s.cum = make([]float64, len(s.xs))
	for i := 1; i < len(s.xs); i++ {
		dx := s.xs[i] - s.xs[i-1]
		s.cum[i] = s.cum[i-1] + dx*(s.ys[i]+s.ys[i-1])/2
	}
	s.total = s.cum[len(s.cum)-1]
}

// Domain returns the x range covered by the control points.
func (s *Spline) Domain() (lo, hi float64) { return s.xs[0], s.xs[len(s.xs)-1] }

// Eval returns the satisfaction at x, clamping x to the spline domain.
func (s *Spline) Eval(x float64) float64 {
	n := len(s.xs)
	if x <= s.xs[0] {
		return s.ys[0]
	}
	if x >= s.xs[n-1] {
		return s.ys[n-1]
	}

	i := sort.SearchFloat64s(s.xs, x)
	// xs[i-1] < x <= xs[i]
	t := (x - s.xs[i-1]) / (s.xs[i] - s.xs[i-1])
	return s.ys[i-1] + t*(s.ys[i]-s.ys[i-1])
}

// RandX samples an x value with probability density proportional to the
// spline's y curve.  A constant-zero curve carries no information, so the
// sample falls back to uniform over the domain.
func (s *Spline) RandX(rng Rng) float64 {
	if rng == nil {
		rng = Rand
	}
	lo, hi := s.Domain()
	if s.total <= 0 {
		return lo + rng.Float64()*(hi-lo)
	}

	u := rng.Float64() * s.total
	i := sort.SearchFloat64s(s.cum, u)
	if i == 0 {
		return lo
	}
	if i >= len(s.xs) {
		return hi
	}

	// invert the trapezoid on segment [i-1, i]: solve
	//   dx*(y0*t + (y1-y0)*t^2/2) = a  for t in [0,1]
	a := u - s.cum[i-1]
	if a <= 0 {
		return s.xs[i-1]
	}
	dx := s.xs[i] - s.xs[i-1]
	y0, y1 := s.ys[i-1], s.ys[i]
	var t float64
	if dy := y1 - y0; math.Abs(dy) < 1e-12 {
		t = a / (dx * y0)
	} else {
		t = (-y0 + math.Sqrt(y0*y0+2*dy*a/dx)) / dy
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return s.xs[i-1] + t*dx
}
