package sat

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/stat"
)

func TestNewValidation(t *testing.T) {
	var tests = []struct {
		xs, ys []float64
		ok     bool
	}{
		{[]float64{0, 1}, []float64{0, 1}, true},
		{[]float64{0, 0.5, 1}, []float64{1, 0, 1}, true},
		{[]float64{0}, []float64{1}, false},
		{[]float64{0, 1}, []float64{0}, false},
		{[]float64{0, 0}, []float64{0, 1}, false},
		{[]float64{1, 0}, []float64{0, 1}, false},
		{[]float64{0, 1}, []float64{0, 1.5}, false},
		{[]float64{0, 1}, []float64{-0.1, 1}, false},
	}

	for i, test := range tests {
		_, err := New(test.xs, test.ys)
		if (err == nil) != test.ok {
			t.Errorf("test %v (%v -> %v): want ok=%v, got err=%v", i, test.xs, test.ys, test.ok, err)
		}
	}
}

func TestEval(t *testing.T) {
	s := MustNew([]float64{0, 90, 180}, []float64{0, 1, 0})

	var tests = []struct {
		x, want float64
	}{
		{0, 0},
		{45, 0.5},
		{90, 1},
		{135, 0.5},
		{180, 0},
		{-10, 0},  // snaps to left endpoint
		{300, 0},  // snaps to right endpoint
		{22.5, 0.25},
	}

	for _, test := range tests {
		if got := s.Eval(test.x); math.Abs(got-test.want) > 1e-12 {
			t.Errorf("Eval(%v): want %v, got %v", test.x, test.want, got)
		}
	}
}

func TestEvalRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := MustNew([]float64{0, 0.002, 0.1, 0.4, 0.5, 1.0}, []float64{0, 0.1, 0.8, 1.0, 0.1, 0})
	for i := 0; i < 10000; i++ {
		x := -1 + rng.Float64()*3
		if y := s.Eval(x); y < 0 || y > 1 {
			t.Fatalf("Eval(%v) = %v outside [0,1]", x, y)
		}
	}
}

// TestRandX checks that the sampled x histogram matches the spline's y
// curve as a density, via a chi-squared statistic over coarse bins.
func TestRandX(t *testing.T) {
	const nsamples = 100000
	const nbins = 10

	rng := rand.New(rand.NewSource(7))
	s := MustNew([]float64{0, 0.5, 1}, []float64{0, 1, 0})

	obs := make([]float64, nbins)
	for i := 0; i < nsamples; i++ {
		x := s.RandX(rng)
		if x < 0 || x > 1 {
			t.Fatalf("RandX returned %v outside the domain", x)
		}
		bin := int(x * nbins)
		if bin == nbins {
			bin--
		}
		obs[bin]++
	}

	// expected mass per bin = integral of the density over the bin
	exp := make([]float64, nbins)
	for i := range exp {
		lo := float64(i) / nbins
		hi := float64(i+1) / nbins
		// triangle pdf area between lo and hi, normalized total = 0.5
		exp[i] = (triArea(hi) - triArea(lo)) / 0.5 * nsamples
	}

	chi2 := stat.ChiSquare(obs, exp)
	// 9 dof; 27.9 is the 0.1% critical value
	if chi2 > 27.9 {
		t.Errorf("sampled distribution does not match curve: chi2 = %v, obs %v", chi2, obs)
	}
}

// triArea is the cumulative area under the triangle curve y = 2x for
// x <= 0.5, y = 2(1-x) beyond; total area is 0.5.
func triArea(x float64) float64 {
	if x <= 0.5 {
		return x * x
	}
	return 2*x - x*x - 0.5
}

func TestRandXZeroCurve(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	s := MustNew([]float64{2, 4}, []float64{0, 0})

	sum := 0.0
	for i := 0; i < 10000; i++ {
		x := s.RandX(rng)
		if x < 2 || x > 4 {
			t.Fatalf("RandX returned %v outside [2,4]", x)
		}
		sum += x
	}
	// uniform fallback: mean should be near the domain midpoint
	if mean := sum / 10000; math.Abs(mean-3) > 0.05 {
		t.Errorf("zero-curve sampling not uniform: mean %v, want ~3", mean)
	}
}
