package viewfind

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rwcarlsen/viewfind/prop"
	"github.com/rwcarlsen/viewfind/sat"
	"github.com/rwcarlsen/viewfind/scene"
	"github.com/rwcarlsen/viewfind/target"
)

// cubeProblem builds a 2 m cube with a size preference and a vertical
// orientation preference over the standard [-10,10]^3 domain.
func cubeProblem(sizeCurve *sat.Spline) *Evaluator {
	w := scene.NewBoxWorld()
	w.Add("cube", scene.NewBox(r3.Vec{}, 2, 2, 2), 0)

	t := target.New(w, target.Config{ID: "cube", Occluders: []string{"cube"}, Method: target.VisUniform})

	size := prop.NewSize("size", sizeCurve, target.SizeArea, t)
	orient := prop.NewOrientation("level",
		sat.MustNew([]float64{0, 90, 180}, []float64{0, 1, 0}),
		prop.OrientVerticalWorld, t)

	obj := prop.NewAggregate("objective", []*prop.Property{orient, size}, []float64{1, 1})

	box := scene.NewBox(r3.Vec{}, 20, 20, 20)
	dom := NewLookAt(w, box, box, [2]float64{0, 0}, [2]float64{60, 60})
	return NewEvaluator(w, dom, []*prop.Property{obj, orient, size}, []*target.Target{t})
}

func sizeOnlyCurve() *sat.Spline {
	return sat.MustNew(
		[]float64{0, 0.002, 0.1, 0.4, 0.5, 1.0},
		[]float64{0, 0.1, 0.8, 1.0, 0.1, 0})
}

// A camera five meters out looking at the cube satisfies the literal size
// preference from the reference scenario.
func TestEvaluateKnownCamera(t *testing.T) {
	w := scene.NewBoxWorld()
	w.Add("cube", scene.NewBox(r3.Vec{}, 2, 2, 2), 0)
	tgt := target.New(w, target.Config{ID: "cube", Occluders: []string{"cube"}, Method: target.VisUniform})

	size := prop.NewSize("size", sizeOnlyCurve(), target.SizeArea, tgt)
	obj := prop.NewAggregate("objective", []*prop.Property{size}, []float64{1})

	box := scene.NewBox(r3.Vec{}, 20, 20, 20)
	dom := NewLookAt(w, box, box, [2]float64{0, 0}, [2]float64{60, 60})
	ev := NewEvaluator(w, dom, []*prop.Property{obj, size}, []*target.Target{tgt})

	ev.Update([]float64{0, 0, -5, 0, 0, 0, 0, 60})
	val := ev.Evaluate(math.Inf(-1))
	if val < 0.7 || val > 1.0 {
		t.Errorf("satisfaction %v, want within [0.7, 1.0]", val)
	}
}

func TestDomainContainment(t *testing.T) {
	ev := cubeProblem(sizeOnlyCurve())
	p := make([]float64, ev.Dim())
	for i := 0; i < 1000; i++ {
		ev.RandViewpoint(p)
		if !ev.InDomain(p) {
			t.Fatalf("random viewpoint %v not in domain", p)
		}
	}
}

func TestSmartViewpoint(t *testing.T) {
	ev := cubeProblem(sizeOnlyCurve())
	p := make([]float64, ev.Dim())

	nsmart := 0
	distSum := 0.0
	for i := 0; i < 300; i++ {
		ok := ev.SmartViewpoint(p, 0)
		if !ev.InDomain(p) {
			t.Fatalf("smart viewpoint %v not in domain", p)
		}
		if ok {
			nsmart++
			distSum += math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
		}
	}
	if nsmart == 0 {
		t.Fatalf("no smart samples landed in the domain")
	}

	// the size curve peaks at 0.4 viewport area: smart distances should
	// cluster a few meters out, far from the 17 m reach of the domain corners
	mean := distSum / float64(nsmart)
	if mean < 1 || mean > 9 {
		t.Errorf("mean smart distance %v, want a few meters out", mean)
	}
	t.Logf("[INFO] %v/300 smart, mean distance %v", nsmart, mean)
}

func TestSmartViewpointOrbitFallsBack(t *testing.T) {
	w := scene.NewBoxWorld()
	w.Add("cube", scene.NewBox(r3.Vec{}, 2, 2, 2), 0)
	tgt := target.New(w, target.Config{ID: "cube", Occluders: []string{"cube"}})
	size := prop.NewSize("size", sizeOnlyCurve(), target.SizeArea, tgt)
	obj := prop.NewAggregate("objective", []*prop.Property{size}, []float64{1})

	dom := NewOrbit(w, r3.Vec{}, [2]float64{2, 10}, [2]float64{-180, 180}, [2]float64{10, 170}, [2]float64{0, 0}, [2]float64{60, 60})
	ev := NewEvaluator(w, dom, []*prop.Property{obj, size}, []*target.Target{tgt})

	p := make([]float64, ev.Dim())
	if ok := ev.SmartViewpoint(p, 0); ok {
		t.Errorf("orbit domain should not support smart sampling")
	}
	if !ev.InDomain(p) {
		t.Errorf("fallback sample %v not in domain", p)
	}
}

func TestSmartGiveUpCounter(t *testing.T) {
	w := scene.NewBoxWorld()
	w.Add("cube", scene.NewBox(r3.Vec{}, 2, 2, 2), 0)
	tgt := target.New(w, target.Config{ID: "cube", Occluders: []string{"cube"}, Method: target.VisUniform})
	size := prop.NewSize("size", sizeOnlyCurve(), target.SizeArea, tgt)
	obj := prop.NewAggregate("objective", []*prop.Property{size}, []float64{1})

	// a sliver of position space nowhere near the preferred distances, so
	// every smart sample misses
	sliver := scene.Box{Min: r3.Vec{X: 9.9, Y: 9.9, Z: 9.9}, Max: r3.Vec{X: 10, Y: 10, Z: 10}}
	dom := NewLookAt(w, sliver, scene.NewBox(r3.Vec{}, 20, 20, 20), [2]float64{0, 0}, [2]float64{60, 60})
	ev := NewEvaluator(w, dom, []*prop.Property{obj, size}, []*target.Target{tgt})

	p := make([]float64, ev.Dim())
	ev.SmartViewpoint(p, 0)
	if ev.SmartGiveUps == 0 {
		t.Errorf("expected a smart-sample give-up in an infeasible domain")
	}
	if !ev.InDomain(p) {
		t.Errorf("give-up fallback %v not in domain", p)
	}
}

func TestSnapshot(t *testing.T) {
	ev := cubeProblem(sizeOnlyCurve())
	params := []float64{0, 0, -5, 0, 0, 0, 0, 60}
	ev.Update(params)
	val := ev.Evaluate(math.Inf(-1))

	vp := ev.Snapshot(params)
	if !vp.Valid() {
		t.Fatalf("snapshot of a valid evaluation reports invalid")
	}
	if vp.Sats[0] != val {
		t.Errorf("snapshot objective %v, want %v", vp.Sats[0], val)
	}
	if len(vp.Sats) != ev.NumProps() || len(vp.InScreen) != ev.NumProps() {
		t.Errorf("snapshot records %v/%v entries, want %v", len(vp.Sats), len(vp.InScreen), ev.NumProps())
	}
	vp.Params[0] = 99
	if params[0] == 99 {
		t.Errorf("snapshot aliases the input params")
	}
}

func TestNoSolutionSentinel(t *testing.T) {
	vp := NoSolution(3)
	if vp.Valid() {
		t.Errorf("sentinel reports valid")
	}
	want := []float64{0, 0, 0, 1, 0, 0, 0, 60}
	for i, v := range want {
		if vp.Params[i] != v {
			t.Errorf("sentinel params %v, want %v", vp.Params, want)
			break
		}
	}
	for i, s := range vp.Sats {
		if s != Pruned {
			t.Errorf("sentinel sat %v = %v, want %v", i, s, Pruned)
		}
	}
}

func TestOrientationScoring(t *testing.T) {
	ev := cubeProblem(sat.MustNew([]float64{0, 1}, []float64{1, 1}))

	// same height as the target: vertical-world angle is 90, satisfaction 1
	ev.Update([]float64{0, 0, -6, 0, 0, 0, 0, 60})
	ev.Evaluate(math.Inf(-1))
	if s := ev.State.Props[1].Satisfaction; math.Abs(s-1) > 1e-9 {
		t.Errorf("level camera orientation satisfaction %v, want 1", s)
	}

	// directly above: angle 0, satisfaction 0
	ev.Update([]float64{0, 8, 0, 0, 0, 0, 0, 60})
	ev.Evaluate(math.Inf(-1))
	if s := ev.State.Props[1].Satisfaction; math.Abs(s) > 1e-9 {
		t.Errorf("overhead camera orientation satisfaction %v, want 0", s)
	}
}
