package viewfind

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rwcarlsen/viewfind/scene"
)

func testDomain() (*scene.BoxWorld, *LookAtDomain) {
	w := scene.NewBoxWorld()
	box := scene.NewBox(r3.Vec{}, 20, 20, 20)
	return w, NewLookAt(w, box, box, [2]float64{-45, 45}, [2]float64{30, 90})
}

func TestLookAtInDomain(t *testing.T) {
	_, d := testDomain()

	var tests = []struct {
		p    []float64
		want bool
	}{
		{[]float64{0, 0, 0, 0, 0, 0, 0, 60}, true},
		{[]float64{-10, 10, -10, 10, -10, 10, -45, 30}, true}, // corner inclusive
		{[]float64{11, 0, 0, 0, 0, 0, 0, 60}, false},          // position out
		{[]float64{0, 0, 0, 0, -11, 0, 0, 60}, false},         // look-at out
		{[]float64{0, 0, 0, 0, 0, 0, 50, 60}, false},          // roll out
		{[]float64{0, 0, 0, 0, 0, 0, 0, 95}, false},           // fov out
	}
	for i, test := range tests {
		if got := d.InDomain(test.p, false); got != test.want {
			t.Errorf("test %v %v: want %v, got %v", i, test.p, test.want, got)
		}
	}
}

func TestLookAtClamp(t *testing.T) {
	_, d := testDomain()
	p := []float64{15, -20, 3, 0, 0, 0, 90, 10}
	d.Clamp(p)
	if !d.InDomain(p, false) {
		t.Errorf("clamped params %v still out of domain", p)
	}
	if p[2] != 3 {
		t.Errorf("in-bounds dimension moved by clamp: %v", p[2])
	}
}

func TestClearance(t *testing.T) {
	w, d := testDomain()
	w.Add("pillar", scene.NewBox(r3.Vec{}, 2, 2, 2), 0)
	d.MinClearance = 1

	inside := []float64{0, 0, 0, 1, 0, 0, 0, 60}
	clear := []float64{8, 8, 8, 0, 0, 0, 0, 60}

	if d.InDomain(inside, true) {
		t.Errorf("position inside the pillar accepted with clearance on")
	}
	if !d.InDomain(inside, false) {
		t.Errorf("clearance applied with geometry checking off")
	}
	if !d.InDomain(clear, true) {
		t.Errorf("clear position rejected")
	}

	if v := d.Violation(clear); v != 0 {
		t.Errorf("feasible point violation %v, want 0", v)
	}
	deep := d.Violation(inside)
	shallow := d.Violation([]float64{1.8, 0, 0, 0, 0, 0, 0, 60})
	if deep <= shallow {
		t.Errorf("violation grading inverted: deep %v <= shallow %v", deep, shallow)
	}
}

func TestViolationBounds(t *testing.T) {
	_, d := testDomain()
	in := []float64{0, 0, 0, 0, 0, 0, 0, 60}
	if v := d.Violation(in); v != 0 {
		t.Errorf("interior violation %v, want 0", v)
	}
	out := []float64{12, 0, 0, 0, 0, 0, 0, 60}
	if v := d.Violation(out); math.Abs(v-0.1) > 1e-9 {
		t.Errorf("overshoot violation %v, want 0.1", v)
	}
}

func TestOrbitDomain(t *testing.T) {
	w := scene.NewBoxWorld()
	d := NewOrbit(w, r3.Vec{X: 1}, [2]float64{2, 8}, [2]float64{-180, 180}, [2]float64{10, 170}, [2]float64{0, 0}, [2]float64{40, 80})

	if d.Dim() != 5 {
		t.Fatalf("orbit dim %v, want 5", d.Dim())
	}

	p := make([]float64, 5)
	for i := 0; i < 500; i++ {
		d.RandViewpoint(p)
		if !d.InDomain(p, false) {
			t.Fatalf("random orbit viewpoint %v out of domain", p)
		}
	}

	// phi=90, theta=0 puts the camera on the +x side of the pivot
	pos := d.CameraPos([]float64{4, 0, 90, 0, 60})
	want := r3.Vec{X: 5}
	if r3.Norm(r3.Sub(pos, want)) > 1e-9 {
		t.Errorf("orbit camera position %v, want %v", pos, want)
	}

	cam := scene.NewCamera()
	d.Apply([]float64{4, 0, 90, 0, 55}, cam)
	if cam.FOV != 55 {
		t.Errorf("fov not applied: %v", cam.FOV)
	}
	if r3.Norm(r3.Sub(cam.Pos, want)) > 1e-9 {
		t.Errorf("applied camera position %v, want %v", cam.Pos, want)
	}
}
