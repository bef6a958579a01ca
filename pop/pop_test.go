package pop

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rwcarlsen/viewfind"
	"github.com/rwcarlsen/viewfind/scene"
)

func TestNew(t *testing.T) {
	low := []float64{-10, 0, 5}
	up := []float64{10, 1, 6}

	points := New(50, low, up)
	if len(points) != 50 {
		t.Fatalf("got %v points, want 50", len(points))
	}
	for _, p := range points {
		for j := range p {
			if p[j] < low[j] || p[j] > up[j] {
				t.Errorf("point %v outside bounds", p)
				break
			}
		}
	}
}

func TestNewClear(t *testing.T) {
	w := scene.NewBoxWorld()
	box := scene.NewBox(r3.Vec{}, 20, 20, 20)
	d := viewfind.NewLookAt(w, box, box, [2]float64{0, 0}, [2]float64{60, 60})
	d.MinClearance = 1

	// empty scene: everything is feasible
	points, nbad, _ := NewClear(20, 1000, d)
	if len(points) != 20 || nbad != 0 {
		t.Fatalf("clear domain: %v points, %v bad, want 20 and 0", len(points), nbad)
	}
	for _, p := range points {
		if !d.InDomain(p, true) {
			t.Errorf("point %v fails the clearance it was generated under", p)
		}
	}

	// a slab filling most of the domain forces queued rejects into play
	w.Add("slab", scene.NewBox(r3.Vec{}, 22, 22, 19), 0)
	points, nbad, _ = NewClear(20, 200, d)
	if len(points) != 20 {
		t.Fatalf("tight domain returned %v points, want 20", len(points))
	}
	t.Logf("[INFO] tight domain filled with %v near-feasible rejects", nbad)
}
