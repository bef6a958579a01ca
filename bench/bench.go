// Package bench provides canned viewpoint problems for exercising solvers:
// small box-world scenes with known good regions of the camera domain.
package bench

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rwcarlsen/viewfind"
	"github.com/rwcarlsen/viewfind/prop"
	"github.com/rwcarlsen/viewfind/sat"
	"github.com/rwcarlsen/viewfind/scene"
	"github.com/rwcarlsen/viewfind/swarm"
	"github.com/rwcarlsen/viewfind/target"
)

// Scene is a ready-to-solve viewpoint problem.
type Scene struct {
	Name  string
	World *scene.BoxWorld
	Ev    *viewfind.Evaluator
}

// All returns every canned scene.
func All() []*Scene {
	return []*Scene{SingleCube(), TwoCubes(), OrientedCube()}
}

// domain returns the standard test domain: position and look-at boxes of
// [-10,10]^3, no roll, fixed 60 degree FOV.
func domain(w *scene.BoxWorld) *viewfind.LookAtDomain {
	box := scene.NewBox(r3.Vec{}, 20, 20, 20)
	return viewfind.NewLookAt(w, box, box, [2]float64{0, 0}, [2]float64{60, 60})
}

// SingleCube is a 2 m cube at the origin with a single size preference
// peaking at a quarter of the viewport.  Good viewpoints sit 2.2-6 m out.
func SingleCube() *Scene {
	w := scene.NewBoxWorld()
	w.Add("cube", scene.NewBox(r3.Vec{}, 2, 2, 2), 0)

	t := target.New(w, target.Config{ID: "cube", Occluders: []string{"cube"}, Method: target.VisUniform})
	size := prop.NewSize("cube size",
		sat.MustNew([]float64{0, 0.05, 0.25, 0.5, 1}, []float64{0, 0.3, 1, 0.2, 0}),
		target.SizeArea, t)
	obj := prop.NewAggregate("objective", []*prop.Property{size}, []float64{1})

	ev := viewfind.NewEvaluator(w, domain(w),
		[]*prop.Property{obj, size}, []*target.Target{t})
	return &Scene{Name: "SingleCube", World: w, Ev: ev}
}

// TwoCubes places a second cube 3 m behind the first along +z.  The rear
// cube wants a tenth of the screen and no occlusion, which forces the
// camera off the +z axis.
func TwoCubes() *Scene {
	w := scene.NewBoxWorld()
	w.Add("front", scene.NewBox(r3.Vec{}, 1, 1, 1), 0)
	w.Add("rear", scene.NewBox(r3.Vec{Z: 3}, 1, 1, 1), 0)

	front := target.New(w, target.Config{ID: "front", Occluders: []string{"front"}, Method: target.VisUniform})
	rear := target.New(w, target.Config{ID: "rear", Occluders: []string{"rear"}, Method: target.VisUniform})

	sizeCurve := sat.MustNew([]float64{0, 0.01, 0.1, 0.3, 1}, []float64{0, 0.2, 1, 0.2, 0})
	clearCurve := sat.MustNew([]float64{0, 1}, []float64{1, 0})

	sizeFront := prop.NewSize("front size", sizeCurve, target.SizeArea, front)
	sizeRear := prop.NewSize("rear size", sizeCurve, target.SizeArea, rear)
	occFront := prop.NewOcclusion("front unoccluded", clearCurve, false, false, front)
	occRear := prop.NewOcclusion("rear unoccluded", clearCurve, false, false, rear)

	children := []*prop.Property{sizeFront, sizeRear, occFront, occRear}
	obj := prop.NewAggregate("objective", children, []float64{1, 1, 1, 1})

	ev := viewfind.NewEvaluator(w, domain(w),
		append([]*prop.Property{obj}, children...),
		[]*target.Target{front, rear})
	return &Scene{Name: "TwoCubes", World: w, Ev: ev}
}

// OrientedCube is a single cube scored only on the world-vertical view
// angle: level views satisfy, overhead views do not.
func OrientedCube() *Scene {
	w := scene.NewBoxWorld()
	w.Add("cube", scene.NewBox(r3.Vec{}, 2, 2, 2), 0)

	t := target.New(w, target.Config{ID: "cube", Occluders: []string{"cube"}, Method: target.VisUniform})
	orient := prop.NewOrientation("level view",
		sat.MustNew([]float64{0, 90, 180}, []float64{0, 1, 0}),
		prop.OrientVerticalWorld, t)
	obj := prop.NewAggregate("objective", []*prop.Property{orient}, []float64{1})

	ev := viewfind.NewEvaluator(w, domain(w),
		[]*prop.Property{obj, orient}, []*target.Target{t})
	return &Scene{Name: "OrientedCube", World: w, Ev: ev}
}

// Benchmark runs the solver against the scene and reports whether the best
// satisfaction reached thresh.
func Benchmark(s *swarm.Solver, sc *Scene, limit time.Duration, thresh float64) (best viewfind.Viewpoint, ok bool) {
	best = s.Solve(sc.Ev, limit, thresh, nil, false, true)
	return best, best.Valid() && best.Sats[0] >= thresh
}
