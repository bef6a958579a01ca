// Package prop implements the visual properties a viewpoint is scored
// against.  A Property is one struct with a discriminated Kind rather than
// an interface hierarchy, which keeps the evaluator's inner loop a small
// switch.  The aggregate kind combines children as a weighted sum with lazy
// pruning; see aggregate.go.
package prop

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rwcarlsen/viewfind/sat"
	"github.com/rwcarlsen/viewfind/scene"
	"github.com/rwcarlsen/viewfind/target"
)

// Kind discriminates the property payload.
type Kind int

const (
	KindAggregate Kind = iota
	KindSize
	KindOcclusion
	KindOrientation
	KindFraming
	KindRelativePosition
	KindTargetPosition
	KindCameraOrientation
	KindCameraFOV
)

// OrientMode selects the reference axis for an orientation property.
type OrientMode int

const (
	// OrientHorizontalLocal measures the azimuth of the target-to-camera
	// vector around the target's up axis, relative to its forward axis.
	OrientHorizontalLocal OrientMode = iota
	// OrientVerticalLocal measures the polar angle against the target's up
	// axis.
	OrientVerticalLocal
	// OrientVerticalWorld measures the polar angle against world up.
	OrientVerticalWorld
)

// RelPos names the screen-space relation tested by a relative-position
// property.
type RelPos int

const (
	Left RelPos = iota
	Right
	Above
	Below
)

// Property is a measurable visual criterion.  The common state is shared by
// all kinds; the payload fields below it apply per kind.
type Property struct {
	Name string
	Kind Kind
	// Targets referenced by the property.  Size and RelativePosition accept
	// two; the rest use the first.
	Targets []*target.Target
	// Cost is a relative evaluation-cost hint.  Aggregate children should
	// be ordered cheapest first so lazy pruning skips the expensive ones.
	Cost float64
	// Sat maps the raw measurement to a satisfaction in [0,1].
	Sat *sat.Spline
	// Index is the property's slot in the evaluator's list; assigned at
	// problem construction.
	Index int

	Mode        target.SizeMode
	Orient      OrientMode
	Rel         RelPos
	DoubleSided bool
	RandomRays  bool
	Rect        scene.Rect
	PointX      float64
	PointY      float64
	RefForward  r3.Vec

	Children []*Property
	Weights  []float64
}

// NewSize builds a size property.  With one target the measure is the
// target's on-screen fraction; with two it is target[0]'s measure over
// target[1]'s.
func NewSize(name string, s *sat.Spline, mode target.SizeMode, targets ...*target.Target) *Property {
	return &Property{Name: name, Kind: KindSize, Sat: s, Mode: mode, Targets: targets, Cost: 2}
}

// NewOcclusion builds an occlusion property measuring the blocked fraction
// of the target's visibility points.
func NewOcclusion(name string, s *sat.Spline, doubleSided, randomRays bool, t *target.Target) *Property {
	return &Property{
		Name: name, Kind: KindOcclusion, Sat: s,
		DoubleSided: doubleSided, RandomRays: randomRays,
		Targets: []*target.Target{t}, Cost: 10,
	}
}

// NewOrientation builds an orientation property measuring the angle of the
// target-to-camera vector in degrees.
func NewOrientation(name string, s *sat.Spline, mode OrientMode, t *target.Target) *Property {
	return &Property{Name: name, Kind: KindOrientation, Sat: s, Orient: mode, Targets: []*target.Target{t}, Cost: 1}
}

// NewFraming builds a framing property measuring the fraction of the
// target's silhouette inside rect.
func NewFraming(name string, s *sat.Spline, rect scene.Rect, t *target.Target) *Property {
	return &Property{Name: name, Kind: KindFraming, Sat: s, Rect: rect, Targets: []*target.Target{t}, Cost: 3}
}

// NewRelativePosition builds a property measuring the signed viewport
// separation of t's screen box from other's in the rel direction.
func NewRelativePosition(name string, s *sat.Spline, rel RelPos, t, other *target.Target) *Property {
	return &Property{
		Name: name, Kind: KindRelativePosition, Sat: s,
		Rel: rel, Targets: []*target.Target{t, other}, Cost: 2,
	}
}

// NewTargetPosition builds a property measuring the viewport distance of the
// projected target centroid from (x, y).
func NewTargetPosition(name string, s *sat.Spline, x, y float64, t *target.Target) *Property {
	return &Property{Name: name, Kind: KindTargetPosition, Sat: s, PointX: x, PointY: y, Targets: []*target.Target{t}, Cost: 1}
}

// NewCameraOrientation builds a property measuring the angle between the
// camera forward axis and a reference direction.
func NewCameraOrientation(name string, s *sat.Spline, ref r3.Vec) *Property {
	return &Property{Name: name, Kind: KindCameraOrientation, Sat: s, RefForward: ref, Cost: 0.5}
}

// NewCameraFOV builds a property scored directly on the camera's vertical
// FOV in degrees.
func NewCameraFOV(name string, s *sat.Spline) *Property {
	return &Property{Name: name, Kind: KindCameraFOV, Sat: s, Cost: 0.5}
}

// OrderByCost stably sorts properties cheapest first, the order aggregate
// children should be evaluated in.
func OrderByCost(props []*Property) {
	sort.SliceStable(props, func(i, j int) bool { return props[i].Cost < props[j].Cost })
}

// Evaluate scores the property for the camera, memoizing in st so shared
// targets are projected at most once per evaluation.  For aggregates, lazy
// is the threshold below which evaluation is cut short (see aggregate.go);
// ground properties ignore it.
func (p *Property) Evaluate(cam *scene.Camera, st *EvalState, lazy float64) float64 {
	if p.Kind == KindAggregate {
		return p.evalAggregate(cam, st, lazy)
	}

	ps := &st.Props[p.Index]
	if ps.Evaluated {
		return ps.Satisfaction
	}

	raw, inScreen := p.measure(cam, st)
	ps.Evaluated = true
	ps.Satisfaction = p.Sat.Eval(raw)
	ps.InScreen = inScreen
	return ps.Satisfaction
}

func (p *Property) render(i int, cam *scene.Camera, st *EvalState) *target.RenderState {
	t := p.Targets[i]
	rs := &st.Renders[t.Index]
	if !rs.Rendered {
		t.Render(cam, rs)
	}
	return rs
}

func (p *Property) measure(cam *scene.Camera, st *EvalState) (raw, inScreen float64) {
	switch p.Kind {
	case KindSize:
		rs := p.render(0, cam, st)
		m := sizeMeasure(rs, p.Mode)
		if len(p.Targets) > 1 {
			other := sizeMeasure(p.render(1, cam, st), p.Mode)
			if other < 1e-5 {
				return 0, rs.InScreenRatio
			}
			return m / other, rs.InScreenRatio
		}
		return m, rs.InScreenRatio

	case KindOcclusion:
		return p.Targets[0].Occlusion(cam.Pos, p.DoubleSided, p.RandomRays), 1

	case KindOrientation:
		t := p.Targets[0]
		v := r3.Sub(cam.Pos, t.Center())
		switch p.Orient {
		case OrientVerticalWorld:
			return t.AngleWithAxis(v, target.AxisWorldUp), 1
		case OrientVerticalLocal:
			return t.AngleWithAxis(v, target.AxisUp), 1
		default:
			up := t.Frame.Up
			vh := r3.Sub(v, r3.Scale(r3.Dot(v, up), up))
			if r3.Norm(vh) < 1e-9 {
				return 0, 1
			}
			return t.AngleWithAxis(vh, target.AxisForward), 1
		}

	case KindFraming:
		rs := p.render(0, cam, st)
		return p.Targets[0].FramingRatio(rs, p.Rect), rs.InScreenRatio

	case KindRelativePosition:
		a := p.render(0, cam, st).ScreenBox
		b := p.render(1, cam, st).ScreenBox
		switch p.Rel {
		case Left:
			return b.X0 - a.X1, 1
		case Right:
			return a.X0 - b.X1, 1
		case Above:
			return a.Y0 - b.Y1, 1
		default:
			return b.Y0 - a.Y1, 1
		}

	case KindTargetPosition:
		pp := cam.Project(p.Targets[0].Center())
		if pp.Z < 0 {
			return math.Inf(1), 1
		}
		return math.Hypot(pp.X-p.PointX, pp.Y-p.PointY), 1

	case KindCameraOrientation:
		return scene.AngleBetween(cam.Forward(), p.RefForward), 1

	case KindCameraFOV:
		return cam.FOV, 1
	}
	return 0, 1
}

func sizeMeasure(rs *target.RenderState, mode target.SizeMode) float64 {
	switch mode {
	case target.SizeWidth:
		return rs.ScreenBox.Width()
	case target.SizeHeight:
		return rs.ScreenBox.Height()
	default:
		return rs.Area
	}
}
