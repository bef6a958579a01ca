package viewfind

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rwcarlsen/viewfind/prop"
	"github.com/rwcarlsen/viewfind/scene"
	"github.com/rwcarlsen/viewfind/target"
)

// Evaluator binds parameter vectors to a camera pose and scores them
// against the property tree.  Props[0] must be the aggregate objective; the
// remaining entries are its ground properties in evaluation order.  The
// solver calls Update then Evaluate once per candidate per iteration.
type Evaluator struct {
	Oracle  scene.Oracle
	Dom     Domain
	Cam     *scene.Camera
	Props   []*prop.Property
	Targets []*target.Target
	State   *prop.EvalState
	// CheckGeometry enables the minimum-clearance test in InDomain.
	CheckGeometry bool
	// SmartGiveUps counts smart samples that fell back to uniform after
	// exhausting their retries.
	SmartGiveUps int
}

const smartRetries = 30

// NewEvaluator wires a problem together: property and target indices are
// assigned, target back-references are filled for smart sampling, and the
// shared evaluation scratch is sized.
func NewEvaluator(oracle scene.Oracle, dom Domain, props []*prop.Property, targets []*target.Target) *Evaluator {
	for i, t := range targets {
		t.Index = i
		t.PropRefs = t.PropRefs[:0]
	}
	for i, p := range props {
		p.Index = i
		for _, t := range p.Targets {
			t.PropRefs = append(t.PropRefs, i)
		}
	}

	return &Evaluator{
		Oracle:  oracle,
		Dom:     dom,
		Cam:     scene.NewCamera(),
		Props:   props,
		Targets: targets,
		State:   prop.NewEvalState(len(props), len(targets)),
	}
}

// Dim returns the domain's parameter-vector length.
func (e *Evaluator) Dim() int { return e.Dom.Dim() }

// Domain exposes the problem domain, used by the solver for seeding.
func (e *Evaluator) Domain() Domain { return e.Dom }

// SetCheckGeometry toggles the minimum-clearance test for this problem.
func (e *Evaluator) SetCheckGeometry(on bool) { e.CheckGeometry = on }

// Bounds returns the domain's per-dimension limits.
func (e *Evaluator) Bounds() (low, up []float64) { return e.Dom.Bounds() }

// NumTargets returns the number of targets, used to spread smart seeds.
func (e *Evaluator) NumTargets() int { return len(e.Targets) }

// NumProps returns the number of properties including the aggregate.
func (e *Evaluator) NumProps() int { return len(e.Props) }

// UpdateBounds refreshes every target's bounds and visibility points; call
// it whenever the scene has moved since problem construction.
func (e *Evaluator) UpdateBounds() {
	for _, t := range e.Targets {
		t.UpdateBounds()
	}
}

// Update binds params to the camera pose.
func (e *Evaluator) Update(params []float64) {
	e.Dom.Apply(params, e.Cam)
}

// Evaluate scores the current camera pose.  All per-evaluation flags are
// reset first, so each target is projected at most once no matter how many
// properties share it.  Returns the aggregate satisfaction in [0,1], or
// Pruned when the lazy threshold proves the pose cannot beat it.
func (e *Evaluator) Evaluate(lazy float64) float64 {
	e.State.Reset()
	return e.Props[0].Evaluate(e.Cam, e.State, lazy)
}

// InDomain reports whether params is a legal viewpoint.
func (e *Evaluator) InDomain(params []float64) bool {
	return e.Dom.InDomain(params, e.CheckGeometry)
}

// RandViewpoint fills out with a uniform domain sample.
func (e *Evaluator) RandViewpoint(out []float64) {
	e.Dom.RandViewpoint(out)
}

// SmartViewpoint fills out with a property-aware sample for the given
// target: camera distance drawn from the target's size-preference curve and
// view angles from its orientation curves, both sampled proportionally to
// satisfaction.  ti < 0 picks a target at random.  Only look-at domains
// support smart sampling; for other domains, or when no in-domain sample is
// found within the retry budget, the sample falls back to uniform.  Only the
// exhausted-retry case bumps the give-up counter.
func (e *Evaluator) SmartViewpoint(out []float64, ti int) bool {
	dom, ok := e.Dom.(*LookAtDomain)
	if !ok || len(e.Targets) == 0 {
		e.RandViewpoint(out)
		return false
	}
	if ti < 0 || ti >= len(e.Targets) {
		ti = Rand.Intn(len(e.Targets))
	}
	t := e.Targets[ti]

	sizeProp, vertProp, horizProp, fovProp := e.guideProps(t)
	low, up := dom.Bounds()

	for try := 0; try < smartRetries; try++ {
		fov := e.Cam.FOV
		if dom.NDim >= 8 {
			if fovProp != nil {
				fov = fovProp.Sat.RandX(Rand)
			} else {
				fov = low[7] + Rand.Float64()*(up[7]-low[7])
			}
			fov = math.Max(low[7], math.Min(up[7], fov))
		}

		dist := t.Radius + Rand.Float64()*3*t.Radius
		if sizeProp != nil {
			dist = t.DistanceForSize(sizeProp.Sat.RandX(Rand), sizeProp.Mode, fov, e.Cam.Aspect)
		}

		polar := Rand.Float64() * 180
		if vertProp != nil {
			polar = vertProp.Sat.RandX(Rand)
		}
		azimuth := -180 + Rand.Float64()*360
		if horizProp != nil {
			azimuth = horizProp.Sat.RandX(Rand)
			if Rand.Float64() < 0.5 {
				azimuth = -azimuth
			}
		}

		upAxis := t.Frame.Up
		if vertProp != nil && vertProp.Orient == prop.OrientVerticalWorld {
			upAxis = t.Frame.WorldUp
		}
		sp, cp := math.Sincos(polar * math.Pi / 180)
		sa, ca := math.Sincos(azimuth * math.Pi / 180)
		dir := r3.Add(
			r3.Scale(sp*ca, t.Frame.Forward),
			r3.Add(r3.Scale(sp*sa, t.Frame.Right), r3.Scale(cp, upAxis)),
		)

		pos := r3.Add(t.Center(), r3.Scale(dist, dir))
		out[0], out[1], out[2] = pos.X, pos.Y, pos.Z
		if dom.NDim >= 6 {
			look := t.Center()
			out[3] = math.Max(low[3], math.Min(up[3], look.X))
			out[4] = math.Max(low[4], math.Min(up[4], look.Y))
			out[5] = math.Max(low[5], math.Min(up[5], look.Z))
		}
		if dom.NDim >= 7 {
			out[6] = low[6] + Rand.Float64()*(up[6]-low[6])
		}
		if dom.NDim >= 8 {
			out[7] = fov
		}

		if e.InDomain(out) {
			return true
		}
	}

	e.SmartGiveUps++
	e.RandViewpoint(out)
	return false
}

// guideProps scans the target's back-referenced properties for the curves
// smart sampling draws from.
func (e *Evaluator) guideProps(t *target.Target) (size, vert, horiz, fov *prop.Property) {
	for _, pi := range t.PropRefs {
		p := e.Props[pi]
		switch p.Kind {
		case prop.KindSize:
			if size == nil && len(p.Targets) == 1 {
				size = p
			}
		case prop.KindOrientation:
			if p.Orient == prop.OrientHorizontalLocal {
				if horiz == nil {
					horiz = p
				}
			} else if vert == nil {
				vert = p
			}
		}
	}
	for _, p := range e.Props {
		if p.Kind == prop.KindCameraFOV {
			fov = p
			break
		}
	}
	return size, vert, horiz, fov
}

// Snapshot records the objective and per-property satisfactions left in the
// evaluation state by the most recent Evaluate, together with the params
// that produced them.
func (e *Evaluator) Snapshot(params []float64) Viewpoint {
	vp := Viewpoint{
		Params:   append([]float64{}, params...),
		Sats:     make([]float64, len(e.Props)),
		InScreen: make([]float64, len(e.Props)),
	}
	for i := range e.Props {
		st := e.State.Props[i]
		if st.Evaluated {
			vp.Sats[i] = st.Satisfaction
			vp.InScreen[i] = st.InScreen
		} else {
			vp.Sats[i] = Pruned
			vp.InScreen[i] = Pruned
		}
	}
	return vp
}
