package viewfind

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rwcarlsen/viewfind/scene"
)

// Domain is the bounded region of camera-parameter space candidates must
// stay inside.  Implementations bind a parameter vector to a camera pose;
// see LookAtDomain and OrbitDomain.
type Domain interface {
	// Dim is the parameter-vector length.
	Dim() int
	// Bounds returns the per-dimension lower and upper limits.  The
	// returned slices are shared; callers must not modify them.
	Bounds() (low, up []float64)
	// InDomain reports whether params lies inside the domain.  With
	// checkGeometry, positions closer than the minimum clearance to
	// unmasked scene geometry are rejected too.
	InDomain(params []float64, checkGeometry bool) bool
	// RandViewpoint fills out with a uniform sample of the domain box.
	RandViewpoint(out []float64)
	// Apply binds params to the camera pose.
	Apply(params []float64, cam *scene.Camera)
	// Clamp slides each dimension of params to the nearest in-bounds value.
	Clamp(params []float64)
	// CameraPos returns the world camera position encoded in params.
	CameraPos(params []float64) r3.Vec
	// Violation measures how far params is from feasibility: 0 when
	// feasible, growing with bound overshoot and clearance overlap depth.
	// Used to rank near-feasible seeds.
	Violation(params []float64) float64
}

// LookAtDomain parameterizes a camera as
//
//	[px py pz  lx ly lz  roll  fov]
//
// with position and look-at point each bounded by a box, and roll and FOV in
// degrees.  NDim may be shortened to any prefix down to 3; missing look-at
// dimensions keep the camera's current orientation.
type LookAtDomain struct {
	Oracle   scene.Oracle
	PosBox   scene.Box
	LookBox  scene.Box
	Roll     [2]float64
	FOV      [2]float64
	NDim     int
	// MinClearance > 0 requires a geometry-free sphere of that radius
	// around the camera position.
	MinClearance  float64
	ExcludeLayers scene.LayerMask

	low, up []float64
}

// NewLookAt builds the standard 8-dimensional look-at domain.
func NewLookAt(oracle scene.Oracle, pos, look scene.Box, roll, fov [2]float64) *LookAtDomain {
	d := &LookAtDomain{
		Oracle: oracle, PosBox: pos, LookBox: look,
		Roll: roll, FOV: fov, NDim: 8,
	}
	d.rebuildBounds()
	return d
}

func (d *LookAtDomain) rebuildBounds() {
	d.low = []float64{
		d.PosBox.Min.X, d.PosBox.Min.Y, d.PosBox.Min.Z,
		d.LookBox.Min.X, d.LookBox.Min.Y, d.LookBox.Min.Z,
		d.Roll[0], d.FOV[0],
	}[:d.NDim]
	d.up = []float64{
		d.PosBox.Max.X, d.PosBox.Max.Y, d.PosBox.Max.Z,
		d.LookBox.Max.X, d.LookBox.Max.Y, d.LookBox.Max.Z,
		d.Roll[1], d.FOV[1],
	}[:d.NDim]
}

func (d *LookAtDomain) Dim() int { return d.NDim }

func (d *LookAtDomain) Bounds() (low, up []float64) {
	if len(d.low) != d.NDim {
		d.rebuildBounds()
	}
	return d.low, d.up
}

func (d *LookAtDomain) InDomain(p []float64, checkGeometry bool) bool {
	low, up := d.Bounds()
	for i := range low {
		if p[i] < low[i] || p[i] > up[i] {
			return false
		}
	}
	if checkGeometry && d.MinClearance > 0 {
		mask := scene.AllLayers &^ d.ExcludeLayers
		if d.Oracle.SphereOverlap(d.CameraPos(p), d.MinClearance, mask) {
			return false
		}
	}
	return true
}

func (d *LookAtDomain) RandViewpoint(out []float64) {
	low, up := d.Bounds()
	for i := range low {
		out[i] = low[i] + Rand.Float64()*(up[i]-low[i])
	}
}

func (d *LookAtDomain) Clamp(p []float64) {
	low, up := d.Bounds()
	for i := range low {
		p[i] = math.Max(low[i], math.Min(up[i], p[i]))
	}
}

func (d *LookAtDomain) CameraPos(p []float64) r3.Vec {
	return r3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

func (d *LookAtDomain) Apply(p []float64, cam *scene.Camera) {
	cam.Pos = d.CameraPos(p)
	at := r3.Add(cam.Pos, cam.Forward())
	if d.NDim >= 6 {
		at = r3.Vec{X: p[3], Y: p[4], Z: p[5]}
	}
	roll := 0.0
	if d.NDim >= 7 {
		roll = p[6]
	}
	if d.NDim >= 8 {
		cam.FOV = p[7]
	}
	cam.LookAt(at, roll)
}

func (d *LookAtDomain) Violation(p []float64) float64 {
	v := boundsViolation(p, d.low, d.up)
	if v > 0 || d.MinClearance <= 0 {
		return v
	}
	return clearanceViolation(d.Oracle, d.CameraPos(p), d.MinClearance, scene.AllLayers&^d.ExcludeLayers)
}

// OrbitDomain parameterizes a camera as
//
//	[distance  theta  phi  roll  fov]
//
// in spherical coordinates about a fixed pivot, with angles in degrees.
type OrbitDomain struct {
	Oracle        scene.Oracle
	Pivot         r3.Vec
	Distance      [2]float64
	Theta         [2]float64
	Phi           [2]float64
	Roll          [2]float64
	FOV           [2]float64
	MinClearance  float64
	ExcludeLayers scene.LayerMask

	low, up []float64
}

func NewOrbit(oracle scene.Oracle, pivot r3.Vec, dist, theta, phi, roll, fov [2]float64) *OrbitDomain {
	d := &OrbitDomain{
		Oracle: oracle, Pivot: pivot,
		Distance: dist, Theta: theta, Phi: phi, Roll: roll, FOV: fov,
	}
	d.low = []float64{dist[0], theta[0], phi[0], roll[0], fov[0]}
	d.up = []float64{dist[1], theta[1], phi[1], roll[1], fov[1]}
	return d
}

func (d *OrbitDomain) Dim() int { return 5 }

func (d *OrbitDomain) Bounds() (low, up []float64) { return d.low, d.up }

func (d *OrbitDomain) InDomain(p []float64, checkGeometry bool) bool {
	for i := range d.low {
		if p[i] < d.low[i] || p[i] > d.up[i] {
			return false
		}
	}
	if checkGeometry && d.MinClearance > 0 {
		mask := scene.AllLayers &^ d.ExcludeLayers
		if d.Oracle.SphereOverlap(d.CameraPos(p), d.MinClearance, mask) {
			return false
		}
	}
	return true
}

func (d *OrbitDomain) RandViewpoint(out []float64) {
	for i := range d.low {
		out[i] = d.low[i] + Rand.Float64()*(d.up[i]-d.low[i])
	}
}

func (d *OrbitDomain) Clamp(p []float64) {
	for i := range d.low {
		p[i] = math.Max(d.low[i], math.Min(d.up[i], p[i]))
	}
}

func (d *OrbitDomain) CameraPos(p []float64) r3.Vec {
	th := p[1] * math.Pi / 180
	ph := p[2] * math.Pi / 180
	return r3.Add(d.Pivot, r3.Vec{
		X: p[0] * math.Sin(ph) * math.Cos(th),
		Y: p[0] * math.Cos(ph),
		Z: p[0] * math.Sin(ph) * math.Sin(th),
	})
}

func (d *OrbitDomain) Apply(p []float64, cam *scene.Camera) {
	cam.FOV = p[4]
	cam.Orbit(d.Pivot, p[0], p[1], p[2], p[3])
}

func (d *OrbitDomain) Violation(p []float64) float64 {
	v := boundsViolation(p, d.low, d.up)
	if v > 0 || d.MinClearance <= 0 {
		return v
	}
	return clearanceViolation(d.Oracle, d.CameraPos(p), d.MinClearance, scene.AllLayers&^d.ExcludeLayers)
}

// boundsViolation sums per-dimension overshoot normalized by the dimension
// range.
func boundsViolation(p, low, up []float64) float64 {
	v := 0.0
	for i := range low {
		rng := up[i] - low[i]
		if rng <= 0 {
			rng = 1
		}
		if p[i] < low[i] {
			v += (low[i] - p[i]) / rng
		} else if p[i] > up[i] {
			v += (p[i] - up[i]) / rng
		}
	}
	return v
}

// clearanceViolation grades how deeply a position sits in geometry by
// shrinking the test sphere: a position that only fails at the full
// clearance radius is nearly feasible, one that fails even for a small
// sphere is deep inside.
func clearanceViolation(oracle scene.Oracle, pos r3.Vec, clearance float64, mask scene.LayerMask) float64 {
	if !oracle.SphereOverlap(pos, clearance, mask) {
		return 0
	}
	v := 1.0
	for _, f := range []float64{0.5, 0.25, 0.125} {
		if !oracle.SphereOverlap(pos, clearance*f, mask) {
			return 1 - f
		}
	}
	return v
}
