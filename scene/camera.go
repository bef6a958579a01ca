package scene

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is a pinhole camera with a normalized [0,1]x[0,1] viewport.  Pose
// changes go through LookAt or Orbit so the cached world-to-view basis stays
// consistent; Project reuses preallocated vectors and does not allocate.
type Camera struct {
	Pos r3.Vec
	// FOV is the vertical field of view in degrees.
	FOV float64
	// Aspect is the viewport width/height ratio.
	Aspect float64
	// Clip is the rectangle candidate polygons are clipped against.
	// Defaults to the full viewport.
	Clip Rect

	// basis rows are the camera right, up, and forward axes.
	basis *mat.Dense
	in    *mat.VecDense
	out   *mat.VecDense
}

// NewCamera returns a camera at the origin looking down +z with a 60 degree
// vertical FOV and a square viewport.
func NewCamera() *Camera {
	c := &Camera{
		FOV:    60,
		Aspect: 1,
		Clip:   Viewport,
		basis:  mat.NewDense(3, 3, nil),
		in:     mat.NewVecDense(3, nil),
		out:    mat.NewVecDense(3, nil),
	}
	c.LookAt(r3.Vec{Z: 1}, 0)
	return c
}

// Right, Up, and Forward return the camera's world-space axes.
func (c *Camera) Right() r3.Vec   { return r3.Vec{X: c.basis.At(0, 0), Y: c.basis.At(0, 1), Z: c.basis.At(0, 2)} }
func (c *Camera) Up() r3.Vec      { return r3.Vec{X: c.basis.At(1, 0), Y: c.basis.At(1, 1), Z: c.basis.At(1, 2)} }
func (c *Camera) Forward() r3.Vec { return r3.Vec{X: c.basis.At(2, 0), Y: c.basis.At(2, 1), Z: c.basis.At(2, 2)} }

// LookAt orients the camera from its current position toward the given world
// point, then rolls it about the view axis by roll degrees.  A look point
// coincident with the position or collinear with world up falls back to a
// stable default axis.
func (c *Camera) LookAt(at r3.Vec, roll float64) {
	fwd := r3.Sub(at, c.Pos)
	if r3.Norm(fwd) < 1e-12 {
		fwd = r3.Vec{Z: 1}
	}
	fwd = r3.Unit(fwd)

	worldUp := r3.Vec{Y: 1}
	right := r3.Cross(worldUp, fwd)
	if r3.Norm(right) < 1e-9 {
		right = r3.Vec{X: 1}
	}
	right = r3.Unit(right)
	up := r3.Cross(fwd, right)

	if roll != 0 {
		rot := r3.NewRotation(roll*math.Pi/180, fwd)
		right = rot.Rotate(right)
		up = rot.Rotate(up)
	}

	c.basis.SetRow(0, []float64{right.X, right.Y, right.Z})
	c.basis.SetRow(1, []float64{up.X, up.Y, up.Z})
	c.basis.SetRow(2, []float64{fwd.X, fwd.Y, fwd.Z})
}

// Orbit places the camera on a sphere about pivot and points it at the
// pivot.  theta is the azimuth and phi the polar angle, both in degrees;
// phi = 0 is straight above the pivot.
func (c *Camera) Orbit(pivot r3.Vec, dist, theta, phi, roll float64) {
	th := theta * math.Pi / 180
	ph := phi * math.Pi / 180
	c.Pos = r3.Add(pivot, r3.Vec{
		X: dist * math.Sin(ph) * math.Cos(th),
		Y: dist * math.Cos(ph),
		Z: dist * math.Sin(ph) * math.Sin(th),
	})
	c.LookAt(pivot, roll)
}

// Project maps a world point to viewport coordinates.  X and y are in [0,1]
// when the point is on screen; z is the view-space depth and is negative
// when the point is behind the camera.
func (c *Camera) Project(p r3.Vec) r3.Vec {
	c.in.SetVec(0, p.X-c.Pos.X)
	c.in.SetVec(1, p.Y-c.Pos.Y)
	c.in.SetVec(2, p.Z-c.Pos.Z)
	c.out.MulVec(c.basis, c.in)

	z := c.out.AtVec(2)
	d := z
	if math.Abs(d) < 1e-12 {
		d = math.Copysign(1e-12, d)
	}
	tanHalf := math.Tan(c.FOV * math.Pi / 360)
	x := c.out.AtVec(0) / (d * tanHalf * c.Aspect)
	y := c.out.AtVec(1) / (d * tanHalf)
	return r3.Vec{X: 0.5 + 0.5*x, Y: 0.5 + 0.5*y, Z: z}
}

// AngleBetween returns the angle between two vectors in degrees, in
// [0,180].
func AngleBetween(a, b r3.Vec) float64 {
	na, nb := r3.Norm(a), r3.Norm(b)
	if na < 1e-12 || nb < 1e-12 {
		return 0
	}
	cos := r3.Dot(a, b) / (na * nb)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi
}
