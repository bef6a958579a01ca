// Package scene defines the geometry types and the oracle interface through
// which the viewpoint core talks to a host 3D engine.  The package also
// ships BoxWorld, a self-contained oracle over axis-aligned boxes used by
// tests and demos.
package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// LayerMask selects scene layers for raycast and overlap queries.  Bit i set
// means layer i participates.
type LayerMask uint32

const AllLayers LayerMask = ^LayerMask(0)

// IgnoreLayer is the layer targets park their own colliders on while casting
// occlusion rays, so a target never occludes itself.
const IgnoreLayer = 31

// Contains reports whether layer is selected by the mask.
func (m LayerMask) Contains(layer int) bool { return m&(1<<uint(layer)) != 0 }

// Without returns the mask with the given layer cleared.
func (m LayerMask) Without(layer int) LayerMask { return m &^ (1 << uint(layer)) }

// Box is an axis-aligned box in world space.
type Box struct {
	Min, Max r3.Vec
}

// NewBox returns the box centered at c with full side lengths sx, sy, sz.
func NewBox(c r3.Vec, sx, sy, sz float64) Box {
	h := r3.Vec{X: sx / 2, Y: sy / 2, Z: sz / 2}
	return Box{Min: r3.Sub(c, h), Max: r3.Add(c, h)}
}

func (b Box) Center() r3.Vec { return r3.Scale(0.5, r3.Add(b.Min, b.Max)) }

func (b Box) Size() r3.Vec { return r3.Sub(b.Max, b.Min) }

// Radius is the half-diagonal of the box, i.e. the radius of its bounding
// sphere.
func (b Box) Radius() float64 { return r3.Norm(b.Size()) / 2 }

// Corner returns corner i of the box.  Bits 1, 2, and 4 of i select the max
// face along x, y, and z.
func (b Box) Corner(i int) r3.Vec {
	v := b.Min
	if i&1 != 0 {
		v.X = b.Max.X
	}
	if i&2 != 0 {
		v.Y = b.Max.Y
	}
	if i&4 != 0 {
		v.Z = b.Max.Z
	}
	return v
}

func (b Box) Contains(p r3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Extend grows b to cover o.
func (b Box) Extend(o Box) Box {
	return Box{
		Min: r3.Vec{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y), Z: math.Min(b.Min.Z, o.Min.Z)},
		Max: r3.Vec{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y), Z: math.Max(b.Max.Z, o.Max.Z)},
	}
}

// RandPoint returns a uniform random point inside the box.
func (b Box) RandPoint(rng interface{ Float64() float64 }) r3.Vec {
	s := b.Size()
	return r3.Vec{
		X: b.Min.X + rng.Float64()*s.X,
		Y: b.Min.Y + rng.Float64()*s.Y,
		Z: b.Min.Z + rng.Float64()*s.Z,
	}
}

// SqDist returns the squared distance from p to the box, zero when p is
// inside.
func (b Box) SqDist(p r3.Vec) float64 {
	d := 0.0
	for _, ax := range [3][3]float64{
		{p.X, b.Min.X, b.Max.X},
		{p.Y, b.Min.Y, b.Max.Y},
		{p.Z, b.Min.Z, b.Max.Z},
	} {
		if ax[0] < ax[1] {
			d += (ax[1] - ax[0]) * (ax[1] - ax[0])
		} else if ax[0] > ax[2] {
			d += (ax[0] - ax[2]) * (ax[0] - ax[2])
		}
	}
	return d
}

// Rect is an axis-aligned rectangle in viewport coordinates, with x and y
// normally in [0,1].
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Viewport is the full-screen rectangle.
var Viewport = Rect{0, 0, 1, 1}

func (r Rect) Width() float64  { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Frame is a target's local coordinate frame as reported by the oracle.
type Frame struct {
	Right, Up, Forward, WorldUp r3.Vec
}

// AxisFrame is the identity frame used by oracles with no per-object
// orientation.
var AxisFrame = Frame{
	Right:   r3.Vec{X: 1},
	Up:      r3.Vec{Y: 1},
	Forward: r3.Vec{Z: 1},
	WorldUp: r3.Vec{Y: 1},
}

// Hit identifies the object struck by a linecast.
type Hit struct {
	Object string
}

// Oracle is the scene service consumed by the core.  Implementations wrap a
// host engine; all calls are assumed infallible - an oracle that can fail
// must degrade to "no geometry" answers (zero boxes, no hits) so the
// affected properties read as zero satisfaction.
type Oracle interface {
	// WorldAABB returns the world-space bounds of a renderable or collider.
	WorldAABB(id string) Box
	// Linecast reports the first object on segment a-b whose layer is
	// selected by mask.
	Linecast(a, b r3.Vec, mask LayerMask) (Hit, bool)
	// SphereOverlap reports whether any masked geometry intersects the
	// sphere.
	SphereOverlap(center r3.Vec, radius float64, mask LayerMask) bool
	// ObjectLayer and SetObjectLayer read and move an object's layer.
	ObjectLayer(id string) int
	SetObjectLayer(id string, layer int)
	// LocalAxes returns the object's local frame.
	LocalAxes(id string) Frame
	// TransformPoint maps a point from the object's local frame to world
	// space.
	TransformPoint(id string, local r3.Vec) r3.Vec
}
