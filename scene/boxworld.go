package scene

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// BoxWorld is an Oracle over axis-aligned box objects held in memory.  It
// exists so the core can be exercised without a host engine; tests and the
// demo binary build their scenes out of it.
type BoxWorld struct {
	objects map[string]*boxObject
	ids     []string
}

type boxObject struct {
	box   Box
	layer int
	frame Frame
}

func NewBoxWorld() *BoxWorld {
	return &BoxWorld{objects: map[string]*boxObject{}}
}

// Add registers a box object on the given layer.  Re-adding an id replaces
// its geometry.
func (w *BoxWorld) Add(id string, b Box, layer int) {
	if _, ok := w.objects[id]; !ok {
		w.ids = append(w.ids, id)
		sort.Strings(w.ids)
	}
	w.objects[id] = &boxObject{box: b, layer: layer, frame: AxisFrame}
}

// SetFrame overrides the object's local frame (AxisFrame by default).
func (w *BoxWorld) SetFrame(id string, f Frame) {
	if o, ok := w.objects[id]; ok {
		o.frame = f
	}
}

// Move translates an object so its box is centered at c.
func (w *BoxWorld) Move(id string, c r3.Vec) {
	o, ok := w.objects[id]
	if !ok {
		return
	}
	h := r3.Scale(0.5, o.box.Size())
	o.box = Box{Min: r3.Sub(c, h), Max: r3.Add(c, h)}
}

func (w *BoxWorld) WorldAABB(id string) Box {
	if o, ok := w.objects[id]; ok {
		return o.box
	}
	return Box{}
}

// Linecast returns the nearest masked object intersected by segment a-b.
func (w *BoxWorld) Linecast(a, b r3.Vec, mask LayerMask) (Hit, bool) {
	dir := r3.Sub(b, a)
	best := math.Inf(1)
	var hit Hit
	found := false
	for _, id := range w.ids {
		o := w.objects[id]
		if !mask.Contains(o.layer) {
			continue
		}
		if t, ok := segBox(a, dir, o.box); ok && t < best {
			best = t
			hit = Hit{Object: id}
			found = true
		}
	}
	return hit, found
}

// segBox intersects the segment a + t*dir, t in [0,1], with a box using the
// slab method.  Returns the entry parameter.
func segBox(a, dir r3.Vec, b Box) (float64, bool) {
	tmin, tmax := 0.0, 1.0
	for _, s := range [3][3]float64{
		{a.X, dir.X, 0},
		{a.Y, dir.Y, 1},
		{a.Z, dir.Z, 2},
	} {
		var lo, hi float64
		switch int(s[2]) {
		case 0:
			lo, hi = b.Min.X, b.Max.X
		case 1:
			lo, hi = b.Min.Y, b.Max.Y
		default:
			lo, hi = b.Min.Z, b.Max.Z
		}
		if math.Abs(s[1]) < 1e-15 {
			if s[0] < lo || s[0] > hi {
				return 0, false
			}
			continue
		}
		t0 := (lo - s[0]) / s[1]
		t1 := (hi - s[0]) / s[1]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

func (w *BoxWorld) SphereOverlap(center r3.Vec, radius float64, mask LayerMask) bool {
	for _, id := range w.ids {
		o := w.objects[id]
		if !mask.Contains(o.layer) {
			continue
		}
		if o.box.SqDist(center) <= radius*radius {
			return true
		}
	}
	return false
}

func (w *BoxWorld) ObjectLayer(id string) int {
	if o, ok := w.objects[id]; ok {
		return o.layer
	}
	return 0
}

func (w *BoxWorld) SetObjectLayer(id string, layer int) {
	if o, ok := w.objects[id]; ok {
		o.layer = layer
	}
}

func (w *BoxWorld) LocalAxes(id string) Frame {
	if o, ok := w.objects[id]; ok {
		return o.frame
	}
	return AxisFrame
}

func (w *BoxWorld) TransformPoint(id string, local r3.Vec) r3.Vec {
	o, ok := w.objects[id]
	if !ok {
		return local
	}
	c := o.box.Center()
	f := o.frame
	return r3.Add(c, r3.Add(r3.Add(r3.Scale(local.X, f.Right), r3.Scale(local.Y, f.Up)), r3.Scale(local.Z, f.Forward)))
}
