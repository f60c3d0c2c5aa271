// Package fit computes simple bounding primitives around point clouds:
// minimum enclosing spheres, boxes (axis-aligned, face-aligned or minimum
// volume) and capsules refined by a seeded local search.
//
// Fitters never fail. Empty or degenerate input yields a zero primitive at
// the origin, since they run speculatively while a selection is edited.
package fit

import (
	"math"

	"github.com/akmonengine/hullgen/geom"
	"github.com/akmonengine/hullgen/qhull"
	"github.com/go-gl/mathgl/mgl64"
)

// BoxDef is an oriented box. Size holds the full dimensions along the local
// axes, Rotation takes the local axes to world space.
type BoxDef struct {
	Center   mgl64.Vec3
	Size     mgl64.Vec3
	Rotation mgl64.Quat
}

func zeroBox() BoxDef {
	return BoxDef{Rotation: mgl64.QuatIdent()}
}

func (b BoxDef) rotation() mgl64.Quat {
	if b.Rotation.W == 0 && b.Rotation.V.LenSqr() == 0 {
		return mgl64.QuatIdent()
	}
	return b.Rotation
}

// Axes returns the world directions of the local X, Y and Z axes.
func (b BoxDef) Axes() [3]mgl64.Vec3 {
	r := b.rotation()
	return [3]mgl64.Vec3{
		r.Rotate(mgl64.Vec3{1, 0, 0}),
		r.Rotate(mgl64.Vec3{0, 1, 0}),
		r.Rotate(mgl64.Vec3{0, 0, 1}),
	}
}

func (b BoxDef) HalfExtents() mgl64.Vec3 {
	return b.Size.Mul(0.5)
}

// Transform places the local box frame in the world.
func (b BoxDef) Transform() geom.Transform {
	return geom.Transform{Position: b.Center, Rotation: b.rotation()}
}

func (b BoxDef) localBounds() geom.AABB {
	h := b.HalfExtents()
	return geom.AABB{Min: h.Mul(-1), Max: h}
}

// Corners returns the world corners in the geom.AABB corner order.
func (b BoxDef) Corners() [8]mgl64.Vec3 {
	corners := b.localBounds().Corners()
	t := b.Transform()
	for i := range corners {
		corners[i] = t.Apply(corners[i])
	}
	return corners
}

// Mesh returns the box as a closed triangle mesh in world space.
func (b BoxDef) Mesh() geom.Mesh {
	return b.localBounds().Mesh().Transformed(b.Transform())
}

func (b BoxDef) Volume() float64 {
	return b.Size[0] * b.Size[1] * b.Size[2]
}

// Support returns the corner furthest along direction.
func (b BoxDef) Support(direction mgl64.Vec3) mgl64.Vec3 {
	p := b.Center
	h := b.HalfExtents()
	for i, axis := range b.Axes() {
		if direction.Dot(axis) < 0 {
			p = p.Sub(axis.Mul(h[i]))
		} else {
			p = p.Add(axis.Mul(h[i]))
		}
	}
	return p
}

// ContainsPoint reports whether point lies inside the box grown by tolerance.
func (b BoxDef) ContainsPoint(point mgl64.Vec3, tolerance float64) bool {
	local := b.Transform().Inverse(point)
	h := b.HalfExtents()
	for i := 0; i < 3; i++ {
		if math.Abs(local[i]) > h[i]+tolerance {
			return false
		}
	}
	return true
}

// boxInFrame fits the tightest box whose axes are the given orthonormal,
// right-handed frame.
func boxInFrame(points []mgl64.Vec3, x, y, z mgl64.Vec3) BoxDef {
	axes := [3]mgl64.Vec3{x, y, z}
	var box BoxDef
	for i, axis := range axes {
		lo, hi := geom.Extent(points, axis)
		box.Size[i] = hi - lo
		box.Center = box.Center.Add(axis.Mul((lo + hi) * 0.5))
	}
	box.Rotation = geom.RotationFromAxes(x, y, z)
	return box
}

// FitBox fits a box to points, keeping the world axes when constrainToAxes is
// set and searching for the minimum volume orientation otherwise.
func FitBox(points []mgl64.Vec3, constrainToAxes bool) BoxDef {
	if constrainToAxes {
		return FitAxisAlignedBox(points)
	}
	return FitRotatedBox(points)
}

// FitAxisAlignedBox returns the bounds of points as a box.
func FitAxisAlignedBox(points []mgl64.Vec3) BoxDef {
	if len(points) == 0 {
		return zeroBox()
	}
	bounds := geom.NewAABB(points)
	return BoxDef{Center: bounds.Center(), Size: bounds.Size(), Rotation: mgl64.QuatIdent()}
}

// FitFaceAlignedBox fits the box whose local Z axis is normal, turning it
// around that axis to the smallest enclosing rectangle.
func FitFaceAlignedBox(points []mgl64.Vec3, normal mgl64.Vec3) BoxDef {
	if len(points) == 0 {
		return zeroBox()
	}
	n := normal
	if n.LenSqr() < 1e-16 {
		n = mgl64.Vec3{0, 1, 0}
	}
	n = n.Normalize()

	t1, t2 := geom.TangentBasis(n)
	projected := make([]mgl64.Vec2, len(points))
	for i, p := range points {
		projected[i] = mgl64.Vec2{p.Dot(t1), p.Dot(t2)}
	}
	rect := minAreaRectangle(projected)
	v := rect.v()

	x := t1.Mul(rect.U[0]).Add(t2.Mul(rect.U[1]))
	y := t1.Mul(v[0]).Add(t2.Mul(v[1]))
	return boxInFrame(points, x, y, n)
}

// FitRotatedBox searches the orientations given by the hull face normals for
// the minimum volume box. It never does worse than the axis-aligned box.
// Inputs without a hull (fewer than 4 points, flat or linear) give a zero box.
func FitRotatedBox(points []mgl64.Vec3) BoxDef {
	hull, err := qhull.Build(points, qhull.Options{Tolerance: qhull.AutomaticTolerance})
	if err != nil {
		return zeroBox()
	}

	best := FitAxisAlignedBox(hull.Vertices)
	bestVolume := best.Volume()

	var tried []mgl64.Vec3
	for _, plane := range hull.FacePlanes() {
		if alreadyTried(tried, plane.Normal) {
			continue
		}
		tried = append(tried, plane.Normal)

		box := FitFaceAlignedBox(hull.Vertices, plane.Normal)
		if v := box.Volume(); v < bestVolume {
			best, bestVolume = box, v
		}
	}
	return best
}

// alreadyTried ignores the sign: opposite faces give the same box.
func alreadyTried(normals []mgl64.Vec3, n mgl64.Vec3) bool {
	for _, t := range normals {
		if math.Abs(t.Dot(n)) > 1-1e-9 {
			return true
		}
	}
	return false
}

// LongestAxis returns the index (0, 1 or 2) of the largest dimension. Ties go
// to the later axis, Z before Y before X.
func (b BoxDef) LongestAxis() int {
	s := b.Size
	switch {
	case s[0] > s[1] && s[0] > s[2]:
		return 0
	case s[1] > s[2]:
		return 1
	default:
		return 2
	}
}
