package fit

import (
	"github.com/akmonengine/hullgen/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// ConstructionPlane is a local frame used while fitting: Normal is the local
// Z axis and Tangent the local X axis.
type ConstructionPlane struct {
	Center   mgl64.Vec3
	Normal   mgl64.Vec3
	Tangent  mgl64.Vec3
	Rotation mgl64.Quat
}

// NewConstructionPlane orthonormalizes tangent against normal. A tangent
// parallel to the normal is replaced by an arbitrary perpendicular one.
func NewConstructionPlane(center, normal, tangent mgl64.Vec3) ConstructionPlane {
	n := normal.Normalize()
	t := tangent.Sub(n.Mul(tangent.Dot(n)))
	if t.LenSqr() < 1e-12 {
		t, _ = geom.TangentBasis(n)
	} else {
		t = t.Normalize()
	}
	b := n.Cross(t)

	return ConstructionPlane{
		Center:   center,
		Normal:   n,
		Tangent:  t,
		Rotation: geom.RotationFromAxes(t, b, n),
	}
}

// Offset returns the same frame moved by delta.
func (p ConstructionPlane) Offset(delta mgl64.Vec3) ConstructionPlane {
	p.Center = p.Center.Add(delta)
	return p
}

// Binormal is the local Y axis.
func (p ConstructionPlane) Binormal() mgl64.Vec3 {
	return p.Normal.Cross(p.Tangent)
}

// ToLocal expresses a world point in the plane frame.
func (p ConstructionPlane) ToLocal(point mgl64.Vec3) mgl64.Vec3 {
	d := point.Sub(p.Center)
	return mgl64.Vec3{d.Dot(p.Tangent), d.Dot(p.Binormal()), d.Dot(p.Normal)}
}

// ToWorld is the inverse of ToLocal.
func (p ConstructionPlane) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return p.Center.
		Add(p.Tangent.Mul(local[0])).
		Add(p.Binormal().Mul(local[1])).
		Add(p.Normal.Mul(local[2]))
}

// ProjectOntoAxis returns the closest point of the normal line through Center.
func (p ConstructionPlane) ProjectOntoAxis(point mgl64.Vec3) mgl64.Vec3 {
	return p.Center.Add(p.Normal.Mul(p.Normal.Dot(point.Sub(p.Center))))
}
