package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MinPlaneNormalLength is the smallest cross-product length accepted when
// building a plane from three points.
const MinPlaneNormalLength = 1e-12

// Plane is the set of points p with Normal·p = Distance.
// Normal must be unit length; points with Normal·p > Distance are in front.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

// NewPlane builds a plane from a normal and a point lying on it.
func NewPlane(normal, point mgl64.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Distance: n.Dot(point)}
}

// PlaneFromPoints builds the plane through a, b, c with the normal following
// the counter-clockwise winding. It returns false for degenerate triangles.
func PlaneFromPoints(a, b, c mgl64.Vec3) (Plane, bool) {
	n := TriangleNormal(a, b, c)
	length := n.Len()
	if length <= MinPlaneNormalLength || math.IsNaN(length) {
		return Plane{}, false
	}
	n = n.Mul(1.0 / length)
	return Plane{Normal: n, Distance: n.Dot(a)}, true
}

// SignedDistance returns the distance of p in front of the plane.
func (p Plane) SignedDistance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) - p.Distance
}

// Flipped returns the same plane facing the other way.
func (p Plane) Flipped() Plane {
	return Plane{Normal: p.Normal.Mul(-1), Distance: -p.Distance}
}

// ClosestPoint projects point onto the plane.
func (p Plane) ClosestPoint(point mgl64.Vec3) mgl64.Vec3 {
	return point.Sub(p.Normal.Mul(p.SignedDistance(point)))
}

// ApproxEqual reports whether two planes are the same within a maximum angle
// (radians) between normals and a maximum difference in distance.
func (p Plane) ApproxEqual(other Plane, maxAngle, maxDistance float64) bool {
	if math.Abs(p.Distance-other.Distance) >= maxDistance {
		return false
	}
	return p.Normal.Dot(other.Normal) > math.Cos(maxAngle)
}

// SegmentIntersection returns the point where the segment a-b crosses the
// plane, interpolating on the signed distances of both ends.
func (p Plane) SegmentIntersection(a, b mgl64.Vec3) mgl64.Vec3 {
	da := p.SignedDistance(a)
	db := p.SignedDistance(b)
	denom := da - db
	if math.Abs(denom) < 1e-300 {
		return a
	}
	t := Clamp01(da / denom)
	return a.Add(b.Sub(a).Mul(t))
}
