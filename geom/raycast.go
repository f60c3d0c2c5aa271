package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// rayEpsilon rejects rays parallel to the triangle plane.
const rayEpsilon = 1e-12

// Ray is a half line starting at Origin. Direction need not be normalized;
// distances are expressed in multiples of its length.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectTriangle runs the Möller–Trumbore test of ray against (p1, p2, p3).
//
// Algorithm:
//  1. e1 = p2-p1, e2 = p3-p1, P = D x e2, det = e1·P
//  2. det near zero means the ray is parallel to the triangle
//  3. Back faces (det < 0) are rejected unless twoSided is set
//  4. Barycentric u, v are tested against the triangle, then t = e2·Q / det
//
// It returns the ray parameter of the hit and whether the ray hits in front of
// its origin.
func IntersectTriangle(ray Ray, p1, p2, p3 mgl64.Vec3, twoSided bool) (float64, bool) {
	e1 := p2.Sub(p1)
	e2 := p3.Sub(p1)

	p := ray.Direction.Cross(e2)
	det := e1.Dot(p)

	if math.Abs(det) < rayEpsilon {
		return 0, false
	}
	if det < 0 && !twoSided {
		return 0, false
	}
	invDet := 1.0 / det

	s := ray.Origin.Sub(p1)
	u := s.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := ray.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := e2.Dot(q) * invDet
	if t <= rayEpsilon {
		return 0, false
	}
	return t, true
}

// RaycastHit describes the closest triangle hit by a ray.
type RaycastHit struct {
	Triangle int
	Distance float64
	Point    mgl64.Vec3
}

// Raycast finds the nearest triangle of mesh hit by ray within maxDistance.
// The test is done against the side the ray enters from: the triangle's
// front face, or its back face when flipNormals is set.
func Raycast(mesh Mesh, ray Ray, maxDistance float64, flipNormals bool) (RaycastHit, bool) {
	best := RaycastHit{Triangle: -1, Distance: maxDistance}
	found := false

	for i := 0; i < mesh.TriangleCount(); i++ {
		a, b, c := mesh.Triangle(i)
		if flipNormals {
			b, c = c, b
		}

		t, ok := IntersectTriangle(ray, a, b, c, false)
		if !ok || t >= best.Distance {
			continue
		}
		best = RaycastHit{Triangle: i, Distance: t, Point: ray.At(t)}
		found = true
	}

	return best, found
}
