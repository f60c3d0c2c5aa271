// Package gjk tests two convex sets for overlap with the Gilbert-Johnson-Keerthi
// algorithm. Shapes only expose a support mapping, so point clouds are tested
// without building their hull.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"github.com/akmonengine/hullgen/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Shape is any convex set described by its support mapping.
type Shape interface {
	// Support returns the point of the shape furthest along direction.
	Support(direction mgl64.Vec3) mgl64.Vec3
}

// Centered shapes give GJK a better first search direction.
type Centered interface {
	Center() mgl64.Vec3
}

// PointCloud is the convex hull of its points, never built explicitly.
type PointCloud []mgl64.Vec3

func (p PointCloud) Support(direction mgl64.Vec3) mgl64.Vec3 {
	s, _ := geom.Support(p, direction)
	return s
}

func (p PointCloud) Center() mgl64.Vec3 {
	return geom.Centroid(p)
}

// MaxIterations bounds the simplex refinement loop.
const MaxIterations = 32

// Simplex holds 1 to 4 points of the Minkowski difference, the most recent
// support point last.
type Simplex struct {
	Points [4]mgl64.Vec3
	Count  int
}

func (s *Simplex) Reset() {
	s.Count = 0
}

// MinkowskiSupport returns the support point of A - B along direction:
// furthest(A, direction) - furthest(B, -direction).
func MinkowskiSupport(a, b Shape, direction mgl64.Vec3) mgl64.Vec3 {
	return a.Support(direction).Sub(b.Support(direction.Mul(-1)))
}

func initialDirection(a, b Shape) mgl64.Vec3 {
	ca, okA := a.(Centered)
	cb, okB := b.(Centered)
	if okA && okB {
		if d := cb.Center().Sub(ca.Center()); d.LenSqr() >= 1e-8 {
			return d
		}
	}
	return mgl64.Vec3{1, 0, 0}
}

// GJK reports whether the convex shapes a and b overlap; touching counts as
// overlapping. On overlap the simplex is left as a tetrahedron around the
// origin.
func GJK(a, b Shape, simplex *Simplex) bool {
	direction := initialDirection(a, b)

	simplex.Points[0] = MinkowskiSupport(a, b, direction)
	simplex.Count = 1

	direction = simplex.Points[0].Mul(-1)
	if direction.LenSqr() < 1e-16 {
		return true
	}

	for i := 0; i < MaxIterations; i++ {
		newPoint := MinkowskiSupport(a, b, direction)

		// the new point does not pass the origin: separated
		if newPoint.Dot(direction) <= 0 {
			return false
		}

		simplex.Points[simplex.Count] = newPoint
		simplex.Count++

		if containsOrigin(simplex, &direction) {
			return true
		}
	}

	// pas de convergence, on considère les formes séparées
	return false
}

// Intersect runs GJK with a scratch simplex.
func Intersect(a, b Shape) bool {
	var simplex Simplex
	return GJK(a, b, &simplex)
}

// Degenerate simplex thresholds, on squared lengths.
const (
	degenerateEdge     = 1e-8
	degenerateTriangle = 1e-10
)

// set replaces the simplex content, oldest point first.
func (s *Simplex) set(points ...mgl64.Vec3) {
	s.Count = copy(s.Points[:], points)
}

// containsOrigin keeps the feature of the simplex closest to the origin and
// points direction at the origin from it. Only a tetrahedron can contain it.
func containsOrigin(simplex *Simplex, direction *mgl64.Vec3) bool {
	switch simplex.Count {
	case 2:
		return line(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	case 4:
		return tetrahedron(simplex, direction)
	}
	return false
}

// line: A is the newest point, B the oldest.
func line(simplex *Simplex, direction *mgl64.Vec3) bool {
	a, b := simplex.Points[1], simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if ab.LenSqr() < degenerateEdge {
		if ao.LenSqr() < degenerateEdge {
			return true
		}
		simplex.set(a)
		*direction = ao
		return false
	}

	// origine derrière A
	if ab.Dot(ao) <= 0 {
		simplex.set(a)
		*direction = ao
		return false
	}

	perp := ab.Cross(ao).Cross(ab)
	if perp.LenSqr() < degenerateEdge {
		// origin on the segment
		return true
	}
	*direction = perp
	return false
}

// triangle: A is the newest point. The origin cannot be in the regions of B,
// C or BC, those were ruled out by earlier iterations.
func triangle(simplex *Simplex, direction *mgl64.Vec3) bool {
	a, b, c := simplex.Points[2], simplex.Points[1], simplex.Points[0]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)
	normal := ab.Cross(ac)

	if normal.LenSqr() < degenerateTriangle {
		// colinear, drop C
		simplex.set(b, a)
		return line(simplex, direction)
	}

	if ab.Cross(normal).Dot(ao) > 0 {
		simplex.set(b, a)
		*direction = ab.Cross(ao).Cross(ab)
		return false
	}
	if normal.Cross(ac).Dot(ao) > 0 {
		simplex.set(c, a)
		*direction = ac.Cross(ao).Cross(ac)
		return false
	}

	if normal.Dot(ao) > 0 {
		*direction = normal
	} else {
		// swap the winding so the normal faces the origin
		simplex.set(a, c, b)
		*direction = normal.Mul(-1)
	}
	return false
}

// tetrahedron: A is the newest point; the origin is searched outside the
// three faces sharing A, with normals turned away from the opposite vertex.
func tetrahedron(simplex *Simplex, direction *mgl64.Vec3) bool {
	a, b, c, d := simplex.Points[3], simplex.Points[2], simplex.Points[1], simplex.Points[0]
	ab, ac, ad := b.Sub(a), c.Sub(a), d.Sub(a)
	ao := a.Mul(-1)

	outward := func(n, opposite mgl64.Vec3) mgl64.Vec3 {
		if n.Dot(opposite) > 0 {
			return n.Mul(-1)
		}
		return n
	}
	abc := outward(ab.Cross(ac), ad)
	acd := outward(ac.Cross(ad), ab)
	adb := outward(ad.Cross(ab), ac)

	if abc.LenSqr() < degenerateTriangle || acd.LenSqr() < degenerateTriangle || adb.LenSqr() < degenerateTriangle {
		simplex.set(c, b, a)
		return triangle(simplex, direction)
	}

	switch {
	case abc.Dot(ao) > 0:
		simplex.set(c, b, a)
	case acd.Dot(ao) > 0:
		simplex.set(d, c, a)
	case adb.Dot(ao) > 0:
		simplex.set(b, d, a)
	default:
		return true
	}
	return triangle(simplex, direction)
}
