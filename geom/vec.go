// Package geom holds the vector, plane, bounds and mesh primitives shared by
// the hull builder, the simplifier, the fitters and the mesh cutter.
//
// All math is done on mgl64 types in double precision.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// NormalSnapThreshold is used to clamp nearly-zero normal components to exactly zero.
	NormalSnapThreshold = 1e-8

	// DoublePrecision is the machine epsilon for float64.
	DoublePrecision = 2.2204460492503131e-16
)

// CompareVec3 orders vectors lexicographically (x, then y, then z).
func CompareVec3(a, b mgl64.Vec3) int {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Vec3ApproxEqual reports whether every component of a and b differs by at most tolerance.
func Vec3ApproxEqual(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a[0]-b[0]) <= tolerance &&
		math.Abs(a[1]-b[1]) <= tolerance &&
		math.Abs(a[2]-b[2]) <= tolerance
}

// Centroid returns the arithmetic mean of points, or the origin for an empty slice.
func Centroid(points []mgl64.Vec3) mgl64.Vec3 {
	if len(points) == 0 {
		return mgl64.Vec3{0, 0, 0}
	}

	sum := mgl64.Vec3{0, 0, 0}
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1.0 / float64(len(points)))
}

// TangentBasis returns two unit vectors that, together with normal, form a
// right-handed orthonormal basis (t1 x t2 = normal).
func TangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var tangent1 mgl64.Vec3
	if math.Abs(normal.X()) > 0.9 {
		tangent1 = mgl64.Vec3{0, 1, 0}
	} else {
		tangent1 = mgl64.Vec3{1, 0, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()

	return tangent1, tangent2
}

// SnapNormalToAxis clamps nearly-zero components of a normal to exactly zero
// and renormalizes. A vector with no significant component becomes +Y.
func SnapNormalToAxis(normal mgl64.Vec3) mgl64.Vec3 {
	clamped := normal
	for i := 0; i < 3; i++ {
		if math.Abs(clamped[i]) < NormalSnapThreshold {
			clamped[i] = 0
		}
	}

	length := clamped.Len()
	if length <= 1e-8 {
		return mgl64.Vec3{0, 1, 0}
	}
	return clamped.Mul(1.0 / length)
}

// SnapToDominantAxis returns the signed world axis closest to dir.
func SnapToDominantAxis(dir mgl64.Vec3) mgl64.Vec3 {
	axis := 0
	for i := 1; i < 3; i++ {
		if math.Abs(dir[i]) > math.Abs(dir[axis]) {
			axis = i
		}
	}

	var snapped mgl64.Vec3
	if dir[axis] < 0 {
		snapped[axis] = -1
	} else {
		snapped[axis] = 1
	}
	return snapped
}

// Support returns the point of points furthest along direction.
// The second return value is false when points is empty.
func Support(points []mgl64.Vec3, direction mgl64.Vec3) (mgl64.Vec3, bool) {
	if len(points) == 0 {
		return mgl64.Vec3{}, false
	}

	best := points[0]
	bestDot := best.Dot(direction)
	for _, p := range points[1:] {
		if d := p.Dot(direction); d > bestDot {
			bestDot = d
			best = p
		}
	}
	return best, true
}

// Extent returns the min and max projections of points onto axis.
func Extent(points []mgl64.Vec3, axis mgl64.Vec3) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		d := p.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

// TriangleArea returns the area of the triangle (a, b, c).
func TriangleArea(a, b, c mgl64.Vec3) float64 {
	return b.Sub(a).Cross(c.Sub(a)).Len() * 0.5
}

// TriangleNormal returns the unnormalized normal of (a, b, c) following the
// counter-clockwise winding.
func TriangleNormal(a, b, c mgl64.Vec3) mgl64.Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

// PolygonNormal computes the best-fit normal of a vertex loop with Newell's
// method. The result is unnormalized; its length is twice the polygon area.
func PolygonNormal(loop []mgl64.Vec3) mgl64.Vec3 {
	var n mgl64.Vec3
	for i := range loop {
		cur := loop[i]
		next := loop[(i+1)%len(loop)]
		n[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		n[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		n[2] += (cur[0] - next[0]) * (cur[1] + next[1])
	}
	return n
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
