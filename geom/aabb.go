package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewAABB computes the bounds of points. An empty slice yields a zero box.
func NewAABB(points []mgl64.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.Encapsulate(p)
	}
	return box
}

// Encapsulate returns the box grown to include point.
func (a AABB) Encapsulate(point mgl64.Vec3) AABB {
	for i := 0; i < 3; i++ {
		a.Min[i] = math.Min(a.Min[i], point[i])
		a.Max[i] = math.Max(a.Max[i], point[i])
	}
	return a
}

// Center returns the midpoint of the box.
func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Size returns the full dimensions of the box.
func (a AABB) Size() mgl64.Vec3 {
	return a.Max.Sub(a.Min)
}

// Extents returns the half dimensions of the box.
func (a AABB) Extents() mgl64.Vec3 {
	return a.Size().Mul(0.5)
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// Corners returns the 8 corners, bottom (min y) ring first then the top ring:
// 0..3 are (min,min,min) (max,min,min) (max,min,max) (min,min,max), 4..7 the
// same x/z at max y.
func (a AABB) Corners() [8]mgl64.Vec3 {
	lo, hi := a.Min, a.Max
	return [8]mgl64.Vec3{
		{lo[0], lo[1], lo[2]},
		{hi[0], lo[1], lo[2]},
		{hi[0], lo[1], hi[2]},
		{lo[0], lo[1], hi[2]},
		{lo[0], hi[1], lo[2]},
		{hi[0], hi[1], lo[2]},
		{hi[0], hi[1], hi[2]},
		{lo[0], hi[1], hi[2]},
	}
}

// BoxFaces lists the corners of each box face, counter-clockwise seen from
// outside: bottom, top, +X, -X, +Z, -Z.
var BoxFaces = [6][4]int{
	{0, 1, 2, 3},
	{7, 6, 5, 4},
	{5, 6, 2, 1},
	{7, 4, 0, 3},
	{6, 7, 3, 2},
	{4, 5, 1, 0},
}

// Mesh returns the box as 8 corners and 12 triangles.
func (a AABB) Mesh() Mesh {
	corners := a.Corners()
	m := Mesh{Vertices: corners[:], Indices: make([]int, 0, 36)}
	for _, f := range BoxFaces {
		m.Indices = append(m.Indices, f[0], f[1], f[2], f[0], f[2], f[3])
	}
	return m
}

// Planes returns the six outward facing planes of the box in the order
// +X, -X, +Y, -Y, +Z, -Z.
func (a AABB) Planes() [6]Plane {
	return [6]Plane{
		{Normal: mgl64.Vec3{1, 0, 0}, Distance: a.Max[0]},
		{Normal: mgl64.Vec3{-1, 0, 0}, Distance: -a.Min[0]},
		{Normal: mgl64.Vec3{0, 1, 0}, Distance: a.Max[1]},
		{Normal: mgl64.Vec3{0, -1, 0}, Distance: -a.Min[1]},
		{Normal: mgl64.Vec3{0, 0, 1}, Distance: a.Max[2]},
		{Normal: mgl64.Vec3{0, 0, -1}, Distance: -a.Min[2]},
	}
}

// Volume returns the volume enclosed by the box.
func (a AABB) Volume() float64 {
	s := a.Size()
	return s[0] * s[1] * s[2]
}
