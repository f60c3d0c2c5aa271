package geom

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is an indexed triangle mesh: every three entries of Indices form one
// counter-clockwise triangle (seen from outside).
type Mesh struct {
	Vertices []mgl64.Vec3
	Indices  []int
}

// IsEmpty reports whether the mesh has no triangle.
func (m Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 || len(m.Indices) < 3
}

// TriangleCount returns the number of triangles.
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the three corners of triangle i.
func (m Mesh) Triangle(i int) (mgl64.Vec3, mgl64.Vec3, mgl64.Vec3) {
	return m.Vertices[m.Indices[i*3]], m.Vertices[m.Indices[i*3+1]], m.Vertices[m.Indices[i*3+2]]
}

// Bounds returns the axis-aligned bounds of the vertices.
func (m Mesh) Bounds() AABB {
	return NewAABB(m.Vertices)
}

// Validate checks that every index addresses a vertex.
func (m Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if idx < 0 || idx >= len(m.Vertices) {
			return fmt.Errorf("index %d at position %d out of range [0, %d)", idx, i, len(m.Vertices))
		}
	}
	return nil
}

// PointsForTriangles returns the corners of the selected triangles, three per
// triangle. Out of range triangle indices are skipped.
func (m Mesh) PointsForTriangles(selection []int) []mgl64.Vec3 {
	points := make([]mgl64.Vec3, 0, len(selection)*3)
	for _, tri := range selection {
		if tri < 0 || tri >= m.TriangleCount() {
			continue
		}
		a, b, c := m.Triangle(tri)
		points = append(points, a, b, c)
	}
	return points
}

// Transformed returns a copy of the mesh with every vertex moved by t.
func (m Mesh) Transformed(t Transform) Mesh {
	out := Mesh{
		Vertices: make([]mgl64.Vec3, len(m.Vertices)),
		Indices:  append([]int(nil), m.Indices...),
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = t.Apply(v)
	}
	return out
}

// SurfaceArea sums the area of every triangle.
func (m Mesh) SurfaceArea() float64 {
	area := 0.0
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		area += TriangleArea(a, b, c)
	}
	return area
}
