// Package cut splits triangle meshes by planes and clips convex pieces
// against a convex bounding mesh.
package cut

import (
	"github.com/akmonengine/hullgen/geom"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultWeldThreshold merges the vertices produced on both sides of a cut.
	DefaultWeldThreshold = 1e-7
	weldGridCells        = 1024
	minTriangleArea      = 1e-14
)

// CuttableMesh is a welded triangle soup that can be fed to a MeshCutter.
type CuttableMesh struct {
	grid    *geom.VertexGrid
	indices []int
	weld    float64
}

func newCuttableMesh(weld float64) *CuttableMesh {
	return &CuttableMesh{grid: geom.NewVertexGrid(weld, weldGridCells), weld: weld}
}

// NewCuttableMesh copies the triangles of m, welding duplicate vertices.
func NewCuttableMesh(m geom.Mesh) *CuttableMesh {
	c := newCuttableMesh(DefaultWeldThreshold)
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, d := m.Triangle(i)
		c.AddTriangle(a, b, d)
	}
	return c
}

// AddTriangle appends one triangle; slivers without area are dropped.
func (c *CuttableMesh) AddTriangle(a, b, d mgl64.Vec3) {
	if geom.TriangleArea(a, b, d) < minTriangleArea {
		return
	}
	c.indices = append(c.indices,
		c.grid.Weld(a, c.weld),
		c.grid.Weld(b, c.weld),
		c.grid.Weld(d, c.weld))
}

// AddPolygon fans a convex loop from its first vertex.
func (c *CuttableMesh) AddPolygon(loop []mgl64.Vec3) {
	for i := 1; i+1 < len(loop); i++ {
		c.AddTriangle(loop[0], loop[i], loop[i+1])
	}
}

func (c *CuttableMesh) TriangleCount() int {
	return len(c.indices) / 3
}

func (c *CuttableMesh) IsEmpty() bool {
	return len(c.indices) == 0
}

// Points returns the welded vertices, including any left unused.
func (c *CuttableMesh) Points() []mgl64.Vec3 {
	return c.grid.Points()
}

// Mesh returns a compact copy holding only the referenced vertices.
func (c *CuttableMesh) Mesh() geom.Mesh {
	points := c.grid.Points()
	remap := make(map[int]int, len(points))
	m := geom.Mesh{Indices: make([]int, len(c.indices))}
	for i, idx := range c.indices {
		j, ok := remap[idx]
		if !ok {
			j = len(m.Vertices)
			remap[idx] = j
			m.Vertices = append(m.Vertices, points[idx])
		}
		m.Indices[i] = j
	}
	return m
}
