package meshgen

import (
	"fmt"

	"github.com/akmonengine/hullgen/geom"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultCells is the marching cubes resolution along the longest side.
	DefaultCells = 32
	// weldFraction of a cell merges the duplicate vertices of the triangle soup.
	weldFraction = 1e-3
)

// Tessellate polygonizes an SDF with uniform marching cubes and welds the
// resulting triangle soup into an indexed mesh. Sliver triangles are dropped.
func Tessellate(s sdf.SDF3, cells int) geom.Mesh {
	cells = max(4, cells)
	bb := s.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	cellSize := max(size.X, size.Y, size.Z) / float64(cells)

	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	soup := geom.Mesh{
		Vertices: make([]mgl64.Vec3, 0, len(triangles)*3),
		Indices:  make([]int, 0, len(triangles)*3),
	}
	for _, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			soup.Indices = append(soup.Indices, len(soup.Vertices))
			soup.Vertices = append(soup.Vertices, mgl64.Vec3{v.X, v.Y, v.Z})
		}
	}

	welded := geom.WeldMesh(soup, cellSize*weldFraction)
	mesh := geom.Mesh{Vertices: welded.Vertices}
	for i := 0; i < welded.TriangleCount(); i++ {
		a, b, c := welded.Triangle(i)
		if geom.TriangleArea(a, b, c) <= 0 {
			continue
		}
		mesh.Indices = append(mesh.Indices, welded.Indices[3*i:3*i+3]...)
	}
	return mesh
}

// SDFSphere tessellates a sphere centered on the origin.
func SDFSphere(radius float64, cells int) (geom.Mesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return geom.Mesh{}, fmt.Errorf("sdf sphere: %w", err)
	}
	return Tessellate(s, cells), nil
}

// SDFBox tessellates a box centered on the origin, with edges rounded by round.
func SDFBox(size mgl64.Vec3, round float64, cells int) (geom.Mesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: size.X(), Y: size.Y(), Z: size.Z()}, round)
	if err != nil {
		return geom.Mesh{}, fmt.Errorf("sdf box: %w", err)
	}
	return Tessellate(s, cells), nil
}

// SDFCylinder tessellates a cylinder along Z centered on the origin.
func SDFCylinder(height, radius float64, cells int) (geom.Mesh, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return geom.Mesh{}, fmt.Errorf("sdf cylinder: %w", err)
	}
	return Tessellate(s, cells), nil
}

// SDFCapsule tessellates a capsule along Z of total height, as a cylinder
// whose ends are rounded by the full radius.
func SDFCapsule(height, radius float64, cells int) (geom.Mesh, error) {
	if height < 2*radius {
		return geom.Mesh{}, fmt.Errorf("sdf capsule: height %g shorter than diameter %g", height, 2*radius)
	}
	s, err := sdf.Cylinder3D(height, radius, radius)
	if err != nil {
		return geom.Mesh{}, fmt.Errorf("sdf capsule: %w", err)
	}
	return Tessellate(s, cells), nil
}
