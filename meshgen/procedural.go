// Package meshgen builds closed triangle meshes used as inputs by the tests
// and the colliders example.
package meshgen

import (
	"math"

	"github.com/akmonengine/hullgen/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Cube returns an axis-aligned cube of edge size centered on the origin.
func Cube(size float64) geom.Mesh {
	return Box(mgl64.Vec3{size, size, size})
}

// Box returns an axis-aligned box centered on the origin.
func Box(size mgl64.Vec3) geom.Mesh {
	half := size.Mul(0.5)
	return geom.AABB{Min: half.Mul(-1), Max: half}.Mesh()
}

// Tetrahedron returns the corner tetrahedron spanning size along each axis.
func Tetrahedron(size float64) geom.Mesh {
	return geom.Mesh{
		Vertices: []mgl64.Vec3{{0, 0, 0}, {size, 0, 0}, {0, size, 0}, {0, 0, size}},
		Indices:  []int{0, 2, 1, 0, 1, 3, 0, 3, 2, 1, 2, 3},
	}
}

// Icosahedron returns a regular icosahedron inscribed in a sphere of radius.
func Icosahedron(radius float64) geom.Mesh {
	phi := (1 + math.Sqrt(5)) / 2
	vertices := []mgl64.Vec3{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	for i, v := range vertices {
		vertices[i] = v.Normalize().Mul(radius)
	}

	return geom.Mesh{
		Vertices: vertices,
		Indices: []int{
			0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
			1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
			3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
			4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
		},
	}
}

// Icosphere subdivides an icosahedron, splitting every triangle in four and
// pushing the new vertices back onto the sphere.
func Icosphere(radius float64, subdivisions int) geom.Mesh {
	mesh := Icosahedron(radius)

	for range subdivisions {
		midpoints := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if idx, ok := midpoints[key]; ok {
				return idx
			}
			p := mesh.Vertices[a].Add(mesh.Vertices[b]).Normalize().Mul(radius)
			mesh.Vertices = append(mesh.Vertices, p)
			midpoints[key] = len(mesh.Vertices) - 1
			return len(mesh.Vertices) - 1
		}

		indices := make([]int, 0, len(mesh.Indices)*4)
		for i := 0; i+2 < len(mesh.Indices); i += 3 {
			a, b, c := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
			ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
			indices = append(indices,
				a, ab, ca,
				b, bc, ab,
				c, ca, bc,
				ab, bc, ca)
		}
		mesh.Indices = indices
	}
	return mesh
}

// Cylinder returns a closed prism of segments sides around the Y axis,
// centered on the origin.
func Cylinder(radius, height float64, segments int) geom.Mesh {
	segments = max(3, segments)
	half := height / 2

	var mesh geom.Mesh
	for i := range segments {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		x, z := radius*math.Cos(angle), radius*math.Sin(angle)
		mesh.Vertices = append(mesh.Vertices, mgl64.Vec3{x, -half, z}, mgl64.Vec3{x, half, z})
	}
	bottom := len(mesh.Vertices)
	mesh.Vertices = append(mesh.Vertices, mgl64.Vec3{0, -half, 0}, mgl64.Vec3{0, half, 0})
	top := bottom + 1

	for i := range segments {
		j := (i + 1) % segments
		b0, t0, b1, t1 := 2*i, 2*i+1, 2*j, 2*j+1
		mesh.Indices = append(mesh.Indices,
			b0, t0, t1,
			b0, t1, b1,
			bottom, b0, b1,
			top, t1, t0)
	}
	return mesh
}

// CylinderCloud samples rings of points on the side of a cylinder. axis is
// 0, 1 or 2 for X, Y or Z.
func CylinderCloud(radius, height float64, rings, segments, axis int) []mgl64.Vec3 {
	rings, segments = max(2, rings), max(3, segments)

	points := make([]mgl64.Vec3, 0, rings*segments)
	for r := range rings {
		h := -height/2 + height*float64(r)/float64(rings-1)
		for s := range segments {
			angle := 2 * math.Pi * float64(s) / float64(segments)
			u, v := radius*math.Cos(angle), radius*math.Sin(angle)

			var p mgl64.Vec3
			p[axis] = h
			p[(axis+1)%3] = u
			p[(axis+2)%3] = v
			points = append(points, p)
		}
	}
	return points
}
