package qhull

import (
	"fmt"

	"github.com/akmonengine/hullgen/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Hull is the result of a build, detached from the half-edge arena.
type Hull struct {
	// Vertices are the hull vertices; PointIndices[i] is the input index of Vertices[i].
	Vertices     []mgl64.Vec3
	PointIndices []int
	// Faces hold vertex indices, counter-clockwise seen from outside.
	Faces     [][]int
	Tolerance float64
}

// Build computes the hull of points with the given options.
func Build(points []mgl64.Vec3, opts Options) (*Hull, error) {
	b := NewBuilder(opts)
	if err := b.Build(points); err != nil {
		return nil, err
	}
	if opts.Triangulate {
		if err := b.Triangulate(); err != nil {
			return nil, err
		}
	}
	return b.Hull(), nil
}

// BuildConvexHull returns the triangulated convex hull of points as a mesh.
func BuildConvexHull(points []mgl64.Vec3) (geom.Mesh, error) {
	h, err := Build(points, Options{Tolerance: AutomaticTolerance, Triangulate: true})
	if err != nil {
		return geom.Mesh{}, fmt.Errorf("build convex hull: %w", err)
	}
	return h.Mesh(), nil
}

// Hull extracts the current result of the builder.
func (b *Builder) Hull() *Hull {
	return &Hull{
		Vertices:     b.Vertices(),
		PointIndices: b.VertexPointIndices(),
		Faces:        b.Faces(),
		Tolerance:    b.tolerance,
	}
}

// EdgeCount returns the number of undirected edges.
func (h *Hull) EdgeCount() int {
	halfEdges := 0
	for _, f := range h.Faces {
		halfEdges += len(f)
	}
	return halfEdges / 2
}

// Mesh fans every face around its first vertex.
func (h *Hull) Mesh() geom.Mesh {
	m := geom.Mesh{Vertices: append([]mgl64.Vec3(nil), h.Vertices...)}
	for _, f := range h.Faces {
		for i := 1; i+1 < len(f); i++ {
			m.Indices = append(m.Indices, f[0], f[i], f[i+1])
		}
	}
	return m
}

// FacePlanes returns the outward plane of every face.
func (h *Hull) FacePlanes() []geom.Plane {
	planes := make([]geom.Plane, 0, len(h.Faces))
	for _, f := range h.Faces {
		loop := make([]mgl64.Vec3, len(f))
		for i, idx := range f {
			loop[i] = h.Vertices[idx]
		}
		n := geom.PolygonNormal(loop)
		if n.Len() == 0 {
			continue
		}
		planes = append(planes, geom.NewPlane(n, geom.Centroid(loop)))
	}
	return planes
}
