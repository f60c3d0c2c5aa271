package hullgen

import (
	"fmt"

	"github.com/akmonengine/hullgen/cut"
	"github.com/akmonengine/hullgen/geom"
	"github.com/akmonengine/hullgen/qhull"
	"github.com/akmonengine/hullgen/simplify"
	"github.com/go-gl/mathgl/mgl64"
)

// convexHull builds the hull of the selection and simplifies it when it has
// at least MaxPlanes triangles.
func (g *Generator) convexHull(c *Collider, hull Hull, points []mgl64.Vec3) error {
	mesh, faces, simplified, err := g.boundedHull(hull, points)
	if err != nil {
		return fmt.Errorf("hull %q: %w", hull.Name, err)
	}
	c.Mesh, c.FaceCount, c.Simplified = mesh, faces, simplified
	return nil
}

func (g *Generator) boundedHull(hull Hull, points []mgl64.Vec3) (geom.Mesh, int, bool, error) {
	h, err := qhull.Build(points, qhull.Options{Tolerance: qhull.AutomaticTolerance, Triangulate: true})
	if err != nil {
		return geom.Mesh{}, 0, false, err
	}
	mesh := h.Mesh()
	faces := mesh.TriangleCount()

	maxPlanes := hull.MaxPlanes
	if maxPlanes <= 0 {
		maxPlanes = DefaultMaxPlanes
	}
	if faces < maxPlanes {
		return mesh, faces, false, nil
	}

	opts := g.config.Simplify
	opts.MaxFaces = maxPlanes
	opts.Selection = simplify.DisparateAngle
	opts.Rating = nil
	opts.HoleFill = simplify.SortVertices
	result, err := simplify.New(opts).Simplify(mesh)
	if err != nil {
		return geom.Mesh{}, faces, false, err
	}
	g.logger.Debug("hullgen: hull simplified", "hull", hull.Name, "faces", faces, "planes", maxPlanes)
	return result.Mesh, faces, true, nil
}

// faceSlab extrudes every selected triangle backwards by thickness and
// returns the hull of both layers.
func faceSlab(mesh geom.Mesh, selection []int, thickness float64) (geom.Mesh, error) {
	points := make([]mgl64.Vec3, 0, len(selection)*6)
	for _, tri := range selection {
		a, b, c := mesh.Triangle(tri)
		points = append(points, a, b, c)

		n := geom.TriangleNormal(a, b, c)
		if n.Len() == 0 {
			continue
		}
		offset := n.Normalize().Mul(-thickness)
		points = append(points, a.Add(offset), b.Add(offset), c.Add(offset))
	}

	slab, err := qhull.BuildConvexHull(points)
	if err != nil {
		return geom.Mesh{}, fmt.Errorf("face slab: %w", err)
	}
	return slab, nil
}

// auto clips every decomposition piece by the hull of the selection. A
// selection covering the whole mesh keeps the pieces as they are.
func (g *Generator) auto(c *Collider, input Input, hull Hull, points []mgl64.Vec3) error {
	bounds, faces, simplified, err := g.boundedHull(hull, points)
	if err != nil {
		return fmt.Errorf("hull %q: auto bounds: %w", hull.Name, err)
	}
	c.Mesh, c.FaceCount, c.Simplified = bounds, faces, simplified

	if len(uniqueTriangles(hull.SelectedFaces)) == input.Mesh.TriangleCount() {
		c.AutoMeshes = append([]geom.Mesh(nil), input.AutoHulls...)
		return nil
	}

	clipped := make([]geom.Mesh, len(input.AutoHulls))
	kept := make([]bool, len(input.AutoHulls))
	pieces := make([]int, len(input.AutoHulls))
	for i := range pieces {
		pieces[i] = i
	}
	task(g.config.Workers, pieces, func(i int) {
		clipped[i], kept[i] = cut.ClipMesh(bounds, input.AutoHulls[i])
	})

	for i, ok := range kept {
		if ok {
			c.AutoMeshes = append(c.AutoMeshes, clipped[i])
		}
	}
	g.logger.Debug("hullgen: auto pieces clipped", "hull", hull.Name, "pieces", len(input.AutoHulls), "kept", len(c.AutoMeshes))
	return nil
}
