package hullgen

import (
	"slices"

	"github.com/akmonengine/hullgen/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// edgeKey identifies an edge by its end positions, so triangles that do not
// share vertex indices still connect.
type edgeKey struct {
	a, b mgl64.Vec3
}

// makeEdgeKey orders both ends so a-b and b-a give the same key
func makeEdgeKey(a, b mgl64.Vec3) edgeKey {
	if geom.CompareVec3(b, a) < 0 {
		a, b = b, a
	}
	return edgeKey{a: a, b: b}
}

func triangleEdges(mesh geom.Mesh, tri int) [3]edgeKey {
	a, b, c := mesh.Triangle(tri)
	return [3]edgeKey{makeEdgeKey(a, b), makeEdgeKey(b, c), makeEdgeKey(c, a)}
}

// selectedEdges counts how many selected triangles use each edge.
func selectedEdges(mesh geom.Mesh, selection []int) map[edgeKey]int {
	edges := make(map[edgeKey]int, len(selection)*3)
	for _, tri := range selection {
		for _, e := range triangleEdges(mesh, tri) {
			edges[e]++
		}
	}
	return edges
}

// uniqueTriangles returns the sorted selection without duplicates.
func uniqueTriangles(selection []int) []int {
	sorted := slices.Clone(selection)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}

// validSelection drops the triangles out of the mesh.
func validSelection(mesh geom.Mesh, selection []int) []int {
	valid := make([]int, 0, len(selection))
	for _, tri := range uniqueTriangles(selection) {
		if tri >= 0 && tri < mesh.TriangleCount() {
			valid = append(valid, tri)
		}
	}
	return valid
}

// GrowSelection adds every triangle sharing at least one edge with the
// selection.
func GrowSelection(mesh geom.Mesh, selection []int) []int {
	selection = validSelection(mesh, selection)
	edges := selectedEdges(mesh, selection)

	grown := make([]int, 0, len(selection))
	for tri := range mesh.TriangleCount() {
		if _, ok := slices.BinarySearch(selection, tri); ok {
			grown = append(grown, tri)
			continue
		}
		for _, e := range triangleEdges(mesh, tri) {
			if edges[e] > 0 {
				grown = append(grown, tri)
				break
			}
		}
	}
	return grown
}

// ShrinkSelection removes the border of the selection. The weak shrink keeps
// triangles with at least two interior edges, the strong one only those with
// three. The weak result is used when it changes the selection, then the
// strong one; a shrink that would leave nothing is not applied.
func ShrinkSelection(mesh geom.Mesh, selection []int) []int {
	selection = validSelection(mesh, selection)
	edges := selectedEdges(mesh, selection)

	var weak, strong []int
	for _, tri := range selection {
		interior := 0
		for _, e := range triangleEdges(mesh, tri) {
			if edges[e] > 1 {
				interior++
			}
		}
		if interior >= 2 {
			weak = append(weak, tri)
		}
		if interior == 3 {
			strong = append(strong, tri)
		}
	}

	switch {
	case len(weak) > 0 && len(weak) != len(selection):
		return weak
	case len(strong) > 0 && len(strong) != len(selection):
		return strong
	}
	return selection
}

// InvertSelection returns the triangles not in selection.
func InvertSelection(mesh geom.Mesh, selection []int) []int {
	selection = validSelection(mesh, selection)

	inverted := make([]int, 0, mesh.TriangleCount()-len(selection))
	for tri := range mesh.TriangleCount() {
		if _, ok := slices.BinarySearch(selection, tri); !ok {
			inverted = append(inverted, tri)
		}
	}
	return inverted
}

// SelectAll returns every triangle of the mesh.
func SelectAll(mesh geom.Mesh) []int {
	all := make([]int, mesh.TriangleCount())
	for i := range all {
		all[i] = i
	}
	return all
}

// RemainingTriangles returns the triangles painted by none of the hulls.
func RemainingTriangles(mesh geom.Mesh, hulls []Hull) []int {
	var painted []int
	for _, h := range hulls {
		painted = append(painted, h.SelectedFaces...)
	}
	return InvertSelection(mesh, painted)
}

// PickTriangle returns the triangle hit first by the ray, ignoring the ones
// facing away from it.
func PickTriangle(mesh geom.Mesh, ray geom.Ray, maxDistance float64) (int, bool) {
	hit, ok := geom.Raycast(mesh, ray, maxDistance, false)
	if !ok {
		return -1, false
	}
	return hit.Triangle, true
}

// ToggleTriangle paints tri when it is not selected and erases it otherwise.
func ToggleTriangle(selection []int, tri int) []int {
	if i := slices.Index(selection, tri); i >= 0 {
		return slices.Delete(slices.Clone(selection), i, i+1)
	}
	return append(slices.Clone(selection), tri)
}
