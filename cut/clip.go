package cut

import (
	"math"

	"github.com/akmonengine/hullgen/geom"
	"github.com/akmonengine/hullgen/gjk"
	"github.com/akmonengine/hullgen/qhull"
)

const (
	// MinPlaneNormalLength skips sliver triangles: the cross product of their
	// unit edges is the sine of their sharpest angle.
	MinPlaneNormalLength   = 0.01
	PlaneDistanceTolerance = 0.01
	// PlaneAngleTolerance is 0.01 degree.
	PlaneAngleTolerance = 0.01 * math.Pi / 180
)

// ConvertToPlanes returns the unique outward planes of a convex mesh.
func ConvertToPlanes(convex geom.Mesh) []geom.Plane {
	var planes []geom.Plane
	for i := 0; i < convex.TriangleCount(); i++ {
		a, b, c := convex.Triangle(i)
		e0, e1 := b.Sub(a), c.Sub(a)
		if e0.LenSqr() == 0 || e1.LenSqr() == 0 {
			continue
		}
		n := e0.Normalize().Cross(e1.Normalize())
		if n.Len() <= MinPlaneNormalLength {
			continue
		}

		plane := geom.NewPlane(n, a)
		duplicate := false
		for _, p := range planes {
			if p.ApproxEqual(plane, PlaneAngleTolerance, PlaneDistanceTolerance) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			planes = append(planes, plane)
		}
	}
	return planes
}

// ClipMesh intersects input with the convex volume of bounding. The input is
// cut by each bounding plane in turn and re-hulled after every cut, so the
// result is always a closed convex mesh. It returns false when nothing of the
// input remains.
func ClipMesh(bounding, input geom.Mesh) (geom.Mesh, bool) {
	if bounding.IsEmpty() || input.IsEmpty() {
		return geom.Mesh{}, false
	}
	if !gjk.Intersect(gjk.PointCloud(bounding.Vertices), gjk.PointCloud(input.Vertices)) {
		return geom.Mesh{}, false
	}

	current := NewCuttableMesh(input)
	cutter := NewMeshCutter()
	for _, plane := range ConvertToPlanes(bounding) {
		cutter.Cut(current, plane)

		back := cutter.BackOutput()
		if back.IsEmpty() {
			return geom.Mesh{}, false
		}
		hull, err := qhull.BuildConvexHull(back.Mesh().Vertices)
		if err != nil {
			// flattened onto the plane, no volume left
			return geom.Mesh{}, false
		}
		current = NewCuttableMesh(hull)
	}

	result := current.Mesh()
	if result.IsEmpty() {
		return geom.Mesh{}, false
	}
	return result, true
}
