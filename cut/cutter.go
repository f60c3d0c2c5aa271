package cut

import (
	"github.com/akmonengine/hullgen/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultPlaneTolerance is the distance under which a vertex counts as lying
// on the cutting plane.
const DefaultPlaneTolerance = 1e-6

// MeshCutter splits a mesh in two by a plane. Front is the side the plane
// normal points to. Triangles on the plane go to both sides.
type MeshCutter struct {
	Tolerance float64

	front *CuttableMesh
	back  *CuttableMesh
}

func NewMeshCutter() *MeshCutter {
	return &MeshCutter{Tolerance: DefaultPlaneTolerance}
}

// Cut replaces the outputs of the previous cut.
func (mc *MeshCutter) Cut(mesh *CuttableMesh, plane geom.Plane) {
	mc.front = newCuttableMesh(mesh.weld)
	mc.back = newCuttableMesh(mesh.weld)

	points := mesh.Points()
	for i := 0; i+2 < len(mesh.indices); i += 3 {
		triangle := []mgl64.Vec3{points[mesh.indices[i]], points[mesh.indices[i+1]], points[mesh.indices[i+2]]}

		if f := clipPolygon(triangle, plane, true, mc.Tolerance); len(f) >= 3 {
			mc.front.AddPolygon(f)
		}
		if b := clipPolygon(triangle, plane, false, mc.Tolerance); len(b) >= 3 {
			mc.back.AddPolygon(b)
		}
	}
}

// FrontOutput returns what lies in front of the last plane.
func (mc *MeshCutter) FrontOutput() *CuttableMesh {
	return mc.front
}

// BackOutput returns what lies behind the last plane.
func (mc *MeshCutter) BackOutput() *CuttableMesh {
	return mc.back
}

// clipPolygon keeps the part of polygon on one side of the plane, vertices
// within tolerance of it included.
func clipPolygon(polygon []mgl64.Vec3, plane geom.Plane, keepFront bool, tolerance float64) []mgl64.Vec3 {
	if len(polygon) == 0 {
		return polygon
	}

	side := func(p mgl64.Vec3) float64 {
		d := plane.SignedDistance(p)
		if keepFront {
			return d
		}
		return -d
	}

	var output []mgl64.Vec3
	for i := range polygon {
		current := polygon[i]
		next := polygon[(i+1)%len(polygon)]

		currentInside := side(current) >= -tolerance
		nextInside := side(next) >= -tolerance

		if currentInside {
			output = append(output, current)
		}
		if currentInside != nextInside {
			output = append(output, plane.SegmentIntersection(current, next))
		}
	}
	return output
}
