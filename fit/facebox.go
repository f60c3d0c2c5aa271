package fit

import (
	"math"

	"github.com/akmonengine/hullgen/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// MinPrimaryAxisLength is the shortest averaged normal still trusted as a
// direction; below it the selection faces every way and +Y is used.
const MinPrimaryAxisLength = 1e-4

// CalcPrimaryAxis averages the normals of the selected triangles. With snap,
// the result is the closest signed world axis.
func CalcPrimaryAxis(mesh geom.Mesh, selection []int, snap bool) mgl64.Vec3 {
	var sum mgl64.Vec3
	count := 0
	for _, tri := range selection {
		if tri < 0 || tri >= mesh.TriangleCount() {
			continue
		}
		a, b, c := mesh.Triangle(tri)
		d0, d1 := b.Sub(a), c.Sub(a)
		if d0.LenSqr() == 0 || d1.LenSqr() == 0 {
			continue
		}
		sum = sum.Add(d0.Normalize().Cross(d1.Normalize()))
		count++
	}

	if count == 0 {
		return mgl64.Vec3{0, 1, 0}
	}
	average := sum.Mul(1 / float64(count))
	if average.Len() < MinPrimaryAxisLength {
		return mgl64.Vec3{0, 1, 0}
	}
	if snap {
		return geom.SnapToDominantAxis(average)
	}
	return average.Normalize()
}

// ExtrudeToThickness grows the box side facing axis so it is at least
// thickness deep. The growth goes against axis, behind the faces.
func ExtrudeToThickness(box BoxDef, axis mgl64.Vec3, thickness float64) BoxDef {
	axes := box.Axes()
	best, bestDot := 0, -1.0
	for i, a := range axes {
		if d := math.Abs(a.Dot(axis)); d > bestDot {
			best, bestDot = i, d
		}
	}

	extra := thickness - box.Size[best]
	if extra <= 0 {
		return box
	}
	dir := axes[best]
	if dir.Dot(axis) < 0 {
		dir = dir.Mul(-1)
	}
	box.Size[best] = thickness
	box.Center = box.Center.Sub(dir.Mul(extra * 0.5))
	return box
}

// FitFaceAsBox fits a thin box over a selection of faces facing axis. A box
// in world space keeps the world axes; otherwise it turns around axis to the
// tightest rectangle.
func FitFaceAsBox(points []mgl64.Vec3, axis mgl64.Vec3, thickness float64, worldAligned bool) BoxDef {
	if len(points) == 0 {
		return zeroBox()
	}
	var box BoxDef
	if worldAligned {
		box = FitAxisAlignedBox(points)
	} else {
		box = FitFaceAlignedBox(points, axis)
	}
	return ExtrudeToThickness(box, axis, thickness)
}
