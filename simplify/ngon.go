package simplify

import (
	"slices"

	"github.com/akmonengine/hullgen/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Face is a planar polygon, counter-clockwise seen from outside.
type Face struct {
	Vertices []mgl64.Vec3
}

// Center returns the average of the face vertices.
func (f Face) Center() mgl64.Vec3 {
	return geom.Centroid(f.Vertices)
}

// Area sums the triangles fanned from the center.
func (f Face) Area() float64 {
	center := f.Center()
	area := 0.0
	for i := range f.Vertices {
		area += geom.TriangleArea(center, f.Vertices[i], f.Vertices[(i+1)%len(f.Vertices)])
	}
	return area
}

// Normal returns the unit best-fit normal of the vertex loop, or +Y for a
// face without area.
func (f Face) Normal() mgl64.Vec3 {
	if len(f.Vertices) < 3 {
		return mgl64.Vec3{0, 1, 0}
	}
	n := geom.PolygonNormal(f.Vertices)
	if l := n.Len(); l > 0 {
		return n.Mul(1.0 / l)
	}
	return mgl64.Vec3{0, 1, 0}
}

// Plane returns the plane of the face through its center.
func (f Face) Plane() geom.Plane {
	return geom.NewPlane(f.Normal(), f.Center())
}

// weld drops every vertex within threshold of the one before it, the loop
// being closed.
func (f *Face) weld(threshold float64) {
	if len(f.Vertices) == 0 {
		return
	}
	kept := f.Vertices[:1]
	for _, v := range f.Vertices[1:] {
		if v.Sub(kept[len(kept)-1]).Len() > threshold {
			kept = append(kept, v)
		}
	}
	for len(kept) > 1 && kept[len(kept)-1].Sub(kept[0]).Len() <= threshold {
		kept = kept[:len(kept)-1]
	}
	f.Vertices = kept
}

// Reverse flips the winding in place.
func (f *Face) Reverse() {
	slices.Reverse(f.Vertices)
}

// CutEdge is the segment a clip plane leaves across one face, from where the
// face boundary exits the kept side to where it enters it again.
type CutEdge struct {
	V0, V1 mgl64.Vec3
}

// Length returns the segment length.
func (e CutEdge) Length() float64 {
	return e.V1.Sub(e.V0).Len()
}

// NgonHull is a convex polytope stored as a soup of polygonal faces.
type NgonHull struct {
	Faces []Face
}

// FromBounds builds the 6 quads of an axis-aligned box.
func FromBounds(bounds geom.AABB) *NgonHull {
	corners := bounds.Corners()
	hull := &NgonHull{Faces: make([]Face, 0, len(geom.BoxFaces))}
	for _, quad := range geom.BoxFaces {
		f := Face{Vertices: make([]mgl64.Vec3, 4)}
		for i, c := range quad {
			f.Vertices[i] = corners[c]
		}
		hull.Faces = append(hull.Faces, f)
	}
	return hull
}

// Clip keeps the part of the hull behind plane and returns the cut edges left
// on the clipped faces. Vertices within threshold of the plane count as lying
// on it, and cut edges shorter than threshold are dropped. Faces reduced to
// fewer than 3 vertices are dropped.
func (h *NgonHull) Clip(plane geom.Plane, threshold float64) []CutEdge {
	var cuts []CutEdge
	faces := make([]Face, 0, len(h.Faces)+1)

	for _, f := range h.Faces {
		out, cut, ok := clipFace(f, plane, threshold)
		if ok {
			cuts = append(cuts, cut)
		}
		if len(out.Vertices) >= 3 {
			faces = append(faces, out)
		}
	}

	h.Faces = faces
	return cuts
}

// clipFace is a single Sutherland-Hodgman pass. The returned edge runs from
// the point where the boundary exits the kept side to the point where it
// enters it again. A vertex on the plane is its own exit or entry point, no
// intersection is added next to it.
func clipFace(face Face, plane geom.Plane, threshold float64) (Face, CutEdge, bool) {
	var out Face
	var cut CutEdge
	exited, entered := false, false
	n := len(face.Vertices)

	for i := 0; i < n; i++ {
		current := face.Vertices[i]
		next := face.Vertices[(i+1)%n]

		dCurrent := plane.SignedDistance(current)
		dNext := plane.SignedDistance(next)
		keepCurrent := dCurrent <= threshold
		keepNext := dNext <= threshold

		if keepCurrent {
			out.Vertices = append(out.Vertices, current)
		}
		switch {
		case keepCurrent && !keepNext:
			cut.V0 = current
			if dCurrent < -threshold {
				cut.V0 = plane.SegmentIntersection(current, next)
				out.Vertices = append(out.Vertices, cut.V0)
			}
			exited = true
		case !keepCurrent && keepNext:
			cut.V1 = next
			if dNext < -threshold {
				cut.V1 = plane.SegmentIntersection(current, next)
				out.Vertices = append(out.Vertices, cut.V1)
			}
			entered = true
		}
	}

	out.weld(threshold)
	if !exited || !entered || cut.Length() <= threshold {
		return out, CutEdge{}, false
	}
	return out, cut, true
}

// RemoveSmallFaces drops faces whose area is below minArea and returns how
// many were removed.
func (h *NgonHull) RemoveSmallFaces(minArea float64) int {
	kept := h.Faces[:0]
	for _, f := range h.Faces {
		if f.Area() >= minArea {
			kept = append(kept, f)
		}
	}
	removed := len(h.Faces) - len(kept)
	h.Faces = kept
	return removed
}

// Translate moves every vertex by offset.
func (h *NgonHull) Translate(offset mgl64.Vec3) {
	for i := range h.Faces {
		for j := range h.Faces[i].Vertices {
			h.Faces[i].Vertices[j] = h.Faces[i].Vertices[j].Add(offset)
		}
	}
}

// Planes returns the plane of every face.
func (h *NgonHull) Planes() []geom.Plane {
	planes := make([]geom.Plane, len(h.Faces))
	for i, f := range h.Faces {
		planes[i] = f.Plane()
	}
	return planes
}

// ToMesh fans every face from its center. Each face gets its own copy of its
// vertices, preceded by the center.
func (h *NgonHull) ToMesh() geom.Mesh {
	var m geom.Mesh
	base := 0
	for _, f := range h.Faces {
		m.Vertices = append(m.Vertices, f.Center())
		m.Vertices = append(m.Vertices, f.Vertices...)

		n := len(f.Vertices)
		for j := 0; j < n; j++ {
			m.Indices = append(m.Indices, base, base+j+1, base+(j+1)%n+1)
		}
		base += n + 1
	}
	return m
}
