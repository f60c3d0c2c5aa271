// Package qhull builds 3D convex hulls with the incremental QuickHull
// algorithm.
//
// The half-edge graph lives in index arenas (vertices, half-edges, faces)
// instead of pointer cycles. Adjacent faces that are not strictly convex
// within a tolerance derived from the input extents are merged, so a hull
// may contain polygonal faces until it is triangulated.
//
// References:
//   - Barber, Dobkin, Huhdanpaa: "The Quickhull Algorithm for Convex Hulls" (1996)
package qhull

import (
	"fmt"
	"math"

	"github.com/akmonengine/hullgen/geom"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// AutomaticTolerance asks the builder to derive the distance tolerance
	// from the input extents.
	AutomaticTolerance = -1.0

	// DegeneracyFactor scales the tolerance when rejecting colinear and
	// coplanar initial simplices.
	DegeneracyFactor = 100.0

	// ResolveEarlyExitFactor stops the search for a better face when a point
	// is already this many tolerances outside one.
	ResolveEarlyExitFactor = 1000.0

	// TriangulateMinAreaFactor scales charLength·ε into the sliver area below
	// which triangulated normals are stabilized.
	TriangulateMinAreaFactor = 1000.0

	// CheckPointFactor scales the tolerance used when checking that every
	// input point is inside the hull.
	CheckPointFactor = 10.0
)

type mergeMode int

const (
	nonConvexWrtLargerFace mergeMode = iota + 1
	nonConvex
)

// Options configures a hull build.
type Options struct {
	// Tolerance is the distance below which points are considered on a face.
	// AutomaticTolerance (or any value <= 0) derives it from the input.
	Tolerance float64
	// Triangulate splits merged polygonal faces into triangles.
	Triangulate bool
}

// Builder holds the state of one hull construction. A Builder can be reused
// for several builds but is not safe for concurrent use.
type Builder struct {
	vertices []vertex
	edges    []halfEdge
	faces    []face

	hullFaces          []int
	horizon            []int
	discarded          [3]int
	vertexPointIndices []int

	claimed   vertexList
	unclaimed vertexList
	newFaces  faceList

	maxVtx, minVtx [3]int

	explicitTolerance float64
	tolerance         float64
	charLength        float64
	numVertices       int
}

// NewBuilder creates a builder using opts.Tolerance.
func NewBuilder(opts Options) *Builder {
	return &Builder{explicitTolerance: opts.Tolerance}
}

// Reset prepares the builder for reuse by clearing all slices.
func (b *Builder) Reset() {
	b.vertices = b.vertices[:0]
	b.edges = b.edges[:0]
	b.faces = b.faces[:0]
	b.hullFaces = b.hullFaces[:0]
	b.horizon = b.horizon[:0]
	b.vertexPointIndices = b.vertexPointIndices[:0]
	b.clearVertexList(&b.claimed)
	b.clearVertexList(&b.unclaimed)
	b.clearFaceList(&b.newFaces)
	b.numVertices = 0
}

// Tolerance returns the distance tolerance used by the last build.
func (b *Builder) Tolerance() float64 {
	return b.tolerance
}

// NumVertices returns the number of hull vertices.
func (b *Builder) NumVertices() int {
	return b.numVertices
}

// NumFaces returns the number of hull faces.
func (b *Builder) NumFaces() int {
	return len(b.hullFaces)
}

// Build computes the convex hull of points.
//
// Algorithm:
//  1. Derive the tolerance from the axis extrema
//  2. Build an initial tetrahedron, rejecting coincident, colinear and coplanar input
//  3. Assign every other point to the face it is furthest outside of
//  4. Repeatedly add the furthest outside point: carve its horizon, cone new
//     faces to it, merge non-convex neighbours, reassign orphaned points
//  5. Reindex the surviving faces and vertices
func (b *Builder) Build(points []mgl64.Vec3) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			err = ie
		}
	}()

	if len(points) < 4 {
		return &DegenerateInputError{Reason: TooFewPoints, Points: len(points)}
	}

	b.Reset()
	b.initBuffers(points)
	b.computeMaxAndMin()
	if err := b.createInitialSimplex(); err != nil {
		return err
	}

	for eye := b.nextPointToAdd(); eye != none; eye = b.nextPointToAdd() {
		b.addPointToHull(eye)
	}
	b.reindexFacesAndVertices()

	return nil
}

// Triangulate splits every polygonal face into triangles, dropping the
// normal contribution of slivers below 1000·charLength·ε.
func (b *Builder) Triangulate() (err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			err = ie
		}
	}()

	minArea := TriangulateMinAreaFactor * b.charLength * geom.DoublePrecision
	b.clearFaceList(&b.newFaces)
	for _, f := range b.hullFaces {
		if b.faces[f].mark == markVisible {
			b.triangulateFace(f, &b.newFaces, minArea)
		}
	}
	for f := b.newFaces.head; f != none; f = b.faces[f].next {
		b.hullFaces = append(b.hullFaces, f)
	}
	return nil
}

func (b *Builder) initBuffers(points []mgl64.Vec3) {
	if cap(b.vertices) < len(points) {
		b.vertices = make([]vertex, len(points))
	}
	b.vertices = b.vertices[:len(points)]
	for i, p := range points {
		b.vertices[i] = vertex{pnt: p, index: i, prev: none, next: none, face: none}
	}

	b.edges = b.edges[:0]
	b.faces = b.faces[:0]
	b.hullFaces = b.hullFaces[:0]
	b.clearVertexList(&b.claimed)
	b.clearVertexList(&b.unclaimed)
}

func (b *Builder) computeMaxAndMin() {
	for i := 0; i < 3; i++ {
		b.maxVtx[i] = 0
		b.minVtx[i] = 0
	}
	max := b.pnt(0)
	min := b.pnt(0)

	for i := 1; i < len(b.vertices); i++ {
		p := b.pnt(i)
		for k := 0; k < 3; k++ {
			if p[k] > max[k] {
				max[k] = p[k]
				b.maxVtx[k] = i
			} else if p[k] < min[k] {
				min[k] = p[k]
				b.minVtx[k] = i
			}
		}
	}

	b.charLength = math.Max(max[0]-min[0], math.Max(max[1]-min[1], max[2]-min[2]))
	if b.explicitTolerance <= 0 {
		b.tolerance = 3 * geom.DoublePrecision *
			(math.Max(math.Abs(max[0]), math.Abs(min[0])) +
				math.Max(math.Abs(max[1]), math.Abs(min[1])) +
				math.Max(math.Abs(max[2]), math.Abs(min[2])))
	} else {
		b.tolerance = b.explicitTolerance
	}
}

// createInitialSimplex builds the starting tetrahedron from the extreme points.
func (b *Builder) createInitialSimplex() error {
	max := 0.0
	imax := 0
	for i := 0; i < 3; i++ {
		diff := b.pnt(b.maxVtx[i])[i] - b.pnt(b.minVtx[i])[i]
		if diff > max {
			max = diff
			imax = i
		}
	}
	if max <= b.tolerance {
		return &DegenerateInputError{Reason: Coincident, Points: len(b.vertices)}
	}

	var vtx [4]int
	vtx[0] = b.maxVtx[imax]
	vtx[1] = b.minVtx[imax]

	// third point: furthest from the line vtx0-vtx1
	u01 := b.pnt(vtx[1]).Sub(b.pnt(vtx[0])).Normalize()
	var nrml mgl64.Vec3
	maxSqr := 0.0
	for i := range b.vertices {
		xprod := u01.Cross(b.pnt(i).Sub(b.pnt(vtx[0])))
		lenSqr := xprod.LenSqr()
		if lenSqr > maxSqr && i != vtx[0] && i != vtx[1] {
			maxSqr = lenSqr
			vtx[2] = i
			nrml = xprod
		}
	}
	if math.Sqrt(maxSqr) <= DegeneracyFactor*b.tolerance {
		return &DegenerateInputError{Reason: Colinear, Points: len(b.vertices)}
	}
	nrml = nrml.Normalize()
	nrml = nrml.Sub(u01.Mul(nrml.Dot(u01))).Normalize()

	// fourth point: furthest from the plane vtx0-vtx1-vtx2
	maxDist := 0.0
	d0 := b.pnt(vtx[2]).Dot(nrml)
	for i := range b.vertices {
		dist := math.Abs(b.pnt(i).Dot(nrml) - d0)
		if dist > maxDist && i != vtx[0] && i != vtx[1] && i != vtx[2] {
			maxDist = dist
			vtx[3] = i
		}
	}
	if math.Abs(maxDist) <= DegeneracyFactor*b.tolerance {
		return &DegenerateInputError{Reason: Coplanar, Points: len(b.vertices)}
	}

	var tris [4]int
	if b.pnt(vtx[3]).Dot(nrml)-d0 < 0 {
		tris[0] = b.newTriangle(vtx[0], vtx[1], vtx[2], 0)
		tris[1] = b.newTriangle(vtx[3], vtx[1], vtx[0], 0)
		tris[2] = b.newTriangle(vtx[3], vtx[2], vtx[1], 0)
		tris[3] = b.newTriangle(vtx[3], vtx[0], vtx[2], 0)

		for i := 0; i < 3; i++ {
			k := (i + 1) % 3
			b.setOpposite(b.faceEdge(tris[i+1], 1), b.faceEdge(tris[k+1], 0))
			b.setOpposite(b.faceEdge(tris[i+1], 2), b.faceEdge(tris[0], k))
		}
	} else {
		tris[0] = b.newTriangle(vtx[0], vtx[2], vtx[1], 0)
		tris[1] = b.newTriangle(vtx[3], vtx[0], vtx[1], 0)
		tris[2] = b.newTriangle(vtx[3], vtx[1], vtx[2], 0)
		tris[3] = b.newTriangle(vtx[3], vtx[2], vtx[0], 0)

		for i := 0; i < 3; i++ {
			k := (i + 1) % 3
			b.setOpposite(b.faceEdge(tris[i+1], 0), b.faceEdge(tris[k+1], 1))
			b.setOpposite(b.faceEdge(tris[i+1], 2), b.faceEdge(tris[0], (3-i)%3))
		}
	}
	b.hullFaces = append(b.hullFaces, tris[:]...)

	for i := range b.vertices {
		if i == vtx[0] || i == vtx[1] || i == vtx[2] || i == vtx[3] {
			continue
		}

		maxDist = b.tolerance
		maxFace := none
		for _, f := range tris {
			if dist := b.distanceToPlane(f, b.pnt(i)); dist > maxDist {
				maxFace = f
				maxDist = dist
			}
		}
		if maxFace != none {
			b.addPointToFace(i, maxFace)
		}
	}

	return nil
}

func (b *Builder) addPointToFace(v, f int) {
	b.vertices[v].face = f

	if outside := b.faces[f].outside; outside == none {
		b.addVertex(&b.claimed, v)
	} else {
		b.insertVertexBefore(&b.claimed, v, outside)
	}
	b.faces[f].outside = v
}

func (b *Builder) removePointFromFace(v, f int) {
	if v == b.faces[f].outside {
		next := b.vertices[v].next
		if next != none && b.vertices[next].face == f {
			b.faces[f].outside = next
		} else {
			b.faces[f].outside = none
		}
	}
	b.deleteVertex(&b.claimed, v)
}

// removeAllPointsFromFace unlinks the outside chain of f from the claimed
// list and returns its first vertex.
func (b *Builder) removeAllPointsFromFace(f int) int {
	first := b.faces[f].outside
	if first == none {
		return none
	}

	end := first
	for next := b.vertices[end].next; next != none && b.vertices[next].face == f; next = b.vertices[end].next {
		end = next
	}
	b.deleteVertexRange(&b.claimed, first, end)
	b.vertices[end].next = none
	return first
}

// deleteFacePoints hands the outside points of f to absorbingFace when they
// are still outside it, and to the unclaimed list otherwise.
func (b *Builder) deleteFacePoints(f, absorbingFace int) {
	faceVtxs := b.removeAllPointsFromFace(f)
	if faceVtxs == none {
		return
	}

	if absorbingFace == none {
		b.addVertexChain(&b.unclaimed, faceVtxs)
		return
	}

	for v := faceVtxs; v != none; {
		next := b.vertices[v].next
		if b.distanceToPlane(absorbingFace, b.pnt(v)) > b.tolerance {
			b.addPointToFace(v, absorbingFace)
		} else {
			b.addVertex(&b.unclaimed, v)
		}
		v = next
	}
}

// nextPointToAdd returns the claimed point with the largest distance outside
// its face, or none once every point is inside the hull.
func (b *Builder) nextPointToAdd() int {
	eye := none
	maxDist := 0.0
	for v := b.claimed.head; v != none; v = b.vertices[v].next {
		dist := b.distanceToPlane(b.vertices[v].face, b.pnt(v))
		if dist > maxDist {
			maxDist = dist
			eye = v
		}
	}
	return eye
}

func (b *Builder) addPointToHull(eye int) {
	b.horizon = b.horizon[:0]
	b.clearVertexList(&b.unclaimed)

	eyeFace := b.vertices[eye].face
	b.removePointFromFace(eye, eyeFace)
	b.calculateHorizon(b.pnt(eye), none, eyeFace)
	b.addNewFaces(eye)

	// first merge pass: only merge against the larger face
	for f := b.newFaces.head; f != none; f = b.faces[f].next {
		if b.faces[f].mark == markVisible {
			for b.doAdjacentMerge(f, nonConvexWrtLargerFace) {
			}
		}
	}
	// second merge pass: faces left non-convex by the first one
	for f := b.newFaces.head; f != none; f = b.faces[f].next {
		if b.faces[f].mark == markNonConvex {
			b.faces[f].mark = markVisible
			for b.doAdjacentMerge(f, nonConvex) {
			}
		}
	}

	b.resolveUnclaimedPoints()
}

// calculateHorizon deletes every face visible from eye, walking depth first
// across twin edges, and collects the boundary edges of the visible region.
func (b *Builder) calculateHorizon(eye mgl64.Vec3, edge0, f int) {
	b.deleteFacePoints(f, none)
	b.faces[f].mark = markDeleted

	var edge int
	if edge0 == none {
		edge0 = b.faceEdge(f, 0)
		edge = edge0
	} else {
		edge = b.edges[edge0].next
	}

	for {
		oppFace := b.oppositeFace(edge)
		if b.faces[oppFace].mark == markVisible {
			if b.distanceToPlane(oppFace, eye) > b.tolerance {
				b.calculateHorizon(eye, b.edges[edge].opposite, oppFace)
			} else {
				b.horizon = append(b.horizon, edge)
			}
		}
		edge = b.edges[edge].next
		if edge == edge0 {
			break
		}
	}
}

// addAdjoiningFace cones the horizon edge he to eye and returns the new
// face's edge leading into eye.
func (b *Builder) addAdjoiningFace(eye, he int) int {
	f := b.newTriangle(eye, b.tail(he), b.head(he), 0)
	b.hullFaces = append(b.hullFaces, f)
	b.setOpposite(b.faceEdge(f, -1), b.edges[he].opposite)
	return b.faceEdge(f, 0)
}

func (b *Builder) addNewFaces(eye int) {
	b.clearFaceList(&b.newFaces)

	hedgeSidePrev := none
	hedgeSideBegin := none
	for _, he := range b.horizon {
		hedgeSide := b.addAdjoiningFace(eye, he)
		if hedgeSidePrev != none {
			b.setOpposite(b.edges[hedgeSide].next, hedgeSidePrev)
		} else {
			hedgeSideBegin = hedgeSide
		}
		b.addFace(&b.newFaces, b.edges[hedgeSide].face)
		hedgeSidePrev = hedgeSide
	}
	b.setOpposite(b.edges[hedgeSideBegin].next, hedgeSidePrev)
}

// doAdjacentMerge merges f with the first neighbour that breaks convexity
// under mode and reports whether a merge happened.
func (b *Builder) doAdjacentMerge(f int, mode mergeMode) bool {
	he := b.faces[f].he0
	convex := true

	for {
		oppFace := b.oppositeFace(he)
		merge := false

		if mode == nonConvex {
			if b.oppFaceDistance(he) > -b.tolerance || b.oppFaceDistance(b.edges[he].opposite) > -b.tolerance {
				merge = true
			}
		} else if b.faces[f].area > b.faces[oppFace].area {
			if b.oppFaceDistance(he) > -b.tolerance {
				merge = true
			} else if b.oppFaceDistance(b.edges[he].opposite) > -b.tolerance {
				convex = false
			}
		} else {
			if b.oppFaceDistance(b.edges[he].opposite) > -b.tolerance {
				merge = true
			} else if b.oppFaceDistance(he) > -b.tolerance {
				convex = false
			}
		}

		if merge {
			numd := b.mergeAdjacentFace(he, b.discarded[:])
			for i := 0; i < numd; i++ {
				b.deleteFacePoints(b.discarded[i], f)
			}
			return true
		}

		he = b.edges[he].next
		if he == b.faces[f].he0 {
			break
		}
	}

	if !convex {
		b.faces[f].mark = markNonConvex
	}
	return false
}

// resolveUnclaimedPoints assigns each orphaned point to the new face it is
// furthest outside of. Points inside every new face are dropped.
func (b *Builder) resolveUnclaimedPoints() {
	for v := b.unclaimed.head; v != none; {
		next := b.vertices[v].next

		maxDist := b.tolerance
		maxFace := none
		for f := b.newFaces.head; f != none; f = b.faces[f].next {
			if b.faces[f].mark != markVisible {
				continue
			}
			if dist := b.distanceToPlane(f, b.pnt(v)); dist > maxDist {
				maxDist = dist
				maxFace = f
			}
			if maxDist > ResolveEarlyExitFactor*b.tolerance {
				break
			}
		}
		if maxFace != none {
			b.addPointToFace(v, maxFace)
		}

		v = next
	}
}

func (b *Builder) reindexFacesAndVertices() {
	for i := range b.vertices {
		b.vertices[i].index = -1
	}

	kept := b.hullFaces[:0]
	for _, f := range b.hullFaces {
		if b.faces[f].mark != markVisible {
			continue
		}
		kept = append(kept, f)
		he := b.faces[f].he0
		for {
			b.vertices[b.head(he)].index = 0
			he = b.edges[he].next
			if he == b.faces[f].he0 {
				break
			}
		}
	}
	b.hullFaces = kept

	b.numVertices = 0
	b.vertexPointIndices = b.vertexPointIndices[:0]
	for i := range b.vertices {
		if b.vertices[i].index == 0 {
			b.vertexPointIndices = append(b.vertexPointIndices, i)
			b.vertices[i].index = b.numVertices
			b.numVertices++
		}
	}
}

// Vertices returns the hull vertices in output order.
func (b *Builder) Vertices() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(b.vertexPointIndices))
	for i, p := range b.vertexPointIndices {
		out[i] = b.pnt(p)
	}
	return out
}

// VertexPointIndices maps every hull vertex to its input point index.
func (b *Builder) VertexPointIndices() []int {
	return append([]int(nil), b.vertexPointIndices...)
}

// Faces returns the vertex indices of every face, counter-clockwise seen
// from outside.
func (b *Builder) Faces() [][]int {
	out := make([][]int, 0, len(b.hullFaces))
	for _, f := range b.hullFaces {
		var indices []int
		he := b.faces[f].he0
		for {
			indices = append(indices, b.vertices[b.head(he)].index)
			he = b.edges[he].next
			if he == b.faces[f].he0 {
				break
			}
		}
		out = append(out, indices)
	}
	return out
}

// Check verifies the hull: every face is consistent and convex with respect
// to its neighbours within tol, and no input point lies more than 10·tol
// outside any face.
func (b *Builder) Check(tol float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			err = ie
		}
	}()

	for _, f := range b.hullFaces {
		if b.faces[f].mark != markVisible {
			continue
		}
		if err := b.checkFaceConvexity(f, tol); err != nil {
			return err
		}
	}

	pointTol := CheckPointFactor * tol
	for i := range b.vertices {
		for _, f := range b.hullFaces {
			if b.faces[f].mark != markVisible {
				continue
			}
			if dist := b.distanceToPlane(f, b.pnt(i)); dist > pointTol {
				return fmt.Errorf("qhull: point %d is %g above face %d", i, dist, f)
			}
		}
	}
	return nil
}

func (b *Builder) checkFaceConvexity(f int, tol float64) error {
	he := b.faces[f].he0
	for {
		b.checkConsistency(f)

		if dist := b.oppFaceDistance(he); dist > tol {
			return fmt.Errorf("qhull: edge %d of face %d non-convex by %g", he, f, dist)
		}
		if dist := b.oppFaceDistance(b.edges[he].opposite); dist > tol {
			return fmt.Errorf("qhull: opposite edge %d of face %d non-convex by %g", he, f, dist)
		}
		if b.oppositeFace(b.edges[he].next) == b.oppositeFace(he) {
			return fmt.Errorf("qhull: redundant vertex %d in face %d", b.head(he), f)
		}

		he = b.edges[he].next
		if he == b.faces[f].he0 {
			break
		}
	}
	return nil
}
