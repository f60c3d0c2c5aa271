package qhull

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// newTriangle appends a visible triangular face (v0, v1, v2) to the arena.
// The edges are laid out so that faceEdge(f, 0) ends at v0 and
// faceEdge(f, -1) runs from v1 to v2.
func (b *Builder) newTriangle(v0, v1, v2 int, minArea float64) int {
	f := len(b.faces)
	b.faces = append(b.faces, face{mark: markVisible, outside: none, next: none})

	he0 := b.newHalfEdge(v0, f)
	he1 := b.newHalfEdge(v1, f)
	he2 := b.newHalfEdge(v2, f)

	b.edges[he0].prev, b.edges[he0].next = he2, he1
	b.edges[he1].prev, b.edges[he1].next = he0, he2
	b.edges[he2].prev, b.edges[he2].next = he1, he0

	b.faces[f].he0 = he0
	b.computeNormalAndCentroidMinArea(f, minArea)
	return f
}

// faceEdge walks i edges forward (or backward when negative) from he0.
func (b *Builder) faceEdge(f, i int) int {
	he := b.faces[f].he0
	for ; i > 0; i-- {
		he = b.edges[he].next
	}
	for ; i < 0; i++ {
		he = b.edges[he].prev
	}
	return he
}

func (b *Builder) distanceToPlane(f int, p mgl64.Vec3) float64 {
	fc := &b.faces[f]
	return fc.normal.Dot(p) - fc.planeOffset
}

func (b *Builder) computeCentroid(f int) {
	fc := &b.faces[f]
	var c mgl64.Vec3
	he := fc.he0
	for {
		c = c.Add(b.pnt(b.head(he)))
		he = b.edges[he].next
		if he == fc.he0 {
			break
		}
	}
	fc.centroid = c.Mul(1.0 / float64(fc.numVerts))
}

// computeNormal sums the fan cross products around the first vertex. The
// length of the sum is twice the area; area is stored as that length.
func (b *Builder) computeNormal(f int) {
	fc := &b.faces[f]
	he1 := b.edges[fc.he0].next
	he2 := b.edges[he1].next

	p0 := b.pnt(b.head(fc.he0))
	d2 := b.pnt(b.head(he1)).Sub(p0)

	var n mgl64.Vec3
	numVerts := 2
	for he2 != fc.he0 {
		d1 := d2
		d2 = b.pnt(b.head(he2)).Sub(p0)
		n = n.Add(d1.Cross(d2))
		he2 = b.edges[he2].next
		numVerts++
	}

	fc.numVerts = numVerts
	fc.area = n.Len()
	if fc.area > 0 {
		n = n.Mul(1.0 / fc.area)
	}
	fc.normal = n
}

// computeNormalMinArea is computeNormal with a fix for slivers: when the
// area is below minArea the component along the longest edge is removed.
func (b *Builder) computeNormalMinArea(f int, minArea float64) {
	b.computeNormal(f)

	fc := &b.faces[f]
	if fc.area >= minArea {
		return
	}

	hedgeMax := none
	lenSqrMax := 0.0
	he := fc.he0
	for {
		if lenSqr := b.edgeLengthSquared(he); lenSqr > lenSqrMax {
			hedgeMax = he
			lenSqrMax = lenSqr
		}
		he = b.edges[he].next
		if he == fc.he0 {
			break
		}
	}
	if hedgeMax == none {
		return
	}

	p2 := b.pnt(b.head(hedgeMax))
	p1 := b.pnt(b.tail(hedgeMax))
	u := p2.Sub(p1).Mul(1.0 / math.Sqrt(lenSqrMax))
	n := fc.normal.Sub(u.Mul(fc.normal.Dot(u)))
	if l := n.Len(); l > 0 {
		n = n.Mul(1.0 / l)
	}
	fc.normal = n
}

func (b *Builder) computeNormalAndCentroid(f int) {
	b.computeNormal(f)
	b.computeCentroid(f)

	fc := &b.faces[f]
	fc.planeOffset = fc.normal.Dot(fc.centroid)

	numv := 0
	he := fc.he0
	for {
		numv++
		he = b.edges[he].next
		if he == fc.he0 {
			break
		}
	}
	if numv != fc.numVerts {
		internalErrorf("face %d numVerts=%d should be %d", f, fc.numVerts, numv)
	}
}

func (b *Builder) computeNormalAndCentroidMinArea(f int, minArea float64) {
	b.computeNormalMinArea(f, minArea)
	b.computeCentroid(f)

	fc := &b.faces[f]
	fc.planeOffset = fc.normal.Dot(fc.centroid)
}

// oppFaceDistance returns how far the centroid of the face across he lies
// above the plane of he's own face.
func (b *Builder) oppFaceDistance(he int) float64 {
	return b.distanceToPlane(b.edges[he].face, b.faces[b.oppositeFace(he)].centroid)
}

// mergeAdjacentFace absorbs the face across hedgeAdj into hedgeAdj's face.
// Faces that disappear are written to discarded; their count is returned.
//
// Algorithm:
//  1. Extend the shared boundary in both directions while the neighbour stays the same face
//  2. Re-own the opposite face's remaining edges
//  3. Reconnect both ends, removing redundant vertices (which may discard a third face)
//  4. Recompute the plane and verify the result
func (b *Builder) mergeAdjacentFace(hedgeAdj int, discarded []int) int {
	f := b.edges[hedgeAdj].face
	oppFace := b.oppositeFace(hedgeAdj)
	numDiscarded := 0

	discarded[numDiscarded] = oppFace
	numDiscarded++
	b.faces[oppFace].mark = markDeleted

	hedgeOpp := b.edges[hedgeAdj].opposite

	hedgeAdjPrev := b.edges[hedgeAdj].prev
	hedgeAdjNext := b.edges[hedgeAdj].next
	hedgeOppPrev := b.edges[hedgeOpp].prev
	hedgeOppNext := b.edges[hedgeOpp].next

	for b.oppositeFace(hedgeAdjPrev) == oppFace {
		hedgeAdjPrev = b.edges[hedgeAdjPrev].prev
		hedgeOppNext = b.edges[hedgeOppNext].next
	}
	for b.oppositeFace(hedgeAdjNext) == oppFace {
		hedgeOppPrev = b.edges[hedgeOppPrev].prev
		hedgeAdjNext = b.edges[hedgeAdjNext].next
	}

	end := b.edges[hedgeOppPrev].next
	for he := hedgeOppNext; he != end; he = b.edges[he].next {
		b.edges[he].face = f
	}

	if hedgeAdj == b.faces[f].he0 {
		b.faces[f].he0 = hedgeAdjNext
	}

	// head of the shared boundary
	if d := b.connectHalfEdges(f, hedgeOppPrev, hedgeAdjNext); d != none {
		discarded[numDiscarded] = d
		numDiscarded++
	}
	// tail of the shared boundary
	if d := b.connectHalfEdges(f, hedgeAdjPrev, hedgeOppNext); d != none {
		discarded[numDiscarded] = d
		numDiscarded++
	}

	b.computeNormalAndCentroid(f)
	b.checkConsistency(f)

	return numDiscarded
}

// connectHalfEdges links hedgePrev to hedge inside face f. When both edges
// border the same face the vertex between them is redundant and is removed;
// a triangular neighbour collapses entirely and is returned as discarded.
func (b *Builder) connectHalfEdges(f, hedgePrev, hedge int) int {
	discardedFace := none

	if b.oppositeFace(hedgePrev) != b.oppositeFace(hedge) {
		b.edges[hedgePrev].next = hedge
		b.edges[hedge].prev = hedgePrev
		return discardedFace
	}

	oppFace := b.oppositeFace(hedge)
	var hedgeOpp int

	if hedgePrev == b.faces[f].he0 {
		b.faces[f].he0 = hedge
	}

	if b.faces[oppFace].numVerts == 3 {
		hedgeOpp = b.edges[b.edges[b.edges[hedge].opposite].prev].opposite
		b.faces[oppFace].mark = markDeleted
		discardedFace = oppFace
	} else {
		hedgeOpp = b.edges[b.edges[hedge].opposite].next
		if b.faces[oppFace].he0 == b.edges[hedgeOpp].prev {
			b.faces[oppFace].he0 = hedgeOpp
		}
		b.edges[hedgeOpp].prev = b.edges[b.edges[hedgeOpp].prev].prev
		b.edges[b.edges[hedgeOpp].prev].next = hedgeOpp
	}

	b.edges[hedge].prev = b.edges[hedgePrev].prev
	b.edges[b.edges[hedge].prev].next = hedge

	b.setOpposite(hedge, hedgeOpp)

	b.computeNormalAndCentroid(oppFace)

	return discardedFace
}

// checkConsistency verifies the edge ring of f and its twin links.
func (b *Builder) checkConsistency(f int) {
	fc := &b.faces[f]
	if fc.numVerts < 3 {
		internalErrorf("degenerate face %d with %d vertices", f, fc.numVerts)
	}

	numv := 0
	he := fc.he0
	for {
		opp := b.edges[he].opposite
		if opp == none {
			internalErrorf("face %d: unreflected half edge %d", f, he)
		}
		if b.edges[opp].opposite != he {
			internalErrorf("face %d: opposite half edge %d has opposite %d, want %d", f, opp, b.edges[opp].opposite, he)
		}
		if b.head(opp) != b.tail(he) || b.head(he) != b.tail(opp) {
			internalErrorf("face %d: half edge %d reflected by %d with mismatched vertices", f, he, opp)
		}
		oppFace := b.edges[opp].face
		if oppFace == none {
			internalErrorf("face %d: no face on half edge %d", f, opp)
		}
		if b.faces[oppFace].mark == markDeleted {
			internalErrorf("face %d: opposite face %d not on hull", f, oppFace)
		}
		numv++
		he = b.edges[he].next
		if he == fc.he0 {
			break
		}
	}

	if numv != fc.numVerts {
		internalErrorf("face %d: numVerts=%d should be %d", f, fc.numVerts, numv)
	}
}

// triangulateFace fans f around its first vertex. Every triangle but the last
// is a new face added to newFaces; the last one reuses f.
func (b *Builder) triangulateFace(f int, newFaces *faceList, minArea float64) {
	if b.faces[f].numVerts < 4 {
		return
	}

	he0 := b.faces[f].he0
	v0 := b.head(he0)
	hedge := b.edges[he0].next
	oppPrev := b.edges[hedge].opposite
	face0 := none

	last := b.edges[he0].prev
	for hedge = b.edges[hedge].next; hedge != last; hedge = b.edges[hedge].next {
		nf := b.newTriangle(v0, b.head(b.edges[hedge].prev), b.head(hedge), minArea)
		nfHe0 := b.faces[nf].he0
		b.setOpposite(b.edges[nfHe0].next, oppPrev)
		b.setOpposite(b.edges[nfHe0].prev, b.edges[hedge].opposite)
		oppPrev = nfHe0
		b.addFace(newFaces, nf)
		if face0 == none {
			face0 = nf
		}
	}

	closing := b.newHalfEdge(b.head(b.edges[last].prev), f)
	b.setOpposite(closing, oppPrev)
	b.edges[closing].prev = he0
	b.edges[he0].next = closing
	b.edges[closing].next = last
	b.edges[last].prev = closing

	b.computeNormalAndCentroidMinArea(f, minArea)
	b.checkConsistency(f)
	for nf := face0; nf != none; nf = b.faces[nf].next {
		b.checkConsistency(nf)
	}
}
