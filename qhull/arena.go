package qhull

import "github.com/go-gl/mathgl/mgl64"

// none marks an absent link in the arena.
const none = -1

// vertex wraps one input point. Its position in Builder.vertices is the
// input index.
type vertex struct {
	pnt   mgl64.Vec3
	index int // output index once reindexed, -1 otherwise
	prev  int
	next  int
	face  int // face claiming this point as outside
}

// halfEdge runs from the head of prev to vertex, counter-clockwise around face.
type halfEdge struct {
	vertex   int
	face     int
	next     int
	prev     int
	opposite int
}

type faceMark uint8

const (
	markVisible faceMark = iota + 1
	markNonConvex
	markDeleted
)

type face struct {
	he0         int
	normal      mgl64.Vec3
	centroid    mgl64.Vec3
	planeOffset float64
	area        float64
	numVerts    int
	mark        faceMark
	outside     int // first claimed vertex
	next        int // link in a faceList
}

// vertexList is a doubly linked list threaded through Builder.vertices.
type vertexList struct {
	head, tail int
}

// faceList is a singly linked list threaded through Builder.faces.
type faceList struct {
	head, tail int
}

func (b *Builder) pnt(v int) mgl64.Vec3 {
	return b.vertices[v].pnt
}

func (b *Builder) newHalfEdge(v, f int) int {
	b.edges = append(b.edges, halfEdge{vertex: v, face: f, next: none, prev: none, opposite: none})
	return len(b.edges) - 1
}

func (b *Builder) head(he int) int {
	return b.edges[he].vertex
}

func (b *Builder) tail(he int) int {
	if prev := b.edges[he].prev; prev != none {
		return b.edges[prev].vertex
	}
	return none
}

func (b *Builder) oppositeFace(he int) int {
	if opp := b.edges[he].opposite; opp != none {
		return b.edges[opp].face
	}
	return none
}

func (b *Builder) setOpposite(he, opp int) {
	b.edges[he].opposite = opp
	b.edges[opp].opposite = he
}

func (b *Builder) edgeLengthSquared(he int) float64 {
	t := b.tail(he)
	if t == none {
		return -1
	}
	return b.pnt(b.head(he)).Sub(b.pnt(t)).LenSqr()
}

func (b *Builder) clearVertexList(l *vertexList) {
	l.head, l.tail = none, none
}

func (b *Builder) addVertex(l *vertexList, v int) {
	if l.head == none {
		l.head = v
	} else {
		b.vertices[l.tail].next = v
	}
	b.vertices[v].prev = l.tail
	b.vertices[v].next = none
	l.tail = v
}

// addVertexChain appends v and every vertex linked after it.
func (b *Builder) addVertexChain(l *vertexList, v int) {
	if l.head == none {
		l.head = v
	} else {
		b.vertices[l.tail].next = v
	}
	b.vertices[v].prev = l.tail
	for b.vertices[v].next != none {
		v = b.vertices[v].next
	}
	l.tail = v
}

func (b *Builder) deleteVertex(l *vertexList, v int) {
	vx := &b.vertices[v]
	if vx.prev == none {
		l.head = vx.next
	} else {
		b.vertices[vx.prev].next = vx.next
	}
	if vx.next == none {
		l.tail = vx.prev
	} else {
		b.vertices[vx.next].prev = vx.prev
	}
}

// deleteVertexRange unlinks the chain v1..v2 (inclusive).
func (b *Builder) deleteVertexRange(l *vertexList, v1, v2 int) {
	prev := b.vertices[v1].prev
	next := b.vertices[v2].next
	if prev == none {
		l.head = next
	} else {
		b.vertices[prev].next = next
	}
	if next == none {
		l.tail = prev
	} else {
		b.vertices[next].prev = prev
	}
}

func (b *Builder) insertVertexBefore(l *vertexList, v, next int) {
	prev := b.vertices[next].prev
	b.vertices[v].prev = prev
	if prev == none {
		l.head = v
	} else {
		b.vertices[prev].next = v
	}
	b.vertices[v].next = next
	b.vertices[next].prev = v
}

func (b *Builder) clearFaceList(l *faceList) {
	l.head, l.tail = none, none
}

func (b *Builder) addFace(l *faceList, f int) {
	if l.head == none {
		l.head = f
	} else {
		b.faces[l.tail].next = f
	}
	b.faces[f].next = none
	l.tail = f
}
