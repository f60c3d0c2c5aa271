package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// minGridCellSize keeps the cell size strictly positive for exact welding.
const minGridCellSize = 1e-9

// CellKey - Coordonnées d'une cellule dans l'espace 3D
type CellKey struct {
	X, Y, Z int
}

// VertexGrid is a uniform spatial hash over points, used to weld vertices
// closer than a threshold without comparing every pair.
type VertexGrid struct {
	cellSize float64
	cells    [][]int
	cellMask int
	points   []mgl64.Vec3
}

// NewVertexGrid creates a grid whose cells are cellSize wide, hashed into
// numCells buckets (rounded up to a power of two).
func NewVertexGrid(cellSize float64, numCells int) *VertexGrid {
	numCells = nextPowerOfTwo(numCells)

	return &VertexGrid{
		cellSize: math.Max(cellSize, minGridCellSize),
		cells:    make([][]int, numCells),
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo - Arrondit à la puissance de 2 supérieure
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Points returns the points inserted so far, in insertion order.
func (g *VertexGrid) Points() []mgl64.Vec3 {
	return g.points
}

// Find returns the index of the first inserted point within threshold of p.
func (g *VertexGrid) Find(p mgl64.Vec3, threshold float64) (int, bool) {
	center := g.worldToCell(p)
	thresholdSqr := threshold * threshold

	best := -1
	for x := center.X - 1; x <= center.X+1; x++ {
		for y := center.Y - 1; y <= center.Y+1; y++ {
			for z := center.Z - 1; z <= center.Z+1; z++ {
				for _, idx := range g.cells[g.hashCell(CellKey{x, y, z})] {
					if g.points[idx].Sub(p).LenSqr() > thresholdSqr {
						continue
					}
					// Buckets are shared between cells, keep the lowest index for determinism.
					if best == -1 || idx < best {
						best = idx
					}
				}
			}
		}
	}
	return best, best != -1
}

// Insert adds p unconditionally and returns its index.
func (g *VertexGrid) Insert(p mgl64.Vec3) int {
	idx := len(g.points)
	g.points = append(g.points, p)

	cellIdx := g.hashCell(g.worldToCell(p))
	g.cells[cellIdx] = append(g.cells[cellIdx], idx)
	return idx
}

// Weld returns the index of an existing point within threshold of p, or
// inserts p.
func (g *VertexGrid) Weld(p mgl64.Vec3, threshold float64) int {
	if idx, ok := g.Find(p, threshold); ok {
		return idx
	}
	return g.Insert(p)
}

// worldToCell - Convertit une position monde en coordonnées de cellule
func (g *VertexGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / g.cellSize)),
		Y: int(math.Floor(pos.Y() / g.cellSize)),
		Z: int(math.Floor(pos.Z() / g.cellSize)),
	}
}

// hashCell - Hash une cellule vers un index dans l'array
func (g *VertexGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & g.cellMask
}

// UniqueVertices drops every point lying within threshold of an earlier one.
func UniqueVertices(points []mgl64.Vec3, threshold float64) []mgl64.Vec3 {
	grid := NewVertexGrid(threshold, len(points))
	for _, p := range points {
		grid.Weld(p, threshold)
	}
	return grid.Points()
}

// WeldMesh merges vertices closer than threshold and remaps the indices.
// Triangles are kept even when they become degenerate.
func WeldMesh(mesh Mesh, threshold float64) Mesh {
	grid := NewVertexGrid(threshold, len(mesh.Vertices))
	remap := make([]int, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		remap[i] = grid.Weld(v, threshold)
	}

	indices := make([]int, len(mesh.Indices))
	for i, idx := range mesh.Indices {
		indices[i] = remap[idx]
	}
	return Mesh{Vertices: grid.Points(), Indices: indices}
}
