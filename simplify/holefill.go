package simplify

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/akmonengine/hullgen/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// HoleFillMethod closes the gap a cut leaves in the polytope
type HoleFillMethod int

const (
	// ConnectEdges chains the cut edges head to tail
	ConnectEdges HoleFillMethod = iota

	// SortVertices orders the unique cut vertices by angle around their center
	SortVertices
)

// MaxConnectIterations bounds the edge chaining loop.
const MaxConnectIterations = 10000

var holeFillNames = [...]string{
	ConnectEdges: "ConnectEdges",
	SortVertices: "SortVertices",
}

func (m HoleFillMethod) String() string {
	if m < 0 || int(m) >= len(holeFillNames) {
		return fmt.Sprintf("HoleFillMethod(%d)", int(m))
	}
	return holeFillNames[m]
}

// ParseHoleFillMethod accepts the names returned by String, case-insensitively.
func ParseHoleFillMethod(name string) (HoleFillMethod, error) {
	for i, n := range holeFillNames {
		if strings.EqualFold(n, name) {
			return HoleFillMethod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown hole fill method %q", name)
}

// ErrUnresolvedCutTopology is matched by every UnresolvedCutTopologyError.
var ErrUnresolvedCutTopology = errors.New("unresolved cut topology")

// UnresolvedCutTopologyError reports cut edges that could not be chained into
// a closed loop. The cap for that cut is skipped.
type UnresolvedCutTopologyError struct {
	Edges       int
	Unconnected int
	Lengths     []float64
}

func (e *UnresolvedCutTopologyError) Error() string {
	return fmt.Sprintf("unresolved cut topology: %d of %d edges unconnected", e.Unconnected, e.Edges)
}

func (e *UnresolvedCutTopologyError) Is(target error) bool {
	return target == ErrUnresolvedCutTopology
}

// fill builds the cap face for one cut and returns the cut edges that were
// left out of it. A nil face with a nil error means the cut had too few
// vertices to close anything.
func (s *Simplifier) fill(plane geom.Plane, cuts []CutEdge) (*Face, []CutEdge, error) {
	switch s.opts.HoleFill {
	case SortVertices:
		return sortVertices(plane, cuts, s.opts.UniqueVertexThreshold), nil, nil
	default:
		return connectEdges(plane, cuts, s.opts.EdgeConnectTolerance, s.opts.LoopCloseTolerance)
	}
}

// connectEdges chains the cuts into a loop starting from the first one. Edges
// still unchained once the loop is closed are returned with the face.
func connectEdges(plane geom.Plane, cuts []CutEdge, connectTolerance, closeTolerance float64) (*Face, []CutEdge, error) {
	if len(cuts) < 3 {
		return nil, nil, nil
	}

	remaining := slices.Clone(cuts[1:])
	loop := []mgl64.Vec3{cuts[0].V0, cuts[0].V1}
	current := cuts[0].V1

	for iteration := 0; len(remaining) > 0; iteration++ {
		if iteration >= MaxConnectIterations {
			return nil, nil, unresolved(cuts, remaining)
		}

		next, index, found := nextVertex(current, remaining, connectTolerance)
		if !found {
			break
		}
		remaining = slices.Delete(remaining, index, index+1)
		loop = append(loop, next)
		current = next
	}

	if len(loop) < 3 {
		return nil, remaining, nil
	}
	if loop[0].Sub(loop[len(loop)-1]).Len() >= closeTolerance {
		return nil, nil, unresolved(cuts, remaining)
	}
	face := &Face{Vertices: loop[:len(loop)-1]}
	face.weld(connectTolerance)
	if len(face.Vertices) < 3 {
		return nil, remaining, nil
	}
	face.orient(plane.Normal)
	return face, remaining, nil
}

// nextVertex finds the edge touching p by either endpoint and returns its
// other endpoint.
func nextVertex(p mgl64.Vec3, edges []CutEdge, tolerance float64) (mgl64.Vec3, int, bool) {
	for i, e := range edges {
		if p.Sub(e.V0).Len() < tolerance {
			return e.V1, i, true
		}
		if p.Sub(e.V1).Len() < tolerance {
			return e.V0, i, true
		}
	}
	return mgl64.Vec3{}, -1, false
}

func unresolved(cuts, remaining []CutEdge) *UnresolvedCutTopologyError {
	lengths := make([]float64, len(remaining))
	for i, e := range remaining {
		lengths[i] = e.Length()
	}
	return &UnresolvedCutTopologyError{
		Edges:       len(cuts),
		Unconnected: len(remaining),
		Lengths:     lengths,
	}
}

func sortVertices(plane geom.Plane, cuts []CutEdge, uniqueThreshold float64) *Face {
	points := make([]mgl64.Vec3, 0, len(cuts)*2)
	for _, e := range cuts {
		points = append(points, e.V0, e.V1)
	}
	unique := geom.UniqueVertices(points, uniqueThreshold)
	if len(unique) < 3 {
		return nil
	}

	center := geom.Centroid(unique)
	t1, t2 := geom.TangentBasis(plane.Normal)

	type polar struct {
		angle float64
		point mgl64.Vec3
	}
	sorted := make([]polar, len(unique))
	for i, p := range unique {
		d := p.Sub(center)
		sorted[i] = polar{angle: math.Atan2(d.Dot(t2), d.Dot(t1)), point: p}
	}
	slices.SortStableFunc(sorted, func(a, b polar) int {
		return cmp.Compare(a.angle, b.angle)
	})

	face := &Face{Vertices: make([]mgl64.Vec3, len(sorted))}
	for i, s := range sorted {
		face.Vertices[i] = s.point
	}
	face.orient(plane.Normal)
	return face
}

// orient reverses the loop when it winds against normal.
func (f *Face) orient(normal mgl64.Vec3) {
	if geom.PolygonNormal(f.Vertices).Dot(normal) < 0 {
		f.Reverse()
	}
}
