// Package simplify reduces a convex hull to a bounded number of faces.
//
// The hull bounds are used as a seed box which is then cut by the hull's own
// face planes, best rated first, until the face budget is spent. Every cut
// only removes space outside the original hull, so the result always
// contains it.
package simplify

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/akmonengine/hullgen/geom"
	"github.com/akmonengine/hullgen/qhull"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultMaxFaces               = 255
	DefaultMinFaceArea            = 1e-5
	DefaultEdgeConnectTolerance   = 1.5e-5
	DefaultLoopCloseTolerance     = 1e-4
	DefaultUniqueVertexThreshold  = 1e-6
	DefaultPlaneAngleTolerance    = 0.01 // radians
	DefaultPlaneDistanceTolerance = 0.01

	boxFaces = 6
)

// Options tunes a Simplifier. Zero values fall back to the defaults; the
// thresholds are scale dependent and were tuned for meshes around one unit.
type Options struct {
	MaxFaces  int
	Selection PlaneSelection
	// Rating overrides Selection when set.
	Rating   RatingFunc
	HoleFill HoleFillMethod

	MinFaceArea            float64
	EdgeConnectTolerance   float64
	LoopCloseTolerance     float64
	UniqueVertexThreshold  float64
	PlaneAngleTolerance    float64
	PlaneDistanceTolerance float64

	Logger *slog.Logger
}

// DefaultOptions cuts with DisparateAngle and fills with SortVertices.
func DefaultOptions() Options {
	return Options{
		MaxFaces:               DefaultMaxFaces,
		Selection:              DisparateAngle,
		HoleFill:               SortVertices,
		MinFaceArea:            DefaultMinFaceArea,
		EdgeConnectTolerance:   DefaultEdgeConnectTolerance,
		LoopCloseTolerance:     DefaultLoopCloseTolerance,
		UniqueVertexThreshold:  DefaultUniqueVertexThreshold,
		PlaneAngleTolerance:    DefaultPlaneAngleTolerance,
		PlaneDistanceTolerance: DefaultPlaneDistanceTolerance,
	}
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

// Result holds the simplified mesh with some statistics about the run.
type Result struct {
	Mesh geom.Mesh
	Hull *NgonHull
	// AppliedPlanes starts with the 6 bound planes, followed by every candidate
	// that was tried, in world space.
	AppliedPlanes []geom.Plane
	Cuts          int
	// DroppedCaps counts cuts left open, either with too few vertices or an
	// unresolved topology.
	DroppedCaps int
	// StrayEdges counts cut edges left outside a closed cap loop.
	StrayEdges   int
	RemovedFaces int
}

// Simplifier is safe for concurrent use: Simplify keeps no state between calls.
type Simplifier struct {
	opts   Options
	rating RatingFunc
	log    *slog.Logger
}

func New(opts Options) *Simplifier {
	if opts.MaxFaces <= 0 {
		opts.MaxFaces = DefaultMaxFaces
	}
	opts.MinFaceArea = orDefault(opts.MinFaceArea, DefaultMinFaceArea)
	opts.EdgeConnectTolerance = orDefault(opts.EdgeConnectTolerance, DefaultEdgeConnectTolerance)
	opts.LoopCloseTolerance = orDefault(opts.LoopCloseTolerance, DefaultLoopCloseTolerance)
	opts.UniqueVertexThreshold = orDefault(opts.UniqueVertexThreshold, DefaultUniqueVertexThreshold)
	opts.PlaneAngleTolerance = orDefault(opts.PlaneAngleTolerance, DefaultPlaneAngleTolerance)
	opts.PlaneDistanceTolerance = orDefault(opts.PlaneDistanceTolerance, DefaultPlaneDistanceTolerance)

	s := &Simplifier{opts: opts, rating: opts.Rating, log: opts.Logger}
	if s.rating == nil {
		s.rating = opts.Selection.Rating()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Options returns the options after defaults were applied.
func (s *Simplifier) Options() Options {
	return s.opts
}

// Simplify re-hulls the mesh vertices and cuts the hull bounds down to at most
// MaxFaces faces (never fewer than the 6 faces of the box).
func (s *Simplifier) Simplify(mesh geom.Mesh) (*Result, error) {
	hull, err := qhull.Build(mesh.Vertices, qhull.Options{Tolerance: qhull.AutomaticTolerance})
	if err != nil {
		return nil, fmt.Errorf("simplify: %w", err)
	}

	// Working frame centered on the bounds, distances are then comparable
	// with the box extents.
	bounds := geom.NewAABB(hull.Vertices)
	center := bounds.Center()
	toLocal := center.Mul(-1)
	local := geom.AABB{Min: bounds.Min.Add(toLocal), Max: bounds.Max.Add(toLocal)}

	candidates := s.uniquePlanes(hull.FacePlanes(), toLocal)

	ngon := FromBounds(local)
	boxPlanes := local.Planes()
	applied := append([]geom.Plane(nil), boxPlanes[:]...)
	for _, bp := range boxPlanes {
		for i, c := range candidates {
			if bp.ApproxEqual(c, s.opts.PlaneAngleTolerance, s.opts.PlaneDistanceTolerance) {
				candidates = append(candidates[:i], candidates[i+1:]...)
				break
			}
		}
	}

	result := &Result{}
	faces := boxFaces
	for faces < s.opts.MaxFaces && len(candidates) > 0 {
		var plane geom.Plane
		plane, candidates = popNextPlane(candidates, applied, s.rating)
		applied = append(applied, plane)

		cuts := ngon.Clip(plane, s.opts.UniqueVertexThreshold)
		if len(cuts) == 0 {
			continue
		}
		faces++
		result.Cuts++

		capFace, stray, err := s.fill(plane, cuts)
		if len(stray) > 0 {
			result.StrayEdges += len(stray)
			s.log.Warn("simplify: stray cut edges",
				slog.Int("edges", len(cuts)),
				slog.Int("stray", len(stray)))
		}
		if err != nil {
			var topology *UnresolvedCutTopologyError
			if errors.As(err, &topology) {
				s.log.Warn("simplify: cap dropped",
					slog.Int("unconnected", topology.Unconnected),
					slog.Any("lengths", topology.Lengths))
			}
			result.DroppedCaps++
			continue
		}
		if capFace == nil {
			result.DroppedCaps++
			continue
		}
		ngon.Faces = append(ngon.Faces, *capFace)
	}

	result.RemovedFaces = ngon.RemoveSmallFaces(s.opts.MinFaceArea)
	ngon.Translate(center)

	result.Hull = ngon
	result.Mesh = ngon.ToMesh()
	result.AppliedPlanes = make([]geom.Plane, len(applied))
	for i, p := range applied {
		result.AppliedPlanes[i] = geom.Plane{Normal: p.Normal, Distance: p.Distance + p.Normal.Dot(center)}
	}

	s.log.Debug("simplify: done",
		slog.Int("faces", len(ngon.Faces)),
		slog.Int("cuts", result.Cuts),
		slog.Int("droppedCaps", result.DroppedCaps),
		slog.Int("strayEdges", result.StrayEdges),
		slog.Int("removedFaces", result.RemovedFaces))

	return result, nil
}

// uniquePlanes moves planes into the working frame and drops near duplicates.
func (s *Simplifier) uniquePlanes(planes []geom.Plane, offset mgl64.Vec3) []geom.Plane {
	unique := make([]geom.Plane, 0, len(planes))
	for _, p := range planes {
		p.Distance += p.Normal.Dot(offset)

		duplicate := false
		for _, u := range unique {
			if u.ApproxEqual(p, s.opts.PlaneAngleTolerance, s.opts.PlaneDistanceTolerance) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, p)
		}
	}
	return unique
}

// Simplify reduces mesh with the default tolerances.
func Simplify(mesh geom.Mesh, maxFaces int, selection PlaneSelection, fill HoleFillMethod) (geom.Mesh, error) {
	opts := DefaultOptions()
	opts.MaxFaces = maxFaces
	opts.Selection = selection
	opts.HoleFill = fill

	result, err := New(opts).Simplify(mesh)
	if err != nil {
		return geom.Mesh{}, err
	}
	return result.Mesh, nil
}

// SimplifyHull is Simplify over parallel vertex and index arrays.
func SimplifyHull(vertices []mgl64.Vec3, indices []int, maxFaces int, selection PlaneSelection, fill HoleFillMethod) ([]mgl64.Vec3, []int, error) {
	m, err := Simplify(geom.Mesh{Vertices: vertices, Indices: indices}, maxFaces, selection, fill)
	if err != nil {
		return nil, nil, err
	}
	return m.Vertices, m.Indices, nil
}
