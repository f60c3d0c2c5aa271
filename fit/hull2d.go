package fit

import (
	"cmp"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

func cross2(o, a, b mgl64.Vec2) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// convexHull2D is Andrew's monotone chain. The result is counter-clockwise
// without repeated or colinear points.
func convexHull2D(points []mgl64.Vec2) []mgl64.Vec2 {
	if len(points) < 3 {
		return slices.Clone(points)
	}

	sorted := slices.Clone(points)
	slices.SortFunc(sorted, func(a, b mgl64.Vec2) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})

	hull := make([]mgl64.Vec2, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && cross2(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross2(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// rectangle2D is an oriented rectangle: U is the unit direction of its first
// side, V = perp(U). Min and Max are the extents along U and V.
type rectangle2D struct {
	U        mgl64.Vec2
	Min, Max mgl64.Vec2
}

func (r rectangle2D) area() float64 {
	return (r.Max[0] - r.Min[0]) * (r.Max[1] - r.Min[1])
}

func (r rectangle2D) v() mgl64.Vec2 {
	return mgl64.Vec2{-r.U[1], r.U[0]}
}

func extents2D(points []mgl64.Vec2, u mgl64.Vec2) rectangle2D {
	v := mgl64.Vec2{-u[1], u[0]}
	r := rectangle2D{
		U:   u,
		Min: mgl64.Vec2{math.Inf(1), math.Inf(1)},
		Max: mgl64.Vec2{math.Inf(-1), math.Inf(-1)},
	}
	for _, p := range points {
		a, b := p.Dot(u), p.Dot(v)
		r.Min = mgl64.Vec2{min(r.Min[0], a), min(r.Min[1], b)}
		r.Max = mgl64.Vec2{max(r.Max[0], a), max(r.Max[1], b)}
	}
	return r
}

// minAreaRectangle tries every edge direction of the 2D hull; the minimum
// area rectangle always has a side flush with one of them.
func minAreaRectangle(points []mgl64.Vec2) rectangle2D {
	hull := convexHull2D(points)
	best := extents2D(hull, mgl64.Vec2{1, 0})
	if len(hull) < 3 {
		return best
	}

	bestArea := best.area()
	for i := range hull {
		edge := hull[(i+1)%len(hull)].Sub(hull[i])
		l := edge.Len()
		if l < 1e-12 {
			continue
		}
		r := extents2D(hull, edge.Mul(1/l))
		if a := r.area(); a < bestArea {
			best, bestArea = r, a
		}
	}
	return best
}
