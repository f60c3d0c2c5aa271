package simplify

import (
	"fmt"
	"math"
	"strings"

	"github.com/akmonengine/hullgen/geom"
)

// PlaneSelection picks the rating used to choose the next cutting plane
type PlaneSelection int

const (
	// Arbitrary applies candidates in the order they were found
	Arbitrary PlaneSelection = iota

	// LowestDistance prefers planes close to the hull center, cutting deep first
	LowestDistance

	// DisparateAngle prefers the plane least aligned with its nearest applied plane
	DisparateAngle

	// CombinedDistanceAndAngle multiplies the distance and angle ratings
	CombinedDistanceAndAngle

	// WeightedAngle averages the angular disparity over every applied plane
	WeightedAngle
)

var planeSelectionNames = [...]string{
	Arbitrary:                "Arbitrary",
	LowestDistance:           "LowestDistance",
	DisparateAngle:           "DisparateAngle",
	CombinedDistanceAndAngle: "CombinedDistanceAndAngle",
	WeightedAngle:            "WeightedAngle",
}

func (s PlaneSelection) String() string {
	if s < 0 || int(s) >= len(planeSelectionNames) {
		return fmt.Sprintf("PlaneSelection(%d)", int(s))
	}
	return planeSelectionNames[s]
}

// ParsePlaneSelection accepts the names returned by String, case-insensitively.
func ParsePlaneSelection(name string) (PlaneSelection, error) {
	for i, n := range planeSelectionNames {
		if strings.EqualFold(n, name) {
			return PlaneSelection(i), nil
		}
	}
	return 0, fmt.Errorf("unknown plane selection %q", name)
}

// RatingFunc scores a candidate plane against the planes already applied.
// The highest score wins; ties keep the earliest candidate.
type RatingFunc func(candidate geom.Plane, applied []geom.Plane) float64

// Rating returns the scoring function of the heuristic.
func (s PlaneSelection) Rating() RatingFunc {
	switch s {
	case LowestDistance:
		return DistanceRating
	case DisparateAngle:
		return AngleRating
	case CombinedDistanceAndAngle:
		return func(candidate geom.Plane, applied []geom.Plane) float64 {
			return DistanceRating(candidate, applied) * AngleRating(candidate, applied)
		}
	case WeightedAngle:
		return WeightedAngleRating
	default:
		return func(geom.Plane, []geom.Plane) float64 { return 0 }
	}
}

// DistanceRating is 1 for a candidate at the center and falls to 0 at the
// distance of the closest applied plane. Distances are measured from the
// origin of the working frame, which the simplifier puts at the hull bounds
// center.
func DistanceRating(candidate geom.Plane, applied []geom.Plane) float64 {
	closest := math.Inf(1)
	for _, p := range applied {
		closest = min(closest, p.Distance)
	}
	if math.IsInf(closest, 1) || closest <= 0 {
		// pas de référence exploitable
		if candidate.Distance <= 0 {
			return 1
		}
		return 0
	}
	return 1 - geom.Clamp01(candidate.Distance/closest)
}

// AngleRating is 1 for a candidate facing away from every applied plane and
// 0 when it matches the nearest one.
func AngleRating(candidate geom.Plane, applied []geom.Plane) float64 {
	closestDot := -1.0
	for _, p := range applied {
		closestDot = max(closestDot, candidate.Normal.Dot(p.Normal))
	}
	return angleDisparity(closestDot)
}

// WeightedAngleRating averages the disparity over all applied planes.
func WeightedAngleRating(candidate geom.Plane, applied []geom.Plane) float64 {
	if len(applied) == 0 {
		return 1
	}
	total := 0.0
	for _, p := range applied {
		total += angleDisparity(candidate.Normal.Dot(p.Normal))
	}
	return total / float64(len(applied))
}

func angleDisparity(dot float64) float64 {
	return geom.Clamp01(1 - (dot*0.5 + 0.5))
}

// popNextPlane removes and returns the best rated candidate.
func popNextPlane(candidates []geom.Plane, applied []geom.Plane, rate RatingFunc) (geom.Plane, []geom.Plane) {
	best := 0
	bestRating := math.Inf(-1)
	for i, c := range candidates {
		if r := rate(c, applied); r > bestRating {
			best = i
			bestRating = r
		}
	}
	plane := candidates[best]
	return plane, append(candidates[:best], candidates[best+1:]...)
}
