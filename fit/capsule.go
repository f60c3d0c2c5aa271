package fit

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/akmonengine/hullgen/geom"
	"github.com/akmonengine/hullgen/qhull"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultCapsuleSeed       = 1234
	DefaultCapsuleIterations = 1024
	// DefaultCapsuleJitter is relative to min(height, radius) of the best capsule.
	DefaultCapsuleJitter = 0.01
)

// CapsuleAxis is the local axis the capsule height runs along.
type CapsuleAxis int

const (
	CapsuleAxisX CapsuleAxis = iota
	CapsuleAxisY
	CapsuleAxisZ
)

func (a CapsuleAxis) String() string {
	switch a {
	case CapsuleAxisX:
		return "X"
	case CapsuleAxisY:
		return "Y"
	case CapsuleAxisZ:
		return "Z"
	}
	return fmt.Sprintf("CapsuleAxis(%d)", int(a))
}

// Vector returns the unit local axis.
func (a CapsuleAxis) Vector() mgl64.Vec3 {
	var v mgl64.Vec3
	v[int(a)%3] = 1
	return v
}

// AxisConstraint tells the capsule fitter which orientations it may use.
type AxisConstraint int

const (
	// Free lets the capsule follow the longest side of the tightest box
	Free AxisConstraint = iota
	// AlignedToInputAxes keeps the capsule on a world axis
	AlignedToInputAxes
)

// CapsuleDef is a capsule in world space. Height is the total length,
// hemispheres included.
type CapsuleDef struct {
	Center mgl64.Vec3
	// Axis is the world direction of the height.
	Axis mgl64.Vec3
	// Direction and Rotation describe the same axis as a local capsule axis
	// turned by Rotation.
	Direction CapsuleAxis
	Rotation  mgl64.Quat
	Radius    float64
	Height    float64
}

// InternalLength is the distance between the two hemisphere centers.
func (c CapsuleDef) InternalLength() float64 {
	return max(c.Height-2*c.Radius, 0)
}

func (c CapsuleDef) Volume() float64 {
	return capsuleVolume(c.Radius, c.Height)
}

func capsuleVolume(radius, height float64) float64 {
	internal := max(height-2*radius, 0)
	return math.Pi * radius * radius * (4.0/3.0*radius + internal)
}

// Segment returns the centers of the two hemispheres.
func (c CapsuleDef) Segment() (mgl64.Vec3, mgl64.Vec3) {
	half := c.Axis.Mul(c.InternalLength() * 0.5)
	return c.Center.Sub(half), c.Center.Add(half)
}

// Support returns the point of the capsule furthest along direction.
func (c CapsuleDef) Support(direction mgl64.Vec3) mgl64.Vec3 {
	p0, p1 := c.Segment()
	end := p1
	if direction.Dot(c.Axis) < 0 {
		end = p0
	}
	if direction.LenSqr() < 1e-24 {
		return end
	}
	return end.Add(direction.Normalize().Mul(c.Radius))
}

// ContainsPoint reports whether point lies inside the capsule grown by tolerance.
func (c CapsuleDef) ContainsPoint(point mgl64.Vec3, tolerance float64) bool {
	p0, p1 := c.Segment()
	seg := p1.Sub(p0)
	t := 0.0
	if l := seg.LenSqr(); l > 0 {
		t = geom.Clamp01(point.Sub(p0).Dot(seg) / l)
	}
	return point.Sub(p0.Add(seg.Mul(t))).Len() <= c.Radius+tolerance
}

// CapsuleOptions drives the randomized refinement. The generator is local to
// each fit, so equal options always give equal capsules.
type CapsuleOptions struct {
	Seed           uint64
	Iterations     int
	JitterFraction float64
}

func DefaultCapsuleOptions() CapsuleOptions {
	return CapsuleOptions{
		Seed:           DefaultCapsuleSeed,
		Iterations:     DefaultCapsuleIterations,
		JitterFraction: DefaultCapsuleJitter,
	}
}

// cylinder is the tightest cylinder around points along the plane normal.
// Its ends are flat, so the matching capsule may leave the end points
// slightly outside; it follows the end vertices the way users expect.
type cylinder struct {
	radius float64
	height float64
}

func fitCylinder(plane ConstructionPlane, points []mgl64.Vec3) cylinder {
	var c cylinder
	for _, p := range points {
		onAxis := plane.ProjectOntoAxis(p)
		c.radius = max(c.radius, p.Sub(onAxis).Len())
		c.height = max(c.height, onAxis.Sub(plane.Center).Len()*2)
	}
	return c
}

// refine is a stochastic hill climb on the plane center: any jittered fit with
// a strictly smaller volume replaces the best one.
func refine(plane ConstructionPlane, points []mgl64.Vec3, opts CapsuleOptions) (cylinder, ConstructionPlane) {
	bestPlane := plane
	best := fitCylinder(plane, points)
	bestVolume := capsuleVolume(best.radius, best.height)

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	jitter := func(magnitude float64) float64 {
		return rng.Float64()*magnitude*2 - magnitude
	}

	for range opts.Iterations {
		m := min(best.height, best.radius) * opts.JitterFraction
		variant := bestPlane.Offset(mgl64.Vec3{jitter(m), jitter(m), jitter(m)})
		c := fitCylinder(variant, points)
		if v := capsuleVolume(c.radius, c.height); v < bestVolume {
			best, bestPlane, bestVolume = c, variant, v
		}
	}
	return best, bestPlane
}

// FitCapsule fits a capsule with the default refinement options.
func FitCapsule(points []mgl64.Vec3, constraint AxisConstraint) CapsuleDef {
	return FitCapsuleWithOptions(points, constraint, DefaultCapsuleOptions())
}

// FitCapsuleWithOptions picks the capsule axis from the tightest box (rotated
// when Free, axis-aligned otherwise), fits a cylinder along it and refines the
// center. Inputs without a hull give a zero capsule.
func FitCapsuleWithOptions(points []mgl64.Vec3, constraint AxisConstraint, opts CapsuleOptions) CapsuleDef {
	hull, err := qhull.Build(points, qhull.Options{Tolerance: qhull.AutomaticTolerance})
	if err != nil {
		return CapsuleDef{Axis: mgl64.Vec3{0, 1, 0}, Direction: CapsuleAxisY, Rotation: mgl64.QuatIdent()}
	}
	vertices := hull.Vertices

	var box BoxDef
	if constraint == Free {
		box = FitRotatedBox(vertices)
	} else {
		box = FitAxisAlignedBox(vertices)
	}

	// longest side, with a second box axis as tangent
	axes := box.Axes()
	longest := box.LongestAxis()
	tangent := axes[0]
	if longest == 0 {
		tangent = axes[2]
	}
	plane := NewConstructionPlane(box.Center, axes[longest], tangent)

	c, best := refine(plane, vertices, opts)

	result := CapsuleDef{
		Center: best.Center,
		Axis:   best.Normal,
		Radius: c.radius,
		Height: c.height,
	}
	if constraint == Free {
		result.Direction = CapsuleAxisZ
		result.Rotation = best.Rotation
	} else {
		result.Direction = CapsuleAxis(longest)
		result.Rotation = mgl64.QuatIdent()
	}
	return result
}
