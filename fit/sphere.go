package fit

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// sphereShuffleSeed makes the point order, and so the rounding, reproducible.
const sphereShuffleSeed = 0x5EED

type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

func (s Sphere) Volume() float64 {
	return (4.0 / 3.0) * math.Pi * s.Radius * s.Radius * s.Radius
}

// Support returns the point of the sphere furthest along direction.
func (s Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.LenSqr() < 1e-24 {
		return s.Center
	}
	return s.Center.Add(direction.Normalize().Mul(s.Radius))
}

// ContainsPoint reports whether point lies inside the sphere grown by tolerance.
func (s Sphere) ContainsPoint(point mgl64.Vec3, tolerance float64) bool {
	return point.Sub(s.Center).Len() <= s.Radius+tolerance
}

func (s Sphere) contains(p mgl64.Vec3) bool {
	return p.Sub(s.Center).Len() <= s.Radius*(1+1e-12)+1e-12
}

// FitSphere returns the minimum enclosing sphere of points (Welzl, with the
// recursion unrolled into the four support levels of 3D). No points gives a
// zero sphere at the origin.
func FitSphere(points []mgl64.Vec3) Sphere {
	if len(points) == 0 {
		return Sphere{}
	}

	p := make([]mgl64.Vec3, len(points))
	copy(p, points)
	rng := rand.New(rand.NewPCG(sphereShuffleSeed, sphereShuffleSeed))
	rng.Shuffle(len(p), func(i, j int) { p[i], p[j] = p[j], p[i] })

	s := Sphere{Center: p[0]}
	for i := 1; i < len(p); i++ {
		if s.contains(p[i]) {
			continue
		}
		s = Sphere{Center: p[i]}
		for j := 0; j < i; j++ {
			if s.contains(p[j]) {
				continue
			}
			s = sphereFrom2(p[i], p[j])
			for k := 0; k < j; k++ {
				if s.contains(p[k]) {
					continue
				}
				s = sphereFrom3(p[i], p[j], p[k])
				for l := 0; l < k; l++ {
					if s.contains(p[l]) {
						continue
					}
					s = sphereFrom4(p[i], p[j], p[k], p[l])
				}
			}
		}
	}
	return s
}

func sphereFrom2(a, b mgl64.Vec3) Sphere {
	return Sphere{Center: a.Add(b).Mul(0.5), Radius: b.Sub(a).Len() * 0.5}
}

// sphereFrom3 is the smallest sphere with a, b and c on its surface.
func sphereFrom3(a, b, c mgl64.Vec3) Sphere {
	ab := b.Sub(a)
	ac := c.Sub(a)
	n := ab.Cross(ac)
	denom := 2 * n.LenSqr()
	if denom < 1e-24 {
		return smallestEnclosing(a, b, c)
	}

	offset := n.Cross(ab).Mul(ac.LenSqr()).Add(ac.Cross(n).Mul(ab.LenSqr())).Mul(1 / denom)
	return Sphere{Center: a.Add(offset), Radius: offset.Len()}
}

// sphereFrom4 is the circumsphere of the tetrahedron a, b, c, d.
func sphereFrom4(a, b, c, d mgl64.Vec3) Sphere {
	ab, ac, ad := b.Sub(a), c.Sub(a), d.Sub(a)
	m := mgl64.Mat3FromRows(ab, ac, ad)
	det := m.Det()
	scale := ab.Len() * ac.Len() * ad.Len()
	if math.Abs(det) <= 1e-12*scale || scale == 0 {
		return smallestEnclosing(a, b, c, d)
	}

	rhs := mgl64.Vec3{ab.LenSqr(), ac.LenSqr(), ad.LenSqr()}.Mul(0.5)
	offset := m.Inv().Mul3x1(rhs)
	return Sphere{Center: a.Add(offset), Radius: offset.Len()}
}

// smallestEnclosing brute forces the pairs and triples of a handful of
// degenerate support points.
func smallestEnclosing(points ...mgl64.Vec3) Sphere {
	best := Sphere{Radius: math.Inf(1)}
	try := func(s Sphere) {
		if s.Radius >= best.Radius {
			return
		}
		for _, p := range points {
			if !s.contains(p) {
				return
			}
		}
		best = s
	}

	for i := range points {
		for j := i + 1; j < len(points); j++ {
			try(sphereFrom2(points[i], points[j]))
			for k := j + 1; k < len(points); k++ {
				a, b, c := points[i], points[j], points[k]
				if n := b.Sub(a).Cross(c.Sub(a)); 2*n.LenSqr() >= 1e-24 {
					try(sphereFrom3(a, b, c))
				}
			}
		}
	}
	if math.IsInf(best.Radius, 1) {
		return Sphere{Center: points[0]}
	}
	return best
}
