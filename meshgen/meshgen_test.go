package meshgen

import (
	"math"
	"testing"

	"github.com/akmonengine/hullgen/geom"
	"github.com/go-gl/mathgl/mgl64"
)

func signedVolume(m geom.Mesh) float64 {
	v := 0.0
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		v += a.Dot(b.Cross(c)) / 6
	}
	return v
}

// icosahedronVolume is 5/12 (3+√5) a³ with the edge a of the circumscribed radius.
func icosahedronVolume(radius float64) float64 {
	a := radius / math.Sin(2*math.Pi/5)
	return 5.0 / 12.0 * (3 + math.Sqrt(5)) * a * a * a
}

func TestProceduralMeshes(t *testing.T) {
	tests := []struct {
		name      string
		mesh      geom.Mesh
		triangles int
		volume    float64
	}{
		{"cube", Cube(2), 12, 8},
		{"box", Box(mgl64.Vec3{1, 2, 3}), 12, 6},
		{"tetrahedron", Tetrahedron(3), 4, 4.5},
		{"icosahedron", Icosahedron(1), 20, icosahedronVolume(1)},
		{"cylinder", Cylinder(1, 2, 4), 16, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.mesh.Validate(); err != nil {
				t.Fatalf("invalid mesh: %v", err)
			}
			if got := tt.mesh.TriangleCount(); got != tt.triangles {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.triangles)
			}
			if got := signedVolume(tt.mesh); math.Abs(got-tt.volume) > 1e-9 {
				t.Errorf("volume = %v, want %v", got, tt.volume)
			}
		})
	}
}

func TestIcosphere(t *testing.T) {
	for n := range 4 {
		sphere := Icosphere(2, n)

		wantVertices := 10*int(math.Pow(4, float64(n))) + 2
		if len(sphere.Vertices) != wantVertices {
			t.Errorf("subdivisions %d: %d vertices, want %d", n, len(sphere.Vertices), wantVertices)
		}
		if sphere.TriangleCount() != 20*int(math.Pow(4, float64(n))) {
			t.Errorf("subdivisions %d: %d triangles", n, sphere.TriangleCount())
		}
		for _, v := range sphere.Vertices {
			if math.Abs(v.Len()-2) > 1e-12 {
				t.Fatalf("vertex %v off the sphere", v)
			}
		}
		if signedVolume(sphere) <= 0 {
			t.Errorf("subdivisions %d: inward facing triangles", n)
		}
	}

	coarse, fine := signedVolume(Icosphere(1, 1)), signedVolume(Icosphere(1, 3))
	if !(coarse < fine && fine < 4.0/3.0*math.Pi) {
		t.Errorf("volumes %v, %v do not converge from below", coarse, fine)
	}
}

func TestCylinderCloud(t *testing.T) {
	for axis := range 3 {
		points := CylinderCloud(2, 10, 5, 16, axis)
		if len(points) != 80 {
			t.Fatalf("got %d points", len(points))
		}

		bounds := geom.NewAABB(points)
		if math.Abs(bounds.Size()[axis]-10) > 1e-12 {
			t.Errorf("axis %d: height %v", axis, bounds.Size()[axis])
		}
		for _, p := range points {
			radial := p
			radial[axis] = 0
			if math.Abs(radial.Len()-2) > 1e-12 {
				t.Fatalf("axis %d: point %v off radius", axis, p)
			}
		}
	}
}

func TestSDFSphere(t *testing.T) {
	const radius, cells = 1.0, 24
	sphere, err := SDFSphere(radius, cells)
	if err != nil {
		t.Fatal(err)
	}
	if sphere.IsEmpty() {
		t.Fatal("empty tessellation")
	}

	cell := 2.5 * radius / cells
	for _, v := range sphere.Vertices {
		if math.Abs(v.Len()-radius) > cell {
			t.Fatalf("vertex %v more than a cell away from the surface", v)
		}
	}
	if got := math.Abs(signedVolume(sphere)); math.Abs(got-4.0/3.0*math.Pi) > 0.1 {
		t.Errorf("volume = %v", got)
	}
}

func TestSDFSolids(t *testing.T) {
	box, err := SDFBox(mgl64.Vec3{2, 1, 1}, 0, 32)
	if err != nil {
		t.Fatal(err)
	}
	size := box.Bounds().Size()
	if !geom.Vec3ApproxEqual(size, mgl64.Vec3{2, 1, 1}, 0.2) {
		t.Errorf("box bounds size = %v", size)
	}

	cylinder, err := SDFCylinder(4, 1, 32)
	if err != nil {
		t.Fatal(err)
	}
	if !geom.Vec3ApproxEqual(cylinder.Bounds().Size(), mgl64.Vec3{2, 2, 4}, 0.3) {
		t.Errorf("cylinder bounds size = %v", cylinder.Bounds().Size())
	}

	capsule, err := SDFCapsule(4, 1, 32)
	if err != nil {
		t.Fatal(err)
	}
	if capsule.IsEmpty() {
		t.Fatal("empty capsule")
	}

	if _, err := SDFCapsule(1, 1, 32); err == nil {
		t.Error("expected an error for a capsule shorter than its diameter")
	}
	if _, err := SDFSphere(-1, 32); err == nil {
		t.Error("expected an error for a negative radius")
	}
}
