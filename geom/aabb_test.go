package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewAABB(t *testing.T) {
	tests := []struct {
		name   string
		points []mgl64.Vec3
		want   AABB
	}{
		{"empty", nil, AABB{}},
		{"single", []mgl64.Vec3{{1, 2, 3}}, AABB{Min: mgl64.Vec3{1, 2, 3}, Max: mgl64.Vec3{1, 2, 3}}},
		{
			"scattered",
			[]mgl64.Vec3{{1, -2, 0}, {-1, 4, 2}, {0, 0, -3}},
			AABB{Min: mgl64.Vec3{-1, -2, -3}, Max: mgl64.Vec3{1, 4, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewAABB(tt.points); got != tt.want {
				t.Errorf("NewAABB() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABBOverlaps(t *testing.T) {
	tests := []struct {
		name  string
		aabb1 AABB
		aabb2 AABB
		want  bool
	}{
		{
			name:  "Separated on X axis",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{2, 0, 0}, Max: mgl64.Vec3{3, 1, 1}},
			want:  false,
		},
		{
			name:  "Separated on Z axis",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{0, 0, -2}, Max: mgl64.Vec3{1, 1, -1}},
			want:  false,
		},
		{
			name:  "Touching faces",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}},
			want:  true,
		},
		{
			name:  "Contained",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{4, 4, 4}},
			aabb2: AABB{Min: mgl64.Vec3{1, 1, 1}, Max: mgl64.Vec3{2, 2, 2}},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.aabb1.Overlaps(tt.aabb2); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.aabb2.Overlaps(tt.aabb1); got != tt.want {
				t.Errorf("Overlaps() symmetry = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABBPlanesContainCorners(t *testing.T) {
	box := AABB{Min: mgl64.Vec3{-1, 2, -3}, Max: mgl64.Vec3{4, 5, 6}}

	for i, p := range box.Planes() {
		if !isNormalized(p.Normal, 1e-12) {
			t.Errorf("plane %d normal not unit: %v", i, p.Normal)
		}
		touching := 0
		for _, c := range box.Corners() {
			d := p.SignedDistance(c)
			if d > 1e-12 {
				t.Errorf("corner %v is outside plane %d (d=%v)", c, i, d)
			}
			if d > -1e-12 {
				touching++
			}
		}
		if touching != 4 {
			t.Errorf("plane %d touches %d corners, want 4", i, touching)
		}
	}

	if got := box.Volume(); got != 5*3*9 {
		t.Errorf("Volume() = %v, want %v", got, 5*3*9)
	}
	if !box.ContainsPoint(box.Center()) {
		t.Errorf("box should contain its center")
	}
}

func TestAABBMeshIsClosedAndOutward(t *testing.T) {
	box := AABB{Min: mgl64.Vec3{-1, 0, 2}, Max: mgl64.Vec3{3, 1, 5}}
	m := box.Mesh()
	if m.TriangleCount() != 12 {
		t.Fatalf("got %d triangles", m.TriangleCount())
	}

	center := box.Center()
	volume := 0.0
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		n := TriangleNormal(a, b, c)
		if n.Dot(Centroid([]mgl64.Vec3{a, b, c}).Sub(center)) <= 0 {
			t.Errorf("triangle %d faces inward", i)
		}
		volume += a.Dot(b.Cross(c)) / 6
	}
	if math.Abs(volume-box.Volume()) > 1e-9 {
		t.Errorf("enclosed volume = %v, want %v", volume, box.Volume())
	}
}
