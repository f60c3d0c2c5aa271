package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func isNormalized(v mgl64.Vec3, tolerance float64) bool {
	return math.Abs(v.Len()-1.0) <= tolerance
}

func TestCompareVec3(t *testing.T) {
	tests := []struct {
		name string
		a, b mgl64.Vec3
		want int
	}{
		{"equal", mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, 3}, 0},
		{"x smaller", mgl64.Vec3{0, 9, 9}, mgl64.Vec3{1, 0, 0}, -1},
		{"x larger", mgl64.Vec3{2, 0, 0}, mgl64.Vec3{1, 9, 9}, 1},
		{"y decides", mgl64.Vec3{1, 1, 9}, mgl64.Vec3{1, 2, 0}, -1},
		{"z decides", mgl64.Vec3{1, 2, 4}, mgl64.Vec3{1, 2, 3}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompareVec3(tt.a, tt.b); got != tt.want {
				t.Errorf("CompareVec3() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSnapNormalToAxis(t *testing.T) {
	tests := []struct {
		name   string
		normal mgl64.Vec3
		want   mgl64.Vec3
	}{
		{"already axis", mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1}},
		{"tiny noise", mgl64.Vec3{1e-10, 1, -1e-12}, mgl64.Vec3{0, 1, 0}},
		{"all zero", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}},
		{"diagonal kept", mgl64.Vec3{1, 1, 0}, mgl64.Vec3{1 / math.Sqrt2, 1 / math.Sqrt2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SnapNormalToAxis(tt.normal)
			if !Vec3ApproxEqual(got, tt.want, 1e-9) {
				t.Errorf("SnapNormalToAxis() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapToDominantAxis(t *testing.T) {
	tests := []struct {
		dir  mgl64.Vec3
		want mgl64.Vec3
	}{
		{mgl64.Vec3{0.2, 0.9, 0.1}, mgl64.Vec3{0, 1, 0}},
		{mgl64.Vec3{-0.8, 0.5, 0.1}, mgl64.Vec3{-1, 0, 0}},
		{mgl64.Vec3{0.1, 0.1, -0.3}, mgl64.Vec3{0, 0, -1}},
	}

	for _, tt := range tests {
		if got := SnapToDominantAxis(tt.dir); got != tt.want {
			t.Errorf("SnapToDominantAxis(%v) = %v, want %v", tt.dir, got, tt.want)
		}
	}
}

func TestTangentBasis(t *testing.T) {
	normals := []mgl64.Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		mgl64.Vec3{1, 1, 1}.Normalize(),
		mgl64.Vec3{-0.3, 0.2, -0.9}.Normalize(),
	}

	for _, n := range normals {
		t1, t2 := TangentBasis(n)
		if !isNormalized(t1, 1e-9) || !isNormalized(t2, 1e-9) {
			t.Errorf("tangents for %v are not unit length: %v %v", n, t1, t2)
		}
		if math.Abs(t1.Dot(n)) > 1e-9 || math.Abs(t2.Dot(n)) > 1e-9 || math.Abs(t1.Dot(t2)) > 1e-9 {
			t.Errorf("basis for %v is not orthogonal", n)
		}
		if !Vec3ApproxEqual(t1.Cross(t2), n, 1e-9) {
			t.Errorf("basis for %v is not right-handed: t1 x t2 = %v", n, t1.Cross(t2))
		}
	}
}

func TestCentroid(t *testing.T) {
	if got := Centroid(nil); got != (mgl64.Vec3{}) {
		t.Errorf("Centroid(nil) = %v, want origin", got)
	}

	got := Centroid([]mgl64.Vec3{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}})
	if !Vec3ApproxEqual(got, mgl64.Vec3{1, 1, 0}, 1e-12) {
		t.Errorf("Centroid() = %v, want (1,1,0)", got)
	}
}

func TestSupportAndExtent(t *testing.T) {
	points := []mgl64.Vec3{{-1, 0, 0}, {3, 1, 0}, {0, -2, 5}}

	p, ok := Support(points, mgl64.Vec3{0, 0, 1})
	if !ok || p != (mgl64.Vec3{0, -2, 5}) {
		t.Errorf("Support(+Z) = %v, %v", p, ok)
	}
	if _, ok := Support(nil, mgl64.Vec3{1, 0, 0}); ok {
		t.Errorf("Support on empty set should fail")
	}

	lo, hi := Extent(points, mgl64.Vec3{1, 0, 0})
	if lo != -1 || hi != 3 {
		t.Errorf("Extent(+X) = [%v, %v], want [-1, 3]", lo, hi)
	}
}

func TestPolygonNormal(t *testing.T) {
	square := []mgl64.Vec3{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}}
	n := PolygonNormal(square)
	if !Vec3ApproxEqual(n, mgl64.Vec3{0, 0, 8}, 1e-12) {
		t.Errorf("PolygonNormal() = %v, want (0,0,8)", n)
	}

	// Duplicated vertices must not disturb the result.
	dup := []mgl64.Vec3{{0, 0, 0}, {2, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}}
	if !Vec3ApproxEqual(PolygonNormal(dup), n, 1e-12) {
		t.Errorf("PolygonNormal() with duplicate = %v, want %v", PolygonNormal(dup), n)
	}
}
