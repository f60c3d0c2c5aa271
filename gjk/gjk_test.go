package gjk

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type ball struct {
	center mgl64.Vec3
	radius float64
}

func (b ball) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.LenSqr() == 0 {
		return b.center
	}
	return b.center.Add(direction.Normalize().Mul(b.radius))
}

func (b ball) Center() mgl64.Vec3 {
	return b.center
}

func cubeCloud(center mgl64.Vec3, half float64) PointCloud {
	var points PointCloud
	for _, x := range []float64{-half, half} {
		for _, y := range []float64{-half, half} {
			for _, z := range []float64{-half, half} {
				points = append(points, center.Add(mgl64.Vec3{x, y, z}))
			}
		}
	}
	return points
}

func TestMinkowskiSupport(t *testing.T) {
	a := ball{radius: 1}
	b := ball{center: mgl64.Vec3{3, 0, 0}, radius: 1}

	// max(A.x) - min(B.x) = 1 - 2
	if got := MinkowskiSupport(a, b, mgl64.Vec3{1, 0, 0}); got.X() != -1 {
		t.Errorf("support.X = %v, want -1", got.X())
	}
	// min(A.x) - max(B.x) = -1 - 4
	if got := MinkowskiSupport(a, b, mgl64.Vec3{-1, 0, 0}); got.X() != -5 {
		t.Errorf("support.X = %v, want -5", got.X())
	}
}

func TestPointCloudSupport(t *testing.T) {
	cloud := PointCloud{{0, 0, 0}, {1, 0, 0}, {0, 2, 0}}
	if got := cloud.Support(mgl64.Vec3{0, 1, 0}); got != (mgl64.Vec3{0, 2, 0}) {
		t.Errorf("support = %v", got)
	}
	if got := cloud.Center(); got != (mgl64.Vec3{1.0 / 3.0, 2.0 / 3.0, 0}) {
		t.Errorf("center = %v", got)
	}
}

func TestGJK(t *testing.T) {
	tests := []struct {
		name string
		a, b Shape
		want bool
	}{
		{"overlapping balls", ball{radius: 1}, ball{center: mgl64.Vec3{1.5, 0, 0}, radius: 1}, true},
		{"separated balls", ball{radius: 1}, ball{center: mgl64.Vec3{2.5, 0, 0}, radius: 1}, false},
		{"ball inside ball", ball{radius: 5}, ball{center: mgl64.Vec3{1, 1, 1}, radius: 1}, true},
		{"overlapping cubes", cubeCloud(mgl64.Vec3{}, 1), cubeCloud(mgl64.Vec3{1.5, 0.5, -0.5}, 1), true},
		{"separated cubes", cubeCloud(mgl64.Vec3{}, 1), cubeCloud(mgl64.Vec3{0, 2.1, 0}, 1), false},
		{"cubes apart on a diagonal", cubeCloud(mgl64.Vec3{}, 1), cubeCloud(mgl64.Vec3{2.01, 2.01, 2.01}, 1), false},
		{"touching cubes", cubeCloud(mgl64.Vec3{}, 1), cubeCloud(mgl64.Vec3{2, 0, 0}, 1), true},
		{"cube and ball", cubeCloud(mgl64.Vec3{}, 1), ball{center: mgl64.Vec3{1.5, 1.5, 0}, radius: 0.8}, true},
		{"cube and ball apart", cubeCloud(mgl64.Vec3{}, 1), ball{center: mgl64.Vec3{1.5, 1.5, 0}, radius: 0.6}, false},
		{"same point", PointCloud{{1, 1, 1}}, PointCloud{{1, 1, 1}}, true},
		{"segments apart", PointCloud{{0, 0, 0}, {1, 0, 0}}, PointCloud{{0, 1, 0}, {1, 1, 0}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersect(tt.a, tt.b); got != tt.want {
				t.Errorf("Intersect = %v, want %v", got, tt.want)
			}
			if got := Intersect(tt.b, tt.a); got != tt.want {
				t.Errorf("Intersect reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGJKLeavesTetrahedron(t *testing.T) {
	var simplex Simplex
	if !GJK(cubeCloud(mgl64.Vec3{}, 1), cubeCloud(mgl64.Vec3{0.5, 0.3, 0.1}, 1), &simplex) {
		t.Fatal("expected an overlap")
	}
	if simplex.Count != 4 {
		t.Errorf("simplex has %d points, want 4", simplex.Count)
	}
}

func TestDegenerateSimplex(t *testing.T) {
	t.Run("colinear tetrahedron", func(t *testing.T) {
		simplex := Simplex{Points: [4]mgl64.Vec3{{0, 1, 0}, {1, 1, 0}, {2, 1, 0}, {3, 1, 0}}, Count: 4}
		direction := mgl64.Vec3{0, 1, 0}
		if tetrahedron(&simplex, &direction) {
			t.Error("a flat simplex cannot contain the origin")
		}
	})

	t.Run("near identical line", func(t *testing.T) {
		simplex := Simplex{Points: [4]mgl64.Vec3{{1e-15, 0, 0}, {1e-15, 1e-15, 0}}, Count: 2}
		direction := mgl64.Vec3{0, 1, 0}
		if !line(&simplex, &direction) {
			t.Error("a degenerate line on the origin contains it")
		}
	})

	t.Run("line reduced to its newest point", func(t *testing.T) {
		simplex := Simplex{Points: [4]mgl64.Vec3{{3, 0, 0}, {1, 0, 0}}, Count: 2}
		var direction mgl64.Vec3
		if line(&simplex, &direction) {
			t.Fatal("unexpected containment")
		}
		if simplex.Count != 1 || simplex.Points[0] != (mgl64.Vec3{1, 0, 0}) || direction != (mgl64.Vec3{-1, 0, 0}) {
			t.Errorf("got %+v towards %v", simplex, direction)
		}
	})

	t.Run("triangle turns towards the origin", func(t *testing.T) {
		simplex := Simplex{Points: [4]mgl64.Vec3{{-1, -1, 1}, {1, -1, 1}, {0, 1, 1}}, Count: 3}
		var direction mgl64.Vec3
		triangle(&simplex, &direction)
		if direction.Dot(mgl64.Vec3{0, 0, -1}) <= 0 {
			t.Errorf("direction %v does not point at the origin", direction)
		}
	})
}

func BenchmarkGJKPointClouds(b *testing.B) {
	a := cubeCloud(mgl64.Vec3{}, 1)
	c := cubeCloud(mgl64.Vec3{1.2, 0.4, 0.1}, 1)
	for i := 0; i < b.N; i++ {
		Intersect(a, c)
	}
}
