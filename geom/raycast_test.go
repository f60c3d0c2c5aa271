package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestIntersectTriangle(t *testing.T) {
	// CCW seen from +Z.
	p1 := mgl64.Vec3{0, 0, 0}
	p2 := mgl64.Vec3{1, 0, 0}
	p3 := mgl64.Vec3{0, 1, 0}

	tests := []struct {
		name     string
		ray      Ray
		twoSided bool
		hit      bool
		dist     float64
	}{
		{"front hit", Ray{Origin: mgl64.Vec3{0.25, 0.25, 2}, Direction: mgl64.Vec3{0, 0, -1}}, false, true, 2},
		{"back face culled", Ray{Origin: mgl64.Vec3{0.25, 0.25, -2}, Direction: mgl64.Vec3{0, 0, 1}}, false, false, 0},
		{"back face two sided", Ray{Origin: mgl64.Vec3{0.25, 0.25, -2}, Direction: mgl64.Vec3{0, 0, 1}}, true, true, 2},
		{"outside barycentric", Ray{Origin: mgl64.Vec3{0.8, 0.8, 2}, Direction: mgl64.Vec3{0, 0, -1}}, false, false, 0},
		{"parallel", Ray{Origin: mgl64.Vec3{0.25, 0.25, 2}, Direction: mgl64.Vec3{1, 0, 0}}, true, false, 0},
		{"behind origin", Ray{Origin: mgl64.Vec3{0.25, 0.25, 2}, Direction: mgl64.Vec3{0, 0, 1}}, true, false, 0},
		{"scaled direction", Ray{Origin: mgl64.Vec3{0.25, 0.25, 2}, Direction: mgl64.Vec3{0, 0, -2}}, false, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, hit := IntersectTriangle(tt.ray, p1, p2, p3, tt.twoSided)
			if hit != tt.hit {
				t.Fatalf("IntersectTriangle() hit = %v, want %v", hit, tt.hit)
			}
			if hit && math.Abs(d-tt.dist) > 1e-12 {
				t.Errorf("IntersectTriangle() distance = %v, want %v", d, tt.dist)
			}
		})
	}
}

func TestRaycastNearest(t *testing.T) {
	// Two parallel quads facing +Z at z=0 and z=1.
	mesh := Mesh{
		Vertices: []mgl64.Vec3{
			{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0},
			{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
		},
		Indices: []int{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7},
	}

	down := Ray{Origin: mgl64.Vec3{0.1, 0.2, 5}, Direction: mgl64.Vec3{0, 0, -1}}
	hit, ok := Raycast(mesh, down, math.Inf(1), false)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if hit.Triangle != 2 && hit.Triangle != 3 {
		t.Errorf("hit triangle %d, want the upper quad (2 or 3)", hit.Triangle)
	}
	if math.Abs(hit.Distance-4) > 1e-12 {
		t.Errorf("hit distance = %v, want 4", hit.Distance)
	}

	if _, ok := Raycast(mesh, down, 3, false); ok {
		t.Errorf("hit beyond max distance should be ignored")
	}

	up := Ray{Origin: mgl64.Vec3{0.1, 0.2, -5}, Direction: mgl64.Vec3{0, 0, 1}}
	if _, ok := Raycast(mesh, up, math.Inf(1), false); ok {
		t.Errorf("back faces should be culled")
	}
	hit, ok = Raycast(mesh, up, math.Inf(1), true)
	if !ok || hit.Triangle > 1 {
		t.Errorf("flipped raycast = %+v, %v, want the lower quad", hit, ok)
	}
}
