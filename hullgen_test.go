package hullgen

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/akmonengine/hullgen/cut"
	"github.com/akmonengine/hullgen/fit"
	"github.com/akmonengine/hullgen/geom"
	"github.com/akmonengine/hullgen/meshgen"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

// cube triangles, two per side: bottom, top, +X, -X, +Z, -Z
var (
	cubeBottom = []int{0, 1}
	cubeTop    = []int{2, 3}
	cubeMinusX = []int{6, 7}
)

func newTestGenerator(t testing.TB, config Config) *Generator {
	t.Helper()
	config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	g, err := NewGenerator(config)
	require.NoError(t, err)
	return g
}

func TestHullTypeString(t *testing.T) {
	require.Equal(t, "ConvexHull", HullTypeConvexHull.String())
	require.Equal(t, "FaceAsBox", HullTypeFaceAsBox.String())
	require.Equal(t, "HullType(42)", HullType(42).String())
	require.Equal(t, "AlignFaces", BoxFitAlignFaces.String())
}

func TestNewGeneratorDefaults(t *testing.T) {
	g := newTestGenerator(t, Config{Workers: -3})
	config := g.Config()
	require.Equal(t, DEFAULT_WORKERS, config.Workers)
	require.Equal(t, DefaultFaceThickness, config.FaceThickness)
	require.Equal(t, DefaultCacheSize, config.CacheSize)
	require.Equal(t, fit.DefaultCapsuleOptions(), config.Capsule)
	require.NotNil(t, g.Cache())

	g = newTestGenerator(t, Config{CacheSize: -1})
	require.Nil(t, g.Cache())
}

func TestGenerateInputErrors(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	input := Input{Mesh: meshgen.Cube(2)}

	c := g.Generate(input, Hull{Name: "empty", Type: HullTypeConvexHull})
	require.True(t, c.NoInput)
	require.NoError(t, c.Err)

	c = g.Generate(input, Hull{Name: "out of range", Type: HullTypeBox, SelectedFaces: []int{0, 12}})
	require.ErrorIs(t, c.Err, ErrInvalidSelection)

	c = g.Generate(input, Hull{Name: "unknown", Type: HullType(99), SelectedFaces: []int{0}})
	require.ErrorIs(t, c.Err, ErrUnknownHullType)

	c = g.Generate(input, Hull{Name: "flat", Type: HullTypeConvexHull, SelectedFaces: cubeTop})
	require.Error(t, c.Err)
}

func TestGenerateBox(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())

	rotation := mgl64.QuatRotate(0.5, mgl64.Vec3{1, 1, 0}.Normalize())
	mesh := meshgen.Box(mgl64.Vec3{2, 1, 0.5}).Transformed(geom.Transform{Position: mgl64.Vec3{1, 2, 3}, Rotation: rotation})
	input := Input{Mesh: mesh}
	all := SelectAll(mesh)

	aligned := g.Generate(input, Hull{Name: "aligned", Type: HullTypeBox, SelectedFaces: all})
	require.NoError(t, aligned.Err)
	require.Greater(t, aligned.Box.Volume(), 1.0)
	require.Equal(t, mgl64.QuatIdent(), aligned.Box.Rotation)

	rotated := g.Generate(input, Hull{Name: "rotated", Type: HullTypeBox, SelectedFaces: all, IsChildCollider: true})
	require.NoError(t, rotated.Err)
	require.InDelta(t, 1.0, rotated.Box.Volume(), 1e-6)
	for _, v := range mesh.Vertices {
		require.True(t, rotated.Box.ContainsPoint(v, 1e-6))
	}

	axisAligned := g.Generate(input, Hull{Name: "axis", Type: HullTypeBox, SelectedFaces: all, IsChildCollider: true, BoxFitMethod: BoxFitAxisAligned})
	require.InDelta(t, aligned.Box.Volume(), axisAligned.Box.Volume(), 1e-9)

	faces := g.Generate(input, Hull{Name: "faces", Type: HullTypeBox, SelectedFaces: all, IsChildCollider: true, BoxFitMethod: BoxFitAlignFaces})
	require.NoError(t, faces.Err)
	for _, v := range mesh.Vertices {
		require.True(t, faces.Box.ContainsPoint(v, 1e-6))
	}
}

func TestGenerateSphereAndCapsule(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())

	sphere := meshgen.Icosphere(1.5, 2)
	c := g.Generate(Input{Mesh: sphere}, Hull{Name: "ball", Type: HullTypeSphere, SelectedFaces: SelectAll(sphere)})
	require.NoError(t, c.Err)
	require.InDelta(t, 1.5, c.Sphere.Radius, 1e-6)
	require.InDelta(t, 0, c.Sphere.Center.Len(), 1e-6)

	cylinder := meshgen.Cylinder(1, 6, 32)
	c = g.Generate(Input{Mesh: cylinder}, Hull{Name: "pill", Type: HullTypeCapsule, SelectedFaces: SelectAll(cylinder)})
	require.NoError(t, c.Err)
	require.Equal(t, fit.CapsuleAxisY, c.Capsule.Direction)
	require.InDelta(t, 1, c.Capsule.Radius, 0.05)
	require.InDelta(t, 6, c.Capsule.Height, 0.1)
}

func TestGenerateConvexHull(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())

	cube := meshgen.Cube(2)
	c := g.Generate(Input{Mesh: cube}, Hull{Name: "cube", Type: HullTypeConvexHull, SelectedFaces: SelectAll(cube)})
	require.NoError(t, c.Err)
	require.False(t, c.Simplified)
	require.Equal(t, 12, c.FaceCount)
	require.Equal(t, 12, c.Mesh.TriangleCount())

	sphere := meshgen.Icosphere(1, 2)
	c = g.Generate(Input{Mesh: sphere}, Hull{Name: "sphere", Type: HullTypeConvexHull, SelectedFaces: SelectAll(sphere), MaxPlanes: 32})
	require.NoError(t, c.Err)
	require.True(t, c.Simplified)
	require.Equal(t, 320, c.FaceCount)

	planes := cut.ConvertToPlanes(c.Mesh)
	require.LessOrEqual(t, len(planes), 32)
	for _, v := range sphere.Vertices {
		for _, p := range planes {
			require.LessOrEqual(t, p.SignedDistance(v), 1e-6)
		}
	}
}

func TestGenerateFaces(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	input := Input{Mesh: meshgen.Cube(2)}

	slab := g.Generate(input, Hull{Name: "slab", Type: HullTypeFace, SelectedFaces: cubeTop})
	require.NoError(t, slab.Err)
	bounds := slab.Mesh.Bounds()
	require.InDelta(t, 0.9, bounds.Min.Y(), 1e-9)
	require.InDelta(t, 1.0, bounds.Max.Y(), 1e-9)
	require.InDelta(t, 2.0, bounds.Size().X(), 1e-9)

	box := g.Generate(input, Hull{Name: "box", Type: HullTypeFaceAsBox, SelectedFaces: cubeTop})
	require.NoError(t, box.Err)
	require.True(t, geom.Vec3ApproxEqual(box.Box.Size, mgl64.Vec3{2, 0.1, 2}, 1e-9), "size %v", box.Box.Size)
	require.True(t, geom.Vec3ApproxEqual(box.Box.Center, mgl64.Vec3{0, 0.95, 0}, 1e-9), "center %v", box.Box.Center)

	child := g.Generate(input, Hull{Name: "child", Type: HullTypeFaceAsBox, SelectedFaces: cubeTop, IsChildCollider: true})
	require.NoError(t, child.Err)
	require.InDelta(t, 0.4, child.Box.Volume(), 1e-6)
}

func TestGenerateAuto(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	cube := meshgen.Cube(2)
	pieces := []geom.Mesh{
		geom.AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{0, 1, 1}}.Mesh(),
		geom.AABB{Min: mgl64.Vec3{0, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}.Mesh(),
		geom.AABB{Min: mgl64.Vec3{0.5, 0.5, -1}, Max: mgl64.Vec3{1, 1, 1}}.Mesh(),
	}
	input := Input{Mesh: cube, AutoHulls: pieces}

	// bottom and -X sides span the wedge y <= -x
	selection := append(append([]int{}, cubeBottom...), cubeMinusX...)
	c := g.Generate(input, Hull{Name: "auto", Type: HullTypeAuto, SelectedFaces: selection})
	require.NoError(t, c.Err)
	require.Len(t, c.AutoMeshes, 2)
	for _, m := range c.AutoMeshes {
		for _, v := range m.Vertices {
			require.LessOrEqual(t, v.Y()+v.X(), 1e-9)
		}
	}

	c = g.Generate(input, Hull{Name: "everything", Type: HullTypeAuto, SelectedFaces: SelectAll(cube)})
	require.NoError(t, c.Err)
	require.Len(t, c.AutoMeshes, 3)
}

func TestGeneratorCache(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	input := Input{Mesh: meshgen.Cube(2)}
	hull := Hull{Name: "cached", Type: HullTypeConvexHull, SelectedFaces: SelectAll(input.Mesh)}

	first := g.Generate(input, hull)
	require.Equal(t, 1, g.Cache().Len())

	hull.SelectedFaces = append([]int{11}, hull.SelectedFaces...)
	second := g.Generate(input, hull)
	require.Equal(t, 1, g.Cache().Len(), "a reordered selection hits the same entry")
	require.Equal(t, first.Mesh, second.Mesh)

	hull.Type = HullTypeSphere
	g.Generate(input, hull)
	require.Equal(t, 2, g.Cache().Len())

	g.Generate(input, Hull{Name: "empty", Type: HullTypeSphere})
	require.Equal(t, 2, g.Cache().Len(), "no input is never cached")

	g.Cache().Purge()
	require.Zero(t, g.Cache().Len())
}

func TestMeshCacheEviction(t *testing.T) {
	cache, err := NewMeshCache(2, nil)
	require.NoError(t, err)

	cache.Add("a", Collider{Name: "a"})
	cache.Add("b", Collider{Name: "b"})
	cache.Add("c", Collider{Name: "c"})
	require.Equal(t, 2, cache.Len())

	_, ok := cache.Get("a")
	require.False(t, ok)
	c, ok := cache.Get("c")
	require.True(t, ok)
	require.Equal(t, "c", c.Name)

	_, err = NewMeshCache(0, nil)
	require.Error(t, err)
}

func TestGenerateAll(t *testing.T) {
	config := DefaultConfig()
	config.Workers = 4
	g := newTestGenerator(t, config)

	cube := meshgen.Cube(2)
	all := SelectAll(cube)
	hulls := []Hull{
		{Name: "hull", Type: HullTypeConvexHull, SelectedFaces: all},
		{Name: "box", Type: HullTypeBox, SelectedFaces: all},
		{Name: "broken", Type: HullTypeBox, SelectedFaces: []int{-1}},
		{Name: "sphere", Type: HullTypeSphere, SelectedFaces: all},
		{Name: "empty", Type: HullTypeCapsule},
		{Name: "capsule", Type: HullTypeCapsule, SelectedFaces: all},
	}

	colliders, err := g.GenerateAll(context.Background(), Input{Mesh: cube}, hulls)
	require.NoError(t, err)
	require.Len(t, colliders, len(hulls))
	for i, c := range colliders {
		require.Equal(t, hulls[i].Name, c.Name)
		require.Equal(t, hulls[i].Type, c.Type)
	}
	require.ErrorIs(t, colliders[2].Err, ErrInvalidSelection)
	require.True(t, colliders[4].NoInput)
	require.InDelta(t, 8, colliders[1].Box.Volume(), 1e-9)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.GenerateAll(ctx, Input{Mesh: cube}, hulls)
	require.ErrorIs(t, err, context.Canceled)
}

func TestTask(t *testing.T) {
	for _, workers := range []int{1, 3, 16} {
		data := make([]int, 10)
		for i := range data {
			data[i] = i + 1
		}

		var sum, calls atomic.Int64
		task(workers, data, func(v int) {
			sum.Add(int64(v))
			calls.Add(1)
		})
		require.EqualValues(t, 55, sum.Load())
		require.EqualValues(t, 10, calls.Load())
	}
}

func TestGenerateErrorsAreIsolated(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	input := Input{Mesh: geom.Mesh{Vertices: []mgl64.Vec3{{0, 0, 0}}, Indices: []int{0, 1, 2}}}

	c := g.Generate(input, Hull{Name: "invalid", Type: HullTypeSphere, SelectedFaces: []int{0}})
	require.Error(t, c.Err)
	require.False(t, errors.Is(c.Err, ErrInvalidSelection))
}

func BenchmarkGenerateConvexHull(b *testing.B) {
	g := newTestGenerator(b, Config{CacheSize: -1})
	sphere := meshgen.Icosphere(1, 3)
	hull := Hull{Name: "bench", Type: HullTypeConvexHull, SelectedFaces: SelectAll(sphere), MaxPlanes: 64}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Generate(Input{Mesh: sphere}, hull)
	}
}
