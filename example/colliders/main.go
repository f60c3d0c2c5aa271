package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/akmonengine/hullgen"
	"github.com/akmonengine/hullgen/geom"
	"github.com/akmonengine/hullgen/meshgen"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/profile"
)

var (
	meshName  = flag.String("mesh", "icosphere", "input mesh: icosphere, cylinder, sdf-sphere, sdf-box, sdf-capsule")
	detail    = flag.Int("detail", 3, "icosphere subdivisions, or marching cubes cells / 8 for sdf meshes")
	maxPlanes = flag.Int("planes", 64, "maximum faces of convex hull colliders")
	workers   = flag.Int("workers", 4, "hulls generated in parallel")
	thickness = flag.Float64("thickness", hullgen.DefaultFaceThickness, "depth of face colliders")
	cpu       = flag.Bool("profile", false, "write a CPU profile")
	verbose   = flag.Bool("v", false, "debug logging")
)

func loadMesh(name string, detail int) (geom.Mesh, error) {
	cells := max(4, detail*8)
	switch name {
	case "icosphere":
		return meshgen.Icosphere(1, detail), nil
	case "cylinder":
		return meshgen.Cylinder(0.5, 3, 8*detail), nil
	case "sdf-sphere":
		return meshgen.SDFSphere(1, cells)
	case "sdf-box":
		return meshgen.SDFBox(mgl64.Vec3{2, 1, 0.5}, 0.1, cells)
	case "sdf-capsule":
		return meshgen.SDFCapsule(3, 0.5, cells)
	}
	return geom.Mesh{}, fmt.Errorf("unknown mesh %q", name)
}

// hulls paints the whole mesh once per hull type, plus a face hull on the
// triangles facing up.
func hulls(mesh geom.Mesh) []hullgen.Hull {
	all := hullgen.SelectAll(mesh)

	var up []int
	for i := range mesh.TriangleCount() {
		a, b, c := mesh.Triangle(i)
		if n := geom.TriangleNormal(a, b, c); n.Len() > 0 && n.Normalize().Y() > 0.9 {
			up = append(up, i)
		}
	}

	return []hullgen.Hull{
		{Name: "hull", Type: hullgen.HullTypeConvexHull, SelectedFaces: all, MaxPlanes: *maxPlanes},
		{Name: "box", Type: hullgen.HullTypeBox, SelectedFaces: all},
		{Name: "rotated box", Type: hullgen.HullTypeBox, SelectedFaces: all, IsChildCollider: true},
		{Name: "sphere", Type: hullgen.HullTypeSphere, SelectedFaces: all},
		{Name: "capsule", Type: hullgen.HullTypeCapsule, SelectedFaces: all},
		{Name: "free capsule", Type: hullgen.HullTypeCapsule, SelectedFaces: all, IsChildCollider: true},
		{Name: "top", Type: hullgen.HullTypeFace, SelectedFaces: up},
		{Name: "top box", Type: hullgen.HullTypeFaceAsBox, SelectedFaces: up},
		{Name: "top (shrunk)", Type: hullgen.HullTypeFace, SelectedFaces: hullgen.ShrinkSelection(mesh, up)},
	}
}

func describe(c hullgen.Collider) string {
	switch {
	case c.NoInput:
		return "no input"
	case c.Err != nil:
		return "error: " + c.Err.Error()
	}

	switch c.Type {
	case hullgen.HullTypeConvexHull, hullgen.HullTypeFace:
		s := fmt.Sprintf("%d vertices, %d triangles", len(c.Mesh.Vertices), c.Mesh.TriangleCount())
		if c.Simplified {
			s += fmt.Sprintf(" (simplified from %d)", c.FaceCount)
		}
		return s
	case hullgen.HullTypeBox, hullgen.HullTypeFaceAsBox:
		return fmt.Sprintf("center %.3v size %.3v volume %.4f", c.Box.Center, c.Box.Size, c.Box.Volume())
	case hullgen.HullTypeSphere:
		return fmt.Sprintf("center %.3v radius %.4f", c.Sphere.Center, c.Sphere.Radius)
	case hullgen.HullTypeCapsule:
		return fmt.Sprintf("axis %v radius %.4f height %.4f volume %.4f", c.Capsule.Direction, c.Capsule.Radius, c.Capsule.Height, c.Capsule.Volume())
	case hullgen.HullTypeAuto:
		return fmt.Sprintf("%d pieces", len(c.AutoMeshes))
	}
	return ""
}

func main() {
	flag.Parse()

	if *cpu {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	mesh, err := loadMesh(*meshName, *detail)
	if err != nil {
		log.Fatal(err)
	}

	config := hullgen.DefaultConfig()
	config.Workers = *workers
	config.FaceThickness = *thickness
	config.Logger = logger
	generator, err := hullgen.NewGenerator(config)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Mesh %s: %d vertices, %d triangles\n", *meshName, len(mesh.Vertices), mesh.TriangleCount())

	start := time.Now()
	colliders, err := generator.GenerateAll(context.Background(), hullgen.Input{Mesh: mesh}, hulls(mesh))
	if err != nil {
		log.Fatal(err)
	}

	for _, c := range colliders {
		fmt.Printf("  %-14s %-10v %s\n", c.Name, c.Type, describe(c))
	}
	fmt.Printf("Terminé en %v\n", time.Since(start))
}
