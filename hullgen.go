// Package hullgen turns painted triangle selections of a mesh into physics
// colliders.
package hullgen

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/akmonengine/hullgen/fit"
	"github.com/akmonengine/hullgen/geom"
	"github.com/akmonengine/hullgen/simplify"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DEFAULT_WORKERS = 1
	// DefaultFaceThickness is the depth of Face and FaceAsBox colliders.
	DefaultFaceThickness = 0.1
	DefaultCacheSize     = 256
	DefaultMaxPlanes     = 255
	// uniqueVertexThreshold merges the corners shared by selected triangles.
	uniqueVertexThreshold = 1e-4
)

const (
	HullTypeBox HullType = iota
	HullTypeConvexHull
	HullTypeSphere
	HullTypeFace
	HullTypeFaceAsBox
	HullTypeAuto
	HullTypeCapsule
)

const (
	// BoxFitMinimumVolume turns the box to the smallest volume found over the
	// hull face directions.
	BoxFitMinimumVolume BoxFitMethod = iota
	// BoxFitAlignFaces aligns the box with the average normal of the selection.
	BoxFitAlignFaces
	BoxFitAxisAligned
)

var (
	ErrInvalidSelection = errors.New("selected triangle out of range")
	ErrUnknownHullType  = errors.New("unknown hull type")
)

type HullType uint8

func (t HullType) String() string {
	switch t {
	case HullTypeBox:
		return "Box"
	case HullTypeConvexHull:
		return "ConvexHull"
	case HullTypeSphere:
		return "Sphere"
	case HullTypeFace:
		return "Face"
	case HullTypeFaceAsBox:
		return "FaceAsBox"
	case HullTypeAuto:
		return "Auto"
	case HullTypeCapsule:
		return "Capsule"
	}
	return fmt.Sprintf("HullType(%d)", uint8(t))
}

type BoxFitMethod uint8

func (m BoxFitMethod) String() string {
	switch m {
	case BoxFitMinimumVolume:
		return "MinimumVolume"
	case BoxFitAlignFaces:
		return "AlignFaces"
	case BoxFitAxisAligned:
		return "AxisAligned"
	}
	return fmt.Sprintf("BoxFitMethod(%d)", uint8(m))
}

// Hull describes one painted region and the collider to build from it.
type Hull struct {
	Name string
	Type HullType
	// SelectedFaces are triangle indices into the input mesh.
	SelectedFaces []int
	// MaxPlanes bounds the face count of ConvexHull and Auto bounds; zero
	// means DefaultMaxPlanes.
	MaxPlanes int
	// Child colliders can be rotated freely relative to the mesh, others must
	// stay aligned with its axes.
	IsChildCollider bool
	BoxFitMethod    BoxFitMethod
}

// Input is the mesh being painted, plus the pieces of an automatic convex
// decomposition consumed by Auto hulls.
type Input struct {
	Mesh      geom.Mesh
	AutoHulls []geom.Mesh
}

// Collider is the result for one Hull. Only the fields matching Type are set.
// Colliders returned from the cache share their slices and must not be
// modified.
type Collider struct {
	Name string
	Type HullType

	// Mesh holds ConvexHull and Face colliders, and the bounds of Auto.
	Mesh geom.Mesh
	// Box holds Box and FaceAsBox colliders.
	Box     fit.BoxDef
	Sphere  fit.Sphere
	Capsule fit.CapsuleDef
	// AutoMeshes are the decomposition pieces kept by an Auto hull.
	AutoMeshes []geom.Mesh

	// FaceCount is the triangle count of the hull before simplification.
	FaceCount  int
	Simplified bool

	NoInput bool
	Err     error
}

// Config is shared by every hull of a Generator.
type Config struct {
	Workers       int
	FaceThickness float64
	// CacheSize is the number of colliders kept between calls. Zero means
	// DefaultCacheSize, a negative size disables the cache.
	CacheSize int
	Simplify  simplify.Options
	Capsule   fit.CapsuleOptions
	Logger    *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Workers:       DEFAULT_WORKERS,
		FaceThickness: DefaultFaceThickness,
		CacheSize:     DefaultCacheSize,
		Simplify:      simplify.DefaultOptions(),
		Capsule:       fit.DefaultCapsuleOptions(),
	}
}

// Generator builds colliders. It is safe for concurrent use.
type Generator struct {
	config Config
	cache  *MeshCache
	logger *slog.Logger
}

func NewGenerator(config Config) (*Generator, error) {
	config.Workers = max(DEFAULT_WORKERS, config.Workers)
	if config.FaceThickness <= 0 {
		config.FaceThickness = DefaultFaceThickness
	}
	if config.CacheSize == 0 {
		config.CacheSize = DefaultCacheSize
	}
	if config.Capsule.Iterations <= 0 {
		config.Capsule = fit.DefaultCapsuleOptions()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	config.Simplify.Logger = logger

	g := &Generator{config: config, logger: logger}
	if config.CacheSize > 0 {
		cache, err := NewMeshCache(config.CacheSize, logger)
		if err != nil {
			return nil, fmt.Errorf("new generator: %w", err)
		}
		g.cache = cache
	}
	return g, nil
}

func (g *Generator) Config() Config {
	return g.config
}

// Cache returns nil when caching is disabled.
func (g *Generator) Cache() *MeshCache {
	return g.cache
}

// Generate builds the collider of one hull. Failures are reported in
// Collider.Err.
func (g *Generator) Generate(input Input, hull Hull) Collider {
	var key string
	if g.cache != nil {
		key = cacheKey(input, hull, g.config)
		if c, ok := g.cache.Get(key); ok {
			return c
		}
	}

	c := g.generate(input, hull)
	if c.Err != nil {
		g.logger.Warn("hullgen: collider failed", "hull", hull.Name, "type", hull.Type, "err", c.Err)
		return c
	}
	g.logger.Debug("hullgen: collider generated", "hull", hull.Name, "type", hull.Type, "faces", c.FaceCount, "simplified", c.Simplified)

	if g.cache != nil && !c.NoInput {
		g.cache.Add(key, c)
	}
	return c
}

func (g *Generator) generate(input Input, hull Hull) Collider {
	c := Collider{Name: hull.Name, Type: hull.Type}

	if len(hull.SelectedFaces) == 0 {
		c.NoInput = true
		return c
	}
	if err := input.Mesh.Validate(); err != nil {
		c.Err = fmt.Errorf("hull %q: %w", hull.Name, err)
		return c
	}
	for _, tri := range hull.SelectedFaces {
		if tri < 0 || tri >= input.Mesh.TriangleCount() {
			c.Err = fmt.Errorf("hull %q: triangle %d: %w", hull.Name, tri, ErrInvalidSelection)
			return c
		}
	}

	points := input.Mesh.PointsForTriangles(hull.SelectedFaces)

	switch hull.Type {
	case HullTypeBox:
		c.Box = g.fitBox(input.Mesh, hull, points)
	case HullTypeConvexHull:
		c.Err = g.convexHull(&c, hull, points)
	case HullTypeSphere:
		c.Sphere = fit.FitSphere(points)
	case HullTypeCapsule:
		constraint := fit.AlignedToInputAxes
		if hull.IsChildCollider {
			constraint = fit.Free
		}
		c.Capsule = fit.FitCapsuleWithOptions(points, constraint, g.config.Capsule)
	case HullTypeFace:
		c.Mesh, c.Err = faceSlab(input.Mesh, hull.SelectedFaces, g.config.FaceThickness)
	case HullTypeFaceAsBox:
		// Non-child boxes stay in the mesh axes, so the face axis is snapped.
		axis := fit.CalcPrimaryAxis(input.Mesh, hull.SelectedFaces, !hull.IsChildCollider)
		unique := geom.UniqueVertices(points, uniqueVertexThreshold)
		c.Box = fit.FitFaceAsBox(unique, axis, g.config.FaceThickness, !hull.IsChildCollider)
	case HullTypeAuto:
		c.Err = g.auto(&c, input, hull, points)
	default:
		c.Err = fmt.Errorf("hull %q: %w %d", hull.Name, ErrUnknownHullType, hull.Type)
	}
	return c
}

func (g *Generator) fitBox(mesh geom.Mesh, hull Hull, points []mgl64.Vec3) fit.BoxDef {
	if !hull.IsChildCollider {
		return fit.FitAxisAlignedBox(points)
	}
	switch hull.BoxFitMethod {
	case BoxFitAlignFaces:
		return fit.FitFaceAlignedBox(points, fit.CalcPrimaryAxis(mesh, hull.SelectedFaces, false))
	case BoxFitAxisAligned:
		return fit.FitAxisAlignedBox(points)
	default:
		return fit.FitRotatedBox(points)
	}
}
