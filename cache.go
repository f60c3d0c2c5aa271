package hullgen

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"log/slog"
	"math"

	"github.com/akmonengine/hullgen/geom"
	lru "github.com/hashicorp/golang-lru/v2"
)

// MeshCache keeps the latest colliders keyed by a fingerprint of the mesh,
// the hull and the generator settings, so repainting one hull does not
// rebuild the others. It is safe for concurrent use.
type MeshCache struct {
	colliders *lru.Cache[string, Collider]
}

func NewMeshCache(size int, logger *slog.Logger) (*MeshCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	colliders, err := lru.NewWithEvict(size, func(key string, c Collider) {
		logger.Debug("hullgen: cache eviction", "hull", c.Name, "key", key[:min(8, len(key))])
	})
	if err != nil {
		return nil, err
	}
	return &MeshCache{colliders: colliders}, nil
}

func (mc *MeshCache) Get(key string) (Collider, bool) {
	return mc.colliders.Get(key)
}

func (mc *MeshCache) Add(key string, c Collider) {
	mc.colliders.Add(key, c)
}

func (mc *MeshCache) Len() int {
	return mc.colliders.Len()
}

func (mc *MeshCache) Purge() {
	mc.colliders.Purge()
}

type fingerprint struct {
	h   hash.Hash
	buf []byte
}

func (f *fingerprint) writeInt(v int) {
	f.buf = binary.LittleEndian.AppendUint64(f.buf[:0], uint64(v))
	f.h.Write(f.buf)
}

func (f *fingerprint) writeFloat(v float64) {
	f.buf = binary.LittleEndian.AppendUint64(f.buf[:0], math.Float64bits(v))
	f.h.Write(f.buf)
}

func (f *fingerprint) writeString(s string) {
	f.writeInt(len(s))
	f.h.Write([]byte(s))
}

func (f *fingerprint) writeMesh(m geom.Mesh) {
	f.writeInt(len(m.Vertices))
	for _, v := range m.Vertices {
		f.writeFloat(v[0])
		f.writeFloat(v[1])
		f.writeFloat(v[2])
	}
	f.writeInt(len(m.Indices))
	for _, idx := range m.Indices {
		f.writeInt(idx)
	}
}

// cacheKey hashes everything a collider depends on. The selection is hashed
// as a set.
func cacheKey(input Input, hull Hull, config Config) string {
	f := &fingerprint{h: sha1.New(), buf: make([]byte, 0, 8)}

	f.writeMesh(input.Mesh)
	if hull.Type == HullTypeAuto {
		f.writeInt(len(input.AutoHulls))
		for _, m := range input.AutoHulls {
			f.writeMesh(m)
		}
	}

	f.writeString(hull.Name)
	f.writeInt(int(hull.Type))
	selection := uniqueTriangles(hull.SelectedFaces)
	f.writeInt(len(selection))
	for _, tri := range selection {
		f.writeInt(tri)
	}
	f.writeInt(hull.MaxPlanes)
	if hull.IsChildCollider {
		f.writeInt(1)
	} else {
		f.writeInt(0)
	}
	f.writeInt(int(hull.BoxFitMethod))

	f.writeFloat(config.FaceThickness)
	s := config.Simplify
	f.writeFloat(s.MinFaceArea)
	f.writeFloat(s.EdgeConnectTolerance)
	f.writeFloat(s.LoopCloseTolerance)
	f.writeFloat(s.UniqueVertexThreshold)
	f.writeFloat(s.PlaneAngleTolerance)
	f.writeFloat(s.PlaneDistanceTolerance)
	f.writeInt(int(config.Capsule.Seed))
	f.writeInt(config.Capsule.Iterations)
	f.writeFloat(config.Capsule.JitterFraction)

	return hex.EncodeToString(f.h.Sum(nil))
}
