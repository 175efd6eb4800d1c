package world

import (
	"sync"

	perlin "github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	opensimplex "github.com/ojrac/opensimplex-go"
	"go.uber.org/zap"

	"Chisel3D/internal/logger"
	"Chisel3D/internal/voxel"
)

const (
	seaLevel   = 60
	baseHeight = 64
	reliefSpan = 24
)

// World is the authoritative block store. Chunks generate lazily from the
// terrain noise the first time anything asks for them and stay resident; the
// streaming controller owns which chunks carry meshes, not which exist.
type World struct {
	mu       sync.RWMutex
	registry *voxel.Registry
	chunks   map[voxel.ChunkCoord]*voxel.Snapshot
	gen      *generator
}

func New(seed int64, registry *voxel.Registry) *World {
	return &World{
		registry: registry,
		chunks:   make(map[voxel.ChunkCoord]*voxel.Snapshot),
		gen:      newGenerator(seed),
	}
}

// ChunkSnapshot returns an isolated copy of the chunk for a mesh worker.
func (w *World) ChunkSnapshot(coord voxel.ChunkCoord) *voxel.Snapshot {
	return w.chunk(coord).Clone()
}

// NeighborSnapshots returns copies of the six face neighbors.
func (w *World) NeighborSnapshots(coord voxel.ChunkCoord) [6]*voxel.Snapshot {
	var out [6]*voxel.Snapshot
	for face := 0; face < 6; face++ {
		out[face] = w.chunk(coord.Offset(face)).Clone()
	}
	return out
}

func (w *World) chunk(coord voxel.ChunkCoord) *voxel.Snapshot {
	w.mu.RLock()
	snapshot, ok := w.chunks[coord]
	w.mu.RUnlock()
	if ok {
		return snapshot
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if snapshot, ok = w.chunks[coord]; ok {
		return snapshot
	}
	snapshot = w.gen.generate(coord)
	w.chunks[coord] = snapshot
	logger.Log.Debug("Generated chunk",
		zap.Int32("x", coord.X), zap.Int32("y", coord.Y), zap.Int32("z", coord.Z))
	return snapshot
}

// Block reads one block by world coordinate.
func (w *World) Block(wx, wy, wz int32) voxel.BlockID {
	coord, lx, ly, lz := split(wx, wy, wz)
	return w.chunk(coord).Get(lx, ly, lz)
}

// SetBlock writes one block and returns every chunk whose mesh the edit can
// change: the containing chunk plus any face neighbor the block touches.
func (w *World) SetBlock(wx, wy, wz int32, id voxel.BlockID) []voxel.ChunkCoord {
	coord, lx, ly, lz := split(wx, wy, wz)
	w.chunk(coord) // ensure it exists before taking the write lock

	w.mu.Lock()
	w.chunks[coord].Set(lx, ly, lz, id)
	w.mu.Unlock()

	affected := []voxel.ChunkCoord{coord}
	if lx == voxel.ChunkSize-1 {
		affected = append(affected, coord.Offset(voxel.FacePosX))
	}
	if lx == 0 {
		affected = append(affected, coord.Offset(voxel.FaceNegX))
	}
	if ly == voxel.ChunkSize-1 {
		affected = append(affected, coord.Offset(voxel.FacePosY))
	}
	if ly == 0 {
		affected = append(affected, coord.Offset(voxel.FaceNegY))
	}
	if lz == voxel.ChunkSize-1 {
		affected = append(affected, coord.Offset(voxel.FacePosZ))
	}
	if lz == 0 {
		affected = append(affected, coord.Offset(voxel.FaceNegZ))
	}
	return affected
}

func split(wx, wy, wz int32) (voxel.ChunkCoord, int, int, int) {
	coord := voxel.ChunkCoord{
		X: floorDiv(wx),
		Y: floorDiv(wy),
		Z: floorDiv(wz),
	}
	return coord,
		int(wx - coord.X*voxel.ChunkSize),
		int(wy - coord.Y*voxel.ChunkSize),
		int(wz - coord.Z*voxel.ChunkSize)
}

func floorDiv(v int32) int32 {
	if v >= 0 {
		return v / voxel.ChunkSize
	}
	return (v - voxel.ChunkSize + 1) / voxel.ChunkSize
}

// RayHit is the first collidable block a ray crossed and the empty cell in
// front of it, which is where a placed block goes.
type RayHit struct {
	Block    [3]int32
	Previous [3]int32
	ID       voxel.BlockID
}

// Raycast walks the voxel grid cell by cell from origin along dir.
func (w *World) Raycast(origin, dir mgl32.Vec3, maxDist float32) (RayHit, bool) {
	if dir.Len() == 0 {
		return RayHit{}, false
	}
	dir = dir.Normalize()

	cell := [3]int32{floorf(origin.X()), floorf(origin.Y()), floorf(origin.Z())}
	prev := cell

	var step [3]int32
	var tMax, tDelta [3]float32
	for axis := 0; axis < 3; axis++ {
		d := dir[axis]
		if d > 0 {
			step[axis] = 1
			tMax[axis] = (float32(cell[axis]+1) - origin[axis]) / d
			tDelta[axis] = 1 / d
		} else if d < 0 {
			step[axis] = -1
			tMax[axis] = (origin[axis] - float32(cell[axis])) / -d
			tDelta[axis] = -1 / d
		} else {
			tMax[axis] = maxDist + 1
			tDelta[axis] = maxDist + 1
		}
	}

	traveled := float32(0)
	for traveled <= maxDist {
		id := w.Block(cell[0], cell[1], cell[2])
		if voxel.IsCollidable(id, w.registry) {
			return RayHit{Block: cell, Previous: prev, ID: id}, true
		}
		prev = cell

		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		traveled = tMax[axis]
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]
	}
	return RayHit{}, false
}

func floorf(v float32) int32 {
	i := int32(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}

// generator turns noise into chunk content. Heights come from three octaves
// of Perlin noise the way the terrain demo layered them; decorations use a
// separate simplex field so editing the terrain shape leaves them stable.
type generator struct {
	relief *perlin.Perlin
	detail opensimplex.Noise
}

func newGenerator(seed int64) *generator {
	return &generator{
		relief: perlin.NewPerlin(2, 2, 3, seed),
		detail: opensimplex.New(seed + 11),
	}
}

func (g *generator) height(wx, wz int32) int32 {
	x := float64(wx)
	z := float64(wz)
	base := g.relief.Noise2D(x*0.01, z*0.01)
	detail := g.relief.Noise2D(x*0.03, z*0.03)
	fine := g.relief.Noise2D(x*0.09, z*0.09)
	combined := base*0.6 + detail*0.3 + fine*0.1
	return baseHeight + int32(combined*reliefSpan)
}

// extended cache covers the chunk plus a 2 block apron so tree canopies
// reaching in from neighbor columns resolve without extra noise calls.
const apron = 2

type columnCache struct {
	heights [voxel.ChunkSize + 2*apron][voxel.ChunkSize + 2*apron]int32
	trees   [voxel.ChunkSize + 2*apron][voxel.ChunkSize + 2*apron]bool
}

func (g *generator) fillColumns(coord voxel.ChunkCoord, cache *columnCache) {
	for dx := range cache.heights {
		for dz := range cache.heights[dx] {
			wx := coord.X*voxel.ChunkSize + int32(dx-apron)
			wz := coord.Z*voxel.ChunkSize + int32(dz-apron)
			h := g.height(wx, wz)
			cache.heights[dx][dz] = h
			cache.trees[dx][dz] = h > seaLevel+1 &&
				g.detail.Eval2(float64(wx)*0.35, float64(wz)*0.35) > 0.86
		}
	}
}

func (g *generator) generate(coord voxel.ChunkCoord) *voxel.Snapshot {
	snapshot := &voxel.Snapshot{}
	cache := &columnCache{}
	g.fillColumns(coord, cache)

	baseY := coord.Y * voxel.ChunkSize
	for x := 0; x < voxel.ChunkSize; x++ {
		for z := 0; z < voxel.ChunkSize; z++ {
			wx := coord.X*voxel.ChunkSize + int32(x)
			wz := coord.Z*voxel.ChunkSize + int32(z)
			h := cache.heights[x+apron][z+apron]
			for y := 0; y < voxel.ChunkSize; y++ {
				wy := baseY + int32(y)
				id := g.blockAt(wx, wy, wz, h, x, z, cache)
				if id != voxel.Air {
					snapshot.Set(x, y, z, id)
				}
			}
		}
	}
	return snapshot
}

func (g *generator) blockAt(wx, wy, wz, h int32, lx, lz int, cache *columnCache) voxel.BlockID {
	switch {
	case wy == 0:
		return voxel.Bedrock
	case wy < h-4:
		return g.stoneAt(wx, wy, wz)
	case wy < h-1:
		return voxel.Dirt
	case wy == h-1:
		if h <= seaLevel+1 {
			return voxel.Sand
		}
		return voxel.VerdantTurf
	case wy < seaLevel:
		return voxel.StillWater
	}

	// Above the surface: trees first, then ground cover.
	if id, ok := g.treeBlockAt(wx, wy, wz, lx, lz, cache); ok {
		return id
	}
	if wy == h && h > seaLevel+1 {
		deco := g.detail.Eval2(float64(wx)*0.35, float64(wz)*0.35)
		switch {
		case deco > 0.60 && deco <= 0.74:
			return voxel.TallGrass
		case deco > 0.74 && deco <= 0.78:
			return voxel.Wildflower
		}
	}
	if wy == h && h <= seaLevel+1 && h > seaLevel {
		if g.detail.Eval2(float64(wx)*0.5, float64(wz)*0.5) > 0.9 {
			return voxel.Cactus
		}
	}
	return voxel.Air
}

func (g *generator) stoneAt(wx, wy, wz int32) voxel.BlockID {
	// Pockets of lava deep down keep the emissive path exercised.
	if wy < 12 && g.detail.Eval2(float64(wx)*0.2, float64(wz)*0.2) > 0.92 {
		return voxel.StillLava
	}
	return voxel.Rubblestone
}

const (
	trunkHeight  = 5
	canopyRadius = 2
)

func (g *generator) treeBlockAt(wx, wy, wz int32, lx, lz int, cache *columnCache) (voxel.BlockID, bool) {
	for dx := -canopyRadius; dx <= canopyRadius; dx++ {
		for dz := -canopyRadius; dz <= canopyRadius; dz++ {
			cx := lx + apron + dx
			cz := lz + apron + dz
			if !cache.trees[cx][cz] {
				continue
			}
			base := cache.heights[cx][cz]
			if dx == 0 && dz == 0 && wy >= base && wy < base+trunkHeight {
				return voxel.TimberLog, true
			}
			dy := wy - (base + trunkHeight - 1)
			if dy >= -1 && dy <= 2 {
				reach := canopyRadius
				if dy >= 1 {
					reach = 1
				}
				if abs32(int32(dx)) <= int32(reach) && abs32(int32(dz)) <= int32(reach) {
					return voxel.CanopyLeaves, true
				}
			}
		}
	}
	return voxel.Air, false
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
