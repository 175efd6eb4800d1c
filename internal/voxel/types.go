package voxel

// ChunkSize is the edge length of a cubic chunk in blocks.
const ChunkSize = 32

// ChunkVolume is the block count of one chunk.
const ChunkVolume = ChunkSize * ChunkSize * ChunkSize

// BlockID identifies a block type. Zero is always air.
type BlockID uint16

// ChunkCoord addresses a chunk in the world grid. Comparable, used as a map key.
type ChunkCoord struct {
	X, Y, Z int32
}

// Neighbor face order used everywhere a [6] neighbor array appears:
// +X, -X, +Y, -Y, +Z, -Z.
const (
	FacePosX = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// Offset returns the chunk coordinate one step along the given face index.
func (c ChunkCoord) Offset(face int) ChunkCoord {
	switch face {
	case FacePosX:
		return ChunkCoord{c.X + 1, c.Y, c.Z}
	case FaceNegX:
		return ChunkCoord{c.X - 1, c.Y, c.Z}
	case FacePosY:
		return ChunkCoord{c.X, c.Y + 1, c.Z}
	case FaceNegY:
		return ChunkCoord{c.X, c.Y - 1, c.Z}
	case FacePosZ:
		return ChunkCoord{c.X, c.Y, c.Z + 1}
	default:
		return ChunkCoord{c.X, c.Y, c.Z - 1}
	}
}

// Snapshot is a read-only copy of one chunk's block grid. A meshing job owns
// its snapshot (and neighbor snapshots) exclusively, which is what makes
// cross-goroutine meshing safe without locks.
type Snapshot struct {
	Blocks [ChunkVolume]BlockID
}

// Index maps local block coordinates to the flat array index.
func Index(x, y, z int) int {
	return (y*ChunkSize+z)*ChunkSize + x
}

func (s *Snapshot) Get(x, y, z int) BlockID {
	return s.Blocks[Index(x, y, z)]
}

func (s *Snapshot) Set(x, y, z int, id BlockID) {
	s.Blocks[Index(x, y, z)] = id
}

// Clone returns an independent copy, taken at job-submission time.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{}
	out.Blocks = s.Blocks
	return out
}

// LightField supplies the externally computed per-block light level (0..15)
// at world block coordinates. Implementations must be safe for concurrent
// reads; meshing workers sample them off the main goroutine.
type LightField interface {
	LightAt(x, y, z int) uint8
}
