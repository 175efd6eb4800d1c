package voxel

// Sampler answers block lookups for a chunk plus its six face neighbors.
// Coordinates may step at most one block outside the center chunk along a
// single axis; that read wraps into the matching neighbor. Diagonal reads and
// reads into absent neighbors answer Air, which keeps boundary faces visible
// instead of leaking garbage geometry.
type Sampler struct {
	center    *Snapshot
	neighbors [6]*Snapshot
}

// NewSampler wires a center snapshot to its neighbor array. Nil entries mean
// the neighbor is not loaded. The order of neighbors follows the face
// constants: +X, -X, +Y, -Y, +Z, -Z.
func NewSampler(center *Snapshot, neighbors [6]*Snapshot) *Sampler {
	return &Sampler{center: center, neighbors: neighbors}
}

// At returns the block at local coordinates relative to the center chunk.
func (s *Sampler) At(x, y, z int) BlockID {
	xo := x < 0 || x >= ChunkSize
	yo := y < 0 || y >= ChunkSize
	zo := z < 0 || z >= ChunkSize

	if !xo && !yo && !zo {
		return s.center.Get(x, y, z)
	}

	// More than one axis out of bounds is a diagonal: no neighbor holds it.
	if (xo && yo) || (xo && zo) || (yo && zo) {
		return Air
	}

	switch {
	case x == ChunkSize:
		return s.neighborAt(FacePosX, 0, y, z)
	case x == -1:
		return s.neighborAt(FaceNegX, ChunkSize-1, y, z)
	case y == ChunkSize:
		return s.neighborAt(FacePosY, x, 0, z)
	case y == -1:
		return s.neighborAt(FaceNegY, x, ChunkSize-1, z)
	case z == ChunkSize:
		return s.neighborAt(FacePosZ, x, y, 0)
	case z == -1:
		return s.neighborAt(FaceNegZ, x, y, ChunkSize-1)
	}

	// Out by more than one block along a single axis: out of reach.
	return Air
}

func (s *Sampler) neighborAt(face, x, y, z int) BlockID {
	n := s.neighbors[face]
	if n == nil {
		return Air
	}
	return n.Get(x, y, z)
}
