package mesher

import (
	"Chisel3D/internal/voxel"
)

// WaterSurfaceDrop is the height lost per fluid level below a source block.
const WaterSurfaceDrop = 0.125

// lavaTint pushes lava toward orange without a dedicated atlas tile.
var lavaTint = [3]float32{1.0, 0.42, 0.08}

// lavaPass emits lava into the opaque buffer. Lava is not see-through, so it
// draws with depth writes and skips blending entirely.
func (b *builder) lavaPass(mesh *Mesh) {
	for _, face := range faceSpecs {
		for slice := 0; slice < voxel.ChunkSize; slice++ {
			b.fillFluidMask(face, slice, true)
			b.sweepMask(mesh, face, slice, false, lavaQuad)
		}
	}
}

// waterPass emits water into the translucent buffer, per-cell so neighboring
// columns can sag to different surface heights.
func (b *builder) waterPass(mesh *Mesh) {
	for _, face := range faceSpecs {
		for slice := 0; slice < voxel.ChunkSize; slice++ {
			b.fillFluidMask(face, slice, false)
			b.sweepMask(mesh, face, slice, false, waterQuad)
		}
	}
}

func (b *builder) fillFluidMask(face faceSpec, slice int, lava bool) {
	b.resetMask()
	isFluid := voxel.IsWater
	if lava {
		isFluid = voxel.IsLava
	}
	for v := 0; v < voxel.ChunkSize; v++ {
		for u := 0; u < voxel.ChunkSize; u++ {
			bc := faceBlockCoords(face, slice, u, v)
			block := b.sampler.At(bc[0], bc[1], bc[2])
			if !isFluid(block) {
				continue
			}

			ac := bc
			ac[face.axis] += face.sign
			adjacent := b.sampler.At(ac[0], ac[1], ac[2])

			// A fluid face shows only against air or a transparent block,
			// never against more of the same fluid.
			if isFluid(adjacent) {
				continue
			}
			if adjacent != voxel.Air && !b.m.registry.Get(adjacent).Transparent {
				continue
			}

			idx := v*voxel.ChunkSize + u
			b.mask[idx] = block
			if b.in.LOD == 0 {
				b.fingerprints[idx] = b.aoFingerprint(face, slice, u, v)
				b.lightLevels[idx] = b.lightLevel(ac)
			}
		}
	}
}

// fluidSurfaceHeight converts a discrete fluid level to the block-local
// surface height. Sources (level 0) still sit slightly below the block top.
func fluidSurfaceHeight(level uint8) float32 {
	return clampf(1-WaterSurfaceDrop*(float32(level)+1), 0, 1)
}

func (b *builder) surfaceHeightAt(coords [3]int, lava bool) (float32, bool) {
	block := b.sampler.At(coords[0], coords[1], coords[2])
	level, ok := voxel.FluidSurfaceLevel(block, lava)
	if !ok {
		return 0, false
	}
	return fluidSurfaceHeight(level), true
}

// fluidTopCornerHeights averages the surface height of the up-to-four fluid
// columns that share each top corner, so adjoining columns meet without
// steps. Corner order: (x0,z0), (x0,z1), (x1,z1), (x1,z0).
func (b *builder) fluidTopCornerHeights(coords [3]int, lava bool, level uint8) [4]float32 {
	base := fluidSurfaceHeight(level)
	heights := [4]float32{base, base, base, base}
	cornerSigns := [4][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

	for i, signs := range cornerSigns {
		xOffsets := [2]int{0, -1}
		if signs[0] == 1 {
			xOffsets = [2]int{0, 1}
		}
		zOffsets := [2]int{0, -1}
		if signs[1] == 1 {
			zOffsets = [2]int{0, 1}
		}

		var sum float32
		var count int
		for _, xo := range xOffsets {
			for _, zo := range zOffsets {
				h, ok := b.surfaceHeightAt([3]int{coords[0] + xo, coords[1], coords[2] + zo}, lava)
				if ok {
					sum += h
					count++
				}
			}
		}
		if count > 0 {
			heights[i] = clampf(sum/float32(count), 0, 1)
		}
	}
	return heights
}
