package mesher

import (
	"github.com/go-gl/mathgl/mgl32"

	"Chisel3D/internal/voxel"
)

// Geometry constants for the non-cubic shapes, in block-local units.
const (
	doorThickness      = 0.1875
	ladderFaceOffset   = 0.0625
	carpetThickness    = 0.0625
	cactusInset        = 0.0625
	fencePostHalfWidth = 0.125
	fenceBarHalfWidth  = 0.0625
	fenceBarHeight     = 0.125
	fenceBarLowY       = 0.375
	fenceBarHighY      = 0.75
	crossPlantInset    = 0.02
	leverHeight        = 0.625
	leverHalfExtent    = 0.1875
	buttonHalfSize     = 0.125
	buttonHeight       = 0.125
	torchStickWidth    = 0.14
	torchStickHeight   = 0.66
	torchFlameSize     = 0.24
	torchFlameBase     = 0.48
	bedHeight          = 0.5625
	plateInset         = 0.0625
	plateHeight        = 0.0625
)

var torchFlameTint = [3]float32{1.0, 0.9, 0.65}

// shapePasses emits all blocks that need custom geometry. One scan over the
// chunk, dispatching on the classified shape; glass panes land in the
// translucent buffer, everything else is opaque.
func (b *builder) shapePasses(opaque, translucent *Mesh) {
	for y := 0; y < voxel.ChunkSize; y++ {
		for z := 0; z < voxel.ChunkSize; z++ {
			for x := 0; x < voxel.ChunkSize; x++ {
				block := b.in.Chunk.Get(x, y, z)
				if block == voxel.Air {
					continue
				}
				shape := voxel.Classify(block)
				bc := [3]int{x, y, z}

				switch shape.Kind {
				case voxel.ShapeMultiFaceCube:
					b.emitMultiFaceCube(opaque, bc, block)
				case voxel.ShapeTorch:
					b.emitTorch(opaque, bc)
				case voxel.ShapeDoor:
					b.emitDoor(opaque, bc, block, shape)
				case voxel.ShapeLadder:
					b.emitLadder(opaque, bc, block, shape.Facing)
				case voxel.ShapeVine:
					b.emitVine(opaque, bc, block, shape.Facing)
				case voxel.ShapeFence:
					b.emitFence(opaque, bc)
				case voxel.ShapeTrapdoor:
					b.emitTrapdoor(opaque, bc, shape)
				case voxel.ShapeBed:
					b.emitBed(opaque, bc, shape.Head)
				case voxel.ShapePressurePlate:
					b.emitPressurePlate(opaque, bc)
				case voxel.ShapeCarpet:
					b.emitCarpet(opaque, bc, block)
				case voxel.ShapeSlab:
					b.emitSlab(opaque, bc, shape)
				case voxel.ShapeCactus:
					b.emitCactus(opaque, bc, block)
				case voxel.ShapeStairs:
					b.emitStairs(opaque, bc, shape)
				case voxel.ShapeLever:
					b.emitLever(opaque, bc, block)
				case voxel.ShapeButton:
					b.emitButton(opaque, bc, block)
				case voxel.ShapeCrossPlant:
					b.emitCrossPlant(opaque, bc, block, shape.Height)
				case voxel.ShapeGlassPane:
					b.emitGlassPane(translucent, bc)
				}
			}
		}
	}
}

func (b *builder) blockBase(bc [3]int) (float32, float32, float32) {
	return b.worldOffset[0] + float32(bc[0]),
		b.worldOffset[1] + float32(bc[1]),
		b.worldOffset[2] + float32(bc[2])
}

func (b *builder) emitMultiFaceCube(mesh *Mesh, bc [3]int, block voxel.BlockID) {
	bx, by, bz := b.blockBase(bc)

	var faces [6]bool
	for i := 0; i < 6; i++ {
		ac := bc
		switch i {
		case voxel.FacePosX:
			ac[0]++
		case voxel.FaceNegX:
			ac[0]--
		case voxel.FacePosY:
			ac[1]++
		case voxel.FaceNegY:
			ac[1]--
		case voxel.FacePosZ:
			ac[2]++
		case voxel.FaceNegZ:
			ac[2]--
		}
		adjacent := b.sampler.At(ac[0], ac[1], ac[2])
		faces[i] = adjacent == voxel.Air || b.m.registry.Get(adjacent).Transparent
	}

	tiles := craftingTableTiles()
	if block == voxel.TimberLog {
		tiles = timberLogTiles()
	}
	b.emitBoxFacesTiled(mesh, bc,
		[3]float32{bx, by, bz}, [3]float32{bx + 1, by + 1, bz + 1},
		tiles, false, faces)
}

func (b *builder) emitTorch(mesh *Mesh, bc [3]int) {
	bx, by, bz := b.blockBase(bc)

	x0 := bx + 0.5 - torchStickWidth*0.5
	x1 := bx + 0.5 + torchStickWidth*0.5
	z0 := bz + 0.5 - torchStickWidth*0.5
	z1 := bz + 0.5 + torchStickWidth*0.5
	// The stick samples its own cell's light so the torch never renders in
	// the dark it is supposed to dispel.
	b.emitBox(mesh, bc,
		[3]float32{x0, by, z0},
		[3]float32{x1, by + torchStickHeight, z1},
		tileOrigin(voxel.TileTorchStick), true)

	flameBase := by + torchFlameBase
	flameHalf := float32(torchFlameSize) * 0.5
	flameLight := maxf(float32(b.sampleLight(bc))/15, 0.88)
	b.emitDiagonalCross(mesh,
		[3]float32{bx + 0.5 - flameHalf, flameBase, bz + 0.5 - flameHalf},
		[3]float32{bx + 0.5 + flameHalf, flameBase + torchFlameSize, bz + 0.5 + flameHalf},
		[4]float32{flameLight, flameLight, flameLight, flameLight},
		tileOrigin(voxel.TileTorchFlame), torchFlameTint)
}

func doorBounds(facing voxel.Facing, open bool) ([3]float32, [3]float32) {
	switch {
	case facing == voxel.North && !open:
		return [3]float32{0, 0, 1 - doorThickness}, [3]float32{1, 1, 1}
	case facing == voxel.East && !open:
		return [3]float32{0, 0, 0}, [3]float32{doorThickness, 1, 1}
	case facing == voxel.South && !open:
		return [3]float32{0, 0, 0}, [3]float32{1, 1, doorThickness}
	case facing == voxel.West && !open:
		return [3]float32{1 - doorThickness, 0, 0}, [3]float32{1, 1, 1}
	case facing == voxel.North:
		return [3]float32{1 - doorThickness, 0, 0}, [3]float32{1, 1, 1}
	case facing == voxel.East:
		return [3]float32{0, 0, 0}, [3]float32{1, 1, doorThickness}
	case facing == voxel.South:
		return [3]float32{0, 0, 0}, [3]float32{doorThickness, 1, 1}
	default:
		return [3]float32{0, 0, 1 - doorThickness}, [3]float32{1, 1, 1}
	}
}

func (b *builder) emitDoor(mesh *Mesh, bc [3]int, block voxel.BlockID, shape voxel.Shape) {
	bx, by, bz := b.blockBase(bc)
	min, max := doorBounds(shape.Facing, shape.Open)
	b.emitBox(mesh, bc,
		[3]float32{bx + min[0], by + min[1], bz + min[2]},
		[3]float32{bx + max[0], by + max[1], bz + max[2]},
		tileOrigin(block), false)
}

func (b *builder) emitLadder(mesh *Mesh, bc [3]int, block voxel.BlockID, facing voxel.Facing) {
	bx, by, bz := b.blockBase(bc)
	x0, x1 := bx, bx+1
	y0, y1 := by, by+1
	z0, z1 := bz, bz+1
	tile := tileOrigin(block)

	switch facing {
	case voxel.North:
		z := z1 - ladderFaceOffset
		b.emitDoubleSidedQuad(mesh, bc,
			[4][3]float32{{x0, y0, z}, {x1, y0, z}, {x1, y1, z}, {x0, y1, z}},
			mgl32.Vec3{0, 0, -1}, tile)
	case voxel.East:
		x := x0 + ladderFaceOffset
		b.emitDoubleSidedQuad(mesh, bc,
			[4][3]float32{{x, y0, z0}, {x, y0, z1}, {x, y1, z1}, {x, y1, z0}},
			mgl32.Vec3{1, 0, 0}, tile)
	case voxel.South:
		z := z0 + ladderFaceOffset
		b.emitDoubleSidedQuad(mesh, bc,
			[4][3]float32{{x1, y0, z}, {x0, y0, z}, {x0, y1, z}, {x1, y1, z}},
			mgl32.Vec3{0, 0, 1}, tile)
	case voxel.West:
		x := x1 - ladderFaceOffset
		b.emitDoubleSidedQuad(mesh, bc,
			[4][3]float32{{x, y0, z1}, {x, y0, z0}, {x, y1, z0}, {x, y1, z1}},
			mgl32.Vec3{-1, 0, 0}, tile)
	}
}

func (b *builder) emitVine(mesh *Mesh, bc [3]int, block voxel.BlockID, facing voxel.Facing) {
	bx, by, bz := b.blockBase(bc)
	x0, x1 := bx, bx+1
	y0, y1 := by, by+1
	z0, z1 := bz, bz+1
	tile := tileOrigin(block)

	// Vines hang against the opposite wall of the cell compared to ladders
	// with the same facing.
	switch facing {
	case voxel.North:
		z := z0 + ladderFaceOffset
		b.emitDoubleSidedQuad(mesh, bc,
			[4][3]float32{{x1, y0, z}, {x0, y0, z}, {x0, y1, z}, {x1, y1, z}},
			mgl32.Vec3{0, 0, -1}, tile)
	case voxel.East:
		x := x1 - ladderFaceOffset
		b.emitDoubleSidedQuad(mesh, bc,
			[4][3]float32{{x, y0, z0}, {x, y0, z1}, {x, y1, z1}, {x, y1, z0}},
			mgl32.Vec3{1, 0, 0}, tile)
	case voxel.South:
		z := z1 - ladderFaceOffset
		b.emitDoubleSidedQuad(mesh, bc,
			[4][3]float32{{x0, y0, z}, {x1, y0, z}, {x1, y1, z}, {x0, y1, z}},
			mgl32.Vec3{0, 0, 1}, tile)
	case voxel.West:
		x := x0 + ladderFaceOffset
		b.emitDoubleSidedQuad(mesh, bc,
			[4][3]float32{{x, y0, z1}, {x, y0, z0}, {x, y1, z0}, {x, y1, z1}},
			mgl32.Vec3{-1, 0, 0}, tile)
	}
}

func (b *builder) emitFence(mesh *Mesh, bc [3]int) {
	bx, by, bz := b.blockBase(bc)
	tile := tileOrigin(voxel.Fence)

	b.emitBox(mesh, bc,
		[3]float32{bx + 0.5 - fencePostHalfWidth, by, bz + 0.5 - fencePostHalfWidth},
		[3]float32{bx + 0.5 + fencePostHalfWidth, by + 1, bz + 0.5 + fencePostHalfWidth},
		tile, false)

	connects := func(dx, dz int) bool {
		return b.sampler.At(bc[0]+dx, bc[1], bc[2]+dz) == voxel.Fence
	}
	north := connects(0, -1)
	south := connects(0, 1)
	east := connects(1, 0)
	west := connects(-1, 0)

	for _, barY := range [2]float32{fenceBarLowY, fenceBarHighY} {
		if north {
			b.emitFenceBar(mesh, bc, voxel.North, barY, tile)
		}
		if south {
			b.emitFenceBar(mesh, bc, voxel.South, barY, tile)
		}
		if east {
			b.emitFenceBar(mesh, bc, voxel.East, barY, tile)
		}
		if west {
			b.emitFenceBar(mesh, bc, voxel.West, barY, tile)
		}
	}
}

func (b *builder) emitFenceBar(mesh *Mesh, bc [3]int, dir voxel.Facing, localY float32, tile mgl32.Vec2) {
	x := float32(bc[0])
	y := float32(bc[1])
	z := float32(bc[2])

	var min, max [3]float32
	switch dir {
	case voxel.North:
		min = [3]float32{x + 0.5 - fenceBarHalfWidth, y + localY, z}
		max = [3]float32{x + 0.5 + fenceBarHalfWidth, y + localY + fenceBarHeight, z + 0.5}
	case voxel.South:
		min = [3]float32{x + 0.5 - fenceBarHalfWidth, y + localY, z + 0.5}
		max = [3]float32{x + 0.5 + fenceBarHalfWidth, y + localY + fenceBarHeight, z + 1}
	case voxel.East:
		min = [3]float32{x + 0.5, y + localY, z + 0.5 - fenceBarHalfWidth}
		max = [3]float32{x + 1, y + localY + fenceBarHeight, z + 0.5 + fenceBarHalfWidth}
	case voxel.West:
		min = [3]float32{x, y + localY, z + 0.5 - fenceBarHalfWidth}
		max = [3]float32{x + 0.5, y + localY + fenceBarHeight, z + 0.5 + fenceBarHalfWidth}
	}

	b.emitBox(mesh, bc,
		[3]float32{b.worldOffset[0] + min[0], b.worldOffset[1] + min[1], b.worldOffset[2] + min[2]},
		[3]float32{b.worldOffset[0] + max[0], b.worldOffset[1] + max[1], b.worldOffset[2] + max[2]},
		tile, false)
}

func (b *builder) emitTrapdoor(mesh *Mesh, bc [3]int, shape voxel.Shape) {
	bx, by, bz := b.blockBase(bc)
	tile := tileOrigin(voxel.TrapdoorClosed)

	if !shape.Open {
		b.emitBox(mesh, bc,
			[3]float32{bx, by, bz},
			[3]float32{bx + 1, by + doorThickness, bz + 1},
			tile, false)
		return
	}

	var min, max [3]float32
	switch shape.Facing {
	case voxel.North:
		min, max = [3]float32{bx, by, bz}, [3]float32{bx + 1, by + 1, bz + doorThickness}
	case voxel.East:
		min, max = [3]float32{bx + 1 - doorThickness, by, bz}, [3]float32{bx + 1, by + 1, bz + 1}
	case voxel.South:
		min, max = [3]float32{bx, by, bz + 1 - doorThickness}, [3]float32{bx + 1, by + 1, bz + 1}
	case voxel.West:
		min, max = [3]float32{bx, by, bz}, [3]float32{bx + doorThickness, by + 1, bz + 1}
	}
	b.emitBox(mesh, bc, min, max, tile, false)
}

func (b *builder) emitBed(mesh *Mesh, bc [3]int, head bool) {
	bx, by, bz := b.blockBase(bc)
	tile := tileOrigin(voxel.BedFootNorth)
	if head {
		tile = tileOrigin(voxel.BedHeadNorth)
	}
	b.emitBox(mesh, bc,
		[3]float32{bx, by, bz},
		[3]float32{bx + 1, by + bedHeight, bz + 1},
		tile, false)
}

func (b *builder) emitPressurePlate(mesh *Mesh, bc [3]int) {
	bx, by, bz := b.blockBase(bc)
	b.emitBox(mesh, bc,
		[3]float32{bx + plateInset, by, bz + plateInset},
		[3]float32{bx + 1 - plateInset, by + plateHeight, bz + 1 - plateInset},
		tileOrigin(voxel.StonePressurePlate), false)
}

func (b *builder) emitCarpet(mesh *Mesh, bc [3]int, block voxel.BlockID) {
	bx, by, bz := b.blockBase(bc)
	b.emitBoxFaces(mesh, bc,
		[3]float32{bx, by, bz},
		[3]float32{bx + 1, by + carpetThickness, bz + 1},
		tileOriginForBlock(block), false,
		[6]bool{true, true, true, true, true, true})
}

func (b *builder) emitSlab(mesh *Mesh, bc [3]int, shape voxel.Shape) {
	bx, by, bz := b.blockBase(bc)
	tile := tileOrigin(voxel.WoodenSlabBottom)
	if shape.Stone {
		tile = tileOrigin(voxel.StoneSlabBottom)
	}

	yMin, yMax := by, by+0.5
	if shape.Top {
		yMin, yMax = by+0.5, by+1
	}
	b.emitBox(mesh, bc,
		[3]float32{bx, yMin, bz},
		[3]float32{bx + 1, yMax, bz + 1},
		tile, false)
}

func (b *builder) emitCactus(mesh *Mesh, bc [3]int, block voxel.BlockID) {
	bx, by, bz := b.blockBase(bc)
	b.emitBoxFaces(mesh, bc,
		[3]float32{bx + cactusInset, by, bz + cactusInset},
		[3]float32{bx + 1 - cactusInset, by + 1, bz + 1 - cactusInset},
		tileOrigin(block), false,
		[6]bool{true, true, true, true, true, true})
}

func (b *builder) emitStairs(mesh *Mesh, bc [3]int, shape voxel.Shape) {
	bx, by, bz := b.blockBase(bc)
	tile := tileOrigin(voxel.HewnPlank)
	if shape.Stone {
		tile = tileOrigin(voxel.Rubblestone)
	}
	// Stairs currently render as their lower half slab. The stepped upper
	// half needs per-facing boxes plus neighbor-aware corner joins.
	b.emitBox(mesh, bc,
		[3]float32{bx, by, bz},
		[3]float32{bx + 1, by + 0.5, bz + 1},
		tile, false)
}

func (b *builder) emitLever(mesh *Mesh, bc [3]int, block voxel.BlockID) {
	bx, by, bz := b.blockBase(bc)
	cx, cz := bx+0.5, bz+0.5
	light := float32(b.sampleLight(bc)) / 15
	b.emitDiagonalCross(mesh,
		[3]float32{cx - leverHalfExtent, by, cz - leverHalfExtent},
		[3]float32{cx + leverHalfExtent, by + leverHeight, cz + leverHalfExtent},
		[4]float32{light, light, light, light},
		tileOrigin(block), White)
}

func (b *builder) emitButton(mesh *Mesh, bc [3]int, block voxel.BlockID) {
	bx, by, bz := b.blockBase(bc)
	top := by + 1
	b.emitBox(mesh, bc,
		[3]float32{bx + 0.5 - buttonHalfSize, top - buttonHeight, bz + 0.5 - buttonHalfSize},
		[3]float32{bx + 0.5 + buttonHalfSize, top, bz + 0.5 + buttonHalfSize},
		tileOrigin(block), false)
}

func (b *builder) emitCrossPlant(mesh *Mesh, bc [3]int, block voxel.BlockID, height float32) {
	bx, by, bz := b.blockBase(bc)
	light := float32(b.sampleLight(bc)) / 15
	wx := int(b.in.Coord.X)*voxel.ChunkSize + bc[0]
	wz := int(b.in.Coord.Z)*voxel.ChunkSize + bc[2]
	tint := b.m.tinter.ColorFor(block, wx, wz)

	b.emitDiagonalCross(mesh,
		[3]float32{bx + crossPlantInset, by, bz + crossPlantInset},
		[3]float32{bx + 1 - crossPlantInset, by + height, bz + 1 - crossPlantInset},
		[4]float32{light, light, light, light},
		tileOrigin(block), tint)
}

func (b *builder) emitGlassPane(mesh *Mesh, bc [3]int) {
	bx, by, bz := b.blockBase(bc)
	light := float32(b.sampleLight(bc)) / 15
	b.emitDiagonalCross(mesh,
		[3]float32{bx, by, bz},
		[3]float32{bx + 1, by + 1, bz + 1},
		[4]float32{light, light, light, light},
		tileOrigin(voxel.GlassPane), White)
}

// emitDiagonalCross builds two diagonal double-sided quads between min and
// max, the X-shaped silhouette shared by plants, levers, and panes.
func (b *builder) emitDiagonalCross(mesh *Mesh, min, max [3]float32, lightValues [4]float32, tile mgl32.Vec2, tint [3]float32) {
	texCoords := [4]mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	ao := [4]float32{1, 1, 1, 1}
	var noEmissive [4]float32
	x0, y0, z0 := min[0], min[1], min[2]
	x1, y1, z1 := max[0], max[1], max[2]

	diagA := [4][3]float32{{x0, y0, z0}, {x1, y0, z1}, {x1, y1, z1}, {x0, y1, z0}}
	b.pushLit(mesh, diagA, mgl32.Vec3{0.707, 0, -0.707}, texCoords, ao, lightValues, noEmissive, tile, tint, false)
	b.pushLit(mesh, diagA, mgl32.Vec3{-0.707, 0, 0.707}, texCoords, ao, lightValues, noEmissive, tile, tint, true)

	diagB := [4][3]float32{{x1, y0, z0}, {x0, y0, z1}, {x0, y1, z1}, {x1, y1, z0}}
	b.pushLit(mesh, diagB, mgl32.Vec3{-0.707, 0, -0.707}, texCoords, ao, lightValues, noEmissive, tile, tint, false)
	b.pushLit(mesh, diagB, mgl32.Vec3{0.707, 0, 0.707}, texCoords, ao, lightValues, noEmissive, tile, tint, true)
}

func (b *builder) emitDoubleSidedQuad(mesh *Mesh, bc [3]int, positions [4][3]float32, normal mgl32.Vec3, tile mgl32.Vec2) {
	texCoords := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	ao := [4]float32{1, 1, 1, 1}
	light := float32(b.sampleLight(bc)) / 15
	lightValues := [4]float32{light, light, light, light}
	var noEmissive [4]float32

	b.pushLit(mesh, positions, normal, texCoords, ao, lightValues, noEmissive, tile, White, false)
	b.pushLit(mesh, positions, mgl32.Vec3{-normal[0], -normal[1], -normal[2]}, texCoords, ao, lightValues, noEmissive, tile, White, true)
}

func (b *builder) emitBox(mesh *Mesh, bc [3]int, min, max [3]float32, tile mgl32.Vec2, sourceLightBoost bool) {
	b.emitBoxFaces(mesh, bc, min, max, tile, sourceLightBoost,
		[6]bool{true, true, true, true, true, true})
}

func (b *builder) emitBoxFaces(mesh *Mesh, bc [3]int, min, max [3]float32, tile mgl32.Vec2, sourceLightBoost bool, faces [6]bool) {
	b.emitBoxFacesTiled(mesh, bc, min, max,
		[6]mgl32.Vec2{tile, tile, tile, tile, tile, tile},
		sourceLightBoost, faces)
}

// emitBoxFacesTiled emits an axis-aligned box with an atlas tile per face,
// in the usual face order. Each face samples light from the adjacent cell;
// sourceLightBoost additionally floors that at the emitting block's own
// light, which torches need.
func (b *builder) emitBoxFacesTiled(mesh *Mesh, bc [3]int, min, max [3]float32, tiles [6]mgl32.Vec2, sourceLightBoost bool, faces [6]bool) {
	x0, y0, z0 := min[0], min[1], min[2]
	x1, y1, z1 := max[0], max[1], max[2]

	var sourceLight uint8
	if sourceLightBoost {
		sourceLight = b.sampleLight(bc)
	}

	v000 := [3]float32{x0, y0, z0}
	v100 := [3]float32{x1, y0, z0}
	v110 := [3]float32{x1, y1, z0}
	v010 := [3]float32{x0, y1, z0}
	v001 := [3]float32{x0, y0, z1}
	v101 := [3]float32{x1, y0, z1}
	v111 := [3]float32{x1, y1, z1}
	v011 := [3]float32{x0, y1, z1}

	type boxFace struct {
		positions [4][3]float32
		normal    mgl32.Vec3
		sample    [3]int
	}
	faceDefs := [6]boxFace{
		{[4][3]float32{v100, v110, v111, v101}, mgl32.Vec3{1, 0, 0}, [3]int{bc[0] + 1, bc[1], bc[2]}},
		{[4][3]float32{v000, v001, v011, v010}, mgl32.Vec3{-1, 0, 0}, [3]int{bc[0] - 1, bc[1], bc[2]}},
		{[4][3]float32{v010, v011, v111, v110}, mgl32.Vec3{0, 1, 0}, [3]int{bc[0], bc[1] + 1, bc[2]}},
		{[4][3]float32{v000, v100, v101, v001}, mgl32.Vec3{0, -1, 0}, [3]int{bc[0], bc[1] - 1, bc[2]}},
		{[4][3]float32{v001, v101, v111, v011}, mgl32.Vec3{0, 0, 1}, [3]int{bc[0], bc[1], bc[2] + 1}},
		{[4][3]float32{v000, v010, v110, v100}, mgl32.Vec3{0, 0, -1}, [3]int{bc[0], bc[1], bc[2] - 1}},
	}

	texCoords := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	ao := [4]float32{1, 1, 1, 1}
	var noEmissive [4]float32

	for i, def := range faceDefs {
		if !faces[i] {
			continue
		}
		sampled := b.sampleLight(def.sample)
		if sourceLight > sampled {
			sampled = sourceLight
		}
		light := float32(sampled) / 15
		lightValues := [4]float32{light, light, light, light}
		b.pushLit(mesh, def.positions, def.normal, texCoords, ao, lightValues, noEmissive, tiles[i], White, false)
	}
}

// sampleLight reads the block-light field at chunk-local coordinates.
func (b *builder) sampleLight(local [3]int) uint8 {
	return b.lightLevel(local)
}
