package mesher

import (
	"github.com/go-gl/mathgl/mgl32"

	"Chisel3D/internal/voxel"
)

// The texture atlas is a 512x512 image of 16x16 tiles, 32 per row. A block id
// indexes its tile directly; dedicated tile ids cover blocks whose faces use
// different sub-images.
const (
	atlasSize     = 512
	atlasTileSize = 16
	atlasColumns  = atlasSize / atlasTileSize
)

// tileOrigin returns the lower UV corner of the tile for an id.
func tileOrigin(id voxel.BlockID) mgl32.Vec2 {
	col := int(id) % atlasColumns
	row := int(id) / atlasColumns
	return mgl32.Vec2{
		float32(col*atlasTileSize) / atlasSize,
		float32(row*atlasTileSize) / atlasSize,
	}
}

// tileOriginForBlock resolves the atlas tile a block samples in the bulk
// pass. Carpets borrow the wool tile of the same color.
func tileOriginForBlock(id voxel.BlockID) mgl32.Vec2 {
	if id >= voxel.CarpetWhite && id <= voxel.CarpetPurple {
		return tileOrigin(voxel.WoolWhite + (id - voxel.CarpetWhite))
	}
	return tileOrigin(id)
}

// timberLogTiles and craftingTableTiles give the per-face tiles for the two
// multi-face cubes, in face order +X, -X, +Y, -Y, +Z, -Z.
func timberLogTiles() [6]mgl32.Vec2 {
	side := tileOrigin(voxel.TileTimberLogSide)
	top := tileOrigin(voxel.TileTimberLogTop)
	return [6]mgl32.Vec2{side, side, top, top, side, side}
}

func craftingTableTiles() [6]mgl32.Vec2 {
	side := tileOrigin(voxel.TileCraftingTableSide)
	top := tileOrigin(voxel.TileCraftingTableTop)
	bottom := tileOrigin(voxel.HewnPlank)
	front := tileOrigin(voxel.TileCraftingTableFront)
	return [6]mgl32.Vec2{side, side, top, bottom, side, front}
}
