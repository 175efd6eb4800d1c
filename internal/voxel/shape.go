package voxel

// ShapeKind tags the render geometry family a block belongs to.
type ShapeKind uint8

const (
	ShapeNone ShapeKind = iota
	ShapeCube
	ShapeMultiFaceCube
	ShapeFluid
	ShapeCrossPlant
	ShapeDoor
	ShapeLadder
	ShapeVine
	ShapeFence
	ShapeSlab
	ShapeStairs
	ShapeTrapdoor
	ShapeBed
	ShapePressurePlate
	ShapeCarpet
	ShapeCactus
	ShapeGlassPane
	ShapeLever
	ShapeButton
	ShapeTorch
)

// Facing is a horizontal direction for oriented shapes.
type Facing uint8

const (
	North Facing = iota
	East
	South
	West
)

// Shape is the classification result: a kind plus the parameters that kind
// needs. Fields outside a kind's parameter set are zero.
type Shape struct {
	Kind   ShapeKind
	Facing Facing
	Open   bool    // door, trapdoor
	Upper  bool    // door segment
	Top    bool    // slab half
	Head   bool    // bed segment
	Stone  bool    // stairs material
	Lava   bool    // fluid kind
	Level  uint8   // fluid level, 0 = source
	Color  uint8   // carpet color index
	Height float32 // cross-plant height
}

// Classify maps a block id to its render shape. Unknown ids map to ShapeNone:
// invisible and non-solid, never an error.
func Classify(id BlockID) Shape {
	switch {
	case id == Air || id >= blockCount:
		return Shape{Kind: ShapeNone}
	case id == TimberLog || id == CraftingTable:
		return Shape{Kind: ShapeMultiFaceCube}
	case id >= StillWater && id <= FlowingWater7:
		return Shape{Kind: ShapeFluid, Level: fluidLevel(id, StillWater, FlowingWater0)}
	case id >= StillLava && id <= FlowingLava3:
		return Shape{Kind: ShapeFluid, Lava: true, Level: fluidLevel(id, StillLava, FlowingLava0)}
	case id == Torch:
		return Shape{Kind: ShapeTorch}
	case id == BrownMushroom || id == RedMushroom:
		return Shape{Kind: ShapeCrossPlant, Height: 0.5}
	case id == TallGrass || id == Wildflower || id == Sapling ||
		id == SugarCane || id == Wheat || id == Fire || id == Cobweb:
		return Shape{Kind: ShapeCrossPlant, Height: 1.0}
	case id == Fence:
		return Shape{Kind: ShapeFence}
	case id == StonePressurePlate:
		return Shape{Kind: ShapePressurePlate}
	case id == Cactus:
		return Shape{Kind: ShapeCactus}
	case id == GlassPane:
		return Shape{Kind: ShapeGlassPane}
	case id == Lever:
		return Shape{Kind: ShapeLever}
	case id == Button:
		return Shape{Kind: ShapeButton}
	case id >= StoneSlabBottom && id <= WoodenSlabTop:
		return Shape{
			Kind:  ShapeSlab,
			Top:   id == StoneSlabTop || id == WoodenSlabTop,
			Stone: id <= StoneSlabTop,
		}
	case id == TrapdoorClosed:
		return Shape{Kind: ShapeTrapdoor}
	case id >= TrapdoorOpenNorth && id <= TrapdoorOpenWest:
		return Shape{Kind: ShapeTrapdoor, Open: true, Facing: Facing(id - TrapdoorOpenNorth)}
	case id >= StoneStairsNorth && id <= StoneStairsWest:
		return Shape{Kind: ShapeStairs, Stone: true, Facing: Facing(id - StoneStairsNorth)}
	case id >= WoodenStairsNorth && id <= WoodenStairsWest:
		return Shape{Kind: ShapeStairs, Facing: Facing(id - WoodenStairsNorth)}
	case id >= LadderNorth && id <= LadderWest:
		return Shape{Kind: ShapeLadder, Facing: Facing(id - LadderNorth)}
	case id >= VineNorth && id <= VineWest:
		return Shape{Kind: ShapeVine, Facing: Facing(id - VineNorth)}
	case id >= BedHeadNorth && id <= BedHeadWest:
		return Shape{Kind: ShapeBed, Head: true, Facing: Facing(id - BedHeadNorth)}
	case id >= BedFootNorth && id <= BedFootWest:
		return Shape{Kind: ShapeBed, Facing: Facing(id - BedFootNorth)}
	case id >= DoorLowerNorth && id <= DoorUpperOpenWest:
		return doorShape(id)
	case id >= CarpetWhite && id <= CarpetPurple:
		return Shape{Kind: ShapeCarpet, Color: uint8(id - CarpetWhite)}
	default:
		return Shape{Kind: ShapeCube}
	}
}

func fluidLevel(id, still, flowing0 BlockID) uint8 {
	if id == still {
		return 0
	}
	return uint8(id - flowing0)
}

func doorShape(id BlockID) Shape {
	offset := id - DoorLowerNorth
	return Shape{
		Kind:   ShapeDoor,
		Facing: Facing(offset % 4),
		Upper:  offset%8 >= 4,
		Open:   offset >= 8,
	}
}

// IsOpaqueForCulling reports whether a neighbor of this id hides the face
// pointing at it. Faces stay visible next to air, transparent blocks, and
// anything that is not a full cube.
func IsOpaqueForCulling(id BlockID, reg *Registry) bool {
	if id == Air {
		return false
	}
	p := reg.Get(id)
	if !p.Solid || p.Transparent {
		return false
	}
	k := Classify(id).Kind
	return k == ShapeCube || k == ShapeMultiFaceCube
}

// IsCollidable reports whether external physics should treat the block as an
// obstacle. Decorative shapes with negligible volume are walk-through.
func IsCollidable(id BlockID, reg *Registry) bool {
	if !reg.Get(id).Solid {
		return false
	}
	switch Classify(id).Kind {
	case ShapeNone, ShapeCrossPlant, ShapeTorch, ShapeLever, ShapeButton, ShapeCarpet, ShapePressurePlate:
		return false
	default:
		return true
	}
}

// BulkMeshable reports whether the block participates in the greedy cube
// pass at the given LOD. Multi-face cubes fall out of the bulk pass at LOD 0
// where the per-face sub-pass renders them instead.
func BulkMeshable(id BlockID, reg *Registry, lod uint8) bool {
	if id == Air || !reg.Get(id).Solid {
		return false
	}
	switch Classify(id).Kind {
	case ShapeCube:
		return true
	case ShapeMultiFaceCube:
		return lod >= 1
	default:
		return false
	}
}

// OccludesCorner reports whether the block darkens an ambient-occlusion
// corner. Matches the bulk-pass solidity test, independent of LOD.
func OccludesCorner(id BlockID, reg *Registry) bool {
	if id == Air || !reg.Get(id).Solid {
		return false
	}
	k := Classify(id).Kind
	return k == ShapeCube || k == ShapeMultiFaceCube
}

// IsWater and IsLava are fluid family tests used by the dedicated passes.
func IsWater(id BlockID) bool { return id >= StillWater && id <= FlowingWater7 }

func IsLava(id BlockID) bool { return id >= StillLava && id <= FlowingLava3 }

// FluidSurfaceLevel returns the discrete fluid level when id is a fluid of
// the requested kind, with ok=false otherwise.
func FluidSurfaceLevel(id BlockID, lava bool) (uint8, bool) {
	if lava {
		if !IsLava(id) {
			return 0, false
		}
		return fluidLevel(id, StillLava, FlowingLava0), true
	}
	if !IsWater(id) {
		return 0, false
	}
	return fluidLevel(id, StillWater, FlowingWater0), true
}
