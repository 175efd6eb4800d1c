package voxel

// Block identifiers. The layout groups stateful families (fluid levels, door
// variants, facings) into contiguous runs so classification stays cheap.
const (
	Air BlockID = iota
	Rubblestone
	Dirt
	VerdantTurf
	Sand
	Gravel
	HewnPlank
	TimberLog
	CraftingTable
	CanopyLeaves
	Glass
	Bedrock

	StillWater
	FlowingWater0
	FlowingWater1
	FlowingWater2
	FlowingWater3
	FlowingWater4
	FlowingWater5
	FlowingWater6
	FlowingWater7

	StillLava
	FlowingLava0
	FlowingLava1
	FlowingLava2
	FlowingLava3

	Torch
	TallGrass
	Wildflower
	Sapling
	SugarCane
	Wheat
	Fire
	Cobweb
	BrownMushroom
	RedMushroom

	Fence
	StonePressurePlate
	Cactus
	GlassPane
	Lever
	Button

	StoneSlabBottom
	StoneSlabTop
	WoodenSlabBottom
	WoodenSlabTop

	TrapdoorClosed
	TrapdoorOpenNorth
	TrapdoorOpenEast
	TrapdoorOpenSouth
	TrapdoorOpenWest

	StoneStairsNorth
	StoneStairsEast
	StoneStairsSouth
	StoneStairsWest
	WoodenStairsNorth
	WoodenStairsEast
	WoodenStairsSouth
	WoodenStairsWest

	LadderNorth
	LadderEast
	LadderSouth
	LadderWest

	VineNorth
	VineEast
	VineSouth
	VineWest

	BedHeadNorth
	BedHeadEast
	BedHeadSouth
	BedHeadWest
	BedFootNorth
	BedFootEast
	BedFootSouth
	BedFootWest

	DoorLowerNorth
	DoorLowerEast
	DoorLowerSouth
	DoorLowerWest
	DoorUpperNorth
	DoorUpperEast
	DoorUpperSouth
	DoorUpperWest
	DoorLowerOpenNorth
	DoorLowerOpenEast
	DoorLowerOpenSouth
	DoorLowerOpenWest
	DoorUpperOpenNorth
	DoorUpperOpenEast
	DoorUpperOpenSouth
	DoorUpperOpenWest

	CarpetWhite
	CarpetRed
	CarpetGreen
	CarpetBlue
	CarpetYellow
	CarpetBlack
	CarpetOrange
	CarpetPurple

	WoolWhite
	WoolRed
	WoolGreen
	WoolBlue
	WoolYellow
	WoolBlack
	WoolOrange
	WoolPurple

	blockCount
)

// Dedicated atlas tiles for blocks whose faces sample different sub-images.
// These ids never appear in a chunk; they exist so tile-origin lookup stays a
// single function of BlockID.
const (
	TileTimberLogTop BlockID = 960 + iota
	TileTimberLogSide
	TileCraftingTableTop
	TileCraftingTableFront
	TileCraftingTableSide
	TileTorchStick
	TileTorchFlame
)

// Properties describes the registry data consumed by the mesher and external
// collaborators (physics, UI).
type Properties struct {
	DisplayName string
	Solid       bool
	Transparent bool
	LightLevel  uint8
	Hardness    float32
}

// Registry resolves block properties. The zero value is unusable; construct
// with NewRegistry.
type Registry struct {
	props   []Properties
	unknown Properties
}

func solid(name string, hardness float32) Properties {
	return Properties{DisplayName: name, Solid: true, Hardness: hardness}
}

func seeThrough(name string, solidFlag bool, hardness float32) Properties {
	return Properties{DisplayName: name, Solid: solidFlag, Transparent: true, Hardness: hardness}
}

func luminous(name string, solidFlag, transparent bool, hardness float32, light uint8) Properties {
	return Properties{DisplayName: name, Solid: solidFlag, Transparent: transparent, LightLevel: light, Hardness: hardness}
}

// NewRegistry builds the default block registry.
func NewRegistry() *Registry {
	props := make([]Properties, blockCount)
	props[Air] = Properties{DisplayName: "air", Transparent: true}
	props[Rubblestone] = solid("rubblestone", 3.0)
	props[Dirt] = solid("dirt", 1.0)
	props[VerdantTurf] = solid("verdant turf", 1.2)
	props[Sand] = solid("sand", 0.8)
	props[Gravel] = solid("gravel", 0.9)
	props[HewnPlank] = solid("hewn plank", 2.0)
	props[TimberLog] = solid("timber log", 2.5)
	props[CraftingTable] = solid("crafting table", 2.5)
	props[CanopyLeaves] = seeThrough("canopy leaves", true, 0.3)
	props[Glass] = seeThrough("glass", true, 0.4)
	props[Bedrock] = solid("bedrock", 1000)

	for id := StillWater; id <= FlowingWater7; id++ {
		props[id] = seeThrough("water", false, 0)
	}
	for id := StillLava; id <= FlowingLava3; id++ {
		props[id] = luminous("lava", false, false, 0, 14)
	}

	props[Torch] = luminous("torch", false, true, 0.1, 14)
	props[TallGrass] = seeThrough("tall grass", false, 0.1)
	props[Wildflower] = seeThrough("wildflower", false, 0.1)
	props[Sapling] = seeThrough("sapling", false, 0.1)
	props[SugarCane] = seeThrough("sugar cane", false, 0.2)
	props[Wheat] = seeThrough("wheat", false, 0.1)
	props[Fire] = luminous("fire", false, true, 0, 15)
	props[Cobweb] = seeThrough("cobweb", false, 0.5)
	props[BrownMushroom] = seeThrough("brown mushroom", false, 0.1)
	props[RedMushroom] = seeThrough("red mushroom", false, 0.1)

	props[Fence] = seeThrough("fence", true, 2.0)
	props[StonePressurePlate] = seeThrough("stone pressure plate", true, 0.8)
	props[Cactus] = seeThrough("cactus", true, 0.6)
	props[GlassPane] = seeThrough("glass pane", true, 0.4)
	props[Lever] = seeThrough("lever", false, 0.5)
	props[Button] = seeThrough("button", false, 0.5)

	for id := StoneSlabBottom; id <= StoneSlabTop; id++ {
		props[id] = seeThrough("stone slab", true, 2.5)
	}
	for id := WoodenSlabBottom; id <= WoodenSlabTop; id++ {
		props[id] = seeThrough("wooden slab", true, 2.0)
	}
	for id := TrapdoorClosed; id <= TrapdoorOpenWest; id++ {
		props[id] = seeThrough("trapdoor", true, 2.0)
	}
	for id := StoneStairsNorth; id <= StoneStairsWest; id++ {
		props[id] = seeThrough("stone stairs", true, 2.5)
	}
	for id := WoodenStairsNorth; id <= WoodenStairsWest; id++ {
		props[id] = seeThrough("wooden stairs", true, 2.0)
	}
	for id := LadderNorth; id <= LadderWest; id++ {
		props[id] = seeThrough("ladder", false, 0.4)
	}
	for id := VineNorth; id <= VineWest; id++ {
		props[id] = seeThrough("vine", false, 0.2)
	}
	for id := BedHeadNorth; id <= BedFootWest; id++ {
		props[id] = seeThrough("bed", true, 0.3)
	}
	for id := DoorLowerNorth; id <= DoorUpperOpenWest; id++ {
		props[id] = seeThrough("wooden door", true, 3.0)
	}
	for id := CarpetWhite; id <= CarpetPurple; id++ {
		props[id] = seeThrough("carpet", false, 0.1)
	}
	for id := WoolWhite; id <= WoolPurple; id++ {
		props[id] = solid("wool", 0.8)
	}

	return &Registry{
		props:   props,
		unknown: Properties{DisplayName: "unknown", Transparent: true},
	}
}

// Get resolves properties for an id. Out-of-range ids resolve to an invisible,
// non-solid placeholder rather than erroring.
func (r *Registry) Get(id BlockID) Properties {
	if int(id) >= len(r.props) {
		return r.unknown
	}
	return r.props[id]
}
