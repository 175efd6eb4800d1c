package voxel

import "testing"

func TestIndexRoundTrip(t *testing.T) {
	seen := make(map[int]bool, ChunkVolume)
	for y := 0; y < ChunkSize; y++ {
		for z := 0; z < ChunkSize; z++ {
			for x := 0; x < ChunkSize; x++ {
				i := Index(x, y, z)
				if i < 0 || i >= ChunkVolume {
					t.Fatalf("Index(%d,%d,%d) = %d out of range", x, y, z, i)
				}
				if seen[i] {
					t.Fatalf("Index(%d,%d,%d) = %d collides", x, y, z, i)
				}
				seen[i] = true
			}
		}
	}
}

func TestSnapshotGetSet(t *testing.T) {
	s := &Snapshot{}
	s.Set(5, 10, 20, Rubblestone)
	if got := s.Get(5, 10, 20); got != Rubblestone {
		t.Errorf("Get returned %d, want %d", got, Rubblestone)
	}
	clone := s.Clone()
	clone.Set(5, 10, 20, Dirt)
	if s.Get(5, 10, 20) != Rubblestone {
		t.Error("Clone is not independent of the source snapshot")
	}
}

func TestChunkCoordOffset(t *testing.T) {
	c := ChunkCoord{1, 2, 3}
	cases := []struct {
		face int
		want ChunkCoord
	}{
		{FacePosX, ChunkCoord{2, 2, 3}},
		{FaceNegX, ChunkCoord{0, 2, 3}},
		{FacePosY, ChunkCoord{1, 3, 3}},
		{FaceNegY, ChunkCoord{1, 1, 3}},
		{FacePosZ, ChunkCoord{1, 2, 4}},
		{FaceNegZ, ChunkCoord{1, 2, 2}},
	}
	for _, tc := range cases {
		if got := c.Offset(tc.face); got != tc.want {
			t.Errorf("Offset(%d) = %v, want %v", tc.face, got, tc.want)
		}
	}
}

func TestClassifyFamilies(t *testing.T) {
	if Classify(Air).Kind != ShapeNone {
		t.Error("air should classify as ShapeNone")
	}
	if Classify(Rubblestone).Kind != ShapeCube {
		t.Error("rubblestone should classify as ShapeCube")
	}
	if Classify(TimberLog).Kind != ShapeMultiFaceCube {
		t.Error("timber log should classify as ShapeMultiFaceCube")
	}

	w := Classify(FlowingWater3)
	if w.Kind != ShapeFluid || w.Lava || w.Level != 3 {
		t.Errorf("flowing water 3 classified as %+v", w)
	}
	if lv := Classify(StillWater).Level; lv != 0 {
		t.Errorf("still water level = %d, want 0", lv)
	}
	l := Classify(FlowingLava2)
	if l.Kind != ShapeFluid || !l.Lava || l.Level != 2 {
		t.Errorf("flowing lava 2 classified as %+v", l)
	}

	m := Classify(RedMushroom)
	if m.Kind != ShapeCrossPlant || m.Height != 0.5 {
		t.Errorf("red mushroom classified as %+v", m)
	}
	g := Classify(TallGrass)
	if g.Kind != ShapeCrossPlant || g.Height != 1.0 {
		t.Errorf("tall grass classified as %+v", g)
	}

	s := Classify(StoneSlabTop)
	if s.Kind != ShapeSlab || !s.Top || !s.Stone {
		t.Errorf("stone slab top classified as %+v", s)
	}
	st := Classify(WoodenStairsEast)
	if st.Kind != ShapeStairs || st.Stone || st.Facing != East {
		t.Errorf("wooden stairs east classified as %+v", st)
	}

	td := Classify(TrapdoorOpenSouth)
	if td.Kind != ShapeTrapdoor || !td.Open || td.Facing != South {
		t.Errorf("open south trapdoor classified as %+v", td)
	}

	bh := Classify(BedHeadWest)
	if bh.Kind != ShapeBed || !bh.Head || bh.Facing != West {
		t.Errorf("bed head west classified as %+v", bh)
	}

	cp := Classify(CarpetGreen)
	if cp.Kind != ShapeCarpet || cp.Color != 2 {
		t.Errorf("green carpet classified as %+v", cp)
	}

	if Classify(BlockID(9999)).Kind != ShapeNone {
		t.Error("unknown id should classify as ShapeNone")
	}
}

func TestClassifyDoorVariants(t *testing.T) {
	cases := []struct {
		id            BlockID
		facing        Facing
		upper, opened bool
	}{
		{DoorLowerNorth, North, false, false},
		{DoorLowerWest, West, false, false},
		{DoorUpperEast, East, true, false},
		{DoorLowerOpenSouth, South, false, true},
		{DoorUpperOpenNorth, North, true, true},
		{DoorUpperOpenWest, West, true, true},
	}
	for _, tc := range cases {
		d := Classify(tc.id)
		if d.Kind != ShapeDoor {
			t.Errorf("id %d is not a door", tc.id)
			continue
		}
		if d.Facing != tc.facing || d.Upper != tc.upper || d.Open != tc.opened {
			t.Errorf("id %d classified as %+v, want facing=%d upper=%v open=%v",
				tc.id, d, tc.facing, tc.upper, tc.opened)
		}
	}
}

func TestOpaqueForCulling(t *testing.T) {
	reg := NewRegistry()
	cases := []struct {
		id   BlockID
		want bool
	}{
		{Air, false},
		{Rubblestone, true},
		{TimberLog, true},
		{Glass, false},
		{CanopyLeaves, false},
		{StillWater, false},
		{Fence, false},
		{StoneSlabBottom, false},
		{DoorLowerNorth, false},
	}
	for _, tc := range cases {
		if got := IsOpaqueForCulling(tc.id, reg); got != tc.want {
			t.Errorf("IsOpaqueForCulling(%d) = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestBulkMeshableByLOD(t *testing.T) {
	reg := NewRegistry()
	if !BulkMeshable(Rubblestone, reg, 0) {
		t.Error("rubblestone should bulk-mesh at LOD 0")
	}
	if BulkMeshable(TimberLog, reg, 0) {
		t.Error("timber log must be excluded from the LOD 0 bulk pass")
	}
	if !BulkMeshable(TimberLog, reg, 1) {
		t.Error("timber log should bulk-mesh at LOD 1")
	}
	if BulkMeshable(TallGrass, reg, 0) || BulkMeshable(StillWater, reg, 1) {
		t.Error("non-cubes never bulk-mesh")
	}
}

func TestRegistryUnknownFallback(t *testing.T) {
	reg := NewRegistry()
	p := reg.Get(BlockID(5000))
	if p.Solid || !p.Transparent {
		t.Errorf("out-of-range id resolved to %+v, want invisible placeholder", p)
	}
	if reg.Get(Torch).LightLevel != 14 {
		t.Error("torch should carry light level 14")
	}
}

func TestSamplerInBounds(t *testing.T) {
	center := &Snapshot{}
	center.Set(3, 4, 5, Sand)
	s := NewSampler(center, [6]*Snapshot{})
	if got := s.At(3, 4, 5); got != Sand {
		t.Errorf("At(3,4,5) = %d, want %d", got, Sand)
	}
}

func TestSamplerNeighborWrap(t *testing.T) {
	center := &Snapshot{}
	var neighbors [6]*Snapshot
	for i := range neighbors {
		neighbors[i] = &Snapshot{}
	}
	neighbors[FacePosX].Set(0, 7, 9, Dirt)
	neighbors[FaceNegX].Set(ChunkSize-1, 7, 9, Sand)
	neighbors[FacePosY].Set(7, 0, 9, Gravel)
	neighbors[FaceNegY].Set(7, ChunkSize-1, 9, Glass)
	neighbors[FacePosZ].Set(7, 9, 0, HewnPlank)
	neighbors[FaceNegZ].Set(7, 9, ChunkSize-1, Bedrock)

	s := NewSampler(center, neighbors)
	cases := []struct {
		x, y, z int
		want    BlockID
	}{
		{ChunkSize, 7, 9, Dirt},
		{-1, 7, 9, Sand},
		{7, ChunkSize, 9, Gravel},
		{7, -1, 9, Glass},
		{7, 9, ChunkSize, HewnPlank},
		{7, 9, -1, Bedrock},
	}
	for _, tc := range cases {
		if got := s.At(tc.x, tc.y, tc.z); got != tc.want {
			t.Errorf("At(%d,%d,%d) = %d, want %d", tc.x, tc.y, tc.z, got, tc.want)
		}
	}
}

func TestSamplerDiagonalAndMissing(t *testing.T) {
	center := &Snapshot{}
	for i := range center.Blocks {
		center.Blocks[i] = Rubblestone
	}
	s := NewSampler(center, [6]*Snapshot{})

	// Two axes out at once is a diagonal read.
	if got := s.At(-1, -1, 5); got != Air {
		t.Errorf("diagonal read returned %d, want air", got)
	}
	if got := s.At(ChunkSize, 5, ChunkSize); got != Air {
		t.Errorf("diagonal read returned %d, want air", got)
	}
	// A single axis out with the neighbor missing also answers air.
	if got := s.At(ChunkSize, 5, 5); got != Air {
		t.Errorf("missing neighbor read returned %d, want air", got)
	}
}
