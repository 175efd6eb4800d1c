package mesher

import (
	"testing"

	"Chisel3D/internal/voxel"
)

func newTestMesher() *Mesher {
	return New(voxel.NewRegistry(), 42)
}

func fullSnapshot(id voxel.BlockID) *voxel.Snapshot {
	s := &voxel.Snapshot{}
	for i := range s.Blocks {
		s.Blocks[i] = id
	}
	return s
}

func solidNeighbors(id voxel.BlockID) [6]*voxel.Snapshot {
	var out [6]*voxel.Snapshot
	for i := range out {
		out[i] = fullSnapshot(id)
	}
	return out
}

func quadCount(m *Mesh) int {
	return len(m.Indices) / 6
}

func TestBuriedChunkEmitsNothing(t *testing.T) {
	m := newTestMesher()
	out := m.Build(Input{
		Chunk:     fullSnapshot(voxel.Rubblestone),
		Neighbors: solidNeighbors(voxel.Rubblestone),
	})
	if !out.Opaque.Empty() {
		t.Errorf("buried chunk produced %d opaque quads, want 0", quadCount(&out.Opaque))
	}
	if !out.Translucent.Empty() {
		t.Errorf("buried chunk produced %d translucent quads, want 0", quadCount(&out.Translucent))
	}
}

func TestIsolatedBlockSixFaces(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	chunk.Set(16, 16, 16, voxel.Rubblestone)

	out := m.Build(Input{Chunk: chunk})
	if got := quadCount(&out.Opaque); got != 6 {
		t.Fatalf("isolated block produced %d quads, want 6", got)
	}
	if got := len(out.Opaque.Vertices); got != 24 {
		t.Errorf("isolated block produced %d vertices, want 24", got)
	}
}

func TestFlatSlabMergesToSingleTopQuad(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			chunk.Set(x, 0, z, voxel.Rubblestone)
		}
	}

	out := m.Build(Input{Chunk: chunk})

	// One merged 16x16 quad facing up. Verify by locating up-facing quads
	// and checking their UV extent covers the whole slab.
	upQuads := 0
	var maxU, maxV float32
	for _, vert := range out.Opaque.Vertices {
		if vert.Normal.Y() != 1 {
			continue
		}
		upQuads++
		maxU = maxf(maxU, vert.TexCoord.X())
		maxV = maxf(maxV, vert.TexCoord.Y())
	}
	if upQuads != 4 {
		t.Fatalf("top face emitted %d vertices, want 4 (one merged quad)", upQuads)
	}
	if maxU != 16 || maxV != 16 {
		t.Errorf("merged top quad spans %.0fx%.0f, want 16x16", maxU, maxV)
	}
}

func TestMergeStopsAtDifferentBlock(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	for x := 0; x < 8; x++ {
		chunk.Set(x, 0, 0, voxel.Rubblestone)
	}
	for x := 8; x < 16; x++ {
		chunk.Set(x, 0, 0, voxel.Dirt)
	}

	out := m.Build(Input{Chunk: chunk})
	upVerts := 0
	for _, vert := range out.Opaque.Vertices {
		if vert.Normal.Y() == 1 {
			upVerts++
		}
	}
	if upVerts != 8 {
		t.Errorf("row of two block types emitted %d up-facing vertices, want 8 (two quads)", upVerts)
	}
}

func TestAOSeamBlocksMerge(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	for x := 0; x < 4; x++ {
		chunk.Set(x, 0, 1, voxel.Rubblestone)
	}
	// A block above one end darkens that corner, so the top face of the row
	// cannot merge into a single quad anymore.
	chunk.Set(0, 1, 0, voxel.Rubblestone)

	out := m.Build(Input{Chunk: chunk})
	upQuads := 0
	for i := 0; i+3 < len(out.Opaque.Vertices); i += 4 {
		if out.Opaque.Vertices[i].Normal.Y() == 1 && out.Opaque.Vertices[i].Position.Y() == 1 {
			upQuads++
		}
	}
	if upQuads < 2 {
		t.Errorf("occlusion seam produced %d top quads, want at least 2", upQuads)
	}
}

func TestDeterministicOutput(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	for z := 0; z < voxel.ChunkSize; z++ {
		for x := 0; x < voxel.ChunkSize; x++ {
			h := (x*7 + z*13) % 9
			for y := 0; y <= h; y++ {
				chunk.Set(x, y, z, voxel.Rubblestone)
			}
			chunk.Set(x, h, z, voxel.VerdantTurf)
		}
	}
	in := Input{Coord: voxel.ChunkCoord{X: 2, Y: 0, Z: -3}, Chunk: chunk}

	a := m.Build(in)
	b := m.Build(in)
	if len(a.Opaque.Vertices) != len(b.Opaque.Vertices) || len(a.Opaque.Indices) != len(b.Opaque.Indices) {
		t.Fatal("two builds of the same input differ in size")
	}
	for i := range a.Opaque.Vertices {
		if a.Opaque.Vertices[i] != b.Opaque.Vertices[i] {
			t.Fatalf("vertex %d differs between identical builds", i)
		}
	}
}

func TestFluidCornerHeightsAverage(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	// Source at (8,4,8) with three lower-level neighbors and one empty cell.
	chunk.Set(8, 4, 8, voxel.StillWater)
	chunk.Set(7, 4, 8, voxel.FlowingWater1)
	chunk.Set(9, 4, 8, voxel.FlowingWater1)
	chunk.Set(8, 4, 7, voxel.FlowingWater2)

	out := m.Build(Input{Chunk: chunk})

	source := fluidSurfaceHeight(0)
	level1 := fluidSurfaceHeight(1)
	level2 := fluidSurfaceHeight(2)

	// Corner shared with the level-1 neighbor at x-1 and the level-2
	// neighbor at z-1 averages all three columns.
	wantShared := (source + level1 + level2) / 3
	// Corner toward the empty cell at z+1 averages source and the level-1
	// column only.
	wantOpen := (source + level1) / 2

	foundShared, foundOpen := false, false
	for _, vert := range out.Translucent.Vertices {
		if vert.Normal.Y() != 1 {
			continue
		}
		x, y, z := vert.Position.X(), vert.Position.Y(), vert.Position.Z()
		if x == 8 && z == 8 && absf(y-(4+wantShared)) < 1e-5 {
			foundShared = true
		}
		if x == 8 && z == 9 && absf(y-(4+wantOpen)) < 1e-5 {
			foundOpen = true
		}
	}
	if !foundShared {
		t.Errorf("no top vertex at the shared corner with height %.4f", 4+wantShared)
	}
	if !foundOpen {
		t.Errorf("no top vertex at the open corner with height %.4f", 4+wantOpen)
	}
}

func TestWaterTopFaceDoubleEmitted(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	chunk.Set(5, 5, 5, voxel.StillWater)

	out := m.Build(Input{Chunk: chunk})
	up, down := 0, 0
	for _, vert := range out.Translucent.Vertices {
		switch vert.Normal.Y() {
		case 1:
			up++
		case -1:
			down++
		}
	}
	if up != 4 || down != 8 {
		// The true bottom face points down too, hence 4 up + 4 mirrored + 4 bottom.
		t.Errorf("water block emitted %d up / %d down vertices, want 4 / 8", up, down)
	}
}

func TestLavaGoesOpaqueWithTint(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	chunk.Set(5, 5, 5, voxel.StillLava)

	out := m.Build(Input{Chunk: chunk})
	if out.Opaque.Empty() {
		t.Fatal("lava emitted nothing into the opaque buffer")
	}
	if !out.Translucent.Empty() {
		t.Error("lava leaked into the translucent buffer")
	}
	v := out.Opaque.Vertices[0]
	if v.Tint.X() != 1.0 || absf(v.Tint.Y()-0.42) > 1e-6 || absf(v.Tint.Z()-0.08) > 1e-6 {
		t.Errorf("lava tint = %v, want (1, 0.42, 0.08)", v.Tint)
	}
}

func TestLODSkipsWaterAndShapes(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	chunk.Set(1, 1, 1, voxel.StillWater)
	chunk.Set(3, 1, 1, voxel.Torch)
	chunk.Set(5, 1, 1, voxel.TallGrass)
	chunk.Set(7, 1, 1, voxel.StillLava)

	out := m.Build(Input{Chunk: chunk, LOD: 1})
	if !out.Translucent.Empty() {
		t.Error("LOD 1 still emitted water")
	}
	// Only lava survives at LOD 1: 6 faces, single-emitted.
	if got := quadCount(&out.Opaque); got != 6 {
		t.Errorf("LOD 1 emitted %d opaque quads, want 6 (lava only)", got)
	}
}

func TestLODCullsLeafInteriorFaces(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	chunk.Set(10, 10, 10, voxel.CanopyLeaves)
	chunk.Set(11, 10, 10, voxel.CanopyLeaves)

	fine := m.Build(Input{Chunk: chunk, LOD: 0})
	coarse := m.Build(Input{Chunk: chunk, LOD: 1})

	// Leaves are transparent, so at LOD 0 the two touching faces render; the
	// shared outer faces merge pairwise, leaving 4 merged + 4 interior. At
	// LOD 1 the interior pair cancels.
	if got := quadCount(&fine.Opaque); got != 8 {
		t.Errorf("LOD 0 leaf pair emitted %d quads, want 8", got)
	}
	if got := quadCount(&coarse.Opaque); got != 6 {
		t.Errorf("LOD 1 leaf pair emitted %d quads, want 6", got)
	}
}

func TestMultiFaceCubeUsesPerFaceTiles(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	chunk.Set(4, 4, 4, voxel.TimberLog)

	out := m.Build(Input{Chunk: chunk})
	if got := quadCount(&out.Opaque); got != 6 {
		t.Fatalf("timber log emitted %d quads, want 6", got)
	}

	topTile := tileOrigin(voxel.TileTimberLogTop)
	sideTile := tileOrigin(voxel.TileTimberLogSide)
	tops, sides := 0, 0
	for _, vert := range out.Opaque.Vertices {
		switch vert.TileOrigin {
		case topTile:
			tops++
		case sideTile:
			sides++
		}
	}
	if tops != 8 || sides != 16 {
		t.Errorf("timber log tile split %d top / %d side vertices, want 8 / 16", tops, sides)
	}
}

func TestChunkBoundaryFaceCulledByNeighbor(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	chunk.Set(voxel.ChunkSize-1, 4, 4, voxel.Rubblestone)

	var neighbors [6]*voxel.Snapshot
	neighbors[voxel.FacePosX] = &voxel.Snapshot{}
	neighbors[voxel.FacePosX].Set(0, 4, 4, voxel.Rubblestone)

	out := m.Build(Input{Chunk: chunk, Neighbors: neighbors})
	if got := quadCount(&out.Opaque); got != 5 {
		t.Errorf("boundary block with touching neighbor emitted %d quads, want 5", got)
	}
}

func TestMissingNeighborKeepsBoundaryFace(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	chunk.Set(voxel.ChunkSize-1, 4, 4, voxel.Rubblestone)

	out := m.Build(Input{Chunk: chunk})
	if got := quadCount(&out.Opaque); got != 6 {
		t.Errorf("boundary block without neighbor emitted %d quads, want 6", got)
	}
}

type flatLight struct{ level uint8 }

func (f flatLight) LightAt(x, y, z int) uint8 { return f.level }

func TestNilLightFieldDefaults(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	chunk.Set(8, 8, 8, voxel.Rubblestone)

	lit := m.Build(Input{Chunk: chunk})
	for _, vert := range lit.Opaque.Vertices {
		if vert.Light != 1 {
			t.Fatalf("nil light field produced vertex light %.3f, want 1", vert.Light)
		}
		if vert.Emissive != 0 {
			t.Fatalf("nil emissive field produced vertex emissive %.3f, want 0", vert.Emissive)
		}
	}

	dark := m.Build(Input{Chunk: chunk, Light: flatLight{level: 0}})
	for _, vert := range dark.Opaque.Vertices {
		if vert.Light != 0 {
			t.Fatalf("dark light field produced vertex light %.3f, want 0", vert.Light)
		}
	}
}

func TestTintAppliesOnlyToFoliage(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	chunk.Set(0, 0, 0, voxel.VerdantTurf)
	chunk.Set(4, 0, 0, voxel.Rubblestone)

	out := m.Build(Input{Chunk: chunk})
	sawTinted, sawWhite := false, false
	for _, vert := range out.Opaque.Vertices {
		if vert.TileOrigin == tileOrigin(voxel.VerdantTurf) {
			if vert.Tint.X() != 1 || vert.Tint.Y() != 1 || vert.Tint.Z() != 1 {
				sawTinted = true
			}
		}
		if vert.TileOrigin == tileOrigin(voxel.Rubblestone) {
			if vert.Tint.X() == 1 && vert.Tint.Y() == 1 && vert.Tint.Z() == 1 {
				sawWhite = true
			}
		}
	}
	if !sawTinted {
		t.Error("verdant turf vertices are untinted")
	}
	if !sawWhite {
		t.Error("rubblestone vertices are not white")
	}
}

func TestTinterDeterministicAndClamped(t *testing.T) {
	a := NewTinter(7)
	b := NewTinter(7)
	for _, wx := range []int{-512, 0, 77, 10000} {
		for _, wz := range []int{-31, 0, 900} {
			ca := a.ColorFor(voxel.VerdantTurf, wx, wz)
			cb := b.ColorFor(voxel.VerdantTurf, wx, wz)
			if ca != cb {
				t.Fatalf("tint at (%d,%d) differs between equal seeds", wx, wz)
			}
			for i, c := range ca {
				if c < 0.05 || c > 0.95 {
					t.Errorf("tint channel %d at (%d,%d) = %.3f outside [0.05, 0.95]", i, wx, wz, c)
				}
			}
		}
	}
	if NewTinter(7).ColorFor(voxel.Rubblestone, 5, 5) != White {
		t.Error("non-foliage block picked up a tint")
	}
	leaves := NewTinter(7).ColorFor(voxel.CanopyLeaves, 5, 5)
	turf := NewTinter(7).ColorFor(voxel.VerdantTurf, 5, 5)
	if leaves == turf {
		t.Error("leaves should be darkened relative to turf at the same column")
	}
}

func TestCrossPlantGeometry(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	chunk.Set(2, 2, 2, voxel.TallGrass)
	chunk.Set(6, 2, 2, voxel.RedMushroom)

	out := m.Build(Input{Chunk: chunk})
	// Each cross plant is two diagonal quads, each double-sided.
	if got := quadCount(&out.Opaque); got != 8 {
		t.Fatalf("two cross plants emitted %d quads, want 8", got)
	}

	var grassTop, mushroomTop float32
	for _, vert := range out.Opaque.Vertices {
		switch vert.TileOrigin {
		case tileOrigin(voxel.TallGrass):
			grassTop = maxf(grassTop, vert.Position.Y())
		case tileOrigin(voxel.RedMushroom):
			mushroomTop = maxf(mushroomTop, vert.Position.Y())
		}
	}
	if grassTop != 3 {
		t.Errorf("tall grass top at y=%.2f, want 3", grassTop)
	}
	if mushroomTop != 2.5 {
		t.Errorf("mushroom top at y=%.2f, want 2.5", mushroomTop)
	}
}

func TestGlassPaneGoesTranslucent(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	chunk.Set(3, 3, 3, voxel.GlassPane)

	out := m.Build(Input{Chunk: chunk})
	if !out.Opaque.Empty() {
		t.Error("glass pane leaked into the opaque buffer")
	}
	if got := quadCount(&out.Translucent); got != 4 {
		t.Errorf("glass pane emitted %d translucent quads, want 4", got)
	}
}

func TestTorchEmitsStickAndFlame(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	chunk.Set(9, 9, 9, voxel.Torch)

	out := m.Build(Input{Chunk: chunk, Light: flatLight{level: 0}})
	// 6 stick faces + 4 flame quads.
	if got := quadCount(&out.Opaque); got != 10 {
		t.Fatalf("torch emitted %d quads, want 10", got)
	}
	for _, vert := range out.Opaque.Vertices {
		if vert.TileOrigin == tileOrigin(voxel.TileTorchFlame) && vert.Light < 0.88 {
			t.Errorf("flame vertex light %.3f below the 0.88 floor", vert.Light)
		}
	}
}

func TestSlabAndDoorBounds(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	chunk.Set(0, 0, 0, voxel.StoneSlabTop)
	chunk.Set(4, 0, 0, voxel.DoorLowerNorth)

	out := m.Build(Input{Chunk: chunk})

	var slabMinY float32 = 99
	var doorMinZ float32 = 99
	for _, vert := range out.Opaque.Vertices {
		switch vert.TileOrigin {
		case tileOrigin(voxel.StoneSlabBottom):
			if vert.Position.Y() < slabMinY {
				slabMinY = vert.Position.Y()
			}
		case tileOrigin(voxel.DoorLowerNorth):
			if vert.Position.Z() < doorMinZ {
				doorMinZ = vert.Position.Z()
			}
		}
	}
	if slabMinY != 0.5 {
		t.Errorf("top slab starts at y=%.3f, want 0.5", slabMinY)
	}
	if absf(doorMinZ-(1-doorThickness)) > 1e-6 {
		t.Errorf("closed north door starts at z=%.4f, want %.4f", doorMinZ, 1-doorThickness)
	}
}

func TestInterleaveLayout(t *testing.T) {
	m := newTestMesher()
	chunk := &voxel.Snapshot{}
	chunk.Set(1, 1, 1, voxel.Rubblestone)

	out := m.Build(Input{Chunk: chunk})
	flat := out.Opaque.Interleave()
	if len(flat) != len(out.Opaque.Vertices)*VertexFloats {
		t.Fatalf("interleaved length %d, want %d", len(flat), len(out.Opaque.Vertices)*VertexFloats)
	}
	v := out.Opaque.Vertices[0]
	if flat[0] != v.Position.X() || flat[8] != v.AO || flat[9] != v.Light {
		t.Error("interleaved field order does not match the vertex layout")
	}
}
