package mesher

import (
	"github.com/go-gl/mathgl/mgl32"

	"Chisel3D/internal/voxel"
)

// faceSpec drives one of the six greedy sweeps. axis/sign pick the face
// direction, uAxis/vAxis span the slice plane.
type faceSpec struct {
	axis   int
	sign   int
	uAxis  int
	vAxis  int
	normal mgl32.Vec3
}

var faceSpecs = [6]faceSpec{
	{axis: 0, sign: 1, uAxis: 1, vAxis: 2, normal: mgl32.Vec3{1, 0, 0}},
	{axis: 0, sign: -1, uAxis: 2, vAxis: 1, normal: mgl32.Vec3{-1, 0, 0}},
	{axis: 1, sign: 1, uAxis: 2, vAxis: 0, normal: mgl32.Vec3{0, 1, 0}},
	{axis: 1, sign: -1, uAxis: 0, vAxis: 2, normal: mgl32.Vec3{0, -1, 0}},
	{axis: 2, sign: 1, uAxis: 0, vAxis: 1, normal: mgl32.Vec3{0, 0, 1}},
	{axis: 2, sign: -1, uAxis: 1, vAxis: 0, normal: mgl32.Vec3{0, 0, -1}},
}

const maskSize = voxel.ChunkSize * voxel.ChunkSize

// Mesher turns chunk snapshots into render buffers. Safe for concurrent use:
// Build touches only its own inputs and per-call state.
type Mesher struct {
	registry *voxel.Registry
	tinter   *Tinter
}

func New(registry *voxel.Registry, worldSeed int64) *Mesher {
	return &Mesher{registry: registry, tinter: NewTinter(worldSeed)}
}

// Input is everything one meshing job needs. The snapshots are owned by the
// job; Light and Emissive may be nil, which reads as fully lit and unlit.
type Input struct {
	Coord     voxel.ChunkCoord
	Chunk     *voxel.Snapshot
	Neighbors [6]*voxel.Snapshot
	Light     voxel.LightField
	Emissive  voxel.LightField
	LOD       uint8
}

// builder carries the per-call state so the pass functions stay short.
type builder struct {
	m           *Mesher
	in          Input
	sampler     *voxel.Sampler
	worldOffset mgl32.Vec3

	mask         [maskSize]voxel.BlockID
	fingerprints [maskSize]uint8
	lightLevels  [maskSize]uint8
}

// Build produces both render passes for one chunk. Deterministic: identical
// inputs always yield identical buffers.
func (m *Mesher) Build(in Input) *Buffers {
	b := &builder{
		m:       m,
		in:      in,
		sampler: voxel.NewSampler(in.Chunk, in.Neighbors),
		worldOffset: mgl32.Vec3{
			float32(in.Coord.X) * voxel.ChunkSize,
			float32(in.Coord.Y) * voxel.ChunkSize,
			float32(in.Coord.Z) * voxel.ChunkSize,
		},
	}

	out := &Buffers{
		Opaque:      Mesh{Vertices: make([]Vertex, 0, 8192), Indices: make([]uint32, 0, 12288)},
		Translucent: Mesh{Vertices: make([]Vertex, 0, 2048), Indices: make([]uint32, 0, 3072)},
	}

	b.bulkPass(&out.Opaque)
	b.lavaPass(&out.Opaque)
	if in.LOD == 0 {
		b.waterPass(&out.Translucent)
		b.shapePasses(&out.Opaque, &out.Translucent)
	}

	return out
}

// bulkPass is the occlusion-aware greedy sweep over full cubes.
func (b *builder) bulkPass(mesh *Mesh) {
	for _, face := range faceSpecs {
		for slice := 0; slice < voxel.ChunkSize; slice++ {
			b.fillBulkMask(face, slice)
			b.sweepMask(mesh, face, slice, true, bulkQuad)
		}
	}
}

func (b *builder) fillBulkMask(face faceSpec, slice int) {
	b.resetMask()
	for v := 0; v < voxel.ChunkSize; v++ {
		for u := 0; u < voxel.ChunkSize; u++ {
			bc := faceBlockCoords(face, slice, u, v)
			block := b.sampler.At(bc[0], bc[1], bc[2])
			if !voxel.BulkMeshable(block, b.m.registry, b.in.LOD) {
				continue
			}

			ac := bc
			ac[face.axis] += face.sign
			adjacent := b.sampler.At(ac[0], ac[1], ac[2])

			// At coarse LOD interior leaf faces cancel out, which thins the
			// distant canopy geometry considerably.
			visible := adjacent == voxel.Air || b.m.registry.Get(adjacent).Transparent
			if b.in.LOD >= 1 && block == voxel.CanopyLeaves && adjacent == voxel.CanopyLeaves {
				visible = false
			}
			if !visible {
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

// quadKind selects the emission flavor for a swept mask cell.
type quadKind int

const (
	bulkQuad quadKind = iota
	lavaQuad
	waterQuad
)

// sweepMask runs the greedy merge over the current mask and emits quads.
// merge=false degrades to per-cell quads, which fluids require because their
// corner heights vary block to block.
func (b *builder) sweepMask(mesh *Mesh, face faceSpec, slice int, merge bool, kind quadKind) {
	for v := 0; v < voxel.ChunkSize; v++ {
		for u := 0; u < voxel.ChunkSize; {
			idx := v*voxel.ChunkSize + u
			block := b.mask[idx]
			if block == voxel.Air {
				u++
				continue
			}
			fp := b.fingerprints[idx]
			light := b.lightLevels[idx]

			width, height := 1, 1
			if merge {
				for u+width < voxel.ChunkSize && b.cellMatches(v*voxel.ChunkSize+u+width, block, fp, light) {
					width++
				}
			grow:
				for v+height < voxel.ChunkSize {
					row := (v + height) * voxel.ChunkSize
					for du := 0; du < width; du++ {
						if !b.cellMatches(row+u+du, block, fp, light) {
							break grow
						}
					}
					height++
				}
			}

			switch kind {
			case bulkQuad:
				bc := faceBlockCoords(face, slice, u, v)
				wx := int(b.in.Coord.X)*voxel.ChunkSize + bc[0]
				wz := int(b.in.Coord.Z)*voxel.ChunkSize + bc[2]
				tint := b.m.tinter.ColorFor(block, wx, wz)
				b.emitQuad(mesh, face, slice, u, v, width, height, block, nil, false, tint)
			case lavaQuad:
				level, _ := voxel.FluidSurfaceLevel(block, true)
				b.emitQuad(mesh, face, slice, u, v, width, height, block, &level, false, lavaTint)
			case waterQuad:
				level, _ := voxel.FluidSurfaceLevel(block, false)
				b.emitQuad(mesh, face, slice, u, v, width, height, block, &level, true, White)
			}

			for dv := 0; dv < height; dv++ {
				row := (v + dv) * voxel.ChunkSize
				for du := 0; du < width; du++ {
					b.mask[row+u+du] = voxel.Air
					b.fingerprints[row+u+du] = 0
					b.lightLevels[row+u+du] = 15
				}
			}

			u += width
		}
	}
}

func (b *builder) cellMatches(idx int, block voxel.BlockID, fp, light uint8) bool {
	return b.mask[idx] == block && b.fingerprints[idx] == fp && b.lightLevels[idx] == light
}

func (b *builder) resetMask() {
	for i := range b.mask {
		b.mask[i] = voxel.Air
		b.fingerprints[i] = 0
		b.lightLevels[i] = 15
	}
}

const fluidTopVertexEpsilon = 1e-4

// emitQuad turns one merged mask rectangle into geometry. fluidLevel, when
// set, enables the sagging fluid surface treatment.
func (b *builder) emitQuad(mesh *Mesh, face faceSpec, slice, u, v, width, height int, block voxel.BlockID, fluidLevel *uint8, backfaceOnTop bool, tint [3]float32) {
	plane := slice
	if face.sign > 0 {
		plane = slice + 1
	}

	var p0 [3]float32
	p0[face.axis] = float32(plane)
	p0[face.uAxis] = float32(u)
	p0[face.vAxis] = float32(v)

	p1 := p0
	p1[face.uAxis] += float32(width)
	p2 := p1
	p2[face.vAxis] += float32(height)
	p3 := p0
	p3[face.vAxis] += float32(height)

	for _, p := range []*[3]float32{&p0, &p1, &p2, &p3} {
		p[0] += b.worldOffset[0]
		p[1] += b.worldOffset[1]
		p[2] += b.worldOffset[2]
	}

	if fluidLevel != nil {
		bc := faceBlockCoords(face, slice, u, v)
		baseX := b.worldOffset[0] + float32(bc[0])
		baseY := b.worldOffset[1] + float32(bc[1])
		baseZ := b.worldOffset[2] + float32(bc[2])
		heights := b.fluidTopCornerHeights(bc, voxel.IsLava(block), *fluidLevel)

		applyHeight := func(p *[3]float32) {
			if absf(p[1]-(baseY+1)) > fluidTopVertexEpsilon {
				return
			}
			nearX := absf(p[0]-baseX) <= absf(p[0]-(baseX+1))
			nearZ := absf(p[2]-baseZ) <= absf(p[2]-(baseZ+1))
			switch {
			case nearX && nearZ:
				p[1] = baseY + heights[0]
			case nearX:
				p[1] = baseY + heights[1]
			case nearZ:
				p[1] = baseY + heights[3]
			default:
				p[1] = baseY + heights[2]
			}
		}
		applyHeight(&p0)
		applyHeight(&p1)
		applyHeight(&p2)
		applyHeight(&p3)

		if face.axis == 1 && face.sign == 1 {
			p0[1] = baseY + heights[0]
			p1[1] = baseY + heights[1]
			p2[1] = baseY + heights[2]
			p3[1] = baseY + heights[3]
		}
	}

	tile := tileOriginForBlock(block)

	// Local UVs run 0..width and 0..height; the shader fracts them back to
	// the tile so merged quads still repeat the texture per block.
	w, h := float32(width), float32(height)
	texCoords := [4]mgl32.Vec2{{0, 0}, {w, 0}, {w, h}, {0, h}}

	aoValues := b.quadAO(face, slice, u, v, width, height)
	lightValues := b.quadLight(face, slice, u, v, width, height, false)
	emissiveValues := b.quadLight(face, slice, u, v, width, height, true)

	positions := [4][3]float32{p0, p1, p2, p3}
	b.pushLit(mesh, positions, face.normal, texCoords, aoValues, lightValues, emissiveValues, tile, tint, false)

	if backfaceOnTop && face.axis == 1 && face.sign == 1 {
		// Keep the fluid surface visible from below under back-face culling.
		b.pushLit(mesh, positions, mgl32.Vec3{0, -1, 0}, texCoords, aoValues, lightValues, emissiveValues, tile, tint, true)
	}
}

// pushLit appends one quad's four vertices and two triangles. reverse flips
// the winding so the same positions can serve both sides of a double-sided
// face.
func (b *builder) pushLit(mesh *Mesh, positions [4][3]float32, normal mgl32.Vec3, texCoords [4]mgl32.Vec2, ao, light, emissive [4]float32, tile mgl32.Vec2, tint [3]float32, reverse bool) {
	base := uint32(len(mesh.Vertices))
	for i := 0; i < 4; i++ {
		mesh.Vertices = append(mesh.Vertices, Vertex{
			Position:   mgl32.Vec3{positions[i][0], positions[i][1], positions[i][2]},
			Normal:     normal,
			TexCoord:   texCoords[i],
			AO:         ao[i],
			Light:      light[i],
			Emissive:   emissive[i],
			TileOrigin: tile,
			Tint:       mgl32.Vec3{tint[0], tint[1], tint[2]},
		})
	}
	if reverse {
		mesh.Indices = append(mesh.Indices, base, base+2, base+1, base, base+3, base+2)
	} else {
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
	}
}

// quadAO samples ambient occlusion at the four quad corners. Each corner
// looks at the two edge-adjacent blocks and the diagonal just outside the
// face plane; every solid one darkens the corner by 0.2.
func (b *builder) quadAO(face faceSpec, slice, u, v, width, height int) [4]float32 {
	corners := [4][4]int{
		{u, v, -1, -1},
		{u + width - 1, v, 1, -1},
		{u + width - 1, v + height - 1, 1, 1},
		{u, v + height - 1, -1, 1},
	}

	ao := [4]float32{1, 1, 1, 1}
	for i, c := range corners {
		cu, cv, su, sv := c[0], c[1], c[2], c[3]
		var base [3]int
		base[face.axis] = slice + face.sign
		base[face.uAxis] = cu
		base[face.vAxis] = cv

		sideU := base
		sideU[face.uAxis] += su
		sideV := base
		sideV[face.vAxis] += sv
		diag := base
		diag[face.uAxis] += su
		diag[face.vAxis] += sv

		count := 0
		for _, p := range [3][3]int{sideU, sideV, diag} {
			if voxel.OccludesCorner(b.sampler.At(p[0], p[1], p[2]), b.m.registry) {
				count++
			}
		}
		ao[i] = 1 - 0.2*float32(count)
	}
	return ao
}

// aoFingerprint packs the single-block AO corner levels into one byte, two
// bits per corner. The greedy merge only joins cells with equal fingerprints
// so merged quads never smear occlusion across a gradient.
func (b *builder) aoFingerprint(face faceSpec, slice, u, v int) uint8 {
	ao := b.quadAO(face, slice, u, v, 1, 1)
	var packed uint8
	for i, value := range ao {
		level := int((1-value)*5 + 0.5)
		if level < 0 {
			level = 0
		}
		if level > 4 {
			level = 4
		}
		packed |= uint8(level) << (i * 2)
	}
	return packed
}

// quadLight averages the four blocks sharing each corner just outside the
// face plane, normalized to 0..1. emissive selects the emissive field, which
// defaults dark instead of bright.
func (b *builder) quadLight(face faceSpec, slice, u, v, width, height int, emissive bool) [4]float32 {
	corners := [4][2]int{
		{u, v},
		{u + width, v},
		{u + width, v + height},
		{u, v + height},
	}

	var lights [4]float32
	for i, c := range corners {
		var sum int
		for _, du := range [2]int{0, -1} {
			for _, dv := range [2]int{0, -1} {
				var p [3]int
				p[face.axis] = slice + face.sign
				p[face.uAxis] = c[0] + du
				p[face.vAxis] = c[1] + dv
				if emissive {
					sum += int(b.emissiveLevel(p))
				} else {
					sum += int(b.lightLevel(p))
				}
			}
		}
		lights[i] = (float32(sum) / 4) / 15
	}
	return lights
}

// lightLevel reads the block-light field at chunk-local coordinates, which
// may reach one block into a neighbor. Without a field everything is fully
// lit.
func (b *builder) lightLevel(local [3]int) uint8 {
	if b.in.Light == nil {
		return 15
	}
	return b.in.Light.LightAt(
		int(b.in.Coord.X)*voxel.ChunkSize+local[0],
		int(b.in.Coord.Y)*voxel.ChunkSize+local[1],
		int(b.in.Coord.Z)*voxel.ChunkSize+local[2],
	)
}

func (b *builder) emissiveLevel(local [3]int) uint8 {
	if b.in.Emissive == nil {
		return 0
	}
	return b.in.Emissive.LightAt(
		int(b.in.Coord.X)*voxel.ChunkSize+local[0],
		int(b.in.Coord.Y)*voxel.ChunkSize+local[1],
		int(b.in.Coord.Z)*voxel.ChunkSize+local[2],
	)
}

func faceBlockCoords(face faceSpec, slice, u, v int) [3]int {
	var coords [3]int
	coords[face.axis] = slice
	coords[face.uAxis] = u
	coords[face.vAxis] = v
	return coords
}
