package renderer

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"Chisel3D/internal/logger"
	"Chisel3D/internal/mesher"
	"Chisel3D/internal/telemetry"
	"Chisel3D/internal/voxel"
)

// Bounding sphere radius for one chunk, the half diagonal of a 32 cube plus
// a little slack for geometry that leans into the neighbor cell.
const chunkBoundRadius = 28.5

// passBuffers is the GPU residence of one render pass of one chunk.
type passBuffers struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	vboCap     int // bytes
	eboCap     int // bytes
	indexCount int32
}

type chunkEntry struct {
	opaque      passBuffers
	translucent passBuffers
	version     uint64
}

// ChunkRenderer owns the GL state for the streamed chunk meshes: one shader,
// one atlas texture, and per-chunk vertex/index buffers that grow in place.
// It is the upload sink at the end of the meshing pipeline.
type ChunkRenderer struct {
	shader  Shader
	atlas   uint32
	metrics *telemetry.Metrics
	chunks  map[voxel.ChunkCoord]*chunkEntry

	SunDirection mgl32.Vec3
	SkyColor     mgl32.Vec3
	FogStart     float32
	FogEnd       float32
}

func NewChunkRenderer(metrics *telemetry.Metrics) *ChunkRenderer {
	return &ChunkRenderer{
		metrics:      metrics,
		chunks:       make(map[voxel.ChunkCoord]*chunkEntry),
		SunDirection: mgl32.Vec3{-0.45, -0.8, -0.35}.Normalize(),
		SkyColor:     mgl32.Vec3{0.53, 0.71, 0.92},
		FogStart:     160,
		FogEnd:       260,
	}
}

func (rend *ChunkRenderer) Init(width, height int32) {
	if err := gl.Init(); err != nil {
		logger.Log.Error("OpenGL initialization failed", zap.Error(err))
		return
	}

	gl.Viewport(0, 0, width, height)
	rend.shader = InitChunkShader()
	rend.shader.Compile()
	logger.Log.Info("Chunk renderer initialized")
}

// UploadChunk replaces the GPU mesh for a chunk. Buffers grow to the next
// power of two and are reused on later uploads, so a chunk that remeshes
// often settles into a stable allocation.
func (rend *ChunkRenderer) UploadChunk(coord voxel.ChunkCoord, buffers *mesher.Buffers, version uint64) {
	entry, ok := rend.chunks[coord]
	if !ok {
		entry = &chunkEntry{}
		rend.chunks[coord] = entry
	}
	rend.uploadPass(&entry.opaque, &buffers.Opaque)
	rend.uploadPass(&entry.translucent, &buffers.Translucent)
	entry.version = version
}

func (rend *ChunkRenderer) uploadPass(pass *passBuffers, mesh *mesher.Mesh) {
	if mesh.Empty() {
		pass.indexCount = 0
		return
	}

	if pass.vao == 0 {
		gl.GenVertexArrays(1, &pass.vao)
		gl.GenBuffers(1, &pass.vbo)
		gl.GenBuffers(1, &pass.ebo)
		gl.BindVertexArray(pass.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, pass.vbo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, pass.ebo)
		setupChunkAttributes()
	} else {
		gl.BindVertexArray(pass.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, pass.vbo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, pass.ebo)
	}

	data := mesh.Interleave()
	vertexBytes := len(data) * 4
	if vertexBytes > pass.vboCap {
		pass.vboCap = growCapacity(pass.vboCap, vertexBytes)
		gl.BufferData(gl.ARRAY_BUFFER, pass.vboCap, nil, gl.DYNAMIC_DRAW)
		if rend.metrics != nil {
			rend.metrics.BufferReallocs.Inc()
		}
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, vertexBytes, gl.Ptr(data))

	indexBytes := len(mesh.Indices) * 4
	if indexBytes > pass.eboCap {
		pass.eboCap = growCapacity(pass.eboCap, indexBytes)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, pass.eboCap, nil, gl.DYNAMIC_DRAW)
		if rend.metrics != nil {
			rend.metrics.BufferReallocs.Inc()
		}
	}
	gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, indexBytes, gl.Ptr(mesh.Indices))

	pass.indexCount = int32(len(mesh.Indices))
	gl.BindVertexArray(0)
}

func growCapacity(current, needed int) int {
	capacity := current
	if capacity == 0 {
		capacity = 4096
	}
	for capacity < needed {
		capacity *= 2
	}
	return capacity
}

func setupChunkAttributes() {
	stride := int32(mesher.VertexStride)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)

	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(12))
	gl.EnableVertexAttribArray(1)

	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(24))
	gl.EnableVertexAttribArray(2)

	gl.VertexAttribPointer(3, 1, gl.FLOAT, false, stride, gl.PtrOffset(32))
	gl.EnableVertexAttribArray(3)

	gl.VertexAttribPointer(4, 1, gl.FLOAT, false, stride, gl.PtrOffset(36))
	gl.EnableVertexAttribArray(4)

	gl.VertexAttribPointer(5, 1, gl.FLOAT, false, stride, gl.PtrOffset(40))
	gl.EnableVertexAttribArray(5)

	gl.VertexAttribPointer(6, 2, gl.FLOAT, false, stride, gl.PtrOffset(44))
	gl.EnableVertexAttribArray(6)

	gl.VertexAttribPointer(7, 3, gl.FLOAT, false, stride, gl.PtrOffset(52))
	gl.EnableVertexAttribArray(7)
}

// RemoveChunk releases the GPU buffers of an evicted chunk.
func (rend *ChunkRenderer) RemoveChunk(coord voxel.ChunkCoord) {
	entry, ok := rend.chunks[coord]
	if !ok {
		return
	}
	deletePass(&entry.opaque)
	deletePass(&entry.translucent)
	delete(rend.chunks, coord)
}

func deletePass(pass *passBuffers) {
	if pass.vao != 0 {
		gl.DeleteVertexArrays(1, &pass.vao)
		gl.DeleteBuffers(1, &pass.vbo)
		gl.DeleteBuffers(1, &pass.ebo)
	}
	*pass = passBuffers{}
}

// LiveChunkCount reports how many chunks currently hold GPU meshes.
func (rend *ChunkRenderer) LiveChunkCount() int { return len(rend.chunks) }

// Render draws all live chunks: opaque front pass first with depth writes,
// then the translucent pass blended with the depth mask off.
func (rend *ChunkRenderer) Render(camera *Camera) {
	gl.ClearColor(rend.SkyColor.X(), rend.SkyColor.Y(), rend.SkyColor.Z(), 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	// Quad winding is consistent, so back faces can always be culled.
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	rend.shader.Use()
	rend.shader.SetMat4("viewProjection", camera.GetViewProjection())
	rend.shader.SetVec3("sunDirection", rend.SunDirection)
	rend.shader.SetVec3("skyColor", rend.SkyColor)
	rend.shader.SetVec3("viewPos", camera.Position)
	rend.shader.SetFloat("fogStart", rend.FogStart)
	rend.shader.SetFloat("fogEnd", rend.FogEnd)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, rend.atlas)
	rend.shader.SetInt("atlasSampler", 0)

	frustum := camera.CalculateFrustum()

	rend.shader.SetInt("translucentPass", 0)
	for coord, entry := range rend.chunks {
		if entry.opaque.indexCount == 0 || !frustum.IntersectsSphere(chunkCenter(coord), chunkBoundRadius) {
			continue
		}
		gl.BindVertexArray(entry.opaque.vao)
		gl.DrawElements(gl.TRIANGLES, entry.opaque.indexCount, gl.UNSIGNED_INT, nil)
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	// Water emits its own underside, so culling stays off for this pass.
	gl.Disable(gl.CULL_FACE)

	rend.shader.SetInt("translucentPass", 1)
	for coord, entry := range rend.chunks {
		if entry.translucent.indexCount == 0 || !frustum.IntersectsSphere(chunkCenter(coord), chunkBoundRadius) {
			continue
		}
		gl.BindVertexArray(entry.translucent.vao)
		gl.DrawElements(gl.TRIANGLES, entry.translucent.indexCount, gl.UNSIGNED_INT, nil)
	}

	gl.BindVertexArray(0)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

func chunkCenter(coord voxel.ChunkCoord) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(coord.X)*voxel.ChunkSize + voxel.ChunkSize/2,
		float32(coord.Y)*voxel.ChunkSize + voxel.ChunkSize/2,
		float32(coord.Z)*voxel.ChunkSize + voxel.ChunkSize/2,
	}
}

// LoadAtlas uploads the block texture atlas. Nearest filtering keeps the
// 16px tiles crisp.
func (rend *ChunkRenderer) LoadAtlas(filePath string) error {
	imgFile, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer imgFile.Close()

	img, _, err := image.Decode(imgFile)
	if err != nil {
		return err
	}
	rend.atlas = rend.createAtlasTexture(img)
	logger.Log.Info("Texture atlas loaded", zap.String("path", filePath))
	return nil
}

// UseFallbackAtlas installs a generated atlas where every tile gets a flat
// color derived from its index, so the world renders without asset files.
func (rend *ChunkRenderer) UseFallbackAtlas() {
	const size = 512
	const tile = 16
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for ty := 0; ty < size/tile; ty++ {
		for tx := 0; tx < size/tile; tx++ {
			id := uint32(ty*(size/tile) + tx)
			r := uint8(80 + (id*97)%150)
			g := uint8(80 + (id*57)%150)
			b := uint8(80 + (id*31)%150)
			for py := 0; py < tile; py++ {
				for px := 0; px < tile; px++ {
					shade := uint8(0)
					if px == 0 || py == 0 || px == tile-1 || py == tile-1 {
						shade = 30
					}
					i := img.PixOffset(tx*tile+px, ty*tile+py)
					img.Pix[i] = r - shade
					img.Pix[i+1] = g - shade
					img.Pix[i+2] = b - shade
					img.Pix[i+3] = 255
				}
			}
		}
	}
	rend.atlas = rend.createAtlasTexture(img)
	logger.Log.Info("Using generated fallback atlas")
}

func (rend *ChunkRenderer) createAtlasTexture(img image.Image) uint32 {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(rgba.Rect.Size().X), int32(rgba.Rect.Size().Y), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	return textureID
}

// UpdateViewport updates the OpenGL viewport to match the current window size.
func (rend *ChunkRenderer) UpdateViewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (rend *ChunkRenderer) Cleanup() {
	for coord := range rend.chunks {
		rend.RemoveChunk(coord)
	}
	rend.shader.Delete()
	if rend.atlas != 0 {
		gl.DeleteTextures(1, &rend.atlas)
	}
}

// DebugString summarizes live GPU state for the window title.
func (rend *ChunkRenderer) DebugString() string {
	return fmt.Sprintf("chunks=%d", len(rend.chunks))
}
