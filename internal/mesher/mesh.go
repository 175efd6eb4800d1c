package mesher

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one interleaved mesh vertex. Sixteen float32 fields, 64 bytes,
// matching the attribute layout the chunk shader consumes.
type Vertex struct {
	Position   mgl32.Vec3
	Normal     mgl32.Vec3
	TexCoord   mgl32.Vec2
	AO         float32
	Light      float32
	Emissive   float32
	TileOrigin mgl32.Vec2
	Tint       mgl32.Vec3
}

// VertexStride is the byte size of one vertex on the GPU.
const VertexStride = 64

// VertexFloats is the float32 count of one interleaved vertex.
const VertexFloats = VertexStride / 4

// Mesh is one buffer's worth of geometry.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Empty reports whether the mesh carries no geometry.
func (m *Mesh) Empty() bool { return len(m.Indices) == 0 }

// Interleave flattens the vertices into the float32 layout the renderer
// uploads: position, normal, texcoord, ao, light, emissive, tile origin, tint.
func (m *Mesh) Interleave() []float32 {
	out := make([]float32, 0, len(m.Vertices)*VertexFloats)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position.X(), v.Position.Y(), v.Position.Z(),
			v.Normal.X(), v.Normal.Y(), v.Normal.Z(),
			v.TexCoord.X(), v.TexCoord.Y(),
			v.AO, v.Light, v.Emissive,
			v.TileOrigin.X(), v.TileOrigin.Y(),
			v.Tint.X(), v.Tint.Y(), v.Tint.Z(),
		)
	}
	return out
}

// Buffers groups the two render passes produced for one chunk. Opaque draws
// front-to-back with depth writes; Translucent draws after, blended.
type Buffers struct {
	Opaque      Mesh
	Translucent Mesh
}

// ByteSize is the GPU footprint of both buffers, used by the upload budgeter.
func (b *Buffers) ByteSize() int {
	verts := len(b.Opaque.Vertices) + len(b.Translucent.Vertices)
	idx := len(b.Opaque.Indices) + len(b.Translucent.Indices)
	return verts*VertexStride + idx*4
}
