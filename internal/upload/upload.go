package upload

import (
	"go.uber.org/zap"

	"Chisel3D/internal/logger"
	"Chisel3D/internal/mesher"
	"Chisel3D/internal/scheduler"
	"Chisel3D/internal/telemetry"
	"Chisel3D/internal/voxel"
)

// MeshSink is where released meshes land, normally the GL chunk renderer.
type MeshSink interface {
	UploadChunk(coord voxel.ChunkCoord, buffers *mesher.Buffers, version uint64)
	RemoveChunk(coord voxel.ChunkCoord)
	LiveChunkCount() int
}

// tier maps a frame-rate floor to per-frame upload allowances.
type tier struct {
	minFPS float64
	chunks int
	bytes  int
}

var tiers = []tier{
	{minFPS: 110, chunks: 16, bytes: 8 << 20},
	{minFPS: 80, chunks: 12, bytes: 6 << 20},
	{minFPS: 50, chunks: 8, bytes: 3 << 20},
	{minFPS: 0, chunks: 4, bytes: 3 << 19},
}

// While the sink holds no chunks at all the player is staring at nothing, so
// the budget opens wide to fill the initial view in a frame or two.
const (
	coldStartChunks = 256
	coldStartBytes  = 256 << 20
)

// Budgeter smooths GPU uploads over frames. Finished meshes queue in arrival
// order and each Flush releases only as much as the current frame rate can
// absorb without a visible hitch. Main-goroutine only.
type Budgeter struct {
	sink    MeshSink
	metrics *telemetry.Metrics
	pending []scheduler.Result
}

func NewBudgeter(sink MeshSink, metrics *telemetry.Metrics) *Budgeter {
	return &Budgeter{sink: sink, metrics: metrics}
}

// Enqueue accepts a finished mesh for a later Flush.
func (b *Budgeter) Enqueue(res scheduler.Result) {
	b.pending = append(b.pending, res)
}

// PendingLen reports how many meshes are waiting for upload.
func (b *Budgeter) PendingLen() int { return len(b.pending) }

// Flush releases pending meshes oldest-first under the budget for the given
// frame rate and returns how many it uploaded. The first pending mesh always
// goes through so a single oversized chunk cannot wedge the queue.
func (b *Budgeter) Flush(fps float64) int {
	if len(b.pending) == 0 {
		return 0
	}

	chunkCap, byteCap := b.budget(fps)

	released := 0
	usedBytes := 0
	for len(b.pending) > 0 {
		res := b.pending[0]
		size := res.Buffers.ByteSize()
		if released > 0 && (released >= chunkCap || usedBytes+size > byteCap) {
			break
		}
		b.pending = b.pending[1:]

		b.sink.UploadChunk(res.Coord, res.Buffers, res.Version)
		released++
		usedBytes += size
		if b.metrics != nil {
			b.metrics.UploadedChunks.Inc()
			b.metrics.UploadedBytes.Add(float64(size))
		}
	}

	if len(b.pending) > 0 {
		logger.Log.Debug("Upload budget exhausted",
			zap.Int("released", released),
			zap.Int("releasedBytes", usedBytes),
			zap.Int("stillPending", len(b.pending)),
			zap.Float64("fps", fps))
	}
	return released
}

// RemoveChunk drops any pending mesh for the coordinate and forwards the
// removal, so the budgeter can stand directly between the streaming
// controller and the renderer.
func (b *Budgeter) RemoveChunk(coord voxel.ChunkCoord) {
	kept := b.pending[:0]
	for _, res := range b.pending {
		if res.Coord != coord {
			kept = append(kept, res)
		}
	}
	b.pending = kept
	b.sink.RemoveChunk(coord)
}

func (b *Budgeter) budget(fps float64) (int, int) {
	if b.sink.LiveChunkCount() == 0 {
		return coldStartChunks, coldStartBytes
	}
	for _, t := range tiers {
		if fps >= t.minFPS {
			return t.chunks, t.bytes
		}
	}
	last := tiers[len(tiers)-1]
	return last.chunks, last.bytes
}
