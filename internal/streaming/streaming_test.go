package streaming

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Chisel3D/internal/logger"
	"Chisel3D/internal/mesher"
	"Chisel3D/internal/scheduler"
	"Chisel3D/internal/voxel"
)

func init() {
	logger.Init()
}

type recordingEvictor struct {
	removed []voxel.ChunkCoord
}

func (r *recordingEvictor) RemoveChunk(coord voxel.ChunkCoord) {
	r.removed = append(r.removed, coord)
}

type emptySource struct{}

func (emptySource) ChunkSnapshot(voxel.ChunkCoord) *voxel.Snapshot { return nil }

func (emptySource) NeighborSnapshots(voxel.ChunkCoord) [6]*voxel.Snapshot {
	return [6]*voxel.Snapshot{}
}

func testSettings() Settings {
	return Settings{
		RenderDistance:     2,
		VerticalUp:         1,
		VerticalDown:       1,
		FlightVerticalDown: 3,
		LODThreshold:       1,
	}
}

func newHarness(t *testing.T) (*Controller, *scheduler.Scheduler, *recordingEvictor) {
	t.Helper()
	m := mesher.New(voxel.NewRegistry(), 1)
	sched := scheduler.New(m, emptySource{}, nil, 1, 16, nil)
	t.Cleanup(sched.Close)
	ev := &recordingEvictor{}
	return NewController(testSettings(), sched, ev, nil), sched, ev
}

func chunkPos(x, y, z int32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(x)*voxel.ChunkSize + 16,
		float32(y)*voxel.ChunkSize + 16,
		float32(z)*voxel.ChunkSize + 16,
	}
}

func TestPlayerChunkFloorsNegatives(t *testing.T) {
	assert.Equal(t, voxel.ChunkCoord{}, PlayerChunk(mgl32.Vec3{0, 0, 0}))
	assert.Equal(t, voxel.ChunkCoord{X: -1, Y: -1, Z: -1}, PlayerChunk(mgl32.Vec3{-0.5, -0.5, -0.5}))
	assert.Equal(t, voxel.ChunkCoord{X: 1}, PlayerChunk(mgl32.Vec3{32, 0, 0}))
	assert.Equal(t, voxel.ChunkCoord{X: -2}, PlayerChunk(mgl32.Vec3{-33, 0, 0}))
}

func TestInitialUpdateRequestsWholeWindow(t *testing.T) {
	c, sched, _ := newHarness(t)
	c.Update(chunkPos(0, 0, 0), false)

	// (2r+1)^2 columns by 3 vertical levels.
	want := 5 * 5 * 3
	assert.Equal(t, want, c.Loaded())
	assert.Equal(t, want, sched.QueueLen())
}

func TestNoWorkWithinSameChunk(t *testing.T) {
	c, sched, ev := newHarness(t)
	c.Update(chunkPos(0, 0, 0), false)
	queued := sched.QueueLen()

	c.Update(chunkPos(0, 0, 0).Add(mgl32.Vec3{5, 3, -4}), false)
	assert.Equal(t, queued, sched.QueueLen())
	assert.Empty(t, ev.removed)
}

func TestBoundaryCrossingEvictsAndBackfills(t *testing.T) {
	c, _, ev := newHarness(t)
	c.Update(chunkPos(0, 0, 0), false)
	before := c.Loaded()

	c.Update(chunkPos(1, 0, 0), false)

	// One trailing column of 5x3 chunks leaves, one leading column arrives.
	assert.Len(t, ev.removed, 5*3)
	assert.Equal(t, before, c.Loaded())
	for _, coord := range ev.removed {
		assert.Equal(t, int32(-2), coord.X, "only the trailing column should evict")
	}
	_, stillLoaded := c.LODFor(voxel.ChunkCoord{X: 3, Y: 0, Z: 0})
	assert.True(t, stillLoaded, "leading edge should be loaded after the crossing")
}

func TestLODAssignmentByHorizontalDistance(t *testing.T) {
	c, _, _ := newHarness(t)
	c.Update(chunkPos(0, 0, 0), false)

	near, ok := c.LODFor(voxel.ChunkCoord{X: 1, Y: 0, Z: 1})
	require.True(t, ok)
	assert.Equal(t, uint8(0), near)

	far, ok := c.LODFor(voxel.ChunkCoord{X: 2, Y: 0, Z: 0})
	require.True(t, ok)
	assert.Equal(t, uint8(1), far)

	corner, ok := c.LODFor(voxel.ChunkCoord{X: -2, Y: 1, Z: 2})
	require.True(t, ok)
	assert.Equal(t, uint8(1), corner, "Chebyshev distance counts the larger axis")
}

func TestLODReassignedOnCrossing(t *testing.T) {
	c, _, _ := newHarness(t)
	c.Update(chunkPos(0, 0, 0), false)

	target := voxel.ChunkCoord{X: 2, Y: 0, Z: 0}
	lod, ok := c.LODFor(target)
	require.True(t, ok)
	require.Equal(t, uint8(1), lod)

	// Walking toward it pulls it inside the threshold.
	c.Update(chunkPos(1, 0, 0), false)
	lod, ok = c.LODFor(target)
	require.True(t, ok)
	assert.Equal(t, uint8(0), lod)
}

func TestFlightWindowDeepensAndHoldsFloor(t *testing.T) {
	c, _, _ := newHarness(t)
	c.Update(chunkPos(0, 0, 0), false)
	assert.Equal(t, 5*5*3, c.Loaded())

	// Taking off one chunk up: floor drops to flight depth below.
	c.Update(chunkPos(0, 1, 0), true)
	// Window spans y in [-2, 2].
	assert.Equal(t, 5*5*5, c.Loaded())
	_, ok := c.LODFor(voxel.ChunkCoord{Y: -2})
	assert.True(t, ok)

	// Climbing further must not raise the floor.
	c.Update(chunkPos(0, 2, 0), true)
	_, ok = c.LODFor(voxel.ChunkCoord{Y: -2})
	assert.True(t, ok, "flight floor rose while still flying")
	// Window spans y in [-2, 3].
	assert.Equal(t, 5*5*6, c.Loaded())
}

func TestGroundingResetsVerticalWindow(t *testing.T) {
	c, _, ev := newHarness(t)
	c.Update(chunkPos(0, 0, 0), false)
	c.Update(chunkPos(0, 2, 0), true)
	require.NotEmpty(t, c.Loaded())

	// Landing at altitude, then stepping across a boundary: the shallow
	// grounded window applies again and the deep tail unloads.
	ev.removed = nil
	c.Update(chunkPos(1, 2, 0), false)
	assert.NotEmpty(t, ev.removed)
	_, deepLoaded := c.LODFor(voxel.ChunkCoord{X: 1, Y: -1, Z: 0})
	assert.False(t, deepLoaded)
	_, shallowLoaded := c.LODFor(voxel.ChunkCoord{X: 1, Y: 1, Z: 0})
	assert.True(t, shallowLoaded)
}

func TestEvictionRemeshesSurvivingNeighbors(t *testing.T) {
	c, sched, _ := newHarness(t)
	c.Update(chunkPos(0, 0, 0), false)

	// Drain the initial queue bookkeeping by asking for the version of a
	// chunk that will survive next to the evicted column.
	survivor := voxel.ChunkCoord{X: -1, Y: 0, Z: 0}
	v := sched.Version(survivor)
	require.NotZero(t, v)

	c.Update(chunkPos(1, 0, 0), false)
	assert.Greater(t, sched.Version(survivor), v,
		"neighbor of an evicted chunk should be requeued to reveal exposed faces")
}
