package scheduler

import (
	"sort"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"Chisel3D/internal/logger"
	"Chisel3D/internal/mesher"
	"Chisel3D/internal/telemetry"
	"Chisel3D/internal/voxel"
)

// status tracks where a chunk coordinate sits in the meshing lifecycle.
type status uint8

const (
	statusIdle status = iota
	statusQueued
	statusInFlight
)

type chunkState struct {
	version      uint64
	status       status
	requeueAfter bool
	lod          uint8
	flight       uint64
}

// Job is what a worker receives: an immutable capture of the chunk at
// submission time. Never mutated after creation.
type Job struct {
	Coord     voxel.ChunkCoord
	Chunk     *voxel.Snapshot
	Neighbors [6]*voxel.Snapshot
	Version   uint64
	LOD       uint8
	flight    uint64
}

// Result pairs the built buffers with the version they were built from.
type Result struct {
	Coord   voxel.ChunkCoord
	Buffers *mesher.Buffers
	Version uint64
	LOD     uint8
	flight  uint64
}

// SnapshotSource supplies chunk data at dispatch time. Returning a nil
// snapshot means the chunk is not loaded; the request is dropped.
type SnapshotSource interface {
	ChunkSnapshot(coord voxel.ChunkCoord) *voxel.Snapshot
	NeighborSnapshots(coord voxel.ChunkCoord) [6]*voxel.Snapshot
}

// LightSource supplies the optional light fields attached to a job. Either
// field may be nil.
type LightSource interface {
	BlockLight() voxel.LightField
	EmissiveLight() voxel.LightField
}

// Scheduler owns the per-chunk version table and the worker pool. All
// methods must be called from the same goroutine (the frame loop); only the
// workers run concurrently, and they communicate back purely through the
// results channel.
type Scheduler struct {
	mesher  *mesher.Mesher
	source  SnapshotSource
	lights  LightSource
	metrics *telemetry.Metrics

	pool       pond.Pool
	results    chan Result
	closed     bool
	nextFlight uint64

	states map[voxel.ChunkCoord]*chunkState
	queue  []voxel.ChunkCoord
	focus  voxel.ChunkCoord
}

// New builds a scheduler with the given worker count. resultBuffer bounds
// how many finished meshes can pile up between frames; workers block on a
// full channel rather than dropping results.
func New(m *mesher.Mesher, source SnapshotSource, lights LightSource, workers, resultBuffer int, metrics *telemetry.Metrics) *Scheduler {
	return &Scheduler{
		mesher:  m,
		source:  source,
		lights:  lights,
		metrics: metrics,
		pool:    pond.NewPool(workers),
		results: make(chan Result, resultBuffer),
		states:  make(map[voxel.ChunkCoord]*chunkState),
	}
}

// SetFocus updates the point the dispatch ordering measures distance from,
// normally the player's chunk.
func (s *Scheduler) SetFocus(coord voxel.ChunkCoord) {
	s.focus = coord
}

// RequestRemesh records that a chunk's content changed. The version always
// advances; whether anything is enqueued depends on the current status, so a
// burst of edits to one chunk costs a single mesh build.
func (s *Scheduler) RequestRemesh(coord voxel.ChunkCoord, lod uint8) {
	if s.closed {
		return
	}
	st, ok := s.states[coord]
	if !ok {
		st = &chunkState{}
		s.states[coord] = st
	}
	st.version++
	st.lod = lod

	switch st.status {
	case statusIdle:
		st.status = statusQueued
		s.queue = append(s.queue, coord)
		if s.metrics != nil {
			s.metrics.QueuedJobs.Inc()
		}
	case statusQueued:
		// Already pending; the bumped version rides along.
	case statusInFlight:
		st.requeueAfter = true
	}
}

// Version reports the current version for a coordinate, zero if unknown.
func (s *Scheduler) Version(coord voxel.ChunkCoord) uint64 {
	if st, ok := s.states[coord]; ok {
		return st.version
	}
	return 0
}

// QueueLen reports how many coordinates are waiting for dispatch.
func (s *Scheduler) QueueLen() int { return len(s.queue) }

// Dispatch submits up to n queued chunks to the worker pool, nearest to the
// focus first. Each job captures the snapshot and version at this instant;
// later edits supersede it through the version gate rather than cancellation.
func (s *Scheduler) Dispatch(n int) int {
	if s.closed || n <= 0 || len(s.queue) == 0 {
		return 0
	}

	s.sortQueue()

	dispatched := 0
	for dispatched < n && len(s.queue) > 0 {
		coord := s.queue[0]
		s.queue = s.queue[1:]
		if s.metrics != nil {
			s.metrics.QueuedJobs.Dec()
		}

		st, ok := s.states[coord]
		if !ok || st.status != statusQueued {
			continue
		}

		snapshot := s.source.ChunkSnapshot(coord)
		if snapshot == nil {
			// Not loaded anymore; a later RequestRemesh restarts the cycle.
			st.status = statusIdle
			continue
		}

		// Each flight carries a unique id. A coordinate can be removed and
		// re-added while a job runs, which restarts its version counter, so
		// the version alone cannot identify results from dead flights.
		s.nextFlight++
		job := Job{
			Coord:     coord,
			Chunk:     snapshot,
			Neighbors: s.source.NeighborSnapshots(coord),
			Version:   st.version,
			LOD:       st.lod,
			flight:    s.nextFlight,
		}
		st.status = statusInFlight
		st.flight = job.flight
		if s.metrics != nil {
			s.metrics.InFlightJobs.Inc()
		}

		s.pool.Submit(func() {
			s.runJob(job)
		})
		dispatched++
	}
	return dispatched
}

func (s *Scheduler) runJob(job Job) {
	in := mesher.Input{
		Coord:     job.Coord,
		Chunk:     job.Chunk,
		Neighbors: job.Neighbors,
		LOD:       job.LOD,
	}
	if s.lights != nil {
		in.Light = s.lights.BlockLight()
		in.Emissive = s.lights.EmissiveLight()
	}
	s.results <- Result{
		Coord:   job.Coord,
		Buffers: s.mesher.Build(in),
		Version: job.Version,
		LOD:     job.LOD,
		flight:  job.flight,
	}
}

// Collect drains finished results without blocking and hands accepted ones
// to apply. A result older than the chunk's current version is discarded;
// either way the chunk leaves InFlight, re-queueing immediately if an edit
// arrived while the job ran.
func (s *Scheduler) Collect(apply func(Result)) int {
	accepted := 0
	for {
		select {
		case res := <-s.results:
			if s.finishResult(res, apply) {
				accepted++
			}
		default:
			return accepted
		}
	}
}

func (s *Scheduler) finishResult(res Result, apply func(Result)) bool {
	st, ok := s.states[res.Coord]
	if !ok || st.status != statusInFlight || st.flight != res.flight {
		// Removed (and possibly re-added and re-dispatched) while in
		// flight; this result belongs to a dead incarnation of the
		// coordinate and only the live flight may complete it.
		return false
	}
	st.flight = 0

	if s.metrics != nil {
		s.metrics.InFlightJobs.Dec()
	}
	if st.requeueAfter {
		st.requeueAfter = false
		st.status = statusQueued
		s.queue = append(s.queue, res.Coord)
		if s.metrics != nil {
			s.metrics.QueuedJobs.Inc()
		}
	} else {
		st.status = statusIdle
	}

	if res.Version < st.version {
		if s.metrics != nil {
			s.metrics.StaleDiscards.Inc()
		}
		logger.Log.Debug("Discarding stale mesh result",
			zap.Int32("x", res.Coord.X),
			zap.Int32("y", res.Coord.Y),
			zap.Int32("z", res.Coord.Z),
			zap.Uint64("resultVersion", res.Version),
			zap.Uint64("currentVersion", st.version))
		return false
	}

	if s.metrics != nil {
		s.metrics.MeshedChunks.Inc()
	}
	if apply != nil {
		apply(res)
	}
	return true
}

// Remove forgets a coordinate entirely. An in-flight job for it keeps
// running but its result carries a retired flight id and is dropped, even
// if the coordinate has been re-added in the meantime.
func (s *Scheduler) Remove(coord voxel.ChunkCoord) {
	st, ok := s.states[coord]
	if !ok {
		return
	}
	if st.status == statusQueued {
		for i, c := range s.queue {
			if c == coord {
				s.queue = append(s.queue[:i], s.queue[i+1:]...)
				if s.metrics != nil {
					s.metrics.QueuedJobs.Dec()
				}
				break
			}
		}
	}
	if st.status == statusInFlight && s.metrics != nil {
		s.metrics.InFlightJobs.Dec()
	}
	delete(s.states, coord)
}

// Close stops the worker pool and waits for in-flight jobs. All subsequent
// scheduler calls become no-ops; closing twice is safe.
func (s *Scheduler) Close() {
	if s.closed {
		return
	}
	s.closed = true

	// Workers send finished meshes with a blocking send, so a full results
	// channel would wedge the pool shutdown. Keep draining until every
	// in-flight job has landed.
	done := make(chan struct{})
	go func() {
		s.pool.StopAndWait()
		close(done)
	}()
	for {
		select {
		case <-s.results:
		case <-done:
			return
		}
	}
}

// sortQueue orders pending coordinates by squared horizontal distance to the
// focus, then by vertical distance, so the nearest chunks mesh first.
func (s *Scheduler) sortQueue() {
	sort.SliceStable(s.queue, func(i, j int) bool {
		pi, vi := s.priority(s.queue[i])
		pj, vj := s.priority(s.queue[j])
		if pi != pj {
			return pi < pj
		}
		return vi < vj
	})
}

func (s *Scheduler) priority(coord voxel.ChunkCoord) (int64, int64) {
	dx := int64(coord.X - s.focus.X)
	dz := int64(coord.Z - s.focus.Z)
	dy := int64(coord.Y - s.focus.Y)
	if dy < 0 {
		dy = -dy
	}
	return dx*dx + dz*dz, dy
}
