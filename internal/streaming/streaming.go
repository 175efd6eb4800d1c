package streaming

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"Chisel3D/internal/logger"
	"Chisel3D/internal/scheduler"
	"Chisel3D/internal/telemetry"
	"Chisel3D/internal/voxel"
)

// Settings controls the streaming window around the player.
type Settings struct {
	// RenderDistance is the horizontal radius in chunks.
	RenderDistance int32
	// VerticalUp and VerticalDown bound the window while grounded.
	VerticalUp   int32
	VerticalDown int32
	// FlightVerticalDown replaces VerticalDown while flying. The window's
	// absolute floor never rises during one continuous flight, so climbing
	// does not unload and reload the terrain below.
	FlightVerticalDown int32
	// LODThreshold is the horizontal Chebyshev distance in chunks beyond
	// which chunks mesh at the coarse level.
	LODThreshold int32
}

// DefaultSettings mirrors a mid-range view distance.
func DefaultSettings() Settings {
	return Settings{
		RenderDistance:     8,
		VerticalUp:         2,
		VerticalDown:       2,
		FlightVerticalDown: 6,
		LODThreshold:       5,
	}
}

// Evictor receives removal signals for chunks leaving the streamed set.
type Evictor interface {
	RemoveChunk(coord voxel.ChunkCoord)
}

// Controller decides which chunks should hold meshes and at which detail
// level, and feeds the scheduler nearest-first. Main-goroutine only.
type Controller struct {
	settings Settings
	sched    *scheduler.Scheduler
	evictor  Evictor
	metrics  *telemetry.Metrics

	loaded      map[voxel.ChunkCoord]uint8
	playerChunk voxel.ChunkCoord
	started     bool

	flying      bool
	flightFloor int32
}

func NewController(settings Settings, sched *scheduler.Scheduler, evictor Evictor, metrics *telemetry.Metrics) *Controller {
	return &Controller{
		settings: settings,
		sched:    sched,
		evictor:  evictor,
		metrics:  metrics,
		loaded:   make(map[voxel.ChunkCoord]uint8),
	}
}

// PlayerChunk converts a world-space position to its chunk coordinate.
func PlayerChunk(pos mgl32.Vec3) voxel.ChunkCoord {
	return voxel.ChunkCoord{
		X: floorDiv(pos.X()),
		Y: floorDiv(pos.Y()),
		Z: floorDiv(pos.Z()),
	}
}

func floorDiv(v float32) int32 {
	return int32(math.Floor(float64(v) / voxel.ChunkSize))
}

// Loaded reports how many chunks the controller currently tracks.
func (c *Controller) Loaded() int { return len(c.loaded) }

// LODFor returns the detail level assigned to a loaded chunk.
func (c *Controller) LODFor(coord voxel.ChunkCoord) (uint8, bool) {
	lod, ok := c.loaded[coord]
	return lod, ok
}

// Update advances the streaming state for the current frame. All work is
// gated on chunk-boundary crossings; within a chunk it is a cheap no-op.
func (c *Controller) Update(pos mgl32.Vec3, flying bool) {
	current := PlayerChunk(pos)

	if flying {
		floor := current.Y - c.settings.FlightVerticalDown
		if !c.flying || floor < c.flightFloor {
			c.flightFloor = floor
		}
	}
	c.flying = flying

	if c.started && current == c.playerChunk {
		return
	}
	crossed := c.started
	c.playerChunk = current
	c.started = true
	c.sched.SetFocus(current)
	c.refresh(crossed)
}

// ForceRefresh recomputes the desired set immediately, used after teleports
// or render-distance changes.
func (c *Controller) ForceRefresh() {
	if !c.started {
		return
	}
	c.refresh(true)
}

func (c *Controller) refresh(crossed bool) {
	desired := c.desiredSet()

	// Evict first so neighbor remeshes below see the final loaded set.
	var evicted []voxel.ChunkCoord
	for coord := range c.loaded {
		if _, keep := desired[coord]; !keep {
			evicted = append(evicted, coord)
		}
	}
	for _, coord := range evicted {
		delete(c.loaded, coord)
		c.sched.Remove(coord)
		if c.evictor != nil {
			c.evictor.RemoveChunk(coord)
		}
		if c.metrics != nil {
			c.metrics.EvictedChunks.Inc()
		}
	}

	for coord, lod := range desired {
		prev, ok := c.loaded[coord]
		if !ok {
			c.loaded[coord] = lod
			c.sched.RequestRemesh(coord, lod)
			continue
		}
		// A loaded chunk only changes LOD in the band around the threshold,
		// and only a boundary crossing can move it across.
		if crossed && prev != lod && c.inLODBand(coord) {
			c.loaded[coord] = lod
			c.sched.RequestRemesh(coord, lod)
		}
	}

	// Surviving neighbors of evicted chunks gained exposed faces.
	for _, coord := range evicted {
		for face := 0; face < 6; face++ {
			n := coord.Offset(face)
			if lod, ok := c.loaded[n]; ok {
				c.sched.RequestRemesh(n, lod)
			}
		}
	}

	if len(evicted) > 0 {
		logger.Log.Debug("Streaming window moved",
			zap.Int32("chunkX", c.playerChunk.X),
			zap.Int32("chunkY", c.playerChunk.Y),
			zap.Int32("chunkZ", c.playerChunk.Z),
			zap.Int("evicted", len(evicted)),
			zap.Int("loaded", len(c.loaded)))
	}
}

func (c *Controller) desiredSet() map[voxel.ChunkCoord]uint8 {
	r := c.settings.RenderDistance
	minY, maxY := c.verticalWindow()

	out := make(map[voxel.ChunkCoord]uint8, int(2*r+1)*int(2*r+1)*int(maxY-minY+1))
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			for y := minY; y <= maxY; y++ {
				coord := voxel.ChunkCoord{
					X: c.playerChunk.X + dx,
					Y: y,
					Z: c.playerChunk.Z + dz,
				}
				out[coord] = c.lodFor(coord)
			}
		}
	}
	return out
}

func (c *Controller) verticalWindow() (int32, int32) {
	maxY := c.playerChunk.Y + c.settings.VerticalUp
	if c.flying {
		return c.flightFloor, maxY
	}
	return c.playerChunk.Y - c.settings.VerticalDown, maxY
}

func (c *Controller) lodFor(coord voxel.ChunkCoord) uint8 {
	if c.horizontalChebyshev(coord) > c.settings.LODThreshold {
		return 1
	}
	return 0
}

func (c *Controller) inLODBand(coord voxel.ChunkCoord) bool {
	d := c.horizontalChebyshev(coord) - c.settings.LODThreshold
	if d < 0 {
		d = -d
	}
	return d <= 1
}

func (c *Controller) horizontalChebyshev(coord voxel.ChunkCoord) int32 {
	dx := coord.X - c.playerChunk.X
	if dx < 0 {
		dx = -dx
	}
	dz := coord.Z - c.playerChunk.Z
	if dz < 0 {
		dz = -dz
	}
	if dz > dx {
		return dz
	}
	return dx
}
