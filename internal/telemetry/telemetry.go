package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the advisory instrumentation surface for the meshing pipeline.
// Every field is optional to update and cheap to read; nothing in the
// pipeline depends on these values.
type Metrics struct {
	registry *prometheus.Registry

	QueuedJobs    prometheus.Gauge
	InFlightJobs  prometheus.Gauge
	StaleDiscards prometheus.Counter
	MeshedChunks  prometheus.Counter

	UploadedBytes  prometheus.Counter
	UploadedChunks prometheus.Counter
	BufferReallocs prometheus.Counter
	EvictedChunks  prometheus.Counter
}

// New builds the metric set on its own registry so independent worlds (and
// tests) never collide on registration.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		QueuedJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chisel_mesh_jobs_queued",
			Help: "Chunk coordinates currently waiting for a mesh worker.",
		}),
		InFlightJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chisel_mesh_jobs_in_flight",
			Help: "Mesh jobs currently executing on the worker pool.",
		}),
		StaleDiscards: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chisel_mesh_results_stale_total",
			Help: "Completed mesh results discarded because a newer version superseded them.",
		}),
		MeshedChunks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chisel_mesh_results_accepted_total",
			Help: "Completed mesh results accepted at their submitted version.",
		}),
		UploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chisel_upload_bytes_total",
			Help: "Estimated GPU bytes released to the renderer.",
		}),
		UploadedChunks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chisel_upload_chunks_total",
			Help: "Chunk mesh uploads released to the renderer.",
		}),
		BufferReallocs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chisel_upload_buffer_reallocs_total",
			Help: "GPU buffer capacity growths during upload.",
		}),
		EvictedChunks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chisel_stream_evicted_chunks_total",
			Help: "Chunks removed from the renderer by the streaming controller.",
		}),
	}
	reg.MustRegister(
		m.QueuedJobs, m.InFlightJobs, m.StaleDiscards, m.MeshedChunks,
		m.UploadedBytes, m.UploadedChunks, m.BufferReallocs, m.EvictedChunks,
	)
	return m
}

// Registry exposes the underlying registry for scraping or test assertions.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
