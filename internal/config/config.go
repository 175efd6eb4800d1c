package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"Chisel3D/internal/streaming"
)

// Config collects the tunables for a voxel world session.
type Config struct {
	// WorldSeed drives terrain noise and the biome tint fields.
	WorldSeed int64 `yaml:"world_seed"`

	// MeshWorkers is the size of the background meshing pool. Zero picks a
	// default based on spare CPU cores.
	MeshWorkers int `yaml:"mesh_workers"`
	// ResultBuffer bounds how many finished meshes can wait between frames.
	ResultBuffer int `yaml:"result_buffer"`
	// DispatchPerFrame caps how many mesh jobs one frame may start.
	DispatchPerFrame int `yaml:"dispatch_per_frame"`

	RenderDistance     int32 `yaml:"render_distance"`
	VerticalUp         int32 `yaml:"vertical_up"`
	VerticalDown       int32 `yaml:"vertical_down"`
	FlightVerticalDown int32 `yaml:"flight_vertical_down"`
	LODThreshold       int32 `yaml:"lod_threshold"`

	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
	WindowTitle  string `yaml:"window_title"`
}

func Default() Config {
	s := streaming.DefaultSettings()
	return Config{
		WorldSeed:          1337,
		MeshWorkers:        0,
		ResultBuffer:       256,
		DispatchPerFrame:   8,
		RenderDistance:     s.RenderDistance,
		VerticalUp:         s.VerticalUp,
		VerticalDown:       s.VerticalDown,
		FlightVerticalDown: s.FlightVerticalDown,
		LODThreshold:       s.LODThreshold,
		WindowWidth:        1280,
		WindowHeight:       720,
		WindowTitle:        "Chisel3D",
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error; the defaults come back untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Streaming converts the flat fields into the controller's settings.
func (c Config) Streaming() streaming.Settings {
	return streaming.Settings{
		RenderDistance:     c.RenderDistance,
		VerticalUp:         c.VerticalUp,
		VerticalDown:       c.VerticalDown,
		FlightVerticalDown: c.FlightVerticalDown,
		LODThreshold:       c.LODThreshold,
	}
}
