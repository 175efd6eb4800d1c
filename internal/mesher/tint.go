package mesher

import (
	perlin "github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"

	"Chisel3D/internal/voxel"
)

// Tinter computes the per-column biome foliage tint. Temperature and the
// color jitter come from Perlin noise, humidity from a simplex field on an
// offset seed so the two do not correlate.
type Tinter struct {
	temperature *perlin.Perlin
	humidity    opensimplex.Noise
}

// NewTinter derives both noise fields from the world seed.
func NewTinter(worldSeed int64) *Tinter {
	return &Tinter{
		temperature: perlin.NewPerlin(2, 2, 3, worldSeed+3),
		humidity:    opensimplex.New(worldSeed + 7),
	}
}

// White is the neutral tint applied to untinted geometry.
var White = [3]float32{1, 1, 1}

func tintable(id voxel.BlockID) bool {
	switch id {
	case voxel.VerdantTurf, voxel.CanopyLeaves, voxel.TallGrass,
		voxel.Wildflower, voxel.Sapling, voxel.SugarCane:
		return true
	}
	return false
}

// ColorFor returns the tint for a block at world column (wx, wz). Blocks
// outside the foliage set stay white.
func (t *Tinter) ColorFor(id voxel.BlockID, wx, wz int) [3]float32 {
	if !tintable(id) {
		return White
	}

	fx, fz := float64(wx), float64(wz)
	temperature := float32((t.temperature.Noise2D(fx*0.002, fz*0.002) + 1) * 0.5)
	humidity := float32((t.humidity.Eval2(fx*0.0025, fz*0.0025) + 1) * 0.5)

	dryness := 1 - humidity
	coldW := powf(1-temperature, 1.3)
	hotW := powf(temperature, 1.2)
	wetW := powf(humidity, 1.1)
	temperateW := maxf(1-absf(temperature-0.5)*2, 0)

	palette := [5]struct {
		color  [3]float32
		weight float32
	}{
		{[3]float32{0.57, 0.72, 0.58}, powf(coldW*(0.6+wetW*0.4), 0.9)},
		{[3]float32{0.17, 0.56, 0.15}, powf(hotW*wetW, 0.75)},
		{[3]float32{0.71, 0.68, 0.34}, powf(hotW*dryness, 0.9)},
		{[3]float32{0.44, 0.71, 0.33}, temperateW * (0.55 + dryness*0.45)},
		{[3]float32{0.29, 0.52, 0.23}, temperateW * wetW},
	}

	var mix [3]float32
	var weightSum float32
	for _, p := range palette {
		mix[0] += p.color[0] * p.weight
		mix[1] += p.color[1] * p.weight
		mix[2] += p.color[2] * p.weight
		weightSum += p.weight
	}
	if weightSum > 0.0001 {
		mix[0] /= weightSum
		mix[1] /= weightSum
		mix[2] /= weightSum
	} else {
		mix = [3]float32{0.42, 0.68, 0.32}
	}

	jitter := clampf(float32(t.temperature.Noise2D(fx*0.01+201, fz*0.01-77))*0.03, -0.03, 0.03)
	mix[0] = clampf(mix[0]+jitter*0.4, 0.05, 0.95)
	mix[1] = clampf(mix[1]+jitter, 0.05, 0.95)
	mix[2] = clampf(mix[2]-jitter*0.25, 0.05, 0.95)

	// Keep foliage from drifting into muddy gray in extreme biome blends.
	minGreen := clampf((mix[0]+mix[2])*0.55+0.08, 0.1, 0.9)
	mix[1] = clampf(maxf(mix[1], minGreen), 0.05, 0.95)

	if id == voxel.VerdantTurf {
		return mix
	}
	return [3]float32{
		clampf(mix[0]*0.86, 0.03, 1),
		clampf(mix[1]*0.82, 0.03, 1),
		clampf(mix[2]*0.72, 0.03, 1),
	}
}
