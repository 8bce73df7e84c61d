// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package gen

import (
	"github.com/SoftbearStudios/tileworld/server/terrain"
	"github.com/SoftbearStudios/tileworld/server/terrain/noise"
	"github.com/aquilax/go-perlin"
)

// Generator generates heights, biomes and rivers from layered noise.
// It is immutable after construction and safe for concurrent use.
type Generator struct {
	seed   int64
	config terrain.Config

	base        *noise.Noise // large landmasses
	detail      *noise.Noise // local texture
	temperature *noise.Noise
	moisture    *noise.Noise

	// Ranks river source candidates
	riverJitter *perlin.Perlin

	baseOptions   noise.Options
	detailOptions noise.Options
	waterLevel    byte
}

func NewDefault() *Generator {
	return New(terrain.Seed, terrain.DefaultConfig())
}

// New creates a Generator. Every layer is seeded with a different offset of seed.
func New(seed int64, config terrain.Config) *Generator {
	return &Generator{
		seed:        seed,
		config:      config,
		base:        noise.New(seed),
		detail:      noise.New(seed + 1),
		temperature: noise.New(seed + 2),
		moisture:    noise.New(seed + 3),
		riverJitter: perlin.NewPerlin(2, 2, 3, seed+4),
		baseOptions: noise.Options{
			Kind:        noise.Perlin,
			Scale:       config.HeightScale,
			Octaves:     config.HeightOctaves,
			Persistence: config.HeightPersistence,
			Lacunarity:  config.HeightLacunarity,
		},
		detailOptions: noise.Options{
			Kind:    noise.Simplex,
			Scale:   config.DetailScale,
			Octaves: config.DetailOctaves,
		},
		waterLevel: config.Denormalize(config.OceanThreshold),
	}
}

func (g *Generator) Seed() int64 {
	return g.seed
}

func (g *Generator) Config() terrain.Config {
	return g.config
}

// WaterLevel is the height at the ocean threshold. Rivers end when they reach it.
func (g *Generator) WaterLevel() byte {
	return g.waterLevel
}

// GenerateHeight returns the procedural height of a tile.
func (g *Generator) GenerateHeight(x, z int) byte {
	return g.config.Denormalize(g.elevation(float64(x), float64(z)))
}

// elevation blends the base layer with the detail layer rescaled to [-strength, strength].
func (g *Generator) elevation(x, z float64) float64 {
	base := noise.Unit(g.base.Sample(x, z, g.baseOptions))
	if g.config.DetailStrength == 0 {
		return base
	}
	detail := noise.Unit(g.detail.Sample(x, z, g.detailOptions))
	return terrain.Clamp01(base + (detail*2-1)*g.config.DetailStrength)
}

// Generate implements terrain.Source.Generate.
func (g *Generator) Generate(px, pz, width, depth int) []byte {
	buf := make([]byte, width*depth)

	for j := 0; j < depth; j++ {
		for i := 0; i < width; i++ {
			buf[i+j*width] = g.GenerateHeight(px+i, pz+j)
		}
	}

	return buf
}

// Temperature returns the biased temperature signal in [0, 1].
func (g *Generator) Temperature(x, z int) float64 {
	return terrain.Clamp01(g.temperature.Temperature(float64(x), float64(z)) + g.config.TemperatureBias)
}

// Moisture returns the biased moisture signal in [0, 1].
func (g *Generator) Moisture(x, z int) float64 {
	return terrain.Clamp01(g.moisture.Moisture(float64(x), float64(z)) + g.config.MoistureBias)
}

// Biome classifies a tile at its procedural height.
func (g *Generator) Biome(x, z int) terrain.Biome {
	return g.BiomeFor(x, z, g.GenerateHeight(x, z))
}

// BiomeFor implements terrain.BiomeSource. Elevation takes precedence over climate.
func (g *Generator) BiomeFor(x, z int, height byte) terrain.Biome {
	c := &g.config
	elevation := c.Normalize(height)
	switch {
	case elevation < c.OceanThreshold:
		return terrain.Ocean
	case elevation < c.BeachThreshold:
		return terrain.Beach
	case elevation >= c.MountainsThreshold:
		return terrain.Mountains
	case elevation >= c.HillsThreshold:
		return terrain.Hills
	}

	return Classify(g.Temperature(x, z), g.Moisture(x, z))
}

// Classify is the climate table for the mid-elevation band.
func Classify(temperature, moisture float64) terrain.Biome {
	switch {
	case temperature < 0.3:
		return terrain.Tundra
	case temperature > 0.7 && moisture < 0.4:
		return terrain.Desert
	case moisture > 0.6:
		return terrain.Forest
	default:
		return terrain.Plains
	}
}
