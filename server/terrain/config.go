// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultChunkSize is the width and depth of a chunk in tiles.
const DefaultChunkSize = 32

// Config holds every world generation parameter.
// It is persisted in save files and must not change for the lifetime of a save.
type Config struct {
	ChunkSize int `json:"chunkSize" yaml:"chunk_size"`
	MinHeight int `json:"minHeight" yaml:"min_height"`
	MaxHeight int `json:"maxHeight" yaml:"max_height"`

	// Base layer
	HeightScale       float64 `json:"heightScale" yaml:"height_scale"`
	HeightOctaves     int     `json:"heightOctaves" yaml:"height_octaves"`
	HeightPersistence float64 `json:"heightPersistence" yaml:"height_persistence"`
	HeightLacunarity  float64 `json:"heightLacunarity" yaml:"height_lacunarity"`

	// Detail layer
	DetailScale    float64 `json:"detailScale" yaml:"detail_scale"`
	DetailOctaves  int     `json:"detailOctaves" yaml:"detail_octaves"`
	DetailStrength float64 `json:"detailStrength" yaml:"detail_strength"`

	// Climate
	TemperatureBias float64 `json:"temperatureBias" yaml:"temperature_bias"`
	MoistureBias    float64 `json:"moistureBias" yaml:"moisture_bias"`

	// Elevation thresholds on normalized height
	OceanThreshold     float64 `json:"oceanThreshold" yaml:"ocean_threshold"`
	BeachThreshold     float64 `json:"beachThreshold" yaml:"beach_threshold"`
	HillsThreshold     float64 `json:"hillsThreshold" yaml:"hills_threshold"`
	MountainsThreshold float64 `json:"mountainsThreshold" yaml:"mountains_threshold"`

	// Rivers
	RiverSpacing         int     `json:"riverSpacing" yaml:"river_spacing"`
	RiverSourceThreshold float64 `json:"riverSourceThreshold" yaml:"river_source_threshold"`
	RiverMinLength       int     `json:"riverMinLength" yaml:"river_min_length"`
	RiverMaxLength       int     `json:"riverMaxLength" yaml:"river_max_length"`
}

// DefaultConfig returns the parameters of the default preset.
func DefaultConfig() Config {
	return Config{
		ChunkSize: DefaultChunkSize,
		MinHeight: 0,
		MaxHeight: 255,

		HeightScale:       0.004,
		HeightOctaves:     5,
		HeightPersistence: 0.5,
		HeightLacunarity:  2.0,

		DetailScale:    0.05,
		DetailOctaves:  2,
		DetailStrength: 0.06,

		OceanThreshold:     0.35,
		BeachThreshold:     0.4,
		HillsThreshold:     0.62,
		MountainsThreshold: 0.72,

		RiverSpacing:         16,
		RiverSourceThreshold: 0.62,
		RiverMinLength:       8,
		RiverMaxLength:       512,
	}
}

// presets are pure parameter bundles over DefaultConfig.
var presets = map[string]func(c *Config){
	"default": func(c *Config) {},
	"mountainous": func(c *Config) {
		c.HeightOctaves = 6
		c.HeightPersistence = 0.58
		c.DetailStrength = 0.12
		c.OceanThreshold = 0.25
		c.BeachThreshold = 0.28
		c.HillsThreshold = 0.5
		c.MountainsThreshold = 0.6
		c.RiverSourceThreshold = 0.55
	},
	"islands": func(c *Config) {
		c.HeightScale = 0.008
		c.OceanThreshold = 0.52
		c.BeachThreshold = 0.56
		c.HillsThreshold = 0.7
		c.MountainsThreshold = 0.8
		c.MoistureBias = 0.1
	},
	"desert": func(c *Config) {
		c.DetailStrength = 0.03
		c.OceanThreshold = 0.2
		c.BeachThreshold = 0.22
		c.TemperatureBias = 0.35
		c.MoistureBias = -0.3
		c.RiverSourceThreshold = 0.75
	},
	"flat": func(c *Config) {
		c.HeightOctaves = 1
		c.DetailStrength = 0
		c.HeightScale = 0.001
	},
}

// Preset returns the named preset, falling back to the default preset for unknown names.
func Preset(name string) Config {
	c := DefaultConfig()
	apply, ok := presets[name]
	if !ok {
		apply = presets["default"]
	}
	apply(&c)
	return c
}

// PresetNames returns the names of all presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fill replaces zero fields with the default preset's values.
// Bias fields are legitimately zero and are left alone.
func (c Config) Fill() Config {
	d := DefaultConfig()
	if c.ChunkSize == 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.MaxHeight == 0 {
		c.MaxHeight = d.MaxHeight
	}
	if c.HeightScale == 0 {
		c.HeightScale = d.HeightScale
	}
	if c.HeightOctaves == 0 {
		c.HeightOctaves = d.HeightOctaves
	}
	if c.HeightPersistence == 0 {
		c.HeightPersistence = d.HeightPersistence
	}
	if c.HeightLacunarity == 0 {
		c.HeightLacunarity = d.HeightLacunarity
	}
	if c.DetailScale == 0 {
		c.DetailScale = d.DetailScale
	}
	if c.DetailOctaves == 0 {
		c.DetailOctaves = d.DetailOctaves
	}
	if c.OceanThreshold == 0 {
		c.OceanThreshold = d.OceanThreshold
	}
	if c.BeachThreshold == 0 {
		c.BeachThreshold = d.BeachThreshold
	}
	if c.HillsThreshold == 0 {
		c.HillsThreshold = d.HillsThreshold
	}
	if c.MountainsThreshold == 0 {
		c.MountainsThreshold = d.MountainsThreshold
	}
	if c.RiverSpacing == 0 {
		c.RiverSpacing = d.RiverSpacing
	}
	if c.RiverSourceThreshold == 0 {
		c.RiverSourceThreshold = d.RiverSourceThreshold
	}
	if c.RiverMinLength == 0 {
		c.RiverMinLength = d.RiverMinLength
	}
	if c.RiverMaxLength == 0 {
		c.RiverMaxLength = d.RiverMaxLength
	}
	return c
}

var ErrConfig = errors.New("invalid world config")

// Validate returns an error wrapping ErrConfig if c cannot drive a generator.
func (c Config) Validate() error {
	switch {
	case c.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk size %d", ErrConfig, c.ChunkSize)
	case c.MinHeight < 0 || c.MaxHeight > 255 || c.MinHeight >= c.MaxHeight:
		return fmt.Errorf("%w: height range [%d, %d]", ErrConfig, c.MinHeight, c.MaxHeight)
	case c.HeightScale <= 0 || c.DetailScale <= 0:
		return fmt.Errorf("%w: non-positive noise scale", ErrConfig)
	case c.HeightOctaves <= 0 || c.DetailOctaves <= 0:
		return fmt.Errorf("%w: non-positive octave count", ErrConfig)
	case c.DetailStrength < 0:
		return fmt.Errorf("%w: negative detail strength", ErrConfig)
	case !(c.OceanThreshold <= c.BeachThreshold && c.BeachThreshold <= c.HillsThreshold && c.HillsThreshold <= c.MountainsThreshold):
		return fmt.Errorf("%w: elevation thresholds out of order", ErrConfig)
	case c.RiverSpacing <= 0 || c.RiverMaxLength < c.RiverMinLength:
		return fmt.Errorf("%w: river settings", ErrConfig)
	}
	return nil
}
