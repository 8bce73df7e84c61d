// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"errors"
	"math"
	"time"
)

// SlowUpdate is the update time above which Manager.Update logs.
const SlowUpdate = 4 * time.Millisecond

// Config controls which chunks are kept resident.
type Config struct {
	TileSize          float32 `json:"tileSize" yaml:"tile_size"`                    // world units per tile
	ChunkLoadRadius   int     `json:"chunkLoadRadius" yaml:"chunk_load_radius"`     // chunks around the viewport
	EntityLoadRadius  int     `json:"entityLoadRadius" yaml:"entity_load_radius"`   // chunks around each entity
	UnloadDelayFrames int     `json:"unloadDelayFrames" yaml:"unload_delay_frames"` // consecutive misses before unload
	MaxLoadedChunks   int     `json:"maxLoadedChunks" yaml:"max_loaded_chunks"`     // LRU budget, 0 is unlimited
}

func DefaultConfig() Config {
	return Config{
		TileSize:          16,
		ChunkLoadRadius:   1,
		EntityLoadRadius:  1,
		UnloadDelayFrames: 30,
		MaxLoadedChunks:   256,
	}
}

var ErrConfig = errors.New("invalid stream config")

func (c Config) Validate() error {
	if !(c.TileSize > 0) || math.IsInf(float64(c.TileSize), 1) || c.ChunkLoadRadius < 0 || c.EntityLoadRadius < 0 || c.UnloadDelayFrames < 0 || c.MaxLoadedChunks < 0 {
		return ErrConfig
	}
	return nil
}

// withDefaults replaces each invalid field with its DefaultConfig value.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if !(c.TileSize > 0) || math.IsInf(float64(c.TileSize), 1) {
		c.TileSize = d.TileSize
	}
	if c.ChunkLoadRadius < 0 {
		c.ChunkLoadRadius = d.ChunkLoadRadius
	}
	if c.EntityLoadRadius < 0 {
		c.EntityLoadRadius = d.EntityLoadRadius
	}
	if c.UnloadDelayFrames < 0 {
		c.UnloadDelayFrames = d.UnloadDelayFrames
	}
	if c.MaxLoadedChunks < 0 {
		c.MaxLoadedChunks = d.MaxLoadedChunks
	}
	return c
}
