// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package chunked

import (
	"github.com/SoftbearStudios/tileworld/server/terrain"
)

// ChunkCoord identifies a chunk by chunk coordinates.
type ChunkCoord struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// ChunkInfo describes a resident chunk.
type ChunkInfo struct {
	ChunkCoord
	LastTouched uint64 // value of the store's touch counter at last access
}

// chunk stores a size*size region of heightmap data, row-major.
type chunk struct {
	data    []byte
	touched uint64
}

// generateChunk fills a chunk from the generator and clamps it to the height range.
func generateChunk(generator terrain.Source, config *terrain.Config, cx, cz int) *chunk {
	size := config.ChunkSize
	heightmap := generator.Generate(cx*size, cz*size, size, size)

	// Early bounds check
	_ = heightmap[size*size-1]

	c := &chunk{data: heightmap[:size*size]}
	for i, h := range c.data {
		c.data[i] = config.Clamp(int(h))
	}
	return c
}

// at gets a relative position in the chunk. Out of bounds positions return 0.
func (c *chunk) at(x, z, size int) byte {
	if x < 0 || z < 0 || x >= size || z >= size {
		return 0
	}
	return c.data[x+z*size]
}

// set sets a relative position's value. Out of bounds positions are ignored.
func (c *chunk) set(x, z, size int, value byte) {
	if x < 0 || z < 0 || x >= size || z >= size {
		return
	}
	c.data[x+z*size] = value
}
