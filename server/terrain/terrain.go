// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"sync"
)

/*
	List of curated seeds:
		12345 (default, large continents)
		56    (archipelago with the islands preset)
		1337  (river-heavy with the mountainous preset)
*/

// Seed default seed.
const Seed = int64(12345)

// Source generates heightmap data.
type Source interface {
	// Generate returns width*depth heights, row-major with z as the outer axis.
	Generate(x, z, width, depth int) []byte
}

// BiomeSource classifies a tile given its current height.
type BiomeSource interface {
	BiomeFor(x, z int, height byte) Biome
}

// Sampler is the read surface consumed by renderers and gameplay layers.
type Sampler interface {
	Height(x, z int) byte
	Biome(x, z int) Biome
}

// Point is a tile coordinate.
type Point struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Rect is a rectangle of tiles [X, X+Width) x [Z, Z+Depth).
type Rect struct {
	X     int `json:"x"`
	Z     int `json:"z"`
	Width int `json:"width"`
	Depth int `json:"depth"`
}

// Contains returns true if the tile at x, z lies inside r.
func (r Rect) Contains(x, z int) bool {
	return x >= r.X && z >= r.Z && x < r.X+r.Width && z < r.Z+r.Depth
}

// Empty returns true if r covers no tiles.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Depth <= 0
}

// Data describes a rectangle of a heightmap.
type Data struct {
	Rect
	Data   []byte `json:"data"`   // Data is the raw heightmap, row-major.
	Stride int    `json:"stride"` // Stride is width of Data.
}

var dataPool = sync.Pool{
	New: func() interface{} {
		return &Data{
			Data: make([]byte, 0, 2048),
		}
	},
}

func NewData() *Data {
	return dataPool.Get().(*Data)
}

// At returns the height at a position relative to the rectangle's origin.
// Out of range positions return 0.
func (data *Data) At(i, j int) byte {
	if i < 0 || j < 0 || i >= data.Stride || j*data.Stride+i >= len(data.Data) {
		return 0
	}
	return data.Data[j*data.Stride+i]
}

func (data *Data) Pool() {
	*data = Data{
		Data: data.Data[:0],
	}
	dataPool.Put(data)
}

// FloorDiv divides rounding towards negative infinity.
// It maps tile coordinates to chunk coordinates.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod is the remainder matching FloorDiv, always in [0, b) for positive b.
func FloorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
