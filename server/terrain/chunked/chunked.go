// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package chunked

import (
	"sort"
	"sync"
	"time"

	"github.com/SoftbearStudios/tileworld/server/terrain"
)

// Terrain is a chunked, lazily generated heightmap with a sparse index of edits.
// Chunks are a cache of the generator's output with edits replayed on top; only
// the edit index is authoritative.
// All methods can be called concurrently; each takes the store's mutex once.
type Terrain struct {
	generator terrain.Source
	biomes    terrain.BiomeSource
	config    terrain.Config
	now       func() time.Time

	mutex      sync.Mutex
	chunks     map[key]*chunk
	edits      map[terrain.Point]*Edit // by tile
	chunkEdits map[key][]*Edit         // by chunk, for replay on regeneration
	touches    uint64                  // LRU clock
	generated  int                     // chunk generations, including regenerations
}

type Option func(t *Terrain)

// WithClock sets the clock used to timestamp edits.
func WithClock(now func() time.Time) Option {
	return func(t *Terrain) {
		t.now = now
	}
}

// WithBiomes sets the biome classifier. By default the generator is used if it implements
// terrain.BiomeSource.
func WithBiomes(biomes terrain.BiomeSource) Option {
	return func(t *Terrain) {
		t.biomes = biomes
	}
}

func New(generator terrain.Source, config terrain.Config, options ...Option) *Terrain {
	t := &Terrain{
		generator:  generator,
		config:     config,
		now:        time.Now,
		chunks:     make(map[key]*chunk),
		edits:      make(map[terrain.Point]*Edit),
		chunkEdits: make(map[key][]*Edit),
	}
	if biomes, ok := generator.(terrain.BiomeSource); ok {
		t.biomes = biomes
	}
	for _, option := range options {
		option(t)
	}
	return t
}

func (t *Terrain) Config() terrain.Config {
	return t.config
}

func (t *Terrain) ChunkSize() int {
	return t.config.ChunkSize
}

func (t *Terrain) Generator() terrain.Source {
	return t.generator
}

// Height returns the current height of a tile.
func (t *Terrain) Height(x, z int) byte {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.at(x, z)
}

// SetHeight sets the height of a tile, clamped to the height range.
// It returns false if the tile already had that height.
func (t *Terrain) SetHeight(x, z, height int) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.set(x, z, height, t.millis())
}

// Biome classifies a tile at its current height.
func (t *Terrain) Biome(x, z int) terrain.Biome {
	t.mutex.Lock()
	h := t.at(x, z)
	t.mutex.Unlock()

	if t.biomes == nil {
		return terrain.Plains
	}
	return t.biomes.BiomeFor(x, z, h)
}

// At returns the heightmap of a rectangle. The caller should Pool the result.
func (t *Terrain) At(x, z, width, depth int) *terrain.Data {
	data := terrain.NewData()
	if width <= 0 || depth <= 0 {
		return data
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	for j := 0; j < depth; j++ {
		for i := 0; i < width; i++ {
			data.Data = append(data.Data, t.at(x+i, z+j))
		}
	}

	data.Rect = terrain.Rect{X: x, Z: z, Width: width, Depth: depth}
	data.Stride = width
	return data
}

// LoadChunk makes a chunk resident, returning true if it had to be generated.
func (t *Terrain) LoadChunk(cx, cz int) bool {
	if !inRange(cx, cz) {
		return false
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()

	_, ok := t.chunks[makeKey(cx, cz)]
	t.getChunk(cx, cz)
	return !ok
}

// UnloadChunk drops a chunk's heightmap from memory. Its edits are kept and
// replayed when it is next generated.
func (t *Terrain) UnloadChunk(cx, cz int) bool {
	if !inRange(cx, cz) {
		return false
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()

	k := makeKey(cx, cz)
	if _, ok := t.chunks[k]; !ok {
		return false
	}
	delete(t.chunks, k)
	return true
}

func (t *Terrain) IsChunkLoaded(cx, cz int) bool {
	if !inRange(cx, cz) {
		return false
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()

	_, ok := t.chunks[makeKey(cx, cz)]
	return ok
}

// ChunkCount returns the number of resident chunks.
func (t *Terrain) ChunkCount() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return len(t.chunks)
}

// Chunks returns the resident chunks ordered by coordinate.
func (t *Terrain) Chunks() []ChunkInfo {
	t.mutex.Lock()
	infos := make([]ChunkInfo, 0, len(t.chunks))
	for k, c := range t.chunks {
		x, z := k.unpack()
		infos = append(infos, ChunkInfo{ChunkCoord: ChunkCoord{X: x, Z: z}, LastTouched: c.touched})
	}
	t.mutex.Unlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Z != infos[j].Z {
			return infos[i].Z < infos[j].Z
		}
		return infos[i].X < infos[j].X
	})
	return infos
}

// Stats is a snapshot of the store's size.
type Stats struct {
	Chunks    int // resident
	Generated int // total generations
	Edits     int
}

func (t *Terrain) Stats() Stats {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return Stats{Chunks: len(t.chunks), Generated: t.generated, Edits: len(t.edits)}
}

// ChunkOf returns the chunk containing a tile.
func (t *Terrain) ChunkOf(x, z int) ChunkCoord {
	size := t.config.ChunkSize
	return ChunkCoord{X: terrain.FloorDiv(x, size), Z: terrain.FloorDiv(z, size)}
}

func (t *Terrain) millis() int64 {
	return t.now().UnixNano() / int64(time.Millisecond)
}

// at must be called with the mutex held. Tiles out of range read as 0.
func (t *Terrain) at(x, z int) byte {
	if !inRange(x, z) {
		return 0
	}
	size := t.config.ChunkSize
	c := t.getChunk(terrain.FloorDiv(x, size), terrain.FloorDiv(z, size))
	return c.at(terrain.FloorMod(x, size), terrain.FloorMod(z, size), size)
}

// set must be called with the mutex held. Tiles out of range are never written.
func (t *Terrain) set(x, z, height int, millis int64) bool {
	if !inRange(x, z) {
		return false
	}
	size := t.config.ChunkSize
	cx, cz := terrain.FloorDiv(x, size), terrain.FloorDiv(z, size)
	lx, lz := terrain.FloorMod(x, size), terrain.FloorMod(z, size)

	value := t.config.Clamp(height)
	c := t.getChunk(cx, cz)
	old := c.at(lx, lz, size)
	if old == value {
		return false
	}
	c.set(lx, lz, size, value)
	t.record(x, z, cx, cz, old, value, millis)
	return true
}

// getChunk returns a resident chunk, generating it and replaying its edits if needed.
func (t *Terrain) getChunk(cx, cz int) *chunk {
	k := makeKey(cx, cz)
	c := t.chunks[k]

	if c == nil {
		c = generateChunk(t.generator, &t.config, cx, cz)
		t.generated++

		size := t.config.ChunkSize
		for _, e := range t.chunkEdits[k] {
			c.set(terrain.FloorMod(e.X, size), terrain.FloorMod(e.Z, size), size, e.Modified)
		}

		t.chunks[k] = c
	}

	t.touches++
	c.touched = t.touches
	return c
}
