// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"log/slog"
	"sort"
	"time"

	"github.com/SoftbearStudios/tileworld/server/terrain"
	"github.com/SoftbearStudios/tileworld/server/terrain/chunked"
	"github.com/chewxy/math32"
)

// Store is the part of the terrain store the manager drives.
type Store interface {
	ChunkSize() int
	LoadChunk(cx, cz int) bool
	UnloadChunk(cx, cz int) bool
	IsChunkLoaded(cx, cz int) bool
	Chunks() []chunked.ChunkInfo
}

// Stats describes one call to Manager.Update.
type Stats struct {
	ChunksLoaded   int           `json:"chunksLoaded"`
	ChunksUnloaded int           `json:"chunksUnloaded"`
	ActiveChunks   int           `json:"activeChunks"`
	UpdateTime     time.Duration `json:"updateTime"`
	Frame          uint64        `json:"frame"`
}

// Manager decides which chunks are resident from the viewport and tracked entities.
// It is driven by the caller once per frame and is not safe for concurrent use.
type Manager struct {
	store  Store
	config Config
	log    *slog.Logger

	entities map[string]position

	// Reused between updates
	desired    map[chunked.ChunkCoord]struct{}
	order      []chunked.ChunkCoord
	misses     map[chunked.ChunkCoord]int // consecutive updates outside the desired set
	nextMisses map[chunked.ChunkCoord]int

	frame   uint64
	elapsed float32
	last    Stats
}

// New returns a manager for store. Invalid config fields are replaced by their
// DefaultConfig values.
func New(store Store, config Config, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	if err := config.Validate(); err != nil {
		fixed := config.withDefaults()
		log.Warn("stream config invalid, using defaults", "err", err, "config", config, "using", fixed)
		config = fixed
	}
	return &Manager{
		store:      store,
		config:     config,
		log:        log,
		entities:   make(map[string]position),
		desired:    make(map[chunked.ChunkCoord]struct{}),
		misses:     make(map[chunked.ChunkCoord]int),
		nextMisses: make(map[chunked.ChunkCoord]int),
	}
}

func (m *Manager) Config() Config {
	return m.config
}

// LastStats returns the stats of the most recent Update.
func (m *Manager) LastStats() Stats {
	return m.last
}

// Elapsed returns the sum of deltaTime over all updates.
func (m *Manager) Elapsed() float32 {
	return m.elapsed
}

// Update activates every chunk around the viewport and tracked entities, then unloads
// chunks that have been outside that set for UnloadDelayFrames updates, then evicts the
// least recently touched undesired chunks while over MaxLoadedChunks.
// The camera is the centre of the viewport; all arguments are in world units.
func (m *Manager) Update(cameraX, cameraZ, viewportW, viewportH, deltaTime float32) Stats {
	start := time.Now()
	m.frame++
	m.elapsed += deltaTime

	m.computeDesired(cameraX, cameraZ, viewportW, viewportH)

	stats := Stats{Frame: m.frame}
	for _, c := range m.order {
		if m.store.LoadChunk(c.X, c.Z) {
			stats.ChunksLoaded++
		}
	}

	resident := m.store.Chunks()
	undesired := make([]chunked.ChunkInfo, 0, len(resident)/4)

	for _, info := range resident {
		if _, ok := m.desired[info.ChunkCoord]; ok {
			continue
		}

		misses := m.misses[info.ChunkCoord] + 1
		if misses >= m.config.UnloadDelayFrames {
			if m.store.UnloadChunk(info.X, info.Z) {
				stats.ChunksUnloaded++
			}
			continue
		}

		m.nextMisses[info.ChunkCoord] = misses
		undesired = append(undesired, info)
	}

	if budget := m.config.MaxLoadedChunks; budget > 0 {
		if over := len(resident) - stats.ChunksUnloaded - budget; over > 0 {
			sort.Slice(undesired, func(i, j int) bool {
				return undesired[i].LastTouched < undesired[j].LastTouched
			})
			for i := 0; i < over && i < len(undesired); i++ {
				c := undesired[i].ChunkCoord
				if m.store.UnloadChunk(c.X, c.Z) {
					stats.ChunksUnloaded++
				}
				delete(m.nextMisses, c)
			}
		}
	}

	// Chunks unloaded elsewhere drop out of the miss counts here.
	m.misses, m.nextMisses = m.nextMisses, m.misses
	for c := range m.nextMisses {
		delete(m.nextMisses, c)
	}

	stats.ActiveChunks = len(resident) - stats.ChunksUnloaded
	stats.UpdateTime = time.Since(start)
	if stats.UpdateTime > SlowUpdate {
		m.log.Debug("slow chunk update",
			"elapsed", stats.UpdateTime,
			"loaded", stats.ChunksLoaded,
			"unloaded", stats.ChunksUnloaded,
			"chunks", stats.ActiveChunks,
		)
	}

	m.last = stats
	return stats
}

// computeDesired fills desired and order with the union of the viewport and entity rectangles.
func (m *Manager) computeDesired(cameraX, cameraZ, viewportW, viewportH float32) {
	for c := range m.desired {
		delete(m.desired, c)
	}
	m.order = m.order[:0]

	size := m.store.ChunkSize()
	tileSize := m.config.TileSize

	minX := m.chunkOf(cameraX-viewportW/2, tileSize, size)
	maxX := m.chunkOf(cameraX+viewportW/2, tileSize, size)
	minZ := m.chunkOf(cameraZ-viewportH/2, tileSize, size)
	maxZ := m.chunkOf(cameraZ+viewportH/2, tileSize, size)

	r := m.config.ChunkLoadRadius
	m.addRect(minX-r, minZ-r, maxX+r, maxZ+r)

	if len(m.entities) == 0 {
		return
	}

	// Sorted so activation order does not depend on map order
	ids := make([]string, 0, len(m.entities))
	for id := range m.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	r = m.config.EntityLoadRadius
	for _, id := range ids {
		p := m.entities[id]
		cx := m.chunkOf(p.x, tileSize, size)
		cz := m.chunkOf(p.z, tileSize, size)
		m.addRect(cx-r, cz-r, cx+r, cz+r)
	}
}

// addRect adds the chunks [minX, maxX] x [minZ, maxZ], inclusive.
func (m *Manager) addRect(minX, minZ, maxX, maxZ int) {
	for z := minZ; z <= maxZ; z++ {
		for x := minX; x <= maxX; x++ {
			c := chunked.ChunkCoord{X: x, Z: z}
			if _, ok := m.desired[c]; ok {
				continue
			}
			m.desired[c] = struct{}{}
			m.order = append(m.order, c)
		}
	}
}

// chunkOf converts a world unit coordinate to a chunk coordinate.
func (m *Manager) chunkOf(v, tileSize float32, chunkSize int) int {
	return terrain.FloorDiv(int(math32.Floor(v/tileSize)), chunkSize)
}

// ForceLoadChunk loads a chunk regardless of the viewport. It may still be unloaded by
// later updates if it stays outside the desired set.
func (m *Manager) ForceLoadChunk(cx, cz int) bool {
	delete(m.misses, chunked.ChunkCoord{X: cx, Z: cz})
	return m.store.LoadChunk(cx, cz)
}

// ForceUnloadChunk unloads a chunk immediately.
func (m *Manager) ForceUnloadChunk(cx, cz int) bool {
	delete(m.misses, chunked.ChunkCoord{X: cx, Z: cz})
	return m.store.UnloadChunk(cx, cz)
}

// PreloadArea loads every chunk intersecting a rectangle of tiles and returns how many
// were not already resident.
func (m *Manager) PreloadArea(x, z, width, depth int) int {
	if width <= 0 || depth <= 0 {
		return 0
	}

	size := m.store.ChunkSize()
	minX, minZ := terrain.FloorDiv(x, size), terrain.FloorDiv(z, size)
	maxX, maxZ := terrain.FloorDiv(x+width-1, size), terrain.FloorDiv(z+depth-1, size)

	loaded := 0
	for cz := minZ; cz <= maxZ; cz++ {
		for cx := minX; cx <= maxX; cx++ {
			if m.ForceLoadChunk(cx, cz) {
				loaded++
			}
		}
	}

	if loaded > 0 {
		m.log.Debug("preloaded area", "loaded", loaded, "x", x, "z", z, "width", width, "depth", depth)
	}
	return loaded
}
