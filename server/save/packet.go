// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package save

import (
	"fmt"
	"time"

	"github.com/SoftbearStudios/tileworld/server/terrain"
	"github.com/SoftbearStudios/tileworld/server/terrain/chunked"
)

// ChunkPacket carries every edit inside one chunk, for a peer that starts viewing it.
type ChunkPacket struct {
	ChunkX        int            `json:"chunkX"`
	ChunkZ        int            `json:"chunkZ"`
	Modifications []Modification `json:"modifications"`
	Timestamp     int64          `json:"timestamp"`
}

// DeltaPacket carries the edits changed since a peer's last sync.
type DeltaPacket struct {
	Modifications []Modification `json:"modifications"`
	Timestamp     int64          `json:"timestamp"`
}

func millis(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}

func editsToRuns(edits []chunked.Edit) []Modification {
	mods := make([]Modification, len(edits))
	for i, e := range edits {
		mods[i] = Modification{X: e.X, Z: e.Z, Height: int(e.Modified)}
	}
	return Compress(mods)
}

func NewChunkPacket(store *chunked.Terrain, cx, cz int) ChunkPacket {
	return ChunkPacket{
		ChunkX:        cx,
		ChunkZ:        cz,
		Modifications: editsToRuns(store.EditsInChunk(cx, cz)),
		Timestamp:     millis(time.Now()),
	}
}

// NewDeltaPacket returns the edits modified at or after since, in unix millis.
// The packet's Timestamp is the since to pass next time.
func NewDeltaPacket(store *chunked.Terrain, since int64) DeltaPacket {
	return DeltaPacket{
		Modifications: editsToRuns(store.EditsSince(since)),
		Timestamp:     millis(time.Now()),
	}
}

// ApplyChunkPacket replays a chunk packet and returns the number of tiles changed.
// Nothing is applied if any tile lies outside the packet's chunk.
func ApplyChunkPacket(store *chunked.Terrain, packet ChunkPacket) (int, error) {
	if err := validateRuns(packet.Modifications); err != nil {
		return 0, err
	}

	size := store.ChunkSize()
	bounds := terrain.Rect{X: packet.ChunkX * size, Z: packet.ChunkZ * size, Width: size, Depth: size}

	for _, m := range packet.Modifications {
		if !bounds.Contains(m.X, m.Z) || !bounds.Contains(m.X+m.Len()-1, m.Z) {
			return 0, fmt.Errorf("%w: modification at %d, %d is outside chunk %d, %d", ErrInvalid, m.X, m.Z, packet.ChunkX, packet.ChunkZ)
		}
	}

	return apply(store, packet.Modifications), nil
}

// ApplyDeltaPacket replays a delta packet and returns the number of tiles changed.
// Nothing is applied if any run is invalid.
func ApplyDeltaPacket(store *chunked.Terrain, packet DeltaPacket) (int, error) {
	if err := validateRuns(packet.Modifications); err != nil {
		return 0, err
	}
	return apply(store, packet.Modifications), nil
}

func apply(store *chunked.Terrain, runs []Modification) int {
	changed := 0
	for _, m := range runs {
		for i := 0; i < m.Len(); i++ {
			if store.SetHeight(m.X+i, m.Z, m.Height) {
				changed++
			}
		}
	}
	return changed
}
