// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package chunked

import (
	"sort"

	"github.com/SoftbearStudios/tileworld/server/terrain"
)

// Edit records that a tile deviates from its generated height.
// There is at most one Edit per tile; later edits update it in place.
type Edit struct {
	X          int   `json:"x"`
	Z          int   `json:"z"`
	Original   byte  `json:"originalHeight"`
	Modified   byte  `json:"modifiedHeight"`
	ModifiedAt int64 `json:"modifiedAt"` // unix millis of the latest change
}

// record must be called with the mutex held.
func (t *Terrain) record(x, z, cx, cz int, old, value byte, millis int64) {
	tile := terrain.Point{X: x, Z: z}
	if e, ok := t.edits[tile]; ok {
		e.Modified = value
		e.ModifiedAt = millis
		return
	}

	e := &Edit{X: x, Z: z, Original: old, Modified: value, ModifiedAt: millis}
	t.edits[tile] = e
	ck := makeKey(cx, cz)
	t.chunkEdits[ck] = append(t.chunkEdits[ck], e)
}

// Edit returns the edit of a tile, if any.
func (t *Terrain) Edit(x, z int) (Edit, bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if e, ok := t.edits[terrain.Point{X: x, Z: z}]; ok {
		return *e, true
	}
	return Edit{}, false
}

func (t *Terrain) EditCount() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return len(t.edits)
}

// Edits returns every edit ordered by z then x.
func (t *Terrain) Edits() []Edit {
	t.mutex.Lock()
	edits := make([]Edit, 0, len(t.edits))
	for _, e := range t.edits {
		edits = append(edits, *e)
	}
	t.mutex.Unlock()

	sortEdits(edits)
	return edits
}

// EditsInChunk returns the edits inside a chunk ordered by z then x.
func (t *Terrain) EditsInChunk(cx, cz int) []Edit {
	if !inRange(cx, cz) {
		return nil
	}
	t.mutex.Lock()
	chunkEdits := t.chunkEdits[makeKey(cx, cz)]
	edits := make([]Edit, len(chunkEdits))
	for i, e := range chunkEdits {
		edits[i] = *e
	}
	t.mutex.Unlock()

	sortEdits(edits)
	return edits
}

// EditsSince returns the edits changed at or after millis, ordered by z then x.
func (t *Terrain) EditsSince(millis int64) []Edit {
	t.mutex.Lock()
	var edits []Edit
	for _, e := range t.edits {
		if e.ModifiedAt >= millis {
			edits = append(edits, *e)
		}
	}
	t.mutex.Unlock()

	sortEdits(edits)
	return edits
}

func sortEdits(edits []Edit) {
	sort.Slice(edits, func(i, j int) bool {
		if edits[i].Z != edits[j].Z {
			return edits[i].Z < edits[j].Z
		}
		return edits[i].X < edits[j].X
	})
}
