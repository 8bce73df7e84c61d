// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package chunked

import (
	"math/rand"
	"testing"
	"time"

	"github.com/SoftbearStudios/tileworld/server/terrain"
	"github.com/SoftbearStudios/tileworld/server/terrain/gen"
)

// slopeSource generates height x+z, wrapped to a byte.
type slopeSource struct {
	calls int
}

func (s *slopeSource) Generate(x, z, width, depth int) []byte {
	s.calls++
	buf := make([]byte, width*depth)
	for j := 0; j < depth; j++ {
		for i := 0; i < width; i++ {
			buf[i+j*width] = byte(terrain.FloorMod(x+i+z+j, 200))
		}
	}
	return buf
}

func newTestTerrain() *Terrain {
	return New(gen.New(12345, terrain.DefaultConfig()), terrain.DefaultConfig())
}

func TestKey(t *testing.T) {
	for i := 0; i < 10000; i++ {
		x := rand.Intn(1<<30) - 1<<29
		z := rand.Intn(1<<30) - 1<<29
		if ux, uz := makeKey(x, z).unpack(); ux != x || uz != z {
			t.Fatalf("makeKey(%d, %d).unpack() = %d, %d", x, z, ux, uz)
		}
	}
	if makeKey(1, 2) == makeKey(2, 1) || makeKey(-1, 0) == makeKey(0, -1) {
		t.Error("key collision")
	}
}

func TestTerrain_HeightMatchesGenerator(t *testing.T) {
	g := gen.New(99, terrain.DefaultConfig())
	tr := New(g, terrain.DefaultConfig())

	for i := 0; i < 2000; i++ {
		x, z := rand.Intn(4000)-2000, rand.Intn(4000)-2000
		if h, expected := tr.Height(x, z), g.GenerateHeight(x, z); h != expected {
			t.Fatalf("Height(%d, %d) = %d, generator says %d", x, z, h, expected)
		}
	}
}

func TestTerrain_SetHeight(t *testing.T) {
	tr := newTestTerrain()

	if !tr.SetHeight(100, 100, 9) {
		t.Fatal("SetHeight to a new value should report a change")
	}
	if h := tr.Height(100, 100); h != 9 {
		t.Errorf("expected height 9, got %d", h)
	}
	if tr.SetHeight(100, 100, 9) {
		t.Error("SetHeight to the current value should be a no-op")
	}
	if tr.EditCount() != 1 {
		t.Errorf("expected 1 edit, got %d", tr.EditCount())
	}

	original := tr.Height(5, 5)
	if tr.SetHeight(5, 5, int(original)) {
		t.Error("SetHeight to the generated value should be a no-op")
	}
	if _, ok := tr.Edit(5, 5); ok {
		t.Error("no-op SetHeight created an edit")
	}
}

func TestTerrain_EditUpdatedInPlace(t *testing.T) {
	g := gen.New(1, terrain.DefaultConfig())
	tr := New(g, terrain.DefaultConfig())
	generated := g.GenerateHeight(-7, 40)

	tr.SetHeight(-7, 40, int(generated)+10)
	tr.SetHeight(-7, 40, int(generated)+20)
	tr.SetHeight(-7, 40, int(generated)+30)

	if tr.EditCount() != 1 {
		t.Fatalf("expected 1 edit record, got %d", tr.EditCount())
	}
	e, ok := tr.Edit(-7, 40)
	if !ok {
		t.Fatal("edit missing")
	}
	if e.Original != generated {
		t.Errorf("expected original %d, got %d", generated, e.Original)
	}
	if e.Modified != tr.Height(-7, 40) {
		t.Errorf("edit records %d but tile is %d", e.Modified, tr.Height(-7, 40))
	}
}

func TestTerrain_FarCoordinates(t *testing.T) {
	tr := New(&slopeSource{}, terrain.DefaultConfig())

	tr.SetHeight(0, 0, 50)
	if tr.SetHeight(1<<32, 0, 200) {
		t.Error("SetHeight beyond int32 reported a change")
	}
	if tr.SetHeight(0, -1<<32-7, 200) {
		t.Error("SetHeight beyond int32 reported a change")
	}

	if tr.EditCount() != 1 {
		t.Fatalf("expected 1 edit, got %d", tr.EditCount())
	}
	e, ok := tr.Edit(0, 0)
	if !ok || e.Modified != 50 {
		t.Errorf("edit at origin clobbered: %+v", e)
	}
	if _, ok := tr.Edit(1<<32, 0); ok {
		t.Error("edit recorded beyond int32")
	}
	if h := tr.Height(0, 0); h != 50 {
		t.Errorf("expected 50 at origin, got %d", h)
	}
	if h := tr.Height(1<<32, 0); h != 0 {
		t.Errorf("expected 0 beyond int32, got %d", h)
	}

	// 1<<32 tiles is a chunk coordinate past int32 for small chunk sizes
	if tr.LoadChunk(1<<32, 0) || tr.IsChunkLoaded(1<<32, 0) {
		t.Error("chunk beyond int32 loaded")
	}
	if edits := tr.EditsInChunk(1<<32, 0); len(edits) != 0 {
		t.Errorf("expected no edits beyond int32, got %d", len(edits))
	}
}

func TestTerrain_SetHeightClamps(t *testing.T) {
	config := terrain.DefaultConfig()
	config.MinHeight = 2
	config.MaxHeight = 30
	tr := New(&slopeSource{}, config)

	tr.SetHeight(3, 3, 1000)
	if h := tr.Height(3, 3); h != 30 {
		t.Errorf("expected clamp to 30, got %d", h)
	}
	tr.SetHeight(3, 3, -1000)
	if h := tr.Height(3, 3); h != 2 {
		t.Errorf("expected clamp to 2, got %d", h)
	}

	// Generated heights are clamped too
	for x := 0; x < 100; x++ {
		if h := tr.Height(x, 50); h < 2 || h > 30 {
			t.Fatalf("generated height %d out of range", h)
		}
	}
}

func TestTerrain_UnloadReplaysEdits(t *testing.T) {
	source := &slopeSource{}
	tr := New(source, terrain.DefaultConfig())

	tr.SetHeight(-40, -3, 250)
	cc := tr.ChunkOf(-40, -3)
	if cc != (ChunkCoord{X: -2, Z: -1}) {
		t.Fatalf("unexpected chunk %v", cc)
	}

	if !tr.UnloadChunk(cc.X, cc.Z) {
		t.Fatal("UnloadChunk should report the chunk was resident")
	}
	if tr.IsChunkLoaded(cc.X, cc.Z) {
		t.Fatal("chunk still resident after unload")
	}
	if tr.UnloadChunk(cc.X, cc.Z) {
		t.Error("second UnloadChunk should report nothing to unload")
	}

	calls := source.calls
	if h := tr.Height(-40, -3); h != 250 {
		t.Errorf("edit lost across unload: got %d", h)
	}
	if source.calls != calls+1 {
		t.Errorf("expected one regeneration, got %d", source.calls-calls)
	}
	if tr.EditCount() != 1 {
		t.Errorf("expected 1 edit, got %d", tr.EditCount())
	}
}

func TestTerrain_Regenerate(t *testing.T) {
	tr := newTestTerrain()

	before := tr.At(0, 0, 32, 32)
	defer before.Pool()
	snapshot := append([]byte(nil), before.Data...)

	tr.UnloadChunk(0, 0)
	after := tr.At(0, 0, 32, 32)
	defer after.Pool()

	if string(snapshot) != string(after.Data) {
		t.Error("regenerated chunk differs from original")
	}
}

func TestTerrain_LoadChunk(t *testing.T) {
	tr := newTestTerrain()

	if !tr.LoadChunk(3, -4) {
		t.Error("first LoadChunk should generate")
	}
	if tr.LoadChunk(3, -4) {
		t.Error("second LoadChunk should not generate")
	}
	if tr.ChunkCount() != 1 {
		t.Errorf("expected 1 chunk, got %d", tr.ChunkCount())
	}

	tr.LoadChunk(0, 0)
	tr.Height(3*32, -4*32) // touch (3, -4) again

	chunks := tr.Chunks()
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	// Ordered by z then x: (3, -4) then (0, 0)
	if chunks[0].ChunkCoord != (ChunkCoord{X: 3, Z: -4}) || chunks[1].ChunkCoord != (ChunkCoord{X: 0, Z: 0}) {
		t.Errorf("unexpected order %v", chunks)
	}
	if chunks[0].LastTouched <= chunks[1].LastTouched {
		t.Error("touching a chunk should advance its LRU clock")
	}

	if stats := tr.Stats(); stats.Chunks != 2 || stats.Generated != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestTerrain_Edits(t *testing.T) {
	now := time.Unix(1000, 0)
	tr := New(&slopeSource{}, terrain.DefaultConfig(), WithClock(func() time.Time { return now }))

	tr.SetHeight(5, 1, 250)
	tr.SetHeight(-5, 1, 250)
	now = now.Add(time.Second)
	tr.SetHeight(40, 0, 250)
	tr.SetHeight(0, 40, 250)

	edits := tr.Edits()
	expected := []struct{ x, z int }{{40, 0}, {-5, 1}, {5, 1}, {0, 40}}
	if len(edits) != len(expected) {
		t.Fatalf("expected %d edits, got %d", len(expected), len(edits))
	}
	for i, e := range expected {
		if edits[i].X != e.x || edits[i].Z != e.z {
			t.Errorf("edit %d expected (%d, %d), got (%d, %d)", i, e.x, e.z, edits[i].X, edits[i].Z)
		}
	}

	if inChunk := tr.EditsInChunk(0, 0); len(inChunk) != 1 || inChunk[0].X != 5 {
		t.Errorf("unexpected chunk edits %v", inChunk)
	}
	if since := tr.EditsSince(now.UnixNano() / int64(time.Millisecond)); len(since) != 2 {
		t.Errorf("expected 2 recent edits, got %v", since)
	}
}

func TestTerrain_Biome(t *testing.T) {
	config := terrain.DefaultConfig()
	g := gen.New(4, config)
	tr := New(g, config)

	tr.SetHeight(10, 10, 0)
	if b := tr.Biome(10, 10); b != terrain.Ocean {
		t.Errorf("lowered tile should be ocean, got %s", b)
	}
	tr.SetHeight(10, 10, 255)
	if b := tr.Biome(10, 10); b != terrain.Mountains {
		t.Errorf("raised tile should be mountains, got %s", b)
	}

	if b := New(&slopeSource{}, config).Biome(0, 0); b != terrain.Plains {
		t.Errorf("store without classifier should default to plains, got %s", b)
	}
}

func TestTerrain_At(t *testing.T) {
	tr := New(&slopeSource{}, terrain.DefaultConfig())
	tr.SetHeight(-1, -1, 199)

	data := tr.At(-2, -2, 4, 3)
	defer data.Pool()

	if data.Stride != 4 || len(data.Data) != 12 {
		t.Fatalf("unexpected data shape stride=%d len=%d", data.Stride, len(data.Data))
	}
	for j := 0; j < 3; j++ {
		for i := 0; i < 4; i++ {
			if data.At(i, j) != tr.Height(-2+i, -2+j) {
				t.Fatalf("At mismatch at (%d, %d)", i, j)
			}
		}
	}
}

func TestChunk_OutOfBounds(t *testing.T) {
	c := &chunk{data: make([]byte, 4)}
	c.set(5, 0, 2, 9)
	c.set(-1, 0, 2, 9)
	if c.at(5, 0, 2) != 0 || c.at(0, -1, 2) != 0 {
		t.Error("out of bounds at should return 0")
	}
	for _, b := range c.data {
		if b != 0 {
			t.Error("out of bounds set modified the chunk")
		}
	}
}

func BenchmarkTerrain_Height(b *testing.B) {
	tr := newTestTerrain()
	for i := 0; i < b.N; i++ {
		_ = tr.Height(i&255, (i>>8)&255)
	}
}
