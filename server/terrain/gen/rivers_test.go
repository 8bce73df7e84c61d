// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package gen

import (
	"reflect"
	"testing"

	"github.com/SoftbearStudios/tileworld/server/terrain"
)

func checkRiverPath(t *testing.T, g *Generator, path []terrain.Point, maxLength int) {
	t.Helper()

	if len(path) > maxLength {
		t.Fatalf("path length %d exceeds %d", len(path), maxLength)
	}

	seen := make(map[terrain.Point]bool, len(path))
	for i, p := range path {
		if seen[p] {
			t.Fatalf("path revisits %v", p)
		}
		seen[p] = true

		if i == 0 {
			continue
		}
		prev := path[i-1]
		if dx, dz := p.X-prev.X, p.Z-prev.Z; dx < -1 || dx > 1 || dz < -1 || dz > 1 {
			t.Fatalf("step %v -> %v is not to a neighbour", prev, p)
		}
		if g.GenerateHeight(p.X, p.Z) >= g.GenerateHeight(prev.X, prev.Z) {
			t.Fatalf("step %v -> %v is not strictly downhill", prev, p)
		}
		if g.GenerateHeight(prev.X, prev.Z) <= g.WaterLevel() {
			t.Fatalf("path continued past water at %v", prev)
		}
	}
}

func TestGenerator_TraceRiverPath(t *testing.T) {
	g := New(1337, terrain.Preset("mountainous"))

	for i := 0; i < 50; i++ {
		x, z := i*37-900, i*53-1200
		path := g.TraceRiverPath(x, z, 64)
		if len(path) == 0 || path[0] != (terrain.Point{X: x, Z: z}) {
			t.Fatalf("path must start at the source, got %v", path)
		}
		checkRiverPath(t, g, path, 64)

		if again := g.TraceRiverPath(x, z, 64); !reflect.DeepEqual(path, again) {
			t.Fatalf("TraceRiverPath(%d, %d) not deterministic", x, z)
		}
	}

	if path := g.TraceRiverPath(0, 0, 0); path != nil {
		t.Errorf("expected no path for zero max length, got %v", path)
	}
}

func TestGenerator_TraceRiverPathMaxLength(t *testing.T) {
	g := NewDefault()

	for i := 0; i < 20; i++ {
		if path := g.TraceRiverPath(i*101, i*-67, 1); len(path) != 1 {
			t.Fatalf("expected exactly the source tile, got %v", path)
		}
	}
}

func TestGenerator_GenerateRivers(t *testing.T) {
	config := terrain.Preset("mountainous")
	g := New(1337, config)
	region := terrain.Rect{X: -512, Z: -512, Width: 1024, Depth: 1024}

	rivers := g.GenerateRivers(region, 10)
	if len(rivers) > 10 {
		t.Fatalf("expected at most 10 rivers, got %d", len(rivers))
	}

	for _, r := range rivers {
		if len(r.Path) < config.RiverMinLength {
			t.Errorf("river of length %d below minimum %d", len(r.Path), config.RiverMinLength)
		}
		if !region.Contains(r.Source().X, r.Source().Z) {
			t.Errorf("river source %v outside region", r.Source())
		}
		if h := g.GenerateHeight(r.Source().X, r.Source().Z); config.Normalize(h) < config.RiverSourceThreshold {
			t.Errorf("river source %v too low: %d", r.Source(), h)
		}
		checkRiverPath(t, g, r.Path, config.RiverMaxLength)
	}

	if again := g.GenerateRivers(region, 10); !reflect.DeepEqual(rivers, again) {
		t.Error("GenerateRivers not deterministic")
	}

	if none := g.GenerateRivers(terrain.Rect{}, 10); none != nil {
		t.Errorf("expected no rivers for empty region, got %d", len(none))
	}
}
