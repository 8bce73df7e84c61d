// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"errors"
	"math/rand"
	"testing"
)

func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b, div, mod int
	}{
		{0, 32, 0, 0},
		{31, 32, 0, 31},
		{32, 32, 1, 0},
		{-1, 32, -1, 31},
		{-32, 32, -1, 0},
		{-33, 32, -2, 31},
	}

	for _, test := range tests {
		if d := FloorDiv(test.a, test.b); d != test.div {
			t.Errorf("FloorDiv(%d, %d) expected %d, got %d", test.a, test.b, test.div, d)
		}
		if m := FloorMod(test.a, test.b); m != test.mod {
			t.Errorf("FloorMod(%d, %d) expected %d, got %d", test.a, test.b, test.mod, m)
		}
	}

	for i := 0; i < 10000; i++ {
		a := rand.Intn(1<<16) - 1<<15
		b := rand.Intn(64) + 1
		if FloorDiv(a, b)*b+FloorMod(a, b) != a {
			t.Fatalf("FloorDiv/FloorMod inconsistent for %d, %d", a, b)
		}
	}
}

func TestConfig_Clamp(t *testing.T) {
	c := DefaultConfig()
	c.MinHeight = 5
	c.MaxHeight = 20

	tests := []struct {
		in  int
		out byte
	}{
		{-100, 5},
		{5, 5},
		{12, 12},
		{20, 20},
		{1000, 20},
	}

	for _, test := range tests {
		if h := c.Clamp(test.in); h != test.out {
			t.Errorf("Clamp(%d) expected %d, got %d", test.in, test.out, h)
		}
	}

	for h := c.MinHeight; h <= c.MaxHeight; h++ {
		if d := c.Denormalize(c.Normalize(byte(h))); int(d) != h {
			t.Errorf("Denormalize(Normalize(%d)) = %d", h, d)
		}
	}
}

func TestPreset(t *testing.T) {
	if Preset("no such preset") != DefaultConfig() {
		t.Error("unknown preset should fall back to default")
	}

	for _, name := range PresetNames() {
		if err := Preset(name).Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	broken := []func(c *Config){
		func(c *Config) { c.ChunkSize = 0 },
		func(c *Config) { c.MaxHeight = c.MinHeight },
		func(c *Config) { c.MaxHeight = 300 },
		func(c *Config) { c.HeightScale = 0 },
		func(c *Config) { c.DetailOctaves = -1 },
		func(c *Config) { c.OceanThreshold = 0.9 },
		func(c *Config) { c.RiverMaxLength = 1 },
	}

	for i, b := range broken {
		c := DefaultConfig()
		b(&c)
		if err := c.Validate(); !errors.Is(err, ErrConfig) {
			t.Errorf("case %d: expected ErrConfig, got %v", i, err)
		}
	}
}

func TestConfig_Fill(t *testing.T) {
	c := Config{HeightOctaves: 2, TemperatureBias: 0.2}.Fill()
	if c.HeightOctaves != 2 || c.TemperatureBias != 0.2 {
		t.Errorf("Fill overwrote set fields: %+v", c)
	}
	if c.ChunkSize != DefaultChunkSize || c.MaxHeight != DefaultConfig().MaxHeight {
		t.Errorf("Fill left zero fields: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Error(err)
	}
}

func TestBiome_Text(t *testing.T) {
	for b := Biome(0); b < biomeCount; b++ {
		text, _ := b.MarshalText()
		var parsed Biome
		_ = parsed.UnmarshalText(text)
		if parsed != b {
			t.Errorf("biome %d round tripped to %d", b, parsed)
		}
	}

	if ParseBiome("swamp") != Plains {
		t.Error("unknown biome should fall back to plains")
	}
	if Biome(200).String() != "plains" {
		t.Error("out of range biome should print as plains")
	}
}

func TestData_At(t *testing.T) {
	data := NewData()
	defer data.Pool()

	data.Stride = 2
	data.Data = append(data.Data, 1, 2, 3, 4)

	if data.At(1, 1) != 4 || data.At(0, 1) != 3 {
		t.Error("At returned wrong heights")
	}
	if data.At(2, 0) != 0 || data.At(0, 2) != 0 || data.At(-1, 0) != 0 {
		t.Error("out of range At should return 0")
	}
}
