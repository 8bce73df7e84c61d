// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

// Biome is a classification label of a tile.
type Biome uint8

const (
	Plains Biome = iota
	Ocean
	Beach
	Hills
	Mountains
	Tundra
	Desert
	Forest
	biomeCount
)

var biomeNames = [biomeCount]string{
	Plains:    "plains",
	Ocean:     "ocean",
	Beach:     "beach",
	Hills:     "hills",
	Mountains: "mountains",
	Tundra:    "tundra",
	Desert:    "desert",
	Forest:    "forest",
}

// ParseBiome parses a biome name. Unknown names are Plains.
func ParseBiome(name string) Biome {
	for i, n := range biomeNames {
		if n == name {
			return Biome(i)
		}
	}
	return Plains
}

func (b Biome) String() string {
	if b >= biomeCount {
		return biomeNames[Plains]
	}
	return biomeNames[b]
}

// Water returns true for biomes that hold water.
func (b Biome) Water() bool {
	return b == Ocean
}

func (b Biome) AppendText(buf []byte) []byte {
	return append(buf, b.String()...)
}

func (b Biome) MarshalText() ([]byte, error) {
	return b.AppendText(nil), nil
}

func (b *Biome) UnmarshalText(text []byte) error {
	*b = ParseBiome(string(text))
	return nil
}
