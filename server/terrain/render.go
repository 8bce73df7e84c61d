// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
)

type ColorVec [3]float32

var biomeColors = [biomeCount]ColorVec{
	Plains:    RGB(120, 180, 60),
	Ocean:     RGB(0, 50, 115),
	Beach:     RGB(194, 178, 128),
	Hills:     RGB(90, 140, 50),
	Mountains: RGB(105, 110, 115),
	Tundra:    Gray(220),
	Desert:    RGB(220, 200, 120),
	Forest:    RGB(30, 100, 40),
}

var riverColor = RGB(0, 75, 130)

// Render draws rect of s, one pixel per tile, shading each biome by normalized height.
// Tiles listed in overlay are drawn as water.
func Render(s Sampler, cfg Config, rect Rect, overlay []Point) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, rect.Width, rect.Depth))

	for j := 0; j < rect.Depth; j++ {
		for i := 0; i < rect.Width; i++ {
			x, z := rect.X+i, rect.Z+j
			h := s.Height(x, z)
			biome := s.Biome(x, z)

			c := BiomeColor(biome)
			shade := float32(cfg.Normalize(h))
			if biome.Water() {
				c = c.Mul(0.5 + shade)
			} else {
				c = c.Lerp(Gray(255), clamp((shade-0.5)*0.5))
			}

			img.Set(i, j, c.Color())
		}
	}

	for _, p := range overlay {
		if rect.Contains(p.X, p.Z) {
			img.Set(p.X-rect.X, p.Z-rect.Z, riverColor.Color())
		}
	}

	return img
}

// BiomeColor is the base map color of a biome.
func BiomeColor(b Biome) ColorVec {
	if b >= biomeCount {
		b = Plains
	}
	return biomeColors[b]
}

func Gray(v byte) ColorVec {
	return RGB(v, v, v)
}

func RGB(r, g, b byte) ColorVec {
	const factor = 1.0 / 255
	return ColorVec{float32(r) * factor, float32(g) * factor, float32(b) * factor}
}

func (vec ColorVec) String() string {
	return fmt.Sprintf("vec4(%.3f, %.3f, %.3f, 1.0)", vec[0], vec[1], vec[2])
}

func (vec ColorVec) Mul(v float32) ColorVec {
	vec[0] *= v
	vec[1] *= v
	vec[2] *= v
	return vec
}

func (vec ColorVec) Lerp(other ColorVec, factor float32) ColorVec {
	for i := range vec {
		vec[i] += (other[i] - vec[i]) * factor
	}
	return vec
}

func (vec ColorVec) Color() color.RGBA {
	return color.RGBA{R: floatToByte(vec[0]), G: floatToByte(vec[1]), B: floatToByte(vec[2]), A: 255}
}

func clamp(f float32) float32 {
	return math32.Max(0, math32.Min(1, f))
}

func floatToByte(f float32) byte {
	return byte(clamp(f) * 255)
}
